package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/readers"
)

var (
	ingestID      string
	ingestReplace bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the knowledge base",
	Long: `Reads the given files, splits them into chunks, embeds each chunk,
and stores the result for retrieval.

Document IDs are derived from the filename unless --id is given.
Re-ingesting a known ID fails; pass --replace to overwrite it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestID, "id", "", "document ID (single file only)")
	ingestCmd.Flags().BoolVar(&ingestReplace, "replace", false, "delete an existing document with the same ID first")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestID != "" && len(args) > 1 {
		return errors.New("--id can only be used with a single file")
	}

	registry := readers.Default()
	ctx := cmd.Context()

	for _, path := range args {
		docID := ingestID
		if docID == "" {
			docID = readers.DocID(path)
		}

		extracted, err := registry.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		if ingestReplace {
			if err := ingestService.DeleteDocument(ctx, docID); err != nil && !errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("failed to replace %s: %w", docID, err)
			}
		}

		result, err := ingestService.ProcessDocument(ctx, extracted.Text, docID, map[string]any{
			"source":     extracted.Title,
			"source_uri": path,
			"format":     extracted.Format,
		})
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				return fmt.Errorf("document %q already exists (use --replace to overwrite): %w", docID, err)
			}
			if errors.Is(err, domain.ErrNoContent) {
				cmd.Printf("Skipped %s: no content\n", path)
				continue
			}
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}

		cmd.Printf("Ingested %s as %s (%d chunks)\n", path, result.DocID, result.ChunkCount)
	}

	return nil
}
