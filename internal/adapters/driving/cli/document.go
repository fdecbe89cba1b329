package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage ingested documents",
	Long:  `List or delete documents in the knowledge base.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	RunE:  runDocumentList,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Long:  `Removes a document from the registry, the content store, and the vector index.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile [doc-id]",
	Short: "Rebuild the vector index for a document",
	Long: `Rebuilds a document's vector index entries from the content store.

Use this when the index and the content store have drifted apart, for
example after the index backend was unreachable during ingestion.`,
	Args: cobra.ExactArgs(1),
	RunE: runReconcile,
}

func init() {
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
	rootCmd.AddCommand(reconcileCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	ctx := cmd.Context()

	docs, err := ingestService.ListDocuments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		if docs[i].Source != "" {
			cmd.Printf("    Source: %s\n", docs[i].Source)
		}
		cmd.Printf("    Chunks: %d\n", docs[i].ChunkCount)
		cmd.Printf("    Created: %s\n", docs[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	ctx := cmd.Context()

	if err := ingestService.DeleteDocument(ctx, docID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q not found", docID)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Deleted document %s\n", docID)
	return nil
}

func runReconcile(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	docID := args[0]
	ctx := cmd.Context()

	count, err := ingestService.Reconcile(ctx, docID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("document %q not found", docID)
		}
		return fmt.Errorf("failed to reconcile document: %w", err)
	}

	cmd.Printf("Reconciled %s: %d chunks indexed\n", docID, count)
	return nil
}
