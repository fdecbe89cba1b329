package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/adapters/driving/watch"
)

var watchExtensions []string

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Mirror a directory into the knowledge base",
	Long: `Watches a directory and keeps the knowledge base in sync with it.

Files created or modified under the directory are re-ingested; removed
files have their documents deleted. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringSliceVar(&watchExtensions, "ext", nil,
		"file extensions to mirror (default .txt,.text,.md,.markdown,.html,.htm)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	watcher, err := watch.New(ingestService, nil, watchExtensions)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck // Best-effort cleanup

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", args[0])

	if err := watcher.Run(cmd.Context(), args[0]); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch failed: %w", err)
	}
	return nil
}
