package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()

	entries, err := queryService.History(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No history recorded.")
		return nil
	}

	for i := range entries {
		cmd.Printf("[%s]\n", entries[i].CreatedAt.Format("2006-01-02 15:04:05"))
		cmd.Printf("Q: %s\n", entries[i].Question)
		cmd.Printf("A: %s\n", entries[i].Answer)
		cmd.Println()
	}

	return nil
}
