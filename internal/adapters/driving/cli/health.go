package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var healthJSON bool

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check retrieval store health",
	Long: `Reports the vector index state alongside the content store chunk
count. A mismatch means a document is searchable in one store only;
run 'docqa reconcile' on the affected document to repair it.`,
	RunE: runHealth,
}

func init() {
	healthCmd.Flags().BoolVar(&healthJSON, "json", false, "output the report as JSON")
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()

	report, err := queryService.Health(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	if healthJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if report.IndexAvailable {
		cmd.Println("Vector index:  available")
	} else {
		cmd.Println("Vector index:  UNAVAILABLE")
		if report.IndexError != "" {
			cmd.Printf("  Last error: %s\n", report.IndexError)
		}
	}
	cmd.Printf("Index entries: %d\n", report.IndexEntries)
	cmd.Printf("Stored chunks: %d\n", report.StoredChunks)

	if report.InSync {
		cmd.Println("Status:        in sync")
	} else {
		cmd.Println("Status:        OUT OF SYNC")
	}

	return nil
}
