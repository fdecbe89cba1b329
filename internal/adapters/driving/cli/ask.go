package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about ingested documents",
	Long: `Embeds the question, retrieves the most relevant chunks from the
knowledge base, and asks the language model for an answer grounded in
that context. When nothing relevant is found the model is not called.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()

	answer, err := queryService.Query(ctx, args[0])
	if err != nil {
		if errors.Is(err, domain.ErrEmptyInput) {
			return errors.New("question cannot be empty")
		}
		return fmt.Errorf("query failed: %w", err)
	}

	if askJSON {
		return outputAnswerJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	if answer.ContextUsed {
		cmd.Println()
		cmd.Printf("(based on %d context chunks)\n", answer.ChunkCount)
	}
	return nil
}

func outputAnswerJSON(cmd *cobra.Command, answer *domain.Answer) error {
	data, err := json.MarshalIndent(answer, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
