package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var askDocs int

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question grounded in the knowledge base",
	Long: `Retrieves the most relevant passages for the question and feeds
them to the configured answer backend. Without an API key the matched
passages themselves are returned.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVar(&askDocs, "docs", 3, "maximum number of source documents")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}
	if answerGenerator == nil {
		return errors.New("answer backend not configured")
	}

	question := args[0]
	ctx := context.Background()

	contextText, err := knowledgeService.RelevantContext(ctx, question, askDocs)
	if err != nil {
		return fmt.Errorf("retrieving context: %w", err)
	}

	answer, err := answerGenerator.Answer(ctx, question, contextText)
	if err != nil {
		return fmt.Errorf("generating answer: %w", err)
	}

	cmd.Println(answer)
	return nil
}
