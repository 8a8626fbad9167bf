package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the term index from the full corpus",
	Long: `Rebuilds the TF-IDF index from every stored document and publishes
it atomically. Useful after editing retrieval settings.`,
	Args: cobra.NoArgs,
	RunE: runReindex,
}

var reindexAsync bool

func init() {
	reindexCmd.Flags().BoolVar(&reindexAsync, "async", false, "schedule the rebuild and return immediately")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	if reindexAsync {
		knowledgeService.TriggerReindex()
		cmd.Println("Rebuild scheduled.")
		return nil
	}

	err := knowledgeService.ReindexAll(context.Background())
	switch {
	case errors.Is(err, domain.ErrRebuildInProgress):
		cmd.Println("A rebuild is already in progress.")
		return nil
	case err != nil:
		return fmt.Errorf("reindex failed: %w", err)
	}

	stats, err := knowledgeService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	cmd.Printf("Reindexed %d documents.\n", stats.IndexedDocuments)
	return nil
}
