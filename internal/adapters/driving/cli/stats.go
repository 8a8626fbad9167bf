package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	stats, err := knowledgeService.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Printf("Knowledge base\n\n")
	cmd.Printf("  Documents: %d stored, %d indexed\n", stats.TotalDocuments, stats.IndexedDocuments)
	cmd.Printf("  State:     %s\n", stats.IndexState)
	if !stats.IndexBuiltAt.IsZero() {
		cmd.Printf("  Built:     %s\n", stats.IndexBuiltAt.Format("2006-01-02 15:04:05"))
	}

	printTally(cmd, "By type", stats.ByType)
	printTally(cmd, "By category", stats.ByCategory)
	return nil
}

func printTally(cmd *cobra.Command, heading string, tally map[string]int) {
	if len(tally) == 0 {
		return
	}
	keys := make([]string, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cmd.Printf("\n  %s:\n", heading)
	for _, k := range keys {
		cmd.Printf("    %-10s %d\n", k, tally[k])
	}
}
