// Package cli implements the docquery command line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docquery-labs/docquery/internal/adapters/driven/answer/extractive"
	"github.com/docquery-labs/docquery/internal/adapters/driven/answer/openai"
	"github.com/docquery-labs/docquery/internal/adapters/driven/config/file"
	"github.com/docquery-labs/docquery/internal/adapters/driven/storage/sqlite"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
	"github.com/docquery-labs/docquery/internal/core/ports/driving"
	"github.com/docquery-labs/docquery/internal/core/services"
	"github.com/docquery-labs/docquery/internal/extractors"
	"github.com/docquery-labs/docquery/internal/logger"
	"github.com/docquery-labs/docquery/internal/tokenizer"
)

// version is set at build time via ldflags.
var version = "dev"

// Services used by the commands. Wired by ensureServices on first
// use; tests inject fakes directly.
var (
	knowledgeService driving.KnowledgeService
	answerGenerator  driven.AnswerGenerator
)

var (
	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "docquery",
	Short: "Document knowledge base with TF-IDF retrieval",
	Long: `docquery ingests product documentation (PDF, Word, Excel,
presentations, plain text), indexes it with a bilingual TF-IDF model,
and answers questions grounded in the most relevant passages.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}
		return ensureServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.docquery)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ensureServices wires the production composition once. Already-set
// services are left alone so tests can inject fakes.
func ensureServices() error {
	if knowledgeService != nil {
		return nil
	}

	baseDir := dataDir
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		baseDir = filepath.Join(home, ".docquery")
	}

	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		return fmt.Errorf("opening document store: %w", err)
	}

	settings, err := file.NewSettingsStore(baseDir)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	tok, err := tokenizer.New()
	if err != nil {
		return fmt.Errorf("loading segmenter dictionary: %w", err)
	}

	knowledgeService = services.NewKnowledgeBase(
		store,
		extractors.Default(),
		settings,
		tok,
		services.WithSnapshotPath(filepath.Join(baseDir, "data", "index.msgpack")),
	)
	answerGenerator = newAnswerGenerator()
	return nil
}

// newAnswerGenerator picks the completion backend. Without an API key
// the ask command still works, serving extracts instead of prose.
func newAnswerGenerator() driven.AnswerGenerator {
	apiKey := os.Getenv("DOCQUERY_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		logger.Debug("No API key configured, using extractive answers")
		return extractive.New()
	}

	gen, err := openai.New(openai.Config{
		APIKey:  apiKey,
		BaseURL: os.Getenv("DOCQUERY_API_BASE"),
		Model:   os.Getenv("DOCQUERY_MODEL"),
	})
	if err != nil {
		logger.Warn("Answer backend unavailable, using extractive answers: %v", err)
		return extractive.New()
	}
	return gen
}
