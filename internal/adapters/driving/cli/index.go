package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

var (
	indexTitle       string
	indexDescription string
	indexCategory    string
	indexType        string
)

var indexCmd = &cobra.Command{
	Use:   "index [file]",
	Short: "Add a document to the knowledge base",
	Long: `Extracts text from the file, derives keywords and a summary, and
schedules the document for inclusion in the term index. Supported
formats: PDF, Word (.docx), Excel (.xlsx), PowerPoint (.pptx), plain
text, Markdown and CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringVarP(&indexTitle, "title", "t", "", "document title (default: filename)")
	indexCmd.Flags().StringVarP(&indexDescription, "description", "d", "", "document description")
	indexCmd.Flags().StringVarP(&indexCategory, "category", "c", "", "document category (default: general)")
	indexCmd.Flags().StringVar(&indexType, "type", "", "declared file type, overriding the extension")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	upload := domain.Upload{
		Filename:     filepath.Base(path),
		Title:        indexTitle,
		Description:  indexDescription,
		Category:     indexCategory,
		DeclaredType: indexType,
		Data:         data,
	}

	doc, err := knowledgeService.Index(context.Background(), upload)
	switch {
	case errors.Is(err, domain.ErrExtractionDegraded):
		cmd.Printf("Stored %s (%s), but text extraction failed; the document will not be searchable.\n",
			doc.Title, doc.ID)
		return nil
	case errors.Is(err, domain.ErrAlreadyExists):
		return fmt.Errorf("identical content is already in the knowledge base")
	case err != nil:
		return fmt.Errorf("indexing failed: %w", err)
	}

	cmd.Printf("Indexed %s (%s)\n", doc.Title, doc.ID)
	cmd.Printf("  Type:     %s\n", doc.FileType)
	cmd.Printf("  Category: %s\n", doc.Category)
	if len(doc.Keywords) > 0 {
		cmd.Printf("  Keywords: %v\n", doc.Keywords)
	}
	return nil
}
