package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage stored documents",
	Long:  `List, view, or delete documents in the knowledge base.`,
}

var documentListDeleted bool

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print extracted document text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from search",
	Long: `Soft-deletes the document: its text stays stored for audit but it
drops out of search results after the next rebuild.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentDelete,
}

func init() {
	documentListCmd.Flags().BoolVar(&documentListDeleted, "deleted", false, "include soft-deleted documents")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	docs, err := knowledgeService.Documents(context.Background(), documentListDeleted)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents stored.")
		return nil
	}

	for i := range docs {
		doc := &docs[i]
		marker := " "
		if doc.Deleted {
			marker = "D"
		}
		cmd.Printf("%s %s  %-8s %s\n", marker, doc.ID, doc.FileType, doc.Title)
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	doc, err := knowledgeService.Document(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:    %s\n", doc.Title)
	cmd.Printf("  Filename: %s\n", doc.Filename)
	cmd.Printf("  Type:     %s\n", doc.FileType)
	cmd.Printf("  Category: %s\n", doc.Category)
	cmd.Printf("  Uploaded: %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	if doc.Deleted {
		cmd.Printf("  Deleted:  yes\n")
	}
	if doc.Description != "" {
		cmd.Printf("  Description: %s\n", doc.Description)
	}
	if len(doc.Keywords) > 0 {
		cmd.Printf("  Keywords: %v\n", doc.Keywords)
	}
	if doc.Summary != "" {
		cmd.Printf("\n  Summary:\n  %s\n", doc.Summary)
	}
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	doc, err := knowledgeService.Document(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if doc.Content == "" {
		cmd.Println("(no extracted text)")
		return nil
	}
	cmd.Println(doc.Content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if knowledgeService == nil {
		return errors.New("knowledge service not configured")
	}

	id := args[0]
	if err := knowledgeService.Delete(context.Background(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("no document with ID %s", id)
		}
		return fmt.Errorf("failed to delete document: %w", err)
	}

	cmd.Printf("Document %s removed from search.\n", id)
	return nil
}
