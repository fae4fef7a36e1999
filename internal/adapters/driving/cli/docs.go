package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Inspect ingested documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all documents",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Show a document's metadata and content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

var docsShowContent bool

func init() {
	docsShowCmd.Flags().BoolVar(&docsShowContent, "content", false, "print the full extracted content")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	docs, err := documentStore.ListDocuments(cmd.Context())
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested.")
		return nil
	}

	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Title: %s\n", docs[i].Title)
		cmd.Printf("    Type: %s  Version: %d\n", docs[i].Type, docs[i].Version)
		if docs[i].Category != "" {
			cmd.Printf("    Category: %s\n", docs[i].Category)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if documentStore == nil {
		return errors.New("document store not configured")
	}

	doc, err := documentStore.FindDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:        %s\n", doc.ID)
	cmd.Printf("Title:     %s\n", doc.Title)
	cmd.Printf("Type:      %s\n", doc.Type)
	cmd.Printf("Version:   %d\n", doc.Version)
	if doc.Category != "" {
		cmd.Printf("Category:  %s\n", doc.Category)
	}
	if len(doc.Tags) > 0 {
		cmd.Printf("Tags:      %s\n", strings.Join(doc.Tags, ", "))
	}
	if doc.SourceRef != "" {
		cmd.Printf("Source:    %s\n", doc.SourceRef)
	}
	cmd.Printf("Created:   %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Updated:   %s\n", doc.UpdatedAt.Format("2006-01-02 15:04:05"))

	if docsShowContent {
		cmd.Println()
		cmd.Println(doc.Content)
	}
	return nil
}
