package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

var (
	searchLimit    int
	searchJSON     bool
	searchCategory string
	searchTags     []string
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Answers a query with ranked documents. Retrieval embeds the
query, searches the vector index and ranks the matching documents by
title, content and tag relevance. When the vector index or embedding
provider is unavailable, results come from text search instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict results to a category")
	searchCmd.Flags().StringSliceVarP(&searchTags, "tag", "t", nil, "require all given tags (repeatable)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retrieval service not configured")
	}

	filters := domain.SearchFilters{
		Limit:    searchLimit,
		Category: searchCategory,
		Tags:     searchTags,
	}

	results, err := retrieverService.RetrieveDocuments(cmd.Context(), args[0], filters)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.RankedDocument) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.RankedDocument) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		title := results[i].Document.Title
		if title == "" {
			title = results[i].Document.ID
		}

		cmd.Printf("  [%d] %s (relevance %.2f, confidence %.2f)\n",
			i+1, title, results[i].RelevanceScore, results[i].Confidence)
		if results[i].Document.Category != "" {
			cmd.Printf("      Category: %s\n", results[i].Document.Category)
		}
		for _, highlight := range results[i].Highlights {
			cmd.Printf("      %s\n", highlight)
		}
		cmd.Println()
	}

	return nil
}
