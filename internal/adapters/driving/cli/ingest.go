package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/extractors/pdf"
)

var (
	ingestCategory string
	ingestTags     []string
	ingestTitle    string
	ingestType     string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest documents into the corpus",
	Long: `Reads each file, extracts its text, splits it into chunks and
indexes the chunk embeddings. The file path becomes the document's
source reference, so re-ingesting the same file updates the existing
document in place.

Supported types: txt, md, html, docx, pdf (requires pdftotext).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestCategory, "category", "c", "", "document category")
	ingestCmd.Flags().StringSliceVarP(&ingestTags, "tag", "t", nil, "document tags (repeatable)")
	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (single file only)")
	ingestCmd.Flags().StringVar(&ingestType, "type", "", "override the type derived from the file extension")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if err := ensureServices(); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestTitle != "" && len(args) > 1 {
		return errors.New("--title applies to a single file only")
	}

	raws := make([]domain.RawDocument, 0, len(args))
	for _, path := range args {
		raw, err := rawDocumentFromFile(path)
		if err != nil {
			return err
		}
		raws = append(raws, *raw)
	}

	if needsPDFTool(raws) {
		if err := pdf.CheckAvailable(); err != nil {
			return fmt.Errorf("%w\n%s", err, pdf.InstallInstructions())
		}
	}

	results := ingestService.IngestBatch(cmd.Context(), raws)

	failures := 0
	for i, res := range results {
		if res.Err != nil {
			failures++
			cmd.Printf("  FAIL %s: %v\n", args[i], res.Err)
			continue
		}
		cmd.Printf("  OK   %s -> %s (v%d)\n", args[i], res.Document.ID, res.Document.Version)
	}

	cmd.Printf("Ingested %d/%d documents.\n", len(results)-failures, len(results))
	if failures > 0 {
		return fmt.Errorf("%d of %d documents failed", failures, len(results))
	}
	return nil
}

// rawDocumentFromFile reads a file into a RawDocument. The absolute
// path becomes the SourceRef so repeated ingests update in place.
func rawDocumentFromFile(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	docType := domain.DocumentType(ingestType)
	if ingestType == "" {
		docType = typeFromPath(path)
	}
	if !domain.ValidType(docType) {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	return &domain.RawDocument{
		Title:     ingestTitle,
		Type:      docType,
		Content:   content,
		Category:  ingestCategory,
		Tags:      ingestTags,
		SourceRef: abs,
	}, nil
}

// typeFromPath derives the document type from the file extension.
func typeFromPath(path string) domain.DocumentType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".text":
		return domain.TypeText
	case ".md", ".markdown":
		return domain.TypeMarkdown
	case ".html", ".htm":
		return domain.TypeHTML
	case ".docx":
		return domain.TypeDOCX
	case ".pdf":
		return domain.TypePDF
	}
	return ""
}

func needsPDFTool(raws []domain.RawDocument) bool {
	for i := range raws {
		if raws[i].Type == domain.TypePDF {
			return true
		}
	}
	return false
}
