// Package docx provides the extractor for DOCX documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles DOCX documents.
type Extractor struct{}

// New creates a new DOCX extractor.
func New() *Extractor {
	return &Extractor{}
}

// Types returns the document types this extractor handles.
func (e *Extractor) Types() []domain.DocumentType {
	return []domain.DocumentType{domain.TypeDOCX}
}

// Extract reads the document body out of the DOCX archive. The title
// comes from docProps/core.xml when the document carries one.
func (e *Extractor) Extract(_ context.Context, raw *domain.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	reader, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: not a valid docx archive: %v", domain.ErrExtraction, err)
	}

	content, err := extractDocumentText(reader)
	if err != nil {
		return nil, err
	}

	return &driven.ExtractResult{
		Content: content,
		Title:   extractCoreTitle(reader),
	}, nil
}

// extractDocumentText extracts text from word/document.xml.
func extractDocumentText(reader *zip.Reader) (string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return "", fmt.Errorf("%w: opening document.xml: %v", domain.ErrExtraction, err)
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", fmt.Errorf("%w: reading document.xml: %v", domain.ErrExtraction, err)
		}

		return parseDocumentXML(content)
	}
	return "", fmt.Errorf("%w: archive has no word/document.xml", domain.ErrExtraction)
}

// documentXML represents the structure of word/document.xml.
type documentXML struct {
	Body struct {
		Paragraphs []paragraph `xml:"p"`
	} `xml:"body"`
}

type paragraph struct {
	Runs []run `xml:"r"`
}

type run struct {
	Text []textElement `xml:"t"`
}

type textElement struct {
	Content string `xml:",chardata"`
}

// parseDocumentXML extracts text content from the document XML.
func parseDocumentXML(content []byte) (string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return "", fmt.Errorf("%w: malformed document.xml: %v", domain.ErrExtraction, err)
	}

	var result strings.Builder
	for i, para := range doc.Body.Paragraphs {
		if i > 0 {
			result.WriteString("\n")
		}
		for _, run := range para.Runs {
			for _, text := range run.Text {
				result.WriteString(text.Content)
			}
		}
	}

	return strings.TrimSpace(result.String()), nil
}

// coreXML represents the structure of docProps/core.xml.
type coreXML struct {
	Title string `xml:"title"`
}

// extractCoreTitle reads the title from docProps/core.xml, or returns
// the empty string. Title metadata is optional in the format, so any
// failure here is not an error.
func extractCoreTitle(reader *zip.Reader) string {
	for _, file := range reader.File {
		if file.Name != "docProps/core.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return ""
		}

		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return ""
		}

		var core coreXML
		if err := xml.Unmarshal(content, &core); err == nil {
			return strings.TrimSpace(core.Title)
		}
		return ""
	}
	return ""
}
