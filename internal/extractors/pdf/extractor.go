// Package pdf provides the extractor for PDF documents. It shells out
// to pdftotext (poppler-utils) through a CommandRunner so the
// conversion stays testable without the binary installed.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// maxTitleLineLength bounds the first line considered as a title.
const maxTitleLineLength = 200

// Extractor handles PDF documents.
type Extractor struct {
	runner driven.CommandRunner
}

// New creates a PDF extractor using the real pdftotext binary.
func New() *Extractor {
	return NewWithRunner(execRunner{})
}

// NewWithRunner creates a PDF extractor with a custom command runner.
func NewWithRunner(runner driven.CommandRunner) *Extractor {
	return &Extractor{runner: runner}
}

// Types returns the document types this extractor handles.
func (e *Extractor) Types() []domain.DocumentType {
	return []domain.DocumentType{domain.TypePDF}
}

// Extract converts the PDF bytes to text via pdftotext. The raw bytes
// go through a temporary file since pdftotext reads from disk.
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (*driven.ExtractResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	tmp, err := os.CreateTemp("", "corpus-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("%w: creating temp file: %v", domain.ErrExtraction, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw.Content); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("%w: writing temp file: %v", domain.ErrExtraction, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: closing temp file: %v", domain.ErrExtraction, err)
	}

	// "-" writes the text to stdout.
	output, err := e.runner.Run(ctx, "pdftotext", "-layout", tmp.Name(), "-")
	if err != nil {
		return nil, fmt.Errorf("%w: pdftotext failed: %v", domain.ErrExtraction, err)
	}

	content := strings.TrimSpace(string(output))
	return &driven.ExtractResult{
		Content: content,
		Title:   extractTitle(content),
	}, nil
}

// CheckAvailable reports whether pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns a hint for installing pdftotext.
func InstallInstructions() string {
	return "pdftotext is required for PDF ingestion.\n" +
		"  macOS:  brew install poppler\n" +
		"  Debian: apt install poppler-utils"
}

// extractTitle returns the first short non-empty line of the converted
// text, or the empty string.
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if len(line) > maxTitleLineLength {
			continue
		}
		return line
	}
	return ""
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}
