package pdf

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarry-labs/corpus/internal/core/domain"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.args = append([]string{name}, args...)
	return m.output, m.err
}

func TestTypes(t *testing.T) {
	assert.Equal(t, []domain.DocumentType{domain.TypePDF}, New().Types())
}

func TestExtract(t *testing.T) {
	runner := &mockRunner{output: []byte("Incident Response Plan\n\nStep one: stay calm.\n")}
	extractor := NewWithRunner(runner)

	result, err := extractor.Extract(context.Background(), &domain.RawDocument{Content: []byte("%PDF-1.4 fake")})

	require.NoError(t, err)
	assert.Equal(t, "Incident Response Plan\n\nStep one: stay calm.", result.Content)
	assert.Equal(t, "Incident Response Plan", result.Title)

	require.NotEmpty(t, runner.args)
	assert.Equal(t, "pdftotext", runner.args[0])
	assert.Equal(t, "-layout", runner.args[1])
	assert.Equal(t, "-", runner.args[len(runner.args)-1])
}

func TestExtract_RunnerError(t *testing.T) {
	runner := &mockRunner{err: errors.New("exit status 1")}
	extractor := NewWithRunner(runner)

	_, err := extractor.Extract(context.Background(), &domain.RawDocument{Content: []byte("broken")})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtract_NilInput(t *testing.T) {
	_, err := New().Extract(context.Background(), nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "first line",
			content: "Annual Report\nBody text here.",
			want:    "Annual Report",
		},
		{
			name:    "skips blank lines",
			content: "\n\n  \nRelease Notes\nmore",
			want:    "Release Notes",
		},
		{
			name:    "skips overlong first line",
			content: strings.Repeat("x", maxTitleLineLength+1) + "\nShort Title",
			want:    "Short Title",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractTitle(tt.content))
		})
	}
}

func TestInstallInstructions(t *testing.T) {
	hint := InstallInstructions()
	assert.Contains(t, hint, "poppler")
}
