package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memstore "github.com/quarry-labs/corpus/internal/adapters/driven/storage/memory"
	"github.com/quarry-labs/corpus/internal/core/domain"
)

func setupTestStore(t *testing.T) func() {
	t.Helper()

	cleanup := setupTestServices()

	store := memstore.NewDocumentStore()
	err := store.SaveDocument(context.Background(), &domain.Document{
		ID:        "doc-1",
		Title:     "Expense Policy",
		Content:   "Expenses are reimbursed within five days.",
		Type:      domain.TypeText,
		Category:  "finance",
		Tags:      []string{"policy"},
		Version:   1,
		CreatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	documentStore = store

	return cleanup
}

func TestDocsListCmd(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "list"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "doc-1")
	assert.Contains(t, buf.String(), "Expense Policy")
	assert.Contains(t, buf.String(), "Total: 1 documents")
}

func TestDocsShowCmd(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "show", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Expense Policy")
	assert.Contains(t, buf.String(), "finance")
	assert.NotContains(t, buf.String(), "reimbursed within")
}

func TestDocsShowCmd_WithContent(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"docs", "show", "--content", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		docsShowContent = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Expenses are reimbursed within five days.")
}

func TestDocsShowCmd_NotFound(t *testing.T) {
	cleanup := setupTestStore(t)
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"docs", "show", "ghost"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
