package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quarry-labs/corpus/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quarry-labs/corpus/internal/core/domain"
	"github.com/quarry-labs/corpus/internal/core/ports/driven"
)

var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store. Documents and chunks live in
// two tables; embeddings are stored as little-endian float32 blobs so a
// local vector index can be rebuilt from the store at startup.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.corpus/data/corpus.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".corpus", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "corpus.db")

	// WAL mode for better concurrency.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number ("001_initial.up.sql" -> 1).
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveDocument stores or updates a document.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}
	tagsJSON, err := json.Marshal(domain.NormaliseTags(doc.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = now
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, type, category, tags, source_ref, version, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			type = excluded.type,
			category = excluded.category,
			tags = excluded.tags,
			source_ref = excluded.source_ref,
			version = excluded.version,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Title, doc.Content, string(doc.Type), doc.Category, string(tagsJSON),
		doc.SourceRef, doc.Version, string(metadataJSON), doc.CreatedAt, doc.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// FindDocument retrieves a document by ID.
func (s *Store) FindDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, type, category, tags, source_ref, version, metadata, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns all documents, oldest first.
func (s *Store) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, type, category, tags, source_ref, version, metadata, created_at, updated_at
		FROM documents ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// ListChunks retrieves all chunks for a document, ordered by position.
func (s *Store) ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, document_id, position, content, start_offset, end_offset, word_count, token_count, section, embedding, metadata
		FROM chunks WHERE document_id = ?
		ORDER BY position
	`, documentID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows.Scan)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// ReplaceChunks replaces the whole chunk set of a document in one
// transaction.
func (s *Store) ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE document_id = ?", documentID); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, document_id, position, content, start_offset, end_offset, word_count, token_count, section, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}

		embeddingBlob := float32SliceToBytes(chunk.Embedding)

		if _, err := stmt.ExecContext(ctx, chunk.ID, documentID, chunk.Index, chunk.Content,
			chunk.StartOffset, chunk.EndOffset, chunk.WordCount, chunk.TokenCount,
			chunk.Section, embeddingBlob, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; its chunks go with it via the
// foreign key cascade. Unknown ids return domain.ErrNotFound.
func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: document %s", domain.ErrNotFound, id)
	}
	return nil
}

// SearchText performs a lexical substring search over title and
// content. Category matching happens in SQL; tag and date filters apply
// after scanning since tags live in a JSON column.
func (s *Store) SearchText(
	ctx context.Context, query string, filters domain.SearchFilters,
) ([]domain.Document, error) {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	if queryLower == "" {
		return nil, nil
	}

	args := []any{"%" + queryLower + "%", "%" + queryLower + "%"}
	sqlQuery := `
		SELECT id, title, content, type, category, tags, source_ref, version, metadata, created_at, updated_at
		FROM documents
		WHERE (LOWER(title) LIKE ? OR LOWER(content) LIKE ?)
	`
	if filters.Category != "" {
		sqlQuery += " AND category = ?"
		args = append(args, filters.Category)
	}
	sqlQuery += " ORDER BY created_at, id"

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		if !filters.Match(doc) {
			continue
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// scanDocument scans one document row via the given scan function.
func scanDocument(scan func(dest ...any) error) (*domain.Document, error) {
	var doc domain.Document
	var docType, tagsJSON, metadataJSON string
	var createdAt, updatedAt sql.NullTime

	if err := scan(&doc.ID, &doc.Title, &doc.Content, &docType, &doc.Category,
		&tagsJSON, &doc.SourceRef, &doc.Version, &metadataJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Type = domain.DocumentType(docType)
	if err := json.Unmarshal([]byte(tagsJSON), &doc.Tags); err != nil {
		return nil, fmt.Errorf("unmarshaling tags: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling metadata: %w", err)
	}
	if createdAt.Valid {
		doc.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		doc.UpdatedAt = updatedAt.Time
	}

	return &doc, nil
}

// scanChunk scans one chunk row via the given scan function.
func scanChunk(scan func(dest ...any) error) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var embeddingBlob []byte
	var metadataJSON string

	if err := scan(&chunk.ID, &chunk.DocumentID, &chunk.Index, &chunk.Content,
		&chunk.StartOffset, &chunk.EndOffset, &chunk.WordCount, &chunk.TokenCount,
		&chunk.Section, &embeddingBlob, &metadataJSON); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", err)
	}

	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshaling chunk metadata: %w", err)
	}

	return &chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
