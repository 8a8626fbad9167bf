package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docquery-labs/docquery/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is a SQLite-backed document store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store under dataDir. If dataDir is empty,
// defaults to ~/.docquery/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docquery", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// WAL mode for concurrent readers during ingestion.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
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

// SaveDocument stores a document. A live document with the same
// content hash already present is rejected with domain.ErrAlreadyExists;
// documents without extracted content carry an empty hash and are
// never deduplicated.
func (s *Store) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc.ContentHash != "" {
		var existing string
		err := s.db.QueryRowContext(ctx,
			"SELECT id FROM documents WHERE content_hash = ? AND deleted = 0", doc.ContentHash,
		).Scan(&existing)
		switch {
		case err == nil:
			return fmt.Errorf("content matches document %s: %w", existing, domain.ErrAlreadyExists)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("checking content hash: %w", err)
		}
	}

	keywordsJSON, err := json.Marshal(doc.Keywords)
	if err != nil {
		return fmt.Errorf("marshalling keywords: %w", err)
	}

	uploadedAt := doc.UploadedAt
	if uploadedAt.IsZero() {
		uploadedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, title, description, category, file_type,
			content, content_hash, keywords, summary, uploaded_at, deleted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Filename, doc.Title, doc.Description, doc.Category, doc.FileType.String(),
		doc.Content, doc.ContentHash, string(keywordsJSON), doc.Summary,
		uploadedAt, boolToInt(doc.Deleted))
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID, soft-deleted or not.
func (s *Store) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, title, description, category, file_type,
			content, content_hash, keywords, summary, uploaded_at, deleted
		FROM documents WHERE id = ?
	`, id)
	return scanDocument(row)
}

// FindByContentHash locates a live document by content fingerprint.
func (s *Store) FindByContentHash(ctx context.Context, hash string) (*domain.Document, error) {
	if hash == "" {
		return nil, domain.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, title, description, category, file_type,
			content, content_hash, keywords, summary, uploaded_at, deleted
		FROM documents WHERE content_hash = ? AND deleted = 0
	`, hash)
	return scanDocument(row)
}

// ListDocuments returns documents in insertion order.
func (s *Store) ListDocuments(ctx context.Context, includeDeleted bool) ([]domain.Document, error) {
	query := `
		SELECT id, filename, title, description, category, file_type,
			content, content_hash, keywords, summary, uploaded_at, deleted
		FROM documents`
	if !includeDeleted {
		query += " WHERE deleted = 0"
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		doc, err := scanDocument(rows)
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

// SoftDelete marks a document inactive.
func (s *Store) SoftDelete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE documents SET deleted = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("soft-deleting document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking soft delete: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one document row.
func scanDocument(row rowScanner) (*domain.Document, error) {
	var doc domain.Document
	var fileType, keywordsJSON string
	var uploadedAt sql.NullTime
	var deleted int

	err := row.Scan(&doc.ID, &doc.Filename, &doc.Title, &doc.Description, &doc.Category,
		&fileType, &doc.Content, &doc.ContentHash, &keywordsJSON, &doc.Summary,
		&uploadedAt, &deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	if err := json.Unmarshal([]byte(keywordsJSON), &doc.Keywords); err != nil {
		return nil, fmt.Errorf("unmarshaling keywords: %w", err)
	}
	doc.FileType = domain.FileType(fileType)
	if uploadedAt.Valid {
		doc.UploadedAt = uploadedAt.Time
	}
	doc.Deleted = deleted != 0
	return &doc, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
