package domain

import (
	"crypto/md5" //nolint:gosec // Content fingerprint for dedupe, not security.
	"encoding/hex"
	"time"
)

// Document represents an uploaded file after content extraction.
// It is immutable once indexed except for the Deleted flag.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the stored file name.
	Filename string

	// Title is the human-readable title. Defaults to the filename.
	Title string

	// Description is an optional free-form description.
	Description string

	// Category groups documents (e.g. "manual", "datasheet", "general").
	Category string

	// FileType is the declared format the content was extracted from.
	FileType FileType

	// Content is the full plain text after extraction.
	// Empty when extraction degraded; such documents stay listed but
	// are excluded from the term index.
	Content string

	// ContentHash fingerprints the extracted text for duplicate detection.
	ContentHash string

	// Keywords are the top terms by frequency after token filtering.
	Keywords []string

	// Summary is a heuristically selected sentence digest.
	Summary string

	// UploadedAt is when the document entered the knowledge base.
	UploadedAt time.Time

	// Deleted marks a soft-deleted document. Content is retained for
	// audit but the document is excluded from search.
	Deleted bool
}

// Searchable reports whether the document participates in indexing.
// Soft-deleted documents and documents with degraded extraction are
// stored but never indexed.
func (d *Document) Searchable() bool {
	return !d.Deleted && d.Content != ""
}

// CombinedText returns the token stream source for indexing: title,
// description and body as one block. Title terms are not up-weighted
// beyond their natural repetition.
func (d *Document) CombinedText() string {
	return d.Title + "\n" + d.Description + "\n" + d.Content
}

// HashContent fingerprints extracted text the same way for every caller.
func HashContent(text string) string {
	sum := md5.Sum([]byte(text)) //nolint:gosec // Dedupe fingerprint only.
	return hex.EncodeToString(sum[:])
}

// Upload is the input handed over by the upload-handling layer.
type Upload struct {
	// Filename is the original file name including extension.
	Filename string

	// Title overrides the display title. Empty means derive from filename.
	Title string

	// Description is an optional free-form description.
	Description string

	// Category groups the document. Empty means "general".
	Category string

	// DeclaredType is the MIME type or extension declared by the caller.
	DeclaredType string

	// Data is the raw file bytes.
	Data []byte
}

// Stats summarises the knowledge base for operator dashboards.
type Stats struct {
	// TotalDocuments counts every stored document, including degraded ones.
	TotalDocuments int

	// IndexedDocuments counts documents present in the published index.
	IndexedDocuments int

	// ByType tallies documents per file type.
	ByType map[string]int

	// ByCategory tallies documents per category.
	ByCategory map[string]int

	// IndexState describes the facade lifecycle state.
	IndexState IndexState

	// IndexBuiltAt is when the published index was built. Zero when empty.
	IndexBuiltAt time.Time
}
