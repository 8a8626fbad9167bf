package driven

import (
	"context"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

// DocumentStore persists documents and their extracted metadata.
// The retrieval core treats storage mechanics as opaque; it only
// reads rows back for rebuilds and writes metadata on ingestion.
type DocumentStore interface {
	// SaveDocument stores a document. Returns domain.ErrAlreadyExists
	// when a document with the same content hash is already stored.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID, soft-deleted or not.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// FindByContentHash locates a live document by its content
	// fingerprint; soft-deleted rows are not matched. Ingestion uses
	// it to reject duplicate uploads.
	FindByContentHash(ctx context.Context, hash string) (*domain.Document, error)

	// ListDocuments returns documents in insertion order. Soft-deleted
	// documents are included only when includeDeleted is set.
	ListDocuments(ctx context.Context, includeDeleted bool) ([]domain.Document, error)

	// SoftDelete marks a document inactive. Content is retained for
	// audit; the document drops out of search on the next rebuild.
	SoftDelete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
