// Package memory provides in-memory driven adapters for tests and
// ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Insertion order is preserved, matching the SQLite adapter.
type DocumentStore struct {
	mu    sync.RWMutex
	order []string
	docs  map[string]*domain.Document
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs: make(map[string]*domain.Document),
	}
}

// SaveDocument stores a document, rejecting duplicate live content.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc.ContentHash != "" {
		for _, id := range s.order {
			d := s.docs[id]
			if d.ContentHash == doc.ContentHash && !d.Deleted {
				return fmt.Errorf("content matches document %s: %w", d.ID, domain.ErrAlreadyExists)
			}
		}
	}
	if _, exists := s.docs[doc.ID]; exists {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}

	copied := *doc
	s.docs[doc.ID] = &copied
	s.order = append(s.order, doc.ID)
	return nil
}

// GetDocument retrieves a document by ID, soft-deleted or not.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

// FindByContentHash locates a live document by content fingerprint.
func (s *DocumentStore) FindByContentHash(_ context.Context, hash string) (*domain.Document, error) {
	if hash == "" {
		return nil, domain.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		d := s.docs[id]
		if d.ContentHash == hash && !d.Deleted {
			copied := *d
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListDocuments returns documents in insertion order.
func (s *DocumentStore) ListDocuments(_ context.Context, includeDeleted bool) ([]domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Document, 0, len(s.order))
	for _, id := range s.order {
		d := s.docs[id]
		if d.Deleted && !includeDeleted {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

// SoftDelete marks a document inactive.
func (s *DocumentStore) SoftDelete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Deleted = true
	return nil
}

// Close releases nothing; present to satisfy the interface.
func (s *DocumentStore) Close() error {
	return nil
}
