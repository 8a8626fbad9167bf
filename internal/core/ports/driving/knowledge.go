package driving

import (
	"context"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

// KnowledgeService is the knowledge base facade. It owns the current
// term index and orchestrates extraction, indexing and retrieval.
//
// No error from Search or RelevantContext may surface as a hard
// failure on the question-answering path; both degrade to empty
// results instead.
type KnowledgeService interface {
	// Index ingests an upload: extracts text, derives keywords and a
	// summary, stores the document, and schedules inclusion in the
	// next rebuild. Fire-and-forget from the caller's perspective;
	// the document becomes searchable with the next completed rebuild.
	Index(ctx context.Context, upload domain.Upload) (*domain.Document, error)

	// Search returns the top-K documents ranked by similarity to query.
	// A blank query or an untrained index answers empty, not an error.
	Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)

	// RelevantContext assembles the grounding text block for question,
	// formatted as "[Title] (score)" blocks separated by blank lines.
	// Empty when nothing qualifies.
	RelevantContext(ctx context.Context, question string, maxDocs int) (string, error)

	// ReindexAll rebuilds the term index from the full corpus and
	// publishes it atomically. A second call while one rebuild is in
	// flight returns domain.ErrRebuildInProgress.
	ReindexAll(ctx context.Context) error

	// TriggerReindex schedules a background rebuild and returns
	// immediately. Triggers arriving during an in-flight rebuild
	// coalesce into its follow-up pass.
	TriggerReindex()

	// Document retrieves one document by ID.
	Document(ctx context.Context, id string) (*domain.Document, error)

	// Documents lists stored documents, optionally including
	// soft-deleted ones.
	Documents(ctx context.Context, includeDeleted bool) ([]domain.Document, error)

	// Delete soft-deletes a document and schedules a rebuild.
	Delete(ctx context.Context, id string) error

	// Stats summarises corpus and index state.
	Stats(ctx context.Context) (*domain.Stats, error)

	// State reports the facade lifecycle state.
	State() domain.IndexState
}
