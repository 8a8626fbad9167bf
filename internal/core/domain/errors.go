package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. None of them may
// surface as a hard failure on the question-answering path: callers
// degrade to empty results or fallback context instead.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a document with identical content
	// is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor is registered for the
	// declared file type. A missing capability is first-class and
	// observable, never a silent fallback.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtractionDegraded indicates a document's text could not be
	// obtained. Non-fatal: the document is kept but stays unsearchable.
	ErrExtractionDegraded = errors.New("extraction degraded")

	// ErrIndexUntrained indicates the term index has zero usable
	// documents. Searches return empty results, not an error.
	ErrIndexUntrained = errors.New("index untrained")

	// ErrRebuildInProgress indicates a rebuild request arrived while one
	// is active. Requests are rejected, not queued.
	ErrRebuildInProgress = errors.New("rebuild in progress")

	// ErrInvalidQuery indicates a query that is empty or entirely
	// stopwords after normalisation.
	ErrInvalidQuery = errors.New("invalid query")
)
