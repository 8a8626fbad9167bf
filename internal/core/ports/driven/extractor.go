package driven

import (
	"context"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

// Extractor converts raw file bytes of specific formats into plain
// text. Each format extractor is a capability registered at startup;
// a missing capability for a type is an observable condition
// (domain.ErrUnsupportedFormat), never a silent fallback.
type Extractor interface {
	// SupportedTypes returns the file types this extractor handles.
	SupportedTypes() []domain.FileType

	// Extract converts file bytes to plain text. Implementations must
	// never panic past this boundary; on internal failure they return
	// an empty string and a non-nil error, which the registry surfaces
	// as domain.ErrExtractionDegraded.
	Extract(ctx context.Context, data []byte) (string, error)
}

// ExtractorRegistry dispatches extraction by declared file type.
type ExtractorRegistry interface {
	// Register adds an extractor for the types it supports.
	Register(extractor Extractor)

	// Extract dispatches to the registered extractor for fileType.
	// Returns domain.ErrUnsupportedFormat when no capability exists,
	// and wraps domain.ErrExtractionDegraded on extractor failure;
	// in both cases ingestion continues with empty text.
	Extract(ctx context.Context, fileType domain.FileType, data []byte) (string, error)

	// SupportedTypes returns every file type with a registered capability.
	SupportedTypes() []domain.FileType
}
