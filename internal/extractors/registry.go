// Package extractors implements the content extraction capability
// registry. Each file-type extractor is a variant implementing one
// interface, registered at startup; dispatch is by declared type.
package extractors

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
	"github.com/docquery-labs/docquery/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry dispatches extraction by declared file type.
type Registry struct {
	byType map[domain.FileType]driven.Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[domain.FileType]driven.Extractor),
	}
}

// Register adds an extractor for every type it supports.
// Later registrations win, so hosts can override built-ins.
func (r *Registry) Register(extractor driven.Extractor) {
	for _, t := range extractor.SupportedTypes() {
		r.byType[t] = extractor
	}
}

// Extract dispatches to the registered extractor for fileType.
// A missing capability is a first-class ErrUnsupportedFormat. Any
// extractor failure, error or panic alike, degrades to empty text
// with ErrExtractionDegraded so ingestion never aborts.
func (r *Registry) Extract(ctx context.Context, fileType domain.FileType, data []byte) (string, error) {
	extractor, ok := r.byType[fileType]
	if !ok {
		return "", fmt.Errorf("%s: %w", fileType, domain.ErrUnsupportedFormat)
	}

	text, err := safeExtract(ctx, extractor, data)
	if err != nil {
		logger.Warn("Extraction degraded: format=%s stage=extract: %v", fileType, err)
		return "", fmt.Errorf("%s: %w: %w", fileType, domain.ErrExtractionDegraded, err)
	}
	return strings.TrimSpace(text), nil
}

// SupportedTypes returns every file type with a registered capability.
func (r *Registry) SupportedTypes() []domain.FileType {
	types := make([]domain.FileType, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// safeExtract converts extractor panics into errors. Nothing may
// throw past the extraction boundary.
func safeExtract(ctx context.Context, e driven.Extractor, data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("extractor panic: %v", rec)
		}
	}()
	return e.Extract(ctx, data)
}
