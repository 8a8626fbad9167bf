// Package domain defines the core business entities for Docquery.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An extracted document with metadata
//   - Upload: Raw file bytes handed over by the upload layer
//   - SearchResult: A ranked hit against the published term index
//   - RetrievalSettings: Hot-swappable retrieval tunables
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
