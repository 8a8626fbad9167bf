package extractors

import (
	"github.com/docquery-labs/docquery/internal/extractors/excel"
	"github.com/docquery-labs/docquery/internal/extractors/pdf"
	"github.com/docquery-labs/docquery/internal/extractors/plaintext"
	"github.com/docquery-labs/docquery/internal/extractors/slides"
	"github.com/docquery-labs/docquery/internal/extractors/word"
)

// RegisterDefaults registers all built-in extractors with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(pdf.New())
	r.Register(word.New())
	r.Register(excel.New())
	r.Register(slides.New())
	r.Register(plaintext.New())
}

// Default returns a registry with every built-in extractor registered.
func Default() *Registry {
	r := NewRegistry()
	RegisterDefaults(r)
	return r
}
