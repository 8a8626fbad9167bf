package plaintext

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor handles plain text and Markdown documents.
// Input bytes run through a fixed ordered list of encodings before
// the extractor gives up: UTF-8, GBK, GB18030, Latin-1.
type Extractor struct {
	encodings []encoding.Encoding
}

// New creates a plain text extractor.
func New() *Extractor {
	return &Extractor{
		encodings: []encoding.Encoding{
			simplifiedchinese.GBK,
			simplifiedchinese.GB18030,
			charmap.ISO8859_1,
		},
	}
}

// SupportedTypes returns the file types this extractor handles.
func (e *Extractor) SupportedTypes() []domain.FileType {
	return []domain.FileType{domain.FileTypeText}
}

// Extract decodes the bytes with the first encoding that produces a
// clean result. Latin-1 accepts any byte sequence, so the ladder
// always terminates with some text.
func (e *Extractor) Extract(_ context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range e.encodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		text := string(decoded)
		// Replacement runes mean the guess was wrong; try the next one.
		if !strings.ContainsRune(text, utf8.RuneError) {
			return text, nil
		}
	}

	// Unreachable in practice (Latin-1 maps every byte), kept for the
	// interface contract.
	return "", nil
}
