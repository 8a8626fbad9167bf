package extractors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

type stubExtractor struct {
	types []domain.FileType
	text  string
	err   error
	panic bool
}

func (s *stubExtractor) SupportedTypes() []domain.FileType { return s.types }

func (s *stubExtractor) Extract(_ context.Context, _ []byte) (string, error) {
	if s.panic {
		panic("corrupt offset table")
	}
	return s.text, s.err
}

func TestExtract_Dispatch(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{types: []domain.FileType{domain.FileTypeText}, text: "  hello  "})

	text, err := r.Extract(context.Background(), domain.FileTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestExtract_UnsupportedFormat(t *testing.T) {
	r := NewRegistry()

	_, err := r.Extract(context.Background(), domain.FileTypePDF, nil)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExtract_FailureDegrades(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{
		types: []domain.FileType{domain.FileTypeWord},
		err:   errors.New("open document archive: zip: not a valid zip file"),
	})

	text, err := r.Extract(context.Background(), domain.FileTypeWord, []byte("legacy .doc"))
	assert.Empty(t, text)
	assert.ErrorIs(t, err, domain.ErrExtractionDegraded)
	assert.ErrorContains(t, err, "not a valid zip file")
}

func TestExtract_PanicDegrades(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{types: []domain.FileType{domain.FileTypeExcel}, panic: true})

	text, err := r.Extract(context.Background(), domain.FileTypeExcel, nil)
	assert.Empty(t, text)
	assert.ErrorIs(t, err, domain.ErrExtractionDegraded)
	assert.ErrorContains(t, err, "corrupt offset table")
}

func TestRegister_LaterWins(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubExtractor{types: []domain.FileType{domain.FileTypeText}, text: "first"})
	r.Register(&stubExtractor{types: []domain.FileType{domain.FileTypeText}, text: "second"})

	text, err := r.Extract(context.Background(), domain.FileTypeText, nil)
	require.NoError(t, err)
	assert.Equal(t, "second", text)
}

func TestDefault_CoversAllFormats(t *testing.T) {
	r := Default()

	types := r.SupportedTypes()
	assert.ElementsMatch(t, []domain.FileType{
		domain.FileTypePDF,
		domain.FileTypeWord,
		domain.FileTypeExcel,
		domain.FileTypeSlides,
		domain.FileTypeText,
	}, types)
}
