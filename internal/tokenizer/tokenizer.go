// Package tokenizer segments mixed-script text into normalised terms.
//
// Ideographic runs are segmented with gse (no inter-word spacing in
// that script family); alphabetic runs fall out of the same pass as
// whitespace/punctuation-delimited tokens. The post-segmentation
// filter is applied identically at indexing time and query time; any
// asymmetry silently breaks retrieval.
package tokenizer

import (
	"strings"
	"unicode"

	"github.com/go-ego/gse"
)

// MinTermLength is the minimum token length in code points.
const MinTermLength = 2

// Tokenizer produces a finite, restartable term sequence from text.
// Safe for concurrent use once constructed.
type Tokenizer struct {
	seg       gse.Segmenter
	stopwords map[string]struct{}
}

// New creates a tokenizer with the built-in bilingual stopword set
// plus any extra stopwords. Loading the embedded dictionary is the
// expensive part; construct once and share.
func New(extraStopwords ...string) (*Tokenizer, error) {
	t := &Tokenizer{
		stopwords: defaultStopwords(),
	}
	for _, w := range extraStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			t.stopwords[w] = struct{}{}
		}
	}
	if err := t.seg.LoadDictEmbed(); err != nil {
		return nil, err
	}
	return t, nil
}

// WithExtraStopwords returns a tokenizer sharing this one's segmenter
// dictionary but filtering the given extra stopwords as well. Cheap;
// the embedded dictionary is not reloaded.
func (t *Tokenizer) WithExtraStopwords(words ...string) *Tokenizer {
	if len(words) == 0 {
		return t
	}
	clone := &Tokenizer{
		seg:       t.seg,
		stopwords: make(map[string]struct{}, len(t.stopwords)+len(words)),
	}
	for w := range t.stopwords {
		clone.stopwords[w] = struct{}{}
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			clone.stopwords[w] = struct{}{}
		}
	}
	return clone
}

// Tokenize splits text into normalised terms. Order follows the
// source text; it is irrelevant to the index but downstream keyword
// extraction counts first occurrences.
func (t *Tokenizer) Tokenize(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	segments := t.seg.Cut(text, true)
	terms := make([]string, 0, len(segments))
	for _, s := range segments {
		term := strings.ToLower(strings.TrimSpace(s))
		if t.keep(term) {
			terms = append(terms, term)
		}
	}
	return terms
}

// keep applies the shared index/query filter.
func (t *Tokenizer) keep(term string) bool {
	runes := []rune(term)
	if len(runes) < MinTermLength {
		return false
	}
	if _, stop := t.stopwords[term]; stop {
		return false
	}

	numeric := true
	for _, r := range runes {
		switch {
		case unicode.IsDigit(r):
			continue
		case unicode.IsLetter(r), r == '-', r == '_', r == '#':
			numeric = false
		default:
			// Punctuation or symbol runs carry no search value.
			return false
		}
	}
	// Purely numeric tokens are dropped.
	return !numeric
}
