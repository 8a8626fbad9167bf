package index

import (
	"math"
	"sort"
	"time"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/logger"
)

// Tokenizer is the term-splitting dependency. It must be the same
// implementation at build time and query time.
type Tokenizer interface {
	Tokenize(text string) []string
}

// TermIndex maps a document corpus to an L2-normalised TF-IDF weight
// matrix. Read-only once built.
type TermIndex struct {
	// vocabulary maps a normalised term to its stable integer id.
	// A rebuild constructs a fresh vocabulary rather than mutating a
	// shared one, so ids never drift within one index.
	vocabulary map[string]int

	// vectors holds one sparse L2-normalised weight vector per
	// document, parallel to docs.
	vectors []map[int]float64

	// docs is the indexed document list in corpus insertion order.
	docs []domain.Document

	builtAt time.Time
}

// Build constructs a TermIndex from the searchable subset of docs.
// Soft-deleted documents and documents with empty extracted text are
// skipped: indexing an all-zero vector is meaningless and would
// corrupt normalisation. Zero usable documents yields an untrained
// index that answers every query empty.
func Build(tok Tokenizer, docs []domain.Document, settings domain.RetrievalSettings) *TermIndex {
	settings = settings.Normalised()

	ix := &TermIndex{builtAt: time.Now()}
	tokenised := make([][]string, 0, len(docs))
	for i := range docs {
		if !docs[i].Searchable() {
			continue
		}
		ix.docs = append(ix.docs, docs[i])
		tokenised = append(tokenised, tok.Tokenize(docs[i].CombinedText()))
	}
	if len(ix.docs) == 0 {
		logger.Warn("Index build: no searchable documents, index stays untrained")
		return ix
	}

	ix.vocabulary = buildVocabulary(tokenised, settings)
	if len(ix.vocabulary) == 0 {
		logger.Warn("Index build: no surviving terms, index stays untrained")
		ix.docs = nil
		return ix
	}

	// Document frequencies over the pruned vocabulary.
	totalDocs := float64(len(ix.docs))
	df := make([]int, len(ix.vocabulary))
	for _, terms := range tokenised {
		seen := make(map[int]struct{})
		for _, term := range terms {
			if id, ok := ix.vocabulary[term]; ok {
				if _, dup := seen[id]; !dup {
					seen[id] = struct{}{}
					df[id]++
				}
			}
		}
	}

	// Smoothed IDF: log((1+N)/(1+df)) + 1. The +1s avoid division by
	// zero and zero-weight collapse for universal terms.
	idf := make([]float64, len(df))
	for id, n := range df {
		idf[id] = math.Log((1+totalDocs)/(1+float64(n))) + 1
	}

	ix.vectors = make([]map[int]float64, len(ix.docs))
	for i, terms := range tokenised {
		tf := make(map[int]float64)
		for _, term := range terms {
			if id, ok := ix.vocabulary[term]; ok {
				tf[id]++
			}
		}
		for id := range tf {
			tf[id] *= idf[id]
		}
		normalise(tf)
		ix.vectors[i] = tf
	}

	logger.Info("Index build: %d documents, %d terms", len(ix.docs), len(ix.vocabulary))
	return ix
}

// buildVocabulary prunes near-stopwords by document frequency, caps
// the vocabulary by collection frequency, and assigns stable ids in
// lexicographic order.
func buildVocabulary(tokenised [][]string, settings domain.RetrievalSettings) map[string]int {
	df := make(map[string]int)
	cf := make(map[string]int)
	for _, terms := range tokenised {
		seen := make(map[string]struct{})
		for _, term := range terms {
			cf[term]++
			if _, dup := seen[term]; !dup {
				seen[term] = struct{}{}
				df[term]++
			}
		}
	}

	// Terms in more than MaxDocFrequency of documents carry no signal.
	// The ceiling keeps tiny corpora usable: with two documents a term
	// present in both survives.
	cutoff := int(math.Ceil(settings.MaxDocFrequency * float64(len(tokenised))))
	terms := make([]string, 0, len(df))
	for term, n := range df {
		if n > cutoff {
			continue
		}
		terms = append(terms, term)
	}

	// Cap total vocabulary size, keeping the most frequent terms.
	if settings.VocabularyCap > 0 && len(terms) > settings.VocabularyCap {
		sort.Slice(terms, func(i, j int) bool {
			if cf[terms[i]] != cf[terms[j]] {
				return cf[terms[i]] > cf[terms[j]]
			}
			return terms[i] < terms[j]
		})
		terms = terms[:settings.VocabularyCap]
	}

	sort.Strings(terms)
	vocab := make(map[string]int, len(terms))
	for id, term := range terms {
		vocab[term] = id
	}
	return vocab
}

// normalise scales a sparse vector to unit L2 norm in place.
func normalise(vec map[int]float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for id := range vec {
		vec[id] /= norm
	}
}

// Trained reports whether the index can answer queries.
func (ix *TermIndex) Trained() bool {
	return ix != nil && len(ix.docs) > 0 && len(ix.vocabulary) > 0
}

// Len returns the number of indexed documents.
func (ix *TermIndex) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.docs)
}

// BuiltAt returns the build timestamp.
func (ix *TermIndex) BuiltAt() time.Time {
	if ix == nil {
		return time.Time{}
	}
	return ix.builtAt
}

// Documents returns the indexed document list in insertion order.
// Callers must treat it as read-only.
func (ix *TermIndex) Documents() []domain.Document {
	if ix == nil {
		return nil
	}
	return ix.docs
}
