package index

import (
	"math"
	"sort"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/logger"
)

// Hit is a ranked match against the index.
type Hit struct {
	// Document is a snapshot of the matched document.
	Document domain.Document

	// Score is the cosine similarity in [0,1].
	Score float64
}

// Search ranks all indexed documents against queryText by cosine
// similarity and returns the top-K above minSimilarity, best first.
// Ties keep corpus insertion order. An untrained index, an empty
// query, or a query sharing no vocabulary with the corpus all return
// an empty result set, never an error.
func (ix *TermIndex) Search(tok Tokenizer, queryText string, topK int, minSimilarity float64) []Hit {
	if !ix.Trained() || topK <= 0 {
		return nil
	}

	query := ix.queryVector(tok, queryText)
	if len(query) == 0 {
		logger.Debug("Search: query %q has no indexed terms", queryText)
		return nil
	}

	hits := make([]Hit, 0, topK)
	for i, vec := range ix.vectors {
		score := dot(query, vec)
		if score > minSimilarity {
			hits = append(hits, Hit{Document: ix.docs[i], Score: score})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits
}

// queryVector builds the ephemeral L2-normalised query vector from
// the same tokenizer and vocabulary that produced this index. Unknown
// terms are simply absent; no partial matching, no fuzzy expansion.
// Document frequency is irrelevant for queries: queries are not part
// of the corpus, so weights are raw term frequencies.
func (ix *TermIndex) queryVector(tok Tokenizer, queryText string) map[int]float64 {
	vec := make(map[int]float64)
	for _, term := range tok.Tokenize(queryText) {
		if id, ok := ix.vocabulary[term]; ok {
			vec[id]++
		}
	}
	normalise(vec)
	return vec
}

// dot computes the sparse dot product, iterating the smaller side.
func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, av := range a {
		if bv, ok := b[id]; ok {
			sum += av * bv
		}
	}
	// Clamp fp drift so scores stay in [0,1].
	return math.Min(sum, 1)
}
