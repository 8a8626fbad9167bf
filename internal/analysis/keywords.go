package analysis

import "sort"

// Tokenizer is the minimal term-splitting dependency. Satisfied by
// *tokenizer.Tokenizer.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Keywords returns the top max terms by frequency in text, after the
// shared token filter. Ties resolve by first occurrence so the result
// is stable across runs.
func Keywords(tok Tokenizer, text string, max int) []string {
	if max <= 0 || text == "" {
		return nil
	}

	terms := tok.Tokenize(text)
	if len(terms) == 0 {
		return nil
	}

	counts := make(map[string]int, len(terms))
	firstSeen := make(map[string]int, len(terms))
	for i, term := range terms {
		if _, ok := firstSeen[term]; !ok {
			firstSeen[term] = i
		}
		counts[term]++
	}

	unique := make([]string, 0, len(counts))
	for term := range counts {
		unique = append(unique, term)
	}
	sort.Slice(unique, func(i, j int) bool {
		if counts[unique[i]] != counts[unique[j]] {
			return counts[unique[i]] > counts[unique[j]]
		}
		return firstSeen[unique[i]] < firstSeen[unique[j]]
	})

	if len(unique) > max {
		unique = unique[:max]
	}
	return unique
}
