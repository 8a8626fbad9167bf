package analysis

import (
	"sort"
	"strings"
)

// RelevantParagraphs locates the sub-spans of a document most relevant
// to a question, independent of the whole-document score.
//
// Paragraphs are newline-delimited; spans under minLength runes are
// discarded as noise. Each paragraph scores the overlap ratio between
// question terms and paragraph terms, plus boost per occurrence of a
// domain keyword, so a paragraph dense in recognised technical
// vocabulary survives even with low raw overlap. Only strictly
// positive scores are returned, best first, at most maxSpans.
func RelevantParagraphs(
	tok Tokenizer, content, question string,
	maxSpans, minLength int, boostKeywords []string, boost float64,
) []string {
	if content == "" || maxSpans <= 0 {
		return nil
	}

	paragraphs := splitParagraphs(content, minLength)
	if len(paragraphs) == 0 {
		return nil
	}

	questionTerms := termSet(tok.Tokenize(question))
	if len(questionTerms) == 0 {
		return nil
	}

	type scored struct {
		text  string
		score float64
	}
	results := make([]scored, 0, len(paragraphs))
	for _, p := range paragraphs {
		paragraphTerms := termSet(tok.Tokenize(p))

		matched := 0
		for term := range questionTerms {
			if _, ok := paragraphTerms[term]; ok {
				matched++
			}
		}
		score := float64(matched) / float64(len(questionTerms))

		lower := strings.ToLower(p)
		for _, kw := range boostKeywords {
			score += boost * float64(strings.Count(lower, strings.ToLower(kw)))
		}

		if score > 0 {
			results = append(results, scored{text: p, score: score})
		}
	}

	// Stable keeps document order among equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if len(results) > maxSpans {
		results = results[:maxSpans]
	}

	spans := make([]string, len(results))
	for i, r := range results {
		spans[i] = r.text
	}
	return spans
}

// splitParagraphs cuts content on newlines and keeps spans of at
// least minLength runes.
func splitParagraphs(content string, minLength int) []string {
	lines := strings.Split(content, "\n")
	paragraphs := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if len([]rune(line)) >= minLength {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}

// termSet converts a term list to a set.
func termSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}
