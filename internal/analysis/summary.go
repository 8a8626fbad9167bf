package analysis

import (
	"regexp"
	"sort"
	"strings"
)

// minSummarySentence is the minimum sentence length considered for the
// summary, in runes. Shorter fragments are headings or list bullets.
const minSummarySentence = 10

var sentenceSplit = regexp.MustCompile(`[。！？.!?\n]+`)

// Summarize selects the sentences richest in domain vocabulary until
// maxLength runes are used. When no sentence mentions a boost keyword
// the leading text is returned instead, so every non-empty document
// gets a summary.
func Summarize(text string, boostKeywords []string, maxLength int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = 200
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return truncateRunes(strings.TrimSpace(text), maxLength)
	}

	type scored struct {
		idx   int
		score int
	}
	var important []scored
	for i, sentence := range sentences {
		score := 0
		lower := strings.ToLower(sentence)
		for _, kw := range boostKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				score++
			}
		}
		if score > 0 {
			important = append(important, scored{idx: i, score: score})
		}
	}
	sort.SliceStable(important, func(i, j int) bool {
		return important[i].score > important[j].score
	})

	var parts []string
	length := 0
	for _, s := range important {
		sentence := sentences[s.idx]
		n := len([]rune(sentence))
		if length+n > maxLength {
			break
		}
		parts = append(parts, sentence)
		length += n
	}

	if len(parts) == 0 {
		return truncateRunes(sentences[0], maxLength)
	}
	return strings.Join(parts, " ")
}

// splitSentences cuts text on sentence terminators of either script
// and drops fragments below the minimum length.
func splitSentences(text string) []string {
	raw := sentenceSplit.Split(text, -1)
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if len([]rune(s)) > minSummarySentence {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// truncateRunes shortens s to max runes.
func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
