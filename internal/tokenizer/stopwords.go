package tokenizer

// defaultStopwords returns the built-in bilingual stopword set.
// High-frequency function words in either script contribute nothing
// to retrieval and only inflate the vocabulary.
func defaultStopwords() map[string]struct{} {
	words := []string{
		// English
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"for", "to", "of", "in", "on", "at", "by", "with", "as",
		"is", "are", "was", "were", "be", "been", "being", "it",
		"this", "that", "these", "those", "from", "up", "down",
		"over", "under", "again", "further", "than", "so", "such",
		"into", "about", "between", "through", "during", "before",
		"after", "above", "below", "out", "off", "own", "same",
		"too", "very", "can", "will", "just", "should", "now",
		// Chinese
		"的", "了", "在", "是", "我", "有", "和", "就", "不", "人",
		"都", "一", "一个", "上", "也", "很", "到", "说", "要", "去",
		"你", "会", "着", "没有", "看", "好", "自己", "这",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
