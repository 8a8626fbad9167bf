package domain

// IndexState describes the facade lifecycle.
type IndexState string

// Lifecycle states. Transitions: Empty -> Indexing -> Ready, and
// Ready -> Indexing -> Ready on every rebuild. Ready never falls back
// to Empty except on an explicit corpus clear.
const (
	// IndexStateEmpty means no index has ever been published.
	IndexStateEmpty IndexState = "empty"

	// IndexStateIndexing means a rebuild is in flight. Reads are served
	// from the previously published index.
	IndexStateIndexing IndexState = "indexing"

	// IndexStateReady means a consistent index is published.
	IndexStateReady IndexState = "ready"
)

// String returns the string representation.
func (s IndexState) String() string {
	return string(s)
}

// SearchResult represents a single ranked hit. Lifecycle is
// request-scoped; the embedded document is a snapshot.
type SearchResult struct {
	// Document is the matched document.
	Document Document

	// Score is the cosine similarity in [0,1].
	Score float64

	// Paragraphs holds the matched sub-spans when the caller asked for
	// paragraph extraction. Nil otherwise.
	Paragraphs []string
}

// RetrievalSettings are the hot-swappable tunables recognised by the
// retrieval core. They apply on the next rebuild, without code change.
// The threshold and boost weights are empirically chosen; treat them
// as configuration, not precision requirements.
type RetrievalSettings struct {
	// MinSimilarity discards results scoring below it.
	MinSimilarity float64

	// VocabularyCap bounds the total vocabulary size. Zero means unbounded.
	VocabularyCap int

	// MaxDocFrequency drops terms appearing in more than this fraction
	// of documents as near-stopwords.
	MaxDocFrequency float64

	// ExtraStopwords extends the built-in bilingual stopword set.
	ExtraStopwords []string

	// MinParagraphLength discards shorter paragraph spans as noise,
	// measured in runes.
	MinParagraphLength int

	// BoostKeywords is the domain vocabulary that earns paragraphs and
	// sentences an additive bonus.
	BoostKeywords []string

	// KeywordBoost is the additive bonus per boost-keyword occurrence.
	KeywordBoost float64

	// MaxKeywords caps the per-document derived keyword list.
	MaxKeywords int

	// SummaryMaxLength caps the derived summary, in runes.
	SummaryMaxLength int

	// ContextPreviewLength is the raw-prefix length used by the last
	// rung of the context degradation ladder, in runes.
	ContextPreviewLength int
}

// DefaultRetrievalSettings mirror the tunables of the production corpus.
func DefaultRetrievalSettings() RetrievalSettings {
	return RetrievalSettings{
		MinSimilarity:      0.01,
		VocabularyCap:      5000,
		MaxDocFrequency:    0.95,
		MinParagraphLength: 20,
		BoostKeywords: []string{
			"pxi", "labview", "c#", "misd",
			"数据采集", "测控", "模块", "系统", "平台", "简仪",
		},
		KeywordBoost:         0.1,
		MaxKeywords:          20,
		SummaryMaxLength:     200,
		ContextPreviewLength: 500,
	}
}

// Normalised returns a copy with zero-value fields replaced by defaults,
// so a partially filled config file still yields a usable core.
func (s RetrievalSettings) Normalised() RetrievalSettings {
	def := DefaultRetrievalSettings()
	if s.MinSimilarity <= 0 {
		s.MinSimilarity = def.MinSimilarity
	}
	if s.VocabularyCap < 0 {
		s.VocabularyCap = def.VocabularyCap
	}
	if s.MaxDocFrequency <= 0 || s.MaxDocFrequency > 1 {
		s.MaxDocFrequency = def.MaxDocFrequency
	}
	if s.MinParagraphLength <= 0 {
		s.MinParagraphLength = def.MinParagraphLength
	}
	if s.BoostKeywords == nil {
		s.BoostKeywords = def.BoostKeywords
	}
	if s.KeywordBoost <= 0 {
		s.KeywordBoost = def.KeywordBoost
	}
	if s.MaxKeywords <= 0 {
		s.MaxKeywords = def.MaxKeywords
	}
	if s.SummaryMaxLength <= 0 {
		s.SummaryMaxLength = def.SummaryMaxLength
	}
	if s.ContextPreviewLength <= 0 {
		s.ContextPreviewLength = def.ContextPreviewLength
	}
	return s
}
