package driven

import "github.com/docquery-labs/docquery/internal/core/domain"

// SettingsStore supplies the retrieval tunables. Implementations may
// watch their backing file and serve updated values; the facade reads
// settings at the start of every rebuild, which is what makes them
// hot-swappable without touching a published index.
type SettingsStore interface {
	// Retrieval returns the current retrieval settings.
	Retrieval() domain.RetrievalSettings
}
