package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
	"github.com/docquery-labs/docquery/internal/tokenizer"
)

// memStore is an in-memory DocumentStore test double.
type memStore struct {
	mu   sync.Mutex
	docs []domain.Document

	// listCalls counts ListDocuments invocations; listGate, when set,
	// blocks the first call until released.
	listCalls int
	listGate  chan struct{}
}

func (m *memStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ContentHash != "" {
		for _, d := range m.docs {
			if d.ContentHash == doc.ContentHash && !d.Deleted {
				return domain.ErrAlreadyExists
			}
		}
	}
	m.docs = append(m.docs, *doc)
	return nil
}

func (m *memStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == id {
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) FindByContentHash(_ context.Context, hash string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ContentHash == hash && !m.docs[i].Deleted {
			doc := m.docs[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memStore) ListDocuments(_ context.Context, includeDeleted bool) ([]domain.Document, error) {
	m.mu.Lock()
	m.listCalls++
	gate := m.listGate
	if gate != nil {
		m.listGate = nil
	}
	m.mu.Unlock()
	if gate != nil {
		<-gate
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Document, 0, len(m.docs))
	for _, d := range m.docs {
		if d.Deleted && !includeDeleted {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (m *memStore) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.docs {
		if m.docs[i].ID == id {
			m.docs[i].Deleted = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memStore) Close() error { return nil }

func (m *memStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// passthroughRegistry treats upload bytes as already-extracted text.
type passthroughRegistry struct {
	degrade bool
}

func (r *passthroughRegistry) Register(driven.Extractor) {}

func (r *passthroughRegistry) Extract(_ context.Context, fileType domain.FileType, data []byte) (string, error) {
	if r.degrade {
		return "", fmt.Errorf("%s: %w: archive truncated", fileType, domain.ErrExtractionDegraded)
	}
	if fileType == domain.FileTypeUnknown {
		return "", fmt.Errorf("%s: %w", fileType, domain.ErrUnsupportedFormat)
	}
	return string(data), nil
}

func (r *passthroughRegistry) SupportedTypes() []domain.FileType { return nil }

// staticSettings serves fixed retrieval settings.
type staticSettings struct {
	settings domain.RetrievalSettings
}

func (s *staticSettings) Retrieval() domain.RetrievalSettings { return s.settings }

var (
	sharedTok     *tokenizer.Tokenizer
	sharedTokOnce sync.Once
)

// testTokenizer shares one segmenter across tests; the embedded
// dictionary load dominates test runtime otherwise.
func testTokenizer(t *testing.T) *tokenizer.Tokenizer {
	t.Helper()
	sharedTokOnce.Do(func() {
		tok, err := tokenizer.New()
		if err != nil {
			t.Fatalf("tokenizer: %v", err)
		}
		sharedTok = tok
	})
	return sharedTok
}

func newTestKB(t *testing.T, store *memStore, opts ...Option) *KnowledgeBase {
	t.Helper()
	return NewKnowledgeBase(
		store,
		&passthroughRegistry{},
		&staticSettings{settings: domain.DefaultRetrievalSettings()},
		testTokenizer(t),
		opts...,
	)
}

func upload(filename, content string) domain.Upload {
	return domain.Upload{
		Filename:     filename,
		DeclaredType: "text/plain",
		Data:         []byte(content),
	}
}

func waitReady(t *testing.T, kb *KnowledgeBase) {
	t.Helper()
	require.Eventually(t, func() bool {
		return kb.State() == domain.IndexStateReady
	}, 5*time.Second, 10*time.Millisecond)
}

func TestIndex_StoresAndBecomesSearchable(t *testing.T) {
	store := &memStore{}
	kb := newTestKB(t, store)
	ctx := context.Background()

	doc, err := kb.Index(ctx, upload("pxi-guide.txt",
		"The PXI data acquisition module supports 32 analog channels."))
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "pxi-guide", doc.Title)
	assert.Equal(t, "general", doc.Category)
	assert.NotEmpty(t, doc.ContentHash)
	assert.NotEmpty(t, doc.Keywords)
	assert.NotEmpty(t, doc.Summary)

	waitReady(t, kb)
	results, err := kb.Search(ctx, "data acquisition channels", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, doc.ID, results[0].Document.ID)
	assert.Greater(t, results[0].Score, 0.01)
}

func TestIndex_InvalidInput(t *testing.T) {
	kb := newTestKB(t, &memStore{})

	_, err := kb.Index(context.Background(), domain.Upload{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = kb.Index(context.Background(), domain.Upload{Filename: "a.txt"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestIndex_UnsupportedFormat(t *testing.T) {
	kb := newTestKB(t, &memStore{})

	_, err := kb.Index(context.Background(), domain.Upload{
		Filename: "firmware.bin",
		Data:     []byte{0x00, 0x01},
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestIndex_DegradedExtractionStoresUnsearchable(t *testing.T) {
	store := &memStore{}
	kb := NewKnowledgeBase(
		store,
		&passthroughRegistry{degrade: true},
		&staticSettings{settings: domain.DefaultRetrievalSettings()},
		testTokenizer(t),
	)
	ctx := context.Background()

	doc, err := kb.Index(ctx, upload("legacy.doc", "unreadable"))
	require.ErrorIs(t, err, domain.ErrExtractionDegraded)
	require.NotNil(t, doc)
	assert.Empty(t, doc.Content)
	assert.Empty(t, doc.ContentHash)
	assert.False(t, doc.Searchable())

	docs, err := kb.Documents(ctx, false)
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestIndex_DuplicateContent(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	_, err := kb.Index(ctx, upload("first.txt", "identical body of text here"))
	require.NoError(t, err)

	_, err = kb.Index(ctx, upload("second.txt", "identical body of text here"))
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestIndex_SoftDeleteFreesContentHash(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	first, err := kb.Index(ctx, upload("first.txt", "reusable body of text here"))
	require.NoError(t, err)
	require.NoError(t, kb.Delete(ctx, first.ID))

	again, err := kb.Index(ctx, upload("again.txt", "reusable body of text here"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, again.ID)
}

func TestSearch_EmptyNotError(t *testing.T) {
	kb := newTestKB(t, &memStore{})

	// Empty corpus: every query answers empty without failing.
	results, err := kb.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// A whitespace-only query behaves like an all-stopword one.
	results, err = kb.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_RanksByRelevance(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	_, err := kb.Index(ctx, upload("daq.txt",
		"PXI data acquisition module with synchronous sampling across chassis slots."))
	require.NoError(t, err)
	_, err = kb.Index(ctx, upload("gen.txt",
		"Arbitrary waveform generator overview and calibration procedure."))
	require.NoError(t, err)

	waitReady(t, kb)
	require.Eventually(t, func() bool {
		results, err := kb.Search(ctx, "data acquisition sampling", 5)
		return err == nil && len(results) >= 1
	}, 5*time.Second, 10*time.Millisecond)

	results, err := kb.Search(ctx, "data acquisition sampling", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "daq", results[0].Document.Title)
}

func TestRelevantContext_FormatsBlocks(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	content := "Chassis installation requires a grounded rack and torque-limited screws.\n" +
		"The data acquisition module samples thirty-two channels simultaneously at high rates.\n" +
		"Warranty terms are listed in the appendix of this manual for reference."
	_, err := kb.Index(ctx, upload("manual.txt", content))
	require.NoError(t, err)

	waitReady(t, kb)
	text, err := kb.RelevantContext(ctx, "data acquisition channels sampling", 3)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.True(t, strings.HasPrefix(text, "[manual] ("), "got %q", text)
	assert.Contains(t, text, "samples thirty-two channels")
	assert.NotContains(t, text, "Warranty terms")
}

func TestRelevantContext_EmptyWhenUntrained(t *testing.T) {
	kb := newTestKB(t, &memStore{})

	text, err := kb.RelevantContext(context.Background(), "anything at all", 3)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestRelevantContext_FallsBackToSummary(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	// Every content line is under the paragraph length floor, so the
	// ladder lands on the stored summary.
	_, err := kb.Index(ctx, domain.Upload{
		Filename:     "notes.txt",
		Description:  "spectrum analyzer calibration workflow",
		DeclaredType: "text/plain",
		Data:         []byte("short note\nanother one\ncalibration steps"),
	})
	require.NoError(t, err)

	waitReady(t, kb)
	text, err := kb.RelevantContext(ctx, "spectrum analyzer calibration", 3)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "[notes]")
	assert.Contains(t, text, "another one")
}

func TestRelevantContext_RawPrefixLadder(t *testing.T) {
	// Seed the store directly with a document that has no summary, the
	// only way to reach the last ladder rung.
	store := &memStore{}
	longContent := strings.Repeat("tiny row\n", 80)
	store.docs = append(store.docs, domain.Document{
		ID:          "seeded",
		Filename:    "rows.txt",
		Title:       "rows",
		Description: "oscilloscope trigger configuration matrix",
		FileType:    domain.FileTypeText,
		Content:     longContent,
		ContentHash: domain.HashContent(longContent),
		UploadedAt:  time.Now(),
	})

	kb := newTestKB(t, store)
	ctx := context.Background()
	require.NoError(t, kb.ReindexAll(ctx))

	text, err := kb.RelevantContext(ctx, "oscilloscope trigger configuration", 3)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "[rows]")
	assert.Contains(t, text, "...")
	assert.Less(t, len(text), len(longContent))
}

func TestDelete_RemovesFromSearch(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	doc, err := kb.Index(ctx, upload("ephemeral.txt",
		"temporary calibration notes for the spectrum analyzer"))
	require.NoError(t, err)
	waitReady(t, kb)

	require.NoError(t, kb.Delete(ctx, doc.ID))
	require.Eventually(t, func() bool {
		results, err := kb.Search(ctx, "calibration spectrum analyzer", 5)
		return err == nil && len(results) == 0
	}, 5*time.Second, 10*time.Millisecond)

	// Soft delete keeps the row.
	all, err := kb.Documents(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Deleted)

	visible, err := kb.Documents(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, visible)
}

func TestDelete_NotFound(t *testing.T) {
	kb := newTestKB(t, &memStore{})

	err := kb.Delete(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReindexAll_CoalescesConcurrentTriggers(t *testing.T) {
	store := &memStore{}
	gate := make(chan struct{})
	store.listGate = gate
	kb := newTestKB(t, store)

	done := make(chan error, 1)
	go func() { done <- kb.ReindexAll(context.Background()) }()

	// The first rebuild is parked inside ListDocuments; a second call
	// must refuse and mark the corpus dirty.
	require.Eventually(t, func() bool {
		return kb.State() == domain.IndexStateIndexing
	}, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, kb.ReindexAll(context.Background()), domain.ErrRebuildInProgress)

	close(gate)
	require.NoError(t, <-done)

	// The dirty flag forces a follow-up build after the first completes.
	assert.GreaterOrEqual(t, store.calls(), 2)
}

func TestTriggerReindex(t *testing.T) {
	store := &memStore{docs: []domain.Document{{
		ID:      "seeded",
		Title:   "Chassis Manual",
		Content: "PXI chassis slot assignment and cooling requirements.",
	}}}
	kb := newTestKB(t, store)

	require.Equal(t, domain.IndexStateEmpty, kb.State())

	kb.TriggerReindex()
	waitReady(t, kb)

	results, err := kb.Search(context.Background(), "chassis cooling", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "seeded", results[0].Document.ID)
}

func TestSearchDuringRebuildServesPreviousIndex(t *testing.T) {
	store := &memStore{}
	kb := newTestKB(t, store)
	ctx := context.Background()

	_, err := kb.Index(ctx, upload("stable.txt",
		"signal conditioning module wiring and shielding practices"))
	require.NoError(t, err)
	waitReady(t, kb)

	// Park the next rebuild inside ListDocuments and verify reads still
	// answer from the published generation.
	gate := make(chan struct{})
	store.mu.Lock()
	store.listGate = gate
	store.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- kb.ReindexAll(ctx) }()

	require.Eventually(t, func() bool {
		return kb.State() == domain.IndexStateIndexing
	}, 2*time.Second, 5*time.Millisecond)

	results, err := kb.Search(ctx, "signal conditioning wiring", 5)
	require.NoError(t, err)
	assert.Len(t, results, 1)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, domain.IndexStateReady, kb.State())
}

func TestRelevantContextDuringRebuildUsesPublishedGeneration(t *testing.T) {
	store := &memStore{}
	kb := newTestKB(t, store)
	ctx := context.Background()

	content := "The signal conditioning module requires shielded twisted pair wiring throughout.\n" +
		"Grounding straps must be torqued to the chassis specification before power on."
	_, err := kb.Index(ctx, upload("wiring.txt", content))
	require.NoError(t, err)
	waitReady(t, kb)

	// Park the next rebuild and verify context assembly still ranks and
	// extracts from the generation published before it started.
	gate := make(chan struct{})
	store.mu.Lock()
	store.listGate = gate
	store.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- kb.ReindexAll(ctx) }()

	require.Eventually(t, func() bool {
		return kb.State() == domain.IndexStateIndexing
	}, 2*time.Second, 5*time.Millisecond)

	text, err := kb.RelevantContext(ctx, "signal conditioning wiring shielding", 3)
	require.NoError(t, err)
	require.NotEmpty(t, text)
	assert.Contains(t, text, "[wiring]")

	close(gate)
	require.NoError(t, <-done)
}

func TestStats(t *testing.T) {
	kb := newTestKB(t, &memStore{})
	ctx := context.Background()

	_, err := kb.Index(ctx, upload("one.txt", "thermal design of the chassis backplane"))
	require.NoError(t, err)
	_, err = kb.Index(ctx, domain.Upload{
		Filename:     "two.txt",
		Category:     "manual",
		DeclaredType: "text/plain",
		Data:         []byte("firmware update procedure for embedded controllers"),
	})
	require.NoError(t, err)
	waitReady(t, kb)

	require.Eventually(t, func() bool {
		stats, err := kb.Stats(ctx)
		return err == nil && stats.IndexedDocuments == 2
	}, 5*time.Second, 10*time.Millisecond)

	stats, err := kb.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalDocuments)
	assert.Equal(t, 2, stats.ByType["text"])
	assert.Equal(t, 1, stats.ByCategory["general"])
	assert.Equal(t, 1, stats.ByCategory["manual"])
	assert.Equal(t, domain.IndexStateReady, stats.IndexState)
	assert.False(t, stats.IndexBuiltAt.IsZero())
}

func TestSnapshotRestore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.msgpack")
	store := &memStore{}
	kb := newTestKB(t, store, WithSnapshotPath(path))
	ctx := context.Background()

	_, err := kb.Index(ctx, upload("persisted.txt",
		"network analyzer impedance measurement fundamentals"))
	require.NoError(t, err)
	waitReady(t, kb)

	require.Eventually(t, func() bool {
		restored := NewKnowledgeBase(
			&memStore{},
			&passthroughRegistry{},
			&staticSettings{settings: domain.DefaultRetrievalSettings()},
			testTokenizer(t),
			WithSnapshotPath(path),
		)
		if restored.State() != domain.IndexStateReady {
			return false
		}
		results, err := restored.Search(ctx, "impedance measurement", 5)
		return err == nil && len(results) == 1
	}, 5*time.Second, 50*time.Millisecond)
}
