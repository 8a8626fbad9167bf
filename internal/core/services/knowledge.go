package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/docquery-labs/docquery/internal/analysis"
	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
	"github.com/docquery-labs/docquery/internal/core/ports/driving"
	"github.com/docquery-labs/docquery/internal/index"
	"github.com/docquery-labs/docquery/internal/logger"
	"github.com/docquery-labs/docquery/internal/tokenizer"
)

// Ensure KnowledgeBase implements the driving port.
var _ driving.KnowledgeService = (*KnowledgeBase)(nil)

// Retrieval defaults applied when callers pass non-positive limits.
const (
	defaultTopK        = 5
	defaultContextDocs = 3
	maxContextSpans    = 3
)

// published is one consistent retrieval snapshot: the index, the
// tokenizer that built it and the settings in force at build time.
// Swapped atomically as a unit so a query never mixes generations.
type published struct {
	index    *index.TermIndex
	tok      *tokenizer.Tokenizer
	settings domain.RetrievalSettings
}

// KnowledgeBase is the knowledge base facade. It owns the published
// term index and orchestrates extraction, ingestion and retrieval.
type KnowledgeBase struct {
	store      driven.DocumentStore
	extractors driven.ExtractorRegistry
	config     driven.SettingsStore
	base       *tokenizer.Tokenizer

	current atomic.Pointer[published]
	state   atomic.Value // domain.IndexState

	// rebuildMu serialises rebuilds; dirty coalesces triggers that
	// arrive while one is in flight into a single follow-up build.
	rebuildMu sync.Mutex
	dirty     atomic.Bool

	snapshotPath string
}

// Option configures a KnowledgeBase.
type Option func(*KnowledgeBase)

// WithSnapshotPath enables index persistence. On startup a valid
// snapshot at path is published immediately; every completed rebuild
// overwrites it.
func WithSnapshotPath(path string) Option {
	return func(kb *KnowledgeBase) {
		kb.snapshotPath = filepath.Clean(path)
	}
}

// NewKnowledgeBase creates the facade. The tokenizer must be the one
// shared with any out-of-band index tooling; retrieval breaks silently
// if indexing and querying tokenise differently.
func NewKnowledgeBase(
	store driven.DocumentStore,
	extractors driven.ExtractorRegistry,
	config driven.SettingsStore,
	tok *tokenizer.Tokenizer,
	opts ...Option,
) *KnowledgeBase {
	kb := &KnowledgeBase{
		store:      store,
		extractors: extractors,
		config:     config,
		base:       tok,
	}
	for _, opt := range opts {
		opt(kb)
	}
	kb.state.Store(domain.IndexStateEmpty)

	if kb.snapshotPath != "" {
		kb.restoreSnapshot()
	}
	return kb
}

// restoreSnapshot publishes a previously saved index, if one exists
// and still decodes. Any failure falls back to the empty state; the
// next rebuild recreates the snapshot.
func (kb *KnowledgeBase) restoreSnapshot() {
	ix, err := index.Load(kb.snapshotPath)
	if err != nil {
		logger.Debug("No usable index snapshot at %s: %v", kb.snapshotPath, err)
		return
	}

	settings := kb.config.Retrieval().Normalised()
	kb.current.Store(&published{
		index:    ix,
		tok:      kb.base.WithExtraStopwords(settings.ExtraStopwords...),
		settings: settings,
	})
	if ix.Trained() {
		kb.state.Store(domain.IndexStateReady)
	}
	logger.Info("Restored index snapshot: %d documents", ix.Len())
}

// Index ingests an upload. Extraction failures degrade rather than
// abort: the document is stored unsearchable and returned together
// with domain.ErrExtractionDegraded so callers can warn the uploader.
func (kb *KnowledgeBase) Index(ctx context.Context, upload domain.Upload) (*domain.Document, error) {
	if strings.TrimSpace(upload.Filename) == "" || len(upload.Data) == 0 {
		return nil, fmt.Errorf("%w: filename and data are required", domain.ErrInvalidInput)
	}

	fileType := domain.DetectFileType(upload.DeclaredType, upload.Filename)
	text, extractErr := kb.extractors.Extract(ctx, fileType, upload.Data)
	if extractErr != nil && !errors.Is(extractErr, domain.ErrExtractionDegraded) {
		return nil, extractErr
	}

	settings := kb.config.Retrieval().Normalised()
	doc := &domain.Document{
		ID:          uuid.NewString(),
		Filename:    upload.Filename,
		Title:       uploadTitle(upload),
		Description: strings.TrimSpace(upload.Description),
		Category:    uploadCategory(upload),
		FileType:    fileType,
		Content:     text,
		UploadedAt:  time.Now(),
	}
	if text != "" {
		doc.ContentHash = domain.HashContent(text)
		if existing, err := kb.store.FindByContentHash(ctx, doc.ContentHash); err == nil && !existing.Deleted {
			logger.Info("Duplicate content rejected: %s matches %s", upload.Filename, existing.ID)
			return nil, fmt.Errorf("%w: content matches document %s", domain.ErrAlreadyExists, existing.ID)
		}
		doc.Keywords = analysis.Keywords(kb.base, text, settings.MaxKeywords)
		doc.Summary = analysis.Summarize(text, settings.BoostKeywords, settings.SummaryMaxLength)
	}

	if err := kb.store.SaveDocument(ctx, doc); err != nil {
		return nil, err
	}

	logger.Info("Indexed document %s (%s, %d chars)", doc.Title, fileType, len(text))
	kb.scheduleRebuild()
	if extractErr != nil {
		return doc, extractErr
	}
	return doc, nil
}

// Search returns the top-K documents ranked by cosine similarity.
// Results below the configured similarity floor are discarded. A blank
// query and an untrained index both answer empty, never an error; only
// store or infrastructure failures surface.
func (kb *KnowledgeBase) Search(_ context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = defaultTopK
	}
	if strings.TrimSpace(query) == "" {
		logger.Debug("Blank query, returning no results")
		return []domain.SearchResult{}, nil
	}

	p := kb.current.Load()
	if p == nil || !p.index.Trained() {
		logger.Debug("Index untrained, returning no results")
		return []domain.SearchResult{}, nil
	}

	hits := p.index.Search(p.tok, query, topK, p.settings.MinSimilarity)
	results := make([]domain.SearchResult, len(hits))
	for i, h := range hits {
		results[i] = domain.SearchResult{Document: h.Document, Score: h.Score}
	}
	return results, nil
}

// RelevantContext assembles the grounding text for a question. Each
// matched document contributes one block headed "[Title] (score)",
// with a body chosen by a degradation ladder: matched paragraphs,
// then the stored summary, then a raw content prefix. An untrained
// index or a fruitless search yields "", never an error; answering
// proceeds without grounding.
//
// The published snapshot is loaded once, so ranking and paragraph
// extraction always use the same index generation even when a rebuild
// publishes mid-call.
func (kb *KnowledgeBase) RelevantContext(_ context.Context, question string, maxDocs int) (string, error) {
	if maxDocs <= 0 {
		maxDocs = defaultContextDocs
	}
	if strings.TrimSpace(question) == "" {
		return "", nil
	}

	p := kb.current.Load()
	if p == nil || !p.index.Trained() {
		logger.Debug("No context available: index untrained")
		return "", nil
	}

	hits := p.index.Search(p.tok, question, maxDocs, p.settings.MinSimilarity)
	blocks := make([]string, 0, len(hits))
	for _, h := range hits {
		body := kb.contextBody(p, h.Document, question)
		if body == "" {
			continue
		}
		blocks = append(blocks, fmt.Sprintf("[%s] (%.2f)\n%s", h.Document.Title, h.Score, body))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// contextBody picks the best available grounding text for one document.
func (kb *KnowledgeBase) contextBody(p *published, doc domain.Document, question string) string {
	spans := analysis.RelevantParagraphs(
		p.tok, doc.Content, question,
		maxContextSpans, p.settings.MinParagraphLength,
		p.settings.BoostKeywords, p.settings.KeywordBoost,
	)
	if len(spans) > 0 {
		return strings.Join(spans, "\n")
	}
	if doc.Summary != "" {
		return doc.Summary
	}

	runes := []rune(doc.Content)
	if len(runes) <= p.settings.ContextPreviewLength {
		return doc.Content
	}
	return string(runes[:p.settings.ContextPreviewLength]) + "..."
}

// ReindexAll rebuilds the term index from the full corpus and
// publishes it atomically. Triggers arriving mid-rebuild are coalesced
// into one follow-up build, so a burst of uploads costs two rebuilds,
// not one each.
func (kb *KnowledgeBase) ReindexAll(ctx context.Context) error {
	if !kb.rebuildMu.TryLock() {
		kb.dirty.Store(true)
		return domain.ErrRebuildInProgress
	}
	defer kb.rebuildMu.Unlock()

	for {
		kb.dirty.Store(false)
		if err := kb.rebuild(ctx); err != nil {
			return err
		}
		if !kb.dirty.Load() {
			return nil
		}
		logger.Debug("Corpus changed during rebuild, building again")
	}
}

// rebuild performs one build-and-publish cycle. Settings are re-read
// here, which is what makes them hot-swappable.
func (kb *KnowledgeBase) rebuild(ctx context.Context) error {
	kb.state.Store(domain.IndexStateIndexing)

	docs, err := kb.store.ListDocuments(ctx, false)
	if err != nil {
		kb.publishState()
		return fmt.Errorf("list documents for rebuild: %w", err)
	}

	settings := kb.config.Retrieval().Normalised()
	tok := kb.base.WithExtraStopwords(settings.ExtraStopwords...)
	started := time.Now()
	ix := index.Build(tok, docs, settings)

	kb.current.Store(&published{index: ix, tok: tok, settings: settings})
	kb.publishState()
	logger.Info("Rebuild complete: %d documents indexed in %s", ix.Len(), time.Since(started).Round(time.Millisecond))

	if kb.snapshotPath != "" && ix.Trained() {
		if err := ix.Save(kb.snapshotPath); err != nil {
			logger.Warn("Index snapshot not saved: %v", err)
		}
	}
	return nil
}

// publishState derives the lifecycle state from the published index.
func (kb *KnowledgeBase) publishState() {
	p := kb.current.Load()
	if p != nil && p.index.Trained() {
		kb.state.Store(domain.IndexStateReady)
		return
	}
	kb.state.Store(domain.IndexStateEmpty)
}

// TriggerReindex schedules a background rebuild and returns
// immediately.
func (kb *KnowledgeBase) TriggerReindex() {
	kb.scheduleRebuild()
}

// scheduleRebuild triggers a background rebuild. Concurrent triggers
// collapse into the in-flight rebuild's follow-up pass.
func (kb *KnowledgeBase) scheduleRebuild() {
	go func() {
		if err := kb.ReindexAll(context.Background()); err != nil &&
			!errors.Is(err, domain.ErrRebuildInProgress) {
			logger.Warn("Background rebuild failed: %v", err)
		}
	}()
}

// Document retrieves one document by ID, soft-deleted or not.
func (kb *KnowledgeBase) Document(ctx context.Context, id string) (*domain.Document, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	return kb.store.GetDocument(ctx, id)
}

// Documents lists stored documents in insertion order.
func (kb *KnowledgeBase) Documents(ctx context.Context, includeDeleted bool) ([]domain.Document, error) {
	return kb.store.ListDocuments(ctx, includeDeleted)
}

// Delete soft-deletes a document. The content stays stored; the
// document drops out of search with the rebuild scheduled here.
func (kb *KnowledgeBase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: empty document id", domain.ErrInvalidInput)
	}
	if err := kb.store.SoftDelete(ctx, id); err != nil {
		return err
	}
	logger.Info("Soft-deleted document %s", id)
	kb.scheduleRebuild()
	return nil
}

// Stats summarises corpus and index state.
func (kb *KnowledgeBase) Stats(ctx context.Context) (*domain.Stats, error) {
	docs, err := kb.store.ListDocuments(ctx, false)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		TotalDocuments: len(docs),
		ByType:         make(map[string]int),
		ByCategory:     make(map[string]int),
		IndexState:     kb.State(),
	}
	for _, d := range docs {
		stats.ByType[d.FileType.String()]++
		stats.ByCategory[d.Category]++
	}
	if p := kb.current.Load(); p != nil {
		stats.IndexedDocuments = p.index.Len()
		stats.IndexBuiltAt = p.index.BuiltAt()
	}
	return stats, nil
}

// State reports the facade lifecycle state.
func (kb *KnowledgeBase) State() domain.IndexState {
	return kb.state.Load().(domain.IndexState)
}

// uploadTitle derives the display title: explicit title, else the
// filename without its extension.
func uploadTitle(upload domain.Upload) string {
	if t := strings.TrimSpace(upload.Title); t != "" {
		return t
	}
	name := filepath.Base(upload.Filename)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// uploadCategory defaults the grouping category.
func uploadCategory(upload domain.Upload) string {
	if c := strings.TrimSpace(upload.Category); c != "" {
		return c
	}
	return "general"
}
