package cli

import (
	"context"
	"time"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

// fakeKnowledgeService is a canned-response test double.
type fakeKnowledgeService struct {
	searchResults []domain.SearchResult
	searchErr     error
	contextText   string
	docs          []domain.Document
	stats         domain.Stats
	deleteErr     error
	reindexErr    error
	indexed       *domain.Document
	indexErr      error
	triggered     bool
}

func (f *fakeKnowledgeService) Index(_ context.Context, _ domain.Upload) (*domain.Document, error) {
	return f.indexed, f.indexErr
}

func (f *fakeKnowledgeService) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	return f.searchResults, f.searchErr
}

func (f *fakeKnowledgeService) RelevantContext(_ context.Context, _ string, _ int) (string, error) {
	return f.contextText, nil
}

func (f *fakeKnowledgeService) ReindexAll(_ context.Context) error {
	return f.reindexErr
}

func (f *fakeKnowledgeService) TriggerReindex() {
	f.triggered = true
}

func (f *fakeKnowledgeService) Document(_ context.Context, id string) (*domain.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == id {
			return &f.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeKnowledgeService) Documents(_ context.Context, includeDeleted bool) ([]domain.Document, error) {
	out := make([]domain.Document, 0, len(f.docs))
	for _, d := range f.docs {
		if d.Deleted && !includeDeleted {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeKnowledgeService) Delete(_ context.Context, _ string) error {
	return f.deleteErr
}

func (f *fakeKnowledgeService) Stats(_ context.Context) (*domain.Stats, error) {
	stats := f.stats
	return &stats, nil
}

func (f *fakeKnowledgeService) State() domain.IndexState {
	return f.stats.IndexState
}

// fakeAnswerer echoes the context it was given.
type fakeAnswerer struct{}

func (fakeAnswerer) Answer(_ context.Context, question, contextText string) (string, error) {
	return "answer to " + question + " from: " + contextText, nil
}

// setupTestServices installs fakes and returns a cleanup restoring
// the previous wiring.
func setupTestServices() func() {
	oldService := knowledgeService
	oldAnswerer := answerGenerator

	knowledgeService = &fakeKnowledgeService{
		searchResults: []domain.SearchResult{
			{
				Document: domain.Document{
					ID:       "doc-1",
					Title:    "PXI Module Guide",
					FileType: domain.FileTypeText,
					Summary:  "Installation and wiring.",
				},
				Score: 0.82,
			},
		},
		contextText: "[PXI Module Guide] (0.82)\nInstallation and wiring.",
		docs: []domain.Document{
			{
				ID:         "doc-1",
				Title:      "PXI Module Guide",
				Filename:   "guide.txt",
				FileType:   domain.FileTypeText,
				Category:   "manual",
				Content:    "Installation and wiring instructions.",
				UploadedAt: time.Now(),
			},
		},
		stats: domain.Stats{
			TotalDocuments:   1,
			IndexedDocuments: 1,
			ByType:           map[string]int{"text": 1},
			ByCategory:       map[string]int{"manual": 1},
			IndexState:       domain.IndexStateReady,
		},
	}
	answerGenerator = fakeAnswerer{}

	return func() {
		knowledgeService = oldService
		answerGenerator = oldAnswerer
	}
}
