package file

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/docquery-labs/docquery/internal/core/domain"
	"github.com/docquery-labs/docquery/internal/core/ports/driven"
	"github.com/docquery-labs/docquery/internal/logger"
)

// Ensure SettingsStore implements the interface.
var _ driven.SettingsStore = (*SettingsStore)(nil)

// retrievalConfig is the TOML shape of the [retrieval] table. Absent
// fields stay zero and are replaced by defaults on read.
type retrievalConfig struct {
	MinSimilarity        float64  `toml:"min_similarity"`
	VocabularyCap        int      `toml:"vocabulary_cap"`
	MaxDocFrequency      float64  `toml:"max_doc_frequency"`
	ExtraStopwords       []string `toml:"extra_stopwords"`
	MinParagraphLength   int      `toml:"min_paragraph_length"`
	BoostKeywords        []string `toml:"boost_keywords"`
	KeywordBoost         float64  `toml:"keyword_boost"`
	MaxKeywords          int      `toml:"max_keywords"`
	SummaryMaxLength     int      `toml:"summary_max_length"`
	ContextPreviewLength int      `toml:"context_preview_length"`
}

type configFile struct {
	Retrieval retrievalConfig `toml:"retrieval"`
}

// SettingsStore is a TOML-file settings store with hot reload.
type SettingsStore struct {
	mu       sync.RWMutex
	filePath string
	current  domain.RetrievalSettings

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewSettingsStore creates a TOML settings store. If configDir is
// empty, defaults to ~/.docquery. A missing config file is fine; the
// store serves defaults until one appears.
func NewSettingsStore(configDir string) (*SettingsStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".docquery")
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	s := &SettingsStore{
		filePath: filepath.Join(configDir, "config.toml"),
		current:  domain.DefaultRetrievalSettings(),
		done:     make(chan struct{}),
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	if err := s.watch(configDir); err != nil {
		// Watching is best effort; settings still load on construction.
		logger.Warn("Config watch disabled: %v", err)
	}
	return s, nil
}

// Retrieval returns the current retrieval settings.
func (s *SettingsStore) Retrieval() domain.RetrievalSettings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path returns the configuration file path.
func (s *SettingsStore) Path() string {
	return s.filePath
}

// Close stops the file watcher.
func (s *SettingsStore) Close() error {
	close(s.done)
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// load reads the TOML file into the current settings. A missing file
// resets to defaults; a malformed file is an error on construction
// but only a warning on reload, keeping the last good settings.
func (s *SettingsStore) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			s.mu.Lock()
			s.current = domain.DefaultRetrievalSettings()
			s.mu.Unlock()
			return nil
		}
		return err
	}

	var cfg configFile
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return err
	}

	r := cfg.Retrieval
	settings := domain.RetrievalSettings{
		MinSimilarity:        r.MinSimilarity,
		VocabularyCap:        r.VocabularyCap,
		MaxDocFrequency:      r.MaxDocFrequency,
		ExtraStopwords:       r.ExtraStopwords,
		MinParagraphLength:   r.MinParagraphLength,
		BoostKeywords:        r.BoostKeywords,
		KeywordBoost:         r.KeywordBoost,
		MaxKeywords:          r.MaxKeywords,
		SummaryMaxLength:     r.SummaryMaxLength,
		ContextPreviewLength: r.ContextPreviewLength,
	}.Normalised()

	s.mu.Lock()
	s.current = settings
	s.mu.Unlock()
	return nil
}

// watch reloads the settings whenever the config file changes. The
// directory is watched rather than the file so editors that replace
// the file on save keep working.
func (s *SettingsStore) watch(configDir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(configDir); err != nil {
		watcher.Close()
		return err
	}
	s.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.filePath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if err := s.load(); err != nil {
					logger.Warn("Config reload failed, keeping previous settings: %v", err)
					continue
				}
				logger.Info("Retrieval settings reloaded from %s", s.filePath)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Config watcher: %v", err)
			case <-s.done:
				return
			}
		}
	}()
	return nil
}
