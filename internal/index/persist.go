package index

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/docquery-labs/docquery/internal/core/domain"
)

// snapshotVersion guards against loading incompatible snapshot layouts.
const snapshotVersion = 1

// snapshot is the serialised form of a TermIndex.
type snapshot struct {
	Version    int
	Vocabulary map[string]int
	Vectors    []map[int]float64
	Documents  []domain.Document
	BuiltAt    time.Time
}

// Save writes the index to path as a msgpack snapshot. The write goes
// through a temp file and rename so a crash never leaves a torn
// snapshot behind.
func (ix *TermIndex) Save(path string) error {
	if ix == nil {
		return fmt.Errorf("save index: nil index")
	}

	data, err := msgpack.Marshal(snapshot{
		Version:    snapshotVersion,
		Vocabulary: ix.vocabulary,
		Vectors:    ix.vectors,
		Documents:  ix.docs,
		BuiltAt:    ix.builtAt,
	})
	if err != nil {
		return fmt.Errorf("encode index snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write index snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish index snapshot: %w", err)
	}
	return nil
}

// Load reads a msgpack snapshot written by Save. A snapshot from a
// different layout version is rejected; callers fall back to a full
// rebuild.
func Load(path string) (*TermIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read index snapshot: %w", err)
	}

	var snap snapshot
	if err := msgpack.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode index snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("index snapshot version %d, want %d", snap.Version, snapshotVersion)
	}
	if len(snap.Vectors) != len(snap.Documents) {
		return nil, fmt.Errorf("index snapshot inconsistent: %d vectors, %d documents",
			len(snap.Vectors), len(snap.Documents))
	}
	// Rebuilds only snapshot trained indexes; an empty one is stale
	// tooling output and not worth publishing.
	if len(snap.Documents) == 0 || len(snap.Vocabulary) == 0 {
		return nil, fmt.Errorf("index snapshot unusable: %w", domain.ErrIndexUntrained)
	}

	return &TermIndex{
		vocabulary: snap.Vocabulary,
		vectors:    snap.Vectors,
		docs:       snap.Documents,
		builtAt:    snap.BuiltAt,
	}, nil
}
