package state

import (
	"fmt"
	"time"

	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/simulate"
	"github.com/danielpatrickdp/adaptive-state/style-coach/internal/style"
	"github.com/google/uuid"
)

// #region memory-store
// MemoryStore keeps versions in process memory. It serves replays and tests
// with the same Load/Commit contract as Store. Not safe for concurrent use.
type MemoryStore struct {
	versions map[string]StyleRecord
	active   map[string]string

	// FailCommit, when set, is returned by Commit instead of writing.
	FailCommit error
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		versions: make(map[string]StyleRecord),
		active:   make(map[string]string),
	}
}

// Load mirrors Store.Load.
func (m *MemoryStore) Load(lane string) (Snapshot, error) {
	id, ok := m.active[lane]
	if !ok {
		return Snapshot{Style: style.Default()}, nil
	}
	rec := m.versions[id]
	sim := rec.Sim
	return Snapshot{VersionID: id, Style: rec.Style.Clone(), LastSim: &sim}, nil
}

// Commit mirrors Store.Commit.
func (m *MemoryStore) Commit(lane string, p style.Params, sim simulate.Result) (string, error) {
	if m.FailCommit != nil {
		return "", fmt.Errorf("commit: %w", m.FailCommit)
	}
	rec := StyleRecord{
		VersionID: uuid.New().String(),
		ParentID:  m.active[lane],
		Lane:      lane,
		Style:     p.Clone(),
		Sim:       sim,
		CreatedAt: time.Now().UTC(),
	}
	m.versions[rec.VersionID] = rec
	m.active[lane] = rec.VersionID
	return rec.VersionID, nil
}

// Versions returns how many versions have been committed across all lanes.
func (m *MemoryStore) Versions() int {
	return len(m.versions)
}

// #endregion memory-store
