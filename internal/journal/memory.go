package journal

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is the in-process journal used by tests and runs without a
// database configured.
type Memory struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]Run
}

func NewMemory() *Memory {
	return &Memory{runs: make(map[uuid.UUID]Run)}
}

func (m *Memory) SaveRun(_ context.Context, r Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = r
	return nil
}

func (m *Memory) GetRun(_ context.Context, id uuid.UUID) (Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return Run{}, ErrNotFound
	}
	return r, nil
}

func (m *Memory) ListRuns(_ context.Context, ticker string) ([]Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		if ticker == "" || r.Ticker == ticker {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}
