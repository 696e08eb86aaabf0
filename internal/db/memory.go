package db

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/ticketdesk/assigner/internal/models"
)

// MemoryStore keeps everything in process. It backs local runs without a
// DATABASE_URL and the handler tests.
type MemoryStore struct {
	mu      sync.RWMutex
	agents  []models.Agent
	tickets []models.Ticket
	records []models.AssignmentRecord
	runs    []models.Run

	// FailAppend, when set, is consulted before each append.
	FailAppend func(rec models.AssignmentRecord) error
	// FailList makes every listing call return ErrStoreUnavailable.
	FailList bool
}

func NewMemoryStore(agents []models.Agent, tickets []models.Ticket) *MemoryStore {
	return &MemoryStore{
		agents:  slices.Clone(agents),
		tickets: slices.Clone(tickets),
	}
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryStore) ListAgents(ctx context.Context) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailList {
		return nil, models.Unavailable("list agents", errMemoryDown)
	}
	out := make([]models.Agent, len(m.agents))
	copy(out, m.agents)
	return out, nil
}

func (m *MemoryStore) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.FailList {
		return nil, models.Unavailable("list tickets", errMemoryDown)
	}
	out := make([]models.Ticket, len(m.tickets))
	copy(out, m.tickets)
	return out, nil
}

func (m *MemoryStore) AppendAssignment(ctx context.Context, rec models.AssignmentRecord) error {
	if m.FailAppend != nil {
		if err := m.FailAppend(rec); err != nil {
			return models.Unavailable("append assignment", err)
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

// Records returns the appended assignment records.
func (m *MemoryStore) Records() []models.AssignmentRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.records)
}

func (m *MemoryStore) CreateRun(ctx context.Context, run models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryStore) FinishRun(ctx context.Context, run models.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.runs {
		if m.runs[i].ID == run.ID {
			m.runs[i] = run
			return nil
		}
	}
	m.runs = append(m.runs, run)
	return nil
}

func (m *MemoryStore) LatestRun(ctx context.Context) (models.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.runs) == 0 {
		return models.Run{}, models.ErrNotFound
	}
	latest := m.runs[0]
	for _, r := range m.runs[1:] {
		if !r.StartedAt.Before(latest.StartedAt) {
			latest = r
		}
	}
	return latest, nil
}

var errMemoryDown = errors.New("memory store marked unavailable")
