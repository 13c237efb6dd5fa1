package report

import (
	"context"
	"sort"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository. Used in
// tests and in deployments without a database.
type InMemoryRepository struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

// NewInMemoryRepository creates a new in-memory report repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		reports: make(map[string]*Report),
	}
}

// List returns all reports for a beach, newest first.
func (r *InMemoryRepository) List(_ context.Context, beachID int) ([]Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Report
	for _, rep := range r.reports {
		if rep.BeachID == beachID {
			out = append(out, *rep)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// Add stores a new report.
func (r *InMemoryRepository) Add(_ context.Context, rep Report) error {
	if rep.ID == "" || rep.Severity < 1 || rep.Severity > 3 {
		return ErrInvalidReport
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := rep
	r.reports[rep.ID] = &cpy
	return nil
}

// Moderate records the moderation decision for a report.
func (r *InMemoryRepository) Moderate(_ context.Context, id string, approved bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rep, ok := r.reports[id]
	if !ok {
		return ErrReportNotFound
	}

	rep.Moderated = true
	rep.Approved = approved
	return nil
}
