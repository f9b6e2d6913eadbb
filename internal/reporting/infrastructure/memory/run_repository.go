package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	reporting "duty-reports/internal/reporting/domain"
)

// RunRepository keeps report runs in process memory.
type RunRepository struct {
	mu   sync.RWMutex
	runs map[string]reporting.ReportRun
}

// NewRunRepository constructs an empty archive.
func NewRunRepository() *RunRepository {
	return &RunRepository{runs: make(map[string]reporting.ReportRun)}
}

// Save inserts or replaces run.
func (r *RunRepository) Save(ctx context.Context, run *reporting.ReportRun) error {
	_ = ctx
	if r == nil {
		return errors.New("run repo: nil repository")
	}
	if run == nil || run.ID == "" {
		return errors.New("run repo: run id required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = *run
	return nil
}

// GetByID returns a copy of the run with id.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*reporting.ReportRun, error) {
	_ = ctx
	if r == nil {
		return nil, errors.New("run repo: nil repository")
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, reporting.ErrRunNotFound
	}
	return &run, nil
}

// List returns up to limit runs of tenantID, newest first. An empty tenantID matches all.
func (r *RunRepository) List(ctx context.Context, tenantID string, limit int) ([]reporting.ReportRun, error) {
	_ = ctx
	if r == nil {
		return nil, errors.New("run repo: nil repository")
	}
	r.mu.RLock()
	result := make([]reporting.ReportRun, 0, len(r.runs))
	for _, run := range r.runs {
		if tenantID != "" && run.TenantID != tenantID {
			continue
		}
		result = append(result, run)
	}
	r.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
