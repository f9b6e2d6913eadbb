package reporting

import (
	"context"
	"errors"
	"time"
)

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// ErrRunNotFound is returned when a report run is not archived.
var ErrRunNotFound = errors.New("reporting: run not found")

// ReportRun is the archived record of one generate request.
type ReportRun struct {
	ID             string    `json:"id"`
	TenantID       string    `json:"tenant_id,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	Format         Format    `json:"format"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	Error          string    `json:"error,omitempty"`
	DutyCount      int       `json:"duty_count"`
	BreakCount     int       `json:"break_count"`
	SizeBytes      int       `json:"size_bytes"`
	DocumentDigest string    `json:"document_digest"`
	DurationMillis int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

// RunRepository archives report runs.
type RunRepository interface {
	Save(ctx context.Context, run *ReportRun) error
	GetByID(ctx context.Context, id string) (*ReportRun, error)
	List(ctx context.Context, tenantID string, limit int) ([]ReportRun, error)
}
