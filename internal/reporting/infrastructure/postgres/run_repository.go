package postgres

import (
	"context"
	"database/sql"
	"errors"

	reporting "duty-reports/internal/reporting/domain"
)

// RunRepository persists report runs.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository constructs a repository.
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Save upserts run by id.
func (r *RunRepository) Save(ctx context.Context, run *reporting.ReportRun) error {
	if r == nil || r.db == nil {
		return errors.New("run repo: nil db")
	}
	if run == nil || run.ID == "" {
		return errors.New("run repo: run id required")
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO report_runs (
	id, tenant_id, actor, format, title, status, error,
	duty_count, break_count, size_bytes, document_digest, duration_ms, created_at
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13
)
ON CONFLICT (id) DO UPDATE SET
	status = EXCLUDED.status,
	error = EXCLUDED.error,
	title = EXCLUDED.title,
	duty_count = EXCLUDED.duty_count,
	break_count = EXCLUDED.break_count,
	size_bytes = EXCLUDED.size_bytes,
	duration_ms = EXCLUDED.duration_ms`,
		run.ID, run.TenantID, run.Actor, string(run.Format), run.Title, run.Status, nullString(run.Error),
		run.DutyCount, run.BreakCount, run.SizeBytes, run.DocumentDigest, run.DurationMillis, run.CreatedAt,
	)
	return err
}

// GetByID fetches a run.
func (r *RunRepository) GetByID(ctx context.Context, id string) (*reporting.ReportRun, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	row := r.db.QueryRowContext(ctx, `
SELECT id, tenant_id, actor, format, title, status, error,
	duty_count, break_count, size_bytes, document_digest, duration_ms, created_at
FROM report_runs
WHERE id = $1
LIMIT 1`, id)
	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, reporting.ErrRunNotFound
	}
	return run, nil
}

// List returns the latest runs of tenantID. An empty tenantID matches all tenants.
func (r *RunRepository) List(ctx context.Context, tenantID string, limit int) ([]reporting.ReportRun, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("run repo: nil db")
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, tenant_id, actor, format, title, status, error,
	duty_count, break_count, size_bytes, document_digest, duration_ms, created_at
FROM report_runs
WHERE ($1 = '' OR tenant_id = $1)
ORDER BY created_at DESC, id DESC
LIMIT $2`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []reporting.ReportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		if run != nil {
			result = append(result, *run)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*reporting.ReportRun, error) {
	var run reporting.ReportRun
	var format string
	var runErr sql.NullString
	err := row.Scan(
		&run.ID,
		&run.TenantID,
		&run.Actor,
		&format,
		&run.Title,
		&run.Status,
		&runErr,
		&run.DutyCount,
		&run.BreakCount,
		&run.SizeBytes,
		&run.DocumentDigest,
		&run.DurationMillis,
		&run.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	run.Format = reporting.Format(format)
	if runErr.Valid {
		run.Error = runErr.String
	}
	run.CreatedAt = run.CreatedAt.UTC()
	return &run, nil
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
