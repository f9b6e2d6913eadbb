package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	reporting "duty-reports/internal/reporting/domain"
)

func TestRunRepository_SaveGetList(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()
	base := time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"run-a", "run-b", "run-c"} {
		tenant := "tenant-1"
		if id == "run-b" {
			tenant = "tenant-2"
		}
		run := &reporting.ReportRun{ID: id, TenantID: tenant, Status: reporting.RunStatusSucceeded, CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Save(ctx, run); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	got, err := repo.GetByID(ctx, "run-b")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TenantID != "tenant-2" {
		t.Fatalf("expected tenant-2, got %s", got.TenantID)
	}

	runs, err := repo.List(ctx, "tenant-1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "run-c" || runs[1].ID != "run-a" {
		t.Fatalf("unexpected tenant list: %+v", runs)
	}

	all, err := repo.List(ctx, "", 2)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 || all[0].ID != "run-c" {
		t.Fatalf("unexpected limited list: %+v", all)
	}
}

func TestRunRepository_NotFound(t *testing.T) {
	repo := NewRunRepository()
	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, reporting.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	if err := repo.Save(context.Background(), &reporting.ReportRun{}); err == nil {
		t.Fatalf("expected error for missing id")
	}
}
