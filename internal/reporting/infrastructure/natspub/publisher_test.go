package natspub

import (
	"context"
	"testing"

	"duty-reports/internal/reporting/application"
)

func TestSubjectToken(t *testing.T) {
	cases := map[string]string{
		"":           "_",
		"tenant-1":   "tenant-1",
		"acme.north": "acme_north",
		" depot a ":  "depot_a",
		"fleet/*/>":  "fleet____",
	}
	for in, want := range cases {
		if got := subjectToken(in); got != want {
			t.Fatalf("subjectToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSubjectOrDefault(t *testing.T) {
	if got := SubjectOrDefault("  "); got != DefaultSubject {
		t.Fatalf("expected default subject, got %q", got)
	}
	if got := SubjectOrDefault("ops.reports."); got != "ops.reports" {
		t.Fatalf("expected trimmed subject, got %q", got)
	}
}

func TestPublishWithoutConnection(t *testing.T) {
	var p *Publisher
	if err := p.PublishReportGenerated(context.Background(), application.ReportGenerated{RunID: "r1"}); err == nil {
		t.Fatalf("expected error for nil publisher")
	}
	if _, err := Connect("", "", nil); err == nil {
		t.Fatalf("expected error for empty url")
	}
}
