package application

import "time"

// ReportGenerated is published after a report is rendered and archived.
type ReportGenerated struct {
	RunID          string    `json:"run_id"`
	TenantID       string    `json:"tenant_id,omitempty"`
	Format         string    `json:"format"`
	DutyCount      int       `json:"duty_count"`
	BreakCount     int       `json:"break_count"`
	DocumentDigest string    `json:"document_digest"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// ReportFailed describes a generate request that could not be resolved or rendered.
type ReportFailed struct {
	RunID      string    `json:"run_id"`
	TenantID   string    `json:"tenant_id,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Format     string    `json:"format"`
	Reason     string    `json:"reason"`
	DutyID     string    `json:"duty_id,omitempty"`
	EventIndex int       `json:"event_index"`
	Error      string    `json:"error"`
	OccurredAt time.Time `json:"occurred_at"`
}
