package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Actions and resource types recorded by the report API.
const (
	ActionReportGenerate = "report.generate"
	ResourceReport       = "report"
)

// Entry represents an audit log entry.
type Entry struct {
	ID            string
	TenantID      string
	Actor         string
	Role          string
	Action        string
	ResourceType  string
	ResourceID    string
	Metadata      json.RawMessage
	PayloadDigest string
	IP            string
	UserAgent     string
	CreatedAt     time.Time
}

// Logger writes audit entries.
type Logger interface {
	Log(ctx context.Context, entry Entry) error
}

// NewID generates a random audit id.
func NewID() string {
	return "audit-" + uuid.NewString()
}

// DigestJSON computes a SHA256 hex digest of a payload. Empty payloads have no digest.
func DigestJSON(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (e *Entry) normalize() {
	if e.ID == "" {
		e.ID = NewID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if e.PayloadDigest == "" {
		e.PayloadDigest = DigestJSON(e.Metadata)
	}
}

// LogrusLogger writes audit entries to a structured log. It is used when no database is configured.
type LogrusLogger struct {
	logger logrus.FieldLogger
}

// NewLogrusLogger constructs a log-backed audit logger.
func NewLogrusLogger(logger logrus.FieldLogger) *LogrusLogger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogrusLogger{logger: logger}
}

// Log writes entry at info level.
func (l *LogrusLogger) Log(ctx context.Context, entry Entry) error {
	_ = ctx
	if l == nil {
		return errors.New("audit log: nil logger")
	}
	entry.normalize()
	l.logger.WithFields(logrus.Fields{
		"audit_id":      entry.ID,
		"tenant_id":     entry.TenantID,
		"actor":         entry.Actor,
		"role":          entry.Role,
		"action":        entry.Action,
		"resource_type": entry.ResourceType,
		"resource_id":   entry.ResourceID,
		"digest":        entry.PayloadDigest,
		"ip":            entry.IP,
	}).Info("audit")
	return nil
}
