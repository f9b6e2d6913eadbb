package natspub

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"duty-reports/internal/observability/metrics"
	"duty-reports/internal/reporting/application"
)

// DefaultSubject carries ReportGenerated events.
const DefaultSubject = "reports.generated"

// Publisher publishes report events on NATS.
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  logrus.FieldLogger
}

// Connect dials url and returns a publisher for subject.
func Connect(url, subject string, logger logrus.FieldLogger) (*Publisher, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("nats publisher: url required")
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	nc, err := nats.Connect(url,
		nats.Name("duty-reports"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			metrics.SetNATSConnected(false)
			logger.WithError(err).Warn("nats disconnected")
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			metrics.SetNATSConnected(true)
			logger.WithField("url", c.ConnectedUrl()).Info("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			metrics.SetNATSConnected(false)
			logger.Info("nats closed")
		}),
	)
	if err != nil {
		return nil, err
	}
	metrics.SetNATSConnected(true)
	return &Publisher{nc: nc, subject: SubjectOrDefault(subject), logger: logger}, nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	_ = p.nc.Drain()
	p.nc.Close()
}

// PublishReportGenerated publishes evt as JSON on <subject>.<tenant>.
func (p *Publisher) PublishReportGenerated(ctx context.Context, evt application.ReportGenerated) error {
	if p == nil || p.nc == nil {
		return errors.New("nats publisher: nil connection")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	subject := p.subject + "." + subjectToken(evt.TenantID)
	p.logger.WithFields(logrus.Fields{"subject": subject, "run_id": evt.RunID}).Debug("nats publish")
	return p.nc.Publish(subject, payload)
}

// SubjectOrDefault trims subject and falls back to DefaultSubject.
func SubjectOrDefault(subject string) string {
	subject = strings.Trim(strings.TrimSpace(subject), ".")
	if subject == "" {
		return DefaultSubject
	}
	return subject
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS tokens cannot contain spaces, wildcards or dots.
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
