package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"duty-reports/internal/audit"
	"duty-reports/internal/observability/metrics"
	reporting "duty-reports/internal/reporting/domain"
	schedule "duty-reports/internal/schedule/domain"
)

// Renderer turns an assembled report into a document.
type Renderer interface {
	Render(report *reporting.Report, format reporting.Format) ([]byte, error)
}

// EventPublisher publishes report lifecycle events.
type EventPublisher interface {
	PublishReportGenerated(ctx context.Context, evt ReportGenerated) error
}

// FailureNotifier alerts operators about failed report runs.
type FailureNotifier interface {
	NotifyReportFailed(ctx context.Context, evt ReportFailed) error
}

// Clock provides current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// GenerateRequest is one schedule document to report on.
type GenerateRequest struct {
	TenantID    string
	Actor       string
	Format      reporting.Format
	Schedule    *schedule.Schedule
	RawDocument []byte
}

// GeneratedReport is a rendered document and its archive record.
type GeneratedReport struct {
	Run         *reporting.ReportRun
	Report      *reporting.Report
	Content     []byte
	ContentType string
	FileName    string
}

// ReportService resolves schedules into rendered duty reports.
type ReportService struct {
	assembler *reporting.Assembler
	renderer  Renderer
	runs      reporting.RunRepository
	publisher EventPublisher
	notifier  FailureNotifier
	clock     Clock
	logger    logrus.FieldLogger
	newID     func() string
}

// Option configures ReportService.
type Option func(*ReportService)

// WithPublisher sets the event publisher.
func WithPublisher(publisher EventPublisher) Option {
	return func(s *ReportService) {
		s.publisher = publisher
	}
}

// WithFailureNotifier sets the failure notifier.
func WithFailureNotifier(notifier FailureNotifier) Option {
	return func(s *ReportService) {
		s.notifier = notifier
	}
}

// WithClock overrides the clock.
func WithClock(clock Clock) Option {
	return func(s *ReportService) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *ReportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides run id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *ReportService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewReportService constructs the service.
func NewReportService(assembler *reporting.Assembler, renderer Renderer, runs reporting.RunRepository, opts ...Option) (*ReportService, error) {
	if assembler == nil {
		return nil, errors.New("report service: nil assembler")
	}
	if renderer == nil {
		return nil, errors.New("report service: nil renderer")
	}
	if runs == nil {
		return nil, errors.New("report service: nil run repository")
	}
	s := &ReportService{
		assembler: assembler,
		renderer:  renderer,
		runs:      runs,
		clock:     systemClock{},
		logger:    logrus.StandardLogger(),
		newID:     func() string { return "report-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Generate resolves, renders and archives one schedule. Failed runs are archived too.
func (s *ReportService) Generate(ctx context.Context, req GenerateRequest) (*GeneratedReport, error) {
	start := s.clock.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObserveReportGenerate(string(req.Format), result, s.clock.Now().Sub(start))
	}()

	if req.Schedule == nil {
		result = metrics.ResultError
		return nil, errors.New("report service: nil schedule")
	}
	if _, err := reporting.ParseFormat(string(req.Format), ""); err != nil || req.Format == "" {
		result = metrics.ResultError
		return nil, reporting.ErrUnknownFormat
	}

	run := &reporting.ReportRun{
		ID:             s.newID(),
		TenantID:       req.TenantID,
		Actor:          req.Actor,
		Format:         req.Format,
		DocumentDigest: audit.DigestJSON(req.RawDocument),
		CreatedAt:      start,
	}
	log := s.logger.WithFields(logrus.Fields{
		"run_id": run.ID,
		"format": req.Format,
		"duties": len(req.Schedule.Duties),
	})

	report, err := s.assembler.Assemble(req.Schedule)
	if err != nil {
		result = metrics.ResultError
		reason := FailureReason(err)
		metrics.IncResolveError(reason)
		failed := ReportFailed{RunID: run.ID, TenantID: run.TenantID, Actor: run.Actor, Format: string(run.Format), Reason: reason, EventIndex: -1}
		fields := logrus.Fields{"reason": reason}
		var located *schedule.DutyEventError
		if errors.As(err, &located) {
			fields["duty_id"] = located.DutyID
			fields["event_index"] = located.Index
			failed.DutyID = located.DutyID
			failed.EventIndex = located.Index
		}
		log.WithFields(fields).WithError(err).Error("schedule resolution failed")
		s.archiveFailure(ctx, run, err)
		s.notifyFailure(ctx, failed, err, log)
		return nil, err
	}
	run.Title = report.Title
	run.DutyCount = report.DutyCount()
	run.BreakCount = report.BreakCount()

	content, err := s.renderer.Render(report, req.Format)
	if err != nil {
		result = metrics.ResultError
		metrics.IncResolveError("render")
		log.WithError(err).Error("report render failed")
		s.archiveFailure(ctx, run, err)
		s.notifyFailure(ctx, ReportFailed{RunID: run.ID, TenantID: run.TenantID, Actor: run.Actor, Format: string(run.Format), Reason: "render", EventIndex: -1}, err, log)
		return nil, err
	}
	run.Status = reporting.RunStatusSucceeded
	run.SizeBytes = len(content)
	run.DurationMillis = s.clock.Now().Sub(start).Milliseconds()
	if err := s.runs.Save(ctx, run); err != nil {
		log.WithError(err).Warn("report run archive failed")
	}
	metrics.AddResolved(run.DutyCount, run.BreakCount)
	metrics.ObserveReportSize(string(req.Format), run.SizeBytes)
	s.publish(ctx, run, log)

	log.WithFields(logrus.Fields{
		"breaks": run.BreakCount,
		"bytes":  run.SizeBytes,
	}).Info("report generated")

	return &GeneratedReport{
		Run:         run,
		Report:      report,
		Content:     content,
		ContentType: req.Format.ContentType(),
		FileName:    req.Format.FileName(),
	}, nil
}

func (s *ReportService) archiveFailure(ctx context.Context, run *reporting.ReportRun, cause error) {
	run.Status = reporting.RunStatusFailed
	run.Error = cause.Error()
	run.DurationMillis = s.clock.Now().Sub(run.CreatedAt).Milliseconds()
	if err := s.runs.Save(ctx, run); err != nil {
		s.logger.WithError(err).WithField("run_id", run.ID).Warn("report run archive failed")
	}
}

func (s *ReportService) notifyFailure(ctx context.Context, evt ReportFailed, cause error, log logrus.FieldLogger) {
	if s.notifier == nil {
		return
	}
	evt.Error = cause.Error()
	evt.OccurredAt = s.clock.Now()
	if err := s.notifier.NotifyReportFailed(ctx, evt); err != nil {
		log.WithError(err).Warn("report failure notify failed")
	}
}

func (s *ReportService) publish(ctx context.Context, run *reporting.ReportRun, log logrus.FieldLogger) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishReportGenerated(ctx, ReportGenerated{
		RunID:          run.ID,
		TenantID:       run.TenantID,
		Format:         string(run.Format),
		DutyCount:      run.DutyCount,
		BreakCount:     run.BreakCount,
		DocumentDigest: run.DocumentDigest,
		OccurredAt:     s.clock.Now(),
	})
	if err != nil {
		metrics.IncPublish(metrics.ResultError)
		log.WithError(err).Warn("report event publish failed")
		return
	}
	metrics.IncPublish(metrics.ResultSuccess)
}

// Get returns one archived run.
func (s *ReportService) Get(ctx context.Context, id string) (*reporting.ReportRun, error) {
	if id == "" {
		return nil, reporting.ErrRunNotFound
	}
	return s.runs.GetByID(ctx, id)
}

// List returns archived runs, newest first.
func (s *ReportService) List(ctx context.Context, tenantID string, limit int) ([]reporting.ReportRun, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	return s.runs.List(ctx, tenantID, limit)
}
