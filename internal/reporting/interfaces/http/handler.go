package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"duty-reports/internal/audit"
	"duty-reports/internal/auth"
	reportingapp "duty-reports/internal/reporting/application"
	reporting "duty-reports/internal/reporting/domain"
	schedule "duty-reports/internal/schedule/domain"
)

const defaultMaxBodyBytes = 10 << 20

// Handler serves report generation and the run archive.
type Handler struct {
	service       *reportingapp.ReportService
	auditLogger   audit.Logger
	logger        logrus.FieldLogger
	defaultFormat reporting.Format
	maxBodyBytes  int64
}

// Options tunes the handler.
type Options struct {
	DefaultFormat reporting.Format
	MaxBodyBytes  int64
	AuditLogger   audit.Logger
	Logger        logrus.FieldLogger
}

// NewHandler constructs a handler.
func NewHandler(service *reportingapp.ReportService, opts Options) (*Handler, error) {
	if service == nil {
		return nil, errors.New("report handler: nil service")
	}
	h := &Handler{
		service:       service,
		auditLogger:   opts.AuditLogger,
		logger:        opts.Logger,
		defaultFormat: opts.DefaultFormat,
		maxBodyBytes:  opts.MaxBodyBytes,
	}
	if h.logger == nil {
		h.logger = logrus.StandardLogger()
	}
	if h.defaultFormat == "" {
		h.defaultFormat = reporting.FormatPDF
	}
	if h.maxBodyBytes <= 0 {
		h.maxBodyBytes = defaultMaxBodyBytes
	}
	return h, nil
}

// Routes registers the report endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/generate-report", h.GenerateReport)
	r.Get("/api/v1/reports", h.ListRuns)
	r.Get("/api/v1/reports/{id}", h.GetRun)
}

type errorResponse struct {
	Error      string `json:"error"`
	Reason     string `json:"reason,omitempty"`
	DutyID     string `json:"duty_id,omitempty"`
	EventIndex *int   `json:"event_index,omitempty"`
}

// GenerateReport handles POST /generate-report. The body is a schedule document;
// ?format=pdf|xlsx|json selects the output.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	format, err := reporting.ParseFormat(r.URL.Query().Get("format"), h.defaultFormat)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "request body too large"})
			return
		}
		writeError(w, http.StatusBadRequest, errorResponse{Error: "read body error"})
		return
	}
	defer r.Body.Close()

	var doc schedule.Schedule
	if err := json.Unmarshal(body, &doc); err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "invalid json: " + err.Error()})
		return
	}

	identity, _ := auth.IdentityFromContext(r.Context())
	out, err := h.service.Generate(r.Context(), reportingapp.GenerateRequest{
		TenantID:    identity.TenantID,
		Actor:       identity.Subject,
		Format:      format,
		Schedule:    &doc,
		RawDocument: body,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, resolutionError(err))
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+out.FileName+`"`)
	w.Header().Set("X-Report-Run-Id", out.Run.ID)
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out.Content); err != nil {
		h.logger.WithError(err).WithField("run_id", out.Run.ID).Warn("report write failed")
	}

	h.logAudit(r, identity, out.Run)
}

// ListRuns handles GET /api/v1/reports.
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if value := r.URL.Query().Get("limit"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	runs, err := h.service.List(r.Context(), auth.TenantIDFromContext(r.Context()), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if runs == nil {
		runs = []reporting.ReportRun{}
	}
	writeJSON(w, http.StatusOK, runs)
}

// GetRun handles GET /api/v1/reports/{id}.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, reporting.ErrRunNotFound) {
			writeError(w, http.StatusNotFound, errorResponse{Error: "report run not found"})
			return
		}
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if tenantID := auth.TenantIDFromContext(r.Context()); tenantID != "" && run.TenantID != tenantID {
		writeError(w, http.StatusNotFound, errorResponse{Error: "report run not found"})
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func resolutionError(err error) errorResponse {
	resp := errorResponse{Error: err.Error()}
	if reportingapp.IsResolutionError(err) {
		resp.Reason = reportingapp.FailureReason(err)
	}
	var located *schedule.DutyEventError
	if errors.As(err, &located) {
		index := located.Index
		resp.DutyID = located.DutyID
		resp.EventIndex = &index
	}
	return resp
}

func (h *Handler) logAudit(r *http.Request, identity auth.Identity, run *reporting.ReportRun) {
	if h.auditLogger == nil || identity.TenantID == "" || run == nil {
		return
	}
	meta, _ := json.Marshal(map[string]any{
		"format":      run.Format,
		"duty_count":  run.DutyCount,
		"break_count": run.BreakCount,
	})
	err := h.auditLogger.Log(r.Context(), audit.Entry{
		TenantID:      identity.TenantID,
		Actor:         identity.Subject,
		Role:          string(identity.Role),
		Action:        audit.ActionReportGenerate,
		ResourceType:  audit.ResourceReport,
		ResourceID:    run.ID,
		Metadata:      meta,
		PayloadDigest: run.DocumentDigest,
		IP:            audit.ClientIP(r),
		UserAgent:     r.UserAgent(),
	})
	if err != nil {
		h.logger.WithError(err).WithField("run_id", run.ID).Warn("audit log failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}
