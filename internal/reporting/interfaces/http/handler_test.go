package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"duty-reports/internal/audit"
	"duty-reports/internal/auth"
	reportingapp "duty-reports/internal/reporting/application"
	reporting "duty-reports/internal/reporting/domain"
	"duty-reports/internal/reporting/infrastructure/memory"
	"duty-reports/internal/reporting/interfaces"
	schedule "duty-reports/internal/schedule/domain"
)

const scenarioJSON = `{
  "stops": [
    {"stop_id": "S1", "stop_name": "Depot A", "latitude": 41.3851, "longitude": 2.1734, "is_depot": true},
    {"stop_id": "S2", "stop_name": "Station B", "latitude": 41.4036, "longitude": 2.1744, "is_depot": false},
    {"stop_id": "S3", "stop_name": "Station C", "latitude": 41.4145, "longitude": 2.1527, "is_depot": false}
  ],
  "trips": [
    {"trip_id": "T1", "route_number": "10", "origin_stop_id": "S1", "destination_stop_id": "S2", "departure_time": "0.07:00", "arrival_time": "0.07:30"},
    {"trip_id": "T2", "route_number": "10", "origin_stop_id": "S2", "destination_stop_id": "S3", "departure_time": "0.08:45", "arrival_time": "0.07:00"}
  ],
  "vehicles": [
    {"vehicle_id": "V1", "vehicle_events": [
      {"vehicle_event_sequence": 1, "vehicle_event_type": "service_trip", "trip_id": "T1", "duty_id": "D1"},
      {"vehicle_event_sequence": 2, "vehicle_event_type": "service_trip", "trip_id": "T2", "duty_id": "D1"}
    ]}
  ],
  "duties": [
    {"duty_id": "D1", "duty_events": [
      {"duty_event_sequence": 1, "duty_event_type": "vehicle_event", "vehicle_id": "V1", "vehicle_event_sequence": 1},
      {"duty_event_sequence": 2, "duty_event_type": "vehicle_event", "vehicle_id": "V1", "vehicle_event_sequence": 2}
    ]}
  ]
}`

const taxiOnlyJSON = `{
  "stops": [{"stop_id": "S1", "stop_name": "Depot A"}],
  "trips": [],
  "vehicles": [],
  "duties": [
    {"duty_id": "D9", "duty_events": [
      {"duty_event_sequence": 1, "duty_event_type": "taxi", "start_time": "0.05:00", "end_time": "0.05:20", "origin_stop_id": "S1", "destination_stop_id": "S1"}
    ]}
  ]
}`

type recordingAudit struct {
	entries []audit.Entry
}

func (a *recordingAudit) Log(ctx context.Context, entry audit.Entry) error {
	_ = ctx
	a.entries = append(a.entries, entry)
	return nil
}

func newTestRouter(t *testing.T, auditLogger audit.Logger) http.Handler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc, err := reportingapp.NewReportService(
		reporting.NewAssembler("", schedule.DefaultBreakPolicy()),
		interfaces.NewExporter(interfaces.ExportOptions{}),
		memory.NewRunRepository(),
		reportingapp.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	h, err := NewHandler(svc, Options{AuditLogger: auditLogger, Logger: logger})
	if err != nil {
		t.Fatalf("handler: %v", err)
	}
	r := chi.NewRouter()
	h.Routes(r)
	return r
}

func postReport(t *testing.T, router http.Handler, query, body string, ctx context.Context) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/generate-report"+query, strings.NewReader(body))
	if ctx != nil {
		req = req.WithContext(ctx)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestGenerateReport_PDF(t *testing.T) {
	router := newTestRouter(t, nil)
	resp := postReport(t, router, "", scenarioJSON, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", got)
	}
	if got := resp.Header().Get("Content-Disposition"); got != `attachment; filename="report.pdf"` {
		t.Fatalf("unexpected disposition %s", got)
	}
	if !bytes.HasPrefix(resp.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("expected pdf body")
	}
	if resp.Header().Get("X-Report-Run-Id") == "" {
		t.Fatalf("expected run id header")
	}
}

func TestGenerateReport_JSON(t *testing.T) {
	router := newTestRouter(t, nil)
	resp := postReport(t, router, "?format=json", scenarioJSON, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body struct {
		Timing []struct {
			DutyID    string `json:"duty_id"`
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
		} `json:"timing"`
		Stops []struct {
			StartStop string `json:"start_stop"`
			EndStop   string `json:"end_stop"`
		} `json:"stops"`
		Breaks []struct {
			BreakStop            string `json:"break_stop"`
			BreakDurationMinutes int64  `json:"break_duration_minutes"`
		} `json:"breaks"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Timing) != 1 || body.Timing[0].DutyID != "D1" {
		t.Fatalf("unexpected timing: %+v", body.Timing)
	}
	if body.Stops[0].StartStop != "Depot A" || body.Stops[0].EndStop != "Station C" {
		t.Fatalf("unexpected stops: %+v", body.Stops)
	}
	if len(body.Breaks) != 1 || body.Breaks[0].BreakStop != "Station B" || body.Breaks[0].BreakDurationMinutes != 75 {
		t.Fatalf("unexpected breaks: %+v", body.Breaks)
	}
}

func TestGenerateReport_InvalidJSON(t *testing.T) {
	router := newTestRouter(t, nil)
	resp := postReport(t, router, "", "{not json", nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateReport_UnknownFormat(t *testing.T) {
	router := newTestRouter(t, nil)
	resp := postReport(t, router, "?format=csv", scenarioJSON, nil)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGenerateReport_TaxiOnlyDuty(t *testing.T) {
	router := newTestRouter(t, nil)
	resp := postReport(t, router, "", taxiOnlyJSON, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reason != "no_service_trip" {
		t.Fatalf("expected no_service_trip, got %+v", body)
	}
}

func TestGenerateReport_UnknownStopIsLocated(t *testing.T) {
	router := newTestRouter(t, nil)
	doc := strings.Replace(scenarioJSON, `"destination_stop_id": "S3"`, `"destination_stop_id": "S9"`, 1)
	resp := postReport(t, router, "", doc, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	var body errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Reason != "unknown_stop" || body.DutyID != "D1" || body.EventIndex == nil || *body.EventIndex != 1 {
		t.Fatalf("unexpected error body: %+v", body)
	}
	if !strings.Contains(body.Error, "S9") {
		t.Fatalf("expected stop id in error, got %s", body.Error)
	}
}

func TestGenerateReport_AuditsAndArchives(t *testing.T) {
	recorder := &recordingAudit{}
	router := newTestRouter(t, recorder)
	ctx := auth.WithIdentity(context.Background(), auth.Identity{TenantID: "tenant-1", Role: auth.RoleOperator, Subject: "planner"})

	resp := postReport(t, router, "?format=xlsx", scenarioJSON, ctx)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	runID := resp.Header().Get("X-Report-Run-Id")
	if len(recorder.entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != audit.ActionReportGenerate || entry.ResourceID != runID || entry.Actor != "planner" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=5", nil).WithContext(ctx)
	listResp := httptest.NewRecorder()
	router.ServeHTTP(listResp, listReq)
	if listResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", listResp.Code)
	}
	var runs []reporting.ReportRun
	if err := json.Unmarshal(listResp.Body.Bytes(), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != runID || runs[0].Format != reporting.FormatXLSX {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+runID, nil).WithContext(ctx)
	getResp := httptest.NewRecorder()
	router.ServeHTTP(getResp, getReq)
	if getResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", getResp.Code)
	}

	otherCtx := auth.WithIdentity(context.Background(), auth.Identity{TenantID: "tenant-2", Role: auth.RoleViewer})
	otherReq := httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+runID, nil).WithContext(otherCtx)
	otherResp := httptest.NewRecorder()
	router.ServeHTTP(otherResp, otherReq)
	if otherResp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for other tenant, got %d", otherResp.Code)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListRuns_BadLimit(t *testing.T) {
	router := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/reports?limit=zero", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
