package interfaces

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	reporting "duty-reports/internal/reporting/domain"
	schedule "duty-reports/internal/schedule/domain"
)

func sampleReport() *reporting.Report {
	stops := reporting.StopRow{
		TimingRow: reporting.TimingRow{
			DutyID: "D1",
			Start:  schedule.MustParseDayTime("0.07:00"),
			End:    schedule.MustParseDayTime("1.00:20"),
		},
		StartStop: "Depot A",
		EndStop:   "Estació C",
		ServiceKm: 4.24,
	}
	return &reporting.Report{
		Title:  "Duty report",
		Timing: []reporting.TimingRow{stops.TimingRow},
		Stops:  []reporting.StopRow{stops},
		Breaks: []reporting.BreakRow{{
			StopRow:       stops,
			BreakStart:    schedule.MustParseDayTime("0.07:30"),
			BreakDuration: 75 * time.Minute,
			BreakStop:     "Station B",
		}},
	}
}

func TestBuildReportPDF(t *testing.T) {
	data, err := BuildReportPDF(sampleReport(), ExportOptions{})
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("expected pdf header")
	}
}

func TestBuildReportXLSX(t *testing.T) {
	data, err := BuildReportXLSX(sampleReport(), ExportOptions{})
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("breaks")
	if err != nil {
		t.Fatalf("read breaks sheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	want := []string{"D1", "07:00", "00:20", "Depot A", "Estació C", "07:30", "1:15", "Station B"}
	for i, value := range want {
		if rows[1][i] != value {
			t.Fatalf("column %d: expected %q, got %q", i, value, rows[1][i])
		}
	}
	timing, err := f.GetRows("timing")
	if err != nil {
		t.Fatalf("read timing sheet: %v", err)
	}
	if len(timing) != 2 || timing[0][0] != "Duty ID" {
		t.Fatalf("unexpected timing sheet %v", timing)
	}
}

func TestBuildReportJSON(t *testing.T) {
	data, err := BuildReportJSON(sampleReport(), ExportOptions{})
	if err != nil {
		t.Fatalf("build json: %v", err)
	}
	var decoded struct {
		Timing []map[string]any `json:"timing"`
		Breaks []map[string]any `json:"breaks"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Timing[0]["end_time"] != "1.00:20:00" {
		t.Fatalf("expected day offset kept in json, got %v", decoded.Timing[0]["end_time"])
	}
	if decoded.Breaks[0]["break_duration_minutes"].(float64) != 75 || decoded.Breaks[0]["duty_id"] != "D1" {
		t.Fatalf("unexpected break row %v", decoded.Breaks[0])
	}
}

func TestExporter_Render(t *testing.T) {
	exporter := NewExporter(ExportOptions{ClockLayout: schedule.ClockSeconds, Orientation: "L"})
	for _, format := range []reporting.Format{reporting.FormatPDF, reporting.FormatXLSX, reporting.FormatJSON} {
		data, err := exporter.Render(sampleReport(), format)
		if err != nil {
			t.Fatalf("render %s: %v", format, err)
		}
		if len(data) == 0 {
			t.Fatalf("render %s: empty output", format)
		}
	}
	if _, err := exporter.Render(sampleReport(), "docx"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if _, err := exporter.Render(nil, reporting.FormatPDF); err == nil {
		t.Fatalf("expected error for nil report")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		75 * time.Minute:              "1:15",
		15*time.Minute + time.Second:  "0:15",
		17*time.Hour + 30*time.Minute: "17:30",
		-5 * time.Minute:              "-0:05",
	}
	for d, want := range cases {
		if got := FormatDuration(d); got != want {
			t.Fatalf("%s: expected %s, got %s", d, want, got)
		}
	}
}
