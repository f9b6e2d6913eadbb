package interfaces

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	reporting "duty-reports/internal/reporting/domain"
	schedule "duty-reports/internal/schedule/domain"
)

const (
	sectionTiming = "Step 1 - Start and End Time"
	sectionStops  = "Step 2 - Start and End Stop"
	sectionBreaks = "Step 3 - Breaks"
)

var (
	timingHeaders = []string{"Duty ID", "Start Time", "End Time"}
	stopHeaders   = []string{"Duty ID", "Start Time", "End Time", "Start Stop", "End Stop", "Service km"}
	breakHeaders  = []string{"Duty ID", "Start Time", "End Time", "Start Stop", "End Stop", "Break Start", "Break Duration", "Break Stop"}

	timingWeights = []float64{1, 2, 2}
	stopWeights   = []float64{1, 1, 1, 2, 2, 1}
	breakWeights  = []float64{1, 1, 1, 2, 2, 1, 1, 2}
)

// ExportOptions controls document layout.
type ExportOptions struct {
	ClockLayout string
	PageSize    string
	Orientation string
}

func (o ExportOptions) withDefaults() ExportOptions {
	if o.ClockLayout == "" {
		o.ClockLayout = schedule.ClockMinutes
	}
	if o.PageSize == "" {
		o.PageSize = "A4"
	}
	if o.Orientation == "" {
		o.Orientation = "P"
	}
	return o
}

// Exporter renders assembled reports.
type Exporter struct {
	opts ExportOptions
}

// NewExporter constructs an exporter.
func NewExporter(opts ExportOptions) *Exporter {
	return &Exporter{opts: opts.withDefaults()}
}

// Render renders report in format.
func (e *Exporter) Render(report *reporting.Report, format reporting.Format) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("export: nil report")
	}
	switch format {
	case reporting.FormatPDF:
		return BuildReportPDF(report, e.opts)
	case reporting.FormatXLSX:
		return BuildReportXLSX(report, e.opts)
	case reporting.FormatJSON:
		return BuildReportJSON(report, e.opts)
	default:
		return nil, reporting.ErrUnknownFormat
	}
}

// BuildReportPDF renders the three duty views as tables on A4 pages.
func BuildReportPDF(report *reporting.Report, opts ExportOptions) ([]byte, error) {
	opts = opts.withDefaults()
	rows := tableRows(report, opts.ClockLayout)

	pdf := gofpdf.New(opts.Orientation, "mm", opts.PageSize, "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 10, tr(report.Title))
	pdf.Ln(12)

	writeSection(pdf, tr, sectionTiming, timingHeaders, timingWeights, rows.timing)
	writeSection(pdf, tr, sectionStops, stopHeaders, stopWeights, rows.stops)
	writeSection(pdf, tr, sectionBreaks, breakHeaders, breakWeights, rows.breaks)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, tr func(string) string, title string, headers []string, weights []float64, rows [][]string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)

	widths := columnWidths(pdf, weights)
	pdf.SetFont("Arial", "B", 9)
	for i, header := range headers {
		pdf.CellFormat(widths[i], 6, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i, value := range row {
			pdf.CellFormat(widths[i], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(6)
}

func columnWidths(pdf *gofpdf.Fpdf, weights []float64) []float64 {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	usable := pageWidth - left - right
	var total float64
	for _, w := range weights {
		total += w
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w / total
	}
	return widths
}

// BuildReportXLSX renders one sheet per duty view.
func BuildReportXLSX(report *reporting.Report, opts ExportOptions) ([]byte, error) {
	opts = opts.withDefaults()
	rows := tableRows(report, opts.ClockLayout)

	f := excelize.NewFile()
	defer f.Close()
	timingSheet := "timing"
	stopsSheet := "stops"
	breaksSheet := "breaks"
	f.SetSheetName("Sheet1", timingSheet)
	f.NewSheet(stopsSheet)
	f.NewSheet(breaksSheet)

	for _, sheet := range []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{timingSheet, timingHeaders, rows.timing},
		{stopsSheet, stopHeaders, rows.stops},
		{breaksSheet, breakHeaders, rows.breaks},
	} {
		if err := writeSheet(f, sheet.name, sheet.headers, sheet.rows); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

type reportJSON struct {
	Title  string          `json:"title"`
	Timing []timingRowJSON `json:"timing"`
	Stops  []stopRowJSON   `json:"stops"`
	Breaks []breakRowJSON  `json:"breaks"`
}

type timingRowJSON struct {
	DutyID    string `json:"duty_id"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type stopRowJSON struct {
	timingRowJSON
	StartStop string  `json:"start_stop"`
	EndStop   string  `json:"end_stop"`
	ServiceKm float64 `json:"service_km"`
}

type breakRowJSON struct {
	stopRowJSON
	BreakStart           string `json:"break_start"`
	BreakDurationMinutes int64  `json:"break_duration_minutes"`
	BreakStop            string `json:"break_stop"`
}

// BuildReportJSON renders the three views as JSON. Times keep their day offset.
func BuildReportJSON(report *reporting.Report, _ ExportOptions) ([]byte, error) {
	out := reportJSON{
		Title:  report.Title,
		Timing: make([]timingRowJSON, 0, len(report.Timing)),
		Stops:  make([]stopRowJSON, 0, len(report.Stops)),
		Breaks: make([]breakRowJSON, 0, len(report.Breaks)),
	}
	for _, row := range report.Timing {
		out.Timing = append(out.Timing, timingJSON(row))
	}
	for _, row := range report.Stops {
		out.Stops = append(out.Stops, stopJSON(row))
	}
	for _, row := range report.Breaks {
		out.Breaks = append(out.Breaks, breakRowJSON{
			stopRowJSON:          stopJSON(row.StopRow),
			BreakStart:           row.BreakStart.String(),
			BreakDurationMinutes: int64(row.BreakDuration / time.Minute),
			BreakStop:            row.BreakStop,
		})
	}
	return json.Marshal(out)
}

func timingJSON(row reporting.TimingRow) timingRowJSON {
	return timingRowJSON{DutyID: row.DutyID, StartTime: row.Start.String(), EndTime: row.End.String()}
}

func stopJSON(row reporting.StopRow) stopRowJSON {
	return stopRowJSON{
		timingRowJSON: timingJSON(row.TimingRow),
		StartStop:     row.StartStop,
		EndStop:       row.EndStop,
		ServiceKm:     row.ServiceKm,
	}
}

type renderedRows struct {
	timing [][]string
	stops  [][]string
	breaks [][]string
}

func tableRows(report *reporting.Report, layout string) renderedRows {
	var rows renderedRows
	for _, row := range report.Timing {
		rows.timing = append(rows.timing, timingCells(row, layout))
	}
	for _, row := range report.Stops {
		rows.stops = append(rows.stops, stopCells(row, layout))
	}
	for _, row := range report.Breaks {
		cells := stopCells(row.StopRow, layout)
		cells = cells[:len(cells)-1]
		cells = append(cells,
			row.BreakStart.Format(layout),
			FormatDuration(row.BreakDuration),
			row.BreakStop,
		)
		rows.breaks = append(rows.breaks, cells)
	}
	return rows
}

func timingCells(row reporting.TimingRow, layout string) []string {
	return []string{row.DutyID, row.Start.Format(layout), row.End.Format(layout)}
}

func stopCells(row reporting.StopRow, layout string) []string {
	return append(timingCells(row.TimingRow, layout), row.StartStop, row.EndStop, fmt.Sprintf("%.1f", row.ServiceKm))
}

// FormatDuration renders d as H:MM.
func FormatDuration(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}
	minutes := int64(d / time.Minute)
	return fmt.Sprintf("%s%d:%02d", sign, minutes/60, minutes%60)
}
