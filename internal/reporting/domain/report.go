package reporting

import (
	"time"

	schedule "duty-reports/internal/schedule/domain"
)

// TimingRow is the start and end of one duty.
type TimingRow struct {
	DutyID string
	Start  schedule.DayTime
	End    schedule.DayTime
}

// StopRow adds the first and last service stops to a TimingRow.
type StopRow struct {
	TimingRow
	StartStop string
	EndStop   string
	ServiceKm float64
}

// BreakRow is one break of a duty alongside its stop row.
type BreakRow struct {
	StopRow
	BreakStart    schedule.DayTime
	BreakDuration time.Duration
	BreakStop     string
}

// Report holds the three views handed to renderers.
type Report struct {
	Title  string
	Timing []TimingRow
	Stops  []StopRow
	Breaks []BreakRow
}

// DutyCount returns the number of duties in the report.
func (r *Report) DutyCount() int {
	if r == nil {
		return 0
	}
	return len(r.Timing)
}

// BreakCount returns the number of break rows.
func (r *Report) BreakCount() int {
	if r == nil {
		return 0
	}
	return len(r.Breaks)
}
