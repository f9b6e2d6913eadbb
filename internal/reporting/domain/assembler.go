package reporting

import (
	"errors"

	schedule "duty-reports/internal/schedule/domain"
)

// DefaultTitle is used when a profile does not name the report.
const DefaultTitle = "Duty report"

// Assembler composes resolver output into report rows.
type Assembler struct {
	title  string
	policy schedule.BreakPolicy
}

// NewAssembler constructs an assembler.
func NewAssembler(title string, policy schedule.BreakPolicy) *Assembler {
	if title == "" {
		title = DefaultTitle
	}
	return &Assembler{title: title, policy: policy}
}

// Assemble resolves every duty of doc. Any resolution error aborts the whole document.
func (a *Assembler) Assemble(doc *schedule.Schedule) (*Report, error) {
	if doc == nil {
		return nil, errors.New("reporting: nil schedule")
	}
	resolver := schedule.NewResolver(schedule.NewIndex(doc))
	report := &Report{
		Title:  a.title,
		Timing: make([]TimingRow, 0, len(doc.Duties)),
		Stops:  make([]StopRow, 0, len(doc.Duties)),
	}
	for _, duty := range doc.Duties {
		timing, err := timingRow(resolver, duty)
		if err != nil {
			return nil, err
		}
		report.Timing = append(report.Timing, timing)

		startStop, endStop, err := resolver.DutyStopNames(duty)
		if err != nil {
			return nil, err
		}
		km, err := resolver.ServiceDistanceKm(duty)
		if err != nil {
			return nil, err
		}
		stops := StopRow{TimingRow: timing, StartStop: startStop, EndStop: endStop, ServiceKm: km}
		report.Stops = append(report.Stops, stops)

		breaks, err := resolver.DetectBreaks(duty, a.policy)
		if err != nil {
			return nil, err
		}
		for _, b := range breaks {
			report.Breaks = append(report.Breaks, BreakRow{
				StopRow:       stops,
				BreakStart:    b.Start,
				BreakDuration: b.Duration,
				BreakStop:     b.StopName,
			})
		}
	}
	return report, nil
}

func timingRow(resolver *schedule.Resolver, duty schedule.Duty) (TimingRow, error) {
	start, err := resolver.DutyStartTime(duty)
	if err != nil {
		return TimingRow{}, err
	}
	end, err := resolver.DutyEndTime(duty)
	if err != nil {
		return TimingRow{}, err
	}
	return TimingRow{DutyID: duty.ID, Start: start, End: end}, nil
}
