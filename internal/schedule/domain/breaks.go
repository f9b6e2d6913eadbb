package schedule

import (
	"errors"
	"time"
)

// DefaultBreakThreshold is the gap a break must exceed.
const DefaultBreakThreshold = 15 * time.Minute

// BreakPolicy decides which gaps between duty events are breaks.
type BreakPolicy struct {
	MinGap time.Duration
}

// DefaultBreakPolicy returns the 15 minute policy.
func DefaultBreakPolicy() BreakPolicy {
	return BreakPolicy{MinGap: DefaultBreakThreshold}
}

// NewBreakPolicy validates minGap.
func NewBreakPolicy(minGap time.Duration) (BreakPolicy, error) {
	if minGap < 0 {
		return BreakPolicy{}, errors.New("schedule: negative break threshold")
	}
	return BreakPolicy{MinGap: minGap}, nil
}

// IsBreak reports whether gap is strictly longer than the threshold.
func (p BreakPolicy) IsBreak(gap time.Duration) bool {
	return gap > p.MinGap
}

// Break is a rest gap between two consecutive duty events.
type Break struct {
	// AfterIndex is the index of the event the break follows.
	AfterIndex int
	Start      DayTime
	Duration   time.Duration
	StopID     string
	StopName   string
}

// DetectBreaks scans adjacent event pairs of duty in order.
func (r *Resolver) DetectBreaks(duty Duty, policy BreakPolicy) ([]Break, error) {
	var breaks []Break
	for i := 0; i+1 < len(duty.Events); i++ {
		current, next := duty.Events[i], duty.Events[i+1]
		end, err := r.EndTime(current)
		if err != nil {
			return nil, wrapDutyEvent(duty.ID, i, err)
		}
		start, err := r.StartTime(next)
		if err != nil {
			return nil, wrapDutyEvent(duty.ID, i+1, err)
		}
		gap := start.Sub(end)
		if !policy.IsBreak(gap) {
			continue
		}
		stopID, err := r.DestinationStopID(current)
		if err != nil {
			return nil, wrapDutyEvent(duty.ID, i, err)
		}
		stopName, err := r.idx.StopName(stopID)
		if err != nil {
			return nil, wrapDutyEvent(duty.ID, i, err)
		}
		breaks = append(breaks, Break{
			AfterIndex: i,
			Start:      end,
			Duration:   gap,
			StopID:     stopID,
			StopName:   stopName,
		})
	}
	return breaks, nil
}
