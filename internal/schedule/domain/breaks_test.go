package schedule

import (
	"errors"
	"testing"
	"time"
)

func gapDuty(gap string) Duty {
	return Duty{
		ID: "D1",
		Events: []DutyEvent{
			{Kind: DutyEventSignOn, StartTime: "0.06:00", EndTime: "0.07:00", DestinationStopID: "S1"},
			{Kind: DutyEventTaxi, StartTime: gap, EndTime: "0.09:00", DestinationStopID: "S2"},
		},
	}
}

func TestDetectBreaks_ThresholdIsStrict(t *testing.T) {
	resolver := NewResolver(NewIndex(scenarioSchedule()))
	policy := DefaultBreakPolicy()

	breaks, err := resolver.DetectBreaks(gapDuty("0.07:15"), policy)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(breaks) != 0 {
		t.Fatalf("exactly 15 minutes must not be a break, got %d", len(breaks))
	}

	breaks, err = resolver.DetectBreaks(gapDuty("0.07:15:01"), policy)
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(breaks) != 1 {
		t.Fatalf("15m1s must be a break, got %d", len(breaks))
	}
	if breaks[0].Duration != 15*time.Minute+time.Second {
		t.Fatalf("unexpected duration %s", breaks[0].Duration)
	}
	if breaks[0].StopName != "Depot A" || breaks[0].Start.Format(ClockMinutes) != "07:00" {
		t.Fatalf("unexpected break %+v", breaks[0])
	}
}

func TestDetectBreaks_OverlapIsNotAnError(t *testing.T) {
	resolver := NewResolver(NewIndex(scenarioSchedule()))
	breaks, err := resolver.DetectBreaks(gapDuty("0.06:30"), DefaultBreakPolicy())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(breaks) != 0 {
		t.Fatalf("expected no breaks, got %d", len(breaks))
	}
}

func TestDetectBreaks_Scenario(t *testing.T) {
	doc := scenarioSchedule()
	resolver := NewResolver(NewIndex(doc))
	breaks, err := resolver.DetectBreaks(doc.Duties[0], DefaultBreakPolicy())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(breaks) != 1 {
		t.Fatalf("expected 1 break, got %d", len(breaks))
	}
	got := breaks[0]
	if got.Duration != 75*time.Minute {
		t.Fatalf("expected 75m, got %s", got.Duration)
	}
	if got.Start.Format(ClockMinutes) != "07:30" || got.StopID != "S2" || got.StopName != "Station B" || got.AfterIndex != 0 {
		t.Fatalf("unexpected break %+v", got)
	}
}

func TestDetectBreaks_OrderFollowsEvents(t *testing.T) {
	duty := Duty{
		ID: "D4",
		Events: []DutyEvent{
			{Kind: DutyEventSignOn, StartTime: "0.05:00", EndTime: "0.05:10", DestinationStopID: "S1"},
			{Kind: DutyEventTaxi, StartTime: "0.06:00", EndTime: "0.06:20", DestinationStopID: "S2"},
			{Kind: DutyEventTaxi, StartTime: "0.06:25", EndTime: "0.06:40", DestinationStopID: "S3"},
			{Kind: DutyEventTaxi, StartTime: "1.00:10", EndTime: "1.00:40", DestinationStopID: "S1"},
		},
	}
	resolver := NewResolver(NewIndex(scenarioSchedule()))
	breaks, err := resolver.DetectBreaks(duty, DefaultBreakPolicy())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(breaks) != 2 {
		t.Fatalf("expected 2 breaks, got %d", len(breaks))
	}
	if breaks[0].StopName != "Depot A" || breaks[1].StopName != "Station C" {
		t.Fatalf("unexpected order: %+v", breaks)
	}
	if breaks[1].Duration != 17*time.Hour+30*time.Minute {
		t.Fatalf("expected cross-midnight gap 17h30m, got %s", breaks[1].Duration)
	}
}

func TestDetectBreaks_MissingStopIsSurfaced(t *testing.T) {
	duty := Duty{
		ID: "D5",
		Events: []DutyEvent{
			{Kind: DutyEventSignOn, StartTime: "0.05:00", EndTime: "0.05:10"},
			{Kind: DutyEventTaxi, StartTime: "0.06:00", EndTime: "0.06:20"},
		},
	}
	resolver := NewResolver(NewIndex(scenarioSchedule()))
	_, err := resolver.DetectBreaks(duty, DefaultBreakPolicy())
	var located *DutyEventError
	if !errors.As(err, &located) || located.DutyID != "D5" || located.Index != 0 {
		t.Fatalf("expected located error at D5/0, got %v", err)
	}
	if !errors.Is(err, ErrUnknownStop) {
		t.Fatalf("expected ErrUnknownStop, got %v", err)
	}
}

func TestNewBreakPolicy(t *testing.T) {
	if _, err := NewBreakPolicy(-time.Minute); err == nil {
		t.Fatalf("expected error for negative threshold")
	}
	policy, err := NewBreakPolicy(0)
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	if policy.IsBreak(0) || !policy.IsBreak(time.Second) {
		t.Fatalf("zero threshold must still be strict")
	}
}
