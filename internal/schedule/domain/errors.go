package schedule

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedTime is returned when a day-relative time string cannot be parsed.
	ErrMalformedTime = errors.New("schedule: malformed time")
	// ErrUnknownStop is returned when a stop id is not in the document.
	ErrUnknownStop = errors.New("schedule: unknown stop")
	// ErrUnknownTrip is returned when a trip id is not in the document.
	ErrUnknownTrip = errors.New("schedule: unknown trip")
	// ErrUnresolvedVehicleEvent is returned when no vehicle event carries the referenced sequence.
	ErrUnresolvedVehicleEvent = errors.New("schedule: unresolved vehicle event")
	// ErrUnsupportedEventKind is returned for duty event kinds outside the closed set.
	ErrUnsupportedEventKind = errors.New("schedule: unsupported event kind")
	// ErrEmptyDuty is returned when a duty has no events.
	ErrEmptyDuty = errors.New("schedule: empty duty")
	// ErrNoServiceTrip is returned when a duty has no service trip to name its stops.
	ErrNoServiceTrip = errors.New("schedule: no service trip")
)

// MalformedTimeError describes a bad time string.
type MalformedTimeError struct {
	Raw    string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("schedule: malformed time %q: %s", e.Raw, e.Reason)
}

func (e *MalformedTimeError) Unwrap() error { return ErrMalformedTime }

// UnknownStopError names a dangling stop reference.
type UnknownStopError struct {
	StopID string
}

func (e *UnknownStopError) Error() string {
	if e.StopID == "" {
		return "schedule: unknown stop: missing stop id"
	}
	return fmt.Sprintf("schedule: unknown stop %q", e.StopID)
}

func (e *UnknownStopError) Unwrap() error { return ErrUnknownStop }

// UnknownTripError names a dangling trip reference.
type UnknownTripError struct {
	TripID string
}

func (e *UnknownTripError) Error() string {
	return fmt.Sprintf("schedule: unknown trip %q", e.TripID)
}

func (e *UnknownTripError) Unwrap() error { return ErrUnknownTrip }

// UnresolvedVehicleEventError names the vehicle timeline lookup that failed.
type UnresolvedVehicleEventError struct {
	VehicleID string
	Sequence  int
}

func (e *UnresolvedVehicleEventError) Error() string {
	return fmt.Sprintf("schedule: vehicle %q has no event with sequence %d", e.VehicleID, e.Sequence)
}

func (e *UnresolvedVehicleEventError) Unwrap() error { return ErrUnresolvedVehicleEvent }

// UnsupportedEventKindError carries the literal kind that was rejected.
type UnsupportedEventKindError struct {
	Kind string
}

func (e *UnsupportedEventKindError) Error() string {
	return fmt.Sprintf("schedule: unsupported event kind %q", e.Kind)
}

func (e *UnsupportedEventKindError) Unwrap() error { return ErrUnsupportedEventKind }

// EmptyDutyError names a duty without events.
type EmptyDutyError struct {
	DutyID string
}

func (e *EmptyDutyError) Error() string {
	return fmt.Sprintf("schedule: duty %q has no events", e.DutyID)
}

func (e *EmptyDutyError) Unwrap() error { return ErrEmptyDuty }

// NoServiceTripError names a duty without any service trip.
type NoServiceTripError struct {
	DutyID string
}

func (e *NoServiceTripError) Error() string {
	return fmt.Sprintf("schedule: duty %q has no service trip", e.DutyID)
}

func (e *NoServiceTripError) Unwrap() error { return ErrNoServiceTrip }

// DutyEventError locates a failure inside a duty.
type DutyEventError struct {
	DutyID string
	Index  int
	Err    error
}

func (e *DutyEventError) Error() string {
	return fmt.Sprintf("duty %q event %d: %v", e.DutyID, e.Index, e.Err)
}

func (e *DutyEventError) Unwrap() error { return e.Err }

func wrapDutyEvent(dutyID string, index int, err error) error {
	if err == nil {
		return nil
	}
	var located *DutyEventError
	if errors.As(err, &located) {
		return err
	}
	return &DutyEventError{DutyID: dutyID, Index: index, Err: err}
}
