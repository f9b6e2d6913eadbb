package application

import (
	"errors"

	schedule "duty-reports/internal/schedule/domain"
)

// FailureReason maps a resolution error to a short label for metrics and logs.
func FailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, schedule.ErrMalformedTime):
		return "malformed_time"
	case errors.Is(err, schedule.ErrUnknownStop):
		return "unknown_stop"
	case errors.Is(err, schedule.ErrUnknownTrip):
		return "unknown_trip"
	case errors.Is(err, schedule.ErrUnresolvedVehicleEvent):
		return "unresolved_vehicle_event"
	case errors.Is(err, schedule.ErrUnsupportedEventKind):
		return "unsupported_event_kind"
	case errors.Is(err, schedule.ErrEmptyDuty):
		return "empty_duty"
	case errors.Is(err, schedule.ErrNoServiceTrip):
		return "no_service_trip"
	default:
		return "other"
	}
}

// IsResolutionError reports whether err comes from schedule resolution.
func IsResolutionError(err error) bool {
	reason := FailureReason(err)
	return reason != "" && reason != "other"
}
