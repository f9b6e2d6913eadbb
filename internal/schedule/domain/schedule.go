package schedule

// DutyEventKind tags a duty event.
type DutyEventKind string

const (
	DutyEventVehicle DutyEventKind = "vehicle_event"
	DutyEventTaxi    DutyEventKind = "taxi"
	DutyEventSignOn  DutyEventKind = "sign_on"
)

// VehicleEventKind tags a vehicle event. Kinds other than service_trip carry their own times.
type VehicleEventKind string

const (
	VehicleEventServiceTrip  VehicleEventKind = "service_trip"
	VehicleEventDeadhead     VehicleEventKind = "deadhead"
	VehicleEventPreTrip      VehicleEventKind = "pre_trip"
	VehicleEventDepotPullIn  VehicleEventKind = "depot_pull_in"
	VehicleEventDepotPullOut VehicleEventKind = "depot_pull_out"
)

// Schedule is the decoded input document.
type Schedule struct {
	Stops    []Stop    `json:"stops"`
	Trips    []Trip    `json:"trips"`
	Vehicles []Vehicle `json:"vehicles"`
	Duties   []Duty    `json:"duties"`
}

// Stop is a place a trip or event can start or end.
type Stop struct {
	ID        string  `json:"stop_id"`
	Name      string  `json:"stop_name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	IsDepot   bool    `json:"is_depot"`
}

// Trip is a timetabled service run.
type Trip struct {
	ID                string `json:"trip_id"`
	RouteNumber       string `json:"route_number"`
	OriginStopID      string `json:"origin_stop_id"`
	DestinationStopID string `json:"destination_stop_id"`
	DepartureTime     string `json:"departure_time"`
	ArrivalTime       string `json:"arrival_time"`
}

// Vehicle owns an ordered timeline of events.
type Vehicle struct {
	ID     string         `json:"vehicle_id"`
	Events []VehicleEvent `json:"vehicle_events"`
}

// VehicleEvent is one segment of a vehicle timeline.
type VehicleEvent struct {
	Sequence          int              `json:"vehicle_event_sequence"`
	Kind              VehicleEventKind `json:"vehicle_event_type"`
	TripID            string           `json:"trip_id,omitempty"`
	StartTime         string           `json:"start_time,omitempty"`
	EndTime           string           `json:"end_time,omitempty"`
	OriginStopID      string           `json:"origin_stop_id,omitempty"`
	DestinationStopID string           `json:"destination_stop_id,omitempty"`
	DutyID            string           `json:"duty_id,omitempty"`
}

// IsServiceTrip reports whether timing comes from the referenced trip.
func (e VehicleEvent) IsServiceTrip() bool {
	return e.Kind == VehicleEventServiceTrip
}

// Duty is a driver's ordered work assignment.
type Duty struct {
	ID     string      `json:"duty_id"`
	Events []DutyEvent `json:"duty_events"`
}

// DutyEvent is one segment of a duty. Vehicle events reference a vehicle timeline;
// taxi and sign-on events carry their own times and stops.
type DutyEvent struct {
	Sequence             int           `json:"duty_event_sequence"`
	Kind                 DutyEventKind `json:"duty_event_type"`
	VehicleEventSequence int           `json:"vehicle_event_sequence,omitempty"`
	VehicleID            string        `json:"vehicle_id,omitempty"`
	StartTime            string        `json:"start_time,omitempty"`
	EndTime              string        `json:"end_time,omitempty"`
	OriginStopID         string        `json:"origin_stop_id,omitempty"`
	DestinationStopID    string        `json:"destination_stop_id,omitempty"`
}
