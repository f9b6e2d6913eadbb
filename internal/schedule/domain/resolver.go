package schedule

// Resolver answers timing and location queries for duty events by following
// references through an Index.
type Resolver struct {
	idx *Index
}

// NewResolver constructs a resolver over idx.
func NewResolver(idx *Index) *Resolver {
	return &Resolver{idx: idx}
}

// rawSegment is the raw timing and location of a duty event before parsing.
type rawSegment struct {
	start       string
	end         string
	origin      string
	destination string
	trip        *Trip
}

// segment is the single dispatch point over duty event kinds.
func (r *Resolver) segment(e DutyEvent) (rawSegment, error) {
	switch e.Kind {
	case DutyEventTaxi, DutyEventSignOn:
		return rawSegment{
			start:       e.StartTime,
			end:         e.EndTime,
			origin:      e.OriginStopID,
			destination: e.DestinationStopID,
		}, nil
	case DutyEventVehicle:
		vehicleEvent, err := r.idx.FirstVehicleEventBySequence(e.VehicleID, e.VehicleEventSequence)
		if err != nil {
			return rawSegment{}, err
		}
		if !vehicleEvent.IsServiceTrip() {
			return rawSegment{
				start:       vehicleEvent.StartTime,
				end:         vehicleEvent.EndTime,
				origin:      vehicleEvent.OriginStopID,
				destination: vehicleEvent.DestinationStopID,
			}, nil
		}
		trip, err := r.idx.Trip(vehicleEvent.TripID)
		if err != nil {
			return rawSegment{}, err
		}
		return rawSegment{
			start:       trip.DepartureTime,
			end:         trip.ArrivalTime,
			origin:      trip.OriginStopID,
			destination: trip.DestinationStopID,
			trip:        &trip,
		}, nil
	default:
		return rawSegment{}, &UnsupportedEventKindError{Kind: string(e.Kind)}
	}
}

// StartTime resolves when e starts.
func (r *Resolver) StartTime(e DutyEvent) (DayTime, error) {
	seg, err := r.segment(e)
	if err != nil {
		return 0, err
	}
	return ParseDayTime(seg.start)
}

// EndTime resolves when e ends.
func (r *Resolver) EndTime(e DutyEvent) (DayTime, error) {
	seg, err := r.segment(e)
	if err != nil {
		return 0, err
	}
	return ParseDayTime(seg.end)
}

// DestinationStopID resolves where e ends. It may be empty for events without a stop.
func (r *Resolver) DestinationStopID(e DutyEvent) (string, error) {
	seg, err := r.segment(e)
	if err != nil {
		return "", err
	}
	return seg.destination, nil
}

// OriginStopID resolves where e starts. It may be empty for events without a stop.
func (r *Resolver) OriginStopID(e DutyEvent) (string, error) {
	seg, err := r.segment(e)
	if err != nil {
		return "", err
	}
	return seg.origin, nil
}

// ServiceTrip returns the trip behind e, or nil when e is not a service trip.
func (r *Resolver) ServiceTrip(e DutyEvent) (*Trip, error) {
	seg, err := r.segment(e)
	if err != nil {
		return nil, err
	}
	return seg.trip, nil
}

// DutyStartTime is the start of the first event of duty.
func (r *Resolver) DutyStartTime(duty Duty) (DayTime, error) {
	if len(duty.Events) == 0 {
		return 0, &EmptyDutyError{DutyID: duty.ID}
	}
	start, err := r.StartTime(duty.Events[0])
	return start, wrapDutyEvent(duty.ID, 0, err)
}

// DutyEndTime is the end of the last event of duty.
func (r *Resolver) DutyEndTime(duty Duty) (DayTime, error) {
	if len(duty.Events) == 0 {
		return 0, &EmptyDutyError{DutyID: duty.ID}
	}
	last := len(duty.Events) - 1
	end, err := r.EndTime(duty.Events[last])
	return end, wrapDutyEvent(duty.ID, last, err)
}

type locatedTrip struct {
	index int
	trip  Trip
}

// serviceTrips returns duty's service trips in duty order with their event index.
// Taxi and sign-on events are skipped; vehicle events that fail to resolve abort.
func (r *Resolver) serviceTrips(duty Duty) ([]locatedTrip, error) {
	var located []locatedTrip
	for i, event := range duty.Events {
		if event.Kind != DutyEventVehicle {
			continue
		}
		trip, err := r.ServiceTrip(event)
		if err != nil {
			return nil, wrapDutyEvent(duty.ID, i, err)
		}
		if trip != nil {
			located = append(located, locatedTrip{index: i, trip: *trip})
		}
	}
	return located, nil
}

// DutyStopNames names the origin of the first service trip and the destination of
// the last service trip of duty.
func (r *Resolver) DutyStopNames(duty Duty) (string, string, error) {
	located, err := r.serviceTrips(duty)
	if err != nil {
		return "", "", err
	}
	if len(located) == 0 {
		return "", "", &NoServiceTripError{DutyID: duty.ID}
	}
	first, last := located[0], located[len(located)-1]
	start, err := r.idx.StopName(first.trip.OriginStopID)
	if err != nil {
		return "", "", wrapDutyEvent(duty.ID, first.index, err)
	}
	end, err := r.idx.StopName(last.trip.DestinationStopID)
	if err != nil {
		return "", "", wrapDutyEvent(duty.ID, last.index, err)
	}
	return start, end, nil
}
