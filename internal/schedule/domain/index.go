package schedule

// Index holds id lookups over one schedule document. It is read-only after NewIndex.
type Index struct {
	stops         map[string]Stop
	trips         map[string]Trip
	vehicleEvents map[string][]VehicleEvent
}

// NewIndex builds lookups over doc. Duplicate stop and trip ids keep the first entry;
// duplicate vehicle ids have their timelines concatenated in document order.
func NewIndex(doc *Schedule) *Index {
	idx := &Index{
		stops:         make(map[string]Stop),
		trips:         make(map[string]Trip),
		vehicleEvents: make(map[string][]VehicleEvent),
	}
	if doc == nil {
		return idx
	}
	for _, stop := range doc.Stops {
		if _, ok := idx.stops[stop.ID]; !ok {
			idx.stops[stop.ID] = stop
		}
	}
	for _, trip := range doc.Trips {
		if _, ok := idx.trips[trip.ID]; !ok {
			idx.trips[trip.ID] = trip
		}
	}
	for _, vehicle := range doc.Vehicles {
		idx.vehicleEvents[vehicle.ID] = append(idx.vehicleEvents[vehicle.ID], vehicle.Events...)
	}
	return idx
}

// Stop returns the stop with id.
func (idx *Index) Stop(id string) (Stop, error) {
	stop, ok := idx.stops[id]
	if !ok || id == "" {
		return Stop{}, &UnknownStopError{StopID: id}
	}
	return stop, nil
}

// StopName returns the display name of stop id.
func (idx *Index) StopName(id string) (string, error) {
	stop, err := idx.Stop(id)
	if err != nil {
		return "", err
	}
	return stop.Name, nil
}

// Trip returns the trip with id.
func (idx *Index) Trip(id string) (Trip, error) {
	trip, ok := idx.trips[id]
	if !ok {
		return Trip{}, &UnknownTripError{TripID: id}
	}
	return trip, nil
}

// VehicleEvents returns the timeline of vehicleID, empty when the vehicle is absent.
func (idx *Index) VehicleEvents(vehicleID string) []VehicleEvent {
	return idx.vehicleEvents[vehicleID]
}

// FirstVehicleEventBySequence returns the first event in timeline order carrying seq.
func (idx *Index) FirstVehicleEventBySequence(vehicleID string, seq int) (VehicleEvent, error) {
	for _, event := range idx.vehicleEvents[vehicleID] {
		if event.Sequence == seq {
			return event, nil
		}
	}
	return VehicleEvent{}, &UnresolvedVehicleEventError{VehicleID: vehicleID, Sequence: seq}
}
