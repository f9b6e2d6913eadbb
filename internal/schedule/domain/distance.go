package schedule

import "github.com/umahmood/haversine"

// TripDistanceKm is the straight-line distance between a trip's origin and destination.
func (idx *Index) TripDistanceKm(trip Trip) (float64, error) {
	origin, err := idx.Stop(trip.OriginStopID)
	if err != nil {
		return 0, err
	}
	destination, err := idx.Stop(trip.DestinationStopID)
	if err != nil {
		return 0, err
	}
	from := haversine.Coord{Lat: origin.Latitude, Lon: origin.Longitude}
	to := haversine.Coord{Lat: destination.Latitude, Lon: destination.Longitude}
	_, km := haversine.Distance(from, to)
	return km, nil
}

// ServiceDistanceKm sums TripDistanceKm over the service trips of duty.
func (r *Resolver) ServiceDistanceKm(duty Duty) (float64, error) {
	located, err := r.serviceTrips(duty)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, lt := range located {
		km, err := r.idx.TripDistanceKm(lt.trip)
		if err != nil {
			return 0, wrapDutyEvent(duty.ID, lt.index, err)
		}
		total += km
	}
	return total, nil
}
