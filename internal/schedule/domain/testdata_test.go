package schedule

// scenarioSchedule is the two-trip duty used across resolver and break tests.
func scenarioSchedule() *Schedule {
	return &Schedule{
		Stops: []Stop{
			{ID: "S1", Name: "Depot A", Latitude: 41.3851, Longitude: 2.1734, IsDepot: true},
			{ID: "S2", Name: "Station B", Latitude: 41.4036, Longitude: 2.1744},
			{ID: "S3", Name: "Station C", Latitude: 41.4145, Longitude: 2.1527},
		},
		Trips: []Trip{
			{ID: "T1", RouteNumber: "10", OriginStopID: "S1", DestinationStopID: "S2", DepartureTime: "0.07:00", ArrivalTime: "0.07:30"},
			{ID: "T2", RouteNumber: "10", OriginStopID: "S2", DestinationStopID: "S3", DepartureTime: "0.08:45", ArrivalTime: "0.07:00"},
		},
		Vehicles: []Vehicle{
			{
				ID: "V1",
				Events: []VehicleEvent{
					{Sequence: 1, Kind: VehicleEventServiceTrip, TripID: "T1", DutyID: "D1"},
					{Sequence: 2, Kind: VehicleEventServiceTrip, TripID: "T2", DutyID: "D1"},
				},
			},
		},
		Duties: []Duty{
			{
				ID: "D1",
				Events: []DutyEvent{
					{Sequence: 1, Kind: DutyEventVehicle, VehicleID: "V1", VehicleEventSequence: 1},
					{Sequence: 2, Kind: DutyEventVehicle, VehicleID: "V1", VehicleEventSequence: 2},
				},
			},
		},
	}
}
