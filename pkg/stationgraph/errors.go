package stationgraph

import "errors"

var (
	// ErrStationNotFound is returned by [Graph.Station] and
	// [Graph.ArrivalStation] for IDs outside [1, station count].
	ErrStationNotFound = errors.New("station not found")

	// ErrNoRoute is returned by [Graph.ShortestRoute] and
	// [Graph.RouteFromTime] when no feasible itinerary exists.
	ErrNoRoute = errors.New("no route")

	// ErrUnknownDeparture is returned by [Graph.Departure] for keys outside
	// the vertex range.
	ErrUnknownDeparture = errors.New("unknown departure")

	// ErrUnknownStation is returned by [New] when a trip references a
	// station that has no row in the station table.
	ErrUnknownStation = errors.New("trip references unknown station")

	// ErrStationTable is returned by [New] when station IDs are not exactly
	// 1..S for a table of S rows.
	ErrStationTable = errors.New("station IDs must be unique and within [1, station count]")

	// ErrTableMismatch is returned by [Restore] when precomputed tables do not
	// match the graph's vertex count.
	ErrTableMismatch = errors.New("precomputed tables do not match graph")
)
