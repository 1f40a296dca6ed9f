package stationgraph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/railroute/pkg/timetable"
)

// Graph answers itinerary queries over a fixed timetable.
//
// It holds two static station views (trips leaving and trips arriving at each
// station), the time-expanded departure graph and the next-hop tables for both
// weight modes. Everything is built by [New] or [Restore] and never modified
// afterwards.
//
// A Graph is safe for concurrent use once constructed.
type Graph struct {
	stationCount int
	tripCount    int

	stations []Station // outgoing view, index = station ID - 1
	arrivals []Station // arrivals view, index = station ID - 1

	departures []Departure   // keys 0..R-1 trips, R..R+S-1 terminals
	byStation  map[int][]int // station ID -> departure keys, ascending

	tables Tables
}

// New builds the graph and precomputes shortest paths for both weight modes.
// Construction runs Floyd–Warshall twice and costs O(V³) for V = trips +
// stations.
//
// Station IDs must be exactly 1..len(stations) in any order, and every trip
// must reference two of them.
func New(trips []timetable.TripRecord, stations []timetable.StationRecord) (*Graph, error) {
	g, err := build(trips, stations)
	if err != nil {
		return nil, err
	}
	g.tables = precompute(g.departures)
	return g, nil
}

// Restore builds the graph around tables exported by an earlier [Graph.Tables]
// call for the same timetable, skipping the O(V³) precomputation.
func Restore(trips []timetable.TripRecord, stations []timetable.StationRecord, tables Tables) (*Graph, error) {
	g, err := build(trips, stations)
	if err != nil {
		return nil, err
	}
	n := len(g.departures)
	if tables.Vertices != n || !tables.WithLayovers.valid(n) || !tables.RideOnly.valid(n) {
		return nil, fmt.Errorf("%w: have %d vertices, tables for %d", ErrTableMismatch, n, tables.Vertices)
	}
	g.tables = tables
	return g, nil
}

// FromTimetable is shorthand for New(tt.Trips, tt.Stations).
func FromTimetable(tt *timetable.Timetable) (*Graph, error) {
	return New(tt.Trips, tt.Stations)
}

func build(trips []timetable.TripRecord, stations []timetable.StationRecord) (*Graph, error) {
	if err := checkStations(stations); err != nil {
		return nil, err
	}
	for i, t := range trips {
		if !inRange(t.Origin, len(stations)) || !inRange(t.Destination, len(stations)) {
			return nil, fmt.Errorf("%w: trip %d runs %d -> %d", ErrUnknownStation, i, t.Origin, t.Destination)
		}
	}

	g := &Graph{
		stationCount: len(stations),
		tripCount:    len(trips),
	}
	g.stations = buildStationView(trips, len(stations), false)
	g.arrivals = buildStationView(trips, len(stations), true)
	g.departures = buildDepartures(trips, stations)

	g.byStation = make(map[int][]int, len(stations))
	for _, d := range g.departures {
		g.byStation[d.StationID] = append(g.byStation[d.StationID], d.Key)
	}
	return g, nil
}

func checkStations(stations []timetable.StationRecord) error {
	seen := make([]bool, len(stations)+1)
	for _, s := range stations {
		if !inRange(s.ID, len(stations)) || seen[s.ID] {
			return fmt.Errorf("%w: station %d", ErrStationTable, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func inRange(id, count int) bool { return id >= 1 && id <= count }

// buildStationView groups trips by origin, or by destination when arrivals is
// set. In the arrivals view each trip's Destination holds its origin.
func buildStationView(trips []timetable.TripRecord, stationCount int, arrivals bool) []Station {
	byID := make([][]Trip, stationCount)
	for _, t := range trips {
		at, other := t.Origin, t.Destination
		if arrivals {
			at, other = t.Destination, t.Origin
		}
		byID[at-1] = append(byID[at-1], Trip{Destination: other, Departure: t.Departure, Arrival: t.Arrival})
	}

	view := make([]Station, stationCount)
	for i := range view {
		view[i] = Station{ID: i + 1, Trips: byID[i]}
	}
	return view
}

// recordKey identifies a physical departure. Timetable rows with the same key
// describe the same train and share one vertex's legs.
type recordKey struct {
	origin, destination int
	departure, arrival  timetable.Clock
}

func keyOf(t timetable.TripRecord) recordKey {
	return recordKey{t.Origin, t.Destination, t.Departure, t.Arrival}
}

// buildDepartures creates the time-expanded vertices.
//
// Vertex i (0 <= i < R) is trip row i. Its legs are one ride leg to the
// terminal vertex of its destination, plus one connection leg to every trip
// leaving that destination strictly after the train arrives. Vertex R+s is
// the terminal vertex of station row s.
//
// Rows with an identical (origin, destination, departure, arrival) tuple are
// aliases: they keep their own vertex keys but share the legs of the first
// such row, and connection legs always target that first row.
func buildDepartures(trips []timetable.TripRecord, stations []timetable.StationRecord) []Departure {
	r := len(trips)

	terminal := make(map[int]int, len(stations))
	for s, st := range stations {
		terminal[st.ID] = r + s
	}

	canonical := make(map[recordKey]int, r)
	alias := make([]int, r)
	byOrigin := make(map[int][]int)
	for i, t := range trips {
		k := keyOf(t)
		if c, ok := canonical[k]; ok {
			alias[i] = c
			continue
		}
		canonical[k] = i
		alias[i] = i
		byOrigin[t.Origin] = append(byOrigin[t.Origin], i)
	}

	legs := make([][]Leg, r)
	for i, t := range trips {
		if alias[i] != i {
			continue
		}
		ride := t.RideMinutes()
		legs[i] = append(legs[i], Leg{Target: terminal[t.Destination], Ride: ride, Weight: ride})

		arrive := t.ArrivalMinutes()
		for _, j := range byOrigin[t.Destination] {
			if j == i {
				continue
			}
			wait := trips[j].Departure.Minutes() - arrive
			if wait <= 0 {
				continue
			}
			legs[i] = append(legs[i], Leg{Target: j, Ride: ride, Layover: wait, Weight: ride + wait})
		}
	}

	departures := make([]Departure, 0, r+len(stations))
	for i, t := range trips {
		departures = append(departures, Departure{
			Key:       i,
			StationID: t.Origin,
			Time:      t.Departure,
			legs:      legs[alias[i]],
		})
	}
	for s, st := range stations {
		departures = append(departures, Departure{Key: r + s, StationID: st.ID})
	}
	return departures
}

// Tables returns the precomputed next-hop tables. The returned value shares
// storage with the graph and must not be modified.
func (g *Graph) Tables() Tables { return g.tables }

// VertexCount returns the number of vertices of the station graph, which is
// the number of stations.
func (g *Graph) VertexCount() int { return g.stationCount }

// TripCount returns the number of trip rows the graph was built from.
func (g *Graph) TripCount() int { return g.tripCount }

// DepartureCount returns the number of time-expanded vertices: one per trip
// row plus one terminal per station.
func (g *Graph) DepartureCount() int { return len(g.departures) }

// LegCount returns the number of time-expanded edges.
func (g *Graph) LegCount() int {
	n := 0
	for _, d := range g.departures {
		n += len(d.legs)
	}
	return n
}

// Departures returns a copy of the time-expanded vertices in key order.
func (g *Graph) Departures() []Departure { return slices.Clone(g.departures) }

// Departure returns the vertex with the given key.
func (g *Graph) Departure(key int) (Departure, error) {
	if key < 0 || key >= len(g.departures) {
		return invalidDeparture, fmt.Errorf("%w: %d", ErrUnknownDeparture, key)
	}
	return g.departures[key], nil
}

// Station returns the trips leaving station id.
// Out-of-range IDs return a Station with ID -1 and ErrStationNotFound.
func (g *Graph) Station(id int) (Station, error) {
	return lookup(g.stations, id)
}

// ArrivalStation returns the trips terminating at station id.
// Out-of-range IDs return a Station with ID -1 and ErrStationNotFound.
func (g *Graph) ArrivalStation(id int) (Station, error) {
	return lookup(g.arrivals, id)
}

func lookup(view []Station, id int) (Station, error) {
	if !inRange(id, len(view)) {
		return invalidStation, fmt.Errorf("%w: %d", ErrStationNotFound, id)
	}
	s := view[id-1]
	return Station{ID: s.ID, Trips: slices.Clone(s.Trips)}, nil
}
