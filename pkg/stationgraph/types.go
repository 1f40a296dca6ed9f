package stationgraph

import (
	"slices"

	"github.com/matzehuels/railroute/pkg/timetable"
)

// Trip is one scheduled ride in a static station view.
//
// In the outgoing view Destination is where the train goes; in the arrivals
// view it holds the station the train came from. Departure and Arrival are
// always the recorded clocks of the ride.
type Trip struct {
	Destination int             `json:"destination"`
	Departure   timetable.Clock `json:"departure"`
	Arrival     timetable.Clock `json:"arrival"`
}

// Duration returns the ride time in minutes.
func (t Trip) Duration() int {
	return timetable.TripRecord{Departure: t.Departure, Arrival: t.Arrival}.RideMinutes()
}

// Station is a station together with the trips leaving it (or, from
// [Graph.ArrivalStation], the trips terminating at it).
//
// A Station with ID <= 0 is the "not found" value returned for bad lookups.
type Station struct {
	ID    int    `json:"id"`
	Trips []Trip `json:"trips"`
}

// Valid reports whether s is a real station.
func (s Station) Valid() bool { return s.ID > 0 }

// invalidStation is returned for out-of-range lookups.
var invalidStation = Station{ID: -1}

// Leg is a directed edge of the time-expanded graph.
//
// A ride leg ends the journey at the destination's terminal vertex and has
// Layover 0. A connection leg points at a later departure from the
// destination station and carries the wait before it. Target -1 marks "no
// such edge".
type Leg struct {
	Target  int `json:"target"`
	Ride    int `json:"ride"`    // minutes on the train
	Layover int `json:"layover"` // minutes waiting at the destination
	Weight  int `json:"weight"`  // Ride + Layover
}

// noLeg is the sentinel for a missing edge.
var noLeg = Leg{Target: -1}

// Departure is a vertex of the time-expanded graph: either one concrete
// scheduled trip leaving StationID at Time, or the terminal vertex of a
// station (no legs, Time 0).
type Departure struct {
	Key       int             `json:"key"`
	StationID int             `json:"station"`
	Time      timetable.Clock `json:"time"`
	legs      []Leg
}

// IsFinalDestination reports whether d is a terminal vertex.
func (d Departure) IsFinalDestination() bool { return len(d.legs) == 0 }

// LegCount returns the number of outgoing legs.
func (d Departure) LegCount() int { return len(d.legs) }

// Leg returns the i-th outgoing leg.
func (d Departure) Leg(i int) Leg { return d.legs[i] }

// Legs returns a copy of the outgoing legs.
func (d Departure) Legs() []Leg { return slices.Clone(d.legs) }

// LegTo returns the leg from d to the vertex with the given key.
func (d Departure) LegTo(key int) (Leg, bool) {
	for _, l := range d.legs {
		if l.Target == key {
			return l, true
		}
	}
	return noLeg, false
}

// invalidDeparture is the departing vertex of an invalid Route.
var invalidDeparture = Departure{Key: -1, StationID: -1, Time: -1}

// Mode selects which leg cost the shortest-path tables minimise.
type Mode int

const (
	// WithLayovers weighs legs by ride time plus waiting time.
	WithLayovers Mode = iota
	// RideOnly weighs legs by ride time alone. Routes may still wait at
	// connections; the wait is just not counted.
	RideOnly
)

// ModeFor maps the includeLayovers flag of the query API to a Mode.
func ModeFor(includeLayovers bool) Mode {
	if includeLayovers {
		return WithLayovers
	}
	return RideOnly
}

// String returns the mode name used in logs and metrics.
func (m Mode) String() string {
	if m == RideOnly {
		return "ride_only"
	}
	return "with_layovers"
}

// WeightFunc extracts the cost of a leg.
type WeightFunc func(Leg) int

// Weight returns the leg cost function for m.
func (m Mode) Weight() WeightFunc {
	if m == RideOnly {
		return func(l Leg) int { return l.Ride }
	}
	return func(l Leg) int { return l.Weight }
}

// Route is an itinerary: the departure it starts from, the legs taken and
// the vertex it ends on.
type Route struct {
	From Departure `json:"from"`
	Legs []Leg     `json:"legs"`
	To   Departure `json:"to"`
}

// InvalidRoute returns the "no route" value.
func InvalidRoute() Route {
	return Route{From: invalidDeparture, To: invalidDeparture}
}

// Valid reports whether r describes a real itinerary. Callers must check
// this before using any other field.
func (r Route) Valid() bool {
	if r.From.StationID < 0 {
		return false
	}
	for _, l := range r.Legs {
		if l.Target < 0 {
			return false
		}
	}
	return true
}

// Weight returns the total cost including layovers.
func (r Route) Weight() int { return r.Cost(WithLayovers) }

// RideTime returns the total time spent on trains.
func (r Route) RideTime() int { return r.Cost(RideOnly) }

// LayoverTime returns the total time spent waiting for connections.
func (r Route) LayoverTime() int { return r.Weight() - r.RideTime() }

// Cost sums leg costs under mode m.
func (r Route) Cost(m Mode) int {
	w := m.Weight()
	total := 0
	for _, l := range r.Legs {
		total += w(l)
	}
	return total
}
