package stationgraph

import (
	"fmt"

	"github.com/matzehuels/railroute/pkg/timetable"
)

// ShortestRoute returns the cheapest itinerary from station origin to station
// dest. With includeLayovers the cost is ride plus waiting time, otherwise
// ride time only.
//
// Every departure vertex at origin is paired with every vertex at dest,
// each pair is reconstructed from the next-hop table of the chosen mode, and
// the valid candidate with the lowest cost wins. Ties keep the pair
// enumerated first (lowest keys). With no valid candidate the invalid Route
// is returned together with ErrNoRoute.
func (g *Graph) ShortestRoute(origin, dest int, includeLayovers bool) (Route, error) {
	m := ModeFor(includeLayovers)
	r, ok := g.best(origin, dest, m, nil)
	if !ok {
		return r, fmt.Errorf("%w: %d -> %d (%s)", ErrNoRoute, origin, dest, m)
	}
	return r, nil
}

// RouteFromTime returns the cheapest itinerary, layovers included, that
// leaves origin on a departure scheduled at clock.
//
// A departure also matches when its recorded time equals clock-1200: some
// timetables record afternoon trains on a 12-hour clock, so a query for 1430
// finds a train stored as 230.
func (g *Graph) RouteFromTime(clock timetable.Clock, origin, dest int) (Route, error) {
	match := func(d Departure) bool {
		return d.Time == clock || d.Time == clock-1200
	}
	r, ok := g.best(origin, dest, WithLayovers, match)
	if !ok {
		return r, fmt.Errorf("%w: %d -> %d at %s", ErrNoRoute, origin, dest, clock)
	}
	return r, nil
}

// best enumerates all vertex pairs of the two stations and keeps the
// cheapest valid route. accept, when set, filters departing vertices.
func (g *Graph) best(origin, dest int, m Mode, accept func(Departure) bool) (Route, bool) {
	best := InvalidRoute()
	bestCost := int(infinity)
	found := false

	for _, j := range g.byStation[origin] {
		if accept != nil && !accept(g.departures[j]) {
			continue
		}
		for _, k := range g.byStation[dest] {
			r := g.route(j, k, m)
			if !r.Valid() {
				continue
			}
			if c := r.Cost(m); c < bestCost {
				best, bestCost, found = r, c, true
			}
		}
	}
	return best, found
}

// DirectPathExists reports whether a single trip runs from origin to dest.
// Timing is not considered.
func (g *Graph) DirectPathExists(origin, dest int) bool {
	s, err := g.Station(origin)
	if err != nil {
		return false
	}
	for _, t := range s.Trips {
		if t.Destination == dest {
			return true
		}
	}
	return false
}

// PathExists reports whether any sequence of trips connects origin to dest.
//
// It is a breadth-first search over the static outgoing view, not a lookup in
// the shortest-path tables, and stops as soon as dest is reached. A transfer
// is only followed when the connecting trip leaves strictly after the
// previous one arrives, the same rule the time-expanded graph uses.
// Invalid station IDs yield false.
func (g *Graph) PathExists(origin, dest int) bool {
	if !inRange(origin, g.stationCount) || !inRange(dest, g.stationCount) {
		return false
	}
	if origin == dest {
		return true
	}

	w := newWalker(g)
	for i := range g.stations[origin-1].Trips {
		w.enqueue(tripRef{station: origin, index: i})
	}
	return w.search(dest)
}

// tripRef addresses trip index of station's outgoing view.
type tripRef struct {
	station, index int
}

// walker holds breadth-first search state for PathExists.
type walker struct {
	g       *Graph
	queue   []tripRef
	visited map[tripRef]bool
}

func newWalker(g *Graph) *walker {
	return &walker{g: g, visited: make(map[tripRef]bool)}
}

func (w *walker) trip(ref tripRef) Trip {
	return w.g.stations[ref.station-1].Trips[ref.index]
}

func (w *walker) enqueue(ref tripRef) {
	if w.visited[ref] {
		return
	}
	w.visited[ref] = true
	w.queue = append(w.queue, ref)
}

func (w *walker) dequeue() tripRef {
	ref := w.queue[0]
	w.queue = w.queue[1:]
	return ref
}

// search processes the queue until a trip reaching dest is dequeued.
func (w *walker) search(dest int) bool {
	for len(w.queue) > 0 {
		ref := w.dequeue()
		t := w.trip(ref)
		if t.Destination == dest {
			return true
		}

		arrive := t.Departure.Minutes() + t.Duration()
		for i, next := range w.g.stations[t.Destination-1].Trips {
			if next.Departure.Minutes() > arrive {
				w.enqueue(tripRef{station: t.Destination, index: i})
			}
		}
	}
	return false
}
