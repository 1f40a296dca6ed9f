package planner

import (
	"fmt"

	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/stationgraph"
	"github.com/matzehuels/railroute/pkg/timetable"
)

// StationRef names a station.
type StationRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (s StationRef) String() string {
	if s.Name == "" {
		return fmt.Sprintf("#%d", s.ID)
	}
	return s.Name
}

// Ride is one scheduled train ride as presented to users.
type Ride struct {
	From      StationRef      `json:"from"`
	To        StationRef      `json:"to"`
	Departure timetable.Clock `json:"departure"`
	Arrival   timetable.Clock `json:"arrival"`
	Minutes   int             `json:"minutes"`

	// Layover is the wait at To before the next ride of an itinerary.
	Layover int `json:"layover,omitempty"`
}

// Summary is a route expressed in stations and clock times.
type Summary struct {
	From           StationRef `json:"from"`
	To             StationRef `json:"to"`
	Rides          []Ride     `json:"rides"`
	RideMinutes    int        `json:"ride_minutes"`
	LayoverMinutes int        `json:"layover_minutes"`
	TotalMinutes   int        `json:"total_minutes"`
}

// Summarize expands r into the rides it takes. Each leg of r is the ride of
// the trip it leaves from; a connection leg adds the wait for the next trip.
func (p *Plan) Summarize(r stationgraph.Route) (Summary, error) {
	if !r.Valid() {
		return Summary{}, errors.New(errors.ErrCodeNoRoute, "route is not valid")
	}

	s := Summary{
		From:           p.ref(r.From.StationID),
		To:             p.ref(r.To.StationID),
		RideMinutes:    r.RideTime(),
		LayoverMinutes: r.LayoverTime(),
		TotalMinutes:   r.Weight(),
	}

	cur := r.From.Key
	for _, leg := range r.Legs {
		if cur < 0 || cur >= len(p.Timetable.Trips) {
			return Summary{}, errors.New(errors.ErrCodeInternal, "leg from non-trip vertex %d", cur)
		}
		t := p.Timetable.Trips[cur]
		s.Rides = append(s.Rides, Ride{
			From:      p.ref(t.Origin),
			To:        p.ref(t.Destination),
			Departure: t.Departure,
			Arrival:   t.Arrival,
			Minutes:   leg.Ride,
			Layover:   leg.Layover,
		})
		cur = leg.Target
	}
	return s, nil
}

// Schedule lists the trips leaving and arriving at one station.
type Schedule struct {
	Station    StationRef `json:"station"`
	Departures []Ride     `json:"departures"`
	Arrivals   []Ride     `json:"arrivals"`
}

// Schedule returns the departures and arrivals of station id.
func (p *Plan) Schedule(id int) (Schedule, error) {
	out, err := p.Graph.Station(id)
	if err != nil {
		return Schedule{}, errors.Wrap(errors.ErrCodeStationNotFound, err, "station %d", id)
	}
	in, err := p.Graph.ArrivalStation(id)
	if err != nil {
		return Schedule{}, errors.Wrap(errors.ErrCodeStationNotFound, err, "station %d", id)
	}

	here := p.ref(id)
	s := Schedule{Station: here}
	for _, t := range out.Trips {
		s.Departures = append(s.Departures, Ride{
			From: here, To: p.ref(t.Destination),
			Departure: t.Departure, Arrival: t.Arrival, Minutes: t.Duration(),
		})
	}
	for _, t := range in.Trips {
		s.Arrivals = append(s.Arrivals, Ride{
			From: p.ref(t.Destination), To: here,
			Departure: t.Departure, Arrival: t.Arrival, Minutes: t.Duration(),
		})
	}
	return s, nil
}

// Schedules returns the schedule of every station in ID order.
func (p *Plan) Schedules() []Schedule {
	out := make([]Schedule, 0, p.Graph.VertexCount())
	for id := 1; id <= p.Graph.VertexCount(); id++ {
		s, err := p.Schedule(id)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (p *Plan) ref(id int) StationRef {
	name, _ := p.Timetable.StationName(id)
	return StationRef{ID: id, Name: name}
}
