package planner

import (
	"context"
	"time"

	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/observability"
	"github.com/matzehuels/railroute/pkg/stationgraph"
	"github.com/matzehuels/railroute/pkg/timetable"
)

// Plan is a loaded timetable with its prepared graph. It is immutable and
// safe for concurrent queries.
type Plan struct {
	Timetable *timetable.Timetable
	Graph     *stationgraph.Graph
	Digest    string

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats describes how the plan was built.
type Stats struct {
	LoadTime   time.Duration
	BuildTime  time.Duration
	Departures int
	Legs       int
}

// CacheInfo reports which steps were served from the cache.
type CacheInfo struct {
	TablesHit bool
}

// Query kinds reported to observability hooks.
const (
	QueryShortestRoute = "shortest_route"
	QueryRouteFromTime = "route_from_time"
	QueryPathExists    = "path_exists"
	QueryDirectPath    = "direct_path"
)

// ShortestRoute returns the cheapest itinerary between two stations.
// Unknown stations yield a STATION_NOT_FOUND error, a missing itinerary a
// NO_ROUTE error wrapping stationgraph.ErrNoRoute.
func (p *Plan) ShortestRoute(ctx context.Context, origin, dest int, includeLayovers bool) (stationgraph.Route, error) {
	if err := p.validatePair(origin, dest); err != nil {
		return stationgraph.InvalidRoute(), err
	}
	start := time.Now()
	r, err := p.Graph.ShortestRoute(origin, dest, includeLayovers)
	observability.Planner().OnQuery(ctx, QueryShortestRoute, err == nil, time.Since(start))
	if err != nil {
		return r, errors.Wrap(errors.ErrCodeNoRoute, err, "no itinerary from %s to %s", p.label(origin), p.label(dest))
	}
	return r, nil
}

// RouteFromTime returns the cheapest itinerary leaving origin at clock.
func (p *Plan) RouteFromTime(ctx context.Context, clock timetable.Clock, origin, dest int) (stationgraph.Route, error) {
	if err := errors.ValidateClock(int(clock)); err != nil {
		return stationgraph.InvalidRoute(), err
	}
	if err := p.validatePair(origin, dest); err != nil {
		return stationgraph.InvalidRoute(), err
	}
	start := time.Now()
	r, err := p.Graph.RouteFromTime(clock, origin, dest)
	observability.Planner().OnQuery(ctx, QueryRouteFromTime, err == nil, time.Since(start))
	if err != nil {
		return r, errors.Wrap(errors.ErrCodeNoRoute, err, "no itinerary from %s to %s at %s", p.label(origin), p.label(dest), clock)
	}
	return r, nil
}

// PathExists reports whether any sequence of connecting trips links the
// stations.
func (p *Plan) PathExists(ctx context.Context, origin, dest int) (bool, error) {
	if err := p.validatePair(origin, dest); err != nil {
		return false, err
	}
	start := time.Now()
	ok := p.Graph.PathExists(origin, dest)
	observability.Planner().OnQuery(ctx, QueryPathExists, ok, time.Since(start))
	return ok, nil
}

// DirectPathExists reports whether a single trip links the stations.
func (p *Plan) DirectPathExists(ctx context.Context, origin, dest int) (bool, error) {
	if err := p.validatePair(origin, dest); err != nil {
		return false, err
	}
	start := time.Now()
	ok := p.Graph.DirectPathExists(origin, dest)
	observability.Planner().OnQuery(ctx, QueryDirectPath, ok, time.Since(start))
	return ok, nil
}

// StationName returns the name of station id.
func (p *Plan) StationName(id int) (string, error) {
	if err := errors.ValidateStationID(id, len(p.Timetable.Stations)); err != nil {
		return "", err
	}
	name, _ := p.Timetable.StationName(id)
	return name, nil
}

// StationID resolves a station name, ignoring case.
func (p *Plan) StationID(name string) (int, error) {
	if err := errors.ValidateStationName(name); err != nil {
		return 0, err
	}
	id, ok := p.Timetable.StationID(name)
	if !ok {
		return 0, errors.New(errors.ErrCodeStationNotFound, "no station named %q", name)
	}
	return id, nil
}

func (p *Plan) validatePair(origin, dest int) error {
	n := len(p.Timetable.Stations)
	if err := errors.ValidateStationID(origin, n); err != nil {
		return err
	}
	return errors.ValidateStationID(dest, n)
}

// label renders a station for messages: its name, or its ID when unnamed.
func (p *Plan) label(id int) string {
	return p.ref(id).String()
}
