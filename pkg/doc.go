// Package pkg provides the core libraries for railroute train itinerary
// planning.
//
// # Overview
//
// Railroute answers questions over a fixed train timetable: is there any
// sequence of trains between two stations, is there a direct one, and which
// itinerary is fastest when layovers count or when only time on board does.
// Transfers are only possible onto trains leaving strictly after the previous
// one arrives.
//
// # Architecture
//
// The typical data flow:
//
//	stations.dat + trains.dat, or Postgres
//	         ↓
//	    [timetable] package (parse rows, clocks, station names)
//	         ↓
//	    [stationgraph] package (time-expanded graph + next-hop tables)
//	         ↓
//	    [planner] package (cache lookup, queries, summaries)
//	         ↓
//	    CLI, HTTP API, DOT/SVG
//
// # Quick Start
//
//	tt, _ := timetable.Load("stations.dat", "trains.dat")
//	g, _ := stationgraph.FromTimetable(tt)
//
//	r, err := g.ShortestRoute(1, 3, true)
//	if err != nil {
//	    return err // errors.Is(err, stationgraph.ErrNoRoute)
//	}
//	fmt.Println(r.Weight(), r.RideTime(), r.LayoverTime())
//
// # Main Packages
//
// [timetable] - Station and trip records, HHMM clocks, file and Postgres
// loaders.
//
// [stationgraph] - Static adjacency views, the time-expanded departure graph
// and the all-pairs shortest path tables in two weight modes.
//
// [planner] - Loads a timetable, restores or precomputes the tables through
// [cache], and exposes validated queries and ride summaries.
//
// [cache] - File, Redis and no-op backends for precomputed tables.
//
// [render/dot] - Graphviz export of the departure graph and station network.
//
// [observability] - Hooks for load, precompute, query, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the HTTP API.
//
// [timetable]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/timetable
// [stationgraph]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/stationgraph
// [planner]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/planner
// [cache]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/cache
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/render/dot
// [observability]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/railroute/pkg/errors
package pkg
