// Package stationgraph plans train itineraries over a fixed timetable.
//
// # Time-expanded graph
//
// Stations alone cannot express whether a transfer is possible: a passenger
// can only board a second train if it leaves after the first one arrives. The
// package therefore builds a time-expanded graph whose vertices are
// [Departure] values:
//
//   - one vertex per timetable trip row (keys 0..R-1), and
//   - one terminal vertex per station (keys R..R+S-1) with no outgoing legs.
//
// Each trip vertex has a ride [Leg] to the terminal vertex of its destination
// and a connection leg to every trip leaving that destination strictly later
// than it arrives, weighted by ride time plus the wait.
//
// # Precomputation
//
// [New] runs Floyd–Warshall twice over the V = R+S vertices, once per [Mode]:
// [WithLayovers] counts waiting time, [RideOnly] does not. Both runs share the
// same topology, so a ride-only itinerary may still include waits; they are
// simply not counted. The resulting next-hop [Tables] can be exported and
// passed to [Restore] to skip the O(V³) step on a later run.
//
// # Queries
//
//	g, err := stationgraph.New(tt.Trips, tt.Stations)
//	if err != nil {
//	    return err
//	}
//	r, err := g.ShortestRoute(1, 3, true)
//	if errors.Is(err, stationgraph.ErrNoRoute) {
//	    // no feasible itinerary
//	}
//	fmt.Println(r.Weight(), len(r.Legs))
//
// Station-level queries enumerate every pair of vertices at the two stations
// and keep the cheapest valid reconstruction. [Graph.PathExists] and
// [Graph.DirectPathExists] answer reachability from the static station views
// without touching the tables.
package stationgraph
