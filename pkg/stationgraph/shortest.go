package stationgraph

import "math"

const (
	// Unreachable is the next-hop value for pairs with no path.
	Unreachable int32 = -1

	// infinity is the distance of pairs with no path. Real leg weights are
	// bounded by one day in minutes, so no path sum comes near it.
	infinity int32 = math.MaxInt32
)

// Table is the result of one all-pairs shortest-path run, stored row-major:
// entry (i, j) lives at i*V+j.
type Table struct {
	Next []int32 `json:"next"` // first vertex after i on the best path to j
	Dist []int32 `json:"dist"` // best path cost from i to j
}

func newTable(n int) Table {
	t := Table{
		Next: make([]int32, n*n),
		Dist: make([]int32, n*n),
	}
	for i := range t.Next {
		t.Next[i] = Unreachable
		t.Dist[i] = infinity
	}
	return t
}

// Tables holds the next-hop tables for both weight modes. It is what
// [Graph.Tables] exports and [Restore] accepts, so a precomputation can be
// cached and reused.
type Tables struct {
	Vertices     int   `json:"vertices"`
	WithLayovers Table `json:"with_layovers"`
	RideOnly     Table `json:"ride_only"`
}

func (t *Tables) table(m Mode) *Table {
	if m == RideOnly {
		return &t.RideOnly
	}
	return &t.WithLayovers
}

// next returns the first hop from i towards j.
func (t *Table) next(n, i, j int) int32 { return t.Next[i*n+j] }

// valid reports whether t has the shape of a V×V table.
func (t *Table) valid(n int) bool {
	return len(t.Next) == n*n && len(t.Dist) == n*n
}

// shortestPaths runs Floyd–Warshall over the departure vertices with legs
// weighted by weight. Loop order is fixed (k → i → j) and only strict
// improvements are taken, so equal-cost alternatives keep the path found
// first. On improvement next[i][j] takes next[i][k], the first hop, which is
// what makes paths reconstructable.
//
// Time O(V³), space O(V²).
func shortestPaths(departures []Departure, weight WeightFunc) Table {
	n := len(departures)
	t := newTable(n)
	dist, next := t.Dist, t.Next

	for _, d := range departures {
		from := d.Key * n
		for _, l := range d.legs {
			w := int32(weight(l))
			if w < dist[from+l.Target] {
				dist[from+l.Target] = w
				next[from+l.Target] = int32(l.Target)
			}
		}
	}

	var (
		k, i, j      int
		baseK, baseI int
		ik, kj       int32
	)
	for k = 0; k < n; k++ {
		baseK = k * n
		for i = 0; i < n; i++ {
			baseI = i * n
			ik = dist[baseI+k]
			if ik == infinity {
				continue
			}
			for j = 0; j < n; j++ {
				kj = dist[baseK+j]
				if kj == infinity {
					continue
				}
				if cand := int64(ik) + int64(kj); cand < int64(dist[baseI+j]) {
					dist[baseI+j] = int32(cand)
					next[baseI+j] = next[baseI+k]
				}
			}
		}
	}

	return t
}

// precompute builds the tables for both modes.
func precompute(departures []Departure) Tables {
	return Tables{
		Vertices:     len(departures),
		WithLayovers: shortestPaths(departures, WithLayovers.Weight()),
		RideOnly:     shortestPaths(departures, RideOnly.Weight()),
	}
}
