package stationgraph

// route rebuilds the best path from vertex from to vertex to by walking the
// next-hop table of mode m.
//
// The walk stops at a terminal vertex or when the table has no next hop.
// Either way the route is only valid if it ended on to. Each step follows
// one leg, so a walk longer than V steps can only be a cycle and is
// rejected.
func (g *Graph) route(from, to int, m Mode) Route {
	n := len(g.departures)
	t := g.tables.table(m)

	var legs []Leg
	cur := from
	for steps := 0; cur != to; steps++ {
		d := g.departures[cur]
		next := t.next(n, cur, to)
		if d.IsFinalDestination() || next == Unreachable || steps >= n {
			return InvalidRoute()
		}
		leg, ok := d.LegTo(int(next))
		if !ok {
			// Table and topology disagree; the leg carries the -1 sentinel.
			legs = append(legs, leg)
			break
		}
		legs = append(legs, leg)
		cur = int(next)
	}

	r := Route{From: g.departures[from], Legs: legs, To: g.departures[cur]}
	if !r.Valid() {
		return InvalidRoute()
	}
	return r
}

// Distance returns the precomputed cost of the best path between two
// vertices under mode m.
func (g *Graph) Distance(from, to int, m Mode) (int, bool) {
	n := len(g.departures)
	if from < 0 || from >= n || to < 0 || to >= n {
		return 0, false
	}
	d := g.tables.table(m).Dist[from*n+to]
	if d == infinity {
		return 0, false
	}
	return int(d), true
}

// NextHop returns the first vertex after from on the best path to to under
// mode m, or Unreachable.
func (g *Graph) NextHop(from, to int, m Mode) int32 {
	n := len(g.departures)
	if from < 0 || from >= n || to < 0 || to >= n {
		return Unreachable
	}
	return g.tables.table(m).next(n, from, to)
}
