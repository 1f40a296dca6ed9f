package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/railroute/pkg/stationgraph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds ride and layover minutes to leg labels.
	Detailed bool

	// Highlight draws the legs of this route in bold.
	Highlight *stationgraph.Route
}

// ToDOT converts the time-expanded graph of g to DOT. names maps station IDs
// to display names and may be nil.
func ToDOT(g *stationgraph.Graph, names map[int]string, opts Options) string {
	departures := g.Departures()
	onRoute := routeLegs(opts.Highlight)

	byStation := make(map[int][]stationgraph.Departure)
	for _, d := range departures {
		byStation[d.StationID] = append(byStation[d.StationID], d)
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("  compound=true;\n")

	for id := 1; id <= g.VertexCount(); id++ {
		fmt.Fprintf(&buf, "\n  subgraph cluster_%d {\n", id)
		fmt.Fprintf(&buf, "    label=%q;\n", stationLabel(id, names))
		buf.WriteString("    style=\"rounded,dashed\";\n")
		for _, d := range byStation[id] {
			fmt.Fprintf(&buf, "    %s [%s];\n", nodeID(d.Key), nodeAttrs(d))
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, d := range departures {
		for _, l := range d.Legs() {
			attrs := fmt.Sprintf("label=%q", legLabel(l, opts.Detailed))
			if onRoute[[2]int{d.Key, l.Target}] {
				attrs += ", penwidth=3, color=\"#d6336c\""
			} else if l.Layover > 0 {
				attrs += ", style=dashed"
			}
			fmt.Fprintf(&buf, "  %s -> %s [%s];\n", nodeID(d.Key), nodeID(l.Target), attrs)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// StationsDOT converts the static station view of g to DOT, one edge per
// scheduled trip.
func StationsDOT(g *stationgraph.Graph, names map[int]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=ellipse, style=filled, fillcolor=white, fontsize=14];\n\n")

	for id := 1; id <= g.VertexCount(); id++ {
		fmt.Fprintf(&buf, "  s%d [label=%q];\n", id, stationLabel(id, names))
	}
	buf.WriteString("\n")
	for id := 1; id <= g.VertexCount(); id++ {
		s, err := g.Station(id)
		if err != nil {
			continue
		}
		for _, t := range s.Trips {
			fmt.Fprintf(&buf, "  s%d -> s%d [label=%q];\n", id, t.Destination,
				t.Departure.String()+"-"+t.Arrival.String())
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(key int) string { return "d" + strconv.Itoa(key) }

func nodeAttrs(d stationgraph.Departure) string {
	if d.IsFinalDestination() {
		return `label="arrive", shape=doublecircle, fillcolor=lightgrey`
	}
	return fmt.Sprintf("label=%q", d.Time.String())
}

func stationLabel(id int, names map[int]string) string {
	if name := names[id]; name != "" {
		return fmt.Sprintf("%d %s", id, name)
	}
	return strconv.Itoa(id)
}

func legLabel(l stationgraph.Leg, detailed bool) string {
	if !detailed {
		return strconv.Itoa(l.Weight)
	}
	if l.Layover == 0 {
		return fmt.Sprintf("ride %d", l.Ride)
	}
	return fmt.Sprintf("ride %d + wait %d", l.Ride, l.Layover)
}

func routeLegs(r *stationgraph.Route) map[[2]int]bool {
	legs := make(map[[2]int]bool)
	if r == nil || !r.Valid() {
		return legs
	}
	cur := r.From.Key
	for _, l := range r.Legs {
		legs[[2]int{cur, l.Target}] = true
		cur = l.Target
	}
	return legs
}

// RenderSVG renders DOT source to SVG with an in-process Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one that
// scales cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
