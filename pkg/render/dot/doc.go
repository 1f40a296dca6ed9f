// Package dot renders itinerary graphs as Graphviz diagrams.
//
// [ToDOT] draws the time-expanded graph: each trip departure is a node
// grouped into a cluster per station, terminal vertices are drawn as double
// circles, and legs are arrows labelled with their cost. [StationsDOT] draws
// the plain station network instead, one arrow per scheduled trip.
//
//	src := dot.ToDOT(g, names, dot.Options{Highlight: &route})
//	svg, err := dot.RenderSVG(ctx, src)
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz]; no external binary is needed.
package dot
