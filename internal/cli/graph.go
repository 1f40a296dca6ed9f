package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/pkg/errors"
	"github.com/matzehuels/railroute/pkg/render/dot"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	output    string   // output file, stdout when empty
	format    string   // "dot" or "svg"; inferred from the output extension
	stations  bool     // draw the station network instead of departures
	detailed  bool     // label legs with ride and layover minutes
	highlight []string // origin and destination of a route to highlight
}

// graphCommand exports the itinerary graph for Graphviz.
func (c *CLI) graphCommand() *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the time-expanded graph as DOT or SVG",
		Long: `Export the time-expanded graph: one node per departure grouped by
station, ride legs to each station's arrival node and dashed connection legs
between trains. With --stations only the station network is drawn.

--highlight from,to marks the shortest itinerary between two stations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.format == "" {
				opts.format = inferFormat(opts.output)
			}
			if opts.format != formatDOT && opts.format != formatSVG {
				return fmt.Errorf("invalid format: %s (must be dot or svg)", opts.format)
			}
			if len(opts.highlight) != 0 && len(opts.highlight) != 2 {
				return fmt.Errorf("--highlight needs exactly two stations, got %d", len(opts.highlight))
			}
			return userError(c.runGraph(cmd.Context(), opts))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot (default), svg")
	cmd.Flags().BoolVar(&opts.stations, "stations", false, "draw stations and trains only")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "label legs with ride and layover minutes")
	cmd.Flags().StringSliceVar(&opts.highlight, "highlight", nil, "highlight the shortest itinerary from,to")

	return cmd
}

// inferFormat picks the output format from a file extension.
func inferFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".svg") {
		return formatSVG
	}
	return formatDOT
}

func (c *CLI) runGraph(ctx context.Context, opts graphOpts) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	names := plan.Timetable.Names()
	var src string
	if opts.stations {
		src = dot.StationsDOT(plan.Graph, names)
	} else {
		dopts := dot.Options{Detailed: opts.detailed}
		if len(opts.highlight) == 2 {
			origin, dest, err := resolvePair(plan, opts.highlight[0], opts.highlight[1])
			if err != nil {
				return err
			}
			r, err := plan.ShortestRoute(ctx, origin, dest, true)
			if err != nil {
				return err
			}
			dopts.Highlight = &r
		}
		src = dot.ToDOT(plan.Graph, names, dopts)
	}

	data := []byte(src)
	if opts.format == formatSVG {
		data, err = dot.RenderSVG(ctx, src)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "render svg")
		}
	}
	prog.done("Rendered graph", "format", opts.format, "bytes", len(data))

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Graph written")
	printFile(opts.output)
	printStats(plan)
	if opts.format == formatDOT {
		printNewline()
		printNextStep("Render with Graphviz", "dot -Tsvg "+opts.output)
	}
	return nil
}
