package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/pkg/planner"
	"github.com/matzehuels/railroute/pkg/stationgraph"
	"github.com/matzehuels/railroute/pkg/timetable"
)

// routeOpts holds the flags of the route command.
type routeOpts struct {
	rideOnly bool   // rank by ride time alone
	at       string // departure clock, HHMM
	json     bool   // print the summary as JSON
}

// routeCommand finds the best itinerary between two stations.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <from> <to>",
		Short: "Find the shortest itinerary between two stations",
		Long: `Find the shortest itinerary between two stations, given by ID or name.

By default the itinerary minimises total travel time, layovers included.
With --ride-only only time spent on trains counts. With --at the itinerary
must leave on a train departing at that time (HHMM); afternoon times also
match trains recorded on a 12-hour clock.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return userError(c.runRoute(cmd.Context(), args[0], args[1], opts))
		},
	}

	cmd.Flags().BoolVar(&opts.rideOnly, "ride-only", false, "ignore layover time when ranking itineraries")
	cmd.Flags().StringVar(&opts.at, "at", "", "leave on a train departing at HHMM")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the itinerary as JSON")
	cmd.MarkFlagsMutuallyExclusive("ride-only", "at")

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, from, to string, opts routeOpts) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	origin, dest, err := resolvePair(plan, from, to)
	if err != nil {
		return err
	}

	s, err := queryRoute(ctx, plan, origin, dest, opts)
	if err != nil {
		return err
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	fmt.Println(renderRoute(s))
	return nil
}

// queryRoute runs the route query selected by opts and summarizes it.
func queryRoute(ctx context.Context, plan *planner.Plan, origin, dest int, opts routeOpts) (planner.Summary, error) {
	var (
		r   stationgraph.Route
		err error
	)
	if opts.at != "" {
		clock, perr := timetable.ParseClock(opts.at)
		if perr != nil {
			return planner.Summary{}, perr
		}
		r, err = plan.RouteFromTime(ctx, clock, origin, dest)
	} else {
		r, err = plan.ShortestRoute(ctx, origin, dest, !opts.rideOnly)
	}
	if err != nil {
		return planner.Summary{}, err
	}
	return plan.Summarize(r)
}
