package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/pkg/planner"
)

// pathCommand reports whether two stations are connected at all.
func (c *CLI) pathCommand() *cobra.Command {
	var direct bool

	cmd := &cobra.Command{
		Use:   "path <from> <to>",
		Short: "Check whether two stations are connected",
		Long: `Check whether any sequence of connecting trains links two stations.
With --direct only a single train counts, regardless of its time.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return userError(c.runPath(cmd.Context(), args[0], args[1], direct))
		},
	}
	cmd.Flags().BoolVar(&direct, "direct", false, "only accept a single train")

	return cmd
}

func (c *CLI) runPath(ctx context.Context, from, to string, direct bool) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	origin, dest, err := resolvePair(plan, from, to)
	if err != nil {
		return err
	}

	ok, err := queryPath(ctx, plan, origin, dest, direct)
	if err != nil {
		return err
	}
	fmt.Println(describePath(plan, origin, dest, direct, ok))
	return nil
}

func queryPath(ctx context.Context, plan *planner.Plan, origin, dest int, direct bool) (bool, error) {
	if direct {
		return plan.DirectPathExists(ctx, origin, dest)
	}
	return plan.PathExists(ctx, origin, dest)
}

// describePath renders the answer of a path query as one line.
func describePath(plan *planner.Plan, origin, dest int, direct, ok bool) string {
	from, _ := plan.StationName(origin)
	to, _ := plan.StationName(dest)
	kind := "a connection"
	if direct {
		kind = "a direct train"
	}
	if ok {
		return styleIconSuccess.Render(iconSuccess) + fmt.Sprintf(" There is %s from %s to %s", kind, from, to)
	}
	return styleIconError.Render(iconError) + fmt.Sprintf(" There is no %s from %s to %s", kind[2:], from, to)
}
