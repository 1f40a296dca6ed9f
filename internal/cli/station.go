package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/railroute/pkg/errors"
)

// stationCommand looks stations up by ID or by name.
func (c *CLI) stationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "station",
		Short: "Look up stations",
	}
	cmd.AddCommand(c.stationNameCommand())
	cmd.AddCommand(c.stationIDCommand())
	return cmd
}

func (c *CLI) stationNameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "name <id>",
		Short: "Print the name of a station ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return userError(errors.Wrap(errors.ErrCodeInvalidStation, err, "station ID must be a number, got %q", args[0]))
			}
			return userError(c.runStationName(cmd.Context(), id))
		},
	}
}

func (c *CLI) stationIDCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "id <name>",
		Short: "Print the ID of a station name",
		Long:  `Print the ID of a station. Names are matched ignoring case.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return userError(c.runStationID(cmd.Context(), args[0]))
		},
	}
}

func (c *CLI) runStationName(ctx context.Context, id int) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	name, err := plan.StationName(id)
	if err != nil {
		return err
	}
	printKeyValue("Station "+strconv.Itoa(id), name)
	return nil
}

func (c *CLI) runStationID(ctx context.Context, name string) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}
	id, err := plan.StationID(name)
	if err != nil {
		return err
	}
	canonical, _ := plan.StationName(id)
	printKeyValue(canonical, strconv.Itoa(id))
	return nil
}
