package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// scheduleCommand prints the complete timetable or the trains of one station.
func (c *CLI) scheduleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule [station]",
		Short: "Print the complete schedule or one station's trains",
		Long: `Print the departures and arrivals of every station, or of a single
station given by ID or name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			station := ""
			if len(args) == 1 {
				station = args[0]
			}
			return userError(c.runSchedule(cmd.Context(), station))
		},
	}
}

func (c *CLI) runSchedule(ctx context.Context, station string) error {
	plan, err := c.loadPlan(ctx)
	if err != nil {
		return err
	}

	if station == "" {
		for _, s := range plan.Schedules() {
			fmt.Println(renderSchedule(s))
			printNewline()
		}
		printStats(plan)
		return nil
	}

	id, err := resolveStation(plan, station)
	if err != nil {
		return err
	}
	s, err := plan.Schedule(id)
	if err != nil {
		return err
	}
	fmt.Println(renderSchedule(s))
	return nil
}
