package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/pkg/core/services"
)

// CheckAvailabilityCmd creates the checkAvailability command
func CheckAvailabilityCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "checkAvailability <date> <start_time> <end_time> <worker_id>...",
		Short: "Check whether workers are available for a date and time range",
		Args:  cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, startTime, endTime := args[0], args[1], args[2]
			workerIDs := args[3:]

			results, err := services.CheckAvailability(
				app.Ctx, app.Store, app.Logger,
				workerIDs, date, startTime, endTime)
			if err != nil {
				return err
			}

			fmt.Printf("\nAvailability for %s %s-%s:\n\n", date, startTime, endTime)
			for _, r := range results {
				if r.Available {
					fmt.Printf("  ✓ %s\n", r.WorkerID)
				} else {
					fmt.Printf("  ✗ %s (%s)\n", r.WorkerID, r.Reason)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
