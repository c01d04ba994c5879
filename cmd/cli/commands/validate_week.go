package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/pkg/core/services"
)

// ValidateWeekCmd creates the validateWeek command
func ValidateWeekCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateWeek <week_start>",
		Short: "Validate the roster for the week starting on the given Monday (YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekStart := args[0]
			preset, _ := cmd.Flags().GetString("preset")
			strict, _ := cmd.Flags().GetBool("fail-on-warning")

			result, err := services.ValidateWeek(
				app.Ctx, app.Store, app.Orchestrator, app.Logger,
				weekStart, app.Selection(preset))
			if err != nil {
				return err
			}

			printReport(result.Report)

			if !result.Report.Valid || (strict && len(result.Report.Warnings) > 0) {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().String("preset", "", "Validation preset (relaxed, standard, strict)")
	cmd.Flags().Bool("fail-on-warning", false, "Exit non-zero when the report has warnings")

	return cmd
}
