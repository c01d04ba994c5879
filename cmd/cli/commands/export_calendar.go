package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/internal/config"
	"github.com/carebridge/rosterguard/pkg/clients/calendarclient"
	"github.com/carebridge/rosterguard/pkg/core/services"
)

// ExportCalendarCmd creates the exportCalendar command. The calendar client
// is constructed here rather than at startup so validation commands never
// trigger the OAuth flow.
func ExportCalendarCmd(app *AppContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "exportCalendar <week_start>",
		Short: "Export a week's shifts to the configured Google Calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weekStart := args[0]

			if app.Cfg.Calendar == nil {
				return fmt.Errorf("no calendar section in configuration")
			}
			timezone := app.Cfg.Calendar.Timezone
			if timezone == "" {
				timezone = "Australia/Sydney"
			}

			// A week that fails validation is not exported unless forced.
			result, err := services.ValidateWeek(app.Ctx, app.Store, app.Orchestrator, app.Logger, weekStart, app.Selection(""))
			if err != nil {
				return err
			}
			if !result.Report.Valid {
				if !force {
					return fmt.Errorf("week %s fails validation (%d errors); fix the roster or re-run with --force",
						weekStart, len(result.Report.Errors))
				}
				fmt.Printf("\n⚠ Exporting despite %d validation errors\n", len(result.Report.Errors))
			}

			oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
			if err != nil {
				return fmt.Errorf("failed to load OAuth client config: %w", err)
			}

			client, err := calendarclient.NewClient(app.Ctx, oauthCfg, app.Env)
			if err != nil {
				return fmt.Errorf("failed to create calendar client: %w", err)
			}

			exported, err := services.ExportCalendar(
				app.Ctx, app.Store, client, app.Logger,
				app.Cfg.Calendar.CalendarID, timezone, weekStart)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Exported %d shifts for week %s\n\n", exported, weekStart)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Export even when the week fails validation")
	return cmd
}
