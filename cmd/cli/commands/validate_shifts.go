package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/services"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/db"
)

// shiftsFile is the on-disk input for ad-hoc validation: shifts grouped by
// participant code.
type shiftsFile struct {
	Shifts map[string][]db.ShiftRecord `json:"shifts"`
}

// ValidateShiftsCmd creates the validateShifts command
func ValidateShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validateShifts <shifts.json>",
		Short: "Validate an ad-hoc list of shifts from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, _ := cmd.Flags().GetString("preset")
			noTemplates, _ := cmd.Flags().GetBool("no-templates")
			noParticipant, _ := cmd.Flags().GetBool("no-participant")
			noSmart, _ := cmd.Flags().GetBool("no-smart")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read shifts file: %w", err)
			}

			var input shiftsFile
			if err := json.Unmarshal(data, &input); err != nil {
				return fmt.Errorf("failed to parse shifts file: %w", err)
			}

			var shifts []*model.Shift
			for participant, records := range input.Shifts {
				for _, record := range records {
					shifts = append(shifts, record.ToModel(participant))
				}
			}
			if len(shifts) == 0 {
				return fmt.Errorf("no shifts found in %s", args[0])
			}

			opts := validation.DefaultBatchOptions()
			opts.TemplateValidation = !noTemplates
			opts.ParticipantValidation = !noParticipant
			opts.SmartValidation = !noSmart

			report, err := services.ValidateShifts(
				app.Ctx, app.Store, app.Orchestrator, app.Logger,
				shifts, app.Selection(preset), opts)
			if err != nil {
				return err
			}

			printReport(report)

			if !report.Valid {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().String("preset", "", "Validation preset (relaxed, standard, strict)")
	cmd.Flags().Bool("no-templates", false, "Skip template shape pre-validation")
	cmd.Flags().Bool("no-participant", false, "Skip participant-specific rules and overrides")
	cmd.Flags().Bool("no-smart", false, "Skip schedule-wide checks (rest, limits, double bookings)")

	return cmd
}
