package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// ListPresetsCmd creates the listPresets command
func ListPresetsCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listPresets",
		Short: "Show the built-in validation presets and their resolved limits",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := []validation.Preset{
				validation.PresetRelaxed,
				validation.PresetStandard,
				validation.PresetStrict,
			}

			for _, preset := range presets {
				cfg := validation.NewResolver(validation.ConfigSelection{Preset: preset}).Base()

				fmt.Printf("\n%s:\n", preset)
				fmt.Printf("  min rest:          %5.1f h\n", cfg.MinRestHours)
				fmt.Printf("  max continuous:    %5.1f h\n", cfg.MaxContinuousHours)
				fmt.Printf("  max daily:         %5.1f h\n", cfg.MaxDailyHours)
				fmt.Printf("  max weekly:        %5.1f h\n", cfg.MaxWeeklyHours)
				fmt.Printf("  split shifts:      %v (gap %.1f-%.1f h)\n",
					cfg.AllowSplitShifts, cfg.MinSplitShiftGapHours, cfg.MaxSplitShiftGapHours)
				fmt.Printf("  meal break:        %v (%.1f h after %.1f h)\n",
					cfg.RequiresMealBreak, cfg.MealBreakDurationHours, cfg.MealBreakAfterHours)
				fmt.Printf("  overnight 2+:      %v\n", cfg.OvernightStaffingRequired)
				fmt.Printf("  strict rest:       %v\n", cfg.StrictRestValidation)
			}
			fmt.Println()

			return nil
		},
	}
}
