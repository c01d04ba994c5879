package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/db"
)

// SetPresetCmd creates the setPreset command, persisting the default
// configuration selection used when commands pass no --preset flag.
func SetPresetCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setPreset <relaxed|standard|strict>",
		Short: "Persist the default validation preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			preset := validation.Preset(args[0])
			if !preset.IsValid() || preset == validation.PresetCustom {
				return fmt.Errorf("unknown preset %q", args[0])
			}

			sel := &db.PersistedSelection{
				Level:     string(preset),
				Config:    app.Cfg.Validation.Custom,
				Timestamp: time.Now().Format(time.RFC3339),
			}
			if err := app.Store.SaveSelection(app.Ctx, sel); err != nil {
				return fmt.Errorf("failed to save selection: %w", err)
			}

			fmt.Printf("\n✓ Default preset set to %s\n\n", preset)
			return nil
		},
	}
}
