package validation

import (
	"fmt"
	"os"
	"strconv"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// Preset names a built-in validation configuration level.
type Preset string

const (
	PresetRelaxed  Preset = "relaxed"
	PresetStandard Preset = "standard"
	PresetStrict   Preset = "strict"
	PresetCustom   Preset = "custom"
)

// IsValid returns true if the preset is a recognized value.
func (p Preset) IsValid() bool {
	switch p {
	case PresetRelaxed, PresetStandard, PresetStrict, PresetCustom:
		return true
	}
	return false
}

// defaults is the built-in baseline every layer applies on top of.
var defaults = model.ValidationConfig{
	MinRestHours:              10,
	MaxContinuousHours:        12,
	MaxDailyHours:             12,
	MaxWeeklyHours:            48,
	AllowSplitShifts:          true,
	MinSplitShiftGapHours:     1,
	MaxSplitShiftGapHours:     4,
	RequiresMealBreak:         true,
	MealBreakDurationHours:    0.5,
	MealBreakAfterHours:       8,
	OvernightStaffingRequired: false,
	StrictRestValidation:      false,
}

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }

// presetOverrides are the per-preset layers applied over the defaults.
// The standard preset matches the defaults exactly.
var presetOverrides = map[Preset]*model.ConfigOverride{
	PresetRelaxed: {
		MinRestHours:          floatPtr(8),
		MaxContinuousHours:    floatPtr(14),
		MaxDailyHours:         floatPtr(14),
		MaxWeeklyHours:        floatPtr(60),
		MaxSplitShiftGapHours: floatPtr(6),
		RequiresMealBreak:     boolPtr(false),
	},
	PresetStandard: {},
	PresetStrict: {
		MinRestHours:              floatPtr(12),
		MaxContinuousHours:        floatPtr(12),
		MaxDailyHours:             floatPtr(10),
		MaxWeeklyHours:            floatPtr(38),
		AllowSplitShifts:          boolPtr(false),
		MaxSplitShiftGapHours:     floatPtr(3),
		MealBreakAfterHours:       floatPtr(5),
		OvernightStaffingRequired: boolPtr(true),
		StrictRestValidation:      boolPtr(true),
	},
	PresetCustom: {},
}

// MinimumRestFloorHours is the hard rest floor between a worker's shifts.
// Gaps below it are an error regardless of configuration.
const MinimumRestFloorHours = 4.0

// ConfigSelection describes the configuration layers a caller chooses for an
// evaluation: a preset plus an optional free-form override.
type ConfigSelection struct {
	Preset Preset

	// Custom is the global custom override applied over the preset.
	Custom *model.ConfigOverride
}

// Resolver produces the effective validation configuration for each shift.
// Layering, lowest first: built-in defaults, environment overrides, preset,
// global custom override, participant override, shift-template override.
type Resolver struct {
	base model.ValidationConfig
}

// NewResolver resolves the caller-independent layers (defaults, environment,
// preset, global custom) once. An unknown preset falls back to standard.
func NewResolver(sel ConfigSelection) *Resolver {
	cfg := defaults
	envOverrides().Apply(&cfg)

	preset := sel.Preset
	if !preset.IsValid() {
		preset = PresetStandard
	}
	presetOverrides[preset].Apply(&cfg)
	sel.Custom.Apply(&cfg)

	return &Resolver{base: cfg}
}

// Base returns the resolved configuration before per-shift layers.
func (r *Resolver) Base() model.ValidationConfig {
	return r.base
}

// Effective resolves the configuration for one shift: the base overlaid with
// the participant's override, then the shift template's override last.
// Template overrides win on conflicting fields.
func (r *Resolver) Effective(participant *model.Participant, template *model.ConfigOverride) model.ValidationConfig {
	cfg := r.base
	if participant != nil && participant.Override != nil {
		participant.Override.ConfigOverride.Apply(&cfg)
	}
	template.Apply(&cfg)
	return cfg
}

// CheckInvariants verifies the structural invariants of a resolved
// configuration. A violation aborts evaluation with a configuration_invalid
// finding.
func CheckInvariants(cfg *model.ValidationConfig) error {
	if cfg.MinRestHours > cfg.MaxContinuousHours {
		return fmt.Errorf("min_rest_hours (%.1f) must not exceed max_continuous_hours (%.1f)",
			cfg.MinRestHours, cfg.MaxContinuousHours)
	}
	if cfg.MaxDailyHours > cfg.MaxWeeklyHours {
		return fmt.Errorf("max_daily_hours (%.1f) must not exceed max_weekly_hours (%.1f)",
			cfg.MaxDailyHours, cfg.MaxWeeklyHours)
	}
	if cfg.MinSplitShiftGapHours < 0 {
		return fmt.Errorf("min_split_shift_gap_hours (%.1f) must not be negative",
			cfg.MinSplitShiftGapHours)
	}
	return nil
}

// Environment variable names consulted for default overrides. They merge
// below the preset but above the built-in defaults.
const (
	EnvMinRestHours         = "ROSTERGUARD_MIN_REST_HOURS"
	EnvMaxContinuousHours   = "ROSTERGUARD_MAX_CONTINUOUS_HOURS"
	EnvMaxDailyHours        = "ROSTERGUARD_MAX_DAILY_HOURS"
	EnvMaxWeeklyHours       = "ROSTERGUARD_MAX_WEEKLY_HOURS"
	EnvAllowSplitShifts     = "ROSTERGUARD_ALLOW_SPLIT_SHIFTS"
	EnvMinSplitShiftGap     = "ROSTERGUARD_MIN_SPLIT_SHIFT_GAP"
	EnvStrictRestValidation = "ROSTERGUARD_STRICT_REST_VALIDATION"
	EnvOvernightStaffing    = "ROSTERGUARD_OVERNIGHT_STAFFING"
)

// envOverrides parses the environment into a configuration layer.
// Unparseable values are ignored.
func envOverrides() *model.ConfigOverride {
	o := &model.ConfigOverride{
		MinRestHours:              envFloat(EnvMinRestHours),
		MaxContinuousHours:        envFloat(EnvMaxContinuousHours),
		MaxDailyHours:             envFloat(EnvMaxDailyHours),
		MaxWeeklyHours:            envFloat(EnvMaxWeeklyHours),
		AllowSplitShifts:          envBool(EnvAllowSplitShifts),
		MinSplitShiftGapHours:     envFloat(EnvMinSplitShiftGap),
		StrictRestValidation:      envBool(EnvStrictRestValidation),
		OvernightStaffingRequired: envBool(EnvOvernightStaffing),
	}
	return o
}

func envFloat(name string) *float64 {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func envBool(name string) *bool {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
