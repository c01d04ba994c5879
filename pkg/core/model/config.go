package model

// ValidationConfig holds the effective limits and toggles the rule engine
// evaluates against. Values are fully resolved; use ConfigOverride for
// partial layers.
type ValidationConfig struct {
	MinRestHours       float64 `yaml:"minRestHours" json:"min_rest_hours"`
	MaxContinuousHours float64 `yaml:"maxContinuousHours" json:"max_continuous_hours"`
	MaxDailyHours      float64 `yaml:"maxDailyHours" json:"max_daily_hours"`
	MaxWeeklyHours     float64 `yaml:"maxWeeklyHours" json:"max_weekly_hours"`

	AllowSplitShifts      bool    `yaml:"allowSplitShifts" json:"allow_split_shifts"`
	MinSplitShiftGapHours float64 `yaml:"minSplitShiftGapHours" json:"min_split_shift_gap_hours"`
	MaxSplitShiftGapHours float64 `yaml:"maxSplitShiftGapHours" json:"max_split_shift_gap_hours"`

	RequiresMealBreak      bool    `yaml:"requiresMealBreak" json:"requires_meal_break"`
	MealBreakDurationHours float64 `yaml:"mealBreakDurationHours" json:"meal_break_duration_hours"`
	MealBreakAfterHours    float64 `yaml:"mealBreakAfterHours" json:"meal_break_after_hours"`

	OvernightStaffingRequired bool `yaml:"overnightStaffingRequired" json:"overnight_staffing_required"`
	StrictRestValidation      bool `yaml:"strictRestValidation" json:"strict_rest_validation"`
}

// ConfigOverride is a partial ValidationConfig layer. Nil fields leave the
// underlying value untouched.
type ConfigOverride struct {
	MinRestHours       *float64 `yaml:"minRestHours,omitempty" json:"min_rest_hours,omitempty"`
	MaxContinuousHours *float64 `yaml:"maxContinuousHours,omitempty" json:"max_continuous_hours,omitempty"`
	MaxDailyHours      *float64 `yaml:"maxDailyHours,omitempty" json:"max_daily_hours,omitempty"`
	MaxWeeklyHours     *float64 `yaml:"maxWeeklyHours,omitempty" json:"max_weekly_hours,omitempty"`

	AllowSplitShifts      *bool    `yaml:"allowSplitShifts,omitempty" json:"allow_split_shifts,omitempty"`
	MinSplitShiftGapHours *float64 `yaml:"minSplitShiftGapHours,omitempty" json:"min_split_shift_gap_hours,omitempty"`
	MaxSplitShiftGapHours *float64 `yaml:"maxSplitShiftGapHours,omitempty" json:"max_split_shift_gap_hours,omitempty"`

	RequiresMealBreak      *bool    `yaml:"requiresMealBreak,omitempty" json:"requires_meal_break,omitempty"`
	MealBreakDurationHours *float64 `yaml:"mealBreakDurationHours,omitempty" json:"meal_break_duration_hours,omitempty"`
	MealBreakAfterHours    *float64 `yaml:"mealBreakAfterHours,omitempty" json:"meal_break_after_hours,omitempty"`

	OvernightStaffingRequired *bool `yaml:"overnightStaffingRequired,omitempty" json:"overnight_staffing_required,omitempty"`
	StrictRestValidation      *bool `yaml:"strictRestValidation,omitempty" json:"strict_rest_validation,omitempty"`
}

// IsZero returns true if no field of the override is set.
func (o *ConfigOverride) IsZero() bool {
	if o == nil {
		return true
	}
	return o.MinRestHours == nil && o.MaxContinuousHours == nil &&
		o.MaxDailyHours == nil && o.MaxWeeklyHours == nil &&
		o.AllowSplitShifts == nil && o.MinSplitShiftGapHours == nil &&
		o.MaxSplitShiftGapHours == nil && o.RequiresMealBreak == nil &&
		o.MealBreakDurationHours == nil && o.MealBreakAfterHours == nil &&
		o.OvernightStaffingRequired == nil && o.StrictRestValidation == nil
}

// Apply overlays the override's non-nil fields onto cfg.
func (o *ConfigOverride) Apply(cfg *ValidationConfig) {
	if o == nil {
		return
	}
	if o.MinRestHours != nil {
		cfg.MinRestHours = *o.MinRestHours
	}
	if o.MaxContinuousHours != nil {
		cfg.MaxContinuousHours = *o.MaxContinuousHours
	}
	if o.MaxDailyHours != nil {
		cfg.MaxDailyHours = *o.MaxDailyHours
	}
	if o.MaxWeeklyHours != nil {
		cfg.MaxWeeklyHours = *o.MaxWeeklyHours
	}
	if o.AllowSplitShifts != nil {
		cfg.AllowSplitShifts = *o.AllowSplitShifts
	}
	if o.MinSplitShiftGapHours != nil {
		cfg.MinSplitShiftGapHours = *o.MinSplitShiftGapHours
	}
	if o.MaxSplitShiftGapHours != nil {
		cfg.MaxSplitShiftGapHours = *o.MaxSplitShiftGapHours
	}
	if o.RequiresMealBreak != nil {
		cfg.RequiresMealBreak = *o.RequiresMealBreak
	}
	if o.MealBreakDurationHours != nil {
		cfg.MealBreakDurationHours = *o.MealBreakDurationHours
	}
	if o.MealBreakAfterHours != nil {
		cfg.MealBreakAfterHours = *o.MealBreakAfterHours
	}
	if o.OvernightStaffingRequired != nil {
		cfg.OvernightStaffingRequired = *o.OvernightStaffingRequired
	}
	if o.StrictRestValidation != nil {
		cfg.StrictRestValidation = *o.StrictRestValidation
	}
}

// ParticipantOverride narrows or widens the validation configuration for a
// single participant, and adds participant-specific restrictions.
type ParticipantOverride struct {
	ConfigOverride `yaml:",inline"`

	// Requires21Ratio forces every shift for this participant to be 2:1.
	Requires21Ratio bool `yaml:"requires21Ratio" json:"requires_2_1_ratio"`

	// OvernightRestriction forbids shifts touching the overnight window.
	OvernightRestriction bool `yaml:"overnightRestriction" json:"overnight_restriction"`

	// WeekendRestriction forbids Saturday and Sunday shifts.
	WeekendRestriction bool `yaml:"weekendRestriction" json:"weekend_restriction"`

	// CustomRules carries free-form flags consumed by caller-registered rules.
	CustomRules map[string]any `yaml:"customRules,omitempty" json:"custom_rules,omitempty"`
}
