package rules

import (
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// DefaultRules returns the built-in rules in their normative order. Findings
// are emitted in this order for every shift.
func DefaultRules() []validation.Rule {
	return []validation.Rule{
		NewDoubleBookingRule(),
		NewSameParticipantOverlapRule(),
		NewRestCriticalRule(),
		NewRestWarningRule(),
		NewWeeklyLimitRule(),
		NewDailyLimitRule(),
		NewContinuousHoursRule(),
		NewRatioUnderstaffedRule(),
		NewRatioOverstaffedRule(),
		NewOvernightUnderstaffedRule(),
		NewSplitShiftGapRule(),
		NewSplitShiftDetectedRule(),
		NewSplitShiftValidRule(),
		NewAvailabilityRule(),
		NewTwoToOneRequiredRule(),
		NewOvernightForbiddenRule(),
		NewWeekendForbiddenRule(),
		NewMealBreakRule(),
	}
}

// DefaultRegistry returns a registry pre-loaded with the built-in rules.
func DefaultRegistry() *validation.Registry {
	registry := validation.NewRegistry()
	if err := registry.Register(DefaultRules()...); err != nil {
		// Built-in ids are unique by construction.
		panic(err)
	}
	return registry
}
