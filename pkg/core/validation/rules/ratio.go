package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// RatioUnderstaffedRule fires when fewer workers are assigned than the
// shift's ratio requires.
type RatioUnderstaffedRule struct {
	validation.BaseRule
}

// NewRatioUnderstaffedRule creates the ratio_understaffed rule.
func NewRatioUnderstaffedRule() *RatioUnderstaffedRule {
	return &RatioUnderstaffedRule{BaseRule: validation.BaseRule{
		RuleID:       "ratio_understaffed",
		RuleCategory: model.CategorySafety,
		RuleSeverity: model.SeverityError,
		Impact:       0.8,
		RuleScope:    validation.ScopeShift,
	}}
}

func (r *RatioUnderstaffedRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	required, err := model.ParseRatio(ctx.Shift.Ratio)
	if err != nil || len(ctx.Shift.Workers) >= required {
		return nil
	}
	f := r.NewFinding(ctx, fmt.Sprintf(
		"shift requires %d workers (%s ratio) but has %d assigned",
		required, ctx.Shift.Ratio, len(ctx.Shift.Workers)))
	f.Field = "workers"
	f.SuggestedFix = fmt.Sprintf("assign %d more worker(s)", required-len(ctx.Shift.Workers))
	f.Metadata = map[string]any{
		"required_workers": required,
		"assigned_workers": len(ctx.Shift.Workers),
	}
	return []model.Finding{f}
}

// RatioOverstaffedRule fires when more workers are assigned than the ratio
// requires.
type RatioOverstaffedRule struct {
	validation.BaseRule
}

// NewRatioOverstaffedRule creates the ratio_overstaffed rule.
func NewRatioOverstaffedRule() *RatioOverstaffedRule {
	return &RatioOverstaffedRule{BaseRule: validation.BaseRule{
		RuleID:       "ratio_overstaffed",
		RuleCategory: model.CategoryEfficiency,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.3,
		Overridable:  true,
		RuleScope:    validation.ScopeShift,
	}}
}

func (r *RatioOverstaffedRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	required, err := model.ParseRatio(ctx.Shift.Ratio)
	if err != nil || len(ctx.Shift.Workers) <= required {
		return nil
	}
	f := r.NewFinding(ctx, fmt.Sprintf(
		"shift requires %d workers (%s ratio) but has %d assigned",
		required, ctx.Shift.Ratio, len(ctx.Shift.Workers)))
	f.Field = "workers"
	f.SuggestedFix = "release surplus workers for other shifts"
	f.Metadata = map[string]any{
		"required_workers": required,
		"assigned_workers": len(ctx.Shift.Workers),
	}
	return []model.Finding{f}
}

// OvernightUnderstaffedRule fires when a shift touching the overnight window
// [22:00, 06:00] requires two workers (2:1 ratio, or any overnight shift
// when overnight staffing is configured as required) but has fewer assigned.
type OvernightUnderstaffedRule struct {
	validation.BaseRule
}

// NewOvernightUnderstaffedRule creates the overnight_understaffed rule.
func NewOvernightUnderstaffedRule() *OvernightUnderstaffedRule {
	return &OvernightUnderstaffedRule{BaseRule: validation.BaseRule{
		RuleID:       "overnight_understaffed",
		RuleCategory: model.CategorySafety,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.5,
		Overridable:  true,
		RuleScope:    validation.ScopeShift,
	}}
}

func (r *OvernightUnderstaffedRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	if !ctx.Shift.TouchesOvernightWindow() {
		return nil
	}
	required, err := model.ParseRatio(ctx.Shift.Ratio)
	if err != nil {
		return nil
	}
	twoToOne := required == 2
	if !twoToOne && !ctx.Config.OvernightStaffingRequired {
		return nil
	}
	if len(ctx.Shift.Workers) >= 2 {
		return nil
	}

	f := r.NewFinding(ctx, fmt.Sprintf(
		"overnight shift has %d worker(s) assigned; two are expected",
		len(ctx.Shift.Workers)))
	f.Field = "workers"
	f.SuggestedFix = "assign a second worker for the overnight window"
	f.Metadata = map[string]any{
		"assigned_workers": len(ctx.Shift.Workers),
		"ratio":            ctx.Shift.Ratio,
	}
	return []model.Finding{f}
}
