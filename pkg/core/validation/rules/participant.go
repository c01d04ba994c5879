package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// TwoToOneRequiredRule fires when a participant's override mandates a 2:1
// ratio and the shift specifies anything else.
type TwoToOneRequiredRule struct {
	validation.BaseRule
}

// NewTwoToOneRequiredRule creates the participant_2_1_required rule.
func NewTwoToOneRequiredRule() *TwoToOneRequiredRule {
	return &TwoToOneRequiredRule{BaseRule: validation.BaseRule{
		RuleID:       "participant_2_1_required",
		RuleCategory: model.CategoryCompliance,
		RuleSeverity: model.SeverityError,
		Impact:       0.8,
		RuleScope:    validation.ScopeParticipant,
	}}
}

func (r *TwoToOneRequiredRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	p := ctx.Participant
	if p == nil || p.Override == nil || !p.Override.Requires21Ratio {
		return nil
	}
	if ctx.Shift.Ratio == "2:1" {
		return nil
	}
	f := r.NewFinding(ctx, fmt.Sprintf(
		"participant %s requires a 2:1 ratio but the shift is %s",
		p.Code, ctx.Shift.Ratio))
	f.Field = "ratio"
	f.SuggestedFix = "change the shift ratio to 2:1 and assign a second worker"
	f.Metadata = map[string]any{"required_ratio": "2:1", "shift_ratio": ctx.Shift.Ratio}
	return []model.Finding{f}
}

// OvernightForbiddenRule fires when a participant's override forbids
// overnight support and the shift touches the overnight window.
type OvernightForbiddenRule struct {
	validation.BaseRule
}

// NewOvernightForbiddenRule creates the participant_overnight_forbidden rule.
func NewOvernightForbiddenRule() *OvernightForbiddenRule {
	return &OvernightForbiddenRule{BaseRule: validation.BaseRule{
		RuleID:       "participant_overnight_forbidden",
		RuleCategory: model.CategoryCompliance,
		RuleSeverity: model.SeverityError,
		Impact:       0.7,
		RuleScope:    validation.ScopeParticipant,
	}}
}

func (r *OvernightForbiddenRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	p := ctx.Participant
	if p == nil || p.Override == nil || !p.Override.OvernightRestriction {
		return nil
	}
	if !ctx.Shift.TouchesOvernightWindow() {
		return nil
	}
	f := r.NewFinding(ctx, fmt.Sprintf(
		"participant %s has an overnight restriction but the shift touches the 22:00-06:00 window",
		p.Code))
	f.SuggestedFix = "move the shift fully inside daytime hours"
	return []model.Finding{f}
}

// WeekendForbiddenRule fires when a participant's override forbids weekend
// shifts and the shift falls on a Saturday or Sunday.
type WeekendForbiddenRule struct {
	validation.BaseRule
}

// NewWeekendForbiddenRule creates the participant_weekend_forbidden rule.
func NewWeekendForbiddenRule() *WeekendForbiddenRule {
	return &WeekendForbiddenRule{BaseRule: validation.BaseRule{
		RuleID:       "participant_weekend_forbidden",
		RuleCategory: model.CategoryCompliance,
		RuleSeverity: model.SeverityError,
		Impact:       0.7,
		RuleScope:    validation.ScopeParticipant,
	}}
}

func (r *WeekendForbiddenRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	p := ctx.Participant
	if p == nil || p.Override == nil || !p.Override.WeekendRestriction {
		return nil
	}
	wd, err := timeutil.Weekday(ctx.Shift.Date)
	if err != nil || (wd != 0 && wd != 6) {
		return nil
	}
	f := r.NewFinding(ctx, fmt.Sprintf(
		"participant %s has a weekend restriction but the shift falls on %s",
		p.Code, ctx.Shift.Date))
	f.Field = "date"
	f.SuggestedFix = "move the shift to a weekday"
	return []model.Finding{f}
}
