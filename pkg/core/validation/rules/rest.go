package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// RestCriticalRule fires when the gap between a worker's consecutive shifts
// falls below the hard four-hour floor. The floor is not configurable.
// Adjacent and overlapping shifts (gap <= 0) are out of scope here: adjacency
// is split-shift territory and overlaps are booking conflicts.
type RestCriticalRule struct {
	validation.BaseRule
}

// NewRestCriticalRule creates the insufficient_rest_critical rule.
func NewRestCriticalRule() *RestCriticalRule {
	return &RestCriticalRule{BaseRule: validation.BaseRule{
		RuleID:       "insufficient_rest_critical",
		RuleCategory: model.CategorySafety,
		RuleSeverity: model.SeverityError,
		Impact:       0.8,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *RestCriticalRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		gap, prev, ok := sched.GapBefore(ctx.Shift.ID)
		if !ok || gap <= 0 || gap >= validation.MinimumRestFloorHours {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s has only %.1fh rest before this shift (hard floor is %.0fh)",
			workerID, gap, validation.MinimumRestFloorHours))
		f.WorkerID = workerID
		f.SuggestedFix = "move the shift start later or reassign the worker"
		f.Metadata = map[string]any{
			"gap_hours":         gap,
			"previous_shift_id": prev.Shift.ID,
		}
		findings = append(findings, f)
	}
	return findings
}

// RestWarningRule fires when the gap between consecutive shifts clears the
// hard floor but is below the configured minimum rest.
type RestWarningRule struct {
	validation.BaseRule
}

// NewRestWarningRule creates the insufficient_rest_warning rule.
func NewRestWarningRule() *RestWarningRule {
	return &RestWarningRule{BaseRule: validation.BaseRule{
		RuleID:       "insufficient_rest_warning",
		RuleCategory: model.CategoryEfficiency,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.4,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *RestWarningRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		gap, prev, ok := sched.GapBefore(ctx.Shift.ID)
		if !ok || gap < validation.MinimumRestFloorHours || gap >= ctx.Config.MinRestHours {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s has %.1fh rest before this shift, below the configured minimum of %.1fh",
			workerID, gap, ctx.Config.MinRestHours))
		f.WorkerID = workerID
		f.Metadata = map[string]any{
			"gap_hours":         gap,
			"previous_shift_id": prev.Shift.ID,
			"min_rest_hours":    ctx.Config.MinRestHours,
		}
		findings = append(findings, f)
	}
	return findings
}
