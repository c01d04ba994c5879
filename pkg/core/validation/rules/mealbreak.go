package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// MealBreakRule fires when meal breaks are required, the shift runs longer
// than the configured threshold, and no gap of at least the break duration
// exists between the worker's shifts that day.
type MealBreakRule struct {
	validation.BaseRule
}

// NewMealBreakRule creates the meal_break_missing rule.
func NewMealBreakRule() *MealBreakRule {
	return &MealBreakRule{BaseRule: validation.BaseRule{
		RuleID:       "meal_break_missing",
		RuleCategory: model.CategoryQuality,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.3,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *MealBreakRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	cfg := ctx.Config
	if !cfg.RequiresMealBreak || ctx.Shift.DurationHours <= cfg.MealBreakAfterHours {
		return nil
	}

	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		if hasBreak(sched, ctx.Shift.Date, cfg.MealBreakDurationHours) {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s has no break of at least %.1fh on %s despite a %.1fh shift",
			workerID, cfg.MealBreakDurationHours, ctx.Shift.Date, ctx.Shift.DurationHours))
		f.WorkerID = workerID
		f.SuggestedFix = "schedule an unpaid meal break within the shift"
		f.Metadata = map[string]any{
			"date":                 ctx.Shift.Date,
			"shift_hours":          ctx.Shift.DurationHours,
			"break_duration_hours": cfg.MealBreakDurationHours,
		}
		findings = append(findings, f)
	}
	return findings
}

// hasBreak reports whether the worker's schedule contains a gap of at least
// minHours between consecutive shifts starting on the given date.
func hasBreak(sched *validation.WorkerSchedule, date string, minHours float64) bool {
	var prev *validation.ScheduledShift
	for i := range sched.Shifts {
		sh := &sched.Shifts[i]
		if sh.Shift.Date != date {
			continue
		}
		if prev != nil {
			gap, err := timeutil.GapHours(prev.Interval, sh.Interval)
			if err == nil && gap >= minHours {
				return true
			}
		}
		prev = sh
	}
	return false
}
