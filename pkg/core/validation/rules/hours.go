package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// WeeklyLimitRule fires when a worker's total hours for the week exceed the
// effective weekly maximum. A worker's own MaxHours takes precedence when it
// is lower than the configured limit. The finding is emitted once per
// worker, on their last shift of the week.
type WeeklyLimitRule struct {
	validation.BaseRule
}

// NewWeeklyLimitRule creates the weekly_limit_exceeded rule.
func NewWeeklyLimitRule() *WeeklyLimitRule {
	return &WeeklyLimitRule{BaseRule: validation.BaseRule{
		RuleID:        "weekly_limit_exceeded",
		RuleCategory:  model.CategoryCompliance,
		RuleSeverity:  model.SeverityError,
		Impact:        0.7,
		Overridable:   true,
		NeedsApproval: true,
		RuleScope:     validation.ScopeSchedule,
	}}
}

func (r *WeeklyLimitRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil || !sched.IsLastOfWeek(ctx.Shift.ID) {
			continue
		}

		limit := ctx.Config.MaxWeeklyHours
		if w := ctx.Workers[workerID]; w != nil && w.MaxHours != nil && *w.MaxHours < limit {
			limit = *w.MaxHours
		}
		if sched.WeeklyHours <= limit {
			continue
		}

		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s is rostered for %.1fh this week, above the %.1fh limit",
			workerID, sched.WeeklyHours, limit))
		f.WorkerID = workerID
		f.SuggestedFix = "redistribute shifts to workers with spare weekly capacity"
		f.Metadata = map[string]any{
			"weekly_hours": sched.WeeklyHours,
			"limit_hours":  limit,
		}
		findings = append(findings, f)
	}
	return findings
}

// DailyLimitRule fires when a worker's hours on one calendar day exceed the
// configured daily maximum. Emitted once per worker-day, on the worker's
// last shift of that day.
type DailyLimitRule struct {
	validation.BaseRule
}

// NewDailyLimitRule creates the daily_limit_exceeded rule.
func NewDailyLimitRule() *DailyLimitRule {
	return &DailyLimitRule{BaseRule: validation.BaseRule{
		RuleID:        "daily_limit_exceeded",
		RuleCategory:  model.CategoryCompliance,
		RuleSeverity:  model.SeverityError,
		Impact:        0.6,
		Overridable:   true,
		NeedsApproval: true,
		RuleScope:     validation.ScopeSchedule,
	}}
}

func (r *DailyLimitRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil || !sched.IsLastOfDay(ctx.Shift.ID) {
			continue
		}
		total := sched.DailyHours[ctx.Shift.Date]
		if total <= ctx.Config.MaxDailyHours {
			continue
		}

		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s is rostered for %.1fh on %s, above the %.1fh daily limit",
			workerID, total, ctx.Shift.Date, ctx.Config.MaxDailyHours))
		f.WorkerID = workerID
		f.Metadata = map[string]any{
			"date":        ctx.Shift.Date,
			"daily_hours": total,
			"limit_hours": ctx.Config.MaxDailyHours,
		}
		findings = append(findings, f)
	}
	return findings
}

// ContinuousHoursRule fires when a worker's contiguous block of shifts
// (consecutive shifts separated by zero gap) spans more than the configured
// continuous maximum. Emitted once per block, on its last shift.
type ContinuousHoursRule struct {
	validation.BaseRule
}

// NewContinuousHoursRule creates the continuous_hours_high rule.
func NewContinuousHoursRule() *ContinuousHoursRule {
	return &ContinuousHoursRule{BaseRule: validation.BaseRule{
		RuleID:       "continuous_hours_high",
		RuleCategory: model.CategoryEfficiency,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.4,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *ContinuousHoursRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		block := sched.BlockFor(ctx.Shift.ID)
		if len(block) == 0 || block[len(block)-1].Shift.ID != ctx.Shift.ID {
			continue
		}
		span := validation.BlockHours(block)
		if span <= ctx.Config.MaxContinuousHours {
			continue
		}

		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s works %.1fh continuously (limit %.1fh)",
			workerID, span, ctx.Config.MaxContinuousHours))
		f.WorkerID = workerID
		f.SuggestedFix = "insert a break or split the block across workers"
		f.Metadata = map[string]any{
			"block_hours":  span,
			"block_shifts": len(block),
			"limit_hours":  ctx.Config.MaxContinuousHours,
		}
		findings = append(findings, f)
	}
	return findings
}
