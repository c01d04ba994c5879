// Package rules provides the built-in validation rules. Each rule is a small
// pure object registered in a fixed, normative order by DefaultRegistry.
package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// DoubleBookingRule fires when a worker is assigned to two strictly
// overlapping shifts belonging to different participants. Each overlapping
// pair is reported once, on the later shift.
type DoubleBookingRule struct {
	validation.BaseRule
}

// NewDoubleBookingRule creates the double_booking rule.
func NewDoubleBookingRule() *DoubleBookingRule {
	return &DoubleBookingRule{BaseRule: validation.BaseRule{
		RuleID:       "double_booking",
		RuleCategory: model.CategorySafety,
		RuleSeverity: model.SeverityCritical,
		Impact:       1.0,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *DoubleBookingRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	return overlappingPairs(r.BaseRule, ctx, false)
}

// SameParticipantOverlapRule fires when two shifts for the same participant
// overlap for one worker.
type SameParticipantOverlapRule struct {
	validation.BaseRule
}

// NewSameParticipantOverlapRule creates the
// overlapping_shifts_same_participant rule.
func NewSameParticipantOverlapRule() *SameParticipantOverlapRule {
	return &SameParticipantOverlapRule{BaseRule: validation.BaseRule{
		RuleID:       "overlapping_shifts_same_participant",
		RuleCategory: model.CategorySafety,
		RuleSeverity: model.SeverityCritical,
		Impact:       0.9,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *SameParticipantOverlapRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	return overlappingPairs(r.BaseRule, ctx, true)
}

// overlappingPairs reports overlaps between the context shift and every
// earlier shift of each assigned worker. Attaching the finding to the later
// shift of the pair keeps each conflict reported exactly once.
func overlappingPairs(base validation.BaseRule, ctx *validation.RuleContext, sameParticipant bool) []model.Finding {
	var findings []model.Finding

	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		idx := sched.IndexOf(ctx.Shift.ID)
		for _, earlier := range sched.Shifts[:max(idx, 0)] {
			if earlier.Shift.ID == ctx.Shift.ID {
				continue
			}
			isSame := earlier.Shift.Participant == ctx.Shift.Participant
			if isSame != sameParticipant {
				continue
			}
			overlap, err := timeutil.Overlaps(earlier.Interval, ctx.Interval)
			if err != nil || !overlap {
				continue
			}

			f := base.NewFinding(ctx, fmt.Sprintf(
				"worker %s is booked on overlapping shifts %s and %s",
				workerID, earlier.Shift.ID, ctx.Shift.ID))
			f.WorkerID = workerID
			f.SuggestedFix = fmt.Sprintf("reassign worker %s on one of the overlapping shifts", workerID)
			f.Metadata = map[string]any{
				"conflicting_shift_id": earlier.Shift.ID,
				"participant":          earlier.Shift.Participant,
			}
			findings = append(findings, f)
		}
	}

	return findings
}
