package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// splitPair describes the relationship between the context shift and the
// worker's previous shift when both serve the same participant on the same
// calendar day.
type splitPair struct {
	workerID string
	prev     *validation.ScheduledShift
	gap      float64
}

// splitPairs finds, per assigned worker, the consecutive same-participant
// same-day predecessor of the context shift.
func splitPairs(ctx *validation.RuleContext) []splitPair {
	var pairs []splitPair
	for _, workerID := range ctx.Shift.Workers {
		sched := ctx.ScheduleFor(workerID)
		if sched == nil {
			continue
		}
		gap, prev, ok := sched.GapBefore(ctx.Shift.ID)
		if !ok {
			continue
		}
		if prev.Shift.Participant != ctx.Shift.Participant || prev.Shift.Date != ctx.Shift.Date {
			continue
		}
		pairs = append(pairs, splitPair{workerID: workerID, prev: prev, gap: gap})
	}
	return pairs
}

// SplitShiftGapRule fires when a same-participant same-worker back-to-back
// pair is separated by a gap outside the configured split-shift range.
type SplitShiftGapRule struct {
	validation.BaseRule
}

// NewSplitShiftGapRule creates the split_shift_gap_out_of_range rule.
func NewSplitShiftGapRule() *SplitShiftGapRule {
	return &SplitShiftGapRule{BaseRule: validation.BaseRule{
		RuleID:       "split_shift_gap_out_of_range",
		RuleCategory: model.CategoryBusiness,
		RuleSeverity: model.SeverityWarning,
		Impact:       0.3,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *SplitShiftGapRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, pair := range splitPairs(ctx) {
		if pair.gap <= 0 {
			continue
		}
		if pair.gap >= ctx.Config.MinSplitShiftGapHours && pair.gap <= ctx.Config.MaxSplitShiftGapHours {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"split shift gap of %.1fh for worker %s is outside the allowed %.1f-%.1fh range",
			pair.gap, pair.workerID, ctx.Config.MinSplitShiftGapHours, ctx.Config.MaxSplitShiftGapHours))
		f.WorkerID = pair.workerID
		f.Metadata = map[string]any{
			"gap_hours":         pair.gap,
			"previous_shift_id": pair.prev.Shift.ID,
			"min_gap_hours":     ctx.Config.MinSplitShiftGapHours,
			"max_gap_hours":     ctx.Config.MaxSplitShiftGapHours,
		}
		findings = append(findings, f)
	}
	return findings
}

// SplitShiftDetectedRule flags adjacent same-participant same-worker shifts
// that share a funding category but are not marked as an intentional split.
// These usually indicate a shift that should be merged or flagged.
type SplitShiftDetectedRule struct {
	validation.BaseRule
}

// NewSplitShiftDetectedRule creates the split_shift_detected rule.
func NewSplitShiftDetectedRule() *SplitShiftDetectedRule {
	return &SplitShiftDetectedRule{BaseRule: validation.BaseRule{
		RuleID:       "split_shift_detected",
		RuleCategory: model.CategoryBusiness,
		RuleSeverity: model.SeverityInfo,
		Impact:       0.1,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *SplitShiftDetectedRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, pair := range splitPairs(ctx) {
		if pair.gap != 0 {
			continue
		}
		if pair.prev.Shift.FundingCategory != ctx.Shift.FundingCategory {
			continue
		}
		if pair.prev.Shift.IsSplitShift && ctx.Shift.IsSplitShift {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"shifts %s and %s are adjacent with the same funding category but not marked as a split shift",
			pair.prev.Shift.ID, ctx.Shift.ID))
		f.WorkerID = pair.workerID
		f.SuggestedFix = "merge the shifts or mark both as a split shift"
		f.Metadata = map[string]any{
			"previous_shift_id": pair.prev.Shift.ID,
			"funding_category":  ctx.Shift.FundingCategory,
		}
		findings = append(findings, f)
	}
	return findings
}

// SplitShiftValidRule acknowledges legitimate split shifts: adjacent
// same-participant shifts with different funding categories, or both halves
// explicitly flagged.
type SplitShiftValidRule struct {
	validation.BaseRule
}

// NewSplitShiftValidRule creates the split_shift_valid rule.
func NewSplitShiftValidRule() *SplitShiftValidRule {
	return &SplitShiftValidRule{BaseRule: validation.BaseRule{
		RuleID:       "split_shift_valid",
		RuleCategory: model.CategoryBusiness,
		RuleSeverity: model.SeverityInfo,
		Impact:       0.05,
		Overridable:  true,
		RuleScope:    validation.ScopeSchedule,
	}}
}

func (r *SplitShiftValidRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, pair := range splitPairs(ctx) {
		if pair.gap != 0 {
			continue
		}
		differentFunding := pair.prev.Shift.FundingCategory != ctx.Shift.FundingCategory
		bothFlagged := pair.prev.Shift.IsSplitShift && ctx.Shift.IsSplitShift
		if !differentFunding && !bothFlagged {
			continue
		}
		f := r.NewFinding(ctx, fmt.Sprintf(
			"shifts %s and %s form a valid split shift",
			pair.prev.Shift.ID, ctx.Shift.ID))
		f.WorkerID = pair.workerID
		f.Metadata = map[string]any{
			"previous_shift_id":  pair.prev.Shift.ID,
			"funding_categories": []string{pair.prev.Shift.FundingCategory, ctx.Shift.FundingCategory},
		}
		findings = append(findings, f)
	}
	return findings
}
