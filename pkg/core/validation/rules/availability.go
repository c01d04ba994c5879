package rules

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/availability"
	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// AvailabilityRule fires when an assigned worker is not available for the
// shift's interval according to the availability oracle. Missing
// availability data downgrades to this finding rather than an error.
type AvailabilityRule struct {
	validation.BaseRule
}

// NewAvailabilityRule creates the availability_violation rule.
func NewAvailabilityRule() *AvailabilityRule {
	return &AvailabilityRule{BaseRule: validation.BaseRule{
		RuleID:        "availability_violation",
		RuleCategory:  model.CategoryCompliance,
		RuleSeverity:  model.SeverityError,
		Impact:        0.7,
		Overridable:   true,
		NeedsApproval: true,
		RuleScope:     validation.ScopeShift,
	}}
}

func (r *AvailabilityRule) Evaluate(ctx *validation.RuleContext) []model.Finding {
	var findings []model.Finding
	for _, workerID := range ctx.Shift.Workers {
		result := ctx.Oracle.Check(workerID, ctx.Interval)
		if result.Available {
			continue
		}

		var detail string
		switch result.Reason {
		case availability.ReasonNoRule:
			detail = fmt.Sprintf("no availability rule for %s", result.Date)
		case availability.ReasonOutsideHours:
			detail = fmt.Sprintf("shift falls outside available hours on %s", result.Date)
		case availability.ReasonUnavailabilityPeriod:
			detail = fmt.Sprintf("worker is away on %s", result.Date)
		default:
			detail = string(result.Reason)
		}

		f := r.NewFinding(ctx, fmt.Sprintf(
			"worker %s is not available for this shift: %s", workerID, detail))
		f.WorkerID = workerID
		f.SuggestedFix = "assign an available worker or update the availability data"
		f.Metadata = map[string]any{
			"reason": string(result.Reason),
			"date":   result.Date,
		}
		findings = append(findings, f)
	}
	return findings
}
