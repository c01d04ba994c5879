package model

// Finding is a single diagnosis produced by a rule for a shift or a worker
// aggregate. Findings are values; rules never mutate them after emission.
type Finding struct {
	// RuleID identifies the rule that produced this finding (e.g. "double_booking").
	RuleID string

	Category Category
	Severity Severity

	// Message is a human-readable description of the problem.
	Message string

	// ShiftID is the shift the finding is attached to, if any.
	ShiftID string

	// WorkerID is the worker involved, if the finding concerns one.
	WorkerID string

	// Field names the shift field the finding refers to, if any.
	Field string

	// SuggestedFix describes a remediation the caller may offer the user.
	SuggestedFix string

	// ImpactScore weights the finding for summary scoring, in [0, 1].
	ImpactScore float64

	// CanOverride indicates an authorized user may record an override that
	// downgrades this finding on the next evaluation.
	CanOverride bool

	// RequiresApproval indicates an override needs explicit approval.
	RequiresApproval bool

	// Metadata carries rule-specific detail (gap hours, conflicting shift ids, ...).
	Metadata map[string]any
}

// WithShift returns a copy of the finding attached to the given shift id.
func (f Finding) WithShift(shiftID string) Finding {
	f.ShiftID = shiftID
	return f
}
