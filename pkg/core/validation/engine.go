// Package validation contains the rule engine, configuration resolver and
// orchestrator that decide whether a weekly roster is admissible. Rules are
// pure functions over an immutable view of the roster; every diagnosis is
// surfaced as a Finding, never as an error or panic.
package validation

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/carebridge/rosterguard/pkg/core/availability"
	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// Scope classifies what data a rule needs, so batch options can enable rule
// groups independently.
type Scope string

const (
	// ScopeShift rules look at a single shift in isolation.
	ScopeShift Scope = "shift"

	// ScopeSchedule rules reason across a worker's whole week (rest, limits,
	// double bookings, split shifts). Disabled when smart validation is off.
	ScopeSchedule Scope = "schedule"

	// ScopeParticipant rules enforce participant-specific restrictions.
	ScopeParticipant Scope = "participant"
)

// RuleContext is the immutable view a rule evaluates against.
type RuleContext struct {
	// Shift is the shift under validation.
	Shift *model.Shift

	// Interval is the shift's absolute interval, midnight wrap resolved.
	Interval timeutil.Interval

	// Config is the effective validation configuration for this shift.
	Config *model.ValidationConfig

	// Participant is the shift's participant, nil if reference data was not
	// supplied for it.
	Participant *model.Participant

	// Workers maps worker id to reference data.
	Workers map[string]*model.Worker

	// Schedules maps worker id to that worker's indexed week.
	Schedules map[string]*WorkerSchedule

	// Oracle answers availability questions. Never nil during evaluation.
	Oracle *availability.Oracle
}

// ScheduleFor returns the indexed schedule for a worker, or nil.
func (c *RuleContext) ScheduleFor(workerID string) *WorkerSchedule {
	return c.Schedules[workerID]
}

// Rule is a single named validation rule. Implementations must be pure:
// no mutation of the context, no side effects, deterministic output.
type Rule interface {
	// ID is the stable rule identifier, e.g. "double_booking".
	ID() string

	Category() model.Category

	// Severity is the default severity of findings this rule emits. The
	// orchestrator may escalate it (e.g. split-shift rules when split shifts
	// are disallowed).
	Severity() model.Severity

	// ImpactScore weights this rule's findings, in [0, 1].
	ImpactScore() float64

	CanOverride() bool
	RequiresApproval() bool

	// Scope declares what data the rule reads.
	Scope() Scope

	// Evaluate returns zero or more findings for the shift in the context.
	Evaluate(ctx *RuleContext) []model.Finding
}

// Registry holds the ordered set of rules. Reads go through an atomic
// snapshot so evaluation never observes a half-installed rule set;
// registration after startup swaps in a fresh snapshot under a lock.
type Registry struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[[]Rule]
}

// NewRegistry creates an empty rule registry.
func NewRegistry() *Registry {
	r := &Registry{}
	empty := make([]Rule, 0)
	r.snapshot.Store(&empty)
	return r
}

// Register appends rules in order. Duplicate rule ids are rejected and leave
// the registry unchanged.
func (r *Registry) Register(rules ...Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := *r.snapshot.Load()
	seen := make(map[string]bool, len(current)+len(rules))
	for _, existing := range current {
		seen[existing.ID()] = true
	}

	next := make([]Rule, len(current), len(current)+len(rules))
	copy(next, current)
	for _, rule := range rules {
		if seen[rule.ID()] {
			return fmt.Errorf("rule %q is already registered", rule.ID())
		}
		seen[rule.ID()] = true
		next = append(next, rule)
	}

	r.snapshot.Store(&next)
	return nil
}

// Rules returns the current snapshot in registration order. The returned
// slice must not be modified.
func (r *Registry) Rules() []Rule {
	return *r.snapshot.Load()
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(*r.snapshot.Load())
}

// BaseRule carries the static metadata shared by rule implementations.
// Embed it and implement Evaluate.
type BaseRule struct {
	RuleID        string
	RuleCategory  model.Category
	RuleSeverity  model.Severity
	Impact        float64
	Overridable   bool
	NeedsApproval bool
	RuleScope     Scope
}

func (b BaseRule) ID() string               { return b.RuleID }
func (b BaseRule) Category() model.Category { return b.RuleCategory }
func (b BaseRule) Severity() model.Severity { return b.RuleSeverity }
func (b BaseRule) ImpactScore() float64     { return b.Impact }
func (b BaseRule) CanOverride() bool        { return b.Overridable }
func (b BaseRule) RequiresApproval() bool   { return b.NeedsApproval }
func (b BaseRule) Scope() Scope             { return b.RuleScope }

// NewFinding builds a finding pre-populated with the rule's metadata and
// attached to the context's shift.
func (b BaseRule) NewFinding(ctx *RuleContext, message string) model.Finding {
	return model.Finding{
		RuleID:           b.RuleID,
		Category:         b.RuleCategory,
		Severity:         b.RuleSeverity,
		Message:          message,
		ShiftID:          ctx.Shift.ID,
		ImpactScore:      b.Impact,
		CanOverride:      b.Overridable,
		RequiresApproval: b.NeedsApproval,
	}
}
