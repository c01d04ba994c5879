package validation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/availability"
	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/templates"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// Meta rule ids emitted by the orchestrator itself rather than by a
// registered rule.
const (
	RuleInputInvalid         = "input_invalid"
	RuleConfigurationInvalid = "configuration_invalid"
	RuleCrashed              = "rule_crashed"
)

// BatchOptions control which rule groups run for an evaluation.
type BatchOptions struct {
	// TemplateValidation enables template shape pre-validation and template
	// config overrides.
	TemplateValidation bool

	// ParticipantValidation enables participant overrides and
	// participant-scoped rules.
	ParticipantValidation bool

	// SmartValidation enables schedule-scoped rules (rest, limits, double
	// bookings, split shifts) and template best-match suggestions.
	SmartValidation bool

	// ChunkSize bounds how many shifts are evaluated per parallel chunk.
	// Zero or negative means a sensible default.
	ChunkSize int
}

// DefaultBatchOptions enables everything.
func DefaultBatchOptions() BatchOptions {
	return BatchOptions{
		TemplateValidation:    true,
		ParticipantValidation: true,
		SmartValidation:       true,
		ChunkSize:             16,
	}
}

// Orchestrator drives the rule engine over a week of shifts. It is stateless
// per call and safe for concurrent use.
type Orchestrator struct {
	registry  *Registry
	templates *templates.Manager
	logger    *zap.Logger
}

// NewOrchestrator creates an orchestrator. The template manager may be nil
// when template validation is not used.
func NewOrchestrator(registry *Registry, tm *templates.Manager, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{registry: registry, templates: tm, logger: logger}
}

// ValidateWeeklyRoster runs every enabled rule over the whole roster week.
// It never returns an error: structural problems surface as a single
// input_invalid finding on an otherwise empty report.
func (o *Orchestrator) ValidateWeeklyRoster(
	ctx context.Context,
	roster *model.WeeklyRoster,
	workers []*model.Worker,
	participants []*model.Participant,
	sel ConfigSelection,
) *Report {
	if roster == nil {
		return o.inputInvalid(fmt.Errorf("roster is nil"))
	}

	participantSet := make(map[string]bool, len(participants))
	for _, p := range participants {
		participantSet[p.Code] = true
	}
	for code := range roster.Shifts {
		if !participantSet[code] {
			return o.inputInvalid(fmt.Errorf("unknown participant code %q in roster", code))
		}
	}

	shifts := roster.AllShifts()
	o.logger.Info("Validating weekly roster",
		zap.String("week_start", roster.WeekStart),
		zap.Int("shift_count", len(shifts)),
		zap.String("preset", string(sel.Preset)))

	return o.evaluate(ctx, shifts, workers, participants, sel, DefaultBatchOptions())
}

// ValidateShiftBatch runs the engine over an explicit list of shifts with
// the given options. Shifts for participants missing from the reference data
// are evaluated without participant-specific layers.
func (o *Orchestrator) ValidateShiftBatch(
	ctx context.Context,
	shifts []*model.Shift,
	workers []*model.Worker,
	participants []*model.Participant,
	sel ConfigSelection,
	opts BatchOptions,
) *Report {
	o.logger.Info("Validating shift batch",
		zap.Int("shift_count", len(shifts)),
		zap.Bool("template_validation", opts.TemplateValidation),
		zap.Bool("participant_validation", opts.ParticipantValidation),
		zap.Bool("smart_validation", opts.SmartValidation))

	return o.evaluate(ctx, shifts, workers, participants, sel, opts)
}

// shiftPlan is the resolved evaluation context for one shift.
type shiftPlan struct {
	shift       *model.Shift
	interval    timeutil.Interval
	config      model.ValidationConfig
	participant *model.Participant

	// templateFindings from shape pre-validation, emitted before rule findings.
	templateFindings []model.Finding
}

func (o *Orchestrator) evaluate(
	ctx context.Context,
	shifts []*model.Shift,
	workers []*model.Worker,
	participants []*model.Participant,
	sel ConfigSelection,
	opts BatchOptions,
) *Report {
	// Phase 1: structural validation. Any failure aborts before rules run.
	for _, shift := range shifts {
		if err := model.ValidateShift(shift); err != nil {
			return o.inputInvalid(err)
		}
	}

	schedules, err := BuildSchedules(shifts)
	if err != nil {
		return o.inputInvalid(err)
	}

	oracle, err := availability.NewOracle(workers)
	if err != nil {
		return o.inputInvalid(fmt.Errorf("building availability oracle: %w", err))
	}

	workerMap := make(map[string]*model.Worker, len(workers))
	for _, w := range workers {
		workerMap[w.ID] = w
	}
	participantMap := make(map[string]*model.Participant, len(participants))
	for _, p := range participants {
		participantMap[p.Code] = p
	}

	// Phase 2: resolve the effective configuration per shift. Configuration
	// invariant violations abort the whole evaluation.
	resolver := NewResolver(sel)
	base := resolver.Base()
	if err := CheckInvariants(&base); err != nil {
		return o.configurationInvalid(err)
	}

	plans := make([]shiftPlan, len(shifts))
	for i, shift := range shifts {
		iv, err := timeutil.NewInterval(shift.Date, shift.StartTime, shift.EndTime)
		if err != nil {
			return o.inputInvalid(err)
		}

		plan := shiftPlan{shift: shift, interval: iv}
		if opts.ParticipantValidation {
			plan.participant = participantMap[shift.Participant]
		}

		var template *templates.Template
		if opts.TemplateValidation && o.templates != nil {
			if shift.TemplateID != "" {
				template, _ = o.templates.Get(shift.TemplateID)
			} else if opts.SmartValidation {
				template = o.templates.BestMatch(shift)
			}
		}

		var templateOverride *model.ConfigOverride
		if template != nil {
			templateOverride = template.Overrides
			plan.templateFindings = template.PreValidate(shift)
		}

		plan.config = resolver.Effective(plan.participant, templateOverride)
		if err := CheckInvariants(&plan.config); err != nil {
			return o.configurationInvalid(fmt.Errorf("shift %s: %w", shift.ID, err))
		}
		plans[i] = plan
	}

	// Phase 3: run the rules, in parallel chunks. Results land in slots
	// indexed by shift order so chunking never changes the output.
	statuses := make([]ShiftStatus, len(plans))
	rules := o.registry.Rules()

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = 16
	}

	cancelled := false
	processed := 0
	for start := 0; start < len(plans); start += chunkSize {
		if ctx.Err() != nil {
			cancelled = true
			break
		}
		end := min(start+chunkSize, len(plans))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				statuses[i] = ShiftStatus{
					ShiftID:  plans[i].shift.ID,
					Findings: o.evaluateShift(&plans[i], rules, opts, workerMap, schedules, oracle),
				}
			}(i)
		}
		wg.Wait()
		processed = end
	}

	if cancelled {
		statuses = statuses[:processed]
		o.logger.Warn("Validation cancelled", zap.Int("shifts_processed", processed))
	}

	report := assemble(uuid.New().String(), statuses, cancelled)
	o.logger.Info("Validation complete",
		zap.String("report_id", report.ID),
		zap.Bool("valid", report.Valid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)))
	return report
}

// evaluateShift runs every enabled rule against one shift, recovering rule
// panics into rule_crashed findings so the remaining rules still run.
func (o *Orchestrator) evaluateShift(
	plan *shiftPlan,
	rules []Rule,
	opts BatchOptions,
	workers map[string]*model.Worker,
	schedules map[string]*WorkerSchedule,
	oracle *availability.Oracle,
) []model.Finding {
	findings := append([]model.Finding{}, plan.templateFindings...)

	ruleCtx := &RuleContext{
		Shift:       plan.shift,
		Interval:    plan.interval,
		Config:      &plan.config,
		Participant: plan.participant,
		Workers:     workers,
		Schedules:   schedules,
		Oracle:      oracle,
	}

	for _, rule := range rules {
		switch rule.Scope() {
		case ScopeSchedule:
			if !opts.SmartValidation {
				continue
			}
		case ScopeParticipant:
			if !opts.ParticipantValidation {
				continue
			}
		}

		emitted := o.runRule(rule, ruleCtx)
		for _, f := range emitted {
			findings = append(findings, o.adjustSeverity(f, &plan.config))
		}
	}

	return findings
}

// runRule executes a single rule, converting a panic into a rule_crashed
// critical finding.
func (o *Orchestrator) runRule(rule Rule, ctx *RuleContext) (findings []model.Finding) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Rule panicked",
				zap.String("rule_id", rule.ID()),
				zap.Any("panic", r))
			findings = []model.Finding{{
				RuleID:      RuleCrashed,
				Category:    rule.Category(),
				Severity:    model.SeverityCritical,
				Message:     fmt.Sprintf("rule %s crashed during evaluation: %v", rule.ID(), r),
				ShiftID:     ctx.Shift.ID,
				ImpactScore: 1,
				Metadata:    map[string]any{"rule_id": rule.ID()},
			}}
		}
	}()
	return rule.Evaluate(ctx)
}

// adjustSeverity applies configuration-driven severity escalations:
// split-shift findings become errors when split shifts are disallowed, and
// rest warnings become errors under strict rest validation.
func (o *Orchestrator) adjustSeverity(f model.Finding, cfg *model.ValidationConfig) model.Finding {
	if !cfg.AllowSplitShifts {
		switch f.RuleID {
		case "split_shift_gap_out_of_range", "split_shift_valid":
			f.Severity = model.SeverityError
		}
	}
	if cfg.StrictRestValidation && f.RuleID == "insufficient_rest_warning" {
		f.Severity = model.SeverityError
	}
	return f
}

// inputInvalid builds the single-finding report for structurally invalid input.
func (o *Orchestrator) inputInvalid(err error) *Report {
	o.logger.Warn("Rejecting invalid input", zap.Error(err))
	status := ShiftStatus{
		Findings: []model.Finding{{
			RuleID:      RuleInputInvalid,
			Category:    model.CategoryCompliance,
			Severity:    model.SeverityCritical,
			Message:     err.Error(),
			ImpactScore: 1,
		}},
	}
	return assemble(uuid.New().String(), []ShiftStatus{status}, false)
}

// configurationInvalid builds the single-finding report for an invalid
// effective configuration.
func (o *Orchestrator) configurationInvalid(err error) *Report {
	o.logger.Warn("Rejecting invalid configuration", zap.Error(err))
	status := ShiftStatus{
		Findings: []model.Finding{{
			RuleID:      RuleConfigurationInvalid,
			Category:    model.CategoryCompliance,
			Severity:    model.SeverityCritical,
			Message:     err.Error(),
			ImpactScore: 1,
		}},
	}
	return assemble(uuid.New().String(), []ShiftStatus{status}, false)
}
