// Package templates manages named shift patterns. A template describes the
// expected shape of a shift (times, duration, ratio, staffing bounds) and can
// carry validation-config overrides that apply last during resolution.
// Templates pre-validate shape cheaply before the full rule engine runs.
package templates

import (
	"fmt"
	"math"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// Type classifies a shift template.
type Type string

const (
	TypeStandardDay Type = "standard_day"
	TypeSplitShift  Type = "split_shift"
	TypeOvernight   Type = "overnight"
	TypeWeekend     Type = "weekend"
	TypeEmergency   Type = "emergency"
	TypeCustom      Type = "custom"
)

// IsValid returns true if the type is a recognized value.
func (t Type) IsValid() bool {
	switch t {
	case TypeStandardDay, TypeSplitShift, TypeOvernight, TypeWeekend, TypeEmergency, TypeCustom:
		return true
	}
	return false
}

// RuleShapeMismatch is the rule id attached to template pre-validation
// findings.
const RuleShapeMismatch = "template_shape_mismatch"

// Template is a named shift pattern.
type Template struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
	Type Type   `yaml:"type" validate:"required"`

	// ExpectedStart and ExpectedEnd are "HH:MM"; empty means unconstrained.
	ExpectedStart string `yaml:"expectedStart,omitempty" validate:"omitempty,datetime=15:04"`
	ExpectedEnd   string `yaml:"expectedEnd,omitempty" validate:"omitempty,datetime=15:04"`

	// ExpectedDurationHours of zero means unconstrained.
	ExpectedDurationHours float64 `yaml:"expectedDurationHours,omitempty"`

	// ExpectedRatio is "N:1"; empty means unconstrained.
	ExpectedRatio string `yaml:"expectedRatio,omitempty"`

	// FundingCategory expected on matching shifts; empty means unconstrained.
	FundingCategory string `yaml:"fundingCategory,omitempty"`

	// MinWorkers and MaxWorkers bound the assigned worker count.
	MinWorkers *int `yaml:"minWorkers,omitempty"`
	MaxWorkers *int `yaml:"maxWorkers,omitempty"`

	// Overrides apply over the participant layer during config resolution.
	Overrides *model.ConfigOverride `yaml:"overrides,omitempty"`
}

// Manager holds a set of templates keyed by id. Immutable after construction
// and safe for concurrent use.
type Manager struct {
	byID  map[string]*Template
	order []*Template
}

// NewManager builds a manager. Duplicate template ids are rejected.
func NewManager(templates []*Template) (*Manager, error) {
	m := &Manager{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %q has no id", t.Name)
		}
		if _, exists := m.byID[t.ID]; exists {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		m.byID[t.ID] = t
		m.order = append(m.order, t)
	}
	return m, nil
}

// Get returns the template with the given id.
func (m *Manager) Get(id string) (*Template, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// Len returns the number of templates.
func (m *Manager) Len() int {
	return len(m.order)
}

// BestMatch suggests the template whose shape is closest to the shift, or
// nil when nothing scores above the matching threshold. Used when a shift
// has no explicit template attached.
func (m *Manager) BestMatch(shift *model.Shift) *Template {
	const threshold = 0.6

	var best *Template
	bestScore := 0.0
	for _, t := range m.order {
		score := t.matchScore(shift)
		if score > bestScore {
			bestScore = score
			best = t
		}
	}
	if bestScore < threshold {
		return nil
	}
	return best
}

// matchScore rates how closely a shift fits the template, in [0, 1].
func (t *Template) matchScore(shift *model.Shift) float64 {
	score := 0.0
	weight := 0.0

	if t.ExpectedStart != "" {
		weight += 1
		if t.ExpectedStart == shift.StartTime {
			score += 1
		}
	}
	if t.ExpectedEnd != "" {
		weight += 1
		if t.ExpectedEnd == shift.EndTime {
			score += 1
		}
	}
	if t.ExpectedDurationHours > 0 {
		weight += 1
		diff := math.Abs(t.ExpectedDurationHours - shift.DurationHours)
		if diff < 0.25 {
			score += 1
		} else if diff < 1 {
			score += 0.5
		}
	}
	if t.ExpectedRatio != "" {
		weight += 1
		if t.ExpectedRatio == shift.Ratio {
			score += 1
		}
	}

	// Type affinity: overnight templates fit midnight-crossing shifts,
	// weekend templates fit Saturday/Sunday shifts.
	weight += 1
	switch t.Type {
	case TypeOvernight:
		if shift.CrossesMidnight() {
			score += 1
		}
	case TypeWeekend:
		if wd, err := timeutil.Weekday(shift.Date); err == nil && (wd == 0 || wd == 6) {
			score += 1
		}
	case TypeSplitShift:
		if shift.IsSplitShift {
			score += 1
		}
	case TypeStandardDay:
		if !shift.CrossesMidnight() && !shift.IsSplitShift {
			score += 1
		}
	default:
		weight -= 1
	}

	if weight == 0 {
		return 0
	}
	return score / weight
}

// PreValidate checks the shift's shape against the template and returns one
// finding per mismatching field.
func (t *Template) PreValidate(shift *model.Shift) []model.Finding {
	var findings []model.Finding

	mismatch := func(field, message string) {
		findings = append(findings, model.Finding{
			RuleID:      RuleShapeMismatch,
			Category:    model.CategoryBusiness,
			Severity:    model.SeverityWarning,
			Message:     message,
			ShiftID:     shift.ID,
			Field:       field,
			ImpactScore: 0.2,
			CanOverride: true,
			Metadata:    map[string]any{"template_id": t.ID},
		})
	}

	if t.ExpectedStart != "" && t.ExpectedStart != shift.StartTime {
		mismatch("start_time", fmt.Sprintf("shift starts at %s but template %q expects %s",
			shift.StartTime, t.Name, t.ExpectedStart))
	}
	if t.ExpectedEnd != "" && t.ExpectedEnd != shift.EndTime {
		mismatch("end_time", fmt.Sprintf("shift ends at %s but template %q expects %s",
			shift.EndTime, t.Name, t.ExpectedEnd))
	}
	if t.ExpectedDurationHours > 0 && math.Abs(t.ExpectedDurationHours-shift.DurationHours) >= 0.25 {
		mismatch("duration", fmt.Sprintf("shift duration %.2fh differs from template %q expectation %.2fh",
			shift.DurationHours, t.Name, t.ExpectedDurationHours))
	}
	if t.ExpectedRatio != "" && t.ExpectedRatio != shift.Ratio {
		mismatch("ratio", fmt.Sprintf("shift ratio %s differs from template %q expectation %s",
			shift.Ratio, t.Name, t.ExpectedRatio))
	}
	if t.FundingCategory != "" && t.FundingCategory != shift.FundingCategory {
		mismatch("funding_category", fmt.Sprintf("shift funding category %q differs from template %q expectation %q",
			shift.FundingCategory, t.Name, t.FundingCategory))
	}
	if t.MinWorkers != nil && len(shift.Workers) < *t.MinWorkers {
		mismatch("workers", fmt.Sprintf("shift has %d workers but template %q requires at least %d",
			len(shift.Workers), t.Name, *t.MinWorkers))
	}
	if t.MaxWorkers != nil && len(shift.Workers) > *t.MaxWorkers {
		mismatch("workers", fmt.Sprintf("shift has %d workers but template %q allows at most %d",
			len(shift.Workers), t.Name, *t.MaxWorkers))
	}

	return findings
}
