package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// WorkerStatus represents whether a worker can currently be rostered.
type WorkerStatus string

const (
	WorkerActive   WorkerStatus = "active"
	WorkerInactive WorkerStatus = "inactive"
)

// IsValid returns true if the status is a recognized value.
func (s WorkerStatus) IsValid() bool {
	return s == WorkerActive || s == WorkerInactive
}

// Worker represents a support worker who can be assigned to shifts
type Worker struct {
	ID       string       `validate:"required"`
	FullName string       `validate:"required"`
	Status   WorkerStatus `validate:"required"`

	// MaxHours is the worker's own weekly cap. When set and lower than the
	// configured weekly maximum, it takes precedence.
	MaxHours *float64 `validate:"omitempty,gt=0"`

	// AvailabilityRules holds the weekly recurring availability, keyed by
	// weekday. At most one rule per weekday.
	AvailabilityRules []AvailabilityRule

	// UnavailabilityPeriods holds absolute date ranges when the worker is out.
	UnavailabilityPeriods []UnavailabilityPeriod
}

// AvailabilityRule represents a worker's recurring availability on one weekday.
// Weekday uses 0 = Sunday through 6 = Saturday.
type AvailabilityRule struct {
	WorkerID string `validate:"required"`
	Weekday  int    `validate:"min=0,max=6"`

	// FromTime and ToTime are "HH:MM" strings. Ignored when IsFullDay is set.
	FromTime string `validate:"omitempty,datetime=15:04"`
	ToTime   string `validate:"omitempty,datetime=15:04"`

	// IsFullDay marks the whole weekday as available.
	IsFullDay bool

	// WrapsMidnight extends the rule past midnight: the rule covers
	// [FromTime, 24:00) of its weekday plus [00:00, ToTime) of the next day.
	WrapsMidnight bool
}

// UnavailabilityReason classifies an absence period.
type UnavailabilityReason string

const (
	ReasonHoliday  UnavailabilityReason = "Holiday"
	ReasonSick     UnavailabilityReason = "Sick"
	ReasonPersonal UnavailabilityReason = "Personal"
	ReasonOther    UnavailabilityReason = "Other"
)

// IsValid returns true if the reason is a recognized value.
func (r UnavailabilityReason) IsValid() bool {
	switch r {
	case ReasonHoliday, ReasonSick, ReasonPersonal, ReasonOther:
		return true
	}
	return false
}

// UnavailabilityPeriod represents an absolute date range when a worker is
// unavailable. Both dates are inclusive. Overlapping periods are permitted;
// the union applies.
type UnavailabilityPeriod struct {
	WorkerID string               `validate:"required"`
	FromDate string               `validate:"required,datetime=2006-01-02"`
	ToDate   string               `validate:"required,datetime=2006-01-02"`
	Reason   UnavailabilityReason `validate:"required"`
}

// Covers returns true if the period includes the given date ("2006-01-02").
// Lexicographic comparison is safe for ISO dates.
func (p UnavailabilityPeriod) Covers(date string) bool {
	return p.FromDate <= date && date <= p.ToDate
}

// Participant represents a person receiving support.
type Participant struct {
	Code     string `validate:"required"`
	FullName string `validate:"required"`

	// DefaultRatio is the worker-to-participant ratio, written "N:1".
	DefaultRatio string `validate:"omitempty,ratio"`

	// PlanStart and PlanEnd bound the participant's plan window, if known.
	PlanStart string `validate:"omitempty,datetime=2006-01-02"`
	PlanEnd   string `validate:"omitempty,datetime=2006-01-02"`

	// Override narrows or widens the validation configuration for this
	// participant's shifts. Nil means the global configuration applies.
	Override *ParticipantOverride
}

// Shift represents a contiguous interval of support delivered to one
// participant by one or more workers.
type Shift struct {
	ID          string `validate:"required"`
	Participant string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"`

	// StartTime and EndTime are "HH:MM". EndTime earlier than or equal to
	// StartTime denotes a shift crossing midnight into the next day, except
	// that EndTime == StartTime is rejected as zero-length.
	StartTime string `validate:"required,datetime=15:04"`
	EndTime   string `validate:"required,datetime=15:04"`

	// DurationHours must equal the interval length measured across midnight.
	DurationHours float64 `validate:"gt=0"`

	// Ratio is the required worker count written "N:1".
	Ratio string `validate:"required,ratio"`

	// FundingCategory distinguishes funding lines (e.g. "core" vs "capacity").
	FundingCategory string

	// IsSplitShift marks a shift as one half of an intentional split.
	IsSplitShift bool

	// Workers holds the ids of assigned workers.
	Workers []string

	Location string
	Notes    string

	// TemplateID attaches a shift template whose rule overrides apply last.
	TemplateID string
}

// DefaultFundingCategory is applied when a shift record omits the funding
// category.
const DefaultFundingCategory = "default"

// CrossesMidnight returns true if the shift ends on the day after its date.
func (s *Shift) CrossesMidnight() bool {
	return s.EndTime <= s.StartTime
}

// HasWorker returns true if the given worker is assigned to this shift.
func (s *Shift) HasWorker(workerID string) bool {
	for _, id := range s.Workers {
		if id == workerID {
			return true
		}
	}
	return false
}

// TouchesOvernightWindow returns true if any part of the shift falls in the
// overnight window [22:00, 06:00].
func (s *Shift) TouchesOvernightWindow() bool {
	if s.CrossesMidnight() {
		return true
	}
	return s.StartTime < "06:00" || s.EndTime > "22:00" || s.StartTime >= "22:00"
}

// ParseRatio parses a ratio string of the form "N:1" and returns N,
// the number of workers required.
func ParseRatio(ratio string) (int, error) {
	parts := strings.Split(ratio, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid ratio %q: expected \"N:1\"", ratio)
	}
	n, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid ratio %q: worker count must be a positive integer", ratio)
	}
	if strings.TrimSpace(parts[1]) != "1" {
		return 0, fmt.Errorf("invalid ratio %q: only \"N:1\" ratios are supported", ratio)
	}
	return n, nil
}

// WeeklyRoster maps participant code -> date ("2006-01-02") -> ordered shifts.
// Dates fall within a single Monday-Sunday week.
type WeeklyRoster struct {
	// WeekStart is the Monday of the roster week.
	WeekStart string `validate:"required,datetime=2006-01-02"`

	// Shifts is keyed by participant code, then date.
	Shifts map[string]map[string][]*Shift
}

// AllShifts returns every shift in the roster in a deterministic order:
// participant code ascending, date ascending, then the stored shift order.
func (r *WeeklyRoster) AllShifts() []*Shift {
	var shifts []*Shift
	for _, code := range sortedKeys(r.Shifts) {
		byDate := r.Shifts[code]
		for _, date := range sortedKeys(byDate) {
			shifts = append(shifts, byDate[date]...)
		}
	}
	return shifts
}

// TotalShifts returns the number of shifts in the roster.
func (r *WeeklyRoster) TotalShifts() int {
	total := 0
	for _, byDate := range r.Shifts {
		for _, shifts := range byDate {
			total += len(shifts)
		}
	}
	return total
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
