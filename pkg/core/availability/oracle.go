// Package availability answers whether a worker may be scheduled over an
// absolute time interval. It combines the worker's weekly recurring
// availability rules with absolute unavailability periods. The oracle never
// fails: unknown workers and missing rules resolve to "unavailable" with a
// reason code.
package availability

import (
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// ReasonCode explains an availability decision.
type ReasonCode string

const (
	// ReasonOK means the interval is fully covered by the worker's availability.
	ReasonOK ReasonCode = "ok"

	// ReasonNoRule means the worker has no availability rule for a touched weekday.
	ReasonNoRule ReasonCode = "no_rule"

	// ReasonOutsideHours means a rule exists but does not cover the interval.
	ReasonOutsideHours ReasonCode = "outside_hours"

	// ReasonUnavailabilityPeriod means an absence period covers a touched date.
	ReasonUnavailabilityPeriod ReasonCode = "unavailability_period"
)

// Result is the oracle's decision for one worker and one interval.
type Result struct {
	Available bool
	Reason    ReasonCode

	// Date is the calendar date the decision hinged on, when unavailable.
	Date string
}

// weeklyRule pairs an availability rule with its compiled recurrence.
type weeklyRule struct {
	rule model.AvailabilityRule
	rr   *rrule.RRule
}

// workerEntry indexes one worker's availability data.
type workerEntry struct {
	// rules is keyed by weekday (0 = Sunday). At most one rule per weekday.
	rules   map[int]weeklyRule
	periods []model.UnavailabilityPeriod
}

// Oracle holds the materialized availability data for a set of workers.
// It is immutable after construction and safe for concurrent use.
type Oracle struct {
	workers map[string]workerEntry
}

// rruleWeekdays maps persisted weekday numbers (0 = Sunday) to rrule weekdays.
var rruleWeekdays = []rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// ruleEpoch anchors the weekly recurrences. Any Monday-aligned past date
// works; occurrences are generated per queried date.
var ruleEpoch = time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)

// NewOracle builds an oracle over the given workers' availability rules and
// unavailability periods. Each weekly rule is compiled into a WEEKLY
// recurrence used to decide which concrete dates the rule applies to.
func NewOracle(workers []*model.Worker) (*Oracle, error) {
	o := &Oracle{workers: make(map[string]workerEntry, len(workers))}
	for _, w := range workers {
		entry := workerEntry{
			rules:   make(map[int]weeklyRule, len(w.AvailabilityRules)),
			periods: w.UnavailabilityPeriods,
		}
		for _, rule := range w.AvailabilityRules {
			if rule.Weekday < 0 || rule.Weekday > 6 {
				continue
			}
			rr, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Byweekday: []rrule.Weekday{rruleWeekdays[rule.Weekday]},
				Dtstart:   ruleEpoch,
			})
			if err != nil {
				return nil, err
			}
			entry.rules[rule.Weekday] = weeklyRule{rule: rule, rr: rr}
		}
		o.workers[w.ID] = entry
	}
	return o, nil
}

// Check decides whether the worker may be scheduled over the interval.
func (o *Oracle) Check(workerID string, iv timeutil.Interval) Result {
	entry, ok := o.workers[workerID]
	if !ok {
		return Result{Available: false, Reason: ReasonNoRule, Date: iv.Date}
	}

	dates, err := iv.TouchedDates()
	if err != nil {
		return Result{Available: false, Reason: ReasonNoRule, Date: iv.Date}
	}

	// Absence periods veto availability outright.
	for _, date := range dates {
		for _, p := range entry.periods {
			if p.Covers(date) {
				return Result{Available: false, Reason: ReasonUnavailabilityPeriod, Date: date}
			}
		}
	}

	// The interval is available iff its projection onto each touched date is
	// fully covered by that date's availability union.
	for i, date := range dates {
		projStart := 0
		projEnd := iv.End - i*timeutil.MinutesPerDay
		if i == 0 {
			projStart = iv.Start
		}
		if projEnd > timeutil.MinutesPerDay {
			projEnd = timeutil.MinutesPerDay
		}

		segments, hasRule := entry.segmentsFor(date)
		if !hasRule {
			return Result{Available: false, Reason: ReasonNoRule, Date: date}
		}
		if !covers(segments, projStart, projEnd) {
			return Result{Available: false, Reason: ReasonOutsideHours, Date: date}
		}
	}

	return Result{Available: true, Reason: ReasonOK}
}

// segment is a half-open minute range within one day.
type segment struct {
	start, end int
}

// segmentsFor returns the availability segments contributed to the given
// date: the date's own rule, plus yesterday's rule when it wraps midnight.
// The second return value is false when no rule touches the date at all.
func (e workerEntry) segmentsFor(date string) ([]segment, bool) {
	var segments []segment
	hasRule := false

	if wr, ok := e.ruleOn(date); ok {
		hasRule = true
		switch {
		case wr.rule.IsFullDay:
			segments = append(segments, segment{0, timeutil.MinutesPerDay})
		default:
			from, errFrom := timeutil.ToMinutes(wr.rule.FromTime)
			to, errTo := timeutil.ToMinutes(wr.rule.ToTime)
			if errFrom == nil && errTo == nil {
				if wr.rule.WrapsMidnight || to <= from {
					segments = append(segments, segment{from, timeutil.MinutesPerDay})
				} else {
					segments = append(segments, segment{from, to})
				}
			}
		}
	}

	// Yesterday's wrapping rule spills [00:00, ToTime) into this date.
	if prev, err := timeutil.AddDays(date, -1); err == nil {
		if wr, ok := e.ruleOn(prev); ok && wr.rule.WrapsMidnight && !wr.rule.IsFullDay {
			if to, err := timeutil.ToMinutes(wr.rule.ToTime); err == nil && to > 0 {
				hasRule = true
				segments = append(segments, segment{0, to})
			}
		}
	}

	return segments, hasRule
}

// ruleOn returns the weekly rule whose recurrence includes the given date.
// The compiled recurrences decide applicability; the weekday keying of the
// rules map only guarantees at most one of them can match.
func (e workerEntry) ruleOn(date string) (weeklyRule, bool) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return weeklyRule{}, false
	}
	for _, wr := range e.rules {
		// Between is inclusive on both ends, so the window also admits the
		// following midnight; compare dates to discard it.
		for _, occ := range wr.rr.Between(day, day.Add(24*time.Hour), true) {
			if occ.Format(timeutil.DateLayout) == date {
				return wr, true
			}
		}
	}
	return weeklyRule{}, false
}

// covers reports whether [start, end) is fully contained in the union of the
// given segments.
func covers(segments []segment, start, end int) bool {
	if end <= start {
		return true
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].start < segments[j].start })

	cursor := start
	for _, seg := range segments {
		if seg.start > cursor {
			return false
		}
		if seg.end > cursor {
			cursor = seg.end
		}
		if cursor >= end {
			return true
		}
	}
	return cursor >= end
}
