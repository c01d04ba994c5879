// Package timeutil provides the interval arithmetic the validation core is
// built on. All times are minute-of-day values in a single nominal timezone;
// the caller has already normalized away DST and localization concerns.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// MinutesPerDay is the number of minutes in a nominal day.
	MinutesPerDay = 24 * 60

	// DateLayout is the wire format for dates.
	DateLayout = "2006-01-02"

	// TimeLayout is the wire format for times of day.
	TimeLayout = "15:04"
)

// ToMinutes parses an "HH:MM" string into minutes since midnight (0..1439).
func ToMinutes(hhmm string) (int, error) {
	t, err := time.Parse(TimeLayout, hhmm)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// MinutesToHHMM formats minutes since midnight as "HH:MM".
// It is the inverse of ToMinutes for values in [0, 1440).
func MinutesToHHMM(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" date string.
func ParseDate(date string) (time.Time, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Weekday returns the weekday of a date with 0 = Sunday through 6 = Saturday,
// matching how availability rules are keyed.
func Weekday(date string) (int, error) {
	t, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(t.Weekday()), nil
}

// AddDays returns the date shifted by the given number of days.
func AddDays(date string, days int) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, days).Format(DateLayout), nil
}

// Interval is an absolute half-open time interval [Start, End) expressed in
// minutes since midnight of its anchor date. End may exceed MinutesPerDay
// when the interval crosses midnight.
type Interval struct {
	// Date is the anchor date ("2006-01-02") the minute offsets are
	// relative to.
	Date string

	// Start and End are minutes since midnight of Date. Invariant: End > Start
	// for non-empty intervals.
	Start int
	End   int
}

// NewInterval builds an absolute interval from a date and "HH:MM" start and
// end times. An end at or before the start is taken to mean the interval
// crosses midnight into the following day.
func NewInterval(date, startTime, endTime string) (Interval, error) {
	start, err := ToMinutes(startTime)
	if err != nil {
		return Interval{}, err
	}
	end, err := ToMinutes(endTime)
	if err != nil {
		return Interval{}, err
	}
	if _, err := ParseDate(date); err != nil {
		return Interval{}, err
	}
	if end <= start {
		end += MinutesPerDay
	}
	return Interval{Date: date, Start: start, End: end}, nil
}

// DurationHours returns the interval length in hours.
func (iv Interval) DurationHours() float64 {
	return float64(iv.End-iv.Start) / 60.0
}

// IsEmpty returns true for zero-length intervals, which overlap nothing.
func (iv Interval) IsEmpty() bool {
	return iv.End <= iv.Start
}

// EndDate returns the calendar date the interval ends on.
func (iv Interval) EndDate() (string, error) {
	if iv.End <= MinutesPerDay {
		return iv.Date, nil
	}
	return AddDays(iv.Date, 1)
}

// TouchedDates returns the one or two calendar dates the interval covers.
func (iv Interval) TouchedDates() ([]string, error) {
	if iv.End <= MinutesPerDay {
		return []string{iv.Date}, nil
	}
	next, err := AddDays(iv.Date, 1)
	if err != nil {
		return nil, err
	}
	return []string{iv.Date, next}, nil
}

// absRange converts the interval to a pair of absolute minute offsets from a
// common epoch, so intervals anchored on different dates compare directly.
func (iv Interval) absRange() (int64, int64, error) {
	t, err := ParseDate(iv.Date)
	if err != nil {
		return 0, 0, err
	}
	base := t.Unix() / 60
	return base + int64(iv.Start), base + int64(iv.End), nil
}

// Overlaps reports strict overlap between two intervals under half-open
// [Start, End) semantics. Adjacent intervals do not overlap, and empty
// intervals overlap nothing.
func Overlaps(a, b Interval) (bool, error) {
	if a.IsEmpty() || b.IsEmpty() {
		return false, nil
	}
	aStart, aEnd, err := a.absRange()
	if err != nil {
		return false, err
	}
	bStart, bEnd, err := b.absRange()
	if err != nil {
		return false, err
	}
	return aStart < bEnd && bStart < aEnd, nil
}

// GapHours returns the gap between the end of a and the start of b, in hours.
// Positive when b starts strictly after a ends, zero when adjacent, negative
// when the intervals overlap.
func GapHours(a, b Interval) (float64, error) {
	_, aEnd, err := a.absRange()
	if err != nil {
		return 0, err
	}
	bStart, _, err := b.absRange()
	if err != nil {
		return 0, err
	}
	return float64(bStart-aEnd) / 60.0, nil
}
