package validation

import (
	"fmt"
	"sort"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// ScheduledShift pairs a shift with its resolved absolute interval.
type ScheduledShift struct {
	Shift    *model.Shift
	Interval timeutil.Interval
}

// WorkerSchedule is one worker's indexed view of the week: shifts sorted by
// absolute start, per-day and per-week totals, and contiguous blocks.
// It is built once per evaluation and treated as immutable by rules.
type WorkerSchedule struct {
	WorkerID string

	// Shifts are sorted by absolute start, ties broken by shift id.
	Shifts []ScheduledShift

	// DailyHours sums shift durations per calendar day. A shift's whole
	// duration is attributed to its start date.
	DailyHours map[string]float64

	// WeeklyHours is the worker's total assigned hours for the week.
	WeeklyHours float64

	// Blocks groups shifts into contiguous runs: the transitive closure of
	// "gap <= 0" edges between consecutive shifts.
	Blocks [][]ScheduledShift
}

// BuildSchedules indexes the given shifts per assigned worker. Returns an
// error only for structurally invalid input (malformed dates or times).
func BuildSchedules(shifts []*model.Shift) (map[string]*WorkerSchedule, error) {
	schedules := make(map[string]*WorkerSchedule)

	for _, shift := range shifts {
		iv, err := timeutil.NewInterval(shift.Date, shift.StartTime, shift.EndTime)
		if err != nil {
			return nil, fmt.Errorf("shift %s: %w", shift.ID, err)
		}
		for _, workerID := range shift.Workers {
			sched, ok := schedules[workerID]
			if !ok {
				sched = &WorkerSchedule{
					WorkerID:   workerID,
					DailyHours: make(map[string]float64),
				}
				schedules[workerID] = sched
			}
			sched.Shifts = append(sched.Shifts, ScheduledShift{Shift: shift, Interval: iv})
			sched.DailyHours[shift.Date] += shift.DurationHours
			sched.WeeklyHours += shift.DurationHours
		}
	}

	for _, sched := range schedules {
		sort.Slice(sched.Shifts, func(i, j int) bool {
			a, b := sched.Shifts[i], sched.Shifts[j]
			if a.Interval.Date != b.Interval.Date {
				return a.Interval.Date < b.Interval.Date
			}
			if a.Interval.Start != b.Interval.Start {
				return a.Interval.Start < b.Interval.Start
			}
			return a.Shift.ID < b.Shift.ID
		})
		sched.buildBlocks()
	}

	return schedules, nil
}

// buildBlocks partitions the sorted shifts into contiguous runs. Consecutive
// shifts belong to the same block when the gap between them is zero or
// negative (adjacent or overlapping).
func (s *WorkerSchedule) buildBlocks() {
	s.Blocks = nil
	var current []ScheduledShift

	for i, sh := range s.Shifts {
		if i == 0 {
			current = []ScheduledShift{sh}
			continue
		}
		gap, err := timeutil.GapHours(s.Shifts[i-1].Interval, sh.Interval)
		if err == nil && gap <= 0 {
			current = append(current, sh)
			continue
		}
		s.Blocks = append(s.Blocks, current)
		current = []ScheduledShift{sh}
	}
	if len(current) > 0 {
		s.Blocks = append(s.Blocks, current)
	}
}

// IndexOf returns the position of the shift in the sorted sequence, or -1.
func (s *WorkerSchedule) IndexOf(shiftID string) int {
	for i, sh := range s.Shifts {
		if sh.Shift.ID == shiftID {
			return i
		}
	}
	return -1
}

// IsLastOfWeek returns true if the shift is the worker's final shift in the
// sorted week. Aggregate rules fire on it so each violation is reported once.
func (s *WorkerSchedule) IsLastOfWeek(shiftID string) bool {
	n := len(s.Shifts)
	return n > 0 && s.Shifts[n-1].Shift.ID == shiftID
}

// IsLastOfDay returns true if the shift is the worker's final shift starting
// on its calendar day.
func (s *WorkerSchedule) IsLastOfDay(shiftID string) bool {
	idx := s.IndexOf(shiftID)
	if idx < 0 {
		return false
	}
	date := s.Shifts[idx].Shift.Date
	for _, sh := range s.Shifts[idx+1:] {
		if sh.Shift.Date == date {
			return false
		}
	}
	return true
}

// BlockFor returns the contiguous block containing the shift, or nil.
func (s *WorkerSchedule) BlockFor(shiftID string) []ScheduledShift {
	for _, block := range s.Blocks {
		for _, sh := range block {
			if sh.Shift.ID == shiftID {
				return block
			}
		}
	}
	return nil
}

// BlockHours returns the span of a contiguous block in hours, from the first
// shift's start to the last shift's end.
func BlockHours(block []ScheduledShift) float64 {
	if len(block) == 0 {
		return 0
	}
	first := block[0].Interval
	last := block[len(block)-1].Interval
	span, err := timeutil.GapHours(first, last)
	if err != nil {
		return 0
	}
	// GapHours measures first.End to last.Start; add both shift lengths back.
	return span + first.DurationHours() + last.DurationHours()
}

// GapBefore returns the gap in hours between the shift and the worker's
// previous shift, and whether a previous shift exists.
func (s *WorkerSchedule) GapBefore(shiftID string) (float64, *ScheduledShift, bool) {
	idx := s.IndexOf(shiftID)
	if idx <= 0 {
		return 0, nil, false
	}
	prev := s.Shifts[idx-1]
	gap, err := timeutil.GapHours(prev.Interval, s.Shifts[idx].Interval)
	if err != nil {
		return 0, nil, false
	}
	return gap, &prev, true
}
