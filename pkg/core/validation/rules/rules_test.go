package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/rosterguard/pkg/core/availability"
	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// The test week starts Monday 2026-03-02.

func testConfig() model.ValidationConfig {
	return model.ValidationConfig{
		MinRestHours:           10,
		MaxContinuousHours:     12,
		MaxDailyHours:          12,
		MaxWeeklyHours:         48,
		AllowSplitShifts:       true,
		MinSplitShiftGapHours:  1,
		MaxSplitShiftGapHours:  4,
		RequiresMealBreak:      true,
		MealBreakDurationHours: 0.5,
		MealBreakAfterHours:    8,
	}
}

func testShift(id, participant, date, start, end string, hours float64, workers ...string) *model.Shift {
	return &model.Shift{
		ID:              id,
		Participant:     participant,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		DurationHours:   hours,
		Ratio:           "1:1",
		FundingCategory: model.DefaultFundingCategory,
		Workers:         workers,
	}
}

// ctxFor builds a rule context for the target shift within the given batch.
func ctxFor(t *testing.T, target *model.Shift, all []*model.Shift, cfg model.ValidationConfig, workers []*model.Worker, participant *model.Participant) *validation.RuleContext {
	t.Helper()

	schedules, err := validation.BuildSchedules(all)
	require.NoError(t, err)
	oracle, err := availability.NewOracle(workers)
	require.NoError(t, err)

	iv, err := timeutil.NewInterval(target.Date, target.StartTime, target.EndTime)
	require.NoError(t, err)

	workerMap := make(map[string]*model.Worker, len(workers))
	for _, w := range workers {
		workerMap[w.ID] = w
	}

	return &validation.RuleContext{
		Shift:       target,
		Interval:    iv,
		Config:      &cfg,
		Participant: participant,
		Workers:     workerMap,
		Schedules:   schedules,
		Oracle:      oracle,
	}
}

func TestDoubleBooking(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P002", "2026-03-02", "16:00", "20:00", 4, "w1")
	all := []*model.Shift{a, b}

	rule := NewDoubleBookingRule()

	// The earlier shift of the pair emits nothing.
	findings := rule.Evaluate(ctxFor(t, a, all, testConfig(), nil, nil))
	assert.Empty(t, findings)

	// The later shift carries the single finding.
	findings = rule.Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "double_booking", findings[0].RuleID)
	assert.Equal(t, model.SeverityCritical, findings[0].Severity)
	assert.Equal(t, "w1", findings[0].WorkerID)
	assert.Equal(t, "a", findings[0].Metadata["conflicting_shift_id"])
}

func TestDoubleBooking_AdjacentShiftsDoNotConflict(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P002", "2026-03-02", "17:00", "20:00", 3, "w1")
	all := []*model.Shift{a, b}

	findings := NewDoubleBookingRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	assert.Empty(t, findings)
}

func TestDoubleBooking_IgnoresSameParticipant(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P001", "2026-03-02", "16:00", "20:00", 4, "w1")
	all := []*model.Shift{a, b}

	assert.Empty(t, NewDoubleBookingRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil)))

	findings := NewSameParticipantOverlapRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "overlapping_shifts_same_participant", findings[0].RuleID)
}

func TestDoubleBooking_OvernightOverlap(t *testing.T) {
	overnight := testShift("a", "P001", "2026-03-02", "22:00", "06:00", 8, "w1")
	morning := testShift("b", "P002", "2026-03-03", "05:00", "09:00", 4, "w1")
	all := []*model.Shift{overnight, morning}

	findings := NewDoubleBookingRule().Evaluate(ctxFor(t, morning, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "a", findings[0].Metadata["conflicting_shift_id"])
}

func TestRestCritical_BelowFloor(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P001", "2026-03-02", "20:00", "23:00", 3, "w1")
	all := []*model.Shift{a, b}

	findings := NewRestCriticalRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "insufficient_rest_critical", findings[0].RuleID)
	assert.InDelta(t, 3.0, findings[0].Metadata["gap_hours"].(float64), 1e-9)

	// The warning rule stays quiet below the floor.
	assert.Empty(t, NewRestWarningRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil)))
}

func TestRestWarning_BetweenFloorAndMinimum(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P001", "2026-03-03", "01:00", "05:00", 4, "w1")
	all := []*model.Shift{a, b}

	// Gap is 8h: above the 4h floor, below the 10h minimum.
	assert.Empty(t, NewRestCriticalRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil)))

	findings := NewRestWarningRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "insufficient_rest_warning", findings[0].RuleID)
	assert.Equal(t, model.SeverityWarning, findings[0].Severity)
}

func TestRest_AdjacentShiftsOutOfScope(t *testing.T) {
	// Zero gap is split-shift territory, not a rest violation.
	a := testShift("a", "P001", "2026-03-02", "09:00", "13:00", 4, "w1")
	b := testShift("b", "P001", "2026-03-02", "13:00", "17:00", 4, "w1")
	all := []*model.Shift{a, b}

	ctx := ctxFor(t, b, all, testConfig(), nil, nil)
	assert.Empty(t, NewRestCriticalRule().Evaluate(ctx))
	assert.Empty(t, NewRestWarningRule().Evaluate(ctx))
}

func TestRest_SufficientGap(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	b := testShift("b", "P001", "2026-03-03", "09:00", "17:00", 8, "w1")
	all := []*model.Shift{a, b}

	ctx := ctxFor(t, b, all, testConfig(), nil, nil)
	assert.Empty(t, NewRestCriticalRule().Evaluate(ctx))
	assert.Empty(t, NewRestWarningRule().Evaluate(ctx))
}

func TestWeeklyLimit(t *testing.T) {
	var all []*model.Shift
	dates := []string{"2026-03-02", "2026-03-03", "2026-03-04", "2026-03-05", "2026-03-06"}
	for i, date := range dates {
		all = append(all, testShift(string(rune('a'+i)), "P001", date, "08:00", "18:00", 10, "w1"))
	}
	last := all[len(all)-1]

	// 50h > 48h limit, reported once on the last shift.
	findings := NewWeeklyLimitRule().Evaluate(ctxFor(t, last, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "weekly_limit_exceeded", findings[0].RuleID)
	assert.InDelta(t, 50.0, findings[0].Metadata["weekly_hours"].(float64), 1e-9)

	assert.Empty(t, NewWeeklyLimitRule().Evaluate(ctxFor(t, all[0], all, testConfig(), nil, nil)),
		"only the last shift of the week reports")
}

func TestWeeklyLimit_WorkerMaxHoursWins(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "08:00", "18:00", 10, "w1")
	b := testShift("b", "P001", "2026-03-03", "08:00", "18:00", 10, "w1")
	all := []*model.Shift{a, b}

	maxHours := 15.0
	workers := []*model.Worker{{ID: "w1", FullName: "W One", Status: model.WorkerActive, MaxHours: &maxHours}}

	findings := NewWeeklyLimitRule().Evaluate(ctxFor(t, b, all, testConfig(), workers, nil))
	require.Len(t, findings, 1)
	assert.InDelta(t, 15.0, findings[0].Metadata["limit_hours"].(float64), 1e-9)
}

func TestDailyLimit(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "07:00", "14:00", 7, "w1")
	b := testShift("b", "P002", "2026-03-02", "15:00", "22:00", 7, "w1")
	all := []*model.Shift{a, b}

	findings := NewDailyLimitRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "daily_limit_exceeded", findings[0].RuleID)
	assert.InDelta(t, 14.0, findings[0].Metadata["daily_hours"].(float64), 1e-9)

	assert.Empty(t, NewDailyLimitRule().Evaluate(ctxFor(t, a, all, testConfig(), nil, nil)),
		"only the last shift of the day reports")
}

func TestContinuousHours(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "06:00", "13:00", 7, "w1")
	b := testShift("b", "P001", "2026-03-02", "13:00", "20:00", 7, "w1")
	all := []*model.Shift{a, b}

	findings := NewContinuousHoursRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "continuous_hours_high", findings[0].RuleID)
	assert.InDelta(t, 14.0, findings[0].Metadata["block_hours"].(float64), 1e-9)

	assert.Empty(t, NewContinuousHoursRule().Evaluate(ctxFor(t, a, all, testConfig(), nil, nil)),
		"only the last shift of the block reports")
}

func TestRatioRules(t *testing.T) {
	under := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	under.Ratio = "2:1"
	findings := NewRatioUnderstaffedRule().Evaluate(ctxFor(t, under, []*model.Shift{under}, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "ratio_understaffed", findings[0].RuleID)
	assert.Equal(t, 2, findings[0].Metadata["required_workers"])

	over := testShift("b", "P001", "2026-03-02", "09:00", "17:00", 8, "w1", "w2")
	findings = NewRatioOverstaffedRule().Evaluate(ctxFor(t, over, []*model.Shift{over}, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "ratio_overstaffed", findings[0].RuleID)

	exact := testShift("c", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	ctx := ctxFor(t, exact, []*model.Shift{exact}, testConfig(), nil, nil)
	assert.Empty(t, NewRatioUnderstaffedRule().Evaluate(ctx))
	assert.Empty(t, NewRatioOverstaffedRule().Evaluate(ctx))
}

func TestRatioUnderstaffed_NoWorkers(t *testing.T) {
	s := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8)
	findings := NewRatioUnderstaffedRule().Evaluate(ctxFor(t, s, []*model.Shift{s}, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, 0, findings[0].Metadata["assigned_workers"])
}

func TestOvernightUnderstaffed(t *testing.T) {
	s := testShift("a", "P001", "2026-03-02", "22:00", "06:00", 8, "w1")
	s.Ratio = "2:1"

	findings := NewOvernightUnderstaffedRule().Evaluate(ctxFor(t, s, []*model.Shift{s}, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "overnight_understaffed", findings[0].RuleID)

	// A 1:1 overnight shift is fine unless overnight staffing is required.
	s2 := testShift("b", "P001", "2026-03-02", "22:00", "06:00", 8, "w1")
	assert.Empty(t, NewOvernightUnderstaffedRule().Evaluate(ctxFor(t, s2, []*model.Shift{s2}, testConfig(), nil, nil)))

	cfg := testConfig()
	cfg.OvernightStaffingRequired = true
	findings = NewOvernightUnderstaffedRule().Evaluate(ctxFor(t, s2, []*model.Shift{s2}, cfg, nil, nil))
	require.Len(t, findings, 1)

	// Daytime shifts never trigger it.
	day := testShift("c", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	day.Ratio = "2:1"
	assert.Empty(t, NewOvernightUnderstaffedRule().Evaluate(ctxFor(t, day, []*model.Shift{day}, cfg, nil, nil)))
}

func TestSplitShiftGap(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "07:00", "10:00", 3, "w1")
	b := testShift("b", "P001", "2026-03-02", "16:00", "19:00", 3, "w1")
	all := []*model.Shift{a, b}

	// 6h gap is above the 4h maximum.
	findings := NewSplitShiftGapRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "split_shift_gap_out_of_range", findings[0].RuleID)

	// 2h gap is inside the configured range.
	ok := testShift("c", "P001", "2026-03-02", "12:00", "15:00", 3, "w1")
	findings = NewSplitShiftGapRule().Evaluate(ctxFor(t, ok, []*model.Shift{a, ok}, testConfig(), nil, nil))
	assert.Empty(t, findings)
}

func TestSplitShiftGap_DifferentParticipantIgnored(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "07:00", "10:00", 3, "w1")
	b := testShift("b", "P002", "2026-03-02", "16:00", "19:00", 3, "w1")
	all := []*model.Shift{a, b}

	assert.Empty(t, NewSplitShiftGapRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil)))
}

func TestSplitShiftDetected(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "13:00", 4, "w1")
	b := testShift("b", "P001", "2026-03-02", "13:00", "17:00", 4, "w1")
	all := []*model.Shift{a, b}

	findings := NewSplitShiftDetectedRule().Evaluate(ctxFor(t, b, all, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "split_shift_detected", findings[0].RuleID)
	assert.Equal(t, model.SeverityInfo, findings[0].Severity)

	// Flagging both halves silences the detection and validates the split.
	a.IsSplitShift, b.IsSplitShift = true, true
	ctx := ctxFor(t, b, all, testConfig(), nil, nil)
	assert.Empty(t, NewSplitShiftDetectedRule().Evaluate(ctx))

	valid := NewSplitShiftValidRule().Evaluate(ctx)
	require.Len(t, valid, 1)
	assert.Equal(t, "split_shift_valid", valid[0].RuleID)
}

func TestSplitShiftValid_DifferentFunding(t *testing.T) {
	a := testShift("a", "P001", "2026-03-02", "09:00", "13:00", 4, "w1")
	b := testShift("b", "P001", "2026-03-02", "13:00", "17:00", 4, "w1")
	b.FundingCategory = "capacity"
	all := []*model.Shift{a, b}

	ctx := ctxFor(t, b, all, testConfig(), nil, nil)
	assert.Empty(t, NewSplitShiftDetectedRule().Evaluate(ctx))

	valid := NewSplitShiftValidRule().Evaluate(ctx)
	require.Len(t, valid, 1)
}

func TestAvailabilityViolation(t *testing.T) {
	workers := []*model.Worker{{
		ID: "w1", FullName: "W One", Status: model.WorkerActive,
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, FromTime: "09:00", ToTime: "17:00"},
		},
	}}

	inside := testShift("a", "P001", "2026-03-02", "10:00", "14:00", 4, "w1")
	assert.Empty(t, NewAvailabilityRule().Evaluate(ctxFor(t, inside, []*model.Shift{inside}, testConfig(), workers, nil)))

	outside := testShift("b", "P001", "2026-03-02", "08:00", "12:00", 4, "w1")
	findings := NewAvailabilityRule().Evaluate(ctxFor(t, outside, []*model.Shift{outside}, testConfig(), workers, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "availability_violation", findings[0].RuleID)
	assert.Equal(t, "outside_hours", findings[0].Metadata["reason"])
}

func TestParticipantRules(t *testing.T) {
	participant := &model.Participant{
		Code: "P001", FullName: "P One",
		Override: &model.ParticipantOverride{
			Requires21Ratio:      true,
			OvernightRestriction: true,
			WeekendRestriction:   true,
		},
	}

	// 1:1 daytime weekday shift: only the ratio requirement fires.
	s := testShift("a", "P001", "2026-03-02", "09:00", "17:00", 8, "w1")
	ctx := ctxFor(t, s, []*model.Shift{s}, testConfig(), nil, participant)

	findings := NewTwoToOneRequiredRule().Evaluate(ctx)
	require.Len(t, findings, 1)
	assert.Equal(t, "participant_2_1_required", findings[0].RuleID)

	assert.Empty(t, NewOvernightForbiddenRule().Evaluate(ctx))
	assert.Empty(t, NewWeekendForbiddenRule().Evaluate(ctx))

	// Overnight Saturday shift trips the other two.
	s2 := testShift("b", "P001", "2026-03-07", "22:00", "06:00", 8, "w1", "w2")
	s2.Ratio = "2:1"
	ctx2 := ctxFor(t, s2, []*model.Shift{s2}, testConfig(), nil, participant)

	assert.Empty(t, NewTwoToOneRequiredRule().Evaluate(ctx2))
	assert.Len(t, NewOvernightForbiddenRule().Evaluate(ctx2), 1)
	assert.Len(t, NewWeekendForbiddenRule().Evaluate(ctx2), 1)
}

func TestParticipantRules_NilParticipant(t *testing.T) {
	s := testShift("a", "P001", "2026-03-07", "22:00", "06:00", 8, "w1")
	ctx := ctxFor(t, s, []*model.Shift{s}, testConfig(), nil, nil)

	assert.Empty(t, NewTwoToOneRequiredRule().Evaluate(ctx))
	assert.Empty(t, NewOvernightForbiddenRule().Evaluate(ctx))
	assert.Empty(t, NewWeekendForbiddenRule().Evaluate(ctx))
}

func TestMealBreak(t *testing.T) {
	long := testShift("a", "P001", "2026-03-02", "08:00", "18:00", 10, "w1")

	findings := NewMealBreakRule().Evaluate(ctxFor(t, long, []*model.Shift{long}, testConfig(), nil, nil))
	require.Len(t, findings, 1)
	assert.Equal(t, "meal_break_missing", findings[0].RuleID)

	// A second shift later the same day provides the break.
	later := testShift("b", "P002", "2026-03-02", "19:00", "21:00", 2, "w1")
	findings = NewMealBreakRule().Evaluate(ctxFor(t, long, []*model.Shift{long, later}, testConfig(), nil, nil))
	assert.Empty(t, findings)

	// Short shifts need no break.
	short := testShift("c", "P001", "2026-03-03", "09:00", "13:00", 4, "w1")
	assert.Empty(t, NewMealBreakRule().Evaluate(ctxFor(t, short, []*model.Shift{short}, testConfig(), nil, nil)))

	// Disabled by configuration.
	cfg := testConfig()
	cfg.RequiresMealBreak = false
	assert.Empty(t, NewMealBreakRule().Evaluate(ctxFor(t, long, []*model.Shift{long}, cfg, nil, nil)))
}

func TestDefaultRegistry_OrderAndUniqueness(t *testing.T) {
	registry := DefaultRegistry()
	rules := registry.Rules()
	require.Len(t, rules, 18)

	wantOrder := []string{
		"double_booking",
		"overlapping_shifts_same_participant",
		"insufficient_rest_critical",
		"insufficient_rest_warning",
		"weekly_limit_exceeded",
		"daily_limit_exceeded",
		"continuous_hours_high",
		"ratio_understaffed",
		"ratio_overstaffed",
		"overnight_understaffed",
		"split_shift_gap_out_of_range",
		"split_shift_detected",
		"split_shift_valid",
		"availability_violation",
		"participant_2_1_required",
		"participant_overnight_forbidden",
		"participant_weekend_forbidden",
		"meal_break_missing",
	}
	for i, rule := range rules {
		assert.Equal(t, wantOrder[i], rule.ID())
	}
}
