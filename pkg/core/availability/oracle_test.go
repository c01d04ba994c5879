package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
)

// The test week starts Monday 2026-03-02.

func interval(t *testing.T, date, start, end string) timeutil.Interval {
	t.Helper()
	iv, err := timeutil.NewInterval(date, start, end)
	require.NoError(t, err)
	return iv
}

func oracleWith(t *testing.T, workers ...*model.Worker) *Oracle {
	t.Helper()
	o, err := NewOracle(workers)
	require.NoError(t, err)
	return o
}

func TestCheck_FullDayRule(t *testing.T) {
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, IsFullDay: true}, // Monday
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "00:00", "23:59"))
	assert.True(t, res.Available)
	assert.Equal(t, ReasonOK, res.Reason)
}

func TestCheck_RuleRecursWeekly(t *testing.T) {
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, IsFullDay: true}, // Monday
		},
	})

	// Every Monday is an occurrence, week after week.
	for _, date := range []string{"2026-03-02", "2026-03-09", "2026-03-30"} {
		res := o.Check("w1", interval(t, date, "09:00", "17:00"))
		assert.True(t, res.Available, date)
	}

	// The surrounding Sunday and Tuesday are not.
	for _, date := range []string{"2026-03-01", "2026-03-03"} {
		res := o.Check("w1", interval(t, date, "09:00", "17:00"))
		assert.False(t, res.Available, date)
		assert.Equal(t, ReasonNoRule, res.Reason)
	}
}

func TestCheck_WindowRule(t *testing.T) {
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, FromTime: "09:00", ToTime: "17:00"},
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "09:00", "17:00"))
	assert.True(t, res.Available)

	res = o.Check("w1", interval(t, "2026-03-02", "10:00", "14:00"))
	assert.True(t, res.Available)

	res = o.Check("w1", interval(t, "2026-03-02", "08:00", "12:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonOutsideHours, res.Reason)
	assert.Equal(t, "2026-03-02", res.Date)
}

func TestCheck_NoRuleForWeekday(t *testing.T) {
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, IsFullDay: true},
		},
	})

	// Tuesday has no rule.
	res := o.Check("w1", interval(t, "2026-03-03", "09:00", "17:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonNoRule, res.Reason)
	assert.Equal(t, "2026-03-03", res.Date)
}

func TestCheck_UnknownWorker(t *testing.T) {
	o := oracleWith(t)
	res := o.Check("ghost", interval(t, "2026-03-02", "09:00", "17:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonNoRule, res.Reason)
}

func TestCheck_WrapsMidnight(t *testing.T) {
	// Monday 22:00 -> Tuesday 06:00, declared on Monday with WrapsMidnight.
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, FromTime: "22:00", ToTime: "06:00", WrapsMidnight: true},
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "22:00", "06:00"))
	assert.True(t, res.Available, "overnight shift inside the wrapped window")

	res = o.Check("w1", interval(t, "2026-03-02", "23:00", "05:00"))
	assert.True(t, res.Available)

	// The spillover alone does not make Tuesday evening available.
	res = o.Check("w1", interval(t, "2026-03-03", "22:00", "23:00"))
	assert.False(t, res.Available)

	// Tuesday early morning is covered by Monday's spillover.
	res = o.Check("w1", interval(t, "2026-03-03", "01:00", "05:00"))
	assert.True(t, res.Available)

	// Past the wrapped end.
	res = o.Check("w1", interval(t, "2026-03-02", "22:00", "07:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonOutsideHours, res.Reason)
}

func TestCheck_OvernightNeedsBothDays(t *testing.T) {
	// Monday-only coverage cannot host a shift spilling into Tuesday.
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, IsFullDay: true},
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "22:00", "06:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonNoRule, res.Reason)
	assert.Equal(t, "2026-03-03", res.Date)
}

func TestCheck_UnavailabilityPeriod(t *testing.T) {
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, IsFullDay: true},
			{WorkerID: "w1", Weekday: 2, IsFullDay: true},
		},
		UnavailabilityPeriods: []model.UnavailabilityPeriod{
			{WorkerID: "w1", FromDate: "2026-03-03", ToDate: "2026-03-05", Reason: model.ReasonHoliday},
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "09:00", "17:00"))
	assert.True(t, res.Available, "day before the absence")

	res = o.Check("w1", interval(t, "2026-03-03", "09:00", "17:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonUnavailabilityPeriod, res.Reason)
	assert.Equal(t, "2026-03-03", res.Date)

	// An overnight shift from Monday into Tuesday is vetoed by the Tuesday absence.
	res = o.Check("w1", interval(t, "2026-03-02", "22:00", "06:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonUnavailabilityPeriod, res.Reason)
}

func TestCheck_PeriodBeatsOutsideHours(t *testing.T) {
	// When both an absence and an hours mismatch apply, the absence wins.
	o := oracleWith(t, &model.Worker{
		ID: "w1",
		AvailabilityRules: []model.AvailabilityRule{
			{WorkerID: "w1", Weekday: 1, FromTime: "09:00", ToTime: "12:00"},
		},
		UnavailabilityPeriods: []model.UnavailabilityPeriod{
			{WorkerID: "w1", FromDate: "2026-03-02", ToDate: "2026-03-02", Reason: model.ReasonSick},
		},
	})

	res := o.Check("w1", interval(t, "2026-03-02", "13:00", "17:00"))
	assert.False(t, res.Available)
	assert.Equal(t, ReasonUnavailabilityPeriod, res.Reason)
}

func TestCovers_MergesSegments(t *testing.T) {
	segs := []segment{{540, 720}, {720, 1020}}
	assert.True(t, covers(segs, 540, 1020))
	assert.True(t, covers(segs, 600, 900))
	assert.False(t, covers(segs, 500, 900))

	// A hole between segments breaks coverage.
	holey := []segment{{540, 700}, {720, 1020}}
	assert.False(t, covers(holey, 540, 1020))
}
