package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validShift() *Shift {
	return &Shift{
		ID:            "s1",
		Participant:   "P001",
		Date:          "2026-03-02",
		StartTime:     "09:00",
		EndTime:       "17:00",
		DurationHours: 8,
		Ratio:         "1:1",
		Workers:       []string{"w1"},
	}
}

func TestParseRatio(t *testing.T) {
	n, err := ParseRatio("1:1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = ParseRatio("3:1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestParseRatio_Invalid(t *testing.T) {
	for _, ratio := range []string{"", "1", "1:2", "0:1", "-1:1", "a:1", "1:1:1"} {
		_, err := ParseRatio(ratio)
		assert.Error(t, err, "ratio %q should be rejected", ratio)
	}
}

func TestShift_CrossesMidnight(t *testing.T) {
	s := validShift()
	assert.False(t, s.CrossesMidnight())

	s.StartTime, s.EndTime = "22:00", "06:00"
	assert.True(t, s.CrossesMidnight())
}

func TestShift_TouchesOvernightWindow(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"09:00", "17:00", false},
		{"05:00", "13:00", true},  // starts before 06:00
		{"14:00", "22:30", true},  // ends after 22:00
		{"22:00", "06:00", true},  // crosses midnight
		{"23:00", "23:30", true},  // fully inside the window
		{"06:00", "22:00", false}, // exactly the daytime span
	}
	for _, c := range cases {
		s := validShift()
		s.StartTime, s.EndTime = c.start, c.end
		assert.Equal(t, c.want, s.TouchesOvernightWindow(), "%s-%s", c.start, c.end)
	}
}

func TestUnavailabilityPeriod_Covers(t *testing.T) {
	p := UnavailabilityPeriod{
		WorkerID: "w1",
		FromDate: "2026-03-02",
		ToDate:   "2026-03-04",
		Reason:   ReasonHoliday,
	}
	assert.False(t, p.Covers("2026-03-01"))
	assert.True(t, p.Covers("2026-03-02"))
	assert.True(t, p.Covers("2026-03-03"))
	assert.True(t, p.Covers("2026-03-04"))
	assert.False(t, p.Covers("2026-03-05"))
}

func TestValidateShift_ZeroLength(t *testing.T) {
	s := validShift()
	s.StartTime, s.EndTime = "09:00", "09:00"
	s.DurationHours = 0.0001

	err := ValidateShift(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zero-length")
}

func TestValidateShift_DurationMismatch(t *testing.T) {
	s := validShift()
	s.DurationHours = 50

	err := ValidateShift(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")
}

func TestValidateShift_DurationAcrossMidnight(t *testing.T) {
	s := validShift()
	s.StartTime, s.EndTime = "22:00", "06:00"
	s.DurationHours = 8
	assert.NoError(t, ValidateShift(s))

	s.DurationHours = 7
	assert.Error(t, ValidateShift(s))
}

func TestValidateShift_DurationWithinTolerance(t *testing.T) {
	s := validShift()
	s.DurationHours = 8.01
	assert.NoError(t, ValidateShift(s))
}

func TestValidateShift_MissingFields(t *testing.T) {
	s := validShift()
	s.Date = ""
	assert.Error(t, ValidateShift(s))

	s = validShift()
	s.Ratio = "bad"
	assert.Error(t, ValidateShift(s))

	s = validShift()
	s.DurationHours = 0
	assert.Error(t, ValidateShift(s))
}

func TestValidateShift_NoWorkersIsStructurallyValid(t *testing.T) {
	// Understaffing is a rule finding, not an input error.
	s := validShift()
	s.Workers = nil
	assert.NoError(t, ValidateShift(s))
}

func TestConfigOverride_Apply(t *testing.T) {
	minRest := 8.0
	allow := false
	cfg := ValidationConfig{MinRestHours: 10, MaxDailyHours: 12, AllowSplitShifts: true}

	o := &ConfigOverride{MinRestHours: &minRest, AllowSplitShifts: &allow}
	o.Apply(&cfg)

	assert.Equal(t, 8.0, cfg.MinRestHours)
	assert.False(t, cfg.AllowSplitShifts)
	// Untouched fields keep their values.
	assert.Equal(t, 12.0, cfg.MaxDailyHours)
}

func TestConfigOverride_ApplyNil(t *testing.T) {
	cfg := ValidationConfig{MinRestHours: 10}
	var o *ConfigOverride
	o.Apply(&cfg)
	assert.Equal(t, 10.0, cfg.MinRestHours)
	assert.True(t, o.IsZero())
}

func TestWeeklyRoster_AllShiftsDeterministic(t *testing.T) {
	roster := &WeeklyRoster{
		WeekStart: "2026-03-02",
		Shifts: map[string]map[string][]*Shift{
			"P002": {
				"2026-03-03": {{ID: "c"}},
			},
			"P001": {
				"2026-03-04": {{ID: "b"}},
				"2026-03-02": {{ID: "a1"}, {ID: "a2"}},
			},
		},
	}

	var ids []string
	for _, s := range roster.AllShifts() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"a1", "a2", "b", "c"}, ids)
	assert.Equal(t, 4, roster.TotalShifts())
}
