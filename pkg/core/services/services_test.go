package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/core/validation/rules"
	"github.com/carebridge/rosterguard/pkg/db"
)

// mockStore is an in-memory db.Store for service tests.
type mockStore struct {
	rosters      map[string]*model.WeeklyRoster
	workers      []*model.Worker
	participants []*model.Participant
	selection    *db.PersistedSelection

	selectionErr error
}

func (m *mockStore) LoadWeek(ctx context.Context, weekStart string) (*model.WeeklyRoster, error) {
	roster, ok := m.rosters[weekStart]
	if !ok {
		return nil, fmt.Errorf("%w: %s", db.ErrWeekNotFound, weekStart)
	}
	return roster, nil
}

func (m *mockStore) SaveWeek(ctx context.Context, roster *model.WeeklyRoster) error {
	if m.rosters == nil {
		m.rosters = map[string]*model.WeeklyRoster{}
	}
	m.rosters[roster.WeekStart] = roster
	return nil
}

func (m *mockStore) GetWorkers(ctx context.Context) ([]*model.Worker, error) {
	return m.workers, nil
}

func (m *mockStore) GetParticipants(ctx context.Context) ([]*model.Participant, error) {
	return m.participants, nil
}

func (m *mockStore) LoadSelection(ctx context.Context) (*db.PersistedSelection, error) {
	return m.selection, m.selectionErr
}

func (m *mockStore) SaveSelection(ctx context.Context, sel *db.PersistedSelection) error {
	m.selection = sel
	return nil
}

func fullWeekWorker(id string) *model.Worker {
	w := &model.Worker{ID: id, FullName: "Worker " + id, Status: model.WorkerActive}
	for wd := 0; wd < 7; wd++ {
		w.AvailabilityRules = append(w.AvailabilityRules, model.AvailabilityRule{
			WorkerID: id, Weekday: wd, IsFullDay: true,
		})
	}
	return w
}

func testStore() *mockStore {
	return &mockStore{
		rosters: map[string]*model.WeeklyRoster{
			"2026-03-02": {
				WeekStart: "2026-03-02",
				Shifts: map[string]map[string][]*model.Shift{
					"P001": {
						"2026-03-02": {{
							ID:              "s1",
							Participant:     "P001",
							Date:            "2026-03-02",
							StartTime:       "09:00",
							EndTime:         "17:00",
							DurationHours:   8,
							Ratio:           "1:1",
							FundingCategory: model.DefaultFundingCategory,
							Workers:         []string{"w1"},
						}},
					},
				},
			},
		},
		workers:      []*model.Worker{fullWeekWorker("w1")},
		participants: []*model.Participant{{Code: "P001", FullName: "P One"}},
	}
}

func testOrchestrator() *validation.Orchestrator {
	return validation.NewOrchestrator(rules.DefaultRegistry(), nil, nil)
}

func TestValidateWeek(t *testing.T) {
	store := testStore()

	result, err := ValidateWeek(context.Background(), store, testOrchestrator(), zap.NewNop(),
		"2026-03-02", validation.ConfigSelection{Preset: validation.PresetStandard})
	require.NoError(t, err)

	assert.Equal(t, "2026-03-02", result.WeekStart)
	assert.True(t, result.Report.Valid)
	assert.Equal(t, 1, result.Report.Summary.TotalShifts)
	assert.Equal(t, 1, result.Roster.TotalShifts())
}

func TestValidateWeek_WeekNotFound(t *testing.T) {
	store := testStore()

	_, err := ValidateWeek(context.Background(), store, testOrchestrator(), zap.NewNop(),
		"2026-03-09", validation.ConfigSelection{Preset: validation.PresetStandard})
	assert.ErrorIs(t, err, db.ErrWeekNotFound)
}

func TestValidateWeek_UsesPersistedSelection(t *testing.T) {
	store := testStore()
	minRest := 40.0
	store.selection = &db.PersistedSelection{
		Level:  "standard",
		Config: &model.ConfigOverride{MinRestHours: &minRest},
	}

	// The impossible persisted override surfaces as configuration_invalid,
	// proving the stored selection was applied.
	result, err := ValidateWeek(context.Background(), store, testOrchestrator(), zap.NewNop(),
		"2026-03-02", validation.ConfigSelection{})
	require.NoError(t, err)

	require.Len(t, result.Report.Errors, 1)
	assert.Equal(t, validation.RuleConfigurationInvalid, result.Report.Errors[0].RuleID)
}

func TestValidateWeek_DefaultsToStandardPreset(t *testing.T) {
	store := testStore()

	result, err := ValidateWeek(context.Background(), store, testOrchestrator(), zap.NewNop(),
		"2026-03-02", validation.ConfigSelection{})
	require.NoError(t, err)
	assert.True(t, result.Report.Valid)
}

func TestValidateWeek_SelectionLoadError(t *testing.T) {
	store := testStore()
	store.selectionErr = errors.New("disk gone")

	_, err := ValidateWeek(context.Background(), store, testOrchestrator(), zap.NewNop(),
		"2026-03-02", validation.ConfigSelection{})
	assert.Error(t, err)
}

func TestValidateShifts(t *testing.T) {
	store := testStore()
	shifts := []*model.Shift{
		{
			ID: "a", Participant: "P001", Date: "2026-03-03",
			StartTime: "09:00", EndTime: "17:00", DurationHours: 8,
			Ratio: "1:1", FundingCategory: model.DefaultFundingCategory,
			Workers: []string{"w1"},
		},
		{
			ID: "b", Participant: "P001", Date: "2026-03-03",
			StartTime: "16:00", EndTime: "20:00", DurationHours: 4,
			Ratio: "1:1", FundingCategory: model.DefaultFundingCategory,
			Workers: []string{"w1"},
		},
	}

	report, err := ValidateShifts(context.Background(), store, testOrchestrator(), zap.NewNop(),
		shifts, validation.ConfigSelection{Preset: validation.PresetStandard}, validation.DefaultBatchOptions())
	require.NoError(t, err)

	assert.False(t, report.Valid, "the two shifts overlap for the same participant")
	require.NotEmpty(t, report.Errors)
	assert.Equal(t, "overlapping_shifts_same_participant", report.Errors[0].RuleID)
}

func TestCheckAvailability(t *testing.T) {
	store := &mockStore{workers: []*model.Worker{
		{
			ID: "w1", FullName: "W One", Status: model.WorkerActive,
			AvailabilityRules: []model.AvailabilityRule{
				{WorkerID: "w1", Weekday: 1, FromTime: "09:00", ToTime: "17:00"},
			},
		},
		fullWeekWorker("w2"),
	}}

	results, err := CheckAvailability(context.Background(), store, zap.NewNop(),
		[]string{"w1", "w2"}, "2026-03-02", "08:00", "12:00")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.False(t, results[0].Available)
	assert.Equal(t, "outside_hours", results[0].Reason)
	assert.True(t, results[1].Available)
	assert.Equal(t, "ok", results[1].Reason)
}

func TestCheckAvailability_UnknownWorker(t *testing.T) {
	store := &mockStore{workers: []*model.Worker{fullWeekWorker("w1")}}

	_, err := CheckAvailability(context.Background(), store, zap.NewNop(),
		[]string{"w1", "ghost"}, "2026-03-02", "09:00", "12:00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestCheckAvailability_InvalidTimeRange(t *testing.T) {
	store := &mockStore{workers: []*model.Worker{fullWeekWorker("w1")}}

	_, err := CheckAvailability(context.Background(), store, zap.NewNop(),
		[]string{"w1"}, "2026-03-02", "9am", "12:00")
	assert.Error(t, err)
}

// mockExporter records calendar writes.
type mockExporter struct {
	deleted   int
	created   []string
	createErr error
}

func (m *mockExporter) DeleteWeekEvents(calendarID, weekStart string) (int, error) {
	return m.deleted, nil
}

func (m *mockExporter) CreateShiftEvent(calendarID, timezone, weekStart string, shift *model.Shift) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = append(m.created, shift.ID)
	return nil
}

func TestExportCalendar(t *testing.T) {
	store := testStore()
	exporter := &mockExporter{deleted: 3}

	count, err := ExportCalendar(context.Background(), store, exporter, zap.NewNop(),
		"cal-id", "Australia/Sydney", "2026-03-02")
	require.NoError(t, err)

	assert.Equal(t, 1, count)
	assert.Equal(t, []string{"s1"}, exporter.created)
}

func TestExportCalendar_CreateFails(t *testing.T) {
	store := testStore()
	exporter := &mockExporter{createErr: errors.New("quota exceeded")}

	count, err := ExportCalendar(context.Background(), store, exporter, zap.NewNop(),
		"cal-id", "Australia/Sydney", "2026-03-02")
	require.Error(t, err)
	assert.Equal(t, 0, count)
}

func TestExportCalendar_WeekNotFound(t *testing.T) {
	store := testStore()
	exporter := &mockExporter{}

	_, err := ExportCalendar(context.Background(), store, exporter, zap.NewNop(),
		"cal-id", "Australia/Sydney", "2026-03-09")
	assert.ErrorIs(t, err, db.ErrWeekNotFound)
}
