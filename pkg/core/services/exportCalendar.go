package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/db"
)

// CalendarExporter is the subset of the calendar client the export needs.
type CalendarExporter interface {
	DeleteWeekEvents(calendarID, weekStart string) (int, error)
	CreateShiftEvent(calendarID, timezone, weekStart string, shift *model.Shift) error
}

// ExportCalendar pushes a validated week to a Google Calendar. Previously
// exported events for the same week are removed first so a re-export never
// duplicates shifts. The caller is expected to have validated the week;
// export does not re-run the rule engine.
func ExportCalendar(
	ctx context.Context,
	store db.RosterStore,
	exporter CalendarExporter,
	logger *zap.Logger,
	calendarID, timezone, weekStart string,
) (int, error) {
	logger.Info("Exporting week to calendar",
		zap.String("week_start", weekStart),
		zap.String("calendar_id", calendarID))

	roster, err := store.LoadWeek(ctx, weekStart)
	if err != nil {
		return 0, fmt.Errorf("failed to load week %s: %w", weekStart, err)
	}

	removed, err := exporter.DeleteWeekEvents(calendarID, weekStart)
	if err != nil {
		return 0, fmt.Errorf("failed to clear previous export: %w", err)
	}
	if removed > 0 {
		logger.Info("Removed previously exported events", zap.Int("count", removed))
	}

	exported := 0
	for _, shift := range roster.AllShifts() {
		if err := exporter.CreateShiftEvent(calendarID, timezone, weekStart, shift); err != nil {
			return exported, fmt.Errorf("failed to export shift %s: %w", shift.ID, err)
		}
		exported++
	}

	logger.Info("Week exported", zap.Int("events", exported))
	return exported, nil
}
