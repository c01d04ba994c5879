package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/db"
)

// WeekValidationResult bundles the report with the roster it covers.
type WeekValidationResult struct {
	WeekStart string
	Roster    *model.WeeklyRoster
	Report    *validation.Report
}

// ValidateWeek loads the roster and reference data for the week starting on
// weekStart and runs the full rule engine over it. When the caller passes an
// empty preset, the persisted configuration selection is used.
func ValidateWeek(
	ctx context.Context,
	store db.Store,
	orchestrator *validation.Orchestrator,
	logger *zap.Logger,
	weekStart string,
	sel validation.ConfigSelection,
) (*WeekValidationResult, error) {
	logger.Info("Validating week", zap.String("week_start", weekStart))

	roster, err := store.LoadWeek(ctx, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to load week %s: %w", weekStart, err)
	}

	workers, err := store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	logger.Debug("Reference data loaded",
		zap.Int("workers", len(workers)),
		zap.Int("participants", len(participants)),
		zap.Int("shifts", roster.TotalShifts()))

	if sel.Preset == "" {
		sel, err = loadPersistedSelection(ctx, store, logger)
		if err != nil {
			return nil, err
		}
	}

	report := orchestrator.ValidateWeeklyRoster(ctx, roster, workers, participants, sel)

	logger.Info("Week validated",
		zap.String("week_start", weekStart),
		zap.Bool("valid", report.Valid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)))

	return &WeekValidationResult{
		WeekStart: weekStart,
		Roster:    roster,
		Report:    report,
	}, nil
}

// loadPersistedSelection reads the stored configuration selection, falling
// back to the standard preset when nothing is stored.
func loadPersistedSelection(ctx context.Context, store db.ConfigStore, logger *zap.Logger) (validation.ConfigSelection, error) {
	persisted, err := store.LoadSelection(ctx)
	if err != nil {
		return validation.ConfigSelection{}, fmt.Errorf("failed to load configuration selection: %w", err)
	}
	if persisted == nil {
		logger.Debug("No stored configuration selection, using standard preset")
		return validation.ConfigSelection{Preset: validation.PresetStandard}, nil
	}
	logger.Debug("Using stored configuration selection", zap.String("level", persisted.Level))
	return validation.ConfigSelection{
		Preset: validation.Preset(persisted.Level),
		Custom: persisted.Config,
	}, nil
}
