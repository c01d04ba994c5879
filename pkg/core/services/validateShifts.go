package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
	"github.com/carebridge/rosterguard/pkg/db"
)

// ValidateShifts runs the rule engine over an explicit list of shifts, using
// reference data from the store. Used for ad-hoc checks before shifts are
// committed to a week.
func ValidateShifts(
	ctx context.Context,
	store db.Store,
	orchestrator *validation.Orchestrator,
	logger *zap.Logger,
	shifts []*model.Shift,
	sel validation.ConfigSelection,
	opts validation.BatchOptions,
) (*validation.Report, error) {
	logger.Info("Validating shift batch", zap.Int("shifts", len(shifts)))

	workers, err := store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}
	participants, err := store.GetParticipants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants: %w", err)
	}

	if sel.Preset == "" {
		sel, err = loadPersistedSelection(ctx, store, logger)
		if err != nil {
			return nil, err
		}
	}

	report := orchestrator.ValidateShiftBatch(ctx, shifts, workers, participants, sel, opts)

	logger.Info("Shift batch validated",
		zap.Bool("valid", report.Valid),
		zap.Int("errors", len(report.Errors)),
		zap.Int("warnings", len(report.Warnings)))

	return report, nil
}
