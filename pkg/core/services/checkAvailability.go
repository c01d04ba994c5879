package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carebridge/rosterguard/pkg/core/availability"
	"github.com/carebridge/rosterguard/pkg/core/timeutil"
	"github.com/carebridge/rosterguard/pkg/db"
)

// AvailabilityResult describes whether one worker can cover one interval.
type AvailabilityResult struct {
	WorkerID  string
	Date      string
	StartTime string
	EndTime   string
	Available bool
	Reason    string
}

// CheckAvailability answers whether each named worker is available for the
// given date and time range. Unknown worker IDs produce an error.
func CheckAvailability(
	ctx context.Context,
	store db.WorkerStore,
	logger *zap.Logger,
	workerIDs []string,
	date, startTime, endTime string,
) ([]AvailabilityResult, error) {
	workers, err := store.GetWorkers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load workers: %w", err)
	}

	known := make(map[string]bool, len(workers))
	for _, w := range workers {
		known[w.ID] = true
	}
	for _, id := range workerIDs {
		if !known[id] {
			return nil, fmt.Errorf("unknown worker %q", id)
		}
	}

	interval, err := timeutil.NewInterval(date, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("invalid time range: %w", err)
	}

	oracle, err := availability.NewOracle(workers)
	if err != nil {
		return nil, fmt.Errorf("failed to build availability oracle: %w", err)
	}

	results := make([]AvailabilityResult, 0, len(workerIDs))
	for _, id := range workerIDs {
		res := oracle.Check(id, interval)
		results = append(results, AvailabilityResult{
			WorkerID:  id,
			Date:      date,
			StartTime: startTime,
			EndTime:   endTime,
			Available: res.Available,
			Reason:    string(res.Reason),
		})
		logger.Debug("Availability checked",
			zap.String("worker", id),
			zap.Bool("available", res.Available))
	}

	return results, nil
}
