package db

import (
	"context"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// RosterStore loads and saves weekly rosters keyed by their Monday.
type RosterStore interface {
	LoadWeek(ctx context.Context, weekStart string) (*model.WeeklyRoster, error)
	SaveWeek(ctx context.Context, roster *model.WeeklyRoster) error
}

// WorkerStore provides worker reference data including availability rules
// and unavailability periods.
type WorkerStore interface {
	GetWorkers(ctx context.Context) ([]*model.Worker, error)
}

// ParticipantStore provides participant reference data including validation
// overrides.
type ParticipantStore interface {
	GetParticipants(ctx context.Context) ([]*model.Participant, error)
}

// ConfigStore persists the selected validation configuration level.
type ConfigStore interface {
	LoadSelection(ctx context.Context) (*PersistedSelection, error)
	SaveSelection(ctx context.Context, sel *PersistedSelection) error
}

// Store bundles everything the validation services need.
type Store interface {
	RosterStore
	WorkerStore
	ParticipantStore
	ConfigStore
}

// PersistedSelection is the stored configuration selection: a preset level,
// its custom override layer, and the save timestamp.
type PersistedSelection struct {
	Level     string                `json:"level"`
	Config    *model.ConfigOverride `json:"config,omitempty"`
	Timestamp string                `json:"timestamp"`
}
