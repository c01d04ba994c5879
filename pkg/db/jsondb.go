// Package db persists rosters and reference data. The JSON store keeps one
// file per week plus flat reference files, matching the layout the rest of
// the tooling reads and writes. The validation core never touches these
// files; services load data here and hand typed values to the core.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// ErrWeekNotFound is returned when no week file exists for the requested date.
var ErrWeekNotFound = errors.New("week not found")

// JSONStore stores rosters and reference data as JSON files under a root
// directory:
//
//	<root>/weeks/<monday>.json   participant_code -> date -> [shift records]
//	<root>/workers.json          [worker records]
//	<root>/participants.json     [participant records]
//	<root>/config.json           {level, config, timestamp}
type JSONStore struct {
	root string
}

// NewJSONStore opens (creating if needed) a JSON store rooted at dir.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "weeks"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &JSONStore{root: dir}, nil
}

// LoadWeek reads the roster for the week starting on the given Monday.
func (s *JSONStore) LoadWeek(ctx context.Context, weekStart string) (*model.WeeklyRoster, error) {
	path := filepath.Join(s.root, "weeks", weekStart+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrWeekNotFound, weekStart)
		}
		return nil, fmt.Errorf("failed to read week file: %w", err)
	}

	var raw map[string]map[string][]ShiftRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse week file %s: %w", path, err)
	}

	roster := &model.WeeklyRoster{
		WeekStart: weekStart,
		Shifts:    make(map[string]map[string][]*model.Shift, len(raw)),
	}
	for code, byDate := range raw {
		roster.Shifts[code] = make(map[string][]*model.Shift, len(byDate))
		for date, records := range byDate {
			shifts := make([]*model.Shift, 0, len(records))
			for _, rec := range records {
				shift := rec.ToModel(code)
				if shift.ID == "" {
					shift.ID = uuid.New().String()
				}
				shifts = append(shifts, shift)
			}
			roster.Shifts[code][date] = shifts
		}
	}
	return roster, nil
}

// SaveWeek writes the roster back to its week file.
func (s *JSONStore) SaveWeek(ctx context.Context, roster *model.WeeklyRoster) error {
	raw := make(map[string]map[string][]ShiftRecord, len(roster.Shifts))
	for code, byDate := range roster.Shifts {
		raw[code] = make(map[string][]ShiftRecord, len(byDate))
		for date, shifts := range byDate {
			records := make([]ShiftRecord, 0, len(shifts))
			for _, shift := range shifts {
				records = append(records, recordFromModel(shift))
			}
			raw[code][date] = records
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode week: %w", err)
	}
	path := filepath.Join(s.root, "weeks", roster.WeekStart+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write week file: %w", err)
	}
	return nil
}

// GetWorkers reads the worker reference data.
func (s *JSONStore) GetWorkers(ctx context.Context) ([]*model.Worker, error) {
	var records []WorkerRecord
	if err := s.readJSON("workers.json", &records); err != nil {
		return nil, err
	}
	workers := make([]*model.Worker, 0, len(records))
	for _, rec := range records {
		workers = append(workers, rec.ToModel())
	}
	return workers, nil
}

// GetParticipants reads the participant reference data.
func (s *JSONStore) GetParticipants(ctx context.Context) ([]*model.Participant, error) {
	var records []ParticipantRecord
	if err := s.readJSON("participants.json", &records); err != nil {
		return nil, err
	}
	participants := make([]*model.Participant, 0, len(records))
	for _, rec := range records {
		participants = append(participants, rec.ToModel())
	}
	return participants, nil
}

// LoadSelection reads the persisted configuration selection. A missing file
// yields a nil selection, not an error.
func (s *JSONStore) LoadSelection(ctx context.Context) (*PersistedSelection, error) {
	var sel PersistedSelection
	if err := s.readJSON("config.json", &sel); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return &sel, nil
}

// SaveSelection writes the configuration selection.
func (s *JSONStore) SaveSelection(ctx context.Context, sel *PersistedSelection) error {
	data, err := json.MarshalIndent(sel, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode selection: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.root, "config.json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (s *JSONStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.root, name))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}
