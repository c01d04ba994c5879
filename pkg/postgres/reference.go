package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/db"
)

// GetWorkers loads every worker with their availability rules and
// unavailability periods.
func (d *DB) GetWorkers(ctx context.Context) ([]*model.Worker, error) {
	rows, err := d.pool.Query(ctx,
		`SELECT id, full_name, status, max_hours FROM workers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query workers: %w", err)
	}
	defer rows.Close()

	byID := make(map[string]*model.Worker)
	var workers []*model.Worker
	for rows.Next() {
		var w model.Worker
		if err := rows.Scan(&w.ID, &w.FullName, &w.Status, &w.MaxHours); err != nil {
			return nil, fmt.Errorf("failed to scan worker: %w", err)
		}
		worker := w
		byID[worker.ID] = &worker
		workers = append(workers, &worker)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workers: %w", err)
	}

	ruleRows, err := d.pool.Query(ctx, `
		SELECT worker_id, weekday, COALESCE(from_time, ''), COALESCE(to_time, ''),
		       is_full_day, wraps_midnight
		FROM availability_rules ORDER BY worker_id, weekday`)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability rules: %w", err)
	}
	defer ruleRows.Close()
	for ruleRows.Next() {
		var rule model.AvailabilityRule
		if err := ruleRows.Scan(&rule.WorkerID, &rule.Weekday, &rule.FromTime,
			&rule.ToTime, &rule.IsFullDay, &rule.WrapsMidnight); err != nil {
			return nil, fmt.Errorf("failed to scan availability rule: %w", err)
		}
		if w, ok := byID[rule.WorkerID]; ok {
			w.AvailabilityRules = append(w.AvailabilityRules, rule)
		}
	}

	periodRows, err := d.pool.Query(ctx, `
		SELECT worker_id, from_date::TEXT, to_date::TEXT, reason
		FROM unavailability_periods ORDER BY worker_id, from_date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query unavailability periods: %w", err)
	}
	defer periodRows.Close()
	for periodRows.Next() {
		var p model.UnavailabilityPeriod
		var reason string
		if err := periodRows.Scan(&p.WorkerID, &p.FromDate, &p.ToDate, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan unavailability period: %w", err)
		}
		p.Reason = model.UnavailabilityReason(reason)
		if w, ok := byID[p.WorkerID]; ok {
			w.UnavailabilityPeriods = append(w.UnavailabilityPeriods, p)
		}
	}

	return workers, nil
}

// GetParticipants loads every participant, decoding stored validation
// overrides.
func (d *DB) GetParticipants(ctx context.Context) ([]*model.Participant, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT code, full_name, default_ratio,
		       COALESCE(plan_start::TEXT, ''), COALESCE(plan_end::TEXT, ''),
		       validation_override
		FROM participants ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	defer rows.Close()

	var participants []*model.Participant
	for rows.Next() {
		var p model.Participant
		var overrideJSON []byte
		if err := rows.Scan(&p.Code, &p.FullName, &p.DefaultRatio,
			&p.PlanStart, &p.PlanEnd, &overrideJSON); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if len(overrideJSON) > 0 {
			var override model.ParticipantOverride
			if err := json.Unmarshal(overrideJSON, &override); err != nil {
				return nil, fmt.Errorf("failed to decode override for %s: %w", p.Code, err)
			}
			p.Override = &override
		}
		participant := p
		participants = append(participants, &participant)
	}
	return participants, rows.Err()
}

// LoadSelection reads the persisted configuration selection, nil when unset.
func (d *DB) LoadSelection(ctx context.Context) (*db.PersistedSelection, error) {
	var sel db.PersistedSelection
	var configJSON []byte
	var savedAt time.Time
	err := d.pool.QueryRow(ctx,
		`SELECT level, config, saved_at FROM config_selection WHERE id = 1`).
		Scan(&sel.Level, &configJSON, &savedAt)
	if err != nil {
		// No selection stored yet.
		return nil, nil
	}
	if len(configJSON) > 0 {
		var override model.ConfigOverride
		if err := json.Unmarshal(configJSON, &override); err != nil {
			return nil, fmt.Errorf("failed to decode config override: %w", err)
		}
		sel.Config = &override
	}
	sel.Timestamp = savedAt.Format(time.RFC3339)
	return &sel, nil
}

// SaveSelection upserts the configuration selection.
func (d *DB) SaveSelection(ctx context.Context, sel *db.PersistedSelection) error {
	var configJSON []byte
	if sel.Config != nil {
		var err error
		configJSON, err = json.Marshal(sel.Config)
		if err != nil {
			return fmt.Errorf("failed to encode config override: %w", err)
		}
	}
	_, err := d.pool.Exec(ctx, `
		INSERT INTO config_selection (id, level, config, saved_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE SET level = $1, config = $2, saved_at = NOW()
	`, sel.Level, configJSON)
	if err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}
