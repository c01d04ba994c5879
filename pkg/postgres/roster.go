package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// LoadWeek reads every shift for the week starting on the given Monday and
// rebuilds the nested roster mapping.
func (d *DB) LoadWeek(ctx context.Context, weekStart string) (*model.WeeklyRoster, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, participant_code, shift_date::TEXT, start_time, end_time,
		       duration_hours, ratio, funding_category, is_split_shift,
		       workers, COALESCE(location, ''), COALESCE(notes, ''),
		       COALESCE(template_id, '')
		FROM shifts
		WHERE week_start = $1
		ORDER BY participant_code, shift_date, position
	`, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	roster := &model.WeeklyRoster{
		WeekStart: weekStart,
		Shifts:    make(map[string]map[string][]*model.Shift),
	}
	for rows.Next() {
		var s model.Shift
		if err := rows.Scan(&s.ID, &s.Participant, &s.Date, &s.StartTime, &s.EndTime,
			&s.DurationHours, &s.Ratio, &s.FundingCategory, &s.IsSplitShift,
			&s.Workers, &s.Location, &s.Notes, &s.TemplateID); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		byDate, ok := roster.Shifts[s.Participant]
		if !ok {
			byDate = make(map[string][]*model.Shift)
			roster.Shifts[s.Participant] = byDate
		}
		shift := s
		byDate[s.Date] = append(byDate[s.Date], &shift)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shifts: %w", err)
	}
	return roster, nil
}

// SaveWeek replaces the stored shifts for the roster's week.
func (d *DB) SaveWeek(ctx context.Context, roster *model.WeeklyRoster) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM shifts WHERE week_start = $1`, roster.WeekStart); err != nil {
		return fmt.Errorf("failed to clear week: %w", err)
	}

	for code, byDate := range roster.Shifts {
		for date, shifts := range byDate {
			for position, shift := range shifts {
				id := shift.ID
				if id == "" {
					id = uuid.New().String()
				}
				if _, err := tx.Exec(ctx, `
					INSERT INTO shifts (id, week_start, participant_code, shift_date,
						start_time, end_time, duration_hours, ratio, funding_category,
						is_split_shift, workers, location, notes, template_id, position)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
				`, id, roster.WeekStart, code, date,
					shift.StartTime, shift.EndTime, shift.DurationHours, shift.Ratio,
					shift.FundingCategory, shift.IsSplitShift, shift.Workers,
					shift.Location, shift.Notes, shift.TemplateID, position); err != nil {
					return fmt.Errorf("failed to insert shift %s: %w", id, err)
				}
			}
		}
	}

	return tx.Commit(ctx)
}
