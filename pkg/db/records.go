package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/carebridge/rosterguard/pkg/core/model"
)

// FlexFloat unmarshals from either a JSON number or a numeric string.
// Legacy week files store durations both ways.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("duration must be a number or numeric string, got %s", data)
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric string %q: %w", s, err)
	}
	*f = FlexFloat(n)
	return nil
}

// ShiftRecord is the wire shape of a shift in week files.
type ShiftRecord struct {
	ID              string    `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Duration        FlexFloat `json:"duration"`
	Ratio           string    `json:"ratio"`
	Workers         []string  `json:"workers"`
	FundingCategory string    `json:"funding_category,omitempty"`
	IsSplitShift    bool      `json:"is_split_shift,omitempty"`
	Location        string    `json:"location,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	TemplateID      string    `json:"template_id,omitempty"`
}

// ToModel converts a wire record to the typed shift.
func (r ShiftRecord) ToModel(participant string) *model.Shift {
	funding := r.FundingCategory
	if funding == "" {
		funding = model.DefaultFundingCategory
	}
	return &model.Shift{
		ID:              r.ID,
		Participant:     participant,
		Date:            r.Date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationHours:   float64(r.Duration),
		Ratio:           r.Ratio,
		FundingCategory: funding,
		IsSplitShift:    r.IsSplitShift,
		Workers:         r.Workers,
		Location:        r.Location,
		Notes:           r.Notes,
		TemplateID:      r.TemplateID,
	}
}

// recordFromModel converts a typed shift back to its wire shape.
func recordFromModel(s *model.Shift) ShiftRecord {
	return ShiftRecord{
		ID:              s.ID,
		Date:            s.Date,
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		Duration:        FlexFloat(s.DurationHours),
		Ratio:           s.Ratio,
		Workers:         s.Workers,
		FundingCategory: s.FundingCategory,
		IsSplitShift:    s.IsSplitShift,
		Location:        s.Location,
		Notes:           s.Notes,
		TemplateID:      s.TemplateID,
	}
}

// WorkerRecord is the wire shape of a worker in workers.json.
type WorkerRecord struct {
	ID                    string                 `json:"id"`
	FullName              string                 `json:"full_name"`
	Status                string                 `json:"status"`
	MaxHours              *float64               `json:"max_hours,omitempty"`
	AvailabilityRules     []AvailabilityRecord   `json:"availability_rules,omitempty"`
	UnavailabilityPeriods []UnavailabilityRecord `json:"unavailability_periods,omitempty"`
}

// AvailabilityRecord is the wire shape of a weekly availability rule.
type AvailabilityRecord struct {
	Weekday       int    `json:"weekday"`
	FromTime      string `json:"from_time,omitempty"`
	ToTime        string `json:"to_time,omitempty"`
	IsFullDay     bool   `json:"is_full_day,omitempty"`
	WrapsMidnight bool   `json:"wraps_midnight,omitempty"`
}

// UnavailabilityRecord is the wire shape of an absence period.
type UnavailabilityRecord struct {
	FromDate string `json:"from_date"`
	ToDate   string `json:"to_date"`
	Reason   string `json:"reason"`
}

// ToModel converts a worker record to the typed worker.
func (r WorkerRecord) ToModel() *model.Worker {
	w := &model.Worker{
		ID:       r.ID,
		FullName: r.FullName,
		Status:   model.WorkerStatus(r.Status),
		MaxHours: r.MaxHours,
	}
	for _, ar := range r.AvailabilityRules {
		w.AvailabilityRules = append(w.AvailabilityRules, model.AvailabilityRule{
			WorkerID:      r.ID,
			Weekday:       ar.Weekday,
			FromTime:      ar.FromTime,
			ToTime:        ar.ToTime,
			IsFullDay:     ar.IsFullDay,
			WrapsMidnight: ar.WrapsMidnight,
		})
	}
	for _, ur := range r.UnavailabilityPeriods {
		w.UnavailabilityPeriods = append(w.UnavailabilityPeriods, model.UnavailabilityPeriod{
			WorkerID: r.ID,
			FromDate: ur.FromDate,
			ToDate:   ur.ToDate,
			Reason:   model.UnavailabilityReason(ur.Reason),
		})
	}
	return w
}

// ParticipantRecord is the wire shape of a participant in participants.json.
type ParticipantRecord struct {
	Code               string                     `json:"code"`
	FullName           string                     `json:"full_name"`
	DefaultRatio       string                     `json:"default_ratio,omitempty"`
	PlanStart          string                     `json:"plan_start,omitempty"`
	PlanEnd            string                     `json:"plan_end,omitempty"`
	ValidationOverride *model.ParticipantOverride `json:"validation_override,omitempty"`
}

// ToModel converts a participant record to the typed participant.
func (r ParticipantRecord) ToModel() *model.Participant {
	return &model.Participant{
		Code:         r.Code,
		FullName:     r.FullName,
		DefaultRatio: r.DefaultRatio,
		PlanStart:    r.PlanStart,
		PlanEnd:      r.PlanEnd,
		Override:     r.ValidationOverride,
	}
}
