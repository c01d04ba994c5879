package validation

import (
	"github.com/carebridge/rosterguard/pkg/core/model"
)

// ShiftStatus is the per-shift outcome: the worst severity among the shift's
// findings, or success when it has none.
type ShiftStatus struct {
	ShiftID  string          `json:"shift_id"`
	Status   model.Severity  `json:"status"`
	Findings []model.Finding `json:"findings,omitempty"`
}

// Summary aggregates a report's findings.
type Summary struct {
	TotalShifts int `json:"total_shifts"`
	Successful  int `json:"successful"`
	Warnings    int `json:"warnings"`
	Errors      int `json:"errors"`
	Critical    int `json:"critical"`

	// ByCategory counts findings per rule category.
	ByCategory map[model.Category]int `json:"by_category"`

	// ImpactScore is the mean per-shift impact of all findings, capped at 1.
	ImpactScore float64 `json:"impact_score"`
}

// Report is the orchestrator's verdict over a roster or shift batch.
type Report struct {
	// ID identifies this evaluation run.
	ID string `json:"id"`

	// Valid is true iff no finding has critical or error severity.
	Valid bool `json:"valid"`

	// Cancelled is set when evaluation stopped early on caller cancellation;
	// the report covers only the shifts processed before the signal.
	Cancelled bool `json:"cancelled,omitempty"`

	// Findings bucketed by severity. Errors includes critical findings.
	Errors   []model.Finding `json:"errors"`
	Warnings []model.Finding `json:"warnings"`
	Info     []model.Finding `json:"info"`

	// ShiftStatuses holds the per-shift outcomes in evaluation order.
	ShiftStatuses []ShiftStatus `json:"shift_statuses"`

	Summary Summary `json:"summary"`
}

// OverallStatus returns the worst per-shift status, or success for an empty
// report.
func (r *Report) OverallStatus() model.Severity {
	worst := model.SeveritySuccess
	for _, st := range r.ShiftStatuses {
		worst = model.WorstSeverity(worst, st.Status)
	}
	return worst
}

// AllFindings returns every finding in deterministic emission order.
func (r *Report) AllFindings() []model.Finding {
	var all []model.Finding
	for _, st := range r.ShiftStatuses {
		all = append(all, st.Findings...)
	}
	return all
}

// assemble buckets the per-shift findings, computes the summary, and settles
// the validity verdict.
func assemble(id string, statuses []ShiftStatus, cancelled bool) *Report {
	report := &Report{
		ID:            id,
		Cancelled:     cancelled,
		Errors:        []model.Finding{},
		Warnings:      []model.Finding{},
		Info:          []model.Finding{},
		ShiftStatuses: statuses,
		Summary: Summary{
			TotalShifts: len(statuses),
			ByCategory:  make(map[model.Category]int),
		},
	}

	totalImpact := 0.0
	for i := range statuses {
		status := model.SeveritySuccess
		for _, f := range statuses[i].Findings {
			status = model.WorstSeverity(status, f.Severity)
			report.Summary.ByCategory[f.Category]++
			totalImpact += f.ImpactScore

			switch f.Severity {
			case model.SeverityCritical, model.SeverityError:
				report.Errors = append(report.Errors, f)
			case model.SeverityWarning:
				report.Warnings = append(report.Warnings, f)
			default:
				report.Info = append(report.Info, f)
			}
		}
		statuses[i].Status = status

		switch status {
		case model.SeveritySuccess, model.SeverityInfo:
			report.Summary.Successful++
		case model.SeverityWarning:
			report.Summary.Warnings++
		case model.SeverityError:
			report.Summary.Errors++
		case model.SeverityCritical:
			report.Summary.Critical++
		}
	}

	if len(statuses) > 0 {
		report.Summary.ImpactScore = min(1.0, totalImpact/float64(len(statuses)))
	}
	report.Valid = len(report.Errors) == 0
	return report
}
