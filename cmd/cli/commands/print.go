package commands

import (
	"fmt"

	"github.com/carebridge/rosterguard/pkg/core/model"
	"github.com/carebridge/rosterguard/pkg/core/validation"
)

// severityMark maps each severity to its console marker.
var severityMark = map[model.Severity]string{
	model.SeverityCritical: "✗✗",
	model.SeverityError:    "✗",
	model.SeverityWarning:  "⚠",
	model.SeverityInfo:     "i",
	model.SeveritySuccess:  "✓",
}

// printReport writes a human-readable validation report to stdout.
func printReport(report *validation.Report) {
	if report.Cancelled {
		fmt.Println("\n⚠ Validation cancelled - partial results follow")
	}

	if report.Valid {
		fmt.Printf("\n✓ Roster is valid (%d shifts)\n", report.Summary.TotalShifts)
	} else {
		fmt.Printf("\n✗ Roster has problems (%d shifts)\n", report.Summary.TotalShifts)
	}

	fmt.Printf("\n  Successful: %d   Warnings: %d   Errors: %d   Critical: %d\n",
		report.Summary.Successful,
		report.Summary.Warnings,
		report.Summary.Errors,
		report.Summary.Critical)
	fmt.Printf("  Impact score: %.2f\n", report.Summary.ImpactScore)

	printFindings("Errors", report.Errors)
	printFindings("Warnings", report.Warnings)
	printFindings("Info", report.Info)
	fmt.Println()
}

func printFindings(heading string, findings []model.Finding) {
	if len(findings) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", heading)
	for _, f := range findings {
		mark := severityMark[f.Severity]
		fmt.Printf("  %s [%s] %s", mark, f.RuleID, f.Message)
		if f.ShiftID != "" {
			fmt.Printf(" (shift %s)", f.ShiftID)
		}
		fmt.Println()
		if f.SuggestedFix != "" {
			fmt.Printf("      fix: %s\n", f.SuggestedFix)
		}
	}
}
