package model

// Severity represents how serious a finding is and whether it blocks
// admission of the roster.
type Severity string

const (
	// SeverityCritical blocks admission and cannot be overridden.
	SeverityCritical Severity = "critical"

	// SeverityError blocks admission; some errors may be overridden by an
	// authorized user downstream.
	SeverityError Severity = "error"

	// SeverityWarning is surfaced to the user but does not block admission.
	SeverityWarning Severity = "warning"

	// SeverityInfo is purely informational.
	SeverityInfo Severity = "info"

	// SeveritySuccess marks a shift with no findings at all.
	SeveritySuccess Severity = "success"
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

// IsValid returns true if the severity is a recognized value.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityCritical, SeverityError, SeverityWarning, SeverityInfo, SeveritySuccess:
		return true
	}
	return false
}

// Rank orders severities from worst (highest) to best (lowest).
// Used to compute the worst severity among a shift's findings.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

// Blocking returns true if a finding of this severity makes the report invalid.
func (s Severity) Blocking() bool {
	return s == SeverityCritical || s == SeverityError
}

// WorstSeverity returns the worse of two severities.
func WorstSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Category classifies the concern a rule protects.
type Category string

const (
	CategoryCompliance Category = "compliance"
	CategorySafety     Category = "safety"
	CategoryBusiness   Category = "business"
	CategoryEfficiency Category = "efficiency"
	CategoryQuality    Category = "quality"
)

// String returns the string representation of the category.
func (c Category) String() string {
	return string(c)
}

// IsValid returns true if the category is a recognized value.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCompliance, CategorySafety, CategoryBusiness, CategoryEfficiency, CategoryQuality:
		return true
	}
	return false
}
