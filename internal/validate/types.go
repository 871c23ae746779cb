package validate

// Package validate classifies extracted lab observations against the
// reference data and aggregates document-level quality reports. Every
// outcome is returned as data; nothing in this package panics or returns an
// error for malformed input.

import "github.com/MeKo-Tech/medext/internal/extract"

// Severity grades a validation outcome.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeveritySuccess  Severity = "success"
	SeverityWarning  Severity = "warning"
	SeverityError    Severity = "error"
	SeverityCritical Severity = "critical"
)

// Status places a value relative to its reference ranges.
type Status string

const (
	StatusNormal         Status = "normal"
	StatusLow            Status = "low"
	StatusHigh           Status = "high"
	StatusCriticallyLow  Status = "critically_low"
	StatusCriticallyHigh Status = "critically_high"
)

// LabResult is the outcome of validating a single observation.
type LabResult struct {
	IsValid        bool     `json:"isValid"`
	Reason         string   `json:"reason"`
	Severity       Severity `json:"severity"`
	Status         Status   `json:"status,omitempty"`
	ReferenceRange string   `json:"referenceRange,omitempty"`
}

// MetadataResult is the outcome of validating report metadata.
type MetadataResult struct {
	IsValid  bool     `json:"isValid"`
	Issues   []string `json:"issues"`
	Warnings []string `json:"warnings"`
	Score    float64  `json:"score"`
}

// QualityReport is the derived document-level quality assessment. It is
// recomputed fresh from an ExtractionResult each time, never persisted.
type QualityReport struct {
	Score               float64                  `json:"score"`
	Issues              []string                 `json:"issues"`
	Warnings            []string                 `json:"warnings"`
	LabCount            int                      `json:"labCount"`
	ValidLabCount       int                      `json:"validLabCount"`
	HighConfidenceCount int                      `json:"highConfidenceCount"`
	CriticalValues      []extract.LabObservation `json:"criticalValues"`
}
