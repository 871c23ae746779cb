package validate

import (
	"fmt"
	"math"
	"strconv"

	"github.com/MeKo-Tech/medext/internal/refdata"
)

// LabValue classifies a single observation against the reference data.
// age and gender are optional; when present they adjust the normal range
// before comparison. The critical-range check takes precedence over the
// normal-range check: a value at or beyond a critical bound is critical even
// when the normal range would merely call it high or low.
//
// Unknown lab names are accepted, not rejected: OCR vocabularies drift, so
// the policy is permissive by default.
func LabValue(name string, value *float64, unit string, age *int, gender string) LabResult {
	if value == nil {
		return LabResult{IsValid: false, Reason: "Missing value", Severity: SeverityWarning}
	}

	v := *value
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return LabResult{IsValid: false, Reason: "Invalid numeric value", Severity: SeverityError}
	}

	ranges, ok := refdata.ReferenceRangeFor(name, age, gender)
	if !ok {
		return LabResult{IsValid: true, Reason: "No reference range available", Severity: SeverityInfo}
	}

	if cr, hasCritical := refdata.CriticalRangeFor(name); hasCritical {
		if v <= cr.CriticalLow || v >= cr.CriticalHigh {
			status := StatusCriticallyHigh
			if v <= cr.CriticalLow {
				status = StatusCriticallyLow
			}
			return LabResult{
				IsValid:  true,
				Reason:   "Critical value detected",
				Severity: SeverityCritical,
				Status:   status,
			}
		}
	}

	refRange := formatRange(ranges)

	if v < ranges.Min {
		return LabResult{
			IsValid:        true,
			Reason:         "Below normal range",
			Severity:       SeverityWarning,
			Status:         StatusLow,
			ReferenceRange: refRange,
		}
	}

	if v > ranges.Max {
		return LabResult{
			IsValid:        true,
			Reason:         "Above normal range",
			Severity:       SeverityWarning,
			Status:         StatusHigh,
			ReferenceRange: refRange,
		}
	}

	return LabResult{
		IsValid:        true,
		Reason:         "Within normal range",
		Severity:       SeveritySuccess,
		Status:         StatusNormal,
		ReferenceRange: refRange,
	}
}

func formatRange(r refdata.ReferenceRange) string {
	return fmt.Sprintf("%s-%s %s", formatFloat(r.Min), formatFloat(r.Max), r.Unit)
}

// formatFloat renders numbers the way report text does: no trailing zeros,
// no exponent for ordinary magnitudes.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
