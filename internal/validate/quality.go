package validate

import (
	"fmt"

	"github.com/MeKo-Tech/medext/internal/extract"
)

// Score weights for the composite quality assessment.
const (
	metadataWeight         = 0.2
	labQualityWeight       = 0.6
	criticalCoverageWeight = 0.2
)

// highConfidenceThreshold separates high-confidence observations for the
// confidence-coverage warning and the report counter.
const highConfidenceThreshold = 0.7

// criticalCoverageLabs are the labs whose presence (with a value) earns the
// critical-coverage credit. Coverage is binary: any one of them suffices.
var criticalCoverageLabs = []string{"hemoglobin", "glucose", "creatinine", "sodium", "potassium"}

// ExtractionQuality derives a document-level quality report from an
// extraction result: a [0,1] composite score plus the issues, warnings, and
// critical values that explain it.
//
// The composite weighs metadata at 20%, lab validity at 60%, and
// critical-lab coverage at 20%. When no labs were extracted the 0.6 lab
// weight is left out of maxScore entirely while the 0.2 coverage weight is
// always added; callers depend on the resulting scores, so the accumulation
// must not be "normalized".
func ExtractionQuality(data extract.ExtractionResult) QualityReport {
	labs := data.Labs
	meta := data.Meta

	var totalScore, maxScore float64
	issues := make([]string, 0)
	warnings := make([]string, 0)

	metaResult := Metadata(meta)
	totalScore += metaResult.Score * metadataWeight
	maxScore += metadataWeight
	issues = append(issues, metaResult.Issues...)
	warnings = append(warnings, metaResult.Warnings...)

	if len(labs) == 0 {
		issues = append(issues, "No lab values extracted")
	} else {
		maxScore += labQualityWeight
		validLabs := 0
		highConfidenceLabs := 0

		for _, lab := range labs {
			result := LabValue(lab.Name, lab.Value, lab.Unit, meta.Age, meta.Gender)

			if result.IsValid {
				validLabs++
				if lab.Confidence >= highConfidenceThreshold {
					highConfidenceLabs++
				}

				switch result.Severity {
				case SeverityCritical:
					issues = append(issues, fmt.Sprintf("Critical value: %s = %s %s",
						lab.Name, formatFloat(*lab.Value), lab.Unit))
				case SeverityWarning:
					warnings = append(warnings, fmt.Sprintf("%s: %s", lab.Name, result.Reason))
				}
			} else {
				issues = append(issues, fmt.Sprintf("%s: %s", lab.Name, result.Reason))
			}
		}

		totalScore += float64(validLabs) / float64(len(labs)) * labQualityWeight

		if float64(highConfidenceLabs)/float64(len(labs)) < 0.5 {
			warnings = append(warnings, "Low confidence in extracted lab values")
		}
	}

	maxScore += criticalCoverageWeight
	if hasCriticalCoverage(labs) {
		totalScore += criticalCoverageWeight
	} else {
		warnings = append(warnings, "No critical lab values found")
	}

	score := 0.0
	if maxScore > 0 {
		score = totalScore / maxScore
	}
	score = clamp01(score)

	return QualityReport{
		Score:               score,
		Issues:              issues,
		Warnings:            warnings,
		LabCount:            len(labs),
		ValidLabCount:       countValidLabs(labs, meta),
		HighConfidenceCount: countHighConfidence(labs),
		CriticalValues:      criticalValues(labs, meta),
	}
}

func hasCriticalCoverage(labs []extract.LabObservation) bool {
	for _, name := range criticalCoverageLabs {
		for _, lab := range labs {
			if lab.Name == name && lab.Value != nil {
				return true
			}
		}
	}
	return false
}

func countValidLabs(labs []extract.LabObservation, meta extract.ReportMetadata) int {
	n := 0
	for _, lab := range labs {
		if LabValue(lab.Name, lab.Value, lab.Unit, meta.Age, meta.Gender).IsValid {
			n++
		}
	}
	return n
}

func countHighConfidence(labs []extract.LabObservation) int {
	n := 0
	for _, lab := range labs {
		if lab.Confidence >= highConfidenceThreshold {
			n++
		}
	}
	return n
}

func criticalValues(labs []extract.LabObservation, meta extract.ReportMetadata) []extract.LabObservation {
	critical := make([]extract.LabObservation, 0)
	for _, lab := range labs {
		if LabValue(lab.Name, lab.Value, lab.Unit, meta.Age, meta.Gender).Severity == SeverityCritical {
			critical = append(critical, lab)
		}
	}
	return critical
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
