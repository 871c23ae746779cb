package extract

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genReportText produces noisy OCR-like text mixing lab lines and junk.
func genReportText() gopter.Gen {
	labLine := gen.OneConstOf(
		"Hemoglobin: 10.2 g/dL",
		"Glucose: 250 mg/dL",
		"WBC 6.1",
		"Platelets: 180 K/uL",
		"Sodium 140 mmol/L",
		"Potassium: 4.4",
		"Creatinine: 0.9 mg/dL",
		"BUN: 15",
		"HbA1c: 5.9 %",
		"random handwriting artifact",
		"page 2 of 3",
		"",
	)
	return gen.SliceOf(labLine).Map(func(lines []string) string {
		return strings.Join(lines, "\n")
	})
}

func TestExtractLabs_Idempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("same input yields same output", prop.ForAll(
		func(text string) bool {
			first := ExtractLabs(text)
			second := ExtractLabs(text)
			if len(first) != len(second) {
				return false
			}
			for i := range first {
				if first[i].Name != second[i].Name || first[i].Raw != second[i].Raw {
					return false
				}
			}
			return true
		},
		genReportText(),
	))

	properties.TestingRun(t)
}

func TestExtractLabs_Bounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unique names, count bounded by pattern table", prop.ForAll(
		func(text string) bool {
			labs := ExtractLabs(text)
			if len(labs) > len(labPatterns) {
				return false
			}
			seen := make(map[string]bool, len(labs))
			for _, l := range labs {
				if seen[l.Name] {
					return false
				}
				seen[l.Name] = true
				if l.Confidence < 0 || l.Confidence > 1 {
					return false
				}
			}
			return true
		},
		genReportText(),
	))

	properties.TestingRun(t)
}
