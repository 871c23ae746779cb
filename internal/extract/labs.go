package extract

import (
	"regexp"
	"strings"
)

// labPattern binds a canonical lab name to the regex that recognizes it and
// the default unit used when the source line carries none. Each regex has
// three capture groups: label alias, numeric value, optional unit token.
type labPattern struct {
	key  string
	rx   *regexp.Regexp
	unit string
}

// labPatterns is the closed extraction vocabulary, tested in order against
// every line. A single line may match several patterns and contribute several
// observations.
var labPatterns = []labPattern{
	{"hemoglobin", regexp.MustCompile(`(?i)(hemoglobin|hgb|hb)\s*[:=-]?\s*([\d.,]+)\s*(g/dl|g\s*per\s*dl)?`), "g/dL"},
	{"wbc", regexp.MustCompile(`(?i)(white\s*blood\s*cell\s*count|wbc|leukocyte\s*count)\s*[:=-]?\s*([\d.,]+)\s*(x?10\^?3/?µ?l|10\^9/l|k/µl|k/ul)?`), "10^3/µL"},
	{"platelets", regexp.MustCompile(`(?i)(platelets?|plt|thrombocyte\s*count)\s*[:=-]?\s*([\d.,]+)\s*(x?10\^?3/?µ?l|10\^9/l|k/µl|k/ul)?`), "10^3/µL"},
	{"glucose", regexp.MustCompile(`(?i)(glucose|fasting\s*glucose|blood\s*sugar)\s*[:=-]?\s*([\d.,]+)\s*(mg/dl|mmol/l)?`), "mg/dL"},
	{"creatinine", regexp.MustCompile(`(?i)(creatinine|serum\s*creatinine)\s*[:=-]?\s*([\d.,]+)\s*(mg/dl|µmol/l)?`), "mg/dL"},
	{"urea", regexp.MustCompile(`(?i)(urea|bun|blood\s*urea\s*nitrogen)\s*[:=-]?\s*([\d.,]+)\s*(mg/dl|mmol/l)?`), "mg/dL"},
	{"sodium", regexp.MustCompile(`(?i)(sodium|na\b)\s*[:=-]?\s*([\d.,]+)\s*(mmol/l|meq/l)?`), "mmol/L"},
	{"potassium", regexp.MustCompile(`(?i)(potassium|k\b)\s*[:=-]?\s*([\d.,]+)\s*(mmol/l|meq/l)?`), "mmol/L"},
	{"hba1c", regexp.MustCompile(`(?i)(hba1c|hemoglobin\s*a1c|glycated\s*hemoglobin|a1c)\s*[:=-]?\s*([\d.,]+)\s*(%)?`), "%"},
}

var whitespace = regexp.MustCompile(`\s+`)

// ExtractLabs scans OCR text line by line against the fixed pattern table and
// returns the deduplicated lab observations. Text with no lab content yields
// an empty slice, never an error: OCR input is untrusted noise by contract.
//
// Deduplication is by name with the last occurrence in document order
// winning, while output keeps the order of first appearance.
func ExtractLabs(text string) []LabObservation {
	labs := make([]LabObservation, 0)

	for _, line := range splitLines(text) {
		for _, p := range labPatterns {
			m := p.rx.FindStringSubmatch(line)
			if m == nil {
				continue
			}

			unit := whitespace.ReplaceAllString(m[3], "")
			if unit == "" {
				unit = p.unit
			}

			labs = append(labs, LabObservation{
				Name:       p.key,
				Value:      parseNumber(m[2]),
				Unit:       unit,
				Raw:        line,
				Confidence: regexConfidence,
			})
		}
	}

	return dedupeLastWins(labs)
}

// splitLines splits on CR/LF, trims each line, and drops empty ones.
func splitLines(text string) []string {
	raw := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if trimmed := strings.TrimSpace(l); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

func dedupeLastWins(labs []LabObservation) []LabObservation {
	order := make([]string, 0, len(labs))
	byName := make(map[string]LabObservation, len(labs))

	for _, l := range labs {
		if _, seen := byName[l.Name]; !seen {
			order = append(order, l.Name)
		}
		byName[l.Name] = l
	}

	out := make([]LabObservation, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}
