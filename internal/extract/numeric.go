package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var numberToken = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?(?:[eE][-+]?\d+)?`)

// parseNumber parses a numeric token out of OCR text. Thousands separators
// and stray spaces are stripped before the first decimal token is taken, so
// "1,234.5" parses as 1234.5. Returns nil when nothing parseable remains.
func parseNumber(s string) *float64 {
	cleaned := strings.NewReplacer(",", "", " ", "").Replace(s)
	tok := numberToken.FindString(cleaned)
	if tok == "" {
		return nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil
	}
	return &v
}

const mmolPerLToMgPerDLGlucose = 18.0182

// SanitizeLabValue coerces a raw string value into a float, applying the
// glucose mmol/L to mg/dL conversion when the unit string asks for it.
// Returns nil for unparseable input.
func SanitizeLabValue(value, unit string) *float64 {
	num := parseNumber(value)
	if num == nil {
		return nil
	}

	lower := strings.ToLower(unit)
	if strings.Contains(lower, "mmol") && strings.Contains(lower, "l") &&
		strings.Contains(lower, "glucose") {
		converted := *num * mmolPerLToMgPerDLGlucose
		return &converted
	}

	return num
}
