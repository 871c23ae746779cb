package extract

import (
	"regexp"
	"strings"
)

var (
	dateRx = regexp.MustCompile(`(?i)(?:date|reported\s*on|collected\s*on)\s*[:\-]?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}|\d{4}-\d{2}-\d{2})`)
	nameRx = regexp.MustCompile(`(?i)(?:patient|name)\s*[:\-]?\s*([A-Za-z ,.'\-]{3,})`)
	idRx   = regexp.MustCompile(`(?i)(?:mrn|medical\s*record\s*number|patient\s*id)\s*[:\-]?\s*([A-Za-z0-9\-]+)`)
)

// ExtractMeta recovers document-level metadata from OCR text. Each field is
// matched once over the whole blob, first match wins; the date string is
// preserved verbatim (plausibility checks live in the validator). Fields
// without a match stay empty.
func ExtractMeta(text string) ReportMetadata {
	var meta ReportMetadata

	if m := dateRx.FindStringSubmatch(text); m != nil {
		meta.Date = m[1]
	}
	if m := nameRx.FindStringSubmatch(text); m != nil {
		meta.PatientName = strings.TrimSpace(m[1])
	}
	if m := idRx.FindStringSubmatch(text); m != nil {
		meta.PatientID = m[1]
	}

	return meta
}
