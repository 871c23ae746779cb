package validate

import (
	"regexp"
	"strings"

	"github.com/MeKo-Tech/medext/internal/extract"
)

var metaDateShape = regexp.MustCompile(`^\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}$|^\d{4}-\d{2}-\d{2}$`)

var knownGenders = map[string]bool{"male": true, "female": true, "m": true, "f": true}

const (
	minAge = 0
	maxAge = 150
)

// Metadata validates report metadata and scores its completeness. Issues are
// hard problems (missing patient identification, implausible age), warnings
// are soft ones (missing or odd-looking date, unrecognized gender). The
// asymmetry — bad age is an issue while bad gender is only a warning — is
// long-standing observed behavior that downstream consumers rely on; keep it.
//
// The score is a three-tier step function: 1.0 clean, 0.7 with warnings only,
// 0.3 with any issue.
func Metadata(meta extract.ReportMetadata) MetadataResult {
	issues := make([]string, 0)
	warnings := make([]string, 0)

	if meta.PatientName == "" && meta.PatientID == "" {
		issues = append(issues, "No patient identification found")
	}

	if meta.Date == "" {
		warnings = append(warnings, "No report date found")
	} else if !metaDateShape.MatchString(meta.Date) {
		warnings = append(warnings, "Date format may be invalid")
	}

	if meta.Age != nil {
		if *meta.Age < minAge || *meta.Age > maxAge {
			issues = append(issues, "Invalid age value")
		}
	}

	if meta.Gender != "" && !knownGenders[strings.ToLower(meta.Gender)] {
		warnings = append(warnings, "Gender value may be invalid")
	}

	score := 0.3
	if len(issues) == 0 {
		if len(warnings) == 0 {
			score = 1.0
		} else {
			score = 0.7
		}
	}

	return MetadataResult{
		IsValid:  len(issues) == 0,
		Issues:   issues,
		Warnings: warnings,
		Score:    score,
	}
}
