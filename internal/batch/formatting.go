package batch

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(reports []ReportResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(reports)
	case "yaml":
		return formatYAML(reports)
	default: // text
		return formatText(reports)
	}
}

// formatJSON formats results as JSON.
func formatJSON(reports []ReportResult) (string, error) {
	out := struct {
		Reports []ReportResult `json:"reports"`
	}{Reports: reports}

	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

// formatYAML formats results as YAML.
func formatYAML(reports []ReportResult) (string, error) {
	out := struct {
		Reports []ReportResult `yaml:"reports"`
	}{Reports: reports}

	bts, err := yaml.Marshal(out)
	return string(bts), err
}

// formatText formats results as plain text.
func formatText(reports []ReportResult) (string, error) {
	var output strings.Builder

	for i, report := range reports {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", report.Path))

		if report.Error != "" {
			output.WriteString(fmt.Sprintf("error: %s\n", report.Error))
			continue
		}
		if report.Extraction == nil {
			continue
		}

		meta := report.Extraction.Meta
		if meta.PatientName != "" {
			output.WriteString(fmt.Sprintf("patient: %s\n", meta.PatientName))
		}
		if meta.Date != "" {
			output.WriteString(fmt.Sprintf("date: %s\n", meta.Date))
		}

		for _, lab := range report.Extraction.Labs {
			value := "-"
			if lab.Value != nil {
				value = fmt.Sprintf("%g", *lab.Value)
			}
			output.WriteString(fmt.Sprintf("  %-16s %s %s\n", lab.Name, value, lab.Unit))
		}

		if report.Quality != nil {
			output.WriteString(fmt.Sprintf("quality: %.2f", report.Quality.Score))
			if len(report.Quality.CriticalValues) > 0 {
				output.WriteString(fmt.Sprintf("  (%d critical)", len(report.Quality.CriticalValues)))
			}
			output.WriteString("\n")
		}
	}

	return output.String(), nil
}
