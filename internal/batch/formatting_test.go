package batch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/validate"
)

func sampleResults() []ReportResult {
	value := 98.0
	extraction := &extract.ExtractionResult{
		Meta: extract.ReportMetadata{
			PatientName: "John Smith",
			Date:        "01/15/2024",
		},
		Labs: []extract.LabObservation{
			{Name: "glucose", Value: &value, Unit: "mg/dL", Raw: "Glucose: 98 mg/dL", Confidence: 0.7},
		},
	}
	quality := validate.ExtractionQuality(*extraction)

	return []ReportResult{
		{Path: "reports/a.txt", Extraction: extraction, Quality: &quality},
		{Path: "reports/b.txt", Error: "cannot access reports/b.txt"},
	}
}

func TestFormatJSON(t *testing.T) {
	out, err := formatJSON(sampleResults())
	require.NoError(t, err)

	var decoded struct {
		Reports []ReportResult `json:"reports"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Reports, 2)
	assert.Equal(t, "reports/a.txt", decoded.Reports[0].Path)
	assert.Equal(t, "cannot access reports/b.txt", decoded.Reports[1].Error)
	require.NotNil(t, decoded.Reports[0].Extraction)
	assert.Equal(t, "glucose", decoded.Reports[0].Extraction.Labs[0].Name)
}

func TestFormatYAML(t *testing.T) {
	out, err := formatYAML(sampleResults())
	require.NoError(t, err)

	var decoded struct {
		Reports []ReportResult `yaml:"reports"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Reports, 2)
	assert.Equal(t, "reports/a.txt", decoded.Reports[0].Path)
}

func TestFormatText(t *testing.T) {
	out, err := formatText(sampleResults())
	require.NoError(t, err)

	assert.Contains(t, out, "# reports/a.txt")
	assert.Contains(t, out, "patient: John Smith")
	assert.Contains(t, out, "glucose")
	assert.Contains(t, out, "98 mg/dL")
	assert.Contains(t, out, "# reports/b.txt")
	assert.Contains(t, out, "error: cannot access reports/b.txt")
}

func TestFormatBatchResults_DefaultsToText(t *testing.T) {
	out, err := formatBatchResults(sampleResults(), "")
	require.NoError(t, err)
	assert.Contains(t, out, "# reports/a.txt")
}

func TestResultCounters(t *testing.T) {
	r := Result{Reports: sampleResults()}
	assert.Equal(t, 1, r.Failed())
	assert.Equal(t, 0, r.CriticalCount())
}
