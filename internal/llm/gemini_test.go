package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiExtractor_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiExtractor(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("test-key")
	assert.Equal(t, "test-key", cfg.APIKey)
	assert.Equal(t, defaultModel, cfg.Model)
	assert.InDelta(t, 0.1, cfg.Temperature, 1e-6)
	assert.Equal(t, int32(2048), cfg.MaxOutputTokens)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
}

func TestRequestContext_AppliesTimeout(t *testing.T) {
	g, err := NewGeminiExtractor(context.Background(), Config{APIKey: "test-key", Timeout: 5 * time.Second})
	require.NoError(t, err)

	ctx, cancel := g.requestContext(context.Background())
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok, "request context should carry a deadline")
	assert.WithinDuration(t, time.Now().Add(5*time.Second), deadline, time.Second)
}

func TestNewGeminiExtractor_DefaultsTimeout(t *testing.T) {
	g, err := NewGeminiExtractor(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, defaultTimeout, g.config.Timeout)
}

func TestParseExtractionResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantNil bool
		wantErr bool
	}{
		{
			name:    "empty response",
			raw:     "",
			wantNil: true,
		},
		{
			name:    "whitespace only",
			raw:     "  \n\t ",
			wantNil: true,
		},
		{
			name:    "empty object",
			raw:     `{}`,
			wantNil: true,
		},
		{
			name:    "malformed JSON",
			raw:     `{"labs": [`,
			wantErr: true,
		},
		{
			name:    "plain prose",
			raw:     `I could not find any lab values.`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseExtractionResponse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, result)
			}
		})
	}
}

func TestParseExtractionResponse_FullPayload(t *testing.T) {
	raw := `{
		"meta": {"patientName": "John Doe", "patientId": "MRN-1", "date": "01/15/2024", "age": 54, "gender": "male"},
		"labs": [{"name": "glucose", "value": 98, "unit": "mg/dL", "confidence": 0.95}],
		"diagnoses": ["Type 2 Diabetes"],
		"medications": ["Metformin"]
	}`

	result, err := parseExtractionResponse(raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	require.NotNil(t, result.Meta.PatientName)
	assert.Equal(t, "John Doe", *result.Meta.PatientName)
	require.NotNil(t, result.Meta.Age)
	assert.Equal(t, 54, *result.Meta.Age)

	require.Len(t, result.Labs, 1)
	assert.Equal(t, "glucose", result.Labs[0].Name)
	require.NotNil(t, result.Labs[0].Value)
	assert.InDelta(t, 98, *result.Labs[0].Value, 1e-9)
	assert.InDelta(t, 0.95, result.Labs[0].Confidence, 1e-9)

	assert.Equal(t, []string{"Type 2 Diabetes"}, result.Diagnoses)
	assert.Equal(t, []string{"Metformin"}, result.Medications)
}

func TestParseExtractionResponse_DefaultsOmittedConfidence(t *testing.T) {
	raw := `{
		"labs": [
			{"name": "glucose", "value": 98, "unit": "mg/dL"},
			{"name": "sodium", "value": 140, "unit": "mEq/L", "confidence": 0.95}
		]
	}`

	result, err := parseExtractionResponse(raw)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Labs, 2)

	assert.InDelta(t, defaultLabConfidence, result.Labs[0].Confidence, 1e-9)
	assert.InDelta(t, 0.95, result.Labs[1].Confidence, 1e-9)
}

func TestParseExtractionResponse_NullValues(t *testing.T) {
	raw := `{
		"meta": {"patientName": null, "patientId": null, "date": "2024-01-15", "age": null, "gender": null},
		"labs": [{"name": "troponin", "value": null, "unit": "ng/mL", "confidence": 0.4}]
	}`

	result, err := parseExtractionResponse(raw)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Nil(t, result.Meta.PatientName)
	require.NotNil(t, result.Meta.Date)
	assert.Equal(t, "2024-01-15", *result.Meta.Date)

	require.Len(t, result.Labs, 1)
	assert.Nil(t, result.Labs[0].Value)
	assert.Equal(t, "ng/mL", result.Labs[0].Unit)
}

func TestParseExtractionResponse_StripsCodeFences(t *testing.T) {
	fenced := "```json\n{\"labs\": [{\"name\": \"sodium\", \"value\": 140, \"unit\": \"mEq/L\", \"confidence\": 0.9}]}\n```"

	result, err := parseExtractionResponse(fenced)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Labs, 1)
	assert.Equal(t, "sodium", result.Labs[0].Name)
}

func TestParseExtractionResponse_BareFence(t *testing.T) {
	fenced := "```\n{\"diagnoses\": [\"Anemia\"]}\n```"

	result, err := parseExtractionResponse(fenced)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, []string{"Anemia"}, result.Diagnoses)
}
