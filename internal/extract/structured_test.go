package extract

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	result   *LLMExtraction
	err      error
	gotText  string
	numCalls int
}

func (f *fakeLLM) ExtractStructured(_ context.Context, text string) (*LLMExtraction, error) {
	f.gotText = text
	f.numCalls++
	return f.result, f.err
}

func strPtr(s string) *string     { return &s }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

const sampleReport = "Patient: John Smith\nMRN: 445\nDate: 01/15/2024\nHemoglobin: 13.2 g/dL\nGlucose: 98 mg/dL"

func TestExtractStructuredFromOCR_BaselineOnly(t *testing.T) {
	e := NewExtractor(nil)

	res := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{})

	assert.Equal(t, "John Smith", res.Meta.PatientName)
	assert.Equal(t, "445", res.Meta.PatientID)
	assert.Len(t, res.Labs, 2)
	assert.NotNil(t, res.Diagnoses)
	assert.Empty(t, res.Diagnoses)
	assert.NotNil(t, res.Medications)
	assert.Empty(t, res.Medications)
}

func TestExtractStructuredFromOCR_LLMDisabledSkipsCollaborator(t *testing.T) {
	llm := &fakeLLM{}
	e := NewExtractor(llm)

	e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{UseLLM: false})

	assert.Zero(t, llm.numCalls)
}

func TestExtractStructuredFromOCR_LLMFailureFallsBack(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rpc deadline exceeded")}
	e := NewExtractor(llm)

	res := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{UseLLM: true})

	baseline := NewExtractor(nil).ExtractStructuredFromOCR(context.Background(), sampleReport, Options{})
	assert.Equal(t, baseline, res)
	assert.Equal(t, 1, llm.numCalls)
}

func TestExtractStructuredFromOCR_LLMNilResultFallsBack(t *testing.T) {
	llm := &fakeLLM{}
	e := NewExtractor(llm)

	res := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{UseLLM: true})

	baseline := NewExtractor(nil).ExtractStructuredFromOCR(context.Background(), sampleReport, Options{})
	assert.Equal(t, baseline, res)
}

func TestExtractStructuredFromOCR_MergePolicy(t *testing.T) {
	llm := &fakeLLM{result: &LLMExtraction{
		Meta: LLMMeta{
			PatientName: strPtr("Johnathan Smith"),
			Age:         intPtr(54),
			Gender:      strPtr("male"),
		},
		Labs: []LabObservation{
			{Name: "hemoglobin", Value: floatPtr(13.4), Unit: "g/dL", Confidence: 0.93},
		},
		Diagnoses:   []string{"anemia, resolved"},
		Medications: []string{"metformin"},
	}}
	e := NewExtractor(llm)

	res := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{UseLLM: true})

	// LLM fields win per-field; absent fields keep the regex baseline.
	assert.Equal(t, "Johnathan Smith", res.Meta.PatientName)
	assert.Equal(t, "445", res.Meta.PatientID)
	assert.Equal(t, "01/15/2024", res.Meta.Date)
	require.NotNil(t, res.Meta.Age)
	assert.Equal(t, 54, *res.Meta.Age)
	assert.Equal(t, "male", res.Meta.Gender)

	// Non-empty LLM labs replace the baseline wholesale.
	require.Len(t, res.Labs, 1)
	assert.InDelta(t, 0.93, res.Labs[0].Confidence, 1e-9)

	assert.Equal(t, []string{"anemia, resolved"}, res.Diagnoses)
	assert.Equal(t, []string{"metformin"}, res.Medications)
}

func TestExtractStructuredFromOCR_EmptyLLMLabsKeepBaseline(t *testing.T) {
	llm := &fakeLLM{result: &LLMExtraction{
		Meta: LLMMeta{Date: strPtr("2024-01-15")},
		Labs: []LabObservation{},
	}}
	e := NewExtractor(llm)

	res := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{UseLLM: true})

	assert.Equal(t, "2024-01-15", res.Meta.Date)
	assert.Len(t, res.Labs, 2)
	// LLM returned no diagnosis/medication arrays at all: baseline empties stay.
	assert.Empty(t, res.Diagnoses)
	assert.Empty(t, res.Medications)
}

func TestExtractStructuredFromOCR_TruncatesLLMInput(t *testing.T) {
	llm := &fakeLLM{}
	e := NewExtractor(llm)

	long := "Hemoglobin: 12 g/dL\n" + strings.Repeat("x", llmInputLimit*2)
	e.ExtractStructuredFromOCR(context.Background(), long, Options{UseLLM: true})

	assert.Len(t, llm.gotText, llmInputLimit)
}

func TestExtractStructuredFromOCR_Idempotent(t *testing.T) {
	e := NewExtractor(nil)
	a := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{})
	b := e.ExtractStructuredFromOCR(context.Background(), sampleReport, Options{})
	assert.Equal(t, a, b)
}
