package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMeta_AllFields(t *testing.T) {
	text := "Patient: John Smith\nMRN: AB-1234\nDate: 01/15/2024\nHemoglobin: 13 g/dL"

	meta := ExtractMeta(text)

	assert.Equal(t, "John Smith", meta.PatientName)
	assert.Equal(t, "AB-1234", meta.PatientID)
	assert.Equal(t, "01/15/2024", meta.Date)
	assert.Nil(t, meta.Age)
	assert.Empty(t, meta.Gender)
}

func TestExtractMeta_ISODate(t *testing.T) {
	meta := ExtractMeta("Reported on: 2024-01-15")
	assert.Equal(t, "2024-01-15", meta.Date)
}

func TestExtractMeta_CollectedOn(t *testing.T) {
	meta := ExtractMeta("Collected on - 15-01-2024")
	assert.Equal(t, "15-01-2024", meta.Date)
}

func TestExtractMeta_EmptyInput(t *testing.T) {
	meta := ExtractMeta("")
	assert.Equal(t, ReportMetadata{}, meta)
}

func TestExtractMeta_FirstMatchWins(t *testing.T) {
	meta := ExtractMeta("Date: 01/02/2023\nDate: 09/10/2024")
	assert.Equal(t, "01/02/2023", meta.Date)
}

func TestExtractMeta_NameTrimmed(t *testing.T) {
	meta := ExtractMeta("Name:   Jane Doe  \nMRN: 99")
	assert.Equal(t, "Jane Doe", meta.PatientName)
}

func TestExtractMeta_IDVariants(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"mrn", "MRN: 445566", "445566"},
		{"long form", "Medical Record Number: X-77", "X-77"},
		{"patient id", "Patient ID: 12ab", "12ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMeta(tt.text).PatientID)
		})
	}
}

func TestExtractMeta_Idempotent(t *testing.T) {
	text := "Patient: Ada Lovelace\nDate: 12/10/1852"
	first := ExtractMeta(text)
	second := ExtractMeta(text)
	assert.Equal(t, first, second)
}
