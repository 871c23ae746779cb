package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractLabs_TwoObservations(t *testing.T) {
	text := "Hemoglobin: 10.2 g/dL\nGlucose: 250 mg/dL"

	labs := ExtractLabs(text)
	require.Len(t, labs, 2)

	assert.Equal(t, "hemoglobin", labs[0].Name)
	require.NotNil(t, labs[0].Value)
	assert.InDelta(t, 10.2, *labs[0].Value, 1e-9)
	assert.Equal(t, "g/dL", labs[0].Unit)
	assert.Equal(t, "Hemoglobin: 10.2 g/dL", labs[0].Raw)
	assert.InDelta(t, 0.7, labs[0].Confidence, 1e-9)

	assert.Equal(t, "glucose", labs[1].Name)
	require.NotNil(t, labs[1].Value)
	assert.InDelta(t, 250, *labs[1].Value, 1e-9)
	assert.Equal(t, "mg/dL", labs[1].Unit)
}

func TestExtractLabs_EmptyInput(t *testing.T) {
	assert.Empty(t, ExtractLabs(""))
	assert.Empty(t, ExtractLabs("no lab content here\njust words"))
}

func TestExtractLabs_DedupLastWins(t *testing.T) {
	text := "Hemoglobin: 13.1 g/dL\nSodium: 140 mmol/L\nHemoglobin: 10.2 g/dL"

	labs := ExtractLabs(text)
	require.Len(t, labs, 2)

	// Output keeps first-appearance order, but the value is the last mention's.
	assert.Equal(t, "hemoglobin", labs[0].Name)
	require.NotNil(t, labs[0].Value)
	assert.InDelta(t, 10.2, *labs[0].Value, 1e-9)
	assert.Equal(t, "Hemoglobin: 10.2 g/dL", labs[0].Raw)

	assert.Equal(t, "sodium", labs[1].Name)
}

func TestExtractLabs_MultipleMatchesPerLine(t *testing.T) {
	labs := ExtractLabs("Sodium 138 mmol/L  Potassium 4.2 mmol/L")
	require.Len(t, labs, 2)
	assert.Equal(t, "sodium", labs[0].Name)
	assert.Equal(t, "potassium", labs[1].Name)
}

func TestExtractLabs_DefaultUnits(t *testing.T) {
	labs := ExtractLabs("WBC: 6.8\nPlatelets: 220\nHbA1c: 5.4")
	require.Len(t, labs, 3)

	byName := map[string]LabObservation{}
	for _, l := range labs {
		byName[l.Name] = l
	}

	assert.Equal(t, "10^3/µL", byName["wbc"].Unit)
	assert.Equal(t, "10^3/µL", byName["platelets"].Unit)
	assert.Equal(t, "%", byName["hba1c"].Unit)
}

func TestExtractLabs_UnitFromSource(t *testing.T) {
	labs := ExtractLabs("WBC: 6.8 x10^3/µL")
	require.Len(t, labs, 1)
	assert.Equal(t, "x10^3/µL", labs[0].Unit)
}

func TestExtractLabs_AliasesAndSeparators(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		lab   string
		value float64
	}{
		{"hgb alias", "HGB = 14.5", "hemoglobin", 14.5},
		{"bun alias", "BUN: 18 mg/dL", "urea", 18},
		{"na alias", "Na - 141 mmol/L", "sodium", 141},
		{"k alias", "K: 4.8 mEq/L", "potassium", 4.8},
		{"a1c alias", "A1C 6.2 %", "hba1c", 6.2},
		{"blood sugar", "Blood sugar 110 mg/dL", "glucose", 110},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			labs := ExtractLabs(tt.line)
			require.NotEmpty(t, labs)

			found := false
			for _, l := range labs {
				if l.Name == tt.lab {
					found = true
					require.NotNil(t, l.Value)
					assert.InDelta(t, tt.value, *l.Value, 1e-9)
				}
			}
			assert.True(t, found, "expected %s in %v", tt.lab, labs)
		})
	}
}

func TestExtractLabs_ThousandsSeparator(t *testing.T) {
	labs := ExtractLabs("Platelets: 1,250 K/uL")
	require.Len(t, labs, 1)
	require.NotNil(t, labs[0].Value)
	assert.InDelta(t, 1250, *labs[0].Value, 1e-9)
}

func TestExtractLabs_UnparsableValueStillEmitted(t *testing.T) {
	// A value of only separators survives the pattern but not numeric parsing.
	labs := ExtractLabs("Glucose: ,, mg/dL")
	require.Len(t, labs, 1)
	assert.Equal(t, "glucose", labs[0].Name)
	assert.Nil(t, labs[0].Value)
	assert.Equal(t, "mg/dL", labs[0].Unit)
	assert.Equal(t, "Glucose: ,, mg/dL", labs[0].Raw)
}

func TestExtractLabs_HbA1cDoesNotShadowHemoglobin(t *testing.T) {
	labs := ExtractLabs("HbA1c: 6.1 %")
	require.Len(t, labs, 1)
	assert.Equal(t, "hba1c", labs[0].Name)
}

func TestExtractLabs_CRLFAndBlankLines(t *testing.T) {
	labs := ExtractLabs("\r\n  Hemoglobin: 12.5 g/dL \r\n\r\nGlucose: 90 mg/dL\r\n")
	require.Len(t, labs, 2)
	assert.Equal(t, "Hemoglobin: 12.5 g/dL", labs[0].Raw)
}
