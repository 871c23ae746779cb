package validate

import (
	"testing"

	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/stretchr/testify/assert"
)

func TestMetadata_CleanScoresFull(t *testing.T) {
	res := Metadata(extract.ReportMetadata{
		Date:        "2024-01-15",
		PatientName: "Jane Doe",
	})

	assert.True(t, res.IsValid)
	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Warnings)
	assert.InDelta(t, 1.0, res.Score, 1e-9)
}

func TestMetadata_NoIdentification(t *testing.T) {
	res := Metadata(extract.ReportMetadata{Date: "01/15/2024"})

	assert.False(t, res.IsValid)
	assert.Contains(t, res.Issues, "No patient identification found")
	assert.InDelta(t, 0.3, res.Score, 1e-9)
}

func TestMetadata_PatientIDAloneSuffices(t *testing.T) {
	res := Metadata(extract.ReportMetadata{PatientID: "MRN-1", Date: "01/15/2024"})
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Issues)
}

func TestMetadata_DateWarnings(t *testing.T) {
	res := Metadata(extract.ReportMetadata{PatientName: "Jane Doe"})
	assert.Contains(t, res.Warnings, "No report date found")
	assert.InDelta(t, 0.7, res.Score, 1e-9)

	res = Metadata(extract.ReportMetadata{PatientName: "Jane Doe", Date: "January 15th"})
	assert.Contains(t, res.Warnings, "Date format may be invalid")
	assert.InDelta(t, 0.7, res.Score, 1e-9)
}

func TestMetadata_AcceptedDateShapes(t *testing.T) {
	for _, date := range []string{"1/5/24", "01/15/2024", "15-01-2024", "2024-01-15"} {
		res := Metadata(extract.ReportMetadata{PatientName: "Jane Doe", Date: date})
		assert.Empty(t, res.Warnings, "date %q should be accepted", date)
	}
}

// Age out of range is an issue while an unrecognized gender is only a
// warning. The asymmetry is deliberate legacy behavior; this test pins it.
func TestMetadata_AgeGenderAsymmetry(t *testing.T) {
	res := Metadata(extract.ReportMetadata{
		PatientName: "Jane Doe",
		Date:        "2024-01-15",
		Age:         intPtr(200),
	})
	assert.False(t, res.IsValid)
	assert.Contains(t, res.Issues, "Invalid age value")
	assert.InDelta(t, 0.3, res.Score, 1e-9)

	res = Metadata(extract.ReportMetadata{
		PatientName: "Jane Doe",
		Date:        "2024-01-15",
		Gender:      "unknown",
	})
	assert.True(t, res.IsValid)
	assert.Contains(t, res.Warnings, "Gender value may be invalid")
	assert.InDelta(t, 0.7, res.Score, 1e-9)
}

func TestMetadata_GenderVariantsAccepted(t *testing.T) {
	for _, g := range []string{"male", "female", "m", "f", "M", "F", "Female"} {
		res := Metadata(extract.ReportMetadata{PatientName: "Jane Doe", Date: "2024-01-15", Gender: g})
		assert.Empty(t, res.Warnings, "gender %q should be accepted", g)
	}
}

func TestMetadata_AgeBoundaries(t *testing.T) {
	for _, age := range []int{0, 150} {
		res := Metadata(extract.ReportMetadata{PatientName: "Jane Doe", Date: "2024-01-15", Age: intPtr(age)})
		assert.Empty(t, res.Issues, "age %d should be accepted", age)
	}
	for _, age := range []int{-1, 151} {
		res := Metadata(extract.ReportMetadata{PatientName: "Jane Doe", Date: "2024-01-15", Age: intPtr(age)})
		assert.Contains(t, res.Issues, "Invalid age value", "age %d should be rejected", age)
	}
}
