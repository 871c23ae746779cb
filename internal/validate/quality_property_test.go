package validate

import (
	"testing"

	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genObservation() gopter.Gen {
	return gopter.CombineGens(
		gen.OneConstOf("hemoglobin", "glucose", "creatinine", "sodium",
			"potassium", "tsh", "unheard_of_lab"),
		gen.Float64Range(-100, 2000),
		gen.Bool(),
		gen.Float64Range(0, 1),
	).Map(func(vals []interface{}) extract.LabObservation {
		name, ok := vals[0].(string)
		if !ok {
			panic("expected string")
		}
		value, ok := vals[1].(float64)
		if !ok {
			panic("expected float64")
		}
		hasValue, ok := vals[2].(bool)
		if !ok {
			panic("expected bool")
		}
		conf, ok := vals[3].(float64)
		if !ok {
			panic("expected float64")
		}

		o := extract.LabObservation{Name: name, Raw: name, Confidence: conf}
		if hasValue {
			o.Value = &value
		}
		return o
	})
}

func genExtractionResult() gopter.Gen {
	return gopter.CombineGens(
		gen.SliceOf(genObservation()),
		gen.OneConstOf("", "Jane Doe"),
		gen.OneConstOf("", "2024-01-15", "not a date"),
	).Map(func(vals []interface{}) extract.ExtractionResult {
		labs, ok := vals[0].([]extract.LabObservation)
		if !ok {
			panic("expected observations")
		}
		name, ok := vals[1].(string)
		if !ok {
			panic("expected string")
		}
		date, ok := vals[2].(string)
		if !ok {
			panic("expected string")
		}

		return extract.ExtractionResult{
			Meta: extract.ReportMetadata{PatientName: name, Date: date},
			Labs: labs,
		}
	})
}

func TestExtractionQuality_ScoreBounds(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("score stays within [0,1]", prop.ForAll(
		func(data extract.ExtractionResult) bool {
			report := ExtractionQuality(data)
			return report.Score >= 0 && report.Score <= 1
		},
		genExtractionResult(),
	))

	properties.Property("counters are consistent", prop.ForAll(
		func(data extract.ExtractionResult) bool {
			report := ExtractionQuality(data)
			return report.LabCount == len(data.Labs) &&
				report.ValidLabCount <= report.LabCount &&
				report.HighConfidenceCount <= report.LabCount &&
				len(report.CriticalValues) <= report.LabCount
		},
		genExtractionResult(),
	))

	properties.TestingRun(t)
}
