package extract

// Package extract turns raw OCR text from medical reports into structured
// data: lab observations, report metadata, and the combined extraction
// result exchanged with callers.

// LabObservation is a single extracted clinical measurement with provenance
// and confidence. Value is nil when no numeric token was parseable; the
// observation is still emitted because name/raw/unit remain informative.
type LabObservation struct {
	Name       string   `json:"name"`
	Value      *float64 `json:"value"`
	Unit       string   `json:"unit"`
	Raw        string   `json:"raw"`
	Confidence float64  `json:"confidence"`
}

// ReportMetadata holds document-level fields recovered from the report
// header. The regex path fills Date, PatientName and PatientID only; Age and
// Gender arrive from the LLM pass or manual entry.
type ReportMetadata struct {
	Date        string `json:"date,omitempty"`
	PatientName string `json:"patientName,omitempty"`
	PatientID   string `json:"patientId,omitempty"`
	Age         *int   `json:"age,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// ExtractionResult is the unit exchanged with callers: metadata, lab
// observations, and the diagnosis/medication lists only the LLM pass can
// populate.
type ExtractionResult struct {
	Meta        ReportMetadata   `json:"meta"`
	Labs        []LabObservation `json:"labs"`
	Diagnoses   []string         `json:"diagnoses"`
	Medications []string         `json:"medications"`
}

// regexConfidence is the fixed confidence assigned to every regex-derived
// observation. The field exists so the LLM path can report differently.
const regexConfidence = 0.7
