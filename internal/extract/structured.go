package extract

import (
	"context"
	"log/slog"
)

// llmInputLimit caps the text handed to the LLM collaborator.
const llmInputLimit = 15000

// LLMExtraction is the parsed payload an LLM collaborator returns. Meta
// fields are pointers so an omitted (or null) field never overrides a
// regex-extracted one during the merge.
type LLMExtraction struct {
	Meta        LLMMeta          `json:"meta"`
	Labs        []LabObservation `json:"labs"`
	Diagnoses   []string         `json:"diagnoses"`
	Medications []string         `json:"medications"`
}

// LLMMeta mirrors ReportMetadata with per-field presence.
type LLMMeta struct {
	Date        *string `json:"date"`
	PatientName *string `json:"patientName"`
	PatientID   *string `json:"patientId"`
	Age         *int    `json:"age"`
	Gender      *string `json:"gender"`
}

// StructuredExtractor is the collaborator contract for the optional
// LLM-assisted pass. Implementations return their parsed extraction or an
// error; a nil result with nil error means "no enhancement available".
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, text string) (*LLMExtraction, error)
}

// Options controls a single extraction run.
type Options struct {
	UseLLM bool
}

// Extractor combines the regex extractors with an optional LLM pass.
// The zero value (no LLM collaborator) runs the regex baseline only.
type Extractor struct {
	llm StructuredExtractor
}

// NewExtractor returns an extractor using the given LLM collaborator for the
// optional enhancement pass. A nil collaborator disables the pass.
func NewExtractor(llm StructuredExtractor) *Extractor {
	return &Extractor{llm: llm}
}

// ExtractStructuredFromOCR computes the regex baseline and, when requested
// and available, merges in the LLM pass. Any LLM failure is logged and
// swallowed: the caller always receives a usable result, worst case the
// baseline (errors never cross this contract).
//
// Merge policy when the LLM result is usable: meta is a shallow merge with
// LLM fields winning when present; labs replace the baseline wholesale only
// when non-empty; diagnoses/medications replace only when the LLM provided
// arrays.
func (e *Extractor) ExtractStructuredFromOCR(ctx context.Context, text string, opts Options) ExtractionResult {
	base := ExtractionResult{
		Meta:        ExtractMeta(text),
		Labs:        ExtractLabs(text),
		Diagnoses:   []string{},
		Medications: []string{},
	}

	if !opts.UseLLM || e.llm == nil {
		return base
	}

	llm, err := e.llm.ExtractStructured(ctx, truncate(text, llmInputLimit))
	if err != nil {
		slog.Warn("LLM extraction failed, using regex baseline", "error", err)
		return base
	}
	if llm == nil {
		return base
	}

	return mergeLLM(base, llm)
}

func mergeLLM(base ExtractionResult, llm *LLMExtraction) ExtractionResult {
	out := base

	if llm.Meta.Date != nil {
		out.Meta.Date = *llm.Meta.Date
	}
	if llm.Meta.PatientName != nil {
		out.Meta.PatientName = *llm.Meta.PatientName
	}
	if llm.Meta.PatientID != nil {
		out.Meta.PatientID = *llm.Meta.PatientID
	}
	if llm.Meta.Age != nil {
		out.Meta.Age = llm.Meta.Age
	}
	if llm.Meta.Gender != nil {
		out.Meta.Gender = *llm.Meta.Gender
	}

	if len(llm.Labs) > 0 {
		out.Labs = llm.Labs
	}
	if llm.Diagnoses != nil {
		out.Diagnoses = llm.Diagnoses
	}
	if llm.Medications != nil {
		out.Medications = llm.Medications
	}

	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
