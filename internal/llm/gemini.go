package llm

// Package llm implements the optional LLM-assisted structured extraction
// pass using Google's Gemini API. It is a collaborator behind the
// extract.StructuredExtractor contract: callers treat any failure here as
// "no enhancement available" and fall back to the regex baseline.

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/MeKo-Tech/medext/internal/extract"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 30 * time.Second

	// defaultLabConfidence is assigned when the model omits a per-lab
	// confidence, keeping LLM results comparable to the regex baseline.
	defaultLabConfidence = 0.7
)

// systemInstruction pins the model to the exact JSON contract the merge
// logic expects. Temperature is kept low: this is extraction, not prose.
const systemInstruction = `You are a medical AI assistant that extracts structured clinical data from OCR text.
Return ONLY valid JSON with this exact structure:
{
  "meta": {
    "patientName": "string or null",
    "patientId": "string or null",
    "date": "string or null",
    "age": "number or null",
    "gender": "string or null"
  },
  "labs": [
    {
      "name": "string",
      "value": "number or null",
      "unit": "string",
      "confidence": "number between 0-1"
    }
  ],
  "diagnoses": ["string array"],
  "medications": ["string array"]
}

Extract all lab values you can find. Use null for missing values. Be precise with units and values.`

// Config holds Gemini client settings.
type Config struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	Timeout         time.Duration
}

// DefaultConfig returns sensible defaults for the extraction pass.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:          apiKey,
		Model:           defaultModel,
		Temperature:     0.1,
		MaxOutputTokens: 2048,
		Timeout:         defaultTimeout,
	}
}

// GeminiExtractor calls the Gemini API to extract structured clinical data.
type GeminiExtractor struct {
	client *genai.Client
	config Config
}

// NewGeminiExtractor creates a Gemini-backed structured extractor.
func NewGeminiExtractor(ctx context.Context, config Config) (*GeminiExtractor, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if config.Model == "" {
		config.Model = defaultModel
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiExtractor{client: client, config: config}, nil
}

// ExtractStructured sends the OCR text to Gemini and parses the strict-JSON
// response. A nil result with nil error means the model returned nothing
// usable.
func (g *GeminiExtractor) ExtractStructured(ctx context.Context, text string) (*extract.LLMExtraction, error) {
	ctx, cancel := g.requestContext(ctx)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr(g.config.Temperature),
		MaxOutputTokens:   g.config.MaxOutputTokens,
		ResponseMIMEType:  "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, genai.Text(text), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate content failed: %w", err)
	}

	return parseExtractionResponse(resp.Text())
}

// requestContext bounds a Gemini call with the configured timeout so a hung
// request cannot stall a CLI run or a handler.
func (g *GeminiExtractor) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.config.Timeout)
}

// parseExtractionResponse decodes the model output into an LLMExtraction.
// Models occasionally wrap JSON in markdown fences despite the MIME type
// hint, so fences are stripped before decoding.
func parseExtractionResponse(raw string) (*extract.LLMExtraction, error) {
	cleaned := stripCodeFences(strings.TrimSpace(raw))
	if cleaned == "" {
		return nil, nil
	}

	var result extract.LLMExtraction
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("gemini returned malformed JSON: %w", err)
	}

	for i := range result.Labs {
		if result.Labs[i].Confidence == 0 {
			result.Labs[i].Confidence = defaultLabConfidence
		}
	}

	if isEmpty(&result) {
		return nil, nil
	}
	return &result, nil
}

func isEmpty(r *extract.LLMExtraction) bool {
	m := r.Meta
	hasMeta := m.Date != nil || m.PatientName != nil || m.PatientID != nil ||
		m.Age != nil || m.Gender != nil
	return !hasMeta && r.Labs == nil && r.Diagnoses == nil && r.Medications == nil
}

func stripCodeFences(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
