package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MeKo-Tech/medext/internal/config"
	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/llm"
	"github.com/MeKo-Tech/medext/internal/pdf"
)

// buildLLM creates the Gemini extractor when the LLM pass is enabled.
// Returns nil when disabled so callers can pass it straight to the
// extraction orchestrator.
func buildLLM(ctx context.Context, cfg *config.Config, useLLM bool) (extract.StructuredExtractor, error) {
	if !useLLM {
		return nil, nil //nolint:nilnil // nil extractor means the LLM pass is disabled
	}

	gemini, err := llm.NewGeminiExtractor(ctx, llm.Config{
		APIKey:          cfg.Gemini.APIKey,
		Model:           cfg.Gemini.Model,
		Temperature:     0.1,
		MaxOutputTokens: 2048,
		Timeout:         cfg.GeminiTimeout(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini extractor: %w", err)
	}
	return gemini, nil
}

// readReportFile reads the text content of a .txt or .pdf report file.
func readReportFile(path, pageRange string, qualityThreshold float64) (string, error) {
	if strings.ToLower(filepath.Ext(path)) != ".pdf" {
		data, err := os.ReadFile(path) //nolint:gosec // G304: reading user-provided report paths is expected
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return string(data), nil
	}

	info, err := pdf.Preflight(path)
	if err != nil {
		return "", err
	}
	if info.Encrypted {
		return "", fmt.Errorf("%s is encrypted", path)
	}

	doc, err := pdf.NewTextExtractor(qualityThreshold).ExtractText(path, pageRange)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return "", fmt.Errorf("%s contains no embedded text; run OCR first", path)
	}
	return doc.Text, nil
}

// writeOutput writes formatted output to a file or stdout.
func writeOutput(output, outputFile string, quiet bool) error {
	if outputFile == "" {
		_, _ = fmt.Fprint(os.Stdout, output)
		return nil
	}

	if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
	}
	return nil
}
