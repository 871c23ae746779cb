package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/pdf"
	"github.com/MeKo-Tech/medext/internal/validate"
)

// ReportResult is the processing outcome for a single report file.
type ReportResult struct {
	Path       string                    `json:"path" yaml:"path"`
	Extraction *extract.ExtractionResult `json:"extraction,omitempty" yaml:"extraction,omitempty"`
	Metadata   *validate.MetadataResult  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Quality    *validate.QualityReport   `json:"quality,omitempty" yaml:"quality,omitempty"`
	Error      string                    `json:"error,omitempty" yaml:"error,omitempty"`
}

// processor runs the extraction pipeline over report files.
type processor struct {
	extractor     *extract.Extractor
	textExtractor *pdf.TextExtractor
	opts          extract.Options
	pageRange     string
}

func newProcessor(config *Config) *processor {
	return &processor{
		extractor:     extract.NewExtractor(config.LLM),
		textExtractor: pdf.NewTextExtractor(config.PDFQualityThreshold),
		opts:          extract.Options{UseLLM: config.UseLLM && config.LLM != nil},
		pageRange:     config.PageRange,
	}
}

// processReports runs the pipeline over the files with a bounded worker
// pool. Result order matches the input order.
func processReports(ctx context.Context, p *processor, files []string, workers int,
	continueOnError bool,
) ([]ReportResult, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	results := make([]ReportResult, len(files))
	for i, path := range files {
		results[i].Path = path
	}
	jobs := make(chan int)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = p.processReport(ctx, files[i])
				if results[i].Error != "" && !continueOnError {
					cancel()
					return
				}
			}
		}()
	}

feed:
	for i := range files {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if !continueOnError {
		for _, r := range results {
			if r.Error != "" {
				return results, fmt.Errorf("processing %s failed: %s", r.Path, r.Error)
			}
		}
	}

	return results, nil
}

// processReport runs extraction and validation for one report file.
func (p *processor) processReport(ctx context.Context, path string) ReportResult {
	result := ReportResult{Path: path}

	text, err := p.readReport(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	extraction := p.extractor.ExtractStructuredFromOCR(ctx, text, p.opts)
	metadata := validate.Metadata(extraction.Meta)
	quality := validate.ExtractionQuality(extraction)

	result.Extraction = &extraction
	result.Metadata = &metadata
	result.Quality = &quality
	return result
}

// readReport reads the text content of a report file.
func (p *processor) readReport(path string) (string, error) {
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

	doc, err := p.textExtractor.ExtractText(path, p.pageRange)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(doc.Text) == "" {
		return "", fmt.Errorf("%s contains no embedded text", path)
	}
	return doc.Text, nil
}
