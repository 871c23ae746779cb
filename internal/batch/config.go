package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/MeKo-Tech/medext/internal/extract"
)

// Config holds all configuration for batch report processing.
type Config struct {
	// Extraction settings
	UseLLM              bool
	LLM                 extract.StructuredExtractor
	PDFQualityThreshold float64
	PageRange           string

	// Output settings
	Format     string
	OutputFile string

	// Parallel processing settings
	Workers int

	// File discovery settings
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string

	// Error handling
	ContinueOnError bool

	// Progress settings
	Quiet     bool
	ShowStats bool
}

// Result holds the result of batch processing.
type Result struct {
	Reports     []ReportResult
	Duration    time.Duration
	WorkerCount int
}

// FormatResults formats the batch processing results in the specified format.
func (r *Result) FormatResults(format string) (string, error) {
	return formatBatchResults(r.Reports, format)
}

// SaveResults saves the formatted results to a file or stdout.
func (r *Result) SaveResults(format, outputFile string, quiet bool) error {
	output, err := r.FormatResults(format)
	if err != nil {
		return fmt.Errorf("failed to format results: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(output), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if !quiet {
			_, _ = fmt.Fprintf(os.Stdout, "Results written to %s\n", outputFile)
		}
	} else {
		_, _ = fmt.Fprint(os.Stdout, output)
	}

	return nil
}

// Failed counts reports that could not be processed.
func (r *Result) Failed() int {
	failed := 0
	for _, report := range r.Reports {
		if report.Error != "" {
			failed++
		}
	}
	return failed
}

// CriticalCount counts critical lab values across all processed reports.
func (r *Result) CriticalCount() int {
	count := 0
	for _, report := range r.Reports {
		if report.Quality != nil {
			count += len(report.Quality.CriticalValues)
		}
	}
	return count
}

// PrintStats prints processing statistics.
func (r *Result) PrintStats(quiet bool) {
	if quiet {
		return
	}

	processed := len(r.Reports) - r.Failed()
	_, _ = fmt.Fprintf(os.Stdout, "\nProcessing Statistics:\n")
	_, _ = fmt.Fprintf(os.Stdout, "  Total reports: %d\n", len(r.Reports))
	_, _ = fmt.Fprintf(os.Stdout, "  Processed: %d\n", processed)
	_, _ = fmt.Fprintf(os.Stdout, "  Failed: %d\n", r.Failed())
	_, _ = fmt.Fprintf(os.Stdout, "  Critical values: %d\n", r.CriticalCount())
	_, _ = fmt.Fprintf(os.Stdout, "  Workers: %d\n", r.WorkerCount)
	_, _ = fmt.Fprintf(os.Stdout, "  Duration: %v\n", r.Duration.Round(time.Millisecond))
	if processed > 0 {
		avg := r.Duration / time.Duration(processed)
		_, _ = fmt.Fprintf(os.Stdout, "  Avg per report: %v\n", avg.Round(time.Millisecond))
	}
}
