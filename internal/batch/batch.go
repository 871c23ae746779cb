package batch

// Package batch processes directories of lab report files through the
// extraction and validation pipeline with a bounded worker pool.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ProcessBatch processes a batch of report files with the given configuration.
func ProcessBatch(ctx context.Context, paths []string, config *Config) (*Result, error) {
	files, err := discoverReportFiles(paths, config.Recursive, config.IncludePatterns, config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to discover report files: %w", err)
	}

	if len(files) == 0 {
		return nil, errors.New("no report files found")
	}

	p := newProcessor(config)

	startTime := time.Now()
	reports, err := processReports(ctx, p, files, config.Workers, config.ContinueOnError)
	duration := time.Since(startTime)

	if err != nil {
		return nil, fmt.Errorf("batch processing failed: %w", err)
	}

	return &Result{
		Reports:     reports,
		Duration:    duration,
		WorkerCount: config.Workers,
	}, nil
}
