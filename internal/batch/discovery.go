package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// reportExtensions are the file types accepted as lab reports.
var reportExtensions = map[string]bool{
	".txt": true,
	".pdf": true,
}

// discoverReportFiles finds all report files for the given paths.
func discoverReportFiles(args []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var reportFiles []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}

		if info.IsDir() {
			files, err := discoverInDirectory(arg, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			reportFiles = append(reportFiles, files...)
		} else if shouldIncludeFile(arg, includePatterns, excludePatterns) {
			reportFiles = append(reportFiles, arg)
		}
	}

	return reportFiles, nil
}

// discoverInDirectory discovers report files in a directory.
func discoverInDirectory(dir string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFn := func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			if !recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}

		if isReportFile(path) && shouldIncludeFile(path, includePatterns, excludePatterns) {
			files = append(files, path)
		}

		return nil
	}

	return files, filepath.Walk(dir, walkFn)
}

// isReportFile reports whether a path has a supported report extension.
func isReportFile(path string) bool {
	return reportExtensions[strings.ToLower(filepath.Ext(path))]
}

// shouldIncludeFile determines if a file should be included based on include/exclude patterns.
func shouldIncludeFile(path string, includePatterns, excludePatterns []string) bool {
	if matchesAnyPattern(path, excludePatterns) {
		return false
	}

	if len(includePatterns) == 0 {
		return true
	}

	return matchesAnyPattern(path, includePatterns)
}

// matchesAnyPattern checks if a file path matches any of the given patterns.
func matchesAnyPattern(path string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	base := filepath.Base(path)
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}
