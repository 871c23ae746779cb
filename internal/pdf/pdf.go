package pdf

// Package pdf handles ingestion of PDF lab reports: preflight checks
// (page count, encryption) via pdfcpu and embedded text extraction via
// dslipak/pdf. Scanned-image PDFs without an embedded text layer are
// reported as such; rendering and OCR happen upstream of this service.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DocumentInfo holds preflight information about a PDF file.
type DocumentInfo struct {
	PageCount int  `json:"pageCount"`
	Encrypted bool `json:"encrypted"`
}

// Preflight inspects a PDF file before extraction. Encrypted documents are
// flagged rather than rejected so callers can return a useful error.
func Preflight(filename string) (*DocumentInfo, error) {
	count, err := api.PageCountFile(filename)
	if err != nil {
		if isEncryptionError(err) {
			return &DocumentInfo{Encrypted: true}, nil
		}
		return nil, fmt.Errorf("failed to inspect PDF %q: %w", filename, err)
	}
	return &DocumentInfo{PageCount: count}, nil
}

// isEncryptionError reports whether a pdfcpu error indicates a
// password-protected document.
func isEncryptionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "encrypted") ||
		strings.Contains(msg, "password") ||
		strings.Contains(msg, "decrypt")
}

// parsePageRange parses a page range string like "1-5" or "1,3,5".
// An empty string means all pages.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}

	var pages []int
	for _, part := range strings.Split(pageRange, ",") {
		tokenPages, err := parseRangeToken(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		pages = append(pages, tokenPages...)
	}
	return pages, nil
}

// parseRangeToken parses either a single page token (e.g., "3") or a range token (e.g., "1-5").
func parseRangeToken(part string) ([]int, error) {
	if strings.Contains(part, "-") {
		rangeParts := strings.Split(part, "-")
		if len(rangeParts) != 2 {
			return nil, fmt.Errorf("invalid range format: %s", part)
		}
		start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid start page: %s", rangeParts[0])
		}
		end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid end page: %s", rangeParts[1])
		}
		if start > end {
			return nil, fmt.Errorf("start page %d greater than end page %d", start, end)
		}
		out := make([]int, 0, end-start+1)
		for i := start; i <= end; i++ {
			out = append(out, i)
		}
		return out, nil
	}
	page, err := strconv.Atoi(part)
	if err != nil {
		return nil, fmt.Errorf("invalid page number: %s", part)
	}
	return []int{page}, nil
}
