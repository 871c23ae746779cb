package server

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/medext/internal/cache"
	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/pdf"
	"github.com/MeKo-Tech/medext/internal/refdata"
	"github.com/MeKo-Tech/medext/internal/validate"
	"github.com/MeKo-Tech/medext/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// labsHandler returns the reference range table.
func (s *Server) labsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	names := refdata.KnownLabs()
	labs := make([]LabInfo, 0, len(names))
	for _, name := range names {
		rr, ok := refdata.ReferenceRangeFor(name, nil, "")
		if !ok {
			continue
		}
		labs = append(labs, LabInfo{Name: name, Min: rr.Min, Max: rr.Max, Unit: rr.Unit})
	}

	response := LabsResponse{Labs: labs, Count: len(labs)}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode labs response", "error", err)
	}
}

// extractHandler runs the extraction pipeline on a submitted report.
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text, reportType, ok := s.readReportText(w, r)
	if !ok {
		return
	}

	result := s.runExtraction(r, text, reportType)

	labs := make([]LabValidation, 0, len(result.Labs))
	for _, lab := range result.Labs {
		labs = append(labs, LabValidation{
			Lab:        lab,
			Validation: validate.LabValue(lab.Name, lab.Value, lab.Unit, result.Meta.Age, result.Meta.Gender),
		})
	}

	response := ExtractResponse{Success: true, Result: &result, Labs: labs}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode extract response", "error", err)
	}
}

// qualityHandler runs extraction plus metadata and quality validation.
func (s *Server) qualityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	text, reportType, ok := s.readReportText(w, r)
	if !ok {
		return
	}

	result := s.runExtraction(r, text, reportType)
	metaResult := validate.Metadata(result.Meta)
	quality := validate.ExtractionQuality(result)

	labsExtracted.WithLabelValues(reportType).Observe(float64(quality.LabCount))
	qualityScore.Observe(quality.Score)
	criticalValuesTotal.Add(float64(len(quality.CriticalValues)))

	response := QualityResponse{
		Success:    true,
		Extraction: &result,
		Metadata:   &metaResult,
		Quality:    &quality,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode quality response", "error", err)
	}
}

// runExtraction runs the orchestrator, consulting the result cache first.
func (s *Server) runExtraction(r *http.Request, text, reportType string) extract.ExtractionResult {
	opts := extract.Options{UseLLM: s.useLLM && r.FormValue("llm") != "0"}

	var key string
	if s.results != nil {
		key = cache.Key(fmt.Sprintf("extract:llm=%t", opts.UseLLM), text)
		if cached, found := s.results.Get(key); found {
			if result, valid := cached.(extract.ExtractionResult); valid {
				cacheHits.Inc()
				return result
			}
		}
		cacheMisses.Inc()
	}

	start := time.Now()
	result := s.extractor.ExtractStructuredFromOCR(r.Context(), text, opts)
	extractionDuration.WithLabelValues(reportType).Observe(time.Since(start).Seconds())
	extractionRequestsTotal.WithLabelValues(reportType, "success").Inc()

	if s.results != nil {
		s.results.Set(key, result)
	}
	return result
}

// readReportText obtains the report text from the request: a multipart
// upload (field "report", .txt or .pdf), a form value "text", or the raw
// request body. Returns ok=false after writing an error response.
func (s *Server) readReportText(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		return s.readUploadedReport(w, r)
	}

	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
			return "", "", false
		}
		text := r.FormValue("text")
		if strings.TrimSpace(text) == "" {
			s.writeErrorResponse(w, "No report text provided", http.StatusBadRequest)
			return "", "", false
		}
		return text, "text", true
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read request body", http.StatusBadRequest)
		return "", "", false
	}
	if strings.TrimSpace(string(body)) == "" {
		s.writeErrorResponse(w, "No report text provided", http.StatusBadRequest)
		return "", "", false
	}
	return string(body), "text", true
}

// readUploadedReport handles multipart uploads of .txt and .pdf reports.
func (s *Server) readUploadedReport(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return "", "", false
	}

	file, header, err := r.FormFile("report")
	if err != nil {
		s.writeErrorResponse(w, "No report file provided", http.StatusBadRequest)
		return "", "", false
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return "", "", false
	}
	uploadSizeBytes.Observe(float64(header.Size))

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".pdf":
		text, ok := s.extractPDFText(w, file, r.FormValue("pages"))
		return text, "pdf", ok
	case ".txt", "":
		data, err := io.ReadAll(file)
		if err != nil {
			s.writeErrorResponse(w, "Failed to read report file", http.StatusInternalServerError)
			return "", "", false
		}
		if strings.TrimSpace(string(data)) == "" {
			s.writeErrorResponse(w, "Report file is empty", http.StatusBadRequest)
			return "", "", false
		}
		return string(data), "text", true
	default:
		s.writeErrorResponse(w, fmt.Sprintf("Unsupported file type: %s", ext), http.StatusBadRequest)
		return "", "", false
	}
}

// extractPDFText writes the upload to a temp file and extracts its
// embedded text layer.
func (s *Server) extractPDFText(w http.ResponseWriter, file io.Reader, pageRange string) (string, bool) {
	tmp, err := os.CreateTemp("", "medext-upload-*.pdf")
	if err != nil {
		s.writeErrorResponse(w, "Failed to store uploaded PDF", http.StatusInternalServerError)
		return "", false
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, file); err != nil {
		s.writeErrorResponse(w, "Failed to store uploaded PDF", http.StatusInternalServerError)
		return "", false
	}

	info, err := pdf.Preflight(tmp.Name())
	if err != nil {
		s.writeErrorResponse(w, "Invalid PDF file", http.StatusBadRequest)
		return "", false
	}
	if info.Encrypted {
		s.writeErrorResponse(w, "Encrypted PDFs are not supported", http.StatusBadRequest)
		return "", false
	}

	doc, err := s.textExtractor.ExtractText(tmp.Name(), pageRange)
	if err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("PDF text extraction failed: %v", err), http.StatusBadRequest)
		return "", false
	}
	if strings.TrimSpace(doc.Text) == "" {
		s.writeErrorResponse(w, "PDF contains no embedded text; run OCR first", http.StatusUnprocessableEntity)
		return "", false
	}

	return doc.Text, true
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ExtractResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode error response", "error", err)
	}
}
