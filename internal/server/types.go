package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/medext/internal/cache"
	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/pdf"
	"github.com/MeKo-Tech/medext/internal/validate"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	extractor     *extract.Extractor
	textExtractor *pdf.TextExtractor
	results       *cache.ResultCache
	rateLimiter   *RateLimiter
	corsOrigin    string
	maxUploadMB   int64
	useLLM        bool
}

// Config holds server configuration.
type Config struct {
	Host                string
	Port                int
	CORSOrigin          string
	MaxUploadMB         int64
	RateLimitPerMinute  int
	CacheEnabled        bool
	CacheTTL            time.Duration
	UseLLM              bool
	LLM                 extract.StructuredExtractor
	PDFQualityThreshold float64
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// LabInfo describes one entry of the reference range table.
type LabInfo struct {
	Name string  `json:"name"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Unit string  `json:"unit"`
}

// LabsResponse lists the known lab reference ranges.
type LabsResponse struct {
	Labs  []LabInfo `json:"labs"`
	Count int       `json:"count"`
}

// LabValidation pairs an extracted observation with its validation result.
type LabValidation struct {
	Lab        extract.LabObservation `json:"lab"`
	Validation validate.LabResult     `json:"validation"`
}

// ExtractResponse is returned by the extract endpoint.
type ExtractResponse struct {
	Success bool                      `json:"success"`
	Result  *extract.ExtractionResult `json:"result,omitempty"`
	Labs    []LabValidation           `json:"labs,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

// QualityResponse is returned by the quality endpoint.
type QualityResponse struct {
	Success    bool                      `json:"success"`
	Extraction *extract.ExtractionResult `json:"extraction,omitempty"`
	Metadata   *validate.MetadataResult  `json:"metadata,omitempty"`
	Quality    *validate.QualityReport   `json:"quality,omitempty"`
	Error      string                    `json:"error,omitempty"`
}

// NewServer creates a new extraction server instance.
func NewServer(config Config) *Server {
	s := &Server{
		extractor:     extract.NewExtractor(config.LLM),
		textExtractor: pdf.NewTextExtractor(config.PDFQualityThreshold),
		corsOrigin:    config.CORSOrigin,
		maxUploadMB:   config.MaxUploadMB,
		useLLM:        config.UseLLM && config.LLM != nil,
	}

	if config.CacheEnabled {
		s.results = cache.New(config.CacheTTL)
	}

	if config.RateLimitPerMinute > 0 {
		s.rateLimiter = NewRateLimiter(config.RateLimitPerMinute, 0, 0)
	}

	return s
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/labs", s.corsMiddleware(s.labsHandler))
	mux.HandleFunc("/extract", s.corsMiddleware(s.rateLimitMiddleware(s.extractHandler)))
	mux.HandleFunc("/quality", s.corsMiddleware(s.rateLimitMiddleware(s.qualityHandler)))
	mux.Handle("/metrics", promhttp.Handler())
}
