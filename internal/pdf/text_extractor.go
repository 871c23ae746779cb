package pdf

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dslipak/pdf"
)

// PageText is the embedded text extracted from a single PDF page.
type PageText struct {
	PageNumber int         `json:"pageNumber"`
	Text       string      `json:"text"`
	WordCount  int         `json:"wordCount"`
	Quality    TextQuality `json:"quality"`
}

// TextQuality assesses whether a page's embedded text layer is usable for
// downstream lab extraction.
type TextQuality struct {
	Score        float64 `json:"score"`
	HasText      bool    `json:"hasText"`
	IsSearchable bool    `json:"isSearchable"`
	TextDensity  float64 `json:"textDensity"` // characters per 1000 square points
}

// DocumentText is the combined extraction result for a PDF document.
type DocumentText struct {
	Pages []PageText `json:"pages"`
	Text  string     `json:"text"` // all pages joined in order
}

// letter-size page area in points, used when the media box is unavailable
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// TextExtractor extracts embedded text from PDF lab reports.
type TextExtractor struct {
	qualityThreshold float64
}

// NewTextExtractor creates a text extractor. A non-positive threshold falls
// back to 0.7, below which a page is treated as needing OCR upstream.
func NewTextExtractor(qualityThreshold float64) *TextExtractor {
	if qualityThreshold <= 0 {
		qualityThreshold = 0.7
	}
	return &TextExtractor{qualityThreshold: qualityThreshold}
}

// ExtractText extracts embedded text from the given pages of a PDF file.
// An empty pageRange means all pages. Pages outside the document are
// silently skipped.
func (e *TextExtractor) ExtractText(filename, pageRange string) (*DocumentText, error) {
	pageNumbers, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("invalid page range %q: %w", pageRange, err)
	}

	reader, err := pdf.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %q: %w", filename, err)
	}

	totalPages := reader.NumPage()
	if len(pageNumbers) == 0 {
		for i := 1; i <= totalPages; i++ {
			pageNumbers = append(pageNumbers, i)
		}
	}

	doc := &DocumentText{}
	for _, pageNum := range pageNumbers {
		if pageNum < 1 || pageNum > totalPages {
			continue
		}
		pageText, err := e.extractPage(reader, pageNum)
		if err != nil {
			continue
		}
		doc.Pages = append(doc.Pages, *pageText)
	}
	doc.Text = e.combineText(doc.Pages)

	return doc, nil
}

// combineText joins the text of pages whose quality meets the threshold.
// Below-threshold pages stay listed in Pages so callers can inspect their
// scores, but their garbled content is kept out of the extraction input.
func (e *TextExtractor) combineText(pages []PageText) string {
	var combined strings.Builder
	for i := range pages {
		page := &pages[i]
		if !e.IsQualityAcceptable(page) {
			slog.Warn("Page text below quality threshold, skipping",
				"page", page.PageNumber,
				"score", page.Quality.Score,
				"threshold", e.qualityThreshold)
			continue
		}
		combined.WriteString(page.Text)
		if !strings.HasSuffix(page.Text, "\n") {
			combined.WriteString("\n")
		}
	}
	return combined.String()
}

// extractPage extracts text from a single page, preferring row-ordered
// extraction so lab lines survive as lines.
func (e *TextExtractor) extractPage(reader *pdf.Reader, pageNum int) (*PageText, error) {
	page := reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d is null", pageNum)
	}

	text := e.pageText(page)

	return &PageText{
		PageNumber: pageNum,
		Text:       text,
		WordCount:  len(strings.Fields(text)),
		Quality:    assessTextQuality(text),
	}, nil
}

func (e *TextExtractor) pageText(page pdf.Page) string {
	var sb strings.Builder

	rows, err := page.GetTextByRow()
	if err == nil && len(rows) > 0 {
		for _, row := range rows {
			for i, content := range row.Content {
				if i > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(content.S)
			}
			sb.WriteString("\n")
		}
		return sb.String()
	}

	fonts := make(map[string]*pdf.Font)
	plain, _ := page.GetPlainText(fonts)
	return plain
}

// assessTextQuality scores the embedded text layer of a page.
func assessTextQuality(text string) TextQuality {
	hasText := len(strings.TrimSpace(text)) > 0
	wordCount := len(strings.Fields(text))

	pageArea := defaultPageWidth * defaultPageHeight
	textDensity := float64(len(text)) / pageArea * 1000

	score := 0.0
	if hasText {
		score += 0.4
		if textDensity > 0.1 {
			score += 0.3
		}
		if wordCount > 5 {
			score += 0.2
		}
		if hasReasonableCharacterDistribution(text) {
			score += 0.1
		}
	}
	if score > 1.0 {
		score = 1.0
	}

	return TextQuality{
		Score:        score,
		HasText:      hasText,
		IsSearchable: hasText && wordCount > 0,
		TextDensity:  textDensity,
	}
}

// hasReasonableCharacterDistribution checks that at least half of the text
// is alphanumeric. Garbled text layers from bad OCR embedding fail this.
func hasReasonableCharacterDistribution(text string) bool {
	if len(text) == 0 {
		return false
	}
	alphanumeric := 0
	for _, r := range text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			alphanumeric++
		}
	}
	return float64(alphanumeric)/float64(len(text)) >= 0.5
}

// IsQualityAcceptable reports whether a page's text layer meets the
// extractor's threshold.
func (e *TextExtractor) IsQualityAcceptable(page *PageText) bool {
	return page != nil && page.Quality.Score >= e.qualityThreshold
}

// QualityThreshold returns the current quality threshold.
func (e *TextExtractor) QualityThreshold() float64 {
	return e.qualityThreshold
}
