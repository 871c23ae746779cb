package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/medext/internal/extract"
	"github.com/MeKo-Tech/medext/internal/validate"
)

// fileExtraction is the per-file output of the extract command.
type fileExtraction struct {
	Path       string                   `json:"path" yaml:"path"`
	Extraction extract.ExtractionResult `json:"extraction" yaml:"extraction"`
	Labs       []labValidation          `json:"labs" yaml:"labs"`
}

type labValidation struct {
	Lab        extract.LabObservation `json:"lab" yaml:"lab"`
	Validation validate.LabResult     `json:"validation" yaml:"validation"`
}

// extractCmd represents the extract command.
var extractCmd = &cobra.Command{
	Use:   "extract [files...]",
	Short: "Extract structured lab data from report files",
	Long: `Extract patient metadata and lab values from OCR text (.txt) or PDF
reports with an embedded text layer, and validate each value against
clinical reference ranges.

Examples:
  medext extract report.txt
  medext extract report.pdf --pages 1-2
  medext extract report.txt --llm --format yaml
  medext extract *.txt --output results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		useLLM := cfg.Extract.UseLLM
		if cmd.Flags().Changed("llm") {
			useLLM, _ = cmd.Flags().GetBool("llm")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		outputFile, _ := cmd.Flags().GetString("output")
		pageRange, _ := cmd.Flags().GetString("pages")

		structured, err := buildLLM(cmd.Context(), cfg, useLLM)
		if err != nil {
			return err
		}
		extractor := extract.NewExtractor(structured)
		opts := extract.Options{UseLLM: useLLM}

		results := make([]fileExtraction, 0, len(args))
		for _, path := range args {
			text, err := readReportFile(path, pageRange, cfg.Extract.PDFQualityThreshold)
			if err != nil {
				return err
			}

			extraction := extractor.ExtractStructuredFromOCR(cmd.Context(), text, opts)

			labs := make([]labValidation, 0, len(extraction.Labs))
			for _, lab := range extraction.Labs {
				labs = append(labs, labValidation{
					Lab: lab,
					Validation: validate.LabValue(lab.Name, lab.Value, lab.Unit,
						extraction.Meta.Age, extraction.Meta.Gender),
				})
			}

			results = append(results, fileExtraction{
				Path:       path,
				Extraction: extraction,
				Labs:       labs,
			})
		}

		output, err := formatExtractions(results, format)
		if err != nil {
			return err
		}
		return writeOutput(output, outputFile, false)
	},
}

// formatExtractions renders extract command results in the requested format.
func formatExtractions(results []fileExtraction, format string) (string, error) {
	switch format {
	case "json", "":
		bts, err := json.MarshalIndent(results, "", "  ")
		return string(bts) + "\n", err
	case "yaml":
		bts, err := yaml.Marshal(results)
		return string(bts), err
	case "text":
		var sb strings.Builder
		for i, result := range results {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(fmt.Sprintf("# %s\n", result.Path))
			writeMetaText(&sb, result.Extraction.Meta)
			for _, lab := range result.Labs {
				value := "-"
				if lab.Lab.Value != nil {
					value = fmt.Sprintf("%g", *lab.Lab.Value)
				}
				sb.WriteString(fmt.Sprintf("  %-16s %8s %-10s %s\n",
					lab.Lab.Name, value, lab.Lab.Unit, lab.Validation.Status))
			}
		}
		return sb.String(), nil
	default:
		return "", errors.New("unsupported format: " + format)
	}
}

func writeMetaText(sb *strings.Builder, meta extract.ReportMetadata) {
	if meta.PatientName != "" {
		sb.WriteString(fmt.Sprintf("patient: %s\n", meta.PatientName))
	}
	if meta.PatientID != "" {
		sb.WriteString(fmt.Sprintf("id: %s\n", meta.PatientID))
	}
	if meta.Date != "" {
		sb.WriteString(fmt.Sprintf("date: %s\n", meta.Date))
	}
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, or text")
	extractCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	extractCmd.Flags().Bool("llm", false, "enable the LLM-assisted extraction pass")
	extractCmd.Flags().String("pages", "", "page range for PDF input (e.g. 1-3,5)")
}
