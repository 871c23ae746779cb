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

// fileQuality is the per-file output of the quality command.
type fileQuality struct {
	Path     string                   `json:"path" yaml:"path"`
	Metadata validate.MetadataResult  `json:"metadata" yaml:"metadata"`
	Quality  validate.QualityReport   `json:"quality" yaml:"quality"`
	Labs     []extract.LabObservation `json:"labs" yaml:"labs"`
}

// qualityCmd represents the quality command.
var qualityCmd = &cobra.Command{
	Use:   "quality [files...]",
	Short: "Score extraction quality of report files",
	Long: `Run the extraction pipeline and report an overall quality score with
issues and warnings, including detected critical lab values.

Examples:
  medext quality report.txt
  medext quality report.pdf --format yaml
  medext quality *.txt --llm`,
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

		results := make([]fileQuality, 0, len(args))
		for _, path := range args {
			text, err := readReportFile(path, pageRange, cfg.Extract.PDFQualityThreshold)
			if err != nil {
				return err
			}

			extraction := extractor.ExtractStructuredFromOCR(cmd.Context(), text, opts)

			results = append(results, fileQuality{
				Path:     path,
				Metadata: validate.Metadata(extraction.Meta),
				Quality:  validate.ExtractionQuality(extraction),
				Labs:     extraction.Labs,
			})
		}

		output, err := formatQualities(results, format)
		if err != nil {
			return err
		}
		return writeOutput(output, outputFile, false)
	},
}

// formatQualities renders quality command results in the requested format.
func formatQualities(results []fileQuality, format string) (string, error) {
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
			sb.WriteString(fmt.Sprintf("quality: %.2f  metadata: %.2f  labs: %d/%d valid\n",
				result.Quality.Score, result.Metadata.Score,
				result.Quality.ValidLabCount, result.Quality.LabCount))
			for _, issue := range result.Quality.Issues {
				sb.WriteString(fmt.Sprintf("  issue: %s\n", issue))
			}
			for _, warning := range result.Quality.Warnings {
				sb.WriteString(fmt.Sprintf("  warning: %s\n", warning))
			}
			for _, critical := range result.Quality.CriticalValues {
				value := "-"
				if critical.Value != nil {
					value = fmt.Sprintf("%g", *critical.Value)
				}
				sb.WriteString(fmt.Sprintf("  CRITICAL: %s = %s %s\n", critical.Name, value, critical.Unit))
			}
		}
		return sb.String(), nil
	default:
		return "", errors.New("unsupported format: " + format)
	}
}

func init() {
	rootCmd.AddCommand(qualityCmd)
	qualityCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, or text")
	qualityCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	qualityCmd.Flags().Bool("llm", false, "enable the LLM-assisted extraction pass")
	qualityCmd.Flags().String("pages", "", "page range for PDF input (e.g. 1-3,5)")
}
