package cmd

import (
	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/medext/internal/batch"
)

// batchCmd represents the batch command.
var batchCmd = &cobra.Command{
	Use:   "batch [paths...]",
	Short: "Process directories of report files",
	Long: `Process multiple report files or directories through the extraction and
validation pipeline with parallel workers.

Examples:
  medext batch ./reports
  medext batch ./reports --recursive --workers 8
  medext batch ./reports --include "report_*.txt" --format yaml
  medext batch ./reports --continue-on-error --output results.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		workers := cfg.Batch.Workers
		if cmd.Flags().Changed("workers") {
			workers, _ = cmd.Flags().GetInt("workers")
		}

		continueOnError := cfg.Batch.ContinueOnError
		if cmd.Flags().Changed("continue-on-error") {
			continueOnError, _ = cmd.Flags().GetBool("continue-on-error")
		}

		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}

		outputFile := cfg.Batch.OutputDir
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}

		useLLM := cfg.Extract.UseLLM
		if cmd.Flags().Changed("llm") {
			useLLM, _ = cmd.Flags().GetBool("llm")
		}

		recursive, _ := cmd.Flags().GetBool("recursive")
		includePatterns, _ := cmd.Flags().GetStringSlice("include")
		excludePatterns, _ := cmd.Flags().GetStringSlice("exclude")
		pageRange, _ := cmd.Flags().GetString("pages")
		quiet, _ := cmd.Flags().GetBool("quiet")
		showStats, _ := cmd.Flags().GetBool("stats")

		structured, err := buildLLM(cmd.Context(), cfg, useLLM)
		if err != nil {
			return err
		}

		batchConfig := &batch.Config{
			UseLLM:              useLLM,
			LLM:                 structured,
			PDFQualityThreshold: cfg.Extract.PDFQualityThreshold,
			PageRange:           pageRange,
			Format:              format,
			OutputFile:          outputFile,
			Workers:             workers,
			Recursive:           recursive,
			IncludePatterns:     includePatterns,
			ExcludePatterns:     excludePatterns,
			ContinueOnError:     continueOnError,
			Quiet:               quiet,
			ShowStats:           showStats,
		}

		result, err := batch.ProcessBatch(cmd.Context(), args, batchConfig)
		if err != nil {
			return err
		}

		if err := result.SaveResults(format, outputFile, quiet); err != nil {
			return err
		}

		if showStats {
			result.PrintStats(quiet)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntP("workers", "w", 4, "number of parallel workers")
	batchCmd.Flags().BoolP("recursive", "r", false, "search directories recursively")
	batchCmd.Flags().StringSlice("include", nil, "include file patterns (e.g. 'report_*.txt')")
	batchCmd.Flags().StringSlice("exclude", nil, "exclude file patterns")
	batchCmd.Flags().Bool("continue-on-error", false, "continue processing when a file fails")
	batchCmd.Flags().StringP("format", "f", "json", "output format: json, yaml, or text")
	batchCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	batchCmd.Flags().Bool("llm", false, "enable the LLM-assisted extraction pass")
	batchCmd.Flags().String("pages", "", "page range for PDF input (e.g. 1-3,5)")
	batchCmd.Flags().BoolP("quiet", "q", false, "suppress progress output")
	batchCmd.Flags().Bool("stats", false, "print processing statistics")
}
