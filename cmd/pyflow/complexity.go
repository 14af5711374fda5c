package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pyflow-dev/pyflow/internal/analyzer"
	"github.com/pyflow-dev/pyflow/internal/reporter"
	"github.com/pyflow-dev/pyflow/internal/version"
)

// NewComplexityCmd creates the complexity command
func NewComplexityCmd() *cobra.Command {
	var (
		format        string
		sortBy        string
		maxComplexity int
	)

	cmd := &cobra.Command{
		Use:   "complexity [paths...]",
		Short: "Analyze cyclomatic complexity",
		Long: `Calculate McCabe cyclomatic complexity for every function and
module body, based on the control flow graph.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if cmd.Flags().Changed("sort") {
				cfg.Output.SortBy = sortBy
			}
			if cmd.Flags().Changed("max-complexity") {
				cfg.Complexity.MaxComplexity = maxComplexity
			}
			outputFormat, err := reporter.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			analyzed, err := analyzeFiles(cmd, cfg, args)
			if err != nil {
				return err
			}

			thresholds := analyzer.ComplexityThresholds{
				Low:    cfg.Complexity.LowThreshold,
				Medium: cfg.Complexity.MediumThreshold,
			}

			var results []*analyzer.ComplexityResult
			for _, file := range analyzed {
				names := make([]string, 0, len(file.CFGs))
				for name := range file.CFGs {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					result := analyzer.CalculateComplexity(file.CFGs[name], thresholds)
					result.FilePath = file.Path
					results = append(results, result)
				}
			}

			report := reporter.NewComplexityReport(results, len(analyzed), version.Short(), reporter.ComplexityOptions{
				SortBy:          cfg.Output.SortBy,
				ReportUnchanged: cfg.Complexity.ReportUnchanged,
				ShowDetails:     cfg.Output.ShowDetails,
			})
			if err := report.Write(os.Stdout, outputFormat); err != nil {
				return err
			}

			if cfg.Complexity.MaxComplexity > 0 && report.Summary.MaxComplexity > cfg.Complexity.MaxComplexity {
				return fmt.Errorf("max complexity %d exceeds limit %d",
					report.Summary.MaxComplexity, cfg.Complexity.MaxComplexity)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml, csv)")
	cmd.Flags().StringVar(&sortBy, "sort", "name", "Sort results by: name, complexity")
	cmd.Flags().IntVar(&maxComplexity, "max-complexity", 0, "Fail when any function exceeds this complexity (0 disables)")
	return cmd
}
