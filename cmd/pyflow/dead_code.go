package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pyflow-dev/pyflow/internal/analyzer"
	"github.com/pyflow-dev/pyflow/internal/reporter"
	"github.com/pyflow-dev/pyflow/internal/version"
)

// NewDeadCodeCmd creates the deadcode command
func NewDeadCodeCmd() *cobra.Command {
	var (
		format   string
		showCode bool
	)

	cmd := &cobra.Command{
		Use:   "deadcode [paths...]",
		Short: "Detect unreachable code",
		Long: `Find statements that no control flow path from the function entry
can reach, such as code after return, break, continue or raise.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = format
			}
			if cmd.Flags().Changed("show-code") {
				cfg.DeadCode.ShowCode = showCode
			}
			outputFormat, err := reporter.ParseFormat(cfg.Output.Format)
			if err != nil {
				return err
			}

			analyzed, err := analyzeFiles(cmd, cfg, args)
			if err != nil {
				return err
			}

			var results []*analyzer.DeadCodeResult
			for _, file := range analyzed {
				results = append(results, analyzer.DetectAll(file.CFGs, file.Path)...)
			}

			report := reporter.NewDeadCodeReport(results, len(analyzed), version.Short())
			return report.Write(os.Stdout, outputFormat, cfg.DeadCode.ShowCode)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (text, json, yaml, csv)")
	cmd.Flags().BoolVar(&showCode, "show-code", true, "Include the dead source text in findings")
	return cmd
}
