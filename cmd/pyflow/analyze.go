package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pyflow-dev/pyflow/internal/analyzer"
	"github.com/pyflow-dev/pyflow/internal/collector"
	"github.com/pyflow-dev/pyflow/internal/config"
	"github.com/pyflow-dev/pyflow/internal/parser"
)

// fileCFGs pairs a source file with the graphs built from it
type fileCFGs struct {
	Path string
	CFGs map[string]*analyzer.CFG
}

// loadConfig resolves configuration from the --config flag or the first
// analyzed path
func loadConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	startDir := "."
	if len(args) > 0 {
		if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
			startDir = filepath.Dir(args[0])
		} else {
			startDir = args[0]
		}
	}
	return config.Load(explicit, startDir)
}

// analyzeFiles parses every collected file and builds its graphs. Bodies
// with structurally invalid control flow are skipped with a warning instead
// of aborting the run.
func analyzeFiles(cmd *cobra.Command, cfg *config.Config, args []string) ([]fileCFGs, error) {
	files, err := collector.New(cfg.Input.IncludePatterns, cfg.Input.ExcludePatterns, cfg.Input.Recursive).
		CollectPythonFiles(args)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no Python files found in %v", args)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	bar := newProgressBar(len(files))

	p := parser.New()
	var results []fileCFGs
	for _, file := range files {
		if bar != nil {
			_ = bar.Add(1)
		}

		source, err := os.ReadFile(file)
		if err != nil {
			cmd.PrintErrf("Warning: skipping %s: %v\n", file, err)
			continue
		}
		parsed, err := p.Parse(context.Background(), source)
		if err != nil {
			cmd.PrintErrf("Warning: skipping %s: %v\n", file, err)
			continue
		}

		cfgs, err := analyzer.BuildCFGs(parsed.AST)
		if err != nil {
			cmd.PrintErrf("Warning: %s: %v\n", file, err)
		}
		if verbose {
			cmd.PrintErrf("%s: %d graphs\n", file, len(cfgs))
		}
		results = append(results, fileCFGs{Path: file, CFGs: cfgs})
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no files could be analyzed")
	}
	return results, nil
}

// newProgressBar returns a progress bar when stderr is a terminal and there
// is more than one file to analyze, nil otherwise
func newProgressBar(total int) *progressbar.ProgressBar {
	if total < 2 || !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionClearOnFinish(),
	)
}
