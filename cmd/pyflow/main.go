package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pyflow-dev/pyflow/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pyflow",
	Short: "A CFG-based Python code analyzer",
	Long: `pyflow builds control flow graphs for Python functions and modules
and runs CFG-based analyses on top of them.

Features:
  • Cyclomatic complexity analysis
  • CFG-based dead code detection
  • Control flow graph export (Graphviz dot)`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(NewComplexityCmd())
	rootCmd.AddCommand(NewDeadCodeCmd())
	rootCmd.AddCommand(NewCFGCmd())
	rootCmd.AddCommand(NewVersionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("Error:", err)
		os.Exit(1)
	}
}
