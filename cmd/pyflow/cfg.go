package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

// NewCFGCmd creates the cfg command
func NewCFGCmd() *cobra.Command {
	var functionName string

	cmd := &cobra.Command{
		Use:   "cfg [paths...]",
		Short: "Export control flow graphs in Graphviz dot format",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args)
			if err != nil {
				return err
			}

			analyzed, err := analyzeFiles(cmd, cfg, args)
			if err != nil {
				return err
			}

			found := false
			for _, file := range analyzed {
				names := make([]string, 0, len(file.CFGs))
				for name := range file.CFGs {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					if functionName != "" && name != functionName {
						continue
					}
					found = true
					fmt.Fprintf(os.Stdout, "// %s: %s\n", file.Path, name)
					fmt.Fprint(os.Stdout, file.CFGs[name].ToDot())
				}
			}
			if !found && functionName != "" {
				return fmt.Errorf("function %q not found", functionName)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&functionName, "function", "", "Export only the graph of the named function")
	return cmd
}
