package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the pyflow configuration
type Config struct {
	Complexity ComplexityConfig `toml:"complexity"`
	DeadCode   DeadCodeConfig   `toml:"dead_code"`
	Input      InputConfig      `toml:"input"`
	Output     OutputConfig     `toml:"output"`
}

// ComplexityConfig configures the complexity analysis
type ComplexityConfig struct {
	// LowThreshold is the highest complexity still rated low risk
	LowThreshold int `toml:"low_threshold"`

	// MediumThreshold is the highest complexity still rated medium risk
	MediumThreshold int `toml:"medium_threshold"`

	// MaxComplexity fails the run when exceeded; 0 disables the limit
	MaxComplexity int `toml:"max_complexity"`

	// ReportUnchanged includes low risk functions in reports
	ReportUnchanged bool `toml:"report_unchanged"`
}

// DeadCodeConfig configures the dead code analysis
type DeadCodeConfig struct {
	// ShowCode includes the dead source text in findings
	ShowCode bool `toml:"show_code"`
}

// InputConfig configures file selection
type InputConfig struct {
	// IncludePatterns are doublestar globs relative to the analyzed roots
	IncludePatterns []string `toml:"include"`

	// ExcludePatterns are doublestar globs for paths to skip
	ExcludePatterns []string `toml:"exclude"`

	// Recursive enables walking into subdirectories
	Recursive bool `toml:"recursive"`
}

// OutputConfig configures report rendering
type OutputConfig struct {
	// Format is one of text, json, yaml, csv
	Format string `toml:"format"`

	// ShowDetails adds node and edge counts to text complexity output
	ShowDetails bool `toml:"show_details"`

	// SortBy orders results: name, complexity
	SortBy string `toml:"sort_by"`
}

// DefaultConfig returns the configuration used when no file overrides it
func DefaultConfig() *Config {
	return &Config{
		Complexity: ComplexityConfig{
			LowThreshold:    9,
			MediumThreshold: 19,
			ReportUnchanged: true,
		},
		DeadCode: DeadCodeConfig{
			ShowCode: true,
		},
		Input: InputConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{"**/venv/**", "**/.venv/**", "**/__pycache__/**"},
			Recursive:       true,
		},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "name",
		},
	}
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Complexity.LowThreshold <= 0 {
		return fmt.Errorf("complexity.low_threshold must be positive, got %d", c.Complexity.LowThreshold)
	}
	if c.Complexity.MediumThreshold <= c.Complexity.LowThreshold {
		return fmt.Errorf("complexity.medium_threshold (%d) must be greater than low_threshold (%d)",
			c.Complexity.MediumThreshold, c.Complexity.LowThreshold)
	}
	switch c.Output.Format {
	case "text", "json", "yaml", "csv":
	default:
		return fmt.Errorf("unsupported output format: %s", c.Output.Format)
	}
	switch c.Output.SortBy {
	case "name", "complexity":
	default:
		return fmt.Errorf("unsupported sort key: %s", c.Output.SortBy)
	}
	return nil
}

// Load reads configuration for the given start directory: an explicit path
// wins; otherwise .pyflow.toml or pyproject.toml is searched upward from the
// start directory, and defaults apply when neither exists.
func Load(explicitPath, startDir string) (*Config, error) {
	if explicitPath != "" {
		return LoadFile(explicitPath)
	}

	path, err := findConfigFile(startDir)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// findConfigFile walks up from startDir looking for a configuration file
func findConfigFile(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{".pyflow.toml", "pyproject.toml"} {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
