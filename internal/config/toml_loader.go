package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig mirrors Config with optional fields so that a key absent from
// the file can be told apart from an explicit false or zero.
type fileConfig struct {
	Complexity complexityFile `toml:"complexity"`
	DeadCode   deadCodeFile   `toml:"dead_code"`
	Input      inputFile      `toml:"input"`
	Output     outputFile     `toml:"output"`
}

type complexityFile struct {
	LowThreshold    *int  `toml:"low_threshold"`
	MediumThreshold *int  `toml:"medium_threshold"`
	MaxComplexity   *int  `toml:"max_complexity"`
	ReportUnchanged *bool `toml:"report_unchanged"`
}

type deadCodeFile struct {
	ShowCode *bool `toml:"show_code"`
}

type inputFile struct {
	IncludePatterns []string `toml:"include"`
	ExcludePatterns []string `toml:"exclude"`
	Recursive       *bool    `toml:"recursive"`
}

type outputFile struct {
	Format      *string `toml:"format"`
	ShowDetails *bool   `toml:"show_details"`
	SortBy      *string `toml:"sort_by"`
}

// pyprojectFile mirrors the parts of pyproject.toml we read: the
// [tool.pyflow] table using the same layout as .pyflow.toml
type pyprojectFile struct {
	Tool struct {
		Pyflow *fileConfig `toml:"pyflow"`
	} `toml:"tool"`
}

// LoadFile reads a configuration file. A .pyflow.toml holds the Config
// tables at top level; a pyproject.toml holds them under [tool.pyflow].
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if filepath.Base(path) == "pyproject.toml" {
		var py pyprojectFile
		if err := toml.Unmarshal(data, &py); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if py.Tool.Pyflow != nil {
			merge(cfg, py.Tool.Pyflow)
		}
	} else {
		var overlay fileConfig
		if err := toml.Unmarshal(data, &overlay); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		merge(cfg, &overlay)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// merge overlays the values present in the file onto the defaults. Optional
// fields are pointers, so an explicit false or zero in the file wins over
// the default.
func merge(dst *Config, src *fileConfig) {
	if src.Complexity.LowThreshold != nil {
		dst.Complexity.LowThreshold = *src.Complexity.LowThreshold
	}
	if src.Complexity.MediumThreshold != nil {
		dst.Complexity.MediumThreshold = *src.Complexity.MediumThreshold
	}
	if src.Complexity.MaxComplexity != nil {
		dst.Complexity.MaxComplexity = *src.Complexity.MaxComplexity
	}
	if src.Complexity.ReportUnchanged != nil {
		dst.Complexity.ReportUnchanged = *src.Complexity.ReportUnchanged
	}
	if src.DeadCode.ShowCode != nil {
		dst.DeadCode.ShowCode = *src.DeadCode.ShowCode
	}
	if len(src.Input.IncludePatterns) > 0 {
		dst.Input.IncludePatterns = src.Input.IncludePatterns
	}
	if len(src.Input.ExcludePatterns) > 0 {
		dst.Input.ExcludePatterns = src.Input.ExcludePatterns
	}
	if src.Input.Recursive != nil {
		dst.Input.Recursive = *src.Input.Recursive
	}
	if src.Output.Format != nil {
		dst.Output.Format = *src.Output.Format
	}
	if src.Output.ShowDetails != nil {
		dst.Output.ShowDetails = *src.Output.ShowDetails
	}
	if src.Output.SortBy != nil {
		dst.Output.SortBy = *src.Output.SortBy
	}
}
