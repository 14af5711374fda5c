// Package collector resolves the Python files named by command line
// arguments, applying include and exclude glob patterns.
package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Collector finds Python source files under the given paths
type Collector struct {
	// IncludePatterns are doublestar globs a file must match; empty means all
	IncludePatterns []string

	// ExcludePatterns are doublestar globs that skip matching files
	ExcludePatterns []string

	// Recursive enables walking into subdirectories
	Recursive bool
}

// New creates a collector with the given patterns
func New(includePatterns, excludePatterns []string, recursive bool) *Collector {
	return &Collector{
		IncludePatterns: includePatterns,
		ExcludePatterns: excludePatterns,
		Recursive:       recursive,
	}
}

// CollectPythonFiles resolves files and directories into a sorted,
// deduplicated list of Python files
func (c *Collector) CollectPythonFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("path not found: %s: %w", path, err)
		}

		if !info.IsDir() {
			if IsPythonFile(path) && c.includes(path) {
				add(path)
			}
			continue
		}

		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				// unreadable entries are skipped, not fatal
				return nil
			}
			if d.IsDir() {
				if !c.Recursive && p != path {
					return filepath.SkipDir
				}
				return nil
			}
			if IsPythonFile(p) && c.includes(p) {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}

// IsPythonFile checks the extension of a path
func IsPythonFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".py" || ext == ".pyi"
}

// includes applies the include and exclude patterns to a slash-normalized
// path
func (c *Collector) includes(path string) bool {
	normalized := filepath.ToSlash(path)

	if len(c.IncludePatterns) > 0 {
		matched := false
		for _, pattern := range c.IncludePatterns {
			if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, pattern := range c.ExcludePatterns {
		if ok, err := doublestar.Match(pattern, normalized); err == nil && ok {
			return false
		}
	}
	return true
}
