// Package reporter renders analysis results in the formats the CLI offers.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/pyflow-dev/pyflow/internal/analyzer"
)

// Format identifies an output format
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name from flags or config
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatYAML, FormatCSV:
		return Format(name), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", name)
	}
}

// ReportMetadata describes when and on what a report was generated
type ReportMetadata struct {
	GeneratedAt   time.Time `json:"generated_at" yaml:"generated_at"`
	FilesAnalyzed int       `json:"files_analyzed" yaml:"files_analyzed"`
	ToolVersion   string    `json:"tool_version" yaml:"tool_version"`
}

// ComplexityReport is a complete complexity analysis report
type ComplexityReport struct {
	Summary  ComplexitySummary             `json:"summary" yaml:"summary"`
	Results  []*analyzer.ComplexityResult  `json:"results" yaml:"results"`
	Metadata ReportMetadata                `json:"metadata" yaml:"metadata"`

	showDetails bool
}

// ComplexityOptions controls how a complexity report is assembled and
// rendered
type ComplexityOptions struct {
	// SortBy orders results: name or complexity
	SortBy string

	// ReportUnchanged keeps low risk functions in the report
	ReportUnchanged bool

	// ShowDetails adds node and edge counts to text output
	ShowDetails bool
}

// ComplexitySummary contains aggregate statistics
type ComplexitySummary struct {
	TotalFunctions    int     `json:"total_functions" yaml:"total_functions"`
	AverageComplexity float64 `json:"average_complexity" yaml:"average_complexity"`
	MaxComplexity     int     `json:"max_complexity" yaml:"max_complexity"`
	HighRiskFunctions int     `json:"high_risk_functions" yaml:"high_risk_functions"`
}

// NewComplexityReport assembles a report with summary statistics. Low risk
// functions are dropped unless opts.ReportUnchanged keeps them.
func NewComplexityReport(results []*analyzer.ComplexityResult, filesAnalyzed int, toolVersion string, opts ComplexityOptions) *ComplexityReport {
	sorted := make([]*analyzer.ComplexityResult, 0, len(results))
	for _, r := range results {
		if !opts.ReportUnchanged && r.RiskLevel == "low" {
			continue
		}
		sorted = append(sorted, r)
	}
	if opts.SortBy == "complexity" {
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Complexity != sorted[j].Complexity {
				return sorted[i].Complexity > sorted[j].Complexity
			}
			return sorted[i].FunctionName < sorted[j].FunctionName
		})
	} else {
		sort.Slice(sorted, func(i, j int) bool {
			return sorted[i].FunctionName < sorted[j].FunctionName
		})
	}

	report := &ComplexityReport{
		Results:     sorted,
		showDetails: opts.ShowDetails,
		Metadata: ReportMetadata{
			GeneratedAt:   time.Now(),
			FilesAnalyzed: filesAnalyzed,
			ToolVersion:   toolVersion,
		},
	}
	report.Summary.TotalFunctions = len(sorted)
	total := 0
	for _, r := range sorted {
		total += r.Complexity
		if r.Complexity > report.Summary.MaxComplexity {
			report.Summary.MaxComplexity = r.Complexity
		}
		if r.RiskLevel == "high" {
			report.Summary.HighRiskFunctions++
		}
	}
	if len(sorted) > 0 {
		report.Summary.AverageComplexity = float64(total) / float64(len(sorted))
	}
	return report
}

// Write renders the report in the requested format
func (r *ComplexityReport) Write(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.writeText(w)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatCSV:
		return r.writeCSV(w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r *ComplexityReport) writeText(w io.Writer) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(w, "Complexity Analysis"); err != nil {
		return err
	}
	fmt.Fprintf(w, "Functions: %d  Average: %.1f  Max: %d\n\n",
		r.Summary.TotalFunctions, r.Summary.AverageComplexity, r.Summary.MaxComplexity)

	for _, result := range r.Results {
		riskColor := riskColor(result.RiskLevel)
		fmt.Fprintf(w, "  %-40s %3d  %s\n",
			result.FunctionName, result.Complexity, riskColor.Sprint(result.RiskLevel))
		if r.showDetails {
			fmt.Fprintf(w, "      nodes: %d  edges: %d\n", result.Nodes, result.Edges)
		}
	}
	return nil
}

func (r *ComplexityReport) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"function", "complexity", "nodes", "edges", "risk"}); err != nil {
		return err
	}
	for _, result := range r.Results {
		record := []string{
			result.FunctionName,
			strconv.Itoa(result.Complexity),
			strconv.Itoa(result.Nodes),
			strconv.Itoa(result.Edges),
			result.RiskLevel,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DeadCodeReport is a complete dead code analysis report
type DeadCodeReport struct {
	Results       []*analyzer.DeadCodeResult `json:"results" yaml:"results"`
	TotalFindings int                        `json:"total_findings" yaml:"total_findings"`
	Metadata      ReportMetadata             `json:"metadata" yaml:"metadata"`
}

// NewDeadCodeReport assembles a dead code report
func NewDeadCodeReport(results []*analyzer.DeadCodeResult, filesAnalyzed int, toolVersion string) *DeadCodeReport {
	report := &DeadCodeReport{
		Results: results,
		Metadata: ReportMetadata{
			GeneratedAt:   time.Now(),
			FilesAnalyzed: filesAnalyzed,
			ToolVersion:   toolVersion,
		},
	}
	for _, result := range results {
		report.TotalFindings += len(result.Findings)
	}
	return report
}

// Write renders the report in the requested format
func (r *DeadCodeReport) Write(w io.Writer, format Format, showCode bool) error {
	switch format {
	case FormatText:
		return r.writeText(w, showCode)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatYAML:
		return writeYAML(w, r)
	case FormatCSV:
		return r.writeCSV(w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r *DeadCodeReport) writeText(w io.Writer, showCode bool) error {
	bold := color.New(color.Bold)
	if _, err := bold.Fprintln(w, "Dead Code Analysis"); err != nil {
		return err
	}
	if r.TotalFindings == 0 {
		fmt.Fprintln(w, "No dead code found.")
		return nil
	}
	fmt.Fprintf(w, "Findings: %d\n\n", r.TotalFindings)

	warn := color.New(color.FgYellow)
	for _, result := range r.Results {
		for _, finding := range result.Findings {
			if finding.FilePath != "" {
				fmt.Fprintf(w, "%s:%d: ", finding.FilePath, finding.StartLine)
			}
			warn.Fprintln(w, analyzer.FormatFinding(finding))
			if showCode && finding.Code != "" {
				fmt.Fprintf(w, "    %s\n", finding.Code)
			}
		}
	}
	return nil
}

func (r *DeadCodeReport) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"file", "function", "start_line", "end_line", "reason"}); err != nil {
		return err
	}
	for _, result := range r.Results {
		for _, finding := range result.Findings {
			record := []string{
				finding.FilePath,
				finding.FunctionName,
				strconv.Itoa(finding.StartLine),
				strconv.Itoa(finding.EndLine),
				string(finding.Reason),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func riskColor(risk string) *color.Color {
	switch risk {
	case "high":
		return color.New(color.FgRed)
	case "medium":
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}
