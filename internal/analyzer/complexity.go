package analyzer

import (
	"fmt"

	"github.com/pyflow-dev/pyflow/internal/parser"
)

// Risk level thresholds for cyclomatic complexity
const (
	DefaultLowComplexityThreshold    = 9
	DefaultMediumComplexityThreshold = 19
)

// ComplexityResult holds cyclomatic complexity metrics for one function or
// module body
type ComplexityResult struct {
	// McCabe cyclomatic complexity
	Complexity int `json:"complexity" yaml:"complexity"`

	// Raw CFG metrics
	Nodes int `json:"nodes" yaml:"nodes"`
	Edges int `json:"edges" yaml:"edges"`

	// Function/method information
	FunctionName string `json:"function_name" yaml:"function_name"`
	FilePath     string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	StartLine    int    `json:"start_line,omitempty" yaml:"start_line,omitempty"`
	EndLine      int    `json:"end_line,omitempty" yaml:"end_line,omitempty"`

	// Decision points breakdown
	IfStatements      int `json:"if_statements" yaml:"if_statements"`
	LoopStatements    int `json:"loop_statements" yaml:"loop_statements"`
	ExceptionHandlers int `json:"exception_handlers" yaml:"exception_handlers"`
	WithBlocks        int `json:"with_blocks" yaml:"with_blocks"`

	// Risk assessment based on complexity thresholds
	RiskLevel string `json:"risk_level" yaml:"risk_level"`
}

// String returns a human-readable representation of the complexity result
func (cr *ComplexityResult) String() string {
	return fmt.Sprintf("Function: %s, Complexity: %d, Risk: %s",
		cr.FunctionName, cr.Complexity, cr.RiskLevel)
}

// ComplexityThresholds configures the risk classification boundaries
type ComplexityThresholds struct {
	// Low is the highest complexity still rated low risk
	Low int

	// Medium is the highest complexity still rated medium risk
	Medium int
}

// DefaultComplexityThresholds returns the standard risk boundaries
func DefaultComplexityThresholds() ComplexityThresholds {
	return ComplexityThresholds{
		Low:    DefaultLowComplexityThreshold,
		Medium: DefaultMediumComplexityThreshold,
	}
}

// Assess classifies a complexity value against the thresholds
func (t ComplexityThresholds) Assess(complexity int) string {
	switch {
	case complexity <= t.Low:
		return "low"
	case complexity <= t.Medium:
		return "medium"
	default:
		return "high"
	}
}

// CalculateComplexity computes McCabe cyclomatic complexity (E - N + 2) for
// a single graph, along with a breakdown of its decision points
func CalculateComplexity(cfg *CFG, thresholds ComplexityThresholds) *ComplexityResult {
	result := &ComplexityResult{
		FunctionName: cfg.Name(),
	}

	for _, block := range cfg.Blocks() {
		result.Nodes++
		result.Edges += len(block.Successors())

		if block.Kind() != BlockBranching {
			continue
		}
		branch := block.BranchElement()
		if branch == nil {
			continue
		}
		switch branch.Type {
		case parser.NodeIf:
			result.IfStatements++
		case parser.NodeWhile, parser.NodeFor, parser.NodeAsyncFor:
			result.LoopStatements++
		case parser.NodeExceptHandler:
			result.ExceptionHandlers++
		case parser.NodeWith, parser.NodeAsyncWith:
			result.WithBlocks++
		}
	}

	result.Complexity = result.Edges - result.Nodes + 2
	if result.Complexity < 1 {
		result.Complexity = 1
	}
	result.RiskLevel = thresholds.Assess(result.Complexity)
	result.StartLine, result.EndLine = cfgLineRange(cfg)
	return result
}

// cfgLineRange derives the source span covered by the graph's elements
func cfgLineRange(cfg *CFG) (int, int) {
	start, end := 0, 0
	for _, block := range cfg.Blocks() {
		for _, element := range block.Elements() {
			loc := element.Location
			if loc.StartLine == 0 {
				continue
			}
			if start == 0 || loc.StartLine < start {
				start = loc.StartLine
			}
			if loc.EndLine > end {
				end = loc.EndLine
			}
		}
	}
	return start, end
}
