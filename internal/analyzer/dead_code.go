package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pyflow-dev/pyflow/internal/parser"
)

// DeadCodeReason represents the reason why code is considered dead
type DeadCodeReason string

const (
	// ReasonUnreachableAfterReturn indicates code after a return statement
	ReasonUnreachableAfterReturn DeadCodeReason = "unreachable_after_return"

	// ReasonUnreachableAfterBreak indicates code after a break statement
	ReasonUnreachableAfterBreak DeadCodeReason = "unreachable_after_break"

	// ReasonUnreachableAfterContinue indicates code after a continue statement
	ReasonUnreachableAfterContinue DeadCodeReason = "unreachable_after_continue"

	// ReasonUnreachableAfterRaise indicates code after a raise statement
	ReasonUnreachableAfterRaise DeadCodeReason = "unreachable_after_raise"

	// ReasonUnreachableBranch indicates a block no branch can reach
	ReasonUnreachableBranch DeadCodeReason = "unreachable_branch"
)

// DeadCodeFinding represents a single dead code detection result
type DeadCodeFinding struct {
	FunctionName string `json:"function_name" yaml:"function_name"`
	FilePath     string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	StartLine int `json:"start_line" yaml:"start_line"`
	EndLine   int `json:"end_line" yaml:"end_line"`

	Code        string         `json:"code,omitempty" yaml:"code,omitempty"`
	Reason      DeadCodeReason `json:"reason" yaml:"reason"`
	Description string         `json:"description" yaml:"description"`
}

// DeadCodeResult contains the dead code findings for a single graph
type DeadCodeResult struct {
	FunctionName string `json:"function_name" yaml:"function_name"`
	FilePath     string `json:"file_path,omitempty" yaml:"file_path,omitempty"`

	Findings    []*DeadCodeFinding `json:"findings" yaml:"findings"`
	TotalBlocks int                `json:"total_blocks" yaml:"total_blocks"`
	DeadBlocks  int                `json:"dead_blocks" yaml:"dead_blocks"`
}

// DeadCodeDetector finds blocks no successor path from the entry reaches
type DeadCodeDetector struct {
	cfg      *CFG
	filePath string
}

// NewDeadCodeDetector creates a new dead code detector for the given CFG
func NewDeadCodeDetector(cfg *CFG) *DeadCodeDetector {
	return &DeadCodeDetector{cfg: cfg}
}

// NewDeadCodeDetectorWithFilePath creates a detector with file path context
func NewDeadCodeDetectorWithFilePath(cfg *CFG, filePath string) *DeadCodeDetector {
	return &DeadCodeDetector{cfg: cfg, filePath: filePath}
}

// Detect performs dead code detection and returns structured findings
func (d *DeadCodeDetector) Detect() *DeadCodeResult {
	result := &DeadCodeResult{
		FunctionName: d.cfg.Name(),
		FilePath:     d.filePath,
		Findings:     []*DeadCodeFinding{},
		TotalBlocks:  d.cfg.Size(),
	}

	reachable := d.cfg.ReachableBlocks()
	for _, block := range d.cfg.Blocks() {
		if reachable[block] || block.IsEmpty() {
			continue
		}
		result.DeadBlocks++
		result.Findings = append(result.Findings, d.newFinding(block))
	}

	sort.Slice(result.Findings, func(i, j int) bool {
		return result.Findings[i].StartLine < result.Findings[j].StartLine
	})
	return result
}

func (d *DeadCodeDetector) newFinding(block *Block) *DeadCodeFinding {
	reason := d.classify(block)
	start, end := blockLineRange(block)
	return &DeadCodeFinding{
		FunctionName: d.cfg.Name(),
		FilePath:     d.filePath,
		StartLine:    start,
		EndLine:      end,
		Code:         blockCode(block),
		Reason:       reason,
		Description:  describeReason(reason),
	}
}

// classify derives the reason from the jump statement whose syntactic
// successor this block is
func (d *DeadCodeDetector) classify(block *Block) DeadCodeReason {
	for _, candidate := range d.cfg.Blocks() {
		if candidate.SyntacticSuccessor() != block {
			continue
		}
		elements := candidate.Elements()
		if len(elements) == 0 {
			continue
		}
		switch elements[len(elements)-1].Type {
		case parser.NodeReturn:
			return ReasonUnreachableAfterReturn
		case parser.NodeBreak:
			return ReasonUnreachableAfterBreak
		case parser.NodeContinue:
			return ReasonUnreachableAfterContinue
		case parser.NodeRaise:
			return ReasonUnreachableAfterRaise
		}
	}
	return ReasonUnreachableBranch
}

func describeReason(reason DeadCodeReason) string {
	switch reason {
	case ReasonUnreachableAfterReturn:
		return "Code after return statement is never executed"
	case ReasonUnreachableAfterBreak:
		return "Code after break statement is never executed"
	case ReasonUnreachableAfterContinue:
		return "Code after continue statement is never executed"
	case ReasonUnreachableAfterRaise:
		return "Code after raise statement is never executed"
	default:
		return "Code is unreachable from the function entry"
	}
}

func blockLineRange(block *Block) (int, int) {
	start, end := 0, 0
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
	return start, end
}

func blockCode(block *Block) string {
	var parts []string
	for _, element := range block.Elements() {
		if text, ok := element.Value.(string); ok && text != "" {
			parts = append(parts, text)
		} else {
			parts = append(parts, element.String())
		}
	}
	return strings.Join(parts, "\n")
}

// DetectAll runs dead code detection over every graph in the map, keyed and
// ordered by function name for stable reports
func DetectAll(cfgs map[string]*CFG, filePath string) []*DeadCodeResult {
	names := make([]string, 0, len(cfgs))
	for name := range cfgs {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]*DeadCodeResult, 0, len(names))
	for _, name := range names {
		results = append(results, NewDeadCodeDetectorWithFilePath(cfgs[name], filePath).Detect())
	}
	return results
}

// FormatFinding renders one finding the way the CLI prints it
func FormatFinding(f *DeadCodeFinding) string {
	location := fmt.Sprintf("line %d", f.StartLine)
	if f.EndLine > f.StartLine {
		location = fmt.Sprintf("lines %d-%d", f.StartLine, f.EndLine)
	}
	return fmt.Sprintf("%s: %s (%s)", f.FunctionName, f.Description, location)
}
