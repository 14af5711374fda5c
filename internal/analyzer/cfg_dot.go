package analyzer

import (
	"fmt"
	"strings"
)

// ToDot renders the graph in Graphviz dot format, blocks in construction
// order for stable output
func (c *CFG) ToDot() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", c.name)
	sb.WriteString("  node [shape=box];\n")

	for _, block := range c.blocks {
		fmt.Fprintf(&sb, "  bb%d [label=%q];\n", block.id, dotLabel(c, block))
	}
	for _, block := range c.blocks {
		switch block.Kind() {
		case BlockTerminal:
		case BlockLinear:
			fmt.Fprintf(&sb, "  bb%d -> bb%d;\n", block.id, block.succ.id)
			if block.syntacticSucc != nil {
				fmt.Fprintf(&sb, "  bb%d -> bb%d [style=dotted];\n", block.id, block.syntacticSucc.id)
			}
		case BlockBranching:
			fmt.Fprintf(&sb, "  bb%d -> bb%d [label=\"T\"];\n", block.id, block.trueSucc.id)
			fmt.Fprintf(&sb, "  bb%d -> bb%d [label=\"F\"];\n", block.id, block.falseSucc.id)
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

func dotLabel(c *CFG, block *Block) string {
	if block == c.end {
		return "END"
	}
	if block == c.start && block.IsEmpty() {
		return "START"
	}
	var lines []string
	if block.Kind() == BlockBranching && len(block.elements) == 0 && block.branchElement != nil {
		lines = append(lines, truncateLabel(string(block.branchElement.Type)))
	}
	for _, element := range block.elements {
		lines = append(lines, truncateLabel(element.String()))
	}
	return strings.Join(lines, "\\n")
}

func truncateLabel(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
