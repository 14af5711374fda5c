package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDot(t *testing.T) {
	cfg := buildModuleCFG(t, "if a:\n    b()\nc()\n")
	dot := cfg.ToDot()

	assert.True(t, strings.HasPrefix(dot, "digraph \"__main__\" {"))
	assert.True(t, strings.HasSuffix(dot, "}\n"))
	assert.Contains(t, dot, "label=\"T\"")
	assert.Contains(t, dot, "label=\"F\"")
	assert.Contains(t, dot, "END")

	// stable output for identical input
	assert.Equal(t, dot, buildModuleCFG(t, "if a:\n    b()\nc()\n").ToDot())
}

func TestToDotMarksSyntacticSuccessors(t *testing.T) {
	cfg := buildFunctionCFG(t, "def f():\n    return 1\n    x = 2\n", "f")
	assert.Contains(t, cfg.ToDot(), "style=dotted")
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short"))
	assert.Equal(t, "a b", truncateLabel("a\nb"))

	long := strings.Repeat("x", 60)
	truncated := truncateLabel(long)
	assert.Len(t, truncated, 40)
	assert.True(t, strings.HasSuffix(truncated, "..."))
}
