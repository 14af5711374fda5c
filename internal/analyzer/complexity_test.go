package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplexityStraightLine(t *testing.T) {
	cfg := buildModuleCFG(t, "x = 1\ny = 2\n")
	result := CalculateComplexity(cfg, DefaultComplexityThresholds())

	assert.Equal(t, 1, result.Complexity)
	assert.Equal(t, 2, result.Nodes)
	assert.Equal(t, 1, result.Edges)
	assert.Equal(t, "low", result.RiskLevel)
	assert.Equal(t, MainCFGName, result.FunctionName)
	assert.Equal(t, 1, result.StartLine)
	assert.Equal(t, 2, result.EndLine)
}

func TestComplexityEmptyGraph(t *testing.T) {
	cfg, err := NewCFGBuilder().Build("empty", nil)
	require.NoError(t, err)

	result := CalculateComplexity(cfg, DefaultComplexityThresholds())
	assert.Equal(t, 1, result.Complexity)
}

func TestComplexityBranches(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		complexity int
	}{
		{
			name:       "if else",
			source:     "if a:\n    b()\nelse:\n    c()\nd()\n",
			complexity: 2,
		},
		{
			name:       "while",
			source:     "while a:\n    b()\n",
			complexity: 2,
		},
		{
			name:       "with",
			source:     "with open(p) as f:\n    body()\nrest()\n",
			complexity: 2,
		},
		{
			name:       "elif chain",
			source:     "if a:\n    x()\nelif b:\n    y()\nelse:\n    z()\n",
			complexity: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := buildModuleCFG(t, tt.source)
			result := CalculateComplexity(cfg, DefaultComplexityThresholds())
			assert.Equal(t, tt.complexity, result.Complexity)
		})
	}
}

func TestComplexityDecisionPointBreakdown(t *testing.T) {
	source := `def f(items):
    with lock:
        for item in items:
            if item:
                try:
                    use(item)
                except ValueError:
                    pass
`
	cfg := buildFunctionCFG(t, source, "f")
	result := CalculateComplexity(cfg, DefaultComplexityThresholds())

	assert.Equal(t, 1, result.IfStatements)
	assert.Equal(t, 1, result.LoopStatements)
	assert.Equal(t, 1, result.ExceptionHandlers)
	assert.Equal(t, 1, result.WithBlocks)
}

func TestComplexityThresholdsAssess(t *testing.T) {
	thresholds := DefaultComplexityThresholds()

	assert.Equal(t, "low", thresholds.Assess(1))
	assert.Equal(t, "low", thresholds.Assess(9))
	assert.Equal(t, "medium", thresholds.Assess(10))
	assert.Equal(t, "medium", thresholds.Assess(19))
	assert.Equal(t, "high", thresholds.Assess(20))
}

func TestComplexityCustomThresholds(t *testing.T) {
	thresholds := ComplexityThresholds{Low: 1, Medium: 2}
	cfg := buildModuleCFG(t, "if a:\n    b()\nelse:\n    c()\nd()\n")

	result := CalculateComplexity(cfg, thresholds)
	assert.Equal(t, 2, result.Complexity)
	assert.Equal(t, "medium", result.RiskLevel)
}

func TestComplexityResultString(t *testing.T) {
	result := &ComplexityResult{FunctionName: "f", Complexity: 3, RiskLevel: "low"}
	assert.Equal(t, "Function: f, Complexity: 3, Risk: low", result.String())
}
