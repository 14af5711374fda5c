package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyflow-dev/pyflow/internal/parser"
)

func TestWhileLoop(t *testing.T) {
	cfg := buildModuleCFG(t, "while a:\n    b()\n")
	assertWellFormed(t, cfg)

	assert.Equal(t, 3, cfg.Size())
	cond := cfg.Start()
	require.Equal(t, BlockBranching, cond.Kind())
	require.Len(t, cond.Elements(), 1)
	assert.Equal(t, "a", cond.Elements()[0].Name)
	require.NotNil(t, cond.BranchElement())
	assert.Equal(t, parser.NodeWhile, cond.BranchElement().Type)

	body := cond.TrueSuccessor()
	assert.Equal(t, "b()", body.Elements()[0].Value)
	// the back edge closes the cycle
	assert.Equal(t, cond, body.Successors()[0])
	assert.Equal(t, cfg.End(), cond.FalseSuccessor())
}

func TestForLoop(t *testing.T) {
	source := `for i in xs:
    body()
rest()
`
	cfg := buildModuleCFG(t, source)
	assertWellFormed(t, cfg)

	assert.Equal(t, 4, cfg.Size())
	cond := cfg.Start()
	require.Equal(t, BlockBranching, cond.Kind())
	assert.Equal(t, parser.NodeFor, cond.BranchElement().Type)

	// the condition evaluates the iterable, then binds the target
	require.Len(t, cond.Elements(), 2)
	assert.Equal(t, "xs", cond.Elements()[0].Name)
	assert.Equal(t, "i", cond.Elements()[1].Name)

	body := cond.TrueSuccessor()
	assert.Equal(t, cond, body.Successors()[0])
	after := cond.FalseSuccessor()
	assert.Equal(t, "rest()", after.Elements()[0].Value)
}

func TestLoopElseRunsOnExhaustion(t *testing.T) {
	source := `while a:
    b()
else:
    c()
d()
`
	cfg := buildModuleCFG(t, source)
	assertWellFormed(t, cfg)

	assert.Equal(t, 5, cfg.Size())
	cond := cfg.Start()

	elseBlock := cond.FalseSuccessor()
	assert.Equal(t, "c()", elseBlock.Elements()[0].Value)
	after := elseBlock.Successors()[0]
	assert.Equal(t, "d()", after.Elements()[0].Value)
}

func TestBreakSkipsLoopElse(t *testing.T) {
	source := `while a:
    break
else:
    c()
d()
`
	cfg := buildModuleCFG(t, source)
	assertWellFormed(t, cfg)

	cond := cfg.Start()
	breakBlock := cond.TrueSuccessor()
	require.Len(t, breakBlock.Elements(), 1)
	assert.Equal(t, parser.NodeBreak, breakBlock.Elements()[0].Type)

	// break jumps past the else clause
	after := breakBlock.Successors()[0]
	assert.Equal(t, "d()", after.Elements()[0].Value)

	elseBlock := cond.FalseSuccessor()
	assert.Equal(t, "c()", elseBlock.Elements()[0].Value)
	assert.NotEqual(t, elseBlock, after)
}

func TestContinueTargetsTheCondition(t *testing.T) {
	source := `while a:
    if skip:
        continue
    b()
`
	cfg := buildModuleCFG(t, source)
	assertWellFormed(t, cfg)

	cond := cfg.Start()
	innerCond := cond.TrueSuccessor()
	require.Equal(t, BlockBranching, innerCond.Kind())

	continueBlock := innerCond.TrueSuccessor()
	require.Len(t, continueBlock.Elements(), 1)
	assert.Equal(t, parser.NodeContinue, continueBlock.Elements()[0].Type)
	assert.Equal(t, cond, continueBlock.Successors()[0])

	bodyRest := innerCond.FalseSuccessor()
	assert.Equal(t, "b()", bodyRest.Elements()[0].Value)
	assert.Equal(t, cond, bodyRest.Successors()[0])
}

func TestNestedLoopBreakBindsToInnerLoop(t *testing.T) {
	source := `while a:
    while b:
        break
    c()
`
	cfg := buildModuleCFG(t, source)
	assertWellFormed(t, cfg)

	outerCond := cfg.Start()
	innerCond := outerCond.TrueSuccessor()
	require.Equal(t, BlockBranching, innerCond.Kind())
	assert.Equal(t, "b", innerCond.Elements()[0].Name)

	breakBlock := innerCond.TrueSuccessor()
	require.Len(t, breakBlock.Elements(), 1)
	assert.Equal(t, parser.NodeBreak, breakBlock.Elements()[0].Type)

	// break leaves the inner loop only, landing on c() inside the outer body
	after := breakBlock.Successors()[0]
	assert.Equal(t, "c()", after.Elements()[0].Value)
	assert.Equal(t, outerCond, after.Successors()[0])
}

func TestForLoopElseWithBreak(t *testing.T) {
	source := `for i in xs:
    if found(i):
        break
else:
    missing()
done()
`
	moduleCFG := buildModuleCFG(t, source)
	assertWellFormed(t, moduleCFG)

	cond := moduleCFG.Start()
	require.Equal(t, BlockBranching, cond.Kind())

	elseBlock := cond.FalseSuccessor()
	assert.Equal(t, "missing()", elseBlock.Elements()[0].Value)

	innerCond := cond.TrueSuccessor()
	breakBlock := innerCond.TrueSuccessor()
	after := breakBlock.Successors()[0]
	assert.Equal(t, "done()", after.Elements()[0].Value)
	assert.Equal(t, after, elseBlock.Successors()[0])
}
