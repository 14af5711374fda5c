package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddToBodySetsParent(t *testing.T) {
	fn := NewNode(NodeFunctionDef)
	stmt := NewNode(NodePass)
	fn.AddToBody(stmt)

	require.Len(t, fn.Body, 1)
	assert.Equal(t, fn, stmt.Parent)

	fn.AddToBody(nil)
	assert.Len(t, fn.Body, 1)
}

func TestAddHandlerSetsParent(t *testing.T) {
	try := NewNode(NodeTry)
	handler := NewNode(NodeExceptHandler)
	try.AddHandler(handler)

	require.Len(t, try.Handlers, 1)
	assert.Equal(t, try, handler.Parent)
}

func TestGetChildrenAggregatesAllFields(t *testing.T) {
	stmt := NewNode(NodeIf)
	stmt.Test = NewNode(NodeName)
	stmt.AddToBody(NewNode(NodePass))
	stmt.AddToOrelse(NewNode(NodePass))

	children := stmt.GetChildren()
	assert.Len(t, children, 3)
}

func TestIsStatement(t *testing.T) {
	assert.True(t, NewNode(NodeReturn).IsStatement())
	assert.True(t, NewNode(NodeIf).IsStatement())
	assert.False(t, NewNode(NodeName).IsStatement())
	assert.False(t, NewNode(NodeCall).IsStatement())
}

func TestIsControlFlow(t *testing.T) {
	assert.True(t, NewNode(NodeWhile).IsControlFlow())
	assert.True(t, NewNode(NodeBreak).IsControlFlow())
	assert.False(t, NewNode(NodeAssign).IsControlFlow())
}

func TestNodeString(t *testing.T) {
	named := NewNode(NodeFunctionDef)
	named.Name = "f"
	assert.Equal(t, "FunctionDef(f)", named.String())

	valued := NewNode(NodeExpr)
	valued.Value = "x + 1"
	assert.Equal(t, "Expr(x + 1)", valued.String())

	bare := NewNode(NodePass)
	assert.Equal(t, "Pass", bare.String())
}

func TestWalkStopsOnFalse(t *testing.T) {
	module := parseSource(t, "x = 1\ny = 2\n")

	visited := 0
	module.Walk(func(n *Node) bool {
		visited++
		return false
	})
	assert.Equal(t, 1, visited)
}

func TestFindByType(t *testing.T) {
	source := `def f():
    if a:
        return 1
    return 2
`
	module := parseSource(t, source)
	returns := module.FindByType(NodeReturn)
	assert.Len(t, returns, 2)
}

func TestGetParentOfType(t *testing.T) {
	source := `class C:
    def m(self):
        return 1
`
	module := parseSource(t, source)
	ret := module.FindByType(NodeReturn)[0]

	fn := ret.GetParentOfType(NodeFunctionDef)
	require.NotNil(t, fn)
	assert.Equal(t, "m", fn.Name)

	cls := ret.GetParentOfType(NodeClassDef)
	require.NotNil(t, cls)
	assert.Equal(t, "C", cls.Name)

	assert.Nil(t, ret.GetParentOfType(NodeWhile))
}
