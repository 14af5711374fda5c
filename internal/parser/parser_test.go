package parser

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseSource(t *testing.T, source string) *Node {
	t.Helper()
	result, err := New().Parse(context.Background(), []byte(source))
	require.NoError(t, err)
	require.NotNil(t, result.AST)
	return result.AST
}

func TestParseSimpleModule(t *testing.T) {
	result, err := New().Parse(context.Background(), []byte("x = 1\nprint(x)\n"))
	require.NoError(t, err)

	assert.Equal(t, []byte("x = 1\nprint(x)\n"), result.SourceCode)
	module := result.AST
	assert.Equal(t, NodeModule, module.Type)
	require.Len(t, module.Body, 2)
	assert.Equal(t, NodeAssign, module.Body[0].Type)
	assert.Equal(t, NodeExpr, module.Body[1].Type)
}

func TestParseSyntaxError(t *testing.T) {
	_, err := New().Parse(context.Background(), []byte("def f(:\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "syntax errors")
}

func TestParseFile(t *testing.T) {
	result, err := New().ParseFile(context.Background(), strings.NewReader("y = 2\n"))
	require.NoError(t, err)
	require.Len(t, result.AST.Body, 1)
	assert.Equal(t, NodeAssign, result.AST.Body[0].Type)
}

func TestParseEmptySource(t *testing.T) {
	module := parseSource(t, "")
	assert.Equal(t, NodeModule, module.Type)
	assert.Empty(t, module.Body)
}

func TestParseSetsParentLinks(t *testing.T) {
	module := parseSource(t, "def f():\n    return 1\n")
	require.Len(t, module.Body, 1)

	fn := module.Body[0]
	assert.Equal(t, module, fn.Parent)
	require.Len(t, fn.Body, 1)
	ret := fn.Body[0]
	assert.Equal(t, fn, ret.Parent)
	assert.Equal(t, fn, ret.GetParentOfType(NodeFunctionDef))
}

func TestParseLocations(t *testing.T) {
	module := parseSource(t, "x = 1\n\ny = 2\n")
	require.Len(t, module.Body, 2)

	assert.Equal(t, 1, module.Body[0].Location.StartLine)
	assert.Equal(t, 3, module.Body[1].Location.StartLine)
	assert.Equal(t, 3, module.Body[1].Location.EndLine)
}
