package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFunctionDef(t *testing.T) {
	module := parseSource(t, "def greet(name):\n    pass\n")
	require.Len(t, module.Body, 1)

	fn := module.Body[0]
	assert.Equal(t, NodeFunctionDef, fn.Type)
	assert.Equal(t, "greet", fn.Name)
	require.Len(t, fn.Body, 1)
	assert.Equal(t, NodePass, fn.Body[0].Type)
}

func TestBuildAsyncFunctionDef(t *testing.T) {
	module := parseSource(t, "async def fetch():\n    pass\n")
	assert.Equal(t, NodeAsyncFunctionDef, module.Body[0].Type)
	assert.Equal(t, "fetch", module.Body[0].Name)
}

func TestBuildDecoratedDefinition(t *testing.T) {
	module := parseSource(t, "@cache\ndef f():\n    pass\n")
	require.Len(t, module.Body, 1)
	assert.Equal(t, NodeFunctionDef, module.Body[0].Type)
	assert.Equal(t, "f", module.Body[0].Name)
}

func TestBuildClassDef(t *testing.T) {
	module := parseSource(t, "class Shape:\n    def area(self):\n        pass\n")
	cls := module.Body[0]
	assert.Equal(t, NodeClassDef, cls.Type)
	assert.Equal(t, "Shape", cls.Name)
	require.Len(t, cls.Body, 1)
	assert.Equal(t, NodeFunctionDef, cls.Body[0].Type)
}

func TestBuildIfStatement(t *testing.T) {
	module := parseSource(t, "if x:\n    a()\nelse:\n    b()\n")
	stmt := module.Body[0]
	assert.Equal(t, NodeIf, stmt.Type)
	require.NotNil(t, stmt.Test)
	assert.Equal(t, NodeName, stmt.Test.Type)
	assert.Equal(t, "x", stmt.Test.Name)
	require.Len(t, stmt.Body, 1)
	require.Len(t, stmt.Orelse, 1)
}

func TestElifFoldsIntoNestedIf(t *testing.T) {
	source := `if a:
    x()
elif b:
    y()
elif c:
    z()
else:
    w()
`
	module := parseSource(t, source)
	first := module.Body[0]
	assert.Equal(t, NodeIf, first.Type)
	assert.Equal(t, "a", first.Test.Name)

	require.Len(t, first.Orelse, 1)
	second := first.Orelse[0]
	assert.Equal(t, NodeIf, second.Type)
	assert.Equal(t, "b", second.Test.Name)

	require.Len(t, second.Orelse, 1)
	third := second.Orelse[0]
	assert.Equal(t, NodeIf, third.Type)
	assert.Equal(t, "c", third.Test.Name)

	require.Len(t, third.Orelse, 1)
	assert.Equal(t, NodeExpr, third.Orelse[0].Type)
	assert.Equal(t, "w()", third.Orelse[0].Value)
}

func TestBuildWhileWithElse(t *testing.T) {
	module := parseSource(t, "while x:\n    a()\nelse:\n    b()\n")
	stmt := module.Body[0]
	assert.Equal(t, NodeWhile, stmt.Type)
	assert.Equal(t, "x", stmt.Test.Name)
	require.Len(t, stmt.Body, 1)
	require.Len(t, stmt.Orelse, 1)
}

func TestBuildForStatement(t *testing.T) {
	module := parseSource(t, "for i in items:\n    use(i)\n")
	stmt := module.Body[0]
	assert.Equal(t, NodeFor, stmt.Type)
	require.Len(t, stmt.Targets, 1)
	assert.Equal(t, "i", stmt.Targets[0].Name)
	require.NotNil(t, stmt.Iter)
	assert.Equal(t, "items", stmt.Iter.Name)
}

func TestBuildAsyncForStatement(t *testing.T) {
	source := `async def f():
    async for i in gen():
        pass
`
	module := parseSource(t, source)
	stmt := module.Body[0].Body[0]
	assert.Equal(t, NodeAsyncFor, stmt.Type)
}

func TestBuildTryStatement(t *testing.T) {
	source := `try:
    a()
except ValueError as e:
    b()
except KeyError:
    c()
else:
    d()
finally:
    e()
`
	module := parseSource(t, source)
	stmt := module.Body[0]
	assert.Equal(t, NodeTry, stmt.Type)
	require.Len(t, stmt.Body, 1)
	require.Len(t, stmt.Handlers, 2)
	require.Len(t, stmt.Orelse, 1)
	require.Len(t, stmt.Finalbody, 1)

	first := stmt.Handlers[0]
	assert.Equal(t, NodeExceptHandler, first.Type)
	require.NotNil(t, first.Test)
	assert.Equal(t, "ValueError", first.Test.Name)
	require.Len(t, first.Body, 1)

	second := stmt.Handlers[1]
	assert.Equal(t, "KeyError", second.Test.Name)
}

func TestBuildBareExceptClause(t *testing.T) {
	module := parseSource(t, "try:\n    a()\nexcept:\n    b()\n")
	stmt := module.Body[0]
	require.Len(t, stmt.Handlers, 1)
	assert.Nil(t, stmt.Handlers[0].Test)
}

func TestBuildWithStatement(t *testing.T) {
	module := parseSource(t, "with open(p) as f, lock:\n    body()\n")
	stmt := module.Body[0]
	assert.Equal(t, NodeWith, stmt.Type)
	require.Len(t, stmt.Body, 1)

	require.Len(t, stmt.Children, 2)
	assert.Equal(t, NodeWithItem, stmt.Children[0].Type)
	assert.Equal(t, "open(p) as f", stmt.Children[0].Value)
	assert.Equal(t, "lock", stmt.Children[1].Value)
}

func TestBuildAsyncWithStatement(t *testing.T) {
	source := `async def f():
    async with session() as s:
        pass
`
	module := parseSource(t, source)
	assert.Equal(t, NodeAsyncWith, module.Body[0].Body[0].Type)
}

func TestBuildSimpleStatements(t *testing.T) {
	tests := []struct {
		source   string
		nodeType NodeType
	}{
		{"return 1\n", NodeReturn},
		{"raise ValueError()\n", NodeRaise},
		{"break\n", NodeBreak},
		{"continue\n", NodeContinue},
		{"pass\n", NodePass},
		{"del x\n", NodeDelete},
		{"assert x\n", NodeAssert},
		{"global x\n", NodeGlobal},
		{"import os\n", NodeImport},
		{"from os import path\n", NodeImportFrom},
	}

	for _, tt := range tests {
		t.Run(string(tt.nodeType), func(t *testing.T) {
			module := parseSource(t, tt.source)
			require.Len(t, module.Body, 1)
			assert.Equal(t, tt.nodeType, module.Body[0].Type)
		})
	}
}

func TestBuildAssignments(t *testing.T) {
	module := parseSource(t, "x = 1\nx += 1\ny: int = 2\n")
	require.Len(t, module.Body, 3)

	assign := module.Body[0]
	assert.Equal(t, NodeAssign, assign.Type)
	assert.Equal(t, "x = 1", assign.Value)
	require.Len(t, assign.Targets, 1)
	assert.Equal(t, "x", assign.Targets[0].Name)

	assert.Equal(t, NodeAugAssign, module.Body[1].Type)
	assert.Equal(t, NodeAnnAssign, module.Body[2].Type)
}

func TestBuildExpressions(t *testing.T) {
	tests := []struct {
		source   string
		nodeType NodeType
	}{
		{"f(1, 2)\n", NodeCall},
		{"a + b\n", NodeBinOp},
		{"a < b\n", NodeCompare},
		{"a and b\n", NodeBoolOp},
		{"not a\n", NodeUnaryOp},
		{"a.b\n", NodeAttribute},
		{"a[0]\n", NodeSubscript},
		{"[1, 2]\n", NodeList},
		{"{'k': 1}\n", NodeDict},
		{"lambda x: x\n", NodeLambda},
	}

	for _, tt := range tests {
		t.Run(string(tt.nodeType), func(t *testing.T) {
			module := parseSource(t, tt.source)
			stmt := module.Body[0]
			require.Equal(t, NodeExpr, stmt.Type)
			require.Len(t, stmt.Children, 1)
			assert.Equal(t, tt.nodeType, stmt.Children[0].Type)
		})
	}
}

func TestBuildCallExpression(t *testing.T) {
	module := parseSource(t, "result = compute(a, 2)\n")
	assign := module.Body[0]
	require.Len(t, assign.Children, 1)

	call := assign.Children[0]
	assert.Equal(t, NodeCall, call.Type)
	assert.Equal(t, "compute", call.Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, NodeName, call.Args[0].Type)
	assert.Equal(t, NodeConstant, call.Args[1].Type)
}

func TestCommentsAreDropped(t *testing.T) {
	module := parseSource(t, "# leading comment\nx = 1  # trailing\n")
	require.Len(t, module.Body, 1)
	assert.Equal(t, NodeAssign, module.Body[0].Type)
}

func TestParenthesizedExpressionUnwrapped(t *testing.T) {
	module := parseSource(t, "x = (y)\n")
	assign := module.Body[0]
	require.Len(t, assign.Children, 1)
	assert.Equal(t, NodeName, assign.Children[0].Type)
	assert.Equal(t, "y", assign.Children[0].Name)
}
