package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// astBuilder converts a tree-sitter concrete syntax tree into the typed AST.
// Comments and other trivia are dropped; elif chains are normalized into
// nested If nodes attached to the Orelse of their parent.
type astBuilder struct {
	source []byte
}

func newASTBuilder(source []byte) *astBuilder {
	return &astBuilder{source: source}
}

func (b *astBuilder) build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode dispatches on the tree-sitter node type
func (b *astBuilder) buildNode(tsNode *sitter.Node) *Node {
	switch tsNode.Type() {
	case "module":
		return b.buildModule(tsNode)
	case "function_definition":
		return b.buildFunctionDef(tsNode)
	case "class_definition":
		return b.buildClassDef(tsNode)
	case "decorated_definition":
		if def := tsNode.ChildByFieldName("definition"); def != nil {
			return b.buildNode(def)
		}
		return nil
	case "if_statement":
		return b.buildIfStatement(tsNode)
	case "while_statement":
		return b.buildWhileStatement(tsNode)
	case "for_statement":
		return b.buildForStatement(tsNode)
	case "try_statement":
		return b.buildTryStatement(tsNode)
	case "with_statement":
		return b.buildWithStatement(tsNode)
	case "return_statement":
		return b.buildSimpleStatement(tsNode, NodeReturn)
	case "raise_statement":
		return b.buildSimpleStatement(tsNode, NodeRaise)
	case "break_statement":
		return b.buildSimpleStatement(tsNode, NodeBreak)
	case "continue_statement":
		return b.buildSimpleStatement(tsNode, NodeContinue)
	case "pass_statement":
		return b.buildSimpleStatement(tsNode, NodePass)
	case "delete_statement":
		return b.buildSimpleStatement(tsNode, NodeDelete)
	case "assert_statement":
		return b.buildSimpleStatement(tsNode, NodeAssert)
	case "global_statement":
		return b.buildSimpleStatement(tsNode, NodeGlobal)
	case "nonlocal_statement":
		return b.buildSimpleStatement(tsNode, NodeNonlocal)
	case "import_statement":
		return b.buildSimpleStatement(tsNode, NodeImport)
	case "import_from_statement":
		return b.buildSimpleStatement(tsNode, NodeImportFrom)
	case "match_statement":
		return b.buildSimpleStatement(tsNode, NodeMatch)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	default:
		return b.buildExpression(tsNode)
	}
}

func (b *astBuilder) buildModule(tsNode *sitter.Node) *Node {
	node := NewNode(NodeModule)
	node.Location = b.location(tsNode)
	b.appendStatements(tsNode, node.AddToBody)
	return node
}

func (b *astBuilder) buildFunctionDef(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFunctionDef)
	node.Location = b.location(tsNode)
	if hasKeywordChild(tsNode, "async") {
		node.Type = NodeAsyncFunctionDef
	}
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Name = name.Content(b.source)
	}
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)
	return node
}

func (b *astBuilder) buildClassDef(tsNode *sitter.Node) *Node {
	node := NewNode(NodeClassDef)
	node.Location = b.location(tsNode)
	if name := tsNode.ChildByFieldName("name"); name != nil {
		node.Name = name.Content(b.source)
	}
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)
	return node
}

// buildIfStatement folds elif clauses into nested If nodes so that the
// control flow builder sees a uniform if/else shape.
func (b *astBuilder) buildIfStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeIf)
	node.Location = b.location(tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildExpression(cond)
		node.Test.Parent = node
	}
	b.appendBlockBody(tsNode.ChildByFieldName("consequence"), node.AddToBody)

	// Alternatives arrive in source order: zero or more elif clauses,
	// then at most one else clause. Fold right-to-left so each elif's
	// Orelse holds the next clause in the chain.
	var alternatives []*sitter.Node
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if tsNode.FieldNameForChild(i) == "alternative" {
			alternatives = append(alternatives, tsNode.Child(i))
		}
	}

	var orelse []*Node
	for i := len(alternatives) - 1; i >= 0; i-- {
		alt := alternatives[i]
		switch alt.Type() {
		case "elif_clause":
			elif := NewNode(NodeIf)
			elif.Location = b.location(alt)
			if cond := alt.ChildByFieldName("condition"); cond != nil {
				elif.Test = b.buildExpression(cond)
				elif.Test.Parent = elif
			}
			b.appendBlockBody(alt.ChildByFieldName("consequence"), elif.AddToBody)
			for _, stmt := range orelse {
				elif.AddToOrelse(stmt)
			}
			orelse = []*Node{elif}
		case "else_clause":
			var stmts []*Node
			b.appendBlockBody(alt.ChildByFieldName("body"), func(n *Node) {
				stmts = append(stmts, n)
			})
			orelse = stmts
		}
	}
	for _, stmt := range orelse {
		node.AddToOrelse(stmt)
	}
	return node
}

func (b *astBuilder) buildWhileStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWhile)
	node.Location = b.location(tsNode)
	if cond := tsNode.ChildByFieldName("condition"); cond != nil {
		node.Test = b.buildExpression(cond)
		node.Test.Parent = node
	}
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)
	b.appendElseClause(tsNode, node)
	return node
}

func (b *astBuilder) buildForStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeFor)
	node.Location = b.location(tsNode)
	if hasKeywordChild(tsNode, "async") {
		node.Type = NodeAsyncFor
	}
	if left := tsNode.ChildByFieldName("left"); left != nil {
		target := b.buildExpression(left)
		target.Parent = node
		node.Targets = []*Node{target}
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		node.Iter = b.buildExpression(right)
		node.Iter.Parent = node
	}
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)
	b.appendElseClause(tsNode, node)
	return node
}

func (b *astBuilder) buildTryStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeTry)
	node.Location = b.location(tsNode)
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "except_clause", "except_group_clause":
			node.AddHandler(b.buildExceptClause(child))
		case "else_clause":
			b.appendBlockBody(child.ChildByFieldName("body"), node.AddToOrelse)
		case "finally_clause":
			// finally_clause has no named body field; its block is a plain child
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "block" {
					b.appendStatements(child.Child(j), node.AddToFinalbody)
				}
			}
		}
	}
	return node
}

func (b *astBuilder) buildExceptClause(tsNode *sitter.Node) *Node {
	node := NewNode(NodeExceptHandler)
	node.Location = b.location(tsNode)
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		switch child.Type() {
		case "block":
			b.appendStatements(child, node.AddToBody)
		case "except", "as", ":", "comment":
			// keyword and punctuation trivia
		default:
			if node.Test == nil {
				node.Test = b.buildExpression(child)
				node.Test.Parent = node
			}
		}
	}
	return node
}

func (b *astBuilder) buildWithStatement(tsNode *sitter.Node) *Node {
	node := NewNode(NodeWith)
	node.Location = b.location(tsNode)
	if hasKeywordChild(tsNode, "async") {
		node.Type = NodeAsyncWith
	}
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child.Type() == "with_clause" {
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.Child(j).Type() == "with_item" {
					item := NewNode(NodeWithItem)
					item.Location = b.location(child.Child(j))
					item.Value = child.Child(j).Content(b.source)
					node.AddChild(item)
				}
			}
		}
	}
	b.appendBlockBody(tsNode.ChildByFieldName("body"), node.AddToBody)
	return node
}

// buildSimpleStatement covers statements the flow builder treats atomically.
// Their operands are kept as expression children for element inspection.
func (b *astBuilder) buildSimpleStatement(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.location(tsNode)
	node.Value = tsNode.Content(b.source)
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if expr := b.buildExpression(tsNode.NamedChild(i)); expr != nil {
			node.AddChild(expr)
		}
	}
	return node
}

func (b *astBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	// An expression_statement wraps assignments as well as bare expressions
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		switch child.Type() {
		case "assignment":
			return b.buildAssignment(child, NodeAssign)
		case "augmented_assignment":
			return b.buildAssignment(child, NodeAugAssign)
		}
	}
	node := NewNode(NodeExpr)
	node.Location = b.location(tsNode)
	node.Value = tsNode.Content(b.source)
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if expr := b.buildExpression(tsNode.NamedChild(i)); expr != nil {
			node.AddChild(expr)
		}
	}
	return node
}

func (b *astBuilder) buildAssignment(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Location = b.location(tsNode)
	node.Value = tsNode.Content(b.source)
	if left := tsNode.ChildByFieldName("left"); left != nil {
		target := b.buildExpression(left)
		target.Parent = node
		node.Targets = []*Node{target}
	}
	if right := tsNode.ChildByFieldName("right"); right != nil {
		if value := b.buildExpression(right); value != nil {
			node.AddChild(value)
		}
	}
	if tsNode.ChildByFieldName("type") != nil {
		node.Type = NodeAnnAssign
	}
	return node
}

// buildExpression produces a shallow typed node for an expression subtree.
// Nested operands are preserved as children only where downstream analyses
// inspect them (calls, operators, attributes); leaves keep their source text.
func (b *astBuilder) buildExpression(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}

	var node *Node
	switch tsNode.Type() {
	case "identifier":
		node = NewNode(NodeName)
		node.Name = tsNode.Content(b.source)
	case "integer", "float", "string", "concatenated_string", "true", "false", "none":
		node = NewNode(NodeConstant)
		node.Value = tsNode.Content(b.source)
	case "call":
		node = NewNode(NodeCall)
		if fn := tsNode.ChildByFieldName("function"); fn != nil {
			node.Name = fn.Content(b.source)
		}
		if args := tsNode.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				if arg := b.buildExpression(args.NamedChild(i)); arg != nil {
					arg.Parent = node
					node.Args = append(node.Args, arg)
				}
			}
		}
	case "binary_operator":
		node = b.buildOperator(tsNode, NodeBinOp)
	case "comparison_operator":
		node = b.buildOperator(tsNode, NodeCompare)
	case "boolean_operator":
		node = b.buildOperator(tsNode, NodeBoolOp)
	case "unary_operator", "not_operator":
		node = b.buildOperator(tsNode, NodeUnaryOp)
	case "named_expression":
		node = b.buildOperator(tsNode, NodeNamedExpr)
	case "attribute":
		node = NewNode(NodeAttribute)
		node.Value = tsNode.Content(b.source)
	case "subscript":
		node = NewNode(NodeSubscript)
		node.Value = tsNode.Content(b.source)
	case "list":
		node = NewNode(NodeList)
		node.Value = tsNode.Content(b.source)
	case "tuple", "pattern_list", "tuple_pattern":
		node = NewNode(NodeTuple)
		node.Value = tsNode.Content(b.source)
	case "dictionary":
		node = NewNode(NodeDict)
		node.Value = tsNode.Content(b.source)
	case "set":
		node = NewNode(NodeSet)
		node.Value = tsNode.Content(b.source)
	case "lambda":
		node = NewNode(NodeLambda)
		node.Value = tsNode.Content(b.source)
	case "conditional_expression":
		node = NewNode(NodeIfExp)
		node.Value = tsNode.Content(b.source)
	case "await":
		node = NewNode(NodeAwait)
		node.Value = tsNode.Content(b.source)
	case "yield":
		node = NewNode(NodeYield)
		node.Value = tsNode.Content(b.source)
	case "starred_expression", "list_splat_pattern":
		node = NewNode(NodeStarred)
		node.Value = tsNode.Content(b.source)
	case "parenthesized_expression":
		if inner := tsNode.NamedChild(0); inner != nil {
			return b.buildExpression(inner)
		}
		node = NewNode(NodeTuple)
	default:
		node = NewNode(NodeType(tsNode.Type()))
		node.Value = tsNode.Content(b.source)
	}

	node.Location = b.location(tsNode)
	return node
}

func (b *astBuilder) buildOperator(tsNode *sitter.Node, nodeType NodeType) *Node {
	node := NewNode(nodeType)
	node.Value = tsNode.Content(b.source)
	if op := tsNode.ChildByFieldName("operator"); op != nil {
		node.Op = op.Content(b.source)
	}
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		if child := b.buildExpression(tsNode.NamedChild(i)); child != nil {
			node.AddChild(child)
		}
	}
	return node
}

// appendElseClause attaches a loop's else clause, if present
func (b *astBuilder) appendElseClause(tsNode *sitter.Node, node *Node) {
	if alt := tsNode.ChildByFieldName("alternative"); alt != nil && alt.Type() == "else_clause" {
		b.appendBlockBody(alt.ChildByFieldName("body"), node.AddToOrelse)
	}
}

// appendBlockBody converts the statements of a block node and hands each to add
func (b *astBuilder) appendBlockBody(block *sitter.Node, add func(*Node)) {
	if block == nil {
		return
	}
	b.appendStatements(block, add)
}

func (b *astBuilder) appendStatements(tsNode *sitter.Node, add func(*Node)) {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || isTrivia(child) {
			continue
		}
		if stmt := b.buildNode(child); stmt != nil {
			add(stmt)
		}
	}
}

func (b *astBuilder) location(tsNode *sitter.Node) Location {
	start := tsNode.StartPoint()
	end := tsNode.EndPoint()
	return Location{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}

func isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "comment", "line_continuation", "\n", ";":
		return true
	}
	return !tsNode.IsNamed()
}

func hasKeywordChild(tsNode *sitter.Node, keyword string) bool {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		if tsNode.Child(i).Type() == keyword {
			return true
		}
	}
	return false
}
