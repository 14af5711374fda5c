package parser

import "fmt"

// NodeType represents the type of AST node
type NodeType string

// Python AST node types
const (
	// Module and structure
	NodeModule NodeType = "Module"

	// Statements
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeClassDef         NodeType = "ClassDef"
	NodeReturn           NodeType = "Return"
	NodeDelete           NodeType = "Delete"
	NodeAssign           NodeType = "Assign"
	NodeAugAssign        NodeType = "AugAssign"
	NodeAnnAssign        NodeType = "AnnAssign"
	NodeFor              NodeType = "For"
	NodeAsyncFor         NodeType = "AsyncFor"
	NodeWhile            NodeType = "While"
	NodeIf               NodeType = "If"
	NodeWith             NodeType = "With"
	NodeAsyncWith        NodeType = "AsyncWith"
	NodeMatch            NodeType = "Match"
	NodeRaise            NodeType = "Raise"
	NodeTry              NodeType = "Try"
	NodeAssert           NodeType = "Assert"
	NodeImport           NodeType = "Import"
	NodeImportFrom       NodeType = "ImportFrom"
	NodeGlobal           NodeType = "Global"
	NodeNonlocal         NodeType = "Nonlocal"
	NodeExpr             NodeType = "Expr"
	NodePass             NodeType = "Pass"
	NodeBreak            NodeType = "Break"
	NodeContinue         NodeType = "Continue"

	// Expressions
	NodeBoolOp    NodeType = "BoolOp"
	NodeNamedExpr NodeType = "NamedExpr"
	NodeBinOp     NodeType = "BinOp"
	NodeUnaryOp   NodeType = "UnaryOp"
	NodeLambda    NodeType = "Lambda"
	NodeIfExp     NodeType = "IfExp"
	NodeDict      NodeType = "Dict"
	NodeSet       NodeType = "Set"
	NodeAwait     NodeType = "Await"
	NodeYield     NodeType = "Yield"
	NodeCompare   NodeType = "Compare"
	NodeCall      NodeType = "Call"
	NodeConstant  NodeType = "Constant"
	NodeAttribute NodeType = "Attribute"
	NodeSubscript NodeType = "Subscript"
	NodeStarred   NodeType = "Starred"
	NodeName      NodeType = "Name"
	NodeList      NodeType = "List"
	NodeTuple     NodeType = "Tuple"
	NodeSlice     NodeType = "Slice"

	// Clauses
	NodeExceptHandler NodeType = "ExceptHandler"
	NodeWithItem      NodeType = "WithItem"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Node represents an AST node
type Node struct {
	Type     NodeType
	Value    interface{} // Can hold various values depending on node type
	Children []*Node
	Location Location
	Parent   *Node

	// Additional fields for specific node types
	Name      string  // For function/class definitions, names
	Targets   []*Node // For assignments and for-loop targets
	Body      []*Node // For compound statements
	Orelse    []*Node // For if/for/while/try statements
	Finalbody []*Node // For try statements
	Handlers  []*Node // For try statements
	Test      *Node   // For if/while statements and except clauses
	Iter      *Node   // For for loops
	Args      []*Node // For function calls
	Op        string  // For operations
}

// NewNode creates a new AST node
func NewNode(nodeType NodeType) *Node {
	return &Node{
		Type: nodeType,
	}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child != nil {
		child.Parent = n
		n.Children = append(n.Children, child)
	}
}

// AddToBody adds a node to the body
func (n *Node) AddToBody(node *Node) {
	if node != nil {
		node.Parent = n
		n.Body = append(n.Body, node)
	}
}

// AddToOrelse adds a node to the else branch
func (n *Node) AddToOrelse(node *Node) {
	if node != nil {
		node.Parent = n
		n.Orelse = append(n.Orelse, node)
	}
}

// AddToFinalbody adds a node to the finally body
func (n *Node) AddToFinalbody(node *Node) {
	if node != nil {
		node.Parent = n
		n.Finalbody = append(n.Finalbody, node)
	}
}

// AddHandler adds an except handler
func (n *Node) AddHandler(node *Node) {
	if node != nil {
		node.Parent = n
		n.Handlers = append(n.Handlers, node)
	}
}

// GetChildren returns all child nodes
func (n *Node) GetChildren() []*Node {
	var allChildren []*Node
	allChildren = append(allChildren, n.Children...)
	allChildren = append(allChildren, n.Body...)
	allChildren = append(allChildren, n.Orelse...)
	allChildren = append(allChildren, n.Finalbody...)
	allChildren = append(allChildren, n.Handlers...)

	if n.Test != nil {
		allChildren = append(allChildren, n.Test)
	}
	if n.Iter != nil {
		allChildren = append(allChildren, n.Iter)
	}

	allChildren = append(allChildren, n.Targets...)
	allChildren = append(allChildren, n.Args...)

	return allChildren
}

// IsStatement returns true if the node is a statement
func (n *Node) IsStatement() bool {
	switch n.Type {
	case NodeFunctionDef, NodeAsyncFunctionDef, NodeClassDef,
		NodeReturn, NodeDelete, NodeAssign, NodeAugAssign, NodeAnnAssign,
		NodeFor, NodeAsyncFor, NodeWhile, NodeIf, NodeWith, NodeAsyncWith,
		NodeMatch, NodeRaise, NodeTry, NodeAssert, NodeImport, NodeImportFrom,
		NodeGlobal, NodeNonlocal, NodeExpr, NodePass, NodeBreak, NodeContinue:
		return true
	default:
		return false
	}
}

// IsControlFlow returns true if the node represents control flow
func (n *Node) IsControlFlow() bool {
	switch n.Type {
	case NodeIf, NodeFor, NodeAsyncFor, NodeWhile, NodeWith, NodeAsyncWith,
		NodeMatch, NodeTry, NodeBreak, NodeContinue, NodeReturn, NodeRaise:
		return true
	default:
		return false
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s)", n.Type, n.Name)
	}
	if n.Value != nil {
		return fmt.Sprintf("%s(%v)", n.Type, n.Value)
	}
	return string(n.Type)
}

// Walk traverses the AST using depth-first search
func (n *Node) Walk(visitor func(*Node) bool) {
	if !visitor(n) {
		return
	}

	for _, child := range n.GetChildren() {
		if child != nil {
			child.Walk(visitor)
		}
	}
}

// Find finds all nodes matching a predicate
func (n *Node) Find(predicate func(*Node) bool) []*Node {
	var results []*Node
	n.Walk(func(node *Node) bool {
		if predicate(node) {
			results = append(results, node)
		}
		return true
	})
	return results
}

// FindByType finds all nodes of a specific type
func (n *Node) FindByType(nodeType NodeType) []*Node {
	return n.Find(func(node *Node) bool {
		return node.Type == nodeType
	})
}

// GetParentOfType finds the nearest parent of a specific type
func (n *Node) GetParentOfType(nodeType NodeType) *Node {
	current := n.Parent
	for current != nil {
		if current.Type == nodeType {
			return current
		}
		current = current.Parent
	}
	return nil
}
