package analyzer

import (
	"fmt"

	"github.com/pyflow-dev/pyflow/internal/parser"
)

// BlockKind discriminates the three control flow block variants
type BlockKind int

const (
	// BlockTerminal is the unique empty block every path ends at
	BlockTerminal BlockKind = iota
	// BlockLinear has exactly one successor
	BlockLinear
	// BlockBranching has a true successor and a false successor
	BlockBranching
)

// String returns string representation of BlockKind
func (k BlockKind) String() string {
	switch k {
	case BlockTerminal:
		return "terminal"
	case BlockLinear:
		return "linear"
	case BlockBranching:
		return "branching"
	default:
		return "unknown"
	}
}

// Block is a maximal straight-line run of statements plus its outgoing
// control flow edges. Blocks are mutated only while their graph is under
// construction; once the builder returns they are read-only.
type Block struct {
	id   int
	kind BlockKind

	// elements are the statements and expressions evaluated in this block,
	// in source order
	elements []*parser.Node

	// succ is the single successor of a linear block
	succ *Block

	// trueSucc and falseSucc are the successors of a branching block
	trueSucc  *Block
	falseSucc *Block

	// branchElement is the syntax node that triggers the branch: the if/while/
	// for statement, the except clause, or the with/try statement itself for
	// implicit exception branches
	branchElement *parser.Node

	// syntacticSucc is the block that would follow in textual order when the
	// last element is a non-local jump, nil otherwise
	syntacticSucc *Block

	preds []*Block
}

// ID returns the construction-order identifier of the block
func (b *Block) ID() int {
	return b.id
}

// Kind returns the block variant
func (b *Block) Kind() BlockKind {
	return b.kind
}

// Elements returns the statements of the block in source order
func (b *Block) Elements() []*parser.Node {
	return b.elements
}

// IsEmpty returns true if the block holds no elements
func (b *Block) IsEmpty() bool {
	return len(b.elements) == 0
}

// Successors returns the blocks reachable in one control flow step. The true
// successor of a branching block comes first; coinciding successors are
// reported once.
func (b *Block) Successors() []*Block {
	switch b.kind {
	case BlockTerminal:
		return nil
	case BlockLinear:
		return []*Block{b.succ}
	case BlockBranching:
		if b.trueSucc == b.falseSucc {
			return []*Block{b.trueSucc}
		}
		return []*Block{b.trueSucc, b.falseSucc}
	default:
		panic(fmt.Sprintf("unknown block kind %d", b.kind))
	}
}

// TrueSuccessor returns the branch taken when the condition holds, nil for
// non-branching blocks
func (b *Block) TrueSuccessor() *Block {
	return b.trueSucc
}

// FalseSuccessor returns the branch taken when the condition fails, nil for
// non-branching blocks
func (b *Block) FalseSuccessor() *Block {
	return b.falseSucc
}

// BranchElement returns the syntax node a branching block tests, nil for
// non-branching blocks
func (b *Block) BranchElement() *parser.Node {
	return b.branchElement
}

// SyntacticSuccessor returns the textually-next block after a non-local jump,
// nil when the last element is not a jump
func (b *Block) SyntacticSuccessor() *Block {
	return b.syntacticSucc
}

// Predecessors returns the blocks whose successors include this block
func (b *Block) Predecessors() []*Block {
	return b.preds
}

// String returns a string representation of the block
func (b *Block) String() string {
	if b.kind == BlockTerminal {
		return "[END]"
	}
	return fmt.Sprintf("[bb%d: %d stmts]", b.id, len(b.elements))
}

// addElement prepends an element. The builder compiles statement lists from
// last to first, so prepending keeps elements in source order.
func (b *Block) addElement(node *parser.Node) {
	b.elements = append([]*parser.Node{node}, b.elements...)
}

// setTrueSuccessor closes the back edge of a loop condition block, which is
// created before its body exists
func (b *Block) setTrueSuccessor(s *Block) {
	b.trueSucc = s
}

func (b *Block) setSyntacticSuccessor(s *Block) {
	b.syntacticSucc = s
}

func (b *Block) addPredecessor(p *Block) {
	for _, existing := range b.preds {
		if existing == p {
			return
		}
	}
	b.preds = append(b.preds, p)
}

// isWiringBlock reports whether the block is a pure construction artifact: a
// linear block with no elements and no syntactic-successor role. Branching
// blocks are never wiring blocks even when element-free (the implicit
// exception branch of a try statement may legitimately carry no element).
func (b *Block) isWiringBlock() bool {
	return b.kind == BlockLinear && len(b.elements) == 0 && b.syntacticSucc == nil
}

// firstNonEmptySuccessor resolves the block a wiring block collapses into by
// following successor edges until a non-wiring block is reached. Wiring
// blocks are straight-through by construction, so the chain is finite.
func (b *Block) firstNonEmptySuccessor() *Block {
	block := b
	for block.isWiringBlock() {
		block = block.succ
	}
	return block
}

// replaceSuccessors rewrites successor references through the substitution
// map produced by empty-block elimination. A syntactic successor that
// resolves to an element-free block is dropped: the lexically-next position
// holds no code worth pointing at.
func (b *Block) replaceSuccessors(replacements map[*Block]*Block) {
	switch b.kind {
	case BlockTerminal:
	case BlockLinear:
		b.succ = replacement(replacements, b.succ)
	case BlockBranching:
		b.trueSucc = replacement(replacements, b.trueSucc)
		b.falseSucc = replacement(replacements, b.falseSucc)
	}
	if b.syntacticSucc != nil {
		b.syntacticSucc = replacement(replacements, b.syntacticSucc)
		if b.syntacticSucc.IsEmpty() {
			b.syntacticSucc = nil
		}
	}
}

func replacement(replacements map[*Block]*Block, block *Block) *Block {
	if r, ok := replacements[block]; ok {
		return r
	}
	return block
}

// CFG is the finished control flow graph of one function or module body.
// It is immutable and safe for concurrent read-only traversal.
type CFG struct {
	name   string
	blocks []*Block
	start  *Block
	end    *Block
}

// Name returns the name of the graphed body (function name or module marker)
func (c *CFG) Name() string {
	return c.name
}

// Blocks returns all blocks of the graph in construction order
func (c *CFG) Blocks() []*Block {
	return c.blocks
}

// Start returns the entry block
func (c *CFG) Start() *Block {
	return c.start
}

// End returns the unique terminal block
func (c *CFG) End() *Block {
	return c.end
}

// Size returns the number of blocks in the graph
func (c *CFG) Size() int {
	return len(c.blocks)
}

// Walk visits the blocks reachable from the start block in depth-first
// order. Returning false from the visitor stops the traversal.
func (c *CFG) Walk(visit func(*Block) bool) {
	visited := make(map[*Block]bool)
	stack := []*Block{c.start}
	for len(stack) > 0 {
		block := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[block] {
			continue
		}
		visited[block] = true
		if !visit(block) {
			return
		}
		succs := block.Successors()
		for i := len(succs) - 1; i >= 0; i-- {
			if !visited[succs[i]] {
				stack = append(stack, succs[i])
			}
		}
	}
}

// WalkBreadthFirst visits the blocks reachable from the start block in
// breadth-first order. Returning false from the visitor stops the traversal.
func (c *CFG) WalkBreadthFirst(visit func(*Block) bool) {
	visited := map[*Block]bool{c.start: true}
	queue := []*Block{c.start}
	for len(queue) > 0 {
		block := queue[0]
		queue = queue[1:]
		if !visit(block) {
			return
		}
		for _, succ := range block.Successors() {
			if !visited[succ] {
				visited[succ] = true
				queue = append(queue, succ)
			}
		}
	}
}

// ReachableBlocks returns the set of blocks reachable from the start block
func (c *CFG) ReachableBlocks() map[*Block]bool {
	reachable := make(map[*Block]bool)
	c.Walk(func(b *Block) bool {
		reachable[b] = true
		return true
	})
	return reachable
}

// String returns a string representation of the CFG
func (c *CFG) String() string {
	return fmt.Sprintf("CFG(%s): %d blocks", c.name, len(c.blocks))
}
