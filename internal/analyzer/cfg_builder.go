package analyzer

import (
	"errors"
	"fmt"

	"github.com/pyflow-dev/pyflow/internal/parser"
)

// MainCFGName is the map key used for the module-level graph
const MainCFGName = "__main__"

// buildContext carries the targets that non-local jumps resolve against at
// the current point of the recursion. It is passed by value: entering a loop
// or try statement derives a new context for the nested build calls, and the
// caller's context is untouched when they return.
type buildContext struct {
	// loop is the innermost enclosing loop target, nil outside loops
	loop *loopTarget

	// raiseTo is where a raise transfers control: the innermost except
	// dispatch chain, or the end block
	raiseTo *Block

	// returnTo is where a return transfers control: the innermost enclosing
	// finally body, or the end block
	returnTo *Block
}

// loopTarget is the pair of destinations active while compiling a loop body
type loopTarget struct {
	breakTo    *Block
	continueTo *Block
}

func (ctx buildContext) withLoop(breakTo, continueTo *Block) buildContext {
	ctx.loop = &loopTarget{breakTo: breakTo, continueTo: continueTo}
	return ctx
}

func (ctx buildContext) withRaiseTarget(target *Block) buildContext {
	ctx.raiseTo = target
	return ctx
}

func (ctx buildContext) withReturnTarget(target *Block) buildContext {
	ctx.returnTo = target
	return ctx
}

// CFGBuilder compiles a statement sequence into a control flow graph. The
// statement list is folded from last statement to first so that every
// statement knows its successor before its own block is built. A builder is
// good for a single Build call.
type CFGBuilder struct {
	end    *Block
	blocks []*Block
	nextID int
}

// NewCFGBuilder creates a new CFG builder
func NewCFGBuilder() *CFGBuilder {
	b := &CFGBuilder{}
	b.end = b.newBlock(BlockTerminal)
	return b
}

// Build compiles the given statement sequence into a graph. A nil or empty
// sequence is a valid input: the resulting graph contains only the terminal
// block, serving as both start and end.
func (b *CFGBuilder) Build(name string, statements []*parser.Node) (*CFG, error) {
	ctx := buildContext{raiseTo: b.end, returnTo: b.end}

	start := b.end
	if len(statements) > 0 {
		entry, err := b.buildStatements(statements, b.newLinearBlock(b.end), ctx)
		if err != nil {
			return nil, err
		}
		start = entry
	}

	start = b.removeEmptyBlocks(start)
	b.computePredecessors()

	return &CFG{name: name, blocks: b.blocks, start: start, end: b.end}, nil
}

// BuildCFGs builds the module-level graph plus one graph per function
// defined anywhere in the module, keyed by qualified name. Bodies whose
// construction fails are excluded from the result; their errors are joined
// and returned alongside the graphs that did build.
func BuildCFGs(module *parser.Node) (map[string]*CFG, error) {
	if module == nil {
		return nil, fmt.Errorf("cannot build CFGs from nil module")
	}

	cfgs := make(map[string]*CFG)
	var errs []error

	moduleCFG, err := NewCFGBuilder().Build(MainCFGName, module.Body)
	if err != nil {
		errs = append(errs, fmt.Errorf("module body: %w", err))
	} else {
		cfgs[MainCFGName] = moduleCFG
	}

	collectFunctionCFGs(module.Body, "", cfgs, &errs)
	return cfgs, errors.Join(errs...)
}

func collectFunctionCFGs(statements []*parser.Node, prefix string, cfgs map[string]*CFG, errs *[]error) {
	for _, stmt := range statements {
		switch stmt.Type {
		case parser.NodeFunctionDef, parser.NodeAsyncFunctionDef:
			name := qualify(prefix, stmt.Name)
			cfg, err := NewCFGBuilder().Build(name, stmt.Body)
			if err != nil {
				*errs = append(*errs, fmt.Errorf("function %s: %w", name, err))
			} else {
				cfgs[name] = cfg
			}
			collectFunctionCFGs(stmt.Body, name, cfgs, errs)
		case parser.NodeClassDef:
			collectFunctionCFGs(stmt.Body, qualify(prefix, stmt.Name), cfgs, errs)
		default:
			collectFunctionCFGs(compoundBodies(stmt), prefix, cfgs, errs)
		}
	}
}

// compoundBodies returns the nested statement lists of a compound statement
func compoundBodies(stmt *parser.Node) []*parser.Node {
	var nested []*parser.Node
	nested = append(nested, stmt.Body...)
	nested = append(nested, stmt.Orelse...)
	nested = append(nested, stmt.Finalbody...)
	for _, handler := range stmt.Handlers {
		nested = append(nested, handler.Body...)
	}
	return nested
}

func qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// buildStatements folds the statement list right to left, threading the
// successor-so-far as the accumulator
func (b *CFGBuilder) buildStatements(statements []*parser.Node, successor *Block, ctx buildContext) (*Block, error) {
	current := successor
	for i := len(statements) - 1; i >= 0; i-- {
		block, err := b.buildStatement(statements[i], current, ctx)
		if err != nil {
			return nil, err
		}
		current = block
	}
	return current, nil
}

func (b *CFGBuilder) buildStatement(stmt *parser.Node, current *Block, ctx buildContext) (*Block, error) {
	switch stmt.Type {
	case parser.NodeIf:
		return b.buildIf(stmt, current, ctx)
	case parser.NodeWhile:
		return b.buildWhile(stmt, current, ctx)
	case parser.NodeFor, parser.NodeAsyncFor:
		return b.buildFor(stmt, current, ctx)
	case parser.NodeWith, parser.NodeAsyncWith:
		return b.buildWith(stmt, current, ctx)
	case parser.NodeTry:
		return b.buildTry(stmt, current, ctx)
	case parser.NodeReturn:
		return b.buildReturn(stmt, current, ctx)
	case parser.NodeRaise:
		return b.buildRaise(stmt, current, ctx)
	case parser.NodeBreak:
		return b.buildBreak(stmt, current, ctx)
	case parser.NodeContinue:
		return b.buildContinue(stmt, current, ctx)
	case parser.NodeClassDef:
		// class bodies execute inline at definition time, so their statements
		// are spliced into the enclosing flow
		return b.buildStatements(stmt.Body, current, ctx)
	default:
		current.addElement(stmt)
		return current, nil
	}
}

func (b *CFGBuilder) buildIf(stmt *parser.Node, after *Block, ctx buildContext) (*Block, error) {
	bodyBlock, err := b.buildStatements(stmt.Body, b.newLinearBlock(after), ctx)
	if err != nil {
		return nil, err
	}

	falseSuccessor := after
	if len(stmt.Orelse) > 0 {
		// an elif arrives as a single nested If statement here, so the chain
		// of branching blocks falls out of the recursion
		falseSuccessor, err = b.buildStatements(stmt.Orelse, b.newLinearBlock(after), ctx)
		if err != nil {
			return nil, err
		}
	}

	conditionBlock := b.newBranchingBlock(stmt, bodyBlock, falseSuccessor)
	conditionBlock.addElement(stmt.Test)
	return conditionBlock, nil
}

func (b *CFGBuilder) buildWhile(stmt *parser.Node, after *Block, ctx buildContext) (*Block, error) {
	return b.buildLoop(stmt, []*parser.Node{stmt.Test}, after, ctx)
}

func (b *CFGBuilder) buildFor(stmt *parser.Node, after *Block, ctx buildContext) (*Block, error) {
	condition := make([]*parser.Node, 0, len(stmt.Targets)+1)
	if stmt.Iter != nil {
		condition = append(condition, stmt.Iter)
	}
	condition = append(condition, stmt.Targets...)
	return b.buildLoop(stmt, condition, after, ctx)
}

// buildLoop compiles a while or for statement. The else clause runs only on
// normal exhaustion, so break targets the block after the whole statement
// while the false successor of the condition is the else entry.
func (b *CFGBuilder) buildLoop(stmt *parser.Node, condition []*parser.Node, after *Block, ctx buildContext) (*Block, error) {
	afterLoop := after
	if len(stmt.Orelse) > 0 {
		elseBlock, err := b.buildStatements(stmt.Orelse, b.newLinearBlock(after), ctx)
		if err != nil {
			return nil, err
		}
		afterLoop = elseBlock
	}

	conditionBlock := b.newBranchingBlock(stmt, nil, afterLoop)
	for i := len(condition) - 1; i >= 0; i-- {
		conditionBlock.addElement(condition[i])
	}

	bodyBlock, err := b.buildStatements(stmt.Body, b.newLinearBlock(conditionBlock), ctx.withLoop(after, conditionBlock))
	if err != nil {
		return nil, err
	}
	conditionBlock.setTrueSuccessor(bodyBlock)
	return b.newLinearBlock(conditionBlock), nil
}

// buildWith models that an exception raised in the body may be intercepted
// by the context manager, resuming at the continuation without passing
// through the body. The statement itself is the element of the branching
// block: its context manager expressions are evaluated there.
func (b *CFGBuilder) buildWith(stmt *parser.Node, after *Block, ctx buildContext) (*Block, error) {
	bodyBlock, err := b.buildStatements(stmt.Body, b.newLinearBlock(after), ctx)
	if err != nil {
		return nil, err
	}
	withBlock := b.newBranchingBlock(stmt, bodyBlock, after)
	withBlock.addElement(stmt)
	return withBlock, nil
}

func (b *CFGBuilder) buildTry(stmt *parser.Node, after *Block, ctx buildContext) (*Block, error) {
	// A finally body runs on every path out of the try: its block branches
	// between the normal continuation and the propagation target that was
	// active outside the statement.
	finallyOrAfter := after
	var finallyBlock *Block
	clauseCtx := ctx
	if len(stmt.Finalbody) > 0 {
		branch := b.newBranchingBlock(stmt, after, ctx.returnTo)
		entry, err := b.buildStatements(stmt.Finalbody, branch, ctx)
		if err != nil {
			return nil, err
		}
		finallyBlock = entry
		finallyOrAfter = entry
		// return, break and continue inside the statement must route through
		// the finally body before leaving
		clauseCtx = clauseCtx.withReturnTarget(finallyBlock).withLoop(finallyBlock, finallyBlock)
	}

	dispatchHead, err := b.buildExceptClauses(stmt, finallyOrAfter, finallyBlock, ctx, clauseCtx)
	if err != nil {
		return nil, err
	}

	trySuccessor := finallyOrAfter
	if len(stmt.Orelse) > 0 {
		trySuccessor, err = b.buildStatements(stmt.Orelse, b.newLinearBlock(finallyOrAfter), clauseCtx)
		if err != nil {
			return nil, err
		}
	}

	bodyCtx := clauseCtx.withRaiseTarget(dispatchHead)
	tryBlock, err := b.buildStatements(stmt.Body, b.newBranchingBlock(stmt, trySuccessor, dispatchHead), bodyCtx)
	if err != nil {
		return nil, err
	}
	return b.newLinearBlock(tryBlock), nil
}

// buildExceptClauses chains the handler tests in reverse textual order: each
// test's false successor is the next test, and the last falls through to the
// enclosing exception target (or the finally body when one exists).
func (b *CFGBuilder) buildExceptClauses(stmt *parser.Node, finallyOrAfter, finallyBlock *Block, ctx, clauseCtx buildContext) (*Block, error) {
	falseSuccessor := finallyBlock
	if falseSuccessor == nil {
		falseSuccessor = ctx.raiseTo
	}
	for i := len(stmt.Handlers) - 1; i >= 0; i-- {
		handler := stmt.Handlers[i]
		handlerBody, err := b.buildStatements(handler.Body, b.newLinearBlock(finallyOrAfter), clauseCtx)
		if err != nil {
			return nil, err
		}
		test := b.newBranchingBlock(handler, handlerBody, falseSuccessor)
		test.addElement(handler)
		falseSuccessor = test
	}
	return falseSuccessor, nil
}

func (b *CFGBuilder) buildReturn(stmt *parser.Node, syntacticSuccessor *Block, ctx buildContext) (*Block, error) {
	if !insideFunction(stmt) || directlyInClassBody(stmt) {
		return nil, &InvalidReturnError{Line: stmt.Location.StartLine}
	}
	block := b.newLinearBlock(ctx.returnTo)
	block.setSyntacticSuccessor(syntacticSuccessor)
	block.addElement(stmt)
	return block, nil
}

func (b *CFGBuilder) buildRaise(stmt *parser.Node, syntacticSuccessor *Block, ctx buildContext) (*Block, error) {
	block := b.newLinearBlock(ctx.raiseTo)
	block.setSyntacticSuccessor(syntacticSuccessor)
	block.addElement(stmt)
	return block, nil
}

func (b *CFGBuilder) buildBreak(stmt *parser.Node, syntacticSuccessor *Block, ctx buildContext) (*Block, error) {
	if ctx.loop == nil {
		return nil, &UnboundJumpError{Keyword: "break", Line: stmt.Location.StartLine}
	}
	block := b.newLinearBlock(ctx.loop.breakTo)
	block.setSyntacticSuccessor(syntacticSuccessor)
	block.addElement(stmt)
	return block, nil
}

func (b *CFGBuilder) buildContinue(stmt *parser.Node, syntacticSuccessor *Block, ctx buildContext) (*Block, error) {
	if ctx.loop == nil {
		return nil, &UnboundJumpError{Keyword: "continue", Line: stmt.Location.StartLine}
	}
	block := b.newLinearBlock(ctx.loop.continueTo)
	block.setSyntacticSuccessor(syntacticSuccessor)
	block.addElement(stmt)
	return block, nil
}

func insideFunction(stmt *parser.Node) bool {
	return stmt.GetParentOfType(parser.NodeFunctionDef) != nil ||
		stmt.GetParentOfType(parser.NodeAsyncFunctionDef) != nil
}

func directlyInClassBody(stmt *parser.Node) bool {
	return stmt.Parent != nil && stmt.Parent.Type == parser.NodeClassDef
}

func (b *CFGBuilder) newBlock(kind BlockKind) *Block {
	block := &Block{id: b.nextID, kind: kind}
	b.nextID++
	b.blocks = append(b.blocks, block)
	return block
}

func (b *CFGBuilder) newLinearBlock(successor *Block) *Block {
	block := b.newBlock(BlockLinear)
	block.succ = successor
	return block
}

func (b *CFGBuilder) newBranchingBlock(branchElement *parser.Node, trueSuccessor, falseSuccessor *Block) *Block {
	block := b.newBlock(BlockBranching)
	block.branchElement = branchElement
	block.trueSucc = trueSuccessor
	block.falseSucc = falseSuccessor
	return block
}
