// Package analyzer builds control flow graphs for Python function and
// module bodies and runs graph-based analyses on top of them.
//
// Graphs are constructed backwards: a statement list is folded from its
// last statement to its first, so every statement is compiled against the
// block that execution continues at. Construction leaves element-free
// wiring blocks behind; they are eliminated before a CFG is returned, and
// the finished graph is immutable.
package analyzer
