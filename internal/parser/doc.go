// Package parser turns Python source code into a typed AST using the
// tree-sitter Python grammar. The tree is shaped for control flow
// analysis: compound statements expose Body, Orelse, Handlers and
// Finalbody lists, elif chains are normalized into nested If nodes, and
// every node carries its source location and a parent link.
package parser
