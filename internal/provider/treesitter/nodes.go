//go:build cgo

package treesitter

import (
	sitter "github.com/smacker/go-tree-sitter"

	"codenav/internal/provider"
)

// document is one parsed source file.
type document struct {
	path   string
	source []byte
	tree   *sitter.Tree
	root   *sitter.Node
}

func (d *document) text(n *sitter.Node) string {
	return string(d.source[n.StartByte():n.EndByte()])
}

// node adapts a tree-sitter node to the provider contract.
type node struct {
	n   *sitter.Node
	doc *document
}

func wrap(n *sitter.Node, doc *document) *node {
	if n == nil {
		return nil
	}
	return &node{n: n, doc: doc}
}

func (n *node) Kind() string { return n.n.Type() }

func (n *node) Span() provider.Span {
	return spanOf(n.n)
}

func (n *node) Parent() provider.Node {
	p := n.n.Parent()
	if p == nil {
		return nil
	}
	return wrap(p, n.doc)
}

func (n *node) IsMemberAccess() bool {
	return n.n.Type() == "member_access_expression" ||
		n.n.Type() == "conditional_access_expression"
}

func (n *node) Receiver() provider.Node {
	recv := n.n.ChildByFieldName("expression")
	if recv == nil && n.n.NamedChildCount() > 0 {
		recv = n.n.NamedChild(0)
	}
	if recv == nil {
		return nil
	}
	return wrap(recv, n.doc)
}

func (n *node) text() string { return n.doc.text(n.n) }

// token adapts the smallest named node covering a position.
type token struct {
	n   *sitter.Node
	doc *document
}

func (t *token) Text() string        { return t.doc.text(t.n) }
func (t *token) Span() provider.Span { return spanOf(t.n) }

func (t *token) Parent() provider.Node {
	return wrap(t.n, t.doc)
}

func spanOf(n *sitter.Node) provider.Span {
	start := n.StartPoint()
	end := n.EndPoint()
	return provider.Span{
		Start: provider.Position{Line: int(start.Row), Column: int(start.Column)},
		End:   provider.Position{Line: int(end.Row), Column: int(end.Column)},
	}
}

// branchKinds are the node kinds that add a unit of cyclomatic
// complexity unconditionally.
var branchKinds = map[string]bool{
	"if_statement":           true,
	"for_statement":          true,
	"for_each_statement":     true,
	"while_statement":        true,
	"do_statement":           true,
	"switch_section":         true,
	"switch_expression_arm":  true,
	"catch_clause":           true,
	"conditional_expression": true,
}

// isBranch classifies a node as a branching construct. Binary
// expressions count only for the short-circuit and null-coalescing
// operators.
func isBranch(n *node) bool {
	kind := n.n.Type()
	if branchKinds[kind] {
		return true
	}
	if kind != "binary_expression" {
		return false
	}
	for i := 0; i < int(n.n.ChildCount()); i++ {
		child := n.n.Child(i)
		if child == nil || child.IsNamed() {
			continue
		}
		switch n.doc.text(child) {
		case "&&", "||", "??":
			return true
		}
	}
	return false
}
