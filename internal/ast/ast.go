// Package ast defines the tagged-sum AST the parser builds: declarations,
// statements, expressions, and type references. Every node carries a
// source Range (a child's range always nests
// inside its parent's).
//
// Node kinds are matched with a type switch over the Node/Decl/Stmt/Expr
// interfaces rather than a visitor: this lineage's design notes call the
// visitor pattern a Java-specific encoding of tagged-variant matching, and
// Go's native type switch is the sum-type match a systems language should
// use instead.
package ast

import "github.com/novaforge/nova/internal/diagnostics"

// Node is implemented by every AST node.
type Node interface {
	Range() diagnostics.Range
}

// Decl is implemented by every top-level or member declaration node.
type Decl interface {
	Node
	declNode()
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// TypeRef is implemented by every surface type-reference node.
type TypeRef interface {
	Node
	typeRefNode()
}

// Base embeds the common Range in every concrete node type.
type Base struct {
	Rng diagnostics.Range
}

func (b Base) Range() diagnostics.Range { return b.Rng }

// Program is the root of a single parsed source file.
type Program struct {
	Base
	Package *PackageDecl
	Imports []*ImportDecl
	Decls   []Decl
}

// QualifiedName is a dotted identifier path, e.g. `com.example.Foo`.
type QualifiedName struct {
	Base
	Parts []string
}

func (q *QualifiedName) String() string {
	s := ""
	for i, p := range q.Parts {
		if i > 0 {
			s += "."
		}
		s += p
	}
	return s
}
