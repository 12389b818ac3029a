// Package ast defines the syntax tree consumed by the checker.
//
// The node set is closed: every category (expressions, statements, patterns,
// type annotations) is an interface with an unexported marker method, and the
// checker handles each category with a single exhaustive type switch.
package ast

import "tscheck/pkg/source"

// Node is implemented by every syntax tree node.
type Node interface {
	NodeSpan() source.Span
}

// Base carries the source span of a node. Every node embeds it.
type Base struct {
	Span source.Span
}

// NodeSpan returns the node's source span.
func (b *Base) NodeSpan() source.Span { return b.Span }

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement or declaration node.
type Stmt interface {
	Node
	stmtNode()
}

// Pat is a binding pattern (declaration targets and parameters).
type Pat interface {
	Node
	patNode()
}

// TsType is a type annotation node.
type TsType interface {
	Node
	tsTypeNode()
}

// Module is the root of one parsed file.
type Module struct {
	Base
	File *source.SourceFile
	Body []Stmt
}

// PropName is a property key. Computed keys keep their expression; a computed
// string literal key still has a static name.
type PropName struct {
	Base
	Name     string
	Computed Expr
}

// Static returns the key's name when it is known without evaluation.
func (p *PropName) Static() (string, bool) {
	if p == nil {
		return "", false
	}
	if p.Computed == nil {
		return p.Name, true
	}
	switch c := p.Computed.(type) {
	case *StrLit:
		return c.Value, true
	case *ParenExpr:
		if s, ok := c.Expr.(*StrLit); ok {
			return s.Value, true
		}
	}
	return "", false
}

// TypeParamDecl declares one type parameter: `T extends C = D`.
type TypeParamDecl struct {
	Base
	Name       string
	Constraint TsType
	Default    TsType
}

// Function is shared by function declarations, function expressions, methods
// and constructors.
type Function struct {
	Base
	TypeParams []*TypeParamDecl
	Params     []Pat
	ReturnType TsType
	Body       *BlockStmt // nil for overload signatures and ambient declarations
	Async      bool
	Generator  bool
}

// Class is shared by class declarations and class expressions.
type Class struct {
	Base
	TypeParams    []*TypeParamDecl
	SuperClass    Expr
	SuperTypeArgs []TsType
	Implements    []TsType
	Body          []ClassMember
}

// ClassMember is a member of a class body.
type ClassMember interface {
	Node
	classMemberNode()
}

// Constructor is a class constructor.
type Constructor struct {
	Base
	Params []Pat
	Body   *BlockStmt
}

// MethodKind distinguishes plain methods from accessors.
type MethodKind int

const (
	MethodPlain MethodKind = iota
	MethodGetter
	MethodSetter
)

// ClassMethod is a method or accessor.
type ClassMethod struct {
	Base
	Key    *PropName
	Fn     *Function
	Kind   MethodKind
	Static bool
}

// ClassProp is a class field.
type ClassProp struct {
	Base
	Key      *PropName
	Value    Expr
	Type     TsType
	Static   bool
	Optional bool
	Readonly bool
}

func (*Constructor) classMemberNode() {}
func (*ClassMethod) classMemberNode() {}
func (*ClassProp) classMemberNode()   {}
