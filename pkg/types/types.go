package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Type is the interface implemented by all type representations.
type Type interface {
	// String returns a string representation of the type, suitable for
	// diagnostics and the REPL.
	String() string
	// Equals checks if this type is structurally equivalent to another type.
	Equals(other Type) bool

	// typeNode() is a marker method to ensure only types defined in this package
	// can be assigned to the Type interface. This keeps the type system closed.
	typeNode()
}

// --- Keyword Types ---

// Keyword represents a predefined, non-composite type.
type Keyword struct {
	Name string
}

func (k *Keyword) String() string { return k.Name }
func (k *Keyword) typeNode()      {}
func (k *Keyword) Equals(other Type) bool {
	// Keywords are singletons, so pointer equality is sufficient.
	return k == other
}

// Pre-defined instances for the keyword types
var (
	Any       = &Keyword{Name: "any"}
	Unknown   = &Keyword{Name: "unknown"}
	Number    = &Keyword{Name: "number"}
	String    = &Keyword{Name: "string"}
	Boolean   = &Keyword{Name: "boolean"}
	Symbol    = &Keyword{Name: "symbol"}
	Undefined = &Keyword{Name: "undefined"}
	Null      = &Keyword{Name: "null"}
	Void      = &Keyword{Name: "void"}
	Never     = &Keyword{Name: "never"}
	Object    = &Keyword{Name: "object"}
)

// IsPrimitive reports whether t is number, string, boolean or symbol.
func IsPrimitive(t Type) bool {
	return t == Number || t == String || t == Boolean || t == Symbol
}

// IsNullish reports whether t is null or undefined.
func IsNullish(t Type) bool {
	return t == Null || t == Undefined
}

// --- Literal Types ---

// LitKind is the primitive a literal type belongs to.
type LitKind int

const (
	LitString LitKind = iota
	LitNumber
	LitBoolean
)

// Literal represents a literal type like "a", 1 or true.
type Literal struct {
	Kind LitKind
	Str  string
	Num  float64
	Bool bool
}

// StrLit returns the literal type of a string value.
func StrLit(s string) *Literal { return &Literal{Kind: LitString, Str: s} }

// NumLit returns the literal type of a number value.
func NumLit(n float64) *Literal { return &Literal{Kind: LitNumber, Num: n} }

// BoolLit returns the literal type of a boolean value.
func BoolLit(b bool) *Literal { return &Literal{Kind: LitBoolean, Bool: b} }

func (l *Literal) String() string {
	switch l.Kind {
	case LitString:
		return strconv.Quote(l.Str)
	case LitNumber:
		return strconv.FormatFloat(l.Num, 'g', -1, 64)
	default:
		return strconv.FormatBool(l.Bool)
	}
}
func (l *Literal) typeNode() {}
func (l *Literal) Equals(other Type) bool {
	o, ok := other.(*Literal)
	if !ok {
		return false
	}
	if l.Kind != o.Kind {
		return false
	}
	switch l.Kind {
	case LitString:
		return l.Str == o.Str
	case LitNumber:
		return l.Num == o.Num
	default:
		return l.Bool == o.Bool
	}
}

// Base returns the keyword type the literal widens to.
func (l *Literal) Base() Type {
	switch l.Kind {
	case LitString:
		return String
	case LitNumber:
		return Number
	default:
		return Boolean
	}
}

// --- Type Parameters ---

// Param is a generic type parameter (e.g. T in Array<T>). Inside a generic
// body, references to the parameter are the *Param itself.
type Param struct {
	Name       string
	Constraint Type // nil if unconstrained
	Default    Type // nil if no default
}

func (p *Param) String() string { return p.Name }
func (p *Param) typeNode()      {}
func (p *Param) Equals(other Type) bool {
	o, ok := other.(*Param)
	return ok && (p == o || p.Name == o.Name)
}

// Declaration renders the parameter with its constraint and default.
func (p *Param) Declaration() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	if p.Constraint != nil {
		sb.WriteString(" extends ")
		sb.WriteString(p.Constraint.String())
	}
	if p.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(p.Default.String())
	}
	return sb.String()
}

func typeParamsString(ps []*Param) string {
	if len(ps) == 0 {
		return ""
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = p.Declaration()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

func typeArgsString(ts []Type) string {
	if len(ts) == 0 {
		return ""
	}
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return "<" + strings.Join(parts, ", ") + ">"
}

// --- Function Types ---

// FnParam is one value parameter of a function signature. A rest parameter
// has an array type.
type FnParam struct {
	Name     string
	Type     Type
	Optional bool
	Rest     bool
}

// Function represents a function signature. It is also the shape shared by
// methods, call signatures and constructor signatures.
type Function struct {
	TypeParams []*Param
	Params     []FnParam
	Return     Type
}

func (f *Function) String() string {
	return f.signature(" => ")
}

func (f *Function) signature(arrow string) string {
	var sb strings.Builder
	sb.WriteString(typeParamsString(f.TypeParams))
	sb.WriteString("(")
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Rest {
			sb.WriteString("...")
		}
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("arg%d", i)
		}
		sb.WriteString(name)
		if p.Optional {
			sb.WriteString("?")
		}
		sb.WriteString(": ")
		sb.WriteString(typeString(p.Type))
	}
	sb.WriteString(")")
	sb.WriteString(arrow)
	sb.WriteString(typeString(f.Return))
	return sb.String()
}

func (f *Function) typeNode() {}
func (f *Function) Equals(other Type) bool {
	o, ok := other.(*Function)
	if !ok {
		return false
	}
	if f == o {
		return true
	}
	if len(f.TypeParams) != len(o.TypeParams) || len(f.Params) != len(o.Params) {
		return false
	}
	for i, p := range f.Params {
		q := o.Params[i]
		if p.Optional != q.Optional || p.Rest != q.Rest || !equal(p.Type, q.Type) {
			return false
		}
	}
	return equal(f.Return, o.Return)
}

// MinArgs is the number of required parameters.
func (f *Function) MinArgs() int {
	n := 0
	for _, p := range f.Params {
		if p.Optional || p.Rest {
			break
		}
		n++
	}
	return n
}

// MaxArgs is the number of accepted arguments, or -1 with a rest parameter.
func (f *Function) MaxArgs() int {
	for _, p := range f.Params {
		if p.Rest {
			return -1
		}
	}
	return len(f.Params)
}

// ParamAt returns the declared type receiving argument i, unwrapping a rest
// parameter's array. ok is false past the end of a rest-less list.
func (f *Function) ParamAt(i int) (Type, bool) {
	if i < len(f.Params) && !f.Params[i].Rest {
		return f.Params[i].Type, true
	}
	if n := len(f.Params); n > 0 && f.Params[n-1].Rest {
		if arr, ok := Normalize(f.Params[n-1].Type).(*Array); ok {
			return arr.Elem, true
		}
		return Any, true
	}
	return nil, false
}

// --- Unresolved annotation forms ---

// TypeRef is a named type reference that has not been expanded against scope.
type TypeRef struct {
	Name     string
	TypeArgs []Type
}

func (r *TypeRef) String() string { return r.Name + typeArgsString(r.TypeArgs) }
func (r *TypeRef) typeNode()      {}
func (r *TypeRef) Equals(other Type) bool {
	o, ok := other.(*TypeRef)
	return ok && r.Name == o.Name && equalList(r.TypeArgs, o.TypeArgs)
}

// TypeQuery is `typeof name`. A function's own name is bound to a TypeQuery
// while its body is being checked.
type TypeQuery struct {
	Name string
}

func (q *TypeQuery) String() string { return "typeof " + q.Name }
func (q *TypeQuery) typeNode()      {}
func (q *TypeQuery) Equals(other Type) bool {
	o, ok := other.(*TypeQuery)
	return ok && q.Name == o.Name
}

// --- Static Types ---

// Static is the type of a const binding initialized with a literal: it keeps
// the literal Value alongside the Declared (widened) type.
type Static struct {
	Value    Type
	Declared Type
}

func (s *Static) String() string { return s.Value.String() }
func (s *Static) typeNode()      {}
func (s *Static) Equals(other Type) bool {
	return s.Value.Equals(Normalize(other))
}

// --- Helpers ---

// Normalize strips Alias and Static layers. Every structural dispatch site
// calls it first.
func Normalize(t Type) Type {
	for i := 0; i < 64; i++ {
		switch v := t.(type) {
		case *Alias:
			if v.Target == nil {
				return Any
			}
			t = v.Target
		case *Static:
			t = v.Value
		default:
			return t
		}
	}
	return t
}

func typeString(t Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

func equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}

func equalList(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equal(a[i], b[i]) {
			return false
		}
	}
	return true
}
