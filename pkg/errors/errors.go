package errors

import (
	"fmt"
	"strings"

	"tscheck/pkg/source"
)

// Kind classifies a diagnostic. The set is closed.
type Kind int

const (
	UndefinedSymbol Kind = iota
	NoCallSignature
	NoNewSignature
	UnionError
	ImplicitAny
	ModuleLoadFailed
	DuplicateVar
	UnknownTypeUsed
	AssignFailed
	ArgCount
	TypeArgCount
	TypeArgsOnUntyped
	NoSuchProperty
	ConstAssign
	SelfReference
	Unsupported
	NotExported
	CircularImport
	Syntax
)

var kindNames = [...]string{
	UndefinedSymbol:   "UndefinedSymbol",
	NoCallSignature:   "NoCallSignature",
	NoNewSignature:    "NoNewSignature",
	UnionError:        "UnionError",
	ImplicitAny:       "ImplicitAny",
	ModuleLoadFailed:  "ModuleLoadFailed",
	DuplicateVar:      "DuplicateVar",
	UnknownTypeUsed:   "UnknownTypeUsed",
	AssignFailed:      "AssignFailed",
	ArgCount:          "ArgCount",
	TypeArgCount:      "TypeArgCount",
	TypeArgsOnUntyped: "TypeArgsOnUntyped",
	NoSuchProperty:    "NoSuchProperty",
	ConstAssign:       "ConstAssign",
	SelfReference:     "SelfReference",
	Unsupported:       "Unsupported",
	NotExported:       "NotExported",
	CircularImport:    "CircularImport",
	Syntax:            "Syntax",
}

// tsc diagnostic codes, where one exists.
var kindCodes = map[Kind]int{
	UndefinedSymbol:   2304,
	NoCallSignature:   2349,
	NoNewSignature:    2351,
	ImplicitAny:       7005,
	ModuleLoadFailed:  2307,
	DuplicateVar:      2451,
	UnknownTypeUsed:   2304,
	AssignFailed:      2322,
	ArgCount:          2554,
	TypeArgCount:      2558,
	TypeArgsOnUntyped: 2347,
	NoSuchProperty:    2339,
	ConstAssign:       2588,
	SelfReference:     7022,
	NotExported:       2305,
	Syntax:            1005,
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Code returns the conventional TS diagnostic number for the kind, or 0.
func (k Kind) Code() int { return kindCodes[k] }

// Error is a single diagnostic. Errors are values collected in a sink; they
// never unwind the analysis.
type Error struct {
	Kind Kind
	Span source.Span
	Msg  string

	// Name is the symbol, property or module specifier involved, if any.
	Name string
	// Callee, Expected and Actual carry the types involved, if any.
	Callee   fmt.Stringer
	Expected fmt.Stringer
	Actual   fmt.Stringer
	// Candidates lists the signatures considered when overload selection failed.
	Candidates []fmt.Stringer

	// Nested holds the diagnostics this one aggregates (UnionError,
	// ModuleLoadFailed).
	Nested []*Error
	Cause  error
}

// New creates a diagnostic with a formatted message.
func New(kind Kind, span source.Span, format string, args ...any) *Error {
	return &Error{Kind: kind, Span: span, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)
	if len(e.Nested) > 0 {
		sb.WriteString(" (")
		for i, n := range e.Nested {
			if i > 0 {
				sb.WriteString("; ")
			}
			sb.WriteString(n.Error())
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// Unwrap exposes nested diagnostics and the cause to errors.Is/As.
func (e *Error) Unwrap() []error {
	out := make([]error, 0, len(e.Nested)+1)
	for _, n := range e.Nested {
		out = append(out, n)
	}
	if e.Cause != nil {
		out = append(out, e.Cause)
	}
	return out
}

// CausedBy records an underlying operational error.
func (e *Error) CausedBy(cause error) *Error {
	e.Cause = cause
	return e
}

// Wrap attaches nested diagnostics.
func (e *Error) Wrap(nested ...*Error) *Error {
	e.Nested = append(e.Nested, nested...)
	return e
}

// Is matches on kind, so errors.Is(err, &Error{Kind: X}) finds any X in the tree.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Msg == ""
}

// Walk calls f for e and every nested diagnostic, depth first.
func (e *Error) Walk(f func(*Error)) {
	f(e)
	for _, n := range e.Nested {
		n.Walk(f)
	}
}

// Count returns how many diagnostics of kind k appear in errs, nested ones included.
func Count(errs []*Error, k Kind) int {
	n := 0
	for _, e := range errs {
		e.Walk(func(e *Error) {
			if e.Kind == k {
				n++
			}
		})
	}
	return n
}

// Find returns the first diagnostic of kind k in errs, nested ones included.
func Find(errs []*Error, k Kind) *Error {
	var found *Error
	for _, e := range errs {
		e.Walk(func(e *Error) {
			if found == nil && e.Kind == k {
				found = e
			}
		})
		if found != nil {
			break
		}
	}
	return found
}
