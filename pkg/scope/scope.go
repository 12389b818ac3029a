// Package scope implements the lexical scope chain used by the checker.
//
// Scopes live in an Arena and are addressed by ID; a scope refers to its
// parent by ID only, so no scope holds a pointer into another. The arena is
// owned by a single module traversal and is not safe for concurrent use.
package scope

import (
	"tscheck/pkg/errors"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// ID addresses a scope inside an Arena.
type ID int32

// None is the parent of a root scope.
const None ID = -1

// Kind enumerates scope categories.
type Kind uint8

const (
	Module Kind = iota
	Function
	Block
	Class
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "module"
	case Function:
		return "function"
	case Block:
		return "block"
	case Class:
		return "class"
	default:
		return "invalid"
	}
}

// VarKind records how a value binding was introduced.
type VarKind uint8

const (
	Var VarKind = iota
	Let
	Const
	Param
	Fn
	ClassDecl
	EnumDecl
	Import
)

func (k VarKind) String() string {
	switch k {
	case Var:
		return "var"
	case Let:
		return "let"
	case Const:
		return "const"
	case Param:
		return "parameter"
	case Fn:
		return "function"
	case ClassDecl:
		return "class"
	case EnumDecl:
		return "enum"
	case Import:
		return "import"
	default:
		return "invalid"
	}
}

// VarInfo is a value binding.
type VarInfo struct {
	Kind        VarKind
	Declared    types.Type // annotation or declaration type, nil if none
	Inferred    types.Type // initializer type, nil if none
	Initialized bool
	Span        source.Span
}

// Type is the binding's effective type: declared, then inferred, then any.
func (v *VarInfo) Type() types.Type {
	switch {
	case v.Declared != nil:
		return v.Declared
	case v.Inferred != nil:
		return v.Inferred
	default:
		return types.Any
	}
}

// Mutable reports whether the binding may be reassigned.
func (v *VarInfo) Mutable() bool {
	switch v.Kind {
	case Const, ClassDecl, EnumDecl, Import:
		return false
	}
	return true
}

type scope struct {
	parent      ID
	kind        Kind
	vars        map[string]*VarInfo
	types       map[string]types.Type
	this        types.Type
	declaringFn string
}

// Arena stores every scope of one module traversal.
type Arena struct {
	scopes []scope
	depth  int
}

// NewArena returns an arena holding a single root Module scope, ID 0.
func NewArena() *Arena {
	a := &Arena{}
	a.scopes = append(a.scopes, scope{parent: None, kind: Module})
	return a
}

// Root is the module scope.
func (a *Arena) Root() ID { return 0 }

// Push opens a child scope of parent.
func (a *Arena) Push(parent ID, kind Kind) ID {
	a.scopes = append(a.scopes, scope{parent: parent, kind: kind})
	a.depth++
	return ID(len(a.scopes) - 1)
}

// Pop closes id and returns its parent. Scopes are closed in LIFO order;
// closed scopes stay in the arena but are no longer reachable from the
// traversal.
func (a *Arena) Pop(id ID) ID {
	a.depth--
	return a.scopes[id].parent
}

// Depth is the number of currently open child scopes.
func (a *Arena) Depth() int { return a.depth }

// Kind returns the category of id.
func (a *Arena) Kind(id ID) Kind { return a.scopes[id].kind }

// VarScope returns the nearest Function or Module scope, where `var` and
// function declarations are hoisted to.
func (a *Arena) VarScope(id ID) ID {
	for cur := id; cur != None; cur = a.scopes[cur].parent {
		if k := a.scopes[cur].kind; k == Function || k == Module {
			return cur
		}
	}
	return a.Root()
}

// --- Value namespace ---

// Declare binds name in scope id. Redeclaring a name already bound in the
// same scope is a DuplicateVar error unless allowRedeclare is set or both
// bindings are `var`; on error the existing binding is kept.
func (a *Arena) Declare(id ID, span source.Span, name string, kind VarKind, ty types.Type, initialized, allowRedeclare bool) *errors.Error {
	s := &a.scopes[id]
	if s.vars == nil {
		s.vars = make(map[string]*VarInfo)
	}
	if old, ok := s.vars[name]; ok && !allowRedeclare {
		if !(old.Kind == Var && kind == Var) {
			err := errors.New(errors.DuplicateVar, span, "cannot redeclare block-scoped variable '%s'", name)
			err.Name = name
			return err
		}
	}
	info := &VarInfo{Kind: kind, Initialized: initialized, Span: span}
	if kind == Var || kind == Let {
		info.Inferred = ty
	} else {
		info.Declared = ty
	}
	s.vars[name] = info
	return nil
}

// Find returns the nearest enclosing binding of name.
func (a *Arena) Find(id ID, name string) (*VarInfo, bool) {
	for cur := id; cur != None; cur = a.scopes[cur].parent {
		if v, ok := a.scopes[cur].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// FindOwn returns the binding of name in id itself.
func (a *Arena) FindOwn(id ID, name string) (*VarInfo, bool) {
	v, ok := a.scopes[id].vars[name]
	return v, ok
}

// Override replaces the binding of name in id, declaring it when absent.
// The binding's span and initialization state are kept.
func (a *Arena) Override(id ID, kind VarKind, name string, ty types.Type) {
	s := &a.scopes[id]
	if s.vars == nil {
		s.vars = make(map[string]*VarInfo)
	}
	old, ok := s.vars[name]
	if !ok {
		s.vars[name] = &VarInfo{Kind: kind, Declared: ty, Initialized: true}
		return
	}
	old.Kind = kind
	old.Declared = ty
	old.Initialized = true
}

// Names returns the value names bound directly in id.
func (a *Arena) Names(id ID) []string {
	names := make([]string, 0, len(a.scopes[id].vars))
	for n := range a.scopes[id].vars {
		names = append(names, n)
	}
	return names
}

// --- Type namespace ---

// RegisterType binds a type name in scope id, replacing any previous one.
func (a *Arena) RegisterType(id ID, name string, ty types.Type) {
	s := &a.scopes[id]
	if s.types == nil {
		s.types = make(map[string]types.Type)
	}
	s.types[name] = ty
}

// FindType returns the nearest enclosing type binding of name.
func (a *Arena) FindType(id ID, name string) (types.Type, bool) {
	for cur := id; cur != None; cur = a.scopes[cur].parent {
		if t, ok := a.scopes[cur].types[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// --- this / declaring function ---

// SetThis sets the type of `this` inside id.
func (a *Arena) SetThis(id ID, ty types.Type) {
	a.scopes[id].this = ty
}

// This returns the nearest enclosing `this` type.
func (a *Arena) This(id ID) (types.Type, bool) {
	for cur := id; cur != None; cur = a.scopes[cur].parent {
		if t := a.scopes[cur].this; t != nil {
			return t, true
		}
	}
	return nil, false
}

// SetDeclaringFn records that id is the body of the function named name.
func (a *Arena) SetDeclaringFn(id ID, name string) {
	a.scopes[id].declaringFn = name
}

// IsDeclaringFn reports whether the function named name is being declared
// by id or one of its enclosing scopes.
func (a *Arena) IsDeclaringFn(id ID, name string) bool {
	if name == "" {
		return false
	}
	for cur := id; cur != None; cur = a.scopes[cur].parent {
		if a.scopes[cur].declaringFn == name {
			return true
		}
	}
	return false
}
