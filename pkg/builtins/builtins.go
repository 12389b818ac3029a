// Package builtins provides the host-defined types and globals the checker
// falls back to: Object, Array<T>, String, console and friends.
//
// Tables are built once per lib combination and shared read-only between
// concurrent module checks.
package builtins

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"tscheck/pkg/types"
)

// ErrNotFound is returned (wrapped) when a builtin name is not declared by
// the requested libs.
var ErrNotFound = errors.New("builtin not found")

// Table holds the declarations of one lib combination.
type Table struct {
	libs  []Lib
	types map[string]types.Type
	vars  map[string]types.Type
}

// Type returns a builtin type by name.
func (t *Table) Type(name string) (types.Type, bool) {
	ty, ok := t.types[name]
	return ty, ok
}

// Var returns a builtin global value's type by name.
func (t *Table) Var(name string) (types.Type, bool) {
	ty, ok := t.vars[name]
	return ty, ok
}

// Libs returns the libs the table was built from.
func (t *Table) Libs() []Lib { return t.libs }

var tables sync.Map // canonical lib key -> *tableEntry

type tableEntry struct {
	once  sync.Once
	table *Table
	err   error
}

// Load returns the table for libs, building it on first use.
func Load(libs []Lib) (*Table, error) {
	if len(libs) == 0 {
		libs = DefaultLibs
	}
	canon := slices.Clone(libs)
	slices.Sort(canon)
	canon = slices.Compact(canon)
	key := joinLibs(canon)

	v, _ := tables.LoadOrStore(key, &tableEntry{})
	e := v.(*tableEntry)
	e.once.Do(func() {
		e.table, e.err = build(canon, GetStandardInitializers())
	})
	return e.table, e.err
}

// MustLoad is Load for static lib sets known to be valid. It panics if
// the table cannot be built.
func MustLoad(libs []Lib) *Table {
	t, err := Load(libs)
	if err != nil {
		panic(err)
	}
	return t
}

func build(libs []Lib, initializers []BuiltinInitializer) (*Table, error) {
	t := &Table{
		libs:  libs,
		types: make(map[string]types.Type),
		vars:  make(map[string]types.Type),
	}
	ctx := &TypeContext{
		DefineGlobal: func(name string, typ types.Type) error {
			if _, exists := t.vars[name]; exists {
				return fmt.Errorf("global %s already defined", name)
			}
			t.vars[name] = typ
			return nil
		},
		DefineType: func(name string, typ types.Type) error {
			if _, exists := t.types[name]; exists {
				return fmt.Errorf("type %s already defined", name)
			}
			t.types[name] = typ
			return nil
		},
		GetType: func(name string) (types.Type, bool) {
			typ, ok := t.types[name]
			return typ, ok
		},
	}

	sort.SliceStable(initializers, func(i, j int) bool {
		return initializers[i].Priority() < initializers[j].Priority()
	})
	for _, init := range initializers {
		if !slices.Contains(libs, init.Lib()) {
			continue
		}
		if err := init.InitTypes(ctx); err != nil {
			return nil, fmt.Errorf("builtins: init %s: %w", init.Name(), err)
		}
	}
	return t, nil
}

// GetType looks up a builtin type declared by libs.
func GetType(libs []Lib, name string) (types.Type, error) {
	t, err := Load(libs)
	if err != nil {
		return nil, err
	}
	if ty, ok := t.Type(name); ok {
		return ty, nil
	}
	return nil, fmt.Errorf("type %q in %s: %w", name, joinLibs(t.libs), ErrNotFound)
}

// GetVar looks up the type of a builtin global value declared by libs.
func GetVar(libs []Lib, name string) (types.Type, error) {
	t, err := Load(libs)
	if err != nil {
		return nil, err
	}
	if ty, ok := t.Var(name); ok {
		return ty, nil
	}
	return nil, fmt.Errorf("global %q in %s: %w", name, joinLibs(t.libs), ErrNotFound)
}

// ParseLibs converts configuration strings to libs, rejecting unknown names.
func ParseLibs(names []string) ([]Lib, error) {
	out := make([]Lib, 0, len(names))
	for _, n := range names {
		switch l := Lib(strings.ToLower(n)); l {
		case ES5, ES2015, DOM:
			out = append(out, l)
		default:
			return nil, fmt.Errorf("unknown lib %q", n)
		}
	}
	return out, nil
}

func joinLibs(libs []Lib) string {
	parts := make([]string, len(libs))
	for i, l := range libs {
		parts[i] = string(l)
	}
	return strings.Join(parts, ",")
}
