package modules

import (
	"fmt"
	"sort"
	"strings"

	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// Specifier binds one export of the imported module to a local name.
type Specifier struct {
	Local  string
	Export string // "default" for default imports
	Span   source.Span
}

// ImportInfo is one import request.
//
//	import a, {b as c} from "m"   Items: default->a, b->c
//	import * as ns from "m"       All, Namespace: "ns"
//	require("m")                  All, Namespace: ""
//	export * from "m"             All, ReExport
//	export {a as b} from "m"      Items: a->b, ReExport
type ImportInfo struct {
	Src       string
	Items     []Specifier
	All       bool
	Namespace string
	Span      source.Span
	ReExport  bool
}

// IsRequire reports whether the request stems from a require call.
func (i *ImportInfo) IsRequire() bool {
	return i.All && i.Namespace == "" && !i.ReExport
}

// LocalNames lists the names the request binds in the importing module.
// `export * from` and require calls bind none.
func (i *ImportInfo) LocalNames() []string {
	if i.Namespace != "" {
		return []string{i.Namespace}
	}
	if i.ReExport {
		return nil
	}
	names := make([]string, 0, len(i.Items))
	for _, it := range i.Items {
		names = append(names, it.Local)
	}
	return names
}

func (i *ImportInfo) String() string {
	var sb strings.Builder
	switch {
	case i.IsRequire():
		fmt.Fprintf(&sb, "require(%q)", i.Src)
		return sb.String()
	case i.ReExport:
		sb.WriteString("export ")
	default:
		sb.WriteString("import ")
	}
	switch {
	case i.Namespace != "":
		sb.WriteString("* as " + i.Namespace)
	case i.All:
		sb.WriteString("*")
	default:
		parts := make([]string, len(i.Items))
		for idx, it := range i.Items {
			if it.Local == it.Export {
				parts[idx] = it.Local
			} else {
				parts[idx] = it.Export + " as " + it.Local
			}
		}
		sb.WriteString("{" + strings.Join(parts, ", ") + "}")
	}
	fmt.Fprintf(&sb, " from %q", i.Src)
	return sb.String()
}

// NamespaceType builds the object type of a module namespace: one readonly
// property per export, in name order.
func NamespaceType(exports map[string]types.Type) *types.TypeLiteral {
	names := make([]string, 0, len(exports))
	for name := range exports {
		names = append(names, name)
	}
	sort.Strings(names)

	members := make([]types.TypeElement, 0, len(names))
	for _, name := range names {
		members = append(members, &types.Property{
			Key:      types.Key{Name: name},
			Type:     exports[name],
			Readonly: true,
		})
	}
	return &types.TypeLiteral{Members: members}
}
