package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/types"
)

// fillEnum computes member values. Members without an initializer continue
// from the previous numeric member; initializers may refer to earlier
// members by name.
func (a *analyzer) fillEnum(e *types.Enum, d *ast.EnumDecl) {
	e.Members = e.Members[:0]
	next, afterString := 0.0, false
	for _, m := range d.Members {
		em := &types.EnumMember{Name: m.Name}
		if m.Init == nil {
			if afterString {
				a.errorf(errors.Unsupported, m.Span, "enum member '%s' must have an initializer", m.Name)
			}
			em.Num = next
		} else if v, ok := a.enumValue(e, m.Init); ok {
			em.Num, em.Str, em.IsString = v.Num, v.Str, v.IsString
		} else {
			// Computed numeric member.
			t := a.typeOf(m.Init)
			if !a.assignable(t, types.Number) {
				err := a.errorf(errors.AssignFailed, m.Init.NodeSpan(), "type '%s' is not assignable to type 'number'", t)
				err.Expected, err.Actual = types.Number, t
			}
			em.Num = next
		}
		afterString = em.IsString
		if !em.IsString {
			next = em.Num + 1
		}
		e.Members = append(e.Members, em)
	}
}

// enumValue evaluates a constant enum initializer.
func (a *analyzer) enumValue(e *types.Enum, init ast.Expr) (types.EnumMember, bool) {
	switch v := init.(type) {
	case *ast.NumLit:
		return types.EnumMember{Num: v.Value}, true
	case *ast.StrLit:
		return types.EnumMember{Str: v.Value, IsString: true}, true
	case *ast.ParenExpr:
		return a.enumValue(e, v.Expr)
	case *ast.UnaryExpr:
		x, ok := a.enumValue(e, v.Arg)
		if !ok || x.IsString {
			return x, false
		}
		switch v.Op {
		case "-":
			return types.EnumMember{Num: -x.Num}, true
		case "+":
			return x, true
		case "~":
			return types.EnumMember{Num: float64(^int32(x.Num))}, true
		}
	case *ast.BinExpr:
		l, lok := a.enumValue(e, v.Left)
		r, rok := a.enumValue(e, v.Right)
		if !lok || !rok || l.IsString || r.IsString {
			return types.EnumMember{}, false
		}
		switch v.Op {
		case "+":
			return types.EnumMember{Num: l.Num + r.Num}, true
		case "-":
			return types.EnumMember{Num: l.Num - r.Num}, true
		case "*":
			return types.EnumMember{Num: l.Num * r.Num}, true
		case "<<":
			return types.EnumMember{Num: float64(int32(l.Num) << (uint32(r.Num) & 31))}, true
		case ">>":
			return types.EnumMember{Num: float64(int32(l.Num) >> (uint32(r.Num) & 31))}, true
		case "|":
			return types.EnumMember{Num: float64(int32(l.Num) | int32(r.Num))}, true
		case "&":
			return types.EnumMember{Num: float64(int32(l.Num) & int32(r.Num))}, true
		}
	case *ast.Ident:
		if m := e.Member(v.Name); m != nil {
			return *m, true
		}
	case *ast.MemberExpr:
		if obj, ok := v.Obj.(*ast.Ident); ok && obj.Name == e.Name {
			if name, ok := v.PropName(); ok {
				if m := e.Member(name); m != nil {
					return *m, true
				}
			}
		}
	}
	return types.EnumMember{}, false
}
