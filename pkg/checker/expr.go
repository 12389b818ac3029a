package checker

import (
	"strconv"

	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/source"
	"tscheck/pkg/types"
)

// typeOf infers the type of an expression. It is total: every failure is
// reported and replaced by any, so callers never see a missing type.
func (a *analyzer) typeOf(e ast.Expr) types.Type {
	t := a.typeOfExpr(e)
	if t == nil {
		return types.Any
	}
	return t
}

func (a *analyzer) typeOfExpr(e ast.Expr) types.Type {
	switch e := e.(type) {
	case nil:
		return types.Any

	// --- Literals ---
	case *ast.StrLit:
		return types.StrLit(e.Value)
	case *ast.NumLit:
		return types.NumLit(e.Value)
	case *ast.BoolLit:
		return types.BoolLit(e.Value)
	case *ast.NullLit:
		return types.Null
	case *ast.RegexLit:
		if _, ok := a.c.builtins.Type("RegExp"); ok {
			return &types.TypeRef{Name: "RegExp"}
		}
		return types.Any
	case *ast.TemplateLit:
		for _, x := range e.Exprs {
			a.typeOf(x)
		}
		return types.String

	case *ast.Ident:
		return a.typeOfIdent(e)

	// --- Composite literals ---
	case *ast.ArrayLit:
		return a.typeOfArray(e)
	case *ast.ObjectLit:
		return a.typeOfObject(e)

	// --- Functions and classes ---
	case *ast.FnExpr:
		name := ""
		if e.Ident != nil {
			name = e.Ident.Name
		}
		return a.visitFn(name, e.Fn, nil)
	case *ast.ArrowExpr:
		return a.visitArrow(e)
	case *ast.ClassExpr:
		return a.typeOfClassExpr(e)

	// --- Operators ---
	case *ast.UnaryExpr:
		return a.typeOfUnary(e)
	case *ast.UpdateExpr:
		a.checkWritable(e.Arg, e.Span)
		a.typeOf(e.Arg)
		return types.Number
	case *ast.BinExpr:
		return a.typeOfBinary(e.Op, a.typeOf(e.Left), a.typeOf(e.Right))
	case *ast.AssignExpr:
		return a.typeOfAssign(e)
	case *ast.CondExpr:
		a.typeOf(e.Test)
		return types.NewUnion(a.typeOf(e.Cons), a.typeOf(e.Alt))
	case *ast.SeqExpr:
		var last types.Type = types.Undefined
		for _, x := range e.Exprs {
			last = a.typeOf(x)
		}
		return last
	case *ast.ParenExpr:
		return a.typeOf(e.Expr)

	// --- Access and invocation ---
	case *ast.MemberExpr:
		return a.typeOfMember(e)
	case *ast.CallExpr:
		return a.resolveCall(e.Span, e.Callee, ExtractCall, e.Args, e.TypeArgs)
	case *ast.NewExpr:
		return a.resolveCall(e.Span, e.Callee, ExtractNew, e.Args, e.TypeArgs)
	case *ast.ThisExpr:
		if t, ok := a.scopes.This(a.cur); ok {
			return t
		}
		return types.Any
	case *ast.SuperExpr:
		return a.superType()

	// --- TypeScript forms ---
	case *ast.AsExpr:
		a.typeOf(e.Expr)
		return a.resolveAnnotation(e.Type)
	case *ast.NonNullExpr:
		return types.RemoveNullish(a.typeOf(e.Expr))
	case *ast.AwaitExpr:
		return a.awaited(a.typeOf(e.Arg))
	case *ast.InvalidExpr:
		return types.Any
	}
	debugPrintf("// [Checker typeOf] unhandled expression %T\n", e)
	return types.Any
}

// --- Identifiers ---

// typeOfIdent resolves a name: scope, resolved imports, errored imports,
// builtin globals.
func (a *analyzer) typeOfIdent(id *ast.Ident) types.Type {
	if d, ok := a.isDeclaring(id.Name); ok && d.strict {
		err := a.errorf(errors.SelfReference, id.Span, "'%s' is referenced directly or indirectly in its own initializer", id.Name)
		err.Name = id.Name
		return types.Any
	}
	if v, ok := a.scopes.Find(a.cur, id.Name); ok {
		return v.Type()
	}
	if t, ok := a.resolvedImports[id.Name]; ok {
		return t
	}
	if a.erroredImports[id.Name] {
		return types.Any
	}
	if t, ok := a.c.builtins.Var(id.Name); ok {
		return t
	}
	if _, ok := a.isDeclaring(id.Name); ok {
		// Referenced from a closure in its own initializer.
		return types.Any
	}
	if id.Name == "arguments" && a.frame() != nil {
		return &types.Array{Elem: types.Any}
	}
	err := a.errorf(errors.UndefinedSymbol, id.Span, "cannot find name '%s'", id.Name)
	err.Name = id.Name
	return types.Any
}

// --- Literals ---

func (a *analyzer) typeOfArray(e *ast.ArrayLit) types.Type {
	var elems []types.Type
	spread := false
	for _, el := range e.Elems {
		if el == nil {
			elems = append(elems, types.Undefined)
			continue
		}
		t := a.typeOf(el.Expr)
		if !el.Spread {
			elems = append(elems, t)
			continue
		}
		switch v := a.expand(t).(type) {
		case *types.Tuple:
			elems = append(elems, v.Elems...)
		case *types.Array:
			spread = true
			elems = append(elems, v.Elem)
		default:
			spread = true
			elems = append(elems, types.Any)
		}
	}
	if spread {
		return &types.Array{Elem: types.NewUnion(elems...)}
	}
	if elems == nil {
		elems = []types.Type{}
	}
	return &types.Tuple{Elems: elems}
}

func (a *analyzer) typeOfObject(e *ast.ObjectLit) types.Type {
	lit := &types.TypeLiteral{}
	set := func(el types.TypeElement) {
		k := el.ElementKey()
		if k.Computed {
			return
		}
		for i, m := range lit.Members {
			if m.ElementKey() == k {
				lit.Members[i] = el
				return
			}
		}
		lit.Members = append(lit.Members, el)
	}

	for _, p := range e.Props {
		switch p := p.(type) {
		case *ast.KeyValueProp:
			key := a.propKey(p.Key)
			set(&types.Property{Key: key, Type: a.typeOf(p.Value)})
		case *ast.ShorthandProp:
			set(&types.Property{Key: types.Key{Name: p.Name.Name}, Type: a.typeOfIdent(p.Name)})
		case *ast.MethodProp:
			key := a.propKey(p.Key)
			sig := a.visitFn("", p.Fn, lit)
			switch p.Kind {
			case ast.MethodGetter:
				set(&types.Property{Key: key, Type: sig.Return})
			case ast.MethodSetter:
				if lit.Lookup(key.Name) == nil {
					pt := types.Type(types.Any)
					if len(sig.Params) > 0 {
						pt = sig.Params[0].Type
					}
					set(&types.Property{Key: key, Type: pt})
				}
			default:
				set(&types.Method{Key: key, Sig: sig})
			}
		case *ast.SpreadProp:
			t := a.typeOf(p.Expr)
			for _, m := range types.Members(t, a.expander()) {
				switch m.(type) {
				case *types.Property, *types.Method:
					set(m)
				}
			}
		}
	}
	return lit
}

// --- Operators ---

func (a *analyzer) typeOfUnary(e *ast.UnaryExpr) types.Type {
	t := a.typeOf(e.Arg)
	switch e.Op {
	case "!", "delete":
		return types.Boolean
	case "typeof":
		return types.String
	case "void":
		return types.Undefined
	case "-", "+", "~":
		if l, ok := types.Normalize(t).(*types.Literal); ok && l.Kind == types.LitNumber && e.Op == "-" {
			return types.NumLit(-l.Num)
		}
		return types.Number
	}
	return types.Any
}

func (a *analyzer) typeOfBinary(op string, left, right types.Type) types.Type {
	switch op {
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "in", "instanceof":
		return types.Boolean
	case "&&":
		return right
	case "||":
		return types.NewUnion(left, right)
	case "??":
		return types.NewUnion(types.RemoveNullish(left), right)
	case "+":
		l, r := a.expand(types.Widen(left)), a.expand(types.Widen(right))
		switch {
		case l == types.String || r == types.String:
			return types.String
		case l == types.Any || r == types.Any:
			return types.Any
		case isNumeric(l) && isNumeric(r):
			return types.Number
		}
		return types.String
	}
	return types.Number
}

func isNumeric(t types.Type) bool {
	if e, ok := t.(*types.Enum); ok {
		return e.IsNumeric()
	}
	return t == types.Number
}

// typeOfAssign types an assignment. Plain `=` checks the value against the
// target's type; compound assignments only type both sides.
func (a *analyzer) typeOfAssign(e *ast.AssignExpr) types.Type {
	rhs := a.typeOf(e.Right)
	if !a.checkWritable(e.Left, e.Span) {
		return rhs
	}

	var target types.Type
	switch l := e.Left.(type) {
	case *ast.Ident:
		v, ok := a.scopes.Find(a.cur, l.Name)
		if !ok {
			target = a.typeOfIdent(l)
			break
		}
		target = v.Type()
		if !v.Initialized && v.Declared == nil {
			// `let x;` takes its type from the first assignment.
			v.Inferred = types.DeepWiden(rhs)
			v.Initialized = true
			return rhs
		}
	case *ast.MemberExpr:
		target = a.typeOfMember(l)
	default:
		target = a.typeOf(l)
	}

	if e.Op != "=" {
		return a.typeOfBinary(e.Op[:len(e.Op)-1], target, rhs)
	}
	if !a.assignable(rhs, target) {
		err := a.errorf(errors.AssignFailed, e.Span, "type '%s' is not assignable to type '%s'", rhs, target)
		err.Expected, err.Actual = target, rhs
	}
	return rhs
}

// checkWritable reports assignments to constants. It returns false when
// the target may not be written.
func (a *analyzer) checkWritable(target ast.Expr, span source.Span) bool {
	id, ok := target.(*ast.Ident)
	if !ok {
		return true
	}
	v, ok := a.scopes.Find(a.cur, id.Name)
	if !ok {
		if _, imported := a.resolvedImports[id.Name]; imported {
			err := a.errorf(errors.ConstAssign, span, "cannot assign to '%s' because it is an import", id.Name)
			err.Name = id.Name
			return false
		}
		return true
	}
	if v.Mutable() {
		return true
	}
	err := a.errorf(errors.ConstAssign, span, "cannot assign to '%s' because it is a %s", id.Name, constKind(v.Kind))
	err.Name = id.Name
	return false
}

func constKind(k scope.VarKind) string {
	if k == scope.Const {
		return "constant"
	}
	return k.String()
}

// --- Member access ---

func (a *analyzer) typeOfMember(e *ast.MemberExpr) types.Type {
	obj := a.typeOf(e.Obj)
	name, static := e.PropName()
	var index types.Type
	if e.Computed {
		index = a.typeOf(e.Prop)
		if l, ok := types.Normalize(index).(*types.Literal); ok && l.Kind == types.LitNumber {
			name, static = strconv.FormatFloat(l.Num, 'g', -1, 64), true
		}
	}
	if !static {
		return a.indexType(obj, index)
	}
	return a.access(e.Span, obj, name)
}

// indexType is the type of `obj[expr]` with a key not known statically.
func (a *analyzer) indexType(obj, index types.Type) types.Type {
	switch v := a.expand(obj).(type) {
	case *types.Array:
		return v.Elem
	case *types.Tuple:
		return v.ElemUnion()
	case *types.Keyword:
		if v == types.String {
			return types.String
		}
	}
	return types.Any
}

// access is the type of `obj.name`.
func (a *analyzer) access(span source.Span, obj types.Type, name string) types.Type {
	t := a.expand(types.Widen(obj))
	switch v := t.(type) {
	case *types.Keyword:
		switch v {
		case types.Any:
			return types.Any
		case types.Unknown:
			a.errorf(errors.UnknownTypeUsed, span, "object is of type 'unknown'")
			return types.Any
		case types.Null, types.Undefined, types.Void, types.Never:
			err := a.errorf(errors.NoSuchProperty, span, "property '%s' does not exist on type '%s'", name, v)
			err.Name = name
			return types.Any
		}
	case *types.TypeQuery:
		return types.Any
	case *types.Param:
		if v.Constraint == nil {
			return types.Any
		}
		return a.access(span, v.Constraint, name)
	case *types.Enum:
		if v.Member(name) != nil {
			return &types.EnumVariant{Enum: v, Name: name}
		}
	case *types.Tuple:
		if i, err := strconv.Atoi(name); err == nil {
			if i >= 0 && i < len(v.Elems) {
				return v.Elems[i]
			}
			return types.Undefined
		}
		if name == "length" {
			return types.NumLit(float64(len(v.Elems)))
		}
	case *types.Array:
		if _, err := strconv.Atoi(name); err == nil {
			return v.Elem
		}
	case *types.Union:
		return a.accessUnion(span, v, name)
	}

	recv := a.box(t)
	if m := types.FindMember(recv, name, a.expander()); m != nil {
		return types.ElementType(m)
	}
	if a.objectIface != nil {
		if m := types.FindMember(a.objectIface, name, a.expander()); m != nil {
			return types.ElementType(m)
		}
	}
	err := a.errorf(errors.NoSuchProperty, span, "property '%s' does not exist on type '%s'", name, t)
	err.Name = name
	return types.Any
}

// accessUnion reads a property of every union member. The access fails as
// a whole, once, when a member lacks the property.
func (a *analyzer) accessUnion(span source.Span, u *types.Union, name string) types.Type {
	mark := len(a.info.Errors)
	out := make([]types.Type, 0, len(u.Types))
	for _, m := range u.Types {
		out = append(out, a.access(span, m, name))
	}
	if len(a.info.Errors) > mark {
		nested := append([]*errors.Error(nil), a.info.Errors[mark:]...)
		a.info.Errors = a.info.Errors[:mark]
		err := a.errorf(errors.NoSuchProperty, span, "property '%s' does not exist on type '%s'", name, u)
		err.Name = name
		err.Wrap(nested...)
		return types.Any
	}
	return types.NewUnion(out...)
}

// superType is the instance type of the enclosing class's base.
func (a *analyzer) superType() types.Type {
	this, ok := a.scopes.This(a.cur)
	if !ok {
		return types.Any
	}
	switch v := this.(type) {
	case *types.ClassInstance:
		if v.Class.Super != nil {
			return types.Substitute(v.Class.Super, v.Bindings())
		}
	case *types.Class:
		if sup, ok := a.expand(v.Super).(*types.ClassInstance); ok {
			return sup.Class
		}
	}
	return types.Any
}

// awaited unwraps Promise<T>.
func (a *analyzer) awaited(t types.Type) types.Type {
	switch v := a.expand(t).(type) {
	case *types.Interface:
		if v.Name == "Promise" && len(v.TypeArgs) == 1 {
			return v.TypeArgs[0]
		}
	case *types.Union:
		out := make([]types.Type, len(v.Types))
		for i, m := range v.Types {
			out[i] = a.awaited(m)
		}
		return types.NewUnion(out...)
	}
	return t
}
