package checker

import (
	"tscheck/pkg/ast"
	"tscheck/pkg/errors"
	"tscheck/pkg/scope"
	"tscheck/pkg/types"
)

// visitClassDecl fills the class hoisted under the declaration's name and
// marks the binding initialized.
func (a *analyzer) visitClassDecl(d *ast.ClassDecl) {
	cls, ok := a.ownType(d.Ident.Name).(*types.Class)
	if !ok {
		cls = &types.Class{Name: d.Ident.Name}
	}
	a.buildClass(cls, d.Class)
	a.scopes.Override(a.cur, scope.ClassDecl, d.Ident.Name, cls)
}

func (a *analyzer) typeOfClassExpr(e *ast.ClassExpr) types.Type {
	cls := &types.Class{Name: "(Anonymous class)"}
	if e.Ident == nil {
		a.buildClass(cls, e.Class)
		return cls
	}
	cls.Name = e.Ident.Name
	a.withScope(scope.Block, func(id scope.ID) {
		a.scopes.RegisterType(id, cls.Name, cls)
		_ = a.scopes.Declare(id, e.Ident.Span, cls.Name, scope.ClassDecl, cls, true, false)
		a.buildClass(cls, e.Class)
	})
	return cls
}

// buildClass converts a class body. Member shapes come from annotations
// first so bodies may use any member; property initializers are then typed
// before method bodies, whose inferred signatures replace the annotated
// ones.
func (a *analyzer) buildClass(cls *types.Class, c *ast.Class) {
	a.withScope(scope.Class, func(id scope.ID) {
		cls.TypeParams = a.declareTypeParams(c.TypeParams)
		cls.Body = nil

		if c.SuperClass != nil {
			a.extendClass(cls, c)
		}

		self := make([]types.Type, len(cls.TypeParams))
		for i, p := range cls.TypeParams {
			self[i] = p
		}
		instance := &types.ClassInstance{Class: cls, TypeArgs: self}
		a.scopes.SetThis(id, instance)

		methods := map[*ast.ClassMethod]*types.Method{}
		accessors := map[string]*types.Property{}
		props := map[*ast.ClassProp]*types.Property{}
		for _, m := range c.Body {
			switch m := m.(type) {
			case *ast.Constructor:
				sig := a.signature(nil, m.Params, nil, instance)
				cls.Body = append(cls.Body, &types.ConstructorSignature{Sig: sig})
			case *ast.ClassMethod:
				key := a.propKey(m.Key)
				switch m.Kind {
				case ast.MethodPlain:
					meth := &types.Method{Key: key, Sig: a.signature(m.Fn.TypeParams, m.Fn.Params, m.Fn.ReturnType, types.Any), Static: m.Static}
					methods[m] = meth
					cls.Body = append(cls.Body, meth)
				default:
					if p, ok := accessors[accessorKey(key, m.Static)]; ok {
						p.Readonly = false
						if m.Kind == ast.MethodGetter {
							p.Type = a.accessorType(m)
						}
						continue
					}
					p := &types.Property{Key: key, Type: a.accessorType(m), Static: m.Static, Readonly: m.Kind == ast.MethodGetter}
					accessors[accessorKey(key, m.Static)] = p
					cls.Body = append(cls.Body, p)
				}
			case *ast.ClassProp:
				p := &types.Property{Key: a.propKey(m.Key), Type: types.Any, Static: m.Static, Optional: m.Optional, Readonly: m.Readonly}
				if m.Type != nil {
					p.Type = a.resolveAnnotation(m.Type)
				}
				props[m] = p
				cls.Body = append(cls.Body, p)
			}
		}

		for _, m := range c.Body {
			if m, ok := m.(*ast.ClassProp); ok && m.Value != nil {
				a.visitClassProp(cls, instance, m, props[m])
			}
		}
		for _, m := range c.Body {
			switch m := m.(type) {
			case *ast.Constructor:
				fn := &ast.Function{Base: m.Base, Params: m.Params, Body: m.Body}
				a.visitFn("", fn, instance)
			case *ast.ClassMethod:
				if m.Fn.Body == nil {
					continue
				}
				this := types.Type(instance)
				if m.Static {
					this = cls
				}
				sig := a.visitFn("", m.Fn, this)
				if meth, ok := methods[m]; ok {
					meth.Sig = sig
				} else if m.Kind == ast.MethodGetter && m.Fn.ReturnType == nil {
					if name, ok := m.Key.Static(); ok {
						if p, ok := accessors[accessorKey(types.Key{Name: name}, m.Static)]; ok {
							p.Type = sig.Return
						}
					}
				}
			}
		}

		for _, impl := range c.Implements {
			want := a.resolveAnnotation(impl)
			if !a.assignable(instance, want) {
				err := a.errorf(errors.AssignFailed, impl.NodeSpan(), "class '%s' incorrectly implements '%s'", cls.Name, want)
				err.Expected, err.Actual = want, instance
			}
		}
	})
}

// extendClass resolves the base class expression.
func (a *analyzer) extendClass(cls *types.Class, c *ast.Class) {
	st := a.typeOf(c.SuperClass)
	var typeArgs []types.Type
	for _, ta := range c.SuperTypeArgs {
		typeArgs = append(typeArgs, a.resolveAnnotation(ta))
	}
	switch sup := a.expand(st).(type) {
	case *types.Class:
		if sup == cls {
			a.errorf(errors.SelfReference, c.SuperClass.NodeSpan(), "class '%s' is referenced directly or indirectly in its own base expression", cls.Name)
			return
		}
		cls.Super = &types.ClassInstance{Class: sup, TypeArgs: classArgs(sup, typeArgs)}
	case *types.Keyword:
		if sup == types.Any {
			return
		}
		a.errorf(errors.NoNewSignature, c.SuperClass.NodeSpan(), "class extends value of type '%s' which is not a constructor", st)
	default:
		a.errorf(errors.NoNewSignature, c.SuperClass.NodeSpan(), "class extends value of type '%s' which is not a constructor", st)
	}
}

func (a *analyzer) accessorType(m *ast.ClassMethod) types.Type {
	if m.Kind == ast.MethodGetter {
		if m.Fn.ReturnType != nil {
			return a.resolveAnnotation(m.Fn.ReturnType)
		}
		return types.Any
	}
	if len(m.Fn.Params) > 0 {
		if ann := ast.PatType(m.Fn.Params[0]); ann != nil {
			return a.resolveAnnotation(ann)
		}
	}
	return types.Any
}

func accessorKey(k types.Key, static bool) string {
	if static {
		return "static " + k.Name
	}
	return k.Name
}

// visitClassProp types a property initializer. Instance initializers see
// the instance as this, static ones the class.
func (a *analyzer) visitClassProp(cls *types.Class, instance types.Type, m *ast.ClassProp, p *types.Property) {
	a.withScope(scope.Function, func(id scope.ID) {
		if m.Static {
			a.scopes.SetThis(id, cls)
		} else {
			a.scopes.SetThis(id, instance)
		}
		v := a.typeOf(m.Value)
		if m.Type == nil {
			t, _ := a.widenTuple(v)
			p.Type = types.DeepWiden(t)
			return
		}
		if !a.assignable(v, p.Type) {
			err := a.errorf(errors.AssignFailed, m.Value.NodeSpan(), "type '%s' is not assignable to type '%s'", v, p.Type)
			err.Expected, err.Actual = p.Type, v
		}
	})
}
