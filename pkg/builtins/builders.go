package builtins

import "tscheck/pkg/types"

// shape accumulates members for an interface or object type declaration.
type shape struct {
	members []types.TypeElement
}

func newShape() *shape { return &shape{} }

func (s *shape) WithProperty(name string, t types.Type) *shape {
	s.members = append(s.members, &types.Property{Key: types.Key{Name: name}, Type: t})
	return s
}

func (s *shape) WithReadonly(name string, t types.Type) *shape {
	s.members = append(s.members, &types.Property{Key: types.Key{Name: name}, Type: t, Readonly: true})
	return s
}

func (s *shape) WithOptional(name string, t types.Type) *shape {
	s.members = append(s.members, &types.Property{Key: types.Key{Name: name}, Type: t, Optional: true})
	return s
}

func (s *shape) WithMethod(name string, sig *types.Function) *shape {
	s.members = append(s.members, &types.Method{Key: types.Key{Name: name}, Sig: sig})
	return s
}

func (s *shape) WithCall(sig *types.Function) *shape {
	s.members = append(s.members, &types.CallSignature{Sig: sig})
	return s
}

func (s *shape) WithConstruct(sig *types.Function) *shape {
	s.members = append(s.members, &types.ConstructorSignature{Sig: sig})
	return s
}

// Interface finishes the shape as a named interface.
func (s *shape) Interface(name string, params ...*types.Param) *types.Interface {
	return &types.Interface{Name: name, TypeParams: params, Body: s.members}
}

// --- signature helpers ---

func fn(ret types.Type, params ...types.FnParam) *types.Function {
	return &types.Function{Params: params, Return: ret}
}

func generic(params []*types.Param, f *types.Function) *types.Function {
	f.TypeParams = params
	return f
}

func tparam(name string) *types.Param { return &types.Param{Name: name} }

func param(name string, t types.Type) types.FnParam {
	return types.FnParam{Name: name, Type: t}
}

func optional(name string, t types.Type) types.FnParam {
	return types.FnParam{Name: name, Type: t, Optional: true}
}

func rest(name string, elem types.Type) types.FnParam {
	return types.FnParam{Name: name, Type: &types.Array{Elem: elem}, Rest: true}
}

func arrayOf(t types.Type) *types.Array { return &types.Array{Elem: t} }

func ref(name string, args ...types.Type) *types.TypeRef {
	return &types.TypeRef{Name: name, TypeArgs: args}
}
