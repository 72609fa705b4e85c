package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/types"
)

var primitiveNames = map[string]types.PrimitiveName{
	"Int":     types.Int,
	"Long":    types.Long,
	"Float":   types.Float,
	"Double":  types.Double,
	"Boolean": types.Boolean,
	"Char":    types.Char,
	"String":  types.StringT,
	"Any":     types.AnyName,
}

// resolveType elaborates a surface type reference into a types.Type,
// reporting an error and substituting types.ErrorType for any name that
// resolves to nothing (unknown type) or a generic applied to the wrong
// number of arguments.
func (a *Analyzer) resolveType(ref ast.TypeRef) types.Type {
	if ref == nil {
		return types.NewUnit()
	}
	switch t := ref.(type) {
	case *ast.SimpleType:
		return a.resolveNamedType(t.Name, nil, t)
	case *ast.GenericType:
		return a.resolveNamedType(t.Name, t.Args, t)
	case *ast.NullableType:
		return a.resolveType(t.Inner).WithNullable(true)
	case *ast.FunctionType:
		return a.resolveFunctionType(t)
	default:
		a.errorf(ref, "unrecognized type reference")
		return types.NewError()
	}
}

func (a *Analyzer) resolveNamedType(name string, args []*ast.TypeArgument, node ast.Node) types.Type {
	switch name {
	case "Unit":
		return types.NewUnit()
	case "Nothing":
		return types.NewNothing()
	}
	if prim, ok := primitiveNames[name]; ok {
		return types.NewPrimitive(prim)
	}
	if tp, ok := a.typeParams[name]; ok {
		return types.NewTypeParameterType(tp)
	}
	if ct, ok := a.classes[name]; ok {
		return a.instantiateClass(ct, args, node)
	}
	if it, ok := a.interfaces[name]; ok {
		return a.instantiateInterface(it, args, node)
	}
	a.errorf(node, "unknown type %q", name)
	return types.NewError()
}

func (a *Analyzer) instantiateClass(ct *types.ClassType, args []*ast.TypeArgument, node ast.Node) types.Type {
	if len(args) == 0 {
		return ct
	}
	if len(ct.TypeParams) != len(args) {
		a.errorf(node, "type %q expects %d type argument(s), got %d", ct.Name(), len(ct.TypeParams), len(args))
		return types.NewError()
	}
	cp := *ct
	cp.TypeArgs = a.resolveTypeArguments(args)
	return &cp
}

func (a *Analyzer) instantiateInterface(it *types.InterfaceType, args []*ast.TypeArgument, node ast.Node) types.Type {
	if len(args) == 0 {
		return it
	}
	if len(it.TypeParams) != len(args) {
		a.errorf(node, "type %q expects %d type argument(s), got %d", it.Name(), len(it.TypeParams), len(args))
		return types.NewError()
	}
	cp := *it
	cp.TypeArgs = a.resolveTypeArguments(args)
	return &cp
}

func (a *Analyzer) resolveTypeArguments(args []*ast.TypeArgument) []types.TypeArgumentValue {
	out := make([]types.TypeArgumentValue, len(args))
	for i, arg := range args {
		if arg.Wildcard {
			out[i] = types.TypeArgumentValue{Wildcard: true}
			continue
		}
		out[i] = types.TypeArgumentValue{
			Type:     a.resolveType(arg.Type),
			Variance: types.Variance(arg.Variance),
		}
	}
	return out
}

func (a *Analyzer) resolveFunctionType(t *ast.FunctionType) types.Type {
	params := make([]types.Type, len(t.Params))
	for i, p := range t.Params {
		params[i] = a.resolveType(p)
	}
	ft := types.NewFunctionType(params, a.resolveType(t.Return))
	ft.Suspend = t.Suspend
	if t.Receiver != nil {
		ft.Receiver = a.resolveType(t.Receiver)
	}
	return ft
}

// resolveTypeParamList elaborates a declaration-site `<out T : Bound, ...>`
// list into types.TypeParameter values and binds them into a.typeParams for
// the duration of the caller's scope (caller restores via the returned
// cleanup function).
func (a *Analyzer) resolveTypeParamList(params []*ast.TypeParameter) ([]*types.TypeParameter, func()) {
	saved := make(map[string]*types.TypeParameter, len(a.typeParams))
	for k, v := range a.typeParams {
		saved[k] = v
	}
	out := make([]*types.TypeParameter, len(params))
	for i, p := range params {
		tp := &types.TypeParameter{Name: p.Name, Variance: types.Variance(p.Variance), Reified: p.Reified}
		a.typeParams[p.Name] = tp
		out[i] = tp
	}
	// Bounds may reference sibling type parameters (F-bounded generics), so
	// resolve them only after every parameter name is already in scope.
	for i, p := range params {
		if p.UpperBound != nil {
			out[i].UpperBound = a.resolveType(p.UpperBound)
		}
	}
	return out, func() { a.typeParams = saved }
}
