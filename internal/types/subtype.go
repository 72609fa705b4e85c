package types

// IsSubtype decides `sub ≤ sup`: nullability must be compatible
// (a nullable sub cannot satisfy a non-nullable sup), ErrorType is
// compatible with everything in either position, Nothing is the universal
// subtype, Any is the universal supertype, and otherwise the check walks
// the registry's superclass/interface closure by name, with generic
// type-argument compatibility checked per declared variance.
func (r *Registry) IsSubtype(sub, sup Type) bool {
	if sub == nil || sup == nil {
		return false
	}
	if IsError(sub) || IsError(sup) {
		return true
	}
	if sub.Nullable() && !sup.Nullable() {
		return false
	}
	if _, ok := sub.(*NothingType); ok {
		return true
	}
	if sup.Name() == "Any" {
		return true
	}

	switch subT := sub.(type) {
	case *FunctionType:
		supT, ok := sup.(*FunctionType)
		if !ok {
			return false
		}
		return r.functionSubtype(subT, supT)
	case *TypeParameterType:
		if supT, ok := sup.(*TypeParameterType); ok && supT.Param.Name == subT.Param.Name {
			return true
		}
		if subT.Param.UpperBound != nil {
			return r.IsSubtype(subT.Param.UpperBound, sup)
		}
		return false
	default:
		if sub.Name() == sup.Name() {
			return r.typeArgsCompatible(sub, sup)
		}
		return r.IsSubtypeName(sub.Name(), sup.Name())
	}
}

// functionSubtype checks structural function-type subtyping: parameters
// are contravariant, the return type is covariant, suspend-ness must
// match exactly.
func (r *Registry) functionSubtype(sub, sup *FunctionType) bool {
	if sub.Suspend != sup.Suspend {
		return false
	}
	if len(sub.Params) != len(sup.Params) {
		return false
	}
	for i := range sub.Params {
		if !r.IsSubtype(sup.Params[i], sub.Params[i]) {
			return false
		}
	}
	return r.IsSubtype(sub.Return, sup.Return)
}

// typeArgsCompatible checks that two same-named generic instantiations'
// type arguments are compatible pointwise, respecting each parameter's
// declared variance: `out` allows a covariant argument, `in` allows a
// contravariant argument, invariant parameters require equal arguments. A
// `*` wildcard argument is always compatible.
func (r *Registry) typeArgsCompatible(sub, sup Type) bool {
	subArgs, subParams := typeArgsOf(sub), typeParamsOf(sub)
	supArgs, _ := typeArgsOf(sup), typeParamsOf(sup)

	if len(subArgs) != len(supArgs) {
		return len(subArgs) == 0 || len(supArgs) == 0
	}
	for i := range subArgs {
		a, b := subArgs[i], supArgs[i]
		if a.Wildcard || b.Wildcard {
			continue
		}
		variance := Invariant
		if i < len(subParams) {
			variance = subParams[i].Variance
		}
		switch variance {
		case Out:
			if !r.IsSubtype(a.Type, b.Type) {
				return false
			}
		case In:
			if !r.IsSubtype(b.Type, a.Type) {
				return false
			}
		default:
			if !Equal(a.Type, b.Type) {
				return false
			}
		}
	}
	return true
}

func typeArgsOf(t Type) []TypeArgumentValue {
	switch v := t.(type) {
	case *ClassType:
		return v.TypeArgs
	case *InterfaceType:
		return v.TypeArgs
	default:
		return nil
	}
}

func typeParamsOf(t Type) []*TypeParameter {
	switch v := t.(type) {
	case *ClassType:
		return v.TypeParams
	case *InterfaceType:
		return v.TypeParams
	default:
		return nil
	}
}
