package types

// Variance tags a type parameter's declaration-site variance, or a type
// argument's use-site variance at an instantiation.
type Variance int

const (
	Invariant Variance = iota
	Out               // covariant: `out T`
	In                // contravariant: `in T`
)

func (v Variance) String() string {
	switch v {
	case Out:
		return "out"
	case In:
		return "in"
	default:
		return ""
	}
}

// TypeParameter is a class/interface/function's declared generic
// parameter, e.g. `out T : Comparable<T>`.
type TypeParameter struct {
	Name       string
	Variance   Variance
	UpperBound Type // nil means implicitly Any?
	Reified    bool
}

// TypeParameterType is a reference to an in-scope type parameter used as a
// type, e.g. the parameter `T` inside a generic method body.
type TypeParameterType struct {
	nullable bool
	Param    *TypeParameter
}

// NewTypeParameterType wraps a declared type parameter as a non-nullable
// type reference.
func NewTypeParameterType(p *TypeParameter) *TypeParameterType {
	return &TypeParameterType{Param: p}
}

func (t *TypeParameterType) Kind() Kind     { return KindTypeParameter }
func (t *TypeParameterType) Name() string   { return t.Param.Name }
func (t *TypeParameterType) Nullable() bool { return t.nullable }

func (t *TypeParameterType) WithNullable(nullable bool) Type {
	return &TypeParameterType{Param: t.Param, nullable: nullable}
}

func (t *TypeParameterType) String() string {
	if t.nullable {
		return t.Param.Name + "?"
	}
	return t.Param.Name
}

func (t *TypeParameterType) Equals(other Type) bool {
	o, ok := other.(*TypeParameterType)
	return ok && o.Param.Name == t.Param.Name && o.nullable == t.nullable
}
