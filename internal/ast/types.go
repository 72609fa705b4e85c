package ast

import "github.com/novaforge/nova/internal/diagnostics"

// Variance tags a type argument's declared or use-site variance.
type Variance int

const (
	Invariant Variance = iota
	Out                // covariant: `out T`
	In                 // contravariant: `in T`
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

// SimpleType is a bare name reference, e.g. `Int` or `Foo`.
type SimpleType struct {
	Base
	Name string
}

func (*SimpleType) typeRefNode() {}

// NullableType wraps an inner type reference with `?`.
type NullableType struct {
	Base
	Inner TypeRef
}

func (*NullableType) typeRefNode() {}

// TypeArgument is one entry of a generic type's argument list: either a
// concrete/variance-tagged type, or the `*` wildcard (Type == nil in that
// case: `*` is treated as
// invariant-with-nil-type).
type TypeArgument struct {
	Base
	Type     TypeRef
	Variance Variance
	Wildcard bool
}

// GenericType is a name applied to type arguments, e.g. `List<out T>`.
type GenericType struct {
	Base
	Name string
	Args []*TypeArgument
}

func (*GenericType) typeRefNode() {}

// FunctionType is a function-type reference, e.g. `(Int, String) -> Bool`
// or `T.(Int) -> Bool` when Receiver is set.
type FunctionType struct {
	Base
	Receiver TypeRef
	Params   []TypeRef
	Return   TypeRef
	Suspend  bool
}

func (*FunctionType) typeRefNode() {}

// TypeParameter is a declared generic parameter, e.g. `out T : Comparable<T>`.
type TypeParameter struct {
	Base
	Name       string
	Variance   Variance
	UpperBound TypeRef // nil if unbounded (implicitly Any?)
	Reified    bool
}

func (t *TypeParameter) Range() diagnostics.Range { return t.Base.Rng }
