// Package types implements the Nova type model: a tagged sum of primitive,
// class, interface, function, type-parameter, Nothing, Unit, and Error
// types, each carrying a nullability bit, plus the supertype registry that
// answers subtyping queries over user and built-in types.
//
// The shape -- a `Type` interface with `String()`/`Kind()`/`Equals()`,
// reference types holding named member maps, and a registry keyed by name
// -- follows DWScript's own `types` package contract (recovered from its
// test suite: `ClassType`/`InterfaceType`/`NewClassType`/`IsSubclassOf`/
// `ImplementsInterface`), re-targeted at a nullable, generic, single-
// inheritance-plus-interfaces type system instead of DWScript's Pascal
// class model.
package types

import "fmt"

// Kind tags which case of the type sum a Type value is.
type Kind int

const (
	KindPrimitive Kind = iota
	KindClass
	KindInterface
	KindFunction
	KindTypeParameter
	KindNothing
	KindUnit
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "PRIMITIVE"
	case KindClass:
		return "CLASS"
	case KindInterface:
		return "INTERFACE"
	case KindFunction:
		return "FUNCTION"
	case KindTypeParameter:
		return "TYPE_PARAMETER"
	case KindNothing:
		return "NOTHING"
	case KindUnit:
		return "UNIT"
	case KindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Type is implemented by every member of the type sum.
type Type interface {
	// Kind identifies which sum case this value is.
	Kind() Kind
	// Name is the type's bare (non-nullable, non-generic-argument) name.
	Name() string
	// Nullable reports whether this is the `T?` form of the type.
	Nullable() bool
	// WithNullable returns a copy of this type with the given nullability.
	WithNullable(nullable bool) Type
	// String renders the surface syntax, e.g. "Int", "List<out String>?".
	String() string
	// Equals is structural equality: same tag, nullability, name,
	// type-argument list, and function shape.
	Equals(other Type) bool
}

// PrimitiveName enumerates the built-in primitive type names.
type PrimitiveName string

const (
	Int     PrimitiveName = "Int"
	Long    PrimitiveName = "Long"
	Float   PrimitiveName = "Float"
	Double  PrimitiveName = "Double"
	Boolean PrimitiveName = "Boolean"
	Char    PrimitiveName = "Char"
	StringT PrimitiveName = "String"
	AnyName PrimitiveName = "Any"
)

// numericRank implements the promotion ladder: Int(0) < Long(1) < Float(2)
// < Double(3). Non-numeric primitives rank -1 (not promotable).
var numericRank = map[PrimitiveName]int{
	Int:    0,
	Long:   1,
	Float:  2,
	Double: 3,
}

// PrimitiveType is a built-in scalar or `Any`.
type PrimitiveType struct {
	name     PrimitiveName
	nullable bool
}

// NewPrimitive constructs a non-nullable primitive type by name.
func NewPrimitive(name PrimitiveName) *PrimitiveType {
	return &PrimitiveType{name: name}
}

func (p *PrimitiveType) Kind() Kind     { return KindPrimitive }
func (p *PrimitiveType) Name() string   { return string(p.name) }
func (p *PrimitiveType) Nullable() bool { return p.nullable }

func (p *PrimitiveType) WithNullable(nullable bool) Type {
	return &PrimitiveType{name: p.name, nullable: nullable}
}

func (p *PrimitiveType) String() string {
	if p.nullable {
		return string(p.name) + "?"
	}
	return string(p.name)
}

func (p *PrimitiveType) Equals(other Type) bool {
	o, ok := other.(*PrimitiveType)
	return ok && o.name == p.name && o.nullable == p.nullable
}

// IsNumeric reports whether this primitive participates in the numeric
// promotion ladder (Int/Long/Float/Double).
func (p *PrimitiveType) IsNumeric() bool {
	_, ok := numericRank[p.name]
	return ok
}

// Rank returns this primitive's numeric promotion rank, or -1 if it isn't
// numeric.
func (p *PrimitiveType) Rank() int {
	if r, ok := numericRank[p.name]; ok {
		return r
	}
	return -1
}

// Promote returns the wider of two numeric primitive types, preserving
// nullability as non-nullable (callers apply nullability separately).
// It panics if either type is not numeric; callers must check IsNumeric
// first, mirroring the analyzer's own numeric-operand validation.
func Promote(a, b *PrimitiveType) *PrimitiveType {
	if !a.IsNumeric() || !b.IsNumeric() {
		panic(fmt.Sprintf("types.Promote: non-numeric operand %s/%s", a, b))
	}
	if a.Rank() >= b.Rank() {
		return NewPrimitive(a.name)
	}
	return NewPrimitive(b.name)
}

// NothingType is the universal subtype; Nothing? is the type of a bare
// `null` literal expression.
type NothingType struct {
	nullable bool
}

func NewNothing() *NothingType { return &NothingType{} }

func (n *NothingType) Kind() Kind     { return KindNothing }
func (n *NothingType) Name() string   { return "Nothing" }
func (n *NothingType) Nullable() bool { return n.nullable }

func (n *NothingType) WithNullable(nullable bool) Type {
	return &NothingType{nullable: nullable}
}

func (n *NothingType) String() string {
	if n.nullable {
		return "Nothing?"
	}
	return "Nothing"
}

func (n *NothingType) Equals(other Type) bool {
	o, ok := other.(*NothingType)
	return ok && o.nullable == n.nullable
}

// UnitType is Nova's void-like type; it is never nullable (spec invariant).
type UnitType struct{}

func NewUnit() *UnitType { return &UnitType{} }

func (u *UnitType) Kind() Kind             { return KindUnit }
func (u *UnitType) Name() string           { return "Unit" }
func (u *UnitType) Nullable() bool         { return false }
func (u *UnitType) WithNullable(bool) Type { return u }
func (u *UnitType) String() string         { return "Unit" }

func (u *UnitType) Equals(other Type) bool {
	_, ok := other.(*UnitType)
	return ok
}

// ErrorType is compatible with every type; the analyzer substitutes it on
// any failure to suppress cascading diagnostics.
type ErrorType struct{}

func NewError() *ErrorType { return &ErrorType{} }

func (e *ErrorType) Kind() Kind             { return KindError }
func (e *ErrorType) Name() string           { return "<error>" }
func (e *ErrorType) Nullable() bool         { return false }
func (e *ErrorType) WithNullable(bool) Type { return e }
func (e *ErrorType) String() string         { return "<error>" }

func (e *ErrorType) Equals(other Type) bool {
	_, ok := other.(*ErrorType)
	return ok
}

// IsError reports whether t is the ErrorType singleton case.
func IsError(t Type) bool {
	_, ok := t.(*ErrorType)
	return ok
}

// Equal is a nil-safe structural equality check between two types.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}
