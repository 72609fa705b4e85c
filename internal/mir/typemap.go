package mir

import "github.com/novaforge/nova/internal/types"

// FromNovaType erases a Nova surface type to its MIR backend
// representation. Nullability is erased to the same reference/primitive
// shape (the JVM has no nullable-primitive slot; a nullable Int boxes to
// java/lang/Integer the same as the field-descriptor table above
// already does for boxed fields), matching how DWScript's own
// `bytecode.ValueKind` collapses its richer static types down to a
// handful of runtime value shapes.
func FromNovaType(t types.Type) MirType {
	if t == nil {
		return Object("java/lang/Object")
	}
	switch tt := t.(type) {
	case *types.PrimitiveType:
		switch tt.Name() {
		case string(types.Int):
			return Int()
		case string(types.Long):
			return Long()
		case string(types.Float):
			return Float()
		case string(types.Double):
			return Double()
		case string(types.Boolean):
			return Boolean()
		case string(types.Char):
			return Char()
		case string(types.StringT):
			return Object("java/lang/String")
		default: // Any and anything else erases to Object
			return Object("java/lang/Object")
		}
	case *types.UnitType:
		return Void()
	case *types.NothingType:
		return Object("java/lang/Void")
	case *types.ErrorType:
		return Object("java/lang/Object")
	case *types.ClassType:
		return Object(internalName(tt.Name()))
	case *types.InterfaceType:
		return Object(internalName(tt.Name()))
	case *types.TypeParameterType:
		return Object("java/lang/Object") // erasure: a bare type parameter boxes to Object
	case *types.FunctionType:
		return Object(functionInterfaceName(len(tt.Params)))
	default:
		return Object("java/lang/Object")
	}
}

// internalName maps a dotted Nova class name to a `/`-separated JVM
// internal name ("source-language dotted names map
// directly").
func internalName(dotted string) string {
	out := make([]byte, len(dotted))
	for i := 0; i < len(dotted); i++ {
		if dotted[i] == '.' {
			out[i] = '/'
		} else {
			out[i] = dotted[i]
		}
	}
	return string(out)
}

// functionInterfaceName names the synthetic functional-interface family a
// Nova `FunctionType` of the given arity erases to, e.g. `nova/Function2`
// for a two-argument lambda type.
func functionInterfaceName(arity int) string {
	digits := [...]string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"}
	suffix := "N"
	if arity >= 0 && arity < len(digits) {
		suffix = digits[arity]
	}
	return "nova/Function" + suffix
}
