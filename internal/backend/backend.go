// Package backend defines the contract Nova's MIR hands off to.
// The final bytecode-emission step is explicitly out of
// scope for this repository, so `Backend` is an interface any external
// code-generator can satisfy, plus the descriptor-building helpers every
// implementation needs (JVM-style type and method descriptors, internal
// class names).
//
// The `magic header + versioned body` artifact envelope and the
// `Descriptor`/field-descriptor split follow the same shape as
// DWScript's `bytecode.Serializer` (`MagicNumber`, `SerializerVersion`,
// boxed-vs-unboxed constant encoding), re-targeted from DWScript's stack
// bytecode file format to a JVM class-file-shaped one.
package backend

import "github.com/novaforge/nova/internal/mir"

// Backend accepts a finished, optimized MIR module and returns one
// artifact per emitted class, keyed by its internal (`/`-separated)
// name. Implementations live outside this repository; this interface is
// the full extent of what a real one would require.
type Backend interface {
	Emit(mod *mir.Module) (map[string][]byte, error)
}

// MethodDescriptorStyle selects one of the three composition variants
// a real backend would need.
type MethodDescriptorStyle int

const (
	// AllObject composes every parameter and the return type as Object
	// descriptors (boxing primitives), for a dynamically-dispatched or
	// reflective call site.
	AllObject MethodDescriptorStyle = iota
	// AllObjectVoidReturn is AllObject but forces a void return
	// descriptor, for callback/listener-shaped interface methods.
	AllObjectVoidReturn
	// PrimitiveIntPreserving keeps an Int parameter/return as `I` and
	// boxes everything else, matching a JVM interface that specializes
	// only the Int case (the common "IntFunction"-style erasure).
	PrimitiveIntPreserving
)

// ComposeDescriptor builds a `(params)return` method descriptor from a
// MIR parameter/return type list, per the style requested.
func ComposeDescriptor(params []mir.MirType, ret mir.MirType, style MethodDescriptorStyle) string {
	d := "("
	for _, p := range params {
		d += descriptorFor(p, style)
	}
	d += ")"
	switch style {
	case AllObjectVoidReturn:
		d += "V"
	case PrimitiveIntPreserving:
		if ret.Kind == mir.KindInt {
			d += "I"
		} else {
			d += descriptorFor(ret, style)
		}
	default:
		d += descriptorFor(ret, style)
	}
	return d
}

func descriptorFor(t mir.MirType, style MethodDescriptorStyle) string {
	switch style {
	case PrimitiveIntPreserving:
		if t.Kind == mir.KindInt {
			return "I"
		}
		return t.FieldDescriptor()
	default:
		if t.Kind == mir.KindVoid {
			return "V"
		}
		return t.FieldDescriptor()
	}
}

// InternalName converts a dotted source-language class name to a
// `/`-separated JVM internal name.
func InternalName(dotted string) string {
	out := []byte(dotted)
	for i, c := range out {
		if c == '.' {
			out[i] = '/'
		}
	}
	return string(out)
}

// Manifest describes the artifact set Emit produced, for tooling (the
// CLI's `--json` diagnostics manifest, a build cache) that wants a
// summary without holding every class's bytes.
type Manifest struct {
	Classes []ClassArtifact
}

// ClassArtifact names one emitted class and its byte size.
type ClassArtifact struct {
	Name string
	Size int
}

// Summarize builds a Manifest from an Emit result.
func Summarize(artifacts map[string][]byte) Manifest {
	m := Manifest{}
	for name, bytes := range artifacts {
		m.Classes = append(m.Classes, ClassArtifact{Name: name, Size: len(bytes)})
	}
	return m
}
