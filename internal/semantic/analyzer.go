// Package semantic resolves names, elaborates types, and checks subtyping,
// variance, and exhaustiveness over a parsed Nova program, annotating it
// with enough information for the HIR lowering stage to proceed.
//
// The shape -- one Analyzer struct holding symbol tables and type registries,
// split across many analyze_*.go files by concern, accumulating diagnostics
// rather than returning a Go error per check -- is grounded on
// DWScript's internal/semantic.Analyzer, re-targeted from its Pascal type system
// (classes/records/sets/subranges/variants) to Nova's nullable, generic,
// single-inheritance-plus-interfaces one.
package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// Analyzer performs semantic analysis on a single parsed Nova program.
type Analyzer struct {
	sink     *diagnostics.Sink
	registry *types.Registry
	global   *symbols.Table
	scope    *symbols.Table

	classes    map[string]*types.ClassType
	interfaces map[string]*types.InterfaceType
	classNodes map[string]ast.Node

	// sealedSubclasses maps a sealed class's name to the names of classes
	// that declare it as their direct superclass, populated during the
	// declaration pass and consulted by exhaustiveness checking.
	sealedSubclasses map[string][]string

	// typeParams is the set of generic type parameters in scope (a class's
	// own plus the innermost function's), consulted by resolveType when a
	// SimpleType name matches neither a primitive nor a registered class.
	typeParams map[string]*types.TypeParameter

	currentReturn types.Type // declared/inferred return type of the enclosing function
	currentClass  *types.ClassType
	inLambda      bool
	loopDepth     int
	activeLabels  map[string]bool
}

// New creates an analyzer that reports through sink.
func New(sink *diagnostics.Sink) *Analyzer {
	a := &Analyzer{
		sink:             sink,
		registry:         types.NewRegistry(),
		global:           symbols.New(),
		classes:          make(map[string]*types.ClassType),
		interfaces:       make(map[string]*types.InterfaceType),
		classNodes:       make(map[string]ast.Node),
		sealedSubclasses: make(map[string][]string),
		typeParams:       make(map[string]*types.TypeParameter),
		activeLabels:     make(map[string]bool),
	}
	a.scope = a.global
	a.registerBuiltins()
	return a
}

// registerBuiltins seeds the global scope with the `true` and `false`
// constants.
func (a *Analyzer) registerBuiltins() {
	a.global.Define(&symbols.Symbol{Name: "true", Kind: symbols.KindVal, Type: types.NewPrimitive(types.Boolean)})
	a.global.Define(&symbols.Symbol{Name: "false", Kind: symbols.KindVal, Type: types.NewPrimitive(types.Boolean)})
}

// Analyze runs the full three-pass pipeline over prog: declare signatures,
// resolve inheritance/member signatures, then type-check every body. It
// never returns a Go error -- failures are diagnostics in the sink -- mirroring
// the pipeline's error-propagation contract: a single bad subtree
// never stops analysis of the rest of the program.
func (a *Analyzer) Analyze(prog *ast.Program) {
	if prog == nil {
		return
	}
	a.defineImports(prog)
	a.declareSignatures(prog)
	a.resolveSupertypesAndMembers(prog)
	a.analyzeBodies(prog)
	a.checkUnimplementedAbstracts()
}

// Sink exposes the diagnostics sink the analyzer reports through.
func (a *Analyzer) Sink() *diagnostics.Sink { return a.sink }

// Classes returns every class type declared in the analyzed program, keyed
// by name.
func (a *Analyzer) Classes() map[string]*types.ClassType { return a.classes }

// Interfaces returns every interface type declared in the analyzed program,
// keyed by name.
func (a *Analyzer) Interfaces() map[string]*types.InterfaceType { return a.interfaces }

// GlobalScope returns the top-level symbol table, populated with every
// free function, top-level property, and imported alias.
func (a *Analyzer) GlobalScope() *symbols.Table { return a.global }

func (a *Analyzer) defineImports(prog *ast.Program) {
	bindings := symbols.ResolveImports(prog.Imports)
	symbols.DefineImports(a.global, bindings)
}

// canAssign reports whether a value of type from may be assigned/passed/
// returned where to is expected: subtyping per the registry, with
// ErrorType absorbed on either side so a single unresolved name doesn't
// cascade into unrelated diagnostics.
func (a *Analyzer) canAssign(from, to types.Type) bool {
	if from == nil || to == nil {
		return false
	}
	if types.IsError(from) || types.IsError(to) {
		return true
	}
	return a.registry.IsSubtype(from, to)
}

// enterScope pushes a new lexical scope and returns a function that
// restores the previous one; callers defer the returned function.
func (a *Analyzer) enterScope() func() {
	prev := a.scope
	a.scope = symbols.NewEnclosed(prev)
	return func() { a.scope = prev }
}

// checkUnimplementedAbstracts flags any non-abstract class that still
// leaves an inherited abstract method without a concrete override,
// matching DWScript's post-analysis forward-declaration validation
// pass, retargeted from "forward declared" to "abstract but not overridden".
func (a *Analyzer) checkUnimplementedAbstracts() {
	for _, ct := range a.classes {
		if ct.Abstract {
			continue
		}
		for name, overloads := range allMethodOverloads(ct) {
			for _, m := range overloads {
				if m.Abstract && !hasConcreteOverride(ct, name, m) {
					rng := diagnostics.Range{}
					if node, ok := a.classNodes[ct.Name()]; ok && node != nil {
						rng = node.Range()
					}
					a.sink.Report(diagnostics.Error, rng,
						"class %q does not implement abstract member %q", ct.Name(), name)
				}
			}
		}
	}
}

// allMethodOverloads collects every method overload reachable from ct,
// including inherited ones, keyed by name.
func allMethodOverloads(ct *types.ClassType) map[string][]*types.MethodInfo {
	out := make(map[string][]*types.MethodInfo)
	for cur := ct; cur != nil; cur = cur.Super {
		for name, overloads := range cur.Methods {
			out[name] = append(out[name], overloads...)
		}
	}
	return out
}

// hasConcreteOverride reports whether ct (or an intermediate ancestor
// above the class that declared the abstract method) declares a
// non-abstract override of name with the same signature shape.
func hasConcreteOverride(ct *types.ClassType, name string, abstractMethod *types.MethodInfo) bool {
	for cur := ct; cur != nil; cur = cur.Super {
		for _, m := range cur.Methods[name] {
			if !m.Abstract && signatureShapeEqual(m.Signature, abstractMethod.Signature) {
				return true
			}
		}
	}
	return false
}
