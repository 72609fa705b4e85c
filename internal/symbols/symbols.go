// Package symbols implements the layered symbol table the semantic
// analyzer resolves names against: a stack of scopes, each mapping a name
// to a Symbol, walked from innermost outward on lookup.
//
// The shape -- an outer-scope-chained table with `Define*`/`Resolve`
// methods and a case-sensitive name map -- is grounded on
// DWScript's `internal/semantic.SymbolTable`, adapted from its
// case-insensitive single-symbol-per-name model to Nova's case-sensitive,
// overload-set-per-name model (the source language allows overloaded
// functions to coexist the way DWScript's `DefineOverload` does, but
// name lookup itself is case-sensitive here).
package symbols

import (
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/types"
)

// internKey normalizes an identifier to NFC before it is used as a scope
// map key, so that two spellings of the same identifier that differ only
// in Unicode normalization form (e.g. a precomposed accented letter versus
// the same letter plus a combining mark) resolve to one symbol instead of
// silently shadowing each other.
func internKey(name string) string {
	if norm.NFC.IsNormalString(name) {
		return name
	}
	return norm.NFC.String(name)
}

// Kind tags what declaration a Symbol names.
type Kind int

const (
	KindVar Kind = iota
	KindVal
	KindFunction
	KindClass
	KindInterface
	KindObject
	KindEnum
	KindTypeAlias
	KindTypeParameter
	KindPackage
	KindParameter
)

func (k Kind) String() string {
	switch k {
	case KindVar:
		return "var"
	case KindVal:
		return "val"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindInterface:
		return "interface"
	case KindObject:
		return "object"
	case KindEnum:
		return "enum"
	case KindTypeAlias:
		return "typealias"
	case KindTypeParameter:
		return "type parameter"
	case KindPackage:
		return "package"
	case KindParameter:
		return "parameter"
	default:
		return "symbol"
	}
}

// Symbol is one named entity visible in some scope.
type Symbol struct {
	Name         string
	Kind         Kind
	Type         types.Type
	Declaring    ast.Node
	Visibility   ast.Visibility
	Mutable      bool
	Overloads    []*Symbol // non-nil only on the representative symbol of an overload set
	IsOverloaded bool
}

// Table is one lexical scope, chained to its enclosing scope.
type Table struct {
	symbols map[string]*Symbol
	outer   *Table
}

// New creates a top-level (global) scope with no enclosing scope.
func New() *Table {
	return &Table{symbols: make(map[string]*Symbol)}
}

// NewEnclosed creates a scope nested inside outer.
func NewEnclosed(outer *Table) *Table {
	return &Table{symbols: make(map[string]*Symbol), outer: outer}
}

// Outer returns the enclosing scope, or nil at the top level.
func (t *Table) Outer() *Table { return t.outer }

// Define declares name in the current scope, overwriting any symbol of
// the same name already declared directly in this scope (shadowing
// across scopes is allowed). Define itself does not reject a same-scope
// redeclaration; the analyzer checks DeclaredHere first for local
// val/var declarations only.
func (t *Table) Define(sym *Symbol) {
	t.symbols[internKey(sym.Name)] = sym
}

// DefineFunction adds name/typ as a function symbol, merging into an
// existing overload set if one is already declared in this scope.
func (t *Table) DefineFunction(name string, typ *types.FunctionType, declaring ast.Node) error {
	key := internKey(name)
	existing, ok := t.symbols[key]
	if !ok {
		t.symbols[key] = &Symbol{Name: name, Kind: KindFunction, Type: typ, Declaring: declaring}
		return nil
	}
	if existing.Kind != KindFunction {
		return fmt.Errorf("%q is already declared as a %s", name, existing.Kind)
	}

	newSym := &Symbol{Name: name, Kind: KindFunction, Type: typ, Declaring: declaring}
	if existing.IsOverloaded {
		for _, o := range existing.Overloads {
			if sameSignatureShape(o.Type.(*types.FunctionType), typ) {
				return fmt.Errorf("duplicate overload of %q with the same parameter types", name)
			}
		}
		existing.Overloads = append(existing.Overloads, newSym)
		return nil
	}

	if sameSignatureShape(existing.Type.(*types.FunctionType), typ) {
		return fmt.Errorf("duplicate overload of %q with the same parameter types", name)
	}
	first := &Symbol{Name: existing.Name, Kind: KindFunction, Type: existing.Type, Declaring: existing.Declaring}
	t.symbols[key] = &Symbol{
		Name:         name,
		Kind:         KindFunction,
		IsOverloaded: true,
		Overloads:    []*Symbol{first, newSym},
	}
	return nil
}

func sameSignatureShape(a, b *types.FunctionType) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !types.Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return true
}

// Resolve looks up name starting in the current scope and walking
// outward.
func (t *Table) Resolve(name string) (*Symbol, bool) {
	if sym, ok := t.symbols[internKey(name)]; ok {
		return sym, true
	}
	if t.outer != nil {
		return t.outer.Resolve(name)
	}
	return nil, false
}

// ResolveOverloads returns every overload visible for name, or nil if
// name is unresolved or not a function symbol.
func (t *Table) ResolveOverloads(name string) []*Symbol {
	sym, ok := t.Resolve(name)
	if !ok || sym.Kind != KindFunction {
		return nil
	}
	if sym.IsOverloaded {
		return sym.Overloads
	}
	return []*Symbol{sym}
}

// DeclaredHere reports whether name is declared directly in this scope
// (ignoring outer scopes) -- used by the analyzer to flag a local val/var
// redeclared in the same scope.
func (t *Table) DeclaredHere(name string) bool {
	_, ok := t.symbols[internKey(name)]
	return ok
}

// All returns every symbol visible from this scope, innermost
// declarations taking precedence over outer ones of the same name.
func (t *Table) All() map[string]*Symbol {
	result := make(map[string]*Symbol)
	if t.outer != nil {
		for name, sym := range t.outer.All() {
			result[name] = sym
		}
	}
	for name, sym := range t.symbols {
		result[name] = sym
	}
	return result
}
