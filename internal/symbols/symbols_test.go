package symbols

import (
	"testing"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/types"
)

func TestDefineAndResolve(t *testing.T) {
	top := New()
	top.Define(&Symbol{Name: "x", Kind: KindVal, Type: types.NewPrimitive(types.Int)})

	inner := NewEnclosed(top)
	inner.Define(&Symbol{Name: "y", Kind: KindVar, Type: types.NewPrimitive(types.StringT)})

	if _, ok := inner.Resolve("x"); !ok {
		t.Error("inner scope should resolve outer symbol x")
	}
	if _, ok := top.Resolve("y"); ok {
		t.Error("outer scope should not resolve inner symbol y")
	}
}

func TestShadowingDetection(t *testing.T) {
	top := New()
	top.Define(&Symbol{Name: "x", Kind: KindVal})
	if !top.DeclaredHere("x") {
		t.Error("x should be declared in current scope")
	}

	inner := NewEnclosed(top)
	if inner.DeclaredHere("x") {
		t.Error("x is declared in outer scope, not inner")
	}
}

func TestDefineFunctionOverloads(t *testing.T) {
	top := New()
	f1 := types.NewFunctionType([]types.Type{types.NewPrimitive(types.Int)}, types.NewUnit())
	f2 := types.NewFunctionType([]types.Type{types.NewPrimitive(types.StringT)}, types.NewUnit())

	if err := top.DefineFunction("f", f1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := top.DefineFunction("f", f2, nil); err != nil {
		t.Fatalf("unexpected error on second overload: %v", err)
	}

	overloads := top.ResolveOverloads("f")
	if len(overloads) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(overloads))
	}
}

func TestDefineFunctionDuplicateSignatureRejected(t *testing.T) {
	top := New()
	f1 := types.NewFunctionType([]types.Type{types.NewPrimitive(types.Int)}, types.NewUnit())
	f2 := types.NewFunctionType([]types.Type{types.NewPrimitive(types.Int)}, types.NewPrimitive(types.StringT))

	if err := top.DefineFunction("f", f1, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := top.DefineFunction("f", f2, nil); err == nil {
		t.Error("expected an error for a duplicate parameter-shape overload")
	}
}

func TestResolveImportsAliasAndWildcard(t *testing.T) {
	imports := []*ast.ImportDecl{
		{Name: &ast.QualifiedName{Parts: []string{"nova", "collections", "List"}}},
		{Name: &ast.QualifiedName{Parts: []string{"nova", "io", "File"}}, Alias: "F"},
		{Name: &ast.QualifiedName{Parts: []string{"nova", "text"}}, Wildcard: true},
	}

	bindings := ResolveImports(imports)
	if len(bindings) != 3 {
		t.Fatalf("expected 3 bindings, got %d", len(bindings))
	}
	if bindings[0].LocalName != "List" {
		t.Errorf("expected local name List, got %q", bindings[0].LocalName)
	}
	if bindings[1].LocalName != "F" {
		t.Errorf("expected alias F, got %q", bindings[1].LocalName)
	}
	if !bindings[2].Wildcard {
		t.Error("expected third import to be a wildcard")
	}
}

// TestResolveNormalizesUnicodeForm defines an identifier spelled with a
// combining acute accent and resolves it spelled with the precomposed
// equivalent, asserting the two forms name the same symbol.
func TestResolveNormalizesUnicodeForm(t *testing.T) {
	precomposed := "café" // precomposed: e-acute as a single codepoint
	decomposed := "café" // decomposed: plain e followed by a combining acute

	top := New()
	top.Define(&Symbol{Name: decomposed, Kind: KindVal, Type: types.NewPrimitive(types.StringT)})

	sym, ok := top.Resolve(precomposed)
	if !ok {
		t.Fatal("expected the precomposed spelling to resolve to the symbol defined with the decomposed spelling")
	}
	if sym.Name != decomposed {
		t.Errorf("expected resolved symbol name %q, got %q", decomposed, sym.Name)
	}
	if !top.DeclaredHere(precomposed) {
		t.Error("expected DeclaredHere to recognize the precomposed spelling as already declared")
	}
}
