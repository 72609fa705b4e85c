package parser_test

import (
	"testing"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/lexer"
	"github.com/novaforge/nova/internal/parser"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	toks := lexer.New(src, sink).ScanAll()
	prog := parser.New(toks, sink).ParseProgram()
	return prog, sink
}

func requireNoErrors(t *testing.T, sink *diagnostics.Sink) {
	t.Helper()
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnostics.Format(sink.All()))
	}
}

func TestParsePackageAndImports(t *testing.T) {
	src := `package com.example.app

import kotlin.collections.List
import com.example.util.*
import com.example.other.Thing as Alias
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	if prog.Package == nil || prog.Package.Name.String() != "com.example.app" {
		t.Fatalf("expected package com.example.app, got %+v", prog.Package)
	}
	if len(prog.Imports) != 3 {
		t.Fatalf("expected 3 imports, got %d", len(prog.Imports))
	}
	if !prog.Imports[1].Wildcard {
		t.Fatalf("expected second import to be a wildcard import")
	}
	if prog.Imports[2].Alias != "Alias" {
		t.Fatalf("expected alias Alias, got %q", prog.Imports[2].Alias)
	}
}

func TestParseSimpleFunction(t *testing.T) {
	src := `fun add(a: Int, b: Int): Int {
    return a + b
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 decl, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FunDecl)
	if !ok {
		t.Fatalf("expected *ast.FunDecl, got %T", prog.Decls[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
	block, ok := fn.Body.(*ast.Block)
	if !ok || len(block.Stmts) != 1 {
		t.Fatalf("expected a single-statement body, got %+v", fn.Body)
	}
	if _, ok := block.Stmts[0].(*ast.ReturnStmt); !ok {
		t.Fatalf("expected return statement, got %T", block.Stmts[0])
	}
}

func TestParseExpressionBodyFunction(t *testing.T) {
	src := `fun square(x: Int): Int = x * x
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	bin, ok := fn.ExprBody.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.OpMul {
		t.Fatalf("expected x * x expression body, got %+v", fn.ExprBody)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	src := `fun f(): Int = 1 + 2 * 3
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	top, ok := fn.ExprBody.(*ast.BinaryExpr)
	if !ok || top.Op != ast.OpAdd {
		t.Fatalf("expected top-level +, got %+v", fn.ExprBody)
	}
	right, ok := top.Right.(*ast.BinaryExpr)
	if !ok || right.Op != ast.OpMul {
		t.Fatalf("expected 2 * 3 nested on the right, got %+v", top.Right)
	}
}

func TestElvisAndSafeCallChain(t *testing.T) {
	src := `fun f(a: Foo?): Int = a?.bar()?.baz ?: 0
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	elvis, ok := fn.ExprBody.(*ast.ElvisExpr)
	if !ok {
		t.Fatalf("expected top-level Elvis expression, got %+v", fn.ExprBody)
	}
	member, ok := elvis.Left.(*ast.MemberExpr)
	if !ok || !member.Safe || member.Name != "baz" {
		t.Fatalf("expected safe member access .baz, got %+v", elvis.Left)
	}
}

func TestNotNullAssertAndPipeline(t *testing.T) {
	src := `fun f(a: Foo?): Int = a!! |> transform
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	pipe, ok := fn.ExprBody.(*ast.PipelineExpr)
	if !ok {
		t.Fatalf("expected top-level pipeline expression, got %+v", fn.ExprBody)
	}
	if _, ok := pipe.Value.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected a!! as pipeline input, got %+v", pipe.Value)
	}
}

func TestClassWithPrimaryConstructorAndSupertype(t *testing.T) {
	src := `class Point(val x: Int, var y: Int) : Comparable<Point> {
    fun distance(): Int {
        return x + y
    }
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	cls := prog.Decls[0].(*ast.ClassDecl)
	if cls.Name != "Point" || len(cls.PrimaryParams) != 2 {
		t.Fatalf("unexpected class shape: %+v", cls)
	}
	if !cls.PrimaryParams[0].IsProperty || cls.PrimaryParams[0].Mutable {
		t.Fatalf("expected x to be an immutable property param: %+v", cls.PrimaryParams[0])
	}
	if !cls.PrimaryParams[1].Mutable {
		t.Fatalf("expected y to be a mutable property param: %+v", cls.PrimaryParams[1])
	}
	if len(cls.Supertypes) != 1 {
		t.Fatalf("expected 1 supertype, got %d", len(cls.Supertypes))
	}
	generic, ok := cls.Supertypes[0].Type.(*ast.GenericType)
	if !ok || generic.Name != "Comparable" {
		t.Fatalf("expected Comparable<Point> supertype, got %+v", cls.Supertypes[0].Type)
	}
	if len(cls.Members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(cls.Members))
	}
}

func TestGenericCallVsComparisonBacktracking(t *testing.T) {
	src := `fun f(): Int = identity<Int>(5)
fun g(a: Int, b: Int): Boolean = a < b
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	f := prog.Decls[0].(*ast.FunDecl)
	call, ok := f.ExprBody.(*ast.CallExpr)
	if !ok || len(call.TypeArgs) != 1 {
		t.Fatalf("expected identity<Int>(5) to parse as a generic call, got %+v", f.ExprBody)
	}

	g := prog.Decls[1].(*ast.FunDecl)
	cmp, ok := g.ExprBody.(*ast.BinaryExpr)
	if !ok || cmp.Op != ast.OpLt {
		t.Fatalf("expected a < b to parse as a comparison, got %+v", g.ExprBody)
	}
}

func TestWhenExpression(t *testing.T) {
	src := `fun describe(x: Int): String = when (x) {
    0 -> "zero"
    1, 2 -> "small"
    else -> "large"
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	when, ok := fn.ExprBody.(*ast.WhenExpr)
	if !ok || len(when.Branches) != 3 {
		t.Fatalf("expected a 3-branch when expression, got %+v", fn.ExprBody)
	}
	if len(when.Branches[1].Conds) != 2 {
		t.Fatalf("expected branch 1 to share 2 conditions, got %+v", when.Branches[1])
	}
	if when.Branches[2].Conds != nil {
		t.Fatalf("expected the else branch to carry no conditions")
	}
}

func TestForLoopOverRange(t *testing.T) {
	src := `fun f() {
    for (i in 0..<10) {
        println(i)
    }
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	block := fn.Body.(*ast.Block)
	forStmt, ok := block.Stmts[0].(*ast.ForStmt)
	if !ok || forStmt.VarName != "i" {
		t.Fatalf("expected for (i in ...), got %+v", block.Stmts[0])
	}
	rng, ok := forStmt.Iterable.(*ast.RangeExpr)
	if !ok || !rng.Exclusive {
		t.Fatalf("expected an exclusive range, got %+v", forStmt.Iterable)
	}
}

func TestLambdaWithImplicitIt(t *testing.T) {
	src := `fun f(): Int = list.map { it * 2 }
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	call, ok := fn.ExprBody.(*ast.CallExpr)
	if !ok || call.TrailingLambda == nil {
		t.Fatalf("expected a trailing lambda call, got %+v", fn.ExprBody)
	}
	body := call.TrailingLambda.Body
	exprStmt := body.Stmts[0].(*ast.ExpressionStmt)
	bin, ok := exprStmt.Expr.(*ast.BinaryExpr)
	if !ok {
		t.Fatalf("expected it * 2, got %+v", exprStmt.Expr)
	}
	if _, ok := bin.Left.(*ast.ItExpr); !ok {
		t.Fatalf("expected implicit it on the left, got %+v", bin.Left)
	}
}

func TestDestructuringDeclaration(t *testing.T) {
	src := `fun f() {
    val (a, b) = pair
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	block := fn.Body.(*ast.Block)
	declStmt := block.Stmts[0].(*ast.DeclarationStmt)
	destr, ok := declStmt.Decl.(*ast.DestructuringDecl)
	if !ok || len(destr.Names) != 2 || destr.Names[0] != "a" || destr.Names[1] != "b" {
		t.Fatalf("expected destructuring (a, b), got %+v", declStmt.Decl)
	}
}

func TestGuardStatement(t *testing.T) {
	src := `fun f(x: Int?) {
    guard x != null else {
        return
    }
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	block := fn.Body.(*ast.Block)
	if _, ok := block.Stmts[0].(*ast.GuardStmt); !ok {
		t.Fatalf("expected a guard statement, got %T", block.Stmts[0])
	}
}

func TestInterfaceAndEnumDecl(t *testing.T) {
	src := `interface Shape {
    fun area(): Double
}

enum class Color {
    RED, GREEN, BLUE
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	if len(prog.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(prog.Decls))
	}
	iface, ok := prog.Decls[0].(*ast.InterfaceDecl)
	if !ok || iface.Name != "Shape" || len(iface.Members) != 1 {
		t.Fatalf("unexpected interface shape: %+v", prog.Decls[0])
	}
	enum, ok := prog.Decls[1].(*ast.EnumDecl)
	if !ok || enum.Name != "Color" || len(enum.Entries) != 3 {
		t.Fatalf("unexpected enum shape: %+v", prog.Decls[1])
	}
}

func TestStringInterpolation(t *testing.T) {
	src := "fun greet(name: String): String = \"Hello, ${name}!\"\n"
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	fn := prog.Decls[0].(*ast.FunDecl)
	interp, ok := fn.ExprBody.(*ast.InterpolatedStringExpr)
	if !ok || len(interp.Parts) != 3 {
		t.Fatalf("expected 3 interpolation parts, got %+v", fn.ExprBody)
	}
	if interp.Parts[1].Expr == nil {
		t.Fatalf("expected the middle part to hold an embedded expression")
	}
}

func TestTernaryAndErrorPropagationShareQuestionToken(t *testing.T) {
	src := `fun pick(a: Int, b: Int): Int = a > b ? a : b

fun loadOrFail(): Int {
    val n = fetch()?
    return n
}
`
	prog, sink := parseProgram(t, src)
	requireNoErrors(t, sink)

	pick := prog.Decls[0].(*ast.FunDecl)
	ifExpr, ok := pick.ExprBody.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected a ternary IfExpr body, got %+v", pick.ExprBody)
	}
	if ifExpr.Then == nil || ifExpr.Else == nil {
		t.Fatalf("expected both ternary branches to be populated")
	}

	loadOrFail := prog.Decls[1].(*ast.FunDecl)
	decl := loadOrFail.Body.Stmts[0].(*ast.DeclarationStmt).Decl.(*ast.PropertyDecl)
	if _, ok := decl.Initializer.(*ast.ErrorPropagationExpr); !ok {
		t.Fatalf("expected an ErrorPropagationExpr initializer, got %+v", decl.Initializer)
	}
}

func TestParserRecoversFromMalformedDecl(t *testing.T) {
	src := `fun broken(: Int) {
}

fun ok(): Int = 1
`
	prog, sink := parseProgram(t, src)
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for the malformed declaration")
	}
	found := false
	for _, d := range prog.Decls {
		if fn, ok := d.(*ast.FunDecl); ok && fn.Name == "ok" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and still parse the later declaration")
	}
}
