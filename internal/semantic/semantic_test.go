package semantic_test

import (
	"testing"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/lexer"
	"github.com/novaforge/nova/internal/parser"
	"github.com/novaforge/nova/internal/semantic"
)

func analyzeSource(t *testing.T, src string) *diagnostics.Sink {
	t.Helper()
	sink := diagnostics.NewSink()
	toks := lexer.New(src, sink).ScanAll()
	prog := parser.New(toks, sink).ParseProgram()
	if sink.HasErrors() {
		t.Fatalf("unexpected parse errors: %s", diagnostics.Format(sink.All()))
	}
	semantic.New(sink).Analyze(prog)
	return sink
}

func requireNoErrors(t *testing.T, sink *diagnostics.Sink) {
	t.Helper()
	if sink.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnostics.Format(sink.All()))
	}
}

func requireError(t *testing.T, sink *diagnostics.Sink, substr string) {
	t.Helper()
	for _, d := range sink.All() {
		if d.Severity == diagnostics.Error && contains(d.Message, substr) {
			return
		}
	}
	t.Fatalf("expected an error containing %q, got: %s", substr, diagnostics.Format(sink.All()))
}

func requireWarning(t *testing.T, sink *diagnostics.Sink, substr string) {
	t.Helper()
	for _, d := range sink.All() {
		if d.Severity == diagnostics.Warning && contains(d.Message, substr) {
			return
		}
	}
	t.Fatalf("expected a warning containing %q, got: %s", substr, diagnostics.Format(sink.All()))
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

func TestAnalyzeSimpleFunction(t *testing.T) {
	src := `fun add(a: Int, b: Int): Int {
    return a + b
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
}

func TestAnalyzeReturnTypeMismatch(t *testing.T) {
	src := `fun greet(): Int {
    return "hello"
}
`
	sink := analyzeSource(t, src)
	requireError(t, sink, "returned")
}

func TestAnalyzeUndefinedIdentifier(t *testing.T) {
	src := `fun useIt(): Int {
    return missingName
}
`
	sink := analyzeSource(t, src)
	requireError(t, sink, "missingName")
}

func TestAnalyzeClassHierarchyOutOfOrder(t *testing.T) {
	// Dog references Animal before Animal's declaration; pass 1's stub
	// registration must make this resolve regardless of order.
	src := `class Dog : Animal {
    override fun speak(): String = "Woof"
}

open class Animal {
    open fun speak(): String = "..."
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
}

func TestAnalyzeNumericPromotion(t *testing.T) {
	src := `fun mix(a: Int, b: Double): Double {
    return a + b
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
}

func TestAnalyzeNullableAssignmentRejected(t *testing.T) {
	src := `fun take(x: Int) {
}

fun call(y: Int?) {
    take(y)
}
`
	sink := analyzeSource(t, src)
	requireError(t, sink, "take")
}

func TestAnalyzeSealedWhenExhaustiveness(t *testing.T) {
	src := `sealed class Shape

class Circle : Shape
class Square : Shape

fun area(s: Shape): Int {
    return when (s) {
        is Circle -> 1
        else -> 0
    }
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
}

func TestAnalyzeSealedWhenNonExhaustive(t *testing.T) {
	src := `sealed class Shape

class Circle : Shape
class Square : Shape

fun area(s: Shape): Int {
    return when (s) {
        is Circle -> 1
    }
}
`
	sink := analyzeSource(t, src)
	requireError(t, sink, "not exhaustive")
}

func TestAnalyzeOutVarianceViolation(t *testing.T) {
	src := `class Box<out T>(val value: T) {
    fun set(newValue: T) {
    }
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
	requireWarning(t, sink, "out")
}

func TestAnalyzeOverloadResolutionPicksNarrowest(t *testing.T) {
	src := `fun show(x: Int): String = "int"
fun show(x: Double): String = "double"

fun useIt(): String {
    return show(1)
}
`
	sink := analyzeSource(t, src)
	requireNoErrors(t, sink)
}

func TestAnalyzeAmbiguousOverloadCall(t *testing.T) {
	src := `fun pick(x: Int, y: Double): String = "a"
fun pick(x: Double, y: Int): String = "b"

fun useIt(): String {
    return pick(1, 1)
}
`
	sink := analyzeSource(t, src)
	requireError(t, sink, "ambiguous")
}
