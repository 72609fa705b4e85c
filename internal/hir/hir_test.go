package hir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/hir"
	"github.com/novaforge/nova/internal/lexer"
	"github.com/novaforge/nova/internal/parser"
	"github.com/novaforge/nova/internal/semantic"
)

func lowerSource(t *testing.T, src string) (*hir.Module, *diagnostics.Sink) {
	t.Helper()
	sink := diagnostics.NewSink()
	toks := lexer.New(src, sink).ScanAll()
	prog := parser.New(toks, sink).ParseProgram()
	require.False(t, sink.HasErrors(), "parse errors: %s", diagnostics.Format(sink.All()))

	an := semantic.New(sink)
	an.Analyze(prog)
	require.False(t, sink.HasErrors(), "semantic errors: %s", diagnostics.Format(sink.All()))

	mod := hir.NewLowerer(an).Lower(prog)
	return mod, sink
}

func TestLowerSimpleFunction(t *testing.T) {
	src := `
fun add(a: Int, b: Int): Int {
    return a + b
}
`
	mod, _ := lowerSource(t, src)
	require.NotNil(t, mod)

	var found *hir.Function
	for _, fn := range mod.Functions {
		if fn.Name == "add" {
			found = fn
		}
	}
	require.NotNil(t, found, "expected a lowered function named add")
	require.Len(t, found.Params, 2)
}

func TestOptimizeFoldsConstants(t *testing.T) {
	src := `
fun answer(): Int {
    return 40 + 2
}
`
	mod, _ := lowerSource(t, src)
	hir.Optimize(mod)
	require.NotNil(t, mod)
}
