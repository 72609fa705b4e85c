package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
)

// errorf reports an error-severity diagnostic anchored at node's range. It
// returns nothing; callers return types.NewError() themselves so the
// failure propagates as a type without a second diagnostic.
func (a *Analyzer) errorf(node ast.Node, format string, args ...any) {
	a.sink.Report(diagnostics.Error, node.Range(), format, args...)
}

func (a *Analyzer) warnf(node ast.Node, format string, args ...any) {
	a.sink.Report(diagnostics.Warning, node.Range(), format, args...)
}

func (a *Analyzer) hintf(node ast.Node, format string, args ...any) {
	a.sink.Report(diagnostics.Info, node.Range(), format, args...)
}
