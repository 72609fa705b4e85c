package semantic

import (
	"strings"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// signatureShapeEqual reports whether a and b declare the same parameter
// types and return type, ignoring receiver/suspend -- used to match an
// abstract member against the override that satisfies it, grounded on
// DWScript's SignaturesEqual.
func signatureShapeEqual(a, b *types.FunctionType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !types.Equal(a.Params[i], b.Params[i]) {
			return false
		}
	}
	return types.Equal(a.Return, b.Return)
}

// typeDistance scores how far argT is from being exactly paramT: 0 exact,
// 1 for widening along the numeric promotion ladder, 2 for any other
// subtyping conversion (upcast, nullable widening), -1 if incompatible.
func (a *Analyzer) typeDistance(argT, paramT types.Type) int {
	if types.IsError(argT) || types.IsError(paramT) {
		return 0
	}
	if types.Equal(argT, paramT) {
		return 0
	}
	if argP, ok := argT.(*types.PrimitiveType); ok {
		if paramP, ok := paramT.(*types.PrimitiveType); ok && argP.IsNumeric() && paramP.IsNumeric() {
			if argP.Nullable() && !paramP.Nullable() {
				return -1
			}
			if argP.Rank() <= paramP.Rank() {
				return 1
			}
			return -1
		}
	}
	if a.registry.IsSubtype(argT, paramT) {
		return 2
	}
	return -1
}

// signatureDistance scores how well argTypes fit sig's parameter list, or
// -1 if they don't fit at all (arity mismatch or an incompatible
// argument), grounded on DWScript's SignatureDistance.
func (a *Analyzer) signatureDistance(sig *types.FunctionType, argTypes []types.Type) int {
	if len(argTypes) != len(sig.Params) {
		return -1
	}
	total := 0
	for i, argT := range argTypes {
		d := a.typeDistance(argT, sig.Params[i])
		if d < 0 {
			return -1
		}
		total += d
	}
	return total
}

// resolveOverload picks the best-matching overload of candidates for a
// call with argTypes at site, reporting a no-match or ambiguous-call
// diagnostic and returning nil when resolution fails.
func (a *Analyzer) resolveOverload(name string, candidates []*symbols.Symbol, argTypes []types.Type, site ast.Node) *symbols.Symbol {
	best := -1
	var bestSym *symbols.Symbol
	ambiguous := false

	for _, cand := range candidates {
		sig, ok := cand.Type.(*types.FunctionType)
		if !ok {
			continue
		}
		d := a.signatureDistance(sig, argTypes)
		if d < 0 {
			continue
		}
		switch {
		case best == -1 || d < best:
			best, bestSym, ambiguous = d, cand, false
		case d == best:
			ambiguous = true
		}
	}

	if bestSym == nil {
		a.errorf(site, "no overload of %q matches argument types (%s)", name, a.formatArgTypes(argTypes))
		return nil
	}
	if ambiguous {
		a.errorf(site, "ambiguous call to overloaded %q with argument types (%s)", name, a.formatArgTypes(argTypes))
		return nil
	}
	return bestSym
}

func (a *Analyzer) formatArgTypes(argTypes []types.Type) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		if t == nil {
			parts[i] = "<error>"
			continue
		}
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
