package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/types"
)

// varianceSite tags where inside a signature a type-parameter occurrence
// was found: OUT positions are a return type or a `val`
// property type, IN positions are a function parameter type, and
// INVARIANT positions are a `var` property type or an invariant generic
// argument. Nesting inside a function-type parameter or an `in`-annotated
// type argument flips the position, mirroring contravariance.
type varianceSite int

const (
	siteOut varianceSite = iota
	siteIn
	siteInvariant
)

func (s varianceSite) flipped() varianceSite {
	switch s {
	case siteOut:
		return siteIn
	case siteIn:
		return siteOut
	default:
		return siteInvariant
	}
}

// checkClassVariance validates that every declared `out`/`in` type
// parameter of decl is used only in positions consistent with its
// declared variance across ct's fields and method signatures: an `out T`
// parameter may appear only in OUT positions, an `in T` only in IN
// positions; invariant parameters have no restriction.
func (a *Analyzer) checkClassVariance(decl *ast.ClassDecl, ct *types.ClassType) {
	for _, tp := range ct.TypeParams {
		if tp.Variance == types.Invariant {
			continue
		}
		for fname, f := range ct.Fields {
			site := siteOut
			if f.Mutable {
				site = siteInvariant
			}
			a.checkVarianceUse(decl, tp, f.Type, site, fname)
		}
		for mname, overloads := range ct.Methods {
			for _, m := range overloads {
				a.checkVarianceUse(decl, tp, m.Signature.Return, siteOut, mname)
				for _, p := range m.Signature.Params {
					a.checkVarianceUse(decl, tp, p, siteIn, mname)
				}
			}
		}
	}
}

// checkVarianceUse walks t looking for occurrences of tp, reporting a
// warning at each one found in a position inconsistent with tp's declared
// variance.
func (a *Analyzer) checkVarianceUse(node ast.Node, tp *types.TypeParameter, t types.Type, site varianceSite, memberName string) {
	if t == nil {
		return
	}
	switch v := t.(type) {
	case *types.TypeParameterType:
		if v.Param.Name != tp.Name {
			return
		}
		switch tp.Variance {
		case types.Out:
			if site == siteIn || site == siteInvariant {
				a.warnf(node, "type parameter %q is declared `out` but used in an %s position on %q", tp.Name, positionName(site), memberName)
			}
		case types.In:
			if site == siteOut || site == siteInvariant {
				a.warnf(node, "type parameter %q is declared `in` but used in an %s position on %q", tp.Name, positionName(site), memberName)
			}
		}
	case *types.FunctionType:
		// Function-type parameters are themselves IN positions relative to
		// the enclosing position, and the return type keeps it; recurse
		// with each flipped for parameters.
		for _, p := range v.Params {
			a.checkVarianceUse(node, tp, p, site.flipped(), memberName)
		}
		a.checkVarianceUse(node, tp, v.Return, site, memberName)
	case *types.ClassType:
		a.checkVarianceUseTypeArgs(node, tp, v.TypeArgs, site, memberName)
	case *types.InterfaceType:
		a.checkVarianceUseTypeArgs(node, tp, v.TypeArgs, site, memberName)
	}
}

func (a *Analyzer) checkVarianceUseTypeArgs(node ast.Node, tp *types.TypeParameter, args []types.TypeArgumentValue, site varianceSite, memberName string) {
	for _, arg := range args {
		if arg.Wildcard {
			continue
		}
		argSite := site
		if arg.Variance == types.In {
			argSite = site.flipped()
		} else if arg.Variance == types.Invariant {
			argSite = siteInvariant
		}
		a.checkVarianceUse(node, tp, arg.Type, argSite, memberName)
	}
}

func positionName(s varianceSite) string {
	switch s {
	case siteOut:
		return "out"
	case siteIn:
		return "in"
	default:
		return "invariant"
	}
}
