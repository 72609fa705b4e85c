package semantic

import (
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/types"
)

// missingBranchCollator orders the "missing branch" names in an
// exhaustiveness diagnostic the same way regardless of the host locale's
// default string sort, so the message text is reproducible across
// machines and CI environments.
var missingBranchCollator = collate.New(language.Und)

// checkWhenExhaustiveness reports an error at site when a `when` over a
// sealed-hierarchy or enum subject doesn't cover every known subtype and
// has no `else` branch, per the sealed-hierarchy exhaustiveness
// rule. Non-sealed subjects (no entry in sealedSubclasses) are never
// flagged -- exhaustiveness is checked only where the closed set of
// subtypes is actually known.
func (a *Analyzer) checkWhenExhaustiveness(branches []*ast.WhenBranch, subjectT types.Type, site ast.Node) {
	subclasses, sealed := a.sealedSubclasses[subjectT.Name()]
	if !sealed {
		return
	}

	covered := make(map[string]bool, len(branches))
	for _, br := range branches {
		if isElseBranch(br) {
			return
		}
		if !br.IsIs {
			for _, c := range br.Conds {
				switch ce := c.(type) {
				case *ast.MemberExpr: // `Color.RED ->`
					if recv, ok := ce.Receiver.(*ast.Ident); ok {
						covered[recv.Name+"."+ce.Name] = true
					}
				case *ast.Ident: // bare `RED ->`
					covered[subjectT.Name()+"."+ce.Name] = true
				}
			}
			continue
		}
		for _, tr := range br.Types {
			covered[typeRefName(tr)] = true
		}
	}

	var missing []string
	for _, name := range subclasses {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return
	}
	missingBranchCollator.SortStrings(missing)
	a.errorf(site, "`when` over sealed type %q is not exhaustive: missing branch(es) for %v", subjectT.Name(), missing)
}

func isElseBranch(br *ast.WhenBranch) bool {
	return !br.IsIs && len(br.Conds) == 0
}

func typeRefName(tr ast.TypeRef) string {
	switch t := tr.(type) {
	case *ast.SimpleType:
		return t.Name
	case *ast.GenericType:
		return t.Name
	case *ast.NullableType:
		return typeRefName(t.Inner)
	default:
		return ""
	}
}
