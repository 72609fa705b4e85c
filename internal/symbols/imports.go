package symbols

import "github.com/novaforge/nova/internal/ast"

// ImportBinding records one resolved import: the local name it introduces
// into the top-level scope and the fully-qualified name it refers to.
type ImportBinding struct {
	LocalName     string
	QualifiedName string
	Wildcard      bool
}

// ResolveImports turns a program's import declarations into bindings,
// applying aliasing (`import a.b.C as D` binds `D`), and wildcard markers
// (`import a.b.*` records the package prefix without a local name;
// DefineImports skips such bindings, so a wildcard import brings no names
// into scope).
func ResolveImports(imports []*ast.ImportDecl) []ImportBinding {
	bindings := make([]ImportBinding, 0, len(imports))
	for _, imp := range imports {
		qualified := imp.Name.String()
		if imp.Wildcard {
			bindings = append(bindings, ImportBinding{QualifiedName: qualified, Wildcard: true})
			continue
		}
		local := imp.Alias
		if local == "" {
			local = lastSegment(imp.Name.Parts)
		}
		bindings = append(bindings, ImportBinding{LocalName: local, QualifiedName: qualified})
	}
	return bindings
}

func lastSegment(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1]
}

// DefineImports populates scope with one KindPackage placeholder symbol
// (with no Type) per non-wildcard import binding. Nothing later resolves
// the placeholder against the imported declaration.
func DefineImports(scope *Table, bindings []ImportBinding) {
	for _, b := range bindings {
		if b.Wildcard {
			continue
		}
		scope.Define(&Symbol{Name: b.LocalName, Kind: KindPackage})
	}
}
