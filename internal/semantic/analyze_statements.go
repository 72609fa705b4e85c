package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// analyzeBodies is pass 3: full statement/expression type-checking of
// every function body, property initializer, and top-level statement, now
// that every signature is resolvable regardless of declaration order.
func (a *Analyzer) analyzeBodies(prog *ast.Program) {
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunDecl:
			a.analyzeFunctionBody(decl, nil)
		case *ast.PropertyDecl:
			a.analyzeTopLevelProperty(decl)
		case *ast.ClassDecl:
			a.analyzeClassBody(decl)
		case *ast.InterfaceDecl:
			// Interface members have no bodies to check beyond default
			// method bodies, which the language edition this targets
			// does not support; nothing further to do here.
		case *ast.EnumDecl:
			a.analyzeEnumBody(decl)
		case *ast.ObjectDecl:
			a.analyzeObjectBody(decl)
		}
	}
}

func (a *Analyzer) analyzeTopLevelProperty(pd *ast.PropertyDecl) {
	if pd.Initializer == nil {
		return
	}
	initT := a.analyzeExpr(pd.Initializer)
	if sym, ok := a.global.Resolve(pd.Name); ok && pd.Type != nil {
		if !a.canAssign(initT, sym.Type) {
			a.errorf(pd.Initializer, "cannot assign %s to property %q of type %s", initT, pd.Name, sym.Type)
		}
	}
}

func (a *Analyzer) analyzeClassBody(decl *ast.ClassDecl) {
	ct := a.classes[decl.Name]
	if ct == nil {
		return
	}
	restoreClass := a.currentClass
	a.currentClass = ct
	defer func() { a.currentClass = restoreClass }()

	restoreScope := a.enterScope()
	defer restoreScope()

	a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})

	_, restoreParams := a.resolveTypeParamList(decl.TypeParams)
	defer restoreParams()

	for _, p := range decl.PrimaryParams {
		a.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: a.resolveType(p.Type), Mutable: p.Mutable})
		if p.Default != nil {
			a.analyzeExpr(p.Default)
		}
	}
	for _, st := range decl.Supertypes {
		for _, arg := range st.Args {
			a.analyzeExpr(arg)
		}
	}

	a.analyzeMembers(decl.Members, ct)

	if decl.Companion != nil {
		a.analyzeObjectBody(decl.Companion)
	}
}

func (a *Analyzer) analyzeEnumBody(decl *ast.EnumDecl) {
	ct := a.classes[decl.Name]
	if ct == nil {
		return
	}
	restoreScope := a.enterScope()
	defer restoreScope()
	a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})

	for _, p := range decl.PrimaryParams {
		a.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: a.resolveType(p.Type), Mutable: p.Mutable})
	}
	for _, entry := range decl.Entries {
		for _, arg := range entry.Args {
			a.analyzeExpr(arg)
		}
		a.analyzeMembers(entry.Members, ct)
	}
	a.analyzeMembers(decl.Members, ct)
}

func (a *Analyzer) analyzeObjectBody(decl *ast.ObjectDecl) {
	ct := a.classes[decl.Name]
	if ct == nil {
		ct = types.NewClass(decl.Name, nil)
	}
	restoreScope := a.enterScope()
	defer restoreScope()
	a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})

	for _, st := range decl.Supertypes {
		for _, arg := range st.Args {
			a.analyzeExpr(arg)
		}
	}
	a.analyzeMembers(decl.Members, ct)
}

func (a *Analyzer) analyzeMembers(members []ast.Decl, ct *types.ClassType) {
	for _, m := range members {
		switch md := m.(type) {
		case *ast.FunDecl:
			a.analyzeFunctionBody(md, ct)
		case *ast.PropertyDecl:
			a.analyzeMemberProperty(md, ct)
		case *ast.ConstructorDecl:
			a.analyzeConstructor(md, ct)
		case *ast.InitBlockDecl:
			a.analyzeBlock(md.Body)
		case *ast.ClassDecl:
			a.analyzeClassBody(md)
		case *ast.ObjectDecl:
			a.analyzeObjectBody(md)
		}
	}
}

func (a *Analyzer) analyzeMemberProperty(pd *ast.PropertyDecl, ct *types.ClassType) {
	declared := ct.FieldType(pd.Name)
	if pd.Initializer != nil {
		initT := a.analyzeExpr(pd.Initializer)
		if declared != nil && !a.canAssign(initT, declared) {
			a.errorf(pd.Initializer, "cannot assign %s to property %q of type %s", initT, pd.Name, declared)
		}
	}
	if pd.Getter != nil {
		a.analyzeFunctionBody(pd.Getter, ct)
	}
	if pd.Setter != nil {
		a.analyzeFunctionBody(pd.Setter, ct)
	}
}

func (a *Analyzer) analyzeConstructor(cd *ast.ConstructorDecl, ct *types.ClassType) {
	restoreScope := a.enterScope()
	defer restoreScope()
	a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})
	for _, p := range cd.Params {
		a.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: a.resolveType(p.Type), Mutable: p.Mutable})
	}
	for _, arg := range cd.DelegateArgs {
		a.analyzeExpr(arg)
	}
	if cd.Body != nil {
		a.analyzeBlock(cd.Body)
	}
}

// analyzeFunctionBody type-checks one function/method body in a fresh
// scope seeded with `this` (when owner is non-nil) and its parameters,
// and checks the body/expression return type against the declared one.
func (a *Analyzer) analyzeFunctionBody(fd *ast.FunDecl, owner *types.ClassType) {
	restoreScope := a.enterScope()
	defer restoreScope()

	_, restoreParams := a.resolveTypeParamList(fd.TypeParams)
	defer restoreParams()

	if owner != nil {
		a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: owner})
	}
	if fd.Receiver != nil {
		recvT := a.resolveType(fd.Receiver)
		a.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: recvT})
	}
	for _, p := range fd.Params {
		if p.Default != nil {
			a.analyzeExpr(p.Default)
		}
		a.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: a.resolveType(p.Type)})
	}

	var ret types.Type
	if fd.ReturnType != nil {
		ret = a.resolveType(fd.ReturnType)
	} else {
		ret = types.NewUnit()
	}
	restoreReturn := a.currentReturn
	a.currentReturn = ret
	defer func() { a.currentReturn = restoreReturn }()

	if fd.Modifiers.Abstract || (fd.Body == nil && fd.ExprBody == nil) {
		return
	}

	if fd.ExprBody != nil {
		bodyT := a.analyzeExpr(fd.ExprBody)
		if fd.ReturnType != nil && !a.canAssign(bodyT, ret) {
			a.errorf(fd.ExprBody, "function %q returns %s, expected %s", fd.Name, bodyT, ret)
		}
		return
	}
	if fd.Body != nil {
		if block, ok := fd.Body.(*ast.Block); ok {
			a.analyzeBlock(block)
		} else {
			a.analyzeStmt(fd.Body)
		}
	}
}

func (a *Analyzer) analyzeBlock(b *ast.Block) {
	if b == nil {
		return
	}
	restore := a.enterScope()
	defer restore()
	for _, s := range b.Stmts {
		a.analyzeStmt(s)
	}
}

// analyzeStmt type-checks one statement, discarding any value it produces
// except where that value feeds the enclosing function's return/jump
// checking.
func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		a.analyzeBlock(st)
	case *ast.ExpressionStmt:
		a.analyzeExpr(st.Expr)
	case *ast.DeclarationStmt:
		a.analyzeLocalDecl(st.Decl)
	case *ast.IfStmt:
		a.analyzeIfStmt(st)
	case *ast.WhenStmt:
		a.analyzeWhenStmt(st)
	case *ast.ForStmt:
		a.analyzeForStmt(st)
	case *ast.WhileStmt:
		a.analyzeLoop(st.Label, st.Body, func() { a.analyzeExpr(st.Cond) })
	case *ast.DoWhileStmt:
		a.analyzeLoop(st.Label, st.Body, func() { a.analyzeExpr(st.Cond) })
	case *ast.TryStmt:
		a.analyzeTryStmt(st)
	case *ast.ReturnStmt:
		a.analyzeReturnStmt(st)
	case *ast.BreakStmt:
		a.checkLoopOrLabel(st, st.Label, "break")
	case *ast.ContinueStmt:
		a.checkLoopOrLabel(st, st.Label, "continue")
	case *ast.ThrowStmt:
		a.analyzeExpr(st.Value)
	case *ast.GuardStmt:
		a.analyzeGuardStmt(st)
	case *ast.UseStmt:
		a.analyzeUseStmt(st)
	case *ast.LabeledStmt:
		a.activeLabels[st.Label] = true
		a.analyzeStmt(st.Stmt)
		delete(a.activeLabels, st.Label)
	case *ast.DestructuringDecl:
		a.analyzeDestructuring(st)
	}
}

func (a *Analyzer) analyzeLocalDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.PropertyDecl:
		var t types.Type
		if decl.Initializer != nil {
			t = a.analyzeExpr(decl.Initializer)
		}
		if decl.Type != nil {
			declared := a.resolveType(decl.Type)
			if t != nil && !a.canAssign(t, declared) {
				a.errorf(decl.Initializer, "cannot assign %s to %q of type %s", t, decl.Name, declared)
			}
			t = declared
		}
		if t == nil {
			t = types.NewError()
		}
		kind := symbols.KindVal
		if decl.Mutable {
			kind = symbols.KindVar
		}
		if a.scope.DeclaredHere(decl.Name) {
			a.errorf(decl, "%q is already declared in this scope", decl.Name)
		}
		a.scope.Define(&symbols.Symbol{Name: decl.Name, Kind: kind, Type: t, Declaring: decl, Mutable: decl.Mutable})
	case *ast.FunDecl:
		a.declareFunctionSignature(decl, a.scope)
		a.analyzeFunctionBody(decl, a.currentClass)
	case *ast.DestructuringDecl:
		a.analyzeDestructuring(decl)
	}
}

func (a *Analyzer) analyzeDestructuring(d *ast.DestructuringDecl) {
	if d.Initializer != nil {
		a.analyzeExpr(d.Initializer)
	}
	kind := symbols.KindVal
	if d.Mutable {
		kind = symbols.KindVar
	}
	for _, name := range d.Names {
		if name == "_" {
			continue
		}
		a.scope.Define(&symbols.Symbol{Name: name, Kind: kind, Type: types.NewError(), Mutable: d.Mutable})
	}
}

func (a *Analyzer) analyzeIfStmt(st *ast.IfStmt) {
	a.analyzeExpr(st.Cond)
	a.analyzeStmt(st.Then)
	if st.Else != nil {
		a.analyzeStmt(st.Else)
	}
}

func (a *Analyzer) analyzeWhenStmt(st *ast.WhenStmt) {
	var subjectT types.Type
	if st.Subject != nil {
		subjectT = a.analyzeExpr(st.Subject)
	}
	for _, br := range st.Branches {
		a.analyzeWhenBranchConds(br, subjectT)
		restore := a.enterScope()
		a.analyzeStmt(br.Body)
		restore()
	}
	if subjectT != nil {
		a.checkWhenExhaustiveness(st.Branches, subjectT, st)
	}
}

func (a *Analyzer) analyzeWhenBranchConds(br *ast.WhenBranch, subjectT types.Type) {
	if br.IsIs {
		for _, tr := range br.Types {
			a.resolveType(tr)
		}
		return
	}
	for _, c := range br.Conds {
		a.analyzeExpr(c)
	}
}

func (a *Analyzer) analyzeForStmt(st *ast.ForStmt) {
	iterT := a.analyzeExpr(st.Iterable)
	restore := a.enterScope()
	defer restore()
	elemT := a.elementType(iterT)
	if st.VarType != nil {
		elemT = a.resolveType(st.VarType)
	}
	a.scope.Define(&symbols.Symbol{Name: st.VarName, Kind: symbols.KindVal, Type: elemT})
	a.analyzeLoop(st.Label, st.Body, nil)
}

// elementType returns the element type of an iterable or indexable
// collection (the value type for a two-argument Map), or ErrorType if
// iterT isn't a recognized collection/range shape.
func (a *Analyzer) elementType(iterT types.Type) types.Type {
	if iterT == nil {
		return types.NewError()
	}
	if ct, ok := iterT.(*types.ClassType); ok {
		switch len(ct.TypeArgs) {
		case 1:
			return ct.TypeArgs[0].Type
		case 2:
			return ct.TypeArgs[1].Type
		}
	}
	return types.NewError()
}

func (a *Analyzer) analyzeLoop(label string, body ast.Stmt, checkCond func()) {
	if label != "" {
		a.activeLabels[label] = true
		defer delete(a.activeLabels, label)
	}
	a.loopDepth++
	defer func() { a.loopDepth-- }()
	if checkCond != nil {
		checkCond()
	}
	a.analyzeStmt(body)
}

func (a *Analyzer) checkLoopOrLabel(node ast.Node, label, what string) {
	if label != "" {
		if !a.activeLabels[label] {
			a.errorf(node, "%s@%s does not refer to an enclosing labeled loop", what, label)
		}
		return
	}
	if a.loopDepth == 0 {
		a.errorf(node, "%s used outside of a loop", what)
	}
}

func (a *Analyzer) analyzeTryStmt(st *ast.TryStmt) {
	a.analyzeBlock(st.Body)
	for _, c := range st.Catches {
		restore := a.enterScope()
		a.scope.Define(&symbols.Symbol{Name: c.Name, Kind: symbols.KindVal, Type: a.resolveType(c.Type)})
		a.analyzeBlock(c.Body)
		restore()
	}
	if st.Finally != nil {
		a.analyzeBlock(st.Finally)
	}
}

func (a *Analyzer) analyzeReturnStmt(st *ast.ReturnStmt) {
	if st.Value == nil {
		if a.currentReturn != nil && !types.IsError(a.currentReturn) {
			if _, isUnit := a.currentReturn.(*types.UnitType); !isUnit {
				a.errorf(st, "bare return in a function declared to return %s", a.currentReturn)
			}
		}
		return
	}
	valT := a.analyzeExpr(st.Value)
	if a.currentReturn != nil && !a.canAssign(valT, a.currentReturn) {
		a.errorf(st.Value, "returned %s, expected %s", valT, a.currentReturn)
	}
}

func (a *Analyzer) analyzeGuardStmt(st *ast.GuardStmt) {
	a.analyzeExpr(st.Cond)
	a.analyzeBlock(st.Body)
	if !a.blockDiverges(st.Body) {
		a.errorf(st.Body, "guard's else body must exit the enclosing function or loop")
	}
}

// blockDiverges reports whether b's last statement is a return/throw/
// break/continue, the minimum check for guard's early-exit requirement.
func (a *Analyzer) blockDiverges(b *ast.Block) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	switch b.Stmts[len(b.Stmts)-1].(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt, *ast.BreakStmt, *ast.ContinueStmt:
		return true
	default:
		return false
	}
}

func (a *Analyzer) analyzeUseStmt(st *ast.UseStmt) {
	resourceT := a.analyzeExpr(st.Resource)
	restore := a.enterScope()
	defer restore()
	a.scope.Define(&symbols.Symbol{Name: st.VarName, Kind: symbols.KindVal, Type: resourceT})
	if ct, ok := resourceT.(*types.ClassType); ok && !types.IsError(resourceT) && !ct.HasMethod("close") {
		a.errorf(st.Resource, "type %s used in `use` does not declare a close() member", resourceT)
	}
	a.analyzeBlock(st.Body)
}
