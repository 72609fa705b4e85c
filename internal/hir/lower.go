package hir

import (
	"fmt"

	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/semantic"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// Lowerer turns an already-analyzed *ast.Program into HIR, consulting the
// class/interface registries and global scope a semantic.Analyzer built
// while type-checking the same program. It re-derives each expression's
// type during the walk (the same way the analyzer itself does) rather
// than requiring the AST to carry mutable type annotations, since Nova's
// AST nodes are otherwise immutable value descriptions of the source.
type Lowerer struct {
	analyzer *semantic.Analyzer
	registry *types.Registry
	scope    *symbols.Table
	lambdaID int
}

// NewLowerer creates a Lowerer over a program that has already been
// successfully analyzed by a.
func NewLowerer(a *semantic.Analyzer) *Lowerer {
	return &Lowerer{analyzer: a, registry: types.NewRegistry(), scope: a.GlobalScope()}
}

// Lower lowers prog's declarations into a Module. Callers should only do
// this once a.Sink() has no errors for prog, per the rule that
// HIR lowering assumes a clean semantic pass.
func (l *Lowerer) Lower(prog *ast.Program) *Module {
	mod := &Module{}
	if prog.Package != nil {
		mod.Package = prog.Package.Name.String()
	}
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.ClassDecl:
			mod.Classes = append(mod.Classes, l.lowerClass(decl))
		case *ast.EnumDecl:
			mod.Classes = append(mod.Classes, l.lowerEnum(decl))
		case *ast.ObjectDecl:
			mod.Classes = append(mod.Classes, l.lowerObject(decl))
		case *ast.FunDecl:
			mod.Functions = append(mod.Functions, l.lowerFunction(decl, nil))
		case *ast.PropertyDecl:
			mod.Globals = append(mod.Globals, l.lowerGlobal(decl))
		}
	}
	return mod
}

func (l *Lowerer) classType(name string) *types.ClassType {
	ct, ok := l.analyzer.Classes()[name]
	if !ok {
		panic(fmt.Sprintf("hir: unresolved class %q reached lowering", name))
	}
	return ct
}

func (l *Lowerer) lowerClass(decl *ast.ClassDecl) *Class {
	ct := l.classType(decl.Name)
	c := &Class{base: base{Rng: decl.Range()}, Name: decl.Name, Type: ct}

	restore := l.enterScope()
	defer restore()
	l.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})

	var ctorParams []*Param
	for _, p := range decl.PrimaryParams {
		pt := l.paramType(p)
		ctorParams = append(ctorParams, &Param{Name: p.Name, Type: pt})
		l.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: pt})
		if p.IsProperty {
			c.Fields = append(c.Fields, &Field{base: base{Rng: p.Range()}, Name: p.Name, Type: pt, Mutable: p.Mutable})
		}
	}
	c.CtorParams = ctorParams

	for _, st := range decl.Supertypes {
		for _, arg := range st.Args {
			c.CtorBody = append(c.CtorBody, &ExprStmt{base: base{Rng: arg.Range()}, Expr: l.lowerExpr(arg)})
		}
	}

	l.lowerMembers(decl.Members, c, ct)
	return c
}

func (l *Lowerer) lowerEnum(decl *ast.EnumDecl) *Class {
	ct := l.classType(decl.Name)
	c := &Class{base: base{Rng: decl.Range()}, Name: decl.Name, Type: ct, IsEnum: true}
	restore := l.enterScope()
	defer restore()
	l.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})
	for _, entry := range decl.Entries {
		c.EnumEntry = append(c.EnumEntry, entry.Name)
	}
	l.lowerMembers(decl.Members, c, ct)
	return c
}

func (l *Lowerer) lowerObject(decl *ast.ObjectDecl) *Class {
	ct := l.classType(decl.Name)
	c := &Class{base: base{Rng: decl.Range()}, Name: decl.Name, Type: ct, IsObject: true}
	restore := l.enterScope()
	defer restore()
	l.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})
	l.lowerMembers(decl.Members, c, ct)
	return c
}

func (l *Lowerer) lowerMembers(members []ast.Decl, c *Class, owner *types.ClassType) {
	for _, m := range members {
		switch md := m.(type) {
		case *ast.FunDecl:
			c.Methods = append(c.Methods, l.lowerFunction(md, owner))
		case *ast.PropertyDecl:
			c.Fields = append(c.Fields, l.lowerField(md))
		case *ast.InitBlockDecl:
			c.CtorBody = append(c.CtorBody, l.lowerStmt(md.Body))
		}
	}
}

func (l *Lowerer) lowerField(pd *ast.PropertyDecl) *Field {
	f := &Field{base: base{Rng: pd.Range()}, Name: pd.Name, Mutable: pd.Mutable}
	if pd.Initializer != nil {
		f.Init = l.lowerExpr(pd.Initializer)
		f.Type = f.Init.Type()
	}
	return f
}

func (l *Lowerer) lowerGlobal(pd *ast.PropertyDecl) *GlobalVar {
	g := &GlobalVar{base: base{Rng: pd.Range()}, Name: pd.Name, Mutable: pd.Mutable}
	if pd.Initializer != nil {
		g.Init = l.lowerExpr(pd.Initializer)
		g.Type = g.Init.Type()
	}
	return g
}

func (l *Lowerer) paramType(p *ast.Parameter) types.Type {
	sym, ok := l.scope.Resolve(p.Name)
	if ok && sym.Type != nil {
		return sym.Type
	}
	return types.NewError()
}

func (l *Lowerer) lowerFunction(fd *ast.FunDecl, owner *types.ClassType) *Function {
	restore := l.enterScope()
	defer restore()

	fn := &Function{base: base{Rng: fd.Range()}, Name: fd.Name, Inline: fd.Modifiers.Inline}
	if owner != nil {
		fn.Receiver = owner
		l.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: owner})
	} else if fd.Receiver != nil {
		recvT := l.typeOfSym(fd.Name + "$receiver")
		fn.Receiver = recvT
		fn.IsExtension = true
	}

	funcSym, ok := l.scope.Resolve(fd.Name)
	var sig *types.FunctionType
	if ok {
		sig, _ = funcSym.Type.(*types.FunctionType)
	}

	for i, p := range fd.Params {
		var pt types.Type = types.NewError()
		if sig != nil && i < len(sig.Params) {
			pt = sig.Params[i]
		}
		fn.Params = append(fn.Params, &Param{Name: p.Name, Type: pt})
		l.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: pt})
	}
	if sig != nil {
		fn.ReturnType = sig.Return
	} else {
		fn.ReturnType = types.NewUnit()
	}

	if fd.ExprBody != nil {
		val := l.lowerExpr(fd.ExprBody)
		fn.Body = []Stmt{&Return{base: base{Rng: fd.ExprBody.Range()}, Value: val}}
		return fn
	}
	if block, ok := fd.Body.(*ast.Block); ok {
		fn.Body = l.lowerStmtList(block.Stmts)
	}
	return fn
}

// typeOfSym is a defensive fallback used only for an extension function's
// synthetic receiver parameter name, which the symbol table does not
// register under a real, collidable identifier.
func (l *Lowerer) typeOfSym(name string) types.Type {
	if sym, ok := l.scope.Resolve(name); ok {
		return sym.Type
	}
	return types.NewError()
}

func (l *Lowerer) enterScope() func() {
	prev := l.scope
	l.scope = symbols.NewEnclosed(prev)
	return func() { l.scope = prev }
}

// ---- Statements ----

func (l *Lowerer) lowerStmtList(stmts []ast.Stmt) []Stmt {
	out := make([]Stmt, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, l.lowerStmt(s))
	}
	return out
}

func (l *Lowerer) lowerStmt(s ast.Stmt) Stmt {
	switch st := s.(type) {
	case *ast.Block:
		restore := l.enterScope()
		defer restore()
		return &Block{base: base{Rng: st.Range()}, Stmts: l.lowerStmtList(st.Stmts)}
	case *ast.ExpressionStmt:
		return &ExprStmt{base: base{Rng: st.Range()}, Expr: l.lowerExpr(st.Expr)}
	case *ast.DeclarationStmt:
		return l.lowerDeclStmt(st)
	case *ast.IfStmt:
		return l.lowerIfStmt(st)
	case *ast.WhenStmt:
		return l.lowerWhenStmt(st)
	case *ast.ForStmt:
		return l.lowerForStmt(st)
	case *ast.WhileStmt:
		restore := l.enterScope()
		defer restore()
		return &Loop{base: base{Rng: st.Range()}, Label: st.Label, Cond: l.lowerExpr(st.Cond), Body: l.lowerStmt(st.Body)}
	case *ast.DoWhileStmt:
		restore := l.enterScope()
		defer restore()
		return &Loop{base: base{Rng: st.Range()}, Label: st.Label, Cond: l.lowerExpr(st.Cond), Body: l.lowerStmt(st.Body), PostTest: true}
	case *ast.TryStmt:
		return l.lowerTryStmt(st)
	case *ast.ReturnStmt:
		var v Expr
		if st.Value != nil {
			v = l.lowerExpr(st.Value)
		}
		return &Return{base: base{Rng: st.Range()}, Value: v}
	case *ast.BreakStmt:
		return &Break{base: base{Rng: st.Range()}, Label: st.Label}
	case *ast.ContinueStmt:
		return &Continue{base: base{Rng: st.Range()}, Label: st.Label}
	case *ast.ThrowStmt:
		return &Throw{base: base{Rng: st.Range()}, Value: l.lowerExpr(st.Value)}
	case *ast.GuardStmt:
		// `guard cond else { body }` lowers to `if (!cond) { body }`, per
		// the guard semantics (body must diverge, checked earlier by
		// the analyzer).
		notCond := &Unary{typedBase: typedBase{base{st.Cond.Range()}, types.NewPrimitive(types.Boolean)}, Op: OpNot, Operand: l.lowerExpr(st.Cond)}
		restore := l.enterScope()
		body := l.lowerStmt(st.Body)
		restore()
		return &If{base: base{Rng: st.Range()}, Cond: notCond, Then: body}
	case *ast.UseStmt:
		return l.lowerUseStmt(st)
	case *ast.LabeledStmt:
		inner := l.lowerStmt(st.Stmt)
		if loop, ok := inner.(*Loop); ok {
			loop.Label = st.Label
			return loop
		}
		return inner
	default:
		return &Block{base: base{Rng: s.Range()}}
	}
}

func (l *Lowerer) lowerDeclStmt(st *ast.DeclarationStmt) Stmt {
	switch d := st.Decl.(type) {
	case *ast.PropertyDecl:
		var init Expr
		var t types.Type = types.NewError()
		if d.Initializer != nil {
			init = l.lowerExpr(d.Initializer)
			t = init.Type()
		}
		l.scope.Define(&symbols.Symbol{Name: d.Name, Kind: symbols.KindVal, Type: t, Mutable: d.Mutable})
		return &LocalDecl{base: base{Rng: st.Range()}, Name: d.Name, Type: t, Mutable: d.Mutable, Init: init}
	case *ast.DestructuringDecl:
		return l.lowerDestructuring(d, st.Range())
	default:
		return &Block{base: base{Rng: st.Range()}}
	}
}

// lowerDestructuring expands `val (a, b) = pair` into a sequence of
// positional component-accessor locals; `_` entries are
// dropped entirely since nothing reads them.
func (l *Lowerer) lowerDestructuring(d *ast.DestructuringDecl, rng diagnostics.Range) Stmt {
	src := l.lowerExpr(d.Initializer)
	tmp := "$destructure"
	l.scope.Define(&symbols.Symbol{Name: tmp, Kind: symbols.KindVal, Type: src.Type()})
	block := &Block{base: base{Rng: rng}}
	block.Stmts = append(block.Stmts, &LocalDecl{base: base{Rng: rng}, Name: tmp, Type: src.Type(), Init: src})
	for i, name := range d.Names {
		if name == "_" {
			continue
		}
		comp := &Call{
			typedBase: typedBase{base{rng}, types.NewPrimitive(types.AnyName)},
			Kind:      CallVirtual,
			Receiver:  &Ident{typedBase{base{rng}, src.Type()}, tmp},
			Name:      fmt.Sprintf("component%d", i+1),
		}
		l.scope.Define(&symbols.Symbol{Name: name, Kind: symbols.KindVal, Type: comp.Type()})
		block.Stmts = append(block.Stmts, &LocalDecl{base: base{Rng: rng}, Name: name, Type: comp.Type(), Init: comp})
	}
	return block
}

func (l *Lowerer) lowerIfStmt(st *ast.IfStmt) Stmt {
	restore := l.enterScope()
	then := l.lowerStmt(st.Then)
	restore()
	var els Stmt
	if st.Else != nil {
		restore := l.enterScope()
		els = l.lowerStmt(st.Else)
		restore()
	}
	return &If{base: base{Rng: st.Range()}, Cond: l.lowerExpr(st.Cond), Then: then, Else: els}
}

// lowerWhenStmt expands a `when` into a chain of If statements testing
// each branch's condition(s) in order, per the "cascade of
// equality/is/in tests" desugaring.
func (l *Lowerer) lowerWhenStmt(st *ast.WhenStmt) Stmt {
	var subject Expr
	if st.Subject != nil {
		subject = l.lowerExpr(st.Subject)
	}
	return l.lowerWhenBranches(st.Branches, 0, subject, st.Range())
}

func (l *Lowerer) lowerWhenBranches(branches []*ast.WhenBranch, i int, subject Expr, rng diagnostics.Range) Stmt {
	if i >= len(branches) {
		return &Block{base: base{Rng: rng}}
	}
	br := branches[i]
	restore := l.enterScope()
	body := l.lowerStmt(br.Body)
	restore()
	if br.Conds == nil && !br.IsIs {
		return body // else branch
	}
	cond := l.lowerWhenCond(br, subject)
	return &If{base: base{Rng: br.Range()}, Cond: cond, Then: body, Else: l.lowerWhenBranches(branches, i+1, subject, rng)}
}

func (l *Lowerer) lowerWhenCond(br *ast.WhenBranch, subject Expr) Expr {
	boolT := types.NewPrimitive(types.Boolean)
	if br.IsIs {
		var result Expr
		for _, tr := range br.Types {
			check := &TypeCheck{typedBase: typedBase{base{br.Range()}, boolT}, Operand: subject, Target: l.resolveTypeRefName(tr)}
			if result == nil {
				result = check
			} else {
				result = &Binary{typedBase: typedBase{base{br.Range()}, boolT}, Op: OpOr, Left: result, Right: check}
			}
		}
		return result
	}
	var result Expr
	for _, c := range br.Conds {
		lc := l.lowerExpr(c)
		var test Expr
		if subject != nil {
			test = &Binary{typedBase: typedBase{base{c.Range()}, boolT}, Op: OpEq, Left: subject, Right: lc}
		} else {
			test = lc
		}
		if result == nil {
			result = test
		} else {
			result = &Binary{typedBase: typedBase{base{c.Range()}, boolT}, Op: OpOr, Left: result, Right: test}
		}
	}
	return result
}

// resolveTypeRefName produces the best-effort types.Type for a branch's
// `is`/`as` type reference using the analyzer's class/interface registry;
// HIR lowering never re-runs generic-argument elaboration, so only the
// bare name is resolved.
func (l *Lowerer) resolveTypeRefName(tr ast.TypeRef) types.Type {
	name := ""
	switch t := tr.(type) {
	case *ast.SimpleType:
		name = t.Name
	case *ast.GenericType:
		name = t.Name
	case *ast.NullableType:
		return l.resolveTypeRefName(t.Inner).WithNullable(true)
	}
	if ct, ok := l.analyzer.Classes()[name]; ok {
		return ct
	}
	if it, ok := l.analyzer.Interfaces()[name]; ok {
		return it
	}
	return types.NewPrimitive(types.PrimitiveName(name))
}

// lowerForStmt lowers `for (x in iterable)` into an induction-variable
// Loop for a Range subject or an iterator-protocol Loop otherwise, per
// desugared the same way.
func (l *Lowerer) lowerForStmt(st *ast.ForStmt) Stmt {
	restore := l.enterScope()
	defer restore()

	if rng, ok := st.Iterable.(*ast.RangeExpr); ok {
		return l.lowerNumericForStmt(st, rng)
	}

	iter := l.lowerExpr(st.Iterable)
	iterVar := "$iter"
	l.scope.Define(&symbols.Symbol{Name: iterVar, Kind: symbols.KindVal, Type: iter.Type()})
	elemT := l.elementTypeOf(iter.Type())
	l.scope.Define(&symbols.Symbol{Name: st.VarName, Kind: symbols.KindVal, Type: elemT})

	hasNext := &Call{typedBase: typedBase{base{st.Range()}, types.NewPrimitive(types.Boolean)}, Kind: CallVirtual, Receiver: &Ident{typedBase{base{st.Range()}, iter.Type()}, iterVar}, Name: "hasNext"}
	next := &Call{typedBase: typedBase{base{st.Range()}, elemT}, Kind: CallVirtual, Receiver: &Ident{typedBase{base{st.Range()}, iter.Type()}, iterVar}, Name: "next"}
	body := &Block{base: base{Rng: st.Body.Range()}}
	body.Stmts = append(body.Stmts, &LocalDecl{base: base{Rng: st.Range()}, Name: st.VarName, Type: elemT, Init: next})
	body.Stmts = append(body.Stmts, l.lowerStmt(st.Body))

	outer := &Block{base: base{Rng: st.Range()}}
	outer.Stmts = append(outer.Stmts, &LocalDecl{base: base{Rng: st.Range()}, Name: iterVar, Type: iter.Type(), Init: iter})
	outer.Stmts = append(outer.Stmts, &Loop{base: base{Rng: st.Range()}, Label: st.Label, Cond: hasNext, Body: body})
	return outer
}

func (l *Lowerer) lowerNumericForStmt(st *ast.ForStmt, rng *ast.RangeExpr) Stmt {
	intT := types.NewPrimitive(types.Int)
	from := l.lowerExpr(rng.From)
	to := l.lowerExpr(rng.To)
	l.scope.Define(&symbols.Symbol{Name: st.VarName, Kind: symbols.KindVar, Type: intT, Mutable: true})

	cmpOp := OpLt
	if !rng.Exclusive {
		cmpOp = OpLe
	}
	cond := &Binary{typedBase: typedBase{base{st.Range()}, types.NewPrimitive(types.Boolean)}, Op: cmpOp, Left: &Ident{typedBase{base{st.Range()}, intT}, st.VarName}, Right: to}

	var step Stmt
	stepExpr := Expr(&Literal{typedBase{base{st.Range()}, intT}, int64(1)})
	if rng.Step != nil {
		stepExpr = l.lowerExpr(rng.Step)
	}
	step = &ExprStmt{base: base{Rng: st.Range()}, Expr: &LocalAssign{
		typedBase: typedBase{base{st.Range()}, intT},
		Name:      st.VarName,
		Value:     &Binary{typedBase: typedBase{base{st.Range()}, intT}, Op: OpAdd, Left: &Ident{typedBase{base{st.Range()}, intT}, st.VarName}, Right: stepExpr},
	}}

	body := l.lowerStmt(st.Body)
	outer := &Block{base: base{Rng: st.Range()}}
	outer.Stmts = append(outer.Stmts, &LocalDecl{base: base{Rng: st.Range()}, Name: st.VarName, Type: intT, Mutable: true, Init: from})
	outer.Stmts = append(outer.Stmts, &Loop{base: base{Rng: st.Range()}, Label: st.Label, Cond: cond, Body: body, Step: step})
	return outer
}

func (l *Lowerer) elementTypeOf(t types.Type) types.Type {
	if ct, ok := t.(*types.ClassType); ok && len(ct.TypeArgs) > 0 {
		return ct.TypeArgs[len(ct.TypeArgs)-1].Type
	}
	return types.NewPrimitive(types.AnyName)
}

func (l *Lowerer) lowerTryStmt(st *ast.TryStmt) Stmt {
	t := &Try{base: base{Rng: st.Range()}, Body: l.lowerStmt(st.Body)}
	for _, c := range st.Catches {
		restore := l.enterScope()
		ct := l.resolveTypeRefName(c.Type)
		l.scope.Define(&symbols.Symbol{Name: c.Name, Kind: symbols.KindVal, Type: ct})
		t.Catches = append(t.Catches, &CatchClause{Name: c.Name, Type: ct, Body: l.lowerStmt(c.Body)})
		restore()
	}
	if st.Finally != nil {
		t.Finally = l.lowerStmt(st.Finally)
	}
	return t
}

// lowerUseStmt expands `use (resource) { body }` into a try/finally that
// calls `close()` on the resource in the finally block.
func (l *Lowerer) lowerUseStmt(st *ast.UseStmt) Stmt {
	resource := l.lowerExpr(st.Resource)
	restore := l.enterScope()
	l.scope.Define(&symbols.Symbol{Name: st.VarName, Kind: symbols.KindVal, Type: resource.Type()})
	body := l.lowerStmt(st.Body)
	restore()

	block := &Block{base: base{Rng: st.Range()}}
	block.Stmts = append(block.Stmts, &LocalDecl{base: base{Rng: st.Range()}, Name: st.VarName, Type: resource.Type(), Init: resource})
	closeCall := &ExprStmt{base: base{Rng: st.Range()}, Expr: &Call{
		typedBase: typedBase{base{st.Range()}, types.NewUnit()},
		Kind:      CallVirtual,
		Receiver:  &Ident{typedBase{base{st.Range()}, resource.Type()}, st.VarName},
		Name:      "close",
	}}
	block.Stmts = append(block.Stmts, &Try{base: base{Rng: st.Range()}, Body: body, Finally: closeCall})
	return block
}
