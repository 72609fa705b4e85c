package hir

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

func tb(rng ast.Node, t types.Type) typedBase {
	return typedBase{base{rng.Range()}, t}
}

func (l *Lowerer) lowerExpr(e ast.Expr) Expr {
	switch expr := e.(type) {
	case *ast.Ident:
		return l.lowerIdent(expr)
	case *ast.ThisExpr:
		return &This{tb(expr, l.typeOf("this"))}
	case *ast.SuperExpr:
		return &Super{tb(expr, l.typeOf("this"))}
	case *ast.LiteralExpr:
		return l.lowerLiteral(expr)
	case *ast.InterpolatedStringExpr:
		return l.lowerInterpolated(expr)
	case *ast.BinaryExpr:
		return l.lowerBinary(expr)
	case *ast.UnaryExpr:
		return l.lowerUnary(expr)
	case *ast.CallExpr:
		return l.lowerCall(expr)
	case *ast.MemberExpr:
		return l.lowerMember(expr)
	case *ast.IndexExpr:
		return l.lowerIndex(expr)
	case *ast.ElvisExpr:
		return l.lowerElvis(expr)
	case *ast.ErrorPropagationExpr:
		operand := l.lowerExpr(expr.Operand)
		return &Throws{tb(expr, operand.Type()), operand}
	case *ast.ItExpr:
		return &Ident{tb(expr, l.typeOf("it")), "it"}
	case *ast.AssignExpr:
		return l.lowerAssign(expr)
	case *ast.LambdaExpr:
		return l.lowerLambda(expr)
	case *ast.MethodRefExpr:
		return l.lowerMethodRef(expr)
	case *ast.IfExpr:
		return l.lowerIfExpr(expr)
	case *ast.WhenExpr:
		return l.lowerWhenExpr(expr)
	case *ast.TryExpr:
		return l.lowerTryExpr(expr)
	case *ast.BlockExpr:
		return l.lowerBlockExpr(expr)
	case *ast.ObjectLiteralExpr:
		return l.lowerObjectLiteral(expr)
	case *ast.ListLiteralExpr:
		return l.lowerListLiteral(expr)
	case *ast.MapLiteralExpr:
		return l.lowerMapLiteral(expr)
	case *ast.RangeExpr:
		return l.lowerRange(expr)
	case *ast.PipelineExpr:
		return l.lowerPipeline(expr)
	case *ast.CastExpr:
		return l.lowerCast(expr)
	case *ast.TypeCheckExpr:
		return &TypeCheck{tb(expr, types.NewPrimitive(types.Boolean)), l.lowerExpr(expr.Operand), l.resolveTypeRefName(expr.Type), expr.Negated}
	case *ast.AwaitExpr:
		operand := l.lowerExpr(expr.Operand)
		ret := operand.Type()
		if ft, ok := ret.(*types.FunctionType); ok {
			ret = ft.Return
		}
		return &Await{tb(expr, ret), operand}
	case *ast.SpreadExpr:
		return l.lowerExpr(expr.Operand)
	default:
		return &Literal{tb(e, types.NewError()), nil}
	}
}

func (l *Lowerer) typeOf(name string) types.Type {
	if sym, ok := l.scope.Resolve(name); ok && sym.Type != nil {
		return sym.Type
	}
	return types.NewError()
}

func (l *Lowerer) lowerIdent(expr *ast.Ident) Expr {
	return &Ident{tb(expr, l.typeOf(expr.Name)), expr.Name}
}

func (l *Lowerer) lowerLiteral(expr *ast.LiteralExpr) Expr {
	var t types.Type
	switch expr.Value.(type) {
	case int64:
		t = types.NewPrimitive(types.Int)
	case float64:
		t = types.NewPrimitive(types.Double)
	case string:
		t = types.NewPrimitive(types.StringT)
	case bool:
		t = types.NewPrimitive(types.Boolean)
	case rune:
		t = types.NewPrimitive(types.Char)
	case nil:
		t = types.NewNothing().WithNullable(true)
	default:
		t = types.NewError()
	}
	return &Literal{tb(expr, t), expr.Value}
}

// lowerInterpolated expands a `"...${e}..."` string into a left-to-right
// StringConcat of literal text parts and each embedded expression (whose
// `toString()` the backend is responsible for calling on any non-string
// operand).
func (l *Lowerer) lowerInterpolated(expr *ast.InterpolatedStringExpr) Expr {
	stringT := types.NewPrimitive(types.StringT)
	sc := &StringConcat{tb(expr, stringT)}
	for _, part := range expr.Parts {
		if part.Expr == nil {
			sc.Parts = append(sc.Parts, &Literal{tb(expr, stringT), part.Text})
			continue
		}
		sc.Parts = append(sc.Parts, l.lowerExpr(part.Expr))
	}
	return sc
}

var binaryOpMap = map[ast.BinaryOp]BinaryOp{
	ast.OpAdd: OpAdd, ast.OpSub: OpSub, ast.OpMul: OpMul, ast.OpDiv: OpDiv, ast.OpMod: OpMod,
	ast.OpEq: OpEq, ast.OpNotEq: OpNe, ast.OpRefEq: OpRefEq, ast.OpRefNotEq: OpRefNe,
	ast.OpLt: OpLt, ast.OpLe: OpLe, ast.OpGt: OpGt, ast.OpGe: OpGe,
	ast.OpAnd: OpAnd, ast.OpOr: OpOr, ast.OpRange: OpRange, ast.OpRangeUntil: OpRangeExclusive,
	ast.OpIn: OpIn, ast.OpNotIn: OpNotIn,
}

func (l *Lowerer) lowerBinary(expr *ast.BinaryExpr) Expr {
	if expr.Op == ast.OpElvis {
		return l.lowerElvisOp(expr)
	}
	if expr.Op == ast.OpPipeline {
		return l.lowerExpr(&ast.CallExpr{Base: expr.Base, Callee: expr.Right, Args: []*ast.Argument{{Value: expr.Left}}})
	}
	left := l.lowerExpr(expr.Left)
	right := l.lowerExpr(expr.Right)
	op := binaryOpMap[expr.Op]
	t := l.binaryResultType(op, left.Type(), right.Type())
	return &Binary{tb(expr, t), op, left, right}
}

func (l *Lowerer) binaryResultType(op BinaryOp, lt, rt types.Type) types.Type {
	switch op {
	case OpEq, OpNe, OpRefEq, OpRefNe, OpLt, OpLe, OpGt, OpGe, OpAnd, OpOr, OpIn, OpNotIn:
		return types.NewPrimitive(types.Boolean)
	case OpAdd:
		if isStringType(lt) || isStringType(rt) {
			return types.NewPrimitive(types.StringT)
		}
	}
	lp, lok := lt.(*types.PrimitiveType)
	rp, rok := rt.(*types.PrimitiveType)
	if lok && rok && lp.IsNumeric() && rp.IsNumeric() {
		return types.Promote(lp, rp)
	}
	return lt
}

func isStringType(t types.Type) bool {
	p, ok := t.(*types.PrimitiveType)
	return ok && p.Name() == string(types.StringT)
}

// lowerElvisOp covers `?:` when the parser represents it as a BinaryExpr
// (rather than the dedicated ElvisExpr node); both forms desugar to the
// same evaluate-once Conditional via lowerElvis.
func (l *Lowerer) lowerElvisOp(expr *ast.BinaryExpr) Expr {
	return l.lowerElvisParts(expr, expr.Left, expr.Right)
}

func (l *Lowerer) lowerElvis(expr *ast.ElvisExpr) Expr {
	return l.lowerElvisParts(expr, expr.Left, expr.Right)
}

// lowerElvisParts implements `a ?: b` as `Let tmp = a in (tmp != null ? tmp : b)`
// so a side-effecting `a` is evaluated exactly once.
func (l *Lowerer) lowerElvisParts(node ast.Node, leftAst, rightAst ast.Expr) Expr {
	left := l.lowerExpr(leftAst)
	right := l.lowerExpr(rightAst)
	t := left.Type()
	tmp := "$elvis"
	notNull := &Binary{tb(node, types.NewPrimitive(types.Boolean)), OpNe, &Ident{tb(node, t), tmp}, &Literal{tb(node, types.NewNothing().WithNullable(true)), nil}}
	cond := &Conditional{tb(node, t), notNull, &Ident{tb(node, t), tmp}, right}
	return &Let{tb(node, t), tmp, left, cond}
}

func (l *Lowerer) lowerUnary(expr *ast.UnaryExpr) Expr {
	operand := l.lowerExpr(expr.Operand)
	if expr.Op == ast.OpNotNullAssert {
		// `a!!` lowers to `Let tmp = a in (tmp == null ? throw NPE : tmp)`.
		t := operand.Type().WithNullable(false)
		tmp := "$notnull"
		isNull := &Binary{tb(expr, types.NewPrimitive(types.Boolean)), OpEq, &Ident{tb(expr, operand.Type()), tmp}, &Literal{tb(expr, types.NewNothing().WithNullable(true)), nil}}
		throwExpr := &Throws{tb(expr, t), &Ident{tb(expr, operand.Type()), tmp}}
		cond := &Conditional{tb(expr, t), isNull, throwExpr, &Ident{tb(expr, t), tmp}}
		return &Let{tb(expr, t), tmp, operand, cond}
	}
	op := unaryOpMap[expr.Op]
	t := operand.Type()
	if expr.Op == ast.OpNot {
		t = types.NewPrimitive(types.Boolean)
	}
	return &Unary{tb(expr, t), op, operand}
}

var unaryOpMap = map[ast.UnaryOp]UnaryOp{
	ast.OpNeg: OpNeg, ast.OpNot: OpNot, ast.OpPreInc: OpPreIncr, ast.OpPreDec: OpPreDecr,
	ast.OpPostInc: OpPostIncr, ast.OpPostDec: OpPostDecr,
}

func (l *Lowerer) lowerCall(expr *ast.CallExpr) Expr {
	var receiver Expr
	name := ""
	kind := CallStatic
	switch callee := expr.Callee.(type) {
	case *ast.Ident:
		name = callee.Name
	case *ast.MemberExpr:
		receiver = l.lowerExpr(callee.Receiver)
		name = callee.Name
		kind = CallVirtual
	default:
		receiver = l.lowerExpr(callee)
	}

	var args []Expr
	for _, a := range expr.Args {
		args = append(args, l.lowerExpr(a.Value))
	}
	if expr.TrailingLambda != nil {
		args = append(args, l.lowerLambda(expr.TrailingLambda))
	}

	retT := l.callResultType(expr.Callee, name)
	return &Call{typedBase: typedBase{base{expr.Range()}, retT}, Kind: kind, Receiver: receiver, Name: name, Args: args}
}

func (l *Lowerer) callResultType(callee ast.Expr, name string) types.Type {
	if ident, ok := callee.(*ast.Ident); ok {
		if sym, ok := l.scope.Resolve(ident.Name); ok {
			if ft, ok := sym.Type.(*types.FunctionType); ok {
				return ft.Return
			}
		}
	}
	_ = name
	return types.NewPrimitive(types.AnyName)
}

func (l *Lowerer) lowerMember(expr *ast.MemberExpr) Expr {
	receiver := l.lowerExpr(expr.Receiver)
	t := l.memberType(receiver.Type(), expr.Name)
	access := &MemberAccess{tb(expr, t), receiver, expr.Name}
	if !expr.Safe {
		return access
	}
	// `a?.m` lowers to `Let tmp = a in (tmp == null ? null : tmp.m)`.
	tmp := "$safe"
	isNull := &Binary{tb(expr, types.NewPrimitive(types.Boolean)), OpEq, &Ident{tb(expr, receiver.Type()), tmp}, &Literal{tb(expr, types.NewNothing().WithNullable(true)), nil}}
	safeAccess := &MemberAccess{tb(expr, t), &Ident{tb(expr, receiver.Type()), tmp}, expr.Name}
	cond := &Conditional{tb(expr, t.WithNullable(true)), isNull, &Literal{tb(expr, types.NewNothing().WithNullable(true)), nil}, safeAccess}
	return &Let{tb(expr, t.WithNullable(true)), tmp, receiver, cond}
}

func (l *Lowerer) memberType(recvT types.Type, name string) types.Type {
	switch rt := recvT.(type) {
	case *types.ClassType:
		if f, ok := rt.Fields[name]; ok {
			return f.Type
		}
		if ms, ok := rt.Methods[name]; ok && len(ms) > 0 {
			return ms[0].Signature
		}
		cur := rt.Super
		for cur != nil {
			if f, ok := cur.Fields[name]; ok {
				return f.Type
			}
			cur = cur.Super
		}
	case *types.InterfaceType:
		if m, ok := rt.Methods[name]; ok {
			return m
		}
	}
	return types.NewPrimitive(types.AnyName)
}

func (l *Lowerer) lowerIndex(expr *ast.IndexExpr) Expr {
	target := l.lowerExpr(expr.Receiver)
	var idx Expr
	if len(expr.Args) > 0 {
		idx = l.lowerExpr(expr.Args[0])
	}
	t := l.elementTypeOf(target.Type())
	get := &IndexGet{tb(expr, t), target, idx}
	if !expr.Safe {
		return get
	}
	tmp := "$safeidx"
	isNull := &Binary{tb(expr, types.NewPrimitive(types.Boolean)), OpEq, &Ident{tb(expr, target.Type()), tmp}, &Literal{tb(expr, types.NewNothing().WithNullable(true)), nil}}
	safeGet := &IndexGet{tb(expr, t), &Ident{tb(expr, target.Type()), tmp}, idx}
	cond := &Conditional{tb(expr, t.WithNullable(true)), isNull, &Literal{tb(expr, types.NewNothing().WithNullable(true)), nil}, safeGet}
	return &Let{tb(expr, t.WithNullable(true)), tmp, target, cond}
}

func (l *Lowerer) lowerAssign(expr *ast.AssignExpr) Expr {
	value := l.lowerExpr(expr.Value)
	switch target := expr.Target.(type) {
	case *ast.Ident:
		val := value
		if expr.Compound {
			val = &Binary{tb(expr, value.Type()), binaryOpMap[expr.Op], &Ident{tb(expr, l.typeOf(target.Name)), target.Name}, value}
		}
		return &LocalAssign{tb(expr, val.Type()), target.Name, val}
	case *ast.MemberExpr:
		receiver := l.lowerExpr(target.Receiver)
		val := value
		if expr.Compound {
			cur := &MemberAccess{tb(expr, l.memberType(receiver.Type(), target.Name)), receiver, target.Name}
			val = &Binary{tb(expr, value.Type()), binaryOpMap[expr.Op], cur, value}
		}
		return &FieldAssign{tb(expr, val.Type()), receiver, target.Name, val}
	case *ast.IndexExpr:
		idxTarget := l.lowerExpr(target.Receiver)
		var idx Expr
		if len(target.Args) > 0 {
			idx = l.lowerExpr(target.Args[0])
		}
		return &IndexSet{tb(expr, value.Type()), idxTarget, idx, value}
	default:
		return value
	}
}

func (l *Lowerer) lowerLambda(expr *ast.LambdaExpr) Expr {
	restore := l.enterScope()
	defer restore()
	l.lambdaID++

	var params []*Param
	if len(expr.Params) == 0 {
		itT := l.typeOf("it")
		params = append(params, &Param{Name: "it", Type: itT})
		l.scope.Define(&symbols.Symbol{Name: "it", Kind: symbols.KindParameter, Type: itT})
	}
	for _, p := range expr.Params {
		pt := types.NewPrimitive(types.AnyName)
		params = append(params, &Param{Name: p.Name, Type: pt})
		l.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: pt})
	}

	body := l.lowerStmtList(expr.Body.Stmts)
	var ret types.Type = types.NewUnit()
	if len(body) > 0 {
		if es, ok := body[len(body)-1].(*ExprStmt); ok {
			ret = es.Expr.Type()
			body[len(body)-1] = &Return{base: base{Rng: es.Range()}, Value: es.Expr}
		}
	}

	var paramTypes []types.Type
	for _, p := range params {
		paramTypes = append(paramTypes, p.Type)
	}
	ft := types.NewFunctionType(paramTypes, ret)
	return &Lambda{tb(expr, ft), params, ret, body, nil}
}

func (l *Lowerer) lowerMethodRef(expr *ast.MethodRefExpr) Expr {
	t := types.NewPrimitive(types.AnyName)
	if expr.Receiver != nil {
		recv := l.lowerExpr(expr.Receiver)
		return &MemberAccess{tb(expr, t), recv, expr.Name}
	}
	return &Literal{tb(expr, t), expr.Name}
}

func (l *Lowerer) lowerIfExpr(expr *ast.IfExpr) Expr {
	then := l.lowerExpr(expr.Then)
	var els Expr = &Literal{tb(expr, types.NewUnit()), nil}
	t := then.Type()
	if expr.Else != nil {
		els = l.lowerExpr(expr.Else)
		t = l.joinTypes(then.Type(), els.Type())
	}
	return &Conditional{tb(expr, t), l.lowerExpr(expr.Cond), then, els}
}

func (l *Lowerer) joinTypes(a, b types.Type) types.Type {
	if types.IsError(a) {
		return b
	}
	if types.IsError(b) {
		return a
	}
	if types.Equal(a, b) {
		return a
	}
	return types.NewPrimitive(types.AnyName)
}

// lowerWhenExpr expands a value-producing `when` into a nested Conditional
// chain, the expression-position analogue of lowerWhenBranches.
func (l *Lowerer) lowerWhenExpr(expr *ast.WhenExpr) Expr {
	var subject Expr
	if expr.Subject != nil {
		subject = l.lowerExpr(expr.Subject)
	}
	return l.lowerWhenExprBranches(expr.Branches, 0, subject, expr)
}

func (l *Lowerer) lowerWhenExprBranches(branches []*ast.WhenBranch, i int, subject Expr, node ast.Node) Expr {
	if i >= len(branches) {
		return &Literal{tb(node, types.NewUnit()), nil}
	}
	br := branches[i]
	restore := l.enterScope()
	body := l.lowerWhenExprBody(br.Body)
	restore()
	if br.Conds == nil && !br.IsIs {
		return body
	}
	cond := l.lowerWhenCond(br, subject)
	rest := l.lowerWhenExprBranches(branches, i+1, subject, node)
	return &Conditional{tb(node, l.joinTypes(body.Type(), rest.Type())), cond, body, rest}
}

func (l *Lowerer) lowerWhenExprBody(s ast.Stmt) Expr {
	if es, ok := s.(*ast.ExpressionStmt); ok {
		return l.lowerExpr(es.Expr)
	}
	return &Literal{tb(s, types.NewUnit()), nil}
}

func (l *Lowerer) lowerTryExpr(expr *ast.TryExpr) Expr {
	body := l.lowerExpr(expr.Body)
	t := body.Type()
	var stmts []Stmt
	tr := &Try{base: base{Rng: expr.Range()}, Body: &ExprStmt{base: base{Rng: expr.Body.Range()}, Expr: body}}
	for _, c := range expr.Catches {
		restore := l.enterScope()
		ct := l.resolveTypeRefName(c.Type)
		l.scope.Define(&symbols.Symbol{Name: c.Name, Kind: symbols.KindVal, Type: ct})
		tr.Catches = append(tr.Catches, &CatchClause{Name: c.Name, Type: ct, Body: l.lowerStmt(c.Body)})
		restore()
	}
	if expr.Finally != nil {
		tr.Finally = l.lowerStmt(expr.Finally)
	}
	stmts = append(stmts, tr)
	return &BlockExpr0{tb(expr, t), stmts}
}

// BlockExpr0 wraps a statement sequence in expression position, produced
// by lowerTryExpr and lowerBlockExpr; its type is the type it was built
// with (lowerBlockExpr uses the last expression statement's type, or Unit).
type BlockExpr0 struct {
	typedBase
	Stmts []Stmt
}

func (l *Lowerer) lowerBlockExpr(expr *ast.BlockExpr) Expr {
	restore := l.enterScope()
	defer restore()
	stmts := l.lowerStmtList(expr.Body.Stmts)
	var t types.Type = types.NewUnit()
	if len(stmts) > 0 {
		if es, ok := stmts[len(stmts)-1].(*ExprStmt); ok {
			t = es.Expr.Type()
		}
	}
	return &BlockExpr0{tb(expr, t), stmts}
}

func (l *Lowerer) lowerObjectLiteral(expr *ast.ObjectLiteralExpr) Expr {
	ct := types.NewClass("<anonymous>", nil)
	c := &Class{base: base{Rng: expr.Range()}, Name: "<anonymous>", Type: ct}
	restore := l.enterScope()
	l.scope.Define(&symbols.Symbol{Name: "this", Kind: symbols.KindVal, Type: ct})
	l.lowerMembers(expr.Members, c, ct)
	restore()

	var args []Expr
	for _, st := range expr.Supertypes {
		for _, a := range st.Args {
			args = append(args, l.lowerExpr(a))
		}
	}
	return &ObjectLit{tb(expr, ct), c, args}
}

func (l *Lowerer) lowerListLiteral(expr *ast.ListLiteralExpr) Expr {
	var elems []Expr
	var elemT types.Type
	for _, e := range expr.Elements {
		le := l.lowerExpr(e)
		elems = append(elems, le)
		if elemT == nil {
			elemT = le.Type()
		} else {
			elemT = l.joinTypes(elemT, le.Type())
		}
	}
	if elemT == nil {
		elemT = types.NewPrimitive(types.AnyName)
	}
	list := types.NewClass("List", nil)
	list.TypeArgs = []types.TypeArgumentValue{{Type: elemT, Variance: types.Out}}
	return &ListLit{tb(expr, list), elems}
}

func (l *Lowerer) lowerMapLiteral(expr *ast.MapLiteralExpr) Expr {
	var entries []MapEntry
	var keyT, valT types.Type
	for _, e := range expr.Entries {
		k := l.lowerExpr(e.Key)
		v := l.lowerExpr(e.Value)
		entries = append(entries, MapEntry{k, v})
		if keyT == nil {
			keyT, valT = k.Type(), v.Type()
		} else {
			keyT, valT = l.joinTypes(keyT, k.Type()), l.joinTypes(valT, v.Type())
		}
	}
	if keyT == nil {
		keyT = types.NewPrimitive(types.AnyName)
		valT = types.NewPrimitive(types.AnyName)
	}
	m := types.NewClass("Map", nil)
	m.TypeArgs = []types.TypeArgumentValue{{Type: keyT, Variance: types.Out}, {Type: valT, Variance: types.Out}}
	return &MapLit{tb(expr, m), entries}
}

func (l *Lowerer) lowerRange(expr *ast.RangeExpr) Expr {
	from := l.lowerExpr(expr.From)
	to := l.lowerExpr(expr.To)
	op := OpRange
	if expr.Exclusive {
		op = OpRangeExclusive
	}
	rng := types.NewClass("Range", nil)
	rng.TypeArgs = []types.TypeArgumentValue{{Type: from.Type(), Variance: types.Out}}
	return &Binary{tb(expr, rng), op, from, to}
}

// lowerPipeline handles the dedicated PipelineExpr node the same way
// lowerBinary handles ast.OpPipeline, for parsers that keep the sugar
// form distinct from the desugared call.
func (l *Lowerer) lowerPipeline(expr *ast.PipelineExpr) Expr {
	return l.lowerExpr(&ast.CallExpr{Base: expr.Base, Callee: expr.Fn, Args: []*ast.Argument{{Value: expr.Value}}})
}

func (l *Lowerer) lowerCast(expr *ast.CastExpr) Expr {
	operand := l.lowerExpr(expr.Operand)
	target := l.resolveTypeRefName(expr.Type)
	if expr.Safe {
		target = target.WithNullable(true)
	}
	return &TypeCast{tb(expr, target), operand, target, expr.Safe}
}

var _ Expr = (*BlockExpr0)(nil)
