package semantic

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/symbols"
	"github.com/novaforge/nova/internal/types"
)

// analyzeExpr type-checks e and returns its static type, substituting
// types.ErrorType (and suppressing further diagnostics about the same
// failure) wherever resolution or type-checking fails.
func (a *Analyzer) analyzeExpr(e ast.Expr) types.Type {
	if e == nil {
		return types.NewError()
	}
	switch expr := e.(type) {
	case *ast.Ident:
		return a.analyzeIdent(expr)
	case *ast.ThisExpr:
		return a.analyzeThis(expr)
	case *ast.SuperExpr:
		if a.currentClass != nil && a.currentClass.Super != nil {
			return a.currentClass.Super
		}
		a.errorf(expr, "`super` used outside of a class with a superclass")
		return types.NewError()
	case *ast.LiteralExpr:
		return a.analyzeLiteral(expr)
	case *ast.InterpolatedStringExpr:
		for _, part := range expr.Parts {
			if part.Expr != nil {
				a.analyzeExpr(part.Expr)
			}
		}
		return types.NewPrimitive(types.StringT)
	case *ast.BinaryExpr:
		return a.analyzeBinary(expr)
	case *ast.UnaryExpr:
		return a.analyzeUnary(expr)
	case *ast.CallExpr:
		return a.analyzeCall(expr)
	case *ast.MemberExpr:
		return a.analyzeMember(expr)
	case *ast.IndexExpr:
		return a.analyzeIndex(expr)
	case *ast.SliceExpr:
		recvT := a.analyzeExpr(expr.Receiver)
		if expr.From != nil {
			a.analyzeExpr(expr.From)
		}
		if expr.To != nil {
			a.analyzeExpr(expr.To)
		}
		return recvT
	case *ast.ElvisExpr:
		return a.analyzeElvis(expr)
	case *ast.ErrorPropagationExpr:
		return a.analyzeErrorPropagation(expr)
	case *ast.ItExpr:
		if sym, ok := a.scope.Resolve("it"); ok {
			return sym.Type
		}
		a.errorf(expr, "`it` used outside of a lambda with an implicit parameter")
		return types.NewError()
	case *ast.AssignExpr:
		return a.analyzeAssign(expr)
	case *ast.LambdaExpr:
		return a.analyzeLambda(expr, nil)
	case *ast.MethodRefExpr:
		return a.analyzeMethodRef(expr)
	case *ast.IfExpr:
		return a.analyzeIfExpr(expr)
	case *ast.WhenExpr:
		return a.analyzeWhenExpr(expr)
	case *ast.TryExpr:
		return a.analyzeTryExpr(expr)
	case *ast.BlockExpr:
		return a.analyzeBlockExpr(expr)
	case *ast.ObjectLiteralExpr:
		return a.analyzeObjectLiteral(expr)
	case *ast.ListLiteralExpr:
		return a.analyzeListLiteral(expr)
	case *ast.MapLiteralExpr:
		return a.analyzeMapLiteral(expr)
	case *ast.SpreadExpr:
		return a.analyzeExpr(expr.Operand)
	case *ast.RangeExpr:
		return a.analyzeRange(expr)
	case *ast.PipelineExpr:
		fnT := a.analyzeExpr(expr.Fn)
		a.analyzeExpr(expr.Value)
		if ft, ok := fnT.(*types.FunctionType); ok {
			return ft.Return
		}
		return types.NewError()
	case *ast.CastExpr:
		return a.analyzeCast(expr)
	case *ast.TypeCheckExpr:
		a.analyzeExpr(expr.Operand)
		a.resolveType(expr.Type)
		return types.NewPrimitive(types.Boolean)
	case *ast.AwaitExpr:
		return a.analyzeAwait(expr)
	case *ast.JumpExpr:
		a.analyzeStmt(expr.Stmt)
		return types.NewNothing()
	default:
		a.errorf(e, "unrecognized expression")
		return types.NewError()
	}
}

func (a *Analyzer) analyzeIdent(expr *ast.Ident) types.Type {
	sym, ok := a.scope.Resolve(expr.Name)
	if !ok {
		a.errorf(expr, "undefined name %q", expr.Name)
		return types.NewError()
	}
	if sym.Type == nil {
		return types.NewError()
	}
	return sym.Type
}

func (a *Analyzer) analyzeThis(expr *ast.ThisExpr) types.Type {
	if sym, ok := a.scope.Resolve("this"); ok {
		return sym.Type
	}
	a.errorf(expr, "`this` used outside of a class or extension receiver")
	return types.NewError()
}

func (a *Analyzer) analyzeLiteral(expr *ast.LiteralExpr) types.Type {
	switch expr.Value.(type) {
	case int64:
		return types.NewPrimitive(types.Int)
	case float64:
		return types.NewPrimitive(types.Double)
	case string:
		return types.NewPrimitive(types.StringT)
	case bool:
		return types.NewPrimitive(types.Boolean)
	case rune:
		return types.NewPrimitive(types.Char)
	case nil:
		return types.NewNothing().WithNullable(true)
	default:
		return types.NewError()
	}
}

func (a *Analyzer) analyzeBinary(expr *ast.BinaryExpr) types.Type {
	lt := a.analyzeExpr(expr.Left)
	rt := a.analyzeExpr(expr.Right)
	if types.IsError(lt) || types.IsError(rt) {
		return types.NewError()
	}

	switch expr.Op {
	case ast.OpAdd, ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return a.analyzeNumericBinary(expr, lt, rt)
	case ast.OpEq, ast.OpNotEq, ast.OpRefEq, ast.OpRefNotEq:
		return types.NewPrimitive(types.Boolean)
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		return types.NewPrimitive(types.Boolean)
	case ast.OpAnd, ast.OpOr:
		return types.NewPrimitive(types.Boolean)
	case ast.OpRange, ast.OpRangeUntil:
		return types.NewError() // ranges are constructed via RangeExpr; an infix spelling isn't expected here
	case ast.OpIn, ast.OpNotIn:
		return types.NewPrimitive(types.Boolean)
	case ast.OpPipeline:
		if ft, ok := rt.(*types.FunctionType); ok {
			return ft.Return
		}
		return types.NewError()
	case ast.OpElvis:
		return a.elvisResult(lt, rt)
	default:
		return types.NewError()
	}
}

// analyzeNumericBinary applies the numeric promotion ladder: both
// operands must be numeric primitives, and the result is the wider of the
// two ranks.
func (a *Analyzer) analyzeNumericBinary(expr *ast.BinaryExpr, lt, rt types.Type) types.Type {
	lp, lok := lt.(*types.PrimitiveType)
	rp, rok := rt.(*types.PrimitiveType)
	if lok && rok && lp.IsNumeric() && rp.IsNumeric() {
		return types.Promote(lp, rp)
	}
	if expr.Op == ast.OpAdd {
		if _, ok := lt.(*types.PrimitiveType); ok && lt.Name() == string(types.StringT) {
			return types.NewPrimitive(types.StringT)
		}
	}
	a.errorf(expr, "operator requires numeric operands, got %s and %s", lt, rt)
	return types.NewError()
}

func (a *Analyzer) elvisResult(lt, rt types.Type) types.Type {
	nonNull := lt.WithNullable(false)
	if a.registry.IsSubtype(rt, nonNull) {
		return nonNull
	}
	return rt
}

func (a *Analyzer) analyzeUnary(expr *ast.UnaryExpr) types.Type {
	operandT := a.analyzeExpr(expr.Operand)
	switch expr.Op {
	case ast.OpNeg, ast.OpPos:
		return operandT
	case ast.OpNot:
		return types.NewPrimitive(types.Boolean)
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		return operandT
	case ast.OpNotNullAssert:
		if types.IsError(operandT) {
			return operandT
		}
		return operandT.WithNullable(false)
	default:
		return types.NewError()
	}
}

func (a *Analyzer) analyzeErrorPropagation(expr *ast.ErrorPropagationExpr) types.Type {
	operandT := a.analyzeExpr(expr.Operand)
	if types.IsError(operandT) {
		return operandT
	}
	// Error propagation unwraps a nullable/result-shaped operand; in the
	// absence of a dedicated Result<T> type, a nullable operand's success
	// value is its non-nullable self.
	return operandT.WithNullable(false)
}

func (a *Analyzer) analyzeElvis(expr *ast.ElvisExpr) types.Type {
	lt := a.analyzeExpr(expr.Left)
	rt := a.analyzeExpr(expr.Right)
	return a.elvisResult(lt, rt)
}

func (a *Analyzer) analyzeAssign(expr *ast.AssignExpr) types.Type {
	targetT := a.analyzeExpr(expr.Target)
	valueT := a.analyzeExpr(expr.Value)
	if ident, ok := expr.Target.(*ast.Ident); ok {
		if sym, ok := a.scope.Resolve(ident.Name); ok && !sym.Mutable && sym.Kind == symbols.KindVal {
			a.errorf(expr.Target, "cannot reassign val %q", ident.Name)
		}
	}
	if !a.canAssign(valueT, targetT) {
		a.errorf(expr, "cannot assign %s to target of type %s", valueT, targetT)
	}
	return types.NewUnit()
}

func (a *Analyzer) analyzeCall(expr *ast.CallExpr) types.Type {
	argTypes := make([]types.Type, 0, len(expr.Args))
	for _, arg := range expr.Args {
		argTypes = append(argTypes, a.analyzeExpr(arg.Value))
	}
	if expr.TrailingLambda != nil {
		argTypes = append(argTypes, a.analyzeLambda(expr.TrailingLambda, nil))
	}

	if ident, ok := expr.Callee.(*ast.Ident); ok {
		overloads := a.scope.ResolveOverloads(ident.Name)
		if len(overloads) > 0 {
			sym := a.resolveOverload(ident.Name, overloads, argTypes, expr)
			if sym == nil {
				return types.NewError()
			}
			return sym.Type.(*types.FunctionType).Return
		}
	}

	// A method call (`recv.name(...)`) or a call through any other
	// non-identifier callee resolves to whichever overload analyzeMember
	// surfaced; overload resolution by argument type only runs for plain
	// identifier calls above.
	calleeT := a.analyzeExpr(expr.Callee)
	if ft, ok := calleeT.(*types.FunctionType); ok {
		return ft.Return
	}
	if !types.IsError(calleeT) {
		a.errorf(expr, "%s is not callable", calleeT)
	}
	return types.NewError()
}

func (a *Analyzer) analyzeMember(expr *ast.MemberExpr) types.Type {
	recvT := a.analyzeExpr(expr.Receiver)
	if types.IsError(recvT) {
		return recvT
	}
	if recvT.Nullable() && !expr.Safe {
		a.errorf(expr, "receiver of type %s is nullable; use `?.` or a non-null assertion", recvT)
	}

	var result types.Type
	switch t := recvT.(type) {
	case *types.ClassType:
		if ft := t.FieldType(expr.Name); ft != nil {
			result = ft
		} else if overloads := t.MethodOverloads(expr.Name); len(overloads) > 0 {
			result = overloads[0].Signature
		} else {
			for _, iface := range t.Interfaces {
				if m, ok := iface.Methods[expr.Name]; ok {
					result = m
					break
				}
			}
		}
	case *types.InterfaceType:
		if m, ok := t.Methods[expr.Name]; ok {
			result = m
		}
	}
	if result == nil {
		a.errorf(expr, "%s has no member %q", recvT, expr.Name)
		return types.NewError()
	}
	if expr.Safe {
		return result.WithNullable(true)
	}
	return result
}

func (a *Analyzer) analyzeIndex(expr *ast.IndexExpr) types.Type {
	recvT := a.analyzeExpr(expr.Receiver)
	for _, arg := range expr.Args {
		a.analyzeExpr(arg)
	}
	elemT := a.elementType(recvT)
	if expr.Safe {
		return elemT.WithNullable(true)
	}
	return elemT
}

func (a *Analyzer) analyzeLambda(expr *ast.LambdaExpr, expected *types.FunctionType) types.Type {
	restore := a.enterScope()
	defer restore()

	params := make([]types.Type, len(expr.Params))
	for i, p := range expr.Params {
		var pt types.Type
		if p.Type != nil {
			pt = a.resolveType(p.Type)
		} else if expected != nil && i < len(expected.Params) {
			pt = expected.Params[i]
		} else {
			pt = types.NewError()
		}
		params[i] = pt
		if p.Name != "" {
			a.scope.Define(&symbols.Symbol{Name: p.Name, Kind: symbols.KindParameter, Type: pt})
		}
	}
	if len(expr.Params) == 0 {
		var itT types.Type = types.NewError()
		if expected != nil && len(expected.Params) == 1 {
			itT = expected.Params[0]
			params = append(params, itT)
		}
		a.scope.Define(&symbols.Symbol{Name: "it", Kind: symbols.KindParameter, Type: itT})
	}

	var ret types.Type = types.NewUnit()
	if len(expr.Body.Stmts) > 0 {
		for i, s := range expr.Body.Stmts {
			if i == len(expr.Body.Stmts)-1 {
				if es, ok := s.(*ast.ExpressionStmt); ok {
					ret = a.analyzeExpr(es.Expr)
					continue
				}
			}
			a.analyzeStmt(s)
		}
	}
	return types.NewFunctionType(params, ret)
}

func (a *Analyzer) analyzeMethodRef(expr *ast.MethodRefExpr) types.Type {
	var recvT types.Type
	if expr.Receiver != nil {
		recvT = a.analyzeExpr(expr.Receiver)
	} else if expr.Type != nil {
		recvT = a.resolveType(expr.Type)
	}
	if ct, ok := recvT.(*types.ClassType); ok {
		if overloads := ct.MethodOverloads(expr.Name); len(overloads) > 0 {
			return overloads[0].Signature
		}
	}
	a.errorf(expr, "cannot resolve method reference %q", expr.Name)
	return types.NewError()
}

func (a *Analyzer) analyzeIfExpr(expr *ast.IfExpr) types.Type {
	a.analyzeExpr(expr.Cond)
	thenT := a.analyzeExpr(expr.Then)
	if expr.Else == nil {
		return types.NewUnit()
	}
	elseT := a.analyzeExpr(expr.Else)
	return a.joinTypes(thenT, elseT)
}

// joinTypes returns the common supertype of two branch types: one side if
// the other is its subtype, otherwise `Any`, nullable when either side is.
// An ErrorType side yields the other side, so a single divergent branch
// never blocks analysis of the rest of the program.
func (a *Analyzer) joinTypes(t1, t2 types.Type) types.Type {
	if types.IsError(t1) {
		return t2
	}
	if types.IsError(t2) {
		return t1
	}
	if _, ok := t1.(*types.NothingType); ok {
		return t2
	}
	if _, ok := t2.(*types.NothingType); ok {
		return t1
	}
	if a.registry.IsSubtype(t2, t1) {
		return t1
	}
	if a.registry.IsSubtype(t1, t2) {
		return t2
	}
	return types.NewPrimitive(types.AnyName).WithNullable(t1.Nullable() || t2.Nullable())
}

func (a *Analyzer) analyzeWhenExpr(expr *ast.WhenExpr) types.Type {
	var subjectT types.Type
	if expr.Subject != nil {
		subjectT = a.analyzeExpr(expr.Subject)
	}
	var result types.Type = types.NewNothing()
	for i, br := range expr.Branches {
		a.analyzeWhenBranchConds(br, subjectT)
		restore := a.enterScope()
		branchT := a.analyzeWhenBranchValue(br.Body)
		restore()
		if i == 0 {
			result = branchT
		} else {
			result = a.joinTypes(result, branchT)
		}
	}
	if subjectT != nil {
		a.checkWhenExhaustiveness(expr.Branches, subjectT, expr)
	}
	return result
}

func (a *Analyzer) analyzeWhenBranchValue(body ast.Stmt) types.Type {
	switch b := body.(type) {
	case *ast.ExpressionStmt:
		return a.analyzeExpr(b.Expr)
	case *ast.Block:
		var last types.Type = types.NewUnit()
		for i, s := range b.Stmts {
			if i == len(b.Stmts)-1 {
				if es, ok := s.(*ast.ExpressionStmt); ok {
					last = a.analyzeExpr(es.Expr)
					continue
				}
			}
			a.analyzeStmt(s)
		}
		return last
	default:
		a.analyzeStmt(body)
		return types.NewUnit()
	}
}

func (a *Analyzer) analyzeTryExpr(expr *ast.TryExpr) types.Type {
	bodyT := a.analyzeExpr(expr.Body)
	result := bodyT
	for _, c := range expr.Catches {
		restore := a.enterScope()
		a.scope.Define(&symbols.Symbol{Name: c.Name, Kind: symbols.KindVal, Type: a.resolveType(c.Type)})
		a.analyzeBlock(c.Body)
		restore()
	}
	if expr.Finally != nil {
		a.analyzeBlock(expr.Finally)
	}
	return result
}

func (a *Analyzer) analyzeBlockExpr(expr *ast.BlockExpr) types.Type {
	restore := a.enterScope()
	defer restore()
	var result types.Type = types.NewUnit()
	for i, s := range expr.Body.Stmts {
		if i == len(expr.Body.Stmts)-1 {
			if es, ok := s.(*ast.ExpressionStmt); ok {
				result = a.analyzeExpr(es.Expr)
				continue
			}
		}
		a.analyzeStmt(s)
	}
	return result
}

func (a *Analyzer) analyzeObjectLiteral(expr *ast.ObjectLiteralExpr) types.Type {
	ct := types.NewClass("<anonymous>", nil)
	for _, st := range expr.Supertypes {
		a.applySupertype(ct, st)
		for _, arg := range st.Args {
			a.analyzeExpr(arg)
		}
	}
	a.declareMemberSignatures(expr.Members, ct)
	a.analyzeMembers(expr.Members, ct)
	return ct
}

func (a *Analyzer) analyzeListLiteral(expr *ast.ListLiteralExpr) types.Type {
	var elem types.Type
	for _, e := range expr.Elements {
		t := a.analyzeExpr(e)
		if elem == nil {
			elem = t
		} else {
			elem = a.joinTypes(elem, t)
		}
	}
	if elem == nil {
		elem = types.NewPrimitive(types.AnyName)
	}
	list := types.NewClass("List", nil)
	list.TypeArgs = []types.TypeArgumentValue{{Type: elem, Variance: types.Out}}
	return list
}

func (a *Analyzer) analyzeMapLiteral(expr *ast.MapLiteralExpr) types.Type {
	var keyT, valT types.Type
	for _, ent := range expr.Entries {
		k := a.analyzeExpr(ent.Key)
		v := a.analyzeExpr(ent.Value)
		if keyT == nil {
			keyT, valT = k, v
		} else {
			keyT, valT = a.joinTypes(keyT, k), a.joinTypes(valT, v)
		}
	}
	if keyT == nil {
		keyT = types.NewPrimitive(types.AnyName)
		valT = types.NewPrimitive(types.AnyName)
	}
	m := types.NewClass("Map", nil)
	m.TypeArgs = []types.TypeArgumentValue{{Type: keyT, Variance: types.Out}, {Type: valT, Variance: types.Out}}
	return m
}

func (a *Analyzer) analyzeRange(expr *ast.RangeExpr) types.Type {
	fromT := a.analyzeExpr(expr.From)
	a.analyzeExpr(expr.To)
	if expr.Step != nil {
		a.analyzeExpr(expr.Step)
	}
	rng := types.NewClass("Range", nil)
	rng.TypeArgs = []types.TypeArgumentValue{{Type: fromT, Variance: types.Out}}
	return rng
}

func (a *Analyzer) analyzeCast(expr *ast.CastExpr) types.Type {
	a.analyzeExpr(expr.Operand)
	t := a.resolveType(expr.Type)
	if expr.Safe {
		return t.WithNullable(true)
	}
	return t
}

func (a *Analyzer) analyzeAwait(expr *ast.AwaitExpr) types.Type {
	operandT := a.analyzeExpr(expr.Operand)
	if ft, ok := operandT.(*types.FunctionType); ok {
		return ft.Return
	}
	return operandT
}
