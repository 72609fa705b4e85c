package mir

import "github.com/novaforge/nova/internal/hir"

var binOpTable = map[hir.BinaryOp]BinOp{
	hir.OpAdd: BinAdd, hir.OpSub: BinSub, hir.OpMul: BinMul,
	hir.OpDiv: BinDiv, hir.OpMod: BinMod,
	hir.OpEq: BinEq, hir.OpNe: BinNe, hir.OpRefEq: BinEq, hir.OpRefNe: BinNe,
	hir.OpLt: BinLt, hir.OpLe: BinLe, hir.OpGt: BinGt, hir.OpGe: BinGe,
	hir.OpAnd: BinAnd, hir.OpOr: BinOr, hir.OpStringConcat: BinStringConcat,
}

// lowerExpr flattens one HIR expression into a sequence of instructions
// ending in the local that holds its value.
func (b *bodyLowerer) lowerExpr(e hir.Expr) int {
	switch ex := e.(type) {
	case *hir.Literal:
		return b.lowerLiteral(ex)
	case *hir.Ident:
		return b.lowerIdent(ex)
	case *hir.This:
		if idx := b.fb.Lookup("this"); idx >= 0 {
			return idx
		}
		return b.constNull()
	case *hir.Super:
		if idx := b.fb.Lookup("this"); idx >= 0 {
			return idx
		}
		return b.constNull()
	case *hir.Binary:
		return b.lowerBinary(ex)
	case *hir.Unary:
		return b.lowerUnary(ex)
	case *hir.Call:
		return b.lowerCall(ex)
	case *hir.MemberAccess:
		return b.lowerMemberAccess(ex)
	case *hir.FieldAssign:
		return b.lowerFieldAssign(ex)
	case *hir.IndexGet:
		return b.lowerIndexGet(ex)
	case *hir.IndexSet:
		return b.lowerIndexSet(ex)
	case *hir.LocalAssign:
		return b.lowerLocalAssign(ex)
	case *hir.Conditional:
		return b.lowerConditional(ex)
	case *hir.Let:
		return b.lowerLet(ex)
	case *hir.TypeCheck:
		return b.lowerTypeCheck(ex)
	case *hir.TypeCast:
		return b.lowerTypeCast(ex)
	case *hir.Throws:
		return b.lowerThrows(ex)
	case *hir.Lambda:
		return b.lowerLambda(ex)
	case *hir.ListLit:
		return b.lowerListLit(ex)
	case *hir.MapLit:
		return b.lowerMapLit(ex)
	case *hir.ObjectLit:
		return b.lowerObjectLit(ex)
	case *hir.StringConcat:
		return b.lowerStringConcat(ex)
	case *hir.Await:
		return b.lowerAwait(ex)
	default:
		panic("mir: unhandled HIR expression in lowering")
	}
}

func (b *bodyLowerer) constNull() int {
	dst := freshTemp(b.fb, Object("java/lang/Object"))
	b.fb.Emit(Instruction{Op: OpConstNull, Dest: dst})
	return dst
}

func (b *bodyLowerer) lowerLiteral(ex *hir.Literal) int {
	mt := FromNovaType(ex.Type())
	dst := freshTemp(b.fb, mt)
	op := OpConstString
	switch mt.Kind {
	case KindInt:
		op = OpConstInt
	case KindLong:
		op = OpConstLong
	case KindFloat:
		op = OpConstFloat
	case KindDouble:
		op = OpConstDouble
	case KindBoolean:
		op = OpConstBoolean
	case KindChar:
		op = OpConstChar
	default:
		if ex.Value == nil {
			op = OpConstNull
		}
	}
	b.fb.Emit(Instruction{Op: op, Dest: dst, Extra: ex.Value, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerIdent(ex *hir.Ident) int {
	if idx := b.fb.Lookup(ex.Name); idx >= 0 {
		return idx
	}
	// Unbound identifier resolves to a static field on the package's
	// globals holder, per the top-level `val`/`var` handling.
	mt := FromNovaType(ex.Type())
	dst := freshTemp(b.fb, mt)
	b.fb.Emit(Instruction{Op: OpGetField, Dest: dst,
		Extra: FieldExtra{Owner: b.l.globalsClassName, Name: ex.Name, Type: mt}, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerBinary(ex *hir.Binary) int {
	left := b.lowerExpr(ex.Left)
	right := b.lowerExpr(ex.Right)
	op, ok := binOpTable[ex.Op]
	if !ok {
		op = BinAdd
	}
	dst := freshTemp(b.fb, FromNovaType(ex.Type()))
	b.fb.Emit(Instruction{Op: OpBinary, Dest: dst, Operands: []int{left, right}, Extra: op, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerUnary(ex *hir.Unary) int {
	operand := b.lowerExpr(ex.Operand)
	switch ex.Op {
	case hir.OpNeg:
		dst := freshTemp(b.fb, FromNovaType(ex.Type()))
		b.fb.Emit(Instruction{Op: OpUnary, Dest: dst, Operands: []int{operand}, Extra: UnNeg, Range: ex.Range()})
		return dst
	case hir.OpNot:
		dst := freshTemp(b.fb, FromNovaType(ex.Type()))
		b.fb.Emit(Instruction{Op: OpUnary, Dest: dst, Operands: []int{operand}, Extra: UnNot, Range: ex.Range()})
		return dst
	case hir.OpPreIncr, hir.OpPreDecr, hir.OpPostIncr, hir.OpPostDecr:
		return b.lowerIncrDecr(ex, operand)
	default:
		return operand
	}
}

// lowerIncrDecr lowers `++x`/`x++`/`--x`/`x--` over a local by materializing
// the pre- or post-value explicitly, rather than inventing a dedicated
// increment instruction, so later CSE/peephole passes see plain
// BINARY/MOVE shapes they already know how to optimize.
func (b *bodyLowerer) lowerIncrDecr(ex *hir.Unary, operandLocal int) int {
	mt := FromNovaType(ex.Type())
	one := freshTemp(b.fb, mt)
	constOp := OpConstInt
	if mt.Kind == KindLong {
		constOp = OpConstLong
	}
	b.fb.Emit(Instruction{Op: constOp, Dest: one, Extra: 1})
	op := BinAdd
	if ex.Op == hir.OpPreDecr || ex.Op == hir.OpPostDecr {
		op = BinSub
	}
	updated := freshTemp(b.fb, mt)
	b.fb.Emit(Instruction{Op: OpBinary, Dest: updated, Operands: []int{operandLocal, one}, Extra: op, Range: ex.Range()})
	pre := freshTemp(b.fb, mt)
	b.fb.Emit(Instruction{Op: OpMove, Dest: pre, Operands: []int{operandLocal}})
	b.fb.Emit(Instruction{Op: OpMove, Dest: operandLocal, Operands: []int{updated}})
	if ex.Op == hir.OpPreIncr || ex.Op == hir.OpPreDecr {
		return updated
	}
	return pre
}

func (b *bodyLowerer) argDescriptor(args []int, ret MirType) string {
	d := "("
	for range args {
		d += "Ljava/lang/Object;"
	}
	return d + ")" + ret.Descriptor()
}

func (b *bodyLowerer) lowerCall(ex *hir.Call) int {
	var operands []int
	if ex.Receiver != nil {
		operands = append(operands, b.lowerExpr(ex.Receiver))
	}
	for _, a := range ex.Args {
		operands = append(operands, b.lowerExpr(a))
	}
	var op Op
	switch ex.Kind {
	case hir.CallVirtual:
		op = OpInvokeVirtual
	case hir.CallInterface:
		op = OpInvokeInterface
	case hir.CallSpecial:
		op = OpInvokeSpecial
	default:
		op = OpInvokeStatic
	}
	ret := FromNovaType(ex.Type())
	owner := internalName(ex.Owner)
	extra := InvokeExtra{Owner: owner, Method: ex.Name, Descriptor: b.argDescriptor(operands, ret)}
	dst := -1
	if ret.Kind != KindVoid {
		dst = freshTemp(b.fb, ret)
	}
	b.fb.Emit(Instruction{Op: op, Dest: dst, Operands: operands, Extra: extra, Range: ex.Range()})
	if dst == -1 {
		dst = freshTemp(b.fb, Void())
	}
	return dst
}

func (b *bodyLowerer) lowerMemberAccess(ex *hir.MemberAccess) int {
	recv := b.lowerExpr(ex.Receiver)
	mt := FromNovaType(ex.Type())
	dst := freshTemp(b.fb, mt)
	owner := ""
	if ex.Receiver.Type() != nil {
		owner = internalName(ex.Receiver.Type().Name())
	}
	b.fb.Emit(Instruction{Op: OpGetField, Dest: dst, Operands: []int{recv},
		Extra: FieldExtra{Owner: owner, Name: ex.Name, Type: mt}, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerFieldAssign(ex *hir.FieldAssign) int {
	recv := b.lowerExpr(ex.Receiver)
	val := b.lowerExpr(ex.Value)
	mt := FromNovaType(ex.Type())
	owner := ""
	if ex.Receiver.Type() != nil {
		owner = internalName(ex.Receiver.Type().Name())
	}
	b.fb.Emit(Instruction{Op: OpSetField, Dest: -1, Operands: []int{recv, val},
		Extra: FieldExtra{Owner: owner, Name: ex.Name, Type: mt}, Range: ex.Range()})
	return val
}

func (b *bodyLowerer) lowerIndexGet(ex *hir.IndexGet) int {
	target := b.lowerExpr(ex.Target)
	idx := b.lowerExpr(ex.Index)
	dst := freshTemp(b.fb, FromNovaType(ex.Type()))
	b.fb.Emit(Instruction{Op: OpIndexGet, Dest: dst, Operands: []int{target, idx}, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerIndexSet(ex *hir.IndexSet) int {
	target := b.lowerExpr(ex.Target)
	idx := b.lowerExpr(ex.Index)
	val := b.lowerExpr(ex.Value)
	b.fb.Emit(Instruction{Op: OpIndexSet, Dest: -1, Operands: []int{target, idx, val}, Range: ex.Range()})
	return val
}

func (b *bodyLowerer) lowerLocalAssign(ex *hir.LocalAssign) int {
	val := b.lowerExpr(ex.Value)
	idx := b.fb.Lookup(ex.Name)
	if idx < 0 {
		// Falls back to the globals holder for a top-level `var`.
		mt := FromNovaType(ex.Type())
		b.fb.Emit(Instruction{Op: OpSetField, Dest: -1, Operands: []int{val},
			Extra: FieldExtra{Owner: b.l.globalsClassName, Name: ex.Name, Type: mt}, Range: ex.Range()})
		return val
	}
	b.fb.Emit(Instruction{Op: OpMove, Dest: idx, Operands: []int{val}, Range: ex.Range()})
	return idx
}

// lowerConditional flattens a ternary-shaped value-producing conditional
// -- the bottom of every `?.`/`?:`/`!!`/`when` desugaring
// -- into a branch with both arms assigning a shared result local.
func (b *bodyLowerer) lowerConditional(ex *hir.Conditional) int {
	cond := b.lowerExpr(ex.Cond)
	mt := FromNovaType(ex.Type())
	result := freshTemp(b.fb, mt)

	thenBlk := b.fb.NewBlock()
	elseBlk := b.fb.NewBlock()
	joinBlk := b.fb.NewBlock()
	b.fb.Terminate(Terminator{Kind: TermBranch, Cond: cond, Then: thenBlk.ID, Else: elseBlk.ID})

	b.fb.SetCurrent(thenBlk)
	thenVal := b.lowerExpr(ex.Then)
	b.fb.Emit(Instruction{Op: OpMove, Dest: result, Operands: []int{thenVal}})
	b.fb.Terminate(Terminator{Kind: TermGoto, Target: joinBlk.ID})

	b.fb.SetCurrent(elseBlk)
	elseVal := b.lowerExpr(ex.Else)
	b.fb.Emit(Instruction{Op: OpMove, Dest: result, Operands: []int{elseVal}})
	b.fb.Terminate(Terminator{Kind: TermGoto, Target: joinBlk.ID})

	b.fb.SetCurrent(joinBlk)
	b.terminated = false
	return result
}

// lowerLet binds Name to Value's flattened local for the evaluation of
// Body, implementing the "evaluated once" discipline
// safe-call/Elvis/not-null receivers require.
func (b *bodyLowerer) lowerLet(ex *hir.Let) int {
	val := b.lowerExpr(ex.Value)
	b.fb.Bind(ex.Name, val)
	return b.lowerExpr(ex.Body)
}

func (b *bodyLowerer) lowerTypeCheck(ex *hir.TypeCheck) int {
	operand := b.lowerExpr(ex.Operand)
	dst := freshTemp(b.fb, Boolean())
	b.fb.Emit(Instruction{Op: OpTypeCheck, Dest: dst, Operands: []int{operand},
		Extra: TypeExtra{TargetName: internalName(ex.Target.Name()), Negate: ex.Negate}, Range: ex.Range()})
	return dst
}

func (b *bodyLowerer) lowerTypeCast(ex *hir.TypeCast) int {
	operand := b.lowerExpr(ex.Operand)
	mt := FromNovaType(ex.Target)
	dst := freshTemp(b.fb, mt)
	b.fb.Emit(Instruction{Op: OpTypeCast, Dest: dst, Operands: []int{operand},
		Extra: TypeExtra{TargetName: internalName(ex.Target.Name()), Safe: ex.Safe}, Range: ex.Range()})
	return dst
}

// lowerThrows lowers error-propagation `expr?`: the operand's result is
// tested; on the error variant the enclosing function returns it
// immediately, otherwise evaluation continues with the non-error value,
// since this needs the enclosing function's exit
// path and so is lowered here rather than in AST→HIR.
func (b *bodyLowerer) lowerThrows(ex *hir.Throws) int {
	operand := b.lowerExpr(ex.Operand)
	isErr := freshTemp(b.fb, Boolean())
	b.fb.Emit(Instruction{Op: OpTypeCheck, Dest: isErr, Operands: []int{operand},
		Extra: TypeExtra{TargetName: "nova/Result$Error"}, Range: ex.Range()})

	errBlk := b.fb.NewBlock()
	okBlk := b.fb.NewBlock()
	b.fb.Terminate(Terminator{Kind: TermBranch, Cond: isErr, Then: errBlk.ID, Else: okBlk.ID})

	b.fb.SetCurrent(errBlk)
	b.fb.Terminate(Terminator{Kind: TermReturn, Value: operand})

	b.fb.SetCurrent(okBlk)
	b.terminated = false
	return operand
}

func (b *bodyLowerer) lowerLambda(ex *hir.Lambda) int {
	n := b.l.lambdas.Next()
	name := lambdaClassName(n)
	closureFB := NewFunctionBuilder("invoke", FromNovaType(ex.Return))
	for _, p := range ex.Params {
		idx := closureFB.NewLocal(p.Name, FromNovaType(p.Type))
		closureFB.Fn().Params = append(closureFB.Fn().Params, closureFB.Fn().Locals[idx])
	}
	for _, cap := range ex.Captures {
		closureFB.NewLocal(cap.Name, FromNovaType(cap.Type))
	}
	inner := newStmtLowerer(b.l, closureFB)
	inner.lowerBlock(ex.Body)
	if !inner.terminated {
		if closureFB.Fn().ReturnType.Kind == KindVoid {
			closureFB.Terminate(Terminator{Kind: TermReturn, Value: -1})
		} else {
			closureFB.Terminate(Terminator{Kind: TermUnreachable})
		}
	}
	cls := &Class{Name: name, Kind: ClassKindClass, SuperClass: "java/lang/Object"}
	for _, cap := range ex.Captures {
		cls.Fields = append(cls.Fields, Field{Name: cap.Name, Type: FromNovaType(cap.Type)})
	}
	cls.Methods = append(cls.Methods, closureFB.Finish())
	b.l.extraCls = append(b.l.extraCls, cls)

	dst := freshTemp(b.fb, Object(name))
	var captureLocals []int
	for _, cap := range ex.Captures {
		if idx := b.fb.Lookup(cap.Name); idx >= 0 {
			captureLocals = append(captureLocals, idx)
		}
	}
	b.fb.Emit(Instruction{Op: OpNewClosure, Dest: dst, Operands: captureLocals,
		Extra: name, Special: true, Range: ex.Range()})
	return dst
}

func lambdaClassName(n int) string {
	digits := "0123456789"
	if n == 0 {
		return "$Lambda$0"
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	return "$Lambda$" + string(buf)
}

func (b *bodyLowerer) lowerListLit(ex *hir.ListLit) int {
	dst := freshTemp(b.fb, Object("java/util/ArrayList"))
	b.fb.Emit(Instruction{Op: OpNew, Dest: dst, Extra: "java/util/ArrayList", Range: ex.Range()})
	for _, el := range ex.Elements {
		v := b.lowerExpr(el)
		b.fb.Emit(Instruction{Op: OpInvokeVirtual, Dest: -1, Operands: []int{dst, v},
			Extra: InvokeExtra{Owner: "java/util/ArrayList", Method: "add", Descriptor: "(Ljava/lang/Object;)Z"}})
	}
	return dst
}

func (b *bodyLowerer) lowerMapLit(ex *hir.MapLit) int {
	dst := freshTemp(b.fb, Object("java/util/LinkedHashMap"))
	b.fb.Emit(Instruction{Op: OpNew, Dest: dst, Extra: "java/util/LinkedHashMap", Range: ex.Range()})
	for _, entry := range ex.Entries {
		k := b.lowerExpr(entry.Key)
		v := b.lowerExpr(entry.Value)
		b.fb.Emit(Instruction{Op: OpInvokeVirtual, Dest: -1, Operands: []int{dst, k, v},
			Extra: InvokeExtra{Owner: "java/util/LinkedHashMap", Method: "put",
				Descriptor: "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;"}})
	}
	return dst
}

func (b *bodyLowerer) lowerObjectLit(ex *hir.ObjectLit) int {
	owner := internalName(ex.Class.Name)
	dst := freshTemp(b.fb, Object(owner))
	b.fb.Emit(Instruction{Op: OpNew, Dest: dst, Extra: owner, Range: ex.Range()})
	var args []int
	for _, a := range ex.Args {
		args = append(args, b.lowerExpr(a))
	}
	operands := append([]int{dst}, args...)
	b.fb.Emit(Instruction{Op: OpInvokeSpecial, Dest: -1, Operands: operands,
		Extra: InvokeExtra{Owner: owner, Method: "<init>", Descriptor: b.argDescriptor(args, Void())}})
	return dst
}

func (b *bodyLowerer) lowerStringConcat(ex *hir.StringConcat) int {
	dst := freshTemp(b.fb, Object("java/lang/String"))
	b.fb.Emit(Instruction{Op: OpConstString, Dest: dst, Extra: ""})
	for _, part := range ex.Parts {
		v := b.lowerExpr(part)
		next := freshTemp(b.fb, Object("java/lang/String"))
		b.fb.Emit(Instruction{Op: OpBinary, Dest: next, Operands: []int{dst, v}, Extra: BinStringConcat, Range: ex.Range()})
		dst = next
	}
	return dst
}

func (b *bodyLowerer) lowerAwait(ex *hir.Await) int {
	operand := b.lowerExpr(ex.Operand)
	dst := freshTemp(b.fb, FromNovaType(ex.Type()))
	b.fb.Emit(Instruction{Op: OpInvokeInterface, Dest: dst, Operands: []int{operand},
		Extra: InvokeExtra{Owner: "nova/Awaitable", Method: "await", Descriptor: "()Ljava/lang/Object;"}, Range: ex.Range()})
	return dst
}
