package mir

import (
	"github.com/novaforge/nova/internal/hir"
)

// loopCtx records the exit targets of one enclosing loop, so a labeled or
// unlabeled break/continue can find its target by walking outward.
type loopCtx struct {
	label    string
	breakTo  int
	continueTo int
}

// bodyLowerer flattens one function body (statements and the expressions
// inside them) into the blocks of a single FunctionBuilder. Statement and
// expression lowering share one type because HIR expressions (Conditional,
// Let, Throws) can themselves introduce new blocks and, in the case of
// error propagation, an early return -- exactly the same block-juggling
// statement lowering needs.
type bodyLowerer struct {
	l          *Lowerer
	fb         *FunctionBuilder
	terminated bool // true when fb.Current() already carries a terminator
	loops      []loopCtx
}

func newStmtLowerer(l *Lowerer, fb *FunctionBuilder) *bodyLowerer {
	return &bodyLowerer{l: l, fb: fb}
}

// newExprLowerer is the entry point used by lowerer code that only needs
// to flatten an expression (e.g. a field initializer) with no surrounding
// statement control flow yet in progress.
func newExprLowerer(l *Lowerer, fb *FunctionBuilder) *bodyLowerer {
	return &bodyLowerer{l: l, fb: fb}
}

// lower is a convenience alias used by field/global initializer lowering.
func (b *bodyLowerer) lower(e hir.Expr) int { return b.lowerExpr(e) }

// openFreshBlock is used after any statement that terminates the current
// block mid-list, so subsequent (dead) statements in the same HIR Block
// still land somewhere with a valid, eventually-prunable block.
func (b *bodyLowerer) openFreshBlock() {
	blk := b.fb.NewBlock()
	b.fb.SetCurrent(blk)
	b.terminated = false
}

func (b *bodyLowerer) lowerBlock(stmts []hir.Stmt) {
	for _, s := range stmts {
		if b.terminated {
			b.openFreshBlock()
		}
		b.lowerStmt(s)
	}
}

func (b *bodyLowerer) lowerStmt(s hir.Stmt) {
	switch st := s.(type) {
	case *hir.ExprStmt:
		b.lowerExpr(st.Expr)
	case *hir.LocalDecl:
		mt := FromNovaType(st.Type)
		idx := b.fb.NewLocal(st.Name, mt)
		if st.Init != nil {
			v := b.lowerExpr(st.Init)
			b.fb.Emit(Instruction{Op: OpMove, Dest: idx, Operands: []int{v}, Range: st.Range()})
		}
	case *hir.Block:
		b.lowerBlock(st.Stmts)
	case *hir.If:
		b.lowerIf(st)
	case *hir.Loop:
		b.lowerLoop(st)
	case *hir.Break:
		target := b.findLoop(st.Label)
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: target.breakTo})
		b.terminated = true
	case *hir.Continue:
		target := b.findLoop(st.Label)
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: target.continueTo})
		b.terminated = true
	case *hir.Return:
		v := -1
		if st.Value != nil {
			v = b.lowerExpr(st.Value)
		}
		b.fb.Terminate(Terminator{Kind: TermReturn, Value: v})
		b.terminated = true
	case *hir.Throw:
		v := b.lowerExpr(st.Value)
		b.fb.Terminate(Terminator{Kind: TermThrow, Value: v})
		b.terminated = true
	case *hir.Try:
		b.lowerTry(st)
	default:
		// unreachable for a well-formed HIR tree; this is treated as
		// as an internal compiler error rather than a user diagnostic.
		panic("mir: unhandled HIR statement in lowering")
	}
}

func (b *bodyLowerer) findLoop(label string) loopCtx {
	for i := len(b.loops) - 1; i >= 0; i-- {
		if label == "" || b.loops[i].label == label {
			return b.loops[i]
		}
	}
	panic("mir: break/continue outside any loop")
}

func (b *bodyLowerer) lowerIf(st *hir.If) {
	cond := b.lowerExpr(st.Cond)
	thenBlk := b.fb.NewBlock()
	elseBlk := b.fb.NewBlock()
	joinBlk := b.fb.NewBlock()
	b.fb.Terminate(Terminator{Kind: TermBranch, Cond: cond, Then: thenBlk.ID, Else: elseBlk.ID})

	b.fb.SetCurrent(thenBlk)
	b.terminated = false
	b.lowerStmt(st.Then)
	if !b.terminated {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: joinBlk.ID})
	}
	thenFellThrough := !b.terminated

	b.fb.SetCurrent(elseBlk)
	b.terminated = false
	if st.Else != nil {
		b.lowerStmt(st.Else)
	}
	if !b.terminated {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: joinBlk.ID})
	}
	elseFellThrough := !b.terminated

	b.fb.SetCurrent(joinBlk)
	if thenFellThrough || elseFellThrough {
		b.terminated = false
	} else {
		b.fb.Terminate(Terminator{Kind: TermUnreachable})
		b.terminated = true
	}
}

func (b *bodyLowerer) lowerLoop(st *hir.Loop) {
	header := b.fb.NewBlock()
	bodyBlk := b.fb.NewBlock()
	exitBlk := b.fb.NewBlock()
	var stepBlk *BasicBlock
	continueTarget := header.ID
	if st.Step != nil {
		stepBlk = b.fb.NewBlock()
		continueTarget = stepBlk.ID
	}

	if st.PostTest {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: bodyBlk.ID})
	} else {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: header.ID})
		b.fb.SetCurrent(header)
		if st.Cond == nil {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: bodyBlk.ID})
		} else {
			cond := b.lowerExpr(st.Cond)
			b.fb.Terminate(Terminator{Kind: TermBranch, Cond: cond, Then: bodyBlk.ID, Else: exitBlk.ID})
		}
	}

	b.fb.SetCurrent(bodyBlk)
	b.terminated = false
	b.loops = append(b.loops, loopCtx{label: st.Label, breakTo: exitBlk.ID, continueTo: continueTarget})
	b.lowerStmt(st.Body)
	b.loops = b.loops[:len(b.loops)-1]

	if st.PostTest {
		if !b.terminated {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: header.ID})
		}
		b.fb.SetCurrent(header)
		cond := b.lowerExpr(st.Cond)
		b.fb.Terminate(Terminator{Kind: TermBranch, Cond: cond, Then: bodyBlk.ID, Else: exitBlk.ID})
	} else if stepBlk != nil {
		if !b.terminated {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: stepBlk.ID})
		}
		b.fb.SetCurrent(stepBlk)
		b.terminated = false
		b.lowerStmt(st.Step)
		if !b.terminated {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: header.ID})
		}
	} else if !b.terminated {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: header.ID})
	}

	b.fb.SetCurrent(exitBlk)
	b.terminated = false
}

func (b *bodyLowerer) lowerTry(st *hir.Try) {
	joinBlk := b.fb.NewBlock()
	var finallyBlk *BasicBlock
	if st.Finally != nil {
		finallyBlk = b.fb.NewBlock()
	}
	landingTarget := func() int {
		if finallyBlk != nil {
			return finallyBlk.ID
		}
		return joinBlk.ID
	}

	tryBlk := b.fb.NewBlock()
	b.fb.Terminate(Terminator{Kind: TermGoto, Target: tryBlk.ID})
	tryStart := tryBlk.ID
	b.fb.SetCurrent(tryBlk)
	b.terminated = false
	b.lowerStmt(st.Body)
	tryEnd := b.fb.nextBlockID // exclusive upper bound
	anyReaches := false
	if !b.terminated {
		b.fb.Terminate(Terminator{Kind: TermGoto, Target: landingTarget()})
		anyReaches = true
	}

	for _, cc := range st.Catches {
		handlerBlk := b.fb.NewBlock()
		b.fb.SetCurrent(handlerBlk)
		b.terminated = false
		excLocal := b.fb.NewLocal(cc.Name, FromNovaType(cc.Type))
		b.lowerStmt(cc.Body)
		if !b.terminated {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: landingTarget()})
			anyReaches = true
		}
		excType := ""
		if cc.Type != nil {
			excType = internalName(cc.Type.Name())
		}
		b.fb.AddTryCatch(TryCatchEntry{
			TryStart: tryStart, TryEnd: tryEnd, Handler: handlerBlk.ID,
			ExceptionType: excType, ExceptionLocal: excLocal,
		})
	}

	if finallyBlk != nil {
		b.fb.SetCurrent(finallyBlk)
		b.terminated = false
		b.lowerStmt(st.Finally)
		if !b.terminated {
			b.fb.Terminate(Terminator{Kind: TermGoto, Target: joinBlk.ID})
			anyReaches = true
		}
	}

	b.fb.SetCurrent(joinBlk)
	if anyReaches {
		b.terminated = false
	} else {
		b.fb.Terminate(Terminator{Kind: TermUnreachable})
		b.terminated = true
	}
}
