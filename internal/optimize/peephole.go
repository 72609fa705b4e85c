package optimize

import "github.com/novaforge/nova/internal/mir"

// runPeephole removes dead instructions to
// fixpoint, redundant same-block MOVE elimination, and compare-into-branch
// fusion.
func runPeephole(fn *mir.Function) bool {
	changed := false
	for eliminateDead(fn) {
		changed = true
	}
	if eliminateRedundantMoves(fn) {
		changed = true
	}
	if fuseComparesIntoBranches(fn) {
		changed = true
	}
	if changed {
		fn.InvalidateFrameSize()
	}
	return changed
}

// eliminateDead removes one round of pure, unused-dest instructions.
// DIV/MOD and INDEX_GET are excluded because they can fault even with an
// unread result.
func eliminateDead(fn *mir.Function) bool {
	used := usedLocals(fn)
	changed := false
	for _, b := range fn.Blocks {
		out := b.Instructions[:0:0]
		for _, ins := range b.Instructions {
			if ins.Dest >= 0 && !used[ins.Dest] && isDeadEligible(ins) {
				changed = true
				continue
			}
			out = append(out, ins)
		}
		if changed {
			b.Instructions = out
			b.InvalidateCache()
		}
	}
	return changed
}

func isDeadEligible(ins mir.Instruction) bool {
	if !ins.Op.IsPure() {
		return false
	}
	if ins.Op == mir.OpBinary {
		if op, ok := ins.Extra.(mir.BinOp); ok && op.IsFaulting() {
			return false
		}
	}
	return ins.Op != mir.OpIndexGet
}

// usedLocals collects every local index read by any instruction operand
// or terminator field across the whole function.
func usedLocals(fn *mir.Function) map[int]bool {
	used := map[int]bool{}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			for _, o := range ins.Operands {
				used[o] = true
			}
		}
		t := b.Terminator
		switch t.Kind {
		case mir.TermBranch:
			used[t.Cond] = true
			if t.Fused != nil {
				used[t.Fused.Left] = true
				used[t.Fused.Right] = true
			}
		case mir.TermReturn:
			if t.Value >= 0 {
				used[t.Value] = true
			}
		case mir.TermThrow:
			used[t.Value] = true
		case mir.TermSwitch:
			used[t.Key] = true
		}
	}
	for _, tc := range fn.TryCatchEntries {
		used[tc.ExceptionLocal] = true
	}
	for _, p := range fn.Params {
		used[p.Index] = true // parameters are always "live in" at entry
	}
	return used
}

// eliminateRedundantMoves drops a `dst := MOVE src` when src is defined
// exactly once and read only by this move (counted across the whole
// function), and dst is not read earlier in the move's block. The move is
// deleted and every later use of dst is renamed to src.
func eliminateRedundantMoves(fn *mir.Function) bool {
	defCount, useCount := map[int]int{}, map[int]int{}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			if ins.Dest >= 0 {
				defCount[ins.Dest]++
			}
			for _, o := range ins.Operands {
				useCount[o]++
			}
		}
	}

	changed := false
	for _, b := range fn.Blocks {
		for i := 0; i < len(b.Instructions); i++ {
			ins := b.Instructions[i]
			if ins.Op != mir.OpMove || len(ins.Operands) != 1 {
				continue
			}
			src, dst := ins.Operands[0], ins.Dest
			if defCount[src] != 1 || useCount[src] != 1 {
				continue
			}
			if readsBetween(b, i, dst) {
				continue
			}
			renameLocal(fn, dst, src, b, i+1)
			b.Instructions = append(b.Instructions[:i], b.Instructions[i+1:]...)
			b.InvalidateCache()
			i--
			changed = true
		}
	}
	return changed
}

// readsBetween reports whether dst is read by any instruction in b before
// index moveIdx.)
func readsBetween(b *mir.BasicBlock, moveIdx, dst int) bool {
	for i := 0; i < moveIdx; i++ {
		for _, o := range b.Instructions[i].Operands {
			if o == dst {
				return true
			}
		}
	}
	return false
}

// renameLocal rewrites every later use of from (within b starting at
// startIdx, and in every other block) to to, plus terminators.
func renameLocal(fn *mir.Function, from, to int, skipBlock *mir.BasicBlock, startIdx int) {
	for _, b := range fn.Blocks {
		start := 0
		if b == skipBlock {
			start = startIdx
		}
		for i := start; i < len(b.Instructions); i++ {
			ins := &b.Instructions[i]
			for j, o := range ins.Operands {
				if o == from {
					ins.Operands[j] = to
				}
			}
		}
		t := &b.Terminator
		switch t.Kind {
		case mir.TermBranch:
			if t.Cond == from {
				t.Cond = to
			}
			if t.Fused != nil {
				if t.Fused.Left == from {
					t.Fused.Left = to
				}
				if t.Fused.Right == from {
					t.Fused.Right = to
				}
			}
		case mir.TermReturn:
			if t.Value == from {
				t.Value = to
			}
		case mir.TermThrow:
			if t.Value == from {
				t.Value = to
			}
		case mir.TermSwitch:
			if t.Key == from {
				t.Key = to
			}
		}
	}
}

// fuseComparesIntoBranches folds a single-def/single-use comparison
// BINARY directly into the Branch terminator that consumes it, deleting
// the standalone instruction.
func fuseComparesIntoBranches(fn *mir.Function) bool {
	defCount, useCount := map[int]int{}, map[int]int{}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			if ins.Dest >= 0 {
				defCount[ins.Dest]++
			}
			for _, o := range ins.Operands {
				useCount[o]++
			}
		}
		if b.Terminator.Kind == mir.TermBranch {
			useCount[b.Terminator.Cond]++
		}
	}

	changed := false
	for _, b := range fn.Blocks {
		if b.Terminator.Kind != mir.TermBranch || b.Terminator.Fused != nil {
			continue
		}
		cond := b.Terminator.Cond
		if defCount[cond] != 1 || useCount[cond] != 1 {
			continue
		}
		idx := -1
		for i, ins := range b.Instructions {
			if ins.Dest == cond {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		ins := b.Instructions[idx]
		if ins.Op != mir.OpBinary || len(ins.Operands) != 2 {
			continue
		}
		op, ok := ins.Extra.(mir.BinOp)
		if !ok || !isComparison(op) {
			continue
		}
		b.Terminator.Fused = &mir.FusedCompare{Op: op, Left: ins.Operands[0], Right: ins.Operands[1]}
		b.Instructions = append(b.Instructions[:idx], b.Instructions[idx+1:]...)
		b.InvalidateCache()
		changed = true
	}
	return changed
}

func isComparison(op mir.BinOp) bool {
	switch op {
	case mir.BinEq, mir.BinNe, mir.BinLt, mir.BinLe, mir.BinGt, mir.BinGe:
		return true
	default:
		return false
	}
}
