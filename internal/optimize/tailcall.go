package optimize

import "github.com/novaforge/nova/internal/mir"

// runTailCallElimination rewrites a self-recursive call that is
// immediately returned into a `TailCall` terminator plus parameter
// rebinding.
func runTailCallElimination(fn *mir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		retVal, isVoid, ok := resolveReturnValue(fn, b.Terminator, map[int]bool{})
		if !ok {
			continue
		}
		if rewriteTailCall(fn, b, retVal, isVoid) {
			changed = true
		}
	}
	if changed {
		fn.InvalidateFrameSize()
	}
	return changed
}

// resolveReturnValue follows a terminator to the Return it ultimately
// reaches: itself if it is already Return, or the Return of a chain of
// Gotos through otherwise-empty blocks.
func resolveReturnValue(fn *mir.Function, t mir.Terminator, seen map[int]bool) (value int, isVoid bool, ok bool) {
	switch t.Kind {
	case mir.TermReturn:
		return t.Value, t.Value < 0, true
	case mir.TermGoto:
		if seen[t.Target] {
			return 0, false, false
		}
		seen[t.Target] = true
		target := fn.BlockByID(t.Target)
		if target == nil || len(target.Instructions) != 0 {
			return 0, false, false
		}
		return resolveReturnValue(fn, target.Terminator, seen)
	default:
		return 0, false, false
	}
}

// rewriteTailCall checks whether b's trailing instructions are a
// self-recursive call (optionally through one MOVE) producing retVal, and
// if so rewrites b in place.
func rewriteTailCall(fn *mir.Function, b *mir.BasicBlock, retVal int, isVoid bool) bool {
	n := len(b.Instructions)
	if n == 0 {
		return false
	}

	callIdx := -1
	if isVoid {
		if isSelfInvoke(fn, b.Instructions[n-1]) && b.Instructions[n-1].Dest < 0 {
			callIdx = n - 1
		}
	} else {
		last := b.Instructions[n-1]
		if isSelfInvoke(fn, last) && last.Dest == retVal {
			callIdx = n - 1
		} else if last.Op == mir.OpMove && last.Dest == retVal && n >= 2 {
			prev := b.Instructions[n-2]
			if isSelfInvoke(fn, prev) && len(last.Operands) == 1 && last.Operands[0] == prev.Dest {
				callIdx = n - 2
			}
		}
	}
	if callIdx < 0 {
		return false
	}

	call := b.Instructions[callIdx]
	args := call.Operands

	// Stage through fresh temporaries before writing the parameter
	// locals, so an argument expression that reads a not-yet-overwritten
	// parameter (e.g. `sum(n - 1, acc + n)`) still sees the old values
	// rather than a partially-rebound parameter.
	next := nextLocal(fn)
	var temps []int
	for range args {
		temps = append(temps, next)
		next++
	}
	var staged []mir.Instruction
	for i, a := range args {
		staged = append(staged, mir.Instruction{Op: mir.OpMove, Dest: temps[i], Operands: []int{a}})
	}
	for i := range args {
		paramIdx := fn.Params[i].Index
		staged = append(staged, mir.Instruction{Op: mir.OpMove, Dest: paramIdx, Operands: []int{temps[i]}})
	}

	b.Instructions = append(append([]mir.Instruction{}, b.Instructions[:callIdx]...), staged...)
	b.Terminator = mir.Terminator{Kind: mir.TermTailCall, Target: fn.BodyStartBlockID}
	b.InvalidateCache()
	growLocals(fn, next)
	return true
}

func isSelfInvoke(fn *mir.Function, ins mir.Instruction) bool {
	if ins.Op != mir.OpInvokeStatic && ins.Op != mir.OpInvokeVirtual {
		return false
	}
	ext, ok := ins.Extra.(mir.InvokeExtra)
	if !ok || ext.Method != fn.Name {
		return false
	}
	if fn.OwnerClass != "" && ext.Owner != fn.OwnerClass {
		return false
	}
	// Arity must match, accounting for a virtual call's implicit receiver
	// operand against a method's receiver parameter.
	return len(ins.Operands) == len(fn.Params)
}

func nextLocal(fn *mir.Function) int {
	max := -1
	for _, l := range fn.Locals {
		if l.Index > max {
			max = l.Index
		}
	}
	return max + 1
}

func growLocals(fn *mir.Function, upTo int) {
	existing := map[int]bool{}
	for _, l := range fn.Locals {
		existing[l.Index] = true
	}
	for i := nextLocal(fn); i < upTo; i++ {
		if !existing[i] {
			fn.Locals = append(fn.Locals, mir.Local{Index: i, Type: mir.Object("java/lang/Object")})
		}
	}
}
