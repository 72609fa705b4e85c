package optimize

import "github.com/novaforge/nova/internal/mir"

// runDeadBlockElimination removes every block unreachable from the
// function's entry block or any TryCatchEntry span/handler. Runs once
// early and again after block merging exposes new dead blocks.
func runDeadBlockElimination(fn *mir.Function) bool {
	reachable := map[int]bool{}
	var queue []int
	start := fn.BodyStartBlockID
	reachable[start] = true
	queue = append(queue, start)

	// Every block spanned or targeted by a TryCatchEntry is reachable
	// even with no statically-visible predecessor (the JVM verifier
	// models exception edges from every instruction in the try range).
	for _, tc := range fn.TryCatchEntries {
		for id := tc.TryStart; id < tc.TryEnd; id++ {
			if b := fn.BlockByID(id); b != nil && !reachable[id] {
				reachable[id] = true
				queue = append(queue, id)
			}
		}
		if !reachable[tc.Handler] {
			reachable[tc.Handler] = true
			queue = append(queue, tc.Handler)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		b := fn.BlockByID(id)
		if b == nil {
			continue
		}
		for _, succ := range successors(b.Terminator) {
			if !reachable[succ] {
				reachable[succ] = true
				queue = append(queue, succ)
			}
		}
	}

	kept := fn.Blocks[:0:0]
	changed := false
	for _, b := range fn.Blocks {
		if reachable[b.ID] {
			kept = append(kept, b)
		} else {
			changed = true
		}
	}
	fn.Blocks = kept
	if changed {
		fn.InvalidateFrameSize()
	}
	return changed
}

// successors lists the block ids a terminator can transfer control to.
func successors(t mir.Terminator) []int {
	switch t.Kind {
	case mir.TermGoto:
		return []int{t.Target}
	case mir.TermBranch:
		return []int{t.Then, t.Else}
	case mir.TermTailCall:
		return []int{t.Target}
	case mir.TermSwitch:
		ids := make([]int, 0, len(t.Cases)+1)
		for _, c := range t.Cases {
			ids = append(ids, c.Block)
		}
		return append(ids, t.Default)
	default: // Return, Throw, Unreachable have no successors
		return nil
	}
}
