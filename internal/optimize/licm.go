package optimize

import "github.com/novaforge/nova/internal/mir"

// cfg caches predecessor/successor adjacency for one function's current
// block set, recomputed at the start of each pass that needs it (passes
// mutate the CFG, so no cross-pass caching is safe).
type cfg struct {
	order   []int          // block ids in declaration order
	preds   map[int][]int
	succs   map[int][]int
	blockOf map[int]*mir.BasicBlock
}

func buildCFG(fn *mir.Function) *cfg {
	c := &cfg{preds: map[int][]int{}, succs: map[int][]int{}, blockOf: map[int]*mir.BasicBlock{}}
	for _, b := range fn.Blocks {
		c.order = append(c.order, b.ID)
		c.blockOf[b.ID] = b
	}
	for _, b := range fn.Blocks {
		for _, s := range successors(b.Terminator) {
			c.succs[b.ID] = append(c.succs[b.ID], s)
			c.preds[s] = append(c.preds[s], b.ID)
		}
	}
	return c
}

// dominators computes the standard iterative meet-over-predecessors
// dominator sets for the entry block `start`.
func dominators(c *cfg, start int) map[int]map[int]bool {
	all := map[int]bool{}
	for _, id := range c.order {
		all[id] = true
	}
	dom := map[int]map[int]bool{}
	for _, id := range c.order {
		if id == start {
			dom[id] = map[int]bool{start: true}
		} else {
			dom[id] = cloneSet(all)
		}
	}
	changed := true
	for changed {
		changed = false
		for _, id := range c.order {
			if id == start {
				continue
			}
			var inter map[int]bool
			for _, p := range c.preds[id] {
				if inter == nil {
					inter = cloneSet(dom[p])
				} else {
					inter = intersect(inter, dom[p])
				}
			}
			if inter == nil {
				inter = map[int]bool{}
			}
			inter[id] = true
			if !setsEqual(inter, dom[id]) {
				dom[id] = inter
				changed = true
			}
		}
	}
	return dom
}

func cloneSet(s map[int]bool) map[int]bool {
	out := make(map[int]bool, len(s))
	for k := range s {
		out[k] = true
	}
	return out
}

func intersect(a, b map[int]bool) map[int]bool {
	out := map[int]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setsEqual(a, b map[int]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

// dominatesFn reports whether a dominates b given a precomputed dom map.
func dominatesFn(dom map[int]map[int]bool, a, b int) bool { return dom[b][a] }

// naturalLoop finds the set of blocks that reach tail without passing
// through header, for a back-edge tail -> header where header dom tail.
func naturalLoop(c *cfg, header, tail int) map[int]bool {
	loop := map[int]bool{header: true, tail: true}
	var stack []int
	if tail != header {
		stack = append(stack, tail)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range c.preds[n] {
			if !loop[p] {
				loop[p] = true
				stack = append(stack, p)
			}
		}
	}
	return loop
}

// runLICM hoists loop-invariant pure instructions into a synthesized
// pre-header block.
func runLICM(fn *mir.Function) bool {
	c := buildCFG(fn)
	dom := dominators(c, fn.BodyStartBlockID)

	// Find back-edges t -> h where h dominates t, then merge loops that
	// share a header (multiple back-edges into the same loop).
	loopBlocks := map[int]map[int]bool{} // header -> loop block set
	var headers []int
	for _, b := range fn.Blocks {
		for _, s := range successors(b.Terminator) {
			if dominatesFn(dom, s, b.ID) {
				if loopBlocks[s] == nil {
					headers = append(headers, s)
					loopBlocks[s] = map[int]bool{}
				}
				for id := range naturalLoop(c, s, b.ID) {
					loopBlocks[s][id] = true
				}
			}
		}
	}
	if len(headers) == 0 {
		return false
	}

	changed := false
	for _, header := range headers {
		if hoistLoop(fn, c, header, loopBlocks[header]) {
			changed = true
		}
	}
	if changed {
		fn.InvalidateFrameSize()
	}
	return changed
}

// singleDef reports, for each local, whether it is assigned exactly once
// across the whole function (a precondition for treating its definition
// as a stable loop-invariant candidate).
func singleDef(fn *mir.Function) map[int]bool {
	count := map[int]int{}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			if ins.Dest >= 0 {
				count[ins.Dest]++
			}
		}
	}
	single := map[int]bool{}
	for k, n := range count {
		single[k] = n == 1
	}
	return single
}

func hoistLoop(fn *mir.Function, c *cfg, header int, loop map[int]bool) bool {
	headerBlock := c.blockOf[header]
	if headerBlock == nil {
		return false
	}
	single := singleDef(fn)
	invariant := map[int]bool{} // local indices proven loop-invariant

	isInvariantOperand := func(idx int) bool {
		// An operand is loop-invariant if it's defined outside the loop,
		// or it's a single-def local already proven invariant.
		if invariant[idx] {
			return true
		}
		definedInLoop := false
		for id := range loop {
			for _, ins := range c.blockOf[id].Instructions {
				if ins.Dest == idx {
					definedInLoop = true
				}
			}
		}
		return !definedInLoop
	}

	// Fixed point: repeatedly scan loop instructions for pure, single-def
	// ops whose operands are all loop-invariant.
	var hoistable []hoistCandidate
	progress := true
	for progress {
		progress = false
		for id := range loop {
			blk := c.blockOf[id]
			for _, ins := range blk.Instructions {
				if ins.Dest < 0 || invariant[ins.Dest] || !single[ins.Dest] {
					continue
				}
				if !isPureHoistable(ins.Op) {
					continue
				}
				allInv := true
				for _, o := range ins.Operands {
					if !isInvariantOperand(o) {
						allInv = false
						break
					}
				}
				if allInv {
					invariant[ins.Dest] = true
					hoistable = append(hoistable, hoistCandidate{blockID: id, ins: ins})
					progress = true
				}
			}
		}
	}
	if len(hoistable) == 0 {
		return false
	}

	preheader := &mir.BasicBlock{ID: nextBlockID(fn), Terminator: mir.Terminator{Kind: mir.TermGoto, Target: header}}
	for _, h := range hoistable {
		preheader.Instructions = append(preheader.Instructions, h.ins)
		removeInstruction(c.blockOf[h.blockID], h.ins)
	}

	// Redirect every predecessor of the header that is NOT itself inside
	// the loop (i.e. every entry edge, never a back-edge) to the
	// pre-header instead, satisfying the "entered on every iteration-0
	// path, never from inside the body" invariant.
	for _, b := range fn.Blocks {
		if loop[b.ID] {
			continue
		}
		redirectTerminator(&b.Terminator, header, preheader.ID)
	}
	fn.Blocks = append(fn.Blocks, preheader)
	return true
}

type hoistCandidate struct {
	blockID int
	ins     mir.Instruction
}

func isPureHoistable(op mir.Op) bool {
	switch op {
	case mir.OpConstInt, mir.OpConstLong, mir.OpConstFloat, mir.OpConstDouble,
		mir.OpConstBoolean, mir.OpConstChar, mir.OpConstString, mir.OpConstNull,
		mir.OpMove, mir.OpBinary, mir.OpUnary, mir.OpTypeCheck, mir.OpTypeCast:
		return true
	default:
		return false
	}
}

func removeInstruction(b *mir.BasicBlock, target mir.Instruction) {
	out := b.Instructions[:0:0]
	removed := false
	for _, ins := range b.Instructions {
		if !removed && ins.Dest == target.Dest && ins.Op == target.Op {
			removed = true
			continue
		}
		out = append(out, ins)
	}
	b.Instructions = out
	b.InvalidateCache()
}

func redirectTerminator(t *mir.Terminator, from, to int) {
	switch t.Kind {
	case mir.TermGoto:
		if t.Target == from {
			t.Target = to
		}
	case mir.TermBranch:
		if t.Then == from {
			t.Then = to
		}
		if t.Else == from {
			t.Else = to
		}
	case mir.TermSwitch:
		for i := range t.Cases {
			if t.Cases[i].Block == from {
				t.Cases[i].Block = to
			}
		}
		if t.Default == from {
			t.Default = to
		}
	case mir.TermTailCall:
		if t.Target == from {
			t.Target = to
		}
	}
}

func nextBlockID(fn *mir.Function) int {
	max := -1
	for _, b := range fn.Blocks {
		if b.ID > max {
			max = b.ID
		}
	}
	return max + 1
}
