package optimize

import "github.com/novaforge/nova/internal/mir"

// runBlockMerging concatenates a block into its sole predecessor when
// that predecessor ends in a plain Goto to it.
// Chains of merges are handled by re-checking the same block after a
// successful merge, so `A -> B -> C` collapses to one block in one pass.
func runBlockMerging(fn *mir.Function) bool {
	exceptionBlocks := exceptionReferencedBlocks(fn)
	changed := false

	for {
		c := buildCFG(fn)
		merged := false
		for _, a := range fn.Blocks {
			if a.Terminator.Kind != mir.TermGoto {
				continue
			}
			bID := a.Terminator.Target
			if bID == a.ID {
				continue
			}
			if len(c.preds[bID]) != 1 || c.preds[bID][0] != a.ID {
				continue
			}
			if exceptionBlocks[a.ID] || exceptionBlocks[bID] {
				continue
			}
			if bID == fn.BodyStartBlockID {
				continue
			}
			b := c.blockOf[bID]
			if b == nil || b == a {
				continue
			}
			a.Instructions = append(a.Instructions, b.Instructions...)
			a.Terminator = b.Terminator
			a.InvalidateCache()
			removeBlock(fn, bID)
			merged = true
			changed = true
			break // CFG changed; rebuild before continuing
		}
		if !merged {
			break
		}
	}
	return changed
}

func exceptionReferencedBlocks(fn *mir.Function) map[int]bool {
	marked := map[int]bool{}
	for _, tc := range fn.TryCatchEntries {
		for id := tc.TryStart; id < tc.TryEnd; id++ {
			marked[id] = true
		}
		marked[tc.Handler] = true
	}
	return marked
}

func removeBlock(fn *mir.Function, id int) {
	out := fn.Blocks[:0:0]
	for _, b := range fn.Blocks {
		if b.ID != id {
			out = append(out, b)
		}
	}
	fn.Blocks = out
}
