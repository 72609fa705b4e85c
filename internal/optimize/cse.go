package optimize

import "github.com/novaforge/nova/internal/mir"

// runLocalCSE performs per-block value numbering, seeding each block's
// starting table from its sole predecessor's ending table when one
// exists (enabling straight-line CSE across block boundaries), plus a
// whole-function constant-alias pass.
func runLocalCSE(fn *mir.Function) bool {
	changed := false
	alias := constantAliasMap(fn)
	if len(alias) > 0 {
		applyAliases(fn, alias)
		changed = true
	}

	c := buildCFG(fn)
	order := blockOrderByPredCount(fn, c)
	tables := map[int]map[string]int{} // block id -> value-number table at block exit

	for _, id := range order {
		b := c.blockOf[id]
		table := startingTable(c, id, tables)
		for i := range b.Instructions {
			ins := &b.Instructions[i]
			canon := func(l int) int {
				if a, ok := alias[l]; ok {
					return a
				}
				return l
			}
			switch ins.Op {
			case mir.OpConstInt, mir.OpConstLong, mir.OpConstFloat, mir.OpConstDouble,
				mir.OpConstBoolean, mir.OpConstChar, mir.OpConstString, mir.OpConstNull:
				key := constKey(ins.Op, ins.Extra)
				if prior, ok := table[key]; ok && ins.Dest >= 0 {
					*ins = mir.Instruction{Op: mir.OpMove, Dest: ins.Dest, Operands: []int{prior}, Range: ins.Range}
					changed = true
				} else if ins.Dest >= 0 {
					table[key] = ins.Dest
				}
			case mir.OpBinary:
				if len(ins.Operands) != 2 {
					continue
				}
				key := binKey(ins.Extra, canon(ins.Operands[0]), canon(ins.Operands[1]))
				if prior, ok := table[key]; ok && ins.Dest >= 0 {
					*ins = mir.Instruction{Op: mir.OpMove, Dest: ins.Dest, Operands: []int{prior}, Range: ins.Range}
					changed = true
				} else if ins.Dest >= 0 {
					table[key] = ins.Dest
				}
			case mir.OpIndexGet:
				if len(ins.Operands) != 2 {
					continue
				}
				key := indexKey(canon(ins.Operands[0]), canon(ins.Operands[1]))
				if prior, ok := table[key]; ok && ins.Dest >= 0 {
					*ins = mir.Instruction{Op: mir.OpMove, Dest: ins.Dest, Operands: []int{prior}, Range: ins.Range}
					changed = true
				} else if ins.Dest >= 0 {
					table[key] = ins.Dest
				}
			case mir.OpIndexSet, mir.OpSetField,
				mir.OpInvokeStatic, mir.OpInvokeVirtual, mir.OpInvokeInterface, mir.OpInvokeSpecial:
				invalidateIndexEntries(table)
			}
		}
		tables[id] = table
		b.InvalidateCache()
	}
	return changed
}

func blockOrderByPredCount(fn *mir.Function, c *cfg) []int {
	// Process the entry block first, then any block whose sole
	// predecessor has already been processed, falling back to
	// declaration order -- a simple reverse-postorder approximation
	// sufficient for the straight-line chains this pass targets.
	visited := map[int]bool{}
	var order []int
	var visit func(id int)
	visit = func(id int) {
		if visited[id] {
			return
		}
		visited[id] = true
		order = append(order, id)
		for _, s := range c.succs[id] {
			if len(c.preds[s]) == 1 {
				visit(s)
			}
		}
	}
	visit(fn.BodyStartBlockID)
	for _, b := range fn.Blocks {
		visit(b.ID)
	}
	return order
}

func startingTable(c *cfg, id int, tables map[int]map[string]int) map[string]int {
	preds := c.preds[id]
	if len(preds) == 1 {
		if t, ok := tables[preds[0]]; ok {
			out := make(map[string]int, len(t))
			for k, v := range t {
				out[k] = v
			}
			return out
		}
	}
	return map[string]int{}
}

func invalidateIndexEntries(table map[string]int) {
	for k := range table {
		if len(k) > 0 && k[0] == 'X' {
			delete(table, k)
		}
	}
}

func constKey(op mir.Op, extra any) string {
	return "C" + op.String() + "|" + formatExtraStable(extra)
}

func binKey(extra any, l, r int) string {
	op, _ := extra.(mir.BinOp)
	return "B" + op.String() + "|" + itoa(l) + "|" + itoa(r)
}

func indexKey(target, idx int) string {
	return "X" + itoa(target) + "|" + itoa(idx)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{byte('0' + n%10)}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

func formatExtraStable(extra any) string {
	switch v := extra.(type) {
	case int:
		return "i" + itoa(v)
	case int64:
		return "l" + itoa(int(v))
	case string:
		return "s" + v
	case bool:
		if v {
			return "b1"
		}
		return "b0"
	case nil:
		return "n"
	default:
		return "?"
	}
}

// constantAliasMap builds the whole-function alias table: a single-def
// local that is a constant structurally equal to an earlier local's
// constant becomes an alias of that earlier local, and single-def MOVEs
// inherit their source's alias.
func constantAliasMap(fn *mir.Function) map[int]int {
	single := singleDef(fn)
	alias := map[int]int{}
	seen := map[string]int{} // structural constant key -> earliest local

	// One pass in block order is sufficient for the common case; constant
	// interning only needs a stable earliest-wins rule, not full dominance.
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			if ins.Dest < 0 || !single[ins.Dest] {
				continue
			}
			switch ins.Op {
			case mir.OpConstInt, mir.OpConstLong, mir.OpConstFloat, mir.OpConstDouble,
				mir.OpConstBoolean, mir.OpConstChar, mir.OpConstString, mir.OpConstNull:
				key := constKey(ins.Op, ins.Extra)
				if earlier, ok := seen[key]; ok {
					alias[ins.Dest] = earlier
				} else {
					seen[key] = ins.Dest
				}
			case mir.OpMove:
				if len(ins.Operands) == 1 && single[ins.Operands[0]] {
					src := ins.Operands[0]
					if a, ok := alias[src]; ok {
						alias[ins.Dest] = a
					}
				}
			}
		}
	}
	return alias
}

func applyAliases(fn *mir.Function, alias map[int]int) {
	remap := func(l int) int {
		if a, ok := alias[l]; ok {
			return a
		}
		return l
	}
	for _, b := range fn.Blocks {
		for i := range b.Instructions {
			ins := &b.Instructions[i]
			if _, isDef := alias[ins.Dest]; isDef {
				continue // the defining instruction itself stays; only uses are remapped
			}
			for j, o := range ins.Operands {
				ins.Operands[j] = remap(o)
			}
		}
		t := &b.Terminator
		switch t.Kind {
		case mir.TermBranch:
			t.Cond = remap(t.Cond)
			if t.Fused != nil {
				t.Fused.Left = remap(t.Fused.Left)
				t.Fused.Right = remap(t.Fused.Right)
			}
		case mir.TermReturn:
			if t.Value >= 0 {
				t.Value = remap(t.Value)
			}
		case mir.TermThrow:
			t.Value = remap(t.Value)
		case mir.TermSwitch:
			t.Key = remap(t.Key)
		}
	}
}
