package optimize

import "github.com/novaforge/nova/internal/mir"

// runStrengthReduction replaces multiplication by a small constant with
// cheaper ops: `x * 2` becomes `x + x`, and `x * c` for a larger power of
// two becomes `x << log2(c)`.
//
// MIR has no shift op of its own, so `<<` is represented as a BINARY with
// the single operand x whose Extra is a shiftMarker (not a BinOp) holding
// the shift amount, distinguishing it from a generic multiply so the
// backend can emit `ishl`/`lshl` instead of `imul`, rather than widening
// the BinOp enum with a case only this pass produces.
type shiftMarker struct{ shift int }

func runStrengthReduction(fn *mir.Function) bool {
	consts := constIntValues(fn)
	changed := false
	for _, b := range fn.Blocks {
		for i := range b.Instructions {
			ins := &b.Instructions[i]
			if ins.Op != mir.OpBinary {
				continue
			}
			op, ok := ins.Extra.(mir.BinOp)
			if !ok || op != mir.BinMul || len(ins.Operands) != 2 {
				continue
			}
			x, c := ins.Operands[0], ins.Operands[1]
			cv, cok := consts[c]
			if !cok {
				x, c = ins.Operands[1], ins.Operands[0]
				cv, cok = consts[c]
			}
			if !cok || cv <= 0 {
				continue
			}
			if cv == 2 {
				ins.Operands = []int{x, x}
				ins.Extra = mir.BinAdd
				changed = true
				continue
			}
			if shift, isPow2 := log2PowerOfTwo(cv); isPow2 && shift > 1 {
				ins.Extra = shiftMarker{shift: shift}
				ins.Operands = []int{x}
				changed = true
			}
		}
	}
	return changed
}

// constIntValues maps every single-definition local that holds an integer
// constant to its value.
func constIntValues(fn *mir.Function) map[int]int64 {
	count := map[int]int{}
	val := map[int]int64{}
	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			if ins.Dest < 0 {
				continue
			}
			count[ins.Dest]++
			if ins.Op == mir.OpConstInt || ins.Op == mir.OpConstLong {
				if v, ok := toInt64(ins.Extra); ok {
					val[ins.Dest] = v
				}
			}
		}
	}
	out := map[int]int64{}
	for idx, v := range val {
		if count[idx] == 1 {
			out[idx] = v
		}
	}
	return out
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

// log2PowerOfTwo reports whether n is a power of two (n > 0) and, if so,
// its base-2 logarithm.
func log2PowerOfTwo(n int64) (int, bool) {
	if n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	shift := 0
	for n > 1 {
		n >>= 1
		shift++
	}
	return shift, true
}
