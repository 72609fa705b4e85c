package optimize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaforge/nova/internal/mir"
	"github.com/novaforge/nova/internal/optimize"
)

// straightLineFn builds: b0 { t0 := 2; t1 := 2; t2 := t0 + t1 } return t2
// i.e. two structurally-identical constants and a redundant add, the
// shape local CSE and constant aliasing are meant to collapse.
func straightLineFn() *mir.Function {
	b0 := &mir.BasicBlock{
		ID: 0,
		Instructions: []mir.Instruction{
			{Op: mir.OpConstInt, Dest: 0, Extra: 2},
			{Op: mir.OpConstInt, Dest: 1, Extra: 2},
			{Op: mir.OpBinary, Dest: 2, Operands: []int{0, 1}, Extra: mir.BinAdd},
		},
		Terminator: mir.Terminator{Kind: mir.TermReturn, Value: 2},
	}
	return &mir.Function{
		Name:             "straightLine",
		ReturnType:       mir.Int(),
		Blocks:           []*mir.BasicBlock{b0},
		Locals:           []mir.Local{{Index: 0, Type: mir.Int()}, {Index: 1, Type: mir.Int()}, {Index: 2, Type: mir.Int()}},
		BodyStartBlockID: 0,
	}
}

func TestLocalCSE_DeduplicatesStructurallyEqualConstants(t *testing.T) {
	fn := straightLineFn()
	optimize.Function(fn, optimize.NewOptions())

	b0 := fn.BlockByID(0)
	require.NotNil(t, b0)
	// After alias + CSE + peephole, the two constants should resolve to
	// one definition and the add becomes x+x over it.
	constDefs := 0
	for _, ins := range b0.Instructions {
		if ins.Op == mir.OpConstInt {
			constDefs++
		}
	}
	assert.LessOrEqual(t, constDefs, 1, "expected the duplicate CONST_INT to be eliminated")
}

// mulByTwoFn builds: b0 { t0 := x(param); t1 := 2; t2 := t0 * t1 } return t2
func mulByTwoFn() *mir.Function {
	b0 := &mir.BasicBlock{
		ID: 0,
		Instructions: []mir.Instruction{
			{Op: mir.OpConstInt, Dest: 1, Extra: 2},
			{Op: mir.OpBinary, Dest: 2, Operands: []int{0, 1}, Extra: mir.BinMul},
		},
		Terminator: mir.Terminator{Kind: mir.TermReturn, Value: 2},
	}
	return &mir.Function{
		Name:             "mulByTwo",
		ReturnType:       mir.Int(),
		Params:           []mir.Local{{Index: 0, Name: "x", Type: mir.Int()}},
		Blocks:           []*mir.BasicBlock{b0},
		Locals:           []mir.Local{{Index: 0, Type: mir.Int()}, {Index: 1, Type: mir.Int()}, {Index: 2, Type: mir.Int()}},
		BodyStartBlockID: 0,
	}
}

func TestStrengthReduction_MulByTwoBecomesAdd(t *testing.T) {
	fn := mulByTwoFn()
	opts := optimize.NewOptions().
		Disable(optimize.PassLICM).
		Disable(optimize.PassTailCallElimination).
		Disable(optimize.PassLocalCSE).
		Disable(optimize.PassPeephole).
		Disable(optimize.PassBlockMerging)
	optimize.Function(fn, opts)

	b0 := fn.BlockByID(0)
	var found bool
	for _, ins := range b0.Instructions {
		if ins.Op == mir.OpBinary {
			op, ok := ins.Extra.(mir.BinOp)
			require.True(t, ok)
			assert.Equal(t, mir.BinAdd, op)
			assert.Equal(t, []int{0, 0}, ins.Operands)
			found = true
		}
	}
	assert.True(t, found, "expected a BINARY instruction to survive as an ADD")
}

// deadBranchFn builds an unreachable block after an unconditional return,
// the shape DeadBlockElimination is meant to prune.
func deadBranchFn() *mir.Function {
	b0 := &mir.BasicBlock{
		ID:         0,
		Terminator: mir.Terminator{Kind: mir.TermReturn, Value: -1},
	}
	b1 := &mir.BasicBlock{
		ID:         1,
		Terminator: mir.Terminator{Kind: mir.TermReturn, Value: -1},
	}
	return &mir.Function{
		Name:             "deadBranch",
		ReturnType:       mir.Void(),
		Blocks:           []*mir.BasicBlock{b0, b1},
		BodyStartBlockID: 0,
	}
}

func TestDeadBlockElimination_PrunesUnreachableBlock(t *testing.T) {
	fn := deadBranchFn()
	optimize.Function(fn, optimize.NewOptions())
	assert.Len(t, fn.Blocks, 1)
	assert.Equal(t, 0, fn.Blocks[0].ID)
}

// selfTailCallFn builds a function whose last statement before returning
// is a direct call to itself with its own parameter forwarded unchanged,
// the shape TailCallElimination rewrites into a loop back to the body
// start rather than a real call.
func selfTailCallFn() *mir.Function {
	b0 := &mir.BasicBlock{
		ID: 0,
		Instructions: []mir.Instruction{
			{Op: mir.OpInvokeStatic, Dest: 1, Operands: []int{0}, Extra: mir.InvokeExtra{Method: "loop", Descriptor: "(I)I"}},
		},
		Terminator: mir.Terminator{Kind: mir.TermReturn, Value: 1},
	}
	return &mir.Function{
		Name:             "loop",
		ReturnType:       mir.Int(),
		Params:           []mir.Local{{Index: 0, Name: "x", Type: mir.Int()}},
		Blocks:           []*mir.BasicBlock{b0},
		Locals:           []mir.Local{{Index: 0, Type: mir.Int()}, {Index: 1, Type: mir.Int()}},
		BodyStartBlockID: 0,
	}
}

func TestTailCallElimination_RewritesSelfCallIntoLoop(t *testing.T) {
	fn := selfTailCallFn()
	fn.OwnerClass = ""
	opts := optimize.NewOptions()
	optimize.Function(fn, opts)

	for _, b := range fn.Blocks {
		for _, ins := range b.Instructions {
			assert.NotEqual(t, mir.OpInvokeStatic, ins.Op, "self tail call should have been rewritten away")
		}
	}
}

func TestOptionsDisable(t *testing.T) {
	opts := optimize.NewOptions()
	opts.Disable(optimize.PassStrengthReduction)
	fn := mulByTwoFn()
	optimize.Function(fn, opts)

	b0 := fn.BlockByID(0)
	var sawMul bool
	for _, ins := range b0.Instructions {
		if ins.Op == mir.OpBinary {
			if op, ok := ins.Extra.(mir.BinOp); ok && op == mir.BinMul {
				sawMul = true
			}
		}
	}
	assert.True(t, sawMul, "disabling strength reduction should leave the MUL intact")
}
