package mir

// FunctionBuilder accumulates blocks, locals, and try-catch entries while
// a HIR function body is being flattened, then yields a finished
// Function. It mirrors DWScript's `compiler_core.go` pattern of a
// stateful emitter object threaded through one function's lowering.
type FunctionBuilder struct {
	fn          *Function
	cur         *BasicBlock
	nextBlockID int
	nextLocal   int
	localNames  map[string]int
}

// NewFunctionBuilder starts a builder for a function named name.
func NewFunctionBuilder(name string, ret MirType) *FunctionBuilder {
	b := &FunctionBuilder{
		fn:         &Function{Name: name, ReturnType: ret},
		localNames: map[string]int{},
	}
	entry := b.NewBlock()
	b.fn.BodyStartBlockID = entry.ID
	b.cur = entry
	return b
}

// NewBlock allocates a fresh, empty block and appends it to the function,
// without making it the current insertion point.
func (b *FunctionBuilder) NewBlock() *BasicBlock {
	blk := &BasicBlock{ID: b.nextBlockID}
	b.nextBlockID++
	b.fn.Blocks = append(b.fn.Blocks, blk)
	return blk
}

// SetCurrent redirects subsequent Emit calls to blk.
func (b *FunctionBuilder) SetCurrent(blk *BasicBlock) { b.cur = blk }

// Current returns the block subsequent Emit calls append to.
func (b *FunctionBuilder) Current() *BasicBlock { return b.cur }

// NewLocal allocates a fresh local slot, optionally named (params and
// named `val`/`var`s pass their surface name so later passes and the
// disassembler can show it; synthetic temporaries pass "").
func (b *FunctionBuilder) NewLocal(name string, t MirType) int {
	idx := b.nextLocal
	b.nextLocal++
	b.fn.Locals = append(b.fn.Locals, Local{Index: idx, Name: name, Type: t})
	if name != "" {
		b.localNames[name] = idx
	}
	return idx
}

// Lookup resolves a surface name to its most recently bound local index,
// or -1 if unbound in the current builder (closures/outer scopes resolve
// separately via capture lowering).
func (b *FunctionBuilder) Lookup(name string) int {
	if idx, ok := b.localNames[name]; ok {
		return idx
	}
	return -1
}

// Bind rebinds name to an existing local index (used when entering a new
// lexical scope that shadows an outer local, and when a loop's induction
// variable is reused across iterations).
func (b *FunctionBuilder) Bind(name string, idx int) { b.localNames[name] = idx }

// Emit appends ins to the current block.
func (b *FunctionBuilder) Emit(ins Instruction) {
	b.cur.Instructions = append(b.cur.Instructions, ins)
}

// Terminate sets the current block's terminator. A block must be
// terminated exactly once; callers are responsible for not double-calling
// this for the same block.
func (b *FunctionBuilder) Terminate(t Terminator) { b.cur.Terminator = t }

// AddTryCatch registers one handler entry on the function under
// construction.
func (b *FunctionBuilder) AddTryCatch(e TryCatchEntry) {
	b.fn.TryCatchEntries = append(b.fn.TryCatchEntries, e)
}

// Finish returns the built function. The caller must ensure every block
// has been terminated.
func (b *FunctionBuilder) Finish() *Function { return b.fn }

// Fn exposes the in-progress function for field assignment (Params,
// Modifiers, TypeParams, etc.) that doesn't need a dedicated setter.
func (b *FunctionBuilder) Fn() *Function { return b.fn }
