// Package optimize implements Nova's MIR optimizer pipeline: a fixed
// ordered list of passes (dead-block elimination, loop-invariant code
// motion, tail-call elimination, strength reduction, local CSE, peephole,
// block merging, a second dead-block cleanup) each of which consumes and
// returns a whole function.
//
// The pass-list-with-id/toggle shape mirrors DWScript's own
// `bytecode.Optimizer` (`OptimizationPass` constants plus
// `WithOptimizationPass`), generalized from its single linear-stream pass
// list to the CFG-shaped passes a basic-block IR needs.
package optimize

import "github.com/novaforge/nova/internal/mir"

// Pass names one optimizer stage, mirroring DWScript's
// `bytecode.OptimizationPass` string-constant shape.
type Pass string

const (
	PassDeadBlockElimination Pass = "dead-block-elimination"
	PassLICM                 Pass = "loop-invariant-code-motion"
	PassTailCallElimination  Pass = "tail-call-elimination"
	PassStrengthReduction    Pass = "strength-reduction"
	PassLocalCSE             Pass = "local-cse"
	PassPeephole             Pass = "peephole"
	PassBlockMerging         Pass = "block-merging"
)

// order below is the fixed pass order. Dead-block elimination
// appears twice: once up front and once after block merging.
var order = []Pass{
	PassDeadBlockElimination,
	PassLICM,
	PassTailCallElimination,
	PassStrengthReduction,
	PassLocalCSE,
	PassPeephole,
	PassBlockMerging,
	PassDeadBlockElimination,
}

// Options toggles individual passes on or off, the MIR-pipeline analogue
// of `bytecode.OptimizeOption`/`WithOptimizationPass`.
type Options struct {
	disabled map[Pass]bool
}

// NewOptions returns an Options value with every pass enabled.
func NewOptions() *Options { return &Options{disabled: map[Pass]bool{}} }

// Disable turns a pass off.
func (o *Options) Disable(p Pass) *Options {
	if o.disabled == nil {
		o.disabled = map[Pass]bool{}
	}
	o.disabled[p] = true
	return o
}

func (o *Options) enabled(p Pass) bool {
	return o == nil || !o.disabled[p]
}

// passFunc is the uniform shape every optimizer stage implements: mutate
// fn in place (it owns its blocks/locals, per the ownership
// rule) and report whether it changed anything.
type passFunc func(fn *mir.Function) bool

var dispatch = map[Pass]passFunc{
	PassDeadBlockElimination: runDeadBlockElimination,
	PassLICM:                 runLICM,
	PassTailCallElimination:  runTailCallElimination,
	PassStrengthReduction:    runStrengthReduction,
	PassLocalCSE:             runLocalCSE,
	PassPeephole:             runPeephole,
	PassBlockMerging:         runBlockMerging,
}

// Module runs the full fixed-order pipeline over every function in mod.
func Module(mod *mir.Module, opts *Options) {
	for _, fn := range mod.AllFunctions() {
		Function(fn, opts)
	}
}

// Function runs the fixed-order pipeline over a single function, the
// unit every pass actually operates on.
func Function(fn *mir.Function, opts *Options) {
	for _, p := range order {
		if !opts.enabled(p) {
			continue
		}
		if run, ok := dispatch[p]; ok {
			run(fn)
		}
	}
}
