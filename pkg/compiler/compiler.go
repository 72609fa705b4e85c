// Package compiler orchestrates the full Nova pipeline: lexing, parsing,
// semantic analysis, AST→HIR lowering, HIR→MIR lowering, and the MIR
// optimizer pipeline. It is the single entry point `cmd/nova` and any
// embedder drives, the same role `cmd/dwscript/cmd/compile.go` plays for
// the DWScript pipeline except factored out of the CLI package so a REPL
// or language-server-style host can reuse it across many source units.
package compiler

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/hir"
	"github.com/novaforge/nova/internal/lexer"
	"github.com/novaforge/nova/internal/mir"
	"github.com/novaforge/nova/internal/optimize"
	"github.com/novaforge/nova/internal/parser"
	"github.com/novaforge/nova/internal/semantic"
	"github.com/novaforge/nova/internal/token"
)

// Pipeline owns the state that must survive across repeated Compile
// calls: the lambda-class naming counter, the one piece
// of global mutable state the pipeline carries, so that compiling the
// same source twice in a REPL-style host does not collide class names.
type Pipeline struct {
	lambdas *mir.LambdaCounter
	opts    *optimize.Options
}

// New returns a Pipeline with every optimizer pass enabled. Use
// NewWithOptions to thread a *optimize.Options loaded from nova.yaml.
func New() *Pipeline {
	return &Pipeline{lambdas: &mir.LambdaCounter{}, opts: optimize.NewOptions()}
}

// NewWithOptions returns a Pipeline using the given optimizer
// configuration (e.g. config.Config.OptimizeOptions()).
func NewWithOptions(opts *optimize.Options) *Pipeline {
	return &Pipeline{lambdas: &mir.LambdaCounter{}, opts: opts}
}

// Stage names how far a Result was driven, for commands that only need
// an intermediate artifact (`nova hir`, `nova mir`) rather than the full
// optimized module.
type Stage int

const (
	StageLex Stage = iota
	StageParse
	StageAnalyze
	StageHIR
	StageMIR
	StageOptimize
)

// Result accumulates every artifact a pipeline stage produced, so a
// caller that ran through StageOptimize can still inspect the Program or
// the unoptimized MIR it passed through on the way.
type Result struct {
	Tokens  []token.Token
	Program *ast.Program
	Analyzer *semantic.Analyzer
	HIR     *hir.Module
	MIR     *mir.Module
	Sink    *diagnostics.Sink
}

// Run drives the pipeline from source text through the requested stage,
// stopping early (without panicking) if diagnostics already carry an
// error by the stage boundary where continuing would be unsound -- lexing
// always feeds the parser regardless of lex errors (panic-mode recovery
// handles that), but HIR lowering does not run over a program semantic
// analysis rejected with errors, per the "no output on errors"
// network effect.
func (p *Pipeline) Run(source, file string, through Stage) *Result {
	sink := diagnostics.NewSink()
	res := &Result{Sink: sink}

	lx := lexer.New(source, sink, lexer.WithFile(file))
	res.Tokens = lx.ScanAll()
	if through == StageLex {
		return res
	}

	ps := parser.New(res.Tokens, sink, parser.WithFile(file))
	res.Program = ps.ParseProgram()
	if through == StageParse {
		return res
	}

	an := semantic.New(sink)
	an.Analyze(res.Program)
	res.Analyzer = an
	if through == StageAnalyze {
		return res
	}
	if sink.HasErrors() {
		return res
	}

	lowerer := hir.NewLowerer(an)
	res.HIR = lowerer.Lower(res.Program)
	hir.Optimize(res.HIR)
	if through == StageHIR {
		return res
	}

	mirLowerer := mir.NewLowerer(p.lambdas)
	res.MIR = mirLowerer.Lower(res.HIR)
	if through == StageMIR {
		return res
	}

	optimize.Module(res.MIR, p.opts)
	return res
}

// Compile runs the complete pipeline through the optimizer.
func (p *Pipeline) Compile(source, file string) *Result {
	return p.Run(source, file, StageOptimize)
}
