package parser

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/token"
)

// Option configures a Parser, mirroring the functional-options
// lexer construction (internal/lexer.Option).
type Option func(*Parser)

// WithFile sets the source file name attached to diagnostics and ranges.
func WithFile(name string) Option {
	return func(p *Parser) { p.file = name }
}

// Parser consumes a token stream and builds a Program AST, recording
// diagnostics rather than returning errors for recoverable problems.
type Parser struct {
	sink   *diagnostics.Sink
	file   string
	cursor *Cursor
}

// New constructs a Parser over an already-tokenized input.
func New(tokens []token.Token, sink *diagnostics.Sink, opts ...Option) *Parser {
	p := &Parser{sink: sink, cursor: NewCursor(tokens)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ParseProgram parses a full source file into a Program node, recovering
// from each declaration-level error by synchronizing to the next
// plausible declaration boundary (panic-mode recovery).
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cursor.Current().Pos
	prog := &ast.Program{}

	p.skipNewlines()
	if p.cursor.Is(token.KW_PACKAGE) {
		prog.Package = p.parsePackageDecl()
	}
	p.skipNewlines()
	for p.cursor.Is(token.KW_IMPORT) {
		prog.Imports = append(prog.Imports, p.parseImportDecl())
		p.skipNewlines()
	}

	for !p.cursor.IsEOF() {
		p.skipNewlines()
		if p.cursor.IsEOF() {
			break
		}
		decl := p.parseTopLevelDecl()
		if decl != nil {
			prog.Decls = append(prog.Decls, decl)
		} else {
			p.synchronizeToDecl()
		}
		p.skipNewlines()
	}

	prog.Base = ast.Base{Rng: p.rangeFrom(start)}
	return prog
}

func (p *Parser) skipNewlines() {
	p.cursor = p.cursor.SkipNewlines()
}

// synchronizeToDecl advances the cursor to the next token that can start a
// top-level declaration, or to the next NEWLINE, implementing panic-mode recovery after a parse
// error so the parser can continue producing diagnostics for the rest of
// the file instead of aborting.
func (p *Parser) synchronizeToDecl() {
	for !p.cursor.IsEOF() {
		switch p.cursor.Current().Kind {
		case token.KW_CLASS, token.KW_INTERFACE, token.KW_OBJECT, token.KW_ENUM,
			token.KW_FUN, token.KW_VAL, token.KW_VAR, token.KW_TYPEALIAS, token.NEWLINE:
			return
		}
		p.cursor = p.cursor.Advance()
	}
}

func (p *Parser) rangeFrom(start token.Position) diagnostics.Range {
	end := p.cursor.Current().Pos
	return diagnostics.Range{
		File:   p.file,
		Offset: start.Offset,
		Length: max0(end.Offset - start.Offset),
		Line:   start.Line,
		Column: start.Column,
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func (p *Parser) errorf(format string, args ...any) {
	p.sink.Report(diagnostics.Error, p.rangeFrom(p.cursor.Current().Pos), format, args...)
}

// expect advances past the current token if it has kind k, reporting a
// diagnostic and NOT advancing otherwise.
func (p *Parser) expect(k token.Kind) bool {
	if p.cursor.Is(k) {
		p.cursor = p.cursor.Advance()
		return true
	}
	p.errorf("expected %s, found %s", k, p.cursor.Current().Kind)
	return false
}

func (p *Parser) parseQualifiedName() *ast.QualifiedName {
	start := p.cursor.Current().Pos
	q := &ast.QualifiedName{}
	if p.cursor.Is(token.IDENT) {
		q.Parts = append(q.Parts, p.cursor.Current().Lexeme)
		p.cursor = p.cursor.Advance()
	}
	for p.cursor.Is(token.DOT) && p.cursor.PeekIs(1, token.IDENT) {
		p.cursor = p.cursor.Advance()
		q.Parts = append(q.Parts, p.cursor.Current().Lexeme)
		p.cursor = p.cursor.Advance()
	}
	q.Base = ast.Base{Rng: p.rangeFrom(start)}
	return q
}

func (p *Parser) parsePackageDecl() *ast.PackageDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'package'
	name := p.parseQualifiedName()
	return &ast.PackageDecl{Name: name, Base: ast.Base{Rng: p.rangeFrom(start)}}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'import'
	decl := &ast.ImportDecl{}

	q := &ast.QualifiedName{}
	for p.cursor.Is(token.IDENT) {
		q.Parts = append(q.Parts, p.cursor.Current().Lexeme)
		p.cursor = p.cursor.Advance()
		if p.cursor.Is(token.DOT) {
			if p.cursor.PeekIs(1, token.STAR) {
				p.cursor = p.cursor.Advance().Advance()
				decl.Wildcard = true
				break
			}
			p.cursor = p.cursor.Advance()
			continue
		}
		break
	}
	decl.Name = q

	if !decl.Wildcard && p.cursor.Is(token.KW_AS) {
		p.cursor = p.cursor.Advance()
		if p.cursor.Is(token.IDENT) {
			decl.Alias = p.cursor.Current().Lexeme
			p.cursor = p.cursor.Advance()
		}
	}

	decl.Base = ast.Base{Rng: p.rangeFrom(start)}
	return decl
}
