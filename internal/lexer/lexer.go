// Package lexer implements the streaming tokenizer described in the
// specification: a hand-written scanner that turns source text into a
// stream of token.Token values, reporting lexical errors to a
// diagnostics.Sink while never throwing.
//
// # Unicode and column positions
//
// Column positions are reported as rune counts from the start of the
// current line, not byte offsets and not display widths. A multi-byte
// UTF-8 sequence (e.g. an emoji or a Greek letter) counts as exactly one
// column, the same as an ASCII character. This keeps position arithmetic
// simple and reproducible at the cost of not lining up with terminal
// display width when wide characters are present.
package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/token"
)

// Lexer is a streaming tokenizer over a single source buffer.
type Lexer struct {
	sink             *diagnostics.Sink
	input            string
	file             string
	tokenBuffer      []token.Token
	position         int
	readPosition     int
	line             int
	column           int
	ch               rune
	chWidth          int
	preserveComments bool
	// interpDepth tracks nested ${ ... } brace depth while scanning inside
	// a normal string literal, so a `}` that closes a nested block or brace
	// literal inside the interpolation does not prematurely end it.
	interpDepth int
}

// Option configures a Lexer at construction time.
type Option func(*Lexer)

// WithFile sets the file name the lexer records in the diagnostics.Range of
// every error it reports (token.Position itself has no file field).
func WithFile(name string) Option {
	return func(l *Lexer) { l.file = name }
}

// WithPreserveComments enables COMMENT token emission instead of silently
// skipping comments; formatters and doc tools need this, the parser does
// not.
func WithPreserveComments(preserve bool) Option {
	return func(l *Lexer) { l.preserveComments = preserve }
}

// New creates a Lexer over input, ready to scan from the first rune.
func New(input string, sink *diagnostics.Sink, opts ...Option) *Lexer {
	l := &Lexer{
		input: input,
		sink:  sink,
		line:  1,
		column: 0,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.readRune()
	return l
}

// LexerState is a saved snapshot of scanner position, sufficient to
// backtrack the lexer (used by the parser's speculative generic-argument
// parsing).
type LexerState struct {
	position     int
	readPosition int
	line         int
	column       int
	ch           rune
	chWidth      int
	interpDepth  int
}

// Save captures the current scanner position.
func (l *Lexer) Save() LexerState {
	return LexerState{l.position, l.readPosition, l.line, l.column, l.ch, l.chWidth, l.interpDepth}
}

// Restore rewinds the scanner to a previously captured state.
func (l *Lexer) Restore(s LexerState) {
	l.position, l.readPosition, l.line, l.column, l.ch, l.chWidth, l.interpDepth =
		s.position, s.readPosition, s.line, s.column, s.ch, s.chWidth, s.interpDepth
}

func (l *Lexer) currentPos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func (l *Lexer) rangeFrom(start token.Position) diagnostics.Range {
	return diagnostics.Range{
		File:   l.file,
		Offset: start.Offset,
		Length: l.position - start.Offset,
		Line:   start.Line,
		Column: start.Column,
	}
}

func (l *Lexer) errorf(start token.Position, format string, args ...any) {
	if l.sink != nil {
		l.sink.Report(diagnostics.Error, l.rangeFrom(start), format, args...)
	}
}

// readRune advances the scanner by exactly one rune, updating line/column
// bookkeeping. Newlines reset column to zero and bump the line counter.
func (l *Lexer) readRune() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.chWidth = 0
		l.position = l.readPosition
		return
	}
	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.position = l.readPosition
	l.readPosition += w
	l.ch = r
	l.chWidth = w
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekRune looks n runes ahead without consuming, n=0 meaning "the rune
// after the current one".
func (l *Lexer) peekRune(n int) rune {
	pos := l.readPosition
	var r rune
	for i := 0; i <= n; i++ {
		if pos >= len(l.input) {
			return 0
		}
		var w int
		r, w = utf8.DecodeRuneInString(l.input[pos:])
		pos += w
	}
	return r
}

func (l *Lexer) peek() rune { return l.peekRune(0) }

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// skipWhitespace consumes spaces, tabs, and carriage returns, but not
// newlines: those are meaningful NEWLINE tokens.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readRune()
	}
}

// NextToken scans and returns the next token. At end of input it returns
// EOF forever, matching the idempotent streaming contract.
func (l *Lexer) NextToken() token.Token {
	if len(l.tokenBuffer) > 0 {
		tok := l.tokenBuffer[0]
		l.tokenBuffer = l.tokenBuffer[1:]
		return tok
	}
	return l.scanToken()
}

// ScanAll runs the lexer to completion in batch mode, returning every token
// including the trailing EOF.
func (l *Lexer) ScanAll() []token.Token {
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func (l *Lexer) scanToken() token.Token {
	l.skipWhitespace()

	if l.ch == '/' && l.peek() == '/' {
		l.skipLineComment()
		if l.preserveComments {
			return l.makeSimple(token.COMMENT, l.currentPos())
		}
		return l.scanToken()
	}
	if l.ch == '/' && l.peek() == '*' {
		start := l.currentPos()
		ok := l.skipBlockComment()
		if !ok {
			l.errorf(start, "unterminated block comment")
			return token.Token{Kind: token.ILLEGAL, Lexeme: "unterminated block comment", Pos: start}
		}
		if l.preserveComments {
			return l.makeSimple(token.COMMENT, start)
		}
		return l.scanToken()
	}

	if l.ch == 0 {
		return token.Token{Kind: token.EOF, Pos: l.currentPos()}
	}

	if l.ch == '\n' {
		pos := l.currentPos()
		l.readRune()
		return token.Token{Kind: token.NEWLINE, Lexeme: "\\n", Pos: pos}
	}

	start := l.currentPos()

	switch {
	case l.ch == 'r' && l.peek() == '"':
		l.readRune() // consume 'r'
		return l.scanRawString(start)
	case isIdentStart(l.ch):
		return l.scanIdentifier(start)
	case isDigit(l.ch):
		return l.scanNumber(start)
	case l.ch == '"':
		if l.peek() == '"' && l.peekRune(1) == '"' {
			return l.scanMultilineString(start)
		}
		return l.scanString(start)
	case l.ch == '\'':
		return l.scanChar(start)
	}

	return l.scanOperator(start)
}

func (l *Lexer) makeSimple(kind token.Kind, start token.Position) token.Token {
	return token.Token{Kind: kind, Lexeme: l.input[start.Offset:l.position], Pos: start}
}

func (l *Lexer) skipLineComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readRune()
	}
}

// skipBlockComment consumes a /* ... */ comment, tracking nesting depth so
// that `/* outer /* inner */ still-outer */` closes correctly.
func (l *Lexer) skipBlockComment() bool {
	l.readRune() // consume '/'
	l.readRune() // consume '*'
	depth := 1
	for depth > 0 {
		if l.ch == 0 {
			return false
		}
		if l.ch == '/' && l.peek() == '*' {
			l.readRune()
			l.readRune()
			depth++
			continue
		}
		if l.ch == '*' && l.peek() == '/' {
			l.readRune()
			l.readRune()
			depth--
			continue
		}
		l.readRune()
	}
	return true
}

func (l *Lexer) scanIdentifier(start token.Position) token.Token {
	var sb strings.Builder
	for isIdentPart(l.ch) {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	name := sb.String()
	if name == "_" {
		return token.Token{Kind: token.UNDERSCORE, Lexeme: name, Pos: start}
	}
	kind := token.LookupIdent(name)
	tok := token.Token{Kind: kind, Lexeme: name, Pos: start}
	switch kind {
	case token.KW_TRUE:
		tok.LiteralKind = token.LiteralBool
		tok.Literal = true
	case token.KW_FALSE:
		tok.LiteralKind = token.LiteralBool
		tok.Literal = false
	case token.KW_NULL:
		tok.LiteralKind = token.LiteralNull
	}
	return tok
}

func (l *Lexer) scanOperator(start token.Position) token.Token {
	ch := l.ch
	two := string(ch) + string(l.peek())
	three := two + string(l.peekRune(1))

	switch three {
	case "..<":
		l.readRune()
		l.readRune()
		l.readRune()
		return l.makeSimple(token.RANGE_EXCLUSIVE, start)
	case "===":
		l.readRune()
		l.readRune()
		l.readRune()
		return l.makeSimple(token.REF_EQ, start)
	case "!==":
		l.readRune()
		l.readRune()
		l.readRune()
		return l.makeSimple(token.REF_NOT_EQ, start)
	case "?:=":
		l.readRune()
		l.readRune()
		l.readRune()
		return l.makeSimple(token.ELVIS_ASSIGN, start)
	}

	switch two {
	case "->":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.ARROW, start)
	case "::":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.COLON_COLON, start)
	case "?.":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.QUESTION_DOT, start)
	case "?:":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.QUESTION_COLON, start)
	case "??":
		l.readRune()
		l.readRune()
		tok := l.makeSimple(token.QUESTION_QUESTION, start)
		if l.sink != nil {
			l.sink.ReportHint(diagnostics.Error, l.rangeFrom(start), "did you mean '?:'?",
				"'??' is not a valid operator in this language")
		}
		return tok
	case "!!":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.BANG_BANG, start)
	case "!=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.NOT_EQ, start)
	case "==":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.EQ, start)
	case "<=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.LE, start)
	case ">=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.GE, start)
	case "&&":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.AND_AND, start)
	case "||":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.OR_OR, start)
	case "++":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.PLUS_PLUS, start)
	case "--":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.MINUS_MINUS, start)
	case "+=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.PLUS_ASSIGN, start)
	case "-=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.MINUS_ASSIGN, start)
	case "*=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.STAR_ASSIGN, start)
	case "/=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.SLASH_ASSIGN, start)
	case "%=":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.PERCENT_ASSIGN, start)
	case "..":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.RANGE, start)
	case "|>":
		l.readRune()
		l.readRune()
		return l.makeSimple(token.PIPE_GT, start)
	}

	kind, ok := singleCharKinds[ch]
	if !ok {
		l.errorf(start, "unexpected character %q", ch)
		l.readRune()
		return token.Token{Kind: token.ILLEGAL, Lexeme: string(ch), Pos: start}
	}
	l.readRune()
	return l.makeSimple(kind, start)
}

var singleCharKinds = map[rune]token.Kind{
	'(': token.LPAREN, ')': token.RPAREN,
	'{': token.LBRACE, '}': token.RBRACE,
	'[': token.LBRACKET, ']': token.RBRACKET,
	',': token.COMMA, '.': token.DOT, ';': token.SEMICOLON, ':': token.COLON,
	'@': token.AT,
	'?': token.QUESTION, '!': token.BANG,
	'+': token.PLUS, '-': token.MINUS, '*': token.STAR, '/': token.SLASH, '%': token.PERCENT,
	'=': token.ASSIGN, '<': token.LT, '>': token.GT,
}
