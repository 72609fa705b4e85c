package lexer

import (
	"testing"

	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/token"
)

func scanKinds(t *testing.T, input string) []token.Kind {
	t.Helper()
	sink := diagnostics.NewSink()
	l := New(input, sink)
	var kinds []token.Kind
	for {
		tok := l.NextToken()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == token.EOF {
			return kinds
		}
	}
}

func TestScanAllIdempotentAtEOF(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("", sink)
	if k := l.NextToken().Kind; k != token.EOF {
		t.Fatalf("expected EOF, got %v", k)
	}
	if k := l.NextToken().Kind; k != token.EOF {
		t.Fatalf("expected second EOF to stay EOF, got %v", k)
	}
}

// A long literal keeps its underscore digit separators and `L` suffix out
// of the decoded value.
func TestLongLiteralWithUnderscoreSeparator(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("val x = 1_000L", sink)

	want := []struct {
		kind    token.Kind
		lexeme  string
		literal any
	}{
		{token.KW_VAL, "val", nil},
		{token.IDENT, "x", nil},
		{token.ASSIGN, "=", nil},
		{token.LONG_LITERAL, "1_000L", int64(1000)},
		{token.EOF, "", nil},
	}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Kind != w.kind {
			t.Fatalf("kind = %v, want %v (tok=%+v)", tok.Kind, w.kind, tok)
		}
		if w.literal != nil && tok.Literal != w.literal {
			t.Fatalf("literal = %v, want %v", tok.Literal, w.literal)
		}
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected lexer errors: %v", sink.All())
	}
}

// A `\uXXXX` escape decodes to its literal rune in the string's parts.
func TestUnicodeEscapeInString(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New(`"a\`+`u0041b"`, sink)
	tok := l.NextToken()
	if tok.Kind != token.STRING_LITERAL {
		t.Fatalf("kind = %v, want STRING_LITERAL", tok.Kind)
	}
	parts := tok.Literal.([]StringPart)
	if len(parts) != 1 || parts[0].Text != "aAb" {
		t.Fatalf("parts = %+v, want a single part 'aAb'", parts)
	}
}

func TestDotAfterIntIsMemberAccess(t *testing.T) {
	kinds := scanKinds(t, "42.toString")
	want := []token.Kind{token.INT_LITERAL, token.DOT, token.IDENT, token.EOF}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("kinds[%d] = %v, want %v (full: %v)", i, kinds[i], want[i], kinds)
		}
	}
}

func TestStringInterpolationParts(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New(`"hello ${name + "!"} and $x"`, sink)
	tok := l.NextToken()
	parts := tok.Literal.([]StringPart)
	if len(parts) != 4 {
		t.Fatalf("expected 4 parts, got %d: %+v", len(parts), parts)
	}
	if parts[0].IsExpr || parts[0].Text != "hello " {
		t.Fatalf("part 0 = %+v", parts[0])
	}
	if !parts[1].IsExpr || parts[1].Text != `name + "!"` {
		t.Fatalf("part 1 = %+v", parts[1])
	}
	if parts[2].IsExpr || parts[2].Text != " and " {
		t.Fatalf("part 2 = %+v", parts[2])
	}
	if !parts[3].IsExpr || parts[3].Text != "x" {
		t.Fatalf("part 3 = %+v", parts[3])
	}
}

func TestMultilineStringGreedyClose(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New(`"""abc""" """def"""`, sink)
	first := l.NextToken()
	if first.Kind != token.MULTILINE_STRING_LITERAL {
		t.Fatalf("kind = %v", first.Kind)
	}
	parts := first.Literal.([]StringPart)
	if len(parts) != 1 || parts[0].Text != "abc" {
		t.Fatalf("parts = %+v", parts)
	}
	second := l.NextToken()
	if second.Kind != token.MULTILINE_STRING_LITERAL {
		t.Fatalf("second literal kind = %v", second.Kind)
	}
}

func TestRawStringDisablesEscapes(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New(`r"a\nb"`, sink)
	tok := l.NextToken()
	if tok.Kind != token.RAW_STRING_LITERAL {
		t.Fatalf("kind = %v", tok.Kind)
	}
	parts := tok.Literal.([]StringPart)
	if parts[0].Text != `a\nb` {
		t.Fatalf("raw string text = %q, want %q", parts[0].Text, `a\nb`)
	}
}

func TestNestedBlockComment(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("/* outer /* inner */ still-outer */ val", sink)
	tok := l.NextToken()
	if tok.Kind != token.KW_VAL {
		t.Fatalf("kind = %v, want KW_VAL after nested comment", tok.Kind)
	}
}

func TestUnterminatedBlockCommentIsError(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("/* never closed", sink)
	tok := l.NextToken()
	if tok.Kind != token.ILLEGAL {
		t.Fatalf("kind = %v, want ILLEGAL", tok.Kind)
	}
	if !sink.HasErrors() {
		t.Fatalf("expected a diagnostic for unterminated comment")
	}
}

func TestRejectedNullCoalescingOperator(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("a ?? b", sink)
	_ = l.ScanAll()
	if !sink.HasErrors() {
		t.Fatalf("expected '??' to be reported as an error")
	}
	diag := sink.All()[0]
	if diag.Hint == "" {
		t.Fatalf("expected a hint suggesting '?:'")
	}
}

func TestRadixIntegerLiterals(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("0xFF 0b1010 0o17", sink)
	want := []int64{255, 10, 15}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Kind != token.INT_LITERAL {
			t.Fatalf("kind = %v, want INT_LITERAL", tok.Kind)
		}
		if tok.Literal.(int64) != w {
			t.Fatalf("literal = %v, want %v", tok.Literal, w)
		}
	}
}

func TestFloatAndDoubleSuffixes(t *testing.T) {
	sink := diagnostics.NewSink()
	l := New("1.5f 1.5 1e10", sink)
	first := l.NextToken()
	if first.Kind != token.FLOAT_LITERAL {
		t.Fatalf("kind = %v, want FLOAT_LITERAL", first.Kind)
	}
	second := l.NextToken()
	if second.Kind != token.DOUBLE_LITERAL {
		t.Fatalf("kind = %v, want DOUBLE_LITERAL", second.Kind)
	}
	third := l.NextToken()
	if third.Kind != token.DOUBLE_LITERAL {
		t.Fatalf("kind = %v, want DOUBLE_LITERAL for scientific notation", third.Kind)
	}
}

func TestSoftKeywordsLexAsIdentifier(t *testing.T) {
	kinds := scanKinds(t, "constructor init guard step out where it")
	for _, k := range kinds[:len(kinds)-1] {
		if k != token.IDENT {
			t.Fatalf("expected soft keywords to lex as IDENT, got %v", k)
		}
	}
}

// For every token, source[offset:offset+len]
// equals the lexeme, except virtual EOF tokens.
func TestTokenLexemeMatchesSourceSlice(t *testing.T) {
	src := "val count = 42 + offset"
	sink := diagnostics.NewSink()
	l := New(src, sink, WithFile("test.nova"))
	for {
		tok := l.NextToken()
		if tok.Kind == token.EOF {
			return
		}
		if tok.Kind == token.NEWLINE {
			continue
		}
		got := src[tok.Pos.Offset : tok.Pos.Offset+len(tok.Lexeme)]
		if got != tok.Lexeme {
			t.Fatalf("source slice %q != lexeme %q for token %+v", got, tok.Lexeme, tok)
		}
	}
}
