package lexer

import (
	"strconv"
	"strings"

	"github.com/novaforge/nova/internal/token"
)

// StringPart is one chunk of an interpolated string literal: either a run
// of literal text, or the raw source text of an `${expr}` / `$name`
// substitution, to be parsed independently by the parser.
type StringPart struct {
	Text   string
	IsExpr bool
}

// scanString scans a normal, double-quoted, possibly-interpolated string
// literal. `${` opens an interpolation; nested `{`/`}` inside it (e.g. a
// lambda body) are tracked via depth so the first unmatched `}` closes the
// substitution, not the string.
func (l *Lexer) scanString(start token.Position) token.Token {
	l.readRune() // consume opening quote
	var parts []StringPart
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, StringPart{Text: lit.String()})
			lit.Reset()
		}
	}

	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			l.errorf(start, "unterminated string literal")
			flush()
			tok := l.makeSimple(token.STRING_LITERAL, start)
			tok.LiteralKind = token.LiteralString
			tok.Literal = parts
			return tok
		case l.ch == '"':
			l.readRune()
			flush()
			tok := l.makeSimple(token.STRING_LITERAL, start)
			tok.LiteralKind = token.LiteralString
			tok.Literal = parts
			return tok
		case l.ch == '\\':
			l.scanEscape(start, &lit)
		case l.ch == '$' && l.peek() == '{':
			flush()
			l.readRune() // $
			l.readRune() // {
			parts = append(parts, StringPart{Text: l.scanInterpolationBraced(start), IsExpr: true})
		case l.ch == '$' && isIdentStart(l.peek()):
			flush()
			l.readRune() // $
			var name strings.Builder
			for isIdentPart(l.ch) {
				name.WriteRune(l.ch)
				l.readRune()
			}
			parts = append(parts, StringPart{Text: name.String(), IsExpr: true})
		default:
			lit.WriteRune(l.ch)
			l.readRune()
		}
	}
}

// scanInterpolationBraced consumes up to the matching `}` of a `${`
// already opened by the caller, tracking brace depth, and returns the raw
// source text between them (exclusive of the braces).
func (l *Lexer) scanInterpolationBraced(start token.Position) string {
	depth := 1
	var sb strings.Builder
	for {
		if l.ch == 0 || l.ch == '\n' {
			l.errorf(start, "unterminated string interpolation")
			return sb.String()
		}
		if l.ch == '{' {
			depth++
		} else if l.ch == '}' {
			depth--
			if depth == 0 {
				l.readRune()
				return sb.String()
			}
		}
		// Interpolated expressions may themselves contain string literals;
		// skip over them whole so braces inside don't confuse depth tracking.
		if l.ch == '"' {
			sb.WriteRune(l.ch)
			l.readRune()
			for l.ch != '"' && l.ch != 0 && l.ch != '\n' {
				if l.ch == '\\' {
					sb.WriteRune(l.ch)
					l.readRune()
				}
				sb.WriteRune(l.ch)
				l.readRune()
			}
			if l.ch == '"' {
				sb.WriteRune(l.ch)
				l.readRune()
			}
			continue
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}
}

func (l *Lexer) scanEscape(start token.Position, out *strings.Builder) {
	l.readRune() // consume backslash
	switch l.ch {
	case 'n':
		out.WriteRune('\n')
		l.readRune()
	case 't':
		out.WriteRune('\t')
		l.readRune()
	case 'r':
		out.WriteRune('\r')
		l.readRune()
	case 'b':
		out.WriteRune('\b')
		l.readRune()
	case 'f':
		out.WriteRune('\f')
		l.readRune()
	case '\\':
		out.WriteRune('\\')
		l.readRune()
	case '"':
		out.WriteRune('"')
		l.readRune()
	case '\'':
		out.WriteRune('\'')
		l.readRune()
	case '$':
		out.WriteRune('$')
		l.readRune()
	case 'u':
		l.readRune()
		var hex strings.Builder
		for i := 0; i < 4; i++ {
			if !isHexDigit(l.ch) {
				l.errorf(start, "invalid unicode escape: expected 4 hex digits")
				return
			}
			hex.WriteRune(l.ch)
			l.readRune()
		}
		v, err := strconv.ParseInt(hex.String(), 16, 32)
		if err != nil {
			l.errorf(start, "invalid unicode escape %q", hex.String())
			return
		}
		out.WriteRune(rune(v))
	default:
		l.errorf(start, "invalid escape sequence '\\%c'", l.ch)
		out.WriteRune(l.ch)
		l.readRune()
	}
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// scanRawString scans `r"..."`: escapes are disabled and newlines are
// preserved verbatim. Interpolation is not recognized inside raw strings.
func (l *Lexer) scanRawString(start token.Position) token.Token {
	l.readRune() // consume opening quote
	var sb strings.Builder
	for l.ch != '"' {
		if l.ch == 0 {
			l.errorf(start, "unterminated raw string literal")
			break
		}
		sb.WriteRune(l.ch)
		l.readRune()
	}
	if l.ch == '"' {
		l.readRune()
	}
	tok := l.makeSimple(token.RAW_STRING_LITERAL, start)
	tok.LiteralKind = token.LiteralString
	tok.Literal = []StringPart{{Text: sb.String()}}
	return tok
}

// scanMultilineString scans `"""..."""`. Per spec this uses greedy-close
// semantics: the first `"""` encountered terminates the literal, even if a
// Kotlin-style multiline string would conventionally allow stray quotes.
// Interpolation is recognized the same way as in normal strings.
func (l *Lexer) scanMultilineString(start token.Position) token.Token {
	l.readRune()
	l.readRune()
	l.readRune() // consume opening """

	var parts []StringPart
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, StringPart{Text: lit.String()})
			lit.Reset()
		}
	}

	for {
		if l.ch == '"' && l.peek() == '"' && l.peekRune(1) == '"' {
			l.readRune()
			l.readRune()
			l.readRune()
			flush()
			tok := l.makeSimple(token.MULTILINE_STRING_LITERAL, start)
			tok.LiteralKind = token.LiteralString
			tok.Literal = parts
			return tok
		}
		if l.ch == 0 {
			l.errorf(start, "unterminated multiline string literal")
			flush()
			tok := l.makeSimple(token.MULTILINE_STRING_LITERAL, start)
			tok.LiteralKind = token.LiteralString
			tok.Literal = parts
			return tok
		}
		if l.ch == '$' && l.peek() == '{' {
			flush()
			l.readRune()
			l.readRune()
			parts = append(parts, StringPart{Text: l.scanInterpolationBraced(start), IsExpr: true})
			continue
		}
		if l.ch == '$' && isIdentStart(l.peek()) {
			flush()
			l.readRune()
			var name strings.Builder
			for isIdentPart(l.ch) {
				name.WriteRune(l.ch)
				l.readRune()
			}
			parts = append(parts, StringPart{Text: name.String(), IsExpr: true})
			continue
		}
		lit.WriteRune(l.ch)
		l.readRune()
	}
}

// scanChar scans a single character literal: 'a', '\n', '\uXXXX'.
func (l *Lexer) scanChar(start token.Position) token.Token {
	l.readRune() // consume opening quote
	var sb strings.Builder
	if l.ch == '\\' {
		l.scanEscape(start, &sb)
	} else if l.ch != '\'' && l.ch != 0 {
		sb.WriteRune(l.ch)
		l.readRune()
	}
	if l.ch != '\'' {
		l.errorf(start, "unterminated character literal")
	} else {
		l.readRune()
	}
	runes := []rune(sb.String())
	var v rune
	if len(runes) > 0 {
		v = runes[0]
	}
	if len(runes) > 1 {
		l.errorf(start, "character literal contains more than one rune")
	}
	tok := l.makeSimple(token.CHAR_LITERAL, start)
	tok.LiteralKind = token.LiteralChar
	tok.Literal = v
	return tok
}
