package lexer

import (
	"strconv"
	"strings"

	"github.com/novaforge/nova/internal/token"
)

// scanNumber scans an integer or floating-point literal. Underscore digit
// separators are stripped before numeric parsing. A `.` is only consumed as
// part of the literal when followed by another digit; `42.toString` must
// lex as INT_LITERAL DOT IDENT, not a malformed float.
func (l *Lexer) scanNumber(start token.Position) token.Token {
	if l.ch == '0' && (l.peek() == 'x' || l.peek() == 'X') {
		return l.scanRadixNumber(start, 16, "0123456789abcdefABCDEF_")
	}
	if l.ch == '0' && (l.peek() == 'b' || l.peek() == 'B') {
		return l.scanRadixNumber(start, 2, "01_")
	}
	if l.ch == '0' && (l.peek() == 'o' || l.peek() == 'O') {
		return l.scanRadixNumber(start, 8, "01234567_")
	}

	var sb strings.Builder
	for isDigit(l.ch) || l.ch == '_' {
		if l.ch != '_' {
			sb.WriteRune(l.ch)
		}
		l.readRune()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peek()) {
		isFloat = true
		sb.WriteRune(l.ch)
		l.readRune()
		for isDigit(l.ch) || l.ch == '_' {
			if l.ch != '_' {
				sb.WriteRune(l.ch)
			}
			l.readRune()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		if isDigit(l.peek()) || ((l.peek() == '+' || l.peek() == '-') && isDigit(l.peekRune(1))) {
			isFloat = true
			sb.WriteRune(l.ch)
			l.readRune()
			if l.ch == '+' || l.ch == '-' {
				sb.WriteRune(l.ch)
				l.readRune()
			}
			for isDigit(l.ch) {
				sb.WriteRune(l.ch)
				l.readRune()
			}
		}
	}

	digits := sb.String()

	if isFloat {
		if l.ch == 'f' || l.ch == 'F' {
			l.readRune()
			v, err := strconv.ParseFloat(digits, 32)
			tok := l.makeSimple(token.FLOAT_LITERAL, start)
			tok.LiteralKind = token.LiteralFloat
			if err != nil {
				l.errorf(start, "invalid float literal %q", digits)
			}
			tok.Literal = float32(v)
			return tok
		}
		v, err := strconv.ParseFloat(digits, 64)
		tok := l.makeSimple(token.DOUBLE_LITERAL, start)
		tok.LiteralKind = token.LiteralDouble
		if err != nil {
			l.errorf(start, "invalid double literal %q", digits)
		}
		tok.Literal = v
		return tok
	}

	if l.ch == 'L' || l.ch == 'l' {
		l.readRune()
		v, err := strconv.ParseInt(digits, 10, 64)
		tok := l.makeSimple(token.LONG_LITERAL, start)
		tok.LiteralKind = token.LiteralLong
		if err != nil {
			l.errorf(start, "invalid long literal %q", digits)
		}
		tok.Literal = v
		return tok
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	tok := l.makeSimple(token.INT_LITERAL, start)
	tok.LiteralKind = token.LiteralInt
	if err != nil {
		l.errorf(start, "invalid integer literal %q", digits)
	}
	tok.Literal = v
	return tok
}

// scanRadixNumber scans 0x/0b/0o prefixed integer literals. The L/l long
// suffix is accepted on any radix.
func (l *Lexer) scanRadixNumber(start token.Position, base int, alphabet string) token.Token {
	l.readRune() // consume '0'
	l.readRune() // consume x/b/o
	var sb strings.Builder
	for strings.ContainsRune(alphabet, l.ch) {
		if l.ch != '_' {
			sb.WriteRune(l.ch)
		}
		l.readRune()
	}
	digits := sb.String()
	isLong := false
	if l.ch == 'L' || l.ch == 'l' {
		isLong = true
		l.readRune()
	}
	if digits == "" {
		l.errorf(start, "invalid numeric literal: missing digits after radix prefix")
	}
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		l.errorf(start, "invalid numeric literal %q", l.input[start.Offset:l.position])
	}
	kind := token.INT_LITERAL
	litKind := token.LiteralInt
	if isLong {
		kind = token.LONG_LITERAL
		litKind = token.LiteralLong
	}
	tok := l.makeSimple(kind, start)
	tok.LiteralKind = litKind
	tok.Literal = v
	return tok
}
