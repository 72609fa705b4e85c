package parser

import "github.com/novaforge/nova/internal/token"

// Precedence ranks infix/postfix binding power, low to high:
// assignment < pipeline < ternary/elvis < || < && < equality <
// comparison < named-infix < range < additive < multiplicative
// < unary-prefix < postfix. Elvis and the ternary `cond ? a : b` share a
// tier since only "ternary" is named explicitly elsewhere and pipeline
// "below Elvis" -- the only placement consistent with both constraints is
// grouping Elvis with ternary and ranking pipeline one tier looser than
// everything else but assignment.
type Precedence int

const (
	PrecLowest Precedence = iota
	PrecAssign
	PrecPipeline
	PrecTernary // also Elvis
	PrecOr
	PrecAnd
	PrecEquality
	PrecComparison
	PrecNamedInfix // in, !in, is, !is
	PrecRange
	PrecAdditive
	PrecMultiplicative
	PrecUnary
	PrecPostfix
)

var infixPrecedence = map[token.Kind]Precedence{
	token.ASSIGN: PrecAssign, token.PLUS_ASSIGN: PrecAssign, token.MINUS_ASSIGN: PrecAssign,
	token.STAR_ASSIGN: PrecAssign, token.SLASH_ASSIGN: PrecAssign, token.PERCENT_ASSIGN: PrecAssign,
	token.ELVIS_ASSIGN: PrecAssign,

	token.PIPE_GT: PrecPipeline,

	token.QUESTION_COLON: PrecTernary,
	token.QUESTION:       PrecTernary, // ternary opener `cond ? a : b`

	token.OR_OR:  PrecOr,
	token.AND_AND: PrecAnd,

	token.EQ: PrecEquality, token.NOT_EQ: PrecEquality, token.REF_EQ: PrecEquality, token.REF_NOT_EQ: PrecEquality,

	token.LT: PrecComparison, token.GT: PrecComparison, token.LE: PrecComparison, token.GE: PrecComparison,

	token.KW_IN: PrecNamedInfix, token.NOT_IN: PrecNamedInfix, token.KW_IS: PrecNamedInfix, token.NOT_IS: PrecNamedInfix,

	token.RANGE: PrecRange, token.RANGE_EXCLUSIVE: PrecRange,

	token.PLUS: PrecAdditive, token.MINUS: PrecAdditive,

	token.STAR: PrecMultiplicative, token.SLASH: PrecMultiplicative, token.PERCENT: PrecMultiplicative,

	token.KW_AS: PrecUnary,

	token.LPAREN: PrecPostfix, token.LBRACKET: PrecPostfix, token.DOT: PrecPostfix, token.LBRACE: PrecPostfix,
	token.QUESTION_DOT: PrecPostfix, token.COLON_COLON: PrecPostfix,
	token.BANG_BANG: PrecPostfix, token.PLUS_PLUS: PrecPostfix, token.MINUS_MINUS: PrecPostfix,
}

func precedenceOf(k token.Kind) Precedence {
	if p, ok := infixPrecedence[k]; ok {
		return p
	}
	return PrecLowest
}

// rightAssociative reports whether an infix operator at this precedence
// binds its right operand at the same precedence level rather than one
// higher (assignment and ternary/elvis chains are right-associative; the
// pipeline operator is explicitly left-assoc).
func rightAssociative(k token.Kind) bool {
	switch k {
	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN,
		token.SLASH_ASSIGN, token.PERCENT_ASSIGN, token.ELVIS_ASSIGN, token.QUESTION_COLON:
		return true
	default:
		return false
	}
}
