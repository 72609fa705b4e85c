// Package token defines the lexical vocabulary of the source language: the
// Kind enumeration, the literal Token record, and the keyword table
// that the lexer and parser share.
package token

import "fmt"

// Position locates a single point in a source file by line, column (rune
// count from the start of the line), and absolute byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsValid reports whether p refers to an actual position; the zero value is
// not valid (line 0 never occurs in real source).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Kind enumerates every lexical category the lexer can produce.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF
	NEWLINE
	COMMENT

	literalBegin
	IDENT
	INT_LITERAL
	LONG_LITERAL
	FLOAT_LITERAL
	DOUBLE_LITERAL
	CHAR_LITERAL
	STRING_LITERAL
	RAW_STRING_LITERAL
	MULTILINE_STRING_LITERAL
	// STRING_TEMPLATE_PART/EXPR_START/EXPR_END are emitted by the lexer when
	// scanning an interpolated string so the parser can reconstruct the
	// literal/expression part sequence described in the data model.
	STRING_TEMPLATE_PART
	STRING_TEMPLATE_EXPR_START
	STRING_TEMPLATE_EXPR_END
	literalEnd

	keywordBegin
	// Literals that are also keywords.
	KW_TRUE
	KW_FALSE
	KW_NULL

	// Declarations.
	KW_PACKAGE
	KW_IMPORT
	KW_CLASS
	KW_INTERFACE
	KW_OBJECT
	KW_ENUM
	KW_SEALED
	KW_FUN
	KW_VAL
	KW_VAR
	KW_TYPEALIAS
	KW_COMPANION

	// Modifiers.
	KW_PRIVATE
	KW_PUBLIC
	KW_PROTECTED
	KW_INTERNAL
	KW_OVERRIDE
	KW_ABSTRACT
	KW_OPEN
	KW_FINAL
	KW_VARARG
	KW_OPERATOR
	KW_INFIX
	KW_INLINE
	KW_SUSPEND

	// Control flow.
	KW_IF
	KW_ELSE
	KW_WHEN
	KW_FOR
	KW_WHILE
	KW_DO
	KW_TRY
	KW_CATCH
	KW_FINALLY
	KW_THROW
	KW_RETURN
	KW_BREAK
	KW_CONTINUE
	KW_USE

	// Expression keywords.
	KW_THIS
	KW_SUPER
	KW_IS
	KW_AS
	KW_IN
	KW_AWAIT

	// Logical keywords (also expressible as operators).
	KW_NOT

	keywordEnd

	// Soft keywords: the lexer always emits these as IDENT; the parser
	// promotes them contextually. Listed here only so the set is visible in
	// one place and SoftKeywordKind can recognize the lexemes.
	softKeywordBegin
	SOFT_CONSTRUCTOR
	SOFT_INIT
	SOFT_GUARD
	SOFT_STEP
	SOFT_OUT
	SOFT_WHERE
	SOFT_IT
	softKeywordEnd

	// Punctuation and operators.
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	DOT
	SEMICOLON
	COLON
	COLON_COLON
	ARROW
	AT
	UNDERSCORE

	QUESTION
	QUESTION_DOT
	QUESTION_COLON
	QUESTION_QUESTION // rejected, see spec open question
	BANG_BANG
	BANG

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	PLUS_PLUS
	MINUS_MINUS

	assignBegin
	ASSIGN
	PLUS_ASSIGN
	MINUS_ASSIGN
	STAR_ASSIGN
	SLASH_ASSIGN
	PERCENT_ASSIGN
	ELVIS_ASSIGN
	assignEnd

	comparisonBegin
	EQ
	NOT_EQ
	REF_EQ
	REF_NOT_EQ
	LT
	GT
	LE
	GE
	comparisonEnd

	AND_AND
	OR_OR
	NOT_IN
	NOT_IS

	RANGE
	RANGE_EXCLUSIVE
	PIPE_GT
)

var kindNames = map[Kind]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", NEWLINE: "NEWLINE", COMMENT: "COMMENT",
	IDENT: "IDENT", INT_LITERAL: "INT_LITERAL", LONG_LITERAL: "LONG_LITERAL",
	FLOAT_LITERAL: "FLOAT_LITERAL", DOUBLE_LITERAL: "DOUBLE_LITERAL",
	CHAR_LITERAL: "CHAR_LITERAL", STRING_LITERAL: "STRING_LITERAL",
	RAW_STRING_LITERAL: "RAW_STRING_LITERAL", MULTILINE_STRING_LITERAL: "MULTILINE_STRING_LITERAL",
	STRING_TEMPLATE_PART: "STRING_TEMPLATE_PART", STRING_TEMPLATE_EXPR_START: "STRING_TEMPLATE_EXPR_START",
	STRING_TEMPLATE_EXPR_END: "STRING_TEMPLATE_EXPR_END",
	KW_TRUE:                  "true", KW_FALSE: "false", KW_NULL: "null",
	KW_PACKAGE: "package", KW_IMPORT: "import", KW_CLASS: "class", KW_INTERFACE: "interface",
	KW_OBJECT: "object", KW_ENUM: "enum", KW_SEALED: "sealed", KW_FUN: "fun", KW_VAL: "val",
	KW_VAR: "var", KW_TYPEALIAS: "typealias", KW_COMPANION: "companion",
	KW_PRIVATE: "private", KW_PUBLIC: "public", KW_PROTECTED: "protected", KW_INTERNAL: "internal",
	KW_OVERRIDE: "override", KW_ABSTRACT: "abstract", KW_OPEN: "open", KW_FINAL: "final",
	KW_VARARG: "vararg", KW_OPERATOR: "operator", KW_INFIX: "infix", KW_INLINE: "inline",
	KW_SUSPEND: "suspend",
	KW_IF:      "if", KW_ELSE: "else", KW_WHEN: "when", KW_FOR: "for", KW_WHILE: "while",
	KW_DO: "do", KW_TRY: "try", KW_CATCH: "catch", KW_FINALLY: "finally", KW_THROW: "throw",
	KW_RETURN: "return", KW_BREAK: "break", KW_CONTINUE: "continue", KW_USE: "use",
	KW_THIS: "this", KW_SUPER: "super", KW_IS: "is", KW_AS: "as", KW_IN: "in", KW_AWAIT: "await",
	KW_NOT: "not",
	SOFT_CONSTRUCTOR: "constructor", SOFT_INIT: "init", SOFT_GUARD: "guard", SOFT_STEP: "step",
	SOFT_OUT: "out", SOFT_WHERE: "where", SOFT_IT: "it",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}", LBRACKET: "[", RBRACKET: "]",
	COMMA: ",", DOT: ".", SEMICOLON: ";", COLON: ":", COLON_COLON: "::", ARROW: "->",
	AT: "@", UNDERSCORE: "_",
	QUESTION: "?", QUESTION_DOT: "?.", QUESTION_COLON: "?:", QUESTION_QUESTION: "??",
	BANG_BANG: "!!", BANG: "!",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", PLUS_PLUS: "++", MINUS_MINUS: "--",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", STAR_ASSIGN: "*=", SLASH_ASSIGN: "/=",
	PERCENT_ASSIGN: "%=", ELVIS_ASSIGN: "?:=",
	EQ: "==", NOT_EQ: "!=", REF_EQ: "===", REF_NOT_EQ: "!==",
	LT: "<", GT: ">", LE: "<=", GE: ">=",
	AND_AND: "&&", OR_OR: "||", NOT_IN: "!in", NOT_IS: "!is",
	RANGE: "..", RANGE_EXCLUSIVE: "..<", PIPE_GT: "|>",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is one of the hard, always-reserved keywords.
func (k Kind) IsKeyword() bool {
	return k > keywordBegin && k < keywordEnd
}

// IsLiteral reports whether k is a literal or identifier token kind.
func (k Kind) IsLiteral() bool {
	return k > literalBegin && k < literalEnd
}

// IsAssignmentOp reports whether k is `=` or a compound-assignment operator,
// including the Elvis-assign form `?:=`.
func (k Kind) IsAssignmentOp() bool {
	return k > assignBegin && k < assignEnd
}

// IsComparisonOp reports whether k is an equality or relational operator.
func (k Kind) IsComparisonOp() bool {
	return k > comparisonBegin && k < comparisonEnd
}

// keywords maps the hard-keyword lexeme to its Kind. Soft keywords are
// deliberately absent: LookupIdent never promotes them, the parser does.
var keywords = map[string]Kind{
	"true": KW_TRUE, "false": KW_FALSE, "null": KW_NULL,
	"package": KW_PACKAGE, "import": KW_IMPORT, "class": KW_CLASS, "interface": KW_INTERFACE,
	"object": KW_OBJECT, "enum": KW_ENUM, "sealed": KW_SEALED, "fun": KW_FUN, "val": KW_VAL,
	"var": KW_VAR, "typealias": KW_TYPEALIAS, "companion": KW_COMPANION,
	"private": KW_PRIVATE, "public": KW_PUBLIC, "protected": KW_PROTECTED, "internal": KW_INTERNAL,
	"override": KW_OVERRIDE, "abstract": KW_ABSTRACT, "open": KW_OPEN, "final": KW_FINAL,
	"vararg": KW_VARARG, "operator": KW_OPERATOR, "infix": KW_INFIX, "inline": KW_INLINE,
	"suspend": KW_SUSPEND,
	"if":      KW_IF, "else": KW_ELSE, "when": KW_WHEN, "for": KW_FOR, "while": KW_WHILE,
	"do": KW_DO, "try": KW_TRY, "catch": KW_CATCH, "finally": KW_FINALLY, "throw": KW_THROW,
	"return": KW_RETURN, "break": KW_BREAK, "continue": KW_CONTINUE, "use": KW_USE,
	"this": KW_THIS, "super": KW_SUPER, "is": KW_IS, "as": KW_AS, "in": KW_IN, "await": KW_AWAIT,
	"not": KW_NOT,
}

// softKeywords is the public soft-keyword surface named in the external
// interface contract: identifiers that only become keywords in a specific
// syntactic position.
var softKeywords = map[string]Kind{
	"constructor": SOFT_CONSTRUCTOR,
	"init":        SOFT_INIT,
	"guard":       SOFT_GUARD,
	"step":        SOFT_STEP,
	"out":         SOFT_OUT,
	"where":       SOFT_WHERE,
	"it":          SOFT_IT,
}

// LookupIdent classifies a scanned identifier lexeme: a hard keyword kind,
// or IDENT for everything else (including every soft keyword, which the
// lexer never promotes on its own).
func LookupIdent(ident string) Kind {
	if kind, ok := keywords[ident]; ok {
		return kind
	}
	return IDENT
}

// SoftKeywordKind returns the soft-keyword Kind for ident, and true, if
// ident names one of the soft keywords in the public contract.
func SoftKeywordKind(ident string) (Kind, bool) {
	kind, ok := softKeywords[ident]
	return kind, ok
}

// LiteralKind distinguishes what a literal token actually holds, independent
// of its lexical Kind, mirroring the AST's per-literal LiteralKind tag.
type LiteralKind int

const (
	LiteralNone LiteralKind = iota
	LiteralInt
	LiteralLong
	LiteralFloat
	LiteralDouble
	LiteralChar
	LiteralString
	LiteralBool
	LiteralNull
)

// Token is the tagged record produced by the lexer: a Kind, the original
// lexeme, an optional decoded literal value, and a Position.
type Token struct {
	Literal     any
	Lexeme      string
	Kind        Kind
	LiteralKind LiteralKind
	Pos         Position
}

func (t Token) String() string {
	if t.Lexeme != "" {
		return fmt.Sprintf("%s(%q)", t.Kind, t.Lexeme)
	}
	return t.Kind.String()
}
