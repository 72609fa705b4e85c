package parser

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/diagnostics"
	"github.com/novaforge/nova/internal/token"
)

// ParseExpression is the Pratt-parser entry point: parse a prefix
// expression, then fold in infix/postfix operators whose precedence
// exceeds minPrec. Grounded on the prefixParseFn/infixParseFn
// map dispatch pattern, adapted from a
// method-table dispatch to direct type-switch dispatch since Nova's
// grammar has far fewer than DWScript's operator surface per token.
func (p *Parser) ParseExpression(minPrec Precedence) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}

	for {
		k := p.cursor.Current().Kind

		// `<` after a callable name is tentatively a generic-argument
		// opener (`foo<Int>(x)`); back off to plain `<` comparison if a
		// matching `>(` never materializes.
		if k == token.LT && isCallableExpr(left) {
			if call, ok := p.tryParseGenericCall(left); ok {
				left = call
				continue
			}
		}

		prec := precedenceOf(k)
		if prec <= minPrec && !(rightAssociative(k) && prec == minPrec) {
			break
		}
		if prec == PrecLowest {
			break
		}
		left = p.parseInfix(left, prec)
	}
	return left
}

func isCallableExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Ident, *ast.MemberExpr:
		return true
	default:
		return false
	}
}

// tryParseGenericCall speculatively parses `<Type, Type> (args)` as a
// generic call's explicit type-argument list, backtracking the cursor and
// any diagnostics reported along the way if no `(` follows the closing
// `>` (in which case `<` was plain comparison all along).
func (p *Parser) tryParseGenericCall(callee ast.Expr) (ast.Expr, bool) {
	mark := p.cursor.Mark()
	diagMark := p.sink.Checkpoint()
	start := posOfRange(callee.Range())

	p.cursor = p.cursor.Advance() // '<'
	var args []ast.TypeRef
	for !p.cursor.Is(token.GT) {
		if p.cursor.IsEOF() || p.cursor.Is(token.NEWLINE) || p.cursor.Is(token.SEMICOLON) {
			p.cursor = p.cursor.ResetTo(mark)
			p.sink.Rollback(diagMark)
			return nil, false
		}
		args = append(args, p.parseTypeRef())
		if p.cursor.Is(token.COMMA) {
			p.cursor = p.cursor.Advance()
			continue
		}
		break
	}
	if !p.cursor.Is(token.GT) || !p.cursor.PeekIs(1, token.LPAREN) {
		p.cursor = p.cursor.ResetTo(mark)
		p.sink.Rollback(diagMark)
		return nil, false
	}
	p.cursor = p.cursor.Advance() // '>'

	call := p.finishCall(callee, start, nil).(*ast.CallExpr)
	call.TypeArgs = args
	return call, true
}

func posOfRange(r diagnostics.Range) token.Position {
	return token.Position{Line: r.Line, Column: r.Column, Offset: r.Offset}
}

func (p *Parser) parsePrefix() ast.Expr {
	start := p.cursor.Current().Pos
	tok := p.cursor.Current()

	switch tok.Kind {
	case token.INT_LITERAL, token.LONG_LITERAL, token.FLOAT_LITERAL, token.DOUBLE_LITERAL,
		token.CHAR_LITERAL, token.KW_TRUE, token.KW_FALSE, token.KW_NULL:
		p.cursor = p.cursor.Advance()
		return &ast.LiteralExpr{Base: p.base(start), Kind: int(tok.LiteralKind), Value: tok.Literal}

	case token.STRING_LITERAL, token.RAW_STRING_LITERAL, token.MULTILINE_STRING_LITERAL:
		p.cursor = p.cursor.Advance()
		return &ast.LiteralExpr{Base: p.base(start), Kind: int(token.LiteralString), Value: tok.Literal}

	case token.STRING_TEMPLATE_PART, token.STRING_TEMPLATE_EXPR_START:
		return p.parseInterpolatedString(start)

	case token.IDENT:
		return p.parseIdentOrLambdaStart(start)

	case token.UNDERSCORE:
		p.cursor = p.cursor.Advance()
		return &ast.Ident{Base: p.base(start), Name: "_"}

	case token.KW_THIS:
		p.cursor = p.cursor.Advance()
		label := p.consumeLabel()
		return &ast.ThisExpr{Base: p.base(start), Label: label}

	case token.KW_SUPER:
		p.cursor = p.cursor.Advance()
		label := p.consumeLabel()
		return &ast.SuperExpr{Base: p.base(start), Label: label}

	case token.LPAREN:
		return p.parseParenOrLambda(start)

	case token.LBRACE:
		return p.parseLambda(start, nil)

	case token.LBRACKET:
		return p.parseCollectionLiteral(start)

	case token.MINUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpNeg, Operand: p.ParseExpression(PrecUnary)}
	case token.PLUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpPos, Operand: p.ParseExpression(PrecUnary)}
	case token.BANG, token.KW_NOT:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpNot, Operand: p.ParseExpression(PrecUnary)}
	case token.PLUS_PLUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpPreInc, Operand: p.ParseExpression(PrecUnary)}
	case token.MINUS_MINUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpPreDec, Operand: p.ParseExpression(PrecUnary)}

	case token.STAR:
		p.cursor = p.cursor.Advance()
		return &ast.SpreadExpr{Base: p.base(start), Operand: p.ParseExpression(PrecUnary)}

	case token.KW_IF:
		return p.parseIfExpr(start)
	case token.KW_WHEN:
		return p.parseWhenExpr(start)
	case token.KW_TRY:
		return p.parseTryExpr(start)
	case token.KW_AWAIT:
		p.cursor = p.cursor.Advance()
		return &ast.AwaitExpr{Base: p.base(start), Operand: p.ParseExpression(PrecUnary)}

	case token.KW_RETURN, token.KW_BREAK, token.KW_CONTINUE, token.KW_THROW:
		return &ast.JumpExpr{Base: p.base(start), Stmt: p.parseJumpStmt()}

	default:
		p.errorf("unexpected token %s in expression", tok.Kind)
		p.cursor = p.cursor.Advance()
		return nil
	}
}

func (p *Parser) base(start token.Position) ast.Base {
	return ast.Base{Rng: p.rangeFrom(start)}
}

func (p *Parser) consumeLabel() string {
	if p.cursor.Is(token.AT) && p.cursor.PeekIs(1, token.IDENT) {
		p.cursor = p.cursor.Advance()
		label := p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance()
		return label
	}
	return ""
}

// parseIdentOrLambdaStart handles the common case of a bare identifier,
// the soft keyword `it`, and `name ->` starting a single-param lambda
// without braces is NOT supported by this grammar (lambdas always use
// `{ ... }`), so an identifier always parses as a plain reference here.
func (p *Parser) parseIdentOrLambdaStart(start token.Position) ast.Expr {
	name := p.cursor.Current().Lexeme
	if kind, ok := token.SoftKeywordKind(name); ok && kind == token.SOFT_IT {
		p.cursor = p.cursor.Advance()
		return &ast.ItExpr{Base: p.base(start)}
	}
	p.cursor = p.cursor.Advance()
	return &ast.Ident{Base: p.base(start), Name: name}
}

func (p *Parser) parseInterpolatedString(start token.Position) ast.Expr {
	var parts []ast.StringPart
	for p.cursor.IsAny(token.STRING_TEMPLATE_PART, token.STRING_TEMPLATE_EXPR_START) {
		if p.cursor.Is(token.STRING_TEMPLATE_PART) {
			parts = append(parts, ast.StringPart{Text: p.cursor.Current().Lexeme})
			p.cursor = p.cursor.Advance()
			continue
		}
		p.cursor = p.cursor.Advance() // EXPR_START
		expr := p.ParseExpression(PrecLowest)
		parts = append(parts, ast.StringPart{Expr: expr})
		if p.cursor.Is(token.STRING_TEMPLATE_EXPR_END) {
			p.cursor = p.cursor.Advance()
		}
	}
	return &ast.InterpolatedStringExpr{Base: p.base(start), Parts: parts}
}

// parseParenOrLambda parses a parenthesized (grouped) expression; an empty
// `()` yields a LiteralNone literal. No lookahead for `->` is done here:
// lambdas are always written with braces and parsed by parseLambda.
func (p *Parser) parseParenOrLambda(start token.Position) ast.Expr {
	p.cursor = p.cursor.Advance() // '('
	if p.cursor.Is(token.RPAREN) {
		p.cursor = p.cursor.Advance()
		return &ast.LiteralExpr{Base: p.base(start), Kind: int(token.LiteralNone)}
	}
	inner := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	return inner
}

func (p *Parser) parseLambda(start token.Position, params []*ast.LambdaParam) ast.Expr {
	p.cursor = p.cursor.Advance() // '{'
	mark := p.cursor.Mark()

	if params == nil {
		if ps, ok := p.tryParseLambdaParamList(); ok {
			params = ps
		} else {
			p.cursor = p.cursor.ResetTo(mark)
		}
	}

	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.LambdaExpr{Base: p.base(start), Params: params, Body: body}
}

// tryParseLambdaParamList speculatively parses `ident (: Type)?, ... ->`
// right after the opening brace, backtracking (via the caller's Mark) if
// no arrow follows.
func (p *Parser) tryParseLambdaParamList() ([]*ast.LambdaParam, bool) {
	var params []*ast.LambdaParam
	for p.cursor.Is(token.IDENT) {
		name := p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance()
		lp := &ast.LambdaParam{Name: name}
		if p.cursor.Is(token.COLON) {
			p.cursor = p.cursor.Advance()
			lp.Type = p.parseTypeRef()
		}
		params = append(params, lp)
		if p.cursor.Is(token.COMMA) {
			p.cursor = p.cursor.Advance()
			continue
		}
		break
	}
	if p.cursor.Is(token.ARROW) {
		p.cursor = p.cursor.Advance()
		return params, true
	}
	return nil, false
}

func (p *Parser) parseBlockStmts(stop token.Kind) *ast.Block {
	start := p.cursor.Current().Pos
	b := &ast.Block{}
	p.skipNewlines()
	for !p.cursor.Is(stop) && !p.cursor.IsEOF() {
		stmt := p.parseStatement()
		if stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
		p.skipNewlines()
	}
	b.Base = p.base(start)
	return b
}

func (p *Parser) parseCollectionLiteral(start token.Position) ast.Expr {
	p.cursor = p.cursor.Advance() // '['
	p.skipNewlines()
	if p.cursor.Is(token.RBRACKET) {
		p.cursor = p.cursor.Advance()
		return &ast.ListLiteralExpr{Base: p.base(start)}
	}

	first := p.ParseExpression(PrecTernary)
	if p.cursor.Is(token.COLON) {
		entries := []ast.MapEntry{}
		p.cursor = p.cursor.Advance()
		val := p.ParseExpression(PrecTernary)
		entries = append(entries, ast.MapEntry{Key: first, Value: val})
		for p.consumeComma() {
			p.skipNewlines()
			if p.cursor.Is(token.RBRACKET) {
				break
			}
			k := p.ParseExpression(PrecTernary)
			p.expect(token.COLON)
			v := p.ParseExpression(PrecTernary)
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
		}
		p.skipNewlines()
		p.expect(token.RBRACKET)
		return &ast.MapLiteralExpr{Base: p.base(start), Entries: entries}
	}

	elems := []ast.Expr{first}
	for p.consumeComma() {
		p.skipNewlines()
		if p.cursor.Is(token.RBRACKET) {
			break
		}
		elems = append(elems, p.ParseExpression(PrecTernary))
	}
	p.skipNewlines()
	p.expect(token.RBRACKET)
	return &ast.ListLiteralExpr{Base: p.base(start), Elements: elems}
}

func (p *Parser) consumeComma() bool {
	p.skipNewlines()
	if p.cursor.Is(token.COMMA) {
		p.cursor = p.cursor.Advance()
		return true
	}
	return false
}

func (p *Parser) parseIfExpr(start token.Position) ast.Expr {
	p.cursor = p.cursor.Advance() // 'if'
	p.expect(token.LPAREN)
	cond := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	p.skipNewlines()
	then := p.parseExprOrBlockExpr()
	p.skipNewlines()
	var elseExpr ast.Expr
	if p.cursor.Is(token.KW_ELSE) {
		p.cursor = p.cursor.Advance()
		p.skipNewlines()
		elseExpr = p.parseExprOrBlockExpr()
	}
	return &ast.IfExpr{Base: p.base(start), Cond: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseExprOrBlockExpr() ast.Expr {
	start := p.cursor.Current().Pos
	if p.cursor.Is(token.LBRACE) {
		p.cursor = p.cursor.Advance()
		body := p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
		return &ast.BlockExpr{Base: p.base(start), Body: body}
	}
	return p.ParseExpression(PrecLowest)
}

func (p *Parser) parseWhenExpr(start token.Position) ast.Expr {
	p.cursor = p.cursor.Advance() // 'when'
	var subject ast.Expr
	if p.cursor.Is(token.LPAREN) {
		p.cursor = p.cursor.Advance()
		subject = p.ParseExpression(PrecLowest)
		p.expect(token.RPAREN)
	}
	p.expect(token.LBRACE)
	p.skipNewlines()

	var branches []*ast.WhenBranch
	for !p.cursor.Is(token.RBRACE) && !p.cursor.IsEOF() {
		branches = append(branches, p.parseWhenBranch())
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return &ast.WhenExpr{Base: p.base(start), Subject: subject, Branches: branches}
}

func (p *Parser) parseWhenBranch() *ast.WhenBranch {
	start := p.cursor.Current().Pos
	br := &ast.WhenBranch{}

	if p.cursor.Is(token.KW_ELSE) {
		p.cursor = p.cursor.Advance()
	} else if p.cursor.Is(token.KW_IS) {
		p.cursor = p.cursor.Advance()
		br.IsIs = true
		br.Types = append(br.Types, p.parseTypeRef())
	} else {
		br.Conds = append(br.Conds, p.ParseExpression(PrecTernary))
		for p.consumeComma() {
			br.Conds = append(br.Conds, p.ParseExpression(PrecTernary))
		}
	}

	p.expect(token.ARROW)
	p.skipNewlines()
	br.Body = p.parseStatement()
	br.Base = p.base(start)
	return br
}

func (p *Parser) parseTryExpr(start token.Position) ast.Expr {
	p.cursor = p.cursor.Advance() // 'try'
	bodyStart := p.cursor.Current().Pos
	p.expect(token.LBRACE)
	bodyBlock := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	body := ast.Expr(&ast.BlockExpr{Base: p.base(bodyStart), Body: bodyBlock})

	var catches []*ast.CatchClause
	for p.cursor.Is(token.KW_CATCH) {
		catches = append(catches, p.parseCatchClause())
	}
	var finally *ast.Block
	if p.cursor.Is(token.KW_FINALLY) {
		p.cursor = p.cursor.Advance()
		p.expect(token.LBRACE)
		finally = p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
	}
	return &ast.TryExpr{Base: p.base(start), Body: body, Catches: catches, Finally: finally}
}

func (p *Parser) parseCatchClause() *ast.CatchClause {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'catch'
	p.expect(token.LPAREN)
	name := ""
	if p.cursor.Is(token.IDENT) {
		name = p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance()
	}
	var typ ast.TypeRef
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		typ = p.parseTypeRef()
	}
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.CatchClause{Base: p.base(start), Name: name, Type: typ, Body: body}
}

func (p *Parser) parseInfix(left ast.Expr, prec Precedence) ast.Expr {
	start := posOfRange(left.Range())
	k := p.cursor.Current().Kind

	switch k {
	case token.DOT:
		p.cursor = p.cursor.Advance()
		name := p.identName()
		return &ast.MemberExpr{Base: p.base(start), Receiver: left, Name: name}

	case token.QUESTION_DOT:
		p.cursor = p.cursor.Advance()
		if p.cursor.Is(token.LBRACKET) {
			return p.finishIndex(left, start, true)
		}
		name := p.identName()
		return &ast.MemberExpr{Base: p.base(start), Receiver: left, Name: name, Safe: true}

	case token.LBRACKET:
		return p.finishIndex(left, start, false)

	case token.LPAREN:
		return p.finishCall(left, start, nil)

	case token.LBRACE:
		// trailing lambda: `f(args) { ... }` or bare `f { ... }`
		lambda := p.parseLambda(p.cursor.Current().Pos, nil).(*ast.LambdaExpr)
		return p.finishCall(left, start, lambda)

	case token.COLON_COLON:
		p.cursor = p.cursor.Advance()
		name := p.identName()
		return &ast.MethodRefExpr{Base: p.base(start), Receiver: left, Name: name}

	case token.BANG_BANG:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpNotNullAssert, Operand: left, Postfix: true}

	case token.PLUS_PLUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpPostInc, Operand: left, Postfix: true}
	case token.MINUS_MINUS:
		p.cursor = p.cursor.Advance()
		return &ast.UnaryExpr{Base: p.base(start), Op: ast.OpPostDec, Operand: left, Postfix: true}

	case token.QUESTION_COLON:
		p.cursor = p.cursor.Advance()
		right := p.ParseExpression(prec - 1)
		return &ast.ElvisExpr{Base: p.base(start), Left: left, Right: right}

	case token.QUESTION:
		// `?` is shared between the ternary conditional and postfix
		// error-propagation (`expr?`); speculatively parse a ternary and
		// fall back to error-propagation if no matching `:` turns up.
		mark := p.cursor.Mark()
		diagMark := p.sink.Checkpoint()
		p.cursor = p.cursor.Advance()
		then := p.ParseExpression(PrecLowest)
		if !p.cursor.Is(token.COLON) {
			p.cursor = p.cursor.ResetTo(mark)
			p.sink.Rollback(diagMark)
			p.cursor = p.cursor.Advance() // consume '?'
			return &ast.ErrorPropagationExpr{Base: p.base(start), Operand: left}
		}
		p.cursor = p.cursor.Advance() // ':'
		els := p.ParseExpression(prec - 1)
		return &ast.IfExpr{Base: p.base(start), Cond: left, Then: then, Else: els}

	case token.PIPE_GT:
		p.cursor = p.cursor.Advance()
		fn := p.ParseExpression(prec)
		return &ast.PipelineExpr{Base: p.base(start), Value: left, Fn: fn}

	case token.KW_IS:
		p.cursor = p.cursor.Advance()
		typ := p.parseTypeRef()
		return &ast.TypeCheckExpr{Base: p.base(start), Operand: left, Type: typ}
	case token.NOT_IS:
		p.cursor = p.cursor.Advance()
		typ := p.parseTypeRef()
		return &ast.TypeCheckExpr{Base: p.base(start), Operand: left, Type: typ, Negated: true}

	case token.KW_AS:
		p.cursor = p.cursor.Advance()
		safe := false
		if p.cursor.Is(token.QUESTION) {
			p.cursor = p.cursor.Advance()
			safe = true
		}
		typ := p.parseTypeRef()
		return &ast.CastExpr{Base: p.base(start), Operand: left, Type: typ, Safe: safe}

	case token.RANGE, token.RANGE_EXCLUSIVE:
		exclusive := k == token.RANGE_EXCLUSIVE
		p.cursor = p.cursor.Advance()
		to := p.ParseExpression(prec)
		rng := &ast.RangeExpr{Base: p.base(start), From: left, To: to, Exclusive: exclusive}
		if p.cursor.Is(token.IDENT) {
			if kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme); ok && kind == token.SOFT_STEP {
				p.cursor = p.cursor.Advance()
				rng.Step = p.ParseExpression(prec)
			}
		}
		return rng

	case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN,
		token.PERCENT_ASSIGN, token.ELVIS_ASSIGN:
		op, compound := assignOp(k)
		p.cursor = p.cursor.Advance()
		right := p.ParseExpression(prec - 1)
		return &ast.AssignExpr{Base: p.base(start), Target: left, Op: op, Value: right, Compound: compound}

	default:
		op, ok := binaryOp(k)
		if !ok {
			p.errorf("unexpected infix operator %s", k)
			p.cursor = p.cursor.Advance()
			return left
		}
		p.cursor = p.cursor.Advance()
		right := p.ParseExpression(prec)
		return &ast.BinaryExpr{Base: p.base(start), Op: op, Left: left, Right: right}
	}
}

func (p *Parser) identName() string {
	if p.cursor.Is(token.IDENT) {
		name := p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance()
		return name
	}
	p.errorf("expected identifier, found %s", p.cursor.Current().Kind)
	return ""
}

func (p *Parser) finishIndex(left ast.Expr, start token.Position, safe bool) ast.Expr {
	p.expect(token.LBRACKET)
	first := p.ParseExpression(PrecLowest)
	if p.cursor.Is(token.RANGE) || p.cursor.Is(token.RANGE_EXCLUSIVE) {
		p.cursor = p.cursor.Advance()
		var to ast.Expr
		if !p.cursor.Is(token.RBRACKET) {
			to = p.ParseExpression(PrecLowest)
		}
		p.expect(token.RBRACKET)
		return &ast.SliceExpr{Base: p.base(start), Receiver: left, From: first, To: to}
	}
	args := []ast.Expr{first}
	for p.consumeComma() {
		args = append(args, p.ParseExpression(PrecLowest))
	}
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Base: p.base(start), Receiver: left, Args: args, Safe: safe}
}

func (p *Parser) finishCall(callee ast.Expr, start token.Position, trailing *ast.LambdaExpr) ast.Expr {
	var args []*ast.Argument
	if p.cursor.Is(token.LPAREN) {
		p.cursor = p.cursor.Advance()
		p.skipNewlines()
		for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
			args = append(args, p.parseArgument())
			if !p.consumeComma() {
				break
			}
		}
		p.skipNewlines()
		p.expect(token.RPAREN)
	}
	if trailing == nil && p.cursor.Is(token.LBRACE) {
		trailing = p.parseLambda(p.cursor.Current().Pos, nil).(*ast.LambdaExpr)
	}
	return &ast.CallExpr{Base: p.base(start), Callee: callee, Args: args, TrailingLambda: trailing}
}

func (p *Parser) parseArgument() *ast.Argument {
	if p.cursor.Is(token.STAR) {
		p.cursor = p.cursor.Advance()
		return &ast.Argument{Value: p.ParseExpression(PrecTernary), Spread: true}
	}
	if p.cursor.Is(token.IDENT) && p.cursor.PeekIs(1, token.ASSIGN) {
		name := p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance().Advance()
		return &ast.Argument{Name: name, Value: p.ParseExpression(PrecTernary)}
	}
	return &ast.Argument{Value: p.ParseExpression(PrecTernary)}
}

func binaryOp(k token.Kind) (ast.BinaryOp, bool) {
	switch k {
	case token.PLUS:
		return ast.OpAdd, true
	case token.MINUS:
		return ast.OpSub, true
	case token.STAR:
		return ast.OpMul, true
	case token.SLASH:
		return ast.OpDiv, true
	case token.PERCENT:
		return ast.OpMod, true
	case token.EQ:
		return ast.OpEq, true
	case token.NOT_EQ:
		return ast.OpNotEq, true
	case token.REF_EQ:
		return ast.OpRefEq, true
	case token.REF_NOT_EQ:
		return ast.OpRefNotEq, true
	case token.LT:
		return ast.OpLt, true
	case token.LE:
		return ast.OpLe, true
	case token.GT:
		return ast.OpGt, true
	case token.GE:
		return ast.OpGe, true
	case token.AND_AND:
		return ast.OpAnd, true
	case token.OR_OR:
		return ast.OpOr, true
	case token.KW_IN:
		return ast.OpIn, true
	case token.NOT_IN:
		return ast.OpNotIn, true
	default:
		return 0, false
	}
}

func assignOp(k token.Kind) (ast.BinaryOp, bool) {
	switch k {
	case token.ASSIGN:
		return 0, false
	case token.PLUS_ASSIGN:
		return ast.OpAdd, true
	case token.MINUS_ASSIGN:
		return ast.OpSub, true
	case token.STAR_ASSIGN:
		return ast.OpMul, true
	case token.SLASH_ASSIGN:
		return ast.OpDiv, true
	case token.PERCENT_ASSIGN:
		return ast.OpMod, true
	case token.ELVIS_ASSIGN:
		return ast.OpElvis, true
	default:
		return 0, false
	}
}

