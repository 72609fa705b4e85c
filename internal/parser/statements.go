package parser

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/token"
)

// parseStatement dispatches on the current token's kind to the matching
// statement form, falling back to an expression statement (itself possibly
// a local declaration wrapped as DeclarationStmt). Grounded on
// DWScript's internal/parser statement dispatch (one case per leading
// keyword, expression-statement fallthrough default).
func (p *Parser) parseStatement() ast.Stmt {
	start := p.cursor.Current().Pos

	if label, ok := p.tryParseLabel(); ok {
		inner := p.parseStatement()
		return &ast.LabeledStmt{Base: p.base(start), Label: label, Stmt: inner}
	}

	switch p.cursor.Current().Kind {
	case token.LBRACE:
		p.cursor = p.cursor.Advance()
		b := p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
		return b

	case token.KW_VAL, token.KW_VAR:
		return p.parseLocalDeclStmt(start)

	case token.KW_IF:
		return p.parseIfStmt(start, "")

	case token.KW_WHEN:
		return p.parseWhenStmt(start)

	case token.KW_FOR:
		return p.parseForStmt(start, "")

	case token.KW_WHILE:
		return p.parseWhileStmt(start, "")

	case token.KW_DO:
		return p.parseDoWhileStmt(start, "")

	case token.KW_TRY:
		return p.parseTryStmt(start)

	case token.KW_RETURN:
		return p.parseReturnStmt(start)

	case token.KW_BREAK:
		return p.parseBreakStmt(start)

	case token.KW_CONTINUE:
		return p.parseContinueStmt(start)

	case token.KW_THROW:
		return p.parseThrowStmt(start)

	case token.KW_USE:
		return p.parseUseStmt(start)

	case token.KW_FUN:
		return &ast.DeclarationStmt{Base: p.base(start), Decl: p.parseFunDecl(nil)}

	case token.IDENT:
		if kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme); ok && kind == token.SOFT_GUARD {
			return p.parseGuardStmt(start)
		}
	}

	expr := p.ParseExpression(PrecLowest)
	return &ast.ExpressionStmt{Base: p.base(start), Expr: expr}
}

func (p *Parser) tryParseLabel() (string, bool) {
	if !p.cursor.Is(token.IDENT) || !p.cursor.PeekIs(1, token.AT) {
		return "", false
	}
	if !p.cursor.PeekIs(2, token.KW_FOR) && !p.cursor.PeekIs(2, token.KW_WHILE) &&
		!p.cursor.PeekIs(2, token.KW_DO) && !p.cursor.PeekIs(2, token.LBRACE) {
		return "", false
	}
	label := p.cursor.Current().Lexeme
	p.cursor = p.cursor.AdvanceN(2)
	return label, true
}

func (p *Parser) parseLocalDeclStmt(start token.Position) ast.Stmt {
	decl := p.parsePropertyOrDestructuring(nil)
	return &ast.DeclarationStmt{Base: p.base(start), Decl: decl}
}

func (p *Parser) parseIfStmt(start token.Position, _ string) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'if'
	p.expect(token.LPAREN)
	cond := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	p.skipNewlines()
	then := p.parseStatement()
	mark := p.cursor.Mark()
	p.skipNewlines()
	var elseStmt ast.Stmt
	if p.cursor.Is(token.KW_ELSE) {
		p.cursor = p.cursor.Advance()
		p.skipNewlines()
		elseStmt = p.parseStatement()
	} else {
		p.cursor = p.cursor.ResetTo(mark)
	}
	return &ast.IfStmt{Base: p.base(start), Cond: cond, Then: then, Else: elseStmt}
}

func (p *Parser) parseWhenStmt(start token.Position) ast.Stmt {
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
	return &ast.WhenStmt{Base: p.base(start), Subject: subject, Branches: branches}
}

func (p *Parser) parseForStmt(start token.Position, label string) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'for'
	p.expect(token.LPAREN)
	name := p.identName()
	var varType ast.TypeRef
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		varType = p.parseTypeRef()
	}
	p.expect(token.KW_IN)
	iterable := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	p.skipNewlines()
	body := p.parseStatement()
	return &ast.ForStmt{Base: p.base(start), VarName: name, VarType: varType, Iterable: iterable, Body: body, Label: label}
}

func (p *Parser) parseWhileStmt(start token.Position, label string) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'while'
	p.expect(token.LPAREN)
	cond := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	p.skipNewlines()
	body := p.parseStatement()
	return &ast.WhileStmt{Base: p.base(start), Cond: cond, Body: body, Label: label}
}

func (p *Parser) parseDoWhileStmt(start token.Position, label string) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'do'
	p.skipNewlines()
	body := p.parseStatement()
	p.skipNewlines()
	p.expect(token.KW_WHILE)
	p.expect(token.LPAREN)
	cond := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	return &ast.DoWhileStmt{Base: p.base(start), Body: body, Cond: cond, Label: label}
}

func (p *Parser) parseTryStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'try'
	p.expect(token.LBRACE)
	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)

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
	return &ast.TryStmt{Base: p.base(start), Body: body, Catches: catches, Finally: finally}
}

func (p *Parser) parseReturnStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'return'
	var value ast.Expr
	if p.startsExpression() {
		value = p.ParseExpression(PrecLowest)
	}
	return &ast.ReturnStmt{Base: p.base(start), Value: value}
}

func (p *Parser) parseBreakStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'break'
	return &ast.BreakStmt{Base: p.base(start), Label: p.consumeLabel()}
}

func (p *Parser) parseContinueStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'continue'
	return &ast.ContinueStmt{Base: p.base(start), Label: p.consumeLabel()}
}

func (p *Parser) parseThrowStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'throw'
	return &ast.ThrowStmt{Base: p.base(start), Value: p.ParseExpression(PrecLowest)}
}

// parseJumpStmt parses the same return/break/continue/throw forms for use
// in expression position (wrapped by ast.JumpExpr).
func (p *Parser) parseJumpStmt() ast.Stmt {
	start := p.cursor.Current().Pos
	switch p.cursor.Current().Kind {
	case token.KW_RETURN:
		return p.parseReturnStmt(start)
	case token.KW_BREAK:
		return p.parseBreakStmt(start)
	case token.KW_CONTINUE:
		return p.parseContinueStmt(start)
	case token.KW_THROW:
		return p.parseThrowStmt(start)
	default:
		p.errorf("expected a jump statement, found %s", p.cursor.Current().Kind)
		return nil
	}
}

// startsExpression reports whether the current token can begin an
// expression, used to distinguish a bare `return` from `return expr` when
// a newline or closing brace immediately follows.
func (p *Parser) startsExpression() bool {
	switch p.cursor.Current().Kind {
	case token.NEWLINE, token.RBRACE, token.EOF, token.SEMICOLON:
		return false
	default:
		return true
	}
}

func (p *Parser) parseGuardStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'guard' (soft keyword, IDENT-lexed)
	cond := p.ParseExpression(PrecLowest)
	p.expect(token.KW_ELSE)
	p.expect(token.LBRACE)
	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.GuardStmt{Base: p.base(start), Cond: cond, Body: body}
}

func (p *Parser) parseUseStmt(start token.Position) ast.Stmt {
	p.cursor = p.cursor.Advance() // 'use'
	p.expect(token.LPAREN)
	name := ""
	if p.cursor.Is(token.IDENT) && p.cursor.PeekIs(1, token.ASSIGN) {
		name = p.cursor.Current().Lexeme
		p.cursor = p.cursor.Advance().Advance()
	}
	resource := p.ParseExpression(PrecLowest)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.UseStmt{Base: p.base(start), VarName: name, Resource: resource, Body: body}
}
