package parser

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/token"
)

// parseTypeRef parses a type reference: a simple or generic name, a
// function type, or any of those suffixed with `?`. Grounded on
// DWScript's internal/parser type-reference parsing (simple/array/record
// type dispatch by leading token), adapted to Nova's generic and
// nullable-suffix grammar instead of DWScript's array-of/set-of forms.
func (p *Parser) parseTypeRef() ast.TypeRef {
	var t ast.TypeRef
	if p.cursor.Is(token.KW_SUSPEND) || p.cursor.Is(token.LPAREN) {
		t = p.parseFunctionType()
	} else {
		t = p.parseNamedType()
		if p.cursor.Is(token.DOT) && p.cursor.PeekIs(1, token.LPAREN) {
			t = p.parseFunctionTypeWithReceiver(t)
		}
	}

	for p.cursor.Is(token.QUESTION) {
		start := p.cursor.Current().Pos
		p.cursor = p.cursor.Advance()
		t = &ast.NullableType{Base: p.base(start), Inner: t}
	}
	return t
}

func (p *Parser) parseNamedType() ast.TypeRef {
	start := p.cursor.Current().Pos
	name := p.identName()

	if !p.cursor.Is(token.LT) {
		return &ast.SimpleType{Base: p.base(start), Name: name}
	}

	p.cursor = p.cursor.Advance() // '<'
	var args []*ast.TypeArgument
	for !p.cursor.Is(token.GT) && !p.cursor.IsEOF() {
		args = append(args, p.parseTypeArgument())
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.GT)
	return &ast.GenericType{Base: p.base(start), Name: name, Args: args}
}

func (p *Parser) parseTypeArgument() *ast.TypeArgument {
	start := p.cursor.Current().Pos
	if p.cursor.Is(token.STAR) {
		p.cursor = p.cursor.Advance()
		return &ast.TypeArgument{Base: p.base(start), Wildcard: true}
	}

	variance := ast.Invariant
	if p.cursor.Is(token.KW_IN) {
		variance = ast.In
		p.cursor = p.cursor.Advance()
	} else if p.cursor.Is(token.IDENT) {
		if kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme); ok && kind == token.SOFT_OUT {
			variance = ast.Out
			p.cursor = p.cursor.Advance()
		}
	}

	typ := p.parseTypeRef()
	return &ast.TypeArgument{Base: p.base(start), Type: typ, Variance: variance}
}

func (p *Parser) parseFunctionType() ast.TypeRef {
	start := p.cursor.Current().Pos
	suspend := false
	if p.cursor.Is(token.KW_SUSPEND) {
		suspend = true
		p.cursor = p.cursor.Advance()
	}
	params := p.parseFunctionTypeParams()
	p.expect(token.ARROW)
	ret := p.parseTypeRef()
	return &ast.FunctionType{Base: p.base(start), Params: params, Return: ret, Suspend: suspend}
}

func (p *Parser) parseFunctionTypeWithReceiver(receiver ast.TypeRef) ast.TypeRef {
	start := posOfRange(receiver.Range())
	p.cursor = p.cursor.Advance() // '.'
	params := p.parseFunctionTypeParams()
	p.expect(token.ARROW)
	ret := p.parseTypeRef()
	return &ast.FunctionType{Base: p.base(start), Receiver: receiver, Params: params, Return: ret}
}

func (p *Parser) parseFunctionTypeParams() []ast.TypeRef {
	p.expect(token.LPAREN)
	var params []ast.TypeRef
	for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
		params = append(params, p.parseTypeRef())
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseTypeParameterList parses a `<T, out U : Bound, ...>` declaration-site
// generic parameter list, promoting the `out` soft keyword and the `in`
// keyword contextually; a `where` clause is parsed separately by
// parseWhereClause. Returns nil if no `<` is present.
func (p *Parser) parseTypeParameterList() []*ast.TypeParameter {
	if !p.cursor.Is(token.LT) {
		return nil
	}
	p.cursor = p.cursor.Advance()
	var params []*ast.TypeParameter
	for !p.cursor.Is(token.GT) && !p.cursor.IsEOF() {
		params = append(params, p.parseTypeParameter())
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.GT)
	return params
}

func (p *Parser) parseTypeParameter() *ast.TypeParameter {
	start := p.cursor.Current().Pos
	tp := &ast.TypeParameter{}

	if p.cursor.Is(token.KW_IN) {
		tp.Variance = ast.In
		p.cursor = p.cursor.Advance()
	} else if p.cursor.Is(token.IDENT) {
		if kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme); ok && kind == token.SOFT_OUT {
			tp.Variance = ast.Out
			p.cursor = p.cursor.Advance()
		}
	}

	tp.Name = p.identName()

	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		tp.UpperBound = p.parseTypeRef()
	}

	tp.Base = p.base(start)
	return tp
}

// parseWhereClause consumes an optional `where T : Bound, U : Bound` clause
// following a declaration's parameter list, merging each bound into the
// matching already-parsed TypeParameter.
func (p *Parser) parseWhereClause(params []*ast.TypeParameter) {
	if !p.cursor.Is(token.IDENT) {
		return
	}
	kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme)
	if !ok || kind != token.SOFT_WHERE {
		return
	}
	p.cursor = p.cursor.Advance()

	for {
		name := p.identName()
		p.expect(token.COLON)
		bound := p.parseTypeRef()
		for _, tp := range params {
			if tp.Name == name {
				tp.UpperBound = bound
				break
			}
		}
		if !p.consumeComma() {
			break
		}
	}
}
