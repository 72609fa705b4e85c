package parser

import (
	"github.com/novaforge/nova/internal/ast"
	"github.com/novaforge/nova/internal/token"
)

// parseTopLevelDecl parses one package-level declaration: a class,
// interface, object, enum, function, property, or type alias, each
// preceded by its optional modifier list. Grounded on the same
// top-level declaration dispatch shape,
// generalized from DWScript's `type`/`procedure`/`function`/`var` surface
// to Nova's `class`/`interface`/`object`/`enum`/`fun`/`val`/`var`/`typealias`.
func (p *Parser) parseTopLevelDecl() ast.Decl {
	mods := p.parseModifiers()

	switch p.cursor.Current().Kind {
	case token.KW_CLASS:
		return p.parseClassDecl(mods)
	case token.KW_INTERFACE:
		return p.parseInterfaceDecl(mods)
	case token.KW_OBJECT:
		return p.parseObjectDecl(mods, false)
	case token.KW_ENUM:
		return p.parseEnumDecl(mods)
	case token.KW_FUN:
		return p.parseFunDecl(mods)
	case token.KW_VAL, token.KW_VAR:
		return p.parsePropertyOrDestructuring(mods)
	case token.KW_TYPEALIAS:
		return p.parseTypeAliasDecl(mods)
	default:
		p.errorf("expected a declaration, found %s", p.cursor.Current().Kind)
		return nil
	}
}

func (p *Parser) parseModifiers() ast.Modifiers {
	var m ast.Modifiers
	for {
		switch p.cursor.Current().Kind {
		case token.KW_PUBLIC:
			m.Visibility = ast.Public
		case token.KW_PRIVATE:
			m.Visibility = ast.Private
		case token.KW_PROTECTED:
			m.Visibility = ast.Protected
		case token.KW_INTERNAL:
			m.Visibility = ast.Internal
		case token.KW_ABSTRACT:
			m.Abstract = true
		case token.KW_OPEN:
			m.Open = true
		case token.KW_FINAL:
			m.Final = true
		case token.KW_OVERRIDE:
			m.Override = true
		case token.KW_SEALED:
			m.Sealed = true
		case token.KW_OPERATOR:
			m.Operator = true
		case token.KW_INFIX:
			m.Infix = true
		case token.KW_INLINE:
			m.Inline = true
		case token.KW_SUSPEND:
			m.Suspend = true
		case token.KW_VARARG:
			m.Vararg = true
		default:
			return m
		}
		p.cursor = p.cursor.Advance()
	}
}

func (p *Parser) parseClassDecl(mods ast.Modifiers) *ast.ClassDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'class'
	decl := &ast.ClassDecl{Modifiers: mods}
	decl.Name = p.identName()
	decl.TypeParams = p.parseTypeParameterList()

	if p.cursor.Is(token.LPAREN) {
		decl.PrimaryParams = p.parsePrimaryConstructorParams()
	}
	p.parseWhereClause(decl.TypeParams)

	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Supertypes = p.parseSupertypeList()
	}

	if p.cursor.Is(token.LBRACE) {
		decl.Members, decl.Companion = p.parseClassBody()
	}

	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseInterfaceDecl(mods ast.Modifiers) *ast.InterfaceDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'interface'
	decl := &ast.InterfaceDecl{}
	decl.Name = p.identName()
	decl.TypeParams = p.parseTypeParameterList()
	p.parseWhereClause(decl.TypeParams)

	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Supertypes = p.parseSupertypeList()
	}
	if p.cursor.Is(token.LBRACE) {
		decl.Members, _ = p.parseClassBody()
	}
	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseObjectDecl(mods ast.Modifiers, companion bool) *ast.ObjectDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'object'
	decl := &ast.ObjectDecl{Companion: companion}
	if p.cursor.Is(token.IDENT) {
		decl.Name = p.identName()
	}
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Supertypes = p.parseSupertypeList()
	}
	if p.cursor.Is(token.LBRACE) {
		decl.Members, _ = p.parseClassBody()
	}
	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseEnumDecl(mods ast.Modifiers) *ast.EnumDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'enum'
	p.expect(token.KW_CLASS)
	decl := &ast.EnumDecl{}
	decl.Name = p.identName()
	if p.cursor.Is(token.LPAREN) {
		decl.PrimaryParams = p.parsePrimaryConstructorParams()
	}
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Supertypes = p.parseSupertypeList()
	}

	p.expect(token.LBRACE)
	p.skipNewlines()
	for p.cursor.Is(token.IDENT) {
		decl.Entries = append(decl.Entries, p.parseEnumEntry())
		if p.cursor.Is(token.COMMA) {
			p.cursor = p.cursor.Advance()
			p.skipNewlines()
			continue
		}
		break
	}
	p.skipNewlines()
	if p.cursor.Is(token.SEMICOLON) {
		p.cursor = p.cursor.Advance()
		p.skipNewlines()
		for !p.cursor.Is(token.RBRACE) && !p.cursor.IsEOF() {
			d := p.parseMemberDecl()
			if d != nil {
				decl.Members = append(decl.Members, d)
			}
			p.skipNewlines()
		}
	}
	p.expect(token.RBRACE)
	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseEnumEntry() *ast.EnumEntry {
	start := p.cursor.Current().Pos
	e := &ast.EnumEntry{Name: p.identName()}
	if p.cursor.Is(token.LPAREN) {
		p.cursor = p.cursor.Advance()
		for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
			e.Args = append(e.Args, p.ParseExpression(PrecTernary))
			if !p.consumeComma() {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	if p.cursor.Is(token.LBRACE) {
		e.Members, _ = p.parseClassBody()
	}
	e.Base = p.base(start)
	return e
}

// parseClassBody parses the `{ ... }` member list of a class, interface,
// object, or enum, recognizing the `constructor`/`init` soft keywords and
// a nested `companion object` declaration.
func (p *Parser) parseClassBody() ([]ast.Decl, *ast.ObjectDecl) {
	p.cursor = p.cursor.Advance() // '{'
	p.skipNewlines()
	var members []ast.Decl
	var companion *ast.ObjectDecl
	for !p.cursor.Is(token.RBRACE) && !p.cursor.IsEOF() {
		if p.cursor.Is(token.KW_COMPANION) {
			p.cursor = p.cursor.Advance()
			companion = p.parseObjectDecl(ast.Modifiers{}, true)
		} else {
			d := p.parseMemberDecl()
			if d != nil {
				members = append(members, d)
			} else {
				p.synchronizeToDecl()
			}
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE)
	return members, companion
}

func (p *Parser) parseMemberDecl() ast.Decl {
	mods := p.parseModifiers()

	if p.cursor.Is(token.IDENT) {
		if kind, ok := token.SoftKeywordKind(p.cursor.Current().Lexeme); ok {
			switch kind {
			case token.SOFT_CONSTRUCTOR:
				return p.parseConstructorDecl(mods)
			case token.SOFT_INIT:
				return p.parseInitBlockDecl()
			}
		}
	}

	switch p.cursor.Current().Kind {
	case token.KW_CLASS:
		return p.parseClassDecl(mods)
	case token.KW_INTERFACE:
		return p.parseInterfaceDecl(mods)
	case token.KW_OBJECT:
		return p.parseObjectDecl(mods, false)
	case token.KW_ENUM:
		return p.parseEnumDecl(mods)
	case token.KW_FUN:
		return p.parseFunDecl(mods)
	case token.KW_VAL, token.KW_VAR:
		return p.parsePropertyOrDestructuring(mods)
	case token.KW_TYPEALIAS:
		return p.parseTypeAliasDecl(mods)
	default:
		p.errorf("expected a member declaration, found %s", p.cursor.Current().Kind)
		return nil
	}
}

func (p *Parser) parseConstructorDecl(mods ast.Modifiers) *ast.ConstructorDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'constructor'
	decl := &ast.ConstructorDecl{Modifiers: mods}
	decl.Params = p.parseParameterList()

	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		if p.cursor.Is(token.KW_SUPER) {
			decl.DelegateSuper = true
			p.cursor = p.cursor.Advance()
		} else {
			p.expect(token.KW_THIS)
		}
		p.expect(token.LPAREN)
		for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
			decl.DelegateArgs = append(decl.DelegateArgs, p.ParseExpression(PrecTernary))
			if !p.consumeComma() {
				break
			}
		}
		p.expect(token.RPAREN)
	}

	if p.cursor.Is(token.LBRACE) {
		p.cursor = p.cursor.Advance()
		decl.Body = p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
	}
	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseInitBlockDecl() *ast.InitBlockDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'init'
	p.expect(token.LBRACE)
	body := p.parseBlockStmts(token.RBRACE)
	p.expect(token.RBRACE)
	return &ast.InitBlockDecl{Base: p.base(start), Body: body}
}

// parseFunDecl parses a `fun` declaration: a free function, an extension
// function (`fun Receiver.name(...)`), or a member/local function.
func (p *Parser) parseFunDecl(mods ast.Modifiers) *ast.FunDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'fun'
	decl := &ast.FunDecl{Modifiers: mods}
	decl.TypeParams = p.parseTypeParameterList()

	name := p.identName()
	if p.cursor.Is(token.DOT) {
		p.cursor = p.cursor.Advance()
		decl.Receiver = &ast.SimpleType{Base: p.base(start), Name: name}
		name = p.identName()
	}
	decl.Name = name

	decl.Params = p.parseParameterList()
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.ReturnType = p.parseTypeRef()
	}
	p.parseWhereClause(decl.TypeParams)

	if p.cursor.Is(token.ASSIGN) {
		p.cursor = p.cursor.Advance()
		decl.ExprBody = p.ParseExpression(PrecLowest)
	} else if p.cursor.Is(token.LBRACE) {
		p.cursor = p.cursor.Advance()
		decl.Body = p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
	}

	decl.Base = p.base(start)
	return decl
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	p.expect(token.LPAREN)
	var params []*ast.Parameter
	for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
		params = append(params, p.parseParameter())
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseParameter() *ast.Parameter {
	start := p.cursor.Current().Pos
	param := &ast.Parameter{}
	if p.cursor.Is(token.KW_VARARG) {
		param.Vararg = true
		p.cursor = p.cursor.Advance()
	}
	param.Name = p.identName()
	p.expect(token.COLON)
	param.Type = p.parseTypeRef()
	if p.cursor.Is(token.ASSIGN) {
		p.cursor = p.cursor.Advance()
		param.Default = p.ParseExpression(PrecTernary)
	}
	param.Base = p.base(start)
	return param
}

// parsePrimaryConstructorParams parses a class's `(val x: Int, var y: String)`
// primary-constructor parameter list, where each parameter may be promoted
// to a property via a leading `val`/`var`.
func (p *Parser) parsePrimaryConstructorParams() []*ast.Parameter {
	p.expect(token.LPAREN)
	var params []*ast.Parameter
	for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
		start := p.cursor.Current().Pos
		param := &ast.Parameter{}
		if p.cursor.Is(token.KW_VARARG) {
			param.Vararg = true
			p.cursor = p.cursor.Advance()
		}
		if p.cursor.Is(token.KW_VAL) {
			param.IsProperty = true
			p.cursor = p.cursor.Advance()
		} else if p.cursor.Is(token.KW_VAR) {
			param.IsProperty = true
			param.Mutable = true
			p.cursor = p.cursor.Advance()
		}
		param.Name = p.identName()
		p.expect(token.COLON)
		param.Type = p.parseTypeRef()
		if p.cursor.Is(token.ASSIGN) {
			p.cursor = p.cursor.Advance()
			param.Default = p.ParseExpression(PrecTernary)
		}
		param.Base = p.base(start)
		params = append(params, param)
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseSupertypeList() []*ast.SupertypeRef {
	var supers []*ast.SupertypeRef
	for {
		supers = append(supers, p.parseSupertypeRef())
		if !p.consumeComma() {
			break
		}
	}
	return supers
}

func (p *Parser) parseSupertypeRef() *ast.SupertypeRef {
	start := p.cursor.Current().Pos
	typ := p.parseTypeRef()
	ref := &ast.SupertypeRef{Type: typ}
	if p.cursor.Is(token.LPAREN) {
		p.cursor = p.cursor.Advance()
		for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
			ref.Args = append(ref.Args, p.ParseExpression(PrecTernary))
			if !p.consumeComma() {
				break
			}
		}
		p.expect(token.RPAREN)
	}
	ref.Base = p.base(start)
	return ref
}

func (p *Parser) parseTypeAliasDecl(mods ast.Modifiers) *ast.TypeAliasDecl {
	start := p.cursor.Current().Pos
	p.cursor = p.cursor.Advance() // 'typealias'
	decl := &ast.TypeAliasDecl{}
	decl.Name = p.identName()
	decl.TypeParams = p.parseTypeParameterList()
	p.expect(token.ASSIGN)
	decl.Aliased = p.parseTypeRef()
	decl.Base = p.base(start)
	return decl
}

// parsePropertyOrDestructuring parses `val`/`var`, dispatching to a
// destructuring declaration when the name position holds a parenthesized
// name list instead of a single identifier.
func (p *Parser) parsePropertyOrDestructuring(mods ast.Modifiers) ast.Decl {
	start := p.cursor.Current().Pos
	mutable := p.cursor.Is(token.KW_VAR)
	p.cursor = p.cursor.Advance() // 'val' or 'var'

	if p.cursor.Is(token.LPAREN) {
		return p.parseDestructuringDecl(start, mutable)
	}

	decl := &ast.PropertyDecl{Mutable: mutable, Modifiers: mods}
	name := p.identName()

	if p.cursor.Is(token.DOT) {
		p.cursor = p.cursor.Advance()
		decl.Receiver = &ast.SimpleType{Base: p.base(start), Name: name}
		name = p.identName()
	}
	decl.Name = name

	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Type = p.parseTypeRef()
	}
	if p.cursor.Is(token.ASSIGN) {
		p.cursor = p.cursor.Advance()
		decl.Initializer = p.ParseExpression(PrecLowest)
	}

	p.parsePropertyAccessors(decl)

	decl.Base = p.base(start)
	return decl
}

// parsePropertyAccessors parses optional custom `get()`/`set(value)` bodies
// immediately following a property declaration, each on its own
// (newline-separated) line per Kotlin-style property syntax.
func (p *Parser) parsePropertyAccessors(decl *ast.PropertyDecl) {
	for {
		mark := p.cursor.Mark()
		p.skipNewlines()
		if p.cursor.Is(token.IDENT) && p.cursor.Current().Lexeme == "get" && p.cursor.PeekIs(1, token.LPAREN) {
			decl.Getter = p.parseAccessor(false)
			continue
		}
		if p.cursor.Is(token.IDENT) && p.cursor.Current().Lexeme == "set" && p.cursor.PeekIs(1, token.LPAREN) {
			decl.Setter = p.parseAccessor(true)
			continue
		}
		p.cursor = p.cursor.ResetTo(mark)
		break
	}
}

func (p *Parser) parseAccessor(isSetter bool) *ast.FunDecl {
	start := p.cursor.Current().Pos
	fn := &ast.FunDecl{Name: p.cursor.Current().Lexeme}
	p.cursor = p.cursor.Advance()
	fn.Params = p.parseParameterList()
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		fn.ReturnType = p.parseTypeRef()
	}
	if p.cursor.Is(token.ASSIGN) {
		p.cursor = p.cursor.Advance()
		fn.ExprBody = p.ParseExpression(PrecLowest)
	} else if p.cursor.Is(token.LBRACE) {
		p.cursor = p.cursor.Advance()
		fn.Body = p.parseBlockStmts(token.RBRACE)
		p.expect(token.RBRACE)
	}
	fn.Base = p.base(start)
	return fn
}

func (p *Parser) parseDestructuringDecl(start token.Position, mutable bool) *ast.DestructuringDecl {
	p.cursor = p.cursor.Advance() // '('
	decl := &ast.DestructuringDecl{Mutable: mutable}
	for !p.cursor.Is(token.RPAREN) && !p.cursor.IsEOF() {
		if p.cursor.Is(token.UNDERSCORE) {
			decl.Names = append(decl.Names, "_")
			p.cursor = p.cursor.Advance()
		} else {
			decl.Names = append(decl.Names, p.identName())
		}
		if !p.consumeComma() {
			break
		}
	}
	p.expect(token.RPAREN)
	if p.cursor.Is(token.COLON) {
		p.cursor = p.cursor.Advance()
		decl.Type = p.parseTypeRef()
	}
	p.expect(token.ASSIGN)
	decl.Initializer = p.ParseExpression(PrecLowest)
	decl.Base = p.base(start)
	return decl
}
