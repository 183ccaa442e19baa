package parser

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/token"
)

// parseStatement parses one top-level statement. It returns nil for
// statements that declare nothing and for declarations that failed to parse.
func (p *Parser) parseStatement() ast.Decl {
	doc := p.leadingDoc()
	start := p.cur.Pos.Offset

	switch {
	case p.cur.IsPunct(";"):
		p.advance()
		return nil
	case p.cur.IsKeyword("import"):
		p.skipStatement()
		return nil
	}

	exported := false
	if p.cur.IsKeyword("export") {
		switch {
		case p.peek.IsPunct("{"), p.peek.IsPunct("*"), p.peek.IsPunct("="), p.peek.IsKeyword("as"):
			p.skipStatement()
			return nil
		}
		exported = true
		p.advance()
		if p.cur.IsKeyword("default") {
			p.advance()
		}
	}
	if p.cur.IsKeyword("declare") {
		p.advance()
	}

	var d ast.Decl
	switch {
	case p.cur.IsKeyword("interface"):
		d = p.parseInterface(doc, exported)
	case p.cur.IsKeyword("type") && p.peek.IsPunct("{"):
		// export type { A, B }
		p.skipStatement()
		return nil
	case p.cur.IsKeyword("type"):
		d = p.parseTypeAlias(doc, exported)
	case p.cur.IsKeyword("enum"):
		d = p.parseEnum(doc, exported, false)
	case p.cur.IsKeyword("const") && p.peek.IsKeyword("enum"):
		p.advance()
		d = p.parseEnum(doc, exported, true)
	default:
		p.unsupportedStatement()
		start = p.cur.Pos.Offset
	}

	p.owner = nil
	if d == nil {
		p.synchronize(start)
	}
	return d
}

func (p *Parser) unsupportedStatement() {
	tok := p.cur
	switch {
	case tok.IsKeyword("class", "abstract"):
		p.errorAt(tok, "classes are not supported").
			WithSuggestion("declare the shape as an interface")
	case tok.IsKeyword("function", "async"):
		p.errorAt(tok, "function declarations are not supported")
	case tok.IsKeyword("const", "let", "var"):
		p.errorAt(tok, "variable declarations are not supported")
	case tok.IsKeyword("namespace", "module"):
		p.errorAt(tok, "namespaces are not supported").
			WithSuggestion("move the declarations to the top level")
	case tok.IsPunct("@"):
		p.errorAt(tok, "decorators are not supported")
	default:
		p.unexpected("a declaration")
	}
}

func (p *Parser) parseInterface(doc string, exported bool) ast.Decl {
	p.advance()
	name, pos, ok := p.expectName("interface name")
	if !ok {
		return nil
	}
	if p.cur.IsPunct("<") {
		p.errorAt(p.cur, "generic interfaces are not supported").
			WithSuggestion("declare a concrete interface for each use")
		return nil
	}

	decl := &ast.InterfaceDecl{Name: name, Pos: pos, Doc: doc, Exported: exported}
	p.owner = decl

	if p.cur.IsKeyword("extends") {
		p.advance()
		for {
			if p.cur.Kind != token.Identifier {
				p.unexpected("interface name after 'extends'")
				return nil
			}
			ref := &ast.Reference{Name: p.cur.Text, Pos: p.cur.Pos}
			p.advance()
			if p.cur.IsPunct("<") {
				p.errorAt(p.cur, "type arguments on %s are not supported", ref.Name)
				return nil
			}
			if p.cur.IsPunct(".") {
				p.errorAt(p.cur, "qualified type names are not supported")
				return nil
			}
			decl.Extends = append(decl.Extends, ref)
			if !p.cur.IsPunct(",") {
				break
			}
			p.advance()
		}
	}

	members, ok := p.parseMembers()
	if !ok {
		return nil
	}
	decl.Members = members
	return decl
}

// parseMembers parses `{ member; ... }` for the current owner.
func (p *Parser) parseMembers() ([]*ast.Member, bool) {
	if !p.expectPunct("{") {
		return nil, false
	}

	var members []*ast.Member
	for !p.cur.IsPunct("}") {
		if p.cur.Kind == token.EOF {
			p.unexpected("'}'")
			return nil, false
		}
		if p.cur.IsPunct(";") || p.cur.IsPunct(",") {
			p.advance()
			continue
		}

		m := p.parseMember()
		if m == nil {
			return nil, false
		}
		members = append(members, m)

		switch {
		case p.cur.IsPunct(";"), p.cur.IsPunct(","):
			p.advance()
		case p.cur.IsPunct("}"), p.onNewLine():
		default:
			p.unexpected("';' after member " + strconv.Quote(m.Name))
			return nil, false
		}
	}
	p.advance()
	return members, true
}

func (p *Parser) parseMember() *ast.Member {
	doc := p.leadingDoc()
	start := p.cur.Pos

	readonly := false
	if p.cur.IsKeyword("readonly") && startsMemberName(p.peek) {
		readonly = true
		p.advance()
	}

	tok := p.cur
	switch {
	case tok.IsPunct("["):
		p.errorAt(tok, "index signatures are not supported").
			WithSuggestion("use Record<string, T> as the member type")
		return nil
	case tok.IsPunct("("), tok.IsPunct("<"):
		p.errorAt(tok, "call signatures are not supported")
		return nil
	case tok.IsKeyword("new") && (p.peek.IsPunct("(") || p.peek.IsPunct("<")):
		p.errorAt(tok, "construct signatures are not supported")
		return nil
	case (tok.Text == "get" || tok.Text == "set") && tok.Kind == token.Identifier && startsMemberName(p.peek):
		p.errorAt(tok, "accessors are not supported").
			WithSuggestion("declare the member as a property")
		return nil
	}

	m := &ast.Member{Doc: doc, Pos: start, Readonly: readonly, Owner: p.owner}
	switch tok.Kind {
	case token.Identifier, token.Keyword:
		m.Name = tok.Text
	case token.String:
		m.Name, m.Quoted = tok.Value, true
	case token.Number:
		m.Name, m.Quoted = tok.Value, true
	default:
		p.unexpected("member name")
		return nil
	}
	p.advance()

	if p.cur.IsPunct("?") {
		m.Optional = true
		p.advance()
	}
	if p.cur.IsPunct("<") {
		p.errorAt(p.cur, "generic methods are not supported").
			WithSuggestion("declare a concrete signature for each use")
		return nil
	}
	if p.cur.IsPunct("(") {
		m.Method = true
		fn := &ast.Function{Pos: p.cur.Pos}
		p.advance()
		params, ok := p.parseParams()
		if !ok {
			return nil
		}
		fn.Params = params
		if p.cur.IsPunct(":") {
			p.advance()
			if fn.Return, fn.Async = p.parseReturnType(); fn.Return == nil {
				return nil
			}
		} else {
			fn.Return = &ast.Primitive{Name: ast.Void, Pos: p.cur.Pos}
		}
		m.Type = fn
		return m
	}
	if !p.cur.IsPunct(":") {
		p.errorAt(tok, "member %q has no type annotation", m.Name).
			WithSuggestion("add ': <type>' after the member name")
		return nil
	}
	p.advance()

	m.Type = p.parseType()
	if m.Type == nil {
		return nil
	}
	return m
}

// startsMemberName reports whether tok can begin a member name, which tells
// a `readonly` modifier apart from a member named readonly.
func startsMemberName(tok token.Token) bool {
	return tok.IsName() || tok.Kind == token.String || tok.Kind == token.Number || tok.IsPunct("[")
}

func (p *Parser) parseTypeAlias(doc string, exported bool) ast.Decl {
	p.advance()
	name, pos, ok := p.expectName("type name")
	if !ok {
		return nil
	}
	if p.cur.IsPunct("<") {
		p.errorAt(p.cur, "generic type aliases are not supported").
			WithSuggestion("declare a concrete type for each use")
		return nil
	}

	decl := &ast.TypeAliasDecl{Name: name, Pos: pos, Doc: doc, Exported: exported}
	p.owner = decl
	if !p.expectPunct("=") {
		return nil
	}
	if decl.Type = p.parseType(); decl.Type == nil {
		return nil
	}
	if !p.endStatement("type alias " + name) {
		return nil
	}
	return decl
}

func (p *Parser) parseEnum(doc string, exported, isConst bool) ast.Decl {
	p.advance()
	name, pos, ok := p.expectName("enum name")
	if !ok {
		return nil
	}
	decl := &ast.EnumDecl{Name: name, Pos: pos, Doc: doc, Exported: exported, Const: isConst}
	p.owner = decl
	if !p.expectPunct("{") {
		return nil
	}

	for !p.cur.IsPunct("}") {
		if p.cur.Kind == token.EOF {
			p.unexpected("'}'")
			return nil
		}
		if p.cur.IsPunct(",") {
			p.advance()
			continue
		}

		m := &ast.EnumMember{Doc: p.leadingDoc(), Pos: p.cur.Pos}
		switch {
		case p.cur.IsName():
			m.Name = p.cur.Text
		case p.cur.Kind == token.String:
			m.Name = p.cur.Value
		case p.cur.IsPunct("["):
			p.errorAt(p.cur, "computed enum member names are not supported")
			return nil
		default:
			p.unexpected("enum member name")
			return nil
		}
		p.advance()

		if p.cur.IsPunct("=") {
			p.advance()
			v, ok := p.parseEnumInit()
			if !ok {
				return nil
			}
			m.Value = &v
		}
		decl.Members = append(decl.Members, m)

		switch {
		case p.cur.IsPunct(","):
			p.advance()
		case p.cur.IsPunct("}"):
		default:
			p.errorAt(p.cur, "computed enum initializers are not supported").
				WithSuggestion("use a string or numeric literal")
			return nil
		}
	}
	p.advance()
	return decl
}

func (p *Parser) parseEnumInit() (ast.LiteralValue, bool) {
	tok := p.cur
	switch {
	case tok.Kind == token.String:
		p.advance()
		return ast.StringValue(tok.Value), true
	case tok.Kind == token.Number:
		p.advance()
		return p.numberValue(tok, false)
	case (tok.IsPunct("-") || tok.IsPunct("+")) && p.peek.Kind == token.Number:
		p.advance()
		num := p.cur
		p.advance()
		return p.numberValue(num, tok.Text == "-")
	}
	p.errorAt(tok, "computed enum initializers are not supported").
		WithSuggestion("use a string or numeric literal")
	return ast.LiteralValue{}, false
}

// numberValue converts a numeric token, which the lexer has already
// validated and stripped of separators.
func (p *Parser) numberValue(tok token.Token, negative bool) (ast.LiteralValue, bool) {
	v := tok.Value
	var n float64
	exact := true
	if lower := strings.ToLower(v); strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		u, err := strconv.ParseUint(lower, 0, 64)
		if err != nil {
			p.errorAt(tok, "numeric literal %s is out of range", tok.Text)
			return ast.LiteralValue{}, false
		}
		var acc big.Accuracy
		n, acc = new(big.Float).SetUint64(u).Float64()
		exact = acc == big.Exact
	} else {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.errorAt(tok, "numeric literal %s is out of range", tok.Text)
			return ast.LiteralValue{}, false
		}
		n = f
		if i, ok := new(big.Int).SetString(v, 10); ok {
			_, acc := new(big.Float).SetInt(i).Float64()
			exact = acc == big.Exact
		}
	}

	raw := tok.Text
	if negative {
		n, raw = -n, "-"+raw
	}
	lit := ast.NumberValue(n, raw)
	lit.Inexact = !exact
	return lit, true
}
