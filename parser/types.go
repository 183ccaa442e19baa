package parser

import (
	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/token"
)

// parseType parses a union type. Null and undefined variants are folded
// into an Optional around the remaining variants.
func (p *Parser) parseType() ast.TypeExpr {
	start := p.cur.Pos
	if p.cur.IsPunct("|") {
		p.advance()
	}

	first := p.parsePostfix()
	if first == nil {
		return nil
	}
	variants := []ast.TypeExpr{first}
	for p.cur.IsPunct("|") {
		p.advance()
		v := p.parsePostfix()
		if v == nil {
			return nil
		}
		variants = append(variants, v)
	}

	switch {
	case p.cur.IsPunct("&"):
		p.errorAt(p.cur, "intersection types are not supported").
			WithSuggestion("declare an interface that extends both types")
		return nil
	case p.cur.IsKeyword("extends"):
		p.errorAt(p.cur, "conditional types are not supported")
		return nil
	case p.cur.IsPunct("=>"):
		p.errorAt(p.cur, "unexpected '=>'").
			WithSuggestion("wrap the parameter list in parentheses")
		return nil
	}

	if len(variants) == 1 {
		return first
	}
	return foldUnion(start, variants)
}

// foldUnion flattens nested unions and turns nullish variants into an
// Optional wrapper.
func foldUnion(start token.Position, variants []ast.TypeExpr) ast.TypeExpr {
	var rest []ast.TypeExpr
	nullable := false

	var add func(t ast.TypeExpr)
	add = func(t ast.TypeExpr) {
		switch t := t.(type) {
		case *ast.Union:
			for _, v := range t.Variants {
				add(v)
			}
		case *ast.Optional:
			nullable = true
			add(t.Inner)
		default:
			if ast.IsNullish(t) {
				nullable = true
				return
			}
			rest = append(rest, t)
		}
	}
	for _, v := range variants {
		add(v)
	}

	var core ast.TypeExpr
	switch len(rest) {
	case 0:
		return &ast.Primitive{Name: ast.Null, Pos: start}
	case 1:
		core = rest[0]
	default:
		core = &ast.Union{Variants: rest, Pos: start}
	}
	if nullable {
		return &ast.Optional{Inner: core, Pos: start}
	}
	return core
}

// parsePostfix parses a primary type followed by any number of `[]`, and the
// `readonly` array operator.
func (p *Parser) parsePostfix() ast.TypeExpr {
	if p.cur.IsKeyword("readonly") {
		tok := p.cur
		p.advance()
		inner := p.parsePostfix()
		if inner == nil {
			return nil
		}
		arr, ok := inner.(*ast.Array)
		if !ok {
			p.errorAt(tok, "'readonly' is only supported on array types")
			return nil
		}
		arr.Readonly = true
		arr.Pos = tok.Pos
		return arr
	}
	if p.cur.IsKeyword("keyof", "typeof", "unique", "infer") {
		p.errorAt(p.cur, "'%s' type operators are not supported", p.cur.Text)
		return nil
	}

	t := p.parsePrimary()
	if t == nil {
		return nil
	}
	// A '[' after a line break starts the next member, not an array suffix.
	for p.cur.IsPunct("[") && !p.onNewLine() {
		if !p.peek.IsPunct("]") {
			p.errorAt(p.cur, "indexed access types are not supported")
			return nil
		}
		p.advance()
		p.advance()
		t = &ast.Array{Elem: t, Pos: t.Position()}
	}
	return t
}

func (p *Parser) parsePrimary() ast.TypeExpr {
	tok := p.cur
	switch {
	case tok.IsPunct("("):
		return p.parseParenthesized()
	case tok.IsPunct("{"):
		members, ok := p.parseMembers()
		if !ok {
			return nil
		}
		return &ast.Object{Members: members, Pos: tok.Pos}
	case tok.IsPunct("["):
		p.errorAt(tok, "tuple types are not supported").
			WithSuggestion("use an array type such as T[]")
		return nil
	case tok.IsPunct("<"):
		p.errorAt(tok, "generic function types are not supported").
			WithSuggestion("declare a concrete signature for each use")
		return nil
	case tok.Kind == token.String:
		p.advance()
		return &ast.Literal{Value: ast.StringValue(tok.Value), Pos: tok.Pos}
	case tok.Kind == token.Number:
		p.advance()
		v, ok := p.numberValue(tok, false)
		if !ok {
			return nil
		}
		return &ast.Literal{Value: v, Pos: tok.Pos}
	case tok.IsPunct("-") && p.peek.Kind == token.Number:
		p.advance()
		num := p.cur
		p.advance()
		v, ok := p.numberValue(num, true)
		if !ok {
			return nil
		}
		return &ast.Literal{Value: v, Pos: tok.Pos}
	case tok.IsKeyword("new", "abstract"):
		p.errorAt(tok, "constructor types are not supported")
		return nil
	case tok.Kind == token.Identifier:
		return p.parseNamedType()
	}
	p.unexpected("a type")
	return nil
}

func (p *Parser) parseParenthesized() ast.TypeExpr {
	open := p.cur
	p.advance()
	if p.cur.IsPunct(")") || p.cur.IsPunct("...") ||
		(p.cur.IsName() && (p.peek.IsPunct(":") || p.peek.IsPunct("?") || p.peek.IsPunct(","))) {
		params, ok := p.parseParams()
		if !ok {
			return nil
		}
		return p.finishFunctionType(open, params)
	}

	inner := p.parseType()
	if inner == nil {
		return nil
	}
	if !p.expectPunct(")") {
		return nil
	}
	if p.cur.IsPunct("=>") {
		// (name) => R: a single parameter without annotation
		ref, ok := inner.(*ast.Reference)
		if !ok {
			p.unexpected("parameter name")
			return nil
		}
		return p.finishFunctionType(open, []*ast.Param{{Name: ref.Name, Pos: ref.Pos}})
	}
	return inner
}

// parseParams parses a parameter list after its opening parenthesis,
// through the closing one.
func (p *Parser) parseParams() ([]*ast.Param, bool) {
	var params []*ast.Param
	for !p.cur.IsPunct(")") {
		param := &ast.Param{Pos: p.cur.Pos}
		if p.cur.IsPunct("...") {
			param.Rest = true
			p.advance()
		}
		switch {
		case p.cur.IsPunct("{"), p.cur.IsPunct("["):
			p.errorAt(p.cur, "destructured parameters are not supported").
				WithSuggestion("name the parameter and annotate its type")
			return nil, false
		case !p.cur.IsName():
			p.unexpected("parameter name")
			return nil, false
		}
		param.Name = p.cur.Text
		p.advance()
		if p.cur.IsPunct("?") {
			param.Optional = true
			p.advance()
		}
		if p.cur.IsPunct(":") {
			p.advance()
			if param.Type = p.parseType(); param.Type == nil {
				return nil, false
			}
		}
		params = append(params, param)
		if !p.cur.IsPunct(",") {
			break
		}
		p.advance()
	}
	if !p.expectPunct(")") {
		return nil, false
	}
	return params, true
}

func (p *Parser) finishFunctionType(open token.Token, params []*ast.Param) ast.TypeExpr {
	if !p.cur.IsPunct("=>") {
		p.unexpected("'=>' after parameter list")
		return nil
	}
	p.advance()
	ret, async := p.parseReturnType()
	if ret == nil {
		return nil
	}
	return &ast.Function{Params: params, Return: ret, Async: async, Pos: open.Pos}
}

// parseReturnType parses a return type, unwrapping Promise<T> into an
// async T.
func (p *Parser) parseReturnType() (ast.TypeExpr, bool) {
	if p.cur.Kind == token.Identifier && p.cur.Text == "Promise" && p.peek.IsPunct("<") {
		p.advance()
		p.advance()
		t := p.parseType()
		if t == nil || !p.expectPunct(">") {
			return nil, false
		}
		return t, true
	}
	return p.parseType(), false
}

func (p *Parser) parseNamedType() ast.TypeExpr {
	tok := p.cur
	p.advance()

	switch tok.Text {
	case "true", "false":
		return &ast.Literal{Value: ast.BoolValue(tok.Text == "true"), Pos: tok.Pos}
	}

	if p.cur.IsPunct(".") {
		p.errorAt(p.cur, "qualified type names are not supported")
		return nil
	}
	if ast.IsPrimitive(tok.Text) {
		return &ast.Primitive{Name: tok.Text, Pos: tok.Pos}
	}
	if p.cur.IsPunct("<") {
		return p.parseGeneric(tok)
	}
	return &ast.Reference{Name: tok.Text, Pos: tok.Pos}
}

// builtinArity lists the generic types that map onto target collections.
var builtinArity = map[string]int{
	"Array":         1,
	"ReadonlyArray": 1,
	"Set":           1,
	"ReadonlySet":   1,
	"Record":        2,
	"Map":           2,
	"ReadonlyMap":   2,
}

var utilityTypes = map[string]bool{
	"Partial": true, "Required": true, "Readonly": true, "Pick": true, "Omit": true,
	"Exclude": true, "Extract": true, "NonNullable": true, "ReturnType": true,
	"Parameters": true, "InstanceType": true, "Awaited": true, "Promise": true,
}

func (p *Parser) parseGeneric(name token.Token) ast.TypeExpr {
	p.advance()
	var args []ast.TypeExpr
	for {
		arg := p.parseType()
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if !p.cur.IsPunct(",") {
			break
		}
		p.advance()
		if p.cur.IsPunct(">") {
			break
		}
	}
	if !p.expectPunct(">") {
		return nil
	}

	want, builtin := builtinArity[name.Text]
	switch {
	case utilityTypes[name.Text]:
		p.errorAt(name, "utility type %s is not supported", name.Text).
			WithSuggestion("spell out the resulting type")
		return nil
	case !builtin:
		p.errorAt(name, "type arguments on %s are not supported", name.Text).
			WithSuggestion("declare a concrete type instead of a generic one")
		return nil
	case len(args) != want:
		p.errorAt(name, "%s expects %d type argument(s), found %d", name.Text, want, len(args))
		return nil
	}

	switch name.Text {
	case "Array", "ReadonlyArray":
		return &ast.Array{Elem: args[0], Readonly: name.Text == "ReadonlyArray", Pos: name.Pos}
	case "Set", "ReadonlySet":
		return &ast.Set{Elem: args[0], Readonly: name.Text == "ReadonlySet", Pos: name.Pos}
	default:
		return &ast.Map{Key: args[0], Value: args[1], Generic: name.Text, Pos: name.Pos}
	}
}
