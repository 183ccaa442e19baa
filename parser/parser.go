// Package parser builds a CompilationUnit from TypeScript declaration source.
//
// The parser understands the declaration subset that maps onto data types:
// interfaces, type aliases and enums. Anything else is reported as a
// ParseError and skipped, so one pass surfaces every unsupported construct.
package parser

import (
	"fmt"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/lexer"
	"github.com/teranos/typetransform/token"
)

// Parser holds the state of one parse. Use Parse.
type Parser struct {
	name  string
	lex   *lexer.Lexer
	diags diag.List

	cur      token.Token
	peek     token.Token
	comments []token.Token // comments between the previous token and cur
	peekDocs []token.Token
	prevEnd  token.Position // end of the token before cur

	depth int      // '{' consumed and not yet closed
	owner ast.Decl // declaration whose members are being parsed
}

// Parse parses src into a compilation unit. The unit contains every
// declaration that parsed cleanly; the returned diagnostics hold lexical
// and syntax errors in source order.
func Parse(unitName, src string) (*ast.CompilationUnit, diag.List) {
	p := &Parser{name: unitName}
	p.lex = lexer.New(unitName, src, &p.diags)
	p.advance()
	p.advance()

	unit := &ast.CompilationUnit{Name: unitName, Source: src}
	for p.cur.Kind != token.EOF {
		if d := p.parseStatement(); d != nil {
			unit.Decls = append(unit.Decls, d)
		}
	}

	p.diags.Sort()
	return unit, p.diags
}

// advance moves to the next significant token. Comments are collected for
// documentation; illegal tokens were already reported by the lexer and are
// skipped.
func (p *Parser) advance() {
	switch {
	case p.cur.IsPunct("{"):
		p.depth++
	case p.cur.IsPunct("}") && p.depth > 0:
		p.depth--
	}
	if p.cur.End.IsValid() {
		p.prevEnd = p.cur.End
	}
	p.cur, p.comments = p.peek, p.peekDocs
	p.peek, p.peekDocs = p.fetch()
}

func (p *Parser) fetch() (token.Token, []token.Token) {
	var comments []token.Token
	for {
		tok := p.lex.Next()
		switch tok.Kind {
		case token.Comment:
			comments = append(comments, tok)
		case token.Illegal:
			continue
		default:
			return tok, comments
		}
	}
}

// onNewLine reports whether cur starts a line after the previous token.
func (p *Parser) onNewLine() bool {
	return p.prevEnd.IsValid() && p.cur.Pos.Line > p.prevEnd.Line
}

// errorAt records a ParseError spanning tok.
func (p *Parser) errorAt(tok token.Token, format string, args ...interface{}) *diag.Diagnostic {
	d := diag.New(diag.ParseError, tok.Pos, format, args...).WithFile(p.name).WithEnd(tok.End)
	p.diags.Add(d)
	return d
}

// unexpected reports cur where something else was required.
func (p *Parser) unexpected(expected string) *diag.Diagnostic {
	return p.errorAt(p.cur, "expected %s, found %s", expected, p.cur)
}

// expectPunct consumes the punctuation s or reports an error.
func (p *Parser) expectPunct(s string) bool {
	if !p.cur.IsPunct(s) {
		p.unexpected(fmt.Sprintf("'%s'", s))
		return false
	}
	p.advance()
	return true
}

// expectName consumes a declaration name.
func (p *Parser) expectName(what string) (string, token.Position, bool) {
	if !p.cur.IsName() {
		p.unexpected(what)
		return "", token.Position{}, false
	}
	name, pos := p.cur.Text, p.cur.Pos
	p.advance()
	return name, pos, true
}

var declStarts = []string{
	"interface", "type", "enum", "export", "declare", "const", "class", "abstract",
	"function", "let", "var", "namespace", "module", "import",
}

func isDeclStart(tok token.Token) bool {
	return tok.IsKeyword(declStarts...)
}

// synchronize skips to the next top-level declaration keyword. A keyword in
// the first column followed by a name also counts, which recovers from an
// unclosed brace. start is the offset where the failed statement began; the
// parser always moves past it.
func (p *Parser) synchronize(start int) {
	if p.cur.Pos.Offset == start {
		p.advance()
	}
	for p.cur.Kind != token.EOF {
		if isDeclStart(p.cur) {
			if p.depth == 0 {
				return
			}
			if p.cur.Pos.Column == 1 && p.peek.IsName() {
				p.depth = 0
				return
			}
		}
		p.advance()
	}
}

// skipStatement skips an import or re-export statement.
func (p *Parser) skipStatement() {
	startDepth, startLine := p.depth, p.cur.Pos.Line
	p.advance()
	for p.cur.Kind != token.EOF {
		if p.depth == startDepth {
			if p.cur.IsPunct(";") {
				p.advance()
				return
			}
			if p.cur.Pos.Line > startLine && isDeclStart(p.cur) {
				return
			}
		}
		p.advance()
	}
}

// endStatement consumes an optional ';'. A statement may also end at a line
// break, a closing brace or the end of input.
func (p *Parser) endStatement(what string) bool {
	switch {
	case p.cur.IsPunct(";"):
		p.advance()
	case p.cur.Kind == token.EOF, p.cur.IsPunct("}"), p.onNewLine():
	default:
		p.unexpected(fmt.Sprintf("';' after %s", what))
		return false
	}
	return true
}
