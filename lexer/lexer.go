// Package lexer turns TypeScript declaration source into tokens.
package lexer

import (
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/token"
)

// Lexer scans one source text. It is not safe for concurrent use; All
// returns independent scans that may run concurrently with each other.
type Lexer struct {
	name  string
	src   string
	diags *diag.List

	offset int // byte offset of the next rune
	line   int
	column int
	done   bool

	reported bool // a full pass has already recorded its diagnostics
}

// New creates a lexer for src. Lexical errors are appended to diags, which
// may be nil to discard them.
func New(name, src string, diags *diag.List) *Lexer {
	return &Lexer{name: name, src: src, diags: diags, line: 1, column: 1}
}

// Next returns the next token. After the end of input it keeps returning EOF.
func (l *Lexer) Next() token.Token {
	if l.offset == 0 && strings.HasPrefix(l.src, "#!") {
		l.skipLine()
	}
	l.skipWhitespace()

	start := l.pos()
	if l.offset >= len(l.src) {
		if !l.done {
			l.done = true
			l.reported = true
		}
		return token.Token{Kind: token.EOF, Pos: start, End: start}
	}

	r, size := l.peekRune(0)
	switch {
	case r == utf8.RuneError && size == 1:
		l.advance()
		return l.illegal(start, "invalid UTF-8 encoding")
	case r == '/' && l.peekByte(1) == '/':
		return l.lineComment(start)
	case r == '/' && l.peekByte(1) == '*':
		return l.blockComment(start)
	case r == '"' || r == '\'':
		return l.stringLiteral(start, byte(r))
	case r == '`':
		return l.templateLiteral(start)
	case isDigit(r) || (r == '.' && isDigit(rune(l.peekByte(1)))):
		return l.number(start)
	case isIdentStart(r):
		return l.identifier(start)
	}
	return l.punctuation(start, r)
}

// All returns a restartable sequence of every token in the source, ending
// with exactly one EOF token. Each iteration scans from the beginning;
// diagnostics are recorded only by the first complete pass.
func (l *Lexer) All() iter.Seq[token.Token] {
	return func(yield func(token.Token) bool) {
		diags := l.diags
		if l.reported {
			diags = nil
		}
		scan := New(l.name, l.src, diags)
		for {
			tok := scan.Next()
			if tok.Kind == token.EOF {
				l.reported = true
				yield(tok)
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans src completely and returns its tokens and lexical diagnostics.
func Tokenize(name, src string) ([]token.Token, diag.List) {
	var diags diag.List
	var toks []token.Token
	for tok := range New(name, src, &diags).All() {
		toks = append(toks, tok)
	}
	return toks, diags
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.offset}
}

func (l *Lexer) peekRune(ahead int) (rune, int) {
	off := l.offset + ahead
	if off >= len(l.src) {
		return 0, 0
	}
	return utf8.DecodeRuneInString(l.src[off:])
}

func (l *Lexer) peekByte(ahead int) byte {
	off := l.offset + ahead
	if off >= len(l.src) {
		return 0
	}
	return l.src[off]
}

// advance consumes one rune and keeps line and column current.
func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.offset < len(l.src) {
		r, _ := l.peekRune(0)
		if !unicode.IsSpace(r) && r != '\uFEFF' {
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipLine() {
	for l.offset < len(l.src) && l.src[l.offset] != '\n' {
		l.advance()
	}
}

func (l *Lexer) errorf(start token.Position, format string, args ...interface{}) {
	if l.diags == nil {
		return
	}
	l.diags.Add(diag.New(diag.LexError, start, format, args...).WithFile(l.name).WithEnd(l.pos()))
}

func (l *Lexer) illegal(start token.Position, format string, args ...interface{}) token.Token {
	l.errorf(start, format, args...)
	return l.make(token.Illegal, start, "")
}

func (l *Lexer) make(kind token.Kind, start token.Position, value string) token.Token {
	return token.Token{
		Kind:  kind,
		Text:  l.src[start.Offset:l.offset],
		Value: value,
		Pos:   start,
		End:   l.pos(),
	}
}

func (l *Lexer) lineComment(start token.Position) token.Token {
	l.skipLine()
	tok := l.make(token.Comment, start, "")
	tok.Text = strings.TrimRight(tok.Text, "\r")
	tok.Value = strings.TrimPrefix(tok.Text, "//")
	return tok
}

func (l *Lexer) blockComment(start token.Position) token.Token {
	l.advance()
	l.advance()
	for l.offset < len(l.src) {
		if l.src[l.offset] == '*' && l.peekByte(1) == '/' {
			l.advance()
			l.advance()
			tok := l.make(token.Comment, start, "")
			tok.Value = tok.Text[2 : len(tok.Text)-2]
			return tok
		}
		l.advance()
	}
	return l.illegal(start, "unterminated block comment")
}

func (l *Lexer) stringLiteral(start token.Position, quote byte) token.Token {
	l.advance()
	var value strings.Builder
	for {
		if l.offset >= len(l.src) || l.src[l.offset] == '\n' || l.src[l.offset] == '\r' {
			return l.illegal(start, "unterminated string literal")
		}
		c := l.src[l.offset]
		if c == quote {
			l.advance()
			return l.make(token.String, start, value.String())
		}
		if c == '\\' {
			l.escape(&value)
			continue
		}
		value.WriteRune(l.advance())
	}
}

// templateLiteral accepts template strings without substitutions, which are
// equivalent to plain string literals in type position.
func (l *Lexer) templateLiteral(start token.Position) token.Token {
	l.advance()
	var value strings.Builder
	for {
		if l.offset >= len(l.src) {
			return l.illegal(start, "unterminated template literal")
		}
		c := l.src[l.offset]
		switch {
		case c == '`':
			l.advance()
			return l.make(token.String, start, value.String())
		case c == '\\':
			l.escape(&value)
		case c == '$' && l.peekByte(1) == '{':
			l.skipTemplate()
			return l.illegal(start, "template literal types are not supported")
		default:
			value.WriteRune(l.advance())
		}
	}
}

// skipTemplate consumes the rest of a template literal including nested
// substitutions so scanning can resume after it.
func (l *Lexer) skipTemplate() {
	depth := 0
	for l.offset < len(l.src) {
		c := l.src[l.offset]
		switch {
		case c == '\\':
			l.advance()
			if l.offset < len(l.src) {
				l.advance()
			}
			continue
		case c == '$' && l.peekByte(1) == '{':
			l.advance()
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == '`' && depth == 0:
			l.advance()
			return
		}
		l.advance()
	}
}

// escape decodes one backslash escape sequence into value.
func (l *Lexer) escape(value *strings.Builder) {
	escStart := l.pos()
	l.advance()
	if l.offset >= len(l.src) {
		return
	}
	r := l.advance()
	switch r {
	case 'n':
		value.WriteByte('\n')
	case 't':
		value.WriteByte('\t')
	case 'r':
		value.WriteByte('\r')
	case 'b':
		value.WriteByte('\b')
	case 'f':
		value.WriteByte('\f')
	case 'v':
		value.WriteByte('\v')
	case '0':
		value.WriteByte(0)
	case '\r':
		if l.peekByte(0) == '\n' {
			l.advance()
		}
	case '\n', '\u2028', '\u2029':
		// line continuation
	case 'x':
		l.hexEscape(value, escStart, 2)
	case 'u':
		if l.peekByte(0) == '{' {
			l.advance()
			digits := l.takeWhile(isHexDigit)
			if l.peekByte(0) != '}' || digits == "" {
				l.errorf(escStart, "invalid unicode escape sequence")
				return
			}
			l.advance()
			writeCodePoint(value, digits, func() { l.errorf(escStart, "invalid unicode escape sequence") })
			return
		}
		l.hexEscape(value, escStart, 4)
	default:
		value.WriteRune(r)
	}
}

func (l *Lexer) hexEscape(value *strings.Builder, escStart token.Position, n int) {
	var digits strings.Builder
	for i := 0; i < n; i++ {
		if !isHexDigit(rune(l.peekByte(0))) {
			l.errorf(escStart, "invalid hexadecimal escape sequence")
			return
		}
		digits.WriteRune(l.advance())
	}
	writeCodePoint(value, digits.String(), func() { l.errorf(escStart, "invalid hexadecimal escape sequence") })
}

func writeCodePoint(value *strings.Builder, hex string, fail func()) {
	cp, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || cp > unicode.MaxRune {
		fail()
		return
	}
	value.WriteRune(rune(cp))
}

func (l *Lexer) takeWhile(pred func(rune) bool) string {
	start := l.offset
	for l.offset < len(l.src) {
		r, _ := l.peekRune(0)
		if !pred(r) {
			break
		}
		l.advance()
	}
	return l.src[start:l.offset]
}

func (l *Lexer) number(start token.Position) token.Token {
	valid := true
	if l.peekByte(0) == '0' && strings.ContainsRune("xXoObB", rune(l.peekByte(1))) {
		prefix := l.peekByte(1) | 0x20
		l.advance()
		l.advance()
		digit := map[byte]func(rune) bool{
			'x': isHexDigit,
			'o': func(r rune) bool { return r >= '0' && r <= '7' },
			'b': func(r rune) bool { return r == '0' || r == '1' },
		}[prefix]
		valid = l.digits(digit)
	} else {
		if l.peekByte(0) != '.' {
			valid = l.digits(isDigit)
		}
		if l.peekByte(0) == '.' && isDigit(rune(l.peekByte(1))) {
			l.advance()
			valid = l.digits(isDigit) && valid
		} else if l.peekByte(0) == '.' && !isIdentStart(rune(l.peekByte(1))) && l.peekByte(1) != '.' {
			// trailing dot: "1."
			l.advance()
		}
		if c := l.peekByte(0); c == 'e' || c == 'E' {
			l.advance()
			if c := l.peekByte(0); c == '+' || c == '-' {
				l.advance()
			}
			valid = l.digits(isDigit) && valid
		}
	}
	if l.peekByte(0) == 'n' {
		l.advance()
	}

	if r, _ := l.peekRune(0); isIdentStart(r) || isDigit(r) {
		l.takeWhile(isIdentPart)
		return l.illegal(start, "invalid numeric literal %q", l.src[start.Offset:l.offset])
	}
	if !valid {
		return l.illegal(start, "invalid numeric literal %q", l.src[start.Offset:l.offset])
	}

	tok := l.make(token.Number, start, "")
	value := strings.ReplaceAll(tok.Text, "_", "")
	tok.Value = strings.TrimSuffix(value, "n")
	return tok
}

// digits consumes a digit run with single '_' separators between digits.
// It reports false for an empty run or a misplaced separator.
func (l *Lexer) digits(pred func(rune) bool) bool {
	n := 0
	prevSep := false
	for l.offset < len(l.src) {
		r := rune(l.src[l.offset])
		switch {
		case pred(r):
			prevSep = false
			n++
		case r == '_' && n > 0 && !prevSep && pred(rune(l.peekByte(1))):
			prevSep = true
		default:
			return n > 0
		}
		l.advance()
	}
	return n > 0
}

func (l *Lexer) identifier(start token.Position) token.Token {
	l.takeWhile(isIdentPart)
	tok := l.make(token.Identifier, start, "")
	tok.Kind = token.Lookup(tok.Text)
	return tok
}

// punctuators lists multi-character punctuation, longest first.
var punctuators = []string{"...", "=>", "?.", "??"}

const singlePunct = "{}()[]<>,;:?|&=.-+*!@%^~/#"

func (l *Lexer) punctuation(start token.Position, r rune) token.Token {
	rest := l.src[l.offset:]
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return l.make(token.Punctuation, start, "")
		}
	}
	l.advance()
	if r < utf8.RuneSelf && strings.IndexByte(singlePunct, byte(r)) >= 0 {
		return l.make(token.Punctuation, start, "")
	}
	return l.illegal(start, "unexpected character %q", r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= utf8.RuneSelf && unicode.IsLetter(r))
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r) ||
		(r >= utf8.RuneSelf && (unicode.IsDigit(r) || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)))
}
