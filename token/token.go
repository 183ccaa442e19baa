// Package token defines the lexical tokens of TypeScript declaration files
// and their source positions.
package token

import (
	"fmt"
	"slices"
)

// Kind identifies the lexical class of a token.
type Kind int

const (
	Illegal Kind = iota
	EOF
	Comment
	Identifier
	Keyword
	Punctuation
	String
	Number
)

var kindNames = [...]string{
	Illegal:     "Illegal",
	EOF:         "EOF",
	Comment:     "Comment",
	Identifier:  "Identifier",
	Keyword:     "Keyword",
	Punctuation: "Punctuation",
	String:      "String",
	Number:      "Number",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText renders the kind by name in JSON and YAML dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Position is a location in source text. Line and Column are 1-based,
// Column counts runes; Offset is a 0-based byte offset.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// IsValid reports whether the position was set.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Token is a single lexeme. Text is the raw source slice; Value holds the
// decoded contents of string literals, the digits of numeric literals
// without separators, and the body of comments.
type Token struct {
	Kind  Kind     `json:"kind" yaml:"kind"`
	Text  string   `json:"text" yaml:"text"`
	Value string   `json:"value,omitempty" yaml:"value,omitempty"`
	Pos   Position `json:"pos" yaml:"pos"`
	End   Position `json:"end" yaml:"end"`
}

// Is reports whether the token has the given kind and raw text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct reports whether the token is the given punctuation.
func (t Token) IsPunct(text string) bool {
	return t.Is(Punctuation, text)
}

// IsKeyword reports whether the token is one of the given keywords.
func (t Token) IsKeyword(words ...string) bool {
	return t.Kind == Keyword && slices.Contains(words, t.Text)
}

// IsName reports whether the token can serve as a property or enum member
// name. TypeScript allows reserved words in these positions.
func (t Token) IsName() bool {
	return t.Kind == Identifier || t.Kind == Keyword
}

func (t Token) String() string {
	switch t.Kind {
	case EOF:
		return "end of file"
	case String:
		return fmt.Sprintf("string %s", t.Text)
	case Number:
		return fmt.Sprintf("number %s", t.Text)
	case Comment:
		return "comment"
	default:
		return fmt.Sprintf("'%s'", t.Text)
	}
}

var keywords = map[string]struct{}{
	"abstract": {}, "as": {}, "class": {}, "const": {}, "declare": {}, "default": {},
	"enum": {}, "export": {}, "extends": {}, "from": {}, "function": {}, "implements": {},
	"import": {}, "infer": {}, "interface": {}, "keyof": {}, "let": {}, "module": {},
	"namespace": {}, "new": {}, "readonly": {}, "type": {}, "typeof": {}, "unique": {},
	"var": {}, "is": {}, "asserts": {}, "async": {},
}

// Lookup classifies an identifier-shaped word.
func Lookup(word string) Kind {
	if _, ok := keywords[word]; ok {
		return Keyword
	}
	return Identifier
}

// IsKeyword reports whether word is a reserved TypeScript keyword in
// declaration context.
func IsKeyword(word string) bool {
	return Lookup(word) == Keyword
}
