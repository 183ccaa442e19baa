package kotlin

import (
	"fmt"
	"strings"

	"github.com/teranos/typetransform/emit"
)

// Hard keywords; soft and modifier keywords are valid identifiers.
var kotlinKeywords = map[string]bool{
	"as": true, "break": true, "class": true, "continue": true, "do": true, "else": true,
	"false": true, "for": true, "fun": true, "if": true, "in": true, "interface": true,
	"is": true, "null": true, "object": true, "package": true, "return": true,
	"super": true, "this": true, "throw": true, "true": true, "try": true,
	"typealias": true, "typeof": true, "val": true, "var": true, "when": true, "while": true,
}

// escape wraps Kotlin hard keywords in backticks.
func escape(ident string) string {
	if kotlinKeywords[ident] {
		return "`" + ident + "`"
	}
	return ident
}

// toKotlinIdent renders a declaration name as a Kotlin type name.
func toKotlinIdent(name string) string {
	ident, _ := emit.Identifier(name)
	return escape(ident)
}

// quote renders s as a Kotlin string literal. Dollar signs are escaped so
// they are not read as templates.
func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '$':
			b.WriteString(`\$`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
