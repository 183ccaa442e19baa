package emit

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/typetransform/ast"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s is a plain ASCII identifier.
func IsIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// Words splits s into words at separators and case boundaries. Acronyms
// stay together: "HTTPServerURL" -> ["HTTP", "Server", "URL"].
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if i > 0 && unicode.IsUpper(r) && len(cur) > 0 {
			prev := runes[i-1]
			prevUpper := unicode.IsUpper(prev)
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !prevUpper || nextLower {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// PascalCase joins the words of s with each first letter upper-cased and the
// rest kept: "shipping_address" -> "ShippingAddress", "userID" -> "UserID".
func PascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		runes := []rune(w)
		b.WriteRune(unicode.ToUpper(runes[0]))
		b.WriteString(string(runes[1:]))
	}
	return b.String()
}

// CamelCase joins the words of s in lowerCamelCase. All-caps words are
// lowered first: "HTTP_ERROR" -> "httpError", "LightBlue" -> "lightBlue".
func CamelCase(s string) string {
	var b strings.Builder
	for i, w := range Words(s) {
		if strings.ToUpper(w) == w {
			w = strings.ToLower(w)
		}
		runes := []rune(w)
		if i == 0 {
			runes[0] = unicode.ToLower(runes[0])
		} else {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

// ScreamingSnake joins the words of s in SCREAMING_SNAKE_CASE.
func ScreamingSnake(s string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

// Identifier returns name when it is a plain identifier. Other names, such
// as quoted members like "content-type", become lowerCamelCase; renamed
// reports the change.
func Identifier(name string) (ident string, renamed bool) {
	if IsIdentifier(name) {
		return name, false
	}
	ident = CamelCase(name)
	switch {
	case ident == "":
		ident = "_"
	case unicode.IsDigit([]rune(ident)[0]):
		ident = "_" + ident
	}
	return ident, true
}

// CaseName derives an enum case name source from a literal value. The
// result still needs target casing.
func CaseName(v string) string {
	if strings.TrimSpace(v) == "" {
		return "empty"
	}
	if strings.HasPrefix(v, "-") {
		v = "minus " + v[1:]
	}
	if words := Words(v); len(words) > 0 && unicode.IsDigit([]rune(words[0])[0]) {
		v = "value " + v
	}
	return v
}

// Unique suffixes repeated names with 2, 3, ... in order of appearance.
func Unique(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		seen[n]++
		if seen[n] == 1 {
			out[i] = n
			continue
		}
		candidate := n + strconv.Itoa(seen[n])
		for seen[candidate] > 0 {
			seen[n]++
			candidate = n + strconv.Itoa(seen[n])
		}
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}

// MemberIdentifiers returns a distinct identifier for each member. Members
// whose names already are identifiers keep them; repaired names and repeats
// get a numeric suffix on collision. Overloads of a method share one
// identifier.
func MemberIdentifiers(members []*ast.Member) []string {
	out := make([]string, len(members))
	used := make(map[string]bool, len(members))
	methods := make(map[string]string)

	assign := func(i int, ident string) {
		m := members[i]
		if m.Method {
			if prev, ok := methods[m.Name]; ok {
				out[i] = prev
				return
			}
		}
		candidate := ident
		for n := 2; used[candidate]; n++ {
			candidate = ident + strconv.Itoa(n)
		}
		used[candidate] = true
		out[i] = candidate
		if m.Method {
			methods[m.Name] = candidate
		}
	}
	for i, m := range members {
		if IsIdentifier(m.Name) && !used[m.Name] {
			assign(i, m.Name)
		}
	}
	for i, m := range members {
		if out[i] == "" {
			ident, _ := Identifier(m.Name)
			assign(i, ident)
		}
	}
	return out
}

// NestedNames picks names for the types generated from inline objects in
// one scope. A picked name is never picked twice and never one that
// Reserved reports, so a nested type cannot shadow a declaration.
type NestedNames struct {
	Reserved func(name string) bool
	used     map[string]bool
}

// Pick returns the member name in PascalCase, else the owner name followed
// by it, else that with a numeric suffix.
func (n *NestedNames) Pick(owner, member string) string {
	if n.used == nil {
		n.used = map[string]bool{}
	}
	base := PascalCase(member)
	if base == "" {
		base = "Nested"
	}
	candidates := []string{base}
	if owner != "" {
		candidates = append(candidates, owner+base)
	}
	for _, c := range candidates {
		if n.free(c) {
			n.used[c] = true
			return c
		}
	}
	last := candidates[len(candidates)-1]
	for i := 2; ; i++ {
		if c := last + strconv.Itoa(i); n.free(c) {
			n.used[c] = true
			return c
		}
	}
}

func (n *NestedNames) free(name string) bool {
	return !n.used[name] && (n.Reserved == nil || !n.Reserved(name))
}
