package parser

import (
	"strings"

	"github.com/teranos/typetransform/token"
)

// leadingDoc returns the documentation attached to cur: the block of
// adjacent comments ending on the line right before it. Trailing comments on
// the previous token's line are not documentation.
func (p *Parser) leadingDoc() string {
	cs := p.comments
	for len(cs) > 0 && p.prevEnd.IsValid() && cs[0].Pos.Line == p.prevEnd.Line {
		cs = cs[1:]
	}
	if len(cs) == 0 {
		return ""
	}

	last := len(cs) - 1
	if p.cur.Pos.Line-cs[last].End.Line > 1 {
		return ""
	}
	first := last
	for first > 0 && cs[first].Pos.Line-cs[first-1].End.Line <= 1 {
		first--
	}
	return cleanDoc(cs[first:])
}

// cleanDoc strips comment markers and JSDoc leading asterisks, keeping line
// structure and dropping blank lines at either end.
func cleanDoc(comments []token.Token) string {
	var lines []string
	for _, c := range comments {
		if strings.HasPrefix(c.Text, "/*") {
			body := strings.TrimPrefix(c.Value, "*")
			for _, line := range strings.Split(body, "\n") {
				line = strings.TrimSpace(line)
				line = strings.TrimPrefix(line, "*")
				line = strings.TrimPrefix(line, " ")
				lines = append(lines, strings.TrimRight(line, " \t\r"))
			}
			continue
		}
		line := strings.TrimLeft(c.Value, "/")
		line = strings.TrimPrefix(line, " ")
		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}

	for len(lines) > 0 && lines[0] == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}
