package diag

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// Context selects how diagnostics are rendered.
type Context int

const (
	// ContextTerminal renders colored output with the source line and a caret
	ContextTerminal Context = iota
	// ContextPlain renders one line per diagnostic for logs and pipes
	ContextPlain
)

// ContextFor picks terminal rendering when f is an interactive terminal.
func ContextFor(f *os.File) Context {
	if f != nil && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return ContextTerminal
	}
	return ContextPlain
}

// Format renders a single diagnostic. src is the text of the diagnostic's
// file; it may be empty when the source is unavailable.
func Format(d *Diagnostic, src string, ctx Context) string {
	if ctx == ContextPlain {
		return formatPlain(d)
	}
	return formatTerminal(d, src)
}

// Render writes every diagnostic in the list followed by a blank line in
// terminal mode.
func Render(w io.Writer, l List, src string, ctx Context) {
	for _, d := range l {
		fmt.Fprintln(w, Format(d, src, ctx))
		if ctx == ContextTerminal {
			fmt.Fprintln(w)
		}
	}
}

// formatPlain: "models.ts:3:1: error: ParseError: classes are not supported (hint: ...)"
func formatPlain(d *Diagnostic) string {
	var b strings.Builder
	if d.File != "" {
		b.WriteString(d.File)
		b.WriteString(":")
	}
	if d.Pos.IsValid() {
		fmt.Fprintf(&b, "%d:%d:", d.Pos.Line, d.Pos.Column)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "%s: %s: %s", d.Severity, d.Kind, d.Message)
	if len(d.Suggestions) > 0 {
		fmt.Fprintf(&b, " (hint: %s)", strings.Join(d.Suggestions, "; "))
	}
	for _, r := range d.Related {
		fmt.Fprintf(&b, " [%s at %s]", r.Message, r.Pos)
	}
	return b.String()
}

// formatTerminal:
//
//	error[ParseError]: classes are not supported
//	  --> models.ts:3:1
//	   |
//	 3 | class Foo {}
//	   | ^^^^^
//	   = hint: declare an interface instead
func formatTerminal(d *Diagnostic, src string) string {
	var b strings.Builder

	label := fmt.Sprintf("%s[%s]", d.Severity, d.Kind)
	switch d.Severity {
	case SeverityError:
		b.WriteString(pterm.Red(label))
	case SeverityWarning:
		b.WriteString(pterm.Yellow(label))
	default:
		b.WriteString(label)
	}
	b.WriteString(": ")
	b.WriteString(pterm.Bold.Sprint(d.Message))

	file := d.File
	if file == "" {
		file = "<input>"
	}
	if d.Pos.IsValid() {
		fmt.Fprintf(&b, "\n  %s %s:%d:%d", pterm.LightCyan("-->"), file, d.Pos.Line, d.Pos.Column)
	}

	if line, ok := sourceLine(src, d.Pos.Line); ok {
		gutter := fmt.Sprintf("%d", d.Pos.Line)
		pad := strings.Repeat(" ", len(gutter))
		bar := pterm.LightCyan("|")
		fmt.Fprintf(&b, "\n %s %s", pad, bar)
		fmt.Fprintf(&b, "\n %s %s %s", pterm.LightCyan(gutter), bar, line)
		fmt.Fprintf(&b, "\n %s %s %s", pad, bar, caret(line, d))
	}

	for _, s := range d.Suggestions {
		fmt.Fprintf(&b, "\n   %s %s", pterm.Green("= hint:"), s)
	}
	for _, r := range d.Related {
		fmt.Fprintf(&b, "\n   %s %s at %s:%s", pterm.LightCyan("= note:"), r.Message, file, r.Pos)
	}
	return b.String()
}

// sourceLine returns the 1-based line of src without its terminator.
func sourceLine(src string, line int) (string, bool) {
	if src == "" || line < 1 {
		return "", false
	}
	lines := strings.Split(src, "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[line-1], "\r"), true
}

// caret underlines the diagnostic's range on line, preserving tabs so the
// marker lines up with the source.
func caret(line string, d *Diagnostic) string {
	col := d.Pos.Column
	if col < 1 {
		col = 1
	}

	var pad strings.Builder
	i := 1
	for _, r := range line {
		if i >= col {
			break
		}
		if r == '\t' {
			pad.WriteRune('\t')
		} else {
			pad.WriteRune(' ')
		}
		i++
	}

	width := 1
	if d.End.Line == d.Pos.Line && d.End.Column > d.Pos.Column {
		width = d.End.Column - d.Pos.Column
	}
	if rest := utf8.RuneCountInString(line) - (col - 1); rest > 0 && width > rest {
		width = rest
	}

	marker := strings.Repeat("^", width)
	if d.Severity == SeverityWarning {
		marker = pterm.Yellow(marker)
	} else {
		marker = pterm.Red(marker)
	}
	return pad.String() + marker
}
