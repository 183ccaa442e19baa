// Package diag models the diagnostics produced while transforming a
// TypeScript declaration file.
//
// Diagnostics describe problems in the input. They are collected into a List
// and travel alongside the result instead of aborting the pipeline; only the
// lexical and syntactic kinds are fatal.
package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/token"
)

// Kind categorizes a diagnostic.
type Kind string

const (
	LexError                  Kind = "LexError"
	ParseError                Kind = "ParseError"
	DuplicateDeclarationError Kind = "DuplicateDeclarationError"
	ResolutionError           Kind = "ResolutionError"
	EmissionWarning           Kind = "EmissionWarning"
)

// Severity of a diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Severity returns the default severity for the kind.
func (k Kind) Severity() Severity {
	if k == EmissionWarning {
		return SeverityWarning
	}
	return SeverityError
}

// Fatal reports whether diagnostics of this kind suppress output.
func (k Kind) Fatal() bool {
	return k == LexError || k == ParseError
}

// Related points at a second location relevant to a diagnostic, such as the
// first declaration of a duplicated name.
type Related struct {
	Pos     token.Position `json:"pos" yaml:"pos"`
	Message string         `json:"message" yaml:"message"`
}

// Diagnostic is a single problem found in the input.
type Diagnostic struct {
	Kind        Kind           `json:"kind" yaml:"kind"`
	Severity    Severity       `json:"severity" yaml:"severity"`
	File        string         `json:"file,omitempty" yaml:"file,omitempty"`
	Pos         token.Position `json:"pos" yaml:"pos"`
	End         token.Position `json:"end,omitzero" yaml:"end,omitempty"`
	Message     string         `json:"message" yaml:"message"`
	Suggestions []string       `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	Related     []Related      `json:"related,omitempty" yaml:"related,omitempty"`
}

// New creates a diagnostic with the kind's default severity.
func New(kind Kind, pos token.Position, format string, args ...interface{}) *Diagnostic {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Diagnostic{
		Kind:     kind,
		Severity: kind.Severity(),
		Pos:      pos,
		Message:  msg,
	}
}

// WithFile sets the file the diagnostic belongs to
func (d *Diagnostic) WithFile(file string) *Diagnostic {
	d.File = file
	return d
}

// WithEnd sets the end of the offending source range
func (d *Diagnostic) WithEnd(end token.Position) *Diagnostic {
	d.End = end
	return d
}

// WithSuggestion adds a suggestion for fixing the problem
func (d *Diagnostic) WithSuggestion(suggestion string) *Diagnostic {
	if suggestion != "" {
		d.Suggestions = append(d.Suggestions, suggestion)
	}
	return d
}

// WithRelated attaches a related location
func (d *Diagnostic) WithRelated(pos token.Position, message string) *Diagnostic {
	d.Related = append(d.Related, Related{Pos: pos, Message: message})
	return d
}

// IsFatal reports whether the diagnostic suppresses output.
func (d *Diagnostic) IsFatal() bool {
	return d.Kind.Fatal()
}

// Error implements error with the plain single-line rendering.
func (d *Diagnostic) Error() string {
	return formatPlain(d)
}

// List is an ordered collection of diagnostics.
type List []*Diagnostic

// Add appends diagnostics to the list.
func (l *List) Add(ds ...*Diagnostic) {
	*l = append(*l, ds...)
}

// Addf creates and appends a diagnostic, returning it for further decoration.
func (l *List) Addf(kind Kind, pos token.Position, format string, args ...interface{}) *Diagnostic {
	d := New(kind, pos, format, args...)
	*l = append(*l, d)
	return d
}

// HasFatal reports whether any diagnostic is fatal.
func (l List) HasFatal() bool {
	return slices.ContainsFunc(l, (*Diagnostic).IsFatal)
}

// Count returns the number of diagnostics of the given kind.
func (l List) Count(kind Kind) int {
	n := 0
	for _, d := range l {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// OfKind returns the diagnostics of the given kind in order.
func (l List) OfKind(kind Kind) List {
	var out List
	for _, d := range l {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Errors returns the number of error-severity diagnostics.
func (l List) Errors() int {
	n := 0
	for _, d := range l {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Warnings returns the number of warning-severity diagnostics.
func (l List) Warnings() int {
	return len(l) - l.Errors()
}

// SetFile stamps file onto every diagnostic that has none.
func (l List) SetFile(file string) {
	for _, d := range l {
		if d.File == "" {
			d.File = file
		}
	}
}

// Sort orders the diagnostics by file and source offset. Diagnostics at the
// same location keep their relative order.
func (l List) Sort() {
	slices.SortStableFunc(l, func(a, b *Diagnostic) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Pos.Offset, b.Pos.Offset),
		)
	})
}

// Err returns nil when no diagnostic is fatal, otherwise an error wrapping
// errors.ErrFatalDiagnostics that names the first fatal diagnostic.
func (l List) Err() error {
	for _, d := range l {
		if d.IsFatal() {
			err := errors.Wrap(errors.ErrFatalDiagnostics, d.Error())
			if n := l.fatalCount(); n > 1 {
				err = errors.WithDetailf(err, "%d more fatal diagnostics", n-1)
			}
			return err
		}
	}
	return nil
}

func (l List) fatalCount() int {
	n := 0
	for _, d := range l {
		if d.IsFatal() {
			n++
		}
	}
	return n
}

// Summary renders counts such as "2 errors, 1 warning".
func (l List) Summary() string {
	errs, warns := l.Errors(), l.Warnings()
	var parts []string
	if errs > 0 {
		parts = append(parts, plural(errs, "error"))
	}
	if warns > 0 {
		parts = append(parts, plural(warns, "warning"))
	}
	if len(parts) == 0 {
		return "no problems"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
