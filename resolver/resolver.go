// Package resolver checks that every type reference in a compilation unit
// names a declaration of the same unit and builds the lookup table the
// emitters read from.
package resolver

import (
	"fmt"
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
)

// Status is the resolution outcome of a single declaration.
type Status int

const (
	// Resolved declarations are unique and reference only declared names
	Resolved Status = iota
	// Duplicate declarations repeat a name declared earlier in the unit
	Duplicate
	// Unresolved declarations reference at least one undeclared name
	Unresolved
)

func (s Status) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Duplicate:
		return "duplicate"
	case Unresolved:
		return "unresolved"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalText renders the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// DeclStatus reports one declaration's outcome.
type DeclStatus struct {
	Name       string   `json:"name" yaml:"name"`
	Kind       string   `json:"kind" yaml:"kind"`
	Line       int      `json:"line" yaml:"line"`
	Status     Status   `json:"status" yaml:"status"`
	Unresolved []string `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
}

type entry struct {
	decl       ast.Decl
	status     Status
	unresolved []string
}

// Table maps declaration names to declarations. The first declaration of a
// name wins. A Table is read-only once Resolve returns.
type Table struct {
	byName  map[string]ast.Decl
	entries []entry
	index   map[ast.Decl]int
}

// Resolve builds the table for unit. It never mutates the unit.
//
// Each repeated name yields one DuplicateDeclarationError per extra
// declaration. Each distinct undeclared name yields exactly one
// ResolutionError at its first occurrence, however often it is referenced.
func Resolve(unit *ast.CompilationUnit) (*Table, diag.List) {
	var diags diag.List
	t := &Table{
		byName: make(map[string]ast.Decl, len(unit.Decls)),
		index:  make(map[ast.Decl]int, len(unit.Decls)),
	}

	for _, d := range unit.Decls {
		t.index[d] = len(t.entries)
		e := entry{decl: d, status: Resolved}

		if first, ok := t.byName[d.DeclName()]; ok {
			e.status = Duplicate
			diags.Add(diag.New(diag.DuplicateDeclarationError, d.Position(),
				"duplicate declaration %q", d.DeclName()).
				WithFile(unit.Name).
				WithRelated(first.Position(), "first declared here").
				WithSuggestion("rename one of the declarations"))
		} else {
			t.byName[d.DeclName()] = d
		}
		t.entries = append(t.entries, e)
	}

	reported := make(map[string]bool)
	for i := range t.entries {
		e := &t.entries[i]
		for _, ref := range ast.References(e.decl) {
			if _, ok := t.byName[ref.Name]; ok {
				continue
			}
			if !slices.Contains(e.unresolved, ref.Name) {
				e.unresolved = append(e.unresolved, ref.Name)
			}
			if e.status == Resolved {
				e.status = Unresolved
			}
			if reported[ref.Name] {
				continue
			}
			reported[ref.Name] = true
			d := diag.New(diag.ResolutionError, ref.Pos, "cannot find type %q", ref.Name).WithFile(unit.Name)
			if s := t.suggest(ref.Name); s != "" {
				d.WithSuggestion(s)
			}
			diags.Add(d)
		}
	}

	diags.Sort()
	return t, diags
}

// Lookup returns the declaration registered under name.
func (t *Table) Lookup(name string) (ast.Decl, bool) {
	d, ok := t.byName[name]
	return d, ok
}

// Len returns the number of distinct names.
func (t *Table) Len() int {
	return len(t.byName)
}

// StatusOf returns the status of decl. Declarations from another unit
// report Unresolved.
func (t *Table) StatusOf(decl ast.Decl) Status {
	i, ok := t.index[decl]
	if !ok {
		return Unresolved
	}
	return t.entries[i].status
}

// IsDuplicate reports whether decl repeats an earlier name.
func (t *Table) IsDuplicate(decl ast.Decl) bool {
	return t.StatusOf(decl) == Duplicate
}

// Status reports every declaration in source order, duplicates included.
func (t *Table) Status() []DeclStatus {
	out := make([]DeclStatus, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, DeclStatus{
			Name:       e.decl.DeclName(),
			Kind:       e.decl.DeclKind(),
			Line:       e.decl.Position().Line,
			Status:     e.status,
			Unresolved: slices.Clone(e.unresolved),
		})
	}
	return out
}

func (t *Table) suggest(name string) string {
	if name == "Date" {
		return "declare it as an alias, e.g. type Date = string"
	}
	best, bestDist := "", min(3, len(name)/2+1)
	for _, e := range t.entries {
		candidate := e.decl.DeclName()
		if dist := fuzzy.LevenshteinDistance(name, candidate); dist < bestDist {
			best, bestDist = candidate, dist
		}
	}
	if best == "" {
		return ""
	}
	return fmt.Sprintf("did you mean %q?", best)
}
