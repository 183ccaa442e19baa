// Package emit holds what the target language emitters share: the Emitter
// interface, emission options, type conversion and naming.
package emit

import (
	"strings"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/resolver"
)

// Emitter renders a resolved compilation unit as target language source.
// Implementations are deterministic and never mutate the unit.
type Emitter interface {
	// Language returns the target name, e.g. "swift"
	Language() string

	// FileExtension returns the default output extension without the dot
	FileExtension() string

	// Emit renders every declaration of unit in source order. Constructs
	// the target cannot express are emitted as comments and reported as
	// EmissionWarning diagnostics.
	Emit(unit *ast.CompilationUnit, table *resolver.Table, opts Options) (string, diag.List)
}

// Union literal handling for type aliases.
const (
	UnionLiteralsEnum    = "enum"    // alias becomes a target enum
	UnionLiteralsComment = "comment" // alias to the base type with a "one of" comment
)

// Swift access levels.
const (
	AccessAuto     = "auto"     // public when the declaration is exported
	AccessPublic   = "public"   // always public
	AccessInternal = "internal" // never spelled out
)

// Options control emission.
type Options struct {
	Indent        int
	LineWidth     int
	UnionLiterals string
	Swift         SwiftOptions
	Kotlin        KotlinOptions
}

// SwiftOptions are Swift specific options.
type SwiftOptions struct {
	Access  string
	Codable bool
}

// KotlinOptions are Kotlin specific options.
type KotlinOptions struct {
	Package           string
	Serializable      bool
	MutableProperties bool
	NullDefaults      bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Indent:        4,
		LineWidth:     100,
		UnionLiterals: UnionLiteralsEnum,
		Swift:         SwiftOptions{Access: AccessAuto, Codable: true},
	}
}

// Validate reports the first malformed option.
func (o Options) Validate() error {
	switch {
	case o.Indent < 1 || o.Indent > 16:
		return errors.NewInvalidConfigError("indent must be between 1 and 16, got %d", o.Indent)
	case o.LineWidth < 20:
		return errors.NewInvalidConfigError("line_width must be at least 20, got %d", o.LineWidth)
	case o.UnionLiterals != UnionLiteralsEnum && o.UnionLiterals != UnionLiteralsComment:
		return errors.NewInvalidConfigError("union_literals must be %q or %q, got %q",
			UnionLiteralsEnum, UnionLiteralsComment, o.UnionLiterals)
	}
	switch o.Swift.Access {
	case "", AccessAuto, AccessPublic, AccessInternal:
	default:
		return errors.NewInvalidConfigError("swift.access must be auto, public or internal, got %q", o.Swift.Access)
	}
	if pkg := o.Kotlin.Package; pkg != "" && !validPackage(pkg) {
		return errors.NewInvalidConfigError("kotlin.package %q is not a valid package name", pkg)
	}
	return nil
}

func validPackage(pkg string) bool {
	for _, part := range strings.Split(pkg, ".") {
		if !identPattern.MatchString(part) {
			return false
		}
	}
	return true
}

// Pad returns the indentation for the given nesting level.
func (o Options) Pad(level int) string {
	n := o.Indent
	if n <= 0 {
		n = 4
	}
	return strings.Repeat(" ", n*level)
}
