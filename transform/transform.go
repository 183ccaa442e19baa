// Package transform runs the TypeScript to Swift/Kotlin pipeline: parse,
// resolve, emit, decorate with banner and footer, and write atomically.
package transform

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/format"
	"github.com/teranos/typetransform/logger"
	"github.com/teranos/typetransform/parser"
	"github.com/teranos/typetransform/resolver"
)

// Options control one transform.
type Options struct {
	// Banner and Footer are written verbatim at the start and end of the
	// output; text that is not already a comment is commented out line by
	// line. Nil means none.
	Banner *string
	Footer *string

	// Target is a language name or alias; empty infers it from the output
	// extension.
	Target string

	Emit emit.Options

	// Format is a command run on the written file, e.g. "swift-format -i".
	Format string
}

// DefaultOptions returns options with default emission settings.
func DefaultOptions() Options {
	return Options{Emit: emit.DefaultOptions()}
}

// Result is the outcome of one transform. Malformed input is reported
// through Diagnostics and Success, never as an error.
type Result struct {
	Success     bool          `json:"success" yaml:"success"`
	Target      string        `json:"target" yaml:"target"`
	Source      string        `json:"source" yaml:"source"`
	Output      string        `json:"output,omitempty" yaml:"output,omitempty"`
	Written     bool          `json:"written" yaml:"written"`
	Diagnostics diag.List     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Duration    time.Duration `json:"duration_ns" yaml:"duration"`

	// Code is the generated source, newline-terminated. Empty when the
	// input had fatal diagnostics.
	Code string `json:"-" yaml:"-"`
}

// Err returns a non-nil error when the transform failed on its input.
func (r *Result) Err() error {
	if r.Success {
		return nil
	}
	return r.Diagnostics.Err()
}

// Source runs the pipeline on in-memory text without any I/O.
func Source(name, text, target string, opts Options) (*Result, error) {
	em, err := EmitterFor(target)
	if err != nil {
		return nil, err
	}
	return generate(name, text, em, opts), nil
}

func generate(name, text string, em emit.Emitter, opts Options) *Result {
	start := time.Now()
	r := &Result{Target: em.Language(), Source: name}
	defer func() { r.Duration = time.Since(start) }()

	unit, diags := parser.Parse(name, text)
	r.Diagnostics = diags
	if diags.HasFatal() {
		r.Diagnostics.SetFile(name)
		r.Diagnostics.Sort()
		return r
	}

	table, resolved := resolver.Resolve(unit)
	r.Diagnostics.Add(resolved...)

	body, warnings := em.Emit(unit, table, opts.Emit)
	r.Diagnostics.Add(warnings...)
	r.Diagnostics.SetFile(name)
	r.Diagnostics.Sort()

	r.Code = compose(opts.Banner, body, opts.Footer)
	r.Success = true
	return r
}

// Run transforms the file at sourcePath and writes the result to outPath.
// The error covers infrastructure faults only; check Result.Success for
// the outcome on the input itself.
func Run(ctx context.Context, sourcePath, outPath string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	em, err := ResolveTarget(opts.Target, outPath)
	if err != nil {
		return nil, err
	}
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", sourcePath)
	}

	log := logger.LoggerFromContext(ctx)
	r := generate(sourcePath, string(src), em, opts)
	r.Output = outPath
	if !r.Success {
		log.Debugw("transform aborted",
			logger.FieldFile, sourcePath,
			logger.FieldDiagnostics, len(r.Diagnostics))
		return r, nil
	}

	if err := WriteFile(outPath, []byte(r.Code)); err != nil {
		return r, err
	}
	r.Written = true

	if opts.Format != "" {
		if err := format.Run(ctx, opts.Format, outPath); err != nil {
			return r, errors.WithHint(err, "the unformatted output was kept")
		}
	}

	log.Debugw("transform complete",
		logger.FieldFile, sourcePath,
		logger.FieldOutput, outPath,
		logger.FieldTarget, r.Target,
		logger.FieldDiagnostics, len(r.Diagnostics),
		logger.FieldBytes, len(r.Code),
		logger.FieldDurationMS, r.Duration.Milliseconds())
	return r, nil
}

// compose surrounds the emitted body with banner and footer.
func compose(banner *string, body string, footer *string) string {
	var parts []string
	if banner != nil && strings.TrimSpace(*banner) != "" {
		parts = append(parts, commentBlock(*banner))
	}
	if body != "" {
		parts = append(parts, body)
	}
	if footer != nil && strings.TrimSpace(*footer) != "" {
		parts = append(parts, commentBlock(*footer))
	}
	if len(parts) == 0 {
		return "\n"
	}
	return strings.Join(parts, "\n")
}

// commentBlock returns text as a newline-terminated comment block. Text
// that is already a comment is kept verbatim.
func commentBlock(text string) string {
	text = strings.TrimRight(text, "\n")
	if isComment(text) {
		return text + "\n"
	}
	var b strings.Builder
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// " + line + "\n")
	}
	return b.String()
}

func isComment(text string) bool {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "/*") && strings.HasSuffix(trimmed, "*/") {
		return true
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "//") {
			return false
		}
	}
	return true
}
