package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/logger"
	"github.com/teranos/typetransform/transform"
)

// reporter prints transform results: diagnostics on stderr, status or JSON
// on stdout. It is safe for concurrent use by watch handlers.
type reporter struct {
	mu        sync.Mutex
	out       io.Writer
	errOut    io.Writer
	json      bool
	verbosity int
	context   diag.Context
}

func newReporter(cmd *cobra.Command) *reporter {
	asJSON, _ := cmd.Flags().GetBool("json")
	verbosity, _ := cmd.Flags().GetCount("verbose")
	return &reporter{
		out:       cmd.OutOrStdout(),
		errOut:    cmd.ErrOrStderr(),
		json:      asJSON,
		verbosity: verbosity,
		context:   contextFor(cmd.ErrOrStderr()),
	}
}

// contextFor renders for a terminal only when w is one and logs are not
// JSON.
func contextFor(w io.Writer) diag.Context {
	if logger.JSONOutput {
		return diag.ContextPlain
	}
	if f, ok := w.(*os.File); ok {
		return diag.ContextFor(f)
	}
	return diag.ContextPlain
}

func (r *reporter) results(results []*transform.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	done := make([]*transform.Result, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		done = append(done, res)
		renderDiagnostics(r.errOut, res.Source, res.Diagnostics, r.context)
	}

	if r.json {
		var v interface{} = done
		if len(done) == 1 {
			v = done[0]
		}
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(r.errOut, "failed to encode results: %v\n", err)
		}
		return
	}

	for _, res := range done {
		if !res.Success {
			pterm.Error.WithWriter(r.errOut).Printfln("%s: %s, nothing written", res.Source, res.Diagnostics.Summary())
			continue
		}
		msg := fmt.Sprintf("Generated %s from %s", res.Output, res.Source)
		if len(res.Diagnostics) > 0 {
			msg += fmt.Sprintf(" (%s)", res.Diagnostics.Summary())
		}
		if logger.ShouldOutput(r.verbosity, logger.OutputTiming) {
			msg += " in " + res.Duration.Round(time.Microsecond).String()
		}
		pterm.Success.WithWriter(r.out).Println(msg)
	}
}

func (r *reporter) error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	printError(r.errOut, err)
}

func (r *reporter) info(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.json {
		return
	}
	pterm.Info.WithWriter(r.out).Printfln(format, args...)
}

// show prints an info line when the -v count enables category.
func (r *reporter) show(category logger.OutputCategory, format string, args ...interface{}) {
	if logger.ShouldOutput(r.verbosity, category) {
		r.info(format, args...)
	}
}

// renderDiagnostics prints diagnostics with their source lines when the
// source is still readable.
func renderDiagnostics(w io.Writer, source string, diags diag.List, ctx diag.Context) {
	if len(diags) == 0 {
		return
	}
	var text string
	if ctx == diag.ContextTerminal {
		if data, err := os.ReadFile(source); err == nil {
			text = string(data)
		}
	}
	diag.Render(w, diags, text, ctx)
}
