package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typetransform/ast"
	"github.com/teranos/typetransform/diag"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/lexer"
	"github.com/teranos/typetransform/parser"
	"github.com/teranos/typetransform/resolver"
	"github.com/teranos/typetransform/token"
)

func newASTCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast <source.ts>",
		Short: "Print the parsed declarations of a source file",
		Long: `Parse a TypeScript source and print its declarations, how each one
resolved, and any diagnostics. With --tokens the lexer output is printed
instead.

Examples:
  type-transform ast models.ts
  type-transform ast models.ts --format json
  type-transform ast models.ts --tokens`,
		Args: cobra.ExactArgs(1),
		RunE: runAST,
	}
	cmd.Flags().String("format", "yaml", "Output format: yaml, json")
	cmd.Flags().Bool("tokens", false, "Print lexer tokens instead of declarations")
	return cmd
}

type astReport struct {
	Unit         ast.UnitDump          `json:"unit" yaml:"unit"`
	Declarations []resolver.DeclStatus `json:"declarations" yaml:"declarations"`
	Diagnostics  diag.List             `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

type tokenReport struct {
	Tokens      []token.Token `json:"tokens" yaml:"tokens"`
	Diagnostics diag.List     `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

func runAST(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "yaml" && format != "json" {
		return errors.Newf("unsupported format: %s (supported: yaml, json)", format)
	}

	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read %s", path)
	}

	var report interface{}
	var diags diag.List
	if tokens, _ := cmd.Flags().GetBool("tokens"); tokens {
		toks, lexed := lexer.Tokenize(path, string(src))
		lexed.SetFile(path)
		diags = lexed
		report = tokenReport{Tokens: toks, Diagnostics: lexed}
	} else {
		unit, parsed := parser.Parse(path, string(src))
		diags = parsed
		table, resolved := resolver.Resolve(unit)
		diags.Add(resolved...)
		diags.SetFile(path)
		diags.Sort()
		report = astReport{Unit: ast.Dump(unit), Declarations: table.Status(), Diagnostics: diags}
	}

	var data []byte
	if format == "json" {
		data, err = json.MarshalIndent(report, "", "  ")
		data = append(data, '\n')
	} else {
		data, err = yaml.Marshal(report)
	}
	if err != nil {
		return errors.Wrapf(err, "failed to marshal %s", format)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))

	renderDiagnostics(cmd.ErrOrStderr(), path, diags, contextFor(cmd.ErrOrStderr()))
	return diags.Err()
}
