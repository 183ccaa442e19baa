// Package commands implements the type-transform command line.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typetransform/config"
	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
)

// Exit codes
const (
	ExitOK     = 0
	ExitFailed = 1 // fatal diagnostics or stale output
	ExitUsage  = 2 // bad flags, unreadable files, broken configuration
)

// NewRootCmd builds the command tree. The root command itself runs the
// transform.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "type-transform <source.ts>... --out <path>",
		Short: "Generate Swift or Kotlin models from TypeScript declarations",
		Long: `type-transform reads TypeScript interfaces, type aliases and enums and
writes the equivalent Swift or Kotlin declarations.

The target language comes from --lang or, for a single source, from the
extension of --out (.swift, .kt). With several sources --out names a
directory and each file is written as <name>.<ext>.

Configuration sources (later overrides earlier):
  1. Built-in defaults
  2. User config (~/.config/type-transform/config.toml)
  3. Project config (.type-transform.toml or .yaml, searched upwards)
  4. --config <file>
  5. TYPE_TRANSFORM_* environment variables

Examples:
  type-transform models.ts --out Models.swift
  type-transform models.ts --out Models.kt --package com.example.api
  type-transform api/*.d.ts --out generated/ --lang kotlin
  type-transform models.ts --out Models.swift --watch`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")
			verbosity, _ := cmd.Flags().GetCount("verbose")

			config.SetConfigFile(configPath)
			// A broken config must not stop 'config init' or 'version';
			// commands that need it report the load error themselves.
			if cfg, err := config.Load(); err == nil {
				jsonLogs = jsonLogs || cfg.Log.JSON
				logger.SetTheme(cfg.Log.Theme)
			}
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			logger.Debugw("logger initialized",
				logger.FieldCommand, cmd.Name(),
				"output", logger.VerbosityDescription(verbosity))
			return nil
		},
		RunE: runTransform,
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().String("config", "", "Config file with the highest file precedence")
	root.PersistentFlags().Bool("json-logs", false, "Write logs as JSON to stderr")

	addTransformFlags(root)

	root.AddCommand(newCheckCmd())
	root.AddCommand(newASTCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the command line with args and reports any error on stderr.
// The returned code is meant for os.Exit.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	logger.Cleanup()
	if err != nil {
		printError(stderr, err)
	}
	return ExitCode(err)
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsAny(err, errors.ErrFatalDiagnostics, errors.ErrStale):
		return ExitFailed
	default:
		return ExitUsage
	}
}

func printError(w io.Writer, err error) {
	pterm.Error.WithWriter(w).Println(err.Error())
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

// loadConfig returns the validated configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}
