package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/transform"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <source.ts> --out <path>",
		Short: "Check that a generated file is up to date",
		Long: `Generate output for a source in memory and compare it with the file at --out.
Nothing is written. When the file is missing or differs, a unified diff is
printed on stdout and the exit code is 1.

The comparison ignores any configured formatter.

Examples:
  type-transform check models.ts --out Models.swift
  type-transform check models.ts --out Models.kt --package com.example.api`,
		Args: cobra.ExactArgs(1),
		RunE: runCheck,
	}
	addGenerationFlags(cmd, "Generated file to compare against")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	out, _ := cmd.Flags().GetString("out")
	opts, err := transformOptions(cmd, cfg, lang, out)
	if err != nil {
		return err
	}

	c, err := transform.Check(cmd.Context(), args[0], out, opts)
	if err != nil {
		return err
	}
	renderDiagnostics(cmd.ErrOrStderr(), c.Source, c.Diagnostics, contextFor(cmd.ErrOrStderr()))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal check result")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return c.Err()
	}

	if c.Stale {
		fmt.Fprint(cmd.OutOrStdout(), c.Diff)
	}
	if err := c.Err(); err != nil {
		if errors.IsStaleError(err) {
			return errors.WithHint(err, fmt.Sprintf("run 'type-transform %s --out %s' to regenerate", args[0], out))
		}
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("%s is up to date", out)
	return nil
}
