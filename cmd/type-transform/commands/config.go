package commands

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/typetransform/config"
	"github.com/teranos/typetransform/errors"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage type-transform configuration",
		Long: `Display, validate and create type-transform configuration.

Examples:
  type-transform config show                 # Effective configuration as TOML
  type-transform config show --format yaml   # ... as YAML
  type-transform config show --sources       # Where each setting comes from
  type-transform config validate             # Check values and unknown keys
  type-transform config init                 # Write .type-transform.toml here`,
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}
	show.Flags().String("format", "toml", "Output format: toml, json, yaml")
	show.Flags().Bool("sources", false, "Show which file or variable set each setting")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration files",
		Long:  "Validate the effective configuration and report keys in config files that no setting uses.",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Long: `Write the default configuration as TOML. Without a path the file is
.type-transform.toml in the working directory, or the user config with --user.
An existing file is only replaced with --force and is kept as a backup.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runConfigInit,
	}
	initCmd.Flags().Bool("force", false, "Replace an existing file")
	initCmd.Flags().Bool("user", false, "Write the user config instead of a project config")

	cmd.AddCommand(show, validate, initCmd)
	return cmd
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if sources, _ := cmd.Flags().GetBool("sources"); sources {
		return showSources(cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	format, _ := cmd.Flags().GetString("format")
	data, err := config.Marshal(cfg, format)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if format != "json" {
		fmt.Fprintln(out, "# type-transform configuration")
	}
	fmt.Fprint(out, string(data))
	return nil
}

func showSources(cmd *cobra.Command) error {
	in, err := config.Introspect()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [default]      Built-in defaults")
	fmt.Fprintf(out, "  2. [user]         %s\n", orNone(config.UserConfigPath()))
	fmt.Fprintf(out, "  3. [project]      %s (searched upwards)\n", config.ProjectConfigNames[0])
	fmt.Fprintln(out, "  4. [explicit]     --config <file>")
	fmt.Fprintf(out, "  5. [environment]  %s_* variables\n", config.EnvPrefix)
	fmt.Fprintln(out)

	if files := config.ConfigFiles(); len(files) > 0 {
		fmt.Fprintln(out, "Files loaded:")
		for _, f := range files {
			fmt.Fprintf(out, "  %s\n", f)
		}
		fmt.Fprintln(out)
	}

	width := 0
	for _, s := range in.Settings {
		width = max(width, len(s.Key))
	}
	for _, s := range in.Settings {
		origin := string(s.Source)
		if s.SourcePath != "" {
			origin += " " + s.SourcePath
		}
		fmt.Fprintf(out, "  %-*s = %-12v [%s]\n", width, s.Key, formatValue(s.Value), origin)
	}
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	var problems []string
	for _, path := range config.ConfigFiles() {
		unknown, err := config.UnknownKeys(path)
		if err != nil {
			return err
		}
		for _, key := range unknown {
			problems = append(problems, fmt.Sprintf("%s: unknown key %q", path, key))
		}
	}
	if len(problems) > 0 {
		for _, p := range problems {
			pterm.Warning.WithWriter(cmd.ErrOrStderr()).Println(p)
		}
		return errors.WithHint(
			errors.NewInvalidConfigError("%d unknown keys", len(problems)),
			"known keys: "+strings.Join(config.KnownKeys(), ", "))
	}

	pterm.Success.WithWriter(cmd.OutOrStdout()).Println("Configuration is valid")
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	force, _ := cmd.Flags().GetBool("force")
	user, _ := cmd.Flags().GetBool("user")

	path := config.ProjectConfigNames[0]
	switch {
	case len(args) == 1:
		path = args[0]
	case user:
		path = config.UserConfigPath()
		if path == "" {
			return errors.New("cannot locate the home directory for the user config")
		}
	}

	if err := config.WriteDefaults(path, force); err != nil {
		return err
	}
	pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("Wrote %s", path)
	return nil
}

func orNone(path string) string {
	if path == "" {
		return "(no home directory)"
	}
	return path
}

func formatValue(v interface{}) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprint(v)
}
