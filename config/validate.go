package config

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/format"
	"github.com/teranos/typetransform/logger"
	"github.com/teranos/typetransform/version"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if err := c.EmitOptions().Validate(); err != nil {
		return err
	}

	// Workers: 0 = one per CPU, negative = invalid
	if c.Workers < 0 {
		return errors.NewInvalidConfigError("workers must be >= 0, got %d", c.Workers)
	}

	if c.Log.Theme != "" && !slices.Contains(logger.Themes(), c.Log.Theme) {
		return errors.NewInvalidConfigError("log.theme must be one of %s, got %q",
			strings.Join(logger.Themes(), ", "), c.Log.Theme)
	}

	for _, f := range []struct{ key, command string }{
		{"swift.formatter", c.Swift.Formatter},
		{"kotlin.formatter", c.Kotlin.Formatter},
	} {
		if f.command == "" {
			continue
		}
		if _, err := format.Command(f.command, "file"); err != nil {
			return errors.Wrap(errors.NewInvalidConfigError("%s is not a valid command", f.key), err.Error())
		}
	}

	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return errors.NewInvalidConfigError("requires %q is not a version constraint: %v", c.Requires, err)
		}
		if err := version.Get().Satisfies(c.Requires); err != nil {
			return err
		}
	}
	return nil
}
