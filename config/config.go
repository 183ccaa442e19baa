// Package config loads type-transform settings from defaults, user and
// project config files, an explicit --config file and TYPE_TRANSFORM_*
// environment variables, in increasing order of precedence.
package config

import (
	"github.com/teranos/typetransform/emit"
)

// Config represents the type-transform configuration
type Config struct {
	Indent        int    `mapstructure:"indent" toml:"indent" json:"indent" yaml:"indent"`
	LineWidth     int    `mapstructure:"line_width" toml:"line_width" json:"line_width" yaml:"line_width"`
	UnionLiterals string `mapstructure:"union_literals" toml:"union_literals" json:"union_literals" yaml:"union_literals"` // enum or comment
	Banner        string `mapstructure:"banner" toml:"banner" json:"banner" yaml:"banner"`
	Footer        string `mapstructure:"footer" toml:"footer" json:"footer" yaml:"footer"`
	Workers       int    `mapstructure:"workers" toml:"workers" json:"workers" yaml:"workers"`     // 0 = one per CPU
	Requires      string `mapstructure:"requires" toml:"requires" json:"requires" yaml:"requires"` // semver constraint on the binary

	Swift  SwiftConfig  `mapstructure:"swift" toml:"swift" json:"swift" yaml:"swift"`
	Kotlin KotlinConfig `mapstructure:"kotlin" toml:"kotlin" json:"kotlin" yaml:"kotlin"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// SwiftConfig configures Swift output
type SwiftConfig struct {
	Access    string `mapstructure:"access" toml:"access" json:"access" yaml:"access"` // auto, public or internal
	Codable   bool   `mapstructure:"codable" toml:"codable" json:"codable" yaml:"codable"`
	Formatter string `mapstructure:"formatter" toml:"formatter" json:"formatter" yaml:"formatter"` // e.g. "swift-format -i"
}

// KotlinConfig configures Kotlin output
type KotlinConfig struct {
	Package           string `mapstructure:"package" toml:"package" json:"package" yaml:"package"`
	Serializable      bool   `mapstructure:"serializable" toml:"serializable" json:"serializable" yaml:"serializable"`
	MutableProperties bool   `mapstructure:"mutable_properties" toml:"mutable_properties" json:"mutable_properties" yaml:"mutable_properties"`
	NullDefaults      bool   `mapstructure:"null_defaults" toml:"null_defaults" json:"null_defaults" yaml:"null_defaults"`
	Formatter         string `mapstructure:"formatter" toml:"formatter" json:"formatter" yaml:"formatter"` // e.g. "ktlint -F"
}

// LogConfig configures CLI logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // gruvbox or everforest
}

// EmitOptions returns the emission options the config describes.
func (c *Config) EmitOptions() emit.Options {
	return emit.Options{
		Indent:        c.Indent,
		LineWidth:     c.LineWidth,
		UnionLiterals: c.UnionLiterals,
		Swift: emit.SwiftOptions{
			Access:  c.Swift.Access,
			Codable: c.Swift.Codable,
		},
		Kotlin: emit.KotlinOptions{
			Package:           c.Kotlin.Package,
			Serializable:      c.Kotlin.Serializable,
			MutableProperties: c.Kotlin.MutableProperties,
			NullDefaults:      c.Kotlin.NullDefaults,
		},
	}
}

// FormatterFor returns the formatter command configured for a target
// language, or "".
func (c *Config) FormatterFor(language string) string {
	switch language {
	case "swift":
		return c.Swift.Formatter
	case "kotlin":
		return c.Kotlin.Formatter
	}
	return ""
}
