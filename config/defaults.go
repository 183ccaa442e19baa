package config

import (
	"slices"

	"github.com/spf13/viper"

	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/errors"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	opts := emit.DefaultOptions()

	// Emission defaults
	v.SetDefault("indent", opts.Indent)
	v.SetDefault("line_width", opts.LineWidth)
	v.SetDefault("union_literals", opts.UnionLiterals)
	v.SetDefault("banner", "")
	v.SetDefault("footer", "")
	v.SetDefault("workers", 0) // one per CPU
	v.SetDefault("requires", "")

	// Swift defaults
	v.SetDefault("swift.access", opts.Swift.Access)
	v.SetDefault("swift.codable", opts.Swift.Codable)
	v.SetDefault("swift.formatter", "")

	// Kotlin defaults
	v.SetDefault("kotlin.package", "")
	v.SetDefault("kotlin.serializable", false)
	v.SetDefault("kotlin.mutable_properties", false)
	v.SetDefault("kotlin.null_defaults", false)
	v.SetDefault("kotlin.formatter", "")

	// Logging defaults
	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		panic(errors.AssertionFailedf("default configuration does not decode: %v", err))
	}
	return cfg
}

// KnownKeys returns every configuration key in dotted form, sorted.
func KnownKeys() []string {
	v := viper.New()
	SetDefaults(v)
	keys := v.AllKeys()
	slices.Sort(keys)
	return keys
}
