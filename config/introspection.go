package config

import (
	"os"
	"sort"
	"strings"

	"github.com/teranos/typetransform/errors"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceUser        ConfigSource = "user"        // ~/.config/type-transform/config.toml
	SourceProject     ConfigSource = "project"     // .type-transform.toml found upwards
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // TYPE_TRANSFORM_* env vars
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path or environment variable name
}

// SettingInfo is one effective setting and its origin
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"`
}

// Introspection describes the active configuration
type Introspection struct {
	ConfigFile string        `json:"config_file" yaml:"config_file"` // highest precedence file, if any
	Settings   []SettingInfo `json:"settings" yaml:"settings"`
}

// Introspect returns every effective setting with the source that set it.
func Introspect() (*Introspection, error) {
	if _, err := Load(); err != nil {
		return nil, errors.Wrap(err, "failed to load config for introspection")
	}
	v, err := GetViper()
	if err != nil {
		return nil, err
	}

	mu.Lock()
	sources := make(map[string]SourceInfo, len(Sources))
	for k, s := range Sources {
		sources[k] = s
	}
	mu.Unlock()

	in := &Introspection{ConfigFile: v.ConfigFileUsed()}
	flattenSettingsWithSources(v.AllSettings(), "", in, sources)
	return in, nil
}

// flattenSettingsWithSources flattens settings in key order and assigns
// their sources
func flattenSettingsWithSources(settings map[string]interface{}, prefix string, in *Introspection, sources map[string]SourceInfo) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flattenSettingsWithSources(nested, fullKey, in, sources)
			continue
		}

		info := SourceInfo{Source: SourceDefault}
		if s, ok := sources[fullKey]; ok {
			info = s
		}
		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(fullKey, ".", "_"))
		if _, set := os.LookupEnv(envKey); set {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		in.Settings = append(in.Settings, SettingInfo{
			Key:        fullKey,
			Value:      value,
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
}
