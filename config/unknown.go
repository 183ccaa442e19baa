package config

import (
	"os"
	"slices"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typetransform/errors"
)

// UnknownKeys returns the keys in the config file at path that no setting
// uses, such as misspellings. Type errors are returned as errors.
func UnknownKeys(path string) ([]string, error) {
	if fileType(path) == "yaml" {
		return unknownYAMLKeys(path)
	}

	var cfg Config
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrap(errors.NewInvalidConfigError("%s", path), err.Error())
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		unknown = append(unknown, key.String())
	}
	slices.Sort(unknown)
	return unknown, nil
}

func unknownYAMLKeys(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.NewInvalidConfigError("%s", path), err.Error())
	}

	known := KnownKeys()
	var unknown []string
	var walk func(prefix string, m map[string]interface{})
	walk = func(prefix string, m map[string]interface{}) {
		for k, v := range m {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if nested, ok := v.(map[string]interface{}); ok {
				walk(key, nested)
				continue
			}
			if !slices.Contains(known, key) {
				unknown = append(unknown, key)
			}
		}
	}
	walk("", doc)
	slices.Sort(unknown)
	return unknown, nil
}
