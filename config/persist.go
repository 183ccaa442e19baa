package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typetransform/errors"
)

// Marshal renders cfg as toml, json or yaml.
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case "", "toml":
		return toml.Marshal(cfg)
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		return yaml.Marshal(cfg)
	}
	return nil, errors.WithHint(
		errors.Newf("unknown config format %q", format),
		"use toml, json or yaml")
}

// WriteDefaults writes the default configuration as TOML to path. An
// existing file is only replaced when force is set, after rotating it into
// .back1, .back2 and .back3.
func WriteDefaults(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"pass --force to overwrite it; the old file is kept as a backup")
	}

	data, err := Marshal(Default(), "toml")
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := createBackup(path); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}

// createBackup creates rotating backups (.back1, .back2, .back3) before a
// config file is replaced
func createBackup(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	back1, back2, back3 := path+".back1", path+".back2", path+".back3"
	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to delete old backup %s", back3)
	}
	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}
	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}
	if err := os.WriteFile(back1, content, 0o644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}
	return nil
}

// IsBackupFile reports whether path is a rotated config backup.
func IsBackupFile(path string) bool {
	switch filepath.Ext(path) {
	case ".back1", ".back2", ".back3":
		return true
	}
	return false
}
