package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/teranos/typetransform/errors"
	"github.com/teranos/typetransform/logger"
)

// EnvPrefix prefixes environment overrides: TYPE_TRANSFORM_LINE_WIDTH,
// TYPE_TRANSFORM_KOTLIN_PACKAGE, ...
const EnvPrefix = "TYPE_TRANSFORM"

// ProjectConfigNames are searched for from the working directory upwards,
// in this order within each directory.
var ProjectConfigNames = []string{".type-transform.toml", ".type-transform.yaml", ".type-transform.yml"}

var (
	mu            sync.Mutex
	globalConfig  *Config
	viperInstance *viper.Viper
	explicitPath  string

	// Sources records which file set each key during the last load.
	Sources = map[string]SourceInfo{}
)

// SetConfigFile makes path the highest precedence config file, as --config
// does. An empty path clears it. The cached configuration is dropped.
func SetConfigFile(path string) {
	mu.Lock()
	defer mu.Unlock()
	explicitPath = path
	reset()
}

// Load reads the configuration, caching the result until Reset.
func Load() (*Config, error) {
	mu.Lock()
	defer mu.Unlock()
	if globalConfig != nil {
		return globalConfig, nil
	}

	v, err := initViper()
	if err != nil {
		return nil, err
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	globalConfig = cfg
	return globalConfig, nil
}

// GetViper returns the Viper instance behind the loaded configuration.
func GetViper() (*viper.Viper, error) {
	mu.Lock()
	defer mu.Unlock()
	return initViper()
}

// LoadWithViper decodes configuration from a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from defaults and a single file,
// ignoring other files and the environment.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType(fileType(path))
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode config file %s", path)
	}
	return cfg, nil
}

// Reset clears the cached configuration (useful for testing and reloads)
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	reset()
}

func reset() {
	globalConfig = nil
	viperInstance = nil
	Sources = map[string]SourceInfo{}
}

// initViper builds the layered Viper instance; mu must be held.
func initViper() (*viper.Viper, error) {
	if viperInstance != nil {
		return viperInstance, nil
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := mergeConfigFiles(v); err != nil {
		return nil, err
	}
	viperInstance = v
	return v, nil
}

// UserConfigPath returns ~/.config/type-transform/config.toml, or "" when
// the home directory is unknown.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "type-transform", "config.toml")
}

// FindProjectConfig walks up from dir looking for a project config file.
// Returns "" when none is found.
func FindProjectConfig(dir string) string {
	for {
		for _, name := range ProjectConfigNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// ConfigFiles returns the config files that exist, lowest precedence first.
func ConfigFiles() []string {
	mu.Lock()
	defer mu.Unlock()
	var files []string
	for _, f := range candidateFiles() {
		if _, err := os.Stat(f.path); err == nil {
			files = append(files, f.path)
		}
	}
	return files
}

type candidate struct {
	path   string
	source ConfigSource
}

func candidateFiles() []candidate {
	var files []candidate
	if user := UserConfigPath(); user != "" {
		files = append(files, candidate{user, SourceUser})
	}
	if wd, err := os.Getwd(); err == nil {
		if project := FindProjectConfig(wd); project != "" {
			files = append(files, candidate{project, SourceProject})
		}
	}
	if explicitPath != "" {
		files = append(files, candidate{explicitPath, SourceExplicit})
	}
	return files
}

// mergeConfigFiles merges config files into v in precedence order:
// user < project < explicit. Environment variables still win.
func mergeConfigFiles(v *viper.Viper) error {
	for _, f := range candidateFiles() {
		if _, err := os.Stat(f.path); err != nil {
			if f.source == SourceExplicit {
				return errors.WithHint(
					errors.Wrapf(err, "config file %s not found", f.path),
					"run 'type-transform config init' to create one")
			}
			continue
		}

		file := viper.New()
		file.SetConfigFile(f.path)
		file.SetConfigType(fileType(f.path))
		if err := file.ReadInConfig(); err != nil {
			return errors.Wrapf(err, "failed to read config file %s", f.path)
		}

		settings := file.AllSettings()
		if err := v.MergeConfigMap(settings); err != nil {
			return errors.Wrapf(err, "failed to merge config file %s", f.path)
		}
		keys := file.AllKeys()
		for _, key := range keys {
			Sources[key] = SourceInfo{Source: f.source, Path: f.path}
		}
		v.SetConfigFile(f.path)
		logger.Debugw("config file merged",
			logger.FieldConfigFile, f.path,
			"source", f.source,
			logger.FieldCount, len(keys))
	}
	return nil
}

func fileType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	}
	return "toml"
}
