package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/teranos/typetransform/emit"
	"github.com/teranos/typetransform/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// isolate points HOME and the working directory at a fresh temp tree.
func isolate(t *testing.T) string {
	t.Helper()
	Reset()
	SetConfigFile("")
	t.Cleanup(Reset)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(home)
	return home
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 4, cfg.Indent)
	assert.Equal(t, 100, cfg.LineWidth)
	assert.Equal(t, "enum", cfg.UnionLiterals)
	assert.Equal(t, "auto", cfg.Swift.Access)
	assert.True(t, cfg.Swift.Codable)
	assert.False(t, cfg.Kotlin.Serializable)
	assert.Equal(t, "everforest", cfg.Log.Theme)
	assert.Equal(t, emit.DefaultOptions(), cfg.EmitOptions())
	require.NoError(t, cfg.Validate())
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys()
	assert.Contains(t, keys, "kotlin.null_defaults")
	assert.Contains(t, keys, "swift.access")
	assert.Contains(t, keys, "line_width")
	assert.IsIncreasing(t, keys)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "a.toml")
	writeFile(t, tomlPath, "indent = 2\n[kotlin]\npackage = \"com.example\"\nserializable = true\n")
	cfg, err := LoadFromFile(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent)
	assert.Equal(t, 100, cfg.LineWidth, "defaults fill the rest")
	assert.Equal(t, "com.example", cfg.Kotlin.Package)
	assert.True(t, cfg.Kotlin.Serializable)

	yamlPath := filepath.Join(dir, "a.yaml")
	writeFile(t, yamlPath, "line_width: 80\nswift:\n  access: public\n")
	cfg, err = LoadFromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.LineWidth)
	assert.Equal(t, "public", cfg.Swift.Access)

	_, err = LoadFromFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestLoadPrecedence(t *testing.T) {
	home := isolate(t)

	writeFile(t, filepath.Join(home, ".config", "type-transform", "config.toml"),
		"indent = 2\nline_width = 90\n[swift]\naccess = \"public\"\n")
	project := filepath.Join(home, "project")
	writeFile(t, filepath.Join(project, ".type-transform.toml"), "line_width = 120\n[kotlin]\npackage = \"com.project\"\n")
	deep := filepath.Join(project, "src", "models")
	require.NoError(t, os.MkdirAll(deep, 0o755))
	t.Chdir(deep)
	t.Setenv("TYPE_TRANSFORM_KOTLIN_PACKAGE", "com.env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Indent, "user config")
	assert.Equal(t, 120, cfg.LineWidth, "project config beats user config")
	assert.Equal(t, "public", cfg.Swift.Access)
	assert.True(t, cfg.Swift.Codable, "nested defaults survive partial sections")
	assert.Equal(t, "com.env", cfg.Kotlin.Package, "environment beats files")

	assert.Equal(t, SourceUser, Sources["indent"].Source)
	assert.Equal(t, SourceProject, Sources["line_width"].Source)
	assert.Contains(t, Sources["line_width"].Path, ".type-transform.toml")

	in, err := Introspect()
	require.NoError(t, err)
	bySetting := map[string]SettingInfo{}
	for _, s := range in.Settings {
		bySetting[s.Key] = s
	}
	assert.Equal(t, SourceEnvironment, bySetting["kotlin.package"].Source)
	assert.Equal(t, "TYPE_TRANSFORM_KOTLIN_PACKAGE", bySetting["kotlin.package"].SourcePath)
	assert.Equal(t, SourceDefault, bySetting["log.theme"].Source)
	assert.Empty(t, bySetting["log.theme"].SourcePath)
	assert.Equal(t, SourceProject, bySetting["line_width"].Source)
	assert.Contains(t, in.ConfigFile, ".type-transform.toml")
}

func TestLoadExplicitFile(t *testing.T) {
	home := isolate(t)
	writeFile(t, filepath.Join(home, ".type-transform.toml"), "indent = 8\n")
	explicit := filepath.Join(home, "ci.yaml")
	writeFile(t, explicit, "indent: 3\n")

	SetConfigFile(explicit)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Indent)
	assert.Equal(t, SourceExplicit, Sources["indent"].Source)

	SetConfigFile(filepath.Join(home, "nope.toml"))
	_, err = Load()
	require.Error(t, err)
	assert.NotEmpty(t, errors.GetAllHints(err))
}

func TestLoadCaches(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, ".type-transform.toml")
	writeFile(t, path, "indent = 2\n")

	first, err := Load()
	require.NoError(t, err)
	writeFile(t, path, "indent = 6\n")
	second, err := Load()
	require.NoError(t, err)
	assert.Same(t, first, second)

	Reset()
	third, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 6, third.Indent)
	assert.Equal(t, []string{path}, ConfigFiles())
}

func TestFindProjectConfig(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".type-transform.yaml"), "indent: 2\n")
	deep := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(deep, 0o755))

	assert.Equal(t, filepath.Join(root, "a", ".type-transform.yaml"), FindProjectConfig(deep))
	assert.Empty(t, FindProjectConfig(root))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"unknown theme", func(c *Config) { c.Log.Theme = "solarized" }},
		{"bad union mode", func(c *Config) { c.UnionLiterals = "both" }},
		{"bad package", func(c *Config) { c.Kotlin.Package = "1com" }},
		{"bad formatter", func(c *Config) { c.Swift.Formatter = `swift-format "unterminated` }},
		{"bad constraint", func(c *Config) { c.Requires = "not a version" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidConfig), "%v", err)
		})
	}

	cfg := Default()
	cfg.Requires = ">= 0.1"
	cfg.Kotlin.Formatter = "ktlint -F {}"
	assert.NoError(t, cfg.Validate())
}

func TestFormatterFor(t *testing.T) {
	cfg := Default()
	cfg.Swift.Formatter = "swift-format -i"
	cfg.Kotlin.Formatter = "ktlint -F"
	assert.Equal(t, "swift-format -i", cfg.FormatterFor("swift"))
	assert.Equal(t, "ktlint -F", cfg.FormatterFor("kotlin"))
	assert.Empty(t, cfg.FormatterFor("rust"))
}

func TestUnknownKeys(t *testing.T) {
	dir := t.TempDir()

	tomlPath := filepath.Join(dir, "a.toml")
	writeFile(t, tomlPath, "indent = 2\nindnet = 3\n[kotlin]\npackge = \"x\"\n")
	unknown, err := UnknownKeys(tomlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"indnet", "kotlin.packge"}, unknown)

	yamlPath := filepath.Join(dir, "a.yaml")
	writeFile(t, yamlPath, "indent: 2\nswift:\n  acess: public\n  codable: false\n")
	unknown, err = UnknownKeys(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"swift.acess"}, unknown)

	writeFile(t, tomlPath, "indent = \"four\"\n")
	_, err = UnknownKeys(tomlPath)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestMarshal(t *testing.T) {
	cfg := Default()

	data, err := Marshal(cfg, "toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "line_width = 100")
	assert.Contains(t, string(data), "[kotlin]")

	data, err = Marshal(cfg, "json")
	require.NoError(t, err)
	var fromJSON Config
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, *cfg, fromJSON)

	data, err = Marshal(cfg, "yaml")
	require.NoError(t, err)
	var fromYAML Config
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, *cfg, fromYAML)

	_, err = Marshal(cfg, "ini")
	assert.Error(t, err)
}

func TestWriteDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", ".type-transform.toml")

	require.NoError(t, WriteDefaults(path, false))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, *Default(), *cfg)
	unknown, err := UnknownKeys(path)
	require.NoError(t, err)
	assert.Empty(t, unknown)

	err = WriteDefaults(path, false)
	require.Error(t, err)
	assert.NoFileExists(t, path+".back1")

	require.NoError(t, os.WriteFile(path, []byte("indent = 2\n"), 0o644))
	require.NoError(t, WriteDefaults(path, true))
	backup, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "indent = 2\n", string(backup))

	require.NoError(t, WriteDefaults(path, true))
	assert.FileExists(t, path+".back2")
	assert.True(t, IsBackupFile(path+".back2"))
	assert.False(t, IsBackupFile(path))
}
