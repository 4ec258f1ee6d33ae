package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/flatptr/internal/parser"
	"github.com/mcncl/flatptr/internal/transform"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "json", cfg.From)
	assert.Equal(t, "json", cfg.To)
	assert.Equal(t, 2, cfg.Output.Indent)
	assert.Equal(t, "none", cfg.Naming.KeyCase)
	assert.Equal(t, ".flatptr-state.json", cfg.Store.Path)
	assert.False(t, cfg.Dev.Debug)

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	content := `
from: yaml
to: json
output:
  indent: 4
naming:
  key_case: camel
store:
  path: /tmp/planner-state.json
dev:
  debug: true
`
	path := filepath.Join(t.TempDir(), ".flatptr.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, parser.FormatYAML, cfg.FromFormat())
	assert.Equal(t, parser.FormatJSON, cfg.ToFormat())
	assert.Equal(t, 4, cfg.Output.Indent)
	assert.Equal(t, transform.CaseCamel, cfg.KeyCase())
	assert.Equal(t, "/tmp/planner-state.json", cfg.Store.Path)
	assert.True(t, cfg.Dev.Debug)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".flatptr.yml")
	require.NoError(t, os.WriteFile(path, []byte("to: yaml\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.From, "unset keys keep their defaults")
	assert.Equal(t, "yaml", cfg.To)
	assert.Equal(t, 2, cfg.Output.Indent)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".flatptr.yml")
	require.NoError(t, os.WriteFile(path, []byte("from: [unclosed"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	cases := map[string]func(*Config){
		"bad from":   func(c *Config) { c.From = "toml" },
		"bad to":     func(c *Config) { c.To = "xml" },
		"bad case":   func(c *Config) { c.Naming.KeyCase = "screaming" },
		"bad indent": func(c *Config) { c.Output.Indent = -1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := NewConfig()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	tempDir := t.TempDir()
	sub := filepath.Join(tempDir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	configPath := filepath.Join(tempDir, ".flatptr.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("to: yaml\n"), 0644))

	cwd, err := os.Getwd()
	require.NoError(t, err)
	defer func() { _ = os.Chdir(cwd) }()

	require.NoError(t, os.Chdir(sub))
	found := FindConfigFile()

	// Resolve symlinks before comparing; temp dirs are often behind
	// one on macOS.
	wantDir, err := filepath.EvalSymlinks(tempDir)
	require.NoError(t, err)
	gotResolved, err := filepath.EvalSymlinks(found)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wantDir, ".flatptr.yml"), gotResolved)
}

func TestLoadConfigWithCLI_Overrides(t *testing.T) {
	content := `
from: yaml
output:
  indent: 4
naming:
  key_case: snake
`
	path := filepath.Join(t.TempDir(), ".flatptr.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	// CLI args left at their defaults defer to the file.
	cfg, err := LoadConfigWithCLI(path, "json", "json", "none", 2, false)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.From)
	assert.Equal(t, 4, cfg.Output.Indent)
	assert.Equal(t, "snake", cfg.Naming.KeyCase)

	// Explicit CLI args win over the file.
	cfg, err = LoadConfigWithCLI(path, "json", "yaml", "camel", 0, true)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.To)
	assert.Equal(t, "camel", cfg.Naming.KeyCase)
	assert.Equal(t, 0, cfg.Output.Indent)
	assert.True(t, cfg.Dev.Debug)
}

func TestLoadConfigWithCLI_NoFile(t *testing.T) {
	cfg, err := LoadConfigWithCLI("", "yaml", "yaml", "kebab", 3, false)
	require.NoError(t, err)

	assert.Equal(t, "yaml", cfg.From)
	assert.Equal(t, "yaml", cfg.To)
	assert.Equal(t, "kebab", cfg.Naming.KeyCase)
	assert.Equal(t, 3, cfg.Output.Indent)
}
