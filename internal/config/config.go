package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/flatptr/internal/parser"
	"github.com/mcncl/flatptr/internal/transform"
)

// Config represents the complete configuration for flatptr
type Config struct {
	From   string       `yaml:"from"`
	To     string       `yaml:"to"`
	Output OutputConfig `yaml:"output"`
	Naming NamingConfig `yaml:"naming"`
	Store  StoreConfig  `yaml:"store"`
	Dev    DevConfig    `yaml:"dev"`
}

// OutputConfig controls rendering of results
type OutputConfig struct {
	Indent int `yaml:"indent"`
}

// NamingConfig controls mapping-key normalization applied before
// flattening
type NamingConfig struct {
	KeyCase string `yaml:"key_case"`
}

// StoreConfig locates the file-backed planner state store
type StoreConfig struct {
	Path string `yaml:"path"`
}

// DevConfig controls development options
type DevConfig struct {
	Debug   bool `yaml:"debug"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a config with default values
func NewConfig() *Config {
	return &Config{
		From: string(parser.FormatJSON),
		To:   string(parser.FormatJSON),
		Output: OutputConfig{
			Indent: 2,
		},
		Naming: NamingConfig{
			KeyCase: string(transform.CaseNone),
		},
		Store: StoreConfig{
			Path: ".flatptr-state.json",
		},
		Dev: DevConfig{
			Debug:   false,
			Verbose: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".flatptr.yml", ".flatptr.yaml", "flatptr.yml", "flatptr.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every enumerated option names a known value
func (c *Config) Validate() error {
	if _, err := parser.FormatFromString(c.From); err != nil {
		return fmt.Errorf("invalid 'from' format: %w", err)
	}
	if _, err := parser.FormatFromString(c.To); err != nil {
		return fmt.Errorf("invalid 'to' format: %w", err)
	}
	if _, err := transform.KeyCaseFromString(c.Naming.KeyCase); err != nil {
		return fmt.Errorf("invalid naming.key_case: %w", err)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("output.indent must not be negative, got %d", c.Output.Indent)
	}
	return nil
}

// FromFormat returns the validated input format
func (c *Config) FromFormat() parser.Format {
	f, err := parser.FormatFromString(c.From)
	if err != nil {
		return parser.FormatJSON
	}
	return f
}

// ToFormat returns the validated output format
func (c *Config) ToFormat() parser.Format {
	f, err := parser.FormatFromString(c.To)
	if err != nil {
		return parser.FormatJSON
	}
	return f
}

// KeyCase returns the validated key-case setting
func (c *Config) KeyCase() transform.KeyCase {
	kc, err := transform.KeyCaseFromString(c.Naming.KeyCase)
	if err != nil {
		return transform.CaseNone
	}
	return kc
}

// LoadConfigWithCLI loads config with CLI argument precedence. CLI
// values override the file only when they differ from the defaults, so
// a config file still wins over an unset flag.
func LoadConfigWithCLI(configPath, cliFrom, cliTo, cliKeyCase string, cliIndent int, cliDebug bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliFrom != "" && cliFrom != string(parser.FormatJSON) {
		cfg.From = cliFrom
	}
	if cliTo != "" && cliTo != string(parser.FormatJSON) {
		cfg.To = cliTo
	}
	if cliKeyCase != "" && cliKeyCase != string(transform.CaseNone) {
		cfg.Naming.KeyCase = cliKeyCase
	}
	if cliIndent != 2 {
		cfg.Output.Indent = cliIndent
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
