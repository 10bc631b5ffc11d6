// Package config loads quizbank settings from defaults, a YAML file and
// QUIZBANK_ environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/tsawler/quizbank/export"
)

// Config holds the complete application configuration.
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
	DOCX     DOCXConfig     `mapstructure:"docx"`
	Text     TextConfig     `mapstructure:"text"`
	OCR      OCRConfig      `mapstructure:"ocr"`
	Store    StoreConfig    `mapstructure:"store"`
	Practice PracticeConfig `mapstructure:"practice"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console, json
	File   string `mapstructure:"file"`
}

// OutputConfig controls how parsed questions are written.
type OutputConfig struct {
	Format string `mapstructure:"format"` // json, jsonl, yaml, csv, markdown
	Redact bool   `mapstructure:"redact"`
}

// DOCXConfig holds Word reader settings.
type DOCXConfig struct {
	ListLabels bool `mapstructure:"list_labels"`
}

// TextConfig holds plain-text reader settings.
type TextConfig struct {
	Encoding string `mapstructure:"encoding"`
}

// OCRConfig holds image recognition settings.
type OCRConfig struct {
	Language string `mapstructure:"language"`
}

// StoreConfig holds question bank storage settings.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// PracticeConfig holds practice session settings.
type PracticeConfig struct {
	Random bool `mapstructure:"random"`
}

// DefaultConfig returns a new configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
		Output: OutputConfig{
			Format: "json",
			Redact: false,
		},
		Text: TextConfig{
			Encoding: "auto",
		},
		OCR: OCRConfig{
			Language: "chi_sim+eng",
		},
		Store: StoreConfig{
			Path: filepath.Join(configDir(), "quizbank.db"),
		},
	}
}

// Load loads configuration from file and environment variables. An empty
// configPath searches ./quizbank.yaml and the user config directory; a
// missing file there is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("QUIZBANK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("quizbank")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)

	return &cfg, nil
}

// Validate rejects unknown log levels, output formats and text encodings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Log.Format)
	}

	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("invalid output format: %s (must be json, jsonl, yaml, csv or markdown)", c.Output.Format)
	}

	if enc := strings.ToLower(strings.TrimSpace(c.Text.Encoding)); enc != "" && enc != "auto" {
		if _, err := htmlindex.Get(enc); err != nil {
			return fmt.Errorf("invalid text encoding: %s", c.Text.Encoding)
		}
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	return nil
}

// SaveToFile writes the configuration as YAML.
func (c *Config) SaveToFile(path string) error {
	v := viper.New()
	v.Set("log", map[string]any{"level": c.Log.Level, "format": c.Log.Format, "file": c.Log.File})
	v.Set("output", map[string]any{"format": c.Output.Format, "redact": c.Output.Redact})
	v.Set("docx", map[string]any{"list_labels": c.DOCX.ListLabels})
	v.Set("text", map[string]any{"encoding": c.Text.Encoding})
	v.Set("ocr", map[string]any{"language": c.OCR.Language})
	v.Set("store", map[string]any{"path": c.Store.Path})
	v.Set("practice", map[string]any{"random": c.Practice.Random})

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	v.SetConfigType("yaml")
	return v.WriteConfigAs(path)
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("log.file", defaults.Log.File)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.redact", defaults.Output.Redact)
	v.SetDefault("docx.list_labels", defaults.DOCX.ListLabels)
	v.SetDefault("text.encoding", defaults.Text.Encoding)
	v.SetDefault("ocr.language", defaults.OCR.Language)
	v.SetDefault("store.path", defaults.Store.Path)
	v.SetDefault("practice.random", defaults.Practice.Random)
}

// configDir returns $HOME/.config/quizbank.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "quizbank")
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
