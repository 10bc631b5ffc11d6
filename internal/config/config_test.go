package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.False(t, cfg.Output.Redact)
	assert.False(t, cfg.DOCX.ListLabels)
	assert.Equal(t, "auto", cfg.Text.Encoding)
	assert.Equal(t, "chi_sim+eng", cfg.OCR.Language)
	assert.Equal(t, "quizbank.db", filepath.Base(cfg.Store.Path))
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "invalid level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "invalid log level",
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: true,
			errMsg:  "invalid log format",
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.Format = "pdf" },
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name:   "markdown output",
			mutate: func(c *Config) { c.Output.Format = "markdown" },
		},
		{
			name:   "jsonl output",
			mutate: func(c *Config) { c.Output.Format = "jsonl" },
		},
		{
			name:   "csv output",
			mutate: func(c *Config) { c.Output.Format = "CSV" },
		},
		{
			name:   "gbk encoding",
			mutate: func(c *Config) { c.Text.Encoding = "GBK" },
		},
		{
			name:    "unknown encoding",
			mutate:  func(c *Config) { c.Text.Encoding = "klingon" },
			wantErr: true,
			errMsg:  "invalid text encoding",
		},
		{
			name:    "missing store path",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: true,
			errMsg:  "store path is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "chi_sim+eng", cfg.OCR.Language)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "quizbank.yaml")
	content := `
log:
  level: debug
output:
  format: markdown
  redact: true
docx:
  list_labels: true
text:
  encoding: gb18030
store:
  path: /tmp/banks.db
practice:
  random: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.True(t, cfg.Output.Redact)
	assert.True(t, cfg.DOCX.ListLabels)
	assert.Equal(t, "gb18030", cfg.Text.Encoding)
	assert.Equal(t, "/tmp/banks.db", cfg.Store.Path)
	assert.True(t, cfg.Practice.Random)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("QUIZBANK_OUTPUT_FORMAT", "yaml")
	t.Setenv("QUIZBANK_OCR_LANGUAGE", "eng")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Output.Format)
	assert.Equal(t, "eng", cfg.OCR.Language)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestSaveToFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Output.Format = "yaml"
	cfg.Practice.Random = true
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "yaml", loaded.Output.Format)
	assert.True(t, loaded.Practice.Random)
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, "banks.db"), expandHome("~/banks.db"))
	assert.Equal(t, "/abs/banks.db", expandHome("/abs/banks.db"))
}
