package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TABLEGRANT_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 28800, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.DefaultPageSize)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.False(t, cfg.IsAuditEnabled())
	assert.True(t, cfg.IsMetricsEnabled())
	for _, attr := range cfg.Attributes() {
		assert.Equal(t, SourceDefault, attr.Source, attr.Name)
	}
}

func TestLoadLayering(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
token_ttl: 600
max_page_size: 50
audit_enabled: true
metrics_enabled: false
cors_allowed_origins:
  - http://localhost:5173
`)
	t.Setenv("TABLEGRANT_CONFIG_PATH", dir)
	t.Setenv("TABLEGRANT_MAX_PAGE_SIZE", "25")
	t.Setenv("TABLEGRANT_INITIAL_PASSWORD_LENGTH", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 600, cfg.TokenTTL)
	assert.Equal(t, SourceFile, cfg.Source("token_ttl"))
	assert.Equal(t, 25, cfg.MaxPageSize)
	assert.Equal(t, SourceEnvironment, cfg.Source("max_page_size"))
	assert.Equal(t, 16, cfg.InitialPasswordLength)
	assert.Equal(t, SourceDefault, cfg.Source("initial_password_length"))
	assert.True(t, cfg.IsAuditEnabled())
	assert.False(t, cfg.IsMetricsEnabled())
	assert.Equal(t, SourceFile, cfg.Source("metrics_enabled"))
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Minute, cfg.TokenLifetime())
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "token_ttl: [")
	t.Setenv("TABLEGRANT_CONFIG_PATH", dir)

	_, err := Load()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TablegrantConfig)
		wantErr string
	}{
		{"defaults", func(c *TablegrantConfig) {}, ""},
		{"short ttl", func(c *TablegrantConfig) { c.TokenTTL = 5 }, "token_ttl"},
		{"zero max page", func(c *TablegrantConfig) { c.MaxPageSize = 0 }, "max_page_size"},
		{"default above max", func(c *TablegrantConfig) { c.DefaultPageSize = 500 }, "default_page_size"},
		{"weak password", func(c *TablegrantConfig) { c.InitialPasswordLength = 4 }, "initial_password_length"},
		{"bad origin", func(c *TablegrantConfig) { c.CORSAllowedOrigins = []string{"example.com"} }, "cors_allowed_origins"},
		{"wildcard origin", func(c *TablegrantConfig) { c.CORSAllowedOrigins = []string{"*"} }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestClampPageSize(t *testing.T) {
	cfg := newDefault()
	assert.Equal(t, 10, cfg.ClampPageSize(0))
	assert.Equal(t, 10, cfg.ClampPageSize(-3))
	assert.Equal(t, 42, cfg.ClampPageSize(42))
	assert.Equal(t, 100, cfg.ClampPageSize(1000))
}

func TestFormat(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TABLEGRANT_CONFIG_PATH", dir)
	cfg, err := Load()
	require.NoError(t, err)

	text := cfg.FormatText()
	assert.Contains(t, text, filepath.Join(dir, ConfigFileName))
	assert.Contains(t, text, "cors_allowed_origins")
	assert.Contains(t, text, "(not set)")

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	var decoded struct {
		ConfigFile string      `json:"config_file"`
		Attributes []Attribute `json:"attributes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Len(t, decoded.Attributes, len(attributeNames()))
}

func TestWatchReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_page_size: 40\n")
	t.Setenv("TABLEGRANT_CONFIG_PATH", dir)
	require.NoError(t, Reload())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *TablegrantConfig, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, func(c *TablegrantConfig) { changes <- c }, nil)
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, dir, "max_page_size: 55\n")

	// A single write may surface as several events, the first of them
	// possibly seeing a truncated file
	timeout := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case c := <-changes:
			reloaded = c.MaxPageSize == 55
		case <-timeout:
			t.Fatal("timed out waiting for config reload")
		}
	}
	assert.Equal(t, 55, Get().MaxPageSize)

	cancel()
	assert.NoError(t, <-done)
}
