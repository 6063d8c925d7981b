package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"SERVER_HOST", "SERVER_PORT", "MAX_UPLOAD_MB", "LOG_LEVEL", "LOG_FORMAT", "PDFTOTEXT_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, 32<<20, cfg.Server.BodyLimit())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "pdftotext", cfg.Extractor.PdftotextPath)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("MAX_UPLOAD_MB", "8")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, 8<<20, cfg.Server.BodyLimit())
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PDFTOTEXT_PATH=/opt/poppler/bin/pdftotext\n"), 0o600))
	chdir(t, dir)
	t.Setenv("PDFTOTEXT_PATH", "")
	os.Unsetenv("PDFTOTEXT_PATH")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/poppler/bin/pdftotext", cfg.Extractor.PdftotextPath)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server: ServerConfig{Host: "localhost", Port: 5000, MaxUploadMB: 32},
		Log:    LogConfig{Level: "info", Format: "text"},
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero port", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }, true},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, true},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"json log format", func(c *Config) { c.Log.Format = "JSON" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := (&LogConfig{Level: "warn", Format: "json"}).NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", slog.String("field", "credit_limit"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"field":"credit_limit"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelError, parseLevel("ERROR"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}
