package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, 0.3, cfg.Search.MinSimilarity)
	assert.Equal(t, 20, cfg.Search.Limit)
	assert.Equal(t, "uniform", cfg.View.SizingMode)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
server:
  port: 9090
backend:
  base_url: http://memstore.internal:8000
  timeout: 5s
view:
  sizing_mode: recency
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Production, cfg.Environment)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "http://memstore.internal:8000", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout)
	assert.Equal(t, "recency", cfg.View.SizingMode)
	// Untouched sections keep their defaults
	assert.Equal(t, 0.3, cfg.Search.MinSimilarity)
}

func TestLoad_MissingNamedFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err, "a named file that does not exist must fail fast")
}

func TestLoad_MalformedYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9090\n"), 0o644))

	t.Setenv("MEMVIEW_SERVER_PORT", "7070")
	t.Setenv("MEMVIEW_BACKEND_URL", "http://override:8000")
	t.Setenv("MEMVIEW_SIZING_MODE", "frequency")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "http://override:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "frequency", cfg.View.SizingMode)
}

func TestLoad_ValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad environment", map[string]string{"MEMVIEW_ENVIRONMENT": "staging"}},
		{"bad port", map[string]string{"MEMVIEW_SERVER_PORT": "70000"}},
		{"bad backend url", map[string]string{"MEMVIEW_BACKEND_URL": "not-a-url"}},
		{"bad similarity", map[string]string{"MEMVIEW_SEARCH_MIN_SIMILARITY": "1.5"}},
		{"bad sizing mode", map[string]string{"MEMVIEW_SIZING_MODE": "gigantic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
