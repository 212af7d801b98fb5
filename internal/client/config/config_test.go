package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
	assert.Equal(t, StorageBolt, cfg.Storage)
	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, time.Second, cfg.NotifyWindow)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("REPAIRDESK_SERVER_URL", "https://workshop.example.com")
	t.Setenv("REPAIRDESK_STORAGE", StorageSQLite)
	t.Setenv("REPAIRDESK_HTTP_TIMEOUT", "5s")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://workshop.example.com", cfg.ServerURL)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server_url: http://10.0.0.5:9090\nstorage: sqlite\nnotify_window: 2s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://10.0.0.5:9090", cfg.ServerURL)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, 2*time.Second, cfg.NotifyWindow)
	// untouched keys keep their defaults
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown storage", key: "REPAIRDESK_STORAGE", value: "redis"},
		{name: "zero timeout", key: "REPAIRDESK_HTTP_TIMEOUT", value: "0"},
		{name: "negative notify window", key: "REPAIRDESK_NOTIFY_WINDOW", value: "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load("")
			assert.Error(t, err)
		})
	}
}
