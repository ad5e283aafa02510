package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yllada/mulltray/common"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "/var/run/mullvad-vpn", cfg.SocketPath)
	assert.Equal(t, 10*time.Second, cfg.CommandTimeout)
	assert.True(t, cfg.ShowNotifications)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogToFile)
}

func TestLoadFrom_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.FileExists(t, path)

	// Second load reads the file just written
	again, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFrom_ParsesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "socket_path: /tmp/daemon.sock\n" +
		"command_timeout: 3s\n" +
		"show_notifications: false\n" +
		"log_level: debug\n" +
		"log_to_file: false\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/daemon.sock", cfg.SocketPath)
	assert.Equal(t, 3*time.Second, cfg.CommandTimeout)
	assert.False(t, cfg.ShowNotifications)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.LogToFile)
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log_level: warn\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, common.DefaultSocketPath, cfg.SocketPath)
	assert.True(t, cfg.ShowNotifications)
}

func TestLoadFrom_InvalidValuesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "socket_path: \"\"\ncommand_timeout: -1s\nlog_level: chatty\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, common.DefaultSocketPath, cfg.SocketPath)
	assert.Equal(t, common.CommandTimeout, cfg.CommandTimeout)
	assert.Equal(t, common.LogLevelInfo, cfg.LogLevel)
}

func TestLoadFrom_RejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("theme: dark\n"), 0600))

	_, err := LoadFrom(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrConfigLoad))
}

func TestSaveTo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.SocketPath = "/run/other.sock"
	cfg.CommandTimeout = 2500 * time.Millisecond

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestDefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "mulltray", "config.yaml"), path)
	assert.DirExists(t, filepath.Dir(path))
}
