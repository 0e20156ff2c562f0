//nolint:goconst // test cases intentionally repeat strings for readability
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"MPD_HOST", "MPD_PORT", "MPD_PASSWORD"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("Could not get home dir: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde expands to home", "~/music", filepath.Join(home, "music")},
		{"absolute path unchanged", "/srv/music", "/srv/music"},
		{"relative path unchanged", "music/albums", "music/albums"},
		{"empty string unchanged", "", ""},
		{"tilde only", "~", home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandPath(tt.input))
		})
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := getConfigPaths()
	require.NotEmpty(t, paths)
	assert.Equal(t, "mpdshuffle.toml", paths[len(paths)-1])
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)

	assert.Empty(t, cfg.MusicRoot)
	assert.True(t, cfg.Decode())
	assert.Equal(t, DefaultNetwork, cfg.MPD.Network)
	assert.Equal(t, DefaultAddress, cfg.MPD.Address)
	assert.False(t, cfg.MPD.StripRoot)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
music_root = "/srv/music"
percent_decode = false

[mpd]
network = "tcp"
address = "mpd.lan:6601"
password = "hunter2"
strip_root = true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/music", cfg.MusicRoot)
	assert.False(t, cfg.Decode())
	assert.Equal(t, "mpd.lan:6601", cfg.MPD.Address)
	assert.Equal(t, "hunter2", cfg.MPD.Password)
	assert.True(t, cfg.MPD.StripRoot)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	path := writeConfig(t, "[mpd]\naddress = \"mpd.lan:6601\"\n")

	tests := []struct {
		name     string
		host     string
		port     string
		network  string
		address  string
		password string
	}{
		{"port only keeps host", "", "7000", "tcp", "mpd.lan:7000", ""},
		{"host only keeps port", "box", "", "tcp", "box:6601", ""},
		{"password prefix", "secret@box", "6600", "tcp", "box:6600", "secret"},
		{"unix socket", "/run/mpd/socket", "", "unix", "/run/mpd/socket", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("MPD_HOST", tt.host)
			t.Setenv("MPD_PORT", tt.port)

			cfg, err := Load(path)
			require.NoError(t, err)
			assert.Equal(t, tt.network, cfg.MPD.Network)
			assert.Equal(t, tt.address, cfg.MPD.Address)
			assert.Equal(t, tt.password, cfg.MPD.Password)
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, ".env")), "missing file is fine")

	t.Setenv("MPD_ROOT", "")
	require.NoError(t, os.Unsetenv("MPD_ROOT"))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("MPD_ROOT=/from/dotenv\n"), 0o644))

	require.NoError(t, LoadEnvFile(envPath))
	assert.Equal(t, "/from/dotenv", os.Getenv("MPD_ROOT"))
}
