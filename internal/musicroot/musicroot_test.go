package musicroot

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	noLookup := func() (string, error) {
		t.Fatal("platform lookup should not run")
		return "", nil
	}

	tests := []struct {
		name     string
		root     string
		input    string
		expected string
	}{
		{
			name:     "absolute path unchanged",
			root:     "/music",
			input:    "/srv/other/track.mp3",
			expected: "/srv/other/track.mp3",
		},
		{
			name:     "relative path joined onto root",
			root:     "/music",
			input:    "album/track.mp3",
			expected: "/music/album/track.mp3",
		},
		{
			name:     "parent segments are cleaned",
			root:     "/music/album",
			input:    "../other/t3.mp3",
			expected: "/music/other/t3.mp3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewWithLookup(tt.root, noLookup)
			got, err := r.Resolve(filepath.FromSlash(tt.input))
			require.NoError(t, err)
			assert.Equal(t, filepath.FromSlash(tt.expected), got)
		})
	}
}

func TestResolveFallsBackToMusicDir(t *testing.T) {
	calls := 0
	r := NewWithLookup("", func() (string, error) {
		calls++
		return "/home/user/Music", nil
	})

	got, err := r.Resolve("a.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/user/Music", "a.mp3"), got)

	got, err = r.Resolve("sub/b.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/user/Music", "sub", "b.mp3"), got)

	assert.Equal(t, 1, calls, "lookup should be memoised per resolver")
}

func TestResolveLookupFailures(t *testing.T) {
	for _, want := range []error{ErrMissingHomeDir, ErrMissingMusicDir} {
		t.Run(want.Error(), func(t *testing.T) {
			r := NewWithLookup("", func() (string, error) { return "", want })

			_, err := r.Resolve("a.mp3")
			assert.ErrorIs(t, err, want)

			// Absolute paths never need the lookup.
			got, err := r.Resolve("/abs/a.mp3")
			require.NoError(t, err)
			assert.Equal(t, "/abs/a.mp3", got)
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvVar, "/env/root")
	assert.Equal(t, "/env/root", FromEnv("/config/root").Root())

	t.Setenv(EnvVar, "")
	assert.Equal(t, "/config/root", FromEnv("/config/root").Root())
}

func TestBase(t *testing.T) {
	base, err := NewWithLookup("/root", nil).Base()
	require.NoError(t, err)
	assert.Equal(t, "/root", base)

	base, err = NewWithLookup("", func() (string, error) { return "/home/u/Music", nil }).Base()
	require.NoError(t, err)
	assert.Equal(t, "/home/u/Music", base)

	_, err = NewWithLookup("", func() (string, error) { return "", ErrMissingMusicDir }).Base()
	assert.ErrorIs(t, err, ErrMissingMusicDir)
}

// isolateXDG points every XDG lookup at a fresh temp dir and reloads xdg.
// The returned dir is the home directory.
func isolateXDG(t *testing.T) string {
	t.Helper()
	if runtime.GOOS != "linux" {
		t.Skip("XDG user-dirs lookup only applies on Linux")
	}

	// Registered first so it runs after the env vars are restored.
	t.Cleanup(xdg.Reload)

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(home, "etc-xdg"))
	t.Setenv("XDG_MUSIC_DIR", "")
	xdg.Reload()
	return home
}

func TestPlatformMusicDirMissingHome(t *testing.T) {
	isolateXDG(t)
	t.Setenv("HOME", "")
	xdg.Reload()

	_, err := PlatformMusicDir()
	assert.ErrorIs(t, err, ErrMissingHomeDir)

	_, err = New("").Resolve("a.mp3")
	assert.ErrorIs(t, err, ErrMissingHomeDir)
}

func TestPlatformMusicDirNotConfigured(t *testing.T) {
	isolateXDG(t)

	_, err := PlatformMusicDir()
	assert.ErrorIs(t, err, ErrMissingMusicDir)

	_, err = New("").Resolve("a.mp3")
	assert.ErrorIs(t, err, ErrMissingMusicDir)
}

func TestPlatformMusicDirFromUserDirsFile(t *testing.T) {
	home := isolateXDG(t)

	cfgDir := filepath.Join(home, ".config")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "user-dirs.dirs"),
		[]byte("# written by xdg-user-dirs-update\nXDG_MUSIC_DIR=\"$HOME/Tunes\"\n"), 0o644))
	xdg.Reload()

	dir, err := PlatformMusicDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Tunes"), dir)
}

func TestPlatformMusicDirFromEnv(t *testing.T) {
	home := isolateXDG(t)
	music := filepath.Join(home, "library")
	t.Setenv("XDG_MUSIC_DIR", music)
	xdg.Reload()

	dir, err := PlatformMusicDir()
	require.NoError(t, err)
	assert.Equal(t, music, dir)

	got, err := New("").Resolve("a.mp3")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(music, "a.mp3"), got)
}
