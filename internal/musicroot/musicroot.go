// Package musicroot turns relative track paths into absolute ones.
//
// The root is picked once per run: an explicit override (the --root flag,
// the MPD_ROOT environment variable or the configured music_root) wins,
// otherwise the platform's per-user music directory is used.
package musicroot

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// EnvVar overrides every other root source when set to a non-empty value.
const EnvVar = "MPD_ROOT"

var (
	ErrMissingHomeDir  = errors.New("could not determine user folder")
	ErrMissingMusicDir = errors.New("could not determine music folder")
)

// LookupFunc returns the platform music directory.
type LookupFunc func() (string, error)

// PlatformMusicDir looks up the user's music directory through the XDG
// user-dirs conventions (and their macOS/Windows equivalents).
//
// On XDG platforms the directory only counts when it is configured, either
// by XDG_MUSIC_DIR or by an entry in user-dirs.dirs; xdg's $HOME/Music
// default is not used.
func PlatformMusicDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrMissingHomeDir
	}
	if xdg.UserDirs.Music == "" || !musicDirConfigured() {
		return "", ErrMissingMusicDir
	}
	return xdg.UserDirs.Music, nil
}

func musicDirConfigured() bool {
	switch runtime.GOOS {
	case "darwin", "ios", "windows", "plan9":
		return true
	}
	if os.Getenv("XDG_MUSIC_DIR") != "" {
		return true
	}

	path, err := xdg.SearchConfigFile("user-dirs.dirs")
	if err != nil {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if ok && strings.TrimSpace(key) == "XDG_MUSIC_DIR" && strings.Trim(strings.TrimSpace(value), `"`) != "" {
			return true
		}
	}
	return false
}

// Resolver resolves paths against a single root for the lifetime of a run.
type Resolver struct {
	root   string
	lookup LookupFunc

	looked   bool
	musicDir string
	err      error
}

// New returns a resolver using root as the override. An empty root defers
// to the platform music directory.
func New(root string) *Resolver {
	return NewWithLookup(root, PlatformMusicDir)
}

// NewWithLookup is New with a custom platform lookup.
func NewWithLookup(root string, lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = PlatformMusicDir
	}
	return &Resolver{root: root, lookup: lookup}
}

// FromEnv builds a resolver whose override is MPD_ROOT, falling back to
// configRoot when the variable is unset.
func FromEnv(configRoot string) *Resolver {
	root := os.Getenv(EnvVar)
	if root == "" {
		root = configRoot
	}
	return New(root)
}

// Root returns the override root, or "" when the platform directory is used.
func (r *Resolver) Root() string {
	return r.root
}

// Base returns the directory relative paths are joined onto.
func (r *Resolver) Base() (string, error) {
	if r.root != "" {
		return r.root, nil
	}
	return r.platformDir()
}

// Resolve returns path unchanged when it is absolute, otherwise joined onto
// the root. It never touches the filesystem.
func (r *Resolver) Resolve(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if r.root != "" {
		return filepath.Join(r.root, path), nil
	}
	dir, err := r.platformDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, path), nil
}

// platformDir runs the platform lookup at most once per resolver.
func (r *Resolver) platformDir() (string, error) {
	if !r.looked {
		r.musicDir, r.err = r.lookup()
		r.looked = true
	}
	return r.musicDir, r.err
}
