package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName = "mpdshuffle"

	DefaultNetwork = "tcp"
	DefaultAddress = "[::1]:6600"
	DefaultSocket  = "/run/mpd/socket"
)

type Config struct {
	MusicRoot     string    `koanf:"music_root"`     // overridden by MPD_ROOT
	PercentDecode *bool     `koanf:"percent_decode"` // decode playlist entries (default: true)
	MPD           MPDConfig `koanf:"mpd"`
}

// MPDConfig holds the MPD connection settings.
type MPDConfig struct {
	Network   string `koanf:"network"` // "tcp" or "unix"
	Address   string `koanf:"address"` // host:port or socket path
	Password  string `koanf:"password"`
	StripRoot bool   `koanf:"strip_root"` // send tracks relative to the music root
}

// Load reads the config files, then applies environment overrides. When
// path is non-empty it is the only file read and it must exist.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	var configPaths []string
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		configPaths = []string{path}
	} else {
		configPaths = getConfigPaths()
	}

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, fmt.Errorf("load %s: %w", p, err)
			}
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()

	if cfg.MusicRoot != "" {
		cfg.MusicRoot = expandPath(cfg.MusicRoot)
	}
	if cfg.MPD.Network == "" {
		cfg.MPD.Network = DefaultNetwork
	}
	if cfg.MPD.Address == "" {
		cfg.MPD.Address = DefaultAddress
		if cfg.MPD.Network == "unix" {
			cfg.MPD.Address = DefaultSocket
		}
	}
	if cfg.MPD.Network == "unix" {
		cfg.MPD.Address = expandPath(cfg.MPD.Address)
	}

	return cfg, nil
}

// LoadEnvFile loads variables from a .env file without overriding ones
// already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Decode reports whether playlist entries are percent-decoded.
func (c *Config) Decode() bool {
	return c.PercentDecode == nil || *c.PercentDecode
}

// applyEnv follows the mpc conventions: MPD_HOST may be "password@host"
// and names a unix socket when it is an absolute path.
func (c *Config) applyEnv() {
	host := os.Getenv("MPD_HOST")
	port := os.Getenv("MPD_PORT")
	if pw := os.Getenv("MPD_PASSWORD"); pw != "" {
		c.MPD.Password = pw
	}

	if host != "" {
		if i := strings.LastIndex(host, "@"); i > 0 {
			c.MPD.Password = host[:i]
			host = host[i+1:]
		}
		if strings.HasPrefix(host, "/") || strings.HasPrefix(host, "~") {
			c.MPD.Network = "unix"
			c.MPD.Address = host
			return
		}
	}
	if host == "" && port == "" {
		return
	}

	curHost, curPort := "::1", "6600"
	if c.MPD.Network == "" || c.MPD.Network == "tcp" {
		if h, p, err := net.SplitHostPort(c.MPD.Address); err == nil {
			curHost, curPort = h, p
		}
	}
	if host != "" {
		curHost = host
	}
	if port != "" {
		curPort = port
	}
	c.MPD.Network = "tcp"
	c.MPD.Address = net.JoinHostPort(curHost, curPort)
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/mpdshuffle/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", appName, "config.toml"))
	}

	// 2. ./mpdshuffle.toml (pwd, highest priority)
	paths = append(paths, appName+".toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
