// Package mpdqueue submits tracks to an MPD play queue.
package mpdqueue

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fhs/gompd/v2/mpd"
	"go.uber.org/zap"
)

// Client is the subset of *mpd.Client the queue needs.
type Client interface {
	Add(uri string) error
	PlaylistInfo(start, end int) ([]mpd.Attrs, error)
	Close() error
}

// Config describes how to reach MPD.
type Config struct {
	Network  string // "tcp" or "unix"
	Address  string
	Password string
}

// Options tunes how tracks are sent.
type Options struct {
	// StripRoot, when set, makes tracks under it relative to it, which is
	// the form MPD expects for files inside its music_directory.
	StripRoot string
	Logger    *zap.Logger
}

// Queue wraps an MPD connection.
type Queue struct {
	client Client
	root   string
	log    *zap.Logger
}

// Dial connects to MPD.
func Dial(cfg Config, opts Options) (*Queue, error) {
	var (
		c   *mpd.Client
		err error
	)
	if cfg.Password != "" {
		c, err = mpd.DialAuthenticated(cfg.Network, cfg.Address, cfg.Password)
	} else {
		c, err = mpd.Dial(cfg.Network, cfg.Address)
	}
	if err != nil {
		return nil, fmt.Errorf("connect to mpd at %s: %w", cfg.Address, err)
	}
	return New(c, opts), nil
}

// New wraps an existing client.
func New(client Client, opts Options) *Queue {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Queue{client: client, root: opts.StripRoot, log: log}
}

// Submit appends tracks to the queue in order, one request at a time. It
// stops at the first failure and returns how many tracks were queued;
// those stay queued.
func (q *Queue) Submit(tracks []string) (int, error) {
	for i, track := range tracks {
		uri := q.URI(track)
		if err := q.client.Add(uri); err != nil {
			return i, fmt.Errorf("add %q (%d of %d queued): %w", uri, i, len(tracks), err)
		}
		q.log.Debug("queued track", zap.String("uri", uri))
	}
	return len(tracks), nil
}

// URI returns the string sent to MPD for track.
func (q *Queue) URI(track string) string {
	if q.root == "" {
		return track
	}
	rel, err := filepath.Rel(q.root, track)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return track
	}
	return filepath.ToSlash(rel)
}

// List returns the file of every entry in the current queue.
func (q *Queue) List() ([]string, error) {
	entries, err := q.client.PlaylistInfo(-1, -1)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, attrs := range entries {
		files = append(files, attrs["file"])
	}
	return files, nil
}

// Close closes the connection.
func (q *Queue) Close() error {
	return q.client.Close()
}
