// Package scanner expands a path into the audio tracks it stands for.
//
// A path may name a single track, a directory (expanded recursively) or a
// playlist whose entries are expanded in turn. Expansion is lazy: a Stream
// does filesystem work only when its consumer asks for the next track.
package scanner

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"mpdshuffle/internal/playlist"
)

// ErrNonUTF8TrackPath is returned for tracks whose path cannot be sent to MPD.
var ErrNonUTF8TrackPath = errors.New("non-UTF-8 track path")

// defaultBatchSize is how many directory entries are read per syscall.
const defaultBatchSize = 64

// Resolver makes a possibly relative path absolute.
type Resolver interface {
	Resolve(path string) (string, error)
}

// Options configures a Scanner. The zero value reads the OS filesystem
// without percent-decoding playlist entries.
type Options struct {
	Fs        afero.Fs
	Decoder   playlist.Decoder
	Logger    *zap.Logger
	BatchSize int
}

// Scanner expands paths into tracks.
type Scanner struct {
	fs       afero.Fs
	resolver Resolver
	decoder  playlist.Decoder
	log      *zap.Logger
	batch    int
}

// New creates a Scanner resolving relative paths through resolver.
func New(resolver Resolver, opts Options) *Scanner {
	s := &Scanner{
		fs:       opts.Fs,
		resolver: resolver,
		decoder:  opts.Decoder,
		log:      opts.Logger,
		batch:    opts.BatchSize,
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.batch <= 0 {
		s.batch = defaultBatchSize
	}
	return s
}

// Expand returns a lazy stream of the tracks path stands for. Nothing is
// read until the first call to Next.
func (s *Scanner) Expand(path string) *Stream {
	return &Stream{
		s:     s,
		stack: []frame{&pathFrame{path: path, resolve: true}},
	}
}

// Tracks expands path and collects every track in emission order.
func (s *Scanner) Tracks(path string) ([]string, error) {
	return Collect(s.Expand(path))
}

// visit classifies one path with a single Stat. It either returns a track,
// or pushes a frame that will produce the path's children.
func (s *Scanner) visit(st *Stream, f *pathFrame) (string, bool, error) {
	p := f.path
	if f.resolve {
		abs, err := s.resolver.Resolve(p)
		if err != nil {
			return "", false, fmt.Errorf("resolve %q: %w", p, err)
		}
		p = abs
	}

	info, err := s.fs.Stat(p)
	if err != nil {
		return "", false, err
	}

	if info.IsDir() {
		dir, err := s.fs.Open(p)
		if err != nil {
			return "", false, err
		}
		s.log.Debug("expanding directory", zap.String("path", p))
		st.push(&dirFrame{path: p, f: dir})
		return "", false, nil
	}

	if kind := playlist.KindOf(p); kind != playlist.NotPlaylist {
		file, err := s.fs.Open(p)
		if err != nil {
			return "", false, err
		}
		s.log.Debug("expanding playlist", zap.String("path", p), zap.Stringer("kind", kind))
		st.push(&listFrame{
			path: p,
			f:    file,
			r:    playlist.NewReader(file, kind, s.decoder),
		})
		return "", false, nil
	}

	if !utf8.ValidString(p) {
		return "", false, fmt.Errorf("%w: %q", ErrNonUTF8TrackPath, p)
	}
	return p, true, nil
}
