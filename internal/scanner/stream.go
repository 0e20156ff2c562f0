package scanner

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/afero"

	"mpdshuffle/internal/playlist"
)

// Stream is a pull iterator over tracks, used like bufio.Scanner:
//
//	st := s.Expand(path)
//	defer st.Close()
//	for st.Next() {
//		use(st.Track())
//	}
//	if err := st.Err(); err != nil { ... }
//
// Pending work lives on an explicit stack, so deep trees do not grow the
// goroutine stack. The first error ends the stream for good.
type Stream struct {
	s     *Scanner
	stack []frame
	track string
	err   error
	done  bool
}

type frame interface {
	close() error
}

// pathFrame is a path not yet classified.
type pathFrame struct {
	path    string
	resolve bool
}

func (*pathFrame) close() error { return nil }

// dirFrame is an open directory whose entries are read in batches.
type dirFrame struct {
	path    string
	f       afero.File
	pending []string
	eof     bool
}

func (d *dirFrame) close() error { return d.f.Close() }

func (d *dirFrame) next(batch int) (string, error) {
	for len(d.pending) == 0 {
		if d.eof {
			return "", io.EOF
		}
		names, err := d.f.Readdirnames(batch)
		if errors.Is(err, io.EOF) {
			d.eof = true
		} else if err != nil {
			return "", err
		}
		d.pending = names
	}
	name := d.pending[0]
	d.pending = d.pending[1:]
	return name, nil
}

// listFrame is an open playlist read one line at a time.
type listFrame struct {
	path string
	f    afero.File
	r    *playlist.Reader
}

func (l *listFrame) close() error { return l.f.Close() }

// Next advances to the next track. It returns false when the stream is
// exhausted, failed or closed.
func (st *Stream) Next() bool {
	if st.done {
		return false
	}

	for len(st.stack) > 0 {
		switch f := st.stack[len(st.stack)-1].(type) {
		case *pathFrame:
			st.pop()
			track, ok, err := st.s.visit(st, f)
			if err != nil {
				st.fail(err)
				return false
			}
			if ok {
				st.track = track
				return true
			}

		case *dirFrame:
			name, err := f.next(st.s.batch)
			if errors.Is(err, io.EOF) {
				st.pop()
				if err := f.close(); err != nil {
					st.fail(err)
					return false
				}
				continue
			}
			if err != nil {
				st.fail(fmt.Errorf("read directory %s: %w", f.path, err))
				return false
			}
			// Entries are already absolute; they skip root resolution.
			st.push(&pathFrame{path: filepath.Join(f.path, name)})

		case *listFrame:
			entry, err := f.r.Next()
			if errors.Is(err, io.EOF) {
				st.pop()
				if err := f.close(); err != nil {
					st.fail(err)
					return false
				}
				continue
			}
			if err != nil {
				st.fail(fmt.Errorf("read playlist %s: %w", f.path, err))
				return false
			}
			st.push(&pathFrame{path: entry, resolve: true})
		}
	}

	st.done = true
	st.track = ""
	return false
}

// Track returns the track produced by the last successful call to Next.
func (st *Stream) Track() string {
	return st.track
}

// Err returns the error that ended the stream, if any.
func (st *Stream) Err() error {
	return st.err
}

// Close stops the stream and releases every open directory and playlist.
// It is safe to call more than once.
func (st *Stream) Close() error {
	st.done = true
	st.track = ""
	return st.unwind()
}

func (st *Stream) push(f frame) {
	st.stack = append(st.stack, f)
}

func (st *Stream) pop() {
	st.stack[len(st.stack)-1] = nil
	st.stack = st.stack[:len(st.stack)-1]
}

func (st *Stream) fail(err error) {
	st.err = err
	st.done = true
	st.track = ""
	_ = st.unwind()
}

func (st *Stream) unwind() error {
	var first error
	for len(st.stack) > 0 {
		if err := st.stack[len(st.stack)-1].close(); err != nil && first == nil {
			first = err
		}
		st.pop()
	}
	return first
}
