// Package playlist reads path entries out of .m3u and .m3u8 playlists.
package playlist

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"mpdshuffle/internal/encoder"
)

var (
	ErrBadEscape   = errors.New("malformed percent-encoding")
	ErrInvalidUTF8 = errors.New("invalid UTF-8")
)

// maxLineSize bounds a single playlist line.
const maxLineSize = 1 << 20

var utf8BOM = []byte("\xef\xbb\xbf")

// Kind classifies a file by its playlist extension.
type Kind int

const (
	NotPlaylist Kind = iota
	M3U8             // UTF-8 text
	M3U              // legacy, any single- or multi-byte code page
)

func (k Kind) String() string {
	switch k {
	case M3U8:
		return "m3u8"
	case M3U:
		return "m3u"
	default:
		return "none"
	}
}

// KindOf returns the playlist kind of path based on its extension.
func KindOf(path string) Kind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".m3u8":
		return M3U8
	case ".m3u":
		return M3U
	default:
		return NotPlaylist
	}
}

// Filter trims line and reports whether it names a path. Blank lines and
// lines starting with '#' (comments and #EXT directives) are dropped.
func Filter(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", false
	}
	return line, true
}

// Decoder turns filtered lines into paths.
type Decoder struct {
	// Percent enables percent-decoding of every entry.
	Percent bool
}

// Decode percent-decodes entry when enabled. The result must be valid UTF-8.
func (d Decoder) Decode(entry string) (string, error) {
	if !d.Percent {
		return entry, nil
	}
	decoded, err := url.PathUnescape(entry)
	if err != nil {
		return "", fmt.Errorf("%w in %q", ErrBadEscape, entry)
	}
	if !utf8.ValidString(decoded) {
		return "", fmt.Errorf("%w after decoding %q", ErrInvalidUTF8, entry)
	}
	return decoded, nil
}

// Reader yields the path entries of a playlist one line at a time.
type Reader struct {
	sc      *bufio.Scanner
	kind    Kind
	decoder Decoder
	line    int
}

// NewReader reads entries of the given kind from r.
func NewReader(r io.Reader, kind Kind, decoder Decoder) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Reader{sc: sc, kind: kind, decoder: decoder}
}

// Line returns the number of the last line read.
func (r *Reader) Line() int {
	return r.line
}

// Next returns the next entry, skipping blanks and comments. It returns
// io.EOF once the playlist is exhausted.
func (r *Reader) Next() (string, error) {
	for r.sc.Scan() {
		r.line++
		raw := r.sc.Bytes()
		if r.line == 1 {
			raw = bytes.TrimPrefix(raw, utf8BOM)
		}

		text, err := r.text(raw)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", r.line, err)
		}

		entry, ok := Filter(text)
		if !ok {
			continue
		}

		path, err := r.decoder.Decode(entry)
		if err != nil {
			return "", fmt.Errorf("line %d: %w", r.line, err)
		}
		return path, nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *Reader) text(raw []byte) (string, error) {
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	if r.kind != M3U {
		return "", ErrInvalidUTF8
	}
	text, _, err := encoder.ToUTF8(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidUTF8, err)
	}
	return text, nil
}
