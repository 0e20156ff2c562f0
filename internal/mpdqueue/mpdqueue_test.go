package mpdqueue

import (
	"errors"
	"testing"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	added   []string
	failAt  int
	entries []mpd.Attrs
	listErr error
	closed  bool
}

func (f *fakeClient) Add(uri string) error {
	if f.failAt > 0 && len(f.added)+1 == f.failAt {
		return errors.New("ACK [50@0] {add} No such directory")
	}
	f.added = append(f.added, uri)
	return nil
}

func (f *fakeClient) PlaylistInfo(start, end int) ([]mpd.Attrs, error) {
	if start != -1 || end != -1 {
		return nil, errors.New("expected whole queue")
	}
	return f.entries, f.listErr
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestSubmitInOrder(t *testing.T) {
	c := &fakeClient{}
	q := New(c, Options{})

	n, err := q.Submit([]string{"/music/b.mp3", "/music/a.mp3", "/music/c.mp3"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"/music/b.mp3", "/music/a.mp3", "/music/c.mp3"}, c.added)
}

func TestSubmitStopsAtFirstFailure(t *testing.T) {
	c := &fakeClient{failAt: 2}
	q := New(c, Options{})

	n, err := q.Submit([]string{"/m/1.mp3", "/m/2.mp3", "/m/3.mp3"})
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "/m/2.mp3")
	assert.Equal(t, []string{"/m/1.mp3"}, c.added, "earlier tracks stay queued, later ones are not sent")
}

func TestSubmitNothing(t *testing.T) {
	c := &fakeClient{}
	n, err := New(c, Options{}).Submit(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, c.added)
}

func TestURIStripsRoot(t *testing.T) {
	q := New(&fakeClient{}, Options{StripRoot: "/music"})

	assert.Equal(t, "album/01 intro.mp3", q.URI("/music/album/01 intro.mp3"))
	assert.Equal(t, "/other/t.mp3", q.URI("/other/t.mp3"))
	assert.Equal(t, "/musicals/t.mp3", q.URI("/musicals/t.mp3"))

	assert.Equal(t, "/music/a.mp3", New(&fakeClient{}, Options{}).URI("/music/a.mp3"))
}

func TestList(t *testing.T) {
	c := &fakeClient{entries: []mpd.Attrs{
		{"file": "album/a.mp3", "Id": "1"},
		{"file": "/abs/b.flac", "Id": "2"},
	}}
	q := New(c, Options{})

	files, err := q.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"album/a.mp3", "/abs/b.flac"}, files)

	c.listErr = errors.New("connection reset")
	_, err = q.List()
	assert.ErrorContains(t, err, "list queue")

	require.NoError(t, q.Close())
	assert.True(t, c.closed)
}
