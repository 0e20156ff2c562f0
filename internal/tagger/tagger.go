package tagger

import (
	"fmt"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// Metadata represents audio file metadata
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Year   int
	Genre  string
	Track  int
	Format tag.Format
}

// ReadTags reads metadata tags from an audio file
func ReadTags(filePath string) (*Metadata, error) {
	// id3v2 opens any file; an empty tag means there was no ID3v2 header.
	id3Tag, err := id3v2.Open(filePath, id3v2.Options{Parse: true})
	if err == nil {
		defer id3Tag.Close()
		if id3Tag.Count() > 0 {
			return fromID3(id3Tag), nil
		}
	}

	// Fallback to dhowden/tag for FLAC, MP4, OGG and ID3v1
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags: %w", err)
	}

	track, _ := meta.Track()
	return &Metadata{
		Title:  meta.Title(),
		Artist: meta.Artist(),
		Album:  meta.Album(),
		Year:   meta.Year(),
		Genre:  meta.Genre(),
		Track:  track,
		Format: meta.Format(),
	}, nil
}

func fromID3(t *id3v2.Tag) *Metadata {
	year := 0
	if yearStr := t.Year(); len(yearStr) >= 4 {
		fmt.Sscanf(yearStr[:4], "%d", &year)
	}

	track := 0
	if trackFrame := t.GetTextFrame("TRCK"); trackFrame.Text != "" {
		fmt.Sscanf(trackFrame.Text, "%d", &track)
	}

	return &Metadata{
		Title:  t.Title(),
		Artist: t.Artist(),
		Album:  t.Album(),
		Year:   year,
		Genre:  t.Genre(),
		Track:  track,
		Format: tag.Format(fmt.Sprintf("ID3v2.%d", t.Version())),
	}
}

// IsEmpty checks if all tags are empty
func (m *Metadata) IsEmpty() bool {
	return m.Title == "" &&
		m.Artist == "" &&
		m.Album == "" &&
		m.Year == 0 &&
		m.Genre == "" &&
		m.Track == 0
}

// Summary formats the tags as "Artist - Album - NN Title", leaving out
// missing parts.
func (m *Metadata) Summary() string {
	var parts []string
	if m.Artist != "" {
		parts = append(parts, m.Artist)
	}
	if m.Album != "" {
		parts = append(parts, m.Album)
	}
	title := m.Title
	if m.Track > 0 {
		title = strings.TrimSpace(fmt.Sprintf("%02d %s", m.Track, m.Title))
	}
	if title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " - ")
}
