package display

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"mpdshuffle/internal/processor"
)

// PrintTracks writes one track per line.
func PrintTracks(w io.Writer, tracks []string) {
	for _, track := range tracks {
		fmt.Fprintln(w, track)
	}
}

// PrintQueue writes the file of every queue entry, one per line.
func PrintQueue(w io.Writer, files []string) {
	PrintTracks(w, files)
}

// PrintTagged writes each track followed by its tag summary.
func PrintTagged(w io.Writer, results []processor.Result) {
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(w, "%s\n  (no tags: %v)\n", r.Track, r.Err)
		case r.Metadata.IsEmpty():
			fmt.Fprintf(w, "%s\n  (empty tags)\n", r.Track)
		default:
			fmt.Fprintf(w, "%s\n  %s\n", r.Track, r.Metadata.Summary())
		}
	}
}

// PrintStatistics writes the tag reading summary.
func PrintStatistics(w io.Writer, stats processor.Statistics) {
	fmt.Fprintln(w, "\nStatistics:")
	fmt.Fprintf(w, "  Total tracks: %s\n", humanize.Comma(int64(stats.Total)))
	fmt.Fprintf(w, "  Tags read: %s\n", humanize.Comma(int64(stats.Success)))
	fmt.Fprintf(w, "  Without tags: %s\n", humanize.Comma(int64(stats.Failed+stats.Untagged)))
}

// Summary describes one add-shuffled run.
type Summary struct {
	Resolved int
	Queued   int
	Elapsed  time.Duration
}

// PrintSummary writes a one-line report of an add-shuffled run.
func PrintSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "Queued %s of %s %s in %s\n",
		humanize.Comma(int64(s.Queued)),
		humanize.Comma(int64(s.Resolved)),
		english.PluralWord(s.Resolved, "track", ""),
		s.Elapsed.Round(time.Millisecond))
}
