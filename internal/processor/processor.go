package processor

import (
	"sync"

	"go.uber.org/zap"

	"mpdshuffle/internal/tagger"
)

// ProcessOptions contains options for processing tracks
type ProcessOptions struct {
	Threads int // Number of worker threads
	Logger  *zap.Logger

	// ReadTags defaults to tagger.ReadTags.
	ReadTags func(path string) (*tagger.Metadata, error)
}

// Processor reads tags of resolved tracks with a bounded worker pool
type Processor struct {
	options ProcessOptions
	stats   Statistics
	mu      sync.Mutex
}

// Statistics tracks processing statistics
type Statistics struct {
	Total    int
	Success  int
	Failed   int
	Untagged int
}

// Result is the outcome for one track
type Result struct {
	Track    string
	Metadata *tagger.Metadata
	Err      error
}

// New creates a new Processor with the given options
func New(options ProcessOptions) *Processor {
	if options.Threads <= 0 {
		options.Threads = 1
	}
	if options.ReadTags == nil {
		options.ReadTags = tagger.ReadTags
	}
	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	return &Processor{options: options}
}

// ProcessTracks reads the tags of every track. Results keep the order of
// tracks; a failed read is recorded in its Result and never stops the rest.
func (p *Processor) ProcessTracks(tracks []string) []Result {
	p.stats = Statistics{Total: len(tracks)}
	results := make([]Result, len(tracks))

	jobs := make(chan int, len(tracks))
	var wg sync.WaitGroup

	for i := 0; i < p.options.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = p.processTrack(tracks[idx])
			}
		}()
	}

	for i := range tracks {
		jobs <- i
	}
	close(jobs)

	wg.Wait()

	return results
}

// Stats returns the statistics of the last ProcessTracks call
func (p *Processor) Stats() Statistics {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stats
}

func (p *Processor) processTrack(track string) Result {
	meta, err := p.options.ReadTags(track)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		p.stats.Failed++
		p.options.Logger.Debug("tag read failed", zap.String("path", track), zap.Error(err))
		return Result{Track: track, Err: err}
	}
	p.stats.Success++
	if meta.IsEmpty() {
		p.stats.Untagged++
	}
	return Result{Track: track, Metadata: meta}
}
