package tasks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/desertthunder/stepmuse/internal/models"
	"github.com/desertthunder/stepmuse/internal/services"
	"github.com/desertthunder/stepmuse/internal/shared"
	"golang.org/x/time/rate"
)

// ExportOpts contains configuration for batch similarity exports.
type ExportOpts struct {
	Count      int     // Similar tracks per source track (default: 10)
	NumWorkers int     // Concurrent workers (default: 4, max: 8)
	RateLimit  float64 // Requests per second (default: 5)
}

type exportJob struct {
	index  int
	record models.TrackRecord
}

type exportOutcome struct {
	index   int
	rows    []models.SuggestionRow
	skip    *SkippedTrack
	partial bool
}

// Export queries the similarity service for every track in records and
// returns one row per suggestion, grouped by source track in input order.
//
// This method implements a worker pool pattern with rate limiting. Per-track
// failures (unresolvable identity, API errors) skip that track and continue;
// an unreachable service fails the whole batch before any work starts.
func (e *ExportEngine) Export(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	records []models.TrackRecord,
	opts ExportOpts,
) (*ExportResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: similarity service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Count <= 0 {
		opts.Count = 10
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 8 {
		opts.NumWorkers = 8
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	sendProgress(prog, pingUpdate())
	if err := e.service.Ping(ctx); err != nil {
		return nil, fmt.Errorf("similarity service unreachable: %w", err)
	}

	result := &ExportResult{TotalTracks: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan exportJob, len(records))
	outcomes := make(chan exportOutcome, len(records))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, outcomes, limiter, opts.Count)
	}

	for i, record := range records {
		sendProgress(prog, processTrackUpdate(i+1, len(records), record))
		jobs <- exportJob{index: i, record: record}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	collected := make([]exportOutcome, 0, len(records))
	completed := 0
	for outcome := range outcomes {
		completed++
		collected = append(collected, outcome)

		record := records[outcome.index]
		if outcome.skip != nil {
			sendProgress(prog, trackSkippedUpdate(completed, len(records), record.Title, outcome.skip.Reason))
		} else {
			sendProgress(prog, trackCompletedUpdate(completed, len(records), record.Title, len(outcome.rows)))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Workers finish out of order; restore master-list order before flattening.
	sort.Slice(collected, func(i, j int) bool { return collected[i].index < collected[j].index })

	for _, outcome := range collected {
		if outcome.skip != nil {
			result.Skipped = append(result.Skipped, *outcome.skip)
			continue
		}
		result.Completed++
		result.Rows = append(result.Rows, outcome.rows...)
		if outcome.partial {
			result.Partial = append(result.Partial, records[outcome.index].Title)
		}
	}

	return result, nil
}

// exportWorker is a worker goroutine that processes tracks from the jobs channel.
func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan exportJob,
	outcomes chan<- exportOutcome,
	limiter *rate.Limiter,
	count int,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcomes <- e.processTrack(ctx, job, limiter, count)
	}
}

// processTrack resolves one track's remote identity and fetches its
// suggestion rows: count similar tracks ranked 1..n, then the single most
// distant track at rank [models.DissimilarRank].
func (e *ExportEngine) processTrack(
	ctx context.Context,
	job exportJob,
	limiter *rate.Limiter,
	count int,
) exportOutcome {
	outcome := exportOutcome{index: job.index}
	record := job.record

	skip := func(stage string, err error) exportOutcome {
		outcome.rows = nil
		outcome.skip = &SkippedTrack{
			Record: record,
			Reason: fmt.Sprintf("%s: %v", stage, err),
		}
		return outcome
	}

	itemID, cached := "", false
	if e.cache != nil {
		itemID, cached = e.cache.Lookup(record.ID)
	}

	if !cached {
		if err := limiter.Wait(ctx); err != nil {
			return skip("cancelled", err)
		}

		remote, err := e.service.Resolve(ctx, record.Title, record.Artist)
		if err != nil {
			return skip("resolve", err)
		}
		itemID = remote.ItemID

		if e.cache != nil {
			// Best effort; a failed store only costs a re-resolve next run.
			_ = e.cache.Store(record.ID, remote.ItemID, remote.Title, remote.Artist)
		}
	}

	if err := limiter.Wait(ctx); err != nil {
		return skip("cancelled", err)
	}
	neighbors, err := e.service.SimilarTracks(ctx, itemID, count)
	if err != nil {
		return skip("similar tracks", err)
	}

	if err := limiter.Wait(ctx); err != nil {
		return skip("cancelled", err)
	}
	distant, err := e.service.MostDistant(ctx, itemID)
	if err != nil {
		return skip("most distant", err)
	}

	outcome.partial = len(neighbors) < count
	outcome.rows = make([]models.SuggestionRow, 0, len(neighbors)+1)
	for i, neighbor := range neighbors {
		outcome.rows = append(outcome.rows, suggestionRow(record, i+1, neighbor.Track, neighbor.Distance))
	}
	outcome.rows = append(outcome.rows, suggestionRow(record, models.DissimilarRank, distant.Track, distant.Distance))

	return outcome
}

func suggestionRow(source models.TrackRecord, rank int, track services.RemoteTrack, distance float64) models.SuggestionRow {
	return models.SuggestionRow{
		Source:   source,
		Rank:     rank,
		ID:       track.ItemID,
		Title:    track.Title,
		Artist:   track.Artist,
		Album:    track.Album,
		Distance: distance,
	}
}
