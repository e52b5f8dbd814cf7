package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/masahif/songstage/internal/catalog"
)

// RecordResult is the outcome of one object
type RecordResult struct {
	Key     string
	Artist  string
	Title   string
	Stage   catalog.Stage // StageCommitted, StageFetched for dry runs, StageFailed otherwise
	Reached catalog.Stage // Last stage completed; StageFetched when fetching or decoding failed
	Err     error
}

// OK reports whether the record was processed without error
func (r RecordResult) OK() bool {
	return r.Err == nil
}

// Report summarizes a batch
type Report struct {
	RunID     string
	Requested int
	Resolved  int
	Committed int
	Skipped   int // dry run only
	Failed    int
	Results   []RecordResult
	Duration  time.Duration
}

func (r *Report) add(res RecordResult) {
	r.Results = append(r.Results, res)
	switch {
	case !res.OK():
		r.Failed++
	case res.Stage == catalog.StageCommitted:
		r.Committed++
	default:
		r.Skipped++
	}
}

// Pipeline processes requested songs one at a time
type Pipeline struct {
	fetcher *Fetcher
	store   SongStore
	dryRun  bool
	logger  *slog.Logger
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithDryRun stops each record after normalization
func WithDryRun(dryRun bool) Option {
	return func(p *Pipeline) { p.dryRun = dryRun }
}

// WithLogger replaces slog.Default
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// NewPipeline creates a pipeline. store may be nil for dry runs.
func NewPipeline(fetcher *Fetcher, store SongStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: fetcher,
		store:   store,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.store == nil {
		p.dryRun = true
	}
	return p
}

// Run resolves the requests and processes every matching object. Record
// failures are reported in the Report; the returned error is only set
// when the listing fails or ctx is cancelled between records.
func (p *Pipeline) Run(ctx context.Context, requests []catalog.SongRequest) (*Report, error) {
	start := time.Now()
	report := &Report{
		RunID:     uuid.NewString(),
		Requested: len(requests),
	}
	logger := p.logger.With("run_id", report.RunID)

	keys, err := p.fetcher.ResolveRequestedKeys(ctx, requests)
	if err != nil {
		logger.Error("Failed to list objects", "error", err)
		return report, err
	}
	report.Resolved = len(keys)
	logger.Info("Objects found", "requested", len(requests), "found", len(keys), "dry_run", p.dryRun)

	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			logger.Warn("Batch interrupted", "processed", len(report.Results), "remaining", len(keys)-len(report.Results))
			report.Duration = time.Since(start)
			return report, err
		}

		logger.Info("Processing object", "key", key)
		report.add(p.process(ctx, logger, key))
	}

	report.Duration = time.Since(start)
	logger.Info("Batch complete",
		"committed", report.Committed,
		"failed", report.Failed,
		"skipped", report.Skipped,
		"duration", report.Duration)
	return report, nil
}

// process walks one key through fetch, normalize and save
func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, key string) RecordResult {
	res := RecordResult{Key: key, Stage: catalog.StageFetched}

	raw, err := p.fetcher.FetchAndParse(ctx, key)
	if err != nil {
		return p.fail(logger, res, err)
	}
	res.Artist = raw.ArtistName()
	res.Title = raw.TitleOrDefault()

	rec, err := raw.Normalize()
	if err != nil {
		return p.fail(logger, res, err)
	}
	if rec.ReleaseDateErr != nil {
		logger.Warn("Release date ignored",
			"key", key,
			"artist", res.Artist,
			"title", res.Title,
			"error", rec.ReleaseDateErr)
	}

	if p.dryRun {
		logger.Info("Record normalized (dry run)",
			"key", key,
			"artist", res.Artist,
			"title", res.Title,
			"release_date", derefOr(rec.Song.ReleaseDate, ""))
		return res
	}

	stage, err := p.store.SaveSong(ctx, rec)
	if err != nil {
		res.Reached = stage
		return p.fail(logger, res, err)
	}

	res.Stage = catalog.StageCommitted
	res.Reached = catalog.StageCommitted
	logger.Info("Song stored", "key", key, "title", res.Title, "artist", res.Artist)
	return res
}

func (p *Pipeline) fail(logger *slog.Logger, res RecordResult, err error) RecordResult {
	res.Err = err
	res.Stage = catalog.StageFailed
	logger.Error("Record failed",
		"key", res.Key,
		"artist", res.Artist,
		"title", res.Title,
		"stage", res.Reached.String(),
		"error", err)
	return res
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}
