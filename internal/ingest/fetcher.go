// Package ingest resolves requested songs against the object store and
// upserts each matching record into the relational store.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/masahif/songstage/internal/catalog"
	"github.com/masahif/songstage/internal/objectstore"
)

var (
	// ErrFetch wraps failures to download an object
	ErrFetch = errors.New("fetch failed")
	// ErrDecode wraps failures to turn an object body into a record
	ErrDecode = errors.New("decode failed")
)

// Fetcher narrows the store listing to requested songs and downloads them
type Fetcher struct {
	store   objectstore.Store
	prefix  string
	limiter *rate.Limiter
}

// NewFetcher creates a fetcher listing keys under prefix. Downloads are
// throttled to requestsPerSecond; zero disables throttling.
func NewFetcher(store objectstore.Store, prefix string, requestsPerSecond float64) *Fetcher {
	if prefix == "" {
		prefix = catalog.ObjectKeyPrefix
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &Fetcher{
		store:   store,
		prefix:  prefix,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// ListCandidateKeys returns every JSON object key under the prefix
func (f *Fetcher) ListCandidateKeys(ctx context.Context) ([]string, error) {
	keys, err := f.store.List(ctx, f.prefix)
	if err != nil {
		return nil, err
	}

	candidates := keys[:0]
	for _, key := range keys {
		if strings.HasSuffix(key, catalog.ObjectKeyExtension) {
			candidates = append(candidates, key)
		}
	}
	return candidates, nil
}

// ResolveRequestedKeys derives the key of every request and keeps those
// present in the store, once each, in request order. Requests without
// an object are dropped.
func (f *Fetcher) ResolveRequestedKeys(ctx context.Context, requests []catalog.SongRequest) ([]string, error) {
	candidates, err := f.ListCandidateKeys(ctx)
	if err != nil {
		return nil, err
	}

	existing := make(map[string]struct{}, len(candidates))
	for _, key := range candidates {
		existing[key] = struct{}{}
	}

	seen := make(map[string]struct{}, len(requests))
	var resolved []string
	for _, req := range requests {
		key := catalog.DeriveKey(req)
		if _, ok := existing[key]; !ok {
			slog.Debug("No object for requested song", "title", req.Title, "artist", req.Artist, "key", key)
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		resolved = append(resolved, key)
	}
	return resolved, nil
}

// FetchAndParse downloads one object and decodes it as a song record
func (f *Fetcher) FetchAndParse(ctx context.Context, key string) (*catalog.RawSongRecord, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, key, err)
	}

	body, err := f.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if !utf8.Valid(body) {
		return nil, fmt.Errorf("%w: %s is not valid UTF-8", ErrDecode, key)
	}

	rec, err := catalog.ParseRecord(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, key, err)
	}
	return rec, nil
}
