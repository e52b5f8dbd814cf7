package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masahif/songstage/internal/catalog"
	"github.com/masahif/songstage/internal/objectstore"
)

func init() {
	// Disable slog output during testing
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// newBucket writes objects into a temporary fs-backed store
func newBucket(t *testing.T, objects map[string]string) objectstore.Store {
	t.Helper()
	root := t.TempDir()
	for key, body := range objects {
		path := filepath.Join(root, filepath.FromSlash(key))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	store, err := objectstore.NewFileStore(root)
	require.NoError(t, err)
	return store
}

type failingStore struct {
	objectstore.Store
	listErr error
}

func (f failingStore) List(context.Context, string) ([]string, error) {
	return nil, f.listErr
}

func TestListCandidateKeys(t *testing.T) {
	store := newBucket(t, map[string]string{
		"raw/adele_hello.json":             `{}`,
		"raw/readme.txt":                   "x",
		"staging/adele_x.json":             `{}`,
		"raw/queen_bohemian_rhapsody.json": `{}`,
	})
	fetcher := NewFetcher(store, "raw/", 0)

	keys, err := fetcher.ListCandidateKeys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"raw/adele_hello.json", "raw/queen_bohemian_rhapsody.json"}, keys)
}

func TestResolveRequestedKeys(t *testing.T) {
	store := newBucket(t, map[string]string{
		"raw/adele_hello.json":               `{}`,
		"raw/edith_piaf_la_vie_en_rose.json": `{}`,
	})
	fetcher := NewFetcher(store, "", 0)

	requests := []catalog.SongRequest{
		{Title: "La Vie en rose", Artist: "Édith Piaf"},
		{Title: "Missing Song", Artist: "Nobody"},
		{Title: "Hello", Artist: "Adele"},
		{Title: "hello", Artist: "ADELE"},
	}

	keys, err := fetcher.ResolveRequestedKeys(context.Background(), requests)
	require.NoError(t, err)
	assert.Equal(t, []string{"raw/edith_piaf_la_vie_en_rose.json", "raw/adele_hello.json"}, keys)
}

func TestResolveRequestedKeysListError(t *testing.T) {
	listErr := errors.New("bucket unavailable")
	fetcher := NewFetcher(failingStore{listErr: listErr}, "raw/", 0)

	_, err := fetcher.ResolveRequestedKeys(context.Background(), []catalog.SongRequest{{Title: "Hello", Artist: "Adele"}})
	assert.ErrorIs(t, err, listErr)
}

func TestFetchAndParse(t *testing.T) {
	store := newBucket(t, map[string]string{
		"raw/adele_hello.json": `{"artist":{"name":"Adele"},"title":"Hello"}`,
		"raw/broken.json":      `{"artist":`,
		"raw/latin1.json":      "{\"artist\":{\"name\":\"Caf\xe9\"}}",
		"raw/anonymous.json":   `{"title":"Untitled"}`,
	})
	fetcher := NewFetcher(store, "raw/", 0)
	ctx := context.Background()

	rec, err := fetcher.FetchAndParse(ctx, "raw/adele_hello.json")
	require.NoError(t, err)
	assert.Equal(t, "Adele", rec.ArtistName())
	assert.Equal(t, "Hello", rec.TitleOrDefault())

	_, err = fetcher.FetchAndParse(ctx, "raw/broken.json")
	assert.ErrorIs(t, err, ErrDecode)
	assert.ErrorIs(t, err, catalog.ErrInvalidRecord)

	_, err = fetcher.FetchAndParse(ctx, "raw/latin1.json")
	assert.ErrorIs(t, err, ErrDecode)

	_, err = fetcher.FetchAndParse(ctx, "raw/anonymous.json")
	assert.ErrorIs(t, err, catalog.ErrMissingArtistName)

	_, err = fetcher.FetchAndParse(ctx, "raw/gone.json")
	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestFetchAndParseThrottled(t *testing.T) {
	store := newBucket(t, map[string]string{
		"raw/adele_hello.json": `{"artist":{"name":"Adele"}}`,
	})
	fetcher := NewFetcher(store, "raw/", 10) // one request every 100ms
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := fetcher.FetchAndParse(ctx, "raw/adele_hello.json")
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}
