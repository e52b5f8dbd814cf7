// Package objectstore provides read-only access to the bucket holding
// raw song documents. S3, Google Cloud Storage and a local directory
// are supported behind the same interface.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/masahif/songstage/internal/config"
)

var (
	// ErrNotFound is returned by Get when the key does not exist
	ErrNotFound = errors.New("object not found")
	// ErrUnsupportedProvider is returned by Open for an unknown provider
	ErrUnsupportedProvider = errors.New("unsupported object store provider")
	// ErrInvalidKey is returned for keys that escape the store root
	ErrInvalidKey = errors.New("invalid object key")
)

// Store lists and reads objects
type Store interface {
	// List returns every key starting with prefix
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the body of the object stored under key
	Get(ctx context.Context, key string) ([]byte, error)
	// Close releases the client
	Close() error
}

// Open builds the store selected by cfg.Provider
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderS3:
		return NewS3Store(ctx, cfg)
	case config.ProviderGCS:
		return NewGCSStore(ctx, cfg)
	case config.ProviderFS:
		return NewFileStore(cfg.Root)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
}
