package ingest

import (
	"context"

	"github.com/masahif/songstage/internal/catalog"
)

// SongStore persists one normalized record in its own transaction
type SongStore interface {
	// SaveSong returns the last stage reached and any error; on error the
	// transaction has been rolled back.
	SaveSong(ctx context.Context, rec *catalog.Normalized) (catalog.Stage, error)
}
