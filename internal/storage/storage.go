// Package storage persists artists and songs in a relational database.
// SQLite, PostgreSQL and MySQL are supported through database/sql.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Database drivers, selected by Dialect.DriverName
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/masahif/songstage/internal/catalog"
	"github.com/masahif/songstage/internal/config"
)

// ErrNotFound is returned by lookups that match no row
var ErrNotFound = errors.New("not found")

// SQLStorage writes normalized records to the artists and songs tables
type SQLStorage struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to the database described by cfg and optionally creates
// the tables. The handle is limited to a single connection that is
// reused for every record.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*SQLStorage, error) {
	dialect, ok := DialectFor(cfg.Driver)
	if !ok {
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownDriver, cfg.Driver)
	}

	dsn, err := DSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(dialect.DriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", dialect.Name, err)
	}

	s := New(db, dialect)
	if cfg.InitSchema {
		if err := s.InitSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return s, nil
}

// New wraps an open handle
func New(db *sql.DB, dialect Dialect) *SQLStorage {
	return &SQLStorage{db: db, dialect: dialect}
}

// InitSchema creates the artists and songs tables if they do not exist
func (s *SQLStorage) InitSchema(ctx context.Context) error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// SaveSong upserts the artist, resolves its id and upserts the song in
// one transaction. It returns the last stage reached: StageCommitted on
// success, otherwise the stage completed before the failure, in which
// case nothing has been written.
func (s *SQLStorage) SaveSong(ctx context.Context, rec *catalog.Normalized) (catalog.Stage, error) {
	stage := catalog.StageFetched

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stage, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(s.dialect.upsertArtist),
		rec.Artist.Name, rec.Artist.Bio, rec.Artist.ImageURL); err != nil {
		return stage, fmt.Errorf("failed to upsert artist %q: %w", rec.Artist.Name, err)
	}
	stage = catalog.StageArtistUpserted

	var artistID int64
	err = tx.QueryRowContext(ctx, s.dialect.Rebind(`SELECT id FROM artists WHERE name = ?`),
		rec.Artist.Name).Scan(&artistID)
	if err != nil {
		return stage, fmt.Errorf("failed to resolve artist id for %q: %w", rec.Artist.Name, err)
	}
	stage = catalog.StageArtistResolved

	song := rec.Song
	if _, err := tx.ExecContext(ctx, s.dialect.Rebind(s.dialect.upsertSong),
		artistID,
		song.Title,
		song.URL,
		song.ImageURL,
		song.Language,
		nullString(song.ReleaseDate),
		song.Pageviews,
		song.Lyrics,
		song.FrenchLyrics,
	); err != nil {
		return stage, fmt.Errorf("failed to upsert song %q: %w", song.Title, err)
	}
	stage = catalog.StageSongUpserted

	if err := tx.Commit(); err != nil {
		return stage, fmt.Errorf("failed to commit: %w", err)
	}
	return catalog.StageCommitted, nil
}

// GetArtist looks an artist up by its unique name
func (s *SQLStorage) GetArtist(ctx context.Context, name string) (*catalog.Artist, error) {
	var a catalog.Artist
	var bio, imageURL sql.NullString

	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(`
		SELECT id, name, bio, image_url FROM artists WHERE name = ?
	`), name).Scan(&a.ID, &a.Name, &bio, &imageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get artist %q: %w", name, err)
	}

	a.Bio = bio.String
	a.ImageURL = imageURL.String
	return &a, nil
}

// GetSong looks a song up by its natural key
func (s *SQLStorage) GetSong(ctx context.Context, artistID int64, title string) (*catalog.Song, error) {
	var song catalog.Song
	var url, imageURL, language, releaseDate, lyrics, frenchLyrics sql.NullString
	var pageviews sql.NullInt64

	query := fmt.Sprintf(`
		SELECT id, artist_id, title, url, image_url, language, %s, pageviews, lyrics, french_lyrics
		FROM songs
		WHERE artist_id = ? AND title = ?
	`, s.dialect.dateColumn)

	err := s.db.QueryRowContext(ctx, s.dialect.Rebind(query), artistID, title).Scan(
		&song.ID, &song.ArtistID, &song.Title, &url, &imageURL, &language,
		&releaseDate, &pageviews, &lyrics, &frenchLyrics,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("song %q of artist %d: %w", title, artistID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song %q: %w", title, err)
	}

	song.URL = url.String
	song.ImageURL = imageURL.String
	song.Language = language.String
	if releaseDate.Valid {
		song.ReleaseDate = &releaseDate.String
	}
	song.Pageviews = pageviews.Int64
	song.Lyrics = lyrics.String
	song.FrenchLyrics = frenchLyrics.String
	return &song, nil
}

// Counts returns the number of artist and song rows
func (s *SQLStorage) Counts(ctx context.Context) (artists, songs int, err error) {
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM artists`).Scan(&artists); err != nil {
		return 0, 0, fmt.Errorf("failed to count artists: %w", err)
	}
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM songs`).Scan(&songs); err != nil {
		return 0, 0, fmt.Errorf("failed to count songs: %w", err)
	}
	return artists, songs, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
