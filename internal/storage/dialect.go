package storage

import (
	"strconv"
	"strings"

	"github.com/masahif/songstage/internal/config"
)

// Dialect holds the SQL that differs between the supported databases.
// Queries are written with ? placeholders and rebound when needed.
type Dialect struct {
	Name         string
	DriverName   string
	schema       []string
	upsertArtist string
	upsertSong   string
	dateColumn   string // expression reading release_date back as YYYY-MM-DD
	numbered     bool   // $1, $2, ... placeholders
}

// SQLite is backed by modernc.org/sqlite
var SQLite = Dialect{
	Name:       config.DriverSQLite,
	DriverName: "sqlite",
	schema:     []string{sqliteSchema},
	upsertArtist: `
		INSERT INTO artists (name, bio, image_url)
		VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			bio = excluded.bio,
			image_url = excluded.image_url`,
	upsertSong: `
		INSERT INTO songs (artist_id, title, url, image_url, language, release_date, pageviews, lyrics, french_lyrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(artist_id, title) DO UPDATE SET
			url = excluded.url,
			image_url = excluded.image_url,
			pageviews = excluded.pageviews,
			lyrics = excluded.lyrics,
			french_lyrics = excluded.french_lyrics`,
	dateColumn: "release_date",
}

// Postgres is backed by github.com/lib/pq
var Postgres = Dialect{
	Name:         config.DriverPostgres,
	DriverName:   "postgres",
	schema:       []string{postgresSchema},
	upsertArtist: SQLite.upsertArtist,
	upsertSong:   SQLite.upsertSong,
	dateColumn:   "to_char(release_date, 'YYYY-MM-DD')",
	numbered:     true,
}

// MySQL is backed by github.com/go-sql-driver/mysql
var MySQL = Dialect{
	Name:       config.DriverMySQL,
	DriverName: "mysql",
	schema:     mysqlSchema,
	upsertArtist: `
		INSERT INTO artists (name, bio, image_url)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE
			bio = VALUES(bio),
			image_url = VALUES(image_url)`,
	upsertSong: `
		INSERT INTO songs (artist_id, title, url, image_url, language, release_date, pageviews, lyrics, french_lyrics)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			url = VALUES(url),
			image_url = VALUES(image_url),
			pageviews = VALUES(pageviews),
			lyrics = VALUES(lyrics),
			french_lyrics = VALUES(french_lyrics)`,
	dateColumn: "DATE_FORMAT(release_date, '%Y-%m-%d')",
}

// DialectFor returns the dialect for a configured driver name
func DialectFor(driver string) (Dialect, bool) {
	switch strings.ToLower(driver) {
	case config.DriverSQLite:
		return SQLite, true
	case config.DriverPostgres:
		return Postgres, true
	case config.DriverMySQL:
		return MySQL, true
	default:
		return Dialect{}, false
	}
}

// Rebind rewrites ? placeholders for dialects that number them.
// Queries here never contain a literal question mark.
func (d Dialect) Rebind(query string) string {
	if !d.numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
