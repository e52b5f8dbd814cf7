// Package catalog holds the song and artist types and the pure
// normalization rules applied to raw records before they are stored.
package catalog

import "fmt"

// Fallback values written when a record omits a field
const (
	DefaultBio         = "Biographie non disponible"
	DefaultTitle       = "Titre inconnu"
	DefaultLanguage    = "unknown"
	LyricsUnavailable  = "Paroles indisponibles"
	ObjectKeyPrefix    = "raw/"
	ObjectKeyExtension = ".json"
)

// SongRequest identifies a song the caller wants ingested
type SongRequest struct {
	Title  string
	Artist string
}

func (r SongRequest) String() string {
	return fmt.Sprintf("%q by %q", r.Title, r.Artist)
}

// Artist is a row of the artists table
type Artist struct {
	ID       int64
	Name     string // Unique key
	Bio      string
	ImageURL string
}

// Song is a row of the songs table
type Song struct {
	ID           int64
	ArtistID     int64   // References Artist.ID
	Title        string  // Unique together with ArtistID
	URL          string
	ImageURL     string
	Language     string
	ReleaseDate  *string // YYYY-MM-DD, nil when unknown
	Pageviews    int64
	Lyrics       string
	FrenchLyrics string
}

// Normalized is a record with defaults applied, ready to be upserted.
// Song.ID and Song.ArtistID are left zero; the store assigns them.
type Normalized struct {
	Artist Artist
	Song   Song

	// ReleaseDateErr is set when a release date was present but could
	// not be parsed; Song.ReleaseDate is nil in that case.
	ReleaseDateErr error
}
