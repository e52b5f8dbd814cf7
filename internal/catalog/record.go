package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// ArtistPayload is the artist object embedded in a raw record
type ArtistPayload struct {
	Name     string  `json:"name"`
	Bio      *string `json:"bio,omitempty"`
	ImageURL *string `json:"image_url,omitempty"`
}

// RawSongRecord is the JSON document stored under raw/. Only the
// artist name is required; nil fields take the package defaults.
type RawSongRecord struct {
	Artist       *ArtistPayload `json:"artist"`
	Title        *string        `json:"title,omitempty"`
	URL          *string        `json:"url,omitempty"`
	ImageURL     *string        `json:"image_url,omitempty"`
	Language     *string        `json:"language,omitempty"`
	ReleaseDate  *string        `json:"release_date,omitempty"`
	Pageviews    *json.Number   `json:"pageviews,omitempty"`
	Lyrics       *string        `json:"lyrics,omitempty"`
	FrenchLyrics *string        `json:"french_lyrics,omitempty"`
}

// ParseRecord decodes and validates a raw record
func ParseRecord(data []byte) (*RawSongRecord, error) {
	var rec RawSongRecord
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON object", ErrInvalidRecord)
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Validate checks the fields a record cannot be stored without
func (r *RawSongRecord) Validate() error {
	if r.Artist == nil || strings.TrimSpace(r.Artist.Name) == "" {
		return ErrMissingArtistName
	}
	if _, err := r.pageviews(); err != nil {
		return err
	}
	return nil
}

// ArtistName returns the artist name, or "" when the record has none
func (r *RawSongRecord) ArtistName() string {
	if r.Artist == nil {
		return ""
	}
	return r.Artist.Name
}

// TitleOrDefault returns the title, falling back to DefaultTitle
func (r *RawSongRecord) TitleOrDefault() string {
	return stringOr(r.Title, DefaultTitle)
}

// Normalize applies defaults and the date and lyrics rules. An
// unparseable release date is stored as nil and reported in
// ReleaseDateErr for the caller to log.
func (r *RawSongRecord) Normalize() (*Normalized, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	pageviews, _ := r.pageviews()

	releaseDate, dateErr := NormalizeReleaseDate(r.ReleaseDate)

	return &Normalized{
		Artist: Artist{
			Name:     r.Artist.Name,
			Bio:      stringOr(r.Artist.Bio, DefaultBio),
			ImageURL: stringOr(r.Artist.ImageURL, ""),
		},
		Song: Song{
			Title:        r.TitleOrDefault(),
			URL:          stringOr(r.URL, ""),
			ImageURL:     stringOr(r.ImageURL, ""),
			Language:     stringOr(r.Language, DefaultLanguage),
			ReleaseDate:  releaseDate,
			Pageviews:    pageviews,
			Lyrics:       CleanLyrics(r.Lyrics),
			FrenchLyrics: CleanTranslatedLyrics(r.FrenchLyrics),
		},
		ReleaseDateErr: dateErr,
	}, nil
}

// pageviews accepts integers and floats (some producers emit 1.2e6)
func (r *RawSongRecord) pageviews() (int64, error) {
	if r.Pageviews == nil || *r.Pageviews == "" {
		return 0, nil
	}
	if n, err := r.Pageviews.Int64(); err == nil {
		return n, nil
	}
	f, err := r.Pageviews.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: pageviews %q is not a number", ErrInvalidRecord, r.Pageviews.String())
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, fmt.Errorf("%w: pageviews %q is out of range", ErrInvalidRecord, r.Pageviews.String())
	}
	return int64(f), nil
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
