package catalog

import (
	"errors"
	"testing"
)

func TestParseRecord(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"minimal", `{"artist":{"name":"Adele"}}`, nil},
		{"full", `{"artist":{"name":"Adele","bio":"b","image_url":"i"},"title":"Hello","url":"u","image_url":"s","language":"en","release_date":"2015","pageviews":12,"lyrics":"l","french_lyrics":"f"}`, nil},
		{"float pageviews", `{"artist":{"name":"Adele"},"pageviews":1.5e3}`, nil},
		{"malformed", `{"artist":`, ErrInvalidRecord},
		{"trailing data", `{"artist":{"name":"Adele"}} {}`, ErrInvalidRecord},
		{"missing artist", `{"title":"Hello"}`, ErrMissingArtistName},
		{"missing artist name", `{"artist":{"bio":"x"}}`, ErrMissingArtistName},
		{"blank artist name", `{"artist":{"name":"  "}}`, ErrMissingArtistName},
		{"pageviews overflow", `{"artist":{"name":"Adele"},"pageviews":1e300}`, ErrInvalidRecord},
		{"pageviews at int64 limit", `{"artist":{"name":"Adele"},"pageviews":9.3e18}`, ErrInvalidRecord},
		{"negative pageviews overflow", `{"artist":{"name":"Adele"},"pageviews":-1e19}`, ErrInvalidRecord},
		{"pageviews not a number", `{"artist":{"name":"Adele"},"pageviews":"abc"}`, ErrInvalidRecord},
		{"wrong type", `{"artist":{"name":"Adele"},"title":42}`, ErrInvalidRecord},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := ParseRecord([]byte(tt.input))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ParseRecord() unexpected error: %v", err)
				}
				if rec.ArtistName() != "Adele" {
					t.Errorf("ArtistName() = %q, want Adele", rec.ArtistName())
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"artist":{"name":"Adele"}}`))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}

	n, err := rec.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if n.Artist.Bio != DefaultBio {
		t.Errorf("Bio = %q, want %q", n.Artist.Bio, DefaultBio)
	}
	if n.Artist.ImageURL != "" {
		t.Errorf("Artist ImageURL = %q, want empty", n.Artist.ImageURL)
	}
	if n.Song.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", n.Song.Title, DefaultTitle)
	}
	if n.Song.Language != DefaultLanguage {
		t.Errorf("Language = %q, want %q", n.Song.Language, DefaultLanguage)
	}
	if n.Song.ReleaseDate != nil {
		t.Errorf("ReleaseDate = %q, want nil", *n.Song.ReleaseDate)
	}
	if n.Song.Pageviews != 0 {
		t.Errorf("Pageviews = %d, want 0", n.Song.Pageviews)
	}
	if n.Song.Lyrics != LyricsUnavailable {
		t.Errorf("Lyrics = %q, want %q", n.Song.Lyrics, LyricsUnavailable)
	}
	if n.Song.FrenchLyrics != "" {
		t.Errorf("FrenchLyrics = %q, want empty", n.Song.FrenchLyrics)
	}
}

func TestNormalizeFields(t *testing.T) {
	input := `{
		"artist": {"name": "Adele", "bio": "British singer", "image_url": "https://img/adele.jpg"},
		"title": "Hello",
		"url": "https://lyrics/hello",
		"language": "en",
		"release_date": "2015",
		"pageviews": 1.2e6,
		"lyrics": "[Intro]\nHello, it's me",
		"french_lyrics": "Paroles: [Intro]\nBonjour, c'est moi"
	}`
	rec, err := ParseRecord([]byte(input))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}

	n, err := rec.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}

	if n.Artist.Bio != "British singer" {
		t.Errorf("Bio = %q", n.Artist.Bio)
	}
	if n.Song.ReleaseDate == nil || *n.Song.ReleaseDate != "2015-01-01" {
		t.Errorf("ReleaseDate = %v, want 2015-01-01", n.Song.ReleaseDate)
	}
	if n.Song.Pageviews != 1200000 {
		t.Errorf("Pageviews = %d, want 1200000", n.Song.Pageviews)
	}
	if n.Song.Lyrics != "Hello, it's me" {
		t.Errorf("Lyrics = %q", n.Song.Lyrics)
	}
	if n.Song.FrenchLyrics != "Bonjour, c'est moi" {
		t.Errorf("FrenchLyrics = %q", n.Song.FrenchLyrics)
	}
}

func TestNormalizeBadDateIsNotFatal(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"artist":{"name":"Adele"},"title":"Hello","release_date":"not a date"}`))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}

	n, err := rec.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if n.Song.ReleaseDate != nil {
		t.Errorf("ReleaseDate = %q, want nil", *n.Song.ReleaseDate)
	}
	if !errors.Is(n.ReleaseDateErr, ErrUnparseableDate) {
		t.Errorf("ReleaseDateErr = %v, want ErrUnparseableDate", n.ReleaseDateErr)
	}
}

func TestNormalizeLargeFloatPageviews(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"artist":{"name":"Adele"},"pageviews":9e18}`))
	if err != nil {
		t.Fatalf("ParseRecord() error: %v", err)
	}
	n, err := rec.Normalize()
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if n.Song.Pageviews != 9000000000000000000 {
		t.Errorf("Pageviews = %d, want 9000000000000000000", n.Song.Pageviews)
	}
}

func TestStageString(t *testing.T) {
	if StageCommitted.String() != "committed" {
		t.Errorf("StageCommitted.String() = %q", StageCommitted.String())
	}
	if Stage(99).String() != "unknown" {
		t.Errorf("Stage(99).String() = %q", Stage(99).String())
	}
}
