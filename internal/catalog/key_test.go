package catalog

import "testing"

func TestSlug(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Adele", "adele"},
		{"spaces", "Rolling in the Deep", "rolling_in_the_deep"},
		{"accents", "Céline Dion", "celine_dion"},
		{"cedilla and diaeresis", "Françoise Hardy Noël", "francoise_hardy_noel"},
		{"ligature", "Œuvre", "oeuvre"},
		{"punctuation kept", "Don't Stop", "don't_stop"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slug(tt.input); got != tt.expected {
				t.Errorf("Slug(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		request  SongRequest
		expected string
	}{
		{"simple", SongRequest{Title: "Hello", Artist: "Adele"}, "raw/adele_hello.json"},
		{"accented", SongRequest{Title: "Je ne regrette rien", Artist: "Édith Piaf"}, "raw/edith_piaf_je_ne_regrette_rien.json"},
		{"degenerate", SongRequest{}, "raw/_.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveKey(tt.request); got != tt.expected {
				t.Errorf("DeriveKey(%v) = %q, want %q", tt.request, got, tt.expected)
			}
		})
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	requests := []SongRequest{
		{Title: "Hello", Artist: "Adele"},
		{Title: "La Vie en rose", Artist: "Édith Piaf"},
		{Title: "Ça plane pour moi", Artist: "Plastic Bertrand"},
	}

	for _, req := range requests {
		first := DeriveKey(req)
		second := DeriveKey(req)
		if first != second {
			t.Errorf("DeriveKey(%v) not deterministic: %q vs %q", req, first, second)
		}
	}
}

func TestDeriveKeyCollision(t *testing.T) {
	// Underscores and spaces slug identically; the collision is accepted.
	a := DeriveKey(SongRequest{Title: "b c", Artist: "a"})
	b := DeriveKey(SongRequest{Title: "c", Artist: "a b"})
	if a != b {
		t.Errorf("expected colliding keys, got %q and %q", a, b)
	}
}
