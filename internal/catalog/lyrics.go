package catalog

import (
	"regexp"
	"strings"
)

var (
	lyricsLabel      = regexp.MustCompile(`^Paroles\s*:`)
	bracketAnnotated = regexp.MustCompile(`(?s)\[.*?\]`)
)

// CleanLyrics strips the "Paroles:" label, every [bracketed] annotation
// and blank lines from raw lyrics. Absent or empty input yields
// LyricsUnavailable.
func CleanLyrics(raw *string) string {
	if raw == nil || *raw == "" {
		return LyricsUnavailable
	}
	return sanitizeLyrics(*raw)
}

// CleanTranslatedLyrics is CleanLyrics for the optional translation,
// which stays empty when absent.
func CleanTranslatedLyrics(raw *string) string {
	if raw == nil || *raw == "" {
		return ""
	}
	return sanitizeLyrics(*raw)
}

func sanitizeLyrics(text string) string {
	text = lyricsLabel.ReplaceAllString(text, "")
	text = bracketAnnotated.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}
