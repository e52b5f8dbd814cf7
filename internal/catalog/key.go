package catalog

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// Slug transliterates s to ASCII, replaces spaces with underscores and
// lowercases the result. Nothing else is escaped, so distinct inputs
// may share a slug.
func Slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(unidecode.Unidecode(s), " ", "_"))
}

// DeriveKey returns the object key the producer uses for a song:
// raw/<artist_slug>_<title_slug>.json
func DeriveKey(req SongRequest) string {
	return ObjectKeyPrefix + Slug(req.Artist) + "_" + Slug(req.Title) + ObjectKeyExtension
}
