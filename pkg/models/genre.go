package models

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Genre is the stored value of a book's genre. The set is closed.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
)

// Genres lists every genre in display order.
var Genres = []Genre{GenreFiction, GenreNonFiction}

// GenreValues is the validator "oneof" argument for every genre.
const GenreValues = "FICTION NON_FICTION"

func (g Genre) Valid() bool {
	for _, v := range Genres {
		if g == v {
			return true
		}
	}
	return false
}

// Slug is the URL form of the genre, e.g. "non-fiction".
func (g Genre) Slug() string {
	return strcase.ToKebab(string(g))
}

// DisplayName is the human form of the genre, e.g. "Non-Fiction".
func (g Genre) DisplayName() string {
	parts := strings.Split(g.Slug(), "-")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, "-")
}

// GenreFromSlug resolves a URL slug back to a genre. Only the canonical slug
// matches, so each genre page has exactly one cacheable path.
func GenreFromSlug(slug string) (Genre, bool) {
	for _, g := range Genres {
		if g.Slug() == slug {
			return g, true
		}
	}
	return "", false
}
