package mutation

import (
	"github.com/ayokitanulis/ayokitanulis/pkg/models"
)

// Canonical pages that mutations redirect to or invalidate.
const (
	PathHome         = "/"
	PathAdmin        = "/admin"
	PathAdminWriters = "/admin/writers/view"
	PathAuthors      = "/authors"
	PathBooks        = "/books"
	PathExplore      = "/explore"
	PathGenres       = "/genres"
	PathStudio       = "/user"
)

func BookPath(id string) string {
	return PathBooks + "/" + id
}

func GenrePath(g models.Genre) string {
	return PathGenres + "/" + g.Slug()
}

// BookPaths lists every cached page that shows any of the given books. Pass
// both the old and new version of an updated book so a genre change clears
// both genre pages.
func BookPaths(books ...*models.Book) []string {
	paths := []string{PathHome, PathBooks, PathExplore, PathAuthors, PathGenres}
	seen := map[string]bool{}
	for _, p := range paths {
		seen[p] = true
	}
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}
	for _, b := range books {
		if b == nil {
			continue
		}
		add(BookPath(b.ID))
		if b.Genre.Valid() {
			add(GenrePath(b.Genre))
		}
	}
	return paths
}
