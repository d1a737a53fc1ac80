// Package discography buckets an artist's releases by release group.
package discography

import "github.com/jfmyers9/spotlight/internal/catalog"

// Release group types the catalog is known to return. The set is open:
// anything else is grouped under its own raw value.
const (
	CategoryAlbum       = "album"
	CategorySingle      = "single"
	CategoryAppearsOn   = "appears_on"
	CategoryCompilation = "compilation"
)

var labels = map[string]string{
	CategoryAlbum:       "Albums",
	CategorySingle:      "Singles",
	CategoryAppearsOn:   "Other Appearances",
	CategoryCompilation: "Compilations",
}

// Group is the releases of one category, in catalog order.
type Group struct {
	Category string
	Label    string
	Albums   []catalog.Album
}

// Label returns the display label for a category. Unknown categories are
// their own label.
func Label(category string) string {
	if label, ok := labels[category]; ok {
		return label
	}
	return category
}

// GroupAlbums buckets albums by release group in a single pass.
//
// Groups appear in the order their category is first seen in albums, and
// each group keeps the input order of its albums. No album is dropped,
// whatever its category. Empty input yields an empty (nil) result.
func GroupAlbums(albums []catalog.Album) []Group {
	var groups []Group
	index := make(map[string]int)

	for _, album := range albums {
		i, ok := index[album.Group]
		if !ok {
			i = len(groups)
			index[album.Group] = i
			groups = append(groups, Group{
				Category: album.Group,
				Label:    Label(album.Group),
			})
		}
		groups[i].Albums = append(groups[i].Albums, album)
	}

	return groups
}
