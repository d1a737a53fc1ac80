package catalog

// Image is a catalog image in one resolution.
type Image struct {
	URL    string
	Width  int
	Height int
}

// Artist is a catalog artist profile.
type Artist struct {
	ID         string
	Name       string
	Images     []Image  // Largest first, as returned by the catalog; may be empty
	Genres     []string // May be empty
	Popularity int
	URL        string // Web player link
}

// Album is a release as returned in an artist's discography.
type Album struct {
	ID          string
	Name        string
	Images      []Image
	ReleaseDate string // Precision varies: "2006", "2006-03" or "2006-03-21"
	Group       string // Release group type; open-ended, e.g. "album", "single", "appears_on"
	URL         string
}

// Track is a catalog track with the album it appears on.
type Track struct {
	ID      string
	Name    string
	Artists []string
	Album   Album
	URL     string
}

// Time ranges accepted for ranked lists.
const (
	TimeRangeShort  = "short_term"  // Roughly the last four weeks
	TimeRangeMedium = "medium_term" // Roughly the last six months
	TimeRangeLong   = "long_term"   // Several years
)

// ValidTimeRange reports whether r is a known time range. The empty
// string is valid and means the catalog default.
func ValidTimeRange(r string) bool {
	switch r {
	case "", TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		return true
	default:
		return false
	}
}

// TopOptions controls a ranked-list request.
type TopOptions struct {
	Limit     int    // Number of items requested; zero uses the catalog default
	TimeRange string // One of the TimeRange constants; empty uses the catalog default
}

// AlbumOptions controls a discography request.
type AlbumOptions struct {
	Limit  int
	Market string // ISO 3166-1 alpha-2 country code
}
