// Package toplist fetches the user's ranked artists and tracks.
package toplist

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/rs/zerolog"
)

// DefaultLimit is used when a caller passes a zero limit.
const DefaultLimit = 20

// ErrInvalidLimit is returned for negative limits.
var ErrInvalidLimit = errors.New("toplist: limit must be positive")

// Source is the part of the catalog client the fetcher needs.
type Source interface {
	TopArtists(ctx context.Context, opts catalog.TopOptions) ([]catalog.Artist, error)
	TopTracks(ctx context.Context, opts catalog.TopOptions) ([]catalog.Track, error)
}

// Fetcher returns ranked lists exactly as the catalog ranks them.
//
// It does not re-rank, page beyond the single requested page, cache, or
// retry. Errors from the source are returned unchanged so callers can
// test them with errors.Is.
type Fetcher struct {
	source    Source
	timeRange string
	logger    zerolog.Logger
}

// New creates a Fetcher. timeRange may be empty for the catalog default.
func New(source Source, timeRange string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		source:    source,
		timeRange: timeRange,
		logger:    logger.With().Str("component", "toplist").Logger(),
	}
}

// TopArtists returns at most limit of the user's top artists, in ranking
// order.
func (f *Fetcher) TopArtists(ctx context.Context, limit int) ([]catalog.Artist, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	artists, err := f.source.TopArtists(ctx, catalog.TopOptions{Limit: limit, TimeRange: f.timeRange})
	if err != nil {
		return nil, err
	}

	f.logger.Debug().Int("limit", limit).Int("count", len(artists)).Msg("Fetched top artists")
	return truncate(artists, limit), nil
}

// TopTracks returns at most limit of the user's top tracks, in ranking
// order.
func (f *Fetcher) TopTracks(ctx context.Context, limit int) ([]catalog.Track, error) {
	limit, err := normalizeLimit(limit)
	if err != nil {
		return nil, err
	}

	tracks, err := f.source.TopTracks(ctx, catalog.TopOptions{Limit: limit, TimeRange: f.timeRange})
	if err != nil {
		return nil, err
	}

	f.logger.Debug().Int("limit", limit).Int("count", len(tracks)).Msg("Fetched top tracks")
	return truncate(tracks, limit), nil
}

func normalizeLimit(limit int) (int, error) {
	switch {
	case limit < 0:
		return 0, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	case limit == 0:
		return DefaultLimit, nil
	default:
		return limit, nil
	}
}

// truncate keeps a list within its limit even if the source returns more.
func truncate[T any](items []T, limit int) []T {
	if len(items) > limit {
		return items[:limit:limit]
	}
	return items
}
