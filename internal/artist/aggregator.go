// Package artist composes the artist detail page from three independent
// catalog calls.
package artist

import (
	"context"
	"sync"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/discography"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// DefaultAlbumLimit is the number of releases requested per artist.
const DefaultAlbumLimit = 50

// Catalog is the part of the catalog client the aggregator needs.
type Catalog interface {
	Artist(ctx context.Context, id string) (catalog.Artist, error)
	ArtistAlbums(ctx context.Context, id string, opts catalog.AlbumOptions) ([]catalog.Album, error)
	RelatedArtists(ctx context.Context, id string) ([]catalog.Artist, error)
}

// Config holds aggregator configuration.
type Config struct {
	Market     string // Market passed with the discography request
	AlbumLimit int    // Releases requested; zero uses DefaultAlbumLimit
}

// Aggregator builds DetailViews. It keeps the view of the most recently
// requested artist; results that arrive for an earlier request are
// discarded rather than written into the current view.
type Aggregator struct {
	catalog Catalog
	albums  catalog.AlbumOptions
	logger  zerolog.Logger

	mu   sync.Mutex
	seq  uint64
	view DetailView
}

// New creates an Aggregator.
func New(c Catalog, cfg Config, logger zerolog.Logger) *Aggregator {
	limit := cfg.AlbumLimit
	if limit <= 0 {
		limit = DefaultAlbumLimit
	}

	return &Aggregator{
		catalog: c,
		albums:  catalog.AlbumOptions{Limit: limit, Market: cfg.Market},
		logger:  logger.With().Str("component", "aggregator").Logger(),
	}
}

// Aggregate makes artistID the active artist and starts its three catalog
// calls concurrently.
//
// The returned channel first receives the empty view, then one snapshot
// each time a call's result is applied. Calls do not wait for each other
// and may complete in any order; a failed call marks only its own slice
// as failed. The channel is closed once all three calls have returned.
// If Aggregate is called again before then, the remaining results of this
// call are discarded and no further snapshots are sent on its channel.
//
// The channel is buffered for every snapshot, so callers that stop
// reading do not block the calls.
func (a *Aggregator) Aggregate(ctx context.Context, artistID string) <-chan DetailView {
	a.mu.Lock()
	a.seq++
	a.view = DetailView{ArtistID: artistID, seq: a.seq}
	initial := a.view
	a.mu.Unlock()

	a.logger.Debug().Str("artist_id", artistID).Uint64("seq", initial.seq).Msg("Aggregating artist")

	out := make(chan DetailView, 1+sliceCount)
	out <- initial

	updates := make(chan Update, sliceCount)
	tag := Update{ArtistID: artistID, seq: initial.seq}

	// A plain Group: one failed call must not cancel the others.
	var g errgroup.Group

	g.Go(func() error {
		u := tag
		u.Kind = KindArtist
		u.Artist, u.Err = a.catalog.Artist(ctx, artistID)
		updates <- u
		return u.Err
	})

	g.Go(func() error {
		u := tag
		u.Kind = KindAlbums
		albums, err := a.catalog.ArtistAlbums(ctx, artistID, a.albums)
		if err != nil {
			u.Err = err
		} else {
			u.Albums = discography.GroupAlbums(albums)
		}
		updates <- u
		return u.Err
	})

	g.Go(func() error {
		u := tag
		u.Kind = KindRelated
		related, err := a.catalog.RelatedArtists(ctx, artistID)
		if err != nil {
			u.Err = err
		} else {
			u.Related = Partition(related)
		}
		updates <- u
		return u.Err
	})

	go func() {
		if err := g.Wait(); err != nil {
			a.logger.Debug().Err(err).Str("artist_id", artistID).Msg("Aggregation finished with failures")
		}
		close(updates)
	}()

	go func() {
		defer close(out)
		for u := range updates {
			if snapshot, ok := a.apply(u); ok {
				out <- snapshot
			}
		}
	}()

	return out
}

// View returns the current view of the active artist.
func (a *Aggregator) View() DetailView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

// apply reduces u into the active view.
func (a *Aggregator) apply(u Update) (DetailView, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	next, ok := Reduce(a.view, u)
	if !ok {
		a.logger.Debug().
			Str("artist_id", u.ArtistID).
			Str("slice", u.Kind.String()).
			Str("active_artist_id", a.view.ArtistID).
			Msg("Discarding stale result")
		return DetailView{}, false
	}

	if u.Err != nil {
		a.logger.Warn().
			Err(u.Err).
			Str("artist_id", u.ArtistID).
			Str("slice", u.Kind.String()).
			Msg("Artist slice failed")
	}

	a.view = next
	return next, true
}
