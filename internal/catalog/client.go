// Package catalog is the client for the music-catalog Web API.
//
// It wraps github.com/zmb3/spotify/v2, attaches the session's access token
// to every request, and converts library types into the small domain types
// the rest of the application works with. Consumers declare the subset of
// methods they need as an interface, so tests can substitute a stub.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// DefaultTimeout bounds a single catalog request when no HTTP client is
// supplied.
const DefaultTimeout = 15 * time.Second

// Config holds client configuration.
type Config struct {
	Tokens     oauth2.TokenSource // Required: source of the access token
	HTTPClient *http.Client       // Optional: base HTTP client (transport and timeout)
	BaseURL    string             // Optional: API base URL (used for testing)
	Logger     zerolog.Logger     // Optional: defaults to a disabled logger
}

// Client performs catalog calls on behalf of the logged-in user.
type Client struct {
	api    *spotify.Client
	tokens oauth2.TokenSource
	logger zerolog.Logger
}

// New creates a catalog client.
//
// Returns an error if no token source is configured.
func New(cfg Config) (*Client, error) {
	if cfg.Tokens == nil {
		return nil, fmt.Errorf("catalog: token source is required")
	}

	base := cfg.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: DefaultTimeout}
	}

	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Source: cfg.Tokens,
			Base:   base.Transport,
		},
		Timeout: base.Timeout,
	}

	opts := []spotify.ClientOption{spotify.WithRetry(true)}
	if cfg.BaseURL != "" {
		baseURL := cfg.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts, spotify.WithBaseURL(baseURL))
	}

	return &Client{
		api:    spotify.New(httpClient, opts...),
		tokens: cfg.Tokens,
		logger: cfg.Logger.With().Str("component", "catalog").Logger(),
	}, nil
}

// TopArtists returns the user's ranked artists, in ranking order.
func (c *Client) TopArtists(ctx context.Context, opts TopOptions) ([]Artist, error) {
	const op = "top artists"
	if err := c.authorize(op); err != nil {
		return nil, err
	}

	page, err := c.api.CurrentUsersTopArtists(ctx, topRequestOptions(opts)...)
	if err != nil {
		return nil, c.fail(op, err)
	}

	artists := make([]Artist, 0, len(page.Artists))
	for _, a := range page.Artists {
		artists = append(artists, convertArtist(a))
	}
	return artists, nil
}

// TopTracks returns the user's ranked tracks, in ranking order.
func (c *Client) TopTracks(ctx context.Context, opts TopOptions) ([]Track, error) {
	const op = "top tracks"
	if err := c.authorize(op); err != nil {
		return nil, err
	}

	page, err := c.api.CurrentUsersTopTracks(ctx, topRequestOptions(opts)...)
	if err != nil {
		return nil, c.fail(op, err)
	}

	tracks := make([]Track, 0, len(page.Tracks))
	for _, t := range page.Tracks {
		tracks = append(tracks, convertTrack(t))
	}
	return tracks, nil
}

// Artist returns one artist's profile.
func (c *Client) Artist(ctx context.Context, id string) (Artist, error) {
	const op = "artist"
	if err := c.authorize(op); err != nil {
		return Artist{}, err
	}

	a, err := c.api.GetArtist(ctx, spotify.ID(id))
	if err != nil {
		return Artist{}, c.fail(op, err)
	}
	return convertArtist(*a), nil
}

// ArtistAlbums returns one page of an artist's releases in catalog order.
func (c *Client) ArtistAlbums(ctx context.Context, id string, opts AlbumOptions) ([]Album, error) {
	const op = "artist albums"
	if err := c.authorize(op); err != nil {
		return nil, err
	}

	var reqOpts []spotify.RequestOption
	if opts.Limit > 0 {
		reqOpts = append(reqOpts, spotify.Limit(opts.Limit))
	}
	if opts.Market != "" {
		reqOpts = append(reqOpts, spotify.Market(opts.Market))
	}

	page, err := c.api.GetArtistAlbums(ctx, spotify.ID(id), nil, reqOpts...)
	if err != nil {
		return nil, c.fail(op, err)
	}

	albums := make([]Album, 0, len(page.Albums))
	for _, a := range page.Albums {
		albums = append(albums, convertAlbum(a))
	}
	return albums, nil
}

// RelatedArtists returns artists similar to the given one, in catalog
// order. How many are returned is up to the catalog.
func (c *Client) RelatedArtists(ctx context.Context, id string) ([]Artist, error) {
	const op = "related artists"
	if err := c.authorize(op); err != nil {
		return nil, err
	}

	related, err := c.api.GetRelatedArtists(ctx, spotify.ID(id))
	if err != nil {
		return nil, c.fail(op, err)
	}

	artists := make([]Artist, 0, len(related))
	for _, a := range related {
		artists = append(artists, convertArtist(a))
	}
	return artists, nil
}

// authorize fails fast when there is no usable token, so no request goes
// out unauthenticated.
func (c *Client) authorize(op string) error {
	if _, err := c.tokens.Token(); err != nil {
		return &Error{Op: op, Status: http.StatusUnauthorized, Err: err}
	}
	c.logger.Debug().Str("op", op).Msg("Calling catalog")
	return nil
}

// fail wraps a library error, keeping the HTTP status when there is one.
func (c *Client) fail(op string, err error) error {
	e := &Error{Op: op, Err: err}

	var apiErr spotify.Error
	var apiErrPtr *spotify.Error
	switch {
	case errors.As(err, &apiErr):
		e.Status = apiErr.Status
	case errors.As(err, &apiErrPtr):
		e.Status = apiErrPtr.Status
	}

	c.logger.Debug().Err(err).Str("op", op).Int("status", e.Status).Msg("Catalog call failed")
	return e
}

func topRequestOptions(opts TopOptions) []spotify.RequestOption {
	var reqOpts []spotify.RequestOption
	if opts.Limit > 0 {
		reqOpts = append(reqOpts, spotify.Limit(opts.Limit))
	}
	if opts.TimeRange != "" {
		reqOpts = append(reqOpts, spotify.Timerange(spotify.Range(opts.TimeRange)))
	}
	return reqOpts
}
