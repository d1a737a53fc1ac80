package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jfmyers9/spotlight/internal/artist"
	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/config"
	"github.com/spf13/cobra"
)

// artistCmd represents the artist command
var artistCmd = &cobra.Command{
	Use:   "artist <id>",
	Short: "Show an artist's profile, discography and related artists",
	Long: `Show an artist page: the profile, the discography grouped by release
type, and up to twenty related artists in two columns.

The three parts are fetched at the same time. Progress is reported on
stderr as each one arrives; a part that fails is shown as unavailable
without affecting the others.

The artist id is the last part of an artist's Spotify link, for example
0OdUWJ0sBjDrqHygGUXeCF for https://open.spotify.com/artist/0OdUWJ0sBjDrqHygGUXeCF`,
	Args: cobra.ExactArgs(1),
	RunE: runArtist,
}

func init() {
	rootCmd.AddCommand(artistCmd)

	artistCmd.Flags().StringP("market", "m", "", "Market for the discography (default from config)")
}

func runArtist(cmd *cobra.Command, args []string) error {
	artistID := artistIDFrom(args[0])

	logger := setupLogger(logFile, logLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	market, _ := cmd.Flags().GetString("market")
	if market == "" {
		market = cfg.Market
	}

	client, err := openCatalog(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	agg := artist.New(client, artist.Config{Market: market, AlbumLimit: cfg.AlbumLimit}, logger)

	progress := newProgress(cmd.ErrOrStderr())
	var view artist.DetailView
	for view = range agg.Aggregate(ctx, artistID) {
		progress.report(view)
	}

	if unauthorized(view) {
		return errNotLoggedIn
	}

	printArtistView(cmd.OutOrStdout(), view, cfg.ColumnWidth)
	return nil
}

// artistIDFrom accepts a bare id, a spotify:artist: URI or an
// open.spotify.com link.
func artistIDFrom(arg string) string {
	arg = strings.TrimSpace(arg)
	if id, ok := strings.CutPrefix(arg, "spotify:artist:"); ok {
		return id
	}
	if _, rest, ok := strings.Cut(arg, "/artist/"); ok {
		id, _, _ := strings.Cut(rest, "?")
		return strings.TrimSuffix(id, "/")
	}
	return arg
}

// progress reports each slice of a view once, when it settles
type progress struct {
	w    io.Writer
	done map[artist.SliceKind]bool
}

func newProgress(w io.Writer) *progress {
	return &progress{w: w, done: make(map[artist.SliceKind]bool)}
}

func (p *progress) report(view artist.DetailView) {
	for _, s := range slicesOf(view) {
		if s.state == artist.SlicePending || p.done[s.kind] {
			continue
		}
		p.done[s.kind] = true

		if s.state == artist.SliceFailed {
			fmt.Fprintf(p.w, "✗ %s: %v\n", s.kind, s.err)
		} else {
			fmt.Fprintf(p.w, "✓ %s\n", s.kind)
		}
	}
}

type sliceStatus struct {
	kind  artist.SliceKind
	state artist.SliceState
	err   error
}

func slicesOf(view artist.DetailView) []sliceStatus {
	return []sliceStatus{
		{artist.KindArtist, view.Artist.State, view.Artist.Err},
		{artist.KindAlbums, view.Albums.State, view.Albums.Err},
		{artist.KindRelated, view.Related.State, view.Related.Err},
	}
}

// unauthorized reports whether every slice failed for lack of a valid login
func unauthorized(view artist.DetailView) bool {
	for _, s := range slicesOf(view) {
		if s.state != artist.SliceFailed || !errors.Is(s.err, catalog.ErrUnauthorized) {
			return false
		}
	}
	return true
}

// printArtistView renders a settled view. Failed or missing slices are
// shown as unavailable.
func printArtistView(w io.Writer, view artist.DetailView, columnWidth int) {
	switch view.Artist.State {
	case artist.SliceLoaded:
		a := view.Artist.Value
		fmt.Fprintln(w, a.Name)
		if len(a.Genres) > 0 {
			fmt.Fprintf(w, "Genres: %s\n", strings.Join(a.Genres, ", "))
		}
		fmt.Fprintf(w, "Popularity: %d\n", a.Popularity)
		if a.URL != "" {
			fmt.Fprintln(w, a.URL)
		}
	default:
		fmt.Fprintf(w, "%s\n", view.ArtistID)
		fmt.Fprintln(w, unavailable(view.Artist.State, view.Artist.Err))
	}

	fmt.Fprintln(w)
	switch view.Albums.State {
	case artist.SliceLoaded:
		if len(view.Albums.Value) == 0 {
			fmt.Fprintln(w, "No releases")
		}
		for _, group := range view.Albums.Value {
			fmt.Fprintf(w, "%s (%d)\n", group.Label, len(group.Albums))
			for _, album := range group.Albums {
				fmt.Fprintf(w, "  %s  %s\n", padToWidth(album.ReleaseDate, 10), album.Name)
			}
		}
	default:
		fmt.Fprintln(w, "Discography")
		fmt.Fprintln(w, unavailable(view.Albums.State, view.Albums.Err))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Related Artists")
	switch view.Related.State {
	case artist.SliceLoaded:
		cols := view.Related.Value
		if cols.Len() == 0 {
			fmt.Fprintln(w, "  None")
		}
		for _, line := range renderColumns(names(cols.Left), names(cols.Right), columnWidth) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	default:
		fmt.Fprintln(w, unavailable(view.Related.State, view.Related.Err))
	}
}

func unavailable(state artist.SliceState, err error) string {
	if state == artist.SliceFailed && err != nil {
		return fmt.Sprintf("  unavailable: %v", explain(err))
	}
	return "  unavailable"
}

func names(artists []catalog.Artist) []string {
	out := make([]string, len(artists))
	for i, a := range artists {
		out[i] = a.Name
	}
	return out
}
