package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/config"
	"github.com/jfmyers9/spotlight/internal/history"
	"github.com/jfmyers9/spotlight/internal/toplist"
	"github.com/spf13/cobra"
)

// listItem is the data available to the --format template
type listItem struct {
	Rank       int
	ID         string
	Name       string
	Artists    string // Comma-separated, tracks only
	Album      string // Tracks only
	Genres     string // Comma-separated, artists only
	Popularity int    // Artists only
	URL        string
	Movement   string // Set with --record: "new", "=", "+2", "-1"
}

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top artists|tracks",
	Short: "Show your top artists or tracks",
	Long: `Show your most listened artists or tracks, in ranking order.

The time range is one of short_term (about four weeks), medium_term (about
six months) or long_term (several years).

Each line is rendered with a Go template, set with --format or output_format
in ~/.config/spotlight/config.yaml. Available fields: .Rank, .ID, .Name,
.Artists, .Album, .Genres, .Popularity, .URL, .Movement

With --record the list is saved to the local history and each line is
prefixed with how its rank moved since the last recorded list.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{history.KindArtists, history.KindTracks},
	RunE:      runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().IntP("limit", "n", 0, "Number of entries (default from config)")
	topCmd.Flags().StringP("time-range", "r", "", "short_term, medium_term or long_term (default from config)")
	topCmd.Flags().StringP("format", "f", "", "Output format template (overrides config)")
	topCmd.Flags().Bool("record", false, "Save this list to history and show rank movement")
}

func runTop(cmd *cobra.Command, args []string) error {
	kind := args[0]
	if kind != history.KindArtists && kind != history.KindTracks {
		return fmt.Errorf("unknown list %q: expected %s or %s", kind, history.KindArtists, history.KindTracks)
	}

	logger := setupLogger(logFile, logLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if !cmd.Flags().Changed("limit") {
		limit = cfg.TopLimit
	}

	timeRange, _ := cmd.Flags().GetString("time-range")
	if timeRange == "" {
		timeRange = cfg.TimeRange
	}
	if !catalog.ValidTimeRange(timeRange) {
		return fmt.Errorf("invalid time range %q", timeRange)
	}

	formatFlag, _ := cmd.Flags().GetString("format")
	if formatFlag != "" {
		cfg.OutputFormat = formatFlag
	}
	tmpl, err := parseFormat(cfg.OutputFormat)
	if err != nil {
		return err
	}

	client, err := openCatalog(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	fetcher := toplist.New(client, timeRange, logger)

	var items []listItem
	switch kind {
	case history.KindArtists:
		artists, err := fetcher.TopArtists(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to get top artists: %w", err)
		}
		items = artistItems(artists)
	case history.KindTracks:
		tracks, err := fetcher.TopTracks(ctx, limit)
		if err != nil {
			return fmt.Errorf("failed to get top tracks: %w", err)
		}
		items = trackItems(tracks)
	}

	record, _ := cmd.Flags().GetBool("record")
	if record {
		if err := recordItems(ctx, kind, timeRange, items); err != nil {
			return err
		}
	}

	return printItems(cmd.OutOrStdout(), tmpl, items, record)
}

// recordItems saves items as a snapshot and sets each item's Movement
// against the previous snapshot of the same list
func recordItems(ctx context.Context, kind, timeRange string, items []listItem) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	previous, err := store.Latest(ctx, kind, timeRange)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	entries := history.EntriesFrom(items, func(it listItem) (string, string) {
		return it.ID, it.Name
	})

	if _, err := store.Record(ctx, history.Snapshot{
		Kind:      kind,
		TimeRange: timeRange,
		TakenAt:   time.Now(),
		Entries:   entries,
	}); err != nil {
		return fmt.Errorf("failed to record history: %w", err)
	}

	var earlier []history.Entry
	if previous != nil {
		earlier = previous.Entries
	}
	for i, m := range history.Compare(earlier, entries) {
		items[i].Movement = m.Indicator()
	}

	return nil
}

func printItems(w io.Writer, tmpl *template.Template, items []listItem, withMovement bool) error {
	for _, item := range items {
		line, err := formatLine(tmpl, item)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		if withMovement {
			line = padToWidth(item.Movement, 4) + " " + line
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

func artistItems(artists []catalog.Artist) []listItem {
	items := make([]listItem, len(artists))
	for i, a := range artists {
		items[i] = listItem{
			Rank:       i + 1,
			ID:         a.ID,
			Name:       a.Name,
			Genres:     strings.Join(a.Genres, ", "),
			Popularity: a.Popularity,
			URL:        a.URL,
		}
	}
	return items
}

func trackItems(tracks []catalog.Track) []listItem {
	items := make([]listItem, len(tracks))
	for i, t := range tracks {
		items[i] = listItem{
			Rank:    i + 1,
			ID:      t.ID,
			Name:    t.Name,
			Artists: strings.Join(t.Artists, ", "),
			Album:   t.Album.Name,
			URL:     t.URL,
		}
	}
	return items
}
