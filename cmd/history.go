package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jfmyers9/spotlight/internal/history"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [artists|tracks]",
	Short: "List recorded top list snapshots",
	Long: `List the top lists saved with 'spotlight top --record', newest first.

Use --prune to delete snapshots older than the given age before listing,
for example --prune 2160h for ninety days.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{history.KindArtists, history.KindTracks},
	RunE:      runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 10, "Number of snapshots to list (0 for all)")
	historyCmd.Flags().Duration("prune", 0, "Delete snapshots older than this age first")
}

func runHistory(cmd *cobra.Command, args []string) error {
	var kind string
	if len(args) == 1 {
		kind = args[0]
		if kind != history.KindArtists && kind != history.KindTracks {
			return fmt.Errorf("unknown list %q: expected %s or %s", kind, history.KindArtists, history.KindTracks)
		}
	}

	logger := setupLogger(logFile, logLevel)

	limit, _ := cmd.Flags().GetInt("limit")
	prune, _ := cmd.Flags().GetDuration("prune")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if prune > 0 {
		deleted, err := store.Cleanup(ctx, prune)
		if err != nil {
			return err
		}
		logger.Info().Int64("deleted", deleted).Dur("max_age", prune).Msg("Pruned history")
	}

	snaps, err := store.List(ctx, kind, limit)
	if err != nil {
		return err
	}

	printSnapshots(cmd.OutOrStdout(), snaps)
	return nil
}

func printSnapshots(w io.Writer, snaps []history.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(w, "No recorded lists. Record one with 'spotlight top artists --record'.")
		return
	}

	for _, snap := range snaps {
		fmt.Fprintf(w, "%s  %s %s  %d entries\n",
			snap.TakenAt.Local().Format("2006-01-02 15:04"),
			padToWidth(snap.Kind, 7),
			padToWidth(snap.TimeRange, 11),
			snap.Size,
		)
	}
}
