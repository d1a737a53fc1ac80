package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/history"
	"github.com/jfmyers9/spotlight/internal/session"
)

func TestArtistAndTrackItems(t *testing.T) {
	artists := artistItems([]catalog.Artist{
		{ID: "a1", Name: "Björk", Genres: []string{"art pop", "electronica"}, Popularity: 70},
		{ID: "a2", Name: "Múm"},
	})
	if len(artists) != 2 || artists[0].Rank != 1 || artists[1].Rank != 2 {
		t.Fatalf("unexpected ranks: %+v", artists)
	}
	if artists[0].Genres != "art pop, electronica" || artists[0].Popularity != 70 {
		t.Errorf("unexpected artist item: %+v", artists[0])
	}

	tracks := trackItems([]catalog.Track{
		{ID: "t1", Name: "Jóga", Artists: []string{"Björk"}, Album: catalog.Album{Name: "Homogenic"}},
	})
	if tracks[0].Artists != "Björk" || tracks[0].Album != "Homogenic" || tracks[0].Rank != 1 {
		t.Errorf("unexpected track item: %+v", tracks[0])
	}
}

func TestPrintItems(t *testing.T) {
	tmpl, err := parseFormat("{{.Rank}}. {{.Name}}")
	if err != nil {
		t.Fatalf("failed to parse template: %v", err)
	}

	items := []listItem{
		{Rank: 1, Name: "Björk", Movement: "+2"},
		{Rank: 2, Name: "Múm", Movement: "new"},
	}

	var buf bytes.Buffer
	if err := printItems(&buf, tmpl, items, false); err != nil {
		t.Fatalf("failed to print: %v", err)
	}
	if buf.String() != "1. Björk\n2. Múm\n" {
		t.Errorf("unexpected output %q", buf.String())
	}

	buf.Reset()
	if err := printItems(&buf, tmpl, items, true); err != nil {
		t.Fatalf("failed to print: %v", err)
	}
	if buf.String() != "+2   1. Björk\nnew  2. Múm\n" {
		t.Errorf("unexpected output with movement %q", buf.String())
	}
}

func TestRecordItems(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	ctx := context.Background()

	first := []listItem{
		{Rank: 1, ID: "a", Name: "A"},
		{Rank: 2, ID: "b", Name: "B"},
	}
	if err := recordItems(ctx, history.KindArtists, "short_term", first); err != nil {
		t.Fatalf("failed to record first list: %v", err)
	}
	for _, item := range first {
		if item.Movement != "new" {
			t.Errorf("%s: first recording should mark every entry new, got %q", item.ID, item.Movement)
		}
	}

	second := []listItem{
		{Rank: 1, ID: "b", Name: "B"},
		{Rank: 2, ID: "c", Name: "C"},
		{Rank: 3, ID: "a", Name: "A"},
	}
	if err := recordItems(ctx, history.KindArtists, "short_term", second); err != nil {
		t.Fatalf("failed to record second list: %v", err)
	}

	expected := []string{"+1", "new", "-2"}
	for i, item := range second {
		if item.Movement != expected[i] {
			t.Errorf("%s: movement %q, expected %q", item.ID, item.Movement, expected[i])
		}
	}

	store, err := openHistory()
	if err != nil {
		t.Fatalf("failed to open history: %v", err)
	}
	defer func() { _ = store.Close() }()

	snaps, err := store.List(ctx, history.KindArtists, 0)
	if err != nil {
		t.Fatalf("failed to list: %v", err)
	}
	if len(snaps) != 2 || snaps[0].Size != 3 {
		t.Errorf("unexpected snapshots: %+v", snaps)
	}
}

func TestExplain(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"catalog 401", &catalog.Error{Op: "top artists", Status: 401, Err: errors.New("bad token")}, errNotLoggedIn},
		{"no session", session.ErrNoToken, errNotLoggedIn},
		{"expired session", session.ErrExpired, errNotLoggedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := explain(tt.err); got != tt.expected {
				t.Errorf("explain(%v) = %v, expected %v", tt.err, got, tt.expected)
			}
		})
	}

	busy := fmt.Errorf("failed to get top artists: %w", &catalog.Error{Op: "top artists", Status: 503, Err: errors.New("unavailable")})
	if got := explain(busy); !errors.Is(got, busy) || !strings.Contains(got.Error(), "try again later") {
		t.Errorf("expected retry hint wrapping the 503, got %v", got)
	}

	notFound := &catalog.Error{Op: "artist", Status: 404, Err: errors.New("not found")}
	if got := explain(notFound); got != error(notFound) {
		t.Errorf("non-temporary failures should pass through unchanged, got %v", got)
	}

	other := errors.New("something else")
	if explain(other) != other {
		t.Error("unrelated errors should pass through unchanged")
	}
}
