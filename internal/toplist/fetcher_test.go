package toplist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/rs/zerolog"
)

type stubSource struct {
	artists []catalog.Artist
	tracks  []catalog.Track
	err     error

	calls    int
	lastOpts catalog.TopOptions
}

func (s *stubSource) TopArtists(ctx context.Context, opts catalog.TopOptions) ([]catalog.Artist, error) {
	s.calls++
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.artists, nil
}

func (s *stubSource) TopTracks(ctx context.Context, opts catalog.TopOptions) ([]catalog.Track, error) {
	s.calls++
	s.lastOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.tracks, nil
}

func makeArtists(n int) []catalog.Artist {
	artists := make([]catalog.Artist, n)
	for i := range artists {
		artists[i] = catalog.Artist{ID: fmt.Sprintf("a%02d", i), Name: fmt.Sprintf("Artist %d", i)}
	}
	return artists
}

func TestFetcher_TopArtists_TruncatesToLimitInOrder(t *testing.T) {
	source := &stubSource{artists: makeArtists(30)}
	f := New(source, catalog.TimeRangeMedium, zerolog.Nop())

	artists, err := f.TopArtists(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(artists) != 21 {
		t.Fatalf("expected 21 artists, got %d", len(artists))
	}
	for i, a := range artists {
		if want := fmt.Sprintf("a%02d", i); a.ID != want {
			t.Errorf("artists[%d].ID = %q, want %q", i, a.ID, want)
		}
	}
	if source.lastOpts.Limit != 21 {
		t.Errorf("limit passed to source = %d, want 21", source.lastOpts.Limit)
	}
	if source.lastOpts.TimeRange != catalog.TimeRangeMedium {
		t.Errorf("time range passed to source = %q, want %q", source.lastOpts.TimeRange, catalog.TimeRangeMedium)
	}
}

func TestFetcher_TopArtists_FewerThanLimit(t *testing.T) {
	source := &stubSource{artists: makeArtists(3)}
	f := New(source, "", zerolog.Nop())

	artists, err := f.TopArtists(context.Background(), 21)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artists) != 3 {
		t.Errorf("expected 3 artists, got %d", len(artists))
	}
}

func TestFetcher_DefaultLimit(t *testing.T) {
	source := &stubSource{artists: makeArtists(30)}
	f := New(source, "", zerolog.Nop())

	artists, err := f.TopArtists(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(artists) != DefaultLimit || source.lastOpts.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d items and requested %d", DefaultLimit, len(artists), source.lastOpts.Limit)
	}
}

func TestFetcher_NegativeLimit(t *testing.T) {
	source := &stubSource{}
	f := New(source, "", zerolog.Nop())

	if _, err := f.TopTracks(context.Background(), -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
	if source.calls != 0 {
		t.Errorf("expected no source calls, got %d", source.calls)
	}
}

func TestFetcher_TopTracks(t *testing.T) {
	source := &stubSource{tracks: []catalog.Track{
		{ID: "t1", Name: "One"},
		{ID: "t2", Name: "Two"},
		{ID: "t3", Name: "Three"},
	}}
	f := New(source, catalog.TimeRangeShort, zerolog.Nop())

	tracks, err := f.TopTracks(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tracks) != 2 || tracks[0].ID != "t1" || tracks[1].ID != "t2" {
		t.Errorf("unexpected tracks %+v", tracks)
	}
}

func TestFetcher_PropagatesErrorsUnchanged(t *testing.T) {
	unauthorized := &catalog.Error{Op: "top artists", Status: 401, Err: errors.New("token expired")}
	transport := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		is   error
	}{
		{"unauthorized", unauthorized, catalog.ErrUnauthorized},
		{"transport failure", transport, transport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &stubSource{err: tt.err}
			f := New(source, "", zerolog.Nop())

			_, err := f.TopArtists(context.Background(), 21)
			if err != tt.err {
				t.Errorf("expected error to be returned unchanged, got %v", err)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("expected errors.Is(err, %v)", tt.is)
			}
			if source.calls != 1 {
				t.Errorf("expected exactly one call (no retry), got %d", source.calls)
			}
		})
	}
}
