package artist

import (
	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/discography"
)

// SliceState is the state of one independently loaded part of a view.
type SliceState int

const (
	SlicePending SliceState = iota // Call in flight
	SliceLoaded                    // Call succeeded, Value is set
	SliceFailed                    // Call failed, Err is set
)

// String returns a human-readable representation of the SliceState
func (s SliceState) String() string {
	switch s {
	case SlicePending:
		return "pending"
	case SliceLoaded:
		return "loaded"
	case SliceFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Slice holds one part of a view and how far it got.
type Slice[T any] struct {
	State SliceState
	Value T
	Err   error
}

func loaded[T any](v T) Slice[T] {
	return Slice[T]{State: SliceLoaded, Value: v}
}

func failed[T any](err error) Slice[T] {
	return Slice[T]{State: SliceFailed, Err: err}
}

// ColumnSize is the number of related artists shown per column.
const ColumnSize = 10

// Columns splits related artists into two display columns.
type Columns struct {
	Left  []catalog.Artist
	Right []catalog.Artist
}

// Len returns the number of artists across both columns.
func (c Columns) Len() int {
	return len(c.Left) + len(c.Right)
}

// Partition puts the first ColumnSize artists in the left column and the
// next ColumnSize in the right. Anything beyond is dropped. The columns
// never share storage with artists or with each other.
func Partition(artists []catalog.Artist) Columns {
	var cols Columns
	cols.Left = window(artists, 0, ColumnSize)
	cols.Right = window(artists, ColumnSize, 2*ColumnSize)
	return cols
}

func window(artists []catalog.Artist, from, to int) []catalog.Artist {
	if from >= len(artists) {
		return nil
	}
	if to > len(artists) {
		to = len(artists)
	}
	out := make([]catalog.Artist, to-from)
	copy(out, artists[from:to])
	return out
}

// Phase summarizes how many slices of a view have loaded.
type Phase int

const (
	PhaseEmpty   Phase = iota // No slice loaded
	PhasePartial              // One or two slices loaded
	PhaseLoaded               // All three slices loaded
)

// String returns a human-readable representation of the Phase
func (p Phase) String() string {
	switch p {
	case PhaseEmpty:
		return "empty"
	case PhasePartial:
		return "partial"
	case PhaseLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// DetailView is the composed artist page: profile, grouped discography
// and related artists. Each slice loads independently and any mix of
// pending, loaded and failed slices is a valid view.
type DetailView struct {
	ArtistID string
	Artist   Slice[catalog.Artist]
	Albums   Slice[[]discography.Group]
	Related  Slice[Columns]

	seq uint64 // Aggregation that produced this view
}

// Phase reports how many slices have loaded. A failed slice does not
// count as loaded.
func (v DetailView) Phase() Phase {
	n := 0
	for _, s := range []SliceState{v.Artist.State, v.Albums.State, v.Related.State} {
		if s == SliceLoaded {
			n++
		}
	}

	switch n {
	case 0:
		return PhaseEmpty
	case sliceCount:
		return PhaseLoaded
	default:
		return PhasePartial
	}
}

// Settled reports whether no slice is still pending.
func (v DetailView) Settled() bool {
	return v.Artist.State != SlicePending &&
		v.Albums.State != SlicePending &&
		v.Related.State != SlicePending
}

// SliceKind names a slice of a DetailView.
type SliceKind int

const (
	KindArtist SliceKind = iota
	KindAlbums
	KindRelated
)

// sliceCount is the number of slices in a DetailView.
const sliceCount = 3

// String returns a human-readable representation of the SliceKind
func (k SliceKind) String() string {
	switch k {
	case KindArtist:
		return "artist"
	case KindAlbums:
		return "albums"
	case KindRelated:
		return "related"
	default:
		return "unknown"
	}
}

// Update is the outcome of one catalog call, tagged with the aggregation
// it belongs to.
type Update struct {
	ArtistID string
	Kind     SliceKind
	Artist   catalog.Artist
	Albums   []discography.Group
	Related  Columns
	Err      error

	seq uint64
}

// Reduce applies u to v and returns the new view. Updates from another
// artist or an earlier aggregation are discarded, in which case v is
// returned unchanged and ok is false. Reduce only ever touches the slice
// named by u.Kind.
func Reduce(v DetailView, u Update) (next DetailView, ok bool) {
	if u.ArtistID != v.ArtistID || u.seq != v.seq {
		return v, false
	}

	switch u.Kind {
	case KindArtist:
		if u.Err != nil {
			v.Artist = failed[catalog.Artist](u.Err)
		} else {
			v.Artist = loaded(u.Artist)
		}
	case KindAlbums:
		if u.Err != nil {
			v.Albums = failed[[]discography.Group](u.Err)
		} else {
			v.Albums = loaded(u.Albums)
		}
	case KindRelated:
		if u.Err != nil {
			v.Related = failed[Columns](u.Err)
		} else {
			v.Related = loaded(u.Related)
		}
	default:
		return v, false
	}

	return v, true
}
