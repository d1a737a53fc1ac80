package history

import "strconv"

// Movement is how an entry's rank changed since an earlier snapshot.
type Movement struct {
	Entry
	Previous int  // Earlier rank, zero when New
	New      bool // Not present earlier
}

// Delta is the number of places gained. Negative means the entry fell.
func (m Movement) Delta() int {
	if m.New {
		return 0
	}
	return m.Previous - m.Rank
}

// Indicator renders the movement for list output: "new", "=", "+3" or "-2".
func (m Movement) Indicator() string {
	switch d := m.Delta(); {
	case m.New:
		return "new"
	case d == 0:
		return "="
	case d > 0:
		return "+" + strconv.Itoa(d)
	default:
		return strconv.Itoa(d)
	}
}

// Compare matches current entries to previous ones by ID. The result has
// one Movement per current entry, in current order.
func Compare(previous, current []Entry) []Movement {
	ranks := make(map[string]int, len(previous))
	for _, e := range previous {
		if _, seen := ranks[e.ID]; !seen {
			ranks[e.ID] = e.Rank
		}
	}

	movements := make([]Movement, len(current))
	for i, e := range current {
		rank, ok := ranks[e.ID]
		movements[i] = Movement{Entry: e, Previous: rank, New: !ok}
	}
	return movements
}

// EntriesFrom ranks items by position, starting at 1.
func EntriesFrom[T any](items []T, key func(T) (id, name string)) []Entry {
	entries := make([]Entry, len(items))
	for i, item := range items {
		id, name := key(item)
		entries[i] = Entry{Rank: i + 1, ID: id, Name: name}
	}
	return entries
}
