package history

import "testing"

func TestCompare(t *testing.T) {
	previous := entries("a", "b", "c")
	current := []Entry{
		{Rank: 1, ID: "id-c", Name: "c"},
		{Rank: 2, ID: "id-a", Name: "a"},
		{Rank: 3, ID: "id-d", Name: "d"},
		{Rank: 4, ID: "id-b", Name: "b"},
	}

	got := Compare(previous, current)
	if len(got) != len(current) {
		t.Fatalf("expected %d movements, got %d", len(current), len(got))
	}

	tests := []struct {
		id        string
		wantDelta int
		wantNew   bool
		wantShown string
	}{
		{"id-c", 2, false, "+2"},
		{"id-a", -1, false, "-1"},
		{"id-d", 0, true, "new"},
		{"id-b", -2, false, "-2"},
	}

	for i, tt := range tests {
		m := got[i]
		if m.ID != tt.id {
			t.Errorf("movement %d: expected %s, got %s", i, tt.id, m.ID)
		}
		if m.Delta() != tt.wantDelta || m.New != tt.wantNew {
			t.Errorf("%s: delta=%d new=%v, want delta=%d new=%v", tt.id, m.Delta(), m.New, tt.wantDelta, tt.wantNew)
		}
		if m.Indicator() != tt.wantShown {
			t.Errorf("%s: indicator %q, want %q", tt.id, m.Indicator(), tt.wantShown)
		}
	}
}

func TestCompareUnchanged(t *testing.T) {
	for _, m := range Compare(entries("a", "b"), entries("a", "b")) {
		if m.Indicator() != "=" {
			t.Errorf("%s: expected unchanged, got %q", m.ID, m.Indicator())
		}
	}
}

func TestCompareNoPrevious(t *testing.T) {
	for _, m := range Compare(nil, entries("a", "b")) {
		if !m.New || m.Previous != 0 {
			t.Errorf("%s: expected new entry, got %+v", m.ID, m)
		}
	}
}

func TestEntriesFrom(t *testing.T) {
	type item struct{ id, name string }
	items := []item{{"x", "X"}, {"y", "Y"}}

	got := EntriesFrom(items, func(it item) (string, string) { return it.id, it.name })

	want := []Entry{{Rank: 1, ID: "x", Name: "X"}, {Rank: 2, ID: "y", Name: "Y"}}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
