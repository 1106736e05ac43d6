package model

import "testing"

func TestFilter_Includes(t *testing.T) {
	t.Parallel()

	open := Task{ID: 1, Value: "open"}
	done := Task{ID: 2, Value: "done", Checked: true}
	trashed := Task{ID: 3, Value: "trashed", Removed: true}
	trashedDone := Task{ID: 4, Value: "trashed done", Checked: true, Removed: true}

	cases := []struct {
		filter Filter
		want   map[int64]bool
	}{
		{FilterAll, map[int64]bool{1: true, 2: true}},
		{FilterChecked, map[int64]bool{2: true}},
		{FilterUnchecked, map[int64]bool{1: true}},
		{FilterRemoved, map[int64]bool{3: true, 4: true}},
	}
	for _, tc := range cases {
		for _, task := range []Task{open, done, trashed, trashedDone} {
			if got := tc.filter.Includes(task); got != tc.want[task.ID] {
				t.Fatalf("%s.Includes(%q) = %v, want %v", tc.filter, task.Value, got, tc.want[task.ID])
			}
		}
	}
}

func TestParseFilter(t *testing.T) {
	t.Parallel()

	got, err := ParseFilter("  Removed ")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if got != FilterRemoved {
		t.Fatalf("expected removed, got %q", got)
	}
	if _, err := ParseFilter("archived"); err == nil {
		t.Fatalf("expected error for unknown filter")
	}
}

func TestFilter_NextPrevWrap(t *testing.T) {
	t.Parallel()

	if got := FilterRemoved.Next(); got != FilterAll {
		t.Fatalf("removed.Next() = %q, want all", got)
	}
	if got := FilterAll.Prev(); got != FilterRemoved {
		t.Fatalf("all.Prev() = %q, want removed", got)
	}
	if got := Filter("bogus").Next(); got != FilterAll {
		t.Fatalf("bogus.Next() = %q, want all", got)
	}
}
