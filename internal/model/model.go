package model

import (
	"fmt"
	"strings"
)

// Task is a single to-do entry. The JSON shape matches the /api/tasks payload.
type Task struct {
	Value   string `json:"value"`
	ID      int64  `json:"id"`
	Checked bool   `json:"checked"`
	Removed bool   `json:"removed"`
}

type Filter string

const (
	FilterAll       Filter = "all"
	FilterChecked   Filter = "checked"
	FilterUnchecked Filter = "unchecked"
	FilterRemoved   Filter = "removed"
)

// Filters lists every filter in selector order.
func Filters() []Filter {
	return []Filter{FilterAll, FilterChecked, FilterUnchecked, FilterRemoved}
}

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterChecked, FilterUnchecked, FilterRemoved:
		return true
	default:
		return false
	}
}

// Label is the user-facing name shown in filter selectors.
func (f Filter) Label() string {
	switch f {
	case FilterAll:
		return "All tasks"
	case FilterChecked:
		return "Completed"
	case FilterUnchecked:
		return "Current"
	case FilterRemoved:
		return "Trash"
	default:
		return string(f)
	}
}

// Includes reports whether t belongs to the view selected by f.
func (f Filter) Includes(t Task) bool {
	switch f {
	case FilterAll:
		return !t.Removed
	case FilterChecked:
		return t.Checked && !t.Removed
	case FilterUnchecked:
		return !t.Checked && !t.Removed
	case FilterRemoved:
		return t.Removed
	default:
		return false
	}
}

// Next returns the filter after f in selector order (wrapping). Invalid filters map to all.
func (f Filter) Next() Filter {
	fs := Filters()
	for i, x := range fs {
		if x == f {
			return fs[(i+1)%len(fs)]
		}
	}
	return FilterAll
}

// Prev returns the filter before f in selector order (wrapping). Invalid filters map to all.
func (f Filter) Prev() Filter {
	fs := Filters()
	for i, x := range fs {
		if x == f {
			return fs[(i+len(fs)-1)%len(fs)]
		}
	}
	return FilterAll
}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid filter %q (expected all|checked|unchecked|removed)", s)
	}
	return f, nil
}
