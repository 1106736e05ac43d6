// Package tasklist holds the task-list state machine.
//
// State values are immutable snapshots: Reduce never mutates its input and returns a state
// whose Tasks slice is freshly allocated whenever the collection changed. Front ends own
// the event loop and feed actions through Reduce, then run Effects for persistence.
package tasklist

import (
	"iter"

	"todo-cli/internal/model"
)

type LoadStatus int

const (
	StatusLoading LoadStatus = iota
	StatusReady
	StatusFailed
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrorMessage is the only thing rendered once the initial load failed.
const ErrorMessage = "Something went wrong. Please try again."

type State struct {
	Tasks  []model.Task
	Filter model.Filter
	Draft  string

	Status LoadStatus
	// Err is the load failure; set only when Status == StatusFailed.
	Err error
}

// New returns the pre-load state seeded with restored preferences.
func New(draft string, filter model.Filter) State {
	if !filter.Valid() {
		filter = model.FilterAll
	}
	return State{
		Filter: filter,
		Draft:  draft,
		Status: StatusLoading,
	}
}

func (s State) Failed() bool { return s.Status == StatusFailed }

// VisibleSeq yields, in collection order, the tasks selected by the current filter.
// The sequence reads the snapshot it was created from and can be ranged over repeatedly.
func (s State) VisibleSeq() iter.Seq[model.Task] {
	tasks, filter := s.Tasks, s.Filter
	return func(yield func(model.Task) bool) {
		for _, t := range tasks {
			if !filter.Includes(t) {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}

func (s State) Visible() []model.Task {
	out := []model.Task{}
	for t := range s.VisibleSeq() {
		out = append(out, t)
	}
	return out
}

func (s State) Find(id int64) (model.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

func (s State) TrashCount() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Removed {
			n++
		}
	}
	return n
}

// ShowEntryForm reports whether the new-task form is part of the surface.
func (s State) ShowEntryForm() bool {
	return s.Filter != model.FilterChecked && s.Filter != model.FilterRemoved
}

// ShowEmptyTrash reports whether the empty-trash action is part of the surface.
func (s State) ShowEmptyTrash() bool { return s.Filter == model.FilterRemoved }

func (s State) EmptyTrashEnabled() bool { return s.ShowEmptyTrash() && s.TrashCount() > 0 }

// CanEditValue: text is editable only on open tasks that are not in the trash.
func CanEditValue(t model.Task) bool { return !t.Checked && !t.Removed }

// CanToggleChecked: trashed tasks keep their completion flag frozen.
func CanToggleChecked(t model.Task) bool { return !t.Removed }
