package tasklist

import (
	"slices"

	"todo-cli/internal/model"
)

// Action is one state transition request. The set is closed: only types in this package
// implement it.
type Action interface{ isAction() }

// Loaded replaces the collection with the remote snapshot.
type Loaded struct{ Tasks []model.Task }

// LoadFailed moves the controller into its terminal error state.
type LoadFailed struct{ Err error }

type SetDraft struct{ Text string }

// SubmitDraft turns the draft into a new task. ID must come from an IDs generator.
type SubmitDraft struct{ ID int64 }

type SetValue struct {
	ID    int64
	Value string
}

type SetChecked struct {
	ID      int64
	Checked bool
}

type SetRemoved struct {
	ID      int64
	Removed bool
}

type SetFilter struct{ Filter model.Filter }

type EmptyTrash struct{}

func (Loaded) isAction()      {}
func (LoadFailed) isAction()  {}
func (SetDraft) isAction()    {}
func (SubmitDraft) isAction() {}
func (SetValue) isAction()    {}
func (SetChecked) isAction()  {}
func (SetRemoved) isAction()  {}
func (SetFilter) isAction()   {}
func (EmptyTrash) isAction()  {}

// Reduce applies a to s and returns the next state. Actions that are not allowed by the
// edit policy, or that reference unknown ids, return s unchanged.
func Reduce(s State, a Action) State {
	if s.Failed() {
		return s
	}
	switch a := a.(type) {
	case Loaded:
		s.Tasks = slices.Clone(a.Tasks)
		if s.Tasks == nil {
			s.Tasks = []model.Task{}
		}
		s.Status = StatusReady
		return s

	case LoadFailed:
		s.Status = StatusFailed
		s.Err = a.Err
		return s

	case SetDraft:
		s.Draft = a.Text
		return s

	case SubmitDraft:
		if s.Draft == "" {
			return s
		}
		t := model.Task{ID: a.ID, Value: s.Draft}
		next := make([]model.Task, 0, len(s.Tasks)+1)
		next = append(next, t)
		next = append(next, s.Tasks...)
		s.Tasks = next
		s.Draft = ""
		return s

	case SetValue:
		return updateTask(s, a.ID, func(t model.Task) (model.Task, bool) {
			if !CanEditValue(t) {
				return t, false
			}
			t.Value = a.Value
			return t, true
		})

	case SetChecked:
		return updateTask(s, a.ID, func(t model.Task) (model.Task, bool) {
			if !CanToggleChecked(t) {
				return t, false
			}
			t.Checked = a.Checked
			return t, true
		})

	case SetRemoved:
		return updateTask(s, a.ID, func(t model.Task) (model.Task, bool) {
			t.Removed = a.Removed
			return t, true
		})

	case SetFilter:
		if !a.Filter.Valid() {
			return s
		}
		s.Filter = a.Filter
		return s

	case EmptyTrash:
		if s.TrashCount() == 0 {
			return s
		}
		kept := make([]model.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if !t.Removed {
				kept = append(kept, t)
			}
		}
		s.Tasks = kept
		return s

	default:
		return s
	}
}

// updateTask copies the collection only when fn reports a change for the task with id.
func updateTask(s State, id int64, fn func(model.Task) (model.Task, bool)) State {
	idx := slices.IndexFunc(s.Tasks, func(t model.Task) bool { return t.ID == id })
	if idx < 0 {
		return s
	}
	updated, ok := fn(s.Tasks[idx])
	if !ok {
		return s
	}
	next := slices.Clone(s.Tasks)
	next[idx] = updated
	s.Tasks = next
	return s
}
