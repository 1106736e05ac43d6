package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/store"
	"todo-cli/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: 1, Value: "A"},
		{ID: 2, Value: "B", Checked: true},
		{ID: 3, Value: "C", Removed: true},
	}
}

func newLoadedModel(t *testing.T, prefs store.Prefs, tasks []model.Task) appModel {
	t.Helper()
	m := newAppModel(Options{Prefs: prefs}, "", model.FilterAll)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, tasksLoadedMsg{tasks: tasks})
	if m.state.Status != tasklist.StatusReady {
		t.Fatalf("expected ready after load, got %s", m.state.Status)
	}
	return m
}

func update(t *testing.T, m appModel, msg tea.Msg) appModel {
	t.Helper()
	mm, _ := m.Update(msg)
	out, ok := mm.(appModel)
	if !ok {
		t.Fatalf("expected appModel, got %T", mm)
	}
	return out
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func typeText(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	for _, r := range s {
		m = update(t, m, runes(string(r)))
	}
	return m
}

func storedPref(t *testing.T, p store.Prefs, key string) string {
	t.Helper()
	raw, ok, err := p.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("Get(%q): %v", key, err)
	}
	if !ok {
		return ""
	}
	return raw
}

func TestTypeAndSubmit_AddsTaskAndPersistsDraft(t *testing.T) {
	prefs := store.NewMemoryPrefs()
	m := newLoadedModel(t, prefs, sampleTasks())

	m = typeText(t, m, "milk")
	if m.state.Draft != "milk" {
		t.Fatalf("expected draft milk, got %q", m.state.Draft)
	}
	if got := storedPref(t, prefs, tasklist.PrefKeyText); got != `"milk"` {
		t.Fatalf("expected stored draft %q, got %q", `"milk"`, got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.state.Tasks) != 4 || m.state.Tasks[0].Value != "milk" {
		t.Fatalf("expected milk prepended, got %#v", m.state.Tasks)
	}
	if m.state.Tasks[0].ID <= 3 {
		t.Fatalf("expected new id above loaded ids, got %d", m.state.Tasks[0].ID)
	}
	if m.state.Draft != "" || m.input.Value() != "" {
		t.Fatalf("expected cleared draft, got state=%q input=%q", m.state.Draft, m.input.Value())
	}
	if got := storedPref(t, prefs, tasklist.PrefKeyText); got != `""` {
		t.Fatalf("expected stored empty draft, got %q", got)
	}
}

func TestSubmit_EmptyDraftDoesNothing(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.state.Tasks) != 3 {
		t.Fatalf("expected no new task, got %d", len(m.state.Tasks))
	}
}

func TestListKeys_ToggleCheckedAndDelete(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("expected list focus after tab")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if task, _ := m.state.Find(1); !task.Checked {
		t.Fatalf("expected task 1 checked")
	}

	m = update(t, m, runes("d"))
	if task, _ := m.state.Find(1); !task.Removed || !task.Checked {
		t.Fatalf("expected task 1 removed and still checked, got %#v", task)
	}
	for _, task := range m.state.Visible() {
		if task.ID == 1 {
			t.Fatalf("removed task still visible under all")
		}
	}
}

func TestListKeys_ToggleCheckedRefusedOnRemovedTask(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("4"))
	if m.state.Filter != model.FilterRemoved {
		t.Fatalf("expected removed filter, got %s", m.state.Filter)
	}

	m = update(t, m, runes("x"))
	if task, _ := m.state.Find(3); task.Checked {
		t.Fatalf("removed task must not be checkable")
	}
	if m.minibufferText == "" {
		t.Fatalf("expected a footer message")
	}

	m = update(t, m, runes("d"))
	if task, _ := m.state.Find(3); task.Removed {
		t.Fatalf("expected task 3 restored")
	}
}

func TestFilterKeys_PersistFilterAndHideEntryForm(t *testing.T) {
	prefs := store.NewMemoryPrefs()
	m := newLoadedModel(t, prefs, sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = update(t, m, runes("f"))
	if m.state.Filter != model.FilterChecked {
		t.Fatalf("expected checked filter, got %s", m.state.Filter)
	}
	if got := storedPref(t, prefs, tasklist.PrefKeyFilter); got != `"checked"` {
		t.Fatalf("expected stored filter, got %q", got)
	}
	if m.state.ShowEntryForm() {
		t.Fatalf("entry form must be hidden under checked")
	}

	// Focus cannot move to the hidden entry form.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusList {
		t.Fatalf("expected focus to stay on list")
	}
	if strings.Contains(m.View(), "What needs to be done?") {
		t.Fatalf("entry form rendered under checked filter")
	}

	m = update(t, m, runes("F"))
	if m.state.Filter != model.FilterAll {
		t.Fatalf("expected all filter, got %s", m.state.Filter)
	}
}

func TestEditValue_ModalCommitsNewText(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	m = update(t, m, runes("e"))
	if m.modal != modalEditValue || m.editForID != 1 {
		t.Fatalf("expected edit modal for task 1, got modal=%v id=%d", m.modal, m.editForID)
	}
	m = typeText(t, m, "!")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal != modalNone {
		t.Fatalf("expected modal closed")
	}
	if task, _ := m.state.Find(1); task.Value != "A!" {
		t.Fatalf("expected value A!, got %q", task.Value)
	}
}

func TestEditValue_EscCancels(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("e"))
	m = typeText(t, m, "zzz")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != modalNone {
		t.Fatalf("expected modal closed")
	}
	if task, _ := m.state.Find(1); task.Value != "A" {
		t.Fatalf("expected unchanged value, got %q", task.Value)
	}
}

func TestEditValue_RefusedOnCheckedTask(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("j"))
	if task, ok := selectedTask(m.rows); !ok || task.ID != 2 {
		t.Fatalf("expected task 2 selected, got %#v", task)
	}
	m = update(t, m, runes("e"))
	if m.modal != modalNone {
		t.Fatalf("checked task must not open the editor")
	}
}

func TestEmptyTrash_ConfirmFlow(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})

	// Not offered outside the trash view.
	m = update(t, m, runes("T"))
	if m.modal != modalNone {
		t.Fatalf("empty trash must only be offered under the trash filter")
	}

	m = update(t, m, runes("4"))
	m = update(t, m, runes("T"))
	if m.modal != modalConfirmEmptyTrash {
		t.Fatalf("expected confirm modal")
	}
	// Default focus is Cancel; enter cancels.
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.state.TrashCount() != 1 {
		t.Fatalf("expected cancel to keep trash")
	}

	m = update(t, m, runes("T"))
	m = update(t, m, runes("y"))
	if m.state.TrashCount() != 0 || len(m.state.Tasks) != 2 {
		t.Fatalf("expected trash emptied, got %#v", m.state.Tasks)
	}
	if m.state.Tasks[0].ID != 1 || m.state.Tasks[1].ID != 2 {
		t.Fatalf("expected order preserved, got %#v", m.state.Tasks)
	}

	m = update(t, m, runes("T"))
	if m.modal != modalNone || m.minibufferText == "" {
		t.Fatalf("expected disabled empty trash to flash instead of confirming")
	}
}

func TestLoadFailed_RendersOnlyErrorMessage(t *testing.T) {
	m := newAppModel(Options{Prefs: store.NewMemoryPrefs()}, "draft", model.FilterAll)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m = update(t, m, tasksLoadFailedMsg{err: remote.ErrLoad})

	v := m.View()
	if !strings.Contains(v, tasklist.ErrorMessage) {
		t.Fatalf("expected error message in view:\n%s", v)
	}
	if strings.Contains(v, "All tasks") || strings.Contains(v, "draft") {
		t.Fatalf("failed view must not render the surface:\n%s", v)
	}

	m = typeText(t, m, "abc")
	if m.state.Draft != "draft" {
		t.Fatalf("expected input ignored after failure, got %q", m.state.Draft)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

type stubSource struct {
	tasks []model.Task
	err   error
}

func (s stubSource) Fetch(context.Context) ([]model.Task, error) { return s.tasks, s.err }

func TestLoadTasksCmd(t *testing.T) {
	m := newAppModel(Options{Source: stubSource{tasks: sampleTasks()}}, "", model.FilterAll)
	msg := m.loadTasksCmd()()
	loaded, ok := msg.(tasksLoadedMsg)
	if !ok || len(loaded.tasks) != 3 {
		t.Fatalf("expected tasksLoadedMsg with 3 tasks, got %#v", msg)
	}

	boom := errors.New("boom")
	m = newAppModel(Options{Source: stubSource{err: boom}}, "", model.FilterAll)
	failed, ok := m.loadTasksCmd()().(tasksLoadFailedMsg)
	if !ok || !errors.Is(failed.err, remote.ErrLoad) || !errors.Is(failed.err, boom) {
		t.Fatalf("expected wrapped load failure, got %#v", failed)
	}
}

func TestLocalEditsBeforeLoadAreReplaced(t *testing.T) {
	m := newAppModel(Options{Prefs: store.NewMemoryPrefs()}, "", model.FilterAll)
	m = typeText(t, m, "early")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(m.state.Tasks) != 1 {
		t.Fatalf("expected local task while loading")
	}
	m = update(t, m, tasksLoadedMsg{tasks: sampleTasks()})
	if len(m.state.Tasks) != 3 {
		t.Fatalf("expected load to replace tasks wholesale, got %#v", m.state.Tasks)
	}
}

func TestHelpModal_OpensAndCloses(t *testing.T) {
	m := newLoadedModel(t, store.NewMemoryPrefs(), sampleTasks())
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, runes("?"))
	if m.modal != modalHelp {
		t.Fatalf("expected help modal")
	}
	if v := m.View(); !strings.Contains(v, "Help") {
		t.Fatalf("expected help title in view")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != modalNone {
		t.Fatalf("expected help closed")
	}
}
