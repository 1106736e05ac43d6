package tui

import (
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/tasklist"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const flashDuration = 2500 * time.Millisecond

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeLists()
		return m, nil

	case spinner.TickMsg:
		if m.state.Status != tasklist.StatusLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tasksLoadedMsg:
		m.ids.Observe(msg.tasks)
		cmd := m.apply(tasklist.Loaded{Tasks: msg.tasks})
		return m, cmd

	case tasksLoadFailedMsg:
		m.logger.Printf("tui: load tasks: %v", msg.err)
		m.modal = modalNone
		cmd := m.apply(tasklist.LoadFailed{Err: msg.err})
		return m, cmd

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.minibufferText = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case m.modal == modalEditValue:
		m.edit, cmd = m.edit.Update(msg)
	case m.focus == focusInput:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// apply dispatches a and turns a preference write failure into a footer flash.
func (m *appModel) apply(a tasklist.Action) tea.Cmd {
	if err := m.dispatch(a); err != nil {
		return m.showMinibuffer("Could not save preferences: " + err.Error())
	}
	return nil
}

func (m *appModel) showMinibuffer(text string) tea.Cmd {
	m.minibufferText = text
	m.flashSeq++
	seq := m.flashSeq
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	// The failed screen is static; the only thing left to do is leave.
	if m.state.Failed() {
		if key.Matches(msg, m.keys.Quit) || key.Matches(msg, m.keys.Cancel) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch m.modal {
	case modalHelp:
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) || msg.String() == "enter" {
			m.modal = modalNone
		}
		return m, nil
	case modalConfirmEmptyTrash:
		return m.updateConfirmEmptyTrash(msg)
	case modalEditValue:
		return m.updateEditValue(msg)
	}

	if m.focus == focusInput {
		return m.updateInput(msg)
	}
	return m.updateList(msg)
}

func (m appModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.SwitchFocus), key.Matches(msg, m.keys.Cancel):
		m.setFocus(focusList)
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		if m.state.Draft == "" {
			return m, nil
		}
		cmd := m.apply(tasklist.SubmitDraft{ID: m.ids.Next()})
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.state.Draft {
		saveCmd := m.apply(tasklist.SetDraft{Text: v})
		return m, tea.Batch(cmd, saveCmd)
	}
	return m, cmd
}

func (m appModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.modal = modalHelp
		return m, nil
	case key.Matches(msg, m.keys.SwitchFocus):
		if !m.state.ShowEntryForm() {
			return m, nil
		}
		m.setFocus(focusInput)
		return m, nil

	case key.Matches(msg, m.keys.ToggleChecked):
		t, ok := selectedTask(m.rows)
		if !ok {
			return m, nil
		}
		if !tasklist.CanToggleChecked(t) {
			cmd := m.showMinibuffer("Restore the task before completing it")
			return m, cmd
		}
		cmd := m.apply(tasklist.SetChecked{ID: t.ID, Checked: !t.Checked})
		return m, cmd

	case key.Matches(msg, m.keys.ToggleRemoved):
		t, ok := selectedTask(m.rows)
		if !ok {
			return m, nil
		}
		cmd := m.apply(tasklist.SetRemoved{ID: t.ID, Removed: !t.Removed})
		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		t, ok := selectedTask(m.rows)
		if !ok {
			return m, nil
		}
		if !tasklist.CanEditValue(t) {
			cmd := m.showMinibuffer("Completed and deleted tasks are read-only")
			return m, cmd
		}
		m.openEditValue(t)
		return m, nil

	case key.Matches(msg, m.keys.NextFilter):
		cmd := m.apply(tasklist.SetFilter{Filter: m.state.Filter.Next()})
		return m, cmd
	case key.Matches(msg, m.keys.PrevFilter):
		cmd := m.apply(tasklist.SetFilter{Filter: m.state.Filter.Prev()})
		return m, cmd
	case key.Matches(msg, m.keys.FilterAll):
		cmd := m.apply(tasklist.SetFilter{Filter: model.FilterAll})
		return m, cmd
	case key.Matches(msg, m.keys.FilterChecked):
		cmd := m.apply(tasklist.SetFilter{Filter: model.FilterChecked})
		return m, cmd
	case key.Matches(msg, m.keys.FilterOpen):
		cmd := m.apply(tasklist.SetFilter{Filter: model.FilterUnchecked})
		return m, cmd
	case key.Matches(msg, m.keys.FilterTrash):
		cmd := m.apply(tasklist.SetFilter{Filter: model.FilterRemoved})
		return m, cmd

	case key.Matches(msg, m.keys.EmptyTrash):
		if !m.state.ShowEmptyTrash() {
			return m, nil
		}
		if !m.state.EmptyTrashEnabled() {
			cmd := m.showMinibuffer("Trash is empty")
			return m, cmd
		}
		m.modal = modalConfirmEmptyTrash
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	var cmd tea.Cmd
	m.rows, cmd = m.rows.Update(msg)
	return m, cmd
}

func (m *appModel) openEditValue(t model.Task) {
	m.modal = modalEditValue
	m.editForID = t.ID
	m.edit.SetValue(t.Value)
	m.edit.CursorEnd()
	m.edit.Focus()
	m.input.Blur()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.editForID = 0
	m.edit.Blur()
	m.syncFocus()
}

func (m appModel) updateEditValue(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeModal()
		return m, nil
	case key.Matches(msg, m.keys.Submit):
		id, v := m.editForID, m.edit.Value()
		m.closeModal()
		cmd := m.apply(tasklist.SetValue{ID: id, Value: v})
		return m, cmd
	}
	var cmd tea.Cmd
	m.edit, cmd = m.edit.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmEmptyTrash(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "y":
		m.closeModal()
		cmd := m.apply(tasklist.EmptyTrash{})
		return m, cmd
	case "n":
		m.closeModal()
		return m, nil
	case "enter":
		confirmed := m.confirmFocus == confirmFocusConfirm
		m.closeModal()
		if confirmed {
			cmd := m.apply(tasklist.EmptyTrash{})
			return m, cmd
		}
		return m, nil
	}
	if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Quit) {
		m.closeModal()
	}
	return m, nil
}
