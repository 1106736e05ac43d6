package tui

import (
	"strconv"

	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
)

type taskRow struct {
	task model.Task
}

func (r taskRow) FilterValue() string { return r.task.Value }
func (r taskRow) Title() string       { return r.task.Value }
func (r taskRow) Description() string { return strconv.FormatInt(r.task.ID, 10) }

func newList(items []list.Item) list.Model {
	l := list.New(items, newTaskRowDelegate(), 0, 0)
	l.Title = "Tasks"
	// We render our own header + footer, so keep list chrome minimal.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	// The active task filter is the only filter; the list's fuzzy filter would fight it.
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("task", "tasks")
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	l.KeyMap.ShowFullHelp.SetEnabled(false)
	l.KeyMap.CloseFullHelp.SetEnabled(false)
	// Page keys overlap with task actions (d, f); keep only the unambiguous ones.
	l.KeyMap.NextPage.SetKeys("pgdown")
	l.KeyMap.PrevPage.SetKeys("pgup")
	// Emacs-style navigation aliases.
	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	cursorUpKeys = append(cursorUpKeys, "ctrl+p")
	l.KeyMap.CursorUp.SetKeys(cursorUpKeys...)

	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	cursorDownKeys = append(cursorDownKeys, "ctrl+n")
	l.KeyMap.CursorDown.SetKeys(cursorDownKeys...)
	return l
}

func rowsFor(tasks []model.Task) []list.Item {
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, taskRow{task: t})
	}
	return items
}

func selectListItemByID(l *list.Model, id int64) bool {
	for i, it := range l.Items() {
		if row, ok := it.(taskRow); ok && row.task.ID == id {
			l.Select(i)
			return true
		}
	}
	return false
}

func selectedTask(l list.Model) (model.Task, bool) {
	row, ok := l.SelectedItem().(taskRow)
	if !ok {
		return model.Task{}, false
	}
	return row.task, true
}
