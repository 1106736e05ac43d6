package tui

import (
	"fmt"
	"io"
	"strings"

	"todo-cli/internal/tasklist"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskRowDelegate renders one task per line:
//
//	> [x] value ................ [Restore]
type taskRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	locked   lipgloss.Style
}

func newTaskRowDelegate() taskRowDelegate {
	return taskRowDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		done:   lipgloss.NewStyle().Foreground(colorDone),
		locked: styleMuted(),
	}
}

func (d taskRowDelegate) Height() int  { return 1 }
func (d taskRowDelegate) Spacing() int { return 0 }
func (d taskRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

var rowValueReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

func checkboxGlyph(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

func removeButtonLabel(removed bool) string {
	if removed {
		return "Restore"
	}
	return "Delete"
}

func (d taskRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	row, ok := item.(taskRow)
	if contentW < 12 || !ok {
		fmt.Fprint(w, "")
		return
	}
	t := row.task
	isSelected := index == m.Index()

	cursor := "  "
	if isSelected {
		cursor = "> "
	}

	box := checkboxGlyph(t.Checked)
	if !tasklist.CanToggleChecked(t) {
		box = d.locked.Render(box)
	} else if t.Checked {
		box = d.done.Render(box)
	}

	// One row is one line: line breaks and tabs from the service become spaces.
	value := rowValueReplacer.Replace(t.Value)
	if !tasklist.CanEditValue(t) {
		value = d.locked.Render(value)
	}

	button := "[" + removeButtonLabel(t.Removed) + "]"

	left := cursor + box + " "
	valueW := contentW - xansi.StringWidth(left) - xansi.StringWidth(button) - 1
	if valueW < 1 {
		valueW = 1
	}
	if xansi.StringWidth(value) > valueW {
		value = xansi.Truncate(value, valueW, "…")
	}
	pad := valueW - xansi.StringWidth(value)
	if pad < 0 {
		pad = 0
	}

	line := left + value + strings.Repeat(" ", pad) + " " + button
	if isSelected {
		line = d.selected.Render(line)
	} else {
		line = d.normal.Render(line)
	}
	fmt.Fprint(w, line)
}
