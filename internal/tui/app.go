package tui

import (
	"context"
	"fmt"
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/tasklist"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.loadTasksCmd())
}

// loadTasksCmd performs the one-shot initial fetch. There is no retry: a
// failure moves the screen into its terminal error state.
func (m appModel) loadTasksCmd() tea.Cmd {
	src, timeout := m.source, m.timeout
	return func() tea.Msg {
		if src == nil {
			return tasksLoadFailedMsg{err: fmt.Errorf("%w: no task source configured", remote.ErrLoad)}
		}
		tasks, err := remote.FetchWithTimeout(context.Background(), src, timeout)
		if err != nil {
			return tasksLoadFailedMsg{err: err}
		}
		return tasksLoadedMsg{tasks: tasks}
	}
}

func (m appModel) View() string {
	w := m.width
	if w <= 0 {
		w = 80
	}

	if m.state.Failed() {
		msg := lipgloss.NewStyle().Bold(true).Render(tasklist.ErrorMessage)
		hint := styleMuted().Render("q: quit")
		return strings.Repeat("\n", topPadLines) + "  " + msg + "\n\n  " + hint
	}

	switch m.modal {
	case modalEditValue:
		return placeCentered(m.viewEditValue(w), w, m.height)
	case modalConfirmEmptyTrash:
		body := fmt.Sprintf("Permanently delete %d task(s) in the trash?", m.state.TrashCount())
		return placeCentered(renderConfirmModal(w, "Empty trash", body, "Empty", "Cancel", m.confirmFocus), w, m.height)
	case modalHelp:
		return placeCentered(renderModalBox(w, "Help", renderMarkdown(helpMarkdown, modalBodyWidth(w))), w, m.height)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("\n", topPadLines))
	b.WriteString(m.viewHeader(w))
	b.WriteString("\n")

	if m.state.ShowEntryForm() {
		b.WriteString(m.viewEntryForm(w))
		b.WriteString("\n\n")
	}

	b.WriteString(m.viewBody(w))
	b.WriteString("\n\n")
	b.WriteString(m.viewFooter(w))

	return b.String()
}

func (m appModel) viewHeader(w int) string {
	title := styleHeader().Render("todos")
	if m.state.Status == tasklist.StatusLoading {
		title += " " + m.spin.View() + styleMuted().Render(" loading")
	} else {
		title += styleMuted().Render(fmt.Sprintf("  %d shown", len(m.state.Visible())))
	}

	tabs := make([]string, 0, len(model.Filters())+1)
	for i, f := range model.Filters() {
		label := fmt.Sprintf("%d %s", i+1, f.Label())
		if f == m.state.Filter {
			tabs = append(tabs, styleTabActive().Render(label))
		} else {
			tabs = append(tabs, styleTab().Render(label))
		}
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, joinWithSpace(tabs)...)
	if m.state.ShowEmptyTrash() {
		line += "  " + styleButton(m.state.EmptyTrashEnabled()).Render("T Empty trash")
	}
	return normalizePane("  "+title+"\n  "+line, w, headerLines)
}

func joinWithSpace(parts []string) []string {
	out := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			out = append(out, " ")
		}
		out = append(out, p)
	}
	return out
}

func (m appModel) viewEntryForm(w int) string {
	bodyW := w - 4
	if bodyW < 10 {
		bodyW = 10
	}
	line := renderInputLine(bodyW, m.input.View())
	if m.focus != focusInput {
		line = faintIfDark(lipgloss.NewStyle()).Render(line)
	}
	return "  " + line
}

func (m appModel) viewBody(w int) string {
	if len(m.rows.Items()) == 0 {
		msg := "No tasks"
		if m.state.Status == tasklist.StatusLoading {
			msg = "Loading tasks…"
		}
		return normalizePane("  "+styleMuted().Render(msg), w, 1)
	}
	return indentLines(m.rows.View(), "  ")
}

func (m appModel) viewFooter(w int) string {
	if strings.TrimSpace(m.minibufferText) != "" {
		return "  " + styleFlashError().Render(m.minibufferText)
	}
	var hints string
	if m.focus == focusInput {
		hints = "enter: add  tab: list  ctrl+c: quit"
	} else {
		hints = "space: done  e: edit  d: delete/restore  f/1-4: filter  tab: input  ?: help  q: quit"
		if m.state.ShowEmptyTrash() {
			hints = "d: restore  T: empty trash  f/1-4: filter  ?: help  q: quit"
		}
	}
	return normalizePane("  "+styleMuted().Render(hints), w, 1)
}

func (m appModel) viewEditValue(w int) string {
	bodyW := modalBodyWidth(w)
	content := strings.Join([]string{
		renderInputLine(bodyW, m.edit.View()),
		"",
		styleMuted().Width(bodyW).Render("enter: save   esc/ctrl+g: cancel"),
	}, "\n")
	return renderModalBox(w, "Edit task", content)
}

func indentLines(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = prefix + lines[i]
	}
	return strings.Join(lines, "\n")
}
