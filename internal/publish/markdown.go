package publish

import (
	"bytes"
	"strings"

	"todo-cli/internal/model"
)

type RenderOptions struct {
	// Title overrides the default heading ("Tasks: <filter label>").
	Title string
	// IncludeTrash appends a Trash section when the filter itself hides removed tasks.
	IncludeTrash bool
}

// RenderTasksMarkdown renders tasks as a GFM task list, in the order given.
// Only tasks visible under filter are listed.
func RenderTasksMarkdown(tasks []model.Task, filter model.Filter, opt RenderOptions) string {
	if !filter.Valid() {
		filter = model.FilterAll
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Tasks: " + filter.Label()
	}
	writeLn("# " + escapeInline(title))
	writeLn("")

	listed := 0
	for _, t := range tasks {
		if !filter.Includes(t) {
			continue
		}
		writeLn(taskLine(t))
		listed++
	}
	if listed == 0 {
		writeLn("_No tasks._")
	}

	if opt.IncludeTrash && filter != model.FilterRemoved {
		var trash []model.Task
		for _, t := range tasks {
			if t.Removed {
				trash = append(trash, t)
			}
		}
		if len(trash) > 0 {
			writeLn("")
			writeLn("## " + model.FilterRemoved.Label())
			writeLn("")
			for _, t := range trash {
				writeLn(taskLine(t))
			}
		}
	}

	return buf.String()
}

func taskLine(t model.Task) string {
	box := "[ ]"
	if t.Checked {
		box = "[x]"
	}
	v := escapeInline(t.Value)
	if t.Removed {
		v = "~~" + v + "~~"
	}
	return "- " + box + " " + v
}

// escapeInline keeps a task value on one line and stops it from being read as markup.
func escapeInline(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\\', '`', '*', '_', '[', ']', '<', '>', '#', '|', '~':
			b.WriteRune('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
