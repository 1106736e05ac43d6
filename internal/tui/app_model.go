package tui

import (
	"context"
	"log"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/store"
	"todo-cli/internal/tasklist"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
)

const (
	topPadLines    = 1
	headerLines    = 2 // title + filter tabs
	entryFormLines = 2 // input line + blank
	footerLines    = 2 // blank + key hints / minibuffer
)

type appModel struct {
	source  remote.Source
	prefs   store.Prefs
	ids     *tasklist.IDs
	timeout time.Duration
	logger  *log.Logger

	state tasklist.State

	width  int
	height int

	focus        focusArea
	modal        modalKind
	editForID    int64
	confirmFocus confirmModalFocus

	input textinput.Model
	edit  textinput.Model
	rows  list.Model
	spin  spinner.Model
	keys  keyMap

	minibufferText string
	flashSeq       int
}

func newAppModel(opts Options, draft string, filter model.Filter) appModel {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = store.DefaultFetchTimeout
	}

	in := textinput.New()
	in.Placeholder = "What needs to be done?"
	in.Prompt = ""
	in.CharLimit = 0
	in.SetValue(draft)
	in.Focus()

	ed := textinput.New()
	ed.Prompt = ""
	ed.CharLimit = 0

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleMuted()

	m := appModel{
		source:  opts.Source,
		prefs:   opts.Prefs,
		ids:     tasklist.NewIDs(),
		timeout: timeout,
		logger:  logger,
		state:   tasklist.New(draft, filter),
		focus:   focusInput,
		input:   in,
		edit:    ed,
		rows:    newList(nil),
		spin:    sp,
		keys:    defaultKeyMap(),
	}
	m.refreshRows()
	return m
}

// dispatch runs one transition and then the preference writes it implies.
// A failed write never blocks the UI; it is logged and shown in the footer.
func (m *appModel) dispatch(a tasklist.Action) error {
	prev := m.state
	m.state = tasklist.Reduce(prev, a)

	var err error
	if m.prefs != nil {
		if werr := store.ApplyPrefWrites(context.Background(), m.prefs, tasklist.Effects(prev, m.state)); werr != nil {
			m.logger.Printf("tui: save preferences: %v", werr)
			err = werr
		}
	}

	if m.input.Value() != m.state.Draft {
		m.input.SetValue(m.state.Draft)
		m.input.CursorEnd()
	}
	m.refreshRows()
	m.syncFocus()
	m.resizeLists()
	return err
}

// refreshRows rebuilds the list from the visible projection, keeping the
// selection on the same task when it is still visible.
func (m *appModel) refreshRows() {
	prevID := int64(0)
	hadSel := false
	if t, ok := selectedTask(m.rows); ok {
		prevID, hadSel = t.ID, true
	}
	prevIdx := m.rows.Index()

	m.rows.SetItems(rowsFor(m.state.Visible()))
	if hadSel && selectListItemByID(&m.rows, prevID) {
		return
	}
	n := len(m.rows.Items())
	if n == 0 {
		return
	}
	if prevIdx >= n {
		prevIdx = n - 1
	}
	if prevIdx < 0 {
		prevIdx = 0
	}
	m.rows.Select(prevIdx)
}

// syncFocus keeps focus off the entry form while it is hidden.
func (m *appModel) syncFocus() {
	if !m.state.ShowEntryForm() && m.focus == focusInput {
		m.focus = focusList
	}
	if m.focus == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

func (m *appModel) setFocus(f focusArea) {
	if f == focusInput && !m.state.ShowEntryForm() {
		f = focusList
	}
	m.focus = f
	m.syncFocus()
}

func (m *appModel) resizeLists() {
	w := m.width - 4
	if w < 10 {
		w = 10
	}
	m.input.Width = w - 4

	h := m.height - topPadLines - headerLines - footerLines
	if m.state.ShowEntryForm() {
		h -= entryFormLines
	}
	if h < 3 {
		h = 3
	}
	m.rows.SetSize(w, h)
	m.edit.Width = modalBodyWidth(m.width) - 4
}
