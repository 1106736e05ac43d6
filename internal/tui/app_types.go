package tui

import (
	"todo-cli/internal/model"

	"github.com/charmbracelet/bubbles/key"
)

type tasksLoadedMsg struct{ tasks []model.Task }

type tasksLoadFailedMsg struct{ err error }

type flashDoneMsg struct{ seq int }

type focusArea int

const (
	focusInput focusArea = iota
	focusList
)

type modalKind int

const (
	modalNone modalKind = iota
	modalEditValue
	modalConfirmEmptyTrash
	modalHelp
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type keyMap struct {
	Quit          key.Binding
	ForceQuit     key.Binding
	Help          key.Binding
	SwitchFocus   key.Binding
	Submit        key.Binding
	Cancel        key.Binding
	ToggleChecked key.Binding
	ToggleRemoved key.Binding
	Edit          key.Binding
	NextFilter    key.Binding
	PrevFilter    key.Binding
	EmptyTrash    key.Binding
	FilterAll     key.Binding
	FilterChecked key.Binding
	FilterOpen    key.Binding
	FilterTrash   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:          key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
		Help:          key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		SwitchFocus:   key.NewBinding(key.WithKeys("tab", "shift+tab"), key.WithHelp("tab", "focus")),
		Submit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add/edit")),
		Cancel:        key.NewBinding(key.WithKeys("esc", "ctrl+g"), key.WithHelp("esc", "cancel")),
		ToggleChecked: key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		ToggleRemoved: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete/restore")),
		Edit:          key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		NextFilter:    key.NewBinding(key.WithKeys("f", "right"), key.WithHelp("f", "next filter")),
		PrevFilter:    key.NewBinding(key.WithKeys("F", "left"), key.WithHelp("F", "prev filter")),
		EmptyTrash:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "empty trash")),
		FilterAll:     key.NewBinding(key.WithKeys("1")),
		FilterChecked: key.NewBinding(key.WithKeys("2")),
		FilterOpen:    key.NewBinding(key.WithKeys("3")),
		FilterTrash:   key.NewBinding(key.WithKeys("4")),
	}
}
