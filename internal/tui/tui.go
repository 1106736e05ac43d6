package tui

import (
	"context"
	"log"
	"time"

	"todo-cli/internal/remote"
	"todo-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Options wires the TUI to its collaborators.
type Options struct {
	Source  remote.Source
	Prefs   store.Prefs
	Timeout time.Duration
	// Theme is the configured tui.theme (light|dark|auto); TODO_TUI_THEME wins over it.
	Theme  string
	Logger *log.Logger
}

func Run(ctx context.Context, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	draft, filter, err := store.LoadPreferences(ctx, opts.Prefs)
	if err != nil && opts.Logger != nil {
		opts.Logger.Printf("tui: load preferences: %v", err)
	}

	m := newAppModel(opts, draft, filter)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
