package cli

import (
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/store"
	"todo-cli/internal/tasklist"

	"github.com/spf13/cobra"
)

func newPrefsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Inspect or change the saved draft text and filter",
	}
	cmd.AddCommand(newPrefsShowCmd(app))
	cmd.AddCommand(newPrefsSetCmd(app))
	return cmd
}

func newPrefsShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved preferences (defaults when unset or unreadable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			prefs, err := s.prefs()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = store.ClosePrefs(prefs) }()
			draft, filter, err := store.LoadPreferences(cmdContext(cmd), prefs)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					tasklist.PrefKeyText:   draft,
					tasklist.PrefKeyFilter: string(filter),
				},
				"meta": map[string]any{
					"backend": s.PrefsBackend,
					"dir":     s.PrefsDir,
				},
			})
		},
	}
}

func newPrefsSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <text|filter> <value>",
		Short: "Overwrite one preference",
		Example: strings.TrimSpace(`
todo prefs set filter unchecked
todo prefs set text "buy milk"
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			value := args[1]
			switch key {
			case tasklist.PrefKeyText:
			case tasklist.PrefKeyFilter:
				f, err := model.ParseFilter(value)
				if err != nil {
					return writeErr(cmd, err)
				}
				value = string(f)
			default:
				return writeErr(cmd, errUnknownKey("prefs", key, "text|filter"))
			}

			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			prefs, err := s.prefs()
			if err != nil {
				return writeErr(cmd, err)
			}
			defer func() { _ = store.ClosePrefs(prefs) }()
			if err := store.ApplyPrefWrites(cmdContext(cmd), prefs, []tasklist.PrefWrite{{Key: key, Value: value}}); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{key: value},
			})
		},
	}
}
