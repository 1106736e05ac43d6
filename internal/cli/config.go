package cli

import (
	"strings"
	"time"

	"todo-cli/internal/remote"
	"todo-cli/internal/store"

	"github.com/spf13/cobra"
)

const configKeys = "base-url|timeout|prefs|theme"

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or edit ~/.todo/config.json",
	}
	cmd.AddCommand(newConfigShowCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	return cmd
}

func newConfigShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the config file and the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": cfg,
				"meta": map[string]any{
					"path": path,
					"effective": map[string]any{
						"baseUrl": s.BaseURL,
						"timeout": s.Timeout.String(),
						"prefs":   s.PrefsBackend,
						"theme":   s.Theme,
					},
				},
			})
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <" + configKeys + "> <value>",
		Short: "Set one config value (empty value clears it)",
		Example: strings.TrimSpace(`
todo config set base-url http://127.0.0.1:8000
todo config set timeout 5s
todo config set prefs json
todo config set theme light
`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			value := strings.TrimSpace(args[1])

			cfg, err := store.LoadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}

			switch key {
			case "base-url":
				if value != "" {
					if _, err := remote.NewHTTPSource(value); err != nil {
						return writeErr(cmd, err)
					}
				}
				cfg.BaseURL = value
			case "timeout":
				if value != "" {
					if d, err := time.ParseDuration(value); err != nil || d <= 0 {
						return writeErr(cmd, invalidValueError{key: key, value: value, expected: "a positive duration like 5s"})
					}
				}
				cfg.FetchTimeout = value
			case "prefs":
				if value != "" {
					if _, err := store.OpenPrefs(value, ""); err != nil {
						return writeErr(cmd, invalidValueError{key: key, value: value, expected: "sqlite|json|memory"})
					}
				}
				cfg.Prefs = strings.ToLower(value)
			case "theme":
				switch strings.ToLower(value) {
				case "", "light", "dark", "auto":
				default:
					return writeErr(cmd, invalidValueError{key: key, value: value, expected: "light|dark|auto"})
				}
				if cfg.TUI == nil {
					cfg.TUI = &store.TUIConfig{}
				}
				cfg.TUI.Theme = strings.ToLower(value)
				if cfg.TUI.Theme == "" {
					cfg.TUI = nil
				}
			default:
				return writeErr(cmd, errUnknownKey("config", key, configKeys))
			}

			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": cfg})
		},
	}
}
