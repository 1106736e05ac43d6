package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"todo-cli/internal/format"
	"todo-cli/internal/remote"
	"todo-cli/internal/store"
	"todo-cli/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

type App struct {
	BaseURL      string
	Timeout      string
	PrefsBackend string
	PrettyJSON   bool
	Format       string
	LogFile      string
}

// settings is the effective configuration: flag > env > config file > default.
type settings struct {
	BaseURL      string
	Timeout      time.Duration
	PrefsBackend string
	PrefsDir     string
	Theme        string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todo",
		Short:        "Task list client (TUI, browser UI and scriptable commands)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI against the default service (http://127.0.0.1:8000)
  todo

  # Run a local fixture backend, then point the client at it
  todo serve-api --addr 127.0.0.1:8000
  todo --base-url http://127.0.0.1:8000

  # Scriptable commands
  todo tasks --filter unchecked
  todo prefs show
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.BaseURL, "base-url", envOr("TODO_BASE_URL", ""), "Task service base URL (default "+store.DefaultBaseURL+")")
	cmd.PersistentFlags().StringVar(&app.Timeout, "timeout", envOr("TODO_TIMEOUT", ""), "Initial load timeout, e.g. 5s (default "+store.DefaultFetchTimeout.String()+")")
	cmd.PersistentFlags().StringVar(&app.PrefsBackend, "prefs", envOr("TODO_PREFS", ""), "Preference store (sqlite|json|memory)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON/EDN output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TODO_FORMAT", format.JSON), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("TODO_LOG_FILE", ""), "Append logs to this file")

	cmd.AddCommand(newTasksCmd(app))
	cmd.AddCommand(newPrefsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newServeAPICmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) settings() (settings, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return settings{}, err
	}
	dir, err := store.ConfigDir()
	if err != nil {
		return settings{}, err
	}

	s := settings{
		BaseURL:      firstNonEmpty(app.BaseURL, cfg.BaseURL, store.DefaultBaseURL),
		PrefsBackend: firstNonEmpty(app.PrefsBackend, cfg.Prefs, store.PrefsBackendSQLite),
		PrefsDir:     dir,
		Theme:        cfg.Theme(),
	}
	if raw := strings.TrimSpace(app.Timeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return settings{}, invalidValueError{key: "timeout", value: raw, expected: "a positive duration like 5s"}
		}
		s.Timeout = d
	} else {
		d, err := cfg.Timeout()
		if err != nil {
			return settings{}, err
		}
		s.Timeout = d
	}
	return s, nil
}

func (s settings) source() (*remote.HTTPSource, error) {
	return remote.NewHTTPSource(s.BaseURL)
}

func (s settings) prefs() (store.Prefs, error) {
	return store.OpenPrefs(s.PrefsBackend, s.PrefsDir)
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := app.settings()
	if err != nil {
		return writeErr(cmd, err)
	}
	src, err := s.source()
	if err != nil {
		return writeErr(cmd, err)
	}
	prefs, err := s.prefs()
	if err != nil {
		return writeErr(cmd, err)
	}
	defer func() { _ = store.ClosePrefs(prefs) }()

	// The terminal belongs to the TUI: logs go to a file or nowhere.
	logger := log.New(io.Discard, "", 0)
	if p := strings.TrimSpace(app.LogFile); p != "" {
		f, err := tea.LogToFile(p, "todo")
		if err != nil {
			return writeErr(cmd, err)
		}
		defer f.Close()
		logger = log.Default()
	}

	return tui.Run(cmdContext(cmd), tui.Options{
		Source:  src,
		Prefs:   prefs,
		Timeout: s.Timeout,
		Theme:   s.Theme,
		Logger:  logger,
	})
}

// serverLogger is used by the long-running HTTP commands.
func serverLogger(cmd *cobra.Command, app *App) (*log.Logger, func(), error) {
	if p := strings.TrimSpace(app.LogFile); p != "" {
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, err
		}
		return log.New(f, "todo ", log.LstdFlags), func() { _ = f.Close() }, nil
	}
	return log.New(cmd.ErrOrStderr(), "", log.LstdFlags), func() {}, nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
