package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"todo-cli/internal/store"
	"todo-cli/internal/web"

	"github.com/spf13/cobra"
)

func newWebCmd(app *App) *cobra.Command {
	var addr string
	var datastarURL string

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the task list as a browser UI (Datastar)",
		Long: strings.TrimSpace(`
Serve the task list from a local HTTP server. The page is server-rendered and kept
live with Datastar server-sent events; every open tab shares one task list.

Tasks are fetched once from <base-url>/api/tasks when the server starts.
`),
		Example: strings.TrimSpace(`
todo web --addr 127.0.0.1:3333
todo --base-url http://127.0.0.1:8000 web
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("web: missing --addr"))
			}

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
			logger, closeLog, err := serverLogger(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := web.NewServer(ctx, web.ServerConfig{
				Addr:        listenAddr,
				Source:      src,
				Prefs:       prefs,
				Timeout:     s.Timeout,
				DatastarURL: datastarURL,
				Logger:      logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", srv.Addr())
			if err != nil {
				return writeErr(cmd, err)
			}
			actualAddr := ln.Addr().String()
			url := "http://" + actualAddr + "/"

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":      actualAddr,
					"url":       url,
					"source":    src.TasksURL(),
					"startedAt": time.Now().UTC().Format(time.RFC3339Nano),
				},
				"_hints": []string{"open " + url},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "todo web running at %s (tasks from %s)\n", url, src.TasksURL())

			go srv.Load(ctx)
			return serveUntilDone(ctx, ln, srv.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", web.DefaultAddr, "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&datastarURL, "datastar-url", envOr("TODO_DATASTAR_URL", web.DefaultDatastarURL), "URL of the Datastar browser bundle")
	return cmd
}

// serveUntilDone serves h on ln until ctx is cancelled, then shuts down gracefully.
func serveUntilDone(ctx context.Context, ln net.Listener, h http.Handler) error {
	hs := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- hs.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
