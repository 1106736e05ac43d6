package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"todo-cli/internal/apiserver"
	"todo-cli/internal/remote"

	"github.com/spf13/cobra"
)

func newServeAPICmd(app *App) *cobra.Command {
	var addr string
	var file string
	var origins []string

	cmd := &cobra.Command{
		Use:   "serve-api",
		Short: "Run a read-only task service for development",
		Long: strings.TrimSpace(`
Serve GET ` + remote.TasksPath + ` from a JSON file (an array of {"value","id","checked","removed"})
or from built-in sample tasks. The file is re-read on every request. CORS is enabled so a
browser client on another origin can read it.
`),
		Example: strings.TrimSpace(`
todo serve-api
todo serve-api --addr 127.0.0.1:8000 --file tasks.json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr := strings.TrimSpace(addr)
			if listenAddr == "" {
				return writeErr(cmd, errors.New("serve-api: missing --addr"))
			}
			logger, closeLog, err := serverLogger(cmd, app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer closeLog()

			api, err := apiserver.New(apiserver.Config{
				File:           strings.TrimSpace(file),
				AllowedOrigins: origins,
				Logger:         logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			ln, err := net.Listen("tcp", listenAddr)
			if err != nil {
				return writeErr(cmd, err)
			}
			base := "http://" + ln.Addr().String()

			_ = writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"addr":  ln.Addr().String(),
					"url":   base + remote.TasksPath,
					"file":  strings.TrimSpace(file),
					"tasks": len(api.Tasks()),
				},
				"_hints": []string{"todo --base-url " + base},
			})
			fmt.Fprintf(cmd.ErrOrStderr(), "task service running at %s%s\n", base, remote.TasksPath)

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serveUntilDone(ctx, ln, api.Handler())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Bind address (host:port or :port)")
	cmd.Flags().StringVar(&file, "file", "", "JSON file with the task array (default: sample tasks)")
	cmd.Flags().StringSliceVar(&origins, "allow-origin", nil, "CORS allowed origins (default: any)")
	return cmd
}
