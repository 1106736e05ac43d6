package cli

import (
	"fmt"
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/publish"
	"todo-cli/internal/remote"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var filterRaw string
	var to string
	var title string
	var includeTrash bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the task list as a markdown checklist",
		Long: strings.TrimSpace(`
Fetch the task list once and render the tasks visible under a filter as a GFM task list.

Without --to the markdown is printed as-is. With --to it is written to that file (or to
tasks-<filter>.md inside an existing directory) and the written paths are reported.
`),
		Example: strings.TrimSpace(`
todo export
todo export --filter unchecked --to ./notes
todo export --trash --to tasks.md --overwrite
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := model.FilterAll
			if strings.TrimSpace(filterRaw) != "" {
				f, err := model.ParseFilter(filterRaw)
				if err != nil {
					return writeErr(cmd, err)
				}
				filter = f
			}

			s, err := app.settings()
			if err != nil {
				return writeErr(cmd, err)
			}
			src, err := s.source()
			if err != nil {
				return writeErr(cmd, err)
			}
			tasks, err := remote.FetchWithTimeout(cmdContext(cmd), src, s.Timeout)
			if err != nil {
				return writeErr(cmd, err)
			}

			if strings.TrimSpace(to) == "" {
				md := publish.RenderTasksMarkdown(tasks, filter, publish.RenderOptions{
					Title:        title,
					IncludeTrash: includeTrash,
				})
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}

			res, err := publish.WriteTasks(tasks, filter, to, publish.WriteOptions{
				Title:        title,
				IncludeTrash: includeTrash,
				Overwrite:    overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&filterRaw, "filter", "", "Filter (all|checked|unchecked|removed)")
	cmd.Flags().StringVar(&to, "to", "", "Write to this file or directory instead of stdout")
	cmd.Flags().StringVar(&title, "title", "", "Heading (default: Tasks: <filter label>)")
	cmd.Flags().BoolVar(&includeTrash, "trash", false, "Append a Trash section")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}
