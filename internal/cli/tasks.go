package cli

import (
	"strings"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/tasklist"

	"github.com/spf13/cobra"
)

func newTasksCmd(app *App) *cobra.Command {
	var filterRaw string

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Fetch the task list once and print the filtered view",
		Long: strings.TrimSpace(`
Fetch <base-url>/api/tasks once and print the tasks visible under a filter.

Filters:
- all        live tasks (not deleted), the default
- checked    completed live tasks
- unchecked  open live tasks
- removed    the trash
`),
		Example: strings.TrimSpace(`
todo tasks
todo tasks --filter removed --format yaml
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

			st := tasklist.Reduce(tasklist.New("", filter), tasklist.Loaded{Tasks: tasks})
			return writeOut(cmd, app, map[string]any{
				"data": st.Visible(),
				"meta": map[string]any{
					"filter": string(filter),
					"count":  len(st.Visible()),
					"total":  len(st.Tasks),
					"trash":  st.TrashCount(),
					"source": src.TasksURL(),
				},
			})
		},
	}

	cmd.Flags().StringVar(&filterRaw, "filter", "", "Filter (all|checked|unchecked|removed)")
	return cmd
}
