package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"todo-cli/internal/model"
)

type WriteOptions struct {
	Title        string
	IncludeTrash bool
	Overwrite    bool
}

type WriteResult struct {
	Written []string `json:"written"`
	Tasks   int      `json:"tasks"`
}

// WriteTasks renders the tasks visible under filter and writes them to toPath.
// A directory target gets a file named after the filter.
func WriteTasks(tasks []model.Task, filter model.Filter, toPath string, opt WriteOptions) (WriteResult, error) {
	toPath = strings.TrimSpace(toPath)
	if toPath == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toPath = filepath.Clean(toPath)
	if !filter.Valid() {
		filter = model.FilterAll
	}

	if fi, err := os.Stat(toPath); err == nil && fi.IsDir() {
		toPath = filepath.Join(toPath, "tasks-"+string(filter)+".md")
	}
	if err := os.MkdirAll(filepath.Dir(toPath), 0o755); err != nil {
		return WriteResult{}, err
	}

	md := RenderTasksMarkdown(tasks, filter, RenderOptions{
		Title:        opt.Title,
		IncludeTrash: opt.IncludeTrash,
	})
	if err := writeFile(toPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}

	n := 0
	for _, t := range tasks {
		if filter.Includes(t) {
			n++
		}
	}
	return WriteResult{Written: []string{toPath}, Tasks: n}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
