// Package apiserver is a read-only development backend that serves GET /api/tasks.
package apiserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"

	"github.com/rs/cors"
)

type Config struct {
	// File is an optional JSON array of tasks. Empty means SampleTasks.
	File string

	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string

	Logger *log.Logger
}

type Server struct {
	cfg Config

	mu    sync.RWMutex
	tasks []model.Task
}

// SampleTasks seeds the server when no file is given.
func SampleTasks() []model.Task {
	return []model.Task{
		{ID: 1700000000003, Value: "Water the plants"},
		{ID: 1700000000002, Value: "Reply to Sam", Checked: true},
		{ID: 1700000000001, Value: "Old shopping list", Removed: true},
	}
}

func New(cfg Config) (*Server, error) {
	s := &Server{cfg: cfg}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads cfg.File so edits show up without a restart.
func (s *Server) Reload() error {
	tasks := SampleTasks()
	if p := strings.TrimSpace(s.cfg.File); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		tasks, err = remote.DecodeTasks(bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if err := checkUniqueIDs(tasks); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()
	return nil
}

func checkUniqueIDs(tasks []model.Task) error {
	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			return fmt.Errorf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (s *Server) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

func (s *Server) logf(format string, args ...any) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Printf(format, args...)
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET "+remote.TasksPath, s.handleTasks)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	})
	return c.Handler(mux)
}

func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(s.cfg.File) != "" {
		if err := s.Reload(); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logf("reload %s: %v", s.cfg.File, err)
			http.Error(w, "tasks unavailable", http.StatusInternalServerError)
			return
		}
	}

	tasks := s.Tasks()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(tasks); err != nil {
		s.logf("encode tasks: %v", err)
		return
	}
	s.logf("GET %s -> %d tasks", remote.TasksPath, len(tasks))
}
