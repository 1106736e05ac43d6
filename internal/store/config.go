package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultBaseURL      = "http://127.0.0.1:8000"
	DefaultFetchTimeout = 10 * time.Second
)

type GlobalConfig struct {
	// BaseURL is the task service root; tasks are read from <BaseURL>/api/tasks.
	BaseURL string `json:"baseUrl,omitempty"`

	// FetchTimeout bounds the initial load (Go duration string, e.g. "10s").
	FetchTimeout string `json:"fetchTimeout,omitempty"`

	// Prefs selects the preference backend: sqlite|json|memory.
	Prefs string `json:"prefs,omitempty"`

	// TUI holds optional user preferences for the interactive TUI.
	TUI *TUIConfig `json:"tui,omitempty"`
}

type TUIConfig struct {
	// Theme is light|dark|auto. TODO_TUI_THEME takes precedence.
	Theme string `json:"theme,omitempty"`
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.todo).
	if v := strings.TrimSpace(os.Getenv("TODO_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".todo"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func LoadConfig() (*GlobalConfig, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &GlobalConfig{}, nil
		}
		return nil, err
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func atomicWriteFile(dir, tmpPattern, path string, b []byte, perm os.FileMode) error {
	f, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()
	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	_ = os.Chmod(tmp, perm)
	return os.Rename(tmp, path)
}

func SaveConfig(cfg *GlobalConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	// Keep a copy of the previous config to make recovery from accidental overwrites easier.
	if prev, err := os.ReadFile(path); err == nil && len(prev) > 0 {
		_ = atomicWriteFile(dir, "config.json.bak.*.tmp", path+".bak", prev, 0o644)
	}
	return atomicWriteFile(dir, "config.json.*.tmp", path, b, 0o600)
}

// Timeout parses FetchTimeout, falling back to DefaultFetchTimeout when unset.
func (c *GlobalConfig) Timeout() (time.Duration, error) {
	if c == nil || strings.TrimSpace(c.FetchTimeout) == "" {
		return DefaultFetchTimeout, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(c.FetchTimeout))
	if err != nil {
		return 0, fmt.Errorf("invalid fetchTimeout %q: %w", c.FetchTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid fetchTimeout %q: must be positive", c.FetchTimeout)
	}
	return d, nil
}

func (c *GlobalConfig) Theme() string {
	if c == nil || c.TUI == nil {
		return ""
	}
	return strings.TrimSpace(c.TUI.Theme)
}
