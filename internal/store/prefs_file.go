package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const prefsFileName = "prefs.json"

// FilePrefs keeps preferences in a flat JSON object file under Dir.
//
// It is best effort: a corrupted file reads as empty and is rewritten on the next Set.
type FilePrefs struct {
	Dir string

	mu sync.Mutex
}

func (p *FilePrefs) path() string {
	return filepath.Join(p.Dir, prefsFileName)
}

func (p *FilePrefs) load() (map[string]string, error) {
	b, err := os.ReadFile(p.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	m := map[string]string{}
	if err := json.Unmarshal(b, &m); err != nil {
		// Best-effort; if corrupted, treat as missing.
		return map[string]string{}, nil
	}
	return m, nil
}

func (p *FilePrefs) Get(_ context.Context, key string) (string, bool, error) {
	if strings.TrimSpace(p.Dir) == "" {
		return "", false, nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	m, err := p.load()
	if err != nil {
		return "", false, err
	}
	v, ok := m[key]
	return v, ok, nil
}

func (p *FilePrefs) Set(_ context.Context, key, raw string) error {
	if strings.TrimSpace(p.Dir) == "" {
		return errors.New("prefs: empty dir")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return err
	}
	m, err := p.load()
	if err != nil {
		return err
	}
	m[key] = raw
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(p.Dir, prefsFileName+".*.tmp", p.path(), b, 0o644)
}
