package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"todo-cli/internal/model"
	"todo-cli/internal/tasklist"
)

// Prefs is a small string key/value store for UI preferences.
//
// Values are stored raw; callers use EncodePref/DecodePref so the on-disk layout matches the
// browser client's localStorage (JSON-encoded strings).
type Prefs interface {
	Get(ctx context.Context, key string) (raw string, ok bool, err error)
	Set(ctx context.Context, key, raw string) error
}

const (
	PrefsBackendSQLite = "sqlite"
	PrefsBackendJSON   = "json"
	PrefsBackendMemory = "memory"
)

// OpenPrefs returns the preference backend named by backend, rooted at dir.
func OpenPrefs(backend, dir string) (Prefs, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", PrefsBackendSQLite:
		return &SQLitePrefs{Dir: dir}, nil
	case PrefsBackendJSON:
		return &FilePrefs{Dir: dir}, nil
	case PrefsBackendMemory:
		return NewMemoryPrefs(), nil
	default:
		return nil, fmt.Errorf("unknown prefs backend: %s (expected sqlite|json|memory)", backend)
	}
}

// ClosePrefs releases backends that hold a handle (SQLitePrefs); others are a no-op.
func ClosePrefs(p Prefs) error {
	if c, ok := p.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func EncodePref(v string) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func DecodePref(raw string) (string, bool) {
	var v string
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return "", false
	}
	return v, true
}

// LoadPreferences restores the draft text and active filter. Missing, unreadable or
// corrupt values fall back to "" and all; the error is returned alongside for logging.
func LoadPreferences(ctx context.Context, p Prefs) (draft string, filter model.Filter, err error) {
	filter = model.FilterAll
	if p == nil {
		return "", filter, nil
	}

	var firstErr error
	if raw, ok, gerr := p.Get(ctx, tasklist.PrefKeyText); gerr != nil {
		firstErr = gerr
	} else if ok {
		if v, ok := DecodePref(raw); ok {
			draft = v
		}
	}

	if raw, ok, gerr := p.Get(ctx, tasklist.PrefKeyFilter); gerr != nil {
		if firstErr == nil {
			firstErr = gerr
		}
	} else if ok {
		if v, ok := DecodePref(raw); ok && model.Filter(v).Valid() {
			filter = model.Filter(v)
		}
	}
	return draft, filter, firstErr
}

// ApplyPrefWrites performs the writes produced by tasklist.Effects, in order.
// It keeps going after a failure and returns the first error.
func ApplyPrefWrites(ctx context.Context, p Prefs, writes []tasklist.PrefWrite) error {
	if p == nil {
		return nil
	}
	var firstErr error
	for _, w := range writes {
		if err := p.Set(ctx, w.Key, EncodePref(w.Value)); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("save pref %s: %w", w.Key, err)
		}
	}
	return firstErr
}

type MemoryPrefs struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryPrefs() *MemoryPrefs { return &MemoryPrefs{m: map[string]string{}} }

func (p *MemoryPrefs) Get(_ context.Context, key string) (string, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.m[key]
	return v, ok, nil
}

func (p *MemoryPrefs) Set(_ context.Context, key, raw string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = map[string]string{}
	}
	p.m[key] = raw
	return nil
}
