package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("TODO_CONFIG_DIR", cfgDir)

	seed := &GlobalConfig{BaseURL: "http://seed.invalid", Prefs: PrefsBackendSQLite}
	if err := SaveConfig(seed); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	errCh := make(chan error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			cfg, err := LoadConfig()
			if err != nil {
				errCh <- err
				return
			}
			cfg.BaseURL = fmt.Sprintf("http://host-%d.invalid", i)
			cfg.FetchTimeout = fmt.Sprintf("%ds", i+1)

			if err := SaveConfig(cfg); err != nil {
				errCh <- err
				return
			}
		}(i)
	}

	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent SaveConfig: %v", err)
	}
	if t.Failed() {
		return
	}

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config.json: %v", err)
	}
	var cfg GlobalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("config.json corrupted/unparseable: %v\nraw:\n%s", err, string(raw))
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://host-") {
		t.Fatalf("expected one of the writers to win, got baseUrl=%q", cfg.BaseURL)
	}

	// Ensure we didn't leave behind temp files.
	ents, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("read config dir: %v", err)
	}
	for _, e := range ents {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("unexpected temp file left behind: %s", e.Name())
		}
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("TODO_CONFIG_DIR", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "" || cfg.Prefs != "" {
		t.Fatalf("expected empty config, got %#v", cfg)
	}
	d, err := cfg.Timeout()
	if err != nil || d != DefaultFetchTimeout {
		t.Fatalf("expected default timeout, got %v (err=%v)", d, err)
	}
}

func TestGlobalConfig_Timeout(t *testing.T) {
	t.Parallel()

	cfg := &GlobalConfig{FetchTimeout: "250ms"}
	d, err := cfg.Timeout()
	if err != nil || d != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v (err=%v)", d, err)
	}

	for _, bad := range []string{"soon", "-1s", "0s"} {
		cfg := &GlobalConfig{FetchTimeout: bad}
		if _, err := cfg.Timeout(); err == nil {
			t.Fatalf("expected error for fetchTimeout=%q", bad)
		}
	}
}
