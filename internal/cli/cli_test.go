package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo-cli/internal/apiserver"
	"todo-cli/internal/store"
)

func runCLI(t *testing.T, args []string) (stdout []byte, stderr []byte, err error) {
	t.Helper()

	cmd := NewRootCmd()

	var outBuf bytes.Buffer
	var errBuf bytes.Buffer
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(args)

	e := cmd.Execute()
	return outBuf.Bytes(), errBuf.Bytes(), e
}

// isolate points every config/prefs path at a temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TODO_CONFIG_DIR", dir)
	for _, k := range []string{"TODO_BASE_URL", "TODO_TIMEOUT", "TODO_PREFS", "TODO_FORMAT", "TODO_LOG_FILE"} {
		t.Setenv(k, "")
	}
	return dir
}

func fixtureURL(t *testing.T) string {
	t.Helper()
	api, err := apiserver.New(apiserver.Config{})
	if err != nil {
		t.Fatalf("apiserver.New: %v", err)
	}
	ts := httptest.NewServer(api.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

type tasksEnvelope struct {
	Data []struct {
		ID      int64  `json:"id"`
		Value   string `json:"value"`
		Checked bool   `json:"checked"`
		Removed bool   `json:"removed"`
	} `json:"data"`
	Meta map[string]any `json:"meta"`
}

func decodeTasks(t *testing.T, out []byte) tasksEnvelope {
	t.Helper()
	var env tasksEnvelope
	if err := json.Unmarshal(out, &env); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	return env
}

func TestTasks_DefaultFilterHidesTrash(t *testing.T) {
	isolate(t)
	base := fixtureURL(t)

	out, stderr, err := runCLI(t, []string{"--base-url", base, "tasks"})
	if err != nil {
		t.Fatalf("tasks: %v\n%s", err, stderr)
	}
	env := decodeTasks(t, out)
	if len(env.Data) != 2 {
		t.Fatalf("expected 2 live tasks, got %#v", env.Data)
	}
	for _, task := range env.Data {
		if task.Removed {
			t.Fatalf("removed task listed under all: %#v", task)
		}
	}
	if env.Meta["trash"] != float64(1) {
		t.Fatalf("expected trash=1 in meta, got %#v", env.Meta)
	}
}

func TestTasks_FilterFlag(t *testing.T) {
	isolate(t)
	base := fixtureURL(t)

	out, _, err := runCLI(t, []string{"--base-url", base, "tasks", "--filter", "removed"})
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	env := decodeTasks(t, out)
	if len(env.Data) != 1 || !env.Data[0].Removed {
		t.Fatalf("expected only the removed task, got %#v", env.Data)
	}

	if _, _, err := runCLI(t, []string{"--base-url", base, "tasks", "--filter", "nope"}); err == nil {
		t.Fatalf("expected error for invalid filter")
	}
}

func TestTasks_BaseURLFromEnvAndConfig(t *testing.T) {
	isolate(t)
	base := fixtureURL(t)

	if err := store.SaveConfig(&store.GlobalConfig{BaseURL: base}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, _, err := runCLI(t, []string{"tasks"}); err != nil {
		t.Fatalf("expected base url from config to work: %v", err)
	}

	// Env beats the config file.
	t.Setenv("TODO_BASE_URL", "http://127.0.0.1:1")
	if _, _, err := runCLI(t, []string{"--timeout", "2s", "tasks"}); err == nil {
		t.Fatalf("expected TODO_BASE_URL to override config")
	}
}

func TestTasks_ServiceFailure(t *testing.T) {
	isolate(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	t.Cleanup(ts.Close)

	_, stderr, err := runCLI(t, []string{"--base-url", ts.URL, "tasks"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(string(stderr), "500") {
		t.Fatalf("expected status in stderr, got %q", stderr)
	}
}

func TestTasks_YAMLFormat(t *testing.T) {
	isolate(t)
	base := fixtureURL(t)

	out, _, err := runCLI(t, []string{"--base-url", base, "--format", "yaml", "tasks"})
	if err != nil {
		t.Fatalf("tasks: %v", err)
	}
	if !strings.Contains(string(out), "value: Water the plants") {
		t.Fatalf("expected yaml output, got:\n%s", out)
	}
}

func TestPrefs_SetAndShow(t *testing.T) {
	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			isolate(t)

			if _, _, err := runCLI(t, []string{"--prefs", backend, "prefs", "set", "filter", "Unchecked"}); err != nil {
				t.Fatalf("prefs set filter: %v", err)
			}
			if _, _, err := runCLI(t, []string{"--prefs", backend, "prefs", "set", "text", "buy milk"}); err != nil {
				t.Fatalf("prefs set text: %v", err)
			}

			out, _, err := runCLI(t, []string{"--prefs", backend, "prefs", "show"})
			if err != nil {
				t.Fatalf("prefs show: %v", err)
			}
			var env struct {
				Data map[string]string `json:"data"`
			}
			if err := json.Unmarshal(out, &env); err != nil {
				t.Fatalf("decode: %v\n%s", err, out)
			}
			if env.Data["filter"] != "unchecked" || env.Data["text"] != "buy milk" {
				t.Fatalf("unexpected prefs: %#v", env.Data)
			}
		})
	}
}

func TestPrefs_SetRejectsBadInput(t *testing.T) {
	isolate(t)
	if _, _, err := runCLI(t, []string{"prefs", "set", "filter", "bogus"}); err == nil {
		t.Fatalf("expected error for invalid filter")
	}
	if _, _, err := runCLI(t, []string{"prefs", "set", "color", "red"}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestPrefs_ShowDefaults(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, []string{"prefs", "show"})
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	if !strings.Contains(string(out), `"filter":"all"`) || !strings.Contains(string(out), `"text":""`) {
		t.Fatalf("expected defaults, got %s", out)
	}
}

func TestConfig_SetAndShow(t *testing.T) {
	dir := isolate(t)

	if _, _, err := runCLI(t, []string{"config", "set", "timeout", "3s"}); err != nil {
		t.Fatalf("config set timeout: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "set", "theme", "light"}); err != nil {
		t.Fatalf("config set theme: %v", err)
	}
	if _, _, err := runCLI(t, []string{"config", "set", "timeout", "soon"}); err == nil {
		t.Fatalf("expected error for bad timeout")
	}
	if _, _, err := runCLI(t, []string{"config", "set", "base-url", "not a url"}); err == nil {
		t.Fatalf("expected error for bad base url")
	}

	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatalf("expected config.json written: %v", err)
	}

	out, _, err := runCLI(t, []string{"config", "show"})
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"fetchTimeout":"3s"`) || !strings.Contains(s, `"theme":"light"`) {
		t.Fatalf("unexpected config show output: %s", s)
	}
}

func TestEDNFormat(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, []string{"--format", "edn", "prefs", "show"})
	if err != nil {
		t.Fatalf("prefs show: %v", err)
	}
	if !strings.HasPrefix(string(out), "{:data {:filter \"all\"") {
		t.Fatalf("unexpected edn: %s", out)
	}
}

func TestDocs(t *testing.T) {
	isolate(t)

	out, _, err := runCLI(t, []string{"docs"})
	if err != nil {
		t.Fatalf("docs: %v", err)
	}
	if !strings.Contains(string(out), `"filters"`) {
		t.Fatalf("expected topic list, got %s", out)
	}

	out, _, err = runCLI(t, []string{"docs", "filters", "--raw"})
	if err != nil {
		t.Fatalf("docs filters: %v", err)
	}
	if !strings.HasPrefix(string(out), "# Filters") {
		t.Fatalf("expected raw markdown, got %s", out)
	}

	if _, _, err := runCLI(t, []string{"docs", "nope"}); err == nil {
		t.Fatalf("expected error for unknown topic")
	}
}

func TestExport(t *testing.T) {
	isolate(t)
	base := fixtureURL(t)

	out, _, err := runCLI(t, []string{"--base-url", base, "export", "--filter", "unchecked"})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if string(out) != "# Tasks: Current\n\n- [ ] Water the plants\n" {
		t.Fatalf("unexpected markdown: %q", out)
	}

	dir := t.TempDir()
	out, _, err = runCLI(t, []string{"--base-url", base, "export", "--trash", "--to", dir})
	if err != nil {
		t.Fatalf("export --to: %v", err)
	}
	if !strings.Contains(string(out), "tasks-all.md") {
		t.Fatalf("expected written path, got %s", out)
	}
	b, err := os.ReadFile(filepath.Join(dir, "tasks-all.md"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(b), "~~Old shopping list~~") {
		t.Fatalf("expected trash section:\n%s", b)
	}
}
