package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/store"
	"todo-cli/internal/tasklist"

	"github.com/starfederation/datastar-go/datastar"
)

//go:embed templates/*.html
var assetsFS embed.FS

const (
	DefaultAddr        = "127.0.0.1:3333"
	DefaultDatastarURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

	appSelector = "#app"
)

type ServerConfig struct {
	Addr    string
	Source  remote.Source
	Prefs   store.Prefs
	Timeout time.Duration

	// DatastarURL is where the browser loads the Datastar client from.
	DatastarURL string
	Logger      *log.Logger
}

type Server struct {
	cfg     ServerConfig
	tmpl    *template.Template
	session *session
	help    template.HTML
}

func NewServer(ctx context.Context, cfg ServerConfig) (*Server, error) {
	cfg.Addr = strings.TrimSpace(cfg.Addr)
	cfg.DatastarURL = strings.TrimSpace(cfg.DatastarURL)
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.DatastarURL == "" {
		cfg.DatastarURL = DefaultDatastarURL
	}
	if cfg.Source == nil {
		return nil, errors.New("web: task source is nil")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = store.DefaultFetchTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	tmpl, err := template.New("base").ParseFS(assetsFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	draft, filter, err := store.LoadPreferences(ctx, cfg.Prefs)
	if err != nil {
		cfg.Logger.Printf("web: load preferences: %v", err)
	}

	return &Server{
		cfg:     cfg,
		tmpl:    tmpl,
		session: newSession(cfg.Prefs, draft, filter, cfg.Logger),
		help:    renderMarkdownHTML(helpMarkdown),
	}, nil
}

func (s *Server) Addr() string { return s.cfg.Addr }

// Load performs the one-shot initial fetch. It blocks until the session is
// either ready or failed; callers usually run it in a goroutine.
func (s *Server) Load(ctx context.Context) {
	s.session.load(ctx, s.cfg.Source, s.cfg.Timeout)
}

// State returns the current session snapshot.
func (s *Server) State() tasklist.State { return s.session.snapshot() }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /{$}", s.handleHome)
	mux.HandleFunc("GET /app", s.handleAppStream)
	mux.HandleFunc("POST /draft", s.handleDraft)
	mux.HandleFunc("POST /submit", s.handleSubmit)
	mux.HandleFunc("POST /filter", s.handleFilter)
	mux.HandleFunc("POST /trash/empty", s.handleEmptyTrash)
	mux.HandleFunc("POST /tasks/{id}/checked", s.handleTaskChecked)
	mux.HandleFunc("POST /tasks/{id}/value", s.handleTaskValue)
	mux.HandleFunc("POST /tasks/{id}/removed", s.handleTaskRemoved)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type filterVM struct {
	Value    string
	Label    string
	Selected bool
}

type rowVM struct {
	ID          int64
	Value       string
	Checked     bool
	Removed     bool
	CanEdit     bool
	CanToggle   bool
	RemoveLabel string
}

type appVM struct {
	Failed            bool
	Loading           bool
	ErrorMessage      string
	Draft             string
	Filters           []filterVM
	ShowEntryForm     bool
	ShowEmptyTrash    bool
	EmptyTrashEnabled bool
	TrashCount        int
	Rows              []rowVM
}

type pageVM struct {
	Title       string
	DatastarURL string
	Help        template.HTML
	App         appVM
}

func newAppVM(st tasklist.State) appVM {
	vm := appVM{
		Failed:            st.Failed(),
		Loading:           st.Status == tasklist.StatusLoading,
		ErrorMessage:      tasklist.ErrorMessage,
		Draft:             st.Draft,
		ShowEntryForm:     st.ShowEntryForm(),
		ShowEmptyTrash:    st.ShowEmptyTrash(),
		EmptyTrashEnabled: st.EmptyTrashEnabled(),
		TrashCount:        st.TrashCount(),
	}
	for _, f := range model.Filters() {
		vm.Filters = append(vm.Filters, filterVM{Value: string(f), Label: f.Label(), Selected: f == st.Filter})
	}
	for t := range st.VisibleSeq() {
		label := "Delete"
		if t.Removed {
			label = "Restore"
		}
		vm.Rows = append(vm.Rows, rowVM{
			ID:          t.ID,
			Value:       t.Value,
			Checked:     t.Checked,
			Removed:     t.Removed,
			CanEdit:     tasklist.CanEditValue(t),
			CanToggle:   tasklist.CanToggleChecked(t),
			RemoveLabel: label,
		})
	}
	return vm
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) renderApp(st tasklist.State) (string, error) {
	return s.renderTemplate("app", newAppVM(st))
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	html, err := s.renderTemplate("page", pageVM{
		Title:       "todos",
		DatastarURL: s.cfg.DatastarURL,
		Help:        s.help,
		App:         newAppVM(s.session.snapshot()),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

// handleAppStream keeps an SSE stream open and re-patches #app whenever the
// session changes (from this tab or any other).
func (s *Server) handleAppStream(w http.ResponseWriter, r *http.Request) {
	ch, cancel := s.session.hub.subscribe()
	defer cancel()

	sse := datastar.NewSSE(w, r)
	if err := s.patchApp(sse, s.session.snapshot()); err != nil {
		return
	}

	keepAlive := time.NewTicker(25 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-keepAlive.C:
			_ = sse.PatchSignals([]byte(`{}`))
		case <-ch:
			if err := s.patchApp(sse, s.session.snapshot()); err != nil {
				return
			}
		}
	}
}

func (s *Server) patchApp(sse *datastar.ServerSentEventGenerator, st tasklist.State) error {
	html, err := s.renderApp(st)
	if err != nil {
		_ = sse.ExecuteScript(fmt.Sprintf(`console.error(%q)`, err.Error()))
		return err
	}
	return sse.PatchElements(html, datastar.WithSelector(appSelector), datastar.WithMode(datastar.ElementPatchModeOuter))
}

// respond answers a mutation with the re-rendered surface. Preference write
// failures do not fail the request; they are already logged by the session.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, st tasklist.State) {
	sse := datastar.NewSSE(w, r)
	_ = s.patchApp(sse, st)
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	text, ok, err := readField(r, "draft")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !ok {
		http.Error(w, "missing draft", http.StatusBadRequest)
		return
	}
	st, _ := s.session.setDraft(r.Context(), text)
	s.respond(w, r, st)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	// The entry form posts its current text so a submit never races the
	// debounced draft update.
	text, ok, err := readField(r, "draft")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, _ := s.session.submit(r.Context(), text, ok)
	s.respond(w, r, st)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	raw, _, err := readField(r, "filter")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := model.ParseFilter(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	st, _ := s.session.dispatch(r.Context(), tasklist.SetFilter{Filter: f})
	s.respond(w, r, st)
}

func (s *Server) handleEmptyTrash(w http.ResponseWriter, r *http.Request) {
	// Empty trash is only offered under the Trash filter.
	st, _ := s.session.dispatchIf(r.Context(), tasklist.EmptyTrash{}, tasklist.State.ShowEmptyTrash)
	s.respond(w, r, st)
}

func (s *Server) handleTaskChecked(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	// An unticked checkbox is simply absent from the form.
	raw, _, err := readField(r, "checked")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	checked := parseBoolish(raw)
	st, _ := s.session.dispatch(r.Context(), tasklist.SetChecked{ID: id, Checked: checked})
	s.respond(w, r, st)
}

func (s *Server) handleTaskValue(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	v, present, err := readField(r, "value")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !present {
		http.Error(w, "missing value", http.StatusBadRequest)
		return
	}
	st, _ := s.session.dispatch(r.Context(), tasklist.SetValue{ID: id, Value: v})
	s.respond(w, r, st)
}

func (s *Server) handleTaskRemoved(w http.ResponseWriter, r *http.Request) {
	id, ok := taskIDFromPath(w, r)
	if !ok {
		return
	}
	raw, present, err := readField(r, "removed")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var removed bool
	if present {
		removed = parseBoolish(raw)
	} else {
		// Without an explicit value the button toggles.
		t, found := s.session.snapshot().Find(id)
		removed = !found || !t.Removed
	}
	st, _ := s.session.dispatch(r.Context(), tasklist.SetRemoved{ID: id, Removed: removed})
	s.respond(w, r, st)
}

func taskIDFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid task id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseBoolish(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// readField reads one input from either a classic form post or a Datastar
// signals payload. ok reports whether the field was present at all.
func readField(r *http.Request, name string) (value string, ok bool, err error) {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "application/x-www-form-urlencoded") || strings.HasPrefix(ct, "multipart/form-data") {
		if strings.HasPrefix(ct, "multipart/") {
			err = r.ParseMultipartForm(1 << 20)
		} else {
			err = r.ParseForm()
		}
		if err != nil {
			return "", false, err
		}
		vs, ok := r.PostForm[name]
		if !ok || len(vs) == 0 {
			return "", false, nil
		}
		return vs[len(vs)-1], true, nil
	}
	if r.ContentLength == 0 {
		return "", false, nil
	}

	signals := map[string]any{}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		return "", false, err
	}
	v, ok := signals[name]
	if !ok || v == nil {
		return "", false, nil
	}
	switch x := v.(type) {
	case string:
		return x, true, nil
	case bool:
		return strconv.FormatBool(x), true, nil
	default:
		return fmt.Sprint(x), true, nil
	}
}
