package web

import (
	"context"
	"log"
	"sync"
	"time"

	"todo-cli/internal/model"
	"todo-cli/internal/remote"
	"todo-cli/internal/store"
	"todo-cli/internal/tasklist"
)

// session is the single task list shared by every browser tab. Transitions are
// serialized by mu; readers get immutable snapshots.
type session struct {
	mu     sync.Mutex
	state  tasklist.State
	ids    *tasklist.IDs
	prefs  store.Prefs
	logger *log.Logger
	hub    *hub

	// lastSubmitted is the text of the most recent submit, until the draft changes.
	lastSubmitted string
}

func newSession(prefs store.Prefs, draft string, filter model.Filter, logger *log.Logger) *session {
	return &session{
		state:  tasklist.New(draft, filter),
		ids:    tasklist.NewIDs(),
		prefs:  prefs,
		logger: logger,
		hub:    newHub(),
	}
}

func (s *session) snapshot() tasklist.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// dispatch applies a, runs the preference writes it implies and wakes every
// open stream.
func (s *session) dispatch(ctx context.Context, a tasklist.Action) (tasklist.State, error) {
	return s.dispatchIf(ctx, a, nil)
}

// dispatchIf is dispatch gated on allowed, which sees the state under the same
// lock as the transition. A refused action leaves the session untouched.
func (s *session) dispatchIf(ctx context.Context, a tasklist.Action, allowed func(tasklist.State) bool) (tasklist.State, error) {
	s.mu.Lock()
	if allowed != nil && !allowed(s.state) {
		st := s.state
		s.mu.Unlock()
		return st, nil
	}
	prev := s.state
	s.state = tasklist.Reduce(prev, a)
	return s.commitLocked(ctx, prev)
}

// commitLocked persists prev -> s.state, releases mu and broadcasts.
func (s *session) commitLocked(ctx context.Context, prev tasklist.State) (tasklist.State, error) {
	next := s.state
	err := store.ApplyPrefWrites(ctx, s.prefs, tasklist.Effects(prev, next))
	s.mu.Unlock()

	if err != nil {
		s.logger.Printf("web: save preferences: %v", err)
	}
	s.hub.broadcast()
	return next, err
}

// setDraft stores the entry text. A debounced update that arrives after its
// text was already submitted is dropped so the draft stays cleared.
func (s *session) setDraft(ctx context.Context, text string) (tasklist.State, error) {
	s.mu.Lock()
	if text != "" && text == s.lastSubmitted && s.state.Draft == "" {
		st := s.state
		s.mu.Unlock()
		return st, nil
	}
	s.lastSubmitted = ""
	prev := s.state
	s.state = tasklist.Reduce(prev, tasklist.SetDraft{Text: text})
	return s.commitLocked(ctx, prev)
}

// submit takes the posted entry text (when present) and submits it in one
// critical section. It is a no-op while the entry form is hidden.
func (s *session) submit(ctx context.Context, text string, hasText bool) (tasklist.State, error) {
	s.mu.Lock()
	if s.state.Failed() || !s.state.ShowEntryForm() {
		st := s.state
		s.mu.Unlock()
		return st, nil
	}
	prev := s.state
	if hasText {
		s.state = tasklist.Reduce(s.state, tasklist.SetDraft{Text: text})
	}
	if draft := s.state.Draft; draft != "" {
		s.state = tasklist.Reduce(s.state, tasklist.SubmitDraft{ID: s.ids.Next()})
		s.lastSubmitted = draft
	}
	return s.commitLocked(ctx, prev)
}

func (s *session) load(ctx context.Context, src remote.Source, timeout time.Duration) {
	tasks, err := remote.FetchWithTimeout(ctx, src, timeout)
	if err != nil {
		s.logger.Printf("web: load tasks: %v", err)
		_, _ = s.dispatch(ctx, tasklist.LoadFailed{Err: err})
		return
	}
	s.ids.Observe(tasks)
	_, _ = s.dispatch(ctx, tasklist.Loaded{Tasks: tasks})
}

type hub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func newHub() *hub {
	return &hub{subs: map[chan struct{}]struct{}{}}
}

func (h *hub) subscribe() (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	return ch, func() {
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
	}
}

func (h *hub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}
