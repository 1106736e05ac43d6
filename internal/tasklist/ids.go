package tasklist

import (
	"sync"
	"time"

	"todo-cli/internal/model"
)

// IDs hands out task ids derived from the wall clock (unix millis) that are strictly
// increasing for the lifetime of the generator, even when several tasks are created within
// the same millisecond or the clock steps backwards.
type IDs struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewIDs() *IDs { return &IDs{now: time.Now} }

// newIDsWithClock is used by tests to freeze time.
func newIDsWithClock(now func() time.Time) *IDs { return &IDs{now: now} }

func (g *IDs) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now
	if g.now != nil {
		now = g.now
	}
	id := now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

// Observe raises the floor so future ids never collide with tasks that came from elsewhere.
func (g *IDs) Observe(tasks []model.Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, t := range tasks {
		if t.ID > g.last {
			g.last = t.ID
		}
	}
}
