package carousel

import (
	"sync"
	"time"
)

// Registry holds one board per operator session. Opening the screen again
// replaces the session's board, which closes the old one so a reorder
// still in flight from the previous view cannot write into the new one.
type Registry struct {
	store   Store
	perPage int
	idle    time.Duration
	now     func() time.Time

	mu     sync.Mutex
	boards map[string]*Board
}

func NewRegistry(store Store, perPage int, idle time.Duration) *Registry {
	if idle <= 0 {
		idle = 30 * time.Minute
	}
	return &Registry{
		store:   store,
		perPage: perPage,
		idle:    idle,
		now:     time.Now,
		boards:  map[string]*Board{},
	}
}

// Open mounts a fresh board for session.
func (r *Registry) Open(session string) *Board {
	b := NewBoard(r.store, r.perPage)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.evictIdle()
	if old, ok := r.boards[session]; ok {
		old.Close()
	}
	r.boards[session] = b
	return b
}

// Get returns the session's mounted board.
func (r *Registry) Get(session string) (*Board, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.boards[session]
	return b, ok
}

// Close unmounts the session's board.
func (r *Registry) Close(session string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.boards[session]; ok {
		b.Close()
		delete(r.boards, session)
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boards)
}

// evictIdle drops boards untouched for longer than the idle window. Callers hold mu.
func (r *Registry) evictIdle() {
	cutoff := r.now().Add(-r.idle)
	for session, b := range r.boards {
		if b.idleSince().Before(cutoff) {
			b.Close()
			delete(r.boards, session)
		}
	}
}
