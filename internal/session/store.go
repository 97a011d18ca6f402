package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core"
)

// Store keeps the sessions of every open browser tab.
type Store struct {
	Tree     *core.Tree
	Viewport config.ViewportConfig
	Directed bool

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewStore(tree *core.Tree, viewport config.ViewportConfig, directed bool) *Store {
	return &Store{
		Tree:     tree,
		Viewport: viewport,
		Directed: directed,
		sessions: make(map[string]*Session),
	}
}

func (st *Store) Create() *Session {
	s := New(uuid.New().String(), st.Tree, st.Viewport, st.Directed)

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. Idle times are checked without holding the store lock.
func (st *Store) Sweep(now time.Time, maxIdle time.Duration) int {
	st.mu.RLock()
	var idle []*Session
	for _, s := range st.sessions {
		if s.idleSince(now) > maxIdle {
			idle = append(idle, s)
		}
	}
	st.mu.RUnlock()

	if len(idle) == 0 {
		return 0
	}

	st.mu.Lock()
	removed := 0
	for _, s := range idle {
		if st.sessions[s.ID] == s && s.idleSince(now) > maxIdle {
			delete(st.sessions, s.ID)
			removed++
		}
	}
	st.mu.Unlock()

	if removed > 0 {
		log.Printf("Swept %d idle sessions", removed)
	}
	return removed
}
