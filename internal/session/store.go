package session

import (
	"context"
	"sync"
	"time"
)

// Store holds one conversation per session id, in memory.
//
// Every read or write of a session refreshes its access record; a
// background sweep (see Sweeper) removes sessions idle beyond a TTL.
// Mutations to a single session are serialized through a per-entry
// mutex, so concurrent appends never interleave and the sweep cannot
// remove a session mid-append.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	mu         sync.Mutex
	session    *Session
	lastAccess time.Time
	evicted    bool // set under mu when the sweep removes this entry
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// GetOrCreate returns a snapshot of the session for id, creating an
// empty session (and its access record) if the id is unknown.
func (s *Store) GetOrCreate(id string) Session {
	e := s.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastAccess = time.Now()
	return e.snapshot()
}

// History returns a snapshot of the turns for id. Unknown ids yield an
// empty history without creating a session. Reading counts as access.
func (s *Store) History(id string) []Turn {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.evicted {
		return nil
	}
	e.lastAccess = time.Now()
	turns := make([]Turn, len(e.session.Turns))
	copy(turns, e.session.Turns)
	return turns
}

// TagRole records the caller's role tag on the session. The tag is
// opaque to the store. No-op for unknown ids.
func (s *Store) TagRole(id, role string) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	if !e.evicted {
		e.session.Role = role
		e.lastAccess = time.Now()
	}
	e.mu.Unlock()
}

// Touch refreshes the access record for id. Unknown ids are a no-op;
// Touch never fails.
func (s *Store) Touch(id string) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return
	}

	e.mu.Lock()
	if !e.evicted {
		e.lastAccess = time.Now()
	}
	e.mu.Unlock()
}

// AppendTurn appends a turn to the session's history, creating the
// session if the id is unknown. The append and the access-record update
// happen atomically with respect to the eviction sweep. A canceled
// context leaves the history untouched.
func (s *Store) AppendTurn(ctx context.Context, id string, turn Turn) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e := s.entry(id)
		e.mu.Lock()
		if e.evicted {
			// Lost the race against the sweep between lookup and lock.
			// The id is gone from the map; re-create and retry.
			e.mu.Unlock()
			continue
		}
		e.session.Turns = append(e.session.Turns, turn)
		e.lastAccess = time.Now()
		e.mu.Unlock()
		return nil
	}
}

// IsKnown reports whether id currently maps to a live session. Callers
// minting session ids use this to treat expired ids as unknown rather
// than silently resurrecting them.
func (s *Store) IsKnown(id string) bool {
	s.mu.RLock()
	_, ok := s.entries[id]
	s.mu.RUnlock()
	return ok
}

// Delete removes the session and its access record. No-op for unknown ids.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok {
		delete(s.entries, id)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	e.mu.Lock()
	e.evicted = true
	e.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictExpired removes every session whose last access is older than
// ttl and returns the count removed. A session being accessed while the
// sweep runs has its access record re-checked under the entry lock, so
// in-flight requests extend liveness.
func (s *Store) EvictExpired(ttl time.Duration) int {
	now := time.Now()

	// Collect candidates under the read lock first; the expensive
	// per-entry confirmation happens outside it.
	s.mu.RLock()
	candidates := make(map[string]*entry)
	for id, e := range s.entries {
		e.mu.Lock()
		expired := now.Sub(e.lastAccess) > ttl
		e.mu.Unlock()
		if expired {
			candidates[id] = e
		}
	}
	s.mu.RUnlock()

	removed := 0
	for id, e := range candidates {
		s.mu.Lock()
		cur, ok := s.entries[id]
		if !ok || cur != e {
			// Deleted or replaced since the scan
			s.mu.Unlock()
			continue
		}
		e.mu.Lock()
		if now.Sub(e.lastAccess) > ttl {
			e.evicted = true
			delete(s.entries, id)
			removed++
		}
		e.mu.Unlock()
		s.mu.Unlock()
	}
	return removed
}

// entry returns the live entry for id, creating it if needed. Session
// and access record are always created as a pair.
func (s *Store) entry(id string) *entry {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok {
		return e
	}
	e = &entry{
		session:    &Session{ID: id},
		lastAccess: time.Now(),
	}
	s.entries[id] = e
	return e
}

// snapshot copies the session. Caller must hold e.mu.
func (e *entry) snapshot() Session {
	turns := make([]Turn, len(e.session.Turns))
	copy(turns, e.session.Turns)
	return Session{
		ID:    e.session.ID,
		Role:  e.session.Role,
		Turns: turns,
	}
}
