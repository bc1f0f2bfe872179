package gameserver

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// ClientTable tracks connected sessions and broadcasts to joined players.
// Thread-safe for concurrent access.
type ClientTable struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewClientTable creates an empty table.
func NewClientTable() *ClientTable {
	return &ClientTable{
		sessions: make(map[uuid.UUID]*Session, 64),
	}
}

// Register adds a session.
func (t *ClientTable) Register(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sessions[s.ID()] = s
}

// Unregister removes a session.
func (t *ClientTable) Unregister(s *Session) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.sessions, s.ID())
}

// Count returns the number of connected sessions.
func (t *ClientTable) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// ForEachSession iterates over a snapshot of sessions. If fn returns false, iteration stops.
func (t *ClientTable) ForEachSession(fn func(*Session) bool) {
	t.mu.RLock()
	snapshot := make([]*Session, 0, len(t.sessions))
	for _, s := range t.sessions {
		snapshot = append(snapshot, s)
	}
	t.mu.RUnlock()

	for _, s := range snapshot {
		if !fn(s) {
			return
		}
	}
}

// Join attaches p to s unless another session already plays under the same
// name (case-insensitive). Returns false if the name is taken.
func (t *ClientTable) Join(s *Session, p *model.Player) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, other := range t.sessions {
		if op := other.Player(); op != nil && strings.EqualFold(op.Name(), p.Name()) {
			return false
		}
	}
	s.player.Store(p)
	return true
}

// FindByName returns the session of the joined player with the given name (case-insensitive).
func (t *ClientTable) FindByName(name string) *Session {
	var found *Session
	t.ForEachSession(func(s *Session) bool {
		if p := s.Player(); p != nil && strings.EqualFold(p.Name(), name) {
			found = s
			return false
		}
		return true
	})
	return found
}

// Broadcast sends msg to every joined player.
func (t *ClientTable) Broadcast(msg string) {
	t.ForEachSession(func(s *Session) bool {
		if p := s.Player(); p != nil {
			p.SendMessage(msg)
		}
		return true
	})
}
