package model

import (
	"strings"
	"sync"
)

// PermissionAll grants every permission.
const PermissionAll = "*"

// Player is a connected player as seen by the world and the command system.
// Thread-safe: location is written by the gateway and read by the main loop.
type Player struct {
	objectID uint32
	name     string

	mu          sync.RWMutex
	location    Location
	permissions map[string]struct{}
	sink        func(string)
}

// NewPlayer creates a player with the given permissions.
func NewPlayer(objectID uint32, name string, loc Location, permissions ...string) *Player {
	p := &Player{
		objectID:    objectID,
		name:        name,
		location:    loc,
		permissions: make(map[string]struct{}, len(permissions)),
	}
	for _, perm := range permissions {
		p.permissions[strings.ToLower(perm)] = struct{}{}
	}
	return p
}

// ObjectID returns the player's object ID.
func (p *Player) ObjectID() uint32 {
	return p.objectID
}

// Name returns the player name.
func (p *Player) Name() string {
	return p.name
}

// Location returns the player's current location.
func (p *Player) Location() Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location
}

// SetLocation updates the player's location.
func (p *Player) SetLocation(loc Location) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.location = loc
}

// HasPermission reports whether the player holds perm (case-insensitive) or the wildcard.
func (p *Player) HasPermission(perm string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.permissions[PermissionAll]; ok {
		return true
	}
	_, ok := p.permissions[strings.ToLower(perm)]
	return ok
}

// Grant adds a permission.
func (p *Player) Grant(perm string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.permissions[strings.ToLower(perm)] = struct{}{}
}

// SetMessageSink sets the function that delivers messages to the player's client.
func (p *Player) SetMessageSink(sink func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sink = sink
}

// SendMessage delivers a chat message to the player.
// Messages to a player without a sink are dropped.
func (p *Player) SendMessage(msg string) {
	p.mu.RLock()
	sink := p.sink
	p.mu.RUnlock()

	if sink != nil {
		sink(msg)
	}
}
