package model

import "sync"

// ObjectKind classifies objects placed in the world.
type ObjectKind uint8

const (
	KindProp ObjectKind = iota + 1
	KindVehicle
)

// String returns the kind name used in logs and history rows.
func (k ObjectKind) String() string {
	switch k {
	case KindProp:
		return "prop"
	case KindVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

// WorldObject is a placed object in the game world.
// Props (barricades, structures, spawned NPC stalls) live in region grids,
// vehicles are tracked separately by the world.
type WorldObject struct {
	objectID uint32
	kind     ObjectKind
	typeID   uint16 // asset id
	location Location

	mu sync.RWMutex
}

// NewWorldObject creates a new world object.
func NewWorldObject(objectID uint32, kind ObjectKind, typeID uint16, loc Location) *WorldObject {
	return &WorldObject{
		objectID: objectID,
		kind:     kind,
		typeID:   typeID,
		location: loc,
	}
}

// ObjectID returns the unique object ID (immutable after creation).
func (w *WorldObject) ObjectID() uint32 {
	return w.objectID
}

// Kind returns the object kind.
func (w *WorldObject) Kind() ObjectKind {
	return w.kind
}

// TypeID returns the asset id the object was created from.
func (w *WorldObject) TypeID() uint16 {
	return w.typeID
}

// Location returns a copy of the object's location.
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation updates the object's location.
// Callers that keep the object in a region grid must move it through the world.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}
