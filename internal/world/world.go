package world

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// ErrClosed is returned by queries against a world that has been shut down.
var ErrClosed = errors.New("world is closed")

// World is the game world: a 2D region grid of placed props plus vehicles,
// connected players and restricted zones.
// Create with New and pass the handle to whoever needs it.
type World struct {
	regions  [][]*Region // 2D array [RegionsX][RegionsY]
	objects  sync.Map    // map[uint32]*model.WorldObject objectID → prop
	vehicles sync.Map    // map[uint32]*model.WorldObject objectID → vehicle
	players  sync.Map    // map[uint32]*model.Player objectID → player

	zonesMu sync.RWMutex
	zones   []model.Zone

	ids    *ObjectIDGenerator
	closed atomic.Bool
}

// New creates a world with an empty region grid.
func New() *World {
	w := &World{ids: NewObjectIDGenerator()}
	w.regions = make([][]*Region, RegionsX)
	for rx := range RegionsX {
		w.regions[rx] = make([]*Region, RegionsY)
		for ry := range RegionsY {
			w.regions[rx][ry] = NewRegion(int32(rx), int32(ry))
		}
	}
	return w
}

// IDs returns the world's object ID generator.
func (w *World) IDs() *ObjectIDGenerator {
	return w.ids
}

// Close marks the world as shut down; subsequent queries fail with ErrClosed.
func (w *World) Close() {
	w.closed.Store(true)
}

// GetRegion returns region at world coordinates (x, y)
// Returns nil if coordinates are out of bounds
func (w *World) GetRegion(x, y float64) *Region {
	rx, ry := CoordToRegionIndex(x, y)
	if !IsValidRegionIndex(rx, ry) {
		return nil
	}
	return w.regions[rx][ry]
}

// AddProp adds a prop to the world and its region.
// Returns error if the prop lies outside the world.
func (w *World) AddProp(obj *model.WorldObject) error {
	if obj.Kind() != model.KindProp {
		return fmt.Errorf("object %d is a %s, not a prop", obj.ObjectID(), obj.Kind())
	}
	loc := obj.Location()
	region := w.GetRegion(loc.X(), loc.Y())
	if region == nil {
		return fmt.Errorf("invalid coordinates for prop %d: (%.1f, %.1f)", obj.ObjectID(), loc.X(), loc.Y())
	}

	w.objects.Store(obj.ObjectID(), obj)
	region.AddProp(obj)
	return nil
}

// PlaceProp creates a prop of the given asset type at loc and adds it to the world.
func (w *World) PlaceProp(typeID uint16, loc model.Location) (*model.WorldObject, error) {
	if w.closed.Load() {
		return nil, ErrClosed
	}
	obj := model.NewWorldObject(w.ids.NextPropID(), model.KindProp, typeID, loc)
	if err := w.AddProp(obj); err != nil {
		return nil, fmt.Errorf("placing prop %d: %w", typeID, err)
	}
	return obj, nil
}

// RemoveProp removes a prop from the world and its region.
// Returns false if no such prop exists.
func (w *World) RemoveProp(objectID uint32) bool {
	value, ok := w.objects.LoadAndDelete(objectID)
	if !ok {
		return false
	}

	obj := value.(*model.WorldObject)
	loc := obj.Location()
	if region := w.GetRegion(loc.X(), loc.Y()); region != nil {
		region.RemoveProp(objectID)
	}
	return true
}

// GetObject returns a prop or vehicle by ID.
func (w *World) GetObject(objectID uint32) (*model.WorldObject, bool) {
	if value, ok := w.objects.Load(objectID); ok {
		return value.(*model.WorldObject), true
	}
	if value, ok := w.vehicles.Load(objectID); ok {
		return value.(*model.WorldObject), true
	}
	return nil, false
}

// ForEachPropRegion visits every region that holds at least one prop.
// If fn returns false, iteration stops.
func (w *World) ForEachPropRegion(fn func(rx, ry int32, props []*model.WorldObject) bool) error {
	if w.closed.Load() {
		return ErrClosed
	}
	for rx := range RegionsX {
		for ry := range RegionsY {
			props := w.regions[rx][ry].Props()
			if len(props) == 0 {
				continue
			}
			if !fn(int32(rx), int32(ry), props) {
				return nil
			}
		}
	}
	return nil
}

// PropCount returns total number of props in world (O(N), expensive!)
func (w *World) PropCount() int {
	count := 0
	w.objects.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// AddVehicle adds a vehicle to the world.
func (w *World) AddVehicle(obj *model.WorldObject) error {
	if obj.Kind() != model.KindVehicle {
		return fmt.Errorf("object %d is a %s, not a vehicle", obj.ObjectID(), obj.Kind())
	}
	loc := obj.Location()
	if w.GetRegion(loc.X(), loc.Y()) == nil {
		return fmt.Errorf("invalid coordinates for vehicle %d: (%.1f, %.1f)", obj.ObjectID(), loc.X(), loc.Y())
	}
	w.vehicles.Store(obj.ObjectID(), obj)
	return nil
}

// PlaceVehicle creates a vehicle of the given asset type at loc and adds it to the world.
func (w *World) PlaceVehicle(typeID uint16, loc model.Location) (*model.WorldObject, error) {
	obj := model.NewWorldObject(w.ids.NextVehicleID(), model.KindVehicle, typeID, loc)
	if err := w.AddVehicle(obj); err != nil {
		return nil, fmt.Errorf("placing vehicle %d: %w", typeID, err)
	}
	return obj, nil
}

// RemoveVehicle removes a vehicle. Returns false if no such vehicle exists.
func (w *World) RemoveVehicle(objectID uint32) bool {
	_, ok := w.vehicles.LoadAndDelete(objectID)
	return ok
}

// Vehicles returns a snapshot of all active vehicles.
func (w *World) Vehicles() ([]*model.WorldObject, error) {
	if w.closed.Load() {
		return nil, ErrClosed
	}
	vehicles := make([]*model.WorldObject, 0, 32)
	w.vehicles.Range(func(_, value any) bool {
		vehicles = append(vehicles, value.(*model.WorldObject))
		return true
	})
	return vehicles, nil
}

// AddPlayer registers a connected player.
func (w *World) AddPlayer(p *model.Player) {
	w.players.Store(p.ObjectID(), p)
}

// RemovePlayer unregisters a player.
func (w *World) RemovePlayer(objectID uint32) {
	w.players.Delete(objectID)
}

// ForEachPlayer iterates over connected players. If fn returns false, iteration stops.
func (w *World) ForEachPlayer(fn func(*model.Player) bool) {
	w.players.Range(func(_, value any) bool {
		return fn(value.(*model.Player))
	})
}

// PlayerLocations returns the current location of every connected player.
func (w *World) PlayerLocations() []model.Location {
	locs := make([]model.Location, 0, 16)
	w.ForEachPlayer(func(p *model.Player) bool {
		locs = append(locs, p.Location())
		return true
	})
	return locs
}

// SetRestrictedZones replaces the restricted zone list.
func (w *World) SetRestrictedZones(zones []model.Zone) {
	w.zonesMu.Lock()
	defer w.zonesMu.Unlock()
	w.zones = append([]model.Zone(nil), zones...)
}

// RestrictedZones returns the restricted zones (safe zones, towns).
func (w *World) RestrictedZones() []model.Zone {
	w.zonesMu.RLock()
	defer w.zonesMu.RUnlock()
	return w.zones
}
