package world

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// Region is a single world region (RegionSize×RegionSize units) holding placed props.
// Reads go through an immutable snapshot that is rebuilt lazily after changes.
type Region struct {
	rx, ry int32 // region coordinates

	props sync.Map // map[uint32]*model.WorldObject objectID → prop

	snapshotCache atomic.Value // []*model.WorldObject (immutable after rebuild)
	snapshotDirty atomic.Bool  // true if cache is stale (objects added/removed)

	version atomic.Uint64 // incremented on Add/Remove
}

// NewRegion creates a new region
func NewRegion(rx, ry int32) *Region {
	return &Region{
		rx: rx,
		ry: ry,
	}
}

// RX returns region X index
func (r *Region) RX() int32 {
	return r.rx
}

// RY returns region Y index
func (r *Region) RY() int32 {
	return r.ry
}

// Version returns current region version (incremented on Add/Remove).
func (r *Region) Version() uint64 {
	return r.version.Load()
}

// AddProp adds a prop to the region (concurrent-safe).
func (r *Region) AddProp(obj *model.WorldObject) {
	r.props.Store(obj.ObjectID(), obj)
	r.version.Add(1)
	r.snapshotDirty.Store(true)
}

// RemoveProp removes a prop from the region (concurrent-safe).
// Returns false if the prop was not in this region.
func (r *Region) RemoveProp(objectID uint32) bool {
	if _, ok := r.props.LoadAndDelete(objectID); !ok {
		return false
	}
	r.version.Add(1)
	r.snapshotDirty.Store(true)
	return true
}

// ForEachProp iterates over all props in this region.
// If fn returns false, iteration stops.
func (r *Region) ForEachProp(fn func(*model.WorldObject) bool) {
	r.props.Range(func(_, value any) bool {
		return fn(value.(*model.WorldObject))
	})
}

// Props returns a cached snapshot of the region's props.
// IMPORTANT: Returned slice is immutable, DO NOT modify.
func (r *Region) Props() []*model.WorldObject {
	if !r.snapshotDirty.Load() {
		if cache := r.snapshotCache.Load(); cache != nil {
			return cache.([]*model.WorldObject)
		}
	}
	return r.rebuildSnapshot()
}

// PropCount returns the number of props in the region.
func (r *Region) PropCount() int {
	return len(r.Props())
}

// ClearProps removes all props from this region.
func (r *Region) ClearProps() {
	r.props.Range(func(key, _ any) bool {
		r.props.Delete(key)
		return true
	})
	r.version.Add(1)
	r.snapshotDirty.Store(true)
	r.snapshotCache.Store(([]*model.WorldObject)(nil))
}

// rebuildSnapshot rebuilds snapshot cache from sync.Map.
func (r *Region) rebuildSnapshot() []*model.WorldObject {
	objects := make([]*model.WorldObject, 0, 16)

	r.props.Range(func(_, value any) bool {
		objects = append(objects, value.(*model.WorldObject))
		return true
	})

	r.snapshotCache.Store(objects)
	r.snapshotDirty.Store(false)

	return objects
}
