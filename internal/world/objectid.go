package world

import "sync/atomic"

// ObjectIDGenerator generates unique object IDs for all world entities.
//
// ID ranges (convention):
//
//	0x00000000 - 0x0FFFFFFF: Reserved (0 = invalid/mock objects)
//	0x10000000 - 0x1FFFFFFF: Players
//	0x20000000 - 0x2FFFFFFF: Props (including spawned NPC stalls)
//	0x30000000 - 0x3FFFFFFF: Vehicles
type ObjectIDGenerator struct {
	nextPlayerID  atomic.Uint32
	nextPropID    atomic.Uint32
	nextVehicleID atomic.Uint32
}

// NewObjectIDGenerator creates a new ID generator.
func NewObjectIDGenerator() *ObjectIDGenerator {
	gen := &ObjectIDGenerator{}
	gen.nextPlayerID.Store(0x10000000)
	gen.nextPropID.Store(0x20000000)
	gen.nextVehicleID.Store(0x30000000)
	return gen
}

// NextPlayerID generates next unique player object ID.
func (g *ObjectIDGenerator) NextPlayerID() uint32 {
	return g.nextPlayerID.Add(1)
}

// NextPropID generates next unique prop object ID.
func (g *ObjectIDGenerator) NextPropID() uint32 {
	return g.nextPropID.Add(1)
}

// NextVehicleID generates next unique vehicle object ID.
func (g *ObjectIDGenerator) NextVehicleID() uint32 {
	return g.nextVehicleID.Add(1)
}
