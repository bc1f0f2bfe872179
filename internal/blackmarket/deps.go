package blackmarket

import (
	"time"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// World is the slice of the game world the market reads and mutates.
type World interface {
	// ForEachPropRegion visits placed props grouped by region until fn returns false.
	ForEachPropRegion(fn func(rx, ry int32, props []*model.WorldObject) bool) error
	Vehicles() ([]*model.WorldObject, error)
	PlayerLocations() []model.Location
	RestrictedZones() []model.Zone
	PlaceProp(typeID uint16, loc model.Location) (*model.WorldObject, error)
	RemoveProp(objectID uint32) bool
}

// AssetRegistry resolves asset ids.
type AssetRegistry interface {
	Asset(id uint16) (model.Asset, bool)
}

// Broadcaster sends a message to every connected player.
type Broadcaster interface {
	Broadcast(msg string)
}

// Dispatcher runs work on the main game loop.
type Dispatcher interface {
	// Enqueue schedules fn. Returns false if fn will never run.
	Enqueue(fn func()) bool
}

// HistoryRecorder journals market appearances. Implementations must not block.
type HistoryRecorder interface {
	RecordSpawn(c Candidate)
	RecordDespawn(c Candidate, at time.Time)
}

type nopHistory struct{}

func (nopHistory) RecordSpawn(Candidate)              {}
func (nopHistory) RecordDespawn(Candidate, time.Time) {}

type nopBroadcaster struct{}

func (nopBroadcaster) Broadcast(string) {}
