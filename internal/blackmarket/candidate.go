package blackmarket

import (
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// Source is where a candidate location came from.
type Source uint8

const (
	SourceProp Source = iota + 1
	SourceVehicle
)

func (s Source) String() string {
	switch s {
	case SourceProp:
		return "prop"
	case SourceVehicle:
		return "vehicle"
	default:
		return "unknown"
	}
}

// Trigger tells what caused a market to open.
type Trigger uint8

const (
	TriggerAuto Trigger = iota + 1
	TriggerManual
)

func (t Trigger) String() string {
	switch t {
	case TriggerAuto:
		return "auto"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// Candidate is a possible market location. Once placed it also describes the
// active market.
type Candidate struct {
	Location       model.Location
	Source         Source
	SourceID       uint16 // asset id of the originating object
	SourceObjectID uint32 // placed object the location was taken from, 0 if unknown

	// Set when the market is placed.
	ID        uuid.UUID
	ObjectID  uint32
	SpawnedAt time.Time
	Trigger   Trigger
}

func candidateFrom(obj *model.WorldObject, src Source) Candidate {
	return Candidate{
		Location:       obj.Location(),
		Source:         src,
		SourceID:       obj.TypeID(),
		SourceObjectID: obj.ObjectID(),
	}
}
