package blackmarket

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// DespawnSearchRadius is how far from the recorded position the despawner
// looks for the market NPC. Independent of the spawn radius.
const DespawnSearchRadius = 10.0

var (
	ErrNpcNotConfigured = errors.New("black market npc id is not configured")
	ErrUnknownAsset     = errors.New("black market npc asset not found")
	ErrNotNpcAsset      = errors.New("black market asset is not an npc")
)

// Spawner places and removes the market NPC.
type Spawner struct {
	world  World
	assets AssetRegistry
	npcID  uint16
}

// NewSpawner creates a spawner for the given NPC asset id.
func NewSpawner(w World, assets AssetRegistry, npcID uint16) *Spawner {
	return &Spawner{world: w, assets: assets, npcID: npcID}
}

// ResolveNpc looks up the configured NPC asset.
func (s *Spawner) ResolveNpc() (model.Asset, error) {
	if s.npcID == 0 {
		return model.Asset{}, ErrNpcNotConfigured
	}
	asset, ok := s.assets.Asset(s.npcID)
	if !ok {
		return model.Asset{}, fmt.Errorf("asset %d: %w", s.npcID, ErrUnknownAsset)
	}
	if asset.Kind != model.AssetNpc {
		return model.Asset{}, fmt.Errorf("asset %s: %w", asset, ErrNotNpcAsset)
	}
	return asset, nil
}

// Place puts the NPC at the candidate location and returns the candidate with
// ObjectID set. On error nothing was placed.
func (s *Spawner) Place(c Candidate) (Candidate, error) {
	asset, err := s.ResolveNpc()
	if err != nil {
		return c, err
	}

	obj, err := s.world.PlaceProp(asset.ID, c.Location)
	if err != nil {
		return c, fmt.Errorf("placing black market npc %s: %w", asset, err)
	}

	c.ObjectID = obj.ObjectID()
	return c, nil
}

// Remove deletes the first NPC of the configured type found within
// DespawnSearchRadius of the market position. Reports whether one was removed.
func (s *Spawner) Remove(c Candidate) (bool, error) {
	const radiusSq = DespawnSearchRadius * DespawnSearchRadius

	var target uint32
	err := s.world.ForEachPropRegion(func(_, _ int32, props []*model.WorldObject) bool {
		for _, p := range props {
			if p.TypeID() != s.npcID {
				continue
			}
			if p.Location().DistanceSquared(c.Location) <= radiusSq {
				target = p.ObjectID()
				return false
			}
		}
		return true
	})
	if err != nil {
		return false, fmt.Errorf("searching black market npc: %w", err)
	}
	if target == 0 {
		return false, nil
	}

	removed := s.world.RemoveProp(target)
	if removed {
		slog.Info("black market npc removed", "objectID", target, "location", c.Location.Position)
	}
	return removed, nil
}
