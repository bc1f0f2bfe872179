package blackmarket

import (
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/udisondev/la2go-blackmarket/internal/config"
	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// minSpawnDelay is the floor for any computed auto-spawn delay.
const minSpawnDelay = time.Second

// Selector picks a randomized market location from placed world objects.
// Not safe for concurrent use; called from the game loop only.
type Selector struct {
	world World
	cfg   config.Blackmarket
	rng   *rand.Rand
}

// NewSelector creates a selector.
func NewSelector(w World, cfg config.Blackmarket, rng *rand.Rand) *Selector {
	return &Selector{world: w, cfg: cfg, rng: rng}
}

// Select returns a perturbed random candidate, or false if the world offers none.
func (s *Selector) Select() (Candidate, bool) {
	pool := s.Candidates()
	if len(pool) == 0 {
		return Candidate{}, false
	}

	filtered := s.Filter(pool)
	if len(filtered) == 0 {
		slog.Debug("black market filters removed every candidate, using unfiltered pool",
			"candidates", len(pool))
		filtered = pool
	}

	picked := filtered[s.rng.IntN(len(filtered))]
	return s.Perturb(picked), true
}

// Candidates collects unfiltered candidates from every enabled source.
// Placed market NPCs never count as props. A source whose query fails is
// logged and skipped.
func (s *Selector) Candidates() []Candidate {
	var pool []Candidate

	if s.cfg.UseStaticProps {
		err := s.world.ForEachPropRegion(func(_, _ int32, props []*model.WorldObject) bool {
			for _, p := range props {
				if p.TypeID() == s.cfg.NpcID || s.cfg.PropExcluded(p.TypeID()) {
					continue
				}
				pool = append(pool, candidateFrom(p, SourceProp))
			}
			return true
		})
		if err != nil {
			slog.Warn("collecting black market candidates from props", "error", err)
		}
	}

	if s.cfg.UseVehicles {
		vehicles, err := s.world.Vehicles()
		if err != nil {
			slog.Warn("collecting black market candidates from vehicles", "error", err)
		}
		for _, v := range vehicles {
			if s.cfg.VehicleExcluded(v.TypeID()) {
				continue
			}
			pool = append(pool, candidateFrom(v, SourceVehicle))
		}
	}

	return pool
}

// Filter drops candidates too close to a player or to a restricted zone.
// May return an empty slice; the caller decides on fallback.
func (s *Selector) Filter(pool []Candidate) []Candidate {
	players := s.world.PlayerLocations()
	zones := s.world.RestrictedZones()

	minPlayer := s.cfg.MinDistanceFromPlayers
	minPlayerSq := minPlayer * minPlayer
	minZone := s.cfg.MinDistanceFromSafeZones

	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if minPlayer > 0 && nearAnyPlayer(c.Location, players, minPlayerSq) {
			continue
		}
		if minZone > 0 && nearAnyZone(c.Location, zones, minZone) {
			continue
		}
		out = append(out, c)
	}
	return out
}

func nearAnyPlayer(loc model.Location, players []model.Location, minSq float64) bool {
	for _, p := range players {
		if loc.DistanceSquared(p) < minSq {
			return true
		}
	}
	return false
}

func nearAnyZone(loc model.Location, zones []model.Zone, minDist float64) bool {
	for _, z := range zones {
		if z.EdgeDistance(loc) < minDist {
			return true
		}
	}
	return false
}

// Perturb moves the candidate by a random offset of at most SpawnRadius on the
// horizontal plane and gives it a random heading in [0, 360).
func (s *Selector) Perturb(c Candidate) Candidate {
	angle := s.rng.Float64() * 2 * math.Pi
	dist := s.rng.Float64() * math.Max(0, s.cfg.SpawnRadius)
	heading := s.rng.Float64() * 360

	c.Location = c.Location.Offset(angle, dist).WithHeading(heading)
	return c
}

// NextSpawnDelay returns a uniform delay in the configured auto-spawn bounds,
// never shorter than one second.
func NextSpawnDelay(cfg config.Blackmarket, rng *rand.Rand) time.Duration {
	lo, hi := cfg.AutoSpawnBounds()
	d := lo
	if hi > lo {
		d = lo + time.Duration(rng.Int64N(int64(hi-lo)+1))
	}
	return max(d, minSpawnDelay)
}
