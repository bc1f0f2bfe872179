package config

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"
)

// Blackmarket holds the tunables of the black market event.
// Loaded once at startup, read-only afterwards.
type Blackmarket struct {
	AutoSpawnEnabled            bool    `yaml:"auto_spawn_enabled"`
	AutoSpawnMinIntervalMinutes float64 `yaml:"auto_spawn_min_interval_minutes"`
	AutoSpawnMaxIntervalMinutes float64 `yaml:"auto_spawn_max_interval_minutes"`
	DurationMinutes             float64 `yaml:"duration_minutes"` // <= 0 never expires

	// NpcID is the asset id of the vendor NPC. 0 = not configured.
	NpcID uint16 `yaml:"npc_id"`

	UseStaticProps bool    `yaml:"use_static_props"`
	UseVehicles    bool    `yaml:"use_vehicles"`
	SpawnRadius    float64 `yaml:"spawn_radius"`

	BroadcastSpawn   bool `yaml:"broadcast_spawn"`
	BroadcastDespawn bool `yaml:"broadcast_despawn"`

	ExcludedPropIDs    []uint16 `yaml:"excluded_prop_ids"`
	ExcludedVehicleIDs []uint16 `yaml:"excluded_vehicle_ids"`

	MinDistanceFromPlayers   float64 `yaml:"min_distance_from_players"`
	MinDistanceFromSafeZones float64 `yaml:"min_distance_from_safe_zones"`

	// Messages overrides message templates by key.
	Messages map[string]string `yaml:"messages"`
}

// DefaultBlackmarket returns Blackmarket config with the stock event settings:
// every 1-2 hours, open for 30 minutes.
func DefaultBlackmarket() Blackmarket {
	return Blackmarket{
		AutoSpawnEnabled:            true,
		AutoSpawnMinIntervalMinutes: 60,
		AutoSpawnMaxIntervalMinutes: 120,
		DurationMinutes:             30,
		NpcID:                       0,
		UseStaticProps:              true,
		UseVehicles:                 true,
		SpawnRadius:                 50,
		BroadcastSpawn:              true,
		BroadcastDespawn:            true,
		ExcludedPropIDs:             []uint16{},
		ExcludedVehicleIDs:          []uint16{},
		MinDistanceFromPlayers:      100,
		MinDistanceFromSafeZones:    200,
		Messages:                    map[string]string{},
	}
}

// minAutoSpawnMinutes is the lower clamp for the auto-spawn interval (6 seconds).
const minAutoSpawnMinutes = 0.1

// maxMinutes is the first minute count that no longer fits in time.Duration.
const maxMinutes = float64(math.MaxInt64) / float64(time.Minute)

// AutoSpawnBounds returns the clamped [min, max] auto-spawn interval.
// min is at least 0.1 minute and max is never below min.
func (b Blackmarket) AutoSpawnBounds() (time.Duration, time.Duration) {
	lo := math.Max(minAutoSpawnMinutes, b.AutoSpawnMinIntervalMinutes)
	hi := math.Max(lo, b.AutoSpawnMaxIntervalMinutes)
	return minutes(lo), minutes(hi)
}

// Duration returns how long a market stays open. Zero means it never expires.
func (b Blackmarket) Duration() time.Duration {
	if b.DurationMinutes <= 0 {
		return 0
	}
	return minutes(b.DurationMinutes)
}

// PropExcluded reports whether props of the given asset id are skipped.
func (b Blackmarket) PropExcluded(id uint16) bool {
	return slices.Contains(b.ExcludedPropIDs, id)
}

// VehicleExcluded reports whether vehicles of the given asset id are skipped.
func (b Blackmarket) VehicleExcluded(id uint16) bool {
	return slices.Contains(b.ExcludedVehicleIDs, id)
}

// Validate rejects settings that cannot be interpreted at all.
// Out-of-order intervals are clamped, not rejected.
func (b Blackmarket) Validate() error {
	var errs []error
	for name, v := range map[string]float64{
		"auto_spawn_min_interval_minutes": b.AutoSpawnMinIntervalMinutes,
		"auto_spawn_max_interval_minutes": b.AutoSpawnMaxIntervalMinutes,
		"duration_minutes":                b.DurationMinutes,
		"spawn_radius":                    b.SpawnRadius,
		"min_distance_from_players":       b.MinDistanceFromPlayers,
		"min_distance_from_safe_zones":    b.MinDistanceFromSafeZones,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("blackmarket.%s must be a finite number", name))
		}
	}
	for name, v := range map[string]float64{
		"auto_spawn_min_interval_minutes": b.AutoSpawnMinIntervalMinutes,
		"auto_spawn_max_interval_minutes": b.AutoSpawnMaxIntervalMinutes,
		"duration_minutes":                b.DurationMinutes,
	} {
		if v >= maxMinutes {
			errs = append(errs, fmt.Errorf("blackmarket.%s must be below %.0f minutes, got %v", name, maxMinutes, v))
		}
	}
	if b.SpawnRadius < 0 {
		errs = append(errs, fmt.Errorf("blackmarket.spawn_radius must not be negative, got %v", b.SpawnRadius))
	}
	return errors.Join(errs...)
}

// minutes converts m to a Duration, saturating instead of overflowing.
func minutes(m float64) time.Duration {
	if m >= maxMinutes {
		return math.MaxInt64
	}
	return time.Duration(m * float64(time.Minute))
}
