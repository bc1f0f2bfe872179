// Package blackmarket runs the black market event: a vendor NPC that appears
// at a random world location, stays for a while, then disappears until the
// next scheduled appearance.
package blackmarket

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-blackmarket/internal/config"
)

// Outcome is the result category of a market operation.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	OutcomeAlreadyActive
	OutcomeNotActive
	OutcomeNoLocation
	OutcomeNotConfigured
	OutcomeUnknownAsset
	OutcomeSpawnFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeAlreadyActive:
		return "already_active"
	case OutcomeNotActive:
		return "not_active"
	case OutcomeNoLocation:
		return "no_location"
	case OutcomeNotConfigured:
		return "not_configured"
	case OutcomeUnknownAsset:
		return "unknown_asset"
	case OutcomeSpawnFailed:
		return "spawn_failed"
	default:
		return "unknown"
	}
}

// Result is returned by Spawn and Remove.
type Result struct {
	Outcome Outcome
	Market  Candidate // the affected market, zero unless OutcomeOK or OutcomeAlreadyActive
	Err     error     // underlying cause for configuration and placement failures
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

// Status is a snapshot of the market state.
type Status struct {
	Phase       Phase
	Active      bool
	Market      Candidate
	ClosesIn    time.Duration // 0 when inactive or no auto-expiry
	NextSpawnIn time.Duration // 0 when active or nothing scheduled
	AutoSpawn   bool
}

// Deps are the collaborators of a Market. World, Assets and Dispatcher are
// required; the rest default to the system clock, a time-seeded RNG, no
// broadcasts, no history and the default message templates.
type Deps struct {
	World       World
	Assets      AssetRegistry
	Dispatcher  Dispatcher
	Broadcaster Broadcaster
	Clock       Clock
	History     HistoryRecorder
	Rand        *rand.Rand
	Messages    *Messages
}

// Market is the black market event handle. Create one per process with New
// and pass it to whoever needs it.
type Market struct {
	cfg      config.Blackmarket
	selector *Selector
	spawner  *Spawner
	bcast    Broadcaster
	history  HistoryRecorder
	msgs     *Messages
	rng      *rand.Rand

	mu      sync.Mutex
	sched   scheduler
	current *Candidate
}

// New creates a market. Call Start to arm the auto-spawn timer.
func New(cfg config.Blackmarket, deps Deps) (*Market, error) {
	var errs []error
	if deps.World == nil {
		errs = append(errs, errors.New("world is required"))
	}
	if deps.Assets == nil {
		errs = append(errs, errors.New("asset registry is required"))
	}
	if deps.Dispatcher == nil {
		errs = append(errs, errors.New("dispatcher is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("creating black market: %w", err)
	}

	if deps.Clock == nil {
		deps.Clock = SystemClock{}
	}
	if deps.Broadcaster == nil {
		deps.Broadcaster = nopBroadcaster{}
	}
	if deps.History == nil {
		deps.History = nopHistory{}
	}
	if deps.Rand == nil {
		seed := uint64(time.Now().UnixNano())
		deps.Rand = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	if deps.Messages == nil {
		deps.Messages = NewMessages(cfg.Messages)
	}

	return &Market{
		cfg:      cfg,
		selector: NewSelector(deps.World, cfg, deps.Rand),
		spawner:  NewSpawner(deps.World, deps.Assets, cfg.NpcID),
		bcast:    deps.Broadcaster,
		history:  deps.History,
		msgs:     deps.Messages,
		rng:      deps.Rand,
		sched:    scheduler{clock: deps.Clock, dispatch: deps.Dispatcher},
	}, nil
}

// Messages returns the message templates used by the market.
func (m *Market) Messages() *Messages {
	return m.msgs
}

// Start arms the first auto-spawn timer when auto-spawn is enabled.
func (m *Market) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.spawner.ResolveNpc(); err != nil {
		slog.Warn("black market npc is not usable, spawns will fail", "npcID", m.cfg.NpcID, "error", err)
	}
	m.scheduleNext()

	slog.Info("black market started",
		"autoSpawn", m.cfg.AutoSpawnEnabled,
		"duration", m.cfg.Duration(),
		"phase", m.sched.phase)
}

// Stop cancels the timer and removes the active market, if any.
func (m *Market) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sched.settle(PhaseIdle)
	if m.current != nil {
		m.sched.phase = PhaseDespawning
		m.despawnCurrent()
		m.sched.phase = PhaseIdle
	}
	slog.Info("black market stopped")
}

// Spawn opens a market now.
func (m *Market) Spawn() Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.spawn(TriggerManual)
}

// Remove closes the active market and schedules the next automatic one.
func (m *Market) Remove() Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return Result{Outcome: OutcomeNotActive}
	}

	removed := *m.current
	m.sched.settle(PhaseDespawning)
	m.despawnCurrent()
	m.scheduleNext()
	return Result{Outcome: OutcomeOK, Market: removed}
}

// Status returns a snapshot of the current state.
func (m *Market) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		Phase:     m.sched.phase,
		Active:    m.current != nil,
		AutoSpawn: m.cfg.AutoSpawnEnabled,
	}
	if m.current != nil {
		st.Market = *m.current
		st.ClosesIn = m.sched.remaining()
	} else if m.sched.phase == PhaseScheduled {
		st.NextSpawnIn = m.sched.remaining()
	}
	return st
}

func (m *Market) spawn(trigger Trigger) Result {
	if m.current != nil {
		return Result{Outcome: OutcomeAlreadyActive, Market: *m.current}
	}

	candidate, ok := m.selector.Select()
	if !ok {
		return Result{Outcome: OutcomeNoLocation}
	}

	placed, err := m.spawner.Place(candidate)
	if err != nil {
		return Result{Outcome: outcomeForSpawnError(err), Err: err}
	}

	placed.ID = uuid.New()
	placed.SpawnedAt = m.sched.clock.Now()
	placed.Trigger = trigger
	m.current = &placed

	if d := m.cfg.Duration(); d > 0 {
		m.sched.arm(PhaseActive, d, m.guard(m.onDespawnTimer))
	} else {
		m.sched.settle(PhaseActive)
	}

	m.history.RecordSpawn(placed)
	if m.cfg.BroadcastSpawn {
		m.bcast.Broadcast(m.msgs.Spawned(placed.Location))
	}

	slog.Info("black market spawned",
		"id", placed.ID,
		"location", placed.Location.Position,
		"source", placed.Source,
		"sourceID", placed.SourceID,
		"trigger", trigger)
	return Result{Outcome: OutcomeOK, Market: placed}
}

func outcomeForSpawnError(err error) Outcome {
	switch {
	case errors.Is(err, ErrNpcNotConfigured):
		return OutcomeNotConfigured
	case errors.Is(err, ErrUnknownAsset), errors.Is(err, ErrNotNpcAsset):
		return OutcomeUnknownAsset
	default:
		return OutcomeSpawnFailed
	}
}

// despawnCurrent removes the NPC and clears the record even when removal fails.
func (m *Market) despawnCurrent() {
	cur := *m.current
	m.current = nil

	removed, err := m.spawner.Remove(cur)
	switch {
	case err != nil:
		slog.Warn("failed to despawn black market npc", "id", cur.ID, "error", err)
	case !removed:
		slog.Warn("black market npc not found near its position", "id", cur.ID, "location", cur.Location.Position)
	}

	m.history.RecordDespawn(cur, m.sched.clock.Now())
	if m.cfg.BroadcastDespawn {
		m.bcast.Broadcast(m.msgs.Despawned())
	}
	slog.Info("black market removed", "id", cur.ID)
}

// scheduleNext arms the auto-spawn timer, or settles Idle when auto-spawn is off.
func (m *Market) scheduleNext() {
	if !m.cfg.AutoSpawnEnabled {
		m.sched.settle(PhaseIdle)
		return
	}
	d := NextSpawnDelay(m.cfg, m.rng)
	m.sched.arm(PhaseScheduled, d, m.guard(m.onAutoSpawnTimer))
	slog.Debug("next black market scheduled", "in", d)
}

// guard wraps a timer handler so it runs under the lock and only while its
// timer generation is still current.
func (m *Market) guard(fn func()) func(gen uint64) func() {
	return func(gen uint64) func() {
		return func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if !m.sched.current(gen) {
				return
			}
			fn()
		}
	}
}

func (m *Market) onAutoSpawnTimer() {
	if m.current != nil {
		// Unreachable while the slot invariant holds; keep the market and wait for its despawn.
		slog.Warn("auto-spawn fired while a black market is active")
		m.sched.phase = PhaseActive
		return
	}

	res := m.spawn(TriggerAuto)
	if !res.OK() {
		slog.Warn("automatic black market spawn failed", "outcome", res.Outcome, "error", res.Err)
		m.scheduleNext()
	}
}

func (m *Market) onDespawnTimer() {
	if m.current == nil {
		m.scheduleNext()
		return
	}
	m.sched.phase = PhaseDespawning
	m.despawnCurrent()
	m.scheduleNext()
}
