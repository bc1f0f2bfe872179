package blackmarket

import (
	"math/rand/v2"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-blackmarket/internal/config"
	"github.com/udisondev/la2go-blackmarket/internal/model"
	"github.com/udisondev/la2go-blackmarket/internal/world"
)

const (
	testNpcID     uint16 = 1250
	testPropID    uint16 = 10
	testVehicleID uint16 = 20
)

// fakeClock is a manual clock. Timers fire only from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	fn      func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), fn: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward by d, firing due timers in deadline order.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		due := c.pendingLocked()
		sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
		if len(due) == 0 || due[0].at.After(target) {
			c.now = target
			c.mu.Unlock()
			return
		}
		next := due[0]
		next.fired = true
		c.now = next.at
		c.mu.Unlock()

		next.fn()
	}
}

func (c *fakeClock) pendingLocked() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// Pending returns the durations until every armed timer fires.
func (c *fakeClock) Pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.pendingLocked() {
		out = append(out, t.at.Sub(c.now))
	}
	return out
}

// syncDispatcher runs work immediately on the caller goroutine.
type syncDispatcher struct{}

func (syncDispatcher) Enqueue(fn func()) bool {
	fn()
	return true
}

// queueDispatcher holds work until Drain.
type queueDispatcher struct {
	mu    sync.Mutex
	tasks []func()
}

func (q *queueDispatcher) Enqueue(fn func()) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, fn)
	return true
}

func (q *queueDispatcher) Drain() {
	q.mu.Lock()
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()
	for _, fn := range tasks {
		fn()
	}
}

// fakeWorld wraps a real world with failure injection and call counting.
type fakeWorld struct {
	*world.World

	mu          sync.Mutex
	propErr     error
	vehicleErr  error
	placeErr    error
	removeCalls int
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{World: world.New()}
}

func (f *fakeWorld) ForEachPropRegion(fn func(rx, ry int32, props []*model.WorldObject) bool) error {
	if f.propErr != nil {
		return f.propErr
	}
	return f.World.ForEachPropRegion(fn)
}

func (f *fakeWorld) Vehicles() ([]*model.WorldObject, error) {
	if f.vehicleErr != nil {
		return nil, f.vehicleErr
	}
	return f.World.Vehicles()
}

func (f *fakeWorld) PlaceProp(typeID uint16, loc model.Location) (*model.WorldObject, error) {
	if f.placeErr != nil {
		return nil, f.placeErr
	}
	return f.World.PlaceProp(typeID, loc)
}

func (f *fakeWorld) RemoveProp(objectID uint32) bool {
	f.mu.Lock()
	f.removeCalls++
	f.mu.Unlock()
	return f.World.RemoveProp(objectID)
}

func (f *fakeWorld) RemoveCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.removeCalls
}

func (f *fakeWorld) addProp(t *testing.T, typeID uint16, x, y, z float64) *model.WorldObject {
	t.Helper()
	obj, err := f.World.PlaceProp(typeID, model.NewLocation(x, y, z, 0))
	require.NoError(t, err)
	return obj
}

func (f *fakeWorld) addVehicle(t *testing.T, typeID uint16, x, y, z float64) *model.WorldObject {
	t.Helper()
	obj, err := f.World.PlaceVehicle(typeID, model.NewLocation(x, y, z, 0))
	require.NoError(t, err)
	return obj
}

func (f *fakeWorld) addPlayer(name string, x, y, z float64) *model.Player {
	p := model.NewPlayer(f.IDs().NextPlayerID(), name, model.NewLocation(x, y, z, 0))
	f.AddPlayer(p)
	return p
}

// npcCount counts placed market NPCs.
func (f *fakeWorld) npcCount() int {
	n := 0
	_ = f.World.ForEachPropRegion(func(_, _ int32, props []*model.WorldObject) bool {
		for _, p := range props {
			if p.TypeID() == testNpcID {
				n++
			}
		}
		return true
	})
	return n
}

type assetMap map[uint16]model.Asset

func (m assetMap) Asset(id uint16) (model.Asset, bool) {
	a, ok := m[id]
	return a, ok
}

func testAssets() assetMap {
	return assetMap{
		testNpcID:     {ID: testNpcID, Name: "Black Market Dealer", Kind: model.AssetNpc},
		testPropID:    {ID: testPropID, Name: "Barricade", Kind: model.AssetProp},
		testVehicleID: {ID: testVehicleID, Name: "Jeep", Kind: model.AssetVehicle},
	}
}

type recordingBroadcaster struct {
	mu   sync.Mutex
	msgs []string
}

func (b *recordingBroadcaster) Broadcast(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.msgs = append(b.msgs, msg)
}

func (b *recordingBroadcaster) Messages() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.msgs...)
}

type recordingHistory struct {
	mu        sync.Mutex
	spawned   []Candidate
	despawned []Candidate
}

func (h *recordingHistory) RecordSpawn(c Candidate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.spawned = append(h.spawned, c)
}

func (h *recordingHistory) RecordDespawn(c Candidate, _ time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.despawned = append(h.despawned, c)
}

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(42, 1337))
}

func testConfig() config.Blackmarket {
	cfg := config.DefaultBlackmarket()
	cfg.NpcID = testNpcID
	return cfg
}

type marketFixture struct {
	market  *Market
	world   *fakeWorld
	clock   *fakeClock
	bcast   *recordingBroadcaster
	history *recordingHistory
}

func newMarketFixture(t *testing.T, cfg config.Blackmarket, w *fakeWorld, dispatch Dispatcher) *marketFixture {
	t.Helper()
	if dispatch == nil {
		dispatch = syncDispatcher{}
	}
	f := &marketFixture{
		world:   w,
		clock:   newFakeClock(),
		bcast:   &recordingBroadcaster{},
		history: &recordingHistory{},
	}
	m, err := New(cfg, Deps{
		World:       w,
		Assets:      testAssets(),
		Dispatcher:  dispatch,
		Broadcaster: f.bcast,
		Clock:       f.clock,
		History:     f.history,
		Rand:        testRand(),
	})
	require.NoError(t, err)
	f.market = m
	return f
}
