package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
)

type memStore struct {
	mu        sync.Mutex
	spawns    []blackmarket.Candidate
	despawns  []uuid.UUID
	npcIDs    []uint16
	failSpawn bool
}

func (s *memStore) RecordSpawn(_ context.Context, npcID uint16, c blackmarket.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSpawn {
		return errors.New("insert failed")
	}
	s.spawns = append(s.spawns, c)
	s.npcIDs = append(s.npcIDs, npcID)
	return nil
}

func (s *memStore) RecordDespawn(_ context.Context, id uuid.UUID, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.despawns = append(s.despawns, id)
	return nil
}

func (s *memStore) counts() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.spawns), len(s.despawns)
}

func TestHistoryWriter_WritesInOrder(t *testing.T) {
	store := &memStore{}
	w := NewHistoryWriter(store, 1250)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	c := blackmarket.Candidate{ID: uuid.New()}
	w.RecordSpawn(c)
	w.RecordDespawn(c, time.Now())

	require.Eventually(t, func() bool {
		s, d := store.counts()
		return s == 1 && d == 1
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []uint16{1250}, store.npcIDs)
	assert.Equal(t, c.ID, store.despawns[0])

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestHistoryWriter_FlushesOnStop(t *testing.T) {
	store := &memStore{}
	w := NewHistoryWriter(store, 1)

	for range 3 {
		w.RecordSpawn(blackmarket.Candidate{ID: uuid.New()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = w.Start(ctx)

	s, _ := store.counts()
	assert.Equal(t, 3, s)
}

func TestHistoryWriter_DropsWhenFull(t *testing.T) {
	store := &memStore{}
	w := NewHistoryWriter(store, 1)

	for range defaultHistoryQueueSize + 10 {
		w.RecordSpawn(blackmarket.Candidate{ID: uuid.New()})
	}
	assert.Len(t, w.queue, defaultHistoryQueueSize)
}

func TestHistoryWriter_StoreErrorIsLogged(t *testing.T) {
	store := &memStore{failSpawn: true}
	w := NewHistoryWriter(store, 1)
	c := blackmarket.Candidate{ID: uuid.New()}

	w.write(historyOp{spawn: true, candidate: c})
	w.write(historyOp{candidate: c, at: time.Now()})

	s, d := store.counts()
	assert.Zero(t, s)
	assert.Equal(t, 1, d)
}

func TestHistoryWriter_CloseWritesDespawnQueuedAtShutdown(t *testing.T) {
	store := &memStore{}
	w := NewHistoryWriter(store, 1250)

	done := make(chan error, 1)
	go func() { done <- w.Start(context.Background()) }()

	c := blackmarket.Candidate{ID: uuid.New()}
	w.RecordSpawn(c)
	// Stopping the market journals the despawn just before the writer is closed.
	w.RecordDespawn(c, time.Now())
	w.Close()

	require.NoError(t, <-done)
	s, d := store.counts()
	assert.Equal(t, 1, s)
	assert.Equal(t, 1, d)

	w.Close()
}
