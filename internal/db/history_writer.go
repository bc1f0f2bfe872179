package db

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
)

const (
	defaultHistoryQueueSize = 64
	historyWriteTimeout     = 3 * time.Second
)

// historyStore is the subset of HistoryRepository the writer uses.
type historyStore interface {
	RecordSpawn(ctx context.Context, npcID uint16, c blackmarket.Candidate) error
	RecordDespawn(ctx context.Context, id uuid.UUID, at time.Time) error
}

type historyOp struct {
	spawn     bool
	candidate blackmarket.Candidate
	at        time.Time
}

// HistoryWriter journals appearances asynchronously so the game loop never
// waits on the database. Failed writes are logged and dropped.
type HistoryWriter struct {
	store historyStore
	npcID uint16
	queue chan historyOp

	closeCh   chan struct{}
	closeOnce sync.Once
	done      chan struct{}
}

// NewHistoryWriter creates a writer for the given market NPC id.
func NewHistoryWriter(store historyStore, npcID uint16) *HistoryWriter {
	return &HistoryWriter{
		store: store,
		npcID: npcID,
		queue:   make(chan historyOp, defaultHistoryQueueSize),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// RecordSpawn queues a spawn record. Never blocks.
func (w *HistoryWriter) RecordSpawn(c blackmarket.Candidate) {
	w.enqueue(historyOp{spawn: true, candidate: c})
}

// RecordDespawn queues a despawn record. Never blocks.
func (w *HistoryWriter) RecordDespawn(c blackmarket.Candidate, at time.Time) {
	w.enqueue(historyOp{candidate: c, at: at})
}

func (w *HistoryWriter) enqueue(op historyOp) {
	select {
	case w.queue <- op:
	default:
		slog.Warn("history queue full, dropping record", "id", op.candidate.ID, "spawn", op.spawn)
	}
}

// Start writes queued records until Close is called or ctx is canceled
// (blocks). Records still queued at that point are flushed first.
// Start must be called at most once.
func (w *HistoryWriter) Start(ctx context.Context) error {
	slog.Info("history writer started")
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			w.flush()
			slog.Info("history writer stopped")
			return ctx.Err()
		case <-w.closeCh:
			w.flush()
			slog.Info("history writer closed")
			return nil
		case op := <-w.queue:
			w.write(op)
		}
	}
}

// Close stops a running Start after everything queued so far is written and
// waits for it to return. Records queued after Close are dropped.
// Close must not be called if Start was never called.
func (w *HistoryWriter) Close() {
	w.closeOnce.Do(func() { close(w.closeCh) })
	<-w.done
}

func (w *HistoryWriter) flush() {
	for {
		select {
		case op := <-w.queue:
			w.write(op)
		default:
			return
		}
	}
}

func (w *HistoryWriter) write(op historyOp) {
	ctx, cancel := context.WithTimeout(context.Background(), historyWriteTimeout)
	defer cancel()

	var err error
	if op.spawn {
		err = w.store.RecordSpawn(ctx, w.npcID, op.candidate)
	} else {
		err = w.store.RecordDespawn(ctx, op.candidate.ID, op.at)
	}
	if err != nil {
		slog.Error("writing market history", "id", op.candidate.ID, "spawn", op.spawn, "error", err)
	}
}
