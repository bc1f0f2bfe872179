package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
)

// Appearance is one row of the market journal.
type Appearance struct {
	ID          uuid.UUID
	NpcID       uint16
	Source      string
	SourceID    uint16
	X, Y, Z     float64
	Heading     float64
	Trigger     string
	SpawnedAt   time.Time
	DespawnedAt *time.Time // nil while open
}

// HistoryRepository handles market_appearances CRUD operations.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// RecordSpawn inserts an open appearance for a placed market.
func (r *HistoryRepository) RecordSpawn(ctx context.Context, npcID uint16, c blackmarket.Candidate) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO market_appearances
			(id, npc_id, source, source_id, x, y, z, heading, trigger, spawned_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pgtype.UUID{Bytes: c.ID, Valid: true},
		int32(npcID),
		c.Source.String(),
		int32(c.SourceID),
		c.Location.X(), c.Location.Y(), c.Location.Z(),
		c.Location.Heading,
		c.Trigger.String(),
		c.SpawnedAt,
	)
	if err != nil {
		return fmt.Errorf("recording market spawn %s: %w", c.ID, err)
	}
	return nil
}

// RecordDespawn closes an appearance. Already closed or unknown ids are left untouched.
func (r *HistoryRepository) RecordDespawn(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE market_appearances SET despawned_at = $2
		WHERE id = $1 AND despawned_at IS NULL`,
		pgtype.UUID{Bytes: id, Valid: true}, at,
	)
	if err != nil {
		return fmt.Errorf("recording market despawn %s: %w", id, err)
	}
	return nil
}

// Recent returns the latest appearances, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]Appearance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, npc_id, source, source_id, x, y, z, heading, trigger, spawned_at, despawned_at
		FROM market_appearances
		ORDER BY spawned_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading recent appearances: %w", err)
	}
	defer rows.Close()

	out := make([]Appearance, 0, limit)
	for rows.Next() {
		var (
			a        Appearance
			id       pgtype.UUID
			npcID    int32
			sourceID int32
		)
		if err := rows.Scan(&id, &npcID, &a.Source, &sourceID,
			&a.X, &a.Y, &a.Z, &a.Heading, &a.Trigger, &a.SpawnedAt, &a.DespawnedAt); err != nil {
			return nil, fmt.Errorf("scanning appearance row: %w", err)
		}
		a.ID = uuid.UUID(id.Bytes)
		a.NpcID = uint16(npcID)
		a.SourceID = uint16(sourceID)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating appearance rows: %w", err)
	}
	return out, nil
}
