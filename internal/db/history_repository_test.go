package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-blackmarket/internal/blackmarket"
	"github.com/udisondev/la2go-blackmarket/internal/model"
)

func TestHistoryRepository_SpawnDespawnRecent(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewHistoryRepository(pool)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	first := blackmarket.Candidate{
		ID:        uuid.New(),
		Location:  model.NewLocation(100, 20, 200, 90),
		Source:    blackmarket.SourceProp,
		SourceID:  10,
		Trigger:   blackmarket.TriggerAuto,
		SpawnedAt: base,
	}
	second := first
	second.ID = uuid.New()
	second.Source = blackmarket.SourceVehicle
	second.Trigger = blackmarket.TriggerManual
	second.SpawnedAt = base.Add(time.Hour)

	require.NoError(t, repo.RecordSpawn(ctx, 1250, first))
	require.NoError(t, repo.RecordSpawn(ctx, 1250, second))
	require.NoError(t, repo.RecordDespawn(ctx, first.ID, base.Add(30*time.Minute)))

	got, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, "vehicle", got[0].Source)
	assert.Equal(t, "manual", got[0].Trigger)
	assert.Nil(t, got[0].DespawnedAt)

	assert.Equal(t, first.ID, got[1].ID)
	assert.Equal(t, uint16(1250), got[1].NpcID)
	assert.Equal(t, uint16(10), got[1].SourceID)
	assert.InDelta(t, 100, got[1].X, 1e-9)
	assert.InDelta(t, 90, got[1].Heading, 1e-9)
	require.NotNil(t, got[1].DespawnedAt)
	assert.True(t, got[1].DespawnedAt.Equal(base.Add(30*time.Minute)))
}

func TestHistoryRepository_RecentLimit(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewHistoryRepository(pool)
	ctx := context.Background()

	for i := range 5 {
		c := blackmarket.Candidate{
			ID:        uuid.New(),
			Source:    blackmarket.SourceProp,
			Trigger:   blackmarket.TriggerAuto,
			SpawnedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.RecordSpawn(ctx, 1, c))
	}

	got, err := repo.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestHistoryRepository_DespawnUnknownID(t *testing.T) {
	pool := setupTestDB(t)
	repo := NewHistoryRepository(pool)

	assert.NoError(t, repo.RecordDespawn(context.Background(), uuid.New(), time.Now()))
}
