package blackmarket

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

func TestSpawner_ResolveNpc(t *testing.T) {
	tests := []struct {
		name    string
		npcID   uint16
		wantErr error
	}{
		{"configured", testNpcID, nil},
		{"not configured", 0, ErrNpcNotConfigured},
		{"unknown", 9999, ErrUnknownAsset},
		{"not an npc", testPropID, ErrNotNpcAsset},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSpawner(newFakeWorld(), testAssets(), tt.npcID)
			asset, err := s.ResolveNpc()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.AssetNpc, asset.Kind)
		})
	}
}

func TestSpawner_PlaceAndRemove(t *testing.T) {
	w := newFakeWorld()
	s := NewSpawner(w, testAssets(), testNpcID)

	c := Candidate{Location: model.NewLocation(100, 0, 200, 90)}
	placed, err := s.Place(c)
	require.NoError(t, err)
	assert.NotZero(t, placed.ObjectID)
	assert.Equal(t, 1, w.npcCount())

	obj, ok := w.GetObject(placed.ObjectID)
	require.True(t, ok)
	assert.Equal(t, testNpcID, obj.TypeID())

	removed, err := s.Remove(placed)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Zero(t, w.npcCount())
}

func TestSpawner_RemoveSearchRadius(t *testing.T) {
	w := newFakeWorld()
	s := NewSpawner(w, testAssets(), testNpcID)

	w.addProp(t, testNpcID, 115, 0, 200)
	w.addProp(t, testPropID, 100, 0, 200)

	recorded := Candidate{Location: model.NewLocation(100, 0, 200, 0)}
	removed, err := s.Remove(recorded)
	require.NoError(t, err)
	assert.False(t, removed, "npc 15 units away is outside the search radius")
	assert.Equal(t, 2, w.PropCount())

	w.addProp(t, testNpcID, 106, 0, 200)
	removed, err = s.Remove(recorded)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 2, w.PropCount())
}

func TestSpawner_PlaceFailure(t *testing.T) {
	w := newFakeWorld()
	w.placeErr = errors.New("region full")
	s := NewSpawner(w, testAssets(), testNpcID)

	_, err := s.Place(Candidate{Location: model.NewLocation(0, 0, 0, 0)})
	assert.ErrorContains(t, err, "region full")
	assert.Zero(t, w.npcCount())
}

func TestSpawner_RemoveQueryFailure(t *testing.T) {
	w := newFakeWorld()
	w.propErr = errors.New("world gone")
	s := NewSpawner(w, testAssets(), testNpcID)

	removed, err := s.Remove(Candidate{})
	assert.Error(t, err)
	assert.False(t, removed)
}
