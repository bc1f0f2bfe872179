package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHeading(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{725, 5},
		{-90, 270},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, NormalizeHeading(tt.in), 1e-9, "NormalizeHeading(%v)", tt.in)
	}
}

func TestLocation_Offset(t *testing.T) {
	loc := NewLocation(100, 200, 5, 0)

	moved := loc.Offset(math.Pi/2, 10)

	assert.InDelta(t, 100, moved.X(), 1e-9)
	assert.InDelta(t, 210, moved.Y(), 1e-9)
	assert.Equal(t, 5.0, moved.Z(), "offset must not change height")
	assert.InDelta(t, 10, loc.HorizontalDistance(moved), 1e-9)
}

func TestLocation_DistanceSquared(t *testing.T) {
	a := NewLocation(0, 0, 0, 0)
	b := NewLocation(3, 4, 12, 0)

	assert.Equal(t, 169.0, a.DistanceSquared(b))
	assert.Equal(t, 5.0, a.HorizontalDistance(b))
}

func TestZone_EdgeDistance(t *testing.T) {
	z := Zone{Name: "Town", Center: NewLocation(0, 0, 0, 0), Radius: 100}

	assert.InDelta(t, -100, z.EdgeDistance(NewLocation(0, 0, 50, 0)), 1e-9)
	assert.InDelta(t, 50, z.EdgeDistance(NewLocation(150, 0, 0, 0)), 1e-9)
}
