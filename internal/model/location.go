package model

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Location is a position in the game world plus a heading.
// X and Y are the horizontal plane, Z is height. Value type, passed by value.
type Location struct {
	Position mgl64.Vec3
	Heading  float64 // degrees, [0, 360)
}

// NewLocation creates a Location, normalizing heading into [0, 360).
func NewLocation(x, y, z, heading float64) Location {
	return Location{
		Position: mgl64.Vec3{x, y, z},
		Heading:  NormalizeHeading(heading),
	}
}

// X returns the X coordinate.
func (l Location) X() float64 { return l.Position.X() }

// Y returns the Y coordinate.
func (l Location) Y() float64 { return l.Position.Y() }

// Z returns the Z coordinate.
func (l Location) Z() float64 { return l.Position.Z() }

// WithHeading returns a copy with the given heading.
func (l Location) WithHeading(heading float64) Location {
	l.Heading = NormalizeHeading(heading)
	return l
}

// Offset returns a copy shifted on the horizontal plane by dist units along angle (radians).
func (l Location) Offset(angle, dist float64) Location {
	l.Position = l.Position.Add(mgl64.Vec3{math.Cos(angle) * dist, math.Sin(angle) * dist, 0})
	return l
}

// DistanceSquared returns the squared 3D distance to other (no sqrt on the hot path).
func (l Location) DistanceSquared(other Location) float64 {
	d := l.Position.Sub(other.Position)
	return d.Dot(d)
}

// HorizontalDistance returns the distance to other ignoring height.
func (l Location) HorizontalDistance(other Location) float64 {
	return math.Hypot(l.X()-other.X(), l.Y()-other.Y())
}

// NormalizeHeading wraps degrees into [0, 360).
func NormalizeHeading(deg float64) float64 {
	h := math.Mod(deg, 360)
	if h < 0 {
		h += 360
	}
	return h
}
