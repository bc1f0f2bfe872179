package model

// Zone is a restricted circular area (safe zone, town) on the horizontal plane.
type Zone struct {
	Name   string
	Center Location
	Radius float64
}

// EdgeDistance returns the horizontal distance from loc to the zone edge.
// Negative values mean loc is inside the zone.
func (z Zone) EdgeDistance(loc Location) float64 {
	return z.Center.HorizontalDistance(loc) - z.Radius
}
