package model

import "fmt"

// AssetKind is the category an asset belongs to.
type AssetKind string

const (
	AssetNpc     AssetKind = "npc"
	AssetProp    AssetKind = "prop"
	AssetVehicle AssetKind = "vehicle"
)

// Valid reports whether k is a known asset kind.
func (k AssetKind) Valid() bool {
	switch k {
	case AssetNpc, AssetProp, AssetVehicle:
		return true
	}
	return false
}

// Asset describes a placeable type known to the host.
type Asset struct {
	ID   uint16
	Name string
	Kind AssetKind
}

func (a Asset) String() string {
	return fmt.Sprintf("%s#%d(%s)", a.Name, a.ID, a.Kind)
}
