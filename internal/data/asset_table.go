package data

import (
	"log/slog"

	"github.com/udisondev/la2go-blackmarket/internal/model"
)

// AssetTable is the registry of placeable assets, keyed by asset id.
// Built once at startup, read-only afterwards.
type AssetTable struct {
	assets map[uint16]model.Asset
}

// NewAssetTable builds a table from the given assets. Later duplicates win.
func NewAssetTable(assets []model.Asset) *AssetTable {
	t := &AssetTable{assets: make(map[uint16]model.Asset, len(assets))}
	for _, a := range assets {
		t.assets[a.ID] = a
	}
	slog.Info("loaded asset table", "count", len(t.assets))
	return t
}

// Asset returns the asset with the given id.
func (t *AssetTable) Asset(id uint16) (model.Asset, bool) {
	if t == nil {
		return model.Asset{}, false
	}
	a, ok := t.assets[id]
	return a, ok
}

// Count returns the number of registered assets.
func (t *AssetTable) Count() int {
	if t == nil {
		return 0
	}
	return len(t.assets)
}
