package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/la2go-blackmarket/internal/model"
	"github.com/udisondev/la2go-blackmarket/internal/world"
)

// AssetDef is an asset entry in the world data file.
type AssetDef struct {
	ID   uint16          `yaml:"id"`
	Name string          `yaml:"name"`
	Kind model.AssetKind `yaml:"kind"`
}

// PlacementDef is a prop or vehicle placed at server start.
type PlacementDef struct {
	AssetID uint16  `yaml:"asset_id"`
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Z       float64 `yaml:"z"`
	Heading float64 `yaml:"heading"`
}

// Location converts the placement coordinates to a model.Location.
func (p PlacementDef) Location() model.Location {
	return model.NewLocation(p.X, p.Y, p.Z, p.Heading)
}

// ZoneDef is a restricted zone in the world data file.
type ZoneDef struct {
	Name   string  `yaml:"name"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Z      float64 `yaml:"z"`
	Radius float64 `yaml:"radius"`
}

// WorldData is the parsed world file: assets plus what is placed at startup.
type WorldData struct {
	Assets   []AssetDef     `yaml:"assets"`
	Props    []PlacementDef `yaml:"props"`
	Vehicles []PlacementDef `yaml:"vehicles"`
	Zones    []ZoneDef      `yaml:"zones"`
}

// LoadWorldData reads and validates a world data file.
func LoadWorldData(path string) (*WorldData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world data %s: %w", path, err)
	}
	return ParseWorldData(raw)
}

// ParseWorldData parses and validates world data from YAML bytes.
func ParseWorldData(raw []byte) (*WorldData, error) {
	var wd WorldData
	if err := yaml.Unmarshal(raw, &wd); err != nil {
		return nil, fmt.Errorf("parsing world data: %w", err)
	}
	if err := wd.validate(); err != nil {
		return nil, fmt.Errorf("validating world data: %w", err)
	}
	return &wd, nil
}

func (wd *WorldData) validate() error {
	kinds := make(map[uint16]model.AssetKind, len(wd.Assets))
	var errs []error

	for _, a := range wd.Assets {
		if a.ID == 0 {
			errs = append(errs, fmt.Errorf("asset %q: id 0 is reserved", a.Name))
			continue
		}
		if !a.Kind.Valid() {
			errs = append(errs, fmt.Errorf("asset %d: unknown kind %q", a.ID, a.Kind))
			continue
		}
		if _, dup := kinds[a.ID]; dup {
			errs = append(errs, fmt.Errorf("asset %d: duplicate id", a.ID))
			continue
		}
		kinds[a.ID] = a.Kind
	}

	for i, p := range wd.Props {
		if _, ok := kinds[p.AssetID]; !ok {
			errs = append(errs, fmt.Errorf("prop #%d: unknown asset %d", i, p.AssetID))
		}
	}
	for i, v := range wd.Vehicles {
		if kind, ok := kinds[v.AssetID]; !ok {
			errs = append(errs, fmt.Errorf("vehicle #%d: unknown asset %d", i, v.AssetID))
		} else if kind != model.AssetVehicle {
			errs = append(errs, fmt.Errorf("vehicle #%d: asset %d is a %s", i, v.AssetID, kind))
		}
	}
	for _, z := range wd.Zones {
		if z.Radius <= 0 {
			errs = append(errs, fmt.Errorf("zone %q: radius must be positive", z.Name))
		}
	}

	return errors.Join(errs...)
}

// AssetTable builds the asset registry from the parsed data.
func (wd *WorldData) AssetTable() *AssetTable {
	assets := make([]model.Asset, 0, len(wd.Assets))
	for _, a := range wd.Assets {
		assets = append(assets, model.Asset{ID: a.ID, Name: a.Name, Kind: a.Kind})
	}
	return NewAssetTable(assets)
}

// Populate places the startup props and vehicles and installs the restricted zones.
func (wd *WorldData) Populate(w *world.World) error {
	for i, p := range wd.Props {
		if _, err := w.PlaceProp(p.AssetID, p.Location()); err != nil {
			return fmt.Errorf("placing prop #%d: %w", i, err)
		}
	}
	for i, v := range wd.Vehicles {
		if _, err := w.PlaceVehicle(v.AssetID, v.Location()); err != nil {
			return fmt.Errorf("placing vehicle #%d: %w", i, err)
		}
	}

	zones := make([]model.Zone, 0, len(wd.Zones))
	for _, z := range wd.Zones {
		zones = append(zones, model.Zone{
			Name:   z.Name,
			Center: model.NewLocation(z.X, z.Y, z.Z, 0),
			Radius: z.Radius,
		})
	}
	w.SetRestrictedZones(zones)

	slog.Info("world populated",
		"props", len(wd.Props),
		"vehicles", len(wd.Vehicles),
		"zones", len(zones))
	return nil
}
