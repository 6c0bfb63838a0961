package render

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Coastline holds land polygons in lon/lat degrees, decoded from a Natural
// Earth style GeoJSON file. Its presence is the projection capability: when
// no coastline asset loads, the dashboard falls back to plain axes.
type Coastline struct {
	Polygons []orb.Polygon
}

// LoadCoastline reads a GeoJSON FeatureCollection of land polygons.
func LoadCoastline(path string) (*Coastline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read coastline asset: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(b)
	if err != nil {
		return nil, fmt.Errorf("failed to parse coastline asset: %w", err)
	}

	var polys []orb.Polygon
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			polys = append(polys, g)
		case orb.MultiPolygon:
			polys = append(polys, g...)
		}
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("coastline asset %s contains no polygons", path)
	}
	return &Coastline{Polygons: polys}, nil
}
