package render

import (
	"os"
	"path/filepath"
	"testing"
)

const coastFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"featurecla": "Land"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[100, 20], [110, 20], [110, 30], [100, 30], [100, 20]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"featurecla": "Land"},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[60, -5], [70, -5], [70, 5], [60, 5], [60, -5]]],
          [[[120, 40], [130, 40], [130, 50], [120, 50], [120, 40]]]
        ]
      }
    }
  ]
}`

func TestLoadCoastline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "land.geojson")
	if err := os.WriteFile(path, []byte(coastFixture), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	coast, err := LoadCoastline(path)
	if err != nil {
		t.Fatalf("LoadCoastline: %v", err)
	}
	if len(coast.Polygons) != 3 {
		t.Errorf("polygons = %d, want 3 (multipolygon flattened)", len(coast.Polygons))
	}
}

func TestLoadCoastlineMissingFile(t *testing.T) {
	if _, err := LoadCoastline(filepath.Join(t.TempDir(), "absent.geojson")); err == nil {
		t.Fatal("missing asset accepted")
	}
}

func TestLoadCoastlineNoPolygons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.geojson")
	if err := os.WriteFile(path, []byte(`{"type":"FeatureCollection","features":[]}`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadCoastline(path); err == nil {
		t.Fatal("empty collection accepted")
	}
}
