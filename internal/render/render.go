// Package render turns SST grids into map figures.
//
// Two renderers implement the same interface: a projected one that draws
// land and coastlines when the coastline asset is available, and a plain
// lat/lon one used otherwise. The choice is made once at startup and
// injected; nothing downstream re-probes the capability.
package render

import (
	"image"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// MapRenderer renders one day's grid into a figure.
type MapRenderer interface {
	Render(grid *domain.Grid, date time.Time) (image.Image, error)
	Name() string
}

// Select picks the projected renderer when a coastline is available and the
// plain renderer otherwise.
func Select(coast *Coastline, faces Faces) MapRenderer {
	if coast != nil {
		return NewProjected(coast, faces)
	}
	return NewPlain(faces)
}
