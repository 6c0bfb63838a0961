package render

import (
	"fmt"
	"image"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// Plain draws the grid over raw lon/lat axes with no projection, coastline
// or land mask. Axis limits equal the grid's actual extents, so the figure
// stays usable whenever the coastline capability is missing.
type Plain struct {
	faces Faces
}

// NewPlain creates the fallback renderer.
func NewPlain(faces Faces) *Plain {
	return &Plain{faces: faces}
}

// Name identifies the renderer in logs and responses.
func (r *Plain) Name() string { return "plain" }

// Render draws the data layer, dashed gridlines at reduced opacity, axis
// labels and the same colorbar and date-stamped title as the projected
// renderer.
func (r *Plain) Render(grid *domain.Grid, date time.Time) (image.Image, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("cannot render invalid grid: %w", err)
	}

	f := newFrame(grid.LonMin(), grid.LonMax(), grid.LatMin(), grid.LatMax(), r.faces)
	f.drawData(grid, SSTScale, YlOrRd)
	f.drawGridlines(10, true, 0.4)
	f.drawEdgeLabels(10)
	f.drawBorder()
	f.drawColorbar(SSTScale, YlOrRd)
	f.drawAxisNames()
	f.drawTitle("해수면 온도(평면 좌표): " + domain.FormatDateKorean(date))
	return f.img, nil
}

// drawAxisNames labels the raw axes of the plain figure.
func (f *frame) drawAxisNames() {
	s := "경도"
	f.drawText((f.plot.Min.X+f.plot.Max.X-f.textWidth(s))/2, frameH-12, s, axisBlack, f.faces.Label)
	f.drawText(8, (f.plot.Min.Y+f.plot.Max.Y)/2, "위도", axisBlack, f.faces.Label)
}
