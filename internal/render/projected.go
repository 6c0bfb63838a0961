package render

import (
	"fmt"
	"image"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

// Projected draws the grid on an equirectangular map framed to the fixed
// Asia-Pacific extent, with land and coastlines beneath the data layer.
type Projected struct {
	coast *Coastline
	faces Faces
	box   domain.BoundingBox
}

// NewProjected creates the projected renderer.
func NewProjected(coast *Coastline, faces Faces) *Projected {
	return &Projected{coast: coast, faces: faces, box: domain.AsiaPacific}
}

// Name identifies the renderer in logs and responses.
func (r *Projected) Name() string { return "projected" }

// Render draws land, coastlines, the data layer, gridlines with left/bottom
// edge labels, the colorbar and the date-stamped title. Label failures are
// non-fatal and leave the gridlines unlabeled.
func (r *Projected) Render(grid *domain.Grid, date time.Time) (image.Image, error) {
	if err := grid.Validate(); err != nil {
		return nil, fmt.Errorf("cannot render invalid grid: %w", err)
	}

	f := newFrame(r.box.LonMin, r.box.LonMax, r.box.LatMin, r.box.LatMax, r.faces)
	f.drawLand(r.coast)
	f.drawData(grid, SSTScale, YlOrRd)
	f.drawGridlines(10, true, 0.5)
	f.drawEdgeLabels(10)
	f.drawBorder()
	f.drawColorbar(SSTScale, YlOrRd)
	f.drawTitle("해수면 온도: " + domain.FormatDateKorean(date))
	return f.img, nil
}
