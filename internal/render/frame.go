package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sort"

	"github.com/paulmach/orb"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/oceanview/asia-sst/internal/domain"
)

const (
	frameW       = 900
	frameH       = 760
	marginLeft   = 70
	marginRight  = 95
	marginTop    = 60
	marginBottom = 55
)

var (
	landFill  = color.RGBA{R: 0xd3, G: 0xd3, B: 0xd3, A: 0xff} // lightgray
	coastLine = color.RGBA{A: 0xff}
	gridGray  = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	axisBlack = color.RGBA{A: 0xff}
)

// frame is a lon/lat raster canvas with margins reserved for the title,
// axis labels and the colorbar.
type frame struct {
	img    *image.RGBA
	plot   image.Rectangle
	lonMin float64
	lonMax float64
	latMin float64
	latMax float64
	faces  Faces
}

func newFrame(lonMin, lonMax, latMin, latMax float64, faces Faces) *frame {
	img := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &frame{
		img:    img,
		plot:   image.Rect(marginLeft, marginTop, frameW-marginRight, frameH-marginBottom),
		lonMin: lonMin,
		lonMax: lonMax,
		latMin: latMin,
		latMax: latMax,
		faces:  faces,
	}
}

func (f *frame) x(lon float64) int {
	w := float64(f.plot.Dx() - 1)
	return f.plot.Min.X + int(math.Round((lon-f.lonMin)/(f.lonMax-f.lonMin)*w))
}

func (f *frame) y(lat float64) int {
	h := float64(f.plot.Dy() - 1)
	return f.plot.Min.Y + int(math.Round((f.latMax-lat)/(f.latMax-f.latMin)*h))
}

func (f *frame) lonAt(x int) float64 {
	w := float64(f.plot.Dx() - 1)
	return f.lonMin + float64(x-f.plot.Min.X)/w*(f.lonMax-f.lonMin)
}

func (f *frame) latAt(y int) float64 {
	h := float64(f.plot.Dy() - 1)
	return f.latMax - float64(y-f.plot.Min.Y)/h*(f.latMax-f.latMin)
}

// nearestIndex finds the index of the axis value closest to v, or -1 when v
// lies more than half a cell outside the axis.
func nearestIndex(axis []float64, v float64) int {
	n := len(axis)
	if n == 0 {
		return -1
	}
	half := 0.0
	if n > 1 {
		half = (axis[1] - axis[0]) / 2
	}
	if v < axis[0]-half || v > axis[n-1]+half {
		return -1
	}
	i := sort.SearchFloat64s(axis, v)
	if i == 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	if v-axis[i-1] <= axis[i]-v {
		return i - 1
	}
	return i
}

// drawData paints every plot pixel with the value of the nearest grid cell.
// Missing cells are left untouched so whatever sits beneath (land fill or
// the page background) shows through.
func (f *frame) drawData(g *domain.Grid, scale DivergingScale, pal Palette) {
	for y := f.plot.Min.Y; y < f.plot.Max.Y; y++ {
		lat := f.latAt(y)
		i := nearestIndex(g.Lat, lat)
		if i < 0 {
			continue
		}
		row := g.Values[i]
		for x := f.plot.Min.X; x < f.plot.Max.X; x++ {
			j := nearestIndex(g.Lon, f.lonAt(x))
			if j < 0 || math.IsNaN(row[j]) {
				continue
			}
			f.img.SetRGBA(x, y, pal.Map(scale, row[j]))
		}
	}
}

// drawLand fills land polygons and strokes their coastlines. Called before
// drawData so the data layer sits above land.
func (f *frame) drawLand(c *Coastline) {
	for y := f.plot.Min.Y; y < f.plot.Max.Y; y++ {
		lat := f.latAt(y)
		for _, poly := range c.Polygons {
			crossings := lonCrossings(poly, lat)
			for k := 0; k+1 < len(crossings); k += 2 {
				x0 := f.x(math.Max(crossings[k], f.lonMin))
				x1 := f.x(math.Min(crossings[k+1], f.lonMax))
				for x := x0; x <= x1; x++ {
					if x >= f.plot.Min.X && x < f.plot.Max.X {
						f.img.SetRGBA(x, y, landFill)
					}
				}
			}
		}
	}
	for _, poly := range c.Polygons {
		for _, ring := range poly {
			f.strokeRing(ring)
		}
	}
}

// lonCrossings intersects the horizontal line at lat with every ring of the
// polygon, returning sorted longitudes. Even-odd pairing fills holes
// correctly without treating them specially.
func lonCrossings(poly orb.Polygon, lat float64) []float64 {
	var xs []float64
	for _, ring := range poly {
		for i := 0; i+1 < len(ring); i++ {
			a, b := ring[i], ring[i+1]
			if (a.Lat() > lat) == (b.Lat() > lat) {
				continue
			}
			t := (lat - a.Lat()) / (b.Lat() - a.Lat())
			xs = append(xs, a.Lon()+t*(b.Lon()-a.Lon()))
		}
	}
	sort.Float64s(xs)
	return xs
}

func (f *frame) strokeRing(ring orb.Ring) {
	for i := 0; i+1 < len(ring); i++ {
		a, b := ring[i], ring[i+1]
		f.drawLine(f.x(a.Lon()), f.y(a.Lat()), f.x(b.Lon()), f.y(b.Lat()), coastLine, false)
	}
}

// drawLine draws a clipped line; when dashed, every other run of three
// pixels is skipped.
func (f *frame) drawLine(x0, y0, x1, y1 int, col color.RGBA, dashed bool) {
	steps := max(abs(x1-x0), abs(y1-y0))
	if steps == 0 {
		steps = 1
	}
	for s := 0; s <= steps; s++ {
		if dashed && (s/3)%2 == 1 {
			continue
		}
		x := x0 + (x1-x0)*s/steps
		y := y0 + (y1-y0)*s/steps
		if image.Pt(x, y).In(f.plot) {
			f.img.SetRGBA(x, y, col)
		}
	}
}

// blend draws col over the existing pixel at the given opacity.
func (f *frame) blend(x, y int, col color.RGBA, alpha float64) {
	if !image.Pt(x, y).In(f.plot) {
		return
	}
	old := f.img.RGBAAt(x, y)
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a)*(1-alpha) + float64(b)*alpha)
	}
	f.img.SetRGBA(x, y, color.RGBA{
		R: mix(old.R, col.R),
		G: mix(old.G, col.G),
		B: mix(old.B, col.B),
		A: 0xff,
	})
}

// drawGridlines draws meridians and parallels every step degrees.
func (f *frame) drawGridlines(step float64, dashed bool, alpha float64) {
	for lon := math.Ceil(f.lonMin/step) * step; lon <= f.lonMax; lon += step {
		x := f.x(lon)
		for y := f.plot.Min.Y; y < f.plot.Max.Y; y++ {
			if dashed && (y/3)%2 == 1 {
				continue
			}
			f.blend(x, y, gridGray, alpha)
		}
	}
	for lat := math.Ceil(f.latMin/step) * step; lat <= f.latMax; lat += step {
		y := f.y(lat)
		for x := f.plot.Min.X; x < f.plot.Max.X; x++ {
			if dashed && (x/3)%2 == 1 {
				continue
			}
			f.blend(x, y, gridGray, alpha)
		}
	}
}

// drawEdgeLabels labels gridlines on the left and bottom edges only.
func (f *frame) drawEdgeLabels(step float64) {
	for lon := math.Ceil(f.lonMin/step) * step; lon <= f.lonMax; lon += step {
		s := fmt.Sprintf("%.0f°E", lon)
		w := f.textWidth(s)
		f.drawText(f.x(lon)-w/2, f.plot.Max.Y+18, s, axisBlack, f.faces.Label)
	}
	for lat := math.Ceil(f.latMin/step) * step; lat <= f.latMax; lat += step {
		suffix := "N"
		v := lat
		if lat < 0 {
			suffix = "S"
			v = -lat
		}
		s := fmt.Sprintf("%.0f°%s", v, suffix)
		w := f.textWidth(s)
		f.drawText(f.plot.Min.X-w-6, f.y(lat)+4, s, axisBlack, f.faces.Label)
	}
}

// drawBorder frames the plot area.
func (f *frame) drawBorder() {
	r := f.plot
	for x := r.Min.X; x < r.Max.X; x++ {
		f.img.SetRGBA(x, r.Min.Y, axisBlack)
		f.img.SetRGBA(x, r.Max.Y-1, axisBlack)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		f.img.SetRGBA(r.Min.X, y, axisBlack)
		f.img.SetRGBA(r.Max.X-1, y, axisBlack)
	}
}

// drawColorbar attaches the vertical colorbar right of the plot.
func (f *frame) drawColorbar(scale DivergingScale, pal Palette) {
	x0 := f.plot.Max.X + 22
	x1 := x0 + 18
	y0 := f.plot.Min.Y
	y1 := f.plot.Max.Y
	h := float64(y1 - y0 - 1)

	for y := y0; y < y1; y++ {
		t := 1 - float64(y-y0)/h
		col := pal.At(t)
		for x := x0; x < x1; x++ {
			f.img.SetRGBA(x, y, col)
		}
	}
	for x := x0 - 1; x <= x1; x++ {
		f.img.SetRGBA(x, y0-1, axisBlack)
		f.img.SetRGBA(x, y1, axisBlack)
	}
	for y := y0 - 1; y <= y1; y++ {
		f.img.SetRGBA(x0-1, y, axisBlack)
		f.img.SetRGBA(x1, y, axisBlack)
	}

	for _, v := range []float64{scale.Min, 25, scale.Center, 32, scale.Max} {
		y := y0 + int((1-scale.Normalize(v))*h)
		for x := x1; x < x1+4; x++ {
			f.img.SetRGBA(x, y, axisBlack)
		}
		f.drawText(x1+7, y+4, fmt.Sprintf("%.0f", v), axisBlack, f.faces.Label)
	}
	f.drawText(x0-4, y0-10, "°C", axisBlack, f.faces.Label)
}

// drawTitle centers the figure title above the plot.
func (f *frame) drawTitle(s string) {
	w := f.textWidthFace(s, f.faces.Title)
	f.drawText((frameW-w)/2, marginTop-22, s, axisBlack, f.faces.Title)
}

func (f *frame) textWidth(s string) int {
	return f.textWidthFace(s, f.faces.Label)
}

func (f *frame) textWidthFace(s string, face font.Face) int {
	if face == nil {
		face = basicfont.Face7x13
	}
	w := 0
	func() {
		defer func() { _ = recover() }()
		d := font.Drawer{Face: face}
		w = d.MeasureString(s).Ceil()
	}()
	return w
}

// drawText renders s at the baseline point, trying the given face first and
// the builtin bitmap face second. A face that cannot shape the string is
// non-fatal: the label is simply skipped.
func (f *frame) drawText(x, y int, s string, col color.Color, face font.Face) {
	for _, candidate := range []font.Face{face, basicfont.Face7x13} {
		if candidate == nil {
			continue
		}
		ok := func() (ok bool) {
			defer func() {
				if recover() != nil {
					ok = false
				}
			}()
			d := font.Drawer{
				Dst:  f.img,
				Src:  image.NewUniform(col),
				Face: candidate,
				Dot:  fixed.P(x, y),
			}
			d.DrawString(s)
			return true
		}()
		if ok {
			return
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
