package render

import "image/color"

// DivergingScale normalizes temperatures onto [0, 1] with a meaningful
// center value mapped to exactly 0.5. Values at or below Min clamp to the
// low end, at or above Max to the high end.
type DivergingScale struct {
	Min    float64
	Center float64
	Max    float64
}

// SSTScale centers the palette on 30 °C, the marine heat stress threshold
// relevant for coral bleaching, with breakpoints at 20 and 34 °C.
var SSTScale = DivergingScale{Min: 20, Center: 30, Max: 34}

// Normalize maps v to [0, 1], piecewise linear around the center.
func (s DivergingScale) Normalize(v float64) float64 {
	switch {
	case v <= s.Min:
		return 0
	case v >= s.Max:
		return 1
	case v < s.Center:
		return 0.5 * (v - s.Min) / (s.Center - s.Min)
	default:
		return 0.5 + 0.5*(v-s.Center)/(s.Max-s.Center)
	}
}

// Palette is a sequence of evenly spaced color stops.
type Palette []color.RGBA

// YlOrRd is the sequential yellow-orange-red palette.
var YlOrRd = Palette{
	{R: 0xff, G: 0xff, B: 0xcc, A: 0xff},
	{R: 0xff, G: 0xed, B: 0xa0, A: 0xff},
	{R: 0xfe, G: 0xd9, B: 0x76, A: 0xff},
	{R: 0xfe, G: 0xb2, B: 0x4c, A: 0xff},
	{R: 0xfd, G: 0x8d, B: 0x3c, A: 0xff},
	{R: 0xfc, G: 0x4e, B: 0x2a, A: 0xff},
	{R: 0xe3, G: 0x1a, B: 0x1c, A: 0xff},
	{R: 0xbd, G: 0x00, B: 0x26, A: 0xff},
	{R: 0x80, G: 0x00, B: 0x26, A: 0xff},
}

// At interpolates the palette at t in [0, 1].
func (p Palette) At(t float64) color.RGBA {
	if len(p) == 0 {
		return color.RGBA{A: 0xff}
	}
	if t <= 0 {
		return p[0]
	}
	if t >= 1 {
		return p[len(p)-1]
	}
	pos := t * float64(len(p)-1)
	i := int(pos)
	f := pos - float64(i)
	a, b := p[i], p[i+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + f*(float64(y)-float64(x)))
	}
	return color.RGBA{
		R: lerp(a.R, b.R),
		G: lerp(a.G, b.G),
		B: lerp(a.B, b.B),
		A: 0xff,
	}
}

// Map applies the scale then the palette.
func (p Palette) Map(s DivergingScale, v float64) color.RGBA {
	return p.At(s.Normalize(v))
}
