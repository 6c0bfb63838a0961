package render

import (
	"testing"
)

func TestFrameCoordinateMapping(t *testing.T) {
	f := newFrame(100, 120, 0, 20, Faces{})

	if got := f.x(100); got != f.plot.Min.X {
		t.Errorf("x(lonMin) = %d, want plot left %d", got, f.plot.Min.X)
	}
	if got := f.x(120); got != f.plot.Max.X-1 {
		t.Errorf("x(lonMax) = %d, want plot right %d", got, f.plot.Max.X-1)
	}
	if got := f.y(20); got != f.plot.Min.Y {
		t.Errorf("y(latMax) = %d, want plot top %d", got, f.plot.Min.Y)
	}
	if got := f.y(0); got != f.plot.Max.Y-1 {
		t.Errorf("y(latMin) = %d, want plot bottom %d", got, f.plot.Max.Y-1)
	}

	// Round-trip through the inverse mapping.
	for _, lon := range []float64{100, 107.3, 120} {
		x := f.x(lon)
		back := f.lonAt(x)
		if diff := back - lon; diff > 0.1 || diff < -0.1 {
			t.Errorf("lonAt(x(%v)) = %v", lon, back)
		}
	}
}

func TestNearestIndex(t *testing.T) {
	axis := []float64{10, 20, 30, 40}

	tests := []struct {
		v    float64
		want int
	}{
		{10, 0},
		{14, 0},
		{16, 1},
		{40, 3},
		{44, 3},
		{46, -1}, // more than half a cell beyond the edge
		{4, -1},
	}
	for _, tt := range tests {
		if got := nearestIndex(axis, tt.v); got != tt.want {
			t.Errorf("nearestIndex(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}
}
