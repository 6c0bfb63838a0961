// Package domain holds the core SST grid types shared by the fetch and
// render layers.
package domain

import (
	"fmt"
	"math"
	"time"
)

// BoundingBox is a lat/lon sub-region, degrees, inclusive on both edges.
type BoundingBox struct {
	LatMin, LatMax float64
	LonMin, LonMax float64
}

// AsiaPacific is the fixed sub-region every grid is clipped to.
var AsiaPacific = BoundingBox{LatMin: -10, LatMax: 60, LonMin: 60, LonMax: 150}

// Contains reports whether (lat, lon) falls inside the box.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax && lon >= b.LonMin && lon <= b.LonMax
}

// Grid is a fully materialized 2D SST field for a single day.
// Values[i][j] is the temperature in °C at (Lat[i], Lon[j]); missing cells
// (land, ice mask) are NaN. No lazy reads remain once a Grid is constructed.
type Grid struct {
	Date   time.Time
	Lat    []float64
	Lon    []float64
	Values [][]float64
}

// Validate checks axis ordering and value shape.
func (g *Grid) Validate() error {
	if len(g.Lat) < 2 {
		return fmt.Errorf("grid must have at least 2 latitude values")
	}
	if len(g.Lon) < 2 {
		return fmt.Errorf("grid must have at least 2 longitude values")
	}
	if len(g.Values) != len(g.Lat) {
		return fmt.Errorf("number of value rows (%d) must match latitudes (%d)", len(g.Values), len(g.Lat))
	}
	for i, row := range g.Values {
		if len(row) != len(g.Lon) {
			return fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(g.Lon))
		}
	}
	for i := 1; i < len(g.Lat); i++ {
		if g.Lat[i] <= g.Lat[i-1] {
			return fmt.Errorf("latitudes must be strictly increasing")
		}
	}
	for i := 1; i < len(g.Lon); i++ {
		if g.Lon[i] <= g.Lon[i-1] {
			return fmt.Errorf("longitudes must be strictly increasing")
		}
	}
	return nil
}

// LatMin returns the southernmost latitude of the grid.
func (g *Grid) LatMin() float64 { return g.Lat[0] }

// LatMax returns the northernmost latitude of the grid.
func (g *Grid) LatMax() float64 { return g.Lat[len(g.Lat)-1] }

// LonMin returns the westernmost longitude of the grid.
func (g *Grid) LonMin() float64 { return g.Lon[0] }

// LonMax returns the easternmost longitude of the grid.
func (g *Grid) LonMax() float64 { return g.Lon[len(g.Lon)-1] }

// AllMissing reports whether every cell is the missing marker. A successful
// fetch can still produce an empty field; callers treat that as "no data",
// distinct from a fetch failure.
func (g *Grid) AllMissing() bool {
	for _, row := range g.Values {
		for _, v := range row {
			if !math.IsNaN(v) {
				return false
			}
		}
	}
	return true
}

// Stats summarizes the non-missing cells of a grid.
type Stats struct {
	MinC         float64
	MaxC         float64
	MeanC        float64
	Cells        int
	MissingCells int
}

// Stats computes min/max/mean over non-missing cells. On an all-missing grid
// the numeric fields are NaN.
func (g *Grid) Stats() Stats {
	st := Stats{MinC: math.NaN(), MaxC: math.NaN(), MeanC: math.NaN()}
	sum := 0.0
	n := 0
	for _, row := range g.Values {
		for _, v := range row {
			st.Cells++
			if math.IsNaN(v) {
				st.MissingCells++
				continue
			}
			if n == 0 || v < st.MinC {
				st.MinC = v
			}
			if n == 0 || v > st.MaxC {
				st.MaxC = v
			}
			sum += v
			n++
		}
	}
	if n > 0 {
		st.MeanC = sum / float64(n)
	}
	return st
}
