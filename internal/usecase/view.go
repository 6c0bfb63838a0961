// Package usecase orchestrates the fetch-then-render cycle behind the
// dashboard endpoints.
package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"math"
	"time"

	"github.com/oceanview/asia-sst/internal/adapter/cache"
	"github.com/oceanview/asia-sst/internal/domain"
	"github.com/oceanview/asia-sst/internal/render"
)

// ErrNoData marks a fetch that succeeded but produced an entirely masked
// grid. The dashboard shows the same notice as for a failed fetch.
var ErrNoData = errors.New("no usable data for the selected date")

// Summary is the textual numeric-range panel shown next to the figure.
type Summary struct {
	Date         string   `json:"date"`
	LatMin       float64  `json:"lat_min"`
	LatMax       float64  `json:"lat_max"`
	LonMin       float64  `json:"lon_min"`
	LonMax       float64  `json:"lon_max"`
	MinC         *float64 `json:"min_c"`
	MaxC         *float64 `json:"max_c"`
	MeanC        *float64 `json:"mean_c"`
	Cells        int      `json:"cells"`
	MissingCells int      `json:"missing_cells"`
	Renderer     string   `json:"renderer"`
}

// GridResponse is the raw data inspector payload. Missing cells are null.
type GridResponse struct {
	Summary Summary      `json:"summary"`
	Lat     []float64    `json:"lat"`
	Lon     []float64    `json:"lon"`
	Values  [][]*float64 `json:"values"`
}

// ViewUseCase wires the memoized fetcher to the selected renderer.
type ViewUseCase struct {
	fetcher  cache.Fetcher
	renderer render.MapRenderer
	now      func() time.Time
}

// NewViewUseCase creates the dashboard use case.
func NewViewUseCase(fetcher cache.Fetcher, renderer render.MapRenderer) *ViewUseCase {
	return &ViewUseCase{fetcher: fetcher, renderer: renderer, now: time.Now}
}

// RendererName reports which renderer the startup probe selected.
func (uc *ViewUseCase) RendererName() string { return uc.renderer.Name() }

// DefaultDate is the date preselected in the picker.
func (uc *ViewUseCase) DefaultDate() time.Time { return domain.DefaultDate(uc.now()) }

// LatestDate is the newest selectable date.
func (uc *ViewUseCase) LatestDate() time.Time { return domain.LatestAvailable(uc.now()) }

// fetch validates the date window and returns a usable grid, rejecting
// all-missing fields.
func (uc *ViewUseCase) fetch(ctx context.Context, date time.Time) (*domain.Grid, error) {
	if err := domain.ValidateDate(date, uc.now()); err != nil {
		return nil, err
	}
	grid, err := uc.fetcher.Fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	if grid.AllMissing() {
		return nil, fmt.Errorf("%w (%s)", ErrNoData, date.Format("2006-01-02"))
	}
	return grid, nil
}

// MapPNG renders the figure for the date and encodes it as PNG.
func (uc *ViewUseCase) MapPNG(ctx context.Context, date time.Time) ([]byte, error) {
	grid, err := uc.fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	img, err := uc.renderer.Render(grid, domain.Day(date))
	if err != nil {
		return nil, fmt.Errorf("failed to render figure: %w", err)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode figure: %w", err)
	}
	return buf.Bytes(), nil
}

// Summarize returns the numeric-range summary for the date.
func (uc *ViewUseCase) Summarize(ctx context.Context, date time.Time) (*Summary, error) {
	grid, err := uc.fetch(ctx, date)
	if err != nil {
		return nil, err
	}
	s := uc.summary(grid)
	return &s, nil
}

// Grid returns the inspector payload for the date.
func (uc *ViewUseCase) Grid(ctx context.Context, date time.Time) (*GridResponse, error) {
	grid, err := uc.fetch(ctx, date)
	if err != nil {
		return nil, err
	}

	values := make([][]*float64, len(grid.Values))
	for i, row := range grid.Values {
		values[i] = make([]*float64, len(row))
		for j, v := range row {
			if !math.IsNaN(v) {
				val := v
				values[i][j] = &val
			}
		}
	}

	return &GridResponse{
		Summary: uc.summary(grid),
		Lat:     grid.Lat,
		Lon:     grid.Lon,
		Values:  values,
	}, nil
}

func (uc *ViewUseCase) summary(grid *domain.Grid) Summary {
	st := grid.Stats()
	return Summary{
		Date:         grid.Date.Format("2006-01-02"),
		LatMin:       grid.LatMin(),
		LatMax:       grid.LatMax(),
		LonMin:       grid.LonMin(),
		LonMax:       grid.LonMax(),
		MinC:         finite(st.MinC),
		MaxC:         finite(st.MaxC),
		MeanC:        finite(st.MeanC),
		Cells:        st.Cells,
		MissingCells: st.MissingCells,
		Renderer:     uc.renderer.Name(),
	}
}

// finite converts NaN to a JSON null.
func finite(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
