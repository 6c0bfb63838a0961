package usecase

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/oceanview/asia-sst/internal/domain"
)

var testNow = time.Date(2023, time.July, 18, 9, 0, 0, 0, time.UTC)

type fakeFetcher struct {
	grid  *domain.Grid
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context, date time.Time) (*domain.Grid, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	g := *f.grid
	g.Date = domain.Day(date)
	return &g, nil
}

type fakeRenderer struct{ name string }

func (r fakeRenderer) Name() string { return r.name }

func (r fakeRenderer) Render(grid *domain.Grid, date time.Time) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

func testGrid() *domain.Grid {
	return &domain.Grid{
		Lat: []float64{0, 10, 20},
		Lon: []float64{100, 110},
		Values: [][]float64{
			{14.5, 15.0},
			{16.0, math.NaN()},
			{17.5, 18.0},
		},
	}
}

func newTestUseCase(f *fakeFetcher) *ViewUseCase {
	uc := NewViewUseCase(f, fakeRenderer{name: "projected"})
	uc.now = func() time.Time { return testNow }
	return uc
}

func TestMapPNG(t *testing.T) {
	fetcher := &fakeFetcher{grid: testGrid()}
	uc := newTestUseCase(fetcher)

	date := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)
	data, err := uc.MapPNG(context.Background(), date)
	if err != nil {
		t.Fatalf("MapPNG: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("output is not a PNG stream")
	}
	if fetcher.calls != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls)
	}
}

func TestSummarize(t *testing.T) {
	uc := newTestUseCase(&fakeFetcher{grid: testGrid()})

	date := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)
	s, err := uc.Summarize(context.Background(), date)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Date != "2023-07-15" {
		t.Errorf("date = %q", s.Date)
	}
	if s.Cells != 6 || s.MissingCells != 1 {
		t.Errorf("cells = %d/%d missing, want 6/1", s.Cells, s.MissingCells)
	}
	if s.MinC == nil || *s.MinC != 14.5 {
		t.Errorf("min = %v, want 14.5", s.MinC)
	}
	if s.MaxC == nil || *s.MaxC != 18.0 {
		t.Errorf("max = %v, want 18.0", s.MaxC)
	}
	if s.MeanC == nil || math.Abs(*s.MeanC-16.2) > 1e-9 {
		t.Errorf("mean = %v, want 16.2", s.MeanC)
	}
	if s.LatMin != 0 || s.LatMax != 20 || s.LonMin != 100 || s.LonMax != 110 {
		t.Errorf("extent = [%v,%v]x[%v,%v]", s.LatMin, s.LatMax, s.LonMin, s.LonMax)
	}
	if s.Renderer != "projected" {
		t.Errorf("renderer = %q", s.Renderer)
	}
}

func TestGridNullsMissingCells(t *testing.T) {
	uc := newTestUseCase(&fakeFetcher{grid: testGrid()})

	date := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)
	resp, err := uc.Grid(context.Background(), date)
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	if len(resp.Values) != 3 || len(resp.Values[0]) != 2 {
		t.Fatalf("shape = %dx%d", len(resp.Values), len(resp.Values[0]))
	}
	if resp.Values[1][1] != nil {
		t.Error("masked cell should be null")
	}
	if resp.Values[0][0] == nil || *resp.Values[0][0] != 14.5 {
		t.Errorf("values[0][0] = %v, want 14.5", resp.Values[0][0])
	}
}

func TestAllMissingGridRejected(t *testing.T) {
	grid := testGrid()
	for i := range grid.Values {
		for j := range grid.Values[i] {
			grid.Values[i][j] = math.NaN()
		}
	}
	uc := newTestUseCase(&fakeFetcher{grid: grid})

	date := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)
	if _, err := uc.Summarize(context.Background(), date); !errors.Is(err, ErrNoData) {
		t.Fatalf("err = %v, want ErrNoData", err)
	}
}

func TestFetchErrorPropagates(t *testing.T) {
	fetchErr := errors.New("all engines failed")
	uc := newTestUseCase(&fakeFetcher{err: fetchErr})

	date := time.Date(2023, time.July, 15, 0, 0, 0, 0, time.UTC)
	if _, err := uc.MapPNG(context.Background(), date); !errors.Is(err, fetchErr) {
		t.Fatalf("err = %v, want wrapped fetch error", err)
	}
}

func TestOutOfWindowDateRejected(t *testing.T) {
	fetcher := &fakeFetcher{grid: testGrid()}
	uc := newTestUseCase(fetcher)

	future := time.Date(2023, time.July, 17, 0, 0, 0, 0, time.UTC)
	if _, err := uc.Summarize(context.Background(), future); err == nil {
		t.Fatal("date past the publication window accepted")
	}
	if fetcher.calls != 0 {
		t.Errorf("fetch calls = %d, want 0 for rejected date", fetcher.calls)
	}
}
