package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oceanview/asia-sst/internal/adapter/store/oisst"
	"github.com/oceanview/asia-sst/internal/domain"
	"github.com/oceanview/asia-sst/internal/render"
	"github.com/oceanview/asia-sst/internal/usecase"
)

type stubFetcher struct {
	err error
}

func (f stubFetcher) Fetch(ctx context.Context, date time.Time) (*domain.Grid, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Grid{
		Date: domain.Day(date),
		Lat:  []float64{0, 10},
		Lon:  []float64{100, 110},
		Values: [][]float64{
			{20.0, 21.0},
			{22.0, math.NaN()},
		},
	}, nil
}

type stubRenderer struct{}

func (stubRenderer) Name() string { return "plain" }

func (stubRenderer) Render(grid *domain.Grid, date time.Time) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	return img, nil
}

var _ render.MapRenderer = stubRenderer{}

func newTestRouter(fetchErr error) *gin.Engine {
	return newTestRouterWith(fetchErr, stubRenderer{})
}

func newTestRouterWith(fetchErr error, r render.MapRenderer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	viewUC := usecase.NewViewUseCase(stubFetcher{err: fetchErr}, r)
	return SetupRouter(viewUC)
}

type brokenRenderer struct{}

func (brokenRenderer) Name() string { return "plain" }

func (brokenRenderer) Render(grid *domain.Grid, date time.Time) (image.Image, error) {
	return nil, errors.New("figure drawing failed")
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// validDate is a date inside the selectable window regardless of when
// the test runs.
func validDate() string {
	return domain.DefaultDate(time.Now()).Format("2006-01-02")
}

func TestGetSummary(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/v1/sst/summary?date="+validDate())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var s usecase.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.Date != validDate() {
		t.Errorf("date = %q, want %q", s.Date, validDate())
	}
	if s.Cells != 4 || s.MissingCells != 1 {
		t.Errorf("cells = %d/%d missing, want 4/1", s.Cells, s.MissingCells)
	}
	if s.Renderer != "plain" {
		t.Errorf("renderer = %q", s.Renderer)
	}
}

func TestGetSummaryDefaultsDate(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/v1/sst/summary")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var s usecase.Summary
	if err := json.Unmarshal(w.Body.Bytes(), &s); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if s.Date != validDate() {
		t.Errorf("date = %q, want picker default %q", s.Date, validDate())
	}
}

func TestGetMap(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/v1/sst/map?date="+validDate())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "\x89PNG") {
		t.Error("body is not a PNG stream")
	}
}

func TestGetGrid(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/v1/sst/grid?date="+validDate())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp usecase.GridResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode grid: %v", err)
	}
	if len(resp.Lat) != 2 || len(resp.Lon) != 2 {
		t.Fatalf("axes = %dx%d", len(resp.Lat), len(resp.Lon))
	}
	if resp.Values[1][1] != nil {
		t.Error("masked cell should be null")
	}
	if resp.Values[0][0] == nil || *resp.Values[0][0] != 20.0 {
		t.Errorf("values[0][0] = %v, want 20.0", resp.Values[0][0])
	}
}

func TestFetchFailureReturnsNotice(t *testing.T) {
	router := newTestRouter(fmt.Errorf("%w: last engine: 504 gateway timeout", oisst.ErrUnavailable))

	w := get(t, router, "/v1/sst/summary?date="+validDate())
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["hint"] != unavailableHint {
		t.Errorf("hint = %q", body["hint"])
	}
	if !strings.Contains(body["error"], "504 gateway timeout") {
		t.Errorf("error should surface the engine failure, got %q", body["error"])
	}
}

func TestRenderFailureIsServerError(t *testing.T) {
	router := newTestRouterWith(nil, brokenRenderer{})

	w := get(t, router, "/v1/sst/map?date="+validDate())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 for a render failure", w.Code)
	}
}

func TestInvalidDateRejected(t *testing.T) {
	router := newTestRouter(nil)

	for _, q := range []string{"date=15-07-2023", "date=tomorrow"} {
		w := get(t, router, "/v1/sst/summary?"+q)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", q, w.Code)
		}
	}
}

func TestOutOfWindowDateRejected(t *testing.T) {
	router := newTestRouter(nil)

	future := time.Now().UTC().AddDate(0, 0, 7).Format("2006-01-02")
	w := get(t, router, "/v1/sst/summary?date="+future)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for future date", w.Code)
	}

	w = get(t, router, "/v1/sst/summary?date=1981-08-31")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for pre-archive date", w.Code)
	}
}

func TestIndexPage(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "해수면 온도") {
		t.Error("page is missing the dashboard title")
	}
	if !strings.Contains(body, validDate()) {
		t.Error("page is missing the default picker date")
	}
}

func TestHealthCheck(t *testing.T) {
	router := newTestRouter(nil)

	w := get(t, router, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
