package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oceanview/asia-sst/internal/adapter/store/oisst"
	"github.com/oceanview/asia-sst/internal/domain"
	"github.com/oceanview/asia-sst/internal/usecase"
)

// unavailableHint mirrors the original dashboard's diagnostic text: the
// user cannot distinguish causes programmatically, only by reading it.
const unavailableHint = "인터넷/방화벽 문제, NOAA 서버 지연/점검, 또는 선택 날짜 데이터가 아직 집계되지 않았을 수 있습니다. 날짜를 1~3일 더 이전으로 바꿔보세요."

// Handler handles HTTP requests for the SST dashboard.
type Handler struct {
	viewUC *usecase.ViewUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(viewUC *usecase.ViewUseCase) *Handler {
	return &Handler{viewUC: viewUC}
}

// parseDate reads the date query parameter, defaulting to the picker
// default when absent.
func (h *Handler) parseDate(c *gin.Context) (time.Time, error) {
	s := c.Query("date")
	if s == "" {
		return h.viewUC.DefaultDate(), nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date (expected YYYY-MM-DD): %v", err)
	}
	return d, nil
}

// fail maps use case errors to responses. Fetch failures and all-missing
// grids degrade to an informational notice; they never surface as faults.
// Only invalid request dates are the caller's error.
func (h *Handler) fail(c *gin.Context, err error) {
	if errors.Is(err, oisst.ErrUnavailable) || errors.Is(err, usecase.ErrNoData) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": err.Error(),
			"hint":  unavailableHint,
		})
		return
	}
	if errors.Is(err, domain.ErrInvalidDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// GetMap handles GET /v1/sst/map.
func (h *Handler) GetMap(c *gin.Context) {
	date, err := h.parseDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	img, err := h.viewUC.MapPNG(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// GetGrid handles GET /v1/sst/grid (the raw data inspector).
func (h *Handler) GetGrid(c *gin.Context) {
	date, err := h.parseDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grid, err := h.viewUC.Grid(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// GetSummary handles GET /v1/sst/summary.
func (h *Handler) GetSummary(c *gin.Context) {
	date, err := h.parseDate(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	summary, err := h.viewUC.Summarize(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Index handles GET / and serves the dashboard page.
func (h *Handler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index", gin.H{
		"MinDate":     domain.ArchiveStart.Format("2006-01-02"),
		"MaxDate":     h.viewUC.LatestDate().Format("2006-01-02"),
		"DefaultDate": h.viewUC.DefaultDate().Format("2006-01-02"),
		"Renderer":    h.viewUC.RendererName(),
	})
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
