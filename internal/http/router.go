package http

import (
	"embed"
	"html/template"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oceanview/asia-sst/internal/usecase"
)

//go:embed web/index.html
var webFS embed.FS

// SetupRouter creates and configures the Gin router.
func SetupRouter(viewUC *usecase.ViewUseCase) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Dashboard page template.
	router.SetHTMLTemplate(template.Must(template.New("index").Parse(mustIndexHTML())))

	// Create handler.
	handler := NewHandler(viewUC)

	// Dashboard page.
	router.GET("/", handler.Index)

	// API v1 routes.
	v1 := router.Group("/v1")
	sst := v1.Group("/sst")
	sst.GET("/map", handler.GetMap)
	sst.GET("/grid", handler.GetGrid)
	sst.GET("/summary", handler.GetSummary)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}

func mustIndexHTML() string {
	b, err := webFS.ReadFile("web/index.html")
	if err != nil {
		panic(err)
	}
	return string(b)
}
