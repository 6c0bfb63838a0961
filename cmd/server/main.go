// Package main provides the Asia SST dashboard HTTP server.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/oceanview/asia-sst/internal/adapter/cache"
	"github.com/oceanview/asia-sst/internal/adapter/store/oisst"
	httpHandler "github.com/oceanview/asia-sst/internal/http"
	"github.com/oceanview/asia-sst/internal/render"
	"github.com/oceanview/asia-sst/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("asia-sst version %s\n", version)
		return
	}

	// Load .env if present, then configuration from environment.
	_ = godotenv.Load()

	port := getEnv("PORT", "8080")
	baseURL := getEnv("OISST_BASE_URL", oisst.DefaultBaseURL)
	coastPath := getEnv("COASTLINE_PATH", "assets/ne_110m_land.geojson")
	fontPath := getEnv("FONT_PATH", render.DefaultFontPath)
	timeoutStr := getEnv("FETCH_TIMEOUT", "60s")

	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		log.Fatalf("Invalid FETCH_TIMEOUT %q: %v", timeoutStr, err)
	}

	log.Printf("Starting Asia SST dashboard server...")
	log.Printf("Port: %s", port)
	log.Printf("OISST base URL: %s", baseURL)
	log.Printf("Fetch timeout: %s", timeout)

	// Probe the projection capability once at startup. The outcome is
	// immutable for the life of the process.
	coast, err := render.LoadCoastline(coastPath)
	if err != nil {
		log.Printf("Coastline asset unavailable (%v); using plain lat/lon renderer", err)
		coast = nil
	} else {
		log.Printf("Coastline asset loaded: %s (%d polygons)", coastPath, len(coast.Polygons))
	}

	faces := render.LoadFaces(fontPath)
	renderer := render.Select(coast, faces)
	log.Printf("Renderer: %s", renderer.Name())

	// Initialize the fetch pipeline: OPeNDAP bridge first, pure-Go subset
	// download second, memoized per date for the life of the process.
	store := oisst.DefaultStore(baseURL, timeout)
	memo := cache.NewMemo(store)

	// Initialize use case.
	viewUC := usecase.NewViewUseCase(memo, renderer)

	// Setup router.
	router := httpHandler.SetupRouter(viewUC)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.Printf("Server listening on %s", addr)
	log.Printf("Dashboard: http://localhost:%s/", port)
	log.Printf("API endpoints:")
	log.Printf("  - GET /v1/sst/map")
	log.Printf("  - GET /v1/sst/grid")
	log.Printf("  - GET /v1/sst/summary")

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Asia SST Dashboard Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  asia-sst [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  OISST_BASE_URL          THREDDS root serving the OISST archive")
	fmt.Println("  COASTLINE_PATH          Land polygon GeoJSON (default: assets/ne_110m_land.geojson)")
	fmt.Println("  FONT_PATH               Korean-capable TTF (default: fonts/Pretendard-Bold.ttf)")
	fmt.Println("  FETCH_TIMEOUT           Subset download timeout (default: 60s)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  asia-sst")
	fmt.Println()
	fmt.Println("  # Start server on custom port")
	fmt.Println("  PORT=3000 asia-sst")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /                  Dashboard page")
	fmt.Println("  GET /health            Health check")
	fmt.Println("  GET /v1/sst/map        Rendered SST map (PNG)")
	fmt.Println("  GET /v1/sst/grid       Raw grid inspector (JSON)")
	fmt.Println("  GET /v1/sst/summary    Numeric-range summary (JSON)")
	fmt.Println()
}
