package api

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pokeport/pokeport-ai/backend/internal/api/handlers"
	"github.com/pokeport/pokeport-ai/backend/internal/metrics"
	"github.com/pokeport/pokeport-ai/backend/internal/services"
)

func SetupRouter(scanService *services.ScanService, assessor *services.ConditionAssessorService, trendingService *services.TrendingService, marketService *services.MarketDataService, imageStorageService *services.ImageStorageService) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"}
	config.AllowCredentials = false
	router.Use(cors.New(config))

	router.Use(httpMetrics())

	// Initialize handlers
	scanHandler := handlers.NewScanHandler(scanService, assessor)
	cardHandler := handlers.NewCardHandler()
	marketHandler := handlers.NewMarketHandler(trendingService, marketService)

	// Serve scanned images
	if imageStorageService != nil {
		router.Static("/images/scanned", imageStorageService.GetStorageDir())
	}

	// API routes
	api := router.Group("/api")
	api.Use(requireUser())
	{
		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.GetCards)
			cards.POST("", cardHandler.CreateCard)
			cards.POST("/scan", scanHandler.ScanCard)
			cards.POST("/assess-condition", scanHandler.AssessCondition)
			cards.GET("/:id", cardHandler.GetCard)
			cards.PATCH("/:id", cardHandler.UpdateCard)
			cards.DELETE("/:id", cardHandler.DeleteCard)
		}

		api.GET("/portfolio/stats", cardHandler.GetStats)

		market := api.Group("/market")
		{
			market.GET("/trends", marketHandler.GetTrends)
			market.GET("/:cardName/:set", marketHandler.GetMarketPrice)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// requireUser resolves the authenticated user. Session handling lives in
// front of this service; it forwards the opaque user ID in a header.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			userID = "demo-user"
		}
		c.Set("userID", userID)
		c.Next()
	}
}

// httpMetrics records request counts and latency per route.
func httpMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
