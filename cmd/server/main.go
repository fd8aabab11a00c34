package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/pokeport/pokeport-ai/backend/internal/api"
	"github.com/pokeport/pokeport-ai/backend/internal/database"
	"github.com/pokeport/pokeport-ai/backend/internal/services"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file loaded, using environment")
	}

	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./pokeport.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize services
	visionService := services.NewOpenAIVisionService(os.Getenv("OPENAI_API_KEY"))
	assessorService := services.NewConditionAssessorService(os.Getenv("OPENAI_API_KEY"))
	catalogService := services.NewPokemonTCGService(os.Getenv("POKEMON_TCG_API_KEY"))
	syntheticPricer := services.NewSyntheticPricer(nil)
	marketService := services.NewMarketDataService(catalogService, syntheticPricer, database.GetDB())
	imageStorageService := services.NewImageStorageService()
	scanService := services.NewScanService(visionService, marketService, imageStorageService)

	trendingRefresh := 10
	if limitStr := os.Getenv("TRENDING_REFRESH_PER_MINUTE"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			trendingRefresh = limit
		}
	}
	trendingService := services.NewTrendingService(marketService, trendingRefresh)

	// Setup router
	router := api.SetupRouter(scanService, assessorService, trendingService, marketService, imageStorageService)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
