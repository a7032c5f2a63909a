package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pantrywise/backend/config"
	httpDelivery "github.com/pantrywise/backend/internal/delivery/http"
	"github.com/pantrywise/backend/internal/domain"
	"github.com/pantrywise/backend/internal/infrastructure/cache"
	"github.com/pantrywise/backend/internal/infrastructure/preferences"
	"github.com/pantrywise/backend/internal/infrastructure/pricefeed"
	"github.com/pantrywise/backend/internal/infrastructure/quality"
	"github.com/pantrywise/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PantryWise Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Initialize infrastructure dependencies
	resultCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	feedClient := pricefeed.NewClient(pricefeed.ClientConfig{
		APIKey:          cfg.PriceFeed.APIKey,
		BaseURL:         cfg.PriceFeed.BaseURL,
		RecencyDays:     cfg.PriceFeed.RecencyDays,
		MaxCandidates:   cfg.PriceFeed.MaxCandidates,
		RequestsPerHour: cfg.PriceFeed.RequestsPerHour,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		feedClient.SetDebug(true)
		log.Printf("Price feed debug mode enabled")
	}

	log.Printf("Price feed: %s (window: %dd, cap: %d/product)",
		cfg.PriceFeed.BaseURL, cfg.PriceFeed.RecencyDays, cfg.PriceFeed.MaxCandidates)

	qualityClient := quality.NewClient(cfg.PriceFeed.APIKey, cfg.PriceFeed.BaseURL)

	weights := domain.ScoringWeights{
		Price:    cfg.Scoring.PriceWeight,
		Quality:  cfg.Scoring.QualityWeight,
		Distance: cfg.Scoring.DistanceWeight,
	}
	preferenceProvider := preferences.NewDefaultProvider(weights)

	// Initialize usecase layer
	pricingService := usecase.NewPricingService(usecase.PricingServiceConfig{
		Weights:            weights,
		EnableDebugLogging: cfg.Scoring.EnableDebugLogging,
	})
	qualityService := usecase.NewQualityService()

	log.Printf("Scoring weights: price=%.2f quality=%.2f distance=%.2f",
		weights.Price, weights.Quality, weights.Distance)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(httpDelivery.HandlerConfig{
		PricingService: pricingService,
		QualityService: qualityService,
		PriceProvider:  feedClient,
		QualityData:    qualityClient,
		Preferences:    preferenceProvider,
		ResultCache:    resultCache,
		CacheTTL:       cfg.Cache.TTL,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
