package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/geonobo/geonobo/internal/common/clock"
	"github.com/geonobo/geonobo/internal/common/uuid"
	"github.com/geonobo/geonobo/internal/handlers/rest"
	"github.com/geonobo/geonobo/internal/handlers/ws"
	"github.com/geonobo/geonobo/internal/locations"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
	gameService "github.com/geonobo/geonobo/internal/services/game"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env if present; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	// Test Redis connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Initialize repositories
	matches, err := matchRepo.NewRedis(&matchRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		log.Fatalf("Failed to create match repository: %v", err)
	}

	// Initialize the Mapillary client and location provider
	mapillaryClient, err := locations.NewClient(&locations.ClientConfig{
		AccessToken:  getEnv("MAPILLARY_ACCESS_TOKEN", ""),
		ClientID:     getEnv("MAPILLARY_CLIENT_ID", ""),
		ClientSecret: getEnv("MAPILLARY_CLIENT_SECRET", ""),
		RedirectURI:  getEnv("MAPILLARY_REDIRECT_URI", ""),
	})
	if err != nil {
		log.Fatalf("Failed to create Mapillary client: %v", err)
	}

	provider, err := locations.NewMapillary(&locations.Config{
		Client: mapillaryClient,
	})
	if err != nil {
		log.Fatalf("Failed to create location provider: %v", err)
	}

	uuidGen := uuid.New()

	// The hub is built first so the game service can broadcast through
	// it; the service is wired back in before the server starts.
	hub, err := ws.New(&ws.Config{
		UUIDGenerator: uuidGen,
	})
	if err != nil {
		log.Fatalf("Failed to create websocket hub: %v", err)
	}

	gameSvc, err := gameService.New(&gameService.Config{
		Region:        getEnv("GAME_REGION", ""),
		Locations:     provider,
		MatchRepo:     matches,
		Broadcaster:   hub,
		Clock:         &clock.DefaultClock{},
		UUIDGenerator: uuidGen,
	})
	if err != nil {
		log.Fatalf("Failed to create game service: %v", err)
	}
	hub.SetService(gameSvc)

	handler, err := rest.New(&rest.Config{
		GameService:      gameSvc,
		MapillaryClient:  mapillaryClient,
		LocationProvider: provider,
		MatchRepo:        matches,
		WebsocketHandler: hub.HandleWebSocket,
		PublicURL:        getEnv("PUBLIC_URL", "http://localhost:8080"),
	})
	if err != nil {
		log.Fatalf("Failed to create REST handler: %v", err)
	}

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:    addr,
		Handler: handler.Router(),
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	gameSvc.Close()

	log.Println("Server has been shut down")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
