// Package rest serves the HTTP API: health, Mapillary proxy endpoints,
// recent match history, room QR codes and the websocket mount.
package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/geonobo/geonobo/internal/locations"
	matchRepo "github.com/geonobo/geonobo/internal/repositories/match"
	"github.com/geonobo/geonobo/internal/services/game"
)

// Config holds the configuration for the REST handler
type Config struct {
	// GameService answers room lookups
	GameService game.Service

	// MapillaryClient proxies Graph API calls for the web client
	MapillaryClient *locations.Client

	// LocationProvider samples random panoramas
	LocationProvider locations.Provider

	// MatchRepo serves completed-match history
	MatchRepo matchRepo.Repository

	// WebsocketHandler is mounted at /ws
	WebsocketHandler http.HandlerFunc

	// PublicURL is the externally reachable base URL, used in QR codes
	PublicURL string
}

// Handler is the HTTP API surface.
type Handler struct {
	config *Config
}

// New creates a new REST handler
func New(cfg *Config) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.GameService == nil {
		return nil, errors.New("game service cannot be nil")
	}
	if cfg.MapillaryClient == nil {
		return nil, errors.New("mapillary client cannot be nil")
	}
	if cfg.LocationProvider == nil {
		return nil, errors.New("location provider cannot be nil")
	}
	if cfg.MatchRepo == nil {
		return nil, errors.New("match repository cannot be nil")
	}
	if cfg.WebsocketHandler == nil {
		return nil, errors.New("websocket handler cannot be nil")
	}
	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:8080"
	}

	return &Handler{config: cfg}, nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[rest] response encode failed: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
