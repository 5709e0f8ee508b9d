package rest

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// Router builds the full HTTP surface with CORS applied.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	r.Use(corsMiddleware)

	r.HandleFunc("/", h.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/api/mapillary/token", h.handleExchangeToken).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/mapillary/fallback-image", h.handleFallbackImage).Methods(http.MethodGet)
	r.HandleFunc("/api/mapillary/panorama-near", h.handlePanoramaNear).Methods(http.MethodGet)
	r.HandleFunc("/api/mapillary/panorama-by-region", h.handlePanoramaByRegion).Methods(http.MethodGet)
	r.HandleFunc("/api/mapillary/validate-image", h.handleValidateImage).Methods(http.MethodGet)

	r.HandleFunc("/api/matches/recent", h.handleRecentMatches).Methods(http.MethodGet)
	r.HandleFunc("/api/rooms/{roomId}/qr", h.handleRoomQR).Methods(http.MethodGet)

	r.HandleFunc("/ws", h.config.WebsocketHandler)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type")

		// Websocket upgrades bypass the preflight handling.
		if strings.ToLower(r.Header.Get("Upgrade")) == "websocket" {
			next.ServeHTTP(w, r)
			return
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
