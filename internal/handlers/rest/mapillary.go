package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/geonobo/geonobo/internal/locations"
)

const nearHalfWidthDegrees = 0.5

type exchangeTokenRequest struct {
	Code string `json:"code"`
}

// handleExchangeToken swaps an OAuth authorization code for a user
// access token. The client secret never leaves the server.
func (h *Handler) handleExchangeToken(w http.ResponseWriter, r *http.Request) {
	var req exchangeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Code == "" {
		h.writeError(w, http.StatusBadRequest, "missing authorization code")
		return
	}

	token, err := h.config.MapillaryClient.ExchangeToken(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "token exchange failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(token)
}

// handleFallbackImage returns a random panorama for clients that lost
// their round target.
func (h *Handler) handleFallbackImage(w http.ResponseWriter, r *http.Request) {
	out, err := h.config.LocationProvider.FetchLocation(r.Context(), &locations.FetchLocationInput{
		Region: r.URL.Query().Get("region"),
	})
	if err != nil {
		h.writeLocationError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, out.Location)
}

// handlePanoramaNear finds a panorama close to a given coordinate.
func (h *Handler) handlePanoramaNear(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		h.writeError(w, http.StatusBadRequest, "lat and lng are required and must be valid coordinates")
		return
	}

	bbox := fmt.Sprintf("%f,%f,%f,%f",
		lng-nearHalfWidthDegrees, lat-nearHalfWidthDegrees,
		lng+nearHalfWidthDegrees, lat+nearHalfWidthDegrees)

	images, err := h.config.MapillaryClient.SearchImages(r.Context(), &locations.SearchImagesParams{
		BBox:        bbox,
		Pano:        true,
		Limit:       10,
		AccessToken: query.Get("token"),
	})
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "image search failed")
		return
	}
	if len(images) == 0 {
		h.writeError(w, http.StatusNotFound, "no panorama found near this point")
		return
	}

	detail, err := h.config.MapillaryClient.GetImageDetail(r.Context(), images[0].ID, query.Get("token"))
	if err != nil {
		h.writeError(w, http.StatusBadGateway, "image lookup failed")
		return
	}

	geometry := detail.BestGeometry()
	if geometry == nil {
		h.writeError(w, http.StatusNotFound, "panorama has no usable coordinates")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"imageId": detail.ID,
		"lat":     geometry.Coordinates[1],
		"lng":     geometry.Coordinates[0],
	})
}

// handlePanoramaByRegion samples a panorama from a named preset area.
func (h *Handler) handlePanoramaByRegion(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		h.writeError(w, http.StatusBadRequest, "region is required")
		return
	}

	out, err := h.config.LocationProvider.FetchLocation(r.Context(), &locations.FetchLocationInput{
		Region: region,
	})
	if err != nil {
		h.writeLocationError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, out.Location)
}

// handleValidateImage checks an image exists and carries coordinates.
func (h *Handler) handleValidateImage(w http.ResponseWriter, r *http.Request) {
	imageID := r.URL.Query().Get("imageId")
	if imageID == "" {
		h.writeError(w, http.StatusBadRequest, "imageId is required")
		return
	}

	detail, err := h.config.MapillaryClient.GetImageDetail(r.Context(), imageID, r.URL.Query().Get("token"))
	if err != nil {
		h.writeError(w, http.StatusNotFound, "image not found")
		return
	}

	geometry := detail.BestGeometry()
	if geometry == nil {
		h.writeError(w, http.StatusNotFound, "image has no usable coordinates")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"imageId": detail.ID,
		"isPano":  detail.IsPano,
		"lat":     geometry.Coordinates[1],
		"lng":     geometry.Coordinates[0],
	})
}

func (h *Handler) writeLocationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, locations.ErrUnknownRegion):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, locations.ErrNoImagery):
		h.writeError(w, http.StatusNotFound, err.Error())
	default:
		h.writeError(w, http.StatusBadGateway, "panorama fetch failed")
	}
}
