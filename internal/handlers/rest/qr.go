package rest

import (
	"fmt"
	"log"
	"net/http"

	"github.com/geonobo/geonobo/internal/services/game"
	"github.com/gorilla/mux"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePixels = 256

// handleRoomQR renders a join link for an existing room as a QR PNG.
func (h *Handler) handleRoomQR(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]

	if _, err := h.config.GameService.GetRoom(r.Context(), &game.GetRoomInput{RoomID: roomID}); err != nil {
		if err == game.ErrRoomNotFound {
			h.writeError(w, http.StatusNotFound, "room not found")
			return
		}
		h.writeError(w, http.StatusInternalServerError, "room lookup failed")
		return
	}

	joinURL := fmt.Sprintf("%s/join/%s", h.config.PublicURL, roomID)
	png, err := qrcode.Encode(joinURL, qrcode.Medium, qrSizePixels)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, "QR generation failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		log.Printf("[rest] QR write failed room=%s: %v", roomID, err)
	}
}
