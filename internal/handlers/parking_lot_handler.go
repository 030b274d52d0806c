package handlers

import (
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/services"
)

type ParkingLotHandler struct {
	Service *services.ReservationService
}

func (h *ParkingLotHandler) GetParkingLot(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid parking lot ID")
		return
	}
	lot, err := h.Service.GetParkingLot(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetParkingLot", err, "Failed to get parking lot")
		return
	}
	writeJSON(w, http.StatusOK, lot)
}
