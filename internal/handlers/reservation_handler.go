package handlers

import (
	"errors"
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/services"
)

type ReservationHandler struct {
	Service *services.ReservationService
}

func (h *ReservationHandler) QuoteReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	q, err := h.Service.Quote(req)
	if err != nil {
		writeServiceError(w, "QuoteReservation", err, "Failed to price reservation")
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req models.ReservationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if caller, ok := IdentityFrom(r.Context()); ok && caller.Role == models.RoleRenter {
		if req.UserID == 0 {
			req.UserID = caller.UserID
		}
		if req.UserID != caller.UserID {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	res, err := h.Service.CreateReservation(r.Context(), r.Header.Get("Idempotency-Key"), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, res)
	case errors.Is(err, models.ErrNoRecord):
		writeError(w, http.StatusBadRequest, "Parking lot not found")
	default:
		writeServiceError(w, "CreateReservation", err, "Error creating reservation")
	}
}
