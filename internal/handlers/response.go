package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/models"
)

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps sentinel errors to status codes. Anything unknown is
// logged under op and reported as fallback with a 500.
func writeServiceError(w http.ResponseWriter, op string, err error, fallback string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		resp := errorResponse{Error: verr.Messages[0]}
		if len(verr.Messages) > 1 {
			resp.Errors = verr.Messages
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, models.ErrNoRecord):
		writeError(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, models.ErrConflict):
		writeError(w, http.StatusConflict, "Record was changed by someone else, reload and try again")
	case errors.Is(err, models.ErrIdempotencyInFlight):
		writeError(w, http.StatusConflict, "A request with this Idempotency-Key is still in progress")
	case errors.Is(err, models.ErrConfirmationRequired):
		writeError(w, http.StatusPreconditionRequired, "Delete must be confirmed")
	case errors.Is(err, models.ErrStillReferenced):
		writeError(w, http.StatusConflict, "Record is still in use and cannot be deleted")
	case errors.Is(err, models.ErrForeignKey):
		writeError(w, http.StatusBadRequest, "Referenced record does not exist")
	case errors.Is(err, models.ErrUnsupportedUserType):
		writeError(w, http.StatusBadRequest, "Unsupported user type")
	default:
		log.Printf("%s error: %v", op, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
