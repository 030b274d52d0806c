package handlers

import (
	"errors"
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/services"
)

type ComplaintHandler struct {
	Service *services.ComplaintService
}

func (h *ComplaintHandler) SubmitLessorComplaint(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RoleLessor)
}

func (h *ComplaintHandler) SubmitRenterComplaint(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RoleRenter)
}

func (h *ComplaintHandler) submit(w http.ResponseWriter, r *http.Request, role string) {
	var sub models.ComplaintSubmission
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "All fields are required.")
		return
	}
	if sub.SubmitterID == 0 && role == models.RoleLessor {
		sub.SubmitterID = sub.LessorID
	}
	if caller, ok := IdentityFrom(r.Context()); ok && caller.Role == role {
		if sub.SubmitterID == 0 {
			sub.SubmitterID = caller.UserID
		}
		if sub.SubmitterID != caller.UserID {
			writeError(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	id, err := h.Service.SubmitComplaint(r.Context(), role, sub)
	if err != nil {
		writeServiceError(w, "SubmitComplaint", err, "An error occurred while submitting your complaint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Complaint submitted successfully",
		"id":      id,
	})
}

func (h *ComplaintHandler) GetAllComplaints(w http.ResponseWriter, r *http.Request) {
	complaints, err := h.Service.GetAllComplaints(r.Context())
	if err != nil {
		writeServiceError(w, "GetAllComplaints", err, "Failed to get complaints")
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

func (h *ComplaintHandler) GetComplaintByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}
	c, err := h.Service.GetComplaintByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetComplaintByID", err, "Failed to get complaint")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ComplaintHandler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}
	var u models.ComplaintUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	c, err := h.Service.UpdateComplaint(r.Context(), id, u)
	if err != nil {
		writeServiceError(w, "UpdateComplaint", err, "Failed to update complaint")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ComplaintHandler) RequestDeleteConfirmation(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}
	token, err := h.Service.RequestDelete(r.Context(), id)
	if err != nil {
		writeServiceError(w, "RequestDeleteComplaint", err, "Failed to prepare delete")
		return
	}
	writeConfirmation(w, token, h.Service.Confirmations)
}

func (h *ComplaintHandler) DeclineDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}
	if err := h.Service.DeclineDelete(r.Context(), id, r.URL.Query().Get("confirm")); err != nil {
		writeServiceError(w, "DeclineDeleteComplaint", err, "Failed to cancel delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ComplaintHandler) DeleteComplaintByID(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid complaint ID")
		return
	}
	err = h.Service.DeleteComplaintByID(r.Context(), id, r.URL.Query().Get("confirm"))
	if errors.Is(err, models.ErrConfirmationRequired) {
		writeError(w, http.StatusPreconditionRequired, "Request a delete confirmation first")
		return
	}
	if err != nil {
		writeServiceError(w, "DeleteComplaint", err, "Failed to delete complaint")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type confirmationResponse struct {
	Confirm   string `json:"confirm"`
	ExpiresIn int    `json:"expires_in"`
}

func writeConfirmation(w http.ResponseWriter, token string, svc *services.ConfirmationService) {
	writeJSON(w, http.StatusOK, confirmationResponse{
		Confirm:   token,
		ExpiresIn: int(svc.TTL.Seconds()),
	})
}
