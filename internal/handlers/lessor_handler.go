package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ChanaPCN/parkify-app/internal/models"
	"github.com/ChanaPCN/parkify-app/internal/services"
)

const defaultMaxUploadBytes = 10 << 20

type LessorHandler struct {
	Service        *services.LessorService
	Uploads        *services.UploadService
	MaxUploadBytes int64
}

func (h *LessorHandler) lessorID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid lessor ID")
		return 0, false
	}
	if !canActAs(r, models.RoleLessor, id) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return 0, false
	}
	return id, true
}

func (h *LessorHandler) GetLessor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessorID(w, r)
	if !ok {
		return
	}
	l, err := h.Service.GetLessorByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, "GetLessor", err, "Failed to get lessor")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LessorHandler) UpdateLessor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessorID(w, r)
	if !ok {
		return
	}
	var u models.LessorUpdate
	if err := decodeJSON(r, &u); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	l, err := h.Service.UpdateLessor(r.Context(), id, u)
	if err != nil {
		writeServiceError(w, "UpdateLessor", err, "Failed to update lessor")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LessorHandler) RequestDeleteConfirmation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessorID(w, r)
	if !ok {
		return
	}
	token, err := h.Service.RequestDelete(r.Context(), id)
	if err != nil {
		writeServiceError(w, "RequestDeleteLessor", err, "Failed to prepare delete")
		return
	}
	writeConfirmation(w, token, h.Service.Confirmations)
}

func (h *LessorHandler) DeclineDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessorID(w, r)
	if !ok {
		return
	}
	if err := h.Service.DeclineDelete(r.Context(), id, r.URL.Query().Get("confirm")); err != nil {
		writeServiceError(w, "DeclineDeleteLessor", err, "Failed to cancel delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LessorHandler) DeleteLessor(w http.ResponseWriter, r *http.Request) {
	id, ok := h.lessorID(w, r)
	if !ok {
		return
	}
	err := h.Service.DeleteLessor(r.Context(), id, r.URL.Query().Get("confirm"))
	if errors.Is(err, models.ErrConfirmationRequired) {
		writeError(w, http.StatusPreconditionRequired, "Request a delete confirmation first")
		return
	}
	if err != nil {
		writeServiceError(w, "DeleteLessor", err, "Failed to delete lessor")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UploadImage replaces the lessor's profile picture. The lessor id comes from
// the path; the lessorId form field is read when the path has none.
func (h *LessorHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	maxBytes := h.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "File and lessor ID are required")
		return
	}

	id, err := parseID(r, "id")
	if err != nil {
		id, err = strconv.Atoi(r.FormValue("lessorId"))
	}
	file, header, ferr := r.FormFile("file")
	if err != nil || id <= 0 || ferr != nil {
		writeError(w, http.StatusBadRequest, "File and lessor ID are required")
		return
	}
	defer file.Close()

	if !canActAs(r, models.RoleLessor, id) {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}
	if header.Size > maxBytes {
		writeError(w, http.StatusBadRequest, "File is too large")
		return
	}

	res, err := h.Uploads.ReplaceLessorImage(r.Context(), r.Header.Get("Idempotency-Key"), services.ImageUpload{
		LessorID:     id,
		OldImagePath: r.FormValue("oldImagePath"),
		Filename:     header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Body:         file,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, models.ErrStorageDelete):
		writeServiceError(w, "UploadImage", err, "Error deleting old image")
	case errors.Is(err, models.ErrStorageUpload):
		writeServiceError(w, "UploadImage", err, "Error uploading file")
	default:
		writeServiceError(w, "UploadImage", err, "Error uploading file or saving metadata")
	}
}
