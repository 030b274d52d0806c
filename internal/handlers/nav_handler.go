package handlers

import (
	"net/http"

	"github.com/ChanaPCN/parkify-app/internal/nav"
)

type NavHandler struct{}

// GetNav returns the bottom navigation for ?role= (defaults to the caller's
// role) with the entry for ?path= marked active.
func (h *NavHandler) GetNav(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")
	if role == "" {
		if caller, ok := IdentityFrom(r.Context()); ok {
			role = caller.Role
		}
	}
	entries, err := nav.Entries(role, r.URL.Query().Get("path"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unknown role")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
