package handlers

import (
	"errors"
	"net/http"
	"strconv"
)

var errInvalidID = errors.New("invalid id")

// getParam returns a path or query parameter value regardless of whether
// the router stores it with a leading colon or not.
func getParam(r *http.Request, name string) string {
	if r == nil {
		return ""
	}

	if val := r.URL.Query().Get(":" + name); val != "" {
		return val
	}

	if val := r.URL.Query().Get(name); val != "" {
		return val
	}

	return r.PathValue(name)
}

// parseID reads a positive integer identifier.
func parseID(r *http.Request, name string) (int, error) {
	raw := getParam(r, name)
	if raw == "" {
		return 0, errInvalidID
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}
