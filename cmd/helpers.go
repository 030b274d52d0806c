package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
)

func (app *application) serverError(w http.ResponseWriter, err error) {
	trace := fmt.Sprintf("%s\n%s", err.Error(), debug.Stack())
	app.errorLog.Output(2, trace)
	app.clientError(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

func (app *application) clientError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (app *application) healthz(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if app.db != nil {
		if err := app.db.PingContext(r.Context()); err != nil {
			app.errorLog.Printf("healthz: database ping: %v", err)
			status = http.StatusServiceUnavailable
			body["status"] = "database unavailable"
		}
	}
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
