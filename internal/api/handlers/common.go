// Package handlers contains the HTTP handlers for the client CRUD and
// calendar proxy routes.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/faz-ai-biz/secretaria/internal/logging"
	"github.com/faz-ai-biz/secretaria/internal/version"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSONBody(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	if id := logging.GetRequestID(r.Context()); id != "" {
		log.Printf("[%s] %s %s -> %d: %s", id, r.Method, r.URL.Path, status, msg)
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

// HealthHandler reports liveness and the build version.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
		})
	}
}
