package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/faz-ai-biz/secretaria/internal/db"
)

const defaultListLimit = 100

// clientBody is the request payload for creating or updating a client.
// Both fields are optional; for updates, absent fields are left untouched.
type clientBody struct {
	Credentials *json.RawMessage `json:"credentials"`
	Expiry      *string          `json:"expiry"`
}

func decodeClientBody(r *http.Request) (clientBody, error) {
	var body clientBody
	err := json.NewDecoder(r.Body).Decode(&body)
	if err != nil && !errors.Is(err, io.EOF) {
		// An empty body is allowed; credentials arrive later via OAuth.
		return clientBody{}, err
	}
	return body, nil
}

// CreateClientHandler registers a new client keyed by email.
func CreateClientHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if _, err := mail.ParseAddress(email); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid email address")
			return
		}

		body, err := decodeClientBody(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		var credentials json.RawMessage
		if body.Credentials != nil {
			credentials = *body.Credentials
		}
		expiry := ""
		if body.Expiry != nil {
			expiry = *body.Expiry
		}

		client, err := db.CreateClient(database, email, credentials, expiry)
		if err != nil {
			if errors.Is(err, db.ErrDuplicateEmail) {
				writeError(w, r, http.StatusConflict, "email already registered")
				return
			}
			writeError(w, r, http.StatusBadRequest, "failed to create client")
			return
		}

		writeJSON(w, http.StatusCreated, client)
	}
}

// GetClientHandler returns a single client by email.
func GetClientHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := db.GetClientByEmail(database, chi.URLParam(r, "email"))
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "client not found")
				return
			}
			writeError(w, r, http.StatusBadRequest, "failed to load client")
			return
		}
		writeJSON(w, http.StatusOK, client)
	}
}

// ListClientsHandler returns clients with skip/limit paging.
func ListClientsHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skip, ok := queryInt(r, "skip", 0)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "skip must be a non-negative integer")
			return
		}
		limit, ok := queryInt(r, "limit", defaultListLimit)
		if !ok {
			writeError(w, r, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}

		clients, err := db.ListClients(database, skip, limit)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "failed to list clients")
			return
		}
		writeJSON(w, http.StatusOK, clients)
	}
}

// UpdateClientHandler applies a partial update to the mutable client
// fields. PUT and PATCH behave identically.
func UpdateClientHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeClientBody(r)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid request body")
			return
		}

		patch := db.ClientPatch{Credentials: body.Credentials, Expiry: body.Expiry}
		client, err := db.UpdateClient(database, chi.URLParam(r, "email"), patch)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "client not found")
				return
			}
			writeError(w, r, http.StatusBadRequest, "failed to update client")
			return
		}
		writeJSON(w, http.StatusOK, client)
	}
}

// DeleteClientHandler removes a client.
func DeleteClientHandler(database *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.DeleteClient(database, chi.URLParam(r, "email")); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "client not found")
				return
			}
			writeError(w, r, http.StatusBadRequest, "failed to delete client")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func queryInt(r *http.Request, key string, def int) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
