package google

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/faz-ai-biz/secretaria/internal/config"
	"github.com/faz-ai-biz/secretaria/internal/db"
)

// HandleAuthorize starts the authorization flow for a client. It returns
// the Google consent URL plus a state token the caller relays through the
// callback.
func HandleAuthorize(database *gorm.DB, gcfg config.GoogleConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := chi.URLParam(r, "email")
		if _, err := db.GetClientByEmail(database, email); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "client not found"})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		state := uuid.New().String()
		url := OAuthConfig(gcfg).AuthCodeURL(state,
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("include_granted_scopes", "true"),
		)

		writeJSON(w, http.StatusOK, map[string]string{
			"authorization_url": url,
			"state":             state,
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
