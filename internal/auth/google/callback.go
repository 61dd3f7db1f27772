package google

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/faz-ai-biz/secretaria/internal/config"
	"github.com/faz-ai-biz/secretaria/internal/db"
)

// HandleCallback exchanges the authorization code for tokens and persists
// them on the client record. The state parameter is relayed by the caller
// but not checked against server-side storage; the client record is the
// only state this flow keeps.
func HandleCallback(database *gorm.DB, gcfg config.GoogleConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		email := r.URL.Query().Get("email")
		if code == "" || email == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "code and email are required"})
			return
		}

		if _, err := db.GetClientByEmail(database, email); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "client not found"})
				return
			}
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		conf := OAuthConfig(gcfg)
		tok, err := conf.Exchange(r.Context(), code)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("token exchange failed: %v", err),
			})
			return
		}

		blob, err := NewCredentials(conf, tok).Marshal()
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		expiry := ""
		if !tok.Expiry.IsZero() {
			expiry = tok.Expiry.UTC().Format(time.RFC3339)
		}
		if _, err := db.UpdateClient(database, email, db.ClientPatch{Credentials: &blob, Expiry: &expiry}); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to save credentials"})
			return
		}

		log.Printf("calendar authorization completed for %s", email)
		writeJSON(w, http.StatusOK, map[string]string{"message": "authorization completed"})
	}
}
