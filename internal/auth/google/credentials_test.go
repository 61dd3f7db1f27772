package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func validBlob(tokenURI string) []byte {
	return []byte(fmt.Sprintf(`{
		"token": "access-old",
		"refresh_token": "refresh-1",
		"token_uri": %q,
		"client_id": "cid",
		"client_secret": "csecret",
		"scopes": ["https://www.googleapis.com/auth/calendar"]
	}`, tokenURI))
}

func TestParseCredentials(t *testing.T) {
	creds, err := ParseCredentials(validBlob("https://oauth2.googleapis.com/token"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if creds.Token != "access-old" || creds.RefreshToken != "refresh-1" || creds.ClientID != "cid" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestParseCredentialsMalformed(t *testing.T) {
	if _, err := ParseCredentials([]byte(`{"token":`)); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestParseCredentialsMissingFields(t *testing.T) {
	cases := map[string]string{
		"missing token":         `{"token_uri":"u","client_id":"i","client_secret":"s"}`,
		"missing token_uri":     `{"token":"t","client_id":"i","client_secret":"s"}`,
		"missing client_id":     `{"token":"t","token_uri":"u","client_secret":"s"}`,
		"missing client_secret": `{"token":"t","token_uri":"u","client_id":"i"}`,
	}
	for name, blob := range cases {
		if _, err := ParseCredentials([]byte(blob)); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestRefreshSkippedWhenNotExpired(t *testing.T) {
	creds, err := ParseCredentials(validBlob("http://127.0.0.1:1/token"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	expiry := time.Now().Add(time.Hour).Format(time.RFC3339)
	refreshed, newExpiry, err := creds.Refresh(context.Background(), expiry)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed || newExpiry != expiry {
		t.Fatalf("expected no-op, got refreshed=%v expiry=%q", refreshed, newExpiry)
	}
}

func TestRefreshSkippedWithoutRefreshToken(t *testing.T) {
	blob := []byte(`{"token":"t","token_uri":"http://127.0.0.1:1/token","client_id":"i","client_secret":"s"}`)
	creds, err := ParseCredentials(blob)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	expired := time.Now().Add(-time.Hour).Format(time.RFC3339)
	refreshed, _, err := creds.Refresh(context.Background(), expired)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed {
		t.Fatal("refresh without refresh token should be a no-op")
	}
}

func TestRefreshUnparsableExpiryTreatedAsNonExpiring(t *testing.T) {
	creds, err := ParseCredentials(validBlob("http://127.0.0.1:1/token"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	refreshed, newExpiry, err := creds.Refresh(context.Background(), "2024-12-31")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed || newExpiry != "2024-12-31" {
		t.Fatalf("expected no-op for unparsable expiry, got refreshed=%v expiry=%q", refreshed, newExpiry)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("unexpected grant_type %q", got)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh-1" {
			t.Errorf("unexpected refresh_token %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-new",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	}))
	defer tokenServer.Close()

	creds, err := ParseCredentials(validBlob(tokenServer.URL + "/token"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	expired := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	refreshed, newExpiry, err := creds.Refresh(context.Background(), expired)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !refreshed {
		t.Fatal("expected refresh to happen")
	}
	if creds.Token != "access-new" {
		t.Fatalf("token not renewed: %q", creds.Token)
	}
	if creds.RefreshToken != "refresh-1" {
		t.Fatalf("refresh token should be kept when not reissued: %q", creds.RefreshToken)
	}
	got, err := time.Parse(time.RFC3339, newExpiry)
	if err != nil {
		t.Fatalf("new expiry not RFC3339: %q", newExpiry)
	}
	if !got.After(time.Now()) {
		t.Fatalf("new expiry should be in the future: %v", got)
	}

	// The renewed blob round-trips through Marshal/Parse.
	blob, err := creds.Marshal()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	again, err := ParseCredentials(blob)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if again.Token != "access-new" {
		t.Fatalf("blob round-trip lost renewed token: %q", again.Token)
	}
}

func TestRefreshUpstreamFailure(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	defer tokenServer.Close()

	creds, err := ParseCredentials(validBlob(tokenServer.URL + "/token"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	expired := time.Now().Add(-time.Hour).Format(time.RFC3339)
	refreshed, _, err := creds.Refresh(context.Background(), expired)
	if err == nil {
		t.Fatal("expected error from token endpoint")
	}
	if refreshed {
		t.Fatal("failed refresh must not report success")
	}
	if !strings.Contains(err.Error(), "refresh credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.Token != "access-old" {
		t.Fatalf("failed refresh must not mutate blob: %q", creds.Token)
	}
}
