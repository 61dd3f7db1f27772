package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// Credentials is the OAuth token material stored on a client record. It is
// serialized to JSON as the client's credentials blob.
type Credentials struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenURI     string   `json:"token_uri"`
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	Scopes       []string `json:"scopes,omitempty"`
}

// NewCredentials builds a credentials blob from a freshly exchanged token.
func NewCredentials(conf *oauth2.Config, tok *oauth2.Token) *Credentials {
	return &Credentials{
		Token:        tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       conf.Scopes,
	}
}

// ParseCredentials decodes and validates a stored credentials blob.
// Missing required fields are an error rather than a partially-populated
// value.
func ParseCredentials(raw []byte) (*Credentials, error) {
	var c Credentials
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("malformed credentials: %w", err)
	}
	switch {
	case c.Token == "":
		return nil, errors.New("credentials missing token")
	case c.TokenURI == "":
		return nil, errors.New("credentials missing token_uri")
	case c.ClientID == "":
		return nil, errors.New("credentials missing client_id")
	case c.ClientSecret == "":
		return nil, errors.New("credentials missing client_secret")
	}
	return &c, nil
}

// Marshal serializes the credentials back into a storable blob.
func (c *Credentials) Marshal() (json.RawMessage, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal credentials: %w", err)
	}
	return raw, nil
}

// TokenSource returns a static token source for the current access token.
// Refresh is handled explicitly via Refresh so the caller can persist the
// renewed blob.
func (c *Credentials) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token})
}

// Refresh renews the access token when the expiry marker is in the past and
// a refresh token is available. It updates the credentials in place and
// reports whether a refresh happened plus the new expiry marker. The
// adapter owns no storage; callers persist the updated blob.
//
// Expiry markers that do not parse as RFC 3339 are treated as non-expiring,
// matching the string-typed expiry column.
func (c *Credentials) Refresh(ctx context.Context, expiry string) (bool, string, error) {
	tok := &oauth2.Token{
		AccessToken:  c.Token,
		RefreshToken: c.RefreshToken,
	}
	if t, err := time.Parse(time.RFC3339, expiry); err == nil {
		tok.Expiry = t
	}

	if tok.Valid() || c.RefreshToken == "" {
		return false, expiry, nil
	}

	conf := &oauth2.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		Scopes:       c.Scopes,
		Endpoint:     oauth2.Endpoint{TokenURL: c.TokenURI},
	}

	fresh, err := conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return false, expiry, fmt.Errorf("refresh credentials: %w", err)
	}

	c.Token = fresh.AccessToken
	if fresh.RefreshToken != "" {
		c.RefreshToken = fresh.RefreshToken
	}

	newExpiry := expiry
	if !fresh.Expiry.IsZero() {
		newExpiry = fresh.Expiry.UTC().Format(time.RFC3339)
	}
	return true, newExpiry, nil
}
