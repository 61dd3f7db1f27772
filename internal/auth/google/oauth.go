// Package google implements the Google Calendar OAuth flow: building
// authorization URLs, exchanging authorization codes and refreshing stored
// credentials.
package google

import (
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"

	"github.com/faz-ai-biz/secretaria/internal/config"
)

// CalendarScope grants read/write access to the user's calendars.
const CalendarScope = "https://www.googleapis.com/auth/calendar"

// Scopes requested during authorization.
var Scopes = []string{CalendarScope}

// OAuthConfig builds the oauth2 config from the injected application
// configuration. Endpoint URLs fall back to Google's when not overridden.
func OAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	endpoint := googleoauth.Endpoint
	if cfg.AuthURL != "" {
		endpoint.AuthURL = cfg.AuthURL
	}
	if cfg.TokenURL != "" {
		endpoint.TokenURL = cfg.TokenURL
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       Scopes,
		Endpoint:     endpoint,
	}
}
