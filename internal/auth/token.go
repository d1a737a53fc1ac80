package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// DefaultAuthURL is the catalog service's authorization endpoint.
	DefaultAuthURL = "https://accounts.spotify.com/authorize"

	// ScopeUserTopRead grants access to the user's ranked artists and tracks.
	ScopeUserTopRead = "user-top-read"
)

var (
	// ErrNoAccessToken is returned when a fragment carries no access_token.
	// Callers treat the session as unauthenticated.
	ErrNoAccessToken = errors.New("auth: no access_token in fragment")

	// ErrStateMismatch is returned when the fragment's state does not match
	// the nonce sent with the authorization request.
	ErrStateMismatch = errors.New("auth: state mismatch")

	// ErrDenied is returned when the identity provider reports an error
	// instead of a token (for example, the user declined).
	ErrDenied = errors.New("auth: authorization denied")
)

// NewState returns a random nonce for the authorization request's state
// parameter.
func NewState() string {
	return uuid.NewString()
}

// AuthorizeURL builds the implicit-grant URL the user visits to log in.
// The identity provider redirects back to redirectURI with the token in
// the URL fragment.
func AuthorizeURL(clientID, redirectURI, state string, scopes ...string) string {
	if len(scopes) == 0 {
		scopes = []string{ScopeUserTopRead}
	}

	cfg := oauth2.Config{
		ClientID:    clientID,
		RedirectURL: redirectURI,
		Scopes:      scopes,
		Endpoint:    oauth2.Endpoint{AuthURL: DefaultAuthURL},
	}

	return cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))
}

// TokenFromParams builds a token from parsed fragment parameters.
//
// wantState is compared against the "state" parameter when non-empty.
// expires_in, when present and numeric, sets the token's expiry relative
// to now. No other validation is done; the token is opaque here.
func TokenFromParams(params map[string]string, wantState string, now time.Time) (*oauth2.Token, error) {
	if reason, ok := params["error"]; ok {
		return nil, fmt.Errorf("%w: %s", ErrDenied, reason)
	}

	if wantState != "" && params["state"] != wantState {
		return nil, ErrStateMismatch
	}

	accessToken, ok := params[AccessTokenKey]
	if !ok || accessToken == "" {
		return nil, ErrNoAccessToken
	}

	tok := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}
	if tt := params["token_type"]; tt != "" {
		tok.TokenType = tt
	}
	if s := params["expires_in"]; s != "" {
		if secs, err := strconv.Atoi(s); err == nil && secs > 0 {
			tok.Expiry = now.Add(time.Duration(secs) * time.Second)
		}
	}

	return tok, nil
}
