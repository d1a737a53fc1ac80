package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"
)

var (
	// ErrNoToken is returned when no token has been established.
	ErrNoToken = errors.New("session: no access token")

	// ErrExpired is returned when the held token is past its expiry.
	ErrExpired = errors.New("session: access token expired")

	// ErrAlreadyEstablished is returned when a token is established twice
	// in the same process.
	ErrAlreadyEstablished = errors.New("session: already established")
)

// Session holds the process-wide access token.
//
// The token is written once, either restored from disk in New or set by
// Establish, and then only read. Session implements oauth2.TokenSource so
// it can be handed to anything that attaches the token to requests.
type Session struct {
	mu       sync.RWMutex
	token    *oauth2.Token
	filePath string // Path to session file for persistence

	now func() time.Time
}

// persistedSession is the JSON representation of a session on disk
type persistedSession struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	Expiry      time.Time `json:"expiry,omitempty"`
}

var _ oauth2.TokenSource = (*Session)(nil)

// New creates a Session.
// If filePath is provided, attempts to restore an earlier token from disk.
// A missing file or an expired token is not an error; the session simply
// starts empty.
func New(filePath string) (*Session, error) {
	s := Begin(filePath)

	if filePath != "" {
		if err := s.restore(); err != nil && !os.IsNotExist(err) {
			return s, err
		}
	}

	return s, nil
}

// Begin creates an empty Session that persists to filePath without
// restoring what is already there. It is used when logging in again.
func Begin(filePath string) *Session {
	return &Session{
		filePath: filePath,
		now:      time.Now,
	}
}

// Establish stores tok as the session's token and persists it.
func (s *Session) Establish(tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return ErrNoToken
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil {
		return ErrAlreadyEstablished
	}

	copied := *tok
	s.token = &copied

	return s.persist()
}

// Token returns a copy of the held token.
// It fails with ErrNoToken when none is set and ErrExpired when the token
// is past its expiry.
func (s *Session) Token() (*oauth2.Token, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return nil, ErrNoToken
	}
	if !s.token.Expiry.IsZero() && !s.now().Before(s.token.Expiry) {
		return nil, ErrExpired
	}

	copied := *s.token
	return &copied, nil
}

// LoggedIn reports whether the session holds a usable token.
func (s *Session) LoggedIn() bool {
	_, err := s.Token()
	return err == nil
}

// Expiry returns the token's expiry, or the zero time if there is no token
// or it does not expire.
func (s *Session) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == nil {
		return time.Time{}
	}
	return s.token.Expiry
}

// Clear removes the persisted session file. The in-memory token is left
// untouched since it is written once per process.
func (s *Session) Clear() error {
	if s.filePath == "" {
		return nil
	}
	if err := os.Remove(s.filePath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// persist saves the token to disk
// Must be called with lock held
func (s *Session) persist() error {
	if s.filePath == "" {
		return nil // No persistence configured
	}

	ps := persistedSession{
		AccessToken: s.token.AccessToken,
		TokenType:   s.token.TokenType,
		Expiry:      s.token.Expiry,
	}

	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	// Write atomically via temp file + rename
	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.filePath)
}

// restore loads the token from disk
func (s *Session) restore() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var ps persistedSession
	if err := json.Unmarshal(data, &ps); err != nil {
		return err
	}
	if ps.AccessToken == "" {
		return nil
	}
	if !ps.Expiry.IsZero() && !s.now().Before(ps.Expiry) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = &oauth2.Token{
		AccessToken: ps.AccessToken,
		TokenType:   ps.TokenType,
		Expiry:      ps.Expiry,
	}

	return nil
}
