package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jfmyers9/spotlight/internal/catalog"
	"github.com/jfmyers9/spotlight/internal/config"
	"github.com/jfmyers9/spotlight/internal/history"
	"github.com/jfmyers9/spotlight/internal/session"
	"github.com/rs/zerolog"
)

var errNotLoggedIn = errors.New("not logged in: run 'spotlight auth'")

// explain turns errors the user can act on into a readable message.
func explain(err error) error {
	if errors.Is(err, catalog.ErrUnauthorized) ||
		errors.Is(err, session.ErrNoToken) ||
		errors.Is(err, session.ErrExpired) {
		return errNotLoggedIn
	}

	var catErr *catalog.Error
	if errors.As(err, &catErr) && catErr.Temporary() {
		return fmt.Errorf("%w (Spotify is busy or unavailable, try again later)", err)
	}

	return err
}

func sessionFile() (string, error) {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return "", fmt.Errorf("failed to get data directory: %w", err)
	}
	return filepath.Join(dataDir, "session.json"), nil
}

func historyDB() (string, error) {
	dataDir, err := config.GetDataDir()
	if err != nil {
		return "", fmt.Errorf("failed to get data directory: %w", err)
	}
	return filepath.Join(dataDir, "history.db"), nil
}

// openCatalog restores the saved session and returns a catalog client
// that authorizes with it.
func openCatalog(logger zerolog.Logger) (*catalog.Client, error) {
	path, err := sessionFile()
	if err != nil {
		return nil, err
	}

	sess, err := session.New(path)
	if err != nil {
		// A corrupt session file is the same as no session
		logger.Warn().Err(err).Str("path", path).Msg("Failed to restore session")
	}
	if !sess.LoggedIn() {
		return nil, errNotLoggedIn
	}

	logger.Debug().Time("expiry", sess.Expiry()).Msg("Restored session")

	return catalog.New(catalog.Config{
		Tokens: sess,
		Logger: logger,
	})
}

func openHistory() (*history.Store, error) {
	path, err := historyDB()
	if err != nil {
		return nil, err
	}

	store, err := history.NewStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}
