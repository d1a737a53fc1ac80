package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jfmyers9/spotlight/internal/auth"
	"github.com/jfmyers9/spotlight/internal/config"
	"github.com/jfmyers9/spotlight/internal/session"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

// loginTimeout bounds how long auth waits for the browser redirect.
const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Log in to Spotify",
	Long: `Log in to Spotify so spotlight can read your top artists and tracks.

This command will guide you through the login:
1. A browser URL will be printed for you to authorize spotlight
2. After authorizing, Spotify redirects back to the configured redirect URI
3. spotlight picks up the access token and saves it until it expires

By default spotlight listens on the redirect URI to receive the token.
With --paste, copy the address of the page you were redirected to and
paste it instead.

Pass --client-id once (it is saved to ~/.config/spotlight/config.yaml), or
set client_id there or in SPOTLIGHT_CLIENT_ID. It is the id of an
application registered at https://developer.spotify.com/dashboard with the
redirect URI added to its settings.`,
	RunE: runAuth,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved Spotify login",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(logoutCmd)

	authCmd.Flags().Bool("paste", false, "Paste the redirected URL instead of listening for it")
	authCmd.Flags().String("client-id", "", "Spotify application client id (saved to config)")
}

func runAuth(cmd *cobra.Command, args []string) error {
	logger := setupLogger(logFile, logLevel)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	clientID, _ := cmd.Flags().GetString("client-id")
	if clientID != "" {
		if err := saveClientID(cfg, clientID); err != nil {
			return err
		}
		fmt.Printf("✓ Client id saved to %s/config.yaml\n\n", config.GetConfigDir())
	}

	if cfg.ClientID == "" {
		return fmt.Errorf("client_id is not set: pass --client-id, add it to %s/config.yaml or set SPOTLIGHT_CLIENT_ID",
			config.GetConfigDir())
	}

	path, err := sessionFile()
	if err != nil {
		return err
	}

	state := auth.NewState()
	authURL := auth.AuthorizeURL(cfg.ClientID, cfg.RedirectURI, state, auth.ScopeUserTopRead)

	paste, _ := cmd.Flags().GetBool("paste")

	var token *oauth2.Token
	if paste {
		token, err = pasteToken(authURL, state)
	} else {
		token, err = listenForToken(cmd.Context(), authURL, cfg.RedirectURI, state, logger)
	}
	if err != nil {
		return err
	}

	// Start from an empty session: the saved one is being replaced
	sess := session.Begin(path)
	if err := sess.Establish(token); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	fmt.Printf("\n✓ Logged in!\n")
	if expiry := sess.Expiry(); !expiry.IsZero() {
		fmt.Printf("✓ Session saved to %s (valid until %s)\n", path, expiry.Format(time.Kitchen))
	} else {
		fmt.Printf("✓ Session saved to %s\n", path)
	}
	fmt.Println("\nTry 'spotlight top artists'.")

	return nil
}

// saveClientID stores clientID in cfg and writes the config file
func saveClientID(cfg *config.Config, clientID string) error {
	cfg.ClientID = strings.TrimSpace(clientID)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

func listenForToken(ctx context.Context, authURL, redirectURI, state string, logger zerolog.Logger) (*oauth2.Token, error) {
	listener, err := auth.Listen(redirectURI, state, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s (try --paste): %w", redirectURI, err)
	}
	defer func() { _ = listener.Close() }()

	fmt.Println("Please visit this URL to log in to Spotify:")
	fmt.Printf("\n  %s\n\n", authURL)
	fmt.Printf("Waiting for the redirect to %s ...\n", redirectURI)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, loginTimeout)
	defer cancel()

	token, err := listener.Wait(ctx)
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return token, nil
}

func pasteToken(authURL, state string) (*oauth2.Token, error) {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("Please visit this URL to log in to Spotify:")
	fmt.Printf("\n  %s\n\n", authURL)
	fmt.Print("Paste the address of the page you were redirected to: ")

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("failed to read redirected URL: %w", err)
	}

	params := auth.ParseFragment(auth.FragmentOf(strings.TrimSpace(line)))
	token, err := auth.TokenFromParams(params, state, time.Now())
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}
	return token, nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	path, err := sessionFile()
	if err != nil {
		return err
	}

	if err := session.Begin(path).Clear(); err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	fmt.Println("✓ Logged out")
	return nil
}
