package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// maxFragmentBytes bounds the body accepted by the token endpoint.
const maxFragmentBytes = 8 << 10

// callbackPage forwards the fragment to the listener, then replaces the
// location with the root so the token does not remain in history.
const callbackPage = `<!doctype html>
<html>
<head><title>spotlight</title></head>
<body>
<script>
var fragment = window.location.hash.substring(1);
fetch("/token", { method: "POST", body: fragment })
  .finally(function () { window.location.replace("/"); });
</script>
</body>
</html>
`

const donePage = `<!doctype html>
<html>
<head><title>spotlight</title></head>
<body><p>Login complete. You can close this window and return to the terminal.</p></body>
</html>
`

type callbackResult struct {
	token *oauth2.Token
	err   error
}

// Listener serves the redirect URI locally and captures the token the
// identity provider places in the URL fragment.
//
// The fragment never reaches a server, so the callback page posts it back
// to the listener. Only the first delivery counts.
type Listener struct {
	state  string
	logger zerolog.Logger

	ln     net.Listener
	server *http.Server

	once   sync.Once
	result chan callbackResult
}

// Listen starts a listener on the host of redirectURI. The path of
// redirectURI (default "/callback") serves the callback page.
func Listen(redirectURI, state string, logger zerolog.Logger) (*Listener, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid redirect URI %q: missing host", redirectURI)
	}

	callbackPath := u.Path
	if callbackPath == "" || callbackPath == "/" {
		callbackPath = "/callback"
	}

	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", u.Host, err)
	}

	l := &Listener{
		state:  state,
		logger: logger.With().Str("component", "callback").Logger(),
		ln:     ln,
		result: make(chan callbackResult, 1),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+callbackPath, l.handleCallback)
	mux.HandleFunc("POST /token", l.handleToken)
	mux.HandleFunc("GET /{$}", l.handleRoot)

	l.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := l.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error().Err(err).Msg("Callback server error")
			l.deliver(callbackResult{err: err})
		}
	}()

	l.logger.Debug().
		Str("addr", ln.Addr().String()).
		Str("path", callbackPath).
		Msg("Listening for login redirect")

	return l, nil
}

// Addr returns the address the listener is bound to.
func (l *Listener) Addr() string {
	return l.ln.Addr().String()
}

// Wait blocks until a token is delivered, delivery fails, or ctx is done.
func (l *Listener) Wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-l.result:
		return r.token, r.err
	}
}

// Close shuts the listener down.
func (l *Listener) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.server.Shutdown(ctx)
}

func (l *Listener) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = io.WriteString(w, callbackPage)
}

func (l *Listener) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, donePage)
}

func (l *Listener) handleToken(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxFragmentBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	tok, err := TokenFromParams(ParseFragment(string(body)), l.state, time.Now())
	if !l.deliver(callbackResult{token: tok, err: err}) {
		http.Error(w, "login already completed", http.StatusConflict)
		return
	}

	if err != nil {
		l.logger.Warn().Err(err).Msg("Login redirect rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l.logger.Debug().Msg("Token received")
	w.WriteHeader(http.StatusNoContent)
}

// deliver reports whether r was the first result.
func (l *Listener) deliver(r callbackResult) bool {
	delivered := false
	l.once.Do(func() {
		l.result <- r
		delivered = true
	})
	return delivered
}
