package cmd

import (
	"testing"

	"github.com/jfmyers9/spotlight/internal/config"
)

func TestSaveClientID(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SPOTLIGHT_CLIENT_ID", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.ClientID != "" {
		t.Fatalf("expected no client id in a fresh config, got %q", cfg.ClientID)
	}

	if err := saveClientID(cfg, "  abc123\n"); err != nil {
		t.Fatalf("failed to save client id: %v", err)
	}
	if cfg.ClientID != "abc123" {
		t.Errorf("expected trimmed client id on cfg, got %q", cfg.ClientID)
	}

	reloaded, err := config.Load()
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if reloaded.ClientID != "abc123" {
		t.Errorf("client id not persisted: got %q", reloaded.ClientID)
	}
	if reloaded.RedirectURI != config.DefaultRedirectURI || reloaded.TopLimit != config.DefaultTopLimit {
		t.Errorf("saving the client id should keep other settings: %+v", reloaded)
	}
}
