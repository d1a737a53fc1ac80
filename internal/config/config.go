package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default values for optional settings
const (
	DefaultRedirectURI  = "http://127.0.0.1:8888/callback"
	DefaultMarket       = "US"
	DefaultTopLimit     = 20
	DefaultTimeRange    = "medium_term"
	DefaultAlbumLimit   = 50
	DefaultOutputFormat = "{{.Rank}}. {{.Name}}"
	DefaultColumnWidth  = 32
)

// Config holds application configuration
type Config struct {
	// Spotify application client id, required for auth
	ClientID string

	// Redirect URI registered for the application. The auth command
	// listens on its host and path.
	// Default: "http://127.0.0.1:8888/callback"
	RedirectURI string

	// Market passed with discography requests
	Market string

	// Number of entries the top command prints
	TopLimit int

	// Time range for top lists (short_term, medium_term, long_term)
	TimeRange string

	// Releases requested per artist
	AlbumLimit int

	// Output format template for top list lines
	// Default: "{{.Rank}}. {{.Name}}"
	OutputFormat string

	// Width of each related-artist column in display cells
	ColumnWidth int
}

// Load reads configuration from file and environment
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Config file locations (in order of precedence)
	configDir := getConfigDir()
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	// Set defaults
	v.SetDefault("redirect_uri", DefaultRedirectURI)
	v.SetDefault("market", DefaultMarket)
	v.SetDefault("top_limit", DefaultTopLimit)
	v.SetDefault("time_range", DefaultTimeRange)
	v.SetDefault("album_limit", DefaultAlbumLimit)
	v.SetDefault("output_format", DefaultOutputFormat)
	v.SetDefault("column_width", DefaultColumnWidth)

	// Read config file (optional - don't fail if missing)
	_ = v.ReadInConfig()

	// Read from environment variables
	v.SetEnvPrefix("SPOTLIGHT")
	v.AutomaticEnv()

	// Map config to struct
	cfg := &Config{
		ClientID:     v.GetString("client_id"),
		RedirectURI:  v.GetString("redirect_uri"),
		Market:       v.GetString("market"),
		TopLimit:     v.GetInt("top_limit"),
		TimeRange:    v.GetString("time_range"),
		AlbumLimit:   v.GetInt("album_limit"),
		OutputFormat: v.GetString("output_format"),
		ColumnWidth:  v.GetInt("column_width"),
	}

	return cfg, nil
}

// getConfigDir returns the configuration directory path
// Creates the directory if it doesn't exist
func getConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}

	configDir := filepath.Join(homeDir, ".config", "spotlight")

	// Create config directory if it doesn't exist
	_ = os.MkdirAll(configDir, 0755)

	return configDir
}

// GetConfigDir returns the configuration directory path (public helper)
func GetConfigDir() string {
	return getConfigDir()
}

// GetDataDir returns the directory holding the session file and the
// history database, creating it if needed
func GetDataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(homeDir, ".local", "share", "spotlight")
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return "", err
	}

	return dataDir, nil
}

// Save writes configuration to file
func (c *Config) Save() error {
	v := viper.New()

	// Set config file path
	configDir := getConfigDir()
	configFile := filepath.Join(configDir, "config.yaml")

	// Set values in viper
	v.Set("client_id", c.ClientID)
	v.Set("redirect_uri", c.RedirectURI)
	v.Set("market", c.Market)
	v.Set("top_limit", c.TopLimit)
	v.Set("time_range", c.TimeRange)
	v.Set("album_limit", c.AlbumLimit)
	v.Set("output_format", c.OutputFormat)
	v.Set("column_width", c.ColumnWidth)

	// Write to file
	return v.WriteConfigAs(configFile)
}
