package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Client      ClientConfig      `toml:"client"`
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Credentials CredentialsConfig `toml:"credentials"`
	Spotify     SpotifySearch     `toml:"spotify"`
	Log         LogConfig         `toml:"log"`
}

// ClientConfig points the CLI and TUI at a backend.
type ClientConfig struct {
	BaseURL        string `toml:"base_url"`
	User           string `toml:"user"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Timeout returns the HTTP client timeout, defaulting to 15 seconds.
func (c ClientConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	DefaultUser string `toml:"default_user"`
}

// Addr joins host and port into a listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API client credentials.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Valid reports whether both credentials are set and are not the placeholder values from the example config.
func (s SpotifyConfig) Valid() bool {
	return s.ClientID != "" && s.ClientSecret != "" &&
		s.ClientID != "your_spotify_client_id" && s.ClientSecret != "your_spotify_client_secret"
}

// SpotifySearch tunes the backend's track search.
type SpotifySearch struct {
	Market            string  `toml:"market"`
	SearchLimit       int     `toml:"search_limit"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// LogConfig controls log level and the TUI log file.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep the values from [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ResolveConfig loads the config at path when it exists, falls back to defaults otherwise,
// then overlays values from the environment (and a .env file, if present).
func ResolveConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			loaded, err := LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		}
	}

	_ = godotenv.Load()
	ApplyEnv(config)

	return config, nil
}

// ApplyEnv overrides config values with any of the supported environment variables that are set.
func ApplyEnv(config *Config) {
	str := map[string]*string{
		"SPOTIFY_CLIENT_ID":     &config.Credentials.Spotify.ClientID,
		"SPOTIFY_CLIENT_SECRET": &config.Credentials.Spotify.ClientSecret,
		"DATABASE_PATH":         &config.Database.Path,
		"TOPTEN_BASE_URL":       &config.Client.BaseURL,
		"TOPTEN_USER":           &config.Client.User,
		"TOPTEN_HOST":           &config.Server.Host,
		"TOPTEN_LOG_LEVEL":      &config.Log.Level,
	}
	for key, dst := range str {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	if v, ok := os.LookupEnv("TOPTEN_PORT"); ok {
		if port, err := strconv.Atoi(v); err == nil {
			config.Server.Port = port
		}
	}
}
