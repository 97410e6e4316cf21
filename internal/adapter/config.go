package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	TMDB    TMDBConfig    `mapstructure:"tmdb"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Storage StorageConfig `mapstructure:"storage"`
	Server  ServerConfig  `mapstructure:"server"`
	Trailer TrailerConfig `mapstructure:"trailer"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// TMDBConfig holds movie catalog API configuration
type TMDBConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	ImageBaseURL string        `mapstructure:"image_base_url"`
	Timeout      time.Duration `mapstructure:"timeout"` // 0 disables the request deadline
}

// CatalogConfig holds feed behaviour settings
type CatalogConfig struct {
	DiscardStaleResponses bool   `mapstructure:"discard_stale_responses"`
	DefaultTimeWindow     string `mapstructure:"default_time_window"` // "day" or "week"
}

// AuthConfig holds mock login settings
type AuthConfig struct {
	LoginDelay time.Duration `mapstructure:"login_delay"`
}

// StorageConfig holds local state persistence settings
type StorageConfig struct {
	Path string `mapstructure:"path"` // Empty keeps state in memory only
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TrailerConfig holds the external trailer player configuration
type TrailerConfig struct {
	Command string   `mapstructure:"command"` // Empty uses the system default handler
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:      "https://api.themoviedb.org/3",
			ImageBaseURL: "https://image.tmdb.org/t/p",
		},
		Catalog: CatalogConfig{
			DiscardStaleResponses: true,
			DefaultTimeWindow:     "day",
		},
		Auth: AuthConfig{
			LoginDelay: time.Second,
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "reel.db"),
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
		Trailer: TrailerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "reel.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the default data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "reel")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "reel")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "reel")
	}
}

// DefaultConfigFile returns the path SaveConfig writes to when none is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// newViper returns a viper instance seeded with defaults and env bindings
func newViper(defaults *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	for key, value := range configValues(defaults) {
		v.SetDefault(key, value)
	}

	// Environment variable overrides: REEL_TMDB_API_KEY, REEL_STORAGE_PATH, ...
	v.SetEnvPrefix("REEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("tmdb.api_key", "REEL_TMDB_API_KEY", "TMDB_API_KEY")

	return v
}

// LoadConfig loads configuration from file and environment. With an empty path
// the default config directory and the working directory are searched.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(ExpandPath(path))
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// Config file not found is OK, use defaults
		case path != "" && errors.Is(err, os.ErrNotExist):
			// Explicit path that does not exist yet; setup will create it
		default:
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	cfg.Logging.File = ExpandPath(cfg.Logging.File)

	return cfg, nil
}

// SaveConfig writes cfg to path, or to DefaultConfigFile when path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}
	path = ExpandPath(path)

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigPermissions(0600) // holds the API key

	// Set fields individually to ensure correct key names (snake_case)
	for key, value := range configValues(cfg) {
		v.Set(key, value)
	}

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// configValues flattens cfg into viper keys
func configValues(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"tmdb.api_key":                    cfg.TMDB.APIKey,
		"tmdb.base_url":                   cfg.TMDB.BaseURL,
		"tmdb.image_base_url":             cfg.TMDB.ImageBaseURL,
		"tmdb.timeout":                    cfg.TMDB.Timeout.String(),
		"catalog.discard_stale_responses": cfg.Catalog.DiscardStaleResponses,
		"catalog.default_time_window":     cfg.Catalog.DefaultTimeWindow,
		"auth.login_delay":                cfg.Auth.LoginDelay.String(),
		"storage.path":                    cfg.Storage.Path,
		"server.addr":                     cfg.Server.Addr,
		"trailer.command":                 cfg.Trailer.Command,
		"trailer.args":                    cfg.Trailer.Args,
		"logging.file":                    cfg.Logging.File,
		"logging.level":                   cfg.Logging.Level,
	}
}

// IsConfigured returns true if the catalog API key is set
func (c *Config) IsConfigured() bool {
	return strings.TrimSpace(c.TMDB.APIKey) != ""
}

// ExpandPath replaces a leading ~ with the user's home directory
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
