package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Environment variables that override values from the config file.
const (
	EnvMusicBrainzURL = "JSPFX_MUSICBRAINZ_URL"
	EnvContact        = "JSPFX_CONTACT"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	MusicBrainz MusicBrainzConfig `toml:"musicbrainz"`
	Output      OutputConfig      `toml:"output"`
	Resolver    ResolverConfig    `toml:"resolver"`
}

// MusicBrainzConfig contains settings for the MusicBrainz web service client.
type MusicBrainzConfig struct {
	BaseURL           string  `toml:"base_url"`
	UserAgent         string  `toml:"user_agent"`
	Contact           string  `toml:"contact"`
	MaxAttempts       int     `toml:"max_attempts"`
	TimeoutSeconds    int     `toml:"timeout_seconds"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	SearchLimit       int     `toml:"search_limit"`
}

// Timeout returns the per-request timeout.
func (c MusicBrainzConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// FullUserAgent formats the User-Agent header MusicBrainz asks clients to send: "app/version ( contact )".
func (c MusicBrainzConfig) FullUserAgent() string {
	if c.Contact == "" {
		return c.UserAgent
	}
	return fmt.Sprintf("%s ( %s )", c.UserAgent, c.Contact)
}

// OutputConfig contains settings for written playlists.
type OutputConfig struct {
	Directory string `toml:"directory"`
	Extension string `toml:"extension"`
}

// ResolverConfig toggles optional resolution strategies.
type ResolverConfig struct {
	Fuzzy bool `toml:"fuzzy"`
}

// Validate reports values the client and resolver cannot work with.
func (c *Config) Validate() error {
	if c.MusicBrainz.BaseURL == "" {
		return fmt.Errorf("%w: musicbrainz.base_url is empty", ErrInvalidConfig)
	}
	if c.MusicBrainz.MaxAttempts < 1 {
		return fmt.Errorf("%w: musicbrainz.max_attempts must be at least 1", ErrInvalidConfig)
	}
	if c.MusicBrainz.RequestsPerSecond < 0 {
		return fmt.Errorf("%w: musicbrainz.requests_per_second must not be negative", ErrInvalidConfig)
	}
	if c.Output.Extension == "" {
		return fmt.Errorf("%w: output.extension is empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
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

// ApplyEnv loads the given dotenv files (missing files are ignored) and applies overrides from the environment.
//
// Variables already set in the process environment win over dotenv values.
func ApplyEnv(config *Config, files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	if v := os.Getenv(EnvMusicBrainzURL); v != "" {
		config.MusicBrainz.BaseURL = v
	}
	if v := os.Getenv(EnvContact); v != "" {
		config.MusicBrainz.Contact = v
	}
	return nil
}
