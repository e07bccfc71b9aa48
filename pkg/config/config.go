// Package config loads sketchgraph settings from a TOML file in the
// user's config directory, with environment variables taking precedence
// for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// EnvAPIKey is the environment variable that overrides the configured
// generation API key.
const EnvAPIKey = "SKETCHGRAPH_API_KEY"

// Storage backend names.
const (
	StorageFile  = "file"
	StorageMongo = "mongo"
)

// Session backend names.
const (
	SessionFile  = "file"
	SessionRedis = "redis"
)

// Generation configures the LLM diagram generator.
type Generation struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Storage configures where documents are persisted.
type Storage struct {
	Backend  string `toml:"backend"`
	MongoURI string `toml:"mongo_uri"`
}

// Sessions configures the session store backend.
type Sessions struct {
	Backend       string `toml:"backend"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Editor holds editing preferences.
type Editor struct {
	PenColor string `toml:"pen_color"`
}

// Config is the root configuration.
type Config struct {
	Generation Generation `toml:"generation"`
	Storage    Storage    `toml:"storage"`
	Sessions   Sessions   `toml:"sessions"`
	Editor     Editor     `toml:"editor"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		Storage:  Storage{Backend: StorageFile},
		Sessions: Sessions{Backend: SessionFile},
		Editor:   Editor{PenColor: "#000000"},
	}
}

// Path returns the default config file location,
// ~/.config/sketchgraph/config.toml
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "sketchgraph", "config.toml"), nil
}

// Load reads the config file at path, or the default location if path is
// empty. A missing file yields the defaults. SKETCHGRAPH_API_KEY, when
// set, overrides the configured generation key.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Generation.APIKey = key
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case StorageFile, StorageMongo:
	case "":
		c.Storage.Backend = StorageFile
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Backend == StorageMongo && c.Storage.MongoURI == "" {
		return fmt.Errorf("storage backend %q requires mongo_uri", StorageMongo)
	}

	switch c.Sessions.Backend {
	case SessionFile, SessionRedis:
	case "":
		c.Sessions.Backend = SessionFile
	default:
		return fmt.Errorf("unknown session backend %q", c.Sessions.Backend)
	}
	if c.Sessions.Backend == SessionRedis && c.Sessions.RedisAddr == "" {
		return fmt.Errorf("session backend %q requires redis_addr", SessionRedis)
	}
	return nil
}
