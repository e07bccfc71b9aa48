// Package cli implements the sketchgraph command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sketchgraph/pkg/buildinfo"
	"github.com/matzehuels/sketchgraph/pkg/config"
	"github.com/matzehuels/sketchgraph/pkg/session"
	"github.com/matzehuels/sketchgraph/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sketchgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger     *log.Logger
	ConfigPath string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Sketchgraph edits and generates diagrams",
		Long:         `Sketchgraph is a diagram editor for the terminal. Draw shapes, connect them, sketch freehand, or describe the diagram in plain language and let a model draft it for you.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/sketchgraph/config.toml)")

	// Register all subcommands
	root.AddCommand(c.editCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.authCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Backend Factories
// =============================================================================

// Config loads the configuration once and caches it for the process.
func (c *CLI) Config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

// newStore opens the document store selected by the configuration.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	switch cfg.Storage.Backend {
	case config.StorageMongo:
		return store.NewMongoStore(ctx, cfg.Storage.MongoURI)
	default:
		return store.NewFileStore("")
	}
}

// newSessionStore opens the session store selected by the configuration.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	switch cfg.Sessions.Backend {
	case config.SessionRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Sessions.RedisAddr,
			Password: cfg.Sessions.RedisPassword,
			DB:       cfg.Sessions.RedisDB,
		})
	default:
		return session.NewFileStore("")
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard
// (~/.cache/sketchgraph/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
