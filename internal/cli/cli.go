package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meltgauge/internal/config"
	"github.com/matzehuels/meltgauge/pkg/buildinfo"
	"github.com/matzehuels/meltgauge/pkg/cache"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "meltgauge"

	// defaultTankID is used when --tank is not given.
	defaultTankID = "smeltery"
)

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "meltgauge draws and drives multi-fluid tank gauges",
		Long:         `meltgauge lays out the fluids of a tank as stacked layers of a gauge, renders the gauge in the terminal, as SVG or as JSON, and moves a clicked fluid to the bottom of its tank.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			registerHooks(c.Logger)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.ConfigPath, "config", "", "config file (default ~/.config/meltgauge/config.toml)")

	root.AddCommand(c.heightsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.tankCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config, Store and Transport
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.ConfigPath)
	if err != nil {
		return cfg, err
	}
	if cfg.Store.Backend == store.BackendFile && cfg.Store.Dir == "" {
		if dir, err := dataDir(); err == nil {
			cfg.Store.Dir = filepath.Join(dir, "tanks")
		}
	}
	return cfg, nil
}

// openStore opens the configured backend and seeds the tanks declared in
// the config.
func (c *CLI) openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	logger := loggerFromContext(ctx)

	s, err := store.Open(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, err
	}
	added, err := store.Seed(ctx, s, cfg.Tanks)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	for _, id := range added {
		logger.Debug("Seeded tank", "id", id)
	}
	return s, nil
}

// newSender builds the click transport. The returned close func releases
// any connection the transport holds.
func newSender(cfg config.Config, s store.Store) (events.Sender, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Events.Transport {
	case "", config.TransportLocal:
		return events.NewApplier(s), noop, nil
	case config.TransportHTTP:
		sender := events.NewHTTPSender(cfg.Events.URL)
		if cfg.Events.Retries > 0 {
			sender.Attempts = cfg.Events.Retries
		}
		return sender, noop, nil
	case config.TransportRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
		return events.NewRedisPublisher(client, events.ChannelName(cfg.Events.RedisPrefix)), client.Close, nil
	default:
		return nil, noop, errs.New(errs.ErrCodeInvalidConfig, "unknown events.transport %q", cfg.Events.Transport)
	}
}

// newCache returns a file cache under dir, or a null cache when dir is empty.
func newCache(dir string) (cache.Cache, error) {
	if dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// dataDir returns the data directory using XDG standard (~/.config/meltgauge/).
func dataDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
