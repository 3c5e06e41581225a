// Package config loads meltgauge settings from TOML.
//
// A missing config file is not an error: [Load] returns [Default]. Values in
// the file override the defaults field by field.
//
//	[widget]
//	width = 8
//	height = 48
//
//	[store]
//	backend = "file"
//
//	[[tanks]]
//	id = "smeltery"
//	capacity = 4000
//
//	  [[tanks.fluids]]
//	  name = "molten_iron"
//	  amount = 1296
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/store"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// Transports for click events.
const (
	TransportLocal = "local"
	TransportHTTP  = "http"
	TransportRedis = "redis"
)

// Config is the full configuration file.
type Config struct {
	Widget Widget      `toml:"widget"`
	Store  Store       `toml:"store"`
	Events Events      `toml:"events"`
	Server Server      `toml:"server"`
	Tanks  []tank.Tank `toml:"tanks"`
}

// Widget places the gauge.
type Widget struct {
	X         int `toml:"x"`
	Y         int `toml:"y"`
	Width     int `toml:"width"`
	Height    int `toml:"height"`
	MinHeight int `toml:"min_height"`
}

// Store selects the tank backend.
type Store struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisDB         int    `toml:"redis_db"`
	RedisPrefix     string `toml:"redis_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Events selects how clicks reach the tank owner.
type Events struct {
	Transport   string `toml:"transport"`
	URL         string `toml:"url"`
	RedisAddr   string `toml:"redis_addr"`
	RedisPrefix string `toml:"redis_prefix"`
	Retries     int    `toml:"retries"`
}

// Server configures `meltgauge serve`.
type Server struct {
	Addr     string `toml:"addr"`
	CacheDir string `toml:"cache_dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Widget: Widget{Width: 8, Height: 48, MinHeight: gauge.DefaultMinHeight},
		Store:  Store{Backend: store.BackendMemory, RedisAddr: "localhost:6379"},
		Events: Events{Transport: TransportLocal, URL: "http://localhost:8080", RedisAddr: "localhost:6379", Retries: 3},
		Server: Server{Addr: ":8080"},
	}
}

// DefaultPath returns ~/.config/meltgauge/config.toml, honouring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "meltgauge", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "meltgauge", "config.toml"), nil
}

// Load reads path on top of [Default]. An empty path means [DefaultPath];
// only an explicitly named file has to exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return Default(), nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeNotFound, err, "config file %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errs.New(errs.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), path)
	}
	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail later and less clearly.
func (c Config) Validate() error {
	if c.Widget.Height <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "widget.height must be positive, got %d", c.Widget.Height)
	}
	if c.Widget.Width <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "widget.width must be positive, got %d", c.Widget.Width)
	}
	if c.Widget.MinHeight < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "widget.min_height must not be negative, got %d", c.Widget.MinHeight)
	}
	backends := []string{"", store.BackendMemory, store.BackendFile, store.BackendRedis, store.BackendMongo}
	if !slices.Contains(backends, c.Store.Backend) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown store.backend %q", c.Store.Backend)
	}
	transports := []string{"", TransportLocal, TransportHTTP, TransportRedis}
	if !slices.Contains(transports, c.Events.Transport) {
		return errs.New(errs.ErrCodeInvalidConfig, "unknown events.transport %q", c.Events.Transport)
	}
	if c.Events.Transport == TransportHTTP && c.Events.URL == "" {
		return errs.New(errs.ErrCodeInvalidConfig, "events.url is required for the http transport")
	}
	seen := make(map[string]bool, len(c.Tanks))
	for i := range c.Tanks {
		t := &c.Tanks[i]
		if seen[t.ID] {
			return errs.New(errs.ErrCodeInvalidConfig, "duplicate tank %q", t.ID)
		}
		seen[t.ID] = true
		if err := t.Validate(); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "tanks[%d]", i)
		}
	}
	return nil
}

// GaugeWidget builds the widget described by [widget].
func (c Config) GaugeWidget() gauge.Widget {
	return gauge.Widget{
		Bounds:    gauge.Rect{X: c.Widget.X, Y: c.Widget.Y, W: c.Widget.Width, H: c.Widget.Height},
		MinHeight: c.Widget.MinHeight,
	}
}

// StoreConfig converts [store] for [store.Open].
func (c Config) StoreConfig() store.Config {
	return store.Config{
		Backend:         c.Store.Backend,
		Dir:             c.Store.Dir,
		RedisAddr:       c.Store.RedisAddr,
		RedisPassword:   c.Store.RedisPassword,
		RedisDB:         c.Store.RedisDB,
		RedisPrefix:     c.Store.RedisPrefix,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		MongoCollection: c.Store.MongoCollection,
	}
}

// LoadTank reads a single tank from a TOML file with top-level id, capacity
// and [[fluids]].
func LoadTank(path string) (*tank.Tank, error) {
	var t tank.Tank
	md, err := toml.DecodeFile(path, &t)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrCodeNotFound, err, "tank file %s", path)
		}
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown key %q in %s", undecoded[0].String(), path)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}
