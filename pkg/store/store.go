// Package store persists tank state for the tank owner.
//
// The gauge only reads tanks. The owner mutates them (for example, moving a
// clicked fluid to the bottom) and keeps them in a [Store]. Backends:
//   - memory: in-process map, for tests and the local CLI
//   - file: one JSON file per tank, for single-user setups
//   - redis: JSON values under a key prefix, shared between instances
//   - mongo: one document per tank
//
// # Usage
//
//	s, err := store.Open(ctx, store.Config{Backend: store.BackendFile})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	t, err := s.Get(ctx, "smeltery")
//	if errors.IsNotFound(err) {
//	    // seed it
//	}
package store

import (
	"context"
	"time"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Store is the interface for tank storage backends.
type Store interface {
	// Get retrieves a tank by ID.
	// Returns an error with code TANK_NOT_FOUND if it doesn't exist.
	Get(ctx context.Context, id string) (*tank.Tank, error)

	// Put creates or replaces a tank.
	Put(ctx context.Context, t *tank.Tank) error

	// Delete removes a tank. Deleting a missing tank is not an error.
	Delete(ctx context.Context, id string) error

	// List returns all tank IDs in ascending order.
	List(ctx context.Context) ([]string, error)

	// Close releases backend resources.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend string

	// file
	Dir string

	// redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	// mongo
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open creates the backend named by cfg.Backend. An empty backend means memory.
// The returned store reports loads and saves to the observability hooks.
func Open(ctx context.Context, cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendRedis:
		s, err = NewRedisStore(ctx, RedisConfig{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisPrefix,
		})
	case BackendMongo:
		s, err = NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})
	default:
		return nil, errs.New(errs.ErrCodeInvalidConfig, "unknown store backend: %s", cfg.Backend)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s store", cfg.Backend)
	}
	backend := cfg.Backend
	if backend == "" {
		backend = BackendMemory
	}
	return Instrument(s, backend), nil
}

// Instrument wraps s so every Get and Put is reported to
// [observability.Store] under the given backend name.
func Instrument(s Store, backend string) Store {
	return &instrumented{Store: s, backend: backend}
}

type instrumented struct {
	Store
	backend string
}

// Unwrap returns the backend beneath an [Instrument] wrapper, or s itself.
func Unwrap(s Store) Store {
	if i, ok := s.(*instrumented); ok {
		return i.Store
	}
	return s
}

func (s *instrumented) Get(ctx context.Context, id string) (*tank.Tank, error) {
	start := time.Now()
	t, err := s.Store.Get(ctx, id)
	observability.Store().OnLoad(ctx, s.backend, id, time.Since(start), err)
	return t, err
}

func (s *instrumented) Put(ctx context.Context, t *tank.Tank) error {
	start := time.Now()
	err := s.Store.Put(ctx, t)
	observability.Store().OnSave(ctx, s.backend, t.ID, time.Since(start), err)
	return err
}

// Seed stores each tank that is not already present.
// It returns the IDs that were written.
func Seed(ctx context.Context, s Store, tanks []tank.Tank) ([]string, error) {
	var seeded []string
	for i := range tanks {
		t := &tanks[i]
		_, err := s.Get(ctx, t.ID)
		if err == nil {
			continue
		}
		if !errs.IsNotFound(err) {
			return seeded, err
		}
		if err := t.Validate(); err != nil {
			return seeded, err
		}
		if err := s.Put(ctx, t); err != nil {
			return seeded, err
		}
		seeded = append(seeded, t.ID)
	}
	return seeded, nil
}

func notFound(id string) error {
	return errs.New(errs.ErrCodeTankNotFound, "tank %s not found", id)
}
