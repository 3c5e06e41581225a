package cli

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/matzehuels/meltgauge/internal/config"
	"github.com/matzehuels/meltgauge/internal/server"
	"github.com/matzehuels/meltgauge/pkg/cache"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/store"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr, cacheDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long: `Serve tanks, gauges and tooltips over HTTP and apply posted clicks.

With events.transport = "redis" the service also applies clicks published
on the Redis click channel.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			return c.withStore(ctx, func(cfg config.Config, s store.Store) error {
				if addr == "" {
					addr = cfg.Server.Addr
				}
				if cacheDir == "" {
					cacheDir = cfg.Server.CacheDir
				}
				artifacts, err := newCache(cacheDir)
				if err != nil {
					return err
				}
				defer artifacts.Close()

				srv := server.New(server.Options{
					Store:  s,
					Cache:  artifacts,
					Widget: cfg.GaugeWidget(),
					Logger: logger,
				})

				ctx, cancel := context.WithCancel(ctx)
				defer cancel()

				subErr := make(chan error, 1)
				if cfg.Events.Transport == config.TransportRedis {
					client := redis.NewClient(&redis.Options{Addr: cfg.Events.RedisAddr})
					defer client.Close()
					sub := events.NewRedisSubscriber(client, events.ChannelName(cfg.Events.RedisPrefix), logger)
					go func() {
						err := sub.Run(ctx, srv.Applier().Apply)
						if !errors.Is(err, context.Canceled) {
							logger.Error("Click subscriber stopped", "err", err)
							cancel()
						}
						subErr <- err
					}()
				} else {
					close(subErr)
				}

				logger.Info("Serving gauges", storageFields(s, artifacts)...)
				err = srv.ListenAndServe(ctx, addr)
				cancel()
				if e := <-subErr; e != nil && !errors.Is(e, context.Canceled) {
					return e
				}
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "cache rendered gauges in this directory")

	return cmd
}

// storageFields reports where tanks and cached artifacts live on disk.
func storageFields(s store.Store, c cache.Cache) []any {
	var fields []any
	if fs, ok := store.Unwrap(s).(*store.FileStore); ok {
		fields = append(fields, "tanks", fs.Path())
	}
	if fc, ok := c.(*cache.FileCache); ok {
		fields = append(fields, "cache", fc.Dir())
	}
	return fields
}
