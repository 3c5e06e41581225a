// Package server exposes tanks and their gauges over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /tanks
//	GET  /tanks/{id}
//	PUT  /tanks/{id}
//	DELETE /tanks/{id}
//	GET  /tanks/{id}/layout?height=&min=&x=&y=&detail=
//	GET  /tanks/{id}/gauge.svg?x=&y=&detail=
//	GET  /tanks/{id}/tooltip?x=&y=&detail=
//	POST /tanks/{id}/click
//
// Errors are returned as {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/meltgauge/pkg/cache"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/store"
)

// artifactTTL bounds how long a rendered gauge stays cached. Keys change with
// every tank change, so this only limits disk use.
const artifactTTL = time.Hour

// Options configures a [Server].
type Options struct {
	Store  store.Store
	Cache  cache.Cache  // nil disables caching
	Widget gauge.Widget // geometry used when a request does not override it
	Logger *log.Logger  // nil uses log.Default()
}

// Server serves the HTTP API.
type Server struct {
	store   store.Store
	applier *events.Applier
	cache   cache.Cache
	widget  gauge.Widget
	logger  *log.Logger
	router  chi.Router
}

// New builds a server and its routes.
func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		applier: events.NewApplier(opts.Store),
		cache:   opts.Cache,
		widget:  opts.Widget,
		logger:  opts.Logger,
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.router = s.routes()
	return s
}

// Applier returns the click applier, so other transports can feed it.
func (s *Server) Applier() *events.Applier { return s.applier }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/tanks", func(r chi.Router) {
		r.Get("/", s.handleListTanks)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetTank)
			r.Put("/", s.handlePutTank)
			r.Delete("/", s.handleDeleteTank)
			r.Get("/layout", s.handleLayout)
			r.Get("/gauge.svg", s.handleSVG)
			r.Get("/tooltip", s.handleTooltip)
			r.Post("/click", s.handleClick)
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Serving", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// requestLogger logs one line per request at debug level, or warn for 5xx.
func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"took", time.Since(start).Round(time.Microsecond),
				"req", middleware.GetReqID(r.Context()),
			}
			if status >= http.StatusInternalServerError {
				logger.Warn("Request failed", args...)
				return
			}
			logger.Debug("Request", args...)
		})
	}
}
