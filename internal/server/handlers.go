package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/meltgauge/pkg/cache"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/render"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTanks(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"tanks": ids})
}

func (s *Server) handleGetTank(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePutTank(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var t tank.Tank
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&t); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode tank"))
		return
	}
	if t.ID == "" {
		t.ID = id
	}
	if t.ID != id {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "tank id %q does not match path %q", t.ID, id))
		return
	}
	if err := t.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.Put(r.Context(), &t); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, &t)
}

func (s *Server) handleDeleteTank(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// widgetFor applies the height and min overrides of a request.
func (s *Server) widgetFor(r *http.Request) (gauge.Widget, error) {
	w := s.widget
	if h, ok, err := intParam(r, "height"); err != nil {
		return w, err
	} else if ok {
		if h <= 0 {
			return w, errs.New(errs.ErrCodeInvalidInput, "height must be positive, got %d", h)
		}
		w.Bounds.H = h
	}
	if m, ok, err := intParam(r, "min"); err != nil {
		return w, err
	} else if ok {
		if m < 0 {
			return w, errs.New(errs.ErrCodeInvalidInput, "min must not be negative, got %d", m)
		}
		w.MinHeight = m
	}
	return w, nil
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	widget, err := s.widgetFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cur, err := cursorParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	detail := boolParam(r, "detail")

	ctx := r.Context()
	start := time.Now()
	key := cache.ArtifactKey(t, widget, "json", cache.ArtifactOpts{Cursor: cur, Detail: detail})
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed", "err", err)
	}
	if !hit {
		var opts []render.JSONOption
		if cur != nil {
			opts = append(opts, render.WithJSONProbe(cur[0], cur[1], detail))
		}
		if data, err = render.RenderJSON(widget, t, opts...); err != nil {
			s.writeError(w, r, errs.Wrap(errs.ErrCodeInternal, err, "encode layout"))
			return
		}
		if err := s.cache.Set(ctx, key, data, artifactTTL); err != nil {
			s.logger.Warn("Cache write failed", "err", err)
		}
	}
	observability.Render().OnRender(ctx, "json", len(data), hit, time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	t, err := s.store.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	widget, err := s.widgetFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cur, err := cursorParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detail := boolParam(r, "detail")

	start := time.Now()
	key := cache.ArtifactKey(t, widget, "svg", cache.ArtifactOpts{Cursor: cur, Tooltips: true, Detail: detail})
	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed", "err", err)
	}
	if !hit {
		opts := []render.SVGOption{render.WithTooltips(detail)}
		if cur != nil {
			opts = append(opts, render.WithHighlight(cur[0], cur[1]))
		}
		data = render.RenderSVG(widget, t, opts...)
		if err := s.cache.Set(ctx, key, data, artifactTTL); err != nil {
			s.logger.Warn("Cache write failed", "err", err)
		}
	}
	observability.Render().OnRender(ctx, "svg", len(data), hit, time.Since(start))

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

func (s *Server) handleTooltip(w http.ResponseWriter, r *http.Request) {
	t, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	widget, err := s.widgetFor(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cur, err := cursorParam(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if cur == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "x and y are required"))
		return
	}

	lines, ok := widget.Tooltip(t, cur[0], cur[1], boolParam(r, "detail"))
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"lines": lines})
}

// clickRequest accepts a full events.Click or just {"index": n}.
type clickRequest struct {
	ID     uuid.UUID `json:"id"`
	TankID string    `json:"tank_id"`
	Index  *int      `json:"index"`
	At     time.Time `json:"at"`
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req clickRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "decode click"))
		return
	}
	if req.Index == nil {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "click needs an index"))
		return
	}
	if req.TankID != "" && req.TankID != id {
		s.writeError(w, r, errs.New(errs.ErrCodeInvalidInput, "click for tank %q sent to %q", req.TankID, id))
		return
	}

	c := events.NewClick(id, *req.Index)
	if req.ID != uuid.Nil {
		c.ID = req.ID
	}
	if !req.At.IsZero() {
		c.At = req.At
	}
	if err := s.applier.Apply(ctx, c); err != nil {
		s.writeError(w, r, err)
		return
	}

	t, err := s.store.Get(ctx, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("Click applied", "tank", id, "index", c.Index, "click", c.ID)
	writeJSON(w, http.StatusOK, t)
}
