package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meltgauge/pkg/observability"
)

// logHooks reports clicks, store access and renders as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func registerHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetClickHooks(h)
	observability.SetStoreHooks(h)
	observability.SetRenderHooks(h)
}

func (h *logHooks) OnClickSent(_ context.Context, tankID string, index int, took time.Duration, err error) {
	if err != nil {
		h.logger.Warn("Click not sent", "tank", tankID, "index", index, "err", err)
		return
	}
	h.logger.Debug("Click sent", "tank", tankID, "index", index, "took", took.Round(time.Microsecond))
}

func (h *logHooks) OnClickApplied(_ context.Context, tankID string, index int, err error) {
	if err != nil {
		h.logger.Warn("Click rejected", "tank", tankID, "index", index, "err", err)
		return
	}
	h.logger.Debug("Click applied", "tank", tankID, "index", index)
}

func (h *logHooks) OnLoad(_ context.Context, backend, tankID string, took time.Duration, err error) {
	h.storeEvent("Load", backend, tankID, took, err)
}

func (h *logHooks) OnSave(_ context.Context, backend, tankID string, took time.Duration, err error) {
	h.storeEvent("Save", backend, tankID, took, err)
}

func (h *logHooks) storeEvent(op, backend, tankID string, took time.Duration, err error) {
	args := []any{"backend", backend, "tank", tankID, "took", took.Round(time.Microsecond)}
	if err != nil {
		h.logger.Debug(op+" failed", append(args, "err", err)...)
		return
	}
	h.logger.Debug(op, args...)
}

func (h *logHooks) OnRender(_ context.Context, format string, size int, cached bool, took time.Duration) {
	h.logger.Debug("Render", "format", format, "bytes", size, "cached", cached, "took", took.Round(time.Microsecond))
}
