// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about click
// delivery, tank storage, and gauge rendering. Libraries call the registered
// hooks; the defaults are no-ops, so nothing here depends on a particular
// backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetClickHooks(&myClickHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := sender.Send(ctx, click)
//	observability.Clicks().OnClickSent(ctx, click.TankID, click.Index, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Click Hooks
// =============================================================================

// ClickHooks receives events about layer clicks.
type ClickHooks interface {
	// OnClickSent fires after a click has been handed to a transport.
	OnClickSent(ctx context.Context, tankID string, index int, duration time.Duration, err error)

	// OnClickApplied fires after the tank owner processed a click.
	OnClickApplied(ctx context.Context, tankID string, index int, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from tank storage backends.
type StoreHooks interface {
	OnLoad(ctx context.Context, backend, tankID string, duration time.Duration, err error)
	OnSave(ctx context.Context, backend, tankID string, duration time.Duration, err error)
}

// =============================================================================
// Render Hooks
// =============================================================================

// RenderHooks receives events from gauge renderers.
type RenderHooks interface {
	// OnRender records one rendered artifact. cached is true when the
	// artifact was served from cache.
	OnRender(ctx context.Context, format string, size int, cached bool, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopClickHooks is a no-op implementation of ClickHooks.
type NoopClickHooks struct{}

func (NoopClickHooks) OnClickSent(context.Context, string, int, time.Duration, error) {}
func (NoopClickHooks) OnClickApplied(context.Context, string, int, error)             {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}
func (NoopStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}

// NoopRenderHooks is a no-op implementation of RenderHooks.
type NoopRenderHooks struct{}

func (NoopRenderHooks) OnRender(context.Context, string, int, bool, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	clickHooks  ClickHooks  = NoopClickHooks{}
	storeHooks  StoreHooks  = NoopStoreHooks{}
	renderHooks RenderHooks = NoopRenderHooks{}
	hooksMu     sync.RWMutex
)

// SetClickHooks registers custom click hooks.
// This should be called once at application startup.
func SetClickHooks(h ClickHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		clickHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// SetRenderHooks registers custom render hooks.
func SetRenderHooks(h RenderHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		renderHooks = h
	}
}

// Clicks returns the registered click hooks.
func Clicks() ClickHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return clickHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Render returns the registered render hooks.
func Render() RenderHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return renderHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	clickHooks = NoopClickHooks{}
	storeHooks = NoopStoreHooks{}
	renderHooks = NoopRenderHooks{}
}
