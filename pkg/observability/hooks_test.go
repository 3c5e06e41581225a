package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	c := NoopClickHooks{}
	c.OnClickSent(ctx, "smeltery", 1, time.Millisecond, nil)
	c.OnClickApplied(ctx, "smeltery", 1, nil)

	s := NoopStoreHooks{}
	s.OnLoad(ctx, "memory", "smeltery", time.Millisecond, nil)
	s.OnSave(ctx, "memory", "smeltery", time.Millisecond, nil)

	r := NoopRenderHooks{}
	r.OnRender(ctx, "svg", 512, false, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Clicks().(NoopClickHooks); !ok {
		t.Error("Clicks() should return NoopClickHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Render().(NoopRenderHooks); !ok {
		t.Error("Render() should return NoopRenderHooks by default")
	}

	customClicks := &testClickHooks{}
	SetClickHooks(customClicks)
	if Clicks() != customClicks {
		t.Error("SetClickHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customRender := &testRenderHooks{}
	SetRenderHooks(customRender)
	if Render() != customRender {
		t.Error("SetRenderHooks should set custom hooks")
	}

	// nil is ignored
	SetClickHooks(nil)
	if Clicks() != customClicks {
		t.Error("SetClickHooks(nil) should keep the current hooks")
	}

	Reset()
	if _, ok := Clicks().(NoopClickHooks); !ok {
		t.Error("Reset should restore NoopClickHooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testClickHooks{}
	SetClickHooks(h)
	Clicks().OnClickApplied(context.Background(), "smeltery", 2, nil)

	if h.applied != 1 || h.lastIndex != 2 {
		t.Errorf("applied = %d lastIndex = %d, want 1 and 2", h.applied, h.lastIndex)
	}
}

type testClickHooks struct {
	applied   int
	lastIndex int
}

func (h *testClickHooks) OnClickSent(context.Context, string, int, time.Duration, error) {}
func (h *testClickHooks) OnClickApplied(_ context.Context, _ string, index int, _ error) {
	h.applied++
	h.lastIndex = index
}

type testStoreHooks struct{}

func (testStoreHooks) OnLoad(context.Context, string, string, time.Duration, error) {}
func (testStoreHooks) OnSave(context.Context, string, string, time.Duration, error) {}

type testRenderHooks struct{}

func (testRenderHooks) OnRender(context.Context, string, int, bool, time.Duration) {}
