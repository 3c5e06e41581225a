package cache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit || data != nil {
		t.Error("NullCache should not store data")
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "missing"); hit {
		t.Error("empty cache should miss")
	}

	if err := c.Set(ctx, "svg", []byte("<svg/>"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "svg")
	if err != nil || !hit || string(data) != "<svg/>" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "svg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "svg"); hit {
		t.Error("deleted entry should miss")
	}
	if err := c.Delete(ctx, "svg"); err != nil {
		t.Errorf("deleting twice should be fine: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	fc := c.(*FileCache)

	path := fc.path("k")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestArtifactKey(t *testing.T) {
	tk := &tank.Tank{ID: "a", Capacity: 1000, Fluids: []tank.Fluid{
		{Name: "iron", Amount: 250},
		{Name: "gold", Amount: 250},
	}}
	w := gauge.NewWidget(gauge.Rect{W: 8, H: 48})
	base := ArtifactKey(tk, w, "svg", ArtifactOpts{})

	if !strings.HasPrefix(base, "artifact:svg:") {
		t.Errorf("key %q should carry the format prefix", base)
	}
	if base != ArtifactKey(tk.Clone(), w, "svg", ArtifactOpts{}) {
		t.Error("equal inputs should give equal keys")
	}

	moved := tk.Clone()
	if err := moved.MoveToBottom(1); err != nil {
		t.Fatal(err)
	}
	taller := w
	taller.Bounds.H = 64

	variants := map[string]string{
		"json":     ArtifactKey(tk, w, "json", ArtifactOpts{}),
		"moved":    ArtifactKey(moved, w, "svg", ArtifactOpts{}),
		"taller":   ArtifactKey(tk, taller, "svg", ArtifactOpts{}),
		"cursor":   ArtifactKey(tk, w, "svg", ArtifactOpts{Cursor: &[2]int{1, 2}}),
		"detail":   ArtifactKey(tk, w, "svg", ArtifactOpts{Detail: true}),
		"tooltips": ArtifactKey(tk, w, "svg", ArtifactOpts{Tooltips: true}),
	}
	for name, key := range variants {
		if key == base {
			t.Errorf("%s: key should differ from base", name)
		}
	}
}
