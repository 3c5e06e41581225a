package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/meltgauge/internal/config"
	"github.com/matzehuels/meltgauge/pkg/cache"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/render"
	"github.com/matzehuels/meltgauge/pkg/store"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(observability.Reset)
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestDataDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err := dataDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("dataDir() = %q", dir)
	}
}

func TestNewSender(t *testing.T) {
	s := store.NewMemoryStore()
	tests := []struct {
		transport string
		check     func(events.Sender) bool
	}{
		{"", func(x events.Sender) bool { _, ok := x.(*events.Applier); return ok }},
		{config.TransportLocal, func(x events.Sender) bool { _, ok := x.(*events.Applier); return ok }},
		{config.TransportHTTP, func(x events.Sender) bool {
			h, ok := x.(*events.HTTPSender)
			return ok && h.Attempts == 5 && h.BaseURL == "http://gauge:8080"
		}},
		{config.TransportRedis, func(x events.Sender) bool { _, ok := x.(*events.RedisPublisher); return ok }},
	}
	for _, tt := range tests {
		t.Run(tt.transport, func(t *testing.T) {
			cfg := config.Default()
			cfg.Events.Transport = tt.transport
			cfg.Events.URL = "http://gauge:8080/"
			cfg.Events.Retries = 5

			sender, closeSender, err := newSender(cfg, s)
			if err != nil {
				t.Fatalf("newSender: %v", err)
			}
			defer closeSender()
			if !tt.check(sender) {
				t.Errorf("unexpected sender %T", sender)
			}
		})
	}

	cfg := config.Default()
	cfg.Events.Transport = "pigeon"
	if _, _, err := newSender(cfg, s); !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("unknown transport: %v", err)
	}
}

func TestNewCache(t *testing.T) {
	c, err := newCache("")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("empty dir should give a NullCache, got %T", c)
	}
	c, err = newCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.FileCache); !ok {
		t.Errorf("dir should give a FileCache, got %T", c)
	}
}

func TestStorageFields(t *testing.T) {
	ctx := context.Background()
	tankDir, cacheDir := t.TempDir(), t.TempDir()

	fs, err := store.Open(ctx, store.Config{Backend: store.BackendFile, Dir: tankDir})
	if err != nil {
		t.Fatal(err)
	}
	fc, err := newCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		store store.Store
		cache cache.Cache
		want  []any
	}{
		{"file store and cache", fs, fc, []any{"tanks", tankDir, "cache", cacheDir}},
		{"file store only", fs, cache.NewNullCache(), []any{"tanks", tankDir}},
		{"memory store and cache", store.NewMemoryStore(), fc, []any{"cache", cacheDir}},
		{"nothing on disk", store.NewMemoryStore(), cache.NewNullCache(), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := storageFields(tt.store, tt.cache)
			if !slices.Equal(got, tt.want) {
				t.Errorf("storageFields() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadTankSeedsDemo(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	got, err := loadTank(ctx, s, "smeltery")
	if err != nil {
		t.Fatalf("loadTank: %v", err)
	}
	if len(got.Fluids) == 0 {
		t.Error("demo tank should hold fluids")
	}
	if _, err := s.Get(ctx, "smeltery"); err != nil {
		t.Errorf("demo tank should be stored: %v", err)
	}
	if _, err := loadTank(ctx, s, "other"); !errs.IsNotFound(err) {
		t.Errorf("second missing tank should not be seeded: %v", err)
	}
}

func TestRenderArtifact(t *testing.T) {
	w := gauge.NewWidget(gauge.Rect{W: 8, H: 48})
	tk := demoTank("smeltery")

	svg, err := renderArtifact(w, tk, renderOpts{format: formatSVG, cursor: []int{1, 47}})
	if err != nil || !strings.Contains(string(svg), `class="highlight"`) {
		t.Errorf("svg: %v", err)
	}

	data, err := renderArtifact(w, tk, renderOpts{format: formatJSON})
	if err != nil {
		t.Fatal(err)
	}
	var out render.Output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if len(out.Heights) != 3 {
		t.Errorf("Heights = %v", out.Heights)
	}

	text, err := renderArtifact(w, tk, renderOpts{format: formatText})
	if err != nil || strings.Count(string(text), "\n") != 47 {
		t.Errorf("text: %v", err)
	}

	if _, err := renderArtifact(w, tk, renderOpts{format: "png"}); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("png: %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	cfg := writeConfig(t, `
[widget]
height = 32

[[tanks]]
id = "casting"
capacity = 1000

  [[tanks.fluids]]
  name = "water"
  amount = 500
`)
	out := filepath.Join(t.TempDir(), "gauge.json")

	if err := execute(t, "--config", cfg, "render", "--tank", "casting", "-f", "json", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var got render.Output
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.TankID != "casting" || got.Bounds.H != 32 {
		t.Errorf("Output = %+v", got)
	}
}

func TestRenderCommandBadCursor(t *testing.T) {
	cfg := writeConfig(t, "")
	err := execute(t, "--config", cfg, "render", "--cursor", "1,2,3", "-o", "-")
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("render --cursor 1,2,3: %v", err)
	}
}

func TestTankCommands(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, "[store]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(filepath.Join(dir, "tanks"))+"\"\n")
	tankFile := filepath.Join(dir, "casting.toml")
	err := os.WriteFile(tankFile, []byte(`
id = "casting"
capacity = 1000

[[fluids]]
name = "molten_iron"
amount = 288

[[fluids]]
name = "water"
amount = 100
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	steps := [][]string{
		{"tank", "put", tankFile},
		{"tank", "fill", "casting", "water", "100"},
		{"tank", "drain", "casting", "molten_iron", "144"},
		{"tank", "click", "casting", "1"},
		{"tank", "get", "casting"},
		{"tank", "list"},
	}
	for _, args := range steps {
		if err := execute(t, append([]string{"--config", cfg}, args...)...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	s, err := store.NewFileStore(filepath.Join(dir, "tanks"))
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(context.Background(), "casting")
	if err != nil {
		t.Fatal(err)
	}
	if got.Fluids[0].Name != "water" || got.Fluids[0].Amount != 200 || got.Fluids[1].Amount != 144 {
		t.Errorf("tank = %+v", got.Fluids)
	}

	if err := execute(t, "--config", cfg, "tank", "rm", "casting"); err != nil {
		t.Fatal(err)
	}
	if err := execute(t, "--config", cfg, "tank", "get", "casting"); !errs.IsNotFound(err) {
		t.Errorf("get after rm: %v", err)
	}
}

func TestTankCommandErrors(t *testing.T) {
	cfg := writeConfig(t, "[[tanks]]\nid = \"a\"\ncapacity = 10\n")
	tests := []struct {
		args []string
		want errs.Code
	}{
		{[]string{"tank", "fill", "a", "water", "zero"}, errs.ErrCodeInvalidInput},
		{[]string{"tank", "drain", "a", "lava", "5"}, errs.ErrCodeNotFound},
		{[]string{"tank", "click", "a", "x"}, errs.ErrCodeInvalidIndex},
		{[]string{"tank", "click", "a", "3"}, errs.ErrCodeInvalidIndex},
		{[]string{"tank", "put", "/does/not/exist.toml"}, errs.ErrCodeNotFound},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			if got := errs.GetCode(err); got != tt.want {
				t.Errorf("code = %q (%v), want %q", got, err, tt.want)
			}
		})
	}
}

func TestHeightsCommand(t *testing.T) {
	if err := execute(t, "heights", "--capacity", "1000", "--budget", "48", "--probe", "13", "250", "250"); err != nil {
		t.Errorf("heights: %v", err)
	}
	if err := execute(t, "heights", "--budget", "-1", "1"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("negative budget: %v", err)
	}
}
