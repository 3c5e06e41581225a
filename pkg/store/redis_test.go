package store

import (
	"context"
	"encoding/json"
	"slices"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

func newRedisTestStore(t *testing.T, prefix string) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStore(context.Background(), RedisConfig{Addr: mr.Addr(), KeyPrefix: prefix})
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestRedisStore(t *testing.T) {
	s, _ := newRedisTestStore(t, "")
	exerciseStore(t, s)
}

func TestRedisStoreKeys(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		key    string
	}{
		{"default prefix", "", "meltgauge:tank:smeltery"},
		{"custom prefix", "forge:", "forge:smeltery"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, mr := newRedisTestStore(t, tt.prefix)
			ctx := context.Background()

			if err := s.Put(ctx, sampleTank("smeltery")); err != nil {
				t.Fatalf("Put error: %v", err)
			}
			raw, err := mr.Get(tt.key)
			if err != nil {
				t.Fatalf("key %q not written: %v", tt.key, err)
			}
			var stored tank.Tank
			if err := json.Unmarshal([]byte(raw), &stored); err != nil {
				t.Fatalf("stored value is not JSON: %v", err)
			}
			if stored.ID != "smeltery" || stored.Capacity != 1000 || len(stored.Fluids) != 2 {
				t.Errorf("stored tank = %+v", stored)
			}
		})
	}
}

func TestRedisStoreListStripsPrefix(t *testing.T) {
	s, mr := newRedisTestStore(t, "")
	ctx := context.Background()

	for _, id := range []string{"crucible", "basin", "smeltery"} {
		if err := s.Put(ctx, sampleTank(id)); err != nil {
			t.Fatalf("Put(%s) error: %v", id, err)
		}
	}
	mr.Set("other:tank:foreign", "{}")
	mr.Set("meltgaugetank:near-miss", "{}")

	ids, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if want := []string{"basin", "crucible", "smeltery"}; !slices.Equal(ids, want) {
		t.Errorf("List() = %v, want %v", ids, want)
	}
}

func TestRedisStoreErrors(t *testing.T) {
	s, mr := newRedisTestStore(t, "")
	ctx := context.Background()

	_, err := s.Get(ctx, "nope")
	if got := errs.GetCode(err); got != errs.ErrCodeTankNotFound {
		t.Errorf("Get(missing) code = %q, want %q", got, errs.ErrCodeTankNotFound)
	}

	mr.Set("meltgauge:tank:broken", "not json")
	if _, err := s.Get(ctx, "broken"); err == nil || errs.IsNotFound(err) {
		t.Errorf("Get(broken) = %v, want decode error", err)
	}
}

func TestNewRedisStoreUnreachable(t *testing.T) {
	if _, err := NewRedisStore(context.Background(), RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Error("NewRedisStore should fail when the server is down")
	}
}

func TestNewRedisStoreWithClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreWithClient(client, "shared:")
	t.Cleanup(func() { s.Close() })

	if err := s.Put(context.Background(), sampleTank("basin")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if !mr.Exists("shared:basin") {
		t.Error("tank not written under the client prefix")
	}
}
