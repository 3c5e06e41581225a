// Package cache stores rendered gauge artifacts.
//
// Keys come from [ArtifactKey], which hashes everything a render depends on:
// the tank contents, the widget geometry, the output format and the cursor.
// Any change to the tank therefore produces a new key, and stale entries are
// simply never read again.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. hit is false on a miss or an
	// expired entry.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactOpts are the render options that change an artifact's bytes.
type ArtifactOpts struct {
	Cursor   *[2]int `json:"cursor,omitempty"`
	Tooltips bool    `json:"tooltips,omitempty"`
	Detail   bool    `json:"detail,omitempty"`
}

// ArtifactKey builds the cache key for rendering t in w as format.
func ArtifactKey(t *tank.Tank, w gauge.Widget, format string, opts ArtifactOpts) string {
	return hashKey("artifact:"+format, t, w, opts)
}
