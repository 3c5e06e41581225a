// Package events carries "layer clicked" messages from a gauge to the owner
// of the tank.
//
// A gauge resolves a click to a layer index and hands a [Click] to a
// [Sender]. Transports:
//   - [Applier]: in-process, applies the click to a store directly
//   - [HTTPSender]: POSTs to the meltgauge HTTP service
//   - [RedisPublisher]: publishes on a Redis channel read by [RedisSubscriber]
//   - [Recorder]: keeps clicks in memory
//
// On the owner side, [Applier] moves the clicked fluid to the bottom of the
// tank and saves it.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

// Click reports that the layer at Index of tank TankID was clicked.
type Click struct {
	ID     uuid.UUID `json:"id"`
	TankID string    `json:"tank_id"`
	Index  int       `json:"index"`
	At     time.Time `json:"at"`
}

// NewClick creates a click with a fresh ID and the current time.
func NewClick(tankID string, index int) Click {
	return Click{
		ID:     uuid.New(),
		TankID: tankID,
		Index:  index,
		At:     time.Now().UTC(),
	}
}

// Validate checks the fields a receiver relies on.
func (c Click) Validate() error {
	if c.TankID == "" {
		return errs.New(errs.ErrCodeInvalidInput, "click has no tank id")
	}
	if c.Index < 0 {
		return errs.New(errs.ErrCodeInvalidIndex, "click index %d is negative", c.Index)
	}
	return nil
}

// Sender delivers clicks to the tank owner.
type Sender interface {
	Send(ctx context.Context, c Click) error
}

// SenderFunc adapts a function to [Sender].
type SenderFunc func(ctx context.Context, c Click) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, c Click) error { return f(ctx, c) }

// Recorder keeps every click it receives. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	clicks []Click
}

// Send records c.
func (r *Recorder) Send(ctx context.Context, c Click) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clicks = append(r.clicks, c)
	return nil
}

// Clicks returns a copy of the recorded clicks.
func (r *Recorder) Clicks() []Click {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Click(nil), r.clicks...)
}

var (
	_ Sender = (*Recorder)(nil)
	_ Sender = SenderFunc(nil)
)
