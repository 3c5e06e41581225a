package events

import (
	"context"
	"sync"

	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/store"
)

// Applier is the tank-owner side of a click: it moves the clicked fluid to
// the bottom of the tank and saves the result.
//
// Applier serializes its own read-modify-write cycles. Writers outside the
// process can still race with it.
type Applier struct {
	mu    sync.Mutex
	store store.Store
}

// NewApplier creates an applier backed by s.
func NewApplier(s store.Store) *Applier {
	return &Applier{store: s}
}

// Apply moves fluid c.Index of tank c.TankID to the bottom.
func (a *Applier) Apply(ctx context.Context, c Click) (err error) {
	defer func() {
		observability.Clicks().OnClickApplied(ctx, c.TankID, c.Index, err)
	}()

	if err := c.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	t, err := a.store.Get(ctx, c.TankID)
	if err != nil {
		return err
	}
	if err := t.MoveToBottom(c.Index); err != nil {
		return err
	}
	return a.store.Put(ctx, t)
}

// Send applies c in-process, so an Applier can stand in for a remote owner.
func (a *Applier) Send(ctx context.Context, c Click) error {
	return a.Apply(ctx, c)
}

var _ Sender = (*Applier)(nil)
