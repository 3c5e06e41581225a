package tank

import (
	"slices"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

// Fluid is one substance in the tank.
type Fluid struct {
	Name        string `json:"name" toml:"name" bson:"name"`
	Amount      int    `json:"amount" toml:"amount" bson:"amount"`
	Color       string `json:"color,omitempty" toml:"color" bson:"color,omitempty"`
	Temperature int    `json:"temperature,omitempty" toml:"temperature" bson:"temperature,omitempty"`
}

// Tank holds fluids bottom to top.
type Tank struct {
	ID       string  `json:"id" toml:"id" bson:"tank_id"`
	Capacity int     `json:"capacity" toml:"capacity" bson:"capacity"`
	Fluids   []Fluid `json:"fluids" toml:"fluids" bson:"fluids"`
}

// New creates an empty tank.
func New(id string, capacity int) *Tank {
	return &Tank{ID: id, Capacity: capacity}
}

// Clone returns a deep copy.
func (t *Tank) Clone() *Tank {
	if t == nil {
		return nil
	}
	c := *t
	c.Fluids = slices.Clone(t.Fluids)
	return &c
}

// Contained returns the total amount of all fluids.
func (t *Tank) Contained() int {
	total := 0
	for _, f := range t.Fluids {
		total += f.Amount
	}
	return total
}

// Remaining returns the free capacity, never negative.
func (t *Tank) Remaining() int {
	return max(0, t.Capacity-t.Contained())
}

// Quantities returns the fluid amounts in stack order.
func (t *Tank) Quantities() []int {
	q := make([]int, len(t.Fluids))
	for i, f := range t.Fluids {
		q[i] = f.Amount
	}
	return q
}

// FluidAt returns the fluid at index i.
func (t *Tank) FluidAt(i int) (Fluid, bool) {
	if i < 0 || i >= len(t.Fluids) {
		return Fluid{}, false
	}
	return t.Fluids[i], true
}

// MoveToBottom moves the fluid at index i to the bottom of the stack.
// The relative order of the remaining fluids is preserved.
func (t *Tank) MoveToBottom(i int) error {
	if i < 0 || i >= len(t.Fluids) {
		return errs.New(errs.ErrCodeInvalidIndex, "tank %s has no fluid at index %d", t.ID, i)
	}
	if i == 0 {
		return nil
	}
	f := t.Fluids[i]
	copy(t.Fluids[1:i+1], t.Fluids[:i])
	t.Fluids[0] = f
	return nil
}

// Fill adds f to the tank, merging with an existing fluid of the same name.
// It returns the amount accepted, which is capped by the free capacity.
func (t *Tank) Fill(f Fluid) int {
	accepted := min(f.Amount, t.Remaining())
	if accepted <= 0 {
		return 0
	}
	if i := t.index(f.Name); i >= 0 {
		t.Fluids[i].Amount += accepted
		return accepted
	}
	f.Amount = accepted
	t.Fluids = append(t.Fluids, f)
	return accepted
}

// Drain removes up to amount of the named fluid and returns what was removed.
// A fluid drained to zero leaves the stack.
func (t *Tank) Drain(name string, amount int) int {
	i := t.index(name)
	if i < 0 || amount <= 0 {
		return 0
	}
	drained := min(amount, t.Fluids[i].Amount)
	t.Fluids[i].Amount -= drained
	if t.Fluids[i].Amount == 0 {
		t.Fluids = slices.Delete(t.Fluids, i, i+1)
	}
	return drained
}

// Validate checks the tank for values the gauge cannot draw.
func (t *Tank) Validate() error {
	if t.ID == "" {
		return errs.New(errs.ErrCodeInvalidTank, "tank id cannot be empty")
	}
	if t.Capacity < 0 {
		return errs.New(errs.ErrCodeInvalidTank, "tank %s has negative capacity %d", t.ID, t.Capacity)
	}
	for i, f := range t.Fluids {
		if f.Name == "" {
			return errs.New(errs.ErrCodeInvalidTank, "tank %s: fluid %d has no name", t.ID, i)
		}
		if f.Amount < 0 {
			return errs.New(errs.ErrCodeInvalidTank, "tank %s: fluid %s has negative amount %d", t.ID, f.Name, f.Amount)
		}
	}
	return nil
}

func (t *Tank) index(name string) int {
	return slices.IndexFunc(t.Fluids, func(f Fluid) bool { return f.Name == name })
}
