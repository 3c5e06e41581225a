package tank

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

func names(t *Tank) []string {
	out := make([]string, len(t.Fluids))
	for i, f := range t.Fluids {
		out[i] = f.Name
	}
	return out
}

func sample() *Tank {
	return &Tank{
		ID:       "smeltery",
		Capacity: 1000,
		Fluids: []Fluid{
			{Name: "iron", Amount: 288},
			{Name: "gold", Amount: 144},
			{Name: "copper", Amount: 16},
		},
	}
}

func TestContainedAndRemaining(t *testing.T) {
	tk := sample()
	if got := tk.Contained(); got != 448 {
		t.Errorf("Contained() = %d, want 448", got)
	}
	if got := tk.Remaining(); got != 552 {
		t.Errorf("Remaining() = %d, want 552", got)
	}

	tk.Capacity = 100
	if got := tk.Remaining(); got != 0 {
		t.Errorf("Remaining() over capacity = %d, want 0", got)
	}
}

func TestQuantities(t *testing.T) {
	if got := sample().Quantities(); !slices.Equal(got, []int{288, 144, 16}) {
		t.Errorf("Quantities() = %v", got)
	}
	if got := New("empty", 10).Quantities(); len(got) != 0 {
		t.Errorf("empty Quantities() = %v", got)
	}
}

func TestMoveToBottom(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  []string
	}{
		{"top to bottom", 2, []string{"copper", "iron", "gold"}},
		{"middle to bottom", 1, []string{"gold", "iron", "copper"}},
		{"already bottom", 0, []string{"iron", "gold", "copper"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := sample()
			if err := tk.MoveToBottom(tt.index); err != nil {
				t.Fatalf("MoveToBottom(%d) error: %v", tt.index, err)
			}
			if got := names(tk); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoveToBottomOutOfRange(t *testing.T) {
	for _, i := range []int{-1, 3, 99} {
		err := sample().MoveToBottom(i)
		if !errs.Is(err, errs.ErrCodeInvalidIndex) {
			t.Errorf("MoveToBottom(%d) = %v, want INVALID_INDEX", i, err)
		}
	}
}

func TestFill(t *testing.T) {
	tk := sample()

	if got := tk.Fill(Fluid{Name: "gold", Amount: 144}); got != 144 {
		t.Errorf("Fill(gold) = %d, want 144", got)
	}
	if f, _ := tk.FluidAt(1); f.Amount != 288 {
		t.Errorf("merged gold = %d, want 288", f.Amount)
	}

	if got := tk.Fill(Fluid{Name: "tin", Amount: 1000}); got != 408 {
		t.Errorf("Fill(tin) = %d, want 408 (capped)", got)
	}
	if got := names(tk); !slices.Equal(got, []string{"iron", "gold", "copper", "tin"}) {
		t.Errorf("order = %v", got)
	}

	if got := tk.Fill(Fluid{Name: "lava", Amount: 1}); got != 0 {
		t.Errorf("Fill into full tank = %d, want 0", got)
	}
}

func TestDrain(t *testing.T) {
	tk := sample()

	if got := tk.Drain("iron", 144); got != 144 {
		t.Errorf("Drain(iron, 144) = %d, want 144", got)
	}
	if got := tk.Drain("copper", 100); got != 16 {
		t.Errorf("Drain(copper, 100) = %d, want 16", got)
	}
	if got := names(tk); !slices.Equal(got, []string{"iron", "gold"}) {
		t.Errorf("order after drain = %v", got)
	}
	if got := tk.Drain("unknown", 5); got != 0 {
		t.Errorf("Drain(unknown) = %d, want 0", got)
	}
}

func TestClone(t *testing.T) {
	tk := sample()
	c := tk.Clone()
	c.Fluids[0].Amount = 1
	if tk.Fluids[0].Amount != 288 {
		t.Error("Clone shares fluid storage with the original")
	}
	if (*Tank)(nil).Clone() != nil {
		t.Error("nil Clone should be nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		tank *Tank
		ok   bool
	}{
		{"valid", sample(), true},
		{"empty id", &Tank{Capacity: 10}, false},
		{"negative capacity", &Tank{ID: "a", Capacity: -1}, false},
		{"unnamed fluid", &Tank{ID: "a", Capacity: 10, Fluids: []Fluid{{Amount: 1}}}, false},
		{"negative amount", &Tank{ID: "a", Capacity: 10, Fluids: []Fluid{{Name: "x", Amount: -1}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tank.Validate()
			if (err == nil) != tt.ok {
				t.Fatalf("Validate() = %v, ok want %v", err, tt.ok)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidTank) {
				t.Errorf("Validate() code = %v, want INVALID_TANK", errs.GetCode(err))
			}
		})
	}
}
