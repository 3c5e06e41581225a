package gauge

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

func testTank() *tank.Tank {
	return &tank.Tank{
		ID:       "smeltery",
		Capacity: 1000,
		Fluids: []tank.Fluid{
			{Name: "iron", Amount: 250, Color: "#a81212"},
			{Name: "gold", Amount: 250, Color: "#f2d33a"},
		},
	}
}

// testWidget spans rows 20..67 and columns 10..17.
func testWidget() Widget {
	return NewWidget(Rect{X: 10, Y: 20, W: 8, H: 48})
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 8, H: 48}
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 20, true},
		{17, 67, true},
		{18, 30, false},
		{9, 30, false},
		{12, 68, false},
		{12, 19, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWidgetLayers(t *testing.T) {
	layers := testWidget().Layers(testTank())

	want := []Layer{
		{Index: 0, Fluid: testTank().Fluids[0], Rect: Rect{X: 10, Y: 56, W: 8, H: 12}},
		{Index: 1, Fluid: testTank().Fluids[1], Rect: Rect{X: 10, Y: 44, W: 8, H: 12}},
	}
	if !slices.Equal(layers, want) {
		t.Errorf("Layers() = %+v, want %+v", layers, want)
	}
}

func TestWidgetLayersEmptyTank(t *testing.T) {
	w := testWidget()
	empty := tank.New("empty", 1000)
	if got := w.Layers(empty); got != nil {
		t.Errorf("Layers(empty) = %v, want nil", got)
	}

	r, ok := w.Highlight(empty, 12, 40)
	if !ok || r != w.Bounds {
		t.Errorf("Highlight(empty) = %+v, %v; want whole widget", r, ok)
	}
}

func TestWidgetHovered(t *testing.T) {
	w := testWidget()
	tk := testTank()

	tests := []struct {
		name string
		x, y int
		want int
		ok   bool
	}{
		{"bottom row", 12, 67, 0, true},
		{"top of first layer", 12, 56, 0, true},
		{"bottom of second layer", 12, 55, 1, true},
		{"top of second layer", 12, 44, 1, true},
		{"empty space", 12, 43, -1, false},
		{"outside", 30, 60, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.Hovered(tk, tt.x, tt.y)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Hovered(%d, %d) = %d, %v; want %d, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWidgetHighlight(t *testing.T) {
	w := testWidget()
	tk := testTank()

	tests := []struct {
		name string
		x, y int
		want Rect
		ok   bool
	}{
		{"first layer", 12, 60, Rect{X: 10, Y: 56, W: 8, H: 12}, true},
		{"second layer", 12, 50, Rect{X: 10, Y: 44, W: 8, H: 12}, true},
		{"empty space", 12, 30, Rect{X: 10, Y: 20, W: 8, H: 24}, true},
		{"outside", 9, 30, Rect{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := w.Highlight(tk, tt.x, tt.y)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Highlight(%d, %d) = %+v, %v; want %+v, %v", tt.x, tt.y, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestWidgetTooltip(t *testing.T) {
	w := testWidget()
	tk := testTank()

	got, ok := w.Tooltip(tk, 12, 60, false)
	want := []string{"Iron", "1 ingot", "6 nuggets", "10 mB", TooltipShiftHint}
	if !ok || !slices.Equal(got, want) {
		t.Errorf("Tooltip(layer) = %q, %v; want %q", got, ok, want)
	}

	got, ok = w.Tooltip(tk, 12, 30, true)
	want = []string{TooltipCapacity, "1 B", TooltipAvailable, "500 mB", TooltipUsed, "500 mB"}
	if !ok || !slices.Equal(got, want) {
		t.Errorf("Tooltip(empty, detail) = %q, %v; want %q", got, ok, want)
	}

	if _, ok := w.Tooltip(tk, 0, 0, false); ok {
		t.Error("Tooltip outside the widget should miss")
	}
}

func TestWidgetClick(t *testing.T) {
	w := testWidget()
	tk := testTank()
	ctx := context.Background()
	var rec events.Recorder

	sent, err := w.Click(ctx, tk, 12, 50, &rec)
	if err != nil || !sent {
		t.Fatalf("Click(layer) = %v, %v", sent, err)
	}
	sent, err = w.Click(ctx, tk, 12, 30, &rec)
	if err != nil || sent {
		t.Fatalf("Click(empty) = %v, %v; want no event", sent, err)
	}
	sent, _ = w.Click(ctx, tk, 40, 50, &rec)
	if sent {
		t.Fatal("Click(outside) should not send")
	}

	clicks := rec.Clicks()
	if len(clicks) != 1 || clicks[0].Index != 1 || clicks[0].TankID != "smeltery" {
		t.Errorf("recorded clicks = %+v", clicks)
	}

	boom := errors.New("offline")
	failing := events.SenderFunc(func(context.Context, events.Click) error { return boom })
	if sent, err := w.Click(ctx, tk, 12, 60, failing); !errors.Is(err, boom) || sent {
		t.Errorf("Click(failing) = %v, %v", sent, err)
	}
}
