package gauge

import (
	"context"
	"time"

	"github.com/matzehuels/meltgauge/pkg/events"
	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// DefaultMinHeight is the smallest height a layer is drawn with.
const DefaultMinHeight = 3

// Rect is an axis-aligned rectangle in screen pixels. Y grows downward.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.X+r.W && r.Y <= y && y < r.Y+r.H
}

// Bottom returns the first row below the rectangle.
func (r Rect) Bottom() int { return r.Y + r.H }

// Layer is one draw command: fill Rect with Fluid.
type Layer struct {
	Index int
	Fluid tank.Fluid
	Rect  Rect
}

// Widget places a tank gauge on screen.
type Widget struct {
	Bounds    Rect
	MinHeight int
}

// NewWidget creates a widget with [DefaultMinHeight].
func NewWidget(bounds Rect) Widget {
	return Widget{Bounds: bounds, MinHeight: DefaultMinHeight}
}

// Heights returns the layer heights for t within the widget height.
// An empty tank draws nothing, so every height is zero.
func (w Widget) Heights(t *tank.Tank) []int {
	contained := t.Contained()
	if contained <= 0 {
		return make([]int, len(t.Fluids))
	}
	return ComputeHeights(t.Quantities(), max(contained, t.Capacity), w.Bounds.H, w.MinHeight)
}

// Layers returns one draw command per fluid, stacked upward from the bottom
// edge of the widget.
func (w Widget) Layers(t *tank.Tank) []Layer {
	if t.Contained() <= 0 {
		return nil
	}
	heights := w.Heights(t)
	layers := make([]Layer, 0, len(heights))
	bottom := w.Bounds.Bottom()
	for i, h := range heights {
		layers = append(layers, Layer{
			Index: i,
			Fluid: t.Fluids[i],
			Rect:  Rect{X: w.Bounds.X, Y: bottom - h, W: w.Bounds.W, H: h},
		})
		bottom -= h
	}
	return layers
}

// Probe converts a screen row to an offset above the bottom of the stack.
func (w Widget) Probe(y int) int {
	return w.Bounds.Bottom() - y - 1
}

// Hovered returns the index of the layer under (x, y).
func (w Widget) Hovered(t *tank.Tank, x, y int) (int, bool) {
	if !w.Bounds.Contains(x, y) {
		return -1, false
	}
	return FindLayerAt(w.Heights(t), w.Probe(y))
}

// Highlight returns the area to highlight for a cursor at (x, y): the hovered
// layer, or the empty space above all layers. It reports false when the
// cursor is outside the widget.
func (w Widget) Highlight(t *tank.Tank, x, y int) (Rect, bool) {
	if !w.Bounds.Contains(x, y) {
		return Rect{}, false
	}
	heights := w.Heights(t)
	i, ok := FindLayerAt(heights, w.Probe(y))
	if !ok {
		return Rect{X: w.Bounds.X, Y: w.Bounds.Y, W: w.Bounds.W, H: w.Bounds.H - sum(heights)}, true
	}
	below := sum(heights[:i+1])
	return Rect{X: w.Bounds.X, Y: w.Bounds.Bottom() - below, W: w.Bounds.W, H: heights[i]}, true
}

// Tooltip returns the tooltip for a cursor at (x, y). Over a layer it
// describes that fluid; over empty space it describes the whole tank.
func (w Widget) Tooltip(t *tank.Tank, x, y int, detail bool) ([]string, bool) {
	if !w.Bounds.Contains(x, y) {
		return nil, false
	}
	if i, ok := FindLayerAt(w.Heights(t), w.Probe(y)); ok {
		return FluidTooltip(t.Fluids[i], detail), true
	}
	return TankTooltip(t, detail), true
}

// Click sends a click event for the layer under (x, y). It reports whether
// an event was sent; clicks on empty space or outside the widget send
// nothing.
func (w Widget) Click(ctx context.Context, t *tank.Tank, x, y int, sender events.Sender) (bool, error) {
	i, ok := w.Hovered(t, x, y)
	if !ok {
		return false, nil
	}
	start := time.Now()
	err := sender.Send(ctx, events.NewClick(t.ID, i))
	observability.Clicks().OnClickSent(ctx, t.ID, i, time.Since(start), err)
	if err != nil {
		return false, err
	}
	return true, nil
}
