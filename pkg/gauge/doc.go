// Package gauge lays out a multi-fluid tank as stacked layers inside a fixed
// pixel budget and resolves screen positions back to layers.
//
// # Height Allocation
//
// [ComputeHeights] gives every layer a height proportional to its share of
// the tank capacity, rounded up and never below a minimum so trace amounts
// stay visible and clickable. When the tank is not full, minHeight pixels are
// kept empty at the top so a nearly full tank never looks full. If the
// layers overflow the budget, the tallest layer loses one pixel at a time
// until they fit.
//
// # Hit Testing
//
// [FindLayerAt] is the inverse of the stacking: given heights and an offset
// measured up from the bottom of the stack it returns the layer index.
//
// # Widget
//
// [Widget] binds the two functions to screen coordinates. It produces draw
// commands ([Layer]), highlight rectangles, tooltip lines and click events.
//
//	w := gauge.NewWidget(gauge.Rect{X: 7, Y: 16, W: 52, H: 52})
//	for _, l := range w.Layers(t) {
//	    draw(l.Rect, l.Fluid.Color)
//	}
//	if lines, ok := w.Tooltip(t, mouseX, mouseY, shiftDown); ok {
//	    show(lines)
//	}
package gauge
