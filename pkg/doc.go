// Package pkg provides the libraries behind meltgauge.
//
// # Overview
//
// meltgauge draws a multi-fluid tank as a gauge: each fluid is a horizontal
// band, bottom fluid first, and clicking a band moves that fluid to the
// bottom of the tank. The pkg directory is organized as:
//
//  1. [tank] - The tank model (fluids, capacity, reordering)
//  2. [gauge] - Layer height allocation, hit-testing, widget and tooltips
//  3. [render] - SVG, JSON and terminal output
//  4. [events] - Click messages and their transports (local, HTTP, Redis)
//  5. [store] - Tank persistence (memory, file, Redis, MongoDB)
//  6. [cache] - Rendered artifact cache
//
// Supporting packages are [errors], [observability] and [buildinfo].
//
// # Data Flow
//
//	store.Store ──► tank.Tank ──► gauge.Widget ──► render (SVG/JSON/text)
//	                    ▲               │
//	                    │          click at (x, y)
//	                    │               ▼
//	             events.Applier ◄── events.Sender
//
// # Quick Start
//
// Lay out a tank and find the layer under a cursor:
//
//	t := &tank.Tank{ID: "smeltery", Capacity: 1000, Fluids: []tank.Fluid{
//	    {Name: "molten_iron", Amount: 250},
//	    {Name: "molten_gold", Amount: 250},
//	}}
//	w := gauge.NewWidget(gauge.Rect{X: 10, Y: 20, W: 8, H: 48})
//	heights := w.Heights(t)          // [12 12]
//	i, ok := w.Hovered(t, 12, 60)    // 0, true
//	svg := render.RenderSVG(w, t, render.WithHighlight(12, 60))
package pkg
