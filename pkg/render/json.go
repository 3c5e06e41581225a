package render

import (
	"encoding/json"

	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	cursor *cursor
	detail bool
}

// WithJSONProbe resolves the cursor at (x, y) and records the hovered layer,
// the highlight rectangle and the tooltip. detail selects bucket units.
func WithJSONProbe(x, y int, detail bool) JSONOption {
	return func(r *jsonRenderer) { r.cursor = &cursor{x, y}; r.detail = detail }
}

// Output is the JSON document produced by [RenderJSON].
type Output struct {
	TankID    string      `json:"tank_id"`
	Capacity  int         `json:"capacity"`
	Contained int         `json:"contained"`
	Bounds    gauge.Rect  `json:"bounds"`
	MinHeight int         `json:"min_height"`
	Heights   []int       `json:"heights"`
	Layers    []LayerJSON `json:"layers"`
	Probe     *ProbeJSON  `json:"probe,omitempty"`
}

// LayerJSON is one drawn layer.
type LayerJSON struct {
	Index  int        `json:"index"`
	Name   string     `json:"name"`
	Amount int        `json:"amount"`
	Color  string     `json:"color"`
	Rect   gauge.Rect `json:"rect"`
}

// ProbeJSON describes what lies under a cursor.
type ProbeJSON struct {
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Hovered   *int        `json:"hovered,omitempty"`
	Highlight *gauge.Rect `json:"highlight,omitempty"`
	Tooltip   []string    `json:"tooltip,omitempty"`
}

// Build assembles the document without encoding it.
func Build(w gauge.Widget, t *tank.Tank, opts ...JSONOption) Output {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	out := Output{
		TankID:    t.ID,
		Capacity:  t.Capacity,
		Contained: t.Contained(),
		Bounds:    w.Bounds,
		MinHeight: w.MinHeight,
		Heights:   w.Heights(t),
		Layers:    []LayerJSON{},
	}
	for _, l := range w.Layers(t) {
		out.Layers = append(out.Layers, LayerJSON{
			Index:  l.Index,
			Name:   l.Fluid.Name,
			Amount: l.Fluid.Amount,
			Color:  FluidColor(l.Fluid),
			Rect:   l.Rect,
		})
	}

	if r.cursor != nil {
		p := &ProbeJSON{X: r.cursor.x, Y: r.cursor.y}
		if i, ok := w.Hovered(t, p.X, p.Y); ok {
			p.Hovered = &i
		}
		if hl, ok := w.Highlight(t, p.X, p.Y); ok {
			p.Highlight = &hl
		}
		p.Tooltip, _ = w.Tooltip(t, p.X, p.Y, r.detail)
		out.Probe = p
	}
	return out
}

// RenderJSON encodes [Build] as indented JSON.
func RenderJSON(w gauge.Widget, t *tank.Tank, opts ...JSONOption) ([]byte, error) {
	return json.MarshalIndent(Build(w, t, opts...), "", "  ")
}
