package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

const gaugeInteractionCSS = `
    .layer { transition: opacity 0.15s ease; }
    .layer:hover { opacity: 0.8; }
    .highlight { pointer-events: none; }`

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	cursor   *cursor
	tooltips bool
	detail   bool
}

type cursor struct{ x, y int }

// WithHighlight highlights whatever lies under the cursor at (x, y).
func WithHighlight(x, y int) SVGOption {
	return func(r *svgRenderer) { r.cursor = &cursor{x, y} }
}

// WithTooltips adds a <title> to every layer and to the empty area.
// detail selects bucket units instead of ingots.
func WithTooltips(detail bool) SVGOption {
	return func(r *svgRenderer) { r.tooltips = true; r.detail = detail }
}

// RenderSVG draws the gauge for t. The viewBox matches the widget bounds,
// so SVG coordinates are the widget's screen coordinates.
func RenderSVG(w gauge.Widget, t *tank.Tank, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}
	b := w.Bounds

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%d %d %d %d" width="%d" height="%d">`+"\n",
		b.X, b.Y, b.W, b.H, b.W, b.H)
	fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", gaugeInteractionCSS)

	fmt.Fprintf(&buf, `  <rect class="frame" x="%d" y="%d" width="%d" height="%d" fill="%s" stroke="%s">`,
		b.X, b.Y, b.W, b.H, emptyColor, frameColor)
	if r.tooltips {
		writeTitle(&buf, gauge.TankTooltip(t, r.detail))
	}
	buf.WriteString("</rect>\n")

	for _, l := range w.Layers(t) {
		if l.Rect.H <= 0 {
			continue
		}
		fmt.Fprintf(&buf, `  <rect class="layer" id="layer-%d" data-fluid="%s" x="%d" y="%d" width="%d" height="%d" fill="%s">`,
			l.Index, escapeXML(l.Fluid.Name), l.Rect.X, l.Rect.Y, l.Rect.W, l.Rect.H, FluidColor(l.Fluid))
		if r.tooltips {
			writeTitle(&buf, gauge.FluidTooltip(l.Fluid, r.detail))
		}
		buf.WriteString("</rect>\n")
	}

	if r.cursor != nil {
		if hl, ok := w.Highlight(t, r.cursor.x, r.cursor.y); ok && hl.H > 0 {
			fmt.Fprintf(&buf, `  <rect class="highlight" x="%d" y="%d" width="%d" height="%d" fill="%s" fill-opacity="0.5"/>`+"\n",
				hl.X, hl.Y, hl.W, hl.H, lightColor)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeTitle(buf *bytes.Buffer, lines []string) {
	fmt.Fprintf(buf, "<title>%s</title>", escapeXML(strings.Join(lines, "\n")))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
