package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

const (
	fillRune  = " "
	emptyRune = "·"
)

var emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(frameColor))

// TextOptions controls [RenderText].
type TextOptions struct {
	// Hover is the cursor position in screen cells, or nil.
	Hover *[2]int
}

// RenderText draws the inside of the gauge as W×H terminal cells, one cell
// per pixel, without a frame. Row 0 is the widget's top row (Bounds.Y).
func RenderText(w gauge.Widget, t *tank.Tank, opts TextOptions) string {
	b := w.Bounds
	if b.W <= 0 || b.H <= 0 {
		return ""
	}

	rowStyles := make([]*lipgloss.Style, b.H)
	for _, l := range w.Layers(t) {
		s := lipgloss.NewStyle().Background(lipgloss.Color(FluidColor(l.Fluid)))
		for y := l.Rect.Y; y < l.Rect.Bottom(); y++ {
			if r := y - b.Y; r >= 0 && r < b.H {
				rowStyles[r] = &s
			}
		}
	}

	var hl gauge.Rect
	hasHighlight := false
	if opts.Hover != nil {
		hl, hasHighlight = w.Highlight(t, opts.Hover[0], opts.Hover[1])
	}

	fill := strings.Repeat(fillRune, b.W)
	empty := strings.Repeat(emptyRune, b.W)

	rows := make([]string, b.H)
	for r := range b.H {
		y := b.Y + r
		lit := hasHighlight && y >= hl.Y && y < hl.Bottom()
		switch s := rowStyles[r]; {
		case s != nil && lit:
			bg := Lighten(FluidColor(fluidForRow(w, t, y)), 0.45)
			rows[r] = s.Background(lipgloss.Color(bg)).Render(fill)
		case s != nil:
			rows[r] = s.Render(fill)
		case lit:
			rows[r] = emptyStyle.Background(lipgloss.Color(frameColor)).Render(fill)
		default:
			rows[r] = emptyStyle.Render(empty)
		}
	}
	return strings.Join(rows, "\n")
}

// fluidForRow returns the fluid drawn on screen row y.
func fluidForRow(w gauge.Widget, t *tank.Tank, y int) tank.Fluid {
	if i, ok := gauge.FindLayerAt(w.Heights(t), w.Probe(y)); ok {
		return t.Fluids[i]
	}
	return tank.Fluid{}
}
