package render

import (
	"hash/fnv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/meltgauge/pkg/tank"
)

// palette is used for fluids without an explicit colour.
var palette = []string{
	"#c0392b", "#e67e22", "#f1c40f", "#27ae60",
	"#16a085", "#2980b9", "#8e44ad", "#7f8c8d",
}

const (
	frameColor = "#3b3b3b"
	emptyColor = "#1e1e1e"
	lightColor = "#ffffff"
)

// FluidColor returns the fluid's colour as #rrggbb.
func FluidColor(f tank.Fluid) string {
	if c, err := colorful.Hex(f.Color); err == nil {
		return c.Hex()
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(f.Name))
	return palette[h.Sum32()%uint32(len(palette))]
}

// Lighten blends hex towards white by amount in [0, 1].
func Lighten(hex string, amount float64) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	white, _ := colorful.Hex(lightColor)
	return c.BlendLab(white, amount).Clamped().Hex()
}
