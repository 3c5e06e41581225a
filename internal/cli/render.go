package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/meltgauge/internal/config"
	errs "github.com/matzehuels/meltgauge/pkg/errors"
	"github.com/matzehuels/meltgauge/pkg/gauge"
	"github.com/matzehuels/meltgauge/pkg/observability"
	"github.com/matzehuels/meltgauge/pkg/render"
	"github.com/matzehuels/meltgauge/pkg/store"
	"github.com/matzehuels/meltgauge/pkg/tank"
)

const (
	formatSVG  = "svg"
	formatJSON = "json"
	formatText = "text"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	tankID    string
	format    string // svg, json or text
	output    string // output file; empty derives <tank>.<format>, "-" is stdout
	height    int    // overrides widget.height when > 0
	minHeight int    // overrides widget.min_height when >= 0
	cursor    []int  // x,y to highlight and probe
	detail    bool   // bucket units in tooltips
}

func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{tankID: defaultTankID, format: formatSVG, minHeight: -1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a tank gauge to SVG or JSON",
		Long: `Render the gauge of a stored tank.

SVG output carries a <title> tooltip on every layer. JSON output lists the
computed heights and layer rectangles. --cursor x,y highlights the layer
under the cursor and, for JSON, records what was hit.`,
		Example: `  meltgauge render --tank smeltery -f svg -o gauge.svg
  meltgauge render -f json --cursor 3,40 -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.cursor) != 0 && len(opts.cursor) != 2 {
				return errs.New(errs.ErrCodeInvalidInput, "--cursor takes x,y")
			}
			return c.withStore(cmd.Context(), func(cfg config.Config, s store.Store) error {
				t, err := loadTank(cmd.Context(), s, opts.tankID)
				if err != nil {
					return err
				}
				return runRender(cmd, cfg, t, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.tankID, "tank", "t", opts.tankID, "tank id")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg, json, text")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (- for stdout)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "widget height in pixels")
	cmd.Flags().IntVar(&opts.minHeight, "min", opts.minHeight, "minimum layer height")
	cmd.Flags().IntSliceVar(&opts.cursor, "cursor", nil, "cursor position x,y")
	cmd.Flags().BoolVar(&opts.detail, "detail", false, "use bucket units in tooltips")

	return cmd
}

func runRender(cmd *cobra.Command, cfg config.Config, t *tank.Tank, opts renderOpts) error {
	w := cfg.GaugeWidget()
	if opts.height > 0 {
		w.Bounds.H = opts.height
	}
	if opts.minHeight >= 0 {
		w.MinHeight = opts.minHeight
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	data, err := renderArtifact(w, t, opts)
	if err != nil {
		return err
	}
	observability.Render().OnRender(cmd.Context(), opts.format, len(data), false, time.Since(prog.start))

	out := opts.output
	if out == "" && opts.format != formatText {
		out = t.ID + "." + opts.format
	}
	if out == "" || out == "-" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write %s", out)
	}
	prog.done(fmt.Sprintf("Rendered %s", filepath.Base(out)))
	printFile(out)
	return nil
}

func renderArtifact(w gauge.Widget, t *tank.Tank, opts renderOpts) ([]byte, error) {
	switch opts.format {
	case formatSVG:
		svgOpts := []render.SVGOption{render.WithTooltips(opts.detail)}
		if len(opts.cursor) == 2 {
			svgOpts = append(svgOpts, render.WithHighlight(opts.cursor[0], opts.cursor[1]))
		}
		return render.RenderSVG(w, t, svgOpts...), nil
	case formatJSON:
		var jsonOpts []render.JSONOption
		if len(opts.cursor) == 2 {
			jsonOpts = append(jsonOpts, render.WithJSONProbe(opts.cursor[0], opts.cursor[1], opts.detail))
		}
		return render.RenderJSON(w, t, jsonOpts...)
	case formatText:
		var textOpts render.TextOptions
		if len(opts.cursor) == 2 {
			textOpts.Hover = &[2]int{opts.cursor[0], opts.cursor[1]}
		}
		return []byte(render.RenderText(w, t, textOpts)), nil
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q (want svg, json or text)", opts.format)
	}
}
