// Package render turns a tank gauge into output formats.
//
// A [gauge.Widget] already knows where each layer goes; the renderers here
// only draw what it reports, so every format agrees with the widget's hit
// testing.
//
//   - [RenderSVG]: a standalone SVG with one rect per layer, optional
//     highlight and hover titles
//   - [RenderJSON]: bounds, heights and layers for other front ends
//   - [RenderText]: terminal cells styled with lipgloss, one row per pixel
//
// Fluids without a colour get one from a fixed palette keyed on the fluid
// name, so a fluid keeps its colour across renders.
package render
