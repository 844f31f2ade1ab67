// Package render holds output helpers shared by the frame renderers.
//
// Graphviz produces SVG in-process (see the [nodelink] subpackage). Raster
// and print formats are converted from that SVG with the external
// rsvg-convert tool:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
package render
