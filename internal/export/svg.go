// Package export writes laid out graphs and terminal canvases as SVG.
package export

import (
	"fmt"
	"html"
	"strings"

	"github.com/san-kum/forcegraph/internal/chart"
	"github.com/san-kum/forcegraph/internal/graph"
	"github.com/san-kum/forcegraph/internal/viz"
)

const nodeRadius = 4.0

func header(sb *strings.Builder, width, height float64, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}

// GraphToSVG draws nodes as circles and resolvable edges as lines, fitted
// into a width x height picture. Dangling edges are left out.
func GraphToSVG(nodes []*graph.Node, edges []*graph.Edge, width, height int, theme viz.Theme) string {
	w, h := float64(width), float64(height)
	pad := nodeRadius * 2
	xs := chart.NewLinearScale(pad, w-pad)
	ys := chart.NewLinearScale(h-pad, pad)

	var b chart.Bounds
	for i, n := range nodes {
		nb := chart.Bounds{MinX: n.X, MaxX: n.X, MinY: n.Y, MaxY: n.Y}
		if i == 0 {
			b = nb
			continue
		}
		b = b.Union(nb)
	}
	xs.Fit(b.MinX, b.MaxX, 0.05)
	ys.Fit(b.MinY, b.MaxY, 0.05)

	var sb strings.Builder
	header(&sb, w, h, string(theme.Background))

	fmt.Fprintf(&sb, `<g stroke="%s" stroke-width="1" stroke-opacity="0.8">
`, theme.Edge)
	for _, e := range edges {
		s, t, ok := e.Resolve(nodes)
		if !ok {
			continue
		}
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, xs.Pixel(nodes[s].X), ys.Pixel(nodes[s].Y), xs.Pixel(nodes[t].X), ys.Pixel(nodes[t].Y))
	}
	sb.WriteString("</g>\n")

	fmt.Fprintf(&sb, `<g fill="%s">
`, theme.Node)
	for i, n := range nodes {
		label := n.Label
		if label == "" {
			label = fmt.Sprintf("node %d", i)
		}
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"><title>%s</title></circle>
`, xs.Pixel(n.X), ys.Pixel(n.Y), nodeRadius, html.EscapeString(label))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// CanvasToSVG converts a braille canvas to one dot per lit sub-pixel.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2
	height := float64(canvas.Height) * scale * 4

	var sb strings.Builder
	header(&sb, width, height, string(theme.Background))
	fmt.Fprintf(&sb, `<g fill="%s">
`, theme.Node)

	dotRadius := scale * 0.4
	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values left to right as a polyline, e.g. the kinetic
// energy of a run per tick.
func SeriesToSVG(values []float64, width, height int, theme viz.Theme) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	xs := chart.NewLinearScale(0, float64(width))
	xs.Fit(0, float64(len(values)-1), 0)
	ys := chart.NewLinearScale(float64(height), 0)
	ys.Fit(lo, hi, 0.1)

	var sb strings.Builder
	header(&sb, float64(width), float64(height), string(theme.Background))
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, theme.Accent)
	for i, v := range values {
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", xs.Pixel(float64(i)), ys.Pixel(v))
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", xs.Pixel(float64(i)), ys.Pixel(v))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
