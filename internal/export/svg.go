// Package export writes winding results as standalone SVG images.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/metrics"
	"github.com/san-kum/ropecoil/internal/viz"
)

const background = "#0a0a0a"

type Point struct{ X, Y float64 }

// Series is one polyline of a chart, indexed by sample.
type Series struct {
	Values []float64
	Color  string
}

func header(sb *strings.Builder, w, h float64) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, background)
}

// CanvasToSVG draws every lit sub-pixel of c as a dot.
func CanvasToSVG(c *viz.Canvas, scale float64, fill string) string {
	if c == nil {
		return ""
	}
	pw, ph := c.PixelSize()
	var sb strings.Builder
	header(&sb, float64(pw)*scale, float64(ph)*scale)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", fill)
	r := scale * 0.4
	for y := range ph {
		for x := range pw {
			if c.IsSet(x, y) {
				fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, r)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// bounds is a padded data rectangle.
type bounds struct{ minX, minY, rangeX, rangeY float64 }

func fit(points []Point) bounds {
	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	rx, ry := maxX-minX, maxY-minY
	if rx == 0 {
		rx = 1
	}
	if ry == 0 {
		ry = 1
	}
	return bounds{minX - rx*0.1, minY - ry*0.1, rx * 1.2, ry * 1.2}
}

func (b bounds) project(p Point, w, h int) (float64, float64) {
	return (p.X - b.minX) / b.rangeX * float64(w),
		float64(h) - (p.Y-b.minY)/b.rangeY*float64(h)
}

func path(sb *strings.Builder, pts []Point, b bounds, w, h int, stroke string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range pts {
		x, y := b.project(p, w, h)
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString("\"/>\n")
}

// TrajectoryToSVG draws points as one path scaled to fill the image.
func TrajectoryToSVG(points []Point, width, height int, strokeColor string) string {
	if len(points) < 2 {
		return ""
	}
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	path(&sb, points, fit(points), width, height, strokeColor)
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG charts several series on shared axes.
func SeriesToSVG(series []Series, width, height int) string {
	var all []Point
	lines := make([][]Point, len(series))
	for i, s := range series {
		for j, v := range s.Values {
			lines[i] = append(lines[i], Point{float64(j), v})
		}
		all = append(all, lines[i]...)
	}
	if len(all) < 2 {
		return ""
	}
	b := fit(all)
	var sb strings.Builder
	header(&sb, float64(width), float64(height))
	for i, s := range series {
		if len(lines[i]) > 1 {
			path(&sb, lines[i], b, width, height, s.Color)
		}
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// SamplesToSVG charts segment count and static count over a run.
func SamplesToSVG(samples []metrics.Sample, width, height int) string {
	seg := Series{Color: "#7aa2c8"}
	static := Series{Color: "#e0b860"}
	for _, s := range samples {
		seg.Values = append(seg.Values, float64(s.SegmentCount))
		static.Values = append(static.Values, float64(s.StaticCount))
	}
	return SeriesToSVG([]Series{seg, static}, width, height)
}

// CrossSection maps rope positions to (z, radial distance from the coiler
// axis) in chain order.
func CrossSection(positions []mgl64.Vec3, cx, cy float64) []Point {
	pts := make([]Point, len(positions))
	for i, p := range positions {
		pts[i] = Point{p.Z(), math.Hypot(p.X()-cx, p.Y()-cy)}
	}
	return pts
}
