package export

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/metrics"
	"github.com/san-kum/ropecoil/internal/viz"
)

func TestCanvasToSVG(t *testing.T) {
	g := NewWithT(t)
	g.Expect(CanvasToSVG(nil, 2, "#fff")).To(BeEmpty())

	c := viz.NewCanvas(4, 2)
	c.Set(1, 1)
	c.Set(6, 7)
	svg := CanvasToSVG(c, 2, "#fff")
	g.Expect(svg).To(HavePrefix("<?xml"))
	g.Expect(strings.Count(svg, "<circle")).To(Equal(2))
	g.Expect(svg).To(ContainSubstring(`width="16" height="16"`))
}

func TestTrajectoryToSVG(t *testing.T) {
	g := NewWithT(t)
	g.Expect(TrajectoryToSVG([]Point{{0, 0}}, 100, 50, "#0f0")).To(BeEmpty())
	svg := TrajectoryToSVG([]Point{{0, 0}, {1, 1}, {2, 0}}, 100, 50, "#0f0")
	g.Expect(strings.Count(svg, " L")).To(Equal(2))
	g.Expect(svg).To(HaveSuffix("</svg>"))
}

func TestSamplesToSVG(t *testing.T) {
	g := NewWithT(t)
	samples := []metrics.Sample{
		{Frame: 10, SegmentCount: 40, StaticCount: 0},
		{Frame: 20, SegmentCount: 42, StaticCount: 5},
		{Frame: 30, SegmentCount: 44, StaticCount: 9},
	}
	svg := SamplesToSVG(samples, 200, 100)
	g.Expect(strings.Count(svg, "<path")).To(Equal(2))
	g.Expect(SamplesToSVG(nil, 200, 100)).To(BeEmpty())
}

func TestCrossSection(t *testing.T) {
	g := NewWithT(t)
	pts := CrossSection([]mgl64.Vec3{{3, 4, 0.2}, {0, 1, -0.1}}, 0, 0)
	g.Expect(pts).To(HaveLen(2))
	g.Expect(pts[0].X).To(Equal(0.2))
	g.Expect(pts[0].Y).To(BeNumerically("~", 5, 1e-12))
	g.Expect(pts[1].Y).To(BeNumerically("~", 1, 1e-12))
}
