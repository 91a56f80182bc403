package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/onsi/gomega"

	"github.com/san-kum/ropecoil/internal/sim"
)

func TestStaticFraction(t *testing.T) {
	m := NewStaticFraction()
	if m.Value() != 0 {
		t.Error("expected zero before observing")
	}
	m.Observe(&sim.Snapshot{SegmentCount: 40, StaticCount: 10})
	if m.Value() != 0.25 {
		t.Errorf("expected 0.25, got %f", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestWindRate(t *testing.T) {
	m := NewWindRate()
	m.Observe(&sim.Snapshot{StaticCount: 12, RotationAngle: -6})
	if math.Abs(m.Value()-2) > 1e-12 {
		t.Errorf("expected 2 segments per radian, got %f", m.Value())
	}
}

func TestStability(t *testing.T) {
	m := NewStability()
	if m.Value() != 1.0 {
		t.Error("expected full stability with no samples")
	}
	m.Observe(&sim.Snapshot{})
	m.Observe(&sim.Snapshot{Dropped: 2})
	if m.Value() != 0.5 {
		t.Errorf("expected 0.5, got %f", m.Value())
	}
}

func TestLaySpreadIgnoresFarSegments(t *testing.T) {
	g := gomega.NewWithT(t)
	m := NewLaySpread(0, 0, 1)
	m.Observe(&sim.Snapshot{Positions: []mgl64.Vec3{
		{1, 0, -0.5},
		{0, 1, 0.5},
		{-1, 0, -0.5},
		{0, -1, 0.5},
		{5, 5, 40},
	}})
	g.Expect(m.Value()).To(gomega.BeNumerically("~", math.Sqrt(1.0/3), 1e-12))
}

func TestWoundRadius(t *testing.T) {
	g := gomega.NewWithT(t)
	m := NewWoundRadius(1, 1, 1)
	m.Observe(&sim.Snapshot{Positions: []mgl64.Vec3{{2, 1, 0}, {1, 2.2, 0}, {9, 9, 0}}})
	g.Expect(m.Value()).To(gomega.BeNumerically("~", 1.1, 1e-12))
	g.Expect(m.Spread()).To(gomega.BeNumerically(">", 0))
}

func TestCollector(t *testing.T) {
	g := gomega.NewWithT(t)
	c := NewCollector(2, NewStaticFraction(), NewStability())

	for i := 1; i <= 5; i++ {
		c.OnStep(&sim.Snapshot{Frame: i, SegmentCount: 10, StaticCount: i})
	}
	c.OnStep(&sim.Snapshot{Frame: 7, SegmentCount: 10, StaticCount: 10, Finalized: true})

	frames := make([]int, 0)
	for _, s := range c.Samples() {
		frames = append(frames, s.Frame)
	}
	g.Expect(frames).To(gomega.Equal([]int{2, 4, 7}))
	g.Expect(c.Values()).To(gomega.HaveKeyWithValue("static_fraction", 1.0))
	g.Expect(c.Values()).To(gomega.HaveKeyWithValue("stability", 1.0))

	c.Reset()
	g.Expect(c.Samples()).To(gomega.BeEmpty())
}

func TestDefaultNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Default(0, 0, 0.5) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
