package metrics

import (
	"math"

	"github.com/san-kum/ropecoil/internal/sim"
)

// StaticFraction is the share of segments out of the solver at the last
// observed tick.
type StaticFraction struct {
	static, total int
}

func NewStaticFraction() *StaticFraction { return &StaticFraction{} }

func (m *StaticFraction) Name() string { return "static_fraction" }

func (m *StaticFraction) Observe(s *sim.Snapshot) {
	m.static, m.total = s.StaticCount, s.SegmentCount
}

func (m *StaticFraction) Value() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.static) / float64(m.total)
}

func (m *StaticFraction) Reset() { m.static, m.total = 0, 0 }

// WindRate is segments pinned per radian of coiler rotation.
type WindRate struct {
	static int
	angle  float64
}

func NewWindRate() *WindRate { return &WindRate{} }

func (m *WindRate) Name() string { return "wind_rate" }

func (m *WindRate) Observe(s *sim.Snapshot) {
	m.static, m.angle = s.StaticCount, s.RotationAngle
}

func (m *WindRate) Value() float64 {
	if m.angle == 0 {
		return 0
	}
	return float64(m.static) / math.Abs(m.angle)
}

func (m *WindRate) Reset() { m.static, m.angle = 0, 0 }

// Stability is the fraction of ticks whose snapshot kept every position.
type Stability struct {
	violations int
	samples    int
}

func NewStability() *Stability { return &Stability{} }

func (m *Stability) Name() string { return "stability" }

func (m *Stability) Observe(s *sim.Snapshot) {
	m.samples++
	if s.Dropped > 0 {
		m.violations++
	}
}

func (m *Stability) Value() float64 {
	if m.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(m.violations)/float64(m.samples)
}

func (m *Stability) Reset() { m.violations, m.samples = 0, 0 }
