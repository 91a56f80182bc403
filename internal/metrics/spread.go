package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ropecoil/internal/sim"
)

// band selects positions within reach of the coiler axis.
type band struct {
	cx, cy float64
	reach  float64
	zs     []float64
	radii  []float64
}

func (b *band) collect(s *sim.Snapshot) {
	b.zs, b.radii = b.zs[:0], b.radii[:0]
	for _, p := range s.Positions {
		r := math.Hypot(p.X()-b.cx, p.Y()-b.cy)
		if r > b.reach {
			continue
		}
		b.zs = append(b.zs, p.Z())
		b.radii = append(b.radii, r)
	}
}

// LaySpread is the standard deviation of Z across the segments on the
// barrel. A back-and-forth lay pattern widens it.
type LaySpread struct {
	band
	value float64
}

func NewLaySpread(cx, cy, radius float64) *LaySpread {
	return &LaySpread{band: band{cx: cx, cy: cy, reach: radius * 1.5}}
}

func (m *LaySpread) Name() string { return "lay_spread" }

func (m *LaySpread) Observe(s *sim.Snapshot) {
	m.collect(s)
	if len(m.zs) < 2 {
		return
	}
	m.value = stat.StdDev(m.zs, nil)
}

func (m *LaySpread) Value() float64 { return m.value }
func (m *LaySpread) Reset()         { m.value = 0 }

// WoundRadius is the mean distance from the axis of the segments on the
// barrel.
type WoundRadius struct {
	band
	mean, std float64
}

func NewWoundRadius(cx, cy, radius float64) *WoundRadius {
	return &WoundRadius{band: band{cx: cx, cy: cy, reach: radius * 1.5}}
}

func (m *WoundRadius) Name() string { return "wound_radius" }

func (m *WoundRadius) Observe(s *sim.Snapshot) {
	m.collect(s)
	if len(m.radii) == 0 {
		return
	}
	m.mean, m.std = stat.MeanStdDev(m.radii, nil)
}

func (m *WoundRadius) Value() float64 { return m.mean }

// Spread is the standard deviation behind Value.
func (m *WoundRadius) Spread() float64 { return m.std }

func (m *WoundRadius) Reset() { m.mean, m.std = 0, 0 }
