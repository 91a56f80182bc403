// Package metrics summarises a winding run from its per-tick snapshots.
package metrics

import (
	"github.com/san-kum/ropecoil/internal/sim"
)

type Metric interface {
	Name() string
	Observe(s *sim.Snapshot)
	Value() float64
	Reset()
}

// Sample is one recorded tick.
type Sample struct {
	Frame        int     `json:"frame"`
	Time         float64 `json:"time"`
	Angle        float64 `json:"angle"`
	SegmentCount int     `json:"segments"`
	StaticCount  int     `json:"static"`
	Finalized    bool    `json:"finalized"`
}

// Collector is a sim.Observer that records samples and feeds metrics.
type Collector struct {
	metrics []Metric
	samples []Sample
	every   int
}

// NewCollector keeps one sample every `every` ticks (at least 1).
func NewCollector(every int, ms ...Metric) *Collector {
	return &Collector{metrics: ms, every: max(1, every)}
}

func (c *Collector) OnStep(s *sim.Snapshot) {
	for _, m := range c.metrics {
		m.Observe(s)
	}
	if s.Frame%c.every != 0 && !s.Finalized {
		return
	}
	c.samples = append(c.samples, Sample{
		Frame:        s.Frame,
		Time:         s.SimTime,
		Angle:        s.RotationAngle,
		SegmentCount: s.SegmentCount,
		StaticCount:  s.StaticCount,
		Finalized:    s.Finalized,
	})
}

func (c *Collector) Samples() []Sample { return c.samples }

// Values maps each metric's name to its current value.
func (c *Collector) Values() map[string]float64 {
	out := make(map[string]float64, len(c.metrics))
	for _, m := range c.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func (c *Collector) Reset() {
	c.samples = c.samples[:0]
	for _, m := range c.metrics {
		m.Reset()
	}
}

// Default is the metric set the CLI records.
func Default(centerX, centerY, radius float64) []Metric {
	return []Metric{
		NewStaticFraction(),
		NewWindRate(),
		NewStability(),
		NewLaySpread(centerX, centerY, radius),
		NewWoundRadius(centerX, centerY, radius),
	}
}
