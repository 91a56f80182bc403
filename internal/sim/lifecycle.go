package sim

import (
	"math"

	"github.com/san-kum/ropecoil/internal/rope"
)

// pin takes seg out of the solver and records where it sits on the core,
// in the coiler frame.
func (s *Simulator) pin(seg *rope.Segment) {
	angle, r, z := s.coiler.Polar(seg.Body.Position)
	seg.Body.MakeStatic()
	seg.State = rope.Pinned{
		Angle:   angle - s.rotationAngle,
		Radius:  math.Max(r, s.coiler.Variant.Radius+s.params.SegmentRadius),
		ZOffset: z,
	}
}

// rotateStatic carries pinned segments round with the coiler.
func (s *Simulator) rotateStatic() {
	if s.coiler == nil {
		return
	}
	for _, seg := range s.chain.All() {
		at, ok := seg.State.(rope.Pinned)
		if !ok {
			continue
		}
		seg.Body.SetPosition(s.coiler.PointAt(at.Angle+s.rotationAngle, at.Radius, at.ZOffset))
	}
}

// Finalize freezes the whole chain and its anchors. Segments close to the
// core are pinned so they keep turning with it; the rest hold their pose.
// It reports false when there is nothing to finalize.
func (s *Simulator) Finalize() bool {
	if s.finalized || s.chain.Len() == 0 {
		return false
	}
	pinned, frozen := 0, 0
	for _, seg := range s.chain.All() {
		if seg.Static() {
			continue
		}
		if s.coiler != nil && s.gap(seg.Body.Position) < s.params.CaptureRadius {
			s.pin(seg)
			pinned++
			continue
		}
		seg.Body.MakeStatic()
		seg.State = rope.Frozen{}
		frozen++
	}
	for _, a := range s.anchors.all() {
		a.MakeStatic()
	}
	s.finalized = true
	s.logger.Info("rope finalized", "frame", s.frame, "pinned", pinned, "frozen", frozen,
		"segments", s.chain.Len())
	return true
}
