package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/dynamo"
	"github.com/san-kum/ropecoil/internal/rope"
)

// structural reports whether position i is tied to an anchor.
func (s *Simulator) structural(i int) bool {
	return i == 0 || i == s.params.MidRope || i == s.chain.Len()-1
}

// betweenBarriers reports whether p lies axially between the side disks.
func (s *Simulator) betweenBarriers(p mgl64.Vec3) bool {
	v := s.coiler.Variant
	lo, hi := math.Min(v.SideOffset1, v.SideOffset2), math.Max(v.SideOffset1, v.SideOffset2)
	z := p.Z()
	return z >= lo-s.params.SegmentRadius && z <= hi+s.params.SegmentRadius
}

// gap is the distance from the segment's surface to the core's surface.
func (s *Simulator) gap(p mgl64.Vec3) float64 {
	return s.coiler.SurfaceDistance(p) - s.params.SegmentRadius
}

// applyCoilerForces pulls free segments toward the winding radius and
// drags them along the direction of rotation. Both fall off linearly with
// distance from the surface.
func (s *Simulator) applyCoilerForces(speed float64) {
	p := s.params
	target := s.coiler.Variant.Radius + p.SegmentRadius + p.SurfaceClearance

	for i, seg := range s.chain.All() {
		if seg.Static() || s.structural(i) {
			continue
		}
		b := seg.Body
		if !dynamo.IsFinite(b.Position) || !s.betweenBarriers(b.Position) {
			continue
		}

		angle, r, _ := s.coiler.Polar(b.Position)
		falloff := 1 - dynamo.Clamp01(s.gap(b.Position)/p.InfluenceRange)
		if falloff <= 0 {
			continue
		}
		radialErr := r - target
		m := b.Mass()

		f := coiler.Radial(angle).Mul(-p.RadialStiffness * radialErr * falloff * m)
		f = f.Add(coiler.Tangent(angle).Mul(p.TangentialGain * speed * falloff * m))
		b.ApplyForce(f, mgl64.Vec3{})

		if math.Abs(radialErr) < p.FineRadialError {
			b.Velocity = b.Velocity.Mul(p.FineDamping)
			b.AngularVelocity = b.AngularVelocity.Mul(p.FineDamping)
		}
	}
}

// applyAttractionOnly runs during the grace window. It draws nearby
// segments in gently and never converts them.
func (s *Simulator) applyAttractionOnly() {
	p := s.params
	for i, seg := range s.chain.All() {
		if seg.Static() || i == 0 || i == p.MidRope {
			continue
		}
		b := seg.Body
		if !s.betweenBarriers(b.Position) {
			continue
		}
		gap := s.gap(b.Position)
		if gap >= p.GraceRange {
			continue
		}
		angle, _, _ := s.coiler.Polar(b.Position)
		pull := p.GraceAttractionGain * p.RadialStiffness * b.Mass() * math.Max(gap-p.SurfaceClearance, 0)
		b.ApplyForce(coiler.Radial(angle).Mul(-pull), mgl64.Vec3{})
		b.Velocity = b.Velocity.Mul(p.GraceDamping)
	}
}

// processContacts moves segments between Free, Contacted and Pinned by
// their gap to the core surface.
func (s *Simulator) processContacts() {
	p := s.params
	pinAt := p.ContactThreshold * p.PinFraction

	for i, seg := range s.chain.All() {
		if seg.Static() || i == 0 || i == p.MidRope {
			continue
		}
		b := seg.Body
		gap := s.gap(b.Position)
		if gap >= p.ContactThreshold || !s.betweenBarriers(b.Position) {
			if _, ok := seg.State.(rope.Contacted); ok {
				seg.State = rope.Free{}
			}
			continue
		}
		if gap < pinAt {
			s.pin(seg)
			continue
		}
		if _, ok := seg.State.(rope.Contacted); !ok {
			seg.State = rope.Contacted{SinceFrame: s.frame}
		}
		angle, _, _ := s.coiler.Polar(b.Position)
		pull := p.ContactAttractionGain * p.RadialStiffness * b.Mass() * gap
		b.ApplyForce(coiler.Radial(angle).Mul(-pull), mgl64.Vec3{})
		b.Velocity = b.Velocity.Mul(p.ContactDamping)
		b.AngularVelocity = b.AngularVelocity.Mul(p.ContactDamping)
	}
}
