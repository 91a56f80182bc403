package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/rope"
)

// checkGrowth inserts one segment each time the coiler turns past the next
// checkpoint.
func (s *Simulator) checkGrowth() {
	if s.coiler == nil {
		return
	}
	inc := s.coiler.Variant.AngleIncrement
	if inc <= 0 || math.Abs(s.rotationAngle-s.lastGrowthAngle) < inc {
		return
	}
	s.lastGrowthAngle = s.rotationAngle
	s.grow(nil)
}

// AddSegment inserts one segment at the feed point now. It reports false
// without touching the chain when the rope is too short, at its cap,
// finalized or missing a coiler.
func (s *Simulator) AddSegment(o *GrowthOverride) bool {
	return s.grow(o)
}

func (s *Simulator) grow(o *GrowthOverride) bool {
	p := s.params
	switch {
	case s.coiler == nil:
		s.logger.Debug("growth skipped", "reason", "no coiler")
		return false
	case s.finalized:
		s.logger.Debug("growth skipped", "reason", "finalized")
		return false
	case s.chain.Len() < p.BootstrapLength:
		s.logger.Debug("growth skipped", "reason", "below bootstrap", "len", s.chain.Len())
		return false
	case s.chain.Len() >= s.MaxSegments():
		s.logger.Debug("growth skipped", "reason", "at cap", "len", s.chain.Len())
		return false
	}

	at := s.chain.At(p.InsertIndex)
	next := s.chain.Next(at)
	if next == rope.Nil {
		return false
	}
	if link := s.chain.Link(at); link != nil {
		s.world.RemoveConstraint(link)
		s.chain.SetLink(at, nil)
	}

	mid, limit := s.coiler.LateralBounds()
	offset := s.layOffset
	var seed float64
	if o != nil && o.LateralOffset != nil {
		offset = math.Max(-limit, math.Min(limit, *o.LateralOffset))
	}

	feed := s.chain.Segment(at).Body.Position
	pos := mgl64.Vec3{feed.X(), feed.Y(), mid + offset}

	toCenter := mgl64.Vec3{s.coiler.Center.X() - pos.X(), s.coiler.Center.Y() - pos.Y(), 0}
	dist := toCenter.Len()
	if dist < p.NearFactor*s.coiler.Variant.Radius {
		seed = p.NearSeedSpeed
	} else {
		seed = p.FarSeedSpeed
	}
	if o != nil && o.SeedSpeed != nil {
		seed = *o.SeedSpeed
	}

	b := s.newSegmentBody(pos)
	b.LinearDamping = p.GrowthDamping
	b.AngularDamping = p.GrowthDamping
	if dist > 1e-9 {
		b.Velocity = toCenter.Mul(seed / dist)
	}

	h := s.chain.InsertAfter(at, rope.Segment{
		Body:     b,
		State:    rope.Free{},
		Creation: rope.Creation{Angle: s.rotationAngle, Time: s.simTime, Ordinal: s.nextOrdinal},
	})
	s.nextOrdinal++
	s.linkAfter(at, h)
	s.linkAfter(h, next)

	s.advanceLay(limit)
	s.logger.Debug("segment inserted", "len", s.chain.Len(), "offset", offset, "seed", seed)
	return true
}

// advanceLay walks the lateral offset across the barrel and turns back
// every LayFlipEvery insertions.
func (s *Simulator) advanceLay(limit float64) {
	s.inserted++
	step := 2 * limit / float64(s.params.LayFlipEvery)
	s.layOffset = math.Max(-limit, math.Min(limit, s.layOffset+s.layDir*step))
	if s.inserted%s.params.LayFlipEvery == 0 {
		s.layDir = -s.layDir
	}
}
