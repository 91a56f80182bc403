package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/dynamo"
	"github.com/san-kum/ropecoil/internal/physics"
	"github.com/san-kum/ropecoil/internal/rope"
)

// CreateRope discards any existing rope and lays a fresh one from the
// start anchor through the mid anchor to the end anchor above the coiler.
// It arms the startup delay and the grace period.
func (s *Simulator) CreateRope() error {
	if s.coiler == nil {
		err := &dynamo.SimulationError{Frame: s.frame, Time: s.simTime, Op: "create rope", Wrapped: dynamo.ErrNoCoiler}
		s.logger.Error("create rope aborted", "err", err)
		return err
	}
	p := s.params
	s.Reset(true)

	endPos := s.coiler.Top(p.EndAnchorLift)
	s.anchors = anchorSet{
		start: s.newAnchor(physics.Static, p.StartAnchor),
		mid:   s.newAnchor(physics.Static, p.MidAnchor),
		end:   s.newAnchor(physics.Kinematic, endPos),
	}

	n := min(p.SegmentCount, s.coiler.Variant.MaxSegments)
	var prev rope.Handle = rope.Nil
	for i := range n {
		pos := layout(i, n, p.MidRope, p.StartAnchor, p.MidAnchor, endPos, p.StartSag, p.EndSag)
		h := s.chain.Append(rope.Segment{
			Body:     s.newSegmentBody(pos),
			State:    rope.Free{},
			Creation: rope.Creation{Angle: s.rotationAngle, Time: s.simTime, Ordinal: s.nextOrdinal},
		})
		s.nextOrdinal++
		if prev != rope.Nil {
			s.linkAfter(prev, h)
		}
		prev = h
	}

	s.pinToAnchor(s.anchors.start, s.chain.Head())
	s.pinToAnchor(s.anchors.mid, s.chain.At(p.MidRope))
	s.pinToAnchor(s.anchors.end, s.chain.Tail())

	s.delay = p.StartupDelayFrames
	s.grace = p.GraceFrames

	s.logger.Info("rope created",
		"segments", s.chain.Len(),
		"constraints", s.world.ConstraintCount(),
		"delay", s.delay)
	return nil
}

// layout places segment i of n along start→mid for the first mid+1
// segments and mid→end for the rest, sagging upward by a sine bump.
func layout(i, n, mid int, start, midPt, end mgl64.Vec3, startSag, endSag float64) mgl64.Vec3 {
	var a, b mgl64.Vec3
	var t, sag float64
	if i <= mid {
		a, b, sag = start, midPt, startSag
		t = float64(i) / float64(mid)
	} else {
		a, b, sag = midPt, end, endSag
		t = float64(i-mid) / float64(n-1-mid)
	}
	pos := a.Add(b.Sub(a).Mul(t))
	return pos.Add(mgl64.Vec3{0, sag * math.Sin(math.Pi*t), 0})
}

func (s *Simulator) newAnchor(kind physics.Kind, pos mgl64.Vec3) *physics.Body {
	b := physics.NewBody(kind, 0, pos)
	b.Group = 0
	b.Mask = 0
	s.world.AddBody(b)
	return b
}

func (s *Simulator) newSegmentBody(pos mgl64.Vec3) *physics.Body {
	p := s.params
	b := physics.NewBody(physics.Dynamic, p.SegmentMass, pos)
	b.LinearDamping = p.LinearDamping
	b.AngularDamping = p.AngularDamping
	b.Group = coiler.GroupRope
	b.Mask = coiler.GroupCoiler | coiler.GroupBarrier
	b.AddShape(physics.Sphere(p.SegmentRadius), mgl64.Vec3{})
	s.world.AddBody(b)
	return b
}

// linkAfter joins a to b with a rope link stored on a.
func (s *Simulator) linkAfter(a, b rope.Handle) {
	p := s.params
	c := physics.NewDistance(s.chain.Segment(a).Body, s.chain.Segment(b).Body,
		p.SegmentDistance*p.StretchFactor, p.LinkStiffness, p.LinkMaxForce)
	s.world.AddConstraint(c)
	s.chain.SetLink(a, c)
}

func (s *Simulator) pinToAnchor(anchor *physics.Body, h rope.Handle) {
	if h == rope.Nil {
		return
	}
	p := s.params
	c := physics.NewDistance(anchor, s.chain.Segment(h).Body, 0, p.AnchorStiffness, p.AnchorMaxForce)
	s.world.AddConstraint(c)
}

// Reset removes the rope and its anchors and clears the winding state.
// The coiler is kept. With resetAngle the accumulated rotation angle goes
// back to zero. Calling Reset twice is the same as once.
func (s *Simulator) Reset(resetAngle bool) {
	for _, seg := range s.chain.All() {
		s.world.RemoveBody(seg.Body)
	}
	for _, a := range s.anchors.all() {
		s.world.RemoveBody(a)
	}
	s.anchors = anchorSet{}
	s.chain.Clear()

	s.finalized = false
	s.spunUp = false
	s.inserted = 0
	s.nextOrdinal = 0
	s.layDir = 1
	s.layOffset = 0
	if s.coiler != nil {
		_, limit := s.coiler.LateralBounds()
		s.layOffset = -limit
	}
	if resetAngle {
		s.rotationAngle = 0
		if s.coiler != nil {
			s.coiler.SetAngle(0)
		}
	}
	s.lastGrowthAngle = s.rotationAngle
	s.grace = s.params.GraceFrames
	s.logger.Debug("reset", "reset_angle", resetAngle)
}
