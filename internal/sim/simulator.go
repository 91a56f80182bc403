package sim

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/dynamo"
	"github.com/san-kum/ropecoil/internal/physics"
	"github.com/san-kum/ropecoil/internal/rope"
)

type anchorSet struct {
	start, mid, end *physics.Body
}

func (a anchorSet) all() []*physics.Body {
	if a.start == nil {
		return nil
	}
	return []*physics.Body{a.start, a.mid, a.end}
}

// Simulator is the context object of one rope on one coiler. It is not
// safe for concurrent use; package protocol gives it a single owner.
type Simulator struct {
	params   Params
	variants coiler.Table
	logger   *log.Logger

	world   *physics.World
	coiler  *coiler.Assembly
	chain   *rope.Chain
	anchors anchorSet

	observers []Observer

	frame          int
	simTime        float64
	rotationAngle  float64
	requestedSpeed float64
	effectiveSpeed float64
	angleHint      float64
	delay          int
	grace          int
	spunUp         bool
	finalized      bool

	lastGrowthAngle float64
	inserted        int
	layOffset       float64
	layDir          float64
	nextOrdinal     int
}

type Option func(*Simulator)

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithVariants seeds the variant table used by CreateCoiler.
func WithVariants(t coiler.Table) Option {
	return func(s *Simulator) {
		for id, v := range t {
			s.variants[id] = v
		}
	}
}

func New(params Params, opts ...Option) *Simulator {
	s := &Simulator{
		params:   params,
		variants: make(coiler.Table),
		logger:   log.Default(),
		world:    physics.NewWorld(),
		chain:    rope.NewChain(params.SegmentCount),
		layDir:   1,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.world.Gravity = params.Gravity
	if params.Iterations > 0 {
		s.world.Iterations = params.Iterations
	}
	s.grace = params.GraceFrames
	return s
}

func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Params() Params                { return s.params }
func (s *Simulator) World() *physics.World         { return s.world }
func (s *Simulator) Chain() *rope.Chain            { return s.chain }
func (s *Simulator) Coiler() *coiler.Assembly      { return s.coiler }
func (s *Simulator) Finalized() bool               { return s.finalized }
func (s *Simulator) EffectiveSpeed() float64       { return s.effectiveSpeed }
func (s *Simulator) RotationAngle() float64        { return s.rotationAngle }
func (s *Simulator) Inserted() int                 { return s.inserted }
func (s *Simulator) Variants() coiler.Table        { return s.variants }
func (s *Simulator) Anchors() (start, mid, end *physics.Body) {
	return s.anchors.start, s.anchors.mid, s.anchors.end
}

// Delay reports the startup delay countdown.
func (s *Simulator) Delay() DelayState {
	return DelayState{Active: s.delay > 0, Remaining: s.delay}
}

// MaxSegments is the active variant's chain cap, zero without a coiler.
func (s *Simulator) MaxSegments() int {
	if s.coiler == nil {
		return 0
	}
	return s.coiler.Variant.MaxSegments
}

// Init readies the simulator. It is safe to call repeatedly.
func (s *Simulator) Init() DelayState {
	s.logger.Debug("init", "variants", len(s.variants))
	return s.Delay()
}

// CreateCoiler merges table into the known variants and builds variant id.
// An unknown or invalid id leaves the coiler and the variant table
// untouched. A live rope is rebuilt when the active variant changes.
func (s *Simulator) CreateCoiler(table coiler.Table, id string) (coiler.Variant, error) {
	merged := make(coiler.Table, len(s.variants)+len(table))
	for k, v := range s.variants {
		merged[k] = v
	}
	for k, v := range table {
		merged[k] = v
	}
	v, err := merged.Resolve(id)
	if err != nil {
		s.logger.Error("create coiler aborted", "variant", id, "err", err)
		return coiler.Variant{}, err
	}
	s.variants = merged

	changed := s.coiler == nil || s.coiler.Variant != v
	if s.coiler != nil {
		s.coiler.Destroy()
	}
	s.coiler = coiler.Build(s.world, v, s.params.CoilerX, s.params.CoilerY)
	s.coiler.SetAngle(s.rotationAngle)
	s.grace = s.params.GraceFrames

	if changed && s.chain.Len() > 0 {
		if err := s.CreateRope(); err != nil {
			return coiler.Variant{}, err
		}
	} else if s.anchors.end != nil && !s.finalized {
		s.anchors.end.SetPosition(s.coiler.Top(s.params.EndAnchorLift))
	}

	s.logger.Info("coiler created", "variant", v.ID, "radius", v.Radius, "max_segments", v.MaxSegments)
	return v, nil
}

// UpdateAnchor moves the end anchor to the external drive point.
func (s *Simulator) UpdateAnchor(p mgl64.Vec3) {
	if !dynamo.IsFinite(p) {
		s.logger.Warn("anchor update ignored", "target", p)
		return
	}
	if s.anchors.end == nil || s.finalized {
		return
	}
	s.anchors.end.SetPosition(p)
}

// SetRotation records the requested coiler speed between steps.
func (s *Simulator) SetRotation(speed float64) {
	s.requestedSpeed = speed
	if s.delay > 0 {
		return
	}
	if speed != 0 {
		s.spunUp = true
	}
	if s.coiler != nil {
		s.coiler.SetAngularSpeed(speed)
	}
}

// SetDelay arms the startup delay for frames ticks.
func (s *Simulator) SetDelay(frames int) DelayState {
	s.delay = max(0, frames)
	return s.Delay()
}

// Step runs one external tick: delay bookkeeping, sub-stepped
// integration, proximity forces, contact processing, pinned rotation and
// growth, in that order.
func (s *Simulator) Step(in StepInput) Snapshot {
	p := s.params
	s.frame++
	s.requestedSpeed = in.RotationSpeed
	s.angleHint = in.AngleHint

	delayActive := s.delay > 0
	if delayActive {
		s.delay--
	}
	speed := in.RotationSpeed
	if delayActive {
		speed = 0
	}
	s.effectiveSpeed = speed

	if !delayActive && in.RotationSpeed != 0 {
		s.spunUp = true
	}
	if s.spunUp && in.RotationSpeed == 0 && !delayActive && !s.finalized && s.chain.Len() > 0 {
		s.logger.Info("rotation stopped, finalizing rope", "frame", s.frame)
		s.Finalize()
	}

	dt := p.FixedTimestep
	s.rotationAngle += speed * dt
	if s.coiler != nil {
		s.coiler.SetAngularSpeed(speed)
	}

	h := dt / float64(p.Substeps)
	for range p.Substeps {
		s.world.Step(h)
	}
	s.world.ClampVelocities(p.MaxLinearSpeed, p.MaxAngularSpeed)
	s.world.ClearForces()
	if s.coiler != nil {
		s.coiler.SetAngle(s.rotationAngle)
	}
	s.simTime += dt

	if !s.finalized && s.coiler != nil && s.chain.Len() > 0 {
		if s.grace > 0 {
			s.grace--
			s.applyAttractionOnly()
		} else {
			s.applyCoilerForces(speed)
			s.processContacts()
		}
	}

	s.rotateStatic()

	if !s.finalized {
		s.checkGrowth()
	}

	snap := s.Snapshot()
	for _, o := range s.observers {
		o.OnStep(&snap)
	}
	return snap
}

// Snapshot collects the finite segment positions in chain order.
func (s *Simulator) Snapshot() Snapshot {
	snap := Snapshot{
		Positions:      make([]mgl64.Vec3, 0, s.chain.Len()),
		SegmentCount:   s.chain.Len(),
		SimTime:        s.simTime,
		RotationAngle:  s.rotationAngle,
		AngleHint:      s.angleHint,
		DelayActive:    s.delay > 0,
		DelayRemaining: s.delay,
		Finalized:      s.finalized,
		Frame:          s.frame,
	}
	for _, seg := range s.chain.All() {
		if seg.Static() {
			snap.StaticCount++
		}
		pos := seg.Body.Position
		if !dynamo.IsFinite(pos) {
			snap.Dropped++
			continue
		}
		snap.Positions = append(snap.Positions, pos)
	}
	if snap.Dropped > 0 {
		err := &dynamo.SimulationError{Frame: s.frame, Time: s.simTime, Op: "snapshot", Wrapped: dynamo.ErrUnstable}
		s.logger.Warn("positions omitted", "dropped", snap.Dropped, "err", err)
	}
	return snap
}

func (s *Simulator) String() string {
	return fmt.Sprintf("sim(frame=%d segments=%d static=%d angle=%.3f)",
		s.frame, s.chain.Len(), s.chain.StaticCount(), math.Mod(s.rotationAngle, 2*math.Pi))
}
