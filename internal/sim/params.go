package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/dynamo"
)

// Params holds every tunable of the winding core.
type Params struct {
	// Scheduler
	FixedTimestep      float64
	Substeps           int
	Iterations         int
	MaxLinearSpeed     float64
	MaxAngularSpeed    float64
	StartupDelayFrames int
	Gravity            mgl64.Vec3

	// Coiler placement; Z comes from the variant.
	CoilerX float64
	CoilerY float64

	// Rope
	SegmentCount    int
	MidRope         int
	SegmentMass     float64
	SegmentRadius   float64
	SegmentDistance float64
	StretchFactor   float64
	LinearDamping   float64
	AngularDamping  float64
	LinkStiffness   float64
	LinkMaxForce    float64
	AnchorStiffness float64
	AnchorMaxForce  float64
	StartSag        float64
	EndSag          float64
	StartAnchor     mgl64.Vec3
	MidAnchor       mgl64.Vec3
	EndAnchorLift   float64

	// Coiler proximity forces
	SurfaceClearance float64
	InfluenceRange   float64
	RadialStiffness  float64
	TangentialGain   float64
	FineRadialError  float64
	FineDamping      float64

	// Lifecycle. The grace-period constants are tuned separately from the
	// contact constants and are not interchangeable.
	GraceFrames           int
	GraceAttractionGain   float64
	GraceDamping          float64
	GraceRange            float64
	ContactThreshold      float64
	PinFraction           float64
	ContactAttractionGain float64
	ContactDamping        float64
	CaptureRadius         float64

	// Growth
	BootstrapLength int
	InsertIndex     int
	LayFlipEvery    int
	NearFactor      float64
	NearSeedSpeed   float64
	FarSeedSpeed    float64
	GrowthDamping   float64
}

func DefaultParams() Params {
	return Params{
		FixedTimestep:      1.0 / 60,
		Substeps:           4,
		Iterations:         10,
		MaxLinearSpeed:     6,
		MaxAngularSpeed:    12,
		StartupDelayFrames: 120,
		Gravity:            mgl64.Vec3{0, -9.81, 0},

		SegmentCount:    40,
		MidRope:         13,
		SegmentMass:     0.05,
		SegmentRadius:   0.03,
		SegmentDistance: 0.12,
		StretchFactor:   1.02,
		LinearDamping:   0.99,
		AngularDamping:  0.99,
		LinkStiffness:   5000,
		LinkMaxForce:    40,
		AnchorStiffness: 20000,
		AnchorMaxForce:  80,
		StartSag:        0.15,
		EndSag:          0.4,
		StartAnchor:     mgl64.Vec3{-3.2, 1.6, 0},
		MidAnchor:       mgl64.Vec3{-2.2, 2.0, 0},
		EndAnchorLift:   0.3,

		SurfaceClearance: 0.01,
		InfluenceRange:   1.2,
		RadialStiffness:  80,
		TangentialGain:   0.8,
		FineRadialError:  0.005,
		FineDamping:      0.5,

		GraceFrames:           60,
		GraceAttractionGain:   1.5,
		GraceDamping:          0.95,
		GraceRange:            0.24,
		ContactThreshold:      0.12,
		PinFraction:           0.25,
		ContactAttractionGain: 4,
		ContactDamping:        0.9,
		CaptureRadius:         0.5,

		BootstrapLength: 22,
		InsertIndex:     20,
		LayFlipEvery:    30,
		NearFactor:      2,
		NearSeedSpeed:   0.4,
		FarSeedSpeed:    1.2,
		GrowthDamping:   0.99,
	}
}

// Validate checks the parameters that would otherwise break indexing or
// the integrator.
func (p Params) Validate() error {
	switch {
	case p.FixedTimestep <= 0:
		return dynamo.BoundsError("fixed_timestep", p.FixedTimestep)
	case p.Substeps < 1:
		return dynamo.BoundsError("substeps", float64(p.Substeps))
	case p.SegmentMass <= 0:
		return dynamo.BoundsError("segment_mass", p.SegmentMass)
	case p.SegmentDistance <= 0:
		return dynamo.BoundsError("segment_distance", p.SegmentDistance)
	case p.MidRope < 1:
		return dynamo.BoundsError("mid_rope", float64(p.MidRope))
	case p.SegmentCount <= p.MidRope+1:
		return dynamo.BoundsError("segment_count", float64(p.SegmentCount))
	case p.InsertIndex <= p.MidRope:
		return dynamo.BoundsError("insert_index", float64(p.InsertIndex))
	case p.BootstrapLength < p.InsertIndex+2:
		return dynamo.BoundsError("bootstrap_length", float64(p.BootstrapLength))
	case p.LayFlipEvery < 1:
		return dynamo.BoundsError("lay_flip_every", float64(p.LayFlipEvery))
	case p.PinFraction <= 0 || p.PinFraction > 1:
		return dynamo.BoundsError("pin_fraction", p.PinFraction)
	}
	return nil
}
