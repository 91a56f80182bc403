package sim

import "github.com/go-gl/mathgl/mgl64"

// StepInput is one external tick request.
type StepInput struct {
	// TimeStep is the caller's frame time. The scheduler always advances by
	// Params.FixedTimestep; the hint is kept for protocol compatibility.
	TimeStep      float64
	RotationSpeed float64
	AngleHint     float64
}

// Snapshot is the per-tick view handed to the renderer.
type Snapshot struct {
	Positions      []mgl64.Vec3 `json:"positions"`
	SegmentCount   int          `json:"segmentCount"`
	StaticCount    int          `json:"staticCount"`
	SimTime        float64      `json:"simulationTime"`
	RotationAngle  float64      `json:"rotationAngle"`
	AngleHint      float64      `json:"angleHint"`
	DelayActive    bool         `json:"delayActive"`
	DelayRemaining int          `json:"delayRemaining"`
	Finalized      bool         `json:"ropeFinalized"`
	Frame          int          `json:"frame"`
	Dropped        int          `json:"dropped,omitempty"`
}

// DelayState reports the startup delay countdown.
type DelayState struct {
	Active    bool `json:"delayActive"`
	Remaining int  `json:"delayRemaining"`
}

// GrowthOverride replaces the lay pattern or seed speed for one insertion.
type GrowthOverride struct {
	LateralOffset *float64 `json:"lateralOffset,omitempty" yaml:"lateral_offset"`
	SeedSpeed     *float64 `json:"seedSpeed,omitempty" yaml:"seed_speed"`
}

// Observer is notified after every tick.
type Observer interface {
	OnStep(s *Snapshot)
}
