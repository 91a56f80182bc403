package protocol

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/coiler"
	"github.com/san-kum/ropecoil/internal/sim"
)

// Request is one command. Payload holds the typed body for Kind, or nil
// for commands without input.
type Request struct {
	ID      uint64
	Kind    Kind
	Payload any
}

type CreateCoiler struct {
	Variants coiler.Table `json:"variants"`
	Active   string       `json:"active"`
}

type ResetRope struct {
	ResetAngle bool `json:"resetAngle"`
}

type Step struct {
	TimeStep      float64 `json:"timeStep"`
	RotationSpeed float64 `json:"rotationSpeed"`
	AngleHint     float64 `json:"rotationAngle"`
}

type UpdateAnchor struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (u UpdateAnchor) Vec() mgl64.Vec3 { return mgl64.Vec3{u.X, u.Y, u.Z} }

type SetRotation struct {
	Speed float64 `json:"rotationSpeed"`
}

type SetDelay struct {
	Frames int `json:"frames"`
}

type AddSegment struct {
	Override *sim.GrowthOverride `json:"override,omitempty"`
}

// Response answers exactly one Request. Silent responses acknowledge
// commands that have no reply on the wire; transports drop them.
type Response struct {
	ID          uint64          `json:"-"`
	Type        Reply           `json:"-"`
	Silent      bool            `json:"-"`
	Snapshot    *sim.Snapshot   `json:"snapshot,omitempty"`
	Delay       *sim.DelayState `json:"delay,omitempty"`
	Variant     string          `json:"variant,omitempty"`
	MaxSegments int             `json:"maxSegments,omitempty"`
	Message     string          `json:"message,omitempty"`
}

func silent(id uint64) Response {
	return Response{ID: id, Silent: true}
}
