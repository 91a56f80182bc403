package coiler

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/physics"
)

// Collision groups shared by the coiler and the rope.
const (
	GroupRope uint32 = 1 << iota
	GroupCoiler
	GroupBarrier
)

const (
	BumpCount        = 32
	HelixTurns       = 6
	BumpScale        = 0.035
	BarrierThickness = 0.04
	LateralFill      = 0.9
)

var zAxis = mgl64.Vec3{0, 0, 1}

// Assembly is the rotating core with its helical grip bumps and the two
// side barriers. All three bodies are kinematic and turn together.
type Assembly struct {
	Variant  Variant
	Center   mgl64.Vec3
	Core     *physics.Body
	Barriers [2]*physics.Body

	world *physics.World
	angle float64
}

// Build adds the coiler bodies for v to w. The core sits at
// (x, y, v.ZOffset); the barriers at z = SideOffset1 and SideOffset2.
func Build(w *physics.World, v Variant, x, y float64) *Assembly {
	center := mgl64.Vec3{x, y, v.ZOffset}

	core := physics.NewBody(physics.Kinematic, 0, center)
	core.Group = GroupCoiler
	core.Mask = GroupRope
	core.AddShape(physics.Cylinder(v.Radius, v.Height), mgl64.Vec3{})
	for _, off := range helix(v) {
		core.AddShape(physics.Sphere(v.Radius*BumpScale), off)
	}
	w.AddBody(core)

	a := &Assembly{
		Variant: v,
		Center:  center,
		Core:    core,
		world:   w,
	}

	for i, z := range []float64{v.SideOffset1, v.SideOffset2} {
		disk := physics.NewBody(physics.Kinematic, 0, mgl64.Vec3{x, y, z})
		disk.Group = GroupBarrier
		disk.Mask = GroupRope
		disk.AddShape(physics.Cylinder(v.BarrierRadius(), BarrierThickness), mgl64.Vec3{})
		w.AddBody(disk)
		a.Barriers[i] = disk
	}

	return a
}

// helix lays the bump centres along a helix on the cylinder surface.
func helix(v Variant) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, BumpCount)
	for i := range out {
		t := float64(i) / float64(BumpCount-1)
		theta := t * HelixTurns * 2 * math.Pi
		out[i] = mgl64.Vec3{
			v.Radius * math.Cos(theta),
			v.Radius * math.Sin(theta),
			-v.Height/2 + t*v.Height,
		}
	}
	return out
}

// Destroy removes all three bodies from the world.
func (a *Assembly) Destroy() {
	a.world.RemoveBody(a.Core)
	for _, b := range a.Barriers {
		a.world.RemoveBody(b)
	}
}

func (a *Assembly) bodies() []*physics.Body {
	return []*physics.Body{a.Core, a.Barriers[0], a.Barriers[1]}
}

// SetAngularSpeed drives the core and barriers about Z.
func (a *Assembly) SetAngularSpeed(omega float64) {
	for _, b := range a.bodies() {
		b.AngularVelocity = zAxis.Mul(omega)
	}
}

// SetAngle snaps the orientation of all bodies to angle about Z.
func (a *Assembly) SetAngle(angle float64) {
	a.angle = angle
	q := mgl64.QuatRotate(angle, zAxis)
	for _, b := range a.bodies() {
		b.Orientation = q
	}
}

func (a *Assembly) Angle() float64 { return a.angle }

// Polar returns p in the coiler frame: angle about Z, radial distance from
// the axis and Z offset from the centre.
func (a *Assembly) Polar(p mgl64.Vec3) (angle, radius, z float64) {
	dx, dy := p.X()-a.Center.X(), p.Y()-a.Center.Y()
	return math.Atan2(dy, dx), math.Hypot(dx, dy), p.Z() - a.Center.Z()
}

// PointAt is the inverse of Polar.
func (a *Assembly) PointAt(angle, radius, z float64) mgl64.Vec3 {
	return mgl64.Vec3{
		a.Center.X() + radius*math.Cos(angle),
		a.Center.Y() + radius*math.Sin(angle),
		a.Center.Z() + z,
	}
}

// SurfaceDistance is the radial distance from the cylinder surface to p.
// Negative inside the core.
func (a *Assembly) SurfaceDistance(p mgl64.Vec3) float64 {
	_, r, _ := a.Polar(p)
	return r - a.Variant.Radius
}

// LateralBounds returns the midpoint between the barriers and the largest
// lay offset from it.
func (a *Assembly) LateralBounds() (mid, limit float64) {
	s1, s2 := a.Variant.SideOffset1, a.Variant.SideOffset2
	return (s1 + s2) / 2, LateralFill * math.Abs(s2-s1) / 2
}

// Top is the point lift above the top of the core.
func (a *Assembly) Top(lift float64) mgl64.Vec3 {
	return a.Center.Add(mgl64.Vec3{0, a.Variant.Radius + lift, 0})
}

// Tangent is the unit direction of positive rotation at angle.
func Tangent(angle float64) mgl64.Vec3 {
	return mgl64.Vec3{-math.Sin(angle), math.Cos(angle), 0}
}

// Radial is the unit outward direction at angle.
func Radial(angle float64) mgl64.Vec3 {
	return mgl64.Vec3{math.Cos(angle), math.Sin(angle), 0}
}
