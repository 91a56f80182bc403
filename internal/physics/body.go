package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind selects how a body takes part in the solver.
type Kind int

const (
	// Dynamic bodies integrate forces and are moved by constraints.
	Dynamic Kind = iota
	// Static bodies never move unless positioned directly.
	Static
	// Kinematic bodies move with their set velocity and ignore forces.
	Kinematic
)

func (k Kind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Static:
		return "static"
	case Kinematic:
		return "kinematic"
	}
	return "unknown"
}

// ShapeKind distinguishes the supported collision primitives.
type ShapeKind int

const (
	SphereShape ShapeKind = iota
	CylinderShape
)

// Shape is a collision primitive attached to a body at Offset (body frame).
type Shape struct {
	Kind   ShapeKind
	Radius float64
	Height float64
	Offset mgl64.Vec3
}

func Sphere(radius float64) Shape {
	return Shape{Kind: SphereShape, Radius: radius}
}

func Cylinder(radius, height float64) Shape {
	return Shape{Kind: CylinderShape, Radius: radius, Height: height}
}

// reach is the distance from the body origin to the far side of the shape.
func (s Shape) reach() float64 {
	r := s.Radius
	if s.Kind == CylinderShape {
		r = math.Hypot(s.Radius, s.Height/2)
	}
	return s.Offset.Len() + r
}

// Body is a rigid body reduced to what the rope core needs: a position,
// an orientation about its centre, linear/angular velocity and an optional
// compound of shapes.
type Body struct {
	ID   int
	Kind Kind

	Position        mgl64.Vec3
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	Orientation     mgl64.Quat

	Force  mgl64.Vec3
	Torque mgl64.Vec3

	LinearDamping  float64
	AngularDamping float64

	Group uint32
	Mask  uint32

	Shapes []Shape

	mass       float64
	invMass    float64
	invInertia float64
	bound      float64
	prev       mgl64.Vec3
}

// NewBody creates a body at pos. A zero mass on a dynamic body is treated
// as static, matching the usual physics-library convention.
func NewBody(kind Kind, mass float64, pos mgl64.Vec3) *Body {
	b := &Body{
		ID:          -1,
		Kind:        kind,
		Position:    pos,
		Orientation: mgl64.QuatIdent(),
		Group:       1,
		Mask:        ^uint32(0),
		prev:        pos,
	}
	b.SetMass(mass)
	return b
}

func (b *Body) Mass() float64 { return b.mass }

// InvMass is zero for anything that is not dynamic.
func (b *Body) InvMass() float64 {
	if b.Kind != Dynamic {
		return 0
	}
	return b.invMass
}

// SetMass updates mass and the derived inverse mass and inertia. Setting a
// dynamic body's mass to zero turns it static.
func (b *Body) SetMass(m float64) {
	if m <= 0 {
		b.mass, b.invMass, b.invInertia = 0, 0, 0
		if b.Kind == Dynamic {
			b.Kind = Static
		}
		return
	}
	b.mass = m
	b.invMass = 1 / m
	b.updateInertia()
}

func (b *Body) updateInertia() {
	if b.mass == 0 {
		b.invInertia = 0
		return
	}
	r := 1.0
	if s, ok := b.sphere(); ok {
		r = s.Radius
	}
	// solid sphere
	b.invInertia = 1 / (0.4 * b.mass * r * r)
}

// AddShape attaches s at a body-frame offset.
func (b *Body) AddShape(s Shape, offset mgl64.Vec3) {
	s.Offset = offset
	b.Shapes = append(b.Shapes, s)
	if r := s.reach(); r > b.bound {
		b.bound = r
	}
	b.updateInertia()
}

func (b *Body) sphere() (Shape, bool) {
	for _, s := range b.Shapes {
		if s.Kind == SphereShape {
			return s, true
		}
	}
	return Shape{}, false
}

// Radius of the body's collision sphere, zero when it has none.
func (b *Body) Radius() float64 {
	if s, ok := b.sphere(); ok {
		return s.Radius
	}
	return 0
}

// ApplyForce adds force at a point given in the body frame.
func (b *Body) ApplyForce(force, localPoint mgl64.Vec3) {
	b.Force = b.Force.Add(force)
	if localPoint != (mgl64.Vec3{}) {
		arm := b.Orientation.Rotate(localPoint)
		b.Torque = b.Torque.Add(arm.Cross(force))
	}
}

func (b *Body) ClearForces() {
	b.Force = mgl64.Vec3{}
	b.Torque = mgl64.Vec3{}
}

// Freeze zeroes every motion quantity without changing the kind.
func (b *Body) Freeze() {
	b.Velocity = mgl64.Vec3{}
	b.AngularVelocity = mgl64.Vec3{}
	b.ClearForces()
	b.prev = b.Position
}

// MakeStatic pins the body: zero mass, static kind, no motion.
func (b *Body) MakeStatic() {
	b.Kind = Static
	b.SetMass(0)
	b.Freeze()
}

// SetPosition teleports the body; the solver will not see it as motion.
func (b *Body) SetPosition(p mgl64.Vec3) {
	b.Position = p
	b.prev = p
}

// ShapeCenter returns the world position of shape i.
func (b *Body) ShapeCenter(i int) mgl64.Vec3 {
	return b.Position.Add(b.Orientation.Rotate(b.Shapes[i].Offset))
}

// Axis is the body's local Z in world space.
func (b *Body) Axis() mgl64.Vec3 {
	return b.Orientation.Rotate(mgl64.Vec3{0, 0, 1})
}

func (b *Body) integrateOrientation(h float64) {
	if b.AngularVelocity.Len() == 0 {
		return
	}
	dq := mgl64.Quat{W: 0, V: b.AngularVelocity}.Mul(b.Orientation).Scale(0.5 * h)
	b.Orientation = b.Orientation.Add(dq).Normalize()
}

func dampFactor(d, h float64) float64 {
	if d <= 0 {
		return 1
	}
	return math.Pow(1-math.Min(d, 1), h)
}
