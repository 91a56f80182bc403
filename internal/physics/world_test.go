package physics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/gomega"
)

func stepN(w *World, n int, h float64) {
	for i := 0; i < n; i++ {
		w.Step(h)
	}
}

func TestFreeFall(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	b := NewBody(Dynamic, 1, mgl64.Vec3{})
	w.AddBody(b)

	stepN(w, 60, 1.0/60)

	g.Expect(b.Velocity.Y()).To(BeNumerically("~", -9.81, 1e-9))
	g.Expect(w.Time()).To(BeNumerically("~", 1.0, 1e-9))
}

func TestStaticBodyDoesNotMove(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	b := NewBody(Static, 0, mgl64.Vec3{1, 2, 3})
	w.AddBody(b)
	b.ApplyForce(mgl64.Vec3{100, 0, 0}, mgl64.Vec3{})

	stepN(w, 30, 1.0/240)

	g.Expect(b.Position).To(Equal(mgl64.Vec3{1, 2, 3}))
	g.Expect(b.InvMass()).To(BeZero())
}

func TestZeroMassDynamicBecomesStatic(t *testing.T) {
	b := NewBody(Dynamic, 0, mgl64.Vec3{})
	if b.Kind != Static {
		t.Errorf("expected static kind, got %s", b.Kind)
	}
}

func TestDistanceConstraintHolds(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	anchor := NewBody(Static, 0, mgl64.Vec3{0, 0, 0})
	bob := NewBody(Dynamic, 0.1, mgl64.Vec3{1, 0, 0})
	w.AddBody(anchor)
	w.AddBody(bob)
	c := NewDistance(anchor, bob, 1, 1e6, 0)
	w.AddConstraint(c)

	stepN(w, 480, 1.0/240)

	g.Expect(bob.Position.Len()).To(BeNumerically("~", 1, 1e-2))
	g.Expect(c.Length()).To(BeNumerically("~", c.RestLength, 1e-2))
	g.Expect(w.ConstraintCount()).To(Equal(1))
}

func TestMaxForceBoundsCorrection(t *testing.T) {
	w := NewWorld()
	anchor := NewBody(Static, 0, mgl64.Vec3{})
	bob := NewBody(Dynamic, 1, mgl64.Vec3{0, -1, 0})
	w.AddBody(anchor)
	w.AddBody(bob)
	c := NewDistance(anchor, bob, 1, 0, 0.5)
	w.AddConstraint(c)

	stepN(w, 240, 1.0/240)

	// 0.5 N cannot hold a 1 kg body against gravity
	if bob.Position.Len() < 1.5 {
		t.Errorf("expected the weak link to stretch, length %.3f", bob.Position.Len())
	}
	if c.Force() > 0.5+1e-9 {
		t.Errorf("constraint force %.4f exceeds max force", c.Force())
	}
}

func TestCylinderPushesSphereOut(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	w.Gravity = mgl64.Vec3{}

	drum := NewBody(Kinematic, 0, mgl64.Vec3{})
	drum.AddShape(Cylinder(1, 2), mgl64.Vec3{})
	w.AddBody(drum)

	bead := NewBody(Dynamic, 0.05, mgl64.Vec3{0.9, 0, 0})
	bead.AddShape(Sphere(0.05), mgl64.Vec3{})
	w.AddBody(bead)

	w.Step(1.0 / 240)

	rho := math.Hypot(bead.Position.X(), bead.Position.Y())
	g.Expect(rho).To(BeNumerically(">=", 1.05-1e-9))
	g.Expect(drum.Position).To(Equal(mgl64.Vec3{}))
}

func TestCylinderCapPushesAlongAxis(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	w.Gravity = mgl64.Vec3{}

	disk := NewBody(Kinematic, 0, mgl64.Vec3{})
	disk.AddShape(Cylinder(2, 0.04), mgl64.Vec3{})
	w.AddBody(disk)

	bead := NewBody(Dynamic, 0.05, mgl64.Vec3{0.5, 0, 0.03})
	bead.AddShape(Sphere(0.03), mgl64.Vec3{})
	w.AddBody(bead)

	w.Step(1.0 / 240)

	g.Expect(bead.Position.Z()).To(BeNumerically(">=", 0.05-1e-9))
}

func TestCollisionFilter(t *testing.T) {
	w := NewWorld()
	a := NewBody(Dynamic, 1, mgl64.Vec3{})
	b := NewBody(Dynamic, 1, mgl64.Vec3{})
	c := NewBody(Kinematic, 0, mgl64.Vec3{})
	w.AddBody(a)
	w.AddBody(b)
	w.AddBody(c)

	a.Group, a.Mask = 1, 2
	b.Group, b.Mask = 1, 2
	c.Group, c.Mask = 2, 1

	tests := []struct {
		name string
		x, y *Body
		want bool
	}{
		{"same group masked out", a, b, false},
		{"rope vs coiler", a, c, true},
		{"self", a, a, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.CanCollide(tt.x, tt.y); got != tt.want {
				t.Errorf("CanCollide() = %v, want %v", got, tt.want)
			}
		})
	}

	link := NewDistance(a, c, 1, 0, 0)
	w.AddConstraint(link)
	if w.CanCollide(a, c) {
		t.Error("linked bodies should not collide")
	}
	w.RemoveConstraint(link)
	if !w.CanCollide(a, c) {
		t.Error("collision should be restored after removing the link")
	}
}

func TestRemoveBodyDropsConstraints(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	a := NewBody(Dynamic, 1, mgl64.Vec3{})
	b := NewBody(Dynamic, 1, mgl64.Vec3{1, 0, 0})
	c := NewBody(Dynamic, 1, mgl64.Vec3{2, 0, 0})
	w.AddBody(a)
	w.AddBody(b)
	w.AddBody(c)
	w.AddConstraint(NewDistance(a, b, 1, 0, 0))
	w.AddConstraint(NewDistance(b, c, 1, 0, 0))

	w.RemoveBody(b)

	g.Expect(w.BodyCount()).To(Equal(2))
	g.Expect(w.ConstraintCount()).To(BeZero())

	w.Clear()
	g.Expect(w.BodyCount()).To(BeZero())
}

func TestApplyForceOffsetAddsTorque(t *testing.T) {
	b := NewBody(Dynamic, 1, mgl64.Vec3{})
	b.ApplyForce(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{1, 0, 0})

	if b.Torque.Z() != 1 {
		t.Errorf("expected torque z=1, got %v", b.Torque)
	}

	b.ClearForces()
	if b.Force != (mgl64.Vec3{}) || b.Torque != (mgl64.Vec3{}) {
		t.Error("ClearForces left residue")
	}
}

func TestClampVelocities(t *testing.T) {
	w := NewWorld()
	fast := NewBody(Dynamic, 1, mgl64.Vec3{})
	fast.Velocity = mgl64.Vec3{30, 40, 0}
	fast.AngularVelocity = mgl64.Vec3{0, 0, 100}
	spin := NewBody(Kinematic, 0, mgl64.Vec3{})
	spin.AngularVelocity = mgl64.Vec3{0, 0, 100}
	w.AddBody(fast)
	w.AddBody(spin)

	w.ClampVelocities(5, 10)

	if math.Abs(fast.Velocity.Len()-5) > 1e-9 {
		t.Errorf("linear speed not clamped: %f", fast.Velocity.Len())
	}
	if math.Abs(fast.AngularVelocity.Len()-10) > 1e-9 {
		t.Errorf("angular speed not clamped: %f", fast.AngularVelocity.Len())
	}
	if spin.AngularVelocity.Z() != 100 {
		t.Error("kinematic bodies are driven externally and must not be clamped")
	}
}

func TestKinematicRotation(t *testing.T) {
	g := NewWithT(t)

	w := NewWorld()
	b := NewBody(Kinematic, 0, mgl64.Vec3{})
	b.AddShape(Sphere(0.1), mgl64.Vec3{1, 0, 0})
	b.AngularVelocity = mgl64.Vec3{0, 0, math.Pi / 2}
	w.AddBody(b)

	stepN(w, 240, 1.0/240)

	c := b.ShapeCenter(0)
	g.Expect(c.X()).To(BeNumerically("~", 0, 1e-3))
	g.Expect(c.Y()).To(BeNumerically("~", 1, 1e-3))
}
