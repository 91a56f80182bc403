package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/ropecoil/internal/dynamo"
)

const DefaultIterations = 10

type pairKey struct{ a, b int }

func keyOf(a, b *Body) pairKey {
	if a.ID > b.ID {
		a, b = b, a
	}
	return pairKey{a.ID, b.ID}
}

// World owns bodies and constraints and steps them together.
type World struct {
	Gravity    mgl64.Vec3
	Iterations int

	bodies      []*Body
	constraints []*Constraint
	noCollide   map[pairKey]int
	nextID      int
	time        float64
}

func NewWorld() *World {
	return &World{
		Gravity:    mgl64.Vec3{0, -9.81, 0},
		Iterations: DefaultIterations,
		noCollide:  make(map[pairKey]int),
	}
}

func (w *World) Bodies() []*Body           { return w.bodies }
func (w *World) Constraints() []*Constraint { return w.constraints }
func (w *World) BodyCount() int             { return len(w.bodies) }
func (w *World) ConstraintCount() int       { return len(w.constraints) }
func (w *World) Time() float64              { return w.time }

// AddBody registers b and assigns its ID.
func (w *World) AddBody(b *Body) {
	b.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, b)
}

// RemoveBody drops b and every constraint attached to it.
func (w *World) RemoveBody(b *Body) {
	k := -1
	for i, other := range w.bodies {
		if other == b {
			k = i
			break
		}
	}
	if k == -1 {
		return
	}
	w.bodies = append(w.bodies[:k], w.bodies[k+1:]...)

	kept := w.constraints[:0]
	for _, c := range w.constraints {
		if c.A == b || c.B == b {
			w.forget(c)
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(w.constraints); i++ {
		w.constraints[i] = nil
	}
	w.constraints = kept
}

func (w *World) AddConstraint(c *Constraint) {
	w.constraints = append(w.constraints, c)
	if !c.CollideConnected {
		w.noCollide[keyOf(c.A, c.B)]++
	}
}

// RemoveConstraint reports whether c was registered.
func (w *World) RemoveConstraint(c *Constraint) bool {
	for i, other := range w.constraints {
		if other == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			w.forget(c)
			return true
		}
	}
	return false
}

func (w *World) forget(c *Constraint) {
	if c.CollideConnected {
		return
	}
	k := keyOf(c.A, c.B)
	if w.noCollide[k] <= 1 {
		delete(w.noCollide, k)
		return
	}
	w.noCollide[k]--
}

// Clear empties the world but keeps gravity and solver settings.
func (w *World) Clear() {
	w.bodies = nil
	w.constraints = nil
	w.noCollide = make(map[pairKey]int)
}

// Step advances the world by one substep of length h.
func (w *World) Step(h float64) {
	if h <= 0 {
		return
	}

	for _, b := range w.bodies {
		switch b.Kind {
		case Dynamic:
			acc := w.Gravity.Add(b.Force.Mul(b.invMass))
			b.Velocity = b.Velocity.Add(acc.Mul(h)).Mul(dampFactor(b.LinearDamping, h))
			b.AngularVelocity = b.AngularVelocity.Add(b.Torque.Mul(b.invInertia * h)).
				Mul(dampFactor(b.AngularDamping, h))
			b.prev = b.Position
			b.Position = b.Position.Add(b.Velocity.Mul(h))
			b.integrateOrientation(h)
		case Kinematic:
			b.prev = b.Position
			b.Position = b.Position.Add(b.Velocity.Mul(h))
			b.integrateOrientation(h)
		default:
			b.prev = b.Position
		}
	}

	for _, c := range w.constraints {
		c.lambda = 0
	}

	movers, solids := w.colliders()
	iterations := max(1, w.Iterations)
	for range iterations {
		for _, c := range w.constraints {
			c.solve(h)
		}
		w.solveContacts(movers, solids)
	}

	for _, c := range w.constraints {
		c.force = math.Abs(c.lambda) / (h * h)
	}

	invH := 1 / h
	for _, b := range w.bodies {
		if b.Kind == Dynamic {
			b.Velocity = b.Position.Sub(b.prev).Mul(invH)
		}
	}

	w.time += h
}

// ClampVelocities caps the linear and angular speed of every dynamic body.
func (w *World) ClampVelocities(maxLinear, maxAngular float64) {
	for _, b := range w.bodies {
		if b.Kind != Dynamic {
			continue
		}
		b.Velocity = dynamo.ClampLength(b.Velocity, maxLinear)
		b.AngularVelocity = dynamo.ClampLength(b.AngularVelocity, maxAngular)
	}
}

func (w *World) ClearForces() {
	for _, b := range w.bodies {
		b.ClearForces()
	}
}

// CanCollide applies the group/mask filter and constraint exclusions.
func (w *World) CanCollide(a, b *Body) bool {
	if a == b {
		return false
	}
	if a.Group&b.Mask == 0 || b.Group&a.Mask == 0 {
		return false
	}
	return w.noCollide[keyOf(a, b)] == 0
}

// colliders splits the bodies into dynamic spheres and the static or
// kinematic shapes they can hit. Dynamic bodies do not collide with each
// other.
func (w *World) colliders() (movers, solids []*Body) {
	for _, b := range w.bodies {
		switch {
		case b.Kind == Dynamic && b.Radius() > 0:
			movers = append(movers, b)
		case b.Kind != Dynamic && len(b.Shapes) > 0:
			solids = append(solids, b)
		}
	}
	return movers, solids
}

func (w *World) solveContacts(movers, solids []*Body) {
	for _, a := range movers {
		r := a.Radius()
		for _, b := range solids {
			if !w.CanCollide(a, b) {
				continue
			}
			if a.Position.Sub(b.Position).Len() > b.bound+r {
				continue
			}
			for i := range b.Shapes {
				w.resolve(a, r, b, i)
			}
		}
	}
}

func (w *World) resolve(a *Body, r float64, b *Body, i int) {
	s := b.Shapes[i]
	c := b.ShapeCenter(i)

	var n mgl64.Vec3
	var depth float64

	switch s.Kind {
	case SphereShape:
		d := a.Position.Sub(c)
		dist := d.Len()
		depth = r + s.Radius - dist
		if depth <= 0 {
			return
		}
		if dist < 1e-9 {
			n = mgl64.Vec3{0, 1, 0}
		} else {
			n = d.Mul(1 / dist)
		}
	case CylinderShape:
		axis := b.Axis()
		rel := a.Position.Sub(c)
		ax := rel.Dot(axis)
		radial := rel.Sub(axis.Mul(ax))
		rho := radial.Len()
		half := s.Height / 2
		if math.Abs(ax) >= half+r || rho >= s.Radius+r {
			return
		}
		penR := s.Radius + r - rho
		penA := half + r - math.Abs(ax)
		if penR < penA {
			depth = penR
			if rho < 1e-9 {
				n = mgl64.Vec3{0, 1, 0}
			} else {
				n = radial.Mul(1 / rho)
			}
		} else {
			depth = penA
			n = axis
			if ax < 0 {
				n = axis.Mul(-1)
			}
		}
	default:
		return
	}

	wa, wb := a.InvMass(), b.InvMass()
	sum := wa + wb
	if sum == 0 {
		return
	}
	a.Position = a.Position.Add(n.Mul(depth * wa / sum))
	if wb > 0 {
		b.Position = b.Position.Sub(n.Mul(depth * wb / sum))
	}
}
