package physics

import "math"

// Constraint keeps two bodies at RestLength apart.
//
// Stiffness maps to XPBD compliance 1/Stiffness; zero means rigid. MaxForce
// bounds the multiplier accumulated within one substep, so an overstretched
// link cannot inject unbounded energy. Zero MaxForce means unbounded.
type Constraint struct {
	A, B             *Body
	RestLength       float64
	Stiffness        float64
	MaxForce         float64
	CollideConnected bool

	lambda float64
	force  float64
}

func NewDistance(a, b *Body, rest, stiffness, maxForce float64) *Constraint {
	return &Constraint{
		A:          a,
		B:          b,
		RestLength: rest,
		Stiffness:  stiffness,
		MaxForce:   maxForce,
	}
}

// Force is the magnitude of the last substep's constraint force.
func (c *Constraint) Force() float64 { return c.force }

// Length is the current distance between the endpoints.
func (c *Constraint) Length() float64 {
	return c.B.Position.Sub(c.A.Position).Len()
}

func (c *Constraint) solve(h float64) {
	wa, wb := c.A.InvMass(), c.B.InvMass()
	w := wa + wb
	if w == 0 {
		return
	}

	d := c.B.Position.Sub(c.A.Position)
	l := d.Len()
	if l < 1e-9 {
		return
	}
	n := d.Mul(1 / l)
	C := l - c.RestLength

	alpha := 0.0
	if c.Stiffness > 0 {
		alpha = 1 / (c.Stiffness * h * h)
	}

	dl := (-C - alpha*c.lambda) / (w + alpha)
	if c.MaxForce > 0 {
		limit := c.MaxForce * h * h
		next := math.Max(-limit, math.Min(limit, c.lambda+dl))
		dl = next - c.lambda
	}
	c.lambda += dl

	c.A.Position = c.A.Position.Sub(n.Mul(dl * wa))
	c.B.Position = c.B.Position.Add(n.Mul(dl * wb))
}
