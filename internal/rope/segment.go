// Package rope holds the chain of segment bodies and their lifecycle state.
package rope

import (
	"fmt"

	"github.com/san-kum/ropecoil/internal/physics"
)

// State is the lifecycle phase of a segment. The set is closed: Free,
// Contacted, Pinned and Frozen.
type State interface {
	fmt.Stringer
	isState()
}

// Free segments obey forces and integration.
type Free struct{}

// Contacted segments are near the coiler surface and receive amplified
// attraction.
type Contacted struct {
	SinceFrame int
}

// Pinned segments are static and follow the coiler through their
// attachment record, expressed in the coiler frame.
type Pinned struct {
	Angle   float64
	Radius  float64
	ZOffset float64
}

// Frozen segments are static with no attachment; they hold their last pose.
type Frozen struct{}

func (Free) isState()      {}
func (Contacted) isState() {}
func (Pinned) isState()    {}
func (Frozen) isState()    {}

func (Free) String() string        { return "free" }
func (c Contacted) String() string { return fmt.Sprintf("contacted(since=%d)", c.SinceFrame) }
func (p Pinned) String() string {
	return fmt.Sprintf("pinned(angle=%.3f r=%.3f z=%.3f)", p.Angle, p.Radius, p.ZOffset)
}
func (Frozen) String() string { return "frozen" }

// IsStatic reports whether s takes the body out of the solver.
func IsStatic(s State) bool {
	switch s.(type) {
	case Pinned, Frozen:
		return true
	}
	return false
}

// Creation records when and where a segment entered the chain.
type Creation struct {
	Angle   float64
	Time    float64
	Ordinal int
}

type Segment struct {
	Body     *physics.Body
	State    State
	Creation Creation
}

func (s *Segment) Static() bool { return IsStatic(s.State) }
