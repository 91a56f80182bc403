// Package physics provides the body/constraint substrate the rope core runs on.
//
// A [World] holds point-mass and compound bodies and the distance
// constraints between them, and advances them with a sub-stepped
// position-based solver:
//
//   - [Body]: dynamic, static or kinematic; shapes attached at local offsets
//   - [Constraint]: distance link with rest length, stiffness and max force
//   - [Shape]: sphere or cylinder (cylinder axis is the body's local Z)
//
// # Stepping
//
// Each call to [World.Step] is one substep. Forces accumulated with
// [Body.ApplyForce] stay applied until [World.ClearForces]:
//
//	for i := 0; i < substeps; i++ {
//	    world.Step(dt / float64(substeps))
//	}
//	world.ClampVelocities(maxLinear, maxAngular)
//	world.ClearForces()
//
// # Collision
//
// Dynamic bodies are treated as spheres (their first sphere shape) and are
// pushed out of the shapes of every body that passes the group/mask filter.
// Bodies joined by a constraint with CollideConnected == false never touch.
package physics
