// Package viz is the terminal view of a winding session.
//
// The live [Model] talks to the simulator only through a
// [protocol.Client], so the same view drives an in-process worker or any
// other transport. Scenes are drawn on a braille [Canvas] through an
// orbiting [Camera]; the coiler is a wireframe and the rope a polyline
// over the snapshot positions.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset and recreate the rope
//	F     - Finalize
//	A     - Insert a segment at the feed point
//	+/-   - Rotation speed (0 stops, which finalizes after spin-up)
//	[]    - Scrub snapshot history
//	T     - Cycle color themes
//	?     - Show help
package viz
