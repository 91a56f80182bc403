// Package dynamo provides the shared vocabulary of the rope winding core.
//
// It holds the domain errors returned across package boundaries and the
// numeric validity checks used to detect solver blow-up:
//
//   - [ErrUnknownVariant]: a coiler variant id with no config
//   - [ErrNoCoiler]: rope requested before any coiler was built
//   - [ErrUnstable]: a body position left the finite range
//   - [SimulationError]: wraps any of the above with frame/time context
//
// # Thread Safety
//
// Nothing in this package holds state. The simulator that uses it is owned
// by a single goroutine; see package protocol.
package dynamo
