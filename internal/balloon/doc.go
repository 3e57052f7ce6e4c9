// Package balloon provides the balloon entity and the registry that owns
// the live set of balloons for a session.
//
//   - [Balloon]: position, scale, rise speed and sway phase
//   - [Registry]: ordered collection with spawn and retirement
//   - [Vec3]: world-space coordinate
//
// # Coordinates
//
// The viewer looks down the negative z axis from z = 5. Balloons spawn
// below the view (y = -3) in a depth band in front of the viewer and rise
// until they cross the session's upper bound.
//
// # Thread Safety
//
// Registry instances are NOT thread-safe. A registry belongs to exactly
// one session and is only touched from the goroutine driving that
// session's frames.
package balloon
