// Package physics models a thrown axe as a rigid body moving in a vertical
// plane.
//
// [Axe] implements [dynamo.System] over the six-component state
//
//	(x, y, theta, vx, vy, omega)
//
// with gravity as the only force, so the body follows a parabola while
// spinning at a constant rate. [Axe] also implements [dynamo.Hamiltonian]
// for energy monitoring and [dynamo.Configurable] for named parameter
// access.
//
// The geometry helpers ([NewFrame], [Axe.Pose]) are used for drawing only
// and play no part in the dynamics:
//
//	pose := axe.Pose(state)
//	// pose.Butt -> pose.Head is the handle, pose.BladeA -> pose.BladeB the edge
package physics
