// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for numerical
// simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepping interface
//   - [Event]: scalar function whose zero crossing is recorded
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	axe := physics.NewAxe()
//	s := dynamo.New(axe, integrators.NewRK4())
//	s.AddEvent(physics.GroundContact(0))
//	result, err := s.Run(ctx, x0, dynamo.DefaultConfig())
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe and integrators keep scratch
// buffers between steps. Build one simulator per run.
package dynamo
