// Package dynamo provides the core types shared by the oscillator packages.
//
// The package defines the vocabulary of the simulation:
//
//   - [Mode]: which oscillator is active (spring or pendulum)
//   - [Params]: physical parameters of both oscillators
//   - [Field]: the name of a single parameter
//   - [Signal]: position, velocity or acceleration
//   - [Sample]: one (time, value) pair of a signal
//   - [KeyPoint]: an analytic extremum or zero crossing
//   - [Kinematics]: the three signals evaluated at one instant
//
// # Example
//
//	p := dynamo.DefaultParams()
//	k := physics.Evaluate(dynamo.ModeSpring, p, 0.25)
//	fmt.Println(k.Position, k.Velocity)
//
// # Thread Safety
//
// All types are plain values. Params is copied on every hand-off, so a
// reader never observes a half-applied update.
package dynamo
