// Package physics evaluates simple harmonic motion in closed form.
//
// Each oscillator implements [Oscillator], reducing its physical
// parameters to an angular frequency and an amplitude:
//
//   - [Spring]: mass on an ideal spring, amplitude in meters
//   - [Pendulum]: simple pendulum in the small-angle limit, amplitude in radians
//
// Every signal is then a sinusoid of the same phase angle:
//
//	x(t) = A·cos(ωt + φ)
//	v(t) = -A·ω·sin(ωt + φ)
//	a(t) = -A·ω²·cos(ωt + φ)
//
// Nothing is integrated numerically, so evaluation at any t is exact and
// independent of frame rate. All functions are pure and assume parameters
// that already passed range validation; [CheckDomain] exists for callers
// that bypass the parameter store.
//
// # Energy
//
// Pendulum energy uses the small-angle approximation 0.5·g·L·θ0² per unit
// mass. It stays within 1% of the exact value up to [SmallAngleLimitDeg]
// and is kept for larger angles as well; [SmallAngleValid] reports which
// side of the limit a parameter set is on.
package physics
