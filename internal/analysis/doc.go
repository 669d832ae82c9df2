// Package analysis annotates and summarizes oscillator signals.
//
//   - [ComputeKeyPoints]: analytic maxima, minima and zero crossings in a window
//   - [DisplayWindow]: the time span a chart shows at a given clock reading
//   - [DominantFrequency]: FFT estimate of the strongest frequency in a sample run
//   - [PhasePortrait]: ASCII scatter of one signal against another
//
// Key points come straight from the closed-form solution, so they land
// exactly on the curve regardless of frame rate:
//
//	lo, hi := analysis.DisplayWindow(now, 10)
//	kp := analysis.ComputeKeyPoints(lo, hi, dynamo.SignalPosition, mode, p, now)
package analysis
