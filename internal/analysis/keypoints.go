package analysis

import (
	"math"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/physics"
)

// signalShift expresses every signal as S·cos(θ + δ) with θ = ωt + φ:
// velocity is -Aω·sin θ = Aω·cos(θ + π/2), acceleration is
// -Aω²·cos θ = Aω²·cos(θ + π).
func signalShift(s dynamo.Signal) float64 {
	switch s {
	case dynamo.SignalVelocity:
		return math.Pi / 2
	case dynamo.SignalAcceleration:
		return math.Pi
	default:
		return 0
	}
}

// ComputeKeyPoints returns the maxima, minima and zero crossings of a
// signal inside [minTime, maxTime] that the clock has already reached.
// Points are solved analytically, one cycle index n at a time, so the
// cost depends on the window length in periods, not on any sample count.
func ComputeKeyPoints(minTime, maxTime float64, signal dynamo.Signal, mode dynamo.Mode, p dynamo.Params, currentTime float64) dynamo.KeyPoints {
	kp := dynamo.KeyPoints{
		Maxima: []dynamo.KeyPoint{},
		Minima: []dynamo.KeyPoint{},
		Zeros:  []dynamo.KeyPoint{},
	}
	if minTime > maxTime || !finite(minTime, maxTime, currentTime) {
		return kp
	}

	omega := physics.Omega(mode, p)
	if !(omega > 0) || math.IsInf(omega, 0) {
		return kp
	}
	peak := physics.Peak(signal, mode, p)
	offset := p.Phase + signalShift(signal)

	// θ+δ at the window edges, in cycles, with one cycle of slack on
	// each side against truncation at the boundaries.
	nMin := int(math.Floor((minTime*omega+offset)/(2*math.Pi))) - 1
	nMax := int(math.Ceil((maxTime*omega+offset)/(2*math.Pi))) + 1

	keep := func(t float64) bool {
		return t >= minTime && t <= maxTime && t <= currentTime
	}

	for n := nMin; n <= nMax; n++ {
		base := 2 * math.Pi * float64(n)

		if t := (base - offset) / omega; keep(t) {
			kp.Maxima = append(kp.Maxima, dynamo.KeyPoint{Time: t, Value: peak, Kind: dynamo.Maximum})
		}
		if t := (base + math.Pi/2 - offset) / omega; keep(t) {
			kp.Zeros = append(kp.Zeros, dynamo.KeyPoint{Time: t, Value: 0, Kind: dynamo.ZeroCrossing})
		}
		if t := (base + math.Pi - offset) / omega; keep(t) {
			kp.Minima = append(kp.Minima, dynamo.KeyPoint{Time: t, Value: -peak, Kind: dynamo.Minimum})
		}
		if t := (base + 3*math.Pi/2 - offset) / omega; keep(t) {
			kp.Zeros = append(kp.Zeros, dynamo.KeyPoint{Time: t, Value: 0, Kind: dynamo.ZeroCrossing})
		}
	}

	return kp
}

// ComputeAll annotates every signal over the same window.
func ComputeAll(minTime, maxTime float64, mode dynamo.Mode, p dynamo.Params, currentTime float64) map[dynamo.Signal]dynamo.KeyPoints {
	out := make(map[dynamo.Signal]dynamo.KeyPoints, len(dynamo.Signals))
	for _, s := range dynamo.Signals {
		out[s] = ComputeKeyPoints(minTime, maxTime, s, mode, p, currentTime)
	}
	return out
}

// DisplayWindow is the time span a chart shows at currentTime: a fixed
// [0, window] until the clock passes window, then the trailing window.
func DisplayWindow(currentTime, window float64) (float64, float64) {
	if currentTime <= window {
		return 0, window
	}
	return currentTime - window, currentTime
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
