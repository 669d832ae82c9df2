package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/san-kum/oscillab/internal/dynamo"
)

var ErrTooFewSamples = errors.New("analysis: too few samples for spectral estimate")

const minSpectralSamples = 8

// PowerSpectrum returns the magnitude of the positive-frequency half of
// the FFT of data.
func PowerSpectrum(data []float64) []float64 {
	spectrum := fft.FFTReal(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency estimates the strongest frequency (Hz) of a sampled
// signal. Samples are assumed evenly spaced; the spacing is the mean
// step between first and last sample. Resolution is one bin, 1/duration.
func DominantFrequency(samples []dynamo.Sample) (float64, error) {
	n := len(samples)
	if n < minSpectralSamples {
		return 0, ErrTooFewSamples
	}
	duration := samples[n-1].Time - samples[0].Time
	if duration <= 0 {
		return 0, ErrTooFewSamples
	}
	dt := duration / float64(n-1)

	data := make([]float64, n)
	mean := 0.0
	for i, s := range samples {
		data[i] = s.Value
		mean += s.Value
	}
	mean /= float64(n)
	for i := range data {
		data[i] -= mean
	}

	ps := PowerSpectrum(data)
	maxIdx, maxPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}

	return float64(maxIdx) / (float64(n) * dt), nil
}
