package analysis

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// PowerSpectrum returns the magnitude spectrum of values. The series is
// demeaned first so the DC component does not swamp the cycle peaks.
// Bin k corresponds to frequency k/(n*dt).
func PowerSpectrum(values []float64) []float64 {
	n := len(values)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	seq := make([]float64, n)
	for i, v := range values {
		seq[i] = v - mean
	}

	coeffs := fourier.NewFFT(n).Coefficients(nil, seq)
	ps := make([]float64, len(coeffs))
	for i, c := range coeffs {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// DominantPeriod finds the strongest oscillation period in values, in
// seconds. It reports false when the series is too short or has no
// clear peak, such as a flat or monotone channel.
func DominantPeriod(values []float64, dt float64) (float64, bool) {
	if dt <= 0 || len(values) < 4 {
		return 0, false
	}

	ps := PowerSpectrum(values)

	maxPower := 0.0
	maxIdx := 0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	if maxIdx == 0 || maxPower < 1e-9 {
		return 0, false
	}

	freq := float64(maxIdx) / (float64(len(values)) * dt)
	return 1.0 / freq, true
}
