package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrNoSignal = errors.New("analysis: series has no variation")
)

// MinSamples is the shortest series OrbitalPeriod accepts.
const MinSamples = 8

// PowerSpectrum returns the magnitudes of the first half of the spectrum of
// data, zero-padded to a power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	spectrum := fft.FFTReal(padPow2(data))
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// OrbitalPeriod estimates the dominant period of series, sampled every dt
// days, in days. The mean is removed and a Hann window applied before the
// transform; the peak bin is refined by parabolic interpolation.
func OrbitalPeriod(series []float64, dt float64) (float64, error) {
	n := len(series)
	if n < MinSamples {
		return 0, ErrTooShort
	}

	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(n)

	spread := 0.0
	windowed := make([]float64, n)
	for i, v := range series {
		d := v - mean
		spread = math.Max(spread, math.Abs(d))
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		windowed[i] = d * w
	}
	if spread <= 1e-12*(math.Abs(mean)+1) {
		return 0, ErrNoSignal
	}

	ps := PowerSpectrum(windowed)
	size := 2 * len(ps)

	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if ps[peak] == 0 {
		return 0, ErrNoSignal
	}

	bin := float64(peak)
	if peak+1 < len(ps) {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return float64(size) * dt / bin, nil
}

func padPow2(data []float64) []float64 {
	n := 1
	for n < len(data) {
		n <<= 1
	}
	out := make([]float64, n)
	copy(out, data)
	return out
}
