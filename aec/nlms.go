package aec

import "math"

// Adaptive echo cancellation with the NLMS-pw algorithm: a normalized least
// mean square filter over pre-whitened signals, gated by a Geigel double-talk
// detector. The filter models the acoustic path from the local speaker back
// into the local microphone; its state persists across periods and is reset
// only by creating a new instance.

// DefaultTaps is the filter length in samples. Longer filters cancel more
// reverberation but converge slower; 640 taps is 80 ms at 8 kHz.
const DefaultTaps = 80 * 8

const (
	maxPCM = 32767.0

	// stepSize is the convergence speed, >0 and <1. Larger values give more
	// cancellation in low frequencies at the cost of the high end.
	stepSize = 0.7

	// minXF is the assumed ambient microphone noise floor (-75 dB PCM).
	minXF = 6.0

	// geigelThreshold (-6 dB) declares near-end talk when the microphone
	// level reaches half the recent speaker maximum.
	geigelThreshold = 0.5

	// dtdHangover keeps the detector asserted for 30 ms after double talk.
	dtdHangover = 30 * 8

	// nlpAttenuation (-12 dB) is applied by the non-linear processor while
	// only the far end is talking.
	nlpAttenuation = 0.25

	// nlmsExt extends the delay lines so the window can slide without a
	// copy on every sample.
	nlmsExt = 10 * 8

	// dtdLen is the block size for the detector's running maximum.
	dtdLen = 16

	// ambientInit seeds the ambient level estimate at -80 dB PCM.
	ambientInit = 3.0
)

// iirHP subtracts an exponential smoothing lowpass from the signal, removing
// the DC level.
type iirHP struct{ x float64 }

func (f *iirHP) highpass(in float64) float64 {
	const a0 = 0.01
	f.x += a0 * (in - f.x)
	return in - f.x
}

// firHP13 is a 13 tap Kaiser window highpass with 300 Hz cut-off; telephone
// users are used to no bass.
type firHP13 struct{ z [14]float64 }

var firHP13Coeffs = [14]float64{
	-0.043183226, -0.046636667, -0.049576525, -0.051936015,
	-0.053661242, -0.054712527, 0.82598513, -0.054712527,
	-0.053661242, -0.051936015, -0.049576525, -0.046636667,
	-0.043183226, 0.0,
}

func (f *firHP13) highpass(in float64) float64 {
	copy(f.z[1:], f.z[:13])
	f.z[0] = in
	var sum float64
	for j, c := range firHP13Coeffs {
		sum += c * f.z[j]
	}
	return sum
}

// iir1 is a single pole Chebyshev highpass (3700 Hz passband) used to
// pre-whiten the reference and error signals.
type iir1 struct{ x, y float64 }

func (f *iir1) highpass(in float64) float64 {
	const (
		a0 = 0.105831884
		a1 = -0.105831884
		b1 = 0.78833646
	)
	out := a0*in + a1*f.x + b1*f.y
	f.x, f.y = in, out
	return out
}

// NLMS is the adaptive canceller. Not safe for concurrent use; the routing
// loop is strictly sequential.
type NLMS struct {
	taps int

	hp00, hp1 iirHP   // DC removal for mic and speaker
	hp0       firHP13 // 300 Hz cut-off for the mic
	fx, fe    iir1    // pre-whitening for reference and error

	// Geigel double-talk detector state.
	maxMaxX        float64
	hangover       int
	maxX           []float64
	dtdCnt, dtdNdx int

	// Filter state. x and xf are tap delay lines with the newest sample at
	// index j; w holds the tap weights.
	x, xf       []float64
	w           []float64
	j           int
	dotpXfXf    float64
	minDotpXfXf float64
	s0avg       float64
}

// NewNLMS creates a canceller with the given filter length in samples.
// Non-positive taps select DefaultTaps; the length is rounded up to a
// multiple of the detector block size.
func NewNLMS(taps int) *NLMS {
	if taps <= 0 {
		taps = DefaultTaps
	}
	if r := taps % dtdLen; r != 0 {
		taps += dtdLen - r
	}
	a := &NLMS{
		taps:  taps,
		maxX:  make([]float64, taps/dtdLen),
		x:     make([]float64, taps+nlmsExt),
		xf:    make([]float64, taps+nlmsExt),
		w:     make([]float64, taps),
		j:     nlmsExt,
		s0avg: ambientInit,
	}
	a.SetAmbient(minXF)
	return a
}

// SetAmbient tunes the assumed microphone noise floor, given as a PCM level.
func (a *NLMS) SetAmbient(level float64) {
	a.minDotpXfXf = float64(a.taps) * level * level
	a.dotpXfXf = a.minDotpXfXf
}

// Ambient is the running estimate of the microphone's ambient level.
func (a *NLMS) Ambient() float64 {
	return a.s0avg
}

func (a *NLMS) Process(localCap, remoteCap, localRef, remoteRef []byte) {
	// The echo reference is what the local speaker played one period ago;
	// the remote playback signal leaves the building and cannot couple back
	// into the local microphone.
	n := len(localCap) / 2
	for i := 0; i < n; i++ {
		mic := sample16(localCap, i)
		spk := sample16(localRef, i)
		putSample16(localCap, i, a.cancelSample(mic, spk))
	}
}

func (a *NLMS) Talking() Side {
	if a.hangover > 0 {
		return SideLocal
	}
	return SideNone
}

func (a *NLMS) Close() {}

// cancelSample removes the estimated echo of the speaker sample x from the
// microphone sample d and returns the cleaned sample.
func (a *NLMS) cancelSample(d, x float64) float64 {
	s0 := a.hp00.highpass(d)
	s0 = a.hp0.highpass(s0)

	// ambient mic level estimation
	a.s0avg += 1e-4 * (math.Abs(s0) - a.s0avg)

	s1 := a.hp1.highpass(x)

	update := !a.dtd(s0, s1)
	s0 = a.nlmsPW(s0, s1, update)
	if update {
		// Non-linear processor: attenuate while only the far end talks.
		s0 *= nlpAttenuation
	}

	if s0 > maxPCM {
		return maxPCM
	}
	if s0 < -maxPCM {
		return -maxPCM
	}
	return math.Round(s0)
}

// dtd is the Geigel double-talk detector: near-end talk is declared while the
// microphone level reaches geigelThreshold times the recent speaker maximum,
// held for dtdHangover samples. The maximum is tracked per dtdLen block to
// avoid scanning the whole delay line every sample.
func (a *NLMS) dtd(d, x float64) bool {
	x = math.Abs(x)
	if x > a.maxX[a.dtdNdx] {
		a.maxX[a.dtdNdx] = x
		if x > a.maxMaxX {
			a.maxMaxX = x
		}
	}
	a.dtdCnt++
	if a.dtdCnt >= dtdLen {
		a.dtdCnt = 0
		a.maxMaxX = 0
		for _, m := range a.maxX {
			if m > a.maxMaxX {
				a.maxMaxX = m
			}
		}
		a.dtdNdx++
		if a.dtdNdx >= len(a.maxX) {
			a.dtdNdx = 0
		}
		a.maxX[a.dtdNdx] = 0
	}

	if math.Abs(d) >= geigelThreshold*a.maxMaxX {
		a.hangover = dtdHangover
	}
	if a.hangover > 0 {
		a.hangover--
	}
	return a.hangover > 0
}

// nlmsPW runs one sample of the normalized LMS filter over pre-whitened
// signals, updating the tap weights unless double talk was detected.
func (a *NLMS) nlmsPW(mic, spk float64, update bool) float64 {
	a.x[a.j] = spk
	a.xf[a.j] = a.fx.highpass(spk)

	e := mic - dotp(a.w, a.x[a.j:])
	ef := a.fe.highpass(e)

	// iterative dotp(xf, xf): add the sample entering the window, drop the
	// one leaving it
	last := a.xf[a.j+a.taps-1]
	a.dotpXfXf += a.xf[a.j]*a.xf[a.j] - last*last

	if update {
		mu := stepSize * ef / a.dotpXfXf
		for i := 0; i < a.taps; i++ {
			a.w[i] += mu * a.xf[a.j+i]
		}
	}

	a.j--
	if a.j < 0 {
		// slide the window back to the extension area instead of moving
		// memory on every sample
		a.j = nlmsExt
		copy(a.x[a.j+1:], a.x[:a.taps-1])
		copy(a.xf[a.j+1:], a.xf[:a.taps-1])
	}
	return e
}

func dotp(w, x []float64) float64 {
	var sum float64
	for i := range w {
		sum += w[i] * x[i]
	}
	return sum
}
