package aec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func meanAbsPeriod(b []byte) float64 {
	n := len(b) / 2
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(sample16(b, i))
	}
	return sum / float64(n)
}

// Pure far-end echo: the microphone hears nothing but a scaled copy of what
// the speaker played. After convergence the residual must be well below the
// echo level.
func TestNLMSCancelsPureEcho(t *testing.T) {
	a := NewNLMS(128)
	const (
		period = 160
		rate   = 8000
		freq   = 500
	)

	var echoIn, residual float64
	for p := 0; p < 50; p++ {
		spk := sinePeriod(period, 8000, freq, rate, p*period)
		mic := sinePeriod(period, 2000, freq, rate, p*period) // 0.25x echo

		in := meanAbsPeriod(mic)
		a.Process(mic, nil, spk, nil)
		out := meanAbsPeriod(mic)

		// measure the steady state over the last ten periods
		if p >= 40 {
			echoIn += in
			residual += out
		}
	}

	require.Positive(t, echoIn)
	assert.Less(t, residual, 0.35*echoIn,
		"expected the adaptive filter to remove most of the echo")
}

func TestNLMSDetectsNearEndTalk(t *testing.T) {
	a := NewNLMS(128)
	const period = 160

	// loud microphone against a quiet speaker reference is near-end talk
	for p := 0; p < 4; p++ {
		mic := sinePeriod(period, 12000, 500, 8000, p*period)
		spk := constantPeriod(period, 10)
		a.Process(mic, nil, spk, nil)
	}
	assert.Equal(t, SideLocal, a.Talking())
}

func TestNLMSTapsRoundedToDetectorBlocks(t *testing.T) {
	a := NewNLMS(100)
	assert.Equal(t, 0, a.taps%dtdLen)
	assert.GreaterOrEqual(t, a.taps, 100)

	assert.Equal(t, DefaultTaps, NewNLMS(0).taps)
}

func TestNLMSSetAmbient(t *testing.T) {
	a := NewNLMS(128)
	a.SetAmbient(100)
	assert.InDelta(t, float64(a.taps)*100*100, a.dotpXfXf, 1e-9)
}

func TestNLMSOutputStaysInRange(t *testing.T) {
	a := NewNLMS(128)
	const period = 160

	for p := 0; p < 10; p++ {
		mic := constantPeriod(period, 32767)
		spk := constantPeriod(period, -32768)
		a.Process(mic, nil, spk, nil)
		for i := 0; i < period; i++ {
			v := sample16(mic, i)
			assert.LessOrEqual(t, v, maxPCM)
			assert.GreaterOrEqual(t, v, -maxPCM)
		}
	}
}
