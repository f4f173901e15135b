package aec

import "math"

// DefaultMargin is the energy difference, on the 16-bit sample scale, that
// one side must exceed the other by before suppression kicks in.
const DefaultMargin = 10000

const (
	suppressGain = 0.125 // quieter side, toward silence
	boostGain    = 2.0   // louder side
)

// Suppressor approximates echo cancellation with half-duplex operation: the
// side with clearly more signal energy is treated as the talker and the other
// side is attenuated toward silence, like a walkie-talkie. Much cheaper than
// the adaptive filter and good enough for handset use.
type Suppressor struct {
	margin  float64
	talking Side
}

func NewSuppressor(margin int) *Suppressor {
	if margin <= 0 {
		margin = DefaultMargin
	}
	return &Suppressor{margin: float64(margin)}
}

func (s *Suppressor) Process(localCap, remoteCap, localRef, remoteRef []byte) {
	local := meanAbs(localCap)
	remote := meanAbs(remoteCap)

	switch {
	case local > remote+s.margin:
		s.talking = SideLocal
		scale(localCap, boostGain)
		scale(remoteCap, suppressGain)
	case remote > local+s.margin:
		s.talking = SideRemote
		scale(remoteCap, boostGain)
		scale(localCap, suppressGain)
	}
	// Near-equal energy leaves both sides as they are and the talker
	// indication latched.
}

func (s *Suppressor) Talking() Side {
	return s.talking
}

func (s *Suppressor) Close() {}

func meanAbs(b []byte) float64 {
	n := len(b) / 2
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(sample16(b, i))
	}
	return sum / float64(n)
}

func scale(b []byte, gain float64) {
	n := len(b) / 2
	for i := 0; i < n; i++ {
		v := sample16(b, i) * gain
		if v > maxPCM {
			v = maxPCM
		} else if v < -maxPCM {
			v = -maxPCM
		}
		putSample16(b, i, v)
	}
}
