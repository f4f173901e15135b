// Package aec conditions captured voice periods before they are forwarded,
// removing or suppressing the acoustic echo that leaks from a playback path
// back into the capture path on the same physical endpoint.
package aec

import "fmt"

// Conditioner strategy names, selected at configuration time.
const (
	ModeOff      = "off"
	ModeNLMS     = "nlms"
	ModeSuppress = "suppress"
)

// Side identifies which half of the duplex path is speaking.
type Side int

const (
	SideNone Side = iota
	SideLocal
	SideRemote
)

func (s Side) String() string {
	switch s {
	case SideLocal:
		return "local"
	case SideRemote:
		return "remote"
	}
	return "none"
}

// Conditioner cleans captured audio once per routed period. All buffers hold
// one period of S16LE mono samples.
//
// Process may modify localCap (the local microphone period about to be
// forwarded to the remote playback endpoint) and remoteCap (the remote period
// about to be played locally) in place. localRef and remoteRef hold the
// periods most recently written to the local and remote playback endpoints;
// they serve as echo references and are never modified.
type Conditioner interface {
	Process(localCap, remoteCap, localRef, remoteRef []byte)
	// Talking reports which side the conditioner last judged to be
	// speaking, SideNone when it has no opinion.
	Talking() Side
	Close()
}

// Options tunes the selected strategy; zero values pick the defaults.
type Options struct {
	Taps   int // nlms filter length in samples
	Margin int // suppress energy margin on the 16-bit sample scale
}

// New selects a conditioner strategy by name.
func New(mode string, opts Options) (Conditioner, error) {
	switch mode {
	case "", ModeOff:
		return Identity{}, nil
	case ModeNLMS:
		return NewNLMS(opts.Taps), nil
	case ModeSuppress:
		return NewSuppressor(opts.Margin), nil
	}
	return nil, fmt.Errorf("unknown aec mode %q", mode)
}

// Identity leaves both signals untouched.
type Identity struct{}

func (Identity) Process(localCap, remoteCap, localRef, remoteRef []byte) {}

func (Identity) Talking() Side { return SideNone }

func (Identity) Close() {}

func sample16(b []byte, i int) float64 {
	return float64(int16(b[i*2]) | int16(b[i*2+1])<<8)
}

func putSample16(b []byte, i int, v float64) {
	s := int16(v)
	b[i*2] = byte(s)
	b[i*2+1] = byte(s >> 8)
}
