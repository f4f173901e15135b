package audio

import "errors"

// Error kinds reported by the device layer. Open negotiates parameters in a
// fixed order and each step fails with its own kind so the log tells exactly
// which one the hardware rejected.
var (
	ErrOpen              = errors.New("unable to open pcm device")
	ErrSetAccess         = errors.New("setting interleaved access failed")
	ErrSetFormat         = errors.New("setting sample format failed")
	ErrSetChannels       = errors.New("setting channel count failed")
	ErrSetRate           = errors.New("setting sample rate failed")
	ErrSetPeriodSize     = errors.New("setting period size failed")
	ErrSetBufferSize     = errors.New("setting buffer size failed")
	ErrSetStartThreshold = errors.New("setting start threshold failed")
	ErrSetStopThreshold  = errors.New("setting stop threshold failed")

	// ErrOverrun means a capture buffer filled faster than it was drained,
	// ErrUnderrun that a playback buffer drained faster than it was refilled.
	// Both are recoverable: the device is re-prepared and the loop goes on.
	ErrOverrun  = errors.New("overrun occurred")
	ErrUnderrun = errors.New("underrun occurred")
)
