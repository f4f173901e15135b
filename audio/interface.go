package audio

// Direction tells whether an endpoint captures from or plays to its device.
type Direction int

const (
	Capture Direction = iota
	Playback
)

func (d Direction) String() string {
	if d == Capture {
		return "capture"
	}
	return "playback"
}

// HWParams is the hardware configuration negotiated when an endpoint opens.
// All endpoints use interleaved access, S16LE samples, one channel, 8000 Hz.
type HWParams struct {
	DeviceName string
	Direction  Direction
	Channels   int
	SampleRate int
	PeriodSize int // frames moved per transfer
	BufferSize int // hardware ring buffer depth in frames

	// Software start/stop behaviour, playback only. Zero keeps the device
	// default.
	StartThreshold int
	StopThreshold  int
}

// Device is one open half-duplex PCM handle. ReadPeriod and WritePeriod block
// until the device has moved one period or failed; the frame count they return
// is only meaningful when the error is nil or a short transfer happened.
type Device interface {
	ReadPeriod(buf []byte, frames int) (int, error)
	WritePeriod(buf []byte, frames int) (int, error)
	// Prepare returns the device to a ready state after an overrun or
	// underrun so the next transfer does not get stuck.
	Prepare() error
	Close() error
}

// Opener negotiates HWParams against real hardware and hands back an open
// Device. Tests substitute a scripted implementation.
type Opener interface {
	Open(p HWParams) (Device, error)
}

// CancelToken reports whether termination has been requested. It is checked
// at the start of every transfer; once set, no new device I/O is issued.
type CancelToken interface {
	Cancelled() bool
}
