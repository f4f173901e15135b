package audio

import (
	"fmt"
	"log/slog"
)

const bytesPerSample = 2 // S16LE, one channel

// Endpoint is one half-duplex connection to a physical audio device. It owns
// its device handle and its period buffer; both exist exactly when the
// endpoint is open. The period buffer is reused for every transfer, nothing
// is allocated in the hot path.
type Endpoint struct {
	ID     string
	Params HWParams

	log *slog.Logger
	dev Device
	buf []byte
}

func NewEndpoint(id string, p HWParams, log *slog.Logger) *Endpoint {
	return &Endpoint{
		ID:     id,
		Params: p,
		log:    log.With("id", id, "device", p.DeviceName),
	}
}

// Open negotiates the endpoint's parameters and allocates its period buffer.
// It is all-or-nothing: on any failure the endpoint is left fully closed.
// Opening an already open endpoint is a no-op.
func (e *Endpoint) Open(op Opener) error {
	if e.dev != nil {
		return nil
	}
	dev, err := op.Open(e.Params)
	if err != nil {
		e.Close()
		return fmt.Errorf("open %s %s: %w", e.ID, e.Params.Direction, err)
	}
	e.dev = dev
	e.buf = make([]byte, e.Params.PeriodSize*bytesPerSample)
	return nil
}

// Close releases the device handle and the period buffer. Closing an already
// closed endpoint is a no-op, so cleanup can run more than once safely.
func (e *Endpoint) Close() {
	if e.dev != nil {
		if err := e.dev.Close(); err != nil {
			e.log.Error("closing pcm device failed", "error", err)
		}
		e.dev = nil
	}
	e.buf = nil
}

// IsOpen reports whether the endpoint holds a device handle and buffer.
func (e *Endpoint) IsOpen() bool {
	return e.dev != nil
}

// Buffer is the endpoint's period buffer. It is nil while the endpoint is
// closed and exactly PeriodSize*2 bytes while open.
func (e *Endpoint) Buffer() []byte {
	return e.buf
}
