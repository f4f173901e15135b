package audio

import "errors"

// Outcome classifies one period transfer. The routing loop reacts to the
// class, never to the underlying device error.
type Outcome int

const (
	// OutcomeOK means exactly one period was moved.
	OutcomeOK Outcome = iota
	// OutcomeTransient is an overrun or underrun; the device has already
	// been re-prepared and the caller must not treat this as loop-fatal.
	OutcomeTransient
	// OutcomeShort is a transfer of fewer frames than one period.
	OutcomeShort
	// OutcomeFatal is any other device failure.
	OutcomeFatal
	// OutcomeTerminated means termination was requested before any I/O.
	OutcomeTerminated
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeTransient:
		return "transient"
	case OutcomeShort:
		return "short"
	case OutcomeFatal:
		return "fatal"
	case OutcomeTerminated:
		return "terminated"
	}
	return "unknown"
}

// ReadPeriod moves one period from the device into the endpoint's buffer.
func (e *Endpoint) ReadPeriod(tok CancelToken) Outcome {
	if tok != nil && tok.Cancelled() {
		return OutcomeTerminated
	}
	n, err := e.dev.ReadPeriod(e.buf, e.Params.PeriodSize)
	switch {
	case err == nil && n == e.Params.PeriodSize:
		return OutcomeOK
	case errors.Is(err, ErrOverrun):
		e.log.Warn("overrun occurred")
		e.prepare()
		return OutcomeTransient
	case err != nil:
		e.log.Error("pcm read failed", "error", err)
		return OutcomeFatal
	default:
		e.log.Warn("short read", "frames", n, "period", e.Params.PeriodSize)
		return OutcomeShort
	}
}

// WritePeriod moves one period from the endpoint's buffer to the device.
func (e *Endpoint) WritePeriod(tok CancelToken) Outcome {
	if tok != nil && tok.Cancelled() {
		return OutcomeTerminated
	}
	n, err := e.dev.WritePeriod(e.buf, e.Params.PeriodSize)
	switch {
	case err == nil && n == e.Params.PeriodSize:
		return OutcomeOK
	case errors.Is(err, ErrUnderrun):
		e.log.Warn("underrun occurred")
		e.prepare()
		return OutcomeTransient
	case err != nil:
		e.log.Error("pcm write failed", "error", err)
		return OutcomeFatal
	default:
		e.log.Warn("short write", "frames", n, "period", e.Params.PeriodSize)
		return OutcomeShort
	}
}

func (e *Endpoint) prepare() {
	if err := e.dev.Prepare(); err != nil {
		e.log.Error("pcm prepare failed", "error", err)
	}
}
