package audio

import (
	"context"
	"log/slog"
	"time"

	"github.com/voiceroute/voiceroute-go/utils"
)

// RetryDelay is the pause between failed open attempts at startup.
const RetryDelay = 100 * time.Millisecond

// Lifecycle opens endpoints against one Opener, retrying failed opens
// forever. The modem card may not exist yet when the daemon comes up, so
// giving up is not an option; only context cancellation stops the retries.
type Lifecycle struct {
	Opener  Opener
	Backoff utils.BackoffStrategy

	log   *slog.Logger
	sleep func(time.Duration) // replaced in tests
}

func NewLifecycle(op Opener, log *slog.Logger) *Lifecycle {
	return &Lifecycle{
		Opener:  op,
		Backoff: utils.FixedDelay{Delay: RetryDelay},
		log:     log,
		sleep:   time.Sleep,
	}
}

// OpenRetry opens the endpoint, closing any partially opened state and
// waiting one backoff delay after each failure. It is used only at startup;
// a mid-loop open failure is surfaced as a fault, never retried here.
func (l *Lifecycle) OpenRetry(ctx context.Context, e *Endpoint) error {
	l.Backoff.Reset()
	for {
		err := e.Open(l.Opener)
		if err == nil {
			return nil
		}
		e.Close()
		delay := l.Backoff.NextDelay()
		l.log.Warn("open failed, retrying", "id", e.ID, "device", e.Params.DeviceName,
			"delay", delay, "error", err)
		l.sleep(delay)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
