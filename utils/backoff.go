package utils

import "time"

// BackoffStrategy decides how long to wait before the next retry attempt.
type BackoffStrategy interface {
	NextDelay() time.Duration
	Reset()
}

// FixedDelay waits the same duration between every attempt. Device opens are
// retried at a constant rate; there is no point backing off further while
// waiting for a modem card to appear.
type FixedDelay struct {
	Delay time.Duration
}

func (f FixedDelay) NextDelay() time.Duration {
	return f.Delay
}

func (f FixedDelay) Reset() {}
