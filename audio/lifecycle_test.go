package audio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRetrySleepsFixedDelayBetweenAttempts(t *testing.T) {
	e := NewEndpoint("p1", testParams(), testLogger())
	op := &fakeOpener{errs: []error{ErrOpen, ErrSetRate, ErrSetBufferSize}}
	l := NewLifecycle(op, testLogger())

	var sleeps []time.Duration
	l.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }

	require.NoError(t, l.OpenRetry(context.Background(), e))

	// three failures, then success on the fourth attempt
	assert.Equal(t, 4, op.opens)
	require.Len(t, sleeps, 3)
	for _, d := range sleeps {
		assert.Equal(t, RetryDelay, d)
	}
	assert.True(t, e.IsOpen())
}

func TestOpenRetryNoSleepOnFirstSuccess(t *testing.T) {
	e := NewEndpoint("p1", testParams(), testLogger())
	l := NewLifecycle(&fakeOpener{}, testLogger())

	slept := false
	l.sleep = func(time.Duration) { slept = true }

	require.NoError(t, l.OpenRetry(context.Background(), e))
	assert.False(t, slept)
}

func TestOpenRetryStopsWhenContextCancelled(t *testing.T) {
	e := NewEndpoint("p1", testParams(), testLogger())
	op := &fakeOpener{failErr: ErrOpen}
	l := NewLifecycle(op, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	l.sleep = func(time.Duration) { cancel() }

	err := l.OpenRetry(ctx, e)

	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, e.IsOpen())
}
