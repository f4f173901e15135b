package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAllocatesPeriodBuffer(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	op := &fakeOpener{}

	require.NoError(t, e.Open(op))

	assert.True(t, e.IsOpen())
	assert.Len(t, e.Buffer(), testParams().PeriodSize*2)
}

func TestOpenFailureLeavesEndpointClosed(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	op := &fakeOpener{errs: []error{ErrSetRate}}

	err := e.Open(op)

	require.ErrorIs(t, err, ErrSetRate)
	assert.False(t, e.IsOpen())
	assert.Nil(t, e.Buffer())
}

func TestOpenWhileOpenIsNoop(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	op := &fakeOpener{}

	require.NoError(t, e.Open(op))
	require.NoError(t, e.Open(op))

	assert.Equal(t, 1, op.opens)
}

func TestCloseIsIdempotent(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	op := &fakeOpener{}
	require.NoError(t, e.Open(op))

	e.Close()
	e.Close()

	assert.Equal(t, 1, op.devs[0].closes)
	assert.False(t, e.IsOpen())
	assert.Nil(t, e.Buffer())
}

func TestCloseWhenNeverOpenedIsNoop(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	e.Close()
	assert.False(t, e.IsOpen())
}

func TestReopenAfterCloseRestoresInvariants(t *testing.T) {
	e := NewEndpoint("r0", testParams(), testLogger())
	op := &fakeOpener{}

	require.NoError(t, e.Open(op))
	e.Close()
	require.NoError(t, e.Open(op))

	assert.Equal(t, 2, op.opens)
	assert.True(t, e.IsOpen())
	assert.Len(t, e.Buffer(), testParams().PeriodSize*2)
}
