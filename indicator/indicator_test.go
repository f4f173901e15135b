package indicator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingIndicator struct {
	states []State
	closes int
}

func (c *countingIndicator) Set(s State) error {
	c.states = append(c.states, s)
	return nil
}

func (c *countingIndicator) Close() error {
	c.closes++
	return nil
}

func TestDedupForwardsOnlyChanges(t *testing.T) {
	inner := &countingIndicator{}
	d := NewDedup(inner)

	for _, s := range []State{StateGreen, StateGreen, StateGreen, StateRed, StateRed, StateGreen} {
		require.NoError(t, d.Set(s))
	}

	assert.Equal(t, []State{StateGreen, StateRed, StateGreen}, inner.states)
}

func TestDedupForwardsInitialOff(t *testing.T) {
	inner := &countingIndicator{}
	d := NewDedup(inner)

	// StateOff is a real update the first time, not the implicit start state.
	require.NoError(t, d.Set(StateOff))
	require.NoError(t, d.Set(StateOff))

	assert.Equal(t, []State{StateOff}, inner.states)
}

func TestDedupCloseReachesWrapped(t *testing.T) {
	inner := &countingIndicator{}
	d := NewDedup(inner)

	require.NoError(t, d.Close())
	assert.Equal(t, 1, inner.closes)
}

func TestSysfsLEDWritesBrightness(t *testing.T) {
	dir := t.TempDir()
	red := filepath.Join(dir, "red")
	green := filepath.Join(dir, "green")
	l := NewSysfsLED(red, green)

	require.NoError(t, l.Set(StateGreen))
	assert.Equal(t, "0", readAttr(t, red))
	assert.Equal(t, "1", readAttr(t, green))

	require.NoError(t, l.Set(StateBoth))
	assert.Equal(t, "1", readAttr(t, red))
	assert.Equal(t, "1", readAttr(t, green))

	require.NoError(t, l.Close())
	assert.Equal(t, "0", readAttr(t, red))
	assert.Equal(t, "0", readAttr(t, green))
}

func TestSysfsLEDEmptyPathsAreNoop(t *testing.T) {
	l := NewSysfsLED("", "")
	assert.NoError(t, l.Set(StateRed))
	assert.NoError(t, l.Close())
}

func TestSysfsLEDReportsWriteFailure(t *testing.T) {
	l := NewSysfsLED(filepath.Join(t.TempDir(), "missing", "red"), "")
	assert.Error(t, l.Set(StateRed))
}

func readAttr(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}
