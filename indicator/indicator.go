// Package indicator drives a two-colour status signal for the voice path.
// The hardware is written only on state change, never every period.
package indicator

// State of the two-colour indicator.
type State int

const (
	StateOff   State = iota
	StateGreen       // local side talking, routing healthy
	StateRed         // remote side talking
	StateBoth        // pulsed on a capture data gap
)

func (s State) String() string {
	switch s {
	case StateGreen:
		return "green"
	case StateRed:
		return "red"
	case StateBoth:
		return "both"
	}
	return "off"
}

// Indicator is the capability contract for the status signal. Implementations
// need not deduplicate; wrap them in Dedup for that.
type Indicator interface {
	Set(s State) error
	Close() error
}

// Nop discards all updates. Used when no indicator hardware is configured
// and as the test stand-in.
type Nop struct{}

func (Nop) Set(State) error { return nil }

func (Nop) Close() error { return nil }

// Dedup forwards only state changes to the wrapped indicator, so the routing
// loop can report its state every period without hammering sysfs.
type Dedup struct {
	ind Indicator
	cur State
	set bool
}

func NewDedup(ind Indicator) *Dedup {
	return &Dedup{ind: ind}
}

func (d *Dedup) Set(s State) error {
	if d.set && s == d.cur {
		return nil
	}
	if err := d.ind.Set(s); err != nil {
		return err
	}
	d.cur = s
	d.set = true
	return nil
}

func (d *Dedup) Close() error {
	return d.ind.Close()
}
