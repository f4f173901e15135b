package core

import (
	"github.com/voiceroute/voiceroute-go/aec"
	"github.com/voiceroute/voiceroute-go/audio"
	"github.com/voiceroute/voiceroute-go/indicator"
)

// progressInterval is how many routed periods pass between progress log
// lines; 256 periods of 32 ms is roughly every 8 seconds.
const progressInterval = 256

// route runs the per-period forwarding loop until the session terminates.
// It returns ErrHangup when the modem capture path dies after routing had
// started, nil on cooperative termination.
func (s *Session) route() error {
	for s.State() != StateTerminating {
		// Local capture first, so the recording buffer is always drained,
		// then the modem side, which is the one that can fail.
		switch s.r0.ReadPeriod(s) {
		case audio.OutcomeOK:
		case audio.OutcomeTerminated:
			s.setState(StateTerminating)
			continue
		case audio.OutcomeTransient:
			// A capture gap means missing audio; pulse the indicator and
			// skip forwarding this cycle.
			s.setIndicator(indicator.StateBoth)
			continue
		default:
			continue
		}

		out := s.r1.ReadPeriod(s)
		if out == audio.OutcomeTerminated {
			s.setState(StateTerminating)
			continue
		}
		if out == audio.OutcomeFatal && s.State() == StateRouting {
			s.log.Info("read error after some successful routing (hangup)")
			s.setState(StateTerminating)
			return ErrHangup
		}
		if out != audio.OutcomeOK {
			// Before the first successful period the modem side simply is
			// not up yet; keep retrying capture.
			continue
		}

		if s.State() == StateNotStarted {
			s.setState(StateRouting)
			s.log.Info("voice routing started")
		} else {
			s.progress()
		}

		// The playback buffers still hold the previous cycle's periods at
		// this point; they are the echo references.
		s.cond.Process(s.r0.Buffer(), s.r1.Buffer(), s.p0.Buffer(), s.p1.Buffer())
		s.updateIndicator()

		copy(s.p0.Buffer(), s.r1.Buffer())
		if s.p0.WritePeriod(s) == audio.OutcomeTerminated {
			s.setState(StateTerminating)
			continue
		}

		copy(s.p1.Buffer(), s.r0.Buffer())
		if s.p1.WritePeriod(s) == audio.OutcomeTerminated {
			s.setState(StateTerminating)
			continue
		}
		// Write faults were logged by the endpoint and do not end the
		// session; the capture side is the authoritative hangup signal.
	}
	return nil
}

func (s *Session) progress() {
	s.periods++
	if s.periods%progressInterval == 0 {
		s.log.Debug("routing in progress", "periods", s.periods)
	}
}

func (s *Session) updateIndicator() {
	st := indicator.StateGreen
	if s.cond.Talking() == aec.SideRemote {
		st = indicator.StateRed
	}
	s.setIndicator(st)
}

func (s *Session) setIndicator(st indicator.State) {
	if err := s.ind.Set(st); err != nil {
		s.log.Error("status indicator write failed", "state", st, "error", err)
	}
}
