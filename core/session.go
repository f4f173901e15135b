// Package core drives the duplex voice path. Four streams are involved,
// named after the original hardware layout: r0 and p0 capture from and play
// to the local sound card, r1 and p1 do the same for the modem card. Every
// loop iteration moves one period from each capture side to the opposite
// playback side.
package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/voiceroute/voiceroute-go/aec"
	"github.com/voiceroute/voiceroute-go/audio"
	"github.com/voiceroute/voiceroute-go/indicator"
)

// RouteState is the session's position in its lifecycle. Terminating is
// absorbing: once reached, the only thing left is the single cleanup pass.
type RouteState int32

const (
	StateNotStarted RouteState = iota
	StateRouting
	StateTerminating
)

func (s RouteState) String() string {
	switch s {
	case StateRouting:
		return "routing"
	case StateTerminating:
		return "terminating"
	}
	return "not_started"
}

// Session owns everything one voice call needs: the four endpoints, the echo
// conditioner, the status indicator and the termination flag. The loop itself
// is strictly sequential; only Terminate may be called from another
// goroutine.
type Session struct {
	cfg  Config
	log  *slog.Logger
	life *audio.Lifecycle
	cond aec.Conditioner
	ind  *indicator.Dedup

	r0, r1, p0, p1 *audio.Endpoint

	state       atomic.Int32
	terminated  atomic.Bool
	cleanupOnce sync.Once
	periods     uint64
}

func NewSession(cfg Config, log *slog.Logger, op audio.Opener, cond aec.Conditioner, ind indicator.Indicator) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cond == nil {
		cond = aec.Identity{}
	}
	if ind == nil {
		ind = indicator.Nop{}
	}

	s := &Session{
		cfg:  cfg,
		log:  log,
		life: audio.NewLifecycle(op, log),
		cond: cond,
		ind:  indicator.NewDedup(ind),
	}
	s.r0 = audio.NewEndpoint("r0", s.hwParams(cfg.Devices.Local, audio.Capture), log)
	s.p0 = audio.NewEndpoint("p0", s.hwParams(cfg.Devices.Local, audio.Playback), log)
	s.r1 = audio.NewEndpoint("r1", s.hwParams(cfg.Devices.Remote, audio.Capture), log)
	s.p1 = audio.NewEndpoint("p1", s.hwParams(cfg.Devices.Remote, audio.Playback), log)
	return s, nil
}

func (s *Session) hwParams(device string, dir audio.Direction) audio.HWParams {
	p := audio.HWParams{
		DeviceName: device,
		Direction:  dir,
		Channels:   1,
		SampleRate: s.cfg.Audio.SampleRate,
		PeriodSize: s.cfg.Audio.PeriodSize,
		BufferSize: s.cfg.Audio.BufferSize,
	}
	if dir == audio.Playback {
		p.StartThreshold = s.cfg.Audio.StartThreshold
		p.StopThreshold = s.cfg.Audio.StopThreshold
	}
	return p
}

func (s *Session) State() RouteState {
	return RouteState(s.state.Load())
}

func (s *Session) setState(st RouteState) {
	s.state.Store(int32(st))
}

// Terminate requests cooperative termination. It is safe to call from a
// signal handler goroutine and more than once; the loop notices the flag at
// its next transfer and runs cleanup exactly once.
func (s *Session) Terminate() {
	s.terminated.Store(true)
}

// Cancelled implements audio.CancelToken.
func (s *Session) Cancelled() bool {
	return s.terminated.Load()
}

// Run opens the endpoints, routes until hangup or termination and cleans up.
// Remote hangup is a normal end of call, not an error.
func (s *Session) Run(ctx context.Context) error {
	defer s.cleanup()
	if err := s.openAll(ctx); err != nil {
		return err
	}
	err := s.route()
	if errors.Is(err, ErrHangup) {
		return nil
	}
	return err
}

func (s *Session) openAll(ctx context.Context) error {
	// Modem card first: it is the side likely to be missing while a call is
	// being set up, and the local card should not hold resources while we
	// wait for it.
	for _, e := range []*audio.Endpoint{s.p1, s.r1, s.p0, s.r0} {
		if err := s.life.OpenRetry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

// cleanup runs exactly once, no matter how many times the loop or a signal
// gets here: close every endpoint, release the conditioner, reset the
// indicator.
func (s *Session) cleanup() {
	s.cleanupOnce.Do(func() {
		s.setState(StateTerminating)
		for _, e := range []*audio.Endpoint{s.p0, s.p1, s.r0, s.r1} {
			e.Close()
		}
		s.cond.Close()
		if err := s.ind.Close(); err != nil {
			s.log.Error("status indicator reset failed", "error", err)
		}
		s.log.Info("voice routing stopped", "periods", s.periods)
	})
}
