package core

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrHangup means the modem capture path failed fatally after routing
	// had started: the remote endpoint is gone. It ends the session, not
	// the process.
	ErrHangup = errors.New("remote endpoint hung up")
)
