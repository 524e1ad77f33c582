package webtty

import (
	"github.com/pkg/errors"
)

var (
	// ErrSlaveClosed is returned when the process behind the slave has
	// ended and its output stream is exhausted.
	ErrSlaveClosed = errors.New("slave closed")
	// ErrMasterClosed is returned when the peer connection has closed.
	ErrMasterClosed = errors.New("master closed")
	// ErrAuthFailed ends the session before any process is spawned.
	ErrAuthFailed = errors.New("authentication failed")
)
