package localcommand

import (
	"time"
)

const (
	DefaultCloseSignal  = 15 // SIGTERM
	DefaultCloseTimeout = 10 * time.Second
)

// Options configures process spawning. The struct tags feed the config
// file and CLI flag layers.
type Options struct {
	CloseSignal  int    `hcl:"close_signal" flagName:"close-signal" flagDescribe:"Signal sent to the process when the session closes (POSIX only)" default:"15"`
	CloseTimeout int    `hcl:"close_timeout" flagName:"close-timeout" flagDescribe:"Seconds to wait for the process to exit after the close signal before forcing termination" default:"10"`
	Cwd          string `hcl:"cwd" flagName:"cwd" flagSName:"w" flagDescribe:"Working directory for the spawned process" default:""`
}

type Option func(*LocalCommand)

func WithCloseSignal(signal int) Option {
	return func(lcmd *LocalCommand) {
		lcmd.closeSignal = signal
	}
}

func WithCloseTimeout(timeout time.Duration) Option {
	return func(lcmd *LocalCommand) {
		lcmd.closeTimeout = timeout
	}
}

func WithCwd(cwd string) Option {
	return func(lcmd *LocalCommand) {
		lcmd.cwd = cwd
	}
}
