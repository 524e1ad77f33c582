//go:build windows

package localcommand

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/UserExistsError/conpty"
	"github.com/pkg/errors"
)

// LocalCommand owns one child process behind either a Windows
// pseudo-console or, when ConPTY is unavailable, a plain-pipe shim
// that emulates the few terminal behaviors clients depend on. Both
// strategies present the same channel bridge.
type LocalCommand struct {
	command string
	argv    []string

	cwd          string
	closeSignal  int
	closeTimeout time.Duration

	pid uint32

	output    chan []byte
	input     chan []byte
	ptyClosed chan struct{}

	resize    func(cols uint16, rows uint16) error
	terminate func() error
}

func New(command string, argv []string, size Size, options ...Option) (*LocalCommand, error) {
	size = size.orDefault()

	lcmd := &LocalCommand{
		command: command,
		argv:    argv,

		closeSignal:  DefaultCloseSignal,
		closeTimeout: DefaultCloseTimeout,

		output:    make(chan []byte, channelDepth),
		input:     make(chan []byte, channelDepth),
		ptyClosed: make(chan struct{}),
	}
	for _, option := range options {
		option(lcmd)
	}

	var err error
	if conpty.IsConPtyAvailable() {
		err = lcmd.startConPty(size)
	} else {
		err = lcmd.startPipeShim(size)
	}
	if err != nil {
		return nil, err
	}
	return lcmd, nil
}

// startConPty launches the command attached to an OS pseudo-console
// and bridges its pipe pair to the output and input channels.
func (lcmd *LocalCommand) startConPty(size Size) error {
	cmdLine := lcmd.command
	if len(lcmd.argv) > 0 {
		cmdLine = lcmd.command + " " + strings.Join(lcmd.argv, " ")
	}

	env := append(os.Environ(), "TERM=xterm-256color")
	opts := []conpty.ConPtyOption{
		conpty.ConPtyDimensions(int(size.Cols), int(size.Rows)),
		conpty.ConPtyEnv(env),
	}
	if lcmd.cwd != "" {
		opts = append(opts, conpty.ConPtyWorkDir(lcmd.cwd))
	}

	cpty, err := conpty.Start(cmdLine, opts...)
	if err != nil {
		return errors.Wrapf(err, "failed to start command `%s`", lcmd.command)
	}
	lcmd.pid = uint32(cpty.Pid())

	go func() {
		defer close(lcmd.output)
		buffer := make([]byte, readBufferSize)
		for {
			n, err := cpty.Read(buffer)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buffer[:n])
				lcmd.output <- chunk
			}
			if err != nil {
				return
			}
		}
	}()

	go func() {
		for {
			select {
			case data := <-lcmd.input:
				if _, err := cpty.Write(data); err != nil {
					return
				}
			case <-lcmd.ptyClosed:
				return
			}
		}
	}()

	go func() {
		_, _ = cpty.Wait(context.Background())
		cpty.Close()
		close(lcmd.ptyClosed)
	}()

	lcmd.resize = func(cols uint16, rows uint16) error {
		return cpty.Resize(int(cols), int(rows))
	}
	// Closing the pseudo-console terminates the attached process.
	lcmd.terminate = cpty.Close

	return nil
}

func (lcmd *LocalCommand) Output() <-chan []byte {
	return lcmd.output
}

// Write queues p for the process in order. It never blocks: when the
// input queue is full the write is shed and reported.
func (lcmd *LocalCommand) Write(p []byte) error {
	select {
	case <-lcmd.ptyClosed:
		return errors.New("process has exited")
	case lcmd.input <- p:
		return nil
	default:
		return errors.New("input queue full, dropping write")
	}
}

func (lcmd *LocalCommand) Resize(cols uint16, rows uint16) error {
	err := lcmd.resize(cols, rows)
	if err != nil {
		return errors.Wrap(err, "failed to resize pseudo console")
	}
	return nil
}

// Kill forcibly terminates the process. Safe to call on an
// already-exited process.
func (lcmd *LocalCommand) Kill() error {
	select {
	case <-lcmd.ptyClosed:
		return nil
	default:
	}
	if err := lcmd.terminate(); err != nil {
		return errors.Wrap(err, "failed to terminate process")
	}
	return nil
}

func (lcmd *LocalCommand) Pid() uint32 {
	return lcmd.pid
}
