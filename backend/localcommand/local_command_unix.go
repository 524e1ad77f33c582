//go:build !windows

package localcommand

import (
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/creack/pty"
	"github.com/pkg/errors"
)

// LocalCommand owns one child process and its pty master. The process
// and the master descriptor are both released when the process ends or
// Kill is called; the output channel closing signals the end of the
// stream to the session.
type LocalCommand struct {
	command string
	argv    []string

	cwd          string
	closeSignal  int
	closeTimeout time.Duration

	cmd  *exec.Cmd
	ptmx *os.File

	output    chan []byte
	input     chan []byte
	ptyClosed chan struct{}
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

	cmd := exec.Command(command, argv...)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")
	if lcmd.cwd != "" {
		// A bad directory makes Start fail, so spawning in an
		// inaccessible cwd is fatal rather than silently ignored.
		cmd.Dir = lcmd.cwd
	}

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: size.Cols, Rows: size.Rows})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to start command `%s`", command)
	}
	lcmd.cmd = cmd
	lcmd.ptmx = ptmx

	go lcmd.readOutput()
	go lcmd.writeInput()
	go lcmd.reap()

	return lcmd, nil
}

// readOutput forwards pty output in order until the stream ends.
// Closing the channel is how the session learns the process is gone.
func (lcmd *LocalCommand) readOutput() {
	defer close(lcmd.output)

	buffer := make([]byte, readBufferSize)
	for {
		n, err := lcmd.ptmx.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			select {
			case lcmd.output <- chunk:
			case <-lcmd.ptyClosed:
				// nobody is draining anymore; stop instead of
				// holding the chunk forever
				return
			}
		}
		if err != nil {
			// EIO here is the normal end of a pty stream on Linux.
			return
		}
	}
}

func (lcmd *LocalCommand) writeInput() {
	for {
		select {
		case data := <-lcmd.input:
			if _, err := lcmd.ptmx.Write(data); err != nil {
				return
			}
		case <-lcmd.ptyClosed:
			return
		}
	}
}

// reap waits on the child so it never becomes a zombie, then closes
// the master descriptor, which unblocks the reader.
func (lcmd *LocalCommand) reap() {
	lcmd.cmd.Wait()
	lcmd.ptmx.Close()
	close(lcmd.ptyClosed)
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
	err := pty.Setsize(lcmd.ptmx, &pty.Winsize{Cols: cols, Rows: rows})
	if err != nil {
		return errors.Wrap(err, "failed to resize pty")
	}
	return nil
}

// Kill sends the close signal and, if the process ignores it past the
// close timeout, forces termination. Safe to call on an already-exited
// process.
func (lcmd *LocalCommand) Kill() error {
	select {
	case <-lcmd.ptyClosed:
		return nil
	default:
	}

	if lcmd.cmd.Process == nil {
		return nil
	}
	if err := lcmd.cmd.Process.Signal(syscall.Signal(lcmd.closeSignal)); err != nil {
		if errors.Is(err, os.ErrProcessDone) {
			return nil
		}
		return errors.Wrap(err, "failed to signal process")
	}

	select {
	case <-lcmd.ptyClosed:
	case <-time.After(lcmd.closeTimeout):
		if err := lcmd.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return errors.Wrap(err, "failed to kill process")
		}
	}
	return nil
}

func (lcmd *LocalCommand) Pid() uint32 {
	if lcmd.cmd.Process == nil {
		return 0
	}
	return uint32(lcmd.cmd.Process.Pid)
}
