//go:build windows

package localcommand

import (
	"io"
	"os"
	"os/exec"
	"sync"

	"github.com/pkg/errors"
)

// startPipeShim is the fallback strategy for hosts without ConPTY: the
// command runs behind plain pipes while a local terminal-state tracker
// follows the byte stream for diagnostics. Raw bytes are forwarded to
// the client verbatim; because the child has no real terminal it does
// not echo, so the shim echoes input itself (CR becomes CRLF, Ctrl-C
// and Ctrl-D are forwarded without echo).
func (lcmd *LocalCommand) startPipeShim(size Size) error {
	cmd := exec.Command(lcmd.command, lcmd.argv...)
	cmd.Env = append(os.Environ(),
		"TERM=xterm-256color",
		"COLORTERM=truecolor",
	)
	if lcmd.cwd != "" {
		if info, err := os.Stat(lcmd.cwd); err == nil && info.IsDir() {
			// Best effort only on this path; an unusable cwd is ignored
			// rather than failing the spawn.
			cmd.Dir = lcmd.cwd
		}
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open stdin pipe")
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open stdout pipe")
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return errors.Wrap(err, "failed to open stderr pipe")
	}

	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start command `%s`", lcmd.command)
	}
	lcmd.pid = uint32(cmd.Process.Pid)

	state := newVTState(size.Rows, size.Cols)

	// stdout and stderr are independent streams feeding one tracker
	// and one output channel.
	var readers sync.WaitGroup
	readers.Add(2)
	go lcmd.shimRead(stdout, state, &readers)
	go lcmd.shimRead(stderr, state, &readers)

	writerDone := make(chan struct{})
	go lcmd.shimWrite(stdin, writerDone)

	go func() {
		readers.Wait()
		<-writerDone
		close(lcmd.output)
	}()

	go func() {
		cmd.Wait()
		close(lcmd.ptyClosed)
	}()

	lcmd.resize = func(cols uint16, rows uint16) error {
		state.Resize(rows, cols)
		return nil
	}
	lcmd.terminate = func() error {
		if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return err
		}
		return nil
	}

	return nil
}

func (lcmd *LocalCommand) shimRead(r io.Reader, state *vtState, readers *sync.WaitGroup) {
	defer readers.Done()

	buffer := make([]byte, readBufferSize)
	for {
		n, err := r.Read(buffer)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buffer[:n])
			state.Process(chunk)
			select {
			case lcmd.output <- chunk:
			case <-lcmd.ptyClosed:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (lcmd *LocalCommand) shimWrite(stdin io.WriteCloser, done chan<- struct{}) {
	defer close(done)
	defer stdin.Close()

	for {
		select {
		case data := <-lcmd.input:
			if _, err := stdin.Write(data); err != nil {
				return
			}
			if echo := shimEcho(data); echo != nil {
				select {
				case lcmd.output <- echo:
				case <-lcmd.ptyClosed:
					return
				}
			}
		case <-lcmd.ptyClosed:
			return
		}
	}
}

// shimEcho returns what the shim echoes back for one input write, or
// nil for inputs the real child is never expected to echo.
func shimEcho(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	if len(data) == 1 {
		switch data[0] {
		case 0x03, 0x04: // Ctrl-C, Ctrl-D: forwarded, never echoed
			return nil
		case 0x0d:
			return []byte{0x0d, 0x0a}
		}
	}
	return data
}
